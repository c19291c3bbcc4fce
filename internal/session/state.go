package session

// State is the idle loop's position in its state machine.
type State int

const (
	StateStopped State = iota
	StateStarting
	StateWaiting
	StateNotified
	StateRefreshing
	StateStopping
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateStarting:
		return "Starting"
	case StateWaiting:
		return "Waiting"
	case StateNotified:
		return "Notified"
	case StateRefreshing:
		return "Refreshing"
	case StateStopping:
		return "Stopping"
	default:
		return "Unknown"
	}
}

// IsRunning reports whether a loop is active.
func (s State) IsRunning() bool {
	return s != StateStopped
}
