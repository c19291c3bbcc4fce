//go:build !linux

package notify

// New returns Nop; there is no notification service to reach.
func New() (Notifier, error) {
	return Nop{}, nil
}
