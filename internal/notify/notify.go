// Package notify sends now-playing desktop notifications over the
// freedesktop notification service.
package notify

const appName = "mpdlive"

// Urgency is the freedesktop urgency hint.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// Notification is one message for the notification service.
type Notification struct {
	Title      string
	Body       string
	Icon       string // icon name, or absolute path to an image
	Timeout    int32  // ms; -1 server default, 0 never expire
	ReplacesID uint32 // 0 opens a new notification
	Urgency    Urgency
	Transient  bool // keep out of the notification history
}

// Notifier sends and withdraws notifications.
type Notifier interface {
	// Notify shows n and returns its ID. A Notifier without a service
	// returns 0 and no error.
	Notify(n Notification) (uint32, error)
	Close(id uint32) error
}

// Nop discards every notification.
type Nop struct{}

func (Nop) Notify(Notification) (uint32, error) { return 0, nil }
func (Nop) Close(uint32) error                  { return nil }
