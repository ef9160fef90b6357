// Package notify shows desktop notifications for track changes and
// playback errors.
package notify

import "time"

// Urgency is the freedesktop notification urgency hint.
type Urgency byte

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Notification is one desktop notification.
type Notification struct {
	Summary string
	Body    string
	Icon    string        // icon name or image path
	Timeout time.Duration // negative for the server default, 0 never expires
	// Replaces is the ID of a notification to update in place, 0 for a new one.
	Replaces uint32
	Urgency  Urgency
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify shows n and returns its ID. A notifier without a server
	// returns 0 and no error.
	Notify(n Notification) (uint32, error)
	Close(id uint32) error
}

// Nop discards notifications.
type Nop struct{}

func (Nop) Notify(Notification) (uint32, error) { return 0, nil }
func (Nop) Close(uint32) error                  { return nil }

// expireTimeout converts a timeout to the milliseconds D-Bus expects.
func expireTimeout(d time.Duration) int32 {
	if d < 0 {
		return -1
	}
	return int32(min(d.Milliseconds(), int64(1<<31-1))) //nolint:gosec // clamped
}
