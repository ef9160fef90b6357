//go:build linux

package notify

import (
	"github.com/godbus/dbus/v5"
)

const (
	appName    = "wavestream"
	busName    = "org.freedesktop.Notifications"
	objectPath = "/org/freedesktop/Notifications"
)

// Bus sends notifications to the session notification server.
type Bus struct {
	obj dbus.BusObject
}

var _ Notifier = (*Bus)(nil)

// New connects to the session bus. Without a session bus it returns Nop so
// callers need not check for a desktop.
func New() (Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return Nop{}, nil //nolint:nilerr // no session bus, notifications are skipped
	}
	return &Bus{obj: conn.Object(busName, objectPath)}, nil
}

func hints(n Notification) map[string]dbus.Variant {
	return map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(n.Urgency)),
		"desktop-entry": dbus.MakeVariant(appName),
	}
}

// Notify calls org.freedesktop.Notifications.Notify.
func (b *Bus) Notify(n Notification) (uint32, error) {
	var id uint32
	err := b.obj.Call(busName+".Notify", 0,
		appName,
		n.Replaces,
		n.Icon,
		n.Summary,
		n.Body,
		[]string{},
		hints(n),
		expireTimeout(n.Timeout),
	).Store(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Close dismisses a notification.
func (b *Bus) Close(id uint32) error {
	return b.obj.Call(busName+".CloseNotification", 0, id).Err
}
