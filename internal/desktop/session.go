// Package desktop talks to the freedesktop session services over D-Bus.
package desktop

import (
	"context"

	"github.com/godbus/dbus/v5"
	"github.com/pkg/errors"
)

const (
	screenSaverBus   = "org.freedesktop.ScreenSaver"
	screenSaverPath  = "/org/freedesktop/ScreenSaver"
	screenSaverIface = "org.freedesktop.ScreenSaver"

	notificationsBus   = "org.freedesktop.Notifications"
	notificationsPath  = "/org/freedesktop/Notifications"
	notificationsIface = "org.freedesktop.Notifications"

	notifyTimeoutMillis = int32(5000)
)

type callFunc func(ctx context.Context, dest string, path dbus.ObjectPath, method string, args ...interface{}) error

// Session is a connection to the user's D-Bus session bus.
type Session struct {
	conn    *dbus.Conn
	call    callFunc
	appName string
}

// ConnectSession opens a private connection to the session bus.
func ConnectSession(appName string) (*Session, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, errors.Wrap(err, "connect session bus")
	}
	s := &Session{conn: conn, appName: appName}
	s.call = func(ctx context.Context, dest string, path dbus.ObjectPath, method string, args ...interface{}) error {
		return conn.Object(dest, path).CallWithContext(ctx, method, 0, args...).Err
	}
	return s, nil
}

// SimulateUserActivity resets the session's screensaver idle timer.
func (s *Session) SimulateUserActivity(ctx context.Context) error {
	err := s.call(ctx, screenSaverBus, screenSaverPath, screenSaverIface+".SimulateUserActivity")
	return errors.Wrap(err, "SimulateUserActivity")
}

// Notify shows a desktop notification.
func (s *Session) Notify(ctx context.Context, summary, body string) error {
	err := s.call(ctx, notificationsBus, notificationsPath, notificationsIface+".Notify",
		s.appName,
		uint32(0),
		"",
		summary,
		body,
		[]string{},
		map[string]dbus.Variant{},
		notifyTimeoutMillis,
	)
	return errors.Wrap(err, "Notify")
}

// Close releases the bus connection.
func (s *Session) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	return s.conn.Close()
}
