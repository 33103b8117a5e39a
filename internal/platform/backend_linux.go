//go:build linux

package platform

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/oronila/antiafk/internal/x11"
	"github.com/pkg/errors"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay(display string) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to X11")
	}
	return &LinuxBackend{conn: conn}, nil
}

// NewBackend opens the default backend for this platform.
func NewBackend(display string) (Backend, error) {
	return NewLinuxBackendFromDisplay(display)
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

func (b *LinuxBackend) Position() (Point, error) {
	if b == nil || b.conn == nil {
		return Point{}, errors.New("backend not connected")
	}
	x, y, err := b.conn.PointerPosition()
	if err != nil {
		return Point{}, err
	}
	return Point{X: x, Y: y}, nil
}

func (b *LinuxBackend) MoveTo(p Point) error {
	if b == nil || b.conn == nil {
		return errors.New("backend not connected")
	}
	return b.conn.FakeMotion(p.X, p.Y)
}

func (b *LinuxBackend) Bounds() (Rect, error) {
	if b == nil || b.conn == nil {
		return Rect{}, errors.New("backend not connected")
	}
	w, h := b.conn.ScreenSize()
	return Rect{Width: w, Height: h}, nil
}

// EventLoop runs the X11 event loop (blocking) until QuitEventLoop.
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// QuitEventLoop makes a running EventLoop return.
func (b *LinuxBackend) QuitEventLoop() {
	if b != nil && b.conn != nil {
		b.conn.Quit()
	}
}
