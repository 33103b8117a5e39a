package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgb/xtest"
)

// PointerPosition returns the pointer location relative to the root window.
func (c *Connection) PointerPosition() (int, int, error) {
	pointer, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("query pointer failed: %w", err)
	}
	return int(pointer.RootX), int(pointer.RootY), nil
}

// FakeMotion moves the pointer to an absolute root position through XTEST.
// Unlike WarpPointer, XTEST input resets the server's idle counter.
func (c *Connection) FakeMotion(x, y int) error {
	// Detail 0 selects absolute coordinates; time 0 means CurrentTime.
	err := xtest.FakeInputChecked(
		c.XUtil.Conn(),
		xproto.MotionNotify,
		0,
		0,
		c.Root,
		int16(x), int16(y),
		0,
	).Check()
	if err != nil {
		return fmt.Errorf("fake motion to %d,%d failed: %w", x, y, err)
	}
	return nil
}

// ScreenSize returns the root window dimensions of the default screen.
func (c *Connection) ScreenSize() (int, int) {
	screen := c.XUtil.Screen()
	return int(screen.WidthInPixels), int(screen.HeightInPixels)
}
