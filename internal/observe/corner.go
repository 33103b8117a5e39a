package observe

import (
	"fmt"
	"strings"

	"github.com/oronila/antiafk/internal/platform"
)

// Corner names the screen corner that triggers the fail-safe.
type Corner string

const (
	CornerTopLeft     Corner = "top-left"
	CornerTopRight    Corner = "top-right"
	CornerBottomLeft  Corner = "bottom-left"
	CornerBottomRight Corner = "bottom-right"
	CornerAny         Corner = "any"
)

// ParseCorner converts a configuration value into a Corner.
func ParseCorner(s string) (Corner, error) {
	c := Corner(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case CornerTopLeft, CornerTopRight, CornerBottomLeft, CornerBottomRight, CornerAny:
		return c, nil
	case "":
		return CornerTopLeft, nil
	default:
		return "", fmt.Errorf("unknown corner %q", s)
	}
}

// Matches reports whether p sits exactly on the corner within bounds.
// Corners other than top-left need non-empty bounds.
func (c Corner) Matches(p platform.Point, bounds platform.Rect) bool {
	left := p.X == bounds.X
	top := p.Y == bounds.Y
	right := !bounds.Empty() && p.X == bounds.X+bounds.Width-1
	bottom := !bounds.Empty() && p.Y == bounds.Y+bounds.Height-1

	switch c {
	case CornerTopLeft:
		return left && top
	case CornerTopRight:
		return right && top
	case CornerBottomLeft:
		return left && bottom
	case CornerBottomRight:
		return right && bottom
	case CornerAny:
		return (left || right) && (top || bottom)
	default:
		return false
	}
}
