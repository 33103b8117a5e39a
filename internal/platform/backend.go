package platform

import "github.com/pkg/errors"

// ErrUnsupported is returned by backend constructors on platforms without an
// input-injection implementation.
var ErrUnsupported = errors.New("unsupported platform")

// Point is a pointer location in root-window coordinates.
type Point struct {
	X int
	Y int
}

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Empty reports whether the rect has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width &&
		p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Clamp returns p constrained to [X, X+Width-1] x [Y, Y+Height-1].
// An empty rect returns p unchanged.
func (r Rect) Clamp(p Point) Point {
	if r.Empty() {
		return p
	}
	return Point{
		X: clampInt(p.X, r.X, r.X+r.Width-1),
		Y: clampInt(p.Y, r.Y, r.Y+r.Height-1),
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Pointer abstracts the pointer operations the daemon needs.
type Pointer interface {
	Position() (Point, error)
	MoveTo(p Point) error
	Bounds() (Rect, error)
}

// Backend is a Pointer bound to a live window-system connection.
type Backend interface {
	Pointer
	Disconnect()
}
