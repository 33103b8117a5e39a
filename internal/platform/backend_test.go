package platform

import (
	"testing"

	"gotest.tools/assert"
)

func TestRectContains(t *testing.T) {
	r := Rect{Width: 1920, Height: 1080}

	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{name: "origin", p: Point{0, 0}, want: true},
		{name: "last pixel", p: Point{1919, 1079}, want: true},
		{name: "right edge", p: Point{1920, 10}, want: false},
		{name: "bottom edge", p: Point{10, 1080}, want: false},
		{name: "negative", p: Point{-1, 5}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, r.Contains(tt.p), tt.want)
		})
	}
}

func TestRectClamp(t *testing.T) {
	r := Rect{Width: 800, Height: 600}

	assert.Equal(t, r.Clamp(Point{-3, -2}), Point{0, 0})
	assert.Equal(t, r.Clamp(Point{802, 601}), Point{799, 599})
	assert.Equal(t, r.Clamp(Point{400, 300}), Point{400, 300})
}

func TestRectClampEmptyIsIdentity(t *testing.T) {
	var r Rect
	assert.Assert(t, r.Empty())
	assert.Equal(t, r.Clamp(Point{-5, 9000}), Point{-5, 9000})
}
