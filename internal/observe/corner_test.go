package observe

import (
	"testing"

	"github.com/oronila/antiafk/internal/platform"
	"gotest.tools/assert"
)

func TestParseCorner(t *testing.T) {
	c, err := ParseCorner("")
	assert.NilError(t, err)
	assert.Equal(t, c, CornerTopLeft)

	c, err = ParseCorner(" Bottom-Right ")
	assert.NilError(t, err)
	assert.Equal(t, c, CornerBottomRight)

	_, err = ParseCorner("middle")
	assert.ErrorContains(t, err, "unknown corner")
}

func TestCornerMatches(t *testing.T) {
	bounds := platform.Rect{Width: 1920, Height: 1080}

	tests := []struct {
		corner Corner
		p      platform.Point
		want   bool
	}{
		{CornerTopLeft, platform.Point{X: 0, Y: 0}, true},
		{CornerTopLeft, platform.Point{X: 1, Y: 0}, false},
		{CornerTopRight, platform.Point{X: 1919, Y: 0}, true},
		{CornerBottomLeft, platform.Point{X: 0, Y: 1079}, true},
		{CornerBottomRight, platform.Point{X: 1919, Y: 1079}, true},
		{CornerBottomRight, platform.Point{X: 0, Y: 0}, false},
		{CornerAny, platform.Point{X: 1919, Y: 0}, true},
		{CornerAny, platform.Point{X: 0, Y: 500}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.corner.Matches(tt.p, bounds), tt.want, "%s at %+v", tt.corner, tt.p)
	}
}

func TestCornerMatchesWithoutBounds(t *testing.T) {
	assert.Assert(t, CornerTopLeft.Matches(platform.Point{}, platform.Rect{}))
	assert.Assert(t, !CornerBottomRight.Matches(platform.Point{}, platform.Rect{}))
}
