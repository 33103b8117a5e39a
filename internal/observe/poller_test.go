package observe

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/oronila/antiafk/internal/activity"
	"github.com/oronila/antiafk/internal/platform"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"gotest.tools/assert"
	testingclock "k8s.io/utils/clock/testing"
)

type fakePointer struct {
	mu     sync.Mutex
	pos    platform.Point
	err    error
	bounds platform.Rect
}

func (f *fakePointer) Position() (platform.Point, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pos, f.err
}

func (f *fakePointer) MoveTo(p platform.Point) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pos = p
	return nil
}

func (f *fakePointer) Bounds() (platform.Rect, error) {
	return f.bounds, nil
}

func (f *fakePointer) set(p platform.Point) {
	f.mu.Lock()
	f.pos = p
	f.mu.Unlock()
}

func newTestPoller(t *testing.T, fs FailSafe) (*Poller, *fakePointer, *testingclock.FakeClock, *logtest.Hook) {
	t.Helper()
	clk := testingclock.NewFakeClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	tracker := activity.NewTracker(clk)
	logger, hook := logtest.NewNullLogger()
	ptr := &fakePointer{pos: platform.Point{X: 500, Y: 400}, bounds: platform.Rect{Width: 1920, Height: 1080}}
	p := NewPoller(ptr, tracker, logger, fs)
	return p, ptr, clk, hook
}

func TestPollerFirstSampleOnlyPrimes(t *testing.T) {
	p, _, clk, hook := newTestPoller(t, FailSafe{})

	clk.Step(10 * time.Second)
	assert.NilError(t, p.Sample(context.Background()))

	assert.Equal(t, p.tracker.IdleDuration(), 10*time.Second)
	assert.Equal(t, len(hook.AllEntries()), 0)
	assert.Equal(t, p.last, platform.Point{X: 500, Y: 400})
}

func TestPollerMovementRecordsActivity(t *testing.T) {
	p, ptr, clk, hook := newTestPoller(t, FailSafe{})
	assert.NilError(t, p.Prime())

	clk.Step(30 * time.Second)
	ptr.set(platform.Point{X: 501, Y: 400})
	assert.NilError(t, p.Sample(context.Background()))

	assert.Equal(t, p.tracker.IdleDuration(), time.Duration(0))
	assert.Equal(t, hook.LastEntry().Message, "Mouse movement detected - resetting timer")
}

func TestPollerUnchangedPositionKeepsIdleGrowing(t *testing.T) {
	p, _, clk, _ := newTestPoller(t, FailSafe{})
	assert.NilError(t, p.Prime())

	for i := 0; i < 5; i++ {
		clk.Step(3 * time.Second)
		assert.NilError(t, p.Sample(context.Background()))
	}
	assert.Equal(t, p.tracker.IdleDuration(), 15*time.Second)
}

func TestPollerQueryErrorIsTransient(t *testing.T) {
	p, ptr, _, _ := newTestPoller(t, FailSafe{Enabled: true})
	ptr.err = errors.New("connection reset")

	err := p.Sample(context.Background())
	assert.ErrorContains(t, err, "query pointer position")
	assert.Assert(t, !errors.Is(err, ErrFailSafe))
}

func TestPollerFailSafe(t *testing.T) {
	tests := []struct {
		name    string
		fs      FailSafe
		pos     platform.Point
		wantErr bool
	}{
		{name: "top-left enabled", fs: FailSafe{Enabled: true}, pos: platform.Point{}, wantErr: true},
		{name: "top-left disabled", fs: FailSafe{Enabled: false}, pos: platform.Point{}, wantErr: false},
		{name: "bottom-right", fs: FailSafe{Enabled: true, Corner: CornerBottomRight}, pos: platform.Point{X: 1919, Y: 1079}, wantErr: true},
		{name: "not in corner", fs: FailSafe{Enabled: true, Corner: CornerAny}, pos: platform.Point{X: 1, Y: 1}, wantErr: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ptr, _, _ := newTestPoller(t, tt.fs)
			ptr.set(tt.pos)
			err := p.Sample(context.Background())
			assert.Equal(t, errors.Is(err, ErrFailSafe), tt.wantErr)
		})
	}
}

func TestPollerCanceledContext(t *testing.T) {
	p, _, _, _ := newTestPoller(t, FailSafe{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Assert(t, errors.Is(p.Sample(ctx), context.Canceled))
}
