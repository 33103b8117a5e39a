package nudge

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/oronila/antiafk/internal/platform"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"gotest.tools/assert"
	testingclock "k8s.io/utils/clock/testing"
)

type fakePointer struct {
	mu        sync.Mutex
	pos       platform.Point
	bounds    platform.Rect
	boundsErr error
	moves     []platform.Point
	// failMoves makes the next N MoveTo calls after the first fail.
	failMoves int
}

func (f *fakePointer) Position() (platform.Point, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pos, nil
}

func (f *fakePointer) MoveTo(p platform.Point) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.moves) > 0 && f.failMoves > 0 {
		f.failMoves--
		f.moves = append(f.moves, platform.Point{X: -1, Y: -1})
		return errors.New("bad match")
	}
	f.moves = append(f.moves, p)
	f.pos = p
	return nil
}

func (f *fakePointer) Bounds() (platform.Rect, error) {
	return f.bounds, f.boundsErr
}

type fakePoker struct {
	calls int
	err   error
}

func (f *fakePoker) SimulateUserActivity(ctx context.Context) error {
	f.calls++
	return f.err
}

func newActuator(t *testing.T, ptr *fakePointer, opts Options) (*Actuator, *testingclock.FakeClock, *logtest.Hook) {
	t.Helper()
	clk := testingclock.NewFakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	logger, hook := logtest.NewNullLogger()
	opts.Clock = clk
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(1, 2))
	}
	return NewActuator(ptr, opts, logger), clk, hook
}

func TestNudgeRestoresOrigin(t *testing.T) {
	ptr := &fakePointer{pos: platform.Point{X: 640, Y: 480}, bounds: platform.Rect{Width: 1280, Height: 960}}
	a, clk, hook := newActuator(t, ptr, Options{Hold: DefaultHold})
	start := clk.Now()

	res, err := a.Nudge(context.Background())
	assert.NilError(t, err)

	assert.Equal(t, len(ptr.moves), 2)
	assert.Equal(t, ptr.moves[0], res.Target)
	assert.Equal(t, ptr.moves[1], platform.Point{X: 640, Y: 480})
	assert.Equal(t, ptr.pos, res.Origin)
	assert.Equal(t, clk.Since(start), DefaultHold)
	assert.Equal(t, hook.LastEntry().Message, "Mouse moved to prevent AFK")
}

func TestNudgeOffsetsStayWithinRange(t *testing.T) {
	ptr := &fakePointer{pos: platform.Point{X: 500, Y: 500}, bounds: platform.Rect{Width: 1000, Height: 1000}}
	a, _, _ := newActuator(t, ptr, Options{})

	seen := map[int]bool{}
	for i := 0; i < 1000; i++ {
		res, err := a.Nudge(context.Background())
		assert.NilError(t, err)
		assert.Assert(t, res.DX >= -3 && res.DX <= 3, "dx=%d", res.DX)
		assert.Assert(t, res.DY >= -3 && res.DY <= 3, "dy=%d", res.DY)
		seen[res.DX] = true
		seen[res.DY] = true
		assert.Equal(t, ptr.pos, platform.Point{X: 500, Y: 500})
	}
	// Every value in [-3, 3] should show up over 2000 draws.
	assert.Equal(t, len(seen), 7)
}

func TestNudgeClampsToScreen(t *testing.T) {
	tests := []struct {
		name   string
		origin platform.Point
	}{
		{name: "top-left", origin: platform.Point{X: 0, Y: 0}},
		{name: "bottom-right", origin: platform.Point{X: 1919, Y: 1079}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bounds := platform.Rect{Width: 1920, Height: 1080}
			ptr := &fakePointer{pos: tt.origin, bounds: bounds}
			a, _, _ := newActuator(t, ptr, Options{MaxOffset: 3})
			for i := 0; i < 200; i++ {
				res, err := a.Nudge(context.Background())
				assert.NilError(t, err)
				assert.Assert(t, bounds.Contains(res.Target), "target %+v", res.Target)
				assert.Equal(t, ptr.pos, tt.origin)
			}
		})
	}
}

func TestNudgeWithoutBoundsDoesNotClamp(t *testing.T) {
	ptr := &fakePointer{pos: platform.Point{X: 10, Y: 10}, boundsErr: errors.New("no screen")}
	a, _, _ := newActuator(t, ptr, Options{})

	res, err := a.Nudge(context.Background())
	assert.NilError(t, err)
	assert.Equal(t, res.Target, platform.Point{X: 10 + res.DX, Y: 10 + res.DY})
}

func TestNudgeRetriesRestoreOnce(t *testing.T) {
	ptr := &fakePointer{pos: platform.Point{X: 100, Y: 100}, failMoves: 1}
	a, _, _ := newActuator(t, ptr, Options{})

	_, err := a.Nudge(context.Background())
	assert.NilError(t, err)
	assert.Equal(t, len(ptr.moves), 3)
	assert.Equal(t, ptr.pos, platform.Point{X: 100, Y: 100})
}

func TestNudgeRestoreFailureIsReturned(t *testing.T) {
	ptr := &fakePointer{pos: platform.Point{X: 100, Y: 100}, failMoves: 2}
	a, _, _ := newActuator(t, ptr, Options{})

	_, err := a.Nudge(context.Background())
	assert.ErrorContains(t, err, "restore pointer to 100,100")
	assert.Equal(t, len(ptr.moves), 3)
}

func TestNudgePokesSessionBestEffort(t *testing.T) {
	ptr := &fakePointer{pos: platform.Point{X: 5, Y: 5}}
	poker := &fakePoker{err: errors.New("no session bus")}
	a, _, _ := newActuator(t, ptr, Options{Poker: poker})

	_, err := a.Nudge(context.Background())
	assert.NilError(t, err)
	assert.Equal(t, poker.calls, 1)
}

func TestNudgeCanceledContext(t *testing.T) {
	ptr := &fakePointer{pos: platform.Point{X: 5, Y: 5}}
	a, _, _ := newActuator(t, ptr, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := a.Nudge(ctx)
	assert.Assert(t, errors.Is(err, context.Canceled))
	assert.Equal(t, len(ptr.moves), 0)
}
