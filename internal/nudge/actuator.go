// Package nudge moves the pointer by a small random offset and puts it back.
package nudge

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/oronila/antiafk/internal/platform"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

const (
	DefaultMaxOffset = 3
	DefaultHold      = 100 * time.Millisecond
)

// Poker tells the desktop session that the user is active.
type Poker interface {
	SimulateUserActivity(ctx context.Context) error
}

// Options configures an Actuator. A non-positive MaxOffset or negative Hold
// falls back to the package default.
type Options struct {
	MaxOffset int
	Hold      time.Duration

	Clock clock.Clock
	Rand  *rand.Rand
	// Poker is optional.
	Poker Poker
}

// Result describes one completed nudge.
type Result struct {
	Origin platform.Point
	Target platform.Point
	DX     int
	DY     int
}

// Actuator performs nudges against a Pointer.
type Actuator struct {
	pointer platform.Pointer
	log     logrus.FieldLogger
	opts    Options

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewActuator(pointer platform.Pointer, opts Options, log logrus.FieldLogger) *Actuator {
	if opts.MaxOffset <= 0 {
		opts.MaxOffset = DefaultMaxOffset
	}
	if opts.Hold < 0 {
		opts.Hold = DefaultHold
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	rnd := opts.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Actuator{
		pointer: pointer,
		log:     log,
		opts:    opts,
		rnd:     rnd,
	}
}

func (a *Actuator) offset() (int, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	span := 2*a.opts.MaxOffset + 1
	return a.rnd.IntN(span) - a.opts.MaxOffset, a.rnd.IntN(span) - a.opts.MaxOffset
}

// Nudge moves the pointer to a nearby point, holds, and moves it back to
// exactly where it was. A failed move back is retried once.
func (a *Actuator) Nudge(ctx context.Context) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	origin, err := a.pointer.Position()
	if err != nil {
		return Result{}, errors.Wrap(err, "read pointer position")
	}

	dx, dy := a.offset()
	target := platform.Point{X: origin.X + dx, Y: origin.Y + dy}
	if bounds, err := a.pointer.Bounds(); err != nil {
		a.log.WithError(err).Debug("screen bounds unavailable, not clamping")
	} else {
		target = bounds.Clamp(target)
	}

	res := Result{Origin: origin, Target: target, DX: dx, DY: dy}

	if err := a.pointer.MoveTo(target); err != nil {
		return res, errors.Wrapf(err, "move pointer to %d,%d", target.X, target.Y)
	}

	a.opts.Clock.Sleep(a.opts.Hold)

	if err := a.pointer.MoveTo(origin); err != nil {
		a.log.WithError(err).Warn("restoring pointer failed, retrying")
		if err := a.pointer.MoveTo(origin); err != nil {
			return res, errors.Wrapf(err, "restore pointer to %d,%d", origin.X, origin.Y)
		}
	}

	a.log.WithFields(logrus.Fields{"dx": dx, "dy": dy}).Info("Mouse moved to prevent AFK")

	if a.opts.Poker != nil {
		if err := a.opts.Poker.SimulateUserActivity(ctx); err != nil {
			a.log.WithError(err).Debug("simulate user activity failed")
		}
	}
	return res, nil
}
