package observe

import (
	"context"
	"sync"

	"github.com/oronila/antiafk/internal/activity"
	"github.com/oronila/antiafk/internal/platform"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrFailSafe is returned when the pointer is parked in the fail-safe corner.
var ErrFailSafe = errors.New("fail-safe triggered: pointer in corner")

// FailSafe configures the corner emergency stop.
type FailSafe struct {
	Enabled bool
	Corner  Corner
}

// Poller samples the pointer position and treats any change as activity.
type Poller struct {
	pointer  platform.Pointer
	tracker  *activity.Tracker
	log      logrus.FieldLogger
	failSafe FailSafe

	mu     sync.Mutex
	last   platform.Point
	primed bool
	bounds platform.Rect
	sized  bool
}

// NewPoller creates a poller. The first Sample only primes the cached position.
func NewPoller(pointer platform.Pointer, tracker *activity.Tracker, log logrus.FieldLogger, fs FailSafe) *Poller {
	if fs.Corner == "" {
		fs.Corner = CornerTopLeft
	}
	return &Poller{
		pointer:  pointer,
		tracker:  tracker,
		log:      log,
		failSafe: fs,
	}
}

// Prime caches the current pointer position without recording activity.
func (p *Poller) Prime() error {
	pos, err := p.pointer.Position()
	if err != nil {
		return errors.Wrap(err, "query pointer position")
	}
	p.mu.Lock()
	p.last = pos
	p.primed = true
	p.mu.Unlock()
	return nil
}

// Sample reads the pointer once. A position change records activity.
// Query failures are returned wrapped so the caller can log and continue.
func (p *Poller) Sample(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	pos, err := p.pointer.Position()
	if err != nil {
		return errors.Wrap(err, "query pointer position")
	}

	if p.failSafe.Enabled && p.failSafe.Corner.Matches(pos, p.screenBounds()) {
		return ErrFailSafe
	}

	p.mu.Lock()
	moved := p.primed && pos != p.last
	p.last = pos
	p.primed = true
	p.mu.Unlock()

	if moved {
		p.tracker.RecordActivity()
		p.log.Info("Mouse movement detected - resetting timer")
	}
	return nil
}

// screenBounds is only needed for corners other than top-left; it is
// fetched once and cached since the root window size does not change.
func (p *Poller) screenBounds() platform.Rect {
	if p.failSafe.Corner == CornerTopLeft {
		return platform.Rect{}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sized {
		return p.bounds
	}
	b, err := p.pointer.Bounds()
	if err != nil {
		p.log.WithError(err).Debug("screen bounds unavailable")
		return platform.Rect{}
	}
	p.bounds = b
	p.sized = true
	return b
}
