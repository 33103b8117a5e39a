// Package monitor runs the idle loop: it compares the time since the last
// activity with the timeout and nudges the pointer once it is exceeded.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/oronila/antiafk/internal/activity"
	"github.com/oronila/antiafk/internal/nudge"
	"github.com/oronila/antiafk/internal/observe"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

// ErrStopped is returned by operations on a stopped monitor.
var ErrStopped = errors.New("monitor stopped")

// State of the monitor. Running is initial, Stopped is terminal.
type State int

const (
	Running State = iota
	Stopped
)

func (s State) String() string {
	if s == Stopped {
		return "stopped"
	}
	return "running"
}

// Sampler is polled once per iteration (poll strategy only).
type Sampler interface {
	Sample(ctx context.Context) error
}

// Nudger synthesizes activity.
type Nudger interface {
	Nudge(ctx context.Context) (nudge.Result, error)
}

// Config holds configuration for the monitor.
type Config struct {
	Timeout  time.Duration
	Interval time.Duration
	Strategy string
	// Sampler is nil when activity arrives through an event subscriber.
	Sampler Sampler
	Clock   clock.WithTicker
	Logger  logrus.FieldLogger
}

// Snapshot is a point-in-time view of the monitor.
type Snapshot struct {
	State     State
	Strategy  string
	Idle      time.Duration
	Timeout   time.Duration
	Interval  time.Duration
	Nudges    uint64
	Failures  uint64
	LastNudge time.Time
	LastError string
	StartedAt time.Time
}

// Monitor owns the idle loop.
type Monitor struct {
	cfg     Config
	tracker *activity.Tracker
	nudger  Nudger
	clock   clock.WithTicker
	log     logrus.FieldLogger

	stateMu  sync.Mutex
	state    State
	stopCh   chan struct{}
	done     chan struct{}
	runOnce  sync.Once
	started  time.Time
	nudgeMu  sync.Mutex
	statsMu  sync.Mutex
	nudges   uint64
	failures uint64
	lastAt   time.Time
	lastErr  string
}

// New creates a monitor in the Running state.
func New(cfg Config, tracker *activity.Tracker, nudger Nudger) *Monitor {
	if cfg.Clock == nil {
		cfg.Clock = clock.RealClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 3 * time.Second
	}
	return &Monitor{
		cfg:     cfg,
		tracker: tracker,
		nudger:  nudger,
		clock:   cfg.Clock,
		log:     cfg.Logger,
		state:   Running,
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
		started: cfg.Clock.Now(),
	}
}

// Run executes the loop until Stop, ctx cancellation, or the fail-safe.
// It returns observe.ErrFailSafe in the latter case and nil otherwise.
func (m *Monitor) Run(ctx context.Context) error {
	err := errors.New("monitor already ran")
	m.runOnce.Do(func() {
		defer close(m.done)
		err = m.loop(ctx)
	})
	return err
}

func (m *Monitor) loop(ctx context.Context) error {
	ticker := m.clock.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	m.log.WithFields(logrus.Fields{
		"timeout":  m.cfg.Timeout,
		"interval": m.cfg.Interval,
		"strategy": m.cfg.Strategy,
	}).Debug("monitor loop started")

	for {
		if m.State() == Stopped {
			return nil
		}

		if err := m.Check(ctx); errors.Is(err, observe.ErrFailSafe) {
			m.Stop()
			return err
		}

		select {
		case <-ctx.Done():
			m.Stop()
			return nil
		case <-m.stopCh:
			return nil
		case <-ticker.C():
		}
	}
}

// Check runs a single iteration: sample, compare, maybe nudge.
// Only observe.ErrFailSafe is returned; other failures are logged.
func (m *Monitor) Check(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Errorf("monitor panic recovered: %v", r)
			err = nil
		}
	}()

	if m.State() == Stopped {
		return nil
	}

	if m.cfg.Sampler != nil {
		if err := m.sample(ctx); err != nil {
			if errors.Is(err, observe.ErrFailSafe) {
				return err
			}
			if ctx.Err() == nil {
				m.log.WithError(err).Warn("activity sample failed")
			}
		}
	}

	idle := m.tracker.IdleDuration()
	if idle >= m.cfg.Timeout {
		m.log.Infof("AFK detected after %d seconds - moving mouse", int(idle.Seconds()))
		_, _ = m.nudge(ctx)
	}
	return nil
}

// NudgeNow forces a nudge regardless of idle time.
func (m *Monitor) NudgeNow(ctx context.Context) (nudge.Result, error) {
	if m.State() == Stopped {
		return nudge.Result{}, ErrStopped
	}
	m.log.Info("Manual nudge requested - moving mouse")
	return m.nudge(ctx)
}

// sample holds nudgeMu so it never sees the pointer mid-nudge.
func (m *Monitor) sample(ctx context.Context) error {
	m.nudgeMu.Lock()
	defer m.nudgeMu.Unlock()
	return m.cfg.Sampler.Sample(ctx)
}

// nudge always resets the tracker, even on failure or panic, so a broken
// backend retries once per timeout instead of on every tick.
func (m *Monitor) nudge(ctx context.Context) (res nudge.Result, err error) {
	m.nudgeMu.Lock()
	defer m.nudgeMu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("nudge panic: %v", r)
		}
		m.tracker.Reset()
		m.record(err)
	}()

	return m.nudger.Nudge(ctx)
}

func (m *Monitor) record(err error) {
	m.statsMu.Lock()
	m.lastAt = m.clock.Now()
	if err != nil {
		m.failures++
		m.lastErr = err.Error()
	} else {
		m.nudges++
		m.lastErr = ""
	}
	m.statsMu.Unlock()

	if err != nil {
		m.log.WithError(err).Error("nudge failed")
	}
}

// Stop moves the monitor to Stopped. Idempotent.
func (m *Monitor) Stop() {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	if m.state == Stopped {
		return
	}
	m.state = Stopped
	close(m.stopCh)
}

// State returns the current state.
func (m *Monitor) State() State {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	return m.state
}

// Done is closed when Run returns.
func (m *Monitor) Done() <-chan struct{} {
	return m.done
}

func (m *Monitor) Snapshot() Snapshot {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()
	return Snapshot{
		State:     m.State(),
		Strategy:  m.cfg.Strategy,
		Idle:      m.tracker.IdleDuration(),
		Timeout:   m.cfg.Timeout,
		Interval:  m.cfg.Interval,
		Nudges:    m.nudges,
		Failures:  m.failures,
		LastNudge: m.lastAt,
		LastError: m.lastErr,
		StartedAt: m.started,
	}
}
