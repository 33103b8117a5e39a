// Package activity holds the last-activity timestamp shared between the
// observation sources and the idle monitor.
package activity

import (
	"sync"
	"time"

	"k8s.io/utils/clock"
)

// Tracker records the most recent user (or synthetic) activity.
// All methods are safe for concurrent use.
type Tracker struct {
	clock clock.PassiveClock

	mu   sync.RWMutex
	last time.Time
}

// NewTracker creates a tracker whose last activity is the current time.
func NewTracker(c clock.PassiveClock) *Tracker {
	if c == nil {
		c = clock.RealClock{}
	}
	return &Tracker{
		clock: c,
		last:  c.Now(),
	}
}

// RecordActivity marks now as the time of last activity.
func (t *Tracker) RecordActivity() {
	now := t.clock.Now()

	t.mu.Lock()
	if now.After(t.last) {
		t.last = now
	}
	t.mu.Unlock()
}

// Reset forces the last activity to now even if the clock went backwards.
func (t *Tracker) Reset() {
	now := t.clock.Now()

	t.mu.Lock()
	t.last = now
	t.mu.Unlock()
}

// LastActivity returns the time of the last recorded activity.
func (t *Tracker) LastActivity() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.last
}

// IdleDuration returns how long it has been since the last activity.
func (t *Tracker) IdleDuration() time.Duration {
	last := t.LastActivity()
	idle := t.clock.Since(last)
	if idle < 0 {
		return 0
	}
	return idle
}
