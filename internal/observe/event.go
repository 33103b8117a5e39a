// Package observe keeps the activity tracker fresh, either by sampling the
// pointer position on a cadence or by subscribing to OS input events.
package observe

import "context"

// Kind classifies an input event.
type Kind int

const (
	KindMove Kind = iota
	KindButton
	KindScroll
	KindKey
)

func (k Kind) String() string {
	switch k {
	case KindMove:
		return "move"
	case KindButton:
		return "button"
	case KindScroll:
		return "scroll"
	case KindKey:
		return "key"
	default:
		return "unknown"
	}
}

// Event is a single observed input event.
// Pressed is only meaningful for KindButton and KindKey.
type Event struct {
	Kind    Kind
	Pressed bool
}

// CountsAsActivity reports whether the event should reset the idle timer.
// Releases do not count; moves and scrolls always do.
func (e Event) CountsAsActivity() bool {
	switch e.Kind {
	case KindMove, KindScroll:
		return true
	case KindButton, KindKey:
		return e.Pressed
	default:
		return false
	}
}

// EventSource delivers input events until stopped.
// The returned channel is closed once the source has fully stopped.
type EventSource interface {
	Start(ctx context.Context) (<-chan Event, error)
	Stop() error
}
