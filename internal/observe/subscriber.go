package observe

import (
	"context"
	"sync"

	"github.com/oronila/antiafk/internal/activity"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Subscriber drains an EventSource into the activity tracker.
type Subscriber struct {
	source  EventSource
	tracker *activity.Tracker
	log     logrus.FieldLogger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
	events  uint64
}

// NewSubscriber creates a subscriber for source.
func NewSubscriber(source EventSource, tracker *activity.Tracker, log logrus.FieldLogger) *Subscriber {
	return &Subscriber{
		source:  source,
		tracker: tracker,
		log:     log,
	}
}

// Start begins consuming events. It fails if the source cannot start.
func (s *Subscriber) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return errors.New("listener already running")
	}

	ctx, cancel := context.WithCancel(ctx)
	ch, err := s.source.Start(ctx)
	if err != nil {
		cancel()
		return errors.Wrap(err, "start event source")
	}

	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true
	go s.consume(ctx, ch, s.done)

	s.log.Info("Listener started")
	return nil
}

func (s *Subscriber) consume(ctx context.Context, ch <-chan Event, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if !ev.CountsAsActivity() {
				continue
			}
			s.tracker.RecordActivity()
			s.mu.Lock()
			s.events++
			s.mu.Unlock()
		}
	}
}

// Events returns how many events have counted as activity.
func (s *Subscriber) Events() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events
}

// Stop stops the source and waits for the consumer to exit. Idempotent.
func (s *Subscriber) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	err := s.source.Stop()
	cancel()
	<-done

	s.log.Info("Listener stopped")
	if err != nil {
		return errors.Wrap(err, "stop event source")
	}
	return nil
}
