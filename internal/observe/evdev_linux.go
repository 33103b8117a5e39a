//go:build linux

package observe

import (
	"context"
	"os"
	"sync"

	"github.com/holoplot/go-evdev"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const eventBuffer = 64

var errNoActivityCapability = errors.New("device reports no key, relative or absolute events")

// inputDevice is the part of *evdev.InputDevice the reader needs.
type inputDevice interface {
	ReadOne() (*evdev.InputEvent, error)
	Close() error
}

// EvdevSource reads pointer and keyboard events from /dev/input/event*.
type EvdevSource struct {
	devices []string
	log     logrus.FieldLogger

	listPaths func() ([]string, error)
	open      func(path string) (inputDevice, error)

	mu       sync.Mutex
	opened   []inputDevice
	wg       sync.WaitGroup
	stopOnce sync.Once
	started  bool
}

// NewEvdevSource creates a source. An empty devices list means every
// evdev node that reports key, relative or absolute events.
func NewEvdevSource(devices []string, log logrus.FieldLogger) *EvdevSource {
	return &EvdevSource{
		devices:   devices,
		log:       log,
		listPaths: listEvdevPaths,
		open:      openEvdev,
	}
}

func listEvdevPaths() ([]string, error) {
	found, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(found))
	for _, p := range found {
		paths = append(paths, p.Path)
	}
	return paths, nil
}

func openEvdev(path string) (inputDevice, error) {
	dev, err := evdev.Open(path)
	if err != nil {
		return nil, err
	}
	for _, t := range dev.CapableTypes() {
		switch t {
		case evdev.EV_KEY, evdev.EV_REL, evdev.EV_ABS:
			return dev, nil
		}
	}
	dev.Close()
	return nil, errNoActivityCapability
}

func (s *EvdevSource) resolve() ([]string, error) {
	if len(s.devices) > 0 {
		return s.devices, nil
	}
	paths, err := s.listPaths()
	if err != nil {
		return nil, errors.Wrap(err, "list input devices")
	}
	return paths, nil
}

func (s *EvdevSource) Start(ctx context.Context) (<-chan Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil, errors.New("evdev source already started")
	}

	paths, err := s.resolve()
	if err != nil {
		return nil, err
	}

	for _, p := range paths {
		dev, err := s.open(p)
		if err != nil {
			if errors.Is(err, errNoActivityCapability) {
				s.log.Debugf("ignoring input device %s: %v", p, err)
			} else {
				s.log.WithError(err).Warnf("skipping input device %s", p)
			}
			continue
		}
		s.log.Debugf("listening on input device %s", p)
		s.opened = append(s.opened, dev)
	}
	if len(s.opened) == 0 {
		return nil, errors.Errorf("no readable input devices (tried %d)", len(paths))
	}
	s.started = true

	events := make(chan Event, eventBuffer)
	for _, dev := range s.opened {
		s.wg.Add(1)
		go s.read(dev, events)
	}

	go func() {
		s.wg.Wait()
		close(events)
	}()
	go func() {
		<-ctx.Done()
		_ = s.Stop()
	}()

	return events, nil
}

// read forwards events until the device is closed. A full channel drops
// the event; the tracker only needs to hear about some activity.
func (s *EvdevSource) read(dev inputDevice, events chan<- Event) {
	defer s.wg.Done()

	for {
		raw, err := dev.ReadOne()
		if err != nil {
			if !errors.Is(err, os.ErrClosed) {
				s.log.WithError(err).Debug("input device read stopped")
			}
			return
		}
		ev, ok := classify(uint16(raw.Type), uint16(raw.Code), raw.Value)
		if !ok {
			continue
		}
		select {
		case events <- ev:
		default:
		}
	}
}

// Stop closes every device, which unblocks the readers. Idempotent.
func (s *EvdevSource) Stop() error {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if !started {
		return nil
	}

	var errs []error
	s.stopOnce.Do(func() {
		s.mu.Lock()
		opened := s.opened
		s.mu.Unlock()
		for _, dev := range opened {
			if err := dev.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		s.wg.Wait()
	})
	if len(errs) > 0 {
		return errors.Wrap(errs[0], "close input device")
	}
	return nil
}
