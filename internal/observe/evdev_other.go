//go:build !linux

package observe

import (
	"context"

	"github.com/oronila/antiafk/internal/platform"
	"github.com/sirupsen/logrus"
)

// EvdevSource is only available on Linux.
type EvdevSource struct{}

func NewEvdevSource(devices []string, log logrus.FieldLogger) *EvdevSource {
	return &EvdevSource{}
}

func (s *EvdevSource) Start(ctx context.Context) (<-chan Event, error) {
	return nil, platform.ErrUnsupported
}

func (s *EvdevSource) Stop() error { return nil }
