package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig overlays raw onto DefaultConfig. The poll interval
// default follows the chosen strategy unless set explicitly.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.TimeoutMinutes != nil {
		cfg.TimeoutMinutes = *raw.TimeoutMinutes
	}
	if raw.Strategy != nil {
		cfg.Strategy = strings.ToLower(strings.TrimSpace(*raw.Strategy))
	}
	cfg.PollInterval = DefaultPollIntervalFor(cfg.Strategy)
	if raw.PollInterval != nil {
		cfg.PollInterval = *raw.PollInterval
	}
	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.XAuthority != nil {
		cfg.XAuthority = *raw.XAuthority
	}
	if raw.LogLevel != nil {
		level := strings.ToLower(strings.TrimSpace(*raw.LogLevel))
		if level == "warning" {
			level = "warn"
		}
		cfg.LogLevel = level
	}
	if raw.Notify != nil {
		cfg.Notify = *raw.Notify
	}

	if n := raw.Nudge; n != nil {
		if n.MaxOffset != nil {
			cfg.Nudge.MaxOffset = *n.MaxOffset
		}
		if n.Hold != nil {
			cfg.Nudge.Hold = *n.Hold
		}
		if n.SimulateActivity != nil {
			cfg.Nudge.SimulateActivity = *n.SimulateActivity
		}
	}

	if fs := raw.FailSafe; fs != nil {
		if fs.Enabled != nil {
			cfg.FailSafe.Enabled = *fs.Enabled
		}
		if fs.Corner != nil {
			cfg.FailSafe.Corner = strings.ToLower(strings.TrimSpace(*fs.Corner))
		}
		if fs.Hotkey != nil {
			cfg.FailSafe.Hotkey = strings.TrimSpace(*fs.Hotkey)
		}
	}

	if raw.Events != nil && raw.Events.Devices != nil {
		cfg.Events.Devices = append([]string(nil), raw.Events.Devices...)
	}

	return cfg, nil
}
