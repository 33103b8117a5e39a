package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	StrategyPoll   = "poll"
	StrategyEvents = "events"

	DefaultTimeoutMinutes     = 3
	DefaultPollInterval       = 3 * time.Second
	DefaultEventsPollInterval = 30 * time.Second
	DefaultMaxOffset          = 3
	DefaultHold               = 100 * time.Millisecond
	DefaultCorner             = "top-left"

	MaxTimeoutMinutes = 24 * 60

	MinPollInterval = 100 * time.Millisecond
	MaxPollInterval = 10 * time.Minute
	MaxOffsetLimit  = 50
	MaxHold         = 5 * time.Second
)

// NudgeConfig controls the synthetic pointer movement.
type NudgeConfig struct {
	MaxOffset        int           `yaml:"max_offset"`
	Hold             time.Duration `yaml:"hold"`
	SimulateActivity bool          `yaml:"simulate_activity"`
}

// FailSafeConfig controls the emergency stop.
type FailSafeConfig struct {
	Enabled bool   `yaml:"enabled"`
	Corner  string `yaml:"corner"`
	Hotkey  string `yaml:"hotkey"`
}

// EventsConfig applies to the events strategy.
type EventsConfig struct {
	// Devices lists explicit /dev/input/eventN paths; empty means auto-discover.
	Devices []string `yaml:"devices"`
}

// Config is the effective configuration used by the daemon.
type Config struct {
	TimeoutMinutes float64       `yaml:"timeout_minutes"`
	Strategy       string        `yaml:"strategy"`
	PollInterval   time.Duration `yaml:"poll_interval"`
	Display        string        `yaml:"display"`
	XAuthority     string        `yaml:"xauthority"`
	LogLevel       string        `yaml:"log_level"`
	Notify         bool          `yaml:"notify"`

	Nudge    NudgeConfig    `yaml:"nudge"`
	FailSafe FailSafeConfig `yaml:"failsafe"`
	Events   EventsConfig   `yaml:"events"`
}

// DefaultConfig returns the built-in defaults (poll strategy).
func DefaultConfig() *Config {
	return &Config{
		TimeoutMinutes: DefaultTimeoutMinutes,
		Strategy:       StrategyPoll,
		PollInterval:   DefaultPollInterval,
		LogLevel:       "info",
		Nudge: NudgeConfig{
			MaxOffset: DefaultMaxOffset,
			Hold:      DefaultHold,
		},
		FailSafe: FailSafeConfig{
			Enabled: true,
			Corner:  DefaultCorner,
		},
		Events: EventsConfig{
			Devices: []string{},
		},
	}
}

// Timeout returns the idle threshold.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMinutes * float64(time.Minute))
}

// DefaultPollIntervalFor returns the cadence used when poll_interval is unset.
func DefaultPollIntervalFor(strategy string) time.Duration {
	if strategy == StrategyEvents {
		return DefaultEventsPollInterval
	}
	return DefaultPollInterval
}

// Marshal renders the effective config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func (c *Config) Validate() error {
	if math.IsNaN(c.TimeoutMinutes) || c.TimeoutMinutes <= 0 || c.TimeoutMinutes > MaxTimeoutMinutes {
		return &ValidationError{Path: "timeout_minutes", Err: fmt.Errorf("timeout_minutes must be > 0 and at most %d", MaxTimeoutMinutes)}
	}
	switch c.Strategy {
	case StrategyPoll, StrategyEvents:
	default:
		return &ValidationError{Path: "strategy", Err: fmt.Errorf("strategy must be one of: poll, events")}
	}
	if c.PollInterval < MinPollInterval || c.PollInterval > MaxPollInterval {
		return &ValidationError{Path: "poll_interval", Err: fmt.Errorf("poll_interval must be between %s and %s", MinPollInterval, MaxPollInterval)}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}
	if c.Nudge.MaxOffset < 1 || c.Nudge.MaxOffset > MaxOffsetLimit {
		return &ValidationError{Path: "nudge.max_offset", Err: fmt.Errorf("max_offset must be between 1 and %d", MaxOffsetLimit)}
	}
	if c.Nudge.Hold < 0 || c.Nudge.Hold > MaxHold {
		return &ValidationError{Path: "nudge.hold", Err: fmt.Errorf("hold must be between 0s and %s", MaxHold)}
	}
	switch c.FailSafe.Corner {
	case "top-left", "top-right", "bottom-left", "bottom-right", "any":
	default:
		return &ValidationError{Path: "failsafe.corner", Err: fmt.Errorf("corner must be one of: top-left, top-right, bottom-left, bottom-right, any")}
	}
	for i, dev := range c.Events.Devices {
		if strings.TrimSpace(dev) == "" {
			return &ValidationError{Path: "events.devices", Err: fmt.Errorf("device %d is empty", i)}
		}
		if !filepath.IsAbs(dev) {
			return &ValidationError{Path: "events.devices", Err: fmt.Errorf("device %q must be an absolute path", dev)}
		}
	}

	if warnings := c.validationWarnings(); len(warnings) > 0 {
		for _, w := range warnings {
			fmt.Fprintln(os.Stderr, "warning:", w)
		}
	}
	return nil
}

func (c *Config) validationWarnings() []string {
	var warnings []string
	if c.Strategy == StrategyEvents && c.FailSafe.Enabled && c.FailSafe.Hotkey == "" {
		warnings = append(warnings, "failsafe corner is only checked by the poll strategy; set failsafe.hotkey for an emergency stop with strategy: events")
	}
	if c.Strategy == StrategyPoll && len(c.Events.Devices) > 0 {
		warnings = append(warnings, "events.devices is ignored with strategy: poll")
	}
	if c.Timeout() <= c.PollInterval {
		warnings = append(warnings, fmt.Sprintf("poll_interval %s is not shorter than the timeout; nudges will lag", c.PollInterval))
	}
	return warnings
}
