package config

import "time"

// RawConfig mirrors the YAML file. Nil fields were not set and keep defaults.
type RawConfig struct {
	TimeoutMinutes *float64       `yaml:"timeout_minutes"`
	Strategy       *string        `yaml:"strategy"`
	PollInterval   *time.Duration `yaml:"poll_interval"`
	Display        *string        `yaml:"display"`
	XAuthority     *string        `yaml:"xauthority"`
	LogLevel       *string        `yaml:"log_level"`
	Notify         *bool          `yaml:"notify"`

	Nudge    *RawNudge    `yaml:"nudge"`
	FailSafe *RawFailSafe `yaml:"failsafe"`
	Events   *RawEvents   `yaml:"events"`
}

type RawNudge struct {
	MaxOffset        *int           `yaml:"max_offset"`
	Hold             *time.Duration `yaml:"hold"`
	SimulateActivity *bool          `yaml:"simulate_activity"`
}

type RawFailSafe struct {
	Enabled *bool   `yaml:"enabled"`
	Corner  *string `yaml:"corner"`
	Hotkey  *string `yaml:"hotkey"`
}

type RawEvents struct {
	Devices []string `yaml:"devices"`
}
