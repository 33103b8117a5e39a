package config

import (
	"fmt"
	"sort"
)

// Explain returns the effective value at the given YAML path and its source.
//
// Supported paths are the leaf keys of the file, for example:
//
//	timeout_minutes
//	strategy
//	poll_interval
//	nudge.max_offset
//	failsafe.corner
//	events.devices
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	getter, ok := explainPaths[path]
	if !ok {
		return nil, Source{}, fmt.Errorf("unknown path: %s", path)
	}
	value := getter(res.Config)

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	if path == "poll_interval" {
		return value, Source{Kind: SourceDefault, Name: "strategy " + res.Config.Strategy}, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

// ExplainPaths lists every path Explain accepts, sorted.
func ExplainPaths() []string {
	out := make([]string, 0, len(explainPaths))
	for p := range explainPaths {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

var explainPaths = map[string]func(*Config) any{
	"timeout_minutes":         func(c *Config) any { return c.TimeoutMinutes },
	"strategy":                func(c *Config) any { return c.Strategy },
	"poll_interval":           func(c *Config) any { return c.PollInterval },
	"display":                 func(c *Config) any { return c.Display },
	"xauthority":              func(c *Config) any { return c.XAuthority },
	"log_level":               func(c *Config) any { return c.LogLevel },
	"notify":                  func(c *Config) any { return c.Notify },
	"nudge.max_offset":        func(c *Config) any { return c.Nudge.MaxOffset },
	"nudge.hold":              func(c *Config) any { return c.Nudge.Hold },
	"nudge.simulate_activity": func(c *Config) any { return c.Nudge.SimulateActivity },
	"failsafe.enabled":        func(c *Config) any { return c.FailSafe.Enabled },
	"failsafe.corner":         func(c *Config) any { return c.FailSafe.Corner },
	"failsafe.hotkey":         func(c *Config) any { return c.FailSafe.Hotkey },
	"events.devices":          func(c *Config) any { return c.Events.Devices },
}
