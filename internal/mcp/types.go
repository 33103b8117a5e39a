package mcp

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
	Running         bool    `json:"running"`
	State           string  `json:"state,omitempty" jsonschema:"Monitor state: running or stopped"`
	Strategy        string  `json:"strategy,omitempty" jsonschema:"Observation strategy: poll or events"`
	IdleSeconds     float64 `json:"idle_seconds" jsonschema:"Seconds since the last observed or synthesized activity"`
	TimeoutSeconds  float64 `json:"timeout_seconds" jsonschema:"Idle threshold that triggers a nudge"`
	SecondsToNudge  float64 `json:"seconds_to_nudge" jsonschema:"Seconds until the next nudge if no activity is seen"`
	Nudges          uint64  `json:"nudges"`
	Failures        uint64  `json:"failures"`
	LastNudge       string  `json:"last_nudge,omitempty"`
	LastError       string  `json:"last_error,omitempty"`
	UptimeSeconds   int64   `json:"uptime_seconds"`
	PID             int     `json:"pid,omitempty"`
	IntervalSeconds float64 `json:"interval_seconds"`
}

// NudgeNowInput is the input for the nudge_now tool.
type NudgeNowInput struct{}

// NudgeNowOutput is the output for the nudge_now tool.
type NudgeNowOutput struct {
	OriginX int `json:"origin_x" jsonschema:"Pointer X before the nudge; it is restored here"`
	OriginY int `json:"origin_y" jsonschema:"Pointer Y before the nudge; it is restored here"`
	DX      int `json:"dx"`
	DY      int `json:"dy"`
}

// StopMonitorInput is the input for the stop_monitor tool.
type StopMonitorInput struct{}

// StopMonitorOutput is the output for the stop_monitor tool.
type StopMonitorOutput struct {
	Stopped bool `json:"stopped"`
}
