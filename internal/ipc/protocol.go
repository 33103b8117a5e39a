package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus CommandType = "GET_STATUS"
	CommandStop      CommandType = "STOP"
	CommandNudge     CommandType = "NUDGE"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	DaemonRunning   bool    `json:"daemon_running"`
	PID             int     `json:"pid"`
	State           string  `json:"state"`
	Strategy        string  `json:"strategy"`
	IdleSeconds     float64 `json:"idle_seconds"`
	TimeoutSeconds  float64 `json:"timeout_seconds"`
	IntervalSeconds float64 `json:"interval_seconds"`
	Nudges          uint64  `json:"nudges"`
	Failures        uint64  `json:"failures"`
	LastNudge       string  `json:"last_nudge,omitempty"` // RFC 3339
	LastError       string  `json:"last_error,omitempty"`
	UptimeSeconds   int64   `json:"uptime_seconds"`
}

// NudgeData represents the data returned by NUDGE
type NudgeData struct {
	OriginX int `json:"origin_x"`
	OriginY int `json:"origin_y"`
	DX      int `json:"dx"`
	DY      int `json:"dy"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
