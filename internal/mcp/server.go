// Package mcp exposes the running daemon to MCP clients over stdio.
package mcp

import (
	"context"
	"math"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/pkg/errors"

	"github.com/oronila/antiafk/internal/ipc"
)

const ServerName = "antiafk"

// DaemonClient is the subset of ipc.Client the tools need.
type DaemonClient interface {
	GetStatus() (*ipc.StatusData, error)
	Stop() error
	Nudge() (*ipc.NudgeData, error)
}

var _ DaemonClient = (*ipc.Client)(nil)

// Server is the MCP server bridging tool calls to the daemon's IPC socket.
type Server struct {
	mcpServer *mcpsdk.Server
	client    DaemonClient
}

// NewServer creates a new MCP server.
func NewServer(client DaemonClient, version string) *Server {
	if version == "" {
		version = "dev"
	}
	s := &Server{client: client}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: version,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report whether the anti-AFK daemon is running, how long the session has been idle, the nudge timeout, and how many nudges have been made.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "nudge_now",
		Description: "Move the pointer by a few pixels and back immediately, resetting the idle timer. The pointer ends exactly where it started.",
	}, s.handleNudgeNow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "stop_monitor",
		Description: "Gracefully stop the anti-AFK daemon. The session may go idle afterwards.",
	}, s.handleStopMonitor)
}

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	status, err := s.client.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, errors.Wrap(err, "get_status")
	}
	return nil, GetStatusOutput{
		Running:         status.DaemonRunning,
		State:           status.State,
		Strategy:        status.Strategy,
		IdleSeconds:     status.IdleSeconds,
		TimeoutSeconds:  status.TimeoutSeconds,
		SecondsToNudge:  math.Max(0, status.TimeoutSeconds-status.IdleSeconds),
		Nudges:          status.Nudges,
		Failures:        status.Failures,
		LastNudge:       status.LastNudge,
		LastError:       status.LastError,
		UptimeSeconds:   status.UptimeSeconds,
		PID:             status.PID,
		IntervalSeconds: status.IntervalSeconds,
	}, nil
}

func (s *Server) handleNudgeNow(_ context.Context, _ *mcpsdk.CallToolRequest, _ NudgeNowInput) (*mcpsdk.CallToolResult, NudgeNowOutput, error) {
	data, err := s.client.Nudge()
	if err != nil {
		return nil, NudgeNowOutput{}, errors.Wrap(err, "nudge_now")
	}
	return nil, NudgeNowOutput{
		OriginX: data.OriginX,
		OriginY: data.OriginY,
		DX:      data.DX,
		DY:      data.DY,
	}, nil
}

func (s *Server) handleStopMonitor(_ context.Context, _ *mcpsdk.CallToolRequest, _ StopMonitorInput) (*mcpsdk.CallToolResult, StopMonitorOutput, error) {
	if err := s.client.Stop(); err != nil {
		return nil, StopMonitorOutput{}, errors.Wrap(err, "stop_monitor")
	}
	return nil, StopMonitorOutput{Stopped: true}, nil
}
