package mcp

import (
	"context"
	"errors"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/oronila/antiafk/internal/ipc"
)

type fakeClient struct {
	status  *ipc.StatusData
	nudge   *ipc.NudgeData
	err     error
	stopped int
}

func (f *fakeClient) GetStatus() (*ipc.StatusData, error) { return f.status, f.err }
func (f *fakeClient) Nudge() (*ipc.NudgeData, error)      { return f.nudge, f.err }
func (f *fakeClient) Stop() error {
	if f.err != nil {
		return f.err
	}
	f.stopped++
	return nil
}

func TestHandleGetStatus(t *testing.T) {
	client := &fakeClient{status: &ipc.StatusData{
		DaemonRunning:  true,
		State:          "running",
		Strategy:       "poll",
		IdleSeconds:    150,
		TimeoutSeconds: 180,
		Nudges:         2,
	}}
	s := NewServer(client, "test")

	_, out, err := s.handleGetStatus(context.Background(), nil, GetStatusInput{})
	if err != nil {
		t.Fatalf("get_status: %v", err)
	}
	if !out.Running || out.State != "running" || out.Nudges != 2 {
		t.Fatalf("unexpected output %+v", out)
	}
	if out.SecondsToNudge != 30 {
		t.Fatalf("expected 30s to next nudge, got %v", out.SecondsToNudge)
	}
}

func TestHandleGetStatus_SecondsToNudgeNeverNegative(t *testing.T) {
	client := &fakeClient{status: &ipc.StatusData{IdleSeconds: 200, TimeoutSeconds: 180}}
	s := NewServer(client, "")

	_, out, err := s.handleGetStatus(context.Background(), nil, GetStatusInput{})
	if err != nil {
		t.Fatalf("get_status: %v", err)
	}
	if out.SecondsToNudge != 0 {
		t.Fatalf("expected 0, got %v", out.SecondsToNudge)
	}
}

func TestHandleNudgeNow(t *testing.T) {
	client := &fakeClient{nudge: &ipc.NudgeData{OriginX: 5, OriginY: 6, DX: 3, DY: -3}}
	s := NewServer(client, "test")

	_, out, err := s.handleNudgeNow(context.Background(), nil, NudgeNowInput{})
	if err != nil {
		t.Fatalf("nudge_now: %v", err)
	}
	if out != (NudgeNowOutput{OriginX: 5, OriginY: 6, DX: 3, DY: -3}) {
		t.Fatalf("unexpected output %+v", out)
	}
}

func TestHandleStopMonitor(t *testing.T) {
	client := &fakeClient{}
	s := NewServer(client, "test")

	_, out, err := s.handleStopMonitor(context.Background(), nil, StopMonitorInput{})
	if err != nil {
		t.Fatalf("stop_monitor: %v", err)
	}
	if !out.Stopped || client.stopped != 1 {
		t.Fatalf("expected one stop, got %+v / %d", out, client.stopped)
	}
}

func TestHandlersWrapDaemonErrors(t *testing.T) {
	client := &fakeClient{err: errors.New("failed to connect to daemon")}
	s := NewServer(client, "test")

	if _, _, err := s.handleGetStatus(context.Background(), nil, GetStatusInput{}); err == nil || err.Error() != "get_status: failed to connect to daemon" {
		t.Fatalf("unexpected error %v", err)
	}
	if _, _, err := s.handleNudgeNow(context.Background(), nil, NudgeNowInput{}); err == nil {
		t.Fatalf("expected nudge_now error")
	}
	if _, _, err := s.handleStopMonitor(context.Background(), nil, StopMonitorInput{}); err == nil {
		t.Fatalf("expected stop_monitor error")
	}
}

func TestToolsListedOverInMemoryTransport(t *testing.T) {
	ctx := context.Background()
	s := NewServer(&fakeClient{status: &ipc.StatusData{DaemonRunning: true}}, "test")

	serverTransport, clientTransport := mcpsdk.NewInMemoryTransports()
	serverSession, err := s.mcpServer.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	defer serverSession.Close()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test-client", Version: "0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	names := map[string]bool{}
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"get_status", "nudge_now", "stop_monitor"} {
		if !names[want] {
			t.Fatalf("tool %q not registered (have %v)", want, names)
		}
	}

	res, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      "get_status",
		Arguments: map[string]any{},
	})
	if err != nil {
		t.Fatalf("call get_status: %v", err)
	}
	if res.IsError {
		t.Fatalf("get_status returned a tool error: %+v", res.Content)
	}
}
