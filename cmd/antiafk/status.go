package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/oronila/antiafk/internal/ipc"
)

var (
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(12)
	valueStyle   = lipgloss.NewStyle().Bold(true)
	runningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	stoppedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func newStatusCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status via IPC",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := ipc.NewClient().GetStatus()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(status)
			}
			writeStatus(out, status, isTTY(out))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print status as JSON")
	return cmd
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func writeStatus(w io.Writer, s *ipc.StatusData, styled bool) {
	render := func(st lipgloss.Style, v string) string {
		if !styled {
			return v
		}
		return st.Render(v)
	}
	row := func(label, value string, st lipgloss.Style) {
		l := label + ":"
		if styled {
			l = labelStyle.Render(l)
		} else {
			l = fmt.Sprintf("%-12s", l)
		}
		fmt.Fprintf(w, "%s %s\n", l, render(st, value))
	}

	stateStyle := runningStyle
	if s.State != "running" {
		stateStyle = stoppedStyle
	}
	row("state", s.State, stateStyle)
	row("strategy", s.Strategy, valueStyle)
	row("idle", formatSeconds(s.IdleSeconds), valueStyle)
	row("timeout", formatSeconds(s.TimeoutSeconds), valueStyle)
	row("nudges", fmt.Sprintf("%d", s.Nudges), valueStyle)
	if s.Failures > 0 {
		row("failures", fmt.Sprintf("%d", s.Failures), errorStyle)
	}
	if s.LastNudge != "" {
		row("last nudge", s.LastNudge, valueStyle)
	}
	if s.LastError != "" {
		row("last error", s.LastError, errorStyle)
	}
	row("uptime", formatSeconds(float64(s.UptimeSeconds)), valueStyle)
	row("pid", fmt.Sprintf("%d", s.PID), valueStyle)
}

func formatSeconds(sec float64) string {
	return time.Duration(sec * float64(time.Second)).Round(time.Second).String()
}
