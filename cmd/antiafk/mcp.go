package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oronila/antiafk/internal/ipc"
	"github.com/oronila/antiafk/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "Model Context Protocol integration",
	}
	mcpCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Serve get_status, nudge_now and stop_monitor over stdio",
		Long: `Runs an MCP server on stdin/stdout. Each tool call is forwarded to the
running daemon over its IPC socket, so start the daemon first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return mcp.NewServer(ipc.NewClient(), version).Run(ctx)
		},
	})
	return mcpCmd
}
