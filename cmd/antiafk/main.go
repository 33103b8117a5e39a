package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"

	"github.com/oronila/antiafk/internal/config"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

type globalFlags struct {
	ConfigPath string
	Debug      bool
}

func setGlobalFlags(flags *flag.FlagSet) *globalFlags {
	g := &globalFlags{}
	flags.StringVar(&g.ConfigPath, "config", "", "Config file path (default: $ANTIAFK_CONFIG or ~/.config/antiafk/config.yaml)")
	flags.BoolVar(&g.Debug, "debug", false, "Enable debug logging")
	return g
}

func (g *globalFlags) load() (*config.LoadResult, error) {
	if g.ConfigPath == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(g.ConfigPath)
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "antiafk",
		Short: "Keep the session awake by nudging the pointer when idle",
		Long: `antiafk watches for pointer (and optionally keyboard) activity and, after
the configured idle timeout, moves the pointer a few pixels and back.

Run without a subcommand to start the daemon in the foreground.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

func buildRoot() *cobra.Command {
	rootCmd := newRootCmd()
	g := setGlobalFlags(rootCmd.PersistentFlags())

	rootCmd.Args = cobra.NoArgs
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runDaemon(cmd.Context(), g)
	}

	rootCmd.AddCommand(newRunCmd(g))
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newStopCmd())
	rootCmd.AddCommand(newNudgeCmd())
	rootCmd.AddCommand(newConfigCmd(g))
	rootCmd.AddCommand(newMCPCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func main() {
	if err := buildRoot().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
