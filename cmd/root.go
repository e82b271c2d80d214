package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mj1618/tabshuttle/internal/config"
	"github.com/mj1618/tabshuttle/internal/logx"
	"github.com/mj1618/tabshuttle/internal/output"
	"github.com/mj1618/tabshuttle/internal/version"
	"github.com/spf13/cobra"
	"pkt.systems/pslog"
)

var rootCmd = &cobra.Command{
	Use:   "tabshuttle",
	Short: "Move browser tabs between windows",
	Long: `tabshuttle moves tabs and tab selections between browser windows. It tracks
which window was focused last, builds a context menu of move targets, and
reopens tabs when a move would cross the private browsing boundary.

The commands here drive a simulated browser, so behavior can be scripted
and inspected without a real one.`,
	SilenceUsage: true,
}

// settings and logger are set by the root PersistentPreRunE.
var (
	settings config.Settings
	logger   pslog.Logger
)

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Pretty-print output (no-op for YAML)")
	rootCmd.PersistentFlags().String("config", "", "Settings file (default ~/.config/tabshuttle/config.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "Log host call failures (overrides debug_logging)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.ParseFormat(format)
		if err != nil {
			return fmt.Errorf("%w (use yaml or json)", err)
		}
		output.OutputFormat = f
		output.PrettyOutput, _ = rootCmd.PersistentFlags().GetBool("pretty")

		path, _ := rootCmd.PersistentFlags().GetString("config")
		s, err := config.Load(path)
		if err != nil {
			return err
		}
		if debug, _ := rootCmd.PersistentFlags().GetBool("debug"); debug {
			s.DebugLogging = true
		}
		settings = s
		logger = logx.NewConsole(os.Stderr, s.DebugLogging)

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		cmd.SetContext(logx.WithLogger(ctx, logger))
		return nil
	}
}
