package cmd

import (
	"fmt"
	"time"

	"github.com/mj1618/tabshuttle/internal/scenario"
	"github.com/mj1618/tabshuttle/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server over a simulated browser",
	Long: `Start a Model Context Protocol (MCP) server whose tools drive a simulated
browser running tabshuttle. Agents can focus and close windows, open and
click the tab context menu, fire commands and inspect the result.

Supported transports:
  stdio             Standard I/O (default, for MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  tabshuttle serve
  tabshuttle serve --scenario three_windows.yaml
  tabshuttle serve --transport streamable-http --port 8080`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
	serveCmd.Flags().Int("cache-ttl", 200, "State cache TTL in milliseconds (0 to disable)")
	serveCmd.Flags().String("scenario", "", "Scenario whose windows seed the browser (steps are replayed first)")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	cacheTTLMs, _ := cmd.Flags().GetInt("cache-ttl")
	path, _ := cmd.Flags().GetString("scenario")

	sc := scenario.Default()
	if path != "" {
		var err error
		if sc, err = scenario.Load(path); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	r, err := scenario.NewRunner(ctx, sc, settings, logger)
	if err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}
	defer r.Close()
	if err := r.Run(ctx, sc); err != nil {
		return err
	}

	cfg := server.Config{
		Transport: transport,
		Port:      port,
		CacheTTL:  time.Duration(cacheTTLMs) * time.Millisecond,
	}
	return server.New(r, cfg, logger).Serve(cfg)
}
