// Package server exposes a simulated browser running the background as MCP
// tools.
package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"pkt.systems/pslog"

	"github.com/mj1618/tabshuttle/internal/scenario"
	"github.com/mj1618/tabshuttle/internal/version"
)

// Config holds MCP server configuration.
type Config struct {
	Transport string
	Port      int
	CacheTTL  time.Duration
}

// Server wraps the MCP server with the scenario runner and cache.
type Server struct {
	runner   *scenario.Runner
	cache    *StateCache
	runnerMu sync.Mutex
	log      pslog.Logger
	mcp      *mcpserver.MCPServer
}

// New creates and configures an MCP server with all tabshuttle tools.
func New(runner *scenario.Runner, cfg Config, log pslog.Logger) *Server {
	s := &Server{
		runner: runner,
		cache:  NewStateCache(cfg.CacheTTL),
		log:    log,
	}
	s.mcp = mcpserver.NewMCPServer(
		"tabshuttle",
		version.Version,
	)
	s.registerTools()
	return s
}

// Serve starts the MCP server with the configured transport.
func (s *Server) Serve(cfg Config) error {
	s.log.Info("mcp server starting", "transport", cfg.Transport, "port", cfg.Port)
	switch cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("list_windows",
			mcp.WithDescription("List browser windows with their tabs"),
			mcp.WithBoolean("normal-only", mcp.Description("Only list normal windows")),
		),
		s.handleListWindows,
	)

	s.mcp.AddTool(
		mcp.NewTool("focus_window",
			mcp.WithDescription("Give focus to a window, or to nothing with -1"),
			mcp.WithNumber("window", mcp.Description("Window ID"), mcp.Required()),
		),
		s.handleFocusWindow,
	)

	s.mcp.AddTool(
		mcp.NewTool("close_window",
			mcp.WithDescription("Close a window and all its tabs"),
			mcp.WithNumber("window", mcp.Description("Window ID"), mcp.Required()),
		),
		s.handleCloseWindow,
	)

	s.mcp.AddTool(
		mcp.NewTool("show_menu",
			mcp.WithDescription("Open the tab context menu on a tab. The result lists the move and reopen entries."),
			mcp.WithNumber("tab", mcp.Description("Tab ID"), mcp.Required()),
		),
		s.handleShowMenu,
	)

	s.mcp.AddTool(
		mcp.NewTool("hide_menu",
			mcp.WithDescription("Close the tab context menu"),
		),
		s.handleHideMenu,
	)

	s.mcp.AddTool(
		mcp.NewTool("click_menu",
			mcp.WithDescription("Click a context menu entry, by id or by target window"),
			mcp.WithString("item", mcp.Description("Menu entry ID")),
			mcp.WithNumber("window", mcp.Description("Target window, used when item is not given")),
			mcp.WithString("kind", mcp.Description("Entry kind for window: move or reopen (default: move)")),
			mcp.WithBoolean("shift", mcp.Description("Hold shift, switching to the moved tab")),
			mcp.WithNumber("button", mcp.Description("Mouse button: 0 primary, 1 middle")),
		),
		s.handleClickMenu,
	)

	s.mcp.AddTool(
		mcp.NewTool("click_action",
			mcp.WithDescription("Press the toolbar button in the focused window"),
			mcp.WithBoolean("shift", mcp.Description("Hold shift, switching to the moved tab")),
			mcp.WithNumber("button", mcp.Description("Mouse button: 0 primary, 1 middle")),
		),
		s.handleClickAction,
	)

	s.mcp.AddTool(
		mcp.NewTool("run_command",
			mcp.WithDescription("Fire a keyboard command: move-tab, move-tab-switch, reopen-tab, move-to-new-window, move-to-end, jump-to-recent-tab"),
			mcp.WithString("command", mcp.Description("Command name"), mcp.Required()),
		),
		s.handleRunCommand,
	)

	s.mcp.AddTool(
		mcp.NewTool("state",
			mcp.WithDescription("Show windows, tabs, recency order, menu entries and badge"),
		),
		s.handleState,
	)
}
