package mcp

import (
	"context"
	"fmt"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/coco/internal/ipc"
)

const (
	ServerName    = "coco"
	ServerVersion = "0.1.0"
)

// Daemon is the subset of the IPC client the tools need.
type Daemon interface {
	Greet(name string) (string, error)
	CreateDir() error
	Show() (*ipc.ShowData, error)
	Hide() error
	Toggle() error
	SetHeight(height int) error
	GetMonitors() (*ipc.MonitorsData, error)
	GetStatus() (*ipc.StatusData, error)
}

// Server exposes the launcher commands as MCP tools. Every tool is
// forwarded to the running daemon.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
	logger    *slog.Logger
}

// NewServer creates a new MCP server talking to daemon.
func NewServer(daemon Daemon, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		daemon: daemon,
		logger: logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
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

// Connect serves a single session over t.
func (s *Server) Connect(ctx context.Context, t mcpsdk.Transport) (*mcpsdk.ServerSession, error) {
	return s.mcpServer.Connect(ctx, t, nil)
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "greet",
		Description: "Return a greeting for the given name.",
	}, s.handleGreet)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "create_dir",
		Description: "Create the configured file (files.create_dir/files.create_name in the coco config).",
	}, s.handleCreateDir)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "show_launcher",
		Description: "Center the launcher window on the monitor under the mouse cursor, then show, unminimize and focus it. Returns the monitor used and the placement outcome (moved, skipped when already on that monitor, or failed).",
	}, s.handleShowLauncher)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "hide_launcher",
		Description: "Hide the launcher window.",
	}, s.handleHideLauncher)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_launcher",
		Description: "Hide the launcher if it is visible, otherwise show it.",
	}, s.handleToggleLauncher)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "change_window_height",
		Description: "Resize the launcher window to the given height in pixels, keeping its current width.",
	}, s.handleChangeWindowHeight)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_monitors",
		Description: "List connected monitors with their desktop-space bounds.",
	}, s.handleListMonitors)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report whether the launcher window is bound and which monitor it was last centered on.",
	}, s.handleGetStatus)
}

func textResult(format string, args ...any) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: fmt.Sprintf(format, args...)},
		},
	}
}
