// Package mcp exposes the running daemon to MCP clients over stdio.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/bismuth/internal/ipc"
)

const (
	ServerName    = "bismuth"
	ServerVersion = "0.1.0"
)

// Daemon is the subset of the IPC client the tools call.
type Daemon interface {
	GetStatus() (*ipc.StatusData, error)
	GetSurfaces() (*ipc.SurfacesData, error)
	ListWindows() (*ipc.WindowsData, error)
	ListLayouts() (*ipc.LayoutsData, error)
	SetLayout(name string) (*ipc.LayoutsData, error)
	CycleLayout(step int) (*ipc.LayoutsData, error)
	ListActions() (*ipc.ActionsData, error)
	RunAction(name string) error
	Arrange() error
	Reload() error
}

var _ Daemon = (*ipc.Client)(nil)

// Server is the MCP server proxying tool calls to the daemon.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
}

// NewServer creates a server whose tools talk to daemon.
func NewServer(daemon Daemon) *Server {
	s := &Server{daemon: daemon}
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

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "status",
		Description: "Show the daemon status: current surface, its layout, managed window and tile counts, and the focused window.",
	}, s.handleStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List managed windows in tiling order with class, title, state (tiled, floating, maximized, minimized), surface and geometry.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_surfaces",
		Description: "List every surface (one per screen and virtual desktop) with its working area and active layout.",
	}, s.handleListSurfaces)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_layouts",
		Description: "List the enabled layouts, the configured default and the layout of the current surface.",
	}, s.handleListLayouts)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_layout",
		Description: "Switch the current surface to a layout. Selecting the active layout again toggles back to the previous one.",
	}, s.handleSetLayout)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "cycle_layout",
		Description: "Move the current surface through the enabled layouts by step positions.",
	}, s.handleCycleLayout)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_actions",
		Description: "List every shortcut action with its description and bound keys.",
	}, s.handleListActions)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "run_action",
		Description: "Run a shortcut action as if its key was pressed, e.g. focus-next, move-left, toggle-floating or rotate.",
	}, s.handleRunAction)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "arrange",
		Description: "Re-read window state and re-arrange every surface.",
	}, s.handleArrange)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "reload_config",
		Description: "Reload the daemon configuration file. An invalid file is reported and the previous configuration stays active.",
	}, s.handleReload)
}
