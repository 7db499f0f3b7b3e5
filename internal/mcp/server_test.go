package mcp

import (
	"context"
	"errors"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/bismuth/internal/ipc"
)

type fakeDaemon struct {
	layout   string
	steps    []int
	actions  []string
	arranged int
	reloads  int
	down     bool
}

var errDown = errors.New("failed to connect to daemon")

func (d *fakeDaemon) check() error {
	if d.down {
		return errDown
	}
	return nil
}

func (d *fakeDaemon) layouts() *ipc.LayoutsData {
	return &ipc.LayoutsData{
		Layouts:       []ipc.LayoutInfo{{Name: "tile", Description: "Tile"}, {Name: "monocle", Description: "Monocle"}},
		DefaultLayout: "tile",
		ActiveLayout:  d.layout,
	}
}

func (d *fakeDaemon) GetStatus() (*ipc.StatusData, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	return &ipc.StatusData{CurrentSurface: "screen0/desktop0", ActiveLayout: d.layout, WindowCount: 3, DaemonRunning: true}, nil
}

func (d *fakeDaemon) GetSurfaces() (*ipc.SurfacesData, error) {
	return &ipc.SurfacesData{Surfaces: []ipc.SurfaceInfo{{ID: "screen0/desktop0", Current: true}}}, d.check()
}

func (d *fakeDaemon) ListWindows() (*ipc.WindowsData, error) {
	return &ipc.WindowsData{Windows: []ipc.WindowInfo{{ID: 7, Class: "firefox", State: "tiled"}}}, d.check()
}

func (d *fakeDaemon) ListLayouts() (*ipc.LayoutsData, error) { return d.layouts(), d.check() }

func (d *fakeDaemon) SetLayout(name string) (*ipc.LayoutsData, error) {
	d.layout = name
	return d.layouts(), d.check()
}

func (d *fakeDaemon) CycleLayout(step int) (*ipc.LayoutsData, error) {
	d.steps = append(d.steps, step)
	return d.layouts(), d.check()
}

func (d *fakeDaemon) ListActions() (*ipc.ActionsData, error) {
	return &ipc.ActionsData{Actions: []ipc.ActionInfo{{Name: "rotate", Keys: "Mod4-r"}}}, d.check()
}

func (d *fakeDaemon) RunAction(name string) error {
	d.actions = append(d.actions, name)
	return d.check()
}

func (d *fakeDaemon) Arrange() error {
	d.arranged++
	return d.check()
}

func (d *fakeDaemon) Reload() error {
	d.reloads++
	return d.check()
}

func TestTools_LayoutHandlers(t *testing.T) {
	d := &fakeDaemon{layout: "tile"}
	s := NewServer(d)
	ctx := context.Background()

	_, out, err := s.handleSetLayout(ctx, nil, SetLayoutInput{Layout: " monocle "})
	require.NoError(t, err)
	assert.Equal(t, "monocle", out.ActiveLayout)
	assert.Len(t, out.Layouts, 2)

	_, _, err = s.handleSetLayout(ctx, nil, SetLayoutInput{})
	assert.ErrorContains(t, err, "layout is required")

	_, _, err = s.handleCycleLayout(ctx, nil, CycleLayoutInput{})
	require.NoError(t, err)
	_, _, err = s.handleCycleLayout(ctx, nil, CycleLayoutInput{Step: -1})
	require.NoError(t, err)
	assert.Equal(t, []int{1, -1}, d.steps)
}

func TestTools_ActionHandlers(t *testing.T) {
	d := &fakeDaemon{layout: "tile"}
	s := NewServer(d)
	ctx := context.Background()

	_, out, err := s.handleRunAction(ctx, nil, RunActionInput{Action: "rotate"})
	require.NoError(t, err)
	assert.True(t, out.OK)
	assert.Equal(t, []string{"rotate"}, d.actions)

	_, _, err = s.handleRunAction(ctx, nil, RunActionInput{Action: "  "})
	assert.ErrorContains(t, err, "action is required")

	_, _, err = s.handleArrange(ctx, nil, EmptyInput{})
	require.NoError(t, err)
	_, _, err = s.handleReload(ctx, nil, EmptyInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, d.arranged)
	assert.Equal(t, 1, d.reloads)
}

func TestTools_DaemonDown(t *testing.T) {
	s := NewServer(&fakeDaemon{down: true})
	_, _, err := s.handleStatus(context.Background(), nil, EmptyInput{})
	assert.ErrorIs(t, err, errDown)
}

func TestServer_InMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewServer(&fakeDaemon{layout: "monocle"})

	serverTransport, clientTransport := mcpsdk.NewInMemoryTransports()
	serverSession, err := s.mcpServer.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer serverSession.Close()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test", Version: "0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"status", "list_windows", "list_surfaces", "list_layouts", "set_layout",
		"cycle_layout", "list_actions", "run_action", "arrange", "reload_config",
	}, names)

	res, err := session.CallTool(ctx, &mcpsdk.CallToolParams{Name: "status", Arguments: map[string]any{}})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "monocle")
}
