package ipc

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHandler struct {
	mu       sync.Mutex
	layout   string
	actions  []string
	reloads  int
	arranged int
}

func (h *fakeHandler) layouts() *LayoutsData {
	return &LayoutsData{
		Layouts: []LayoutInfo{
			{Name: "tile", Description: "Tile"},
			{Name: "monocle", Description: "Monocle"},
		},
		DefaultLayout: "tile",
		ActiveLayout:  h.layout,
	}
}

func (h *fakeHandler) Status() (*StatusData, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return &StatusData{CurrentSurface: "screen0/desktop0", ActiveLayout: h.layout, WindowCount: 2}, nil
}

func (h *fakeHandler) Surfaces() (*SurfacesData, error) {
	return &SurfacesData{Surfaces: []SurfaceInfo{{ID: "screen0/desktop0", Layout: "tile", Current: true}}}, nil
}

func (h *fakeHandler) Windows() (*WindowsData, error) {
	return &WindowsData{Windows: []WindowInfo{{ID: 42, Class: "XTerm", State: "tiled"}}}, nil
}

func (h *fakeHandler) Layouts() (*LayoutsData, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.layouts(), nil
}

func (h *fakeHandler) SetLayout(name string) (*LayoutsData, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if name != "tile" && name != "monocle" {
		return nil, errors.New("unknown layout " + name)
	}
	h.layout = name
	return h.layouts(), nil
}

func (h *fakeHandler) CycleLayout(step int) (*LayoutsData, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.layout == "tile" {
		h.layout = "monocle"
	} else {
		h.layout = "tile"
	}
	return h.layouts(), nil
}

func (h *fakeHandler) Actions() (*ActionsData, error) {
	return &ActionsData{Actions: []ActionInfo{{Name: "rotate", Description: "Rotate", Keys: "Mod4-r"}}}, nil
}

func (h *fakeHandler) RunAction(name string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if name == "nope" {
		return errors.New("unknown action: nope")
	}
	h.actions = append(h.actions, name)
	return nil
}

func (h *fakeHandler) Arrange() error {
	h.mu.Lock()
	h.arranged++
	h.mu.Unlock()
	return nil
}

func (h *fakeHandler) Reload() error {
	h.mu.Lock()
	h.reloads++
	h.mu.Unlock()
	return nil
}

func startServer(t *testing.T) (*fakeHandler, *Client) {
	t.Helper()
	dir, err := os.MkdirTemp("", "bismuth-ipc")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	// Unix socket paths are length limited; keep them short.
	socket := filepath.Join(dir, "s.sock")

	h := &fakeHandler{layout: "tile"}
	srv, err := NewServer(socket, h)
	require.NoError(t, err)
	require.NoError(t, srv.Start())
	t.Cleanup(srv.Stop)

	return h, NewClientWithSocket(socket)
}

func TestServer_StatusAndListings(t *testing.T) {
	_, c := startServer(t)

	status, err := c.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.DaemonRunning)
	assert.Equal(t, "tile", status.ActiveLayout)
	assert.Equal(t, 2, status.WindowCount)

	surfaces, err := c.GetSurfaces()
	require.NoError(t, err)
	require.Len(t, surfaces.Surfaces, 1)
	assert.True(t, surfaces.Surfaces[0].Current)

	windows, err := c.ListWindows()
	require.NoError(t, err)
	require.Len(t, windows.Windows, 1)
	assert.Equal(t, uint32(42), windows.Windows[0].ID)

	actions, err := c.ListActions()
	require.NoError(t, err)
	assert.Equal(t, "Mod4-r", actions.Actions[0].Keys)
}

func TestServer_Layouts(t *testing.T) {
	_, c := startServer(t)

	data, err := c.SetLayout("monocle")
	require.NoError(t, err)
	assert.Equal(t, "monocle", data.ActiveLayout)

	data, err = c.CycleLayout(1)
	require.NoError(t, err)
	assert.Equal(t, "tile", data.ActiveLayout)

	_, err = c.SetLayout("bsp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown layout bsp")

	_, err = c.SetLayout("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "layout_name is required")
}

func TestServer_ActionsReloadArrange(t *testing.T) {
	h, c := startServer(t)

	require.NoError(t, c.RunAction("rotate"))
	err := c.RunAction("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown action")

	require.NoError(t, c.Reload())
	require.NoError(t, c.Arrange())
	require.NoError(t, c.Ping())

	h.mu.Lock()
	defer h.mu.Unlock()
	assert.Equal(t, []string{"rotate"}, h.actions)
	assert.Equal(t, 1, h.reloads)
	assert.Equal(t, 1, h.arranged)
}

func TestServer_UnknownCommand(t *testing.T) {
	_, c := startServer(t)

	err := c.call(CommandType("BOGUS"), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown command: BOGUS")
}

func TestClient_NoDaemon(t *testing.T) {
	c := NewClientWithSocket(filepath.Join(t.TempDir(), "missing.sock"))
	err := c.Ping()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is the daemon running?")
}
