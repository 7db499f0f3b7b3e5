package platform_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/bismuth/internal/engine"
	"github.com/1broseidon/bismuth/internal/platform"
	"github.com/1broseidon/bismuth/internal/platform/platformtest"
	"github.com/1broseidon/bismuth/internal/tiling"
)

func newFakeBackend() *platformtest.Backend {
	return platformtest.New(2,
		platform.Display{ID: 0, Name: "DP-1", Bounds: tiling.Rect{Width: 1000, Height: 500}, Usable: tiling.Rect{Y: 20, Width: 1000, Height: 480}},
		platform.Display{ID: 1, Name: "HDMI-1", Bounds: tiling.Rect{X: 1000, Width: 800, Height: 600}, Usable: tiling.Rect{X: 1000, Width: 800, Height: 600}},
	)
}

func TestDriver_SurfacesAreScreenMajor(t *testing.T) {
	b := newFakeBackend()
	d := platform.NewDriver(b, nil, nil)
	changed, err := d.Refresh()
	require.NoError(t, err)
	assert.True(t, changed)

	surfaces := d.Surfaces()
	require.Len(t, surfaces, 4)
	assert.Equal(t, engine.SurfaceID{Screen: 0, Desktop: 0}, surfaces[0].ID)
	assert.Equal(t, engine.SurfaceID{Screen: 0, Desktop: 1}, surfaces[1].ID)
	assert.Equal(t, engine.SurfaceID{Screen: 1, Desktop: 0}, surfaces[2].ID)
	assert.Equal(t, "HDMI-1", surfaces[3].Name)
	assert.Equal(t, b.DisplayList[0].Usable, surfaces[0].WorkingArea)

	changed, err = d.Refresh()
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestDriver_CurrentSurfaceFollowsFocusThenPointer(t *testing.T) {
	b := newFakeBackend()
	b.Desktop = 1
	b.PointerAt = tiling.Point{X: 1200, Y: 100}
	d := platform.NewDriver(b, nil, nil)
	_, err := d.Refresh()
	require.NoError(t, err)
	assert.Equal(t, engine.SurfaceID{Screen: 1, Desktop: 1}, d.CurrentSurface())

	b.Add(platform.Window{ID: 7, Desktop: 1, Bounds: tiling.Rect{X: 10, Y: 10, Width: 100, Height: 100}})
	b.Active = 7
	_, err = d.Refresh()
	require.NoError(t, err)
	assert.Equal(t, engine.SurfaceID{Screen: 0, Desktop: 1}, d.CurrentSurface())
}

func TestDriver_SurfaceOf(t *testing.T) {
	b := newFakeBackend()
	b.Desktop = 1
	d := platform.NewDriver(b, nil, nil)
	_, err := d.Refresh()
	require.NoError(t, err)

	onSecond := platform.Window{Desktop: 0, Bounds: tiling.Rect{X: 1100, Y: 0, Width: 200, Height: 200}}
	assert.Equal(t, engine.SurfaceID{Screen: 1, Desktop: 0}, d.SurfaceOf(onSecond))

	sticky := platform.Window{Desktop: -1, Bounds: tiling.Rect{X: 0, Y: 0, Width: 200, Height: 200}}
	assert.Equal(t, engine.SurfaceID{Screen: 0, Desktop: 1}, d.SurfaceOf(sticky))
}

func TestDriver_SetCurrentSurfaceSwitchesDesktop(t *testing.T) {
	b := newFakeBackend()
	d := platform.NewDriver(b, nil, nil)
	_, err := d.Refresh()
	require.NoError(t, err)

	d.SetCurrentSurface(engine.SurfaceID{Screen: 0, Desktop: 1})
	assert.Equal(t, 1, b.Desktop)
	assert.Equal(t, engine.SurfaceID{Screen: 0, Desktop: 1}, d.CurrentSurface())
}

func TestDriver_MoveResizeMarksSettling(t *testing.T) {
	b := newFakeBackend()
	b.Add(platform.Window{ID: 3})
	d := platform.NewDriver(b, nil, nil)
	now := time.Unix(100, 0)
	d.SetClock(func() time.Time { return now })

	d.MoveResize(3, tiling.Rect{X: 1, Y: 2, Width: 3, Height: 4})
	assert.Equal(t, tiling.Rect{X: 1, Y: 2, Width: 3, Height: 4}, b.Placed[3])
	assert.True(t, d.Settling(3))
	assert.False(t, d.Settling(4))

	now = now.Add(platform.SettleWindow + time.Millisecond)
	assert.False(t, d.Settling(3))
}

func TestDriver_SetMinimized(t *testing.T) {
	b := newFakeBackend()
	d := platform.NewDriver(b, nil, nil)

	d.SetMinimized(5, true)
	d.SetMinimized(6, false)
	assert.Equal(t, []engine.WindowID{5}, b.Minimized)
	assert.Equal(t, []engine.WindowID{6}, b.Activated)
}

func TestDriver_MoveToSurface(t *testing.T) {
	b := newFakeBackend()
	b.Add(platform.Window{ID: 9, Desktop: 0, Bounds: tiling.Rect{X: 10, Y: 30, Width: 900, Height: 700}})
	d := platform.NewDriver(b, nil, nil)
	_, err := d.Refresh()
	require.NoError(t, err)

	d.MoveToSurface(9, engine.SurfaceID{Screen: 0, Desktop: 1})
	assert.Equal(t, 1, b.Sent[9])
	_, moved := b.Placed[9]
	assert.False(t, moved, "same screen should not move the window")

	d.MoveToSurface(9, engine.SurfaceID{Screen: 1, Desktop: 1})
	assert.Equal(t, tiling.Rect{X: 1000, Y: 0, Width: 800, Height: 600}, b.Placed[9])
}

func TestDriver_ShowNotification(t *testing.T) {
	var shown []string
	d := platform.NewDriver(newFakeBackend(), func(text string) { shown = append(shown, text) }, nil)
	d.ShowNotification("Monocle")
	assert.Equal(t, []string{"Monocle"}, shown)
}
