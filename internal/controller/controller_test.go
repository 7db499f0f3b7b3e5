package controller_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/bismuth/internal/controller"
	"github.com/1broseidon/bismuth/internal/engine"
	"github.com/1broseidon/bismuth/internal/engine/enginetest"
	"github.com/1broseidon/bismuth/internal/tiling"
)

var testArea = tiling.Rect{Width: 1000, Height: 500}

type fixture struct {
	c *controller.Controller
	e *engine.Engine
	d *enginetest.Driver
}

func newFixture(t *testing.T, opts engine.Options, rules controller.Rules) fixture {
	t.Helper()
	d := enginetest.New(testArea, 2)
	e := engine.New(d, nil, opts, nil)
	d.Windows = e.Windows()
	return fixture{c: controller.New(e, rules, nil), e: e, d: d}
}

func (f fixture) add(t *testing.T, ids ...engine.WindowID) []*engine.Window {
	t.Helper()
	out := make([]*engine.Window, len(ids))
	for i, id := range ids {
		w := engine.NewWindow(id, f.d.Current, tiling.Rect{X: 5, Y: 5, Width: 100, Height: 100})
		require.True(t, f.c.OnWindowAdded(w))
		out[i] = w
	}
	return out
}

func TestController_DragToFloat(t *testing.T) {
	f := newFixture(t, engine.DefaultOptions(), controller.Rules{})
	w := f.add(t, 1)[0]
	tiled := w.Geometry

	w.ActualGeometry = tiled
	w.ActualGeometry.X += 40
	dropped := w.ActualGeometry
	f.c.OnWindowMoveOver(w)

	assert.Equal(t, engine.StateFloating, w.State())
	assert.Equal(t, dropped, w.FloatGeometry)
}

func TestController_SmallDragSnapsBack(t *testing.T) {
	f := newFixture(t, engine.DefaultOptions(), controller.Rules{})
	w := f.add(t, 1)[0]
	tiled := w.Geometry

	w.ActualGeometry.X += 10
	f.c.OnWindowMoveOver(w)

	assert.Equal(t, engine.StateTiled, w.State())
	assert.Equal(t, tiled, f.d.Geometries[1])
	assert.Equal(t, tiled, w.ActualGeometry)
}

func TestController_DragOntoTileSwaps(t *testing.T) {
	f := newFixture(t, engine.DefaultOptions(), controller.Rules{})
	w := f.add(t, 1, 2)
	master, stack := w[0].Geometry, w[1].Geometry

	w[0].ActualGeometry = stack
	f.c.OnWindowMoveOver(w[0])

	assert.Equal(t, engine.StateTiled, w[0].State())
	assert.Equal(t, stack, w[0].Geometry)
	assert.Equal(t, master, w[1].Geometry)
}

func TestController_MonocleMinimizeRest(t *testing.T) {
	opts := engine.DefaultOptions()
	opts.MonocleMinimizeRest = true
	f := newFixture(t, opts, controller.Rules{})
	require.True(t, f.e.SetLayout(tiling.KindMonocle))
	w := f.add(t, 1, 2, 3)

	f.d.Activate(2)
	f.c.OnWindowFocused(w[1])

	assert.Equal(t, engine.StateMinimized, w[0].State())
	assert.Equal(t, engine.StateTiled, w[1].State())
	assert.Equal(t, engine.StateMinimized, w[2].State())
	assert.Equal(t, testArea, w[1].Geometry)
	assert.Equal(t, testArea, f.d.Geometries[2])
	assert.True(t, f.d.Minimized[1])
	assert.True(t, f.d.Minimized[3])
}

func TestController_MonocleRemovalFocusesNext(t *testing.T) {
	opts := engine.DefaultOptions()
	opts.MonocleMinimizeRest = true
	f := newFixture(t, opts, controller.Rules{})
	require.True(t, f.e.SetLayout(tiling.KindMonocle))
	w := f.add(t, 1, 2, 3)

	f.d.Activate(2)
	f.c.OnWindowFocused(w[1])
	f.d.ClearActive()
	f.c.OnWindowRemoved(w[1])

	assert.Equal(t, engine.WindowID(1), f.d.Active)
	assert.Equal(t, engine.StateTiled, w[0].State())
	assert.Equal(t, engine.StateMinimized, w[2].State())
	assert.Equal(t, testArea, f.d.Geometries[1])
	assert.False(t, f.d.Minimized[1])
}

func TestController_OverflowRelocation(t *testing.T) {
	f := newFixture(t, engine.DefaultOptions(), controller.Rules{})
	require.True(t, f.e.SetLayout(tiling.KindQuarter))
	f.add(t, 1, 2, 3, 4)
	s1, s2 := engine.SurfaceID{Desktop: 0}, engine.SurfaceID{Desktop: 1}
	require.Equal(t, s1, f.d.Current)

	fifth := f.add(t, 5)[0]

	assert.Equal(t, s2, fifth.Surface)
	assert.Equal(t, s2, f.d.Current)
	assert.Equal(t, s2, f.d.Moved[5])
	assert.Len(t, f.e.Windows().VisibleTiles(s1), 4)
}

func TestController_OverflowWithoutNextSurfaceStays(t *testing.T) {
	f := newFixture(t, engine.DefaultOptions(), controller.Rules{})
	f.d.Current = engine.SurfaceID{Desktop: 1}
	require.True(t, f.e.SetLayout(tiling.KindQuarter))
	w := f.add(t, 1, 2, 3, 4, 5)

	assert.Equal(t, engine.SurfaceID{Desktop: 1}, w[4].Surface)
	assert.Equal(t, engine.StateTiled, w[4].State())
}

func TestController_FloatingLayoutDoesNotRelocate(t *testing.T) {
	f := newFixture(t, engine.DefaultOptions(), controller.Rules{})
	require.True(t, f.e.SetLayout(tiling.KindFloating))
	w := f.add(t, 1)

	assert.Equal(t, engine.SurfaceID{}, w[0].Surface)
}

func TestController_ShadeFloatsAndRestores(t *testing.T) {
	f := newFixture(t, engine.DefaultOptions(), controller.Rules{})
	w := f.add(t, 1, 2)

	f.c.OnWindowShadeChanged(w[0], true)
	assert.Equal(t, engine.StateFloating, w[0].State())
	assert.Equal(t, testArea, w[1].Geometry, "remaining tile fills the surface")

	f.c.OnWindowShadeChanged(w[0], false)
	assert.Equal(t, engine.StateTiled, w[0].State())
}

func TestController_WindowChanged(t *testing.T) {
	f := newFixture(t, engine.DefaultOptions(), controller.Rules{})
	w := f.add(t, 1, 2)

	f.c.OnWindowChanged(w[0], controller.Change{Kind: controller.ChangeMinimized})
	assert.Equal(t, engine.StateMinimized, w[0].State())
	assert.Equal(t, testArea, w[1].Geometry)

	f.c.OnWindowChanged(w[0], controller.Change{Kind: controller.ChangeUnminimized})
	assert.Equal(t, engine.StateTiled, w[0].State())
	assert.Equal(t, engine.WindowID(1), f.d.Active)

	f.c.OnWindowChanged(w[1], controller.Change{Detail: "title"})
	assert.Equal(t, engine.StateTiled, w[1].State())
	f.c.OnWindowChanged(nil, controller.Change{})
}

func TestController_ResizeOver(t *testing.T) {
	opts := engine.DefaultOptions()
	opts.AdjustLayoutLive = false
	f := newFixture(t, opts, controller.Rules{})
	w := f.add(t, 1, 2)

	w[0].ActualGeometry.Width += 100
	f.c.OnWindowResize(w[0])
	assert.InDelta(t, 0.55, f.e.CurrentLayout().Tile.MasterRatio, 1e-9, "live adjustment disabled")

	f.c.OnWindowResizeOver(w[0])
	assert.InDelta(t, 0.65, f.e.CurrentLayout().Tile.MasterRatio, 1e-9)

	opts.AdjustLayout = false
	f.e.SetOptions(opts)
	w[0].ActualGeometry.Width = 20
	f.c.OnWindowResizeOver(w[0])
	assert.Equal(t, w[0].Geometry, w[0].ActualGeometry, "size is enforced")
}

func TestController_MaximizeChanged(t *testing.T) {
	f := newFixture(t, engine.DefaultOptions(), controller.Rules{})
	w := f.add(t, 1, 2)

	f.c.OnWindowMaximizeChanged(w[0], true)
	assert.Equal(t, engine.StateMaximized, w[0].State())
	assert.Equal(t, testArea, w[1].Geometry)

	f.c.OnWindowMaximizeChanged(w[0], false)
	assert.Equal(t, engine.StateTiled, w[0].State())
}

func TestController_Rules(t *testing.T) {
	f := newFixture(t, engine.DefaultOptions(), controller.Rules{
		FloatClasses:  []string{"Pavucontrol"},
		IgnoreClasses: []string{"Polybar"},
	})

	bar := engine.NewWindow(1, engine.SurfaceID{}, tiling.Rect{Width: 10, Height: 10})
	bar.Class = "Polybar"
	assert.False(t, f.c.OnWindowAdded(bar))
	assert.Equal(t, 0, f.e.Windows().Len())

	mixer := engine.NewWindow(2, engine.SurfaceID{}, tiling.Rect{Width: 10, Height: 10})
	mixer.Class = "Pavucontrol"
	require.True(t, f.c.OnWindowAdded(mixer))
	assert.Equal(t, engine.StateFloating, mixer.State())
}

func TestController_ArrangeIdempotentAfterEvents(t *testing.T) {
	f := newFixture(t, engine.DefaultOptions(), controller.Rules{})
	w := f.add(t, 1, 2, 3)
	f.c.OnSurfaceUpdate("work area")
	before := []tiling.Rect{w[0].Geometry, w[1].Geometry, w[2].Geometry}

	f.c.Arrange()
	assert.Equal(t, before, []tiling.Rect{w[0].Geometry, w[1].Geometry, w[2].Geometry})
}

func TestController_RunAction(t *testing.T) {
	f := newFixture(t, engine.DefaultOptions(), controller.Rules{})
	w := f.add(t, 1, 2)

	require.NoError(t, f.c.RunAction("focus-next"))
	assert.Equal(t, engine.WindowID(1), f.d.Active)

	require.NoError(t, f.c.RunAction("move-next-position"))
	assert.Equal(t, testArea.Width-w[0].Geometry.Width, w[1].Geometry.Width)
	assert.Equal(t, 0, w[1].Geometry.X, "window 2 is now master")

	require.NoError(t, f.c.RunAction("increase-master-count"))
	assert.Equal(t, 2, f.e.CurrentLayout().Tile.MasterCount)

	require.NoError(t, f.c.RunAction("monocle-layout"))
	assert.Equal(t, testArea, w[0].Geometry)

	require.NoError(t, f.c.RunAction("toggle-floating"))
	assert.Equal(t, engine.StateFloating, w[0].State())

	err := f.c.RunAction("explode")
	assert.True(t, errors.Is(err, controller.ErrUnknownAction))
}

func TestController_ActionsWithoutWindowAreNoops(t *testing.T) {
	f := newFixture(t, engine.DefaultOptions(), controller.Rules{})
	for _, name := range controller.ActionNames() {
		assert.NoError(t, f.c.RunAction(name), name)
	}
}

func TestActionNames(t *testing.T) {
	names := controller.ActionNames()
	assert.Len(t, names, len(controller.Actions()))
	assert.True(t, controller.IsAction("rotate-part"))
	assert.False(t, controller.IsAction("rotate-everything"))
}

func TestController_MonocleFocusStepReachesMinimizedTiles(t *testing.T) {
	opts := engine.DefaultOptions()
	opts.MonocleMinimizeRest = true
	f := newFixture(t, opts, controller.Rules{})
	require.True(t, f.e.SetLayout(tiling.KindMonocle))
	w := f.add(t, 1, 2, 3)

	f.d.Activate(2)
	f.c.OnWindowFocused(w[1])
	require.Equal(t, engine.StateMinimized, w[2].State())

	require.NoError(t, f.c.RunAction("focus-next"))
	assert.Equal(t, engine.WindowID(3), f.d.Active)
	assert.Equal(t, engine.StateTiled, w[2].State())
	assert.False(t, f.d.Minimized[3])

	f.c.OnWindowFocused(w[2])
	assert.Equal(t, engine.StateMinimized, w[1].State())

	require.NoError(t, f.c.RunAction("focus-previous"))
	assert.Equal(t, engine.WindowID(2), f.d.Active)
	assert.Equal(t, engine.StateTiled, w[1].State())

	require.NoError(t, f.c.RunAction("focus-left"))
	assert.Equal(t, engine.WindowID(1), f.d.Active)
	assert.Equal(t, engine.StateTiled, w[0].State())
}

func TestController_MonocleDirectionalFocusCycles(t *testing.T) {
	f := newFixture(t, engine.DefaultOptions(), controller.Rules{})
	require.True(t, f.e.SetLayout(tiling.KindMonocle))
	f.add(t, 1, 2, 3)
	f.d.Activate(2)

	tests := []struct {
		action string
		want   engine.WindowID
	}{
		{"focus-right", 3},
		{"focus-down", 1},
		{"focus-up", 3},
		{"focus-left", 2},
	}
	for _, tt := range tests {
		require.NoError(t, f.c.RunAction(tt.action))
		assert.Equal(t, tt.want, f.d.Active, tt.action)
	}
}

func TestController_DragSwapUsesLiveGeometry(t *testing.T) {
	f := newFixture(t, engine.DefaultOptions(), controller.Rules{})
	w := f.add(t, 1, 2, 3)
	master, top, bottom := w[0].Geometry, w[1].Geometry, w[2].Geometry

	// The top stack tile has drifted away from its slot, and the bottom
	// one currently covers the whole stack column.
	w[1].ActualGeometry = tiling.Rect{X: 0, Y: 0, Width: 1, Height: 1}
	w[2].ActualGeometry = tiling.Rect{X: top.X, Y: top.Y, Width: top.Width, Height: bottom.MaxY() - top.Y}

	w[0].ActualGeometry = top
	f.c.OnWindowMoveOver(w[0])

	assert.Equal(t, engine.StateTiled, w[0].State())
	assert.Equal(t, master, w[2].Geometry)
	assert.Equal(t, bottom, w[0].Geometry)
	assert.Equal(t, top, w[1].Geometry)
}
