package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/bismuth/internal/engine"
	"github.com/1broseidon/bismuth/internal/engine/enginetest"
	"github.com/1broseidon/bismuth/internal/tiling"
)

var testArea = tiling.Rect{Width: 1000, Height: 500}

func newEngine(t *testing.T, opts engine.Options) (*engine.Engine, *enginetest.Driver) {
	t.Helper()
	d := enginetest.New(testArea, 2)
	e := engine.New(d, nil, opts, nil)
	d.Windows = e.Windows()
	return e, d
}

func manage(e *engine.Engine, ids ...engine.WindowID) []*engine.Window {
	out := make([]*engine.Window, len(ids))
	for i, id := range ids {
		w := engine.NewWindow(id, engine.SurfaceID{}, tiling.Rect{Width: 100, Height: 100})
		e.Manage(w)
		out[i] = w
	}
	return out
}

func TestEngine_ArrangeTile(t *testing.T) {
	e, d := newEngine(t, engine.DefaultOptions())
	w := manage(e, 1, 2, 3)
	w[2].SetState(engine.StateFloating)

	e.Arrange()

	assert.Equal(t, tiling.Rect{X: 0, Y: 0, Width: 550, Height: 500}, d.Geometries[1])
	assert.Equal(t, tiling.Rect{X: 550, Y: 0, Width: 450, Height: 500}, d.Geometries[2])
	assert.Equal(t, w[0].Geometry, w[0].ActualGeometry)
	_, placed := d.Geometries[3]
	assert.False(t, placed, "floating windows are left alone")
}

func TestEngine_ArrangeIsIdempotent(t *testing.T) {
	for _, kind := range tiling.Kinds {
		t.Run(kind.String(), func(t *testing.T) {
			e, d := newEngine(t, engine.DefaultOptions())
			w := manage(e, 1, 2, 3, 4, 5)
			e.SetLayout(kind)

			e.Arrange()
			first := make(map[engine.WindowID]tiling.Rect)
			for _, win := range w {
				first[win.ID] = win.Geometry
			}

			e.Arrange()
			for _, win := range w {
				assert.Equal(t, first[win.ID], win.Geometry, "window %d", win.ID)
				if g, ok := d.Geometries[win.ID]; ok {
					assert.Equal(t, win.Geometry, g)
				}
			}
		})
	}
}

func TestEngine_QuarterOverflowKeepsGeometry(t *testing.T) {
	e, d := newEngine(t, engine.DefaultOptions())
	w := manage(e, 1, 2, 3, 4, 5)
	require.True(t, e.SetLayout(tiling.KindQuarter))

	e.Arrange()

	assert.Len(t, d.Geometries, 4)
	assert.Equal(t, tiling.Rect{Width: 100, Height: 100}, w[4].Geometry)
	assert.Equal(t, engine.StateTiled, w[4].State())
}

func TestEngine_SwapPreservesState(t *testing.T) {
	e, _ := newEngine(t, engine.DefaultOptions())
	w := manage(e, 1, 2)
	e.Arrange()
	a, b := w[0].Geometry, w[1].Geometry

	e.Windows().Swap(w[0], w[1])
	assert.Equal(t, a, w[0].Geometry, "swap alone does not move windows")

	e.Arrange()
	assert.Equal(t, b, w[0].Geometry)
	assert.Equal(t, a, w[1].Geometry)
	assert.Equal(t, engine.StateTiled, w[0].State())
	assert.Equal(t, engine.StateTiled, w[1].State())
}

func TestEngine_Gaps(t *testing.T) {
	opts := engine.DefaultOptions()
	opts.ScreenGaps = engine.Gaps{Left: 10, Right: 10, Top: 10, Bottom: 10}
	opts.TileGap = 20
	e, d := newEngine(t, opts)
	manage(e, 1, 2)

	e.Arrange()

	// 980 - 20 available, 55% master.
	assert.Equal(t, tiling.Rect{X: 10, Y: 10, Width: 528, Height: 480}, d.Geometries[1])
	assert.Equal(t, tiling.Rect{X: 558, Y: 10, Width: 432, Height: 480}, d.Geometries[2])
}

func TestEngine_AdjustLayout(t *testing.T) {
	e, _ := newEngine(t, engine.DefaultOptions())
	w := manage(e, 1, 2)
	e.Arrange()

	w[0].ActualGeometry.Width += 100
	e.AdjustLayout(w[0])
	e.Arrange()

	assert.InDelta(t, 0.65, e.CurrentLayout().Tile.MasterRatio, 1e-9)
	assert.Equal(t, 650, w[0].Geometry.Width)
	assert.Equal(t, 350, w[1].Geometry.Width)
}

func TestEngine_EnforceSize(t *testing.T) {
	e, d := newEngine(t, engine.DefaultOptions())
	w := manage(e, 1)
	e.Arrange()
	commits := d.Commits

	e.EnforceSize(w[0])
	assert.Equal(t, commits, d.Commits, "no drift, no commit")

	w[0].ActualGeometry.Width = 10
	e.EnforceSize(w[0])
	assert.Equal(t, commits+1, d.Commits)
	assert.Equal(t, w[0].Geometry, w[0].ActualGeometry)
}

func TestEngine_FocusDir(t *testing.T) {
	e, d := newEngine(t, engine.DefaultOptions())
	w := manage(e, 1, 2, 3)
	e.Arrange()

	e.FocusDir(engine.DirRight)
	assert.Equal(t, engine.WindowID(1), d.Active, "no current window focuses the first tile")

	w[1].Timestamp = time.Unix(200, 0)
	w[2].Timestamp = time.Unix(100, 0)
	e.FocusDir(engine.DirRight)
	assert.Equal(t, engine.WindowID(2), d.Active, "most recently focused wins ties")

	e.FocusDir(engine.DirDown)
	assert.Equal(t, engine.WindowID(3), d.Active)

	e.FocusDir(engine.DirLeft)
	assert.Equal(t, engine.WindowID(1), d.Active)

	e.FocusDir(engine.DirLeft)
	assert.Equal(t, engine.WindowID(1), d.Active, "no neighbour keeps focus")
}

func TestEngine_FocusOrder(t *testing.T) {
	e, d := newEngine(t, engine.DefaultOptions())
	manage(e, 1, 2, 3)

	e.FocusOrder(1, false)
	assert.Equal(t, engine.WindowID(1), d.Active)
	e.FocusOrder(-1, false)
	assert.Equal(t, engine.WindowID(3), d.Active)
}

func TestEngine_SwapOrderAndSetMaster(t *testing.T) {
	e, _ := newEngine(t, engine.DefaultOptions())
	w := manage(e, 1, 2, 3)
	srf := engine.SurfaceID{}

	e.SwapOrder(w[0], 1)
	assert.Equal(t, []*engine.Window{w[1], w[0], w[2]}, e.Windows().VisibleTiles(srf))

	e.SetMaster(w[2])
	assert.Equal(t, []*engine.Window{w[2], w[1], w[0]}, e.Windows().VisibleTiles(srf))
}

func TestEngine_SwapDirOrMoveFloat(t *testing.T) {
	e, d := newEngine(t, engine.DefaultOptions())
	w := manage(e, 1, 2, 3)
	e.Arrange()

	e.SwapDirOrMoveFloat(w[0], engine.DirRight)
	assert.Equal(t, engine.WindowID(1), e.Windows().VisibleTiles(engine.SurfaceID{})[1].ID)

	w[2].SetState(engine.StateFloating)
	w[2].FloatGeometry = tiling.Rect{X: 100, Y: 100, Width: 200, Height: 200}
	e.SwapDirOrMoveFloat(w[2], engine.DirRight)
	assert.Equal(t, tiling.Rect{X: 150, Y: 100, Width: 200, Height: 200}, d.Geometries[3])

	e.SwapDirOrMoveFloat(w[2], engine.DirUp)
	assert.Equal(t, 75, w[2].FloatGeometry.Y)
}

func TestEngine_ResizeWindow(t *testing.T) {
	e, d := newEngine(t, engine.DefaultOptions())
	w := manage(e, 1, 2)
	e.Arrange()

	e.ResizeWindow(w[0], true, 1)
	assert.InDelta(t, 0.6, e.CurrentLayout().Tile.MasterRatio, 1e-9)

	e.Arrange()
	e.ResizeWindow(w[1], true, 1)
	assert.InDelta(t, 0.55, e.CurrentLayout().Tile.MasterRatio, 1e-9, "stack grows leftwards")

	w[1].SetState(engine.StateFloating)
	w[1].FloatGeometry = tiling.Rect{X: 10, Y: 10, Width: 200, Height: 200}
	e.ResizeWindow(w[1], false, -1)
	assert.Equal(t, tiling.Rect{X: 10, Y: 10, Width: 200, Height: 175}, d.Geometries[2])
}

func TestEngine_ToggleFloat(t *testing.T) {
	e, d := newEngine(t, engine.DefaultOptions())
	w := manage(e, 1)
	e.Arrange()
	w[0].FloatGeometry = tiling.Rect{X: 40, Y: 40, Width: 300, Height: 200}

	e.ToggleFloat(w[0])
	assert.Equal(t, engine.StateFloating, w[0].State())
	assert.Equal(t, w[0].FloatGeometry, d.Geometries[1])

	e.ToggleFloat(w[0])
	assert.Equal(t, engine.StateTiled, w[0].State())
}

func TestEngine_LayoutSwitchNotifies(t *testing.T) {
	e, d := newEngine(t, engine.DefaultOptions())

	e.CycleLayout(1)
	assert.Equal(t, tiling.KindMonocle, e.CurrentLayout().Kind)
	require.True(t, e.SetLayout(tiling.KindThreeColumn))
	assert.Equal(t, []string{"Monocle", "Three Column"}, d.Notifications)
}

func TestEngine_ManagePlacement(t *testing.T) {
	opts := engine.DefaultOptions()
	opts.NewWindowAsMaster = true
	e, _ := newEngine(t, opts)
	manage(e, 1)

	dialog := engine.NewWindow(2, engine.SurfaceID{}, tiling.Rect{Width: 10, Height: 10})
	dialog.ShouldFloat = true
	e.Manage(dialog)

	assert.Equal(t, engine.StateFloating, dialog.State())
	assert.Equal(t, engine.WindowID(2), e.Windows().All()[0].ID)
}

func TestEngine_MinimizeOthersAndRestore(t *testing.T) {
	e, d := newEngine(t, engine.DefaultOptions())
	w := manage(e, 1, 2, 3)

	e.MinimizeOthers(w[1])
	assert.True(t, w[0].Minimized())
	assert.False(t, w[1].Minimized())
	assert.True(t, w[2].Minimized())
	assert.True(t, d.Minimized[1])

	e.Restore(w[0])
	assert.Equal(t, engine.StateTiled, w[0].State())
	assert.False(t, d.Minimized[1])
}

func TestEngine_IsLayoutMonocleAndMinimizeRest(t *testing.T) {
	opts := engine.DefaultOptions()
	e, _ := newEngine(t, opts)
	e.SetLayout(tiling.KindMonocle)
	assert.False(t, e.IsLayoutMonocleAndMinimizeRest())

	opts.MonocleMinimizeRest = true
	e.SetOptions(opts)
	assert.True(t, e.IsLayoutMonocleAndMinimizeRest())
}

func TestEngine_NextSurface(t *testing.T) {
	e, _ := newEngine(t, engine.DefaultOptions())

	next, ok := e.NextSurface(engine.SurfaceID{})
	require.True(t, ok)
	assert.Equal(t, engine.SurfaceID{Desktop: 1}, next.ID)

	_, ok = e.NextSurface(next.ID)
	assert.False(t, ok)
}
