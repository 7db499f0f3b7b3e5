package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/bismuth/internal/tiling"
)

func ids(windows []*Window) []WindowID {
	out := make([]WindowID, len(windows))
	for i, w := range windows {
		out[i] = w.ID
	}
	return out
}

func storeWith(n int) (*WindowStore, []*Window) {
	s := NewWindowStore()
	windows := make([]*Window, n)
	for i := range windows {
		windows[i] = newTestWindow(WindowID(i + 1))
		windows[i].SetState(StateTiled)
		s.Manage(windows[i])
	}
	return s, windows
}

func TestWindowStore_ManageUnmanage(t *testing.T) {
	s, w := storeWith(3)
	require.Equal(t, 3, s.Len())

	s.Manage(w[0])
	assert.Equal(t, 3, s.Len(), "managing twice is a no-op")

	s.Unmanage(w[1])
	assert.Equal(t, []WindowID{1, 3}, ids(s.All()))
	_, ok := s.Get(2)
	assert.False(t, ok)

	extra := newTestWindow(9)
	s.ManageFront(extra)
	assert.Equal(t, []WindowID{9, 1, 3}, ids(s.All()))
}

func TestWindowStore_SwapMovePutToFront(t *testing.T) {
	s, w := storeWith(4)

	s.Swap(w[0], w[2])
	assert.Equal(t, []WindowID{3, 2, 1, 4}, ids(s.All()))
	got, ok := s.Get(1)
	require.True(t, ok)
	assert.Same(t, w[0], got)

	s.Move(w[2], w[3])
	assert.Equal(t, []WindowID{2, 1, 4, 3}, ids(s.All()))

	s.Move(w[2], w[1])
	assert.Equal(t, []WindowID{3, 2, 1, 4}, ids(s.All()))

	s.PutToFront(w[3])
	assert.Equal(t, []WindowID{4, 3, 2, 1}, ids(s.All()))
}

func TestWindowStore_Filters(t *testing.T) {
	s, w := storeWith(4)
	other := SurfaceID{Desktop: 1}
	w[1].Surface = other
	w[2].SetState(StateFloating)
	w[3].Minimize()

	here := SurfaceID{}
	assert.Equal(t, []WindowID{1}, ids(s.VisibleTiles(here)))
	assert.Equal(t, []WindowID{1, 4}, ids(s.AllTileables(here)))
	assert.Equal(t, []WindowID{1, 3}, ids(s.VisibleWindows(here)))
	assert.Equal(t, []WindowID{1, 3, 4}, ids(s.AllWindows(here)))
	assert.Equal(t, []WindowID{2}, ids(s.VisibleTiles(other)))
}

func TestWindowStore_FocusOrder(t *testing.T) {
	s, w := storeWith(3)
	w[2].Minimize()
	srf := SurfaceID{}

	assert.Same(t, w[0], s.FocusOrder(srf, nil, 1, false))
	assert.Same(t, w[1], s.FocusOrder(srf, w[0], 1, false))
	assert.Same(t, w[0], s.FocusOrder(srf, w[1], 1, false), "wraps past minimized window")
	assert.Same(t, w[2], s.FocusOrder(srf, w[1], 1, true))
	assert.Same(t, w[2], s.FocusOrder(srf, w[0], -1, true))
	assert.Nil(t, s.FocusOrder(SurfaceID{Desktop: 5}, nil, 1, false))
}

func TestLayoutStore_CycleAndSet(t *testing.T) {
	kinds := []tiling.Kind{tiling.KindTile, tiling.KindMonocle, tiling.KindQuarter}
	s := NewLayoutStore(kinds, nil, tiling.KindTile)
	srf := SurfaceID{}

	assert.Equal(t, tiling.KindTile, s.CurrentLayout(srf).Kind)
	assert.Equal(t, tiling.KindMonocle, s.CycleLayout(srf, 1).Kind)
	assert.Equal(t, tiling.KindTile, s.CycleLayout(srf, -1).Kind)
	assert.Equal(t, tiling.KindQuarter, s.CycleLayout(srf, -1).Kind)

	l, ok := s.SetLayout(srf, tiling.KindMonocle)
	require.True(t, ok)
	assert.Equal(t, tiling.KindMonocle, l.Kind)

	l, ok = s.SetLayout(srf, tiling.KindMonocle)
	require.True(t, ok)
	assert.Equal(t, tiling.KindQuarter, l.Kind, "selecting the active layout toggles back")

	_, ok = s.SetLayout(srf, tiling.KindSpread)
	assert.False(t, ok)
	assert.Equal(t, tiling.KindQuarter, s.CurrentLayout(srf).Kind)
}

func TestLayoutStore_ParametersPersistPerSurface(t *testing.T) {
	defaults := map[tiling.Kind]tiling.Layout{tiling.KindTile: tiling.New(tiling.KindTile)}
	s := NewLayoutStore(tiling.Kinds, defaults, tiling.KindTile)
	a, b := SurfaceID{Desktop: 0}, SurfaceID{Desktop: 1}

	s.CurrentLayout(a).IncreaseMasterAreaWindowCount()
	s.CycleLayout(a, 1)
	s.CycleLayout(a, -1)

	assert.Equal(t, 2, s.CurrentLayout(a).Tile.MasterCount)
	assert.Equal(t, 1, s.CurrentLayout(b).Tile.MasterCount)
	assert.Equal(t, 1, defaults[tiling.KindTile].Tile.MasterCount, "defaults are copied")
}

func TestLayoutStore_ReconfigureDropsDisabledKind(t *testing.T) {
	s := NewLayoutStore(tiling.Kinds, nil, tiling.KindTile)
	srf := SurfaceID{}
	s.SetLayout(srf, tiling.KindStair)

	s.Reconfigure([]tiling.Kind{tiling.KindTile, tiling.KindMonocle}, nil, tiling.KindMonocle)
	assert.Equal(t, tiling.KindMonocle, s.CurrentLayout(srf).Kind)
	assert.Equal(t, []tiling.Kind{tiling.KindTile, tiling.KindMonocle}, s.Kinds())
}
