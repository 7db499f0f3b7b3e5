package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/bismuth/internal/tiling"
)

func newTestWindow(id WindowID) *Window {
	return NewWindow(id, SurfaceID{}, tiling.Rect{Width: 100, Height: 100})
}

func TestWindow_StateTransitions(t *testing.T) {
	tests := []struct {
		name  string
		start State
		event func(w *Window)
		want  State
	}{
		{"tiled to floating", StateTiled, func(w *Window) { w.SetState(StateFloating) }, StateFloating},
		{"floating to tiled", StateFloating, func(w *Window) { w.SetState(StateTiled) }, StateTiled},
		{"shade tiled", StateTiled, func(w *Window) { w.SetShaded(true) }, StateFloating},
		{"shade and unshade tiled", StateTiled, func(w *Window) { w.SetShaded(true); w.SetShaded(false) }, StateTiled},
		{"shade and unshade floating", StateFloating, func(w *Window) { w.SetShaded(true); w.SetShaded(false) }, StateFloating},
		{"unshade while minimized stays minimized", StateTiled, func(w *Window) { w.SetShaded(true); w.Minimize(); w.SetShaded(false) }, StateMinimized},
		{"shade while minimized stays minimized", StateTiled, func(w *Window) { w.Minimize(); w.SetShaded(true) }, StateMinimized},
		{"shaded while minimized floats on unminimize", StateTiled, func(w *Window) { w.Minimize(); w.SetShaded(true); w.Unminimize() }, StateFloating},
		{"unshaded while minimized tiles on unminimize", StateTiled, func(w *Window) { w.SetShaded(true); w.Minimize(); w.SetShaded(false); w.Unminimize() }, StateTiled},
		{"minimize tiled", StateTiled, func(w *Window) { w.Minimize() }, StateMinimized},
		{"minimize floating", StateFloating, func(w *Window) { w.Minimize() }, StateMinimized},
		{"unminimize tiled", StateTiled, func(w *Window) { w.Minimize(); w.Unminimize() }, StateTiled},
		{"unminimize floating", StateFloating, func(w *Window) { w.Minimize(); w.Unminimize() }, StateFloating},
		{"unminimize when not minimized", StateFloating, func(w *Window) { w.Unminimize() }, StateFloating},
		{"maximize tiled", StateTiled, func(w *Window) { w.SetMaximized(true) }, StateMaximized},
		{"unmaximize", StateTiled, func(w *Window) { w.SetMaximized(true); w.SetMaximized(false) }, StateTiled},
		{"maximize ignored while minimized", StateTiled, func(w *Window) { w.Minimize(); w.SetMaximized(true) }, StateMinimized},
		{"unmaximize when not maximized", StateFloating, func(w *Window) { w.SetMaximized(false) }, StateFloating},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWindow(1)
			w.SetState(tt.start)
			tt.event(w)
			assert.Equal(t, tt.want, w.State())
		})
	}
}

func TestWindow_LeavingFloatRemembersGeometry(t *testing.T) {
	w := newTestWindow(1)
	w.SetState(StateFloating)
	w.ActualGeometry = tiling.Rect{X: 5, Y: 6, Width: 70, Height: 80}

	w.SetState(StateTiled)
	assert.Equal(t, tiling.Rect{X: 5, Y: 6, Width: 70, Height: 80}, w.FloatGeometry)
}

func TestWindow_Tileable(t *testing.T) {
	w := newTestWindow(1)
	w.SetState(StateTiled)
	assert.True(t, w.Tileable())

	w.Minimize()
	assert.True(t, w.Tileable(), "minimized tiled window returns to tiled")
	assert.False(t, w.Visible(SurfaceID{}))

	w.Unminimize()
	w.SetState(StateFloating)
	w.Minimize()
	assert.False(t, w.Tileable())
}

func TestWindow_Weights(t *testing.T) {
	w := newTestWindow(1)
	a, b := SurfaceID{Desktop: 0}, SurfaceID{Desktop: 1}
	assert.Equal(t, 1.0, w.Weight(a))

	w.SetWeight(a, 2.5)
	require.Equal(t, 2.5, w.Weight(a))
	assert.Equal(t, 1.0, w.Weight(b))
}
