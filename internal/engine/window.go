package engine

import (
	"fmt"
	"time"

	"github.com/1broseidon/bismuth/internal/tiling"
)

// WindowID is the driver's identifier for a window.
type WindowID uint32

// State is the tiling state of a managed window.
type State int

const (
	StateUndecided State = iota
	StateTiled
	StateFloating
	StateMaximized
	StateMinimized
)

func (s State) String() string {
	switch s {
	case StateUndecided:
		return "undecided"
	case StateTiled:
		return "tiled"
	case StateFloating:
		return "floating"
	case StateMaximized:
		return "maximized"
	case StateMinimized:
		return "minimized"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Window is one managed on-screen window.
type Window struct {
	ID    WindowID
	Class string
	Title string

	// Surface is the surface currently owning the window.
	Surface SurfaceID
	// ShouldFloat is set for dialogs, transients and fixed-size windows.
	ShouldFloat bool

	// Geometry is the target assigned by the layout.
	Geometry tiling.Rect
	// ActualGeometry is the live geometry reported by the driver.
	ActualGeometry tiling.Rect
	// FloatGeometry is remembered while the window floats.
	FloatGeometry tiling.Rect

	// Timestamp is the last time the window gained focus.
	Timestamp time.Time
	Shaded    bool

	state State
	// asked is the last state explicitly requested. Shade, minimize and
	// maximize override the state temporarily and restore this one.
	asked   State
	weights map[SurfaceID]float64
}

// NewWindow creates an undecided window on the given surface.
func NewWindow(id WindowID, surface SurfaceID, geometry tiling.Rect) *Window {
	return &Window{
		ID:             id,
		Surface:        surface,
		Geometry:       geometry,
		ActualGeometry: geometry,
		FloatGeometry:  geometry,
	}
}

// State returns the current tiling state.
func (w *Window) State() State { return w.state }

// StatePreviouslyAskedToChangeTo returns the state restored after an
// unshade, unminimize or unmaximize.
func (w *Window) StatePreviouslyAskedToChangeTo() State { return w.asked }

// SetState requests a state change. Leaving Floating for a tiled state
// remembers the current geometry as the float geometry.
func (w *Window) SetState(s State) {
	w.asked = s
	w.transition(s)
}

func (w *Window) transition(s State) {
	if w.state == s {
		return
	}
	if w.state == StateFloating && (s == StateTiled || s == StateMaximized) {
		w.FloatGeometry = w.ActualGeometry
	}
	w.state = s
}

// SetShaded floats the window while it is shaded and restores the requested
// state once it is unshaded. A minimized window only records the flag;
// Unminimize applies it.
func (w *Window) SetShaded(shaded bool) {
	w.Shaded = shaded
	if w.state == StateMinimized {
		return
	}
	if shaded {
		w.transition(StateFloating)
		return
	}
	w.transition(w.asked)
}

// Minimize moves the window to the minimized state.
func (w *Window) Minimize() {
	w.transition(StateMinimized)
}

// Unminimize restores the state the window had before it was minimized.
func (w *Window) Unminimize() {
	if w.state != StateMinimized {
		return
	}
	if w.Shaded {
		w.transition(StateFloating)
		return
	}
	w.transition(w.asked)
}

// SetMaximized tracks the driver's maximization flag.
func (w *Window) SetMaximized(maximized bool) {
	switch {
	case maximized && w.state != StateMinimized:
		w.transition(StateMaximized)
	case !maximized && w.state == StateMaximized:
		w.transition(w.asked)
	}
}

// Tiled reports whether the layout currently places the window.
func (w *Window) Tiled() bool { return w.state == StateTiled }

// Floating reports whether the window floats.
func (w *Window) Floating() bool { return w.state == StateFloating }

// Minimized reports whether the window is minimized.
func (w *Window) Minimized() bool { return w.state == StateMinimized }

// Tileable reports whether the window is tiled or returns to tiled once its
// temporary maximized/minimized state ends.
func (w *Window) Tileable() bool {
	switch w.state {
	case StateTiled:
		return true
	case StateMaximized, StateMinimized:
		return w.asked == StateTiled && !w.Shaded
	default:
		return false
	}
}

// Visible reports whether the window is drawn on the surface.
func (w *Window) Visible(surface SurfaceID) bool {
	return w.Surface == surface && w.state != StateMinimized
}

// Weight returns the window's stack weight on a surface.
func (w *Window) Weight(surface SurfaceID) float64 {
	if weight, ok := w.weights[surface]; ok {
		return weight
	}
	return 1
}

// SetWeight stores the window's stack weight on a surface.
func (w *Window) SetWeight(surface SurfaceID, weight float64) {
	if w.weights == nil {
		w.weights = make(map[SurfaceID]float64)
	}
	w.weights[surface] = weight
}

func (w *Window) String() string {
	if w == nil {
		return "Window(nil)"
	}
	return fmt.Sprintf("Window(0x%x class=%q state=%s surface=%s)", uint32(w.ID), w.Class, w.state, w.Surface)
}
