package engine

import "github.com/1broseidon/bismuth/internal/tiling"

// Driver is the window manager the engine drives. Implementations report
// failures through their own logging; the engine never waits on them.
type Driver interface {
	// Surfaces enumerates surfaces in placement order: every desktop of the
	// first screen, then the next screen.
	Surfaces() []Surface
	CurrentSurface() SurfaceID
	SetCurrentSurface(id SurfaceID)

	// ActiveWindow returns the focused window, if any.
	ActiveWindow() (WindowID, bool)
	Activate(id WindowID)

	// MoveResize places a window at geometry.
	MoveResize(id WindowID, geometry tiling.Rect)
	SetMinimized(id WindowID, minimized bool)
	// MoveToSurface sends a window to another desktop/screen.
	MoveToSurface(id WindowID, surface SurfaceID)

	ShowNotification(text string)
}
