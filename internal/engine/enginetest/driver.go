// Package enginetest provides an in-memory engine.Driver.
package enginetest

import (
	"github.com/1broseidon/bismuth/internal/engine"
	"github.com/1broseidon/bismuth/internal/tiling"
)

// Driver records every effect the engine asks for. Zero value is usable
// once SurfaceList is set.
type Driver struct {
	SurfaceList []engine.Surface
	Current     engine.SurfaceID

	Active    engine.WindowID
	HasActive bool

	Geometries    map[engine.WindowID]tiling.Rect
	Minimized     map[engine.WindowID]bool
	Moved         map[engine.WindowID]engine.SurfaceID
	Notifications []string
	Commits       int

	// Windows, when set, receives committed geometry as actual geometry the
	// way a real window manager would report it back.
	Windows *engine.WindowStore
}

// New returns a driver with surfaces of the given size, one per desktop on
// a single screen. The first surface is current.
func New(area tiling.Rect, desktops int) *Driver {
	d := &Driver{}
	for i := range desktops {
		d.SurfaceList = append(d.SurfaceList, engine.Surface{
			ID:          engine.SurfaceID{Desktop: i},
			WorkingArea: area,
		})
	}
	if desktops > 0 {
		d.Current = d.SurfaceList[0].ID
	}
	return d
}

func (d *Driver) Surfaces() []engine.Surface { return d.SurfaceList }
func (d *Driver) CurrentSurface() engine.SurfaceID { return d.Current }
func (d *Driver) SetCurrentSurface(id engine.SurfaceID) { d.Current = id }

func (d *Driver) ActiveWindow() (engine.WindowID, bool) { return d.Active, d.HasActive }

func (d *Driver) Activate(id engine.WindowID) {
	d.Active = id
	d.HasActive = true
}

// ClearActive simulates focus leaving every managed window.
func (d *Driver) ClearActive() {
	d.Active = 0
	d.HasActive = false
}

func (d *Driver) MoveResize(id engine.WindowID, geometry tiling.Rect) {
	if d.Geometries == nil {
		d.Geometries = make(map[engine.WindowID]tiling.Rect)
	}
	d.Geometries[id] = geometry
	d.Commits++
	if d.Windows != nil {
		if w, ok := d.Windows.Get(id); ok {
			w.ActualGeometry = geometry
		}
	}
}

func (d *Driver) SetMinimized(id engine.WindowID, minimized bool) {
	if d.Minimized == nil {
		d.Minimized = make(map[engine.WindowID]bool)
	}
	d.Minimized[id] = minimized
}

func (d *Driver) MoveToSurface(id engine.WindowID, surface engine.SurfaceID) {
	if d.Moved == nil {
		d.Moved = make(map[engine.WindowID]engine.SurfaceID)
	}
	d.Moved[id] = surface
}

func (d *Driver) ShowNotification(text string) {
	d.Notifications = append(d.Notifications, text)
}
