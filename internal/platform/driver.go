package platform

import (
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/bismuth/internal/engine"
	"github.com/1broseidon/bismuth/internal/tiling"
)

// settleWindow is how long configure notifications after a MoveResize are
// attributed to the tiler instead of the user.
const settleWindow = 500 * time.Millisecond

// Driver implements engine.Driver on top of a Backend. Surfaces are every
// desktop of display 0, then every desktop of display 1, and so on.
//
// Display and desktop information is cached; call Refresh after the
// window system reports a change.
type Driver struct {
	backend Backend
	logger  *slog.Logger
	notify  func(text string)
	now     func() time.Time

	displays []Display
	desktops int
	current  engine.SurfaceID

	mu       sync.Mutex
	settling map[engine.WindowID]time.Time
}

var _ engine.Driver = (*Driver)(nil)

// NewDriver wraps backend. notify shows layout change messages; nil only
// logs them.
func NewDriver(backend Backend, notify func(text string), logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Driver{
		backend:  backend,
		logger:   logger,
		notify:   notify,
		now:      time.Now,
		desktops: 1,
		settling: make(map[engine.WindowID]time.Time),
	}
}

// SetClock replaces the time source of settle tracking.
func (d *Driver) SetClock(now func() time.Time) { d.now = now }

// Refresh re-reads displays, the desktop count and the current surface.
// It reports whether the surface set changed.
func (d *Driver) Refresh() (changed bool, err error) {
	displays, err := d.backend.Displays()
	if err != nil {
		return false, err
	}
	desktops, err := d.backend.DesktopCount()
	if err != nil || desktops < 1 {
		desktops = 1
	}

	changed = desktops != d.desktops || len(displays) != len(d.displays)
	if !changed {
		for i := range displays {
			if displays[i] != d.displays[i] {
				changed = true
				break
			}
		}
	}
	d.displays = displays
	d.desktops = desktops
	d.current = d.detectCurrent()
	return changed, nil
}

func (d *Driver) detectCurrent() engine.SurfaceID {
	id := engine.SurfaceID{Screen: d.current.Screen}
	if desktop, err := d.backend.CurrentDesktop(); err == nil {
		id.Desktop = desktop
	}

	if active, err := d.backend.ActiveWindow(); err == nil && active != 0 {
		if w, err := d.backend.Window(active); err == nil {
			if screen, ok := d.screenAt(w.Bounds.Center()); ok {
				id.Screen = screen
				return id
			}
		}
	}
	if p, err := d.backend.Pointer(); err == nil {
		if screen, ok := d.screenAt(p); ok {
			id.Screen = screen
		}
	}
	if id.Screen >= len(d.displays) {
		id.Screen = 0
	}
	return id
}

func (d *Driver) screenAt(p tiling.Point) (int, bool) {
	for i, disp := range d.displays {
		if disp.Bounds.IncludesPoint(p) {
			return i, true
		}
	}
	return 0, false
}

// SurfaceOf returns the surface a window belongs to: the display holding
// its center and its desktop. Sticky windows belong to the current desktop.
func (d *Driver) SurfaceOf(w Window) engine.SurfaceID {
	id := engine.SurfaceID{Screen: d.current.Screen, Desktop: w.Desktop}
	if screen, ok := d.screenAt(w.Bounds.Center()); ok {
		id.Screen = screen
	}
	if w.Desktop < 0 {
		id.Desktop = d.current.Desktop
	}
	return id
}

// Settling reports whether id was placed by MoveResize moments ago.
func (d *Driver) Settling(id engine.WindowID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	until, ok := d.settling[id]
	if !ok {
		return false
	}
	if d.now().After(until) {
		delete(d.settling, id)
		return false
	}
	return true
}

// Forget drops bookkeeping for a destroyed window.
func (d *Driver) Forget(id engine.WindowID) {
	d.mu.Lock()
	delete(d.settling, id)
	d.mu.Unlock()
}

func (d *Driver) Surfaces() []engine.Surface {
	surfaces := make([]engine.Surface, 0, len(d.displays)*d.desktops)
	for screen, disp := range d.displays {
		for desktop := range d.desktops {
			surfaces = append(surfaces, engine.Surface{
				ID:          engine.SurfaceID{Screen: screen, Desktop: desktop},
				Name:        disp.Name,
				WorkingArea: disp.Usable,
			})
		}
	}
	return surfaces
}

func (d *Driver) CurrentSurface() engine.SurfaceID { return d.current }

func (d *Driver) SetCurrentSurface(id engine.SurfaceID) {
	if id.Desktop != d.current.Desktop {
		if err := d.backend.SetCurrentDesktop(id.Desktop); err != nil {
			d.logger.Warn("switch desktop failed", "desktop", id.Desktop, "error", err)
			return
		}
	}
	d.current = id
}

func (d *Driver) ActiveWindow() (engine.WindowID, bool) {
	id, err := d.backend.ActiveWindow()
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

func (d *Driver) Activate(id engine.WindowID) {
	if err := d.backend.Activate(id); err != nil {
		d.logger.Warn("activate failed", "window", id, "error", err)
	}
}

func (d *Driver) MoveResize(id engine.WindowID, geometry tiling.Rect) {
	d.mu.Lock()
	d.settling[id] = d.now().Add(settleWindow)
	d.mu.Unlock()

	if err := d.backend.MoveResize(id, geometry); err != nil {
		d.logger.Warn("move resize failed", "window", id, "geometry", geometry.String(), "error", err)
	}
}

// SetMinimized iconifies a window, or restores it by activating it.
func (d *Driver) SetMinimized(id engine.WindowID, minimized bool) {
	var err error
	if minimized {
		err = d.backend.Minimize(id)
	} else {
		err = d.backend.Activate(id)
	}
	if err != nil {
		d.logger.Warn("set minimized failed", "window", id, "minimized", minimized, "error", err)
	}
}

// MoveToSurface sends a window to the surface's desktop. Crossing screens
// moves it to the target display's usable area; the next arrange places it.
func (d *Driver) MoveToSurface(id engine.WindowID, surface engine.SurfaceID) {
	w, err := d.backend.Window(id)
	if err != nil {
		d.logger.Warn("move to surface failed", "window", id, "surface", surface.String(), "error", err)
		return
	}

	if w.Desktop >= 0 && w.Desktop != surface.Desktop {
		if err := d.backend.SetWindowDesktop(id, surface.Desktop); err != nil {
			d.logger.Warn("set window desktop failed", "window", id, "desktop", surface.Desktop, "error", err)
		}
	}

	if surface.Screen < 0 || surface.Screen >= len(d.displays) {
		return
	}
	target := d.displays[surface.Screen].Usable
	if target.IncludesPoint(w.Bounds.Center()) {
		return
	}
	d.MoveResize(id, tiling.Rect{
		X:      target.X,
		Y:      target.Y,
		Width:  min(w.Bounds.Width, target.Width),
		Height: min(w.Bounds.Height, target.Height),
	})
}

func (d *Driver) ShowNotification(text string) {
	d.logger.Info("notification", "text", text)
	if d.notify != nil {
		d.notify(text)
	}
}
