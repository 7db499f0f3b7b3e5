// Package platformtest provides an in-memory platform.Backend.
package platformtest

import (
	"fmt"
	"slices"

	"github.com/1broseidon/bismuth/internal/engine"
	"github.com/1broseidon/bismuth/internal/platform"
	"github.com/1broseidon/bismuth/internal/tiling"
)

// Backend is a scriptable window system. MoveResize updates the stored
// window bounds the way a window manager would.
type Backend struct {
	DisplayList []platform.Display
	Desktops    int
	Desktop     int
	Active      engine.WindowID
	PointerAt   tiling.Point
	Held        bool

	Clients map[engine.WindowID]platform.Window
	Order   []engine.WindowID

	Placed    map[engine.WindowID]tiling.Rect
	Minimized []engine.WindowID
	Activated []engine.WindowID
	Sent      map[engine.WindowID]int
	Watched   map[engine.WindowID]bool

	handler func(platform.Event)
}

var (
	_ platform.Backend     = (*Backend)(nil)
	_ platform.EventSource = (*Backend)(nil)
)

// New returns a backend with the given displays and desktop count.
func New(desktops int, displays ...platform.Display) *Backend {
	return &Backend{
		DisplayList: displays,
		Desktops:    desktops,
		Clients:     make(map[engine.WindowID]platform.Window),
		Placed:      make(map[engine.WindowID]tiling.Rect),
		Sent:        make(map[engine.WindowID]int),
		Watched:     make(map[engine.WindowID]bool),
	}
}

// Add maps a client window.
func (b *Backend) Add(w platform.Window) {
	b.Clients[w.ID] = w
	b.Order = append(b.Order, w.ID)
}

// Remove destroys a client window.
func (b *Backend) Remove(id engine.WindowID) {
	delete(b.Clients, id)
	b.Order = slices.DeleteFunc(b.Order, func(v engine.WindowID) bool { return v == id })
}

// Update rewrites a client with fn.
func (b *Backend) Update(id engine.WindowID, fn func(w *platform.Window)) {
	w := b.Clients[id]
	fn(&w)
	b.Clients[id] = w
}

// Emit delivers ev to the registered handler.
func (b *Backend) Emit(ev platform.Event) {
	if b.handler != nil {
		b.handler(ev)
	}
}

func (b *Backend) Displays() ([]platform.Display, error) { return b.DisplayList, nil }
func (b *Backend) DesktopCount() (int, error) { return b.Desktops, nil }
func (b *Backend) CurrentDesktop() (int, error) { return b.Desktop, nil }
func (b *Backend) ActiveWindow() (engine.WindowID, error) { return b.Active, nil }
func (b *Backend) Pointer() (tiling.Point, error) { return b.PointerAt, nil }
func (b *Backend) PointerHeld() bool { return b.Held }

func (b *Backend) SetCurrentDesktop(desktop int) error {
	b.Desktop = desktop
	return nil
}

func (b *Backend) ClientList() ([]engine.WindowID, error) {
	return slices.Clone(b.Order), nil
}

func (b *Backend) Window(id engine.WindowID) (platform.Window, error) {
	w, ok := b.Clients[id]
	if !ok {
		return platform.Window{}, fmt.Errorf("bad window 0x%x", uint32(id))
	}
	return w, nil
}

func (b *Backend) MoveResize(id engine.WindowID, bounds tiling.Rect) error {
	b.Placed[id] = bounds
	if w, ok := b.Clients[id]; ok {
		w.Bounds = bounds
		b.Clients[id] = w
	}
	return nil
}

func (b *Backend) Minimize(id engine.WindowID) error {
	b.Minimized = append(b.Minimized, id)
	if w, ok := b.Clients[id]; ok {
		w.Minimized = true
		b.Clients[id] = w
	}
	return nil
}

func (b *Backend) Activate(id engine.WindowID) error {
	b.Activated = append(b.Activated, id)
	b.Active = id
	if w, ok := b.Clients[id]; ok {
		w.Minimized = false
		b.Clients[id] = w
	}
	return nil
}

func (b *Backend) SetWindowDesktop(id engine.WindowID, desktop int) error {
	b.Sent[id] = desktop
	if w, ok := b.Clients[id]; ok {
		w.Desktop = desktop
		b.Clients[id] = w
	}
	return nil
}

func (b *Backend) Listen(handler func(platform.Event)) error {
	b.handler = handler
	return nil
}

func (b *Backend) Watch(id engine.WindowID) error {
	b.Watched[id] = true
	return nil
}

func (b *Backend) Unwatch(id engine.WindowID) {
	delete(b.Watched, id)
}
