package platform

import (
	"github.com/1broseidon/bismuth/internal/engine"
	"github.com/1broseidon/bismuth/internal/tiling"
)

// Display describes a physical display and its usable work area.
type Display struct {
	ID     int
	Name   string
	Bounds tiling.Rect
	Usable tiling.Rect
}

// Window contains metadata and geometry for a top-level window.
type Window struct {
	ID    engine.WindowID
	Class string
	Title string
	// Desktop is -1 for windows shown on every desktop.
	Desktop int
	Bounds  tiling.Rect

	// Special windows (docks, desktops, popups) are never managed.
	Special bool
	// Float is set for dialogs, transients and fixed-size windows.
	Float bool

	Minimized  bool
	Maximized  bool
	Shaded     bool
	Fullscreen bool
}

// Backend abstracts window-system operations.
type Backend interface {
	Displays() ([]Display, error)
	DesktopCount() (int, error)
	CurrentDesktop() (int, error)
	SetCurrentDesktop(desktop int) error

	ActiveWindow() (engine.WindowID, error)
	Pointer() (tiling.Point, error)
	// PointerHeld reports whether a mouse button is down, which means an
	// interactive move or resize is still in progress.
	PointerHeld() bool

	// ClientList returns every client window in mapping order.
	ClientList() ([]engine.WindowID, error)
	Window(id engine.WindowID) (Window, error)

	MoveResize(id engine.WindowID, bounds tiling.Rect) error
	Minimize(id engine.WindowID) error
	Activate(id engine.WindowID) error
	SetWindowDesktop(id engine.WindowID, desktop int) error
}

// EventKind classifies backend notifications.
type EventKind int

const (
	// EventRoot covers client list, focus, desktop and work area changes.
	EventRoot EventKind = iota
	// EventWindowState is a state, desktop or class change of one window.
	EventWindowState
	// EventWindowConfigure is a position or size change of one window.
	EventWindowConfigure
)

func (k EventKind) String() string {
	switch k {
	case EventRoot:
		return "root"
	case EventWindowState:
		return "window-state"
	case EventWindowConfigure:
		return "window-configure"
	default:
		return "unknown"
	}
}

// Event is one backend notification. Detail names the changed property.
type Event struct {
	Kind   EventKind
	Window engine.WindowID
	Detail string
}

// EventSource delivers window-system notifications. Handlers run on the
// source's own goroutine.
type EventSource interface {
	Listen(handler func(Event)) error
	Watch(id engine.WindowID) error
	Unwatch(id engine.WindowID)
}
