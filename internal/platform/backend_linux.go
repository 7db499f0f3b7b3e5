//go:build linux

package platform

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"

	"github.com/1broseidon/bismuth/internal/engine"
	"github.com/1broseidon/bismuth/internal/tiling"
	"github.com/1broseidon/bismuth/internal/x11"
)

// LinuxBackend wraps an X11 connection behind Backend and EventSource.
type LinuxBackend struct {
	conn *x11.Connection

	mu      sync.Mutex
	handler func(Event)
}

var (
	_ Backend     = (*LinuxBackend)(nil)
	_ EventSource = (*LinuxBackend)(nil)
)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay opens a fresh X11 connection to display.
func NewLinuxBackendFromDisplay(display string) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// StopEventLoop makes EventLoop return.
func (b *LinuxBackend) StopEventLoop() {
	if b != nil && b.conn != nil {
		b.conn.Quit()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// Displays returns all active displays.
func (b *LinuxBackend) Displays() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, Display{
			ID:     m.ID,
			Name:   m.Name,
			Bounds: m.Bounds,
			Usable: m.WorkArea,
		})
	}
	return displays, nil
}

func (b *LinuxBackend) DesktopCount() (int, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}
	return conn.GetDesktopCount()
}

func (b *LinuxBackend) CurrentDesktop() (int, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}
	return conn.GetCurrentDesktop()
}

func (b *LinuxBackend) SetCurrentDesktop(desktop int) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.SetCurrentDesktop(desktop)
}

// ActiveWindow returns the currently active/focused window ID.
func (b *LinuxBackend) ActiveWindow() (engine.WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}

	wid, err := conn.GetActiveWindow()
	if err != nil {
		return 0, err
	}
	return engine.WindowID(wid), nil
}

func (b *LinuxBackend) Pointer() (tiling.Point, error) {
	conn, err := b.connection()
	if err != nil {
		return tiling.Point{}, err
	}
	return conn.PointerPosition()
}

func (b *LinuxBackend) PointerHeld() bool {
	conn, err := b.connection()
	if err != nil {
		return false
	}
	return conn.PointerHeld()
}

func (b *LinuxBackend) ClientList() ([]engine.WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}
	clients, err := conn.ClientList()
	if err != nil {
		return nil, err
	}
	ids := make([]engine.WindowID, len(clients))
	for i, c := range clients {
		ids[i] = engine.WindowID(c)
	}
	return ids, nil
}

func (b *LinuxBackend) Window(id engine.WindowID) (Window, error) {
	conn, err := b.connection()
	if err != nil {
		return Window{}, err
	}
	info, err := conn.WindowInfo(xproto.Window(id))
	if err != nil {
		return Window{}, err
	}
	return Window{
		ID:         id,
		Class:      info.Class,
		Title:      info.Title,
		Desktop:    info.Desktop,
		Bounds:     info.Bounds,
		Special:    info.Special,
		Float:      info.Float,
		Minimized:  info.Minimized,
		Maximized:  info.Maximized,
		Shaded:     info.Shaded,
		Fullscreen: info.Fullscreen,
	}, nil
}

// MoveResize moves and resizes a window to the specified bounds.
func (b *LinuxBackend) MoveResize(id engine.WindowID, bounds tiling.Rect) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.MoveResizeWindow(xproto.Window(id), bounds)
}

// Minimize minimizes a window via WM_CHANGE_STATE.
func (b *LinuxBackend) Minimize(id engine.WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.MinimizeWindow(xproto.Window(id))
}

func (b *LinuxBackend) Activate(id engine.WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.FocusWindow(uint32(id))
}

func (b *LinuxBackend) SetWindowDesktop(id engine.WindowID, desktop int) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.SetWindowDesktop(uint32(id), desktop)
}

// Listen registers handler for root notifications and every watched window.
func (b *LinuxBackend) Listen(handler func(Event)) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.handler = handler
	b.mu.Unlock()

	return conn.WatchRoot(func(property string) {
		b.emit(Event{Kind: EventRoot, Detail: property})
	})
}

// Watch subscribes to state and geometry changes of one window.
func (b *LinuxBackend) Watch(id engine.WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.WatchWindow(xproto.Window(id),
		func(property string) {
			b.emit(Event{Kind: EventWindowState, Window: id, Detail: property})
		},
		func() {
			b.emit(Event{Kind: EventWindowConfigure, Window: id})
		},
	)
}

func (b *LinuxBackend) Unwatch(id engine.WindowID) {
	if conn, err := b.connection(); err == nil {
		conn.UnwatchWindow(xproto.Window(id))
	}
}

func (b *LinuxBackend) emit(ev Event) {
	b.mu.Lock()
	handler := b.handler
	b.mu.Unlock()
	if handler != nil {
		handler(ev)
	}
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}
