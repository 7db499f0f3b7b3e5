package x11

import (
	"fmt"
	"slices"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/bismuth/internal/tiling"
)

const (
	stateMaximizedHorz = "_NET_WM_STATE_MAXIMIZED_HORZ"
	stateMaximizedVert = "_NET_WM_STATE_MAXIMIZED_VERT"
	stateHidden        = "_NET_WM_STATE_HIDDEN"
	stateShaded        = "_NET_WM_STATE_SHADED"
	stateFullscreen    = "_NET_WM_STATE_FULLSCREEN"
	stateModal         = "_NET_WM_STATE_MODAL"
)

// Window types that never take part in tiling.
var specialTypes = []string{
	"_NET_WM_WINDOW_TYPE_DESKTOP",
	"_NET_WM_WINDOW_TYPE_DOCK",
	"_NET_WM_WINDOW_TYPE_SPLASH",
	"_NET_WM_WINDOW_TYPE_NOTIFICATION",
	"_NET_WM_WINDOW_TYPE_TOOLTIP",
	"_NET_WM_WINDOW_TYPE_POPUP_MENU",
	"_NET_WM_WINDOW_TYPE_DROPDOWN_MENU",
	"_NET_WM_WINDOW_TYPE_COMBO",
	"_NET_WM_WINDOW_TYPE_DND",
}

// Window types that are managed but start floating.
var floatTypes = []string{
	"_NET_WM_WINDOW_TYPE_DIALOG",
	"_NET_WM_WINDOW_TYPE_UTILITY",
	"_NET_WM_WINDOW_TYPE_TOOLBAR",
	"_NET_WM_WINDOW_TYPE_MENU",
}

// WindowInfo is a snapshot of one client window's properties.
type WindowInfo struct {
	ID    xproto.Window
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

// WindowInfo reads everything the tiler needs about windowID.
func (c *Connection) WindowInfo(windowID xproto.Window) (WindowInfo, error) {
	bounds, err := c.WindowRect(windowID)
	if err != nil {
		return WindowInfo{}, err
	}

	info := WindowInfo{
		ID:      windowID,
		Class:   c.WindowClass(windowID),
		Title:   c.WindowTitle(windowID),
		Desktop: -1,
		Bounds:  bounds,
	}
	if desktop, err := c.GetWindowDesktop(uint32(windowID)); err == nil {
		info.Desktop = desktop
	}

	types, _ := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	for _, t := range types {
		if slices.Contains(specialTypes, t) {
			info.Special = true
		}
		if slices.Contains(floatTypes, t) {
			info.Float = true
		}
	}

	states, _ := ewmh.WmStateGet(c.XUtil, windowID)
	info.Minimized = slices.Contains(states, stateHidden)
	info.Maximized = slices.Contains(states, stateMaximizedHorz) && slices.Contains(states, stateMaximizedVert)
	info.Shaded = slices.Contains(states, stateShaded)
	info.Fullscreen = slices.Contains(states, stateFullscreen)
	if slices.Contains(states, stateModal) || c.isTransient(windowID) || c.isFixedSize(windowID) {
		info.Float = true
	}

	return info, nil
}

// ClientList returns the managed client windows in mapping order.
func (c *Connection) ClientList() ([]xproto.Window, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to get client list: %w", err)
	}
	return clients, nil
}

// WindowRect returns the client geometry in root coordinates.
func (c *Connection) WindowRect(windowID xproto.Window) (tiling.Rect, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return tiling.Rect{}, fmt.Errorf("failed to get geometry of 0x%x: %w", windowID, err)
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return tiling.Rect{}, fmt.Errorf("failed to translate coordinates of 0x%x: %w", windowID, err)
	}

	return tiling.Rect{
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, nil
}

// WindowClass returns the WM_CLASS class part.
func (c *Connection) WindowClass(windowID xproto.Window) string {
	wmClass, err := icccm.WmClassGet(c.XUtil, windowID)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(wmClass.Class)
}

// WindowTitle prefers _NET_WM_NAME and falls back to WM_NAME.
func (c *Connection) WindowTitle(windowID xproto.Window) string {
	title, err := ewmh.WmNameGet(c.XUtil, windowID)
	if err == nil {
		title = strings.TrimSpace(title)
		if title != "" {
			return title
		}
	}

	title, err = icccm.WmNameGet(c.XUtil, windowID)
	if err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

func (c *Connection) isTransient(windowID xproto.Window) bool {
	parent, err := icccm.WmTransientForGet(c.XUtil, windowID)
	return err == nil && parent != 0
}

func (c *Connection) isFixedSize(windowID xproto.Window) bool {
	hints, err := icccm.WmNormalHintsGet(c.XUtil, windowID)
	if err != nil {
		return false
	}
	if hints.Flags&icccm.SizeHintPMinSize == 0 || hints.Flags&icccm.SizeHintPMaxSize == 0 {
		return false
	}
	return hints.MaxWidth > 0 && hints.MinWidth == hints.MaxWidth && hints.MinHeight == hints.MaxHeight
}

// MoveResizeWindow moves and resizes a window to the specified geometry
func (c *Connection) MoveResizeWindow(windowID xproto.Window, r tiling.Rect) error {
	// Some windows refuse the state change; placing them still works.
	_ = c.unmaximizeWindow(windowID)

	// EWMH first so the window manager accounts for decorations.
	if err := ewmh.MoveresizeWindow(c.XUtil, windowID, r.X, r.Y, r.Width, r.Height); err != nil {
		xwindow.New(c.XUtil, windowID).MoveResize(r.X, r.Y, r.Width, r.Height)
	}
	return nil
}

// unmaximizeWindow removes maximized state from a window
func (c *Connection) unmaximizeWindow(windowID xproto.Window) error {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return err
	}

	if slices.Contains(states, stateMaximizedHorz) {
		if err := ewmh.WmStateReq(c.XUtil, windowID, ewmh.StateRemove, stateMaximizedHorz); err != nil {
			return err
		}
	}
	if slices.Contains(states, stateMaximizedVert) {
		return ewmh.WmStateReq(c.XUtil, windowID, ewmh.StateRemove, stateMaximizedVert)
	}
	return nil
}

// MinimizeWindow iconifies a window via WM_CHANGE_STATE.
func (c *Connection) MinimizeWindow(windowID xproto.Window) error {
	const iconicState = 3
	if err := c.sendRootMessage(windowID, "WM_CHANGE_STATE", iconicState); err != nil {
		return fmt.Errorf("failed to minimize 0x%x: %w", windowID, err)
	}
	return nil
}

func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}
