package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Source indication for client messages: a pager or direct user action.
const sourceIndication = 2

// GetCurrentDesktop returns the current virtual desktop number (0-indexed).
func (c *Connection) GetCurrentDesktop() (int, error) {
	desktop, err := ewmh.CurrentDesktopGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to get current desktop: %w", err)
	}
	return int(desktop), nil
}

// SetCurrentDesktop asks the window manager to switch desktops.
func (c *Connection) SetCurrentDesktop(desktop int) error {
	if err := c.sendRootMessage(c.Root, "_NET_CURRENT_DESKTOP", uint32(desktop), 0); err != nil {
		return fmt.Errorf("failed to switch to desktop %d: %w", desktop, err)
	}
	return nil
}

// GetWindowDesktop returns the desktop number a window is on.
// Returns -1 for "sticky" windows (visible on all desktops).
func (c *Connection) GetWindowDesktop(windowID uint32) (int, error) {
	desktop, err := ewmh.WmDesktopGet(c.XUtil, xproto.Window(windowID))
	if err != nil {
		return 0, fmt.Errorf("failed to get window desktop: %w", err)
	}
	if desktop == 0xFFFFFFFF {
		return -1, nil
	}
	return int(desktop), nil
}

// GetDesktopCount returns the number of virtual desktops.
func (c *Connection) GetDesktopCount() (int, error) {
	count, err := ewmh.NumberOfDesktopsGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to get desktop count: %w", err)
	}
	return int(count), nil
}

// SetWindowDesktop moves a window to the specified virtual desktop.
// The message is built by hand because ewmh.WmDesktopReq panics on this
// library version (uint vs int type assertion).
func (c *Connection) SetWindowDesktop(windowID uint32, desktop int) error {
	if err := c.sendRootMessage(xproto.Window(windowID), "_NET_WM_DESKTOP", uint32(desktop), sourceIndication); err != nil {
		return fmt.Errorf("failed to move 0x%x to desktop %d: %w", windowID, desktop, err)
	}
	return nil
}

// FocusWindow activates and raises a window using _NET_ACTIVE_WINDOW.
// Activating a minimized window also restores it.
func (c *Connection) FocusWindow(windowID uint32) error {
	if err := c.sendRootMessage(xproto.Window(windowID), "_NET_ACTIVE_WINDOW", sourceIndication); err != nil {
		return fmt.Errorf("failed to activate 0x%x: %w", windowID, err)
	}
	return nil
}
