package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// Root properties whose change may alter the managed window set, the
// focus, the current desktop or the usable screen area.
var rootProperties = map[string]bool{
	"_NET_CLIENT_LIST":        true,
	"_NET_ACTIVE_WINDOW":      true,
	"_NET_CURRENT_DESKTOP":    true,
	"_NET_NUMBER_OF_DESKTOPS": true,
	"_NET_WORKAREA":           true,
	"_NET_DESKTOP_GEOMETRY":   true,
}

// Client properties that change a window's tiling state or surface.
var windowProperties = map[string]bool{
	"_NET_WM_STATE":   true,
	"_NET_WM_DESKTOP": true,
	"WM_CLASS":        true,
}

// WatchRoot calls fn on the X event goroutine whenever a relevant root
// window property changes.
func (c *Connection) WatchRoot(fn func(property string)) error {
	if err := xwindow.New(c.XUtil, c.Root).Listen(xproto.EventMaskPropertyChange); err != nil {
		return err
	}
	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		name, err := xprop.AtomName(xu, ev.Atom)
		if err != nil || !rootProperties[name] {
			return
		}
		fn(name)
	}).Connect(c.XUtil, c.Root)
	return nil
}

// WatchWindow subscribes to state and geometry changes of one client.
// onState fires for property changes, onConfigure for every
// ConfigureNotify. Both run on the X event goroutine.
func (c *Connection) WatchWindow(windowID xproto.Window, onState func(property string), onConfigure func()) error {
	win := xwindow.New(c.XUtil, windowID)
	if err := win.Listen(xproto.EventMaskPropertyChange, xproto.EventMaskStructureNotify); err != nil {
		return err
	}
	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		name, err := xprop.AtomName(xu, ev.Atom)
		if err != nil || !windowProperties[name] {
			return
		}
		onState(name)
	}).Connect(c.XUtil, windowID)
	xevent.ConfigureNotifyFun(func(xu *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		onConfigure()
	}).Connect(c.XUtil, windowID)
	return nil
}

// UnwatchWindow drops every callback attached to windowID.
func (c *Connection) UnwatchWindow(windowID xproto.Window) {
	xevent.Detach(c.XUtil, windowID)
}
