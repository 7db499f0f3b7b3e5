// Package controller translates window manager events and user actions
// into engine operations.
package controller

import (
	"log/slog"
	"slices"
	"time"

	"github.com/1broseidon/bismuth/internal/engine"
)

// dragFloatDistance is how far a dropped tile may land from its slot before
// it turns into a floating window.
const dragFloatDistance = 30

// ChangeKind classifies a generic window change notification.
type ChangeKind int

const (
	ChangeOther ChangeKind = iota
	ChangeMinimized
	ChangeUnminimized
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeMinimized:
		return "minimized"
	case ChangeUnminimized:
		return "unminimized"
	default:
		return "other"
	}
}

// Change is the reason attached to OnWindowChanged.
type Change struct {
	Kind ChangeKind
	// Detail is free text for logging only.
	Detail string
}

// Rules decide how new windows are treated by class.
type Rules struct {
	FloatClasses  []string
	IgnoreClasses []string
}

// Controller is the single entry point for driver events and shortcut
// actions. Like the engine it must only be used from one goroutine.
type Controller struct {
	engine  *engine.Engine
	rules   Rules
	actions map[string]Action
	logger  *slog.Logger
	now     func() time.Time
}

// New creates a controller driving e. A nil logger discards output.
func New(e *engine.Engine, rules Rules, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Controller{
		engine: e,
		rules:  rules,
		logger: logger,
		now:    time.Now,
	}
	c.actions = registry()
	return c
}

// Engine returns the engine driven by the controller.
func (c *Controller) Engine() *engine.Engine { return c.engine }

// SetRules replaces the class rules. Already managed windows keep their
// state.
func (c *Controller) SetRules(rules Rules) { c.rules = rules }

// Ignores reports whether windows of class are never managed.
func (c *Controller) Ignores(class string) bool {
	return class != "" && slices.Contains(c.rules.IgnoreClasses, class)
}

func (c *Controller) prepare(w *engine.Window) bool {
	if c.Ignores(w.Class) {
		c.logger.Debug("window ignored", "window", w.String())
		return false
	}
	if slices.Contains(c.rules.FloatClasses, w.Class) {
		w.ShouldFloat = true
	}
	return true
}

// ManageWindow adopts a window that existed before start-up. Callers run
// Arrange once every existing window is managed.
func (c *Controller) ManageWindow(w *engine.Window) bool {
	if !c.prepare(w) {
		return false
	}
	c.engine.Manage(w)
	return true
}

// Arrange re-lays out every surface.
func (c *Controller) Arrange() {
	c.engine.Arrange()
}

// OnSurfaceUpdate handles screen or work area changes.
func (c *Controller) OnSurfaceUpdate(comment string) {
	c.logger.Debug("surface update", "comment", comment)
	c.engine.Arrange()
}

// OnCurrentSurfaceChanged handles desktop or screen switches.
func (c *Controller) OnCurrentSurfaceChanged() {
	c.logger.Debug("current surface changed")
	c.engine.Arrange()
	if w := c.engine.CurrentWindow(); w != nil {
		c.OnWindowFocused(w)
	}
}

// OnWindowAdded manages a new window. A tileable window that overflows the
// current layout's capacity is sent to the next surface, which becomes
// current. It reports whether the window is managed.
func (c *Controller) OnWindowAdded(w *engine.Window) bool {
	c.logger.Debug("window added", "window", w.String())
	if !c.prepare(w) {
		return false
	}
	c.engine.Manage(w)

	if w.Tileable() {
		c.relocateOverflow(w)
	}
	c.engine.Arrange()
	return true
}

func (c *Controller) relocateOverflow(w *engine.Window) {
	srf, ok := c.engine.CurrentSurface()
	if !ok {
		return
	}
	capacity, bounded := c.engine.Layouts().CurrentLayout(srf.ID).Capacity()
	if !bounded || capacity == 0 {
		return
	}
	if len(c.engine.Windows().VisibleTiles(srf.ID)) <= capacity {
		return
	}
	next, ok := c.engine.NextSurface(srf.ID)
	if !ok {
		return
	}
	c.logger.Info("window relocated", "window", w.String(), "from", srf.String(), "to", next.String())
	c.engine.MoveToSurface(w, next.ID)
	c.engine.SetCurrentSurface(next.ID)
}

// OnWindowRemoved forgets a window. In Monocle with minimize-rest the next
// window of the surface is restored, focused and maximized.
func (c *Controller) OnWindowRemoved(w *engine.Window) {
	c.logger.Debug("window removed", "window", w.String())
	c.engine.Unmanage(w)
	c.engine.Arrange()

	if c.engine.CurrentWindow() != nil || !c.engine.IsLayoutMonocleAndMinimizeRest() {
		return
	}
	srf, ok := c.engine.CurrentSurface()
	if !ok {
		return
	}
	next := c.engine.Windows().FocusOrder(srf.ID, nil, 1, true)
	if next == nil {
		return
	}
	c.engine.Restore(next)
	c.engine.SetCurrentWindow(next)
	c.OnWindowFocused(next)
	c.engine.Arrange()
}

// OnWindowMoveStart marks the beginning of an interactive move.
func (c *Controller) OnWindowMoveStart(w *engine.Window) {
	c.logger.Debug("window move start", "window", w.String())
}

// OnWindowMove is called while a window is being dragged.
func (c *Controller) OnWindowMove(w *engine.Window) {}

// OnWindowMoveOver finishes a drag. Dropping a tile onto exactly one other
// tile swaps them; dropping it far from its slot floats it; anything else
// snaps it back.
func (c *Controller) OnWindowMoveOver(w *engine.Window) {
	c.logger.Debug("window move over", "window", w.String())
	if !w.Tiled() {
		return
	}

	center := w.ActualGeometry.Center()
	var targets []*engine.Window
	for _, t := range c.engine.Windows().VisibleTiles(w.Surface) {
		if t != w && t.ActualGeometry.IncludesPoint(center) {
			targets = append(targets, t)
		}
	}

	switch {
	case len(targets) == 1:
		c.engine.Windows().Swap(w, targets[0])
		c.engine.Arrange()
	case w.ActualGeometry.Distance(w.Geometry) > dragFloatDistance:
		w.FloatGeometry = w.ActualGeometry
		w.SetState(engine.StateFloating)
		c.engine.Arrange()
	default:
		c.engine.Commit(w)
	}
}

// OnWindowResizeStart marks the beginning of an interactive resize.
func (c *Controller) OnWindowResizeStart(w *engine.Window) {
	c.logger.Debug("window resize start", "window", w.String())
}

// OnWindowResize adjusts the layout while resizing when live adjustment is
// enabled.
func (c *Controller) OnWindowResize(w *engine.Window) {
	opts := c.engine.Options()
	if opts.AdjustLayout && opts.AdjustLayoutLive && w.Tiled() {
		c.engine.AdjustLayout(w)
		c.engine.Arrange()
	}
}

// OnWindowResizeOver finishes a resize. Tiled windows either adjust the
// layout or are snapped back, depending on configuration.
func (c *Controller) OnWindowResizeOver(w *engine.Window) {
	c.logger.Debug("window resize over", "window", w.String())
	opts := c.engine.Options()
	switch {
	case opts.AdjustLayout && w.Tiled():
		c.engine.AdjustLayout(w)
		c.engine.Arrange()
	case !opts.AdjustLayout:
		c.engine.EnforceSize(w)
	}
}

// OnWindowMaximizeChanged tracks maximization done outside the engine.
func (c *Controller) OnWindowMaximizeChanged(w *engine.Window, maximized bool) {
	c.logger.Debug("window maximize changed", "window", w.String(), "maximized", maximized)
	w.SetMaximized(maximized)
	c.engine.Arrange()
}

// OnWindowGeometryChanged snaps a tile back when something else moved it.
func (c *Controller) OnWindowGeometryChanged(w *engine.Window) {
	c.engine.EnforceSize(w)
}

// OnWindowChanged handles minimize/unminimize and other notifications.
func (c *Controller) OnWindowChanged(w *engine.Window, change Change) {
	if w == nil {
		return
	}
	c.logger.Debug("window changed", "window", w.String(), "change", change.Kind.String(), "detail", change.Detail)

	switch change.Kind {
	case ChangeUnminimized:
		c.engine.Restore(w)
		c.engine.SetCurrentWindow(w)
	case ChangeMinimized:
		w.Minimize()
	default:
		return
	}
	c.engine.Arrange()
}

// OnWindowFocused records focus time. In Monocle with minimize-rest it
// gives the focused tile the full area and minimizes the rest.
func (c *Controller) OnWindowFocused(w *engine.Window) {
	w.Timestamp = c.now()
	if !c.engine.IsLayoutMonocleAndMinimizeRest() || !w.Tiled() {
		return
	}
	srf, ok := c.engine.Surface(w.Surface)
	if !ok {
		return
	}
	c.engine.ApplyLayoutToTileables(srf)
	c.engine.Commit(w)
	c.engine.MinimizeOthers(w)
}

// OnWindowShadeChanged floats a window while it is shaded.
func (c *Controller) OnWindowShadeChanged(w *engine.Window, shaded bool) {
	c.logger.Debug("window shade changed", "window", w.String(), "shaded", shaded)
	w.SetShaded(shaded)
	c.engine.Arrange()
}
