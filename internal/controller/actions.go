package controller

import (
	"errors"
	"fmt"
	"sort"

	"github.com/1broseidon/bismuth/internal/engine"
	"github.com/1broseidon/bismuth/internal/tiling"
)

// ErrUnknownAction is returned by RunAction for names not in the registry.
var ErrUnknownAction = errors.New("unknown action")

// Action is a named shortcut operation.
type Action struct {
	Name        string
	Description string
	run         func(c *Controller)
}

// withWindow wraps an operation on the active window; it is a no-op when
// nothing is focused.
func withWindow(fn func(e *engine.Engine, w *engine.Window)) func(c *Controller) {
	return func(c *Controller) {
		if w := c.engine.CurrentWindow(); w != nil {
			fn(c.engine, w)
		}
	}
}

// withLayout wraps an operation on the current surface's layout.
func withLayout(fn func(l *tiling.Layout)) func(c *Controller) {
	return func(c *Controller) {
		if l := c.engine.CurrentLayout(); l != nil {
			fn(l)
		}
	}
}

func focusDir(dir engine.Direction) func(c *Controller) {
	return func(c *Controller) { c.engine.FocusDir(dir) }
}

func moveDir(dir engine.Direction) func(c *Controller) {
	return withWindow(func(e *engine.Engine, w *engine.Window) { e.SwapDirOrMoveFloat(w, dir) })
}

func resize(horizontal bool, step int) func(c *Controller) {
	return withWindow(func(e *engine.Engine, w *engine.Window) { e.ResizeWindow(w, horizontal, step) })
}

func setLayout(kind tiling.Kind) func(c *Controller) {
	return func(c *Controller) { c.engine.SetLayout(kind) }
}

var actionList = []Action{
	{"focus-next", "Focus next window", func(c *Controller) { c.engine.FocusStep(1) }},
	{"focus-previous", "Focus previous window", func(c *Controller) { c.engine.FocusStep(-1) }},
	{"focus-up", "Focus upper window", focusDir(engine.DirUp)},
	{"focus-down", "Focus bottom window", focusDir(engine.DirDown)},
	{"focus-left", "Focus left window", focusDir(engine.DirLeft)},
	{"focus-right", "Focus right window", focusDir(engine.DirRight)},

	{"move-next-position", "Move window to the next position", withWindow(func(e *engine.Engine, w *engine.Window) { e.SwapOrder(w, 1) })},
	{"move-previous-position", "Move window to the previous position", withWindow(func(e *engine.Engine, w *engine.Window) { e.SwapOrder(w, -1) })},
	{"move-up", "Move window up", moveDir(engine.DirUp)},
	{"move-down", "Move window down", moveDir(engine.DirDown)},
	{"move-left", "Move window left", moveDir(engine.DirLeft)},
	{"move-right", "Move window right", moveDir(engine.DirRight)},

	{"increase-width", "Increase window width", resize(true, 1)},
	{"increase-height", "Increase window height", resize(false, 1)},
	{"decrease-width", "Decrease window width", resize(true, -1)},
	{"decrease-height", "Decrease window height", resize(false, -1)},

	{"increase-master-count", "Increase master area window count", withLayout((*tiling.Layout).IncreaseMasterAreaWindowCount)},
	{"decrease-master-count", "Decrease master area window count", withLayout((*tiling.Layout).DecreaseMasterAreaWindowCount)},
	{"increase-master-size", "Increase master area size", withLayout((*tiling.Layout).IncreaseMasterAreaSize)},
	{"decrease-master-size", "Decrease master area size", withLayout((*tiling.Layout).DecreaseMasterAreaSize)},

	{"toggle-floating", "Toggle active window floating", withWindow((*engine.Engine).ToggleFloat)},
	{"push-to-master", "Push active window to master area", withWindow((*engine.Engine).SetMaster)},

	{"next-layout", "Switch to the next layout", func(c *Controller) { c.engine.CycleLayout(1) }},
	{"previous-layout", "Switch to the previous layout", func(c *Controller) { c.engine.CycleLayout(-1) }},
	{"tile-layout", "Switch to the tile layout", setLayout(tiling.KindTile)},
	{"monocle-layout", "Switch to the monocle layout", setLayout(tiling.KindMonocle)},
	{"three-column-layout", "Switch to the three column layout", setLayout(tiling.KindThreeColumn)},
	{"stair-layout", "Switch to the stair layout", setLayout(tiling.KindStair)},
	{"spread-layout", "Switch to the spread layout", setLayout(tiling.KindSpread)},
	{"floating-layout", "Switch to the floating layout", setLayout(tiling.KindFloating)},
	{"quarter-layout", "Switch to the quarter layout", setLayout(tiling.KindQuarter)},

	{"rotate", "Rotate layout", withLayout((*tiling.Layout).Rotate)},
	{"rotate-part", "Rotate layout part", withLayout((*tiling.Layout).RotatePart)},
}

func registry() map[string]Action {
	m := make(map[string]Action, len(actionList))
	for _, a := range actionList {
		m[a.Name] = a
	}
	return m
}

// Actions lists every action in registration order.
func Actions() []Action {
	return append([]Action(nil), actionList...)
}

// ActionNames lists every action name sorted alphabetically.
func ActionNames() []string {
	names := make([]string, 0, len(actionList))
	for _, a := range actionList {
		names = append(names, a.Name)
	}
	sort.Strings(names)
	return names
}

// IsAction reports whether name is a registered action.
func IsAction(name string) bool {
	for _, a := range actionList {
		if a.Name == name {
			return true
		}
	}
	return false
}

// RunAction runs the named action and re-arranges.
func (c *Controller) RunAction(name string) error {
	a, ok := c.actions[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
	c.logger.Debug("action", "name", name)
	a.run(c)
	c.engine.Arrange()
	return nil
}
