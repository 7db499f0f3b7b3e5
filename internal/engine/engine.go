package engine

import (
	"log/slog"
	"math"

	"github.com/1broseidon/bismuth/internal/tiling"
)

// stepRatio is the share of the working area moved or resized by one
// keyboard step on a floating window or a synthetic layout adjustment.
const stepRatio = 0.05

// Direction selects a neighbour relative to a window.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// Gaps shrinks a surface's working area before layouts see it.
type Gaps struct {
	Left, Right, Top, Bottom int
}

// Options are the engine's decision-point switches.
type Options struct {
	// AdjustLayout folds manual resizes of tiled windows into the layout.
	AdjustLayout bool
	// AdjustLayoutLive also adjusts while the resize is in progress.
	AdjustLayoutLive bool
	// MonocleMinimizeRest minimizes every other tile when Monocle is active.
	MonocleMinimizeRest bool
	// NewWindowAsMaster inserts new windows at the front of the order.
	NewWindowAsMaster bool

	ScreenGaps Gaps
	TileGap    int
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{AdjustLayout: true, AdjustLayoutLive: true}
}

// Engine owns the window and layout stores and turns them into geometry.
// It is not safe for concurrent use; callers serialize access.
type Engine struct {
	windows *WindowStore
	layouts *LayoutStore
	driver  Driver
	opts    Options
	logger  *slog.Logger
}

// New constructs an engine. A nil logger discards output.
func New(driver Driver, layouts *LayoutStore, opts Options, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if layouts == nil {
		layouts = NewLayoutStore(tiling.Kinds, nil, tiling.KindTile)
	}
	return &Engine{
		windows: NewWindowStore(),
		layouts: layouts,
		driver:  driver,
		opts:    opts,
		logger:  logger,
	}
}

func (e *Engine) Windows() *WindowStore { return e.windows }
func (e *Engine) Layouts() *LayoutStore { return e.layouts }
func (e *Engine) Options() Options      { return e.opts }

// SetOptions replaces the options, typically after a config reload.
func (e *Engine) SetOptions(opts Options) { e.opts = opts }

// Surfaces returns the driver's surfaces.
func (e *Engine) Surfaces() []Surface { return e.driver.Surfaces() }

// Surface looks a surface up by ID.
func (e *Engine) Surface(id SurfaceID) (Surface, bool) {
	for _, srf := range e.driver.Surfaces() {
		if srf.ID == id {
			return srf, true
		}
	}
	return Surface{}, false
}

// CurrentSurface returns the driver's current surface, falling back to the
// first known one.
func (e *Engine) CurrentSurface() (Surface, bool) {
	if srf, ok := e.Surface(e.driver.CurrentSurface()); ok {
		return srf, true
	}
	surfaces := e.driver.Surfaces()
	if len(surfaces) == 0 {
		return Surface{}, false
	}
	return surfaces[0], true
}

// NextSurface returns the surface after id in placement order.
func (e *Engine) NextSurface(id SurfaceID) (Surface, bool) {
	surfaces := e.driver.Surfaces()
	for i, srf := range surfaces {
		if srf.ID == id && i+1 < len(surfaces) {
			return surfaces[i+1], true
		}
	}
	return Surface{}, false
}

// SetCurrentSurface switches the driver to another surface.
func (e *Engine) SetCurrentSurface(id SurfaceID) {
	e.driver.SetCurrentSurface(id)
}

// CurrentWindow returns the focused managed window, or nil.
func (e *Engine) CurrentWindow() *Window {
	id, ok := e.driver.ActiveWindow()
	if !ok {
		return nil
	}
	w, _ := e.windows.Get(id)
	return w
}

// SetCurrentWindow focuses w.
func (e *Engine) SetCurrentWindow(w *Window) {
	if w == nil {
		return
	}
	e.driver.Activate(w.ID)
}

// CurrentLayout returns the current surface's layout.
func (e *Engine) CurrentLayout() *tiling.Layout {
	srf, ok := e.CurrentSurface()
	if !ok {
		return nil
	}
	return e.layouts.CurrentLayout(srf.ID)
}

// Manage starts tracking w. Windows that ask to float start Floating; all
// others start Tiled.
func (e *Engine) Manage(w *Window) {
	if w.ShouldFloat {
		w.SetState(StateFloating)
	} else {
		w.SetState(StateTiled)
	}
	if e.opts.NewWindowAsMaster {
		e.windows.ManageFront(w)
	} else {
		e.windows.Manage(w)
	}
	e.logger.Debug("window managed", "window", w.String())
}

// Unmanage stops tracking w.
func (e *Engine) Unmanage(w *Window) {
	e.windows.Unmanage(w)
	e.logger.Debug("window unmanaged", "window", w.String())
}

// MoveToSurface reassigns w to another surface.
func (e *Engine) MoveToSurface(w *Window, id SurfaceID) {
	w.Surface = id
	e.driver.MoveToSurface(w.ID, id)
}

func (e *Engine) tilingArea(srf Surface) tiling.Rect {
	g := e.opts.ScreenGaps
	return srf.WorkingArea.Gap(g.Left, g.Right, g.Top, g.Bottom)
}

func tilesOf(windows []*Window, surface SurfaceID) []tiling.Tile {
	tiles := make([]tiling.Tile, len(windows))
	for i, w := range windows {
		tiles[i] = tiling.Tile{Weight: w.Weight(surface)}
	}
	return tiles
}

func (e *Engine) layoutFor(surface SurfaceID) *tiling.Layout {
	layout := e.layouts.CurrentLayout(surface)
	layout.Gap = e.opts.TileGap
	return layout
}

// Arrange lays out every surface.
func (e *Engine) Arrange() {
	for _, srf := range e.driver.Surfaces() {
		e.ArrangeSurface(srf)
	}
}

// ArrangeSurface applies the surface's layout to its tiled windows and
// commits the result. Tiles beyond the layout's capacity keep their
// previous geometry.
func (e *Engine) ArrangeSurface(srf Surface) {
	layout := e.layoutFor(srf.ID)
	windows := e.windows.VisibleTiles(srf.ID)
	rects := layout.Apply(e.tilingArea(srf), tilesOf(windows, srf.ID))

	for i, r := range rects {
		windows[i].Geometry = r
		e.Commit(windows[i])
	}
	if len(windows) > 0 {
		e.logger.Debug("surface arranged", "surface", srf.String(), "layout", layout.Kind.String(), "tiles", len(windows), "placed", len(rects))
	}
}

// ApplyLayoutToTileables assigns geometry to every tileable window on the
// surface, including temporarily minimized or maximized ones, without
// committing it.
func (e *Engine) ApplyLayoutToTileables(srf Surface) {
	windows := e.windows.AllTileables(srf.ID)
	rects := e.layoutFor(srf.ID).Apply(e.tilingArea(srf), tilesOf(windows, srf.ID))
	for i, r := range rects {
		windows[i].Geometry = r
	}
}

// Commit pushes the window's target geometry to the driver.
func (e *Engine) Commit(w *Window) {
	switch w.State() {
	case StateTiled:
		e.driver.MoveResize(w.ID, w.Geometry)
	case StateFloating:
		e.driver.MoveResize(w.ID, w.FloatGeometry)
	}
}

// EnforceSize re-issues the layout geometry of a tiled window whose actual
// geometry drifted.
func (e *Engine) EnforceSize(w *Window) {
	if w.Tiled() && w.ActualGeometry != w.Geometry {
		e.Commit(w)
	}
}

// AdjustLayout folds the difference between w's assigned and actual
// geometry into the layout of its surface.
func (e *Engine) AdjustLayout(w *Window) {
	e.adjust(w, tiling.DeltaBetween(w.Geometry, w.ActualGeometry))
}

func (e *Engine) adjust(w *Window, delta tiling.Delta) bool {
	srf, ok := e.Surface(w.Surface)
	if !ok {
		return false
	}
	windows := e.windows.VisibleTiles(srf.ID)
	basis := -1
	for i, t := range windows {
		if t == w {
			basis = i
			break
		}
	}
	if basis < 0 {
		return false
	}

	tiles := tilesOf(windows, srf.ID)
	e.layoutFor(srf.ID).Adjust(e.tilingArea(srf), tiles, basis, delta)
	for i, t := range tiles {
		if t.Weight > 0 {
			windows[i].SetWeight(srf.ID, t.Weight)
		}
	}
	return true
}

// FocusOrder moves focus step positions through the current surface's
// windows. A minimized target is restored before it is focused.
func (e *Engine) FocusOrder(step int, includeMinimized bool) {
	srf, ok := e.CurrentSurface()
	if !ok {
		return
	}
	current := e.CurrentWindow()
	next := e.windows.FocusOrder(srf.ID, current, step, includeMinimized)
	if next == nil || next == current {
		return
	}
	e.Restore(next)
	e.SetCurrentWindow(next)
}

// FocusStep is the focus-next/previous shortcut. Under Monocle with
// minimize-rest the other tiles are minimized, so they are included.
func (e *Engine) FocusStep(step int) {
	e.FocusOrder(step, e.IsLayoutMonocleAndMinimizeRest())
}

// FocusDir focuses the nearest tile in dir. Without a current window the
// first visible tile is focused. Monocle tiles all share one area, so
// up/left step back and down/right step forward through the focus order.
func (e *Engine) FocusDir(dir Direction) {
	if layout := e.CurrentLayout(); layout != nil && layout.Kind == tiling.KindMonocle {
		step := 1
		if dir == DirUp || dir == DirLeft {
			step = -1
		}
		e.FocusOrder(step, e.opts.MonocleMinimizeRest)
		return
	}

	current := e.CurrentWindow()
	if current == nil {
		srf, ok := e.CurrentSurface()
		if !ok {
			return
		}
		if tiles := e.windows.VisibleTiles(srf.ID); len(tiles) > 0 {
			e.SetCurrentWindow(tiles[0])
		}
		return
	}
	if neighbor := e.neighborByDirection(current, dir); neighbor != nil {
		e.SetCurrentWindow(neighbor)
	}
}

// neighborByDirection returns the closest tile in dir whose span overlaps
// basis, preferring the most recently focused on ties.
func (e *Engine) neighborByDirection(basis *Window, dir Direction) *Window {
	g := basis.Geometry
	vertical := dir == DirUp || dir == DirDown

	var candidates []*Window
	for _, t := range e.windows.VisibleTiles(basis.Surface) {
		if t == basis {
			continue
		}
		tg := t.Geometry
		var beyond, overlaps bool
		switch dir {
		case DirUp:
			beyond = tg.MaxY() <= g.Y
		case DirDown:
			beyond = tg.Y >= g.MaxY()
		case DirLeft:
			beyond = tg.MaxX() <= g.X
		case DirRight:
			beyond = tg.X >= g.MaxX()
		}
		if vertical {
			overlaps = tg.X < g.MaxX() && tg.MaxX() > g.X
		} else {
			overlaps = tg.Y < g.MaxY() && tg.MaxY() > g.Y
		}
		if beyond && overlaps {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	// Distance from basis to the candidate's near edge.
	distance := func(t *Window) int {
		switch dir {
		case DirUp:
			return g.Y - t.Geometry.MaxY()
		case DirDown:
			return t.Geometry.Y - g.MaxY()
		case DirLeft:
			return g.X - t.Geometry.MaxX()
		default:
			return t.Geometry.X - g.MaxX()
		}
	}

	best := candidates[0]
	for _, t := range candidates[1:] {
		d, bd := distance(t), distance(best)
		if d < bd || (d == bd && t.Timestamp.After(best.Timestamp)) {
			best = t
		}
	}
	return best
}

// SwapOrder moves w step positions through its surface's visible windows.
func (e *Engine) SwapOrder(w *Window, step int) {
	visible := e.windows.VisibleWindows(w.Surface)
	if len(visible) < 2 {
		return
	}
	idx := -1
	for i, v := range visible {
		if v == w {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	n := len(visible)
	e.windows.Move(w, visible[((idx+step)%n+n)%n])
}

// SwapDirOrMoveFloat swaps a tiled w with its neighbour in dir, or nudges
// a floating w in dir.
func (e *Engine) SwapDirOrMoveFloat(w *Window, dir Direction) {
	switch {
	case w.Tiled():
		if neighbor := e.neighborByDirection(w, dir); neighbor != nil {
			e.windows.Swap(w, neighbor)
		}
	case w.Floating():
		srf, ok := e.Surface(w.Surface)
		if !ok {
			return
		}
		dx := int(math.Round(float64(srf.WorkingArea.Width) * stepRatio))
		dy := int(math.Round(float64(srf.WorkingArea.Height) * stepRatio))
		switch dir {
		case DirUp:
			w.FloatGeometry.Y -= dy
		case DirDown:
			w.FloatGeometry.Y += dy
		case DirLeft:
			w.FloatGeometry.X -= dx
		case DirRight:
			w.FloatGeometry.X += dx
		}
		e.Commit(w)
	}
}

// ResizeWindow grows (step > 0) or shrinks (step < 0) w horizontally or
// vertically. Tiled windows move whichever edge is not on the area border.
func (e *Engine) ResizeWindow(w *Window, horizontal bool, step int) {
	srf, ok := e.Surface(w.Surface)
	if !ok {
		return
	}
	hStep := int(math.Round(float64(srf.WorkingArea.Width) * stepRatio))
	vStep := int(math.Round(float64(srf.WorkingArea.Height) * stepRatio))

	switch {
	case w.Tiled():
		area := e.tilingArea(srf)
		var delta tiling.Delta
		if horizontal {
			if w.Geometry.MaxX() >= area.MaxX() {
				delta.West = step * hStep
			} else {
				delta.East = step * hStep
			}
		} else {
			if w.Geometry.MaxY() >= area.MaxY() {
				delta.North = step * vStep
			} else {
				delta.South = step * vStep
			}
		}
		e.adjust(w, delta)
	case w.Floating():
		if horizontal {
			w.FloatGeometry.Width = max(1, w.FloatGeometry.Width+step*hStep)
		} else {
			w.FloatGeometry.Height = max(1, w.FloatGeometry.Height+step*vStep)
		}
		e.Commit(w)
	}
}

// SetMaster moves w to the front of the order.
func (e *Engine) SetMaster(w *Window) {
	e.windows.PutToFront(w)
}

// ToggleFloat switches w between Tiled and Floating.
func (e *Engine) ToggleFloat(w *Window) {
	switch w.State() {
	case StateTiled:
		w.SetState(StateFloating)
		e.Commit(w)
	case StateFloating:
		w.SetState(StateTiled)
	}
}

// CycleLayout switches the current surface step layouts onwards.
func (e *Engine) CycleLayout(step int) {
	srf, ok := e.CurrentSurface()
	if !ok {
		return
	}
	layout := e.layouts.CycleLayout(srf.ID, step)
	e.announce(srf, layout)
}

// SetLayout switches the current surface to kind. It reports false when
// kind is not enabled.
func (e *Engine) SetLayout(kind tiling.Kind) bool {
	srf, ok := e.CurrentSurface()
	if !ok {
		return false
	}
	layout, ok := e.layouts.SetLayout(srf.ID, kind)
	if !ok {
		return false
	}
	e.announce(srf, layout)
	return true
}

func (e *Engine) announce(srf Surface, layout *tiling.Layout) {
	e.logger.Info("layout changed", "surface", srf.String(), "layout", layout.Kind.String())
	e.driver.ShowNotification(layout.Description())
}

// IsLayoutMonocleAndMinimizeRest reports whether the current surface runs
// Monocle with minimize-rest enabled.
func (e *Engine) IsLayoutMonocleAndMinimizeRest() bool {
	if !e.opts.MonocleMinimizeRest {
		return false
	}
	layout := e.CurrentLayout()
	return layout != nil && layout.Kind == tiling.KindMonocle
}

// MinimizeOthers minimizes every tile on w's surface except w.
func (e *Engine) MinimizeOthers(w *Window) {
	for _, t := range e.windows.VisibleTiles(w.Surface) {
		if t == w {
			continue
		}
		t.Minimize()
		e.driver.SetMinimized(t.ID, true)
	}
}

// Restore unminimizes w.
func (e *Engine) Restore(w *Window) {
	if !w.Minimized() {
		return
	}
	w.Unminimize()
	e.driver.SetMinimized(w.ID, false)
}
