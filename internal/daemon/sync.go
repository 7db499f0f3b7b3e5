package daemon

import (
	"log/slog"
	"time"

	"github.com/1broseidon/bismuth/internal/controller"
	"github.com/1broseidon/bismuth/internal/engine"
	"github.com/1broseidon/bismuth/internal/platform"
)

// gestureQuiet is how long a window must stop moving before an interactive
// move or resize counts as finished.
const gestureQuiet = 250 * time.Millisecond

type gesture int

const (
	gestureNone gesture = iota
	gestureMove
	gestureResize
)

type trackedWindow struct {
	// window is nil for windows that are never managed.
	window  *engine.Window
	gesture gesture
	seq     int
}

// StateSynchronizer mirrors window-system state into the controller. It
// turns client list, focus, desktop, state and geometry changes into
// controller events. It must only be used from the daemon loop.
type StateSynchronizer struct {
	backend platform.Backend
	events  platform.EventSource
	driver  *platform.Driver
	ctl     *controller.Controller
	logger  *slog.Logger

	post      func(func())
	afterFunc func(time.Duration, func())

	known   map[engine.WindowID]*trackedWindow
	active  engine.WindowID
	current engine.SurfaceID
}

// NewStateSynchronizer creates a synchronizer. post schedules work back
// onto the daemon loop.
func NewStateSynchronizer(backend platform.Backend, events platform.EventSource, driver *platform.Driver, ctl *controller.Controller, post func(func()), logger *slog.Logger) *StateSynchronizer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &StateSynchronizer{
		backend: backend,
		events:  events,
		driver:  driver,
		ctl:     ctl,
		logger:  logger,
		post:    post,
		afterFunc: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
		known: make(map[engine.WindowID]*trackedWindow),
	}
}

// Start adopts every existing client window and arranges once.
func (s *StateSynchronizer) Start() error {
	if _, err := s.driver.Refresh(); err != nil {
		return err
	}
	s.current = s.driver.CurrentSurface()

	ids, err := s.backend.ClientList()
	if err != nil {
		return err
	}
	for _, id := range ids {
		s.adopt(id, false)
	}
	s.ctl.Arrange()
	s.syncFocus()

	s.logger.Info("windows adopted", "managed", s.ctl.Engine().Windows().Len(), "clients", len(ids))
	return nil
}

// Handle dispatches one backend event.
func (s *StateSynchronizer) Handle(ev platform.Event) {
	switch ev.Kind {
	case platform.EventRoot:
		s.Sync()
	case platform.EventWindowState:
		s.syncWindow(ev.Window)
	case platform.EventWindowConfigure:
		s.configured(ev.Window)
	}
}

// Sync reconciles surfaces, the client list, the current surface and
// focus.
func (s *StateSynchronizer) Sync() {
	changed, err := s.driver.Refresh()
	if err != nil {
		s.logger.Warn("refresh surfaces failed", "error", err)
		return
	}
	if changed {
		s.ctl.OnSurfaceUpdate("screens or desktops changed")
	}

	ids, err := s.backend.ClientList()
	if err != nil {
		s.logger.Warn("list clients failed", "error", err)
		return
	}
	present := make(map[engine.WindowID]bool, len(ids))
	for _, id := range ids {
		present[id] = true
		if _, ok := s.known[id]; !ok {
			s.adopt(id, true)
		}
	}
	for id, t := range s.known {
		if !present[id] {
			s.forget(id, t)
		}
	}

	if cur := s.driver.CurrentSurface(); cur != s.current {
		s.current = cur
		s.ctl.OnCurrentSurfaceChanged()
	}
	s.syncFocus()
}

// Reconcile runs Sync and re-reads every managed window, catching
// notifications the window system never sent.
func (s *StateSynchronizer) Reconcile() {
	s.Sync()
	for id := range s.known {
		s.syncWindow(id)
	}
}

func (s *StateSynchronizer) adopt(id engine.WindowID, live bool) {
	info, err := s.backend.Window(id)
	if err != nil {
		// Gone already, or not ready; the next sync retries.
		s.logger.Debug("window info unavailable", "window", id, "error", err)
		return
	}

	t := &trackedWindow{}
	s.known[id] = t
	if info.Special {
		return
	}

	w := engine.NewWindow(id, s.driver.SurfaceOf(info), info.Bounds)
	w.Class = info.Class
	w.Title = info.Title
	w.ShouldFloat = info.Float

	var managed bool
	if live {
		managed = s.ctl.OnWindowAdded(w)
	} else {
		managed = s.ctl.ManageWindow(w)
	}
	if !managed {
		return
	}
	t.window = w

	if err := s.events.Watch(id); err != nil {
		s.logger.Warn("watch window failed", "window", w.String(), "error", err)
	}
	s.applyState(w, info)
}

func (s *StateSynchronizer) forget(id engine.WindowID, t *trackedWindow) {
	delete(s.known, id)
	s.driver.Forget(id)
	if t.window == nil {
		return
	}
	s.events.Unwatch(id)
	if s.active == id {
		s.active = 0
	}
	s.ctl.OnWindowRemoved(t.window)
}

func (s *StateSynchronizer) syncFocus() {
	id, _ := s.driver.ActiveWindow()
	if id == s.active {
		return
	}
	s.active = id
	if t, ok := s.known[id]; ok && t.window != nil {
		s.ctl.OnWindowFocused(t.window)
	}
}

func (s *StateSynchronizer) syncWindow(id engine.WindowID) {
	t, ok := s.known[id]
	if !ok || t.window == nil {
		return
	}
	info, err := s.backend.Window(id)
	if err != nil {
		// Destroyed; the client list change removes it.
		return
	}
	w := t.window
	w.Title = info.Title
	s.applyState(w, info)

	if t.gesture != gestureNone {
		return
	}
	if srf := s.driver.SurfaceOf(info); srf != w.Surface {
		s.logger.Debug("window changed surface", "window", w.String(), "to", srf.String())
		w.Surface = srf
		s.ctl.Arrange()
	}
}

// applyState forwards minimize, maximize and shade changes the engine has
// not seen yet.
func (s *StateSynchronizer) applyState(w *engine.Window, info platform.Window) {
	switch {
	case info.Minimized && !w.Minimized():
		s.ctl.OnWindowChanged(w, controller.Change{Kind: controller.ChangeMinimized, Detail: "hidden"})
	case !info.Minimized && w.Minimized():
		s.ctl.OnWindowChanged(w, controller.Change{Kind: controller.ChangeUnminimized, Detail: "shown"})
	}

	maximized := info.Maximized || info.Fullscreen
	if !w.Minimized() && maximized != (w.State() == engine.StateMaximized) {
		s.ctl.OnWindowMaximizeChanged(w, maximized)
	}

	if info.Shaded != w.Shaded {
		s.ctl.OnWindowShadeChanged(w, info.Shaded)
	}
}

// configured tracks interactive moves and resizes. Geometry changes right
// after the tiler placed a window are not gestures.
func (s *StateSynchronizer) configured(id engine.WindowID) {
	t, ok := s.known[id]
	if !ok || t.window == nil {
		return
	}
	info, err := s.backend.Window(id)
	if err != nil {
		return
	}
	w := t.window
	prev := w.ActualGeometry
	w.ActualGeometry = info.Bounds
	if prev == info.Bounds {
		return
	}

	resized := prev.Width != info.Bounds.Width || prev.Height != info.Bounds.Height
	switch t.gesture {
	case gestureNone:
		if s.driver.Settling(id) || w.Minimized() {
			return
		}
		if resized {
			t.gesture = gestureResize
			s.ctl.OnWindowResizeStart(w)
		} else {
			t.gesture = gestureMove
			s.ctl.OnWindowMoveStart(w)
		}
	case gestureMove:
		if resized {
			t.gesture = gestureResize
			s.ctl.OnWindowResizeStart(w)
		}
	}

	if t.gesture == gestureResize {
		s.ctl.OnWindowResize(w)
	} else {
		s.ctl.OnWindowMove(w)
	}
	s.scheduleFinish(id, t)
}

func (s *StateSynchronizer) scheduleFinish(id engine.WindowID, t *trackedWindow) {
	t.seq++
	seq := t.seq
	s.afterFunc(gestureQuiet, func() {
		s.post(func() { s.finishGesture(id, seq) })
	})
}

func (s *StateSynchronizer) finishGesture(id engine.WindowID, seq int) {
	t, ok := s.known[id]
	if !ok || t.window == nil || t.seq != seq || t.gesture == gestureNone {
		return
	}
	if s.backend.PointerHeld() {
		s.scheduleFinish(id, t)
		return
	}

	g := t.gesture
	t.gesture = gestureNone
	w := t.window

	if info, err := s.backend.Window(id); err == nil {
		w.ActualGeometry = info.Bounds
		if srf := s.driver.SurfaceOf(info); srf != w.Surface {
			s.logger.Debug("window dropped on another surface", "window", w.String(), "to", srf.String())
			w.Surface = srf
			s.ctl.Arrange()
			return
		}
	}

	if g == gestureResize {
		s.ctl.OnWindowResizeOver(w)
	} else {
		s.ctl.OnWindowMoveOver(w)
	}
}
