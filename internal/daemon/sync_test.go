package daemon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/bismuth/internal/controller"
	"github.com/1broseidon/bismuth/internal/engine"
	"github.com/1broseidon/bismuth/internal/platform"
	"github.com/1broseidon/bismuth/internal/platform/platformtest"
	"github.com/1broseidon/bismuth/internal/tiling"
)

var screen = tiling.Rect{Width: 1920, Height: 1080}

type syncFixture struct {
	backend *platformtest.Backend
	driver  *platform.Driver
	ctl     *controller.Controller
	sync    *StateSynchronizer
	now     time.Time
	pending []func()
}

func newSyncFixture(t *testing.T, windows ...platform.Window) *syncFixture {
	t.Helper()
	f := &syncFixture{now: time.Unix(1000, 0)}
	f.backend = platformtest.New(2, platform.Display{Name: "HDMI-1", Bounds: screen, Usable: screen})
	for _, w := range windows {
		f.backend.Add(w)
	}
	f.driver = platform.NewDriver(f.backend, nil, nil)
	f.driver.SetClock(func() time.Time { return f.now })
	f.ctl = controller.New(engine.New(f.driver, nil, engine.DefaultOptions(), nil), controller.Rules{}, nil)
	f.sync = NewStateSynchronizer(f.backend, f.backend, f.driver, f.ctl, func(fn func()) { fn() }, nil)
	f.sync.afterFunc = func(_ time.Duration, fn func()) {
		f.pending = append(f.pending, fn)
	}
	require.NoError(t, f.sync.Start())
	f.settle()
	return f
}

// settle reports every placement back as the window manager would and lets
// the settle period pass.
func (f *syncFixture) settle() {
	for id := range f.backend.Placed {
		f.sync.Handle(platform.Event{Kind: platform.EventWindowConfigure, Window: id})
	}
	f.now = f.now.Add(time.Second)
}

func (f *syncFixture) runPending() {
	pending := f.pending
	f.pending = nil
	for _, fn := range pending {
		fn()
	}
}

func (f *syncFixture) window(t *testing.T, id engine.WindowID) *engine.Window {
	t.Helper()
	w, ok := f.ctl.Engine().Windows().Get(id)
	require.True(t, ok, "window 0x%x not managed", uint32(id))
	return w
}

func (f *syncFixture) order() []engine.WindowID {
	var ids []engine.WindowID
	for _, w := range f.ctl.Engine().Windows().All() {
		ids = append(ids, w.ID)
	}
	return ids
}

func term(id engine.WindowID) platform.Window {
	return platform.Window{ID: id, Class: "xterm", Title: "term", Bounds: tiling.Rect{X: 100, Y: 100, Width: 400, Height: 300}}
}

func TestStateSynchronizer_StartAdoptsAndArranges(t *testing.T) {
	dock := platform.Window{ID: 9, Class: "polybar", Special: true, Bounds: tiling.Rect{Width: 1920, Height: 30}}
	f := newSyncFixture(t, term(1), term(2), dock)

	assert.Equal(t, []engine.WindowID{1, 2}, f.order())
	assert.True(t, f.backend.Watched[1])
	assert.False(t, f.backend.Watched[9])
	assert.NotContains(t, f.backend.Placed, engine.WindowID(9))

	left, right := f.backend.Placed[1], f.backend.Placed[2]
	assert.Equal(t, 0, left.X)
	assert.Equal(t, left.Width, right.X)
	assert.Equal(t, 1920, left.Width+right.Width)
}

func TestStateSynchronizer_SyncAddsAndRemoves(t *testing.T) {
	f := newSyncFixture(t, term(1))

	f.backend.Add(term(2))
	f.sync.Sync()
	assert.Equal(t, []engine.WindowID{1, 2}, f.order())
	assert.Less(t, f.backend.Placed[1].Width, 1920)

	f.backend.Remove(1)
	f.sync.Sync()
	assert.Equal(t, []engine.WindowID{2}, f.order())
	assert.False(t, f.backend.Watched[1])
	assert.Equal(t, 1920, f.backend.Placed[2].Width)
}

func TestStateSynchronizer_FloatingHints(t *testing.T) {
	dialog := term(3)
	dialog.Float = true
	f := newSyncFixture(t, term(1), dialog)

	assert.True(t, f.window(t, 3).Floating())
	assert.Equal(t, 1920, f.backend.Placed[1].Width)
}

func TestStateSynchronizer_WindowStates(t *testing.T) {
	f := newSyncFixture(t, term(1), term(2))

	f.backend.Update(1, func(w *platform.Window) { w.Minimized = true })
	f.sync.Handle(platform.Event{Kind: platform.EventWindowState, Window: 1})
	assert.True(t, f.window(t, 1).Minimized())
	assert.Equal(t, 1920, f.backend.Placed[2].Width)

	f.backend.Update(1, func(w *platform.Window) { w.Minimized = false })
	f.sync.Handle(platform.Event{Kind: platform.EventWindowState, Window: 1})
	assert.True(t, f.window(t, 1).Tiled())

	f.backend.Update(2, func(w *platform.Window) { w.Fullscreen = true })
	f.sync.Handle(platform.Event{Kind: platform.EventWindowState, Window: 2})
	assert.Equal(t, engine.StateMaximized, f.window(t, 2).State())

	f.backend.Update(2, func(w *platform.Window) { w.Fullscreen = false; w.Shaded = true })
	f.sync.Handle(platform.Event{Kind: platform.EventWindowState, Window: 2})
	assert.True(t, f.window(t, 2).Floating())
	assert.True(t, f.window(t, 2).Shaded)
}

func TestStateSynchronizer_DesktopChange(t *testing.T) {
	f := newSyncFixture(t, term(1), term(2))

	f.backend.Update(2, func(w *platform.Window) { w.Desktop = 1 })
	f.sync.Handle(platform.Event{Kind: platform.EventWindowState, Window: 2})
	assert.Equal(t, engine.SurfaceID{Desktop: 1}, f.window(t, 2).Surface)
	assert.Equal(t, 1920, f.backend.Placed[1].Width)
}

func TestStateSynchronizer_FocusFollowsActiveWindow(t *testing.T) {
	f := newSyncFixture(t, term(1), term(2))

	f.backend.Active = 2
	f.sync.Sync()
	assert.False(t, f.window(t, 2).Timestamp.IsZero())
	assert.True(t, f.window(t, 1).Timestamp.IsZero())
}

func TestStateSynchronizer_PlacementIsNotAGesture(t *testing.T) {
	f := newSyncFixture(t, term(1))

	f.backend.Add(term(2))
	f.sync.Sync()
	f.sync.Handle(platform.Event{Kind: platform.EventWindowConfigure, Window: 1})
	assert.Empty(t, f.pending)
}

func TestStateSynchronizer_DragSwapsTiles(t *testing.T) {
	f := newSyncFixture(t, term(1), term(2))
	master := f.backend.Placed[1]

	f.backend.Update(1, func(w *platform.Window) {
		w.Bounds = tiling.Rect{X: 1100, Y: 0, Width: master.Width, Height: master.Height}
	})
	f.sync.Handle(platform.Event{Kind: platform.EventWindowConfigure, Window: 1})
	require.Len(t, f.pending, 1)

	// Still dragging: the finish is postponed.
	f.backend.Held = true
	f.runPending()
	require.Len(t, f.pending, 1)
	assert.Equal(t, []engine.WindowID{1, 2}, f.order())

	f.backend.Held = false
	f.runPending()
	assert.Empty(t, f.pending)
	assert.Equal(t, []engine.WindowID{2, 1}, f.order())
}

func TestStateSynchronizer_StaleGestureTimerIgnored(t *testing.T) {
	f := newSyncFixture(t, term(1), term(2))
	master := f.backend.Placed[1]

	for _, x := range []int{10, 20} {
		f.backend.Update(1, func(w *platform.Window) {
			w.Bounds = tiling.Rect{X: x, Y: 0, Width: master.Width, Height: master.Height}
		})
		f.sync.Handle(platform.Event{Kind: platform.EventWindowConfigure, Window: 1})
	}
	require.Len(t, f.pending, 2)

	// The first timer is stale; the second finishes the move and snaps the
	// tile back into its slot.
	f.runPending()
	assert.Equal(t, []engine.WindowID{1, 2}, f.order())
	assert.Equal(t, master, f.backend.Placed[1])
}

func TestStateSynchronizer_ResizeAdjustsLayout(t *testing.T) {
	f := newSyncFixture(t, term(1), term(2))
	master := f.backend.Placed[1]

	f.backend.Update(1, func(w *platform.Window) {
		w.Bounds = tiling.Rect{Width: master.Width + 200, Height: master.Height}
	})
	f.sync.Handle(platform.Event{Kind: platform.EventWindowConfigure, Window: 1})
	f.runPending()

	assert.Greater(t, f.backend.Placed[1].Width, master.Width)
	assert.Equal(t, 1920, f.backend.Placed[1].Width+f.backend.Placed[2].Width)
}
