package hotkeys

import (
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/bismuth/internal/platform"
)

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Binding pairs an action name with its key sequence, e.g. "Mod4-Shift-k".
type Binding struct {
	Action string
	Keys   string
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	run    func(action string)
	known  func(action string) bool
	active []Binding
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler. run is called on the X event
// goroutine with the bound action name; known filters out names that are
// not actions.
func NewHandler(backend platform.Backend, run func(action string), known func(action string) bool) *Handler {
	var xu *xgbutil.XUtil
	var root xproto.Window
	if accessor, ok := backend.(x11Accessor); ok {
		xu = accessor.XUtil()
		root = accessor.RootWindow()
	}

	if xu != nil {
		ignoreModsOnce.Do(func() {
			configureIgnoreMods(xu)
		})
	}

	return &Handler{
		xu:    xu,
		root:  root,
		run:   run,
		known: known,
	}
}

// Bind replaces every registered shortcut with bindings (action -> keys).
// Unknown actions and keys that fail to grab are logged and skipped. It
// returns the bindings that are active.
func (h *Handler) Bind(bindings map[string]string) []Binding {
	if h.xu == nil {
		log.Printf("Hotkeys unavailable: backend has no X11 connection")
		return nil
	}
	h.Unbind()

	valid, unknown := Resolve(bindings, h.known)
	for _, name := range unknown {
		log.Printf("Warning: keybinding for unknown action %q ignored", name)
	}
	for _, b := range valid {
		if err := h.RegisterFunc(b.Keys, h.trigger(b.Action)); err != nil {
			log.Printf("Warning: Failed to register %s for %s: %v", b.Keys, b.Action, err)
			continue
		}
		h.active = append(h.active, b)
	}
	log.Printf("Registered %d hotkeys", len(h.active))
	return append([]Binding(nil), h.active...)
}

// Unbind releases every shortcut grabbed on the root window.
func (h *Handler) Unbind() {
	if h.xu == nil || len(h.active) == 0 {
		return
	}
	keybind.Detach(h.xu, h.root)
	h.active = nil
}

func (h *Handler) trigger(action string) func() {
	return func() {
		h.run(action)
	}
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	if keySequence == "" {
		return fmt.Errorf("empty key sequence")
	}
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

// Resolve splits bindings into valid ones, sorted by action, and the names
// of unknown actions. Empty key sequences disable an action.
func Resolve(bindings map[string]string, known func(string) bool) (valid []Binding, unknown []string) {
	for action, keys := range bindings {
		switch {
		case known != nil && !known(action):
			unknown = append(unknown, action)
		case keys == "":
		default:
			valid = append(valid, Binding{Action: action, Keys: keys})
		}
	}
	sort.Slice(valid, func(i, j int) bool { return valid[i].Action < valid[j].Action })
	sort.Strings(unknown)
	return valid, unknown
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
