package engine

import "container/list"

// WindowStore keeps managed windows in tiling order.
type WindowStore struct {
	order *list.List
	byID  map[WindowID]*list.Element
}

// NewWindowStore returns an empty store.
func NewWindowStore() *WindowStore {
	return &WindowStore{
		order: list.New(),
		byID:  make(map[WindowID]*list.Element),
	}
}

// Manage appends w to the order. Managing a known window is a no-op.
func (s *WindowStore) Manage(w *Window) {
	if _, ok := s.byID[w.ID]; ok {
		return
	}
	s.byID[w.ID] = s.order.PushBack(w)
}

// ManageFront inserts w at the front of the order.
func (s *WindowStore) ManageFront(w *Window) {
	if _, ok := s.byID[w.ID]; ok {
		return
	}
	s.byID[w.ID] = s.order.PushFront(w)
}

// Unmanage forgets w.
func (s *WindowStore) Unmanage(w *Window) {
	e, ok := s.byID[w.ID]
	if !ok {
		return
	}
	s.order.Remove(e)
	delete(s.byID, w.ID)
}

// Get looks a window up by ID.
func (s *WindowStore) Get(id WindowID) (*Window, bool) {
	e, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return e.Value.(*Window), true
}

// Contains reports whether w is managed.
func (s *WindowStore) Contains(w *Window) bool {
	if w == nil {
		return false
	}
	e, ok := s.byID[w.ID]
	return ok && e.Value.(*Window) == w
}

// Len returns the number of managed windows.
func (s *WindowStore) Len() int { return s.order.Len() }

// Swap exchanges the order positions of a and b.
func (s *WindowStore) Swap(a, b *Window) {
	ea, okA := s.byID[a.ID]
	eb, okB := s.byID[b.ID]
	if !okA || !okB || ea == eb {
		return
	}
	ea.Value, eb.Value = b, a
	s.byID[a.ID], s.byID[b.ID] = eb, ea
}

// Move places src at dst's position, shifting the windows in between.
func (s *WindowStore) Move(src, dst *Window) {
	es, okS := s.byID[src.ID]
	ed, okD := s.byID[dst.ID]
	if !okS || !okD || es == ed {
		return
	}
	if s.indexOf(es) < s.indexOf(ed) {
		s.order.MoveAfter(es, ed)
	} else {
		s.order.MoveBefore(es, ed)
	}
}

// PutToFront moves w to the front of the order.
func (s *WindowStore) PutToFront(w *Window) {
	if e, ok := s.byID[w.ID]; ok {
		s.order.MoveToFront(e)
	}
}

func (s *WindowStore) indexOf(target *list.Element) int {
	i := 0
	for e := s.order.Front(); e != nil; e = e.Next() {
		if e == target {
			return i
		}
		i++
	}
	return -1
}

func (s *WindowStore) filter(keep func(*Window) bool) []*Window {
	var out []*Window
	for e := s.order.Front(); e != nil; e = e.Next() {
		if w := e.Value.(*Window); keep(w) {
			out = append(out, w)
		}
	}
	return out
}

// All returns every managed window in order.
func (s *WindowStore) All() []*Window {
	return s.filter(func(*Window) bool { return true })
}

// AllWindows returns every window on the surface, minimized ones included.
func (s *WindowStore) AllWindows(surface SurfaceID) []*Window {
	return s.filter(func(w *Window) bool { return w.Surface == surface })
}

// VisibleWindows returns the non-minimized windows on the surface.
func (s *WindowStore) VisibleWindows(surface SurfaceID) []*Window {
	return s.filter(func(w *Window) bool { return w.Visible(surface) })
}

// VisibleTiles returns the Tiled windows on the surface.
func (s *WindowStore) VisibleTiles(surface SurfaceID) []*Window {
	return s.filter(func(w *Window) bool { return w.Surface == surface && w.Tiled() })
}

// AllTileables returns the windows on the surface that are tiled or return
// to tiled once their temporary state ends.
func (s *WindowStore) AllTileables(surface SurfaceID) []*Window {
	return s.filter(func(w *Window) bool { return w.Surface == surface && w.Tileable() })
}

// FocusOrder returns the window step positions away from current among the
// surface's windows, wrapping around. A nil or unknown current selects the
// first window.
func (s *WindowStore) FocusOrder(surface SurfaceID, current *Window, step int, includeMinimized bool) *Window {
	var windows []*Window
	if includeMinimized {
		windows = s.AllWindows(surface)
	} else {
		windows = s.VisibleWindows(surface)
	}
	if len(windows) == 0 {
		return nil
	}

	idx := -1
	for i, w := range windows {
		if w == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		return windows[0]
	}

	n := len(windows)
	return windows[((idx+step)%n+n)%n]
}
