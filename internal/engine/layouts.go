package engine

import "github.com/1broseidon/bismuth/internal/tiling"

type layoutEntry struct {
	current  tiling.Kind
	previous tiling.Kind
	layouts  map[tiling.Kind]*tiling.Layout
}

// LayoutStore remembers the active layout of every surface. Each surface
// keeps its own instance per kind so parameters survive switching away.
type LayoutStore struct {
	kinds    []tiling.Kind
	defaults map[tiling.Kind]tiling.Layout
	initial  tiling.Kind
	entries  map[SurfaceID]*layoutEntry
}

// NewLayoutStore creates a store cycling through kinds in the given order.
// defaults supplies starting parameters; missing kinds use tiling.New.
func NewLayoutStore(kinds []tiling.Kind, defaults map[tiling.Kind]tiling.Layout, initial tiling.Kind) *LayoutStore {
	s := &LayoutStore{entries: make(map[SurfaceID]*layoutEntry)}
	s.Reconfigure(kinds, defaults, initial)
	return s
}

// Reconfigure replaces the enabled kinds and defaults. Surfaces keep their
// remembered layouts; a surface whose current kind was disabled falls back
// to the initial kind.
func (s *LayoutStore) Reconfigure(kinds []tiling.Kind, defaults map[tiling.Kind]tiling.Layout, initial tiling.Kind) {
	if len(kinds) == 0 {
		kinds = tiling.Kinds
	}
	s.kinds = append([]tiling.Kind(nil), kinds...)
	s.defaults = defaults
	s.initial = initial
	if s.indexOf(initial) < 0 {
		s.initial = s.kinds[0]
	}

	for _, entry := range s.entries {
		if s.indexOf(entry.current) < 0 {
			entry.previous = entry.current
			entry.current = s.initial
		}
	}
}

// Kinds returns the enabled kinds in cycle order.
func (s *LayoutStore) Kinds() []tiling.Kind {
	return append([]tiling.Kind(nil), s.kinds...)
}

// Enabled reports whether kind can be selected.
func (s *LayoutStore) Enabled(kind tiling.Kind) bool {
	return s.indexOf(kind) >= 0
}

func (s *LayoutStore) indexOf(kind tiling.Kind) int {
	for i, k := range s.kinds {
		if k == kind {
			return i
		}
	}
	return -1
}

func (s *LayoutStore) entry(surface SurfaceID) *layoutEntry {
	e, ok := s.entries[surface]
	if !ok {
		e = &layoutEntry{
			current:  s.initial,
			previous: s.initial,
			layouts:  make(map[tiling.Kind]*tiling.Layout),
		}
		s.entries[surface] = e
	}
	return e
}

func (s *LayoutStore) instance(e *layoutEntry, kind tiling.Kind) *tiling.Layout {
	if l, ok := e.layouts[kind]; ok {
		return l
	}
	l, ok := s.defaults[kind]
	if !ok {
		l = tiling.New(kind)
	}
	l.Kind = kind
	e.layouts[kind] = &l
	return &l
}

// CurrentLayout returns the surface's active layout.
func (s *LayoutStore) CurrentLayout(surface SurfaceID) *tiling.Layout {
	e := s.entry(surface)
	return s.instance(e, e.current)
}

// CycleLayout switches step positions through the enabled kinds.
func (s *LayoutStore) CycleLayout(surface SurfaceID, step int) *tiling.Layout {
	e := s.entry(surface)
	n := len(s.kinds)
	idx := s.indexOf(e.current)
	if idx < 0 {
		idx = 0
	}
	next := s.kinds[((idx+step)%n+n)%n]
	if next != e.current {
		e.previous = e.current
		e.current = next
	}
	return s.instance(e, e.current)
}

// SetLayout switches the surface to kind. Selecting the active kind again
// toggles back to the previous one. ok is false for disabled kinds.
func (s *LayoutStore) SetLayout(surface SurfaceID, kind tiling.Kind) (layout *tiling.Layout, ok bool) {
	if !s.Enabled(kind) {
		return nil, false
	}
	e := s.entry(surface)
	switch {
	case kind != e.current:
		e.previous = e.current
		e.current = kind
	case e.previous != e.current && s.Enabled(e.previous):
		e.current, e.previous = e.previous, e.current
	}
	return s.instance(e, e.current), true
}
