package engine

import (
	"fmt"

	"github.com/1broseidon/bismuth/internal/tiling"
)

// SurfaceID identifies one screen + virtual desktop combination.
type SurfaceID struct {
	Screen  int
	Desktop int
}

func (id SurfaceID) String() string {
	return fmt.Sprintf("screen%d/desktop%d", id.Screen, id.Desktop)
}

// Surface is one area a layout is applied to. Surfaces are discovered from
// the driver; the engine never creates them.
type Surface struct {
	ID   SurfaceID
	Name string
	// WorkingArea excludes panels and docks.
	WorkingArea tiling.Rect
}

func (s Surface) String() string {
	if s.Name != "" {
		return fmt.Sprintf("%s(%s)", s.ID, s.Name)
	}
	return s.ID.String()
}
