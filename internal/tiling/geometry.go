package tiling

import (
	"fmt"
	"math"
)

// Rect represents a window position and size
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Point is a position in screen coordinates.
type Point struct {
	X int
	Y int
}

// MaxX returns the x coordinate just past the right edge.
func (r Rect) MaxX() int { return r.X + r.Width }

// MaxY returns the y coordinate just past the bottom edge.
func (r Rect) MaxY() int { return r.Y + r.Height }

// Center returns the center point of the rectangle (rounded down).
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// IncludesPoint reports whether p lies inside r. The right and bottom edges
// are exclusive so that adjacent tiles never both contain the same point.
func (r Rect) IncludesPoint(p Point) bool {
	return p.X >= r.X && p.X < r.MaxX() && p.Y >= r.Y && p.Y < r.MaxY()
}

// Subtract returns the component-wise difference r - other.
func (r Rect) Subtract(other Rect) Rect {
	return Rect{
		X:      r.X - other.X,
		Y:      r.Y - other.Y,
		Width:  r.Width - other.Width,
		Height: r.Height - other.Height,
	}
}

// Distance returns the Euclidean distance between the top-left corners.
func (r Rect) Distance(other Rect) float64 {
	d := r.Subtract(other)
	return math.Sqrt(float64(d.X*d.X + d.Y*d.Y))
}

// Gap shrinks the rectangle by the given amount on each side. The result
// never has a negative size.
func (r Rect) Gap(left, right, top, bottom int) Rect {
	g := Rect{
		X:      r.X + left,
		Y:      r.Y + top,
		Width:  r.Width - left - right,
		Height: r.Height - top - bottom,
	}
	if g.Width < 0 {
		g.Width = 0
	}
	if g.Height < 0 {
		g.Height = 0
	}
	return g
}

// Area returns width * height.
func (r Rect) Area() int { return r.Width * r.Height }

// Intersect returns the overlapping region of r and other, or a zero Rect.
func (r Rect) Intersect(other Rect) Rect {
	x1 := max(r.X, other.X)
	y1 := max(r.Y, other.Y)
	x2 := min(r.MaxX(), other.MaxX())
	y2 := min(r.MaxY(), other.MaxY())
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// Delta describes how far each edge of a rectangle moved. Positive values
// mean the edge moved outwards.
type Delta struct {
	East  int
	West  int
	South int
	North int
}

// DeltaBetween computes how the edges of target differ from basis.
func DeltaBetween(basis, target Rect) Delta {
	return Delta{
		East:  target.MaxX() - basis.MaxX(),
		West:  basis.X - target.X,
		South: target.MaxY() - basis.MaxY(),
		North: basis.Y - target.Y,
	}
}

// IsZero reports whether no edge moved.
func (d Delta) IsZero() bool {
	return d == Delta{}
}

// transpose swaps the horizontal and vertical axes, matching a rectangle
// mirrored along its main diagonal.
func (d Delta) transpose() Delta {
	return Delta{East: d.South, West: d.North, South: d.East, North: d.West}
}

// mirror swaps the horizontal edges.
func (d Delta) mirror() Delta {
	return Delta{East: d.West, West: d.East, South: d.South, North: d.North}
}

func (r Rect) transpose() Rect {
	return Rect{X: r.Y, Y: r.X, Width: r.Height, Height: r.Width}
}
