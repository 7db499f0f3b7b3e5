package tiling

import "math"

const (
	minRatio = 0.1
	maxRatio = 0.9
)

// Tile is a layout's view of one tileable window.
type Tile struct {
	// Weight is the window's relative share inside a stack. Values <= 0
	// count as 1.
	Weight float64
}

func (t Tile) weight() float64 {
	if t.Weight <= 0 {
		return 1
	}
	return t.Weight
}

// part is one building block of a composed layout. apply returns exactly
// one rect per tile; adjust folds a manual resize of tiles[basis] back into
// the part's parameters.
type part interface {
	apply(area Rect, tiles []Tile) []Rect
	adjust(area Rect, tiles []Tile, basis int, delta Delta)
}

type span struct {
	offset int
	size   int
}

// splitWeighted divides total into len(weights) spans separated by gap.
// Edges are rounded cumulatively so the spans always add up to the
// available space.
func splitWeighted(total, gap int, weights []float64) []span {
	n := len(weights)
	if n == 0 {
		return nil
	}
	avail := total - gap*(n-1)
	if avail < 0 {
		avail = 0
	}

	sum := 0.0
	for _, w := range weights {
		sum += w
	}

	spans := make([]span, n)
	acc := 0.0
	prev := 0
	for i, w := range weights {
		acc += w
		edge := avail
		if i < n-1 && sum > 0 {
			edge = int(math.Round(float64(avail) * acc / sum))
		}
		spans[i] = span{offset: prev + i*gap, size: edge - prev}
		prev = edge
	}
	return spans
}

// splitRatio divides total into two spans where the first takes ratio of
// the space left after the gap.
func splitRatio(total, gap int, ratio float64) (first, second span) {
	avail := total - gap
	if avail < 0 {
		avail = 0
	}
	size := int(math.Round(float64(avail) * ratio))
	first = span{offset: 0, size: size}
	second = span{offset: size + gap, size: avail - size}
	return first, second
}

func clampRatio(r float64) float64 {
	return math.Min(maxRatio, math.Max(minRatio, r))
}

func weightsOf(tiles []Tile) []float64 {
	ws := make([]float64, len(tiles))
	for i, t := range tiles {
		ws[i] = t.weight()
	}
	return ws
}

// fillPart gives every tile the whole area.
type fillPart struct{}

func (fillPart) apply(area Rect, tiles []Tile) []Rect {
	out := make([]Rect, len(tiles))
	for i := range tiles {
		out[i] = area
	}
	return out
}

func (fillPart) adjust(Rect, []Tile, int, Delta) {}

// stackPart stacks tiles top to bottom, sized by their weights.
type stackPart struct {
	gap int
}

func (s stackPart) apply(area Rect, tiles []Tile) []Rect {
	spans := splitWeighted(area.Height, s.gap, weightsOf(tiles))
	out := make([]Rect, len(spans))
	for i, sp := range spans {
		out[i] = Rect{X: area.X, Y: area.Y + sp.offset, Width: area.Width, Height: sp.size}
	}
	return out
}

func (s stackPart) adjust(area Rect, tiles []Tile, basis int, delta Delta) {
	n := len(tiles)
	if n < 2 || basis < 0 || basis >= n {
		return
	}

	spans := splitWeighted(area.Height, s.gap, weightsOf(tiles))
	sizes := make([]int, n)
	total := 0
	for i, sp := range spans {
		sizes[i] = sp.size
		total += sp.size
	}
	if total <= 0 {
		return
	}

	if delta.North != 0 && basis > 0 {
		shiftBoundary(sizes, basis-1, -delta.North)
	}
	if delta.South != 0 && basis < n-1 {
		shiftBoundary(sizes, basis, delta.South)
	}

	for i := range tiles {
		tiles[i].Weight = float64(sizes[i]) * float64(n) / float64(total)
	}
}

// shiftBoundary moves the edge between sizes[i] and sizes[i+1] by amount,
// growing sizes[i] for positive amounts. Neither side drops below 1.
func shiftBoundary(sizes []int, i, amount int) {
	if amount > sizes[i+1]-1 {
		amount = sizes[i+1] - 1
	}
	if -amount > sizes[i]-1 {
		amount = -(sizes[i] - 1)
	}
	sizes[i] += amount
	sizes[i+1] -= amount
}

// halfSplitPart puts the first primarySize tiles on the left and the rest on
// the right.
type halfSplitPart struct {
	primary     part
	secondary   part
	primarySize int
	ratio       *float64
	gap         int
}

func (h halfSplitPart) split(area Rect) (left, right Rect) {
	a, b := splitRatio(area.Width, h.gap, *h.ratio)
	left = Rect{X: area.X + a.offset, Y: area.Y, Width: a.size, Height: area.Height}
	right = Rect{X: area.X + b.offset, Y: area.Y, Width: b.size, Height: area.Height}
	return left, right
}

func (h halfSplitPart) apply(area Rect, tiles []Tile) []Rect {
	if len(tiles) <= h.primarySize {
		return h.primary.apply(area, tiles)
	}
	if h.primarySize == 0 {
		return h.secondary.apply(area, tiles)
	}

	left, right := h.split(area)
	out := h.primary.apply(left, tiles[:h.primarySize])
	return append(out, h.secondary.apply(right, tiles[h.primarySize:])...)
}

func (h halfSplitPart) adjust(area Rect, tiles []Tile, basis int, delta Delta) {
	if len(tiles) <= h.primarySize {
		h.primary.adjust(area, tiles, basis, delta)
		return
	}
	if h.primarySize == 0 {
		h.secondary.adjust(area, tiles, basis, delta)
		return
	}

	left, right := h.split(area)
	avail := area.Width - h.gap
	vertical := Delta{North: delta.North, South: delta.South}

	if basis < h.primarySize {
		if delta.East != 0 && avail > 0 {
			*h.ratio = clampRatio(float64(left.Width+delta.East) / float64(avail))
		}
		h.primary.adjust(left, tiles[:h.primarySize], basis, vertical)
		return
	}

	if delta.West != 0 && avail > 0 {
		*h.ratio = clampRatio(float64(left.Width-delta.West) / float64(avail))
	}
	h.secondary.adjust(right, tiles[h.primarySize:], basis-h.primarySize, vertical)
}

// rotatePart runs inner in a rotated frame. 0 keeps the frame, 90 swaps the
// axes (left becomes top), 180 mirrors horizontally (left becomes right) and
// 270 swaps the axes then mirrors vertically (left becomes bottom).
type rotatePart struct {
	inner part
	angle int
}

func (r rotatePart) apply(area Rect, tiles []Tile) []Rect {
	switch r.angle {
	case 90:
		gs := r.inner.apply(area.transpose(), tiles)
		for i, g := range gs {
			gs[i] = g.transpose()
		}
		return gs
	case 180:
		gs := r.inner.apply(area, tiles)
		for i, g := range gs {
			gs[i].X = area.X + (area.MaxX() - g.MaxX())
		}
		return gs
	case 270:
		gs := r.inner.apply(area.transpose(), tiles)
		for i, g := range gs {
			g = g.transpose()
			g.Y = area.Y + (area.MaxY() - g.MaxY())
			gs[i] = g
		}
		return gs
	default:
		return r.inner.apply(area, tiles)
	}
}

func (r rotatePart) adjust(area Rect, tiles []Tile, basis int, delta Delta) {
	switch r.angle {
	case 90:
		r.inner.adjust(area.transpose(), tiles, basis, delta.transpose())
	case 180:
		r.inner.adjust(area, tiles, basis, delta.mirror())
	case 270:
		flipped := Delta{East: delta.East, West: delta.West, South: delta.North, North: delta.South}
		r.inner.adjust(area.transpose(), tiles, basis, flipped.transpose())
	default:
		r.inner.adjust(area, tiles, basis, delta)
	}
}
