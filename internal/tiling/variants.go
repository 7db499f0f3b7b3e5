package tiling

import "math"

const (
	quarterCapacity = 4

	minStairSpace = 16
	maxStairSpace = 160

	minSpreadSpace = 0.04
	maxSpreadSpace = 0.10
	minSpreadCard  = 0.4
)

// threeColumns splits area into left stack, master and right stack columns.
func (l *Layout) threeColumns(area Rect) (left, master, right Rect) {
	avail := area.Width - 2*l.Gap
	if avail < 0 {
		avail = 0
	}
	masterW := int(math.Round(float64(avail) * l.ThreeColumn.MasterRatio))
	sides := avail - masterW
	leftW := sides / 2
	rightW := sides - leftW

	left = Rect{X: area.X, Y: area.Y, Width: leftW, Height: area.Height}
	master = Rect{X: left.MaxX() + l.Gap, Y: area.Y, Width: masterW, Height: area.Height}
	right = Rect{X: master.MaxX() + l.Gap, Y: area.Y, Width: rightW, Height: area.Height}
	return left, master, right
}

// threeColumnSplit returns how many stack tiles go to the right column; the
// remainder goes to the left one.
func threeColumnSplit(stackCount int) int {
	return (stackCount + 1) / 2
}

func (l *Layout) twoColumnPart() halfSplitPart {
	return halfSplitPart{
		primary:     stackPart{gap: l.Gap},
		secondary:   stackPart{gap: l.Gap},
		primarySize: l.ThreeColumn.MasterCount,
		ratio:       &l.ThreeColumn.MasterRatio,
		gap:         l.Gap,
	}
}

func (l *Layout) applyThreeColumn(area Rect, tiles []Tile) []Rect {
	mc := l.ThreeColumn.MasterCount
	stack := stackPart{gap: l.Gap}

	switch {
	case len(tiles) <= mc:
		return stack.apply(area, tiles)
	case len(tiles) == mc+1:
		return l.twoColumnPart().apply(area, tiles)
	}

	left, master, right := l.threeColumns(area)
	rightCount := threeColumnSplit(len(tiles) - mc)

	out := stack.apply(master, tiles[:mc])
	out = append(out, stack.apply(right, tiles[mc:mc+rightCount])...)
	return append(out, stack.apply(left, tiles[mc+rightCount:])...)
}

func (l *Layout) adjustThreeColumn(area Rect, tiles []Tile, basis int, delta Delta) {
	mc := l.ThreeColumn.MasterCount
	stack := stackPart{gap: l.Gap}

	switch {
	case len(tiles) <= mc:
		stack.adjust(area, tiles, basis, delta)
		return
	case len(tiles) == mc+1:
		l.twoColumnPart().adjust(area, tiles, basis, delta)
		return
	}

	left, master, right := l.threeColumns(area)
	avail := area.Width - 2*l.Gap
	rightCount := threeColumnSplit(len(tiles) - mc)
	vertical := Delta{North: delta.North, South: delta.South}

	setMaster := func(width int) {
		if avail > 0 {
			l.ThreeColumn.MasterRatio = clampRatio(float64(width) / float64(avail))
		}
	}

	switch {
	case basis < mc:
		if delta.East != 0 || delta.West != 0 {
			setMaster(master.Width + delta.East + delta.West)
		}
		stack.adjust(master, tiles[:mc], basis, vertical)
	case basis < mc+rightCount:
		if delta.West != 0 {
			setMaster(master.Width - 2*delta.West)
		}
		stack.adjust(right, tiles[mc:mc+rightCount], basis-mc, vertical)
	default:
		if delta.East != 0 {
			setMaster(master.Width - 2*delta.East)
		}
		stack.adjust(left, tiles[mc+rightCount:], basis-mc-rightCount, vertical)
	}
}

// applyStair cascades tiles diagonally; the last tile is anchored at the
// top-left corner.
func (l *Layout) applyStair(area Rect, tiles []Tile) []Rect {
	n := len(tiles)
	limit := min(area.Width, area.Height) / 2
	out := make([]Rect, n)
	for i := range tiles {
		d := min(l.Stair.Space*(n-i-1), limit)
		out[i] = Rect{X: area.X + d, Y: area.Y + d, Width: area.Width - d, Height: area.Height - d}
	}
	return out
}

// applySpread fans tiles out like cards from the left edge. Cards that no
// longer fit while keeping a minimum card width pile up at the left edge.
func (l *Layout) applySpread(area Rect, tiles []Tile) []Rect {
	visible := len(tiles)
	space := int(math.Floor(float64(area.Width) * l.Spread.Space))
	card := area.Width - space*(visible-1)
	minCard := int(float64(area.Width) * minSpreadCard)
	for card < minCard && visible > 1 {
		card += space
		visible--
	}

	out := make([]Rect, len(tiles))
	for i := range tiles {
		x := area.X
		if i < visible {
			x += space * (visible - i - 1)
		}
		out[i] = Rect{X: x, Y: area.Y, Width: card, Height: area.Height}
	}
	return out
}

// quarterCells returns the four cells in tile order: left top, right top,
// right bottom, left bottom.
func (l *Layout) quarterCells(area Rect) [4]Rect {
	lw, rw := splitRatio(area.Width, l.Gap, l.Quarter.VSplit)
	lt, lb := splitRatio(area.Height, l.Gap, l.Quarter.LHSplit)
	rt, rb := splitRatio(area.Height, l.Gap, l.Quarter.RHSplit)

	return [4]Rect{
		{X: area.X + lw.offset, Y: area.Y + lt.offset, Width: lw.size, Height: lt.size},
		{X: area.X + rw.offset, Y: area.Y + rt.offset, Width: rw.size, Height: rt.size},
		{X: area.X + rw.offset, Y: area.Y + rb.offset, Width: rw.size, Height: rb.size},
		{X: area.X + lw.offset, Y: area.Y + lb.offset, Width: lw.size, Height: lb.size},
	}
}

func (l *Layout) applyQuarter(area Rect, tiles []Tile) []Rect {
	n := min(len(tiles), quarterCapacity)
	if n == 1 {
		return []Rect{area}
	}

	cells := l.quarterCells(area)
	left := Rect{X: cells[0].X, Y: area.Y, Width: cells[0].Width, Height: area.Height}
	right := Rect{X: cells[1].X, Y: area.Y, Width: cells[1].Width, Height: area.Height}

	switch n {
	case 2:
		return []Rect{left, right}
	case 3:
		return []Rect{left, cells[1], cells[2]}
	default:
		return cells[:]
	}
}

func (l *Layout) adjustQuarter(area Rect, tiles []Tile, basis int, delta Delta) {
	n := min(len(tiles), quarterCapacity)
	if n < 2 || basis >= n {
		return
	}

	cells := l.quarterCells(area)
	hAvail := area.Width - l.Gap
	vAvail := area.Height - l.Gap

	setV := func(leftWidth int) {
		if hAvail > 0 {
			l.Quarter.VSplit = clampRatio(float64(leftWidth) / float64(hAvail))
		}
	}
	setSplit := func(target *float64, topHeight int) {
		if vAvail > 0 {
			*target = clampRatio(float64(topHeight) / float64(vAvail))
		}
	}

	onLeft := basis == 0 || basis == 3
	if onLeft && delta.East != 0 {
		setV(cells[0].Width + delta.East)
	}
	if !onLeft && delta.West != 0 {
		setV(cells[0].Width - delta.West)
	}

	// Vertical splits only exist when the column holds two tiles.
	switch {
	case basis == 0 && n == 4 && delta.South != 0:
		setSplit(&l.Quarter.LHSplit, cells[0].Height+delta.South)
	case basis == 3 && delta.North != 0:
		setSplit(&l.Quarter.LHSplit, cells[0].Height-delta.North)
	case basis == 1 && n >= 3 && delta.South != 0:
		setSplit(&l.Quarter.RHSplit, cells[1].Height+delta.South)
	case basis == 2 && delta.North != 0:
		setSplit(&l.Quarter.RHSplit, cells[1].Height-delta.North)
	}
}
