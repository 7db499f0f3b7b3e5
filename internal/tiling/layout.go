package tiling

import (
	"fmt"
	"strings"
)

// Kind identifies one of the layout algorithms.
type Kind int

const (
	KindTile Kind = iota
	KindMonocle
	KindThreeColumn
	KindStair
	KindSpread
	KindQuarter
	KindFloating
)

// Kinds lists every layout in the default cycling order.
var Kinds = []Kind{
	KindTile,
	KindMonocle,
	KindThreeColumn,
	KindStair,
	KindSpread,
	KindQuarter,
	KindFloating,
}

var kindNames = map[Kind]string{
	KindTile:        "tile",
	KindMonocle:     "monocle",
	KindThreeColumn: "three-column",
	KindStair:       "stair",
	KindSpread:      "spread",
	KindQuarter:     "quarter",
	KindFloating:    "floating",
}

var kindDescriptions = map[Kind]string{
	KindTile:        "Tile",
	KindMonocle:     "Monocle",
	KindThreeColumn: "Three Column",
	KindStair:       "Stair",
	KindSpread:      "Spread",
	KindQuarter:     "Quarter",
	KindFloating:    "Floating",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind resolves a layout name such as "three-column". Underscores and
// case are ignored.
func ParseKind(name string) (Kind, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	for kind, n := range kindNames {
		if n == normalized {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown layout %q", name)
}

// TileParams configures the master/stack layout.
type TileParams struct {
	MasterCount int
	MasterRatio float64
	// Angle rotates the whole layout (0 master left, 90 top, 180 right, 270 bottom).
	Angle int
	// PartAngle rotates the stacking direction inside the master area.
	PartAngle int
}

// ThreeColumnParams configures the centered master layout.
type ThreeColumnParams struct {
	MasterCount int
	MasterRatio float64
}

// StairParams configures the diagonal cascade.
type StairParams struct {
	Space int
}

// SpreadParams configures the card spread. Space is a fraction of the area width.
type SpreadParams struct {
	Space float64
}

// QuarterParams holds the three split ratios of the quarter layout.
type QuarterParams struct {
	VSplit  float64
	LHSplit float64
	RHSplit float64
}

// Layout is one layout algorithm together with its parameters. Only the
// params matching Kind are used.
type Layout struct {
	Kind Kind
	// Gap separates neighbouring tiles.
	Gap int

	Tile        TileParams
	ThreeColumn ThreeColumnParams
	Stair       StairParams
	Spread      SpreadParams
	Quarter     QuarterParams
}

// New returns a layout of the given kind with default parameters.
func New(kind Kind) Layout {
	return Layout{
		Kind:        kind,
		Tile:        TileParams{MasterCount: 1, MasterRatio: 0.55},
		ThreeColumn: ThreeColumnParams{MasterCount: 1, MasterRatio: 0.6},
		Stair:       StairParams{Space: 24},
		Spread:      SpreadParams{Space: 0.07},
		Quarter:     QuarterParams{VSplit: 0.5, LHSplit: 0.5, RHSplit: 0.5},
	}
}

// Description is the human readable layout name.
func (l Layout) Description() string {
	return kindDescriptions[l.Kind]
}

// Capacity returns the maximum number of tiles the layout places. ok is
// false when the layout is unbounded.
func (l Layout) Capacity() (capacity int, ok bool) {
	switch l.Kind {
	case KindQuarter:
		return quarterCapacity, true
	case KindFloating:
		return 0, true
	default:
		return 0, false
	}
}

// Apply computes the geometry of each tile inside area. The result holds one
// rect per placed tile, in tile order; tiles beyond the capacity get none.
func (l *Layout) Apply(area Rect, tiles []Tile) []Rect {
	if len(tiles) == 0 {
		return nil
	}

	switch l.Kind {
	case KindTile:
		return l.tileParts().apply(area, tiles)
	case KindMonocle:
		return fillPart{}.apply(area, tiles)
	case KindThreeColumn:
		return l.applyThreeColumn(area, tiles)
	case KindStair:
		return l.applyStair(area, tiles)
	case KindSpread:
		return l.applySpread(area, tiles)
	case KindQuarter:
		return l.applyQuarter(area, tiles)
	default:
		return nil
	}
}

// Adjust folds a manual resize of tiles[basis] back into the layout
// parameters and the tile weights.
func (l *Layout) Adjust(area Rect, tiles []Tile, basis int, delta Delta) {
	if basis < 0 || basis >= len(tiles) || delta.IsZero() {
		return
	}

	switch l.Kind {
	case KindTile:
		l.tileParts().adjust(area, tiles, basis, delta)
	case KindThreeColumn:
		l.adjustThreeColumn(area, tiles, basis, delta)
	case KindQuarter:
		l.adjustQuarter(area, tiles, basis, delta)
	}
}

// IncreaseMasterAreaWindowCount adds one window to the master area.
func (l *Layout) IncreaseMasterAreaWindowCount() {
	switch l.Kind {
	case KindTile:
		l.Tile.MasterCount++
	case KindThreeColumn:
		l.ThreeColumn.MasterCount++
	}
}

// DecreaseMasterAreaWindowCount removes one window from the master area.
func (l *Layout) DecreaseMasterAreaWindowCount() {
	switch l.Kind {
	case KindTile:
		l.Tile.MasterCount = max(0, l.Tile.MasterCount-1)
	case KindThreeColumn:
		l.ThreeColumn.MasterCount = max(1, l.ThreeColumn.MasterCount-1)
	}
}

// IncreaseMasterAreaSize grows the master area, or the spacing of the
// cascading layouts.
func (l *Layout) IncreaseMasterAreaSize() {
	l.resizeMaster(1)
}

// DecreaseMasterAreaSize shrinks the master area, or the spacing of the
// cascading layouts.
func (l *Layout) DecreaseMasterAreaSize() {
	l.resizeMaster(-1)
}

func (l *Layout) resizeMaster(step int) {
	switch l.Kind {
	case KindTile:
		l.Tile.MasterRatio = clampRatio(l.Tile.MasterRatio + 0.05*float64(step))
	case KindThreeColumn:
		l.ThreeColumn.MasterRatio = clampRatio(l.ThreeColumn.MasterRatio + 0.05*float64(step))
	case KindStair:
		l.Stair.Space = min(maxStairSpace, max(minStairSpace, l.Stair.Space+8*step))
	case KindSpread:
		space := l.Spread.Space + 0.01*float64(step)
		l.Spread.Space = min(maxSpreadSpace, max(minSpreadSpace, space))
	}
}

// Rotate turns the whole layout by 90 degrees.
func (l *Layout) Rotate() {
	if l.Kind == KindTile {
		l.Tile.Angle = (l.Tile.Angle + 90) % 360
	}
}

// RotatePart turns the stacking direction of the master area by 90 degrees.
func (l *Layout) RotatePart() {
	if l.Kind == KindTile {
		l.Tile.PartAngle = (l.Tile.PartAngle + 90) % 360
	}
}

func (l *Layout) tileParts() part {
	return rotatePart{
		angle: l.Tile.Angle,
		inner: halfSplitPart{
			primary:     rotatePart{angle: l.Tile.PartAngle, inner: stackPart{gap: l.Gap}},
			secondary:   stackPart{gap: l.Gap},
			primarySize: l.Tile.MasterCount,
			ratio:       &l.Tile.MasterRatio,
			gap:         l.Gap,
		},
	}
}
