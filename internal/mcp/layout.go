package mcpserver

import (
	"math"

	"sheet/internal/item"
	"sheet/internal/scene"
)

const (
	DefaultGridSize = 30.0 // config.Default().GridSize
	PaddingCells    = 1    // free grid cells kept around placed blocks
)

// LayoutEngine places blocks inserted by tools so they don't overlap what
// is already on the sheet.
type LayoutEngine struct {
	gridSize float64
	padding  float64
}

// NewLayoutEngine uses gridSize for snapping; <= 0 means DefaultGridSize.
func NewLayoutEngine(gridSize float64) *LayoutEngine {
	if gridSize <= 0 {
		gridSize = DefaultGridSize
	}
	return &LayoutEngine{
		gridSize: gridSize,
		padding:  gridSize * PaddingCells,
	}
}

// snap rounds v to the nearest grid point.
func (le *LayoutEngine) snap(v float64) float64 {
	return math.Round(v/le.gridSize) * le.gridSize
}

// snapUp rounds v up to the next grid point.
func (le *LayoutEngine) snapUp(v float64) float64 {
	return math.Ceil(v/le.gridSize) * le.gridSize
}

func (le *LayoutEngine) inflate(r scene.Rect) scene.Rect {
	return scene.Rect{
		X: r.X - le.padding, Y: r.Y - le.padding,
		Width: r.Width + le.padding*2, Height: r.Height + le.padding*2,
	}
}

// NextPosition finds the first grid position inside area, scanning rows
// top to bottom, where a w×h box keeps clear of every occupied rect. When
// the area is full it returns the spot below everything.
func (le *LayoutEngine) NextPosition(occupied []scene.Rect, area scene.Rect, w, h float64) scene.Vec {
	startX, startY := le.snapUp(area.X), le.snapUp(area.Y)
	candidate := scene.Rect{Width: w, Height: h}
	for y := startY; y+h <= area.Bottom(); y += le.gridSize {
		for x := startX; x+w <= area.Right(); x += le.gridSize {
			candidate.X, candidate.Y = x, y
			if !le.overlaps(candidate, occupied) {
				return scene.Vec{X: x, Y: y}
			}
		}
	}

	maxY := area.Y
	for _, r := range occupied {
		maxY = math.Max(maxY, r.Bottom())
	}
	return scene.Vec{X: startX, Y: le.snapUp(maxY + le.padding)}
}

func (le *LayoutEngine) overlaps(candidate scene.Rect, occupied []scene.Rect) bool {
	for _, occ := range occupied {
		if candidate.Intersects(le.inflate(occ)) {
			return true
		}
	}
	return false
}

// ArrangeGroup places boxes of the given sizes in rows from start,
// wrapping before maxRight. It returns one origin per size.
func (le *LayoutEngine) ArrangeGroup(sizes []scene.Rect, start scene.Vec, maxRight float64) []scene.Vec {
	x0 := le.snap(start.X)
	x, y := x0, le.snap(start.Y)
	rowHeight := 0.0

	out := make([]scene.Vec, len(sizes))
	for i, sz := range sizes {
		if x > x0 && x+sz.Width > maxRight {
			x = x0
			y += le.snapUp(rowHeight + le.padding)
			rowHeight = 0
		}
		out[i] = scene.Vec{X: x, Y: y}
		rowHeight = math.Max(rowHeight, sz.Height)
		x += le.snapUp(sz.Width + le.padding)
	}
	return out
}

// ── Bounds ─────────────────────────────────────────────────

// occupiedRects returns the bounds of every top-level primitive and block
// on the content layer.
func occupiedRects(content *scene.Block) []scene.Rect {
	var rects []scene.Rect
	for _, p := range content.Points {
		rects = append(rects, p.Bounds())
	}
	for _, l := range content.Lines {
		rects = append(rects, l.Bounds())
	}
	for _, r := range content.Rectangles {
		rects = append(rects, r.Bounds())
	}
	for _, e := range content.Ellipses {
		rects = append(rects, e.Bounds())
	}
	for _, t := range content.Texts {
		rects = append(rects, t.Bounds())
	}
	for _, i := range content.Images {
		rects = append(rects, i.Bounds())
	}
	for _, b := range content.Blocks {
		if r, ok := blockBounds(b); ok {
			rects = append(rects, r)
		}
	}
	return rects
}

// blockBounds is the union of everything inside b.
func blockBounds(b *scene.Block) (scene.Rect, bool) {
	first := true
	var minX, minY, maxX, maxY float64
	b.Walk(func(e scene.Element) {
		r := e.Bounds()
		if first {
			minX, minY, maxX, maxY = r.X, r.Y, r.Right(), r.Bottom()
			first = false
			return
		}
		minX, minY = math.Min(minX, r.X), math.Min(minY, r.Y)
		maxX, maxY = math.Max(maxX, r.Right()), math.Max(maxY, r.Bottom())
	})
	if first {
		return scene.Rect{}, false
	}
	return scene.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}

// itemSize is the extent of a library block measured from its origin.
func itemSize(b *item.BlockItem) scene.Rect {
	m := item.Bounds{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	item.MinMax(b, &m)
	if math.IsInf(m.MinX, 0) {
		return scene.Rect{}
	}
	return scene.Rect{Width: m.MaxX, Height: m.MaxY}
}
