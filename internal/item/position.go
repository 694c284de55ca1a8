package item

import "math"

// Snap rounds v to the nearest multiple of size. Halves round up.
func Snap(v, size float64) float64 {
	if size <= 0 {
		return v
	}
	r := math.Mod(v, size)
	if r < 0 {
		r += size
	}
	if r >= size/2 {
		return v - r + size
	}
	return v - r
}

// Bounds is an accumulating min/max box.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

func (m *Bounds) add(x, y float64) {
	m.MinX = math.Min(m.MinX, x)
	m.MinY = math.Min(m.MinY, y)
	m.MaxX = math.Max(m.MaxX, x)
	m.MaxY = math.Max(m.MaxY, y)
}

// MinMax widens m to cover every primitive reachable from b.
func MinMax(b *BlockItem, m *Bounds) {
	for _, p := range b.Points {
		m.add(p.X, p.Y)
	}
	for _, l := range b.Lines {
		m.add(l.X1, l.Y1)
		m.add(l.X2, l.Y2)
	}
	for _, r := range b.Rectangles {
		m.add(r.X, r.Y)
		m.add(r.X+r.Width, r.Y+r.Height)
	}
	for _, e := range b.Ellipses {
		m.add(e.X, e.Y)
		m.add(e.X+e.Width, e.Y+e.Height)
	}
	for _, t := range b.Texts {
		m.add(t.X, t.Y)
		m.add(t.X+t.Width, t.Y+t.Height)
	}
	for _, img := range b.Images {
		m.add(img.X, img.Y)
		m.add(img.X+img.Width, img.Y+img.Height)
	}
	for _, child := range b.Blocks {
		MinMax(child, m)
	}
}

// MoveBy offsets every primitive reachable from b.
func MoveBy(b *BlockItem, dx, dy float64) {
	for _, p := range b.Points {
		p.X += dx
		p.Y += dy
	}
	for _, l := range b.Lines {
		l.X1 += dx
		l.Y1 += dy
		l.X2 += dx
		l.Y2 += dy
	}
	for _, r := range b.Rectangles {
		r.X += dx
		r.Y += dy
	}
	for _, e := range b.Ellipses {
		e.X += dx
		e.Y += dy
	}
	for _, t := range b.Texts {
		t.X += dx
		t.Y += dy
	}
	for _, img := range b.Images {
		img.X += dx
		img.Y += dy
	}
	for _, child := range b.Blocks {
		MoveBy(child, dx, dy)
	}
}

// ResetPosition moves the contents of b so their top-left corner lands on
// the origin. Contents lying entirely beyond width/height keep that offset.
func ResetPosition(b *BlockItem, originX, originY, width, height float64) {
	m := Bounds{MinX: width, MinY: height, MaxX: originX, MaxY: originY}
	MinMax(b, &m)
	MoveBy(b, -m.MinX, -m.MinY)
}
