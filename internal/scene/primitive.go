package scene

import (
	"math"
	"slices"

	"sheet/internal/item"
)

// Kind identifies a primitive type.
type Kind int

const (
	KindPoint Kind = iota
	KindLine
	KindRectangle
	KindEllipse
	KindText
	KindImage
	KindThumb
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindLine:
		return "line"
	case KindRectangle:
		return "rectangle"
	case KindEllipse:
		return "ellipse"
	case KindText:
		return "text"
	case KindImage:
		return "image"
	case KindThumb:
		return "thumb"
	default:
		return "unknown"
	}
}

// Element is anything a Surface can hold.
type Element interface {
	Kind() Kind
	Bounds() Rect
	IsSelected() bool
}

// marker is the selected flag shared by every selectable primitive.
type marker struct {
	selected bool
}

func (m *marker) IsSelected() bool   { return m.selected }
func (m *marker) setSelected(v bool) { m.selected = v }

// PointSize is the rendered diameter of a connection point.
const PointSize = 8

// ─── Point ─────────────────────────────────────────────────

// Point is a connection point. Attached line ends follow it.
type Point struct {
	marker
	ID    int
	X, Y  float64
	lines []*Line
}

func (p *Point) Kind() Kind { return KindPoint }

func (p *Point) Bounds() Rect {
	return Rect{X: p.X - PointSize/2, Y: p.Y - PointSize/2, Width: PointSize, Height: PointSize}
}

// Lines returns the lines attached to p.
func (p *Point) Lines() []*Line { return p.lines }

// MoveTo places p and drags attached line ends along.
func (p *Point) MoveTo(x, y float64) {
	p.X, p.Y = x, y
	p.sync()
}

// Move offsets p and drags attached line ends along.
func (p *Point) Move(dx, dy float64) { p.MoveTo(p.X+dx, p.Y+dy) }

func (p *Point) sync() {
	for _, l := range p.lines {
		if l.Start == p {
			l.X1, l.Y1 = p.X, p.Y
		}
		if l.End == p {
			l.X2, l.Y2 = p.X, p.Y
		}
	}
}

func (p *Point) detachAll() {
	for _, l := range p.lines {
		if l.Start == p {
			l.Start = nil
		}
		if l.End == p {
			l.End = nil
		}
	}
	p.lines = nil
}

// ─── Line ──────────────────────────────────────────────────

// Line is a stroke between two ends, each optionally attached to a Point.
type Line struct {
	marker
	ID             int
	X1, Y1, X2, Y2 float64
	Stroke         item.Color
	Thickness      float64
	Start, End     *Point
}

func (l *Line) Kind() Kind { return KindLine }

func (l *Line) Bounds() Rect {
	return RectFromPoints(Vec{l.X1, l.Y1}, Vec{l.X2, l.Y2})
}

// AttachStart binds the start end to p.
func (l *Line) AttachStart(p *Point) {
	l.detach(l.Start)
	l.Start = p
	if p != nil {
		p.lines = append(p.lines, l)
		l.X1, l.Y1 = p.X, p.Y
	}
}

// AttachEnd binds the end to p.
func (l *Line) AttachEnd(p *Point) {
	l.detach(l.End)
	l.End = p
	if p != nil {
		p.lines = append(p.lines, l)
		l.X2, l.Y2 = p.X, p.Y
	}
}

func (l *Line) detach(p *Point) {
	if p == nil {
		return
	}
	if i := slices.Index(p.lines, l); i >= 0 {
		p.lines = slices.Delete(p.lines, i, i+1)
	}
}

func (l *Line) detachAll() {
	l.detach(l.Start)
	l.detach(l.End)
	l.Start, l.End = nil, nil
}

// Move offsets the ends not held by a point.
func (l *Line) Move(dx, dy float64) {
	if l.Start == nil {
		l.X1 += dx
		l.Y1 += dy
	}
	if l.End == nil {
		l.X2 += dx
		l.Y2 += dy
	}
}

// ─── Rectangle / Ellipse ───────────────────────────────────

// Shape is the geometry shared by rectangles and ellipses.
type Shape struct {
	marker
	ID                  int
	X, Y, Width, Height float64
	Stroke, Fill        item.Color
	Thickness           float64
}

func (s *Shape) Bounds() Rect { return Rect{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height} }

// IsFilled reports whether the fill colour is not transparent.
func (s *Shape) IsFilled() bool { return !s.Fill.IsTransparent() }

// ToggleFill switches between a black and a transparent fill.
func (s *Shape) ToggleFill() {
	if s.IsFilled() {
		s.Fill = item.Transparent
	} else {
		s.Fill = item.Black
	}
}

func (s *Shape) Move(dx, dy float64) {
	s.X += dx
	s.Y += dy
}

// SetBounds writes the box spanned by two corners.
func (s *Shape) SetBounds(r Rect) {
	s.X, s.Y, s.Width, s.Height = r.X, r.Y, r.Width, r.Height
}

type Rectangle struct{ Shape }

func (r *Rectangle) Kind() Kind { return KindRectangle }

type Ellipse struct{ Shape }

func (e *Ellipse) Kind() Kind { return KindEllipse }

// ─── Text ──────────────────────────────────────────────────

type Text struct {
	marker
	ID                     int
	X, Y, Width, Height    float64
	HAlign, VAlign         int
	Size                   float64
	Foreground, Background item.Color
	Content                string
}

func (t *Text) Kind() Kind   { return KindText }
func (t *Text) Bounds() Rect { return Rect{X: t.X, Y: t.Y, Width: t.Width, Height: t.Height} }

func (t *Text) Move(dx, dy float64) {
	t.X += dx
	t.Y += dy
}

// ─── Image ─────────────────────────────────────────────────

type Image struct {
	marker
	ID                  int
	X, Y, Width, Height float64
	Data                []byte
}

func (i *Image) Kind() Kind   { return KindImage }
func (i *Image) Bounds() Rect { return Rect{X: i.X, Y: i.Y, Width: i.Width, Height: i.Height} }

func (i *Image) Move(dx, dy float64) {
	i.X += dx
	i.Y += dy
}

// ─── Thumb ─────────────────────────────────────────────────

// ThumbKind names the handle a Thumb drags.
type ThumbKind int

const (
	ThumbStart ThumbKind = iota
	ThumbEnd
	ThumbTopLeft
	ThumbTopRight
	ThumbBottomLeft
	ThumbBottomRight
)

func (k ThumbKind) String() string {
	switch k {
	case ThumbStart:
		return "start"
	case ThumbEnd:
		return "end"
	case ThumbTopLeft:
		return "topLeft"
	case ThumbTopRight:
		return "topRight"
	case ThumbBottomLeft:
		return "bottomLeft"
	case ThumbBottomRight:
		return "bottomRight"
	default:
		return "unknown"
	}
}

// ThumbSize is the side of a drag handle.
const ThumbSize = 10

// Thumb is an overlay drag handle centered on X/Y.
type Thumb struct {
	Handle ThumbKind
	X, Y   float64
}

func (t *Thumb) Kind() Kind       { return KindThumb }
func (t *Thumb) IsSelected() bool { return false }

func (t *Thumb) Bounds() Rect {
	return Rect{X: t.X - ThumbSize/2, Y: t.Y - ThumbSize/2, Width: ThumbSize, Height: ThumbSize}
}

// ─── helpers ───────────────────────────────────────────────

func round1(v float64) float64 { return math.Round(v*10) / 10 }

// IsDegenerate reports whether both ends coincide at one decimal.
func (l *Line) IsDegenerate() bool {
	return round1(l.X1) == round1(l.X2) && round1(l.Y1) == round1(l.Y2)
}
