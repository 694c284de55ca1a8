package scene

import (
	"slices"

	"sheet/internal/item"
)

// Block owns primitives and nested blocks. A Block built with NewBlock
// always has every collection non-nil.
type Block struct {
	ID            int
	X, Y          float64
	Width, Height float64
	Name          string
	Background    item.Color
	DataID        int

	Points     []*Point
	Lines      []*Line
	Rectangles []*Rectangle
	Ellipses   []*Ellipse
	Texts      []*Text
	Images     []*Image
	Blocks     []*Block
}

// NewBlock returns an empty, initialised block.
func NewBlock(id int, x, y, width, height float64, dataID int, name string) *Block {
	b := &Block{
		ID:         id,
		X:          x,
		Y:          y,
		Width:      width,
		Height:     height,
		DataID:     dataID,
		Name:       name,
		Background: item.Transparent,
	}
	b.clear()
	return b
}

func (b *Block) clear() {
	b.Points = []*Point{}
	b.Lines = []*Line{}
	b.Rectangles = []*Rectangle{}
	b.Ellipses = []*Ellipse{}
	b.Texts = []*Text{}
	b.Images = []*Image{}
	b.Blocks = []*Block{}
}

// IsEmpty reports whether b holds nothing.
func (b *Block) IsEmpty() bool {
	return len(b.Points) == 0 && len(b.Lines) == 0 && len(b.Rectangles) == 0 &&
		len(b.Ellipses) == 0 && len(b.Texts) == 0 && len(b.Images) == 0 && len(b.Blocks) == 0
}

// Move offsets every primitive reachable from b.
func (b *Block) Move(dx, dy float64) { moveContents(b.contents(), dx, dy) }

// Walk calls fn for every primitive reachable from b, depth first.
func (b *Block) Walk(fn func(Element)) { walk(b.contents(), fn) }

// FindBlock returns the first direct child named name, or nil.
func (b *Block) FindBlock(name string) *Block {
	for _, child := range b.Blocks {
		if child.Name == name {
			return child
		}
	}
	return nil
}

func (b *Block) contents() contents {
	return contents{
		points:     b.Points,
		lines:      b.Lines,
		rectangles: b.Rectangles,
		ellipses:   b.Ellipses,
		texts:      b.Texts,
		images:     b.Images,
		blocks:     b.Blocks,
	}
}

// detach removes e from b or from the nested block owning it.
func (b *Block) detach(e any) bool {
	var ok bool
	switch v := e.(type) {
	case *Point:
		b.Points, ok = without(b.Points, v)
	case *Line:
		b.Lines, ok = without(b.Lines, v)
	case *Rectangle:
		b.Rectangles, ok = without(b.Rectangles, v)
	case *Ellipse:
		b.Ellipses, ok = without(b.Ellipses, v)
	case *Text:
		b.Texts, ok = without(b.Texts, v)
	case *Image:
		b.Images, ok = without(b.Images, v)
	case *Block:
		b.Blocks, ok = without(b.Blocks, v)
	}
	if ok {
		return true
	}
	for _, child := range b.Blocks {
		if child.detach(e) {
			return true
		}
	}
	return false
}

func without[T comparable](list []T, v T) ([]T, bool) {
	i := slices.Index(list, v)
	if i < 0 {
		return list, false
	}
	return slices.Delete(list, i, i+1), true
}

// ─── contents ──────────────────────────────────────────────
// A read-only view shared by Block and Selection so hit-testing, moving
// and serializing work on either.

type contents struct {
	points     []*Point
	lines      []*Line
	rectangles []*Rectangle
	ellipses   []*Ellipse
	texts      []*Text
	images     []*Image
	blocks     []*Block
}

// Container is a Block or a Selection.
type Container interface {
	contents() contents
}

func moveContents(c contents, dx, dy float64) {
	for _, p := range c.points {
		p.X += dx
		p.Y += dy
	}
	for _, l := range c.lines {
		l.Move(dx, dy)
	}
	for _, p := range c.points {
		p.sync()
	}
	for _, r := range c.rectangles {
		r.Move(dx, dy)
	}
	for _, e := range c.ellipses {
		e.Move(dx, dy)
	}
	for _, t := range c.texts {
		t.Move(dx, dy)
	}
	for _, i := range c.images {
		i.Move(dx, dy)
	}
	for _, b := range c.blocks {
		b.Move(dx, dy)
	}
}

func walk(c contents, fn func(Element)) {
	for _, p := range c.points {
		fn(p)
	}
	for _, l := range c.lines {
		fn(l)
	}
	for _, r := range c.rectangles {
		fn(r)
	}
	for _, e := range c.ellipses {
		fn(e)
	}
	for _, t := range c.texts {
		fn(t)
	}
	for _, i := range c.images {
		fn(i)
	}
	for _, b := range c.blocks {
		b.Walk(fn)
	}
}
