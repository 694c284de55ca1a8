package scene

import (
	"slices"

	"sheet/internal/item"
)

// Selection references live primitives grouped by kind. A nil collection
// means nothing of that kind is selected; after every selection operation
// a non-nil collection is never empty.
//
// A probe selection (NewProbe) collects hits without touching the
// primitives' selected markers.
type Selection struct {
	Name  string
	probe bool

	Points     []*Point
	Lines      []*Line
	Rectangles []*Rectangle
	Ellipses   []*Ellipse
	Texts      []*Text
	Images     []*Image
	Blocks     []*Block
}

// NewSelection returns the editor's selection cursor.
func NewSelection() *Selection { return &Selection{Name: item.NameSelected} }

// NewProbe returns a throwaway cursor for a single hit-test.
func NewProbe() *Selection { return &Selection{Name: item.NameTemp, probe: true} }

// IsProbe reports whether s leaves markers alone.
func (s *Selection) IsProbe() bool { return s.probe }

func (s *Selection) contents() contents {
	return contents{
		points:     s.Points,
		lines:      s.Lines,
		rectangles: s.Rectangles,
		ellipses:   s.Ellipses,
		texts:      s.Texts,
		images:     s.Images,
		blocks:     s.Blocks,
	}
}

// Init deselects everything and leaves every collection empty and non-nil.
func (s *Selection) Init() {
	s.unmarkAll()
	s.Points = []*Point{}
	s.Lines = []*Line{}
	s.Rectangles = []*Rectangle{}
	s.Ellipses = []*Ellipse{}
	s.Texts = []*Text{}
	s.Images = []*Image{}
	s.Blocks = []*Block{}
}

// ReInit keeps current members and allocates the missing collections.
func (s *Selection) ReInit() {
	if s.Points == nil {
		s.Points = []*Point{}
	}
	if s.Lines == nil {
		s.Lines = []*Line{}
	}
	if s.Rectangles == nil {
		s.Rectangles = []*Rectangle{}
	}
	if s.Ellipses == nil {
		s.Ellipses = []*Ellipse{}
	}
	if s.Texts == nil {
		s.Texts = []*Text{}
	}
	if s.Images == nil {
		s.Images = []*Image{}
	}
	if s.Blocks == nil {
		s.Blocks = []*Block{}
	}
}

// Clean nils every empty collection.
func (s *Selection) Clean() {
	if len(s.Points) == 0 {
		s.Points = nil
	}
	if len(s.Lines) == 0 {
		s.Lines = nil
	}
	if len(s.Rectangles) == 0 {
		s.Rectangles = nil
	}
	if len(s.Ellipses) == 0 {
		s.Ellipses = nil
	}
	if len(s.Texts) == 0 {
		s.Texts = nil
	}
	if len(s.Images) == 0 {
		s.Images = nil
	}
	if len(s.Blocks) == 0 {
		s.Blocks = nil
	}
}

// Clear deselects everything and nils every collection.
func (s *Selection) Clear() {
	s.unmarkAll()
	s.Points = nil
	s.Lines = nil
	s.Rectangles = nil
	s.Ellipses = nil
	s.Texts = nil
	s.Images = nil
	s.Blocks = nil
}

func (s *Selection) unmarkAll() {
	if s.probe {
		return
	}
	walk(s.contents(), func(e Element) {
		if m, ok := e.(interface{ setSelected(bool) }); ok {
			m.setSelected(false)
		}
	})
}

// ShallowCopy returns a new cursor referencing the same primitives.
func (s *Selection) ShallowCopy() *Selection {
	return &Selection{
		Name:       s.Name,
		probe:      s.probe,
		Points:     slices.Clone(s.Points),
		Lines:      slices.Clone(s.Lines),
		Rectangles: slices.Clone(s.Rectangles),
		Ellipses:   slices.Clone(s.Ellipses),
		Texts:      slices.Clone(s.Texts),
		Images:     slices.Clone(s.Images),
		Blocks:     slices.Clone(s.Blocks),
	}
}

// Move offsets every referenced primitive.
func (s *Selection) Move(dx, dy float64) { moveContents(s.contents(), dx, dy) }

// ─── membership ────────────────────────────────────────────

type selectable interface {
	comparable
	setSelected(bool)
}

func add[T selectable](list []T, v T, mark bool) []T {
	if slices.Contains(list, v) {
		return list
	}
	if mark {
		v.setSelected(true)
	}
	return append(list, v)
}

func remove[T selectable](list []T, v T, mark bool) []T {
	i := slices.Index(list, v)
	if i < 0 {
		return list
	}
	if mark {
		v.setSelected(false)
	}
	return slices.Delete(list, i, i+1)
}

// Select adds e to the cursor.
func (s *Selection) Select(e Element) {
	mark := !s.probe
	switch v := e.(type) {
	case *Point:
		s.Points = add(s.Points, v, mark)
	case *Line:
		s.Lines = add(s.Lines, v, mark)
	case *Rectangle:
		s.Rectangles = add(s.Rectangles, v, mark)
	case *Ellipse:
		s.Ellipses = add(s.Ellipses, v, mark)
	case *Text:
		s.Texts = add(s.Texts, v, mark)
	case *Image:
		s.Images = add(s.Images, v, mark)
	}
}

// Deselect removes e from the cursor.
func (s *Selection) Deselect(e Element) {
	mark := !s.probe
	switch v := e.(type) {
	case *Point:
		s.Points = remove(s.Points, v, mark)
	case *Line:
		s.Lines = remove(s.Lines, v, mark)
	case *Rectangle:
		s.Rectangles = remove(s.Rectangles, v, mark)
	case *Ellipse:
		s.Ellipses = remove(s.Ellipses, v, mark)
	case *Text:
		s.Texts = remove(s.Texts, v, mark)
	case *Image:
		s.Images = remove(s.Images, v, mark)
	}
}

// Contains reports whether e is referenced.
func (s *Selection) Contains(e Element) bool {
	switch v := e.(type) {
	case *Point:
		return slices.Contains(s.Points, v)
	case *Line:
		return slices.Contains(s.Lines, v)
	case *Rectangle:
		return slices.Contains(s.Rectangles, v)
	case *Ellipse:
		return slices.Contains(s.Ellipses, v)
	case *Text:
		return slices.Contains(s.Texts, v)
	case *Image:
		return slices.Contains(s.Images, v)
	}
	return false
}

// Toggle flips e's membership.
func (s *Selection) Toggle(e Element) {
	if s.Contains(e) {
		s.Deselect(e)
	} else {
		s.Select(e)
	}
}

// SelectBlock adds b as a whole and marks its contents.
func (s *Selection) SelectBlock(b *Block) {
	if slices.Contains(s.Blocks, b) {
		return
	}
	s.Blocks = append(s.Blocks, b)
	if !s.probe {
		markBlock(b, true)
	}
}

// DeselectBlock removes b and unmarks its contents.
func (s *Selection) DeselectBlock(b *Block) {
	i := slices.Index(s.Blocks, b)
	if i < 0 {
		return
	}
	s.Blocks = slices.Delete(s.Blocks, i, i+1)
	if !s.probe {
		markBlock(b, false)
	}
}

// ToggleBlock flips b's membership.
func (s *Selection) ToggleBlock(b *Block) {
	if slices.Contains(s.Blocks, b) {
		s.DeselectBlock(b)
	} else {
		s.SelectBlock(b)
	}
}

func markBlock(b *Block, v bool) {
	b.Walk(func(e Element) {
		if m, ok := e.(interface{ setSelected(bool) }); ok {
			m.setSelected(v)
		}
	})
}

// SelectAll selects every top-level primitive and block of parent.
func SelectAll(parent *Block, s *Selection) {
	s.Init()
	for _, p := range parent.Points {
		s.Select(p)
	}
	for _, l := range parent.Lines {
		s.Select(l)
	}
	for _, r := range parent.Rectangles {
		s.Select(r)
	}
	for _, e := range parent.Ellipses {
		s.Select(e)
	}
	for _, t := range parent.Texts {
		s.Select(t)
	}
	for _, i := range parent.Images {
		s.Select(i)
	}
	for _, b := range parent.Blocks {
		s.SelectBlock(b)
	}
	s.Clean()
}

// DeselectAll clears the cursor.
func DeselectAll(s *Selection) { s.Clear() }

// ─── predicates ────────────────────────────────────────────

// HaveSelected reports whether any collection is non-nil.
func (s *Selection) HaveSelected() bool {
	return s.Points != nil || s.Lines != nil || s.Rectangles != nil || s.Ellipses != nil ||
		s.Texts != nil || s.Images != nil || s.Blocks != nil
}

// nonNil counts the non-nil collections.
func (s *Selection) nonNil() int {
	n := 0
	for _, ok := range []bool{
		s.Points != nil, s.Lines != nil, s.Rectangles != nil, s.Ellipses != nil,
		s.Texts != nil, s.Images != nil, s.Blocks != nil,
	} {
		if ok {
			n++
		}
	}
	return n
}

func (s *Selection) HaveOnePointSelected() bool {
	return len(s.Points) == 1 && s.nonNil() == 1
}

func (s *Selection) HaveOneLineSelected() bool {
	return len(s.Lines) == 1 && s.nonNil() == 1
}

func (s *Selection) HaveOneRectangleSelected() bool {
	return len(s.Rectangles) == 1 && s.nonNil() == 1
}

func (s *Selection) HaveOneEllipseSelected() bool {
	return len(s.Ellipses) == 1 && s.nonNil() == 1
}

func (s *Selection) HaveOneTextSelected() bool {
	return len(s.Texts) == 1 && s.nonNil() == 1
}

func (s *Selection) HaveOneImageSelected() bool {
	return len(s.Images) == 1 && s.nonNil() == 1
}

func (s *Selection) HaveOneBlockSelected() bool {
	return len(s.Blocks) == 1 && s.nonNil() == 1
}

// Count returns the number of referenced primitives and blocks.
func (s *Selection) Count() int {
	return len(s.Points) + len(s.Lines) + len(s.Rectangles) + len(s.Ellipses) +
		len(s.Texts) + len(s.Images) + len(s.Blocks)
}

// Overlaps reports whether s and o share any primitive or block.
func (s *Selection) Overlaps(o *Selection) bool {
	a, b := s.contents(), o.contents()
	return overlap(a.points, b.points) || overlap(a.lines, b.lines) ||
		overlap(a.rectangles, b.rectangles) || overlap(a.ellipses, b.ellipses) ||
		overlap(a.texts, b.texts) || overlap(a.images, b.images) ||
		overlap(a.blocks, b.blocks)
}

func overlap[T comparable](a, b []T) bool {
	for _, v := range b {
		if slices.Contains(a, v) {
			return true
		}
	}
	return false
}
