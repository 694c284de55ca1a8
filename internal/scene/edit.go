package scene

import "sheet/internal/item"

// ── Scene editing ──────────────────────────────────────────
// Materialize transfer items into live primitives, detach them again, and
// keep the surface and the owning block in step.

// AddContents materializes the contents of src into target. When
// selectAdded is set, every new primitive and block is also selected.
func AddContents(sheet Surface, src *item.BlockItem, target *Block, sel *Selection, selectAdded bool, thickness float64) {
	points := make(map[int]*Point, len(src.Points))
	for _, pi := range src.Points {
		p := &Point{ID: pi.ID, X: pi.X, Y: pi.Y}
		if pi.ID != 0 {
			points[pi.ID] = p
		}
		target.Points = append(target.Points, p)
		sheet.Add(p)
		if selectAdded {
			sel.Select(p)
		}
	}
	for _, li := range src.Lines {
		l := NewLine(li, thickness)
		if p, ok := points[li.StartID]; ok && li.StartID != 0 {
			l.AttachStart(p)
		}
		if p, ok := points[li.EndID]; ok && li.EndID != 0 {
			l.AttachEnd(p)
		}
		target.Lines = append(target.Lines, l)
		sheet.Add(l)
		if selectAdded {
			sel.Select(l)
		}
	}
	for _, ri := range src.Rectangles {
		r := &Rectangle{Shape: Shape{
			ID: ri.ID, X: ri.X, Y: ri.Y, Width: ri.Width, Height: ri.Height,
			Stroke: ri.Stroke, Fill: fillOf(ri.IsFilled, ri.Fill), Thickness: thickness,
		}}
		target.Rectangles = append(target.Rectangles, r)
		sheet.Add(r)
		if selectAdded {
			sel.Select(r)
		}
	}
	for _, ei := range src.Ellipses {
		e := &Ellipse{Shape: Shape{
			ID: ei.ID, X: ei.X, Y: ei.Y, Width: ei.Width, Height: ei.Height,
			Stroke: ei.Stroke, Fill: fillOf(ei.IsFilled, ei.Fill), Thickness: thickness,
		}}
		target.Ellipses = append(target.Ellipses, e)
		sheet.Add(e)
		if selectAdded {
			sel.Select(e)
		}
	}
	for _, ti := range src.Texts {
		t := NewText(ti)
		target.Texts = append(target.Texts, t)
		sheet.Add(t)
		if selectAdded {
			sel.Select(t)
		}
	}
	for _, ii := range src.Images {
		img := &Image{ID: ii.ID, X: ii.X, Y: ii.Y, Width: ii.Width, Height: ii.Height, Data: ii.Data}
		target.Images = append(target.Images, img)
		sheet.Add(img)
		if selectAdded {
			sel.Select(img)
		}
	}
	for _, bi := range src.Blocks {
		InsertBlock(sheet, target, bi, sel, selectAdded, thickness)
	}
}

// InsertBlock materializes src as a new child block of target and returns
// it. When selectAdded is set the block is selected as a whole.
func InsertBlock(sheet Surface, target *Block, src *item.BlockItem, sel *Selection, selectAdded bool, thickness float64) *Block {
	b := NewBlock(src.ID, src.X, src.Y, src.Width, src.Height, src.DataID, src.Name)
	b.Background = src.Background
	AddContents(sheet, src, b, nil, false, thickness)
	target.Blocks = append(target.Blocks, b)
	if selectAdded && sel != nil {
		sel.SelectBlock(b)
	}
	return b
}

// AddBroken adds src's primitives to target and dissolves src's direct
// child blocks into target one level deep.
func AddBroken(sheet Surface, src *item.BlockItem, target *Block, sel *Selection, selectAdded bool, thickness float64) {
	flat := *src
	flat.Blocks = nil
	AddContents(sheet, &flat, target, sel, selectAdded, thickness)
	for _, child := range src.Blocks {
		AddContents(sheet, child, target, sel, selectAdded, thickness)
	}
}

// NewLine builds a live line from its transfer item. Point attachments are
// resolved by the caller.
func NewLine(li *item.LineItem, thickness float64) *Line {
	return &Line{ID: li.ID, X1: li.X1, Y1: li.Y1, X2: li.X2, Y2: li.Y2, Stroke: li.Stroke, Thickness: thickness}
}

// NewText builds a live text from its transfer item.
func NewText(ti *item.TextItem) *Text {
	return &Text{
		ID: ti.ID, X: ti.X, Y: ti.Y, Width: ti.Width, Height: ti.Height,
		HAlign: ti.HAlign, VAlign: ti.VAlign, Size: ti.Size,
		Foreground: ti.Foreground, Background: ti.Background, Content: ti.Text,
	}
}

func fillOf(filled bool, fill item.Color) item.Color {
	if !filled {
		return item.Transparent
	}
	if fill.IsTransparent() {
		return item.Black
	}
	return fill
}

// Remove detaches every primitive reachable from b from the surface.
func Remove(sheet Surface, b *Block) {
	b.Walk(sheet.Remove)
}

// ResetBlock detaches b's contents from the surface and empties it.
func ResetBlock(sheet Surface, b *Block) {
	Remove(sheet, b)
	b.clear()
}

// RemoveSelected deletes every primitive and block referenced by sel from
// the surface and from the block that owns it, then clears sel.
func RemoveSelected(sheet Surface, parent *Block, sel *Selection) {
	for _, p := range sel.Points {
		sheet.Remove(p)
		parent.detach(p)
		p.detachAll()
	}
	for _, l := range sel.Lines {
		sheet.Remove(l)
		parent.detach(l)
		l.detachAll()
	}
	for _, r := range sel.Rectangles {
		sheet.Remove(r)
		parent.detach(r)
	}
	for _, e := range sel.Ellipses {
		sheet.Remove(e)
		parent.detach(e)
	}
	for _, t := range sel.Texts {
		sheet.Remove(t)
		parent.detach(t)
	}
	for _, i := range sel.Images {
		sheet.Remove(i)
		parent.detach(i)
	}
	for _, b := range sel.Blocks {
		Remove(sheet, b)
		parent.detach(b)
	}
	sel.Clear()
}

// AdjustThickness sets the stroke thickness of every line and shape in b.
func AdjustThickness(b *Block, thickness float64) {
	b.Walk(func(e Element) {
		switch v := e.(type) {
		case *Line:
			v.Thickness = thickness
		case *Rectangle:
			v.Thickness = thickness
		case *Ellipse:
			v.Thickness = thickness
		}
	})
}

// RemoveBlock detaches b from the surface and from parent.
func RemoveBlock(sheet Surface, parent *Block, b *Block) {
	Remove(sheet, b)
	parent.detach(b)
}
