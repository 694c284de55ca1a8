package scene

import (
	"slices"

	"sheet/internal/item"
)

// SerializeBlock snapshots b, header included.
func SerializeBlock(b *Block) *item.BlockItem {
	out := SerializeContents(b, b.ID, b.X, b.Y, b.Width, b.Height, b.DataID, b.Name)
	out.Background = b.Background
	return out
}

// SerializeContents snapshots the contents of c into a new block with the
// given header. Points are numbered 1..n inside each block and line
// attachments refer to those numbers.
func SerializeContents(c Container, id int, x, y, width, height float64, dataID int, name string) *item.BlockItem {
	out := item.NewBlockItem(id, x, y, width, height, dataID, name)
	v := c.contents()

	for i, p := range v.points {
		out.Points = append(out.Points, &item.PointItem{ID: i + 1, X: p.X, Y: p.Y})
	}
	pointID := func(p *Point) int {
		if p == nil {
			return 0
		}
		return slices.Index(v.points, p) + 1
	}
	for _, l := range v.lines {
		out.Lines = append(out.Lines, &item.LineItem{
			ID: l.ID, X1: l.X1, Y1: l.Y1, X2: l.X2, Y2: l.Y2, Stroke: l.Stroke,
			StartID: pointID(l.Start), EndID: pointID(l.End),
		})
	}
	for _, r := range v.rectangles {
		out.Rectangles = append(out.Rectangles, &item.RectangleItem{
			ID: r.ID, X: r.X, Y: r.Y, Width: r.Width, Height: r.Height,
			IsFilled: r.IsFilled(), Stroke: r.Stroke, Fill: r.Fill,
		})
	}
	for _, e := range v.ellipses {
		out.Ellipses = append(out.Ellipses, &item.EllipseItem{
			ID: e.ID, X: e.X, Y: e.Y, Width: e.Width, Height: e.Height,
			IsFilled: e.IsFilled(), Stroke: e.Stroke, Fill: e.Fill,
		})
	}
	for _, t := range v.texts {
		out.Texts = append(out.Texts, TextItem(t))
	}
	for _, img := range v.images {
		out.Images = append(out.Images, &item.ImageItem{
			ID: img.ID, X: img.X, Y: img.Y, Width: img.Width, Height: img.Height, Data: img.Data,
		})
	}
	for _, b := range v.blocks {
		out.Blocks = append(out.Blocks, SerializeBlock(b))
	}
	return out
}

// TextItem snapshots one text.
func TextItem(t *Text) *item.TextItem {
	return &item.TextItem{
		ID: t.ID, X: t.X, Y: t.Y, Width: t.Width, Height: t.Height,
		HAlign: t.HAlign, VAlign: t.VAlign, Size: t.Size,
		Foreground: t.Foreground, Background: t.Background, Text: t.Content,
	}
}
