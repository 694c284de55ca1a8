package scene

import (
	"fmt"

	"sheet/internal/item"
)

// ── Page factory ───────────────────────────────────────────
// The drawing frame and the snap grid are plain blocks of lines and texts
// built once per page and shown on the back surface.

const (
	framePadding   = 6.0
	frameWidth     = 1260.0
	frameHeight    = 891.0
	frameRowsStart = 60.0
	frameRowsEnd   = 780.0
	frameHeaderY   = 30.0

	// Grid area inside the frame.
	GridX      = 330.0
	GridY      = 30.0
	GridWidth  = 600.0
	GridHeight = 750.0
)

// Export stroke thicknesses, in points.
const (
	GridExportThickness  = 0.013 * 72.0 / 2.54
	FrameExportThickness = 0.018 * 72.0 / 2.54
)

// Selection rectangle colours.
var (
	SelectionFill   = item.Color{A: 0x3A, R: 0x00, G: 0x00, B: 0xFF}
	SelectionStroke = item.Color{A: 0x7F, R: 0x00, G: 0x00, B: 0xFF}
)

func frameLine(b *item.BlockItem, x1, y1, x2, y2 float64, stroke item.Color) {
	b.Lines = append(b.Lines, &item.LineItem{X1: x1, Y1: y1, X2: x2, Y2: y2, Stroke: stroke})
}

func frameText(b *item.BlockItem, text string, x, y, width, height float64, stroke item.Color) {
	b.Texts = append(b.Texts, &item.TextItem{
		X: x, Y: y, Width: width, Height: height,
		HAlign: item.AlignCenter, VAlign: item.AlignCenter, Size: 14,
		Foreground: stroke, Background: item.Transparent, Text: text,
	})
}

// FrameItem builds the page frame: numbered rows on both sides, column
// dividers, header, footer and border.
func FrameItem(size float64, stroke item.Color) *item.BlockItem {
	b := item.NewBlockItem(0, 0, 0, frameWidth, frameHeight, item.Unbound, item.NameFrame)
	if size <= 0 {
		return b
	}
	startX, startY := framePadding, framePadding

	row := 1
	for y := frameRowsStart; y < frameRowsEnd; y += size {
		frameLine(b, startX, y, 330, y, stroke)
		frameText(b, fmt.Sprintf("%02d", row), startX, y, 30-framePadding, size, stroke)
		row++
	}

	row = 1
	for y := frameRowsStart; y < frameRowsEnd; y += size {
		frameLine(b, 930, y, frameWidth-framePadding, y, stroke)
		frameText(b, fmt.Sprintf("%02d", row), frameWidth-30, y, 30-framePadding, size, stroke)
		row++
	}

	columnWidth := []float64{30, 210, 90, 600, 210, 90}
	columnTop := []float64{30, 30, startY, startY, 30, 30}
	x := 0.0
	for i, w := range columnWidth {
		x += w
		frameLine(b, x, columnTop[i], x, frameRowsEnd, stroke)
	}

	frameLine(b, startX, frameHeaderY, frameWidth-framePadding, frameHeaderY, stroke)
	frameLine(b, startX, frameRowsEnd, frameWidth-framePadding, frameRowsEnd, stroke)

	frameLine(b, startX, startY, frameWidth-framePadding, startY, stroke)
	frameLine(b, startX, frameHeight-framePadding, frameWidth-framePadding, frameHeight-framePadding, stroke)
	frameLine(b, startX, startY, startX, frameHeight-framePadding, stroke)
	frameLine(b, frameWidth-framePadding, startY, frameWidth-framePadding, frameHeight-framePadding, stroke)
	return b
}

// GridItem builds grid lines every size units inside the given box.
func GridItem(startX, startY, width, height, size float64, stroke item.Color) *item.BlockItem {
	b := item.NewBlockItem(0, 0, 0, width, height, item.Unbound, item.NameGrid)
	if size <= 0 {
		return b
	}
	for y := startY + size; y < height+startY; y += size {
		frameLine(b, startX, y, width+startX, y, stroke)
	}
	for x := startX + size; x < startX+width; x += size {
		frameLine(b, x, startY, x, height+startY, stroke)
	}
	return b
}

// ExportPage assembles content, frame and grid into a page ready for an
// export writer. Frame and grid strokes are forced to black.
func ExportPage(content, frame, grid *item.BlockItem) item.Page {
	return item.Page{
		Grid:    blacken(grid),
		Frame:   blacken(frame),
		Content: content,
	}
}

func blacken(b *item.BlockItem) *item.BlockItem {
	if b == nil {
		return nil
	}
	for _, l := range b.Lines {
		l.Stroke = item.Black
	}
	for _, t := range b.Texts {
		t.Foreground = item.Black
	}
	for _, child := range b.Blocks {
		blacken(child)
	}
	return b
}
