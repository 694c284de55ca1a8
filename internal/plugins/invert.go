package plugins

import (
	"math"

	"sheet/internal/editor"
	"sheet/internal/item"
	"sheet/internal/scene"
)

// ─────────────────────────────────────────────────────────────
// Invert line end plugins
// ─────────────────────────────────────────────────────────────

// InvertSize is the diameter of the inversion bubble.
const InvertSize = 10.0

type side int

const (
	sideStart side = iota
	sideEnd
)

// invertPlugin draws an inversion bubble at one end of every horizontal or
// vertical selected line and pulls that end back by the bubble size.
type invertPlugin struct {
	name string
	end  side
}

// NewInvertLineStart creates the "Invert Line Start" plugin.
func NewInvertLineStart() editor.SelectionPlugin {
	return &invertPlugin{name: "Invert Line Start", end: sideStart}
}

// NewInvertLineEnd creates the "Invert Line End" plugin.
func NewInvertLineEnd() editor.SelectionPlugin {
	return &invertPlugin{name: "Invert Line End", end: sideEnd}
}

// Builtins returns every plugin shipped with the editor.
func Builtins() []editor.SelectionPlugin {
	return []editor.SelectionPlugin{NewInvertLineStart(), NewInvertLineEnd()}
}

func (p *invertPlugin) Name() string { return p.name }

func (p *invertPlugin) CanProcess(sel *scene.Selection) bool {
	for _, l := range sel.Lines {
		if p.invertible(l) {
			return true
		}
	}
	return false
}

// invertible reports whether l is axis aligned, long enough, and free at
// the processed end.
func (p *invertPlugin) invertible(l *scene.Line) bool {
	if p.end == sideStart && l.Start != nil || p.end == sideEnd && l.End != nil {
		return false
	}
	dx, dy := l.X2-l.X1, l.Y2-l.Y1
	switch {
	case dy == 0:
		return math.Abs(dx) > InvertSize
	case dx == 0:
		return math.Abs(dy) > InvertSize
	}
	return false
}

func (p *invertPlugin) Process(ctx editor.PluginContext) {
	var added []*scene.Ellipse
	for _, l := range ctx.Source.Lines {
		if !p.invertible(l) {
			continue
		}
		e := p.invert(l, ctx.Thickness)
		ctx.Content.Ellipses = append(ctx.Content.Ellipses, e)
		ctx.Sheet.Add(e)
		added = append(added, e)
	}
	scene.DeselectAll(ctx.Selected)
	for _, e := range added {
		ctx.Selected.Select(e)
	}
}

// invert shortens l at the processed end and returns the bubble that takes
// its place.
func (p *invertPlugin) invert(l *scene.Line, thickness float64) *scene.Ellipse {
	x, y := &l.X1, &l.Y1
	ox, oy := l.X2, l.Y2
	if p.end == sideEnd {
		x, y = &l.X2, &l.Y2
		ox, oy = l.X1, l.Y1
	}

	const half = InvertSize / 2
	var ex, ey float64
	switch {
	case *y == oy && *x < ox: // pointing left
		ex, ey = *x, *y-half
		*x += InvertSize
	case *y == oy:
		ex, ey = *x-InvertSize, *y-half
		*x -= InvertSize
	case *y < oy: // pointing up
		ex, ey = *x-half, *y
		*y += InvertSize
	default:
		ex, ey = *x-half, *y-InvertSize
		*y -= InvertSize
	}
	return &scene.Ellipse{Shape: scene.Shape{
		X: ex, Y: ey, Width: InvertSize, Height: InvertSize,
		Stroke: l.Stroke, Fill: item.Transparent, Thickness: thickness,
	}}
}
