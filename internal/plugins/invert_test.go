package plugins_test

import (
	"testing"

	"sheet/internal/config"
	"sheet/internal/editor"
	"sheet/internal/item"
	"sheet/internal/plugins"
	"sheet/internal/scene"
)

func newEditor(t *testing.T, lines ...*item.LineItem) *editor.Controller {
	t.Helper()
	c := editor.New(config.Default(), editor.Surfaces{
		Back:    scene.NewMemorySurface(),
		Content: scene.NewMemorySurface(),
		Overlay: scene.NewMemorySurface(),
	}, editor.Collaborators{})
	for _, p := range plugins.Builtins() {
		c.RegisterPlugin(p)
	}
	b := item.NewBlockItem(0, 0, 0, 0, 0, item.Unbound, "")
	b.Lines = lines
	c.InsertContent(b, true)
	return c
}

func TestInvertLineEnds(t *testing.T) {
	tests := []struct {
		name   string
		plugin string
		line   item.LineItem
		want   scene.Rect
		x1, y1 float64
		x2, y2 float64
	}{
		{"start left", "Invert Line Start", item.LineItem{X1: 30, Y1: 60, X2: 90, Y2: 60},
			scene.Rect{X: 30, Y: 55, Width: 10, Height: 10}, 40, 60, 90, 60},
		{"start right", "Invert Line Start", item.LineItem{X1: 90, Y1: 60, X2: 30, Y2: 60},
			scene.Rect{X: 80, Y: 55, Width: 10, Height: 10}, 80, 60, 30, 60},
		{"end right", "Invert Line End", item.LineItem{X1: 30, Y1: 60, X2: 90, Y2: 60},
			scene.Rect{X: 80, Y: 55, Width: 10, Height: 10}, 30, 60, 80, 60},
		{"end down", "Invert Line End", item.LineItem{X1: 60, Y1: 30, X2: 60, Y2: 90},
			scene.Rect{X: 55, Y: 80, Width: 10, Height: 10}, 60, 30, 60, 80},
		{"start up", "Invert Line Start", item.LineItem{X1: 60, Y1: 30, X2: 60, Y2: 90},
			scene.Rect{X: 55, Y: 30, Width: 10, Height: 10}, 60, 40, 60, 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := tt.line
			c := newEditor(t, &line)
			if !c.ProcessPlugin(tt.plugin) {
				t.Fatal("plugin declined an axis-aligned line")
			}
			content := c.Content()
			if len(content.Ellipses) != 1 {
				t.Fatalf("ellipses = %d, want 1", len(content.Ellipses))
			}
			e := content.Ellipses[0]
			if e.Bounds() != tt.want || e.IsFilled() {
				t.Fatalf("ellipse = %+v filled=%v, want %+v", e.Bounds(), e.IsFilled(), tt.want)
			}
			l := content.Lines[0]
			if l.X1 != tt.x1 || l.Y1 != tt.y1 || l.X2 != tt.x2 || l.Y2 != tt.y2 {
				t.Fatalf("line = (%v,%v)-(%v,%v)", l.X1, l.Y1, l.X2, l.Y2)
			}
			sel := c.Selected()
			if !sel.HaveOneEllipseSelected() || sel.Ellipses[0] != e {
				t.Fatal("new ellipse should be the only selection")
			}
			if labels := c.History().Labels(); labels[len(labels)-1] != tt.plugin {
				t.Fatalf("labels = %v", labels)
			}
		})
	}
}

func TestInvertDeclinesDiagonal(t *testing.T) {
	c := newEditor(t, &item.LineItem{X1: 30, Y1: 30, X2: 90, Y2: 90})
	if c.ProcessPlugin("Invert Line Start") {
		t.Fatal("diagonal line accepted")
	}
	if len(c.Content().Ellipses) != 0 || c.History().CanUndo() {
		t.Fatal("declined plugin changed the page")
	}
}

func TestBuiltinNames(t *testing.T) {
	c := newEditor(t)
	names := c.Plugins().Names()
	if len(names) != 2 || names[0] != "Invert Line End" || names[1] != "Invert Line Start" {
		t.Fatalf("names = %v", names)
	}
}
