package export_test

import (
	"bytes"
	"strings"
	"testing"

	"sheet/internal/export"
	"sheet/internal/item"
)

func samplePage() item.Page {
	content := item.NewBlockItem(0, 0, 0, 0, 0, item.Unbound, item.NameContent)
	content.Lines = append(content.Lines, &item.LineItem{X1: 0, Y1: 0, X2: 60, Y2: 0, Stroke: item.Black})
	content.Rectangles = append(content.Rectangles, &item.RectangleItem{X: 30, Y: 30, Width: 60, Height: 60, Stroke: item.Red, Fill: item.Transparent})
	content.Ellipses = append(content.Ellipses, &item.EllipseItem{X: 90, Y: 90, Width: 30, Height: 30, IsFilled: true, Stroke: item.Black, Fill: item.Blue})

	child := item.NewBlockItem(1, 0, 0, 0, 0, 7, "PUMP")
	child.Texts = append(child.Texts, &item.TextItem{X: 0, Y: 120, Width: 30, Height: 15, HAlign: item.AlignCenter, VAlign: item.AlignCenter, Size: 11, Foreground: item.Black, Background: item.Transparent, Text: "P<1>"})
	content.Blocks = append(content.Blocks, child)

	return item.Page{Content: content}
}

func TestSVGOneElementPerPrimitive(t *testing.T) {
	var buf bytes.Buffer
	e := &export.SVG{Style: export.Style{LineThickness: 2}}
	if err := e.Write(&buf, samplePage()); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()

	for _, tc := range []struct {
		tag  string
		want int
	}{
		{"<line ", 1},
		{"<rect ", 1},
		{"<ellipse ", 1},
		{"<text ", 1},
		{"<image ", 0},
	} {
		if got := strings.Count(out, tc.tag); got != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.tag, tc.want, got)
		}
	}
	if !strings.Contains(out, `fill="#0000ff"`) || !strings.Contains(out, `fill="none"`) {
		t.Error("expected filled ellipse and unfilled rectangle")
	}
	if !strings.Contains(out, "P&lt;1&gt;") {
		t.Error("text not escaped")
	}
	if !strings.Contains(out, `viewBox="0 0 120 135"`) {
		t.Errorf("unexpected view box in %s", out)
	}
}

func TestTextExportRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	if err := (export.Text{}).Write(&buf, samplePage()); err != nil {
		t.Fatal(err)
	}
	root, err := item.Deserialize(buf.String())
	if err != nil {
		t.Fatalf("parse export: %v", err)
	}
	page := item.UnwrapPage(root)
	if page.Content == nil || len(page.Content.Rectangles) != 1 || len(page.Content.Blocks) != 1 {
		t.Errorf("unexpected content %+v", page.Content)
	}
}

func TestRegistry(t *testing.T) {
	r := export.Builtins(export.Style{})
	formats := r.Formats()
	if strings.Join(formats, ",") != "json,svg,txt" {
		t.Errorf("unexpected formats %v", formats)
	}
	if _, err := r.Get("pdf"); err == nil {
		t.Error("expected error for unknown format")
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	r.Register(export.JSON{})
}
