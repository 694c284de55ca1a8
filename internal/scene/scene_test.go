package scene_test

import (
	"testing"

	"sheet/internal/item"
	"sheet/internal/scene"
)

// newContent builds a content block from transfer items on a memory surface.
func newContent(t *testing.T, src *item.BlockItem) (*scene.MemorySurface, *scene.Block) {
	t.Helper()
	sheet := scene.NewMemorySurface()
	content := scene.NewBlock(0, 0, 0, 0, 0, item.Unbound, item.NameContent)
	scene.AddContents(sheet, src, content, nil, false, 1)
	return sheet, content
}

func items() *item.BlockItem {
	b := item.NewBlockItem(0, 0, 0, 0, 0, item.Unbound, "")
	b.Lines = append(b.Lines,
		&item.LineItem{ID: 1, X1: 30, Y1: 30, X2: 90, Y2: 30, Stroke: item.Black},
		&item.LineItem{ID: 2, X1: 30, Y1: 60, X2: 90, Y2: 60, Stroke: item.Black},
	)
	b.Ellipses = append(b.Ellipses, &item.EllipseItem{ID: 3, X: 45, Y: 75, Width: 30, Height: 30, Stroke: item.Black, Fill: item.Transparent})
	b.Rectangles = append(b.Rectangles, &item.RectangleItem{ID: 4, X: 300, Y: 300, Width: 60, Height: 60, Stroke: item.Black, Fill: item.Transparent})
	b.Texts = append(b.Texts, &item.TextItem{ID: 5, X: 300, Y: 30, Width: 60, Height: 15, Size: 11, Text: "label"})
	part := item.NewBlockItem(6, 0, 0, 0, 0, item.Unbound, "PART")
	part.Rectangles = append(part.Rectangles, &item.RectangleItem{ID: 7, X: 600, Y: 600, Width: 30, Height: 30, Stroke: item.Black, Fill: item.Transparent})
	part.Texts = append(part.Texts, &item.TextItem{ID: 8, X: 600, Y: 660, Width: 30, Height: 15, Size: 11, Text: "a"})
	b.Blocks = append(b.Blocks, part)
	return b
}

func assertInvariant(t *testing.T, sel *scene.Selection) {
	t.Helper()
	if sel.Points != nil && len(sel.Points) == 0 ||
		sel.Lines != nil && len(sel.Lines) == 0 ||
		sel.Rectangles != nil && len(sel.Rectangles) == 0 ||
		sel.Ellipses != nil && len(sel.Ellipses) == 0 ||
		sel.Texts != nil && len(sel.Texts) == 0 ||
		sel.Images != nil && len(sel.Images) == 0 ||
		sel.Blocks != nil && len(sel.Blocks) == 0 {
		t.Fatalf("selection holds an empty non-nil collection: %+v", sel)
	}
}

func TestAddContentsPopulatesSurface(t *testing.T) {
	sheet, content := newContent(t, items())
	if sheet.Len() != 7 {
		t.Fatalf("surface holds %d elements, want 7", sheet.Len())
	}
	if len(content.Blocks) != 1 || len(content.Blocks[0].Rectangles) != 1 {
		t.Fatal("nested block not materialized")
	}

	scene.Remove(sheet, content)
	if sheet.Len() != 0 {
		t.Fatalf("surface holds %d elements after Remove, want 0", sheet.Len())
	}
}

func TestDragSelectScenario(t *testing.T) {
	_, content := newContent(t, items())
	sel := scene.NewSelection()

	scene.HitTestSelectionRect(content, sel, scene.Rect{X: 15, Y: 15, Width: 90, Height: 105}, true)

	if len(sel.Lines) != 2 || len(sel.Ellipses) != 1 {
		t.Fatalf("selected %d lines %d ellipses, want 2 and 1", len(sel.Lines), len(sel.Ellipses))
	}
	if sel.Rectangles != nil || sel.Texts != nil || sel.Images != nil || sel.Blocks != nil || sel.Points != nil {
		t.Fatalf("other collections should be nil: %+v", sel)
	}
	if !content.Lines[0].IsSelected() || !content.Ellipses[0].IsSelected() {
		t.Error("selected primitives should carry the marker")
	}
	assertInvariant(t, sel)
}

func TestHitTestClickPriority(t *testing.T) {
	src := item.NewBlockItem(0, 0, 0, 0, 0, item.Unbound, "")
	src.Rectangles = append(src.Rectangles, &item.RectangleItem{X: 0, Y: 0, Width: 60, Height: 60, Stroke: item.Black})
	src.Texts = append(src.Texts, &item.TextItem{X: 15, Y: 15, Width: 30, Height: 30, Text: "t"})
	_, content := newContent(t, src)
	sel := scene.NewSelection()

	if !scene.HitTestClick(content, sel, scene.Vec{X: 30, Y: 30}, 3.5, false, true) {
		t.Fatal("expected a hit")
	}
	if !sel.HaveOneTextSelected() {
		t.Fatalf("text should win over rectangle: %+v", sel)
	}

	if scene.HitTestClick(content, sel, scene.Vec{X: 200, Y: 200}, 3.5, false, true) {
		t.Fatal("expected no hit")
	}
	if sel.HaveSelected() {
		t.Fatal("reset click on empty space should clear the selection")
	}
	if content.Texts[0].IsSelected() {
		t.Error("marker should be cleared by reset")
	}
}

func TestHitTestClickToggleAndAdditive(t *testing.T) {
	_, content := newContent(t, items())
	sel := scene.NewSelection()

	scene.HitTestClick(content, sel, scene.Vec{X: 60, Y: 30}, 3.5, false, true)
	scene.HitTestClick(content, sel, scene.Vec{X: 60, Y: 60}, 3.5, false, false)
	if len(sel.Lines) != 2 {
		t.Fatalf("additive click selected %d lines, want 2", len(sel.Lines))
	}

	scene.HitTestClick(content, sel, scene.Vec{X: 60, Y: 30}, 3.5, false, false)
	if len(sel.Lines) != 1 || sel.Lines[0] != content.Lines[1] {
		t.Fatal("second click should deselect the first line")
	}
	if content.Lines[0].IsSelected() {
		t.Error("deselected line still marked")
	}
	assertInvariant(t, sel)
}

func TestHitTestBlocks(t *testing.T) {
	_, content := newContent(t, items())
	part := content.Blocks[0]

	sel := scene.NewSelection()
	scene.HitTestClick(content, sel, scene.Vec{X: 615, Y: 615}, 3.5, false, true)
	if !sel.HaveOneBlockSelected() || sel.Blocks[0] != part {
		t.Fatalf("whole block should be selected: %+v", sel)
	}
	if !part.Rectangles[0].IsSelected() || !part.Texts[0].IsSelected() {
		t.Error("block contents should be marked")
	}

	inside := scene.NewSelection()
	scene.HitTestClick(content, inside, scene.Vec{X: 615, Y: 615}, 3.5, true, true)
	if inside.Blocks != nil || !inside.HaveOneRectangleSelected() || inside.Rectangles[0] != part.Rectangles[0] {
		t.Fatalf("inner rectangle should be selected: %+v", inside)
	}

	probe := scene.NewProbe()
	if !scene.HitTestForBlocks(content, probe, scene.Vec{X: 615, Y: 667}, 3.5) {
		t.Fatal("HitTestForBlocks missed")
	}
	if probe.Blocks[0] != part {
		t.Fatal("wrong block found")
	}
	if scene.HitTestForBlocks(content, probe, scene.Vec{X: 60, Y: 30}, 3.5) {
		t.Fatal("HitTestForBlocks must ignore top-level primitives")
	}
}

func TestProbeLeavesMarkers(t *testing.T) {
	_, content := newContent(t, items())
	probe := scene.NewProbe()
	scene.HitTestClick(content, probe, scene.Vec{X: 60, Y: 30}, 3.5, false, true)
	if !probe.HaveOneLineSelected() {
		t.Fatal("probe should record the hit")
	}
	if content.Lines[0].IsSelected() {
		t.Fatal("probe must not mark primitives")
	}
}

func TestSingleKindPredicates(t *testing.T) {
	line := &scene.Line{}
	rect := &scene.Rectangle{}
	ellipse := &scene.Ellipse{}
	text := &scene.Text{}
	img := &scene.Image{}
	point := &scene.Point{}
	elements := []scene.Element{point, line, rect, ellipse, text, img}

	predicates := []func(*scene.Selection) bool{
		(*scene.Selection).HaveOnePointSelected,
		(*scene.Selection).HaveOneLineSelected,
		(*scene.Selection).HaveOneRectangleSelected,
		(*scene.Selection).HaveOneEllipseSelected,
		(*scene.Selection).HaveOneTextSelected,
		(*scene.Selection).HaveOneImageSelected,
	}

	// Every subset of kinds, one member each.
	for mask := 0; mask < 1<<len(elements); mask++ {
		sel := scene.NewSelection()
		sel.ReInit()
		for i, e := range elements {
			if mask&(1<<i) != 0 {
				sel.Select(e)
			}
		}
		sel.Clean()
		for i, pred := range predicates {
			want := mask == 1<<i
			if got := pred(sel); got != want {
				t.Fatalf("mask %06b predicate %d = %v, want %v", mask, i, got, want)
			}
		}
	}

	two := scene.NewSelection()
	two.ReInit()
	two.Select(&scene.Line{})
	two.Select(&scene.Line{})
	two.Clean()
	if two.HaveOneLineSelected() {
		t.Fatal("two lines is not exactly one")
	}
}

func TestRemoveSelected(t *testing.T) {
	sheet, content := newContent(t, items())
	sel := scene.NewSelection()
	scene.SelectAll(content, sel)
	if sel.Count() != 6 {
		t.Fatalf("SelectAll selected %d, want 6", sel.Count())
	}

	scene.RemoveSelected(sheet, content, sel)
	if !content.IsEmpty() {
		t.Fatalf("content not empty after RemoveSelected: %+v", content)
	}
	if sheet.Len() != 0 {
		t.Fatalf("surface holds %d elements, want 0", sheet.Len())
	}
	if sel.HaveSelected() {
		t.Fatal("cursor should be cleared")
	}
}

func TestRemoveSelectedInsideBlock(t *testing.T) {
	sheet, content := newContent(t, items())
	part := content.Blocks[0]
	sel := scene.NewSelection()
	scene.HitTestClick(content, sel, scene.Vec{X: 615, Y: 615}, 3.5, true, true)

	scene.RemoveSelected(sheet, content, sel)
	if len(part.Rectangles) != 0 || len(part.Texts) != 1 {
		t.Fatalf("inner rectangle should be removed from its block: %+v", part)
	}
}

func TestMoveFollowsPoints(t *testing.T) {
	src := item.NewBlockItem(0, 0, 0, 0, 0, item.Unbound, "")
	src.Points = append(src.Points, &item.PointItem{ID: 1, X: 30, Y: 30}, &item.PointItem{ID: 2, X: 90, Y: 30})
	src.Lines = append(src.Lines, &item.LineItem{X1: 30, Y1: 30, X2: 90, Y2: 30, StartID: 1, EndID: 2})
	_, content := newContent(t, src)
	line := content.Lines[0]

	sel := scene.NewSelection()
	sel.ReInit()
	sel.Select(content.Points[0])
	sel.Clean()
	sel.Move(15, 15)
	if line.X1 != 45 || line.Y1 != 45 || line.X2 != 90 || line.Y2 != 30 {
		t.Fatalf("line = (%v,%v)-(%v,%v), want start dragged by point", line.X1, line.Y1, line.X2, line.Y2)
	}

	content.Move(15, 0)
	if line.X1 != 60 || line.X2 != 105 {
		t.Fatalf("block move should move the line once: (%v)-(%v)", line.X1, line.X2)
	}
}

func TestSerializeContentsRoundTrip(t *testing.T) {
	src := items()
	src.Points = append(src.Points, &item.PointItem{ID: 1, X: 30, Y: 30})
	src.Lines[0].StartID = 1
	_, content := newContent(t, src)

	out := scene.SerializeContents(content, 0, 0, 0, 0, 0, item.Unbound, "")
	if got, want := item.Serialize(out), item.Serialize(src); got != want {
		t.Fatalf("serialized content differs:\n%s\n---\n%s", got, want)
	}
}

func TestSerializeSelection(t *testing.T) {
	_, content := newContent(t, items())
	sel := scene.NewSelection()
	scene.HitTestSelectionRect(content, sel, scene.Rect{X: 15, Y: 15, Width: 90, Height: 105}, true)

	out := scene.SerializeContents(sel, 0, 0, 0, 0, 0, item.Unbound, item.NameSelected)
	if len(out.Lines) != 2 || len(out.Ellipses) != 1 || len(out.Rectangles) != 0 {
		t.Fatalf("selection snapshot = %+v", out)
	}
}

func TestAddBroken(t *testing.T) {
	src := items()
	sheet := scene.NewMemorySurface()
	target := scene.NewBlock(0, 0, 0, 0, 0, item.Unbound, item.NameContent)
	sel := scene.NewSelection()
	sel.ReInit()

	scene.AddBroken(sheet, src.Blocks[0], target, sel, true, 1)
	sel.Clean()

	if len(target.Blocks) != 0 || len(target.Rectangles) != 1 || len(target.Texts) != 1 {
		t.Fatalf("broken block should be flat: %+v", target)
	}
	if sel.Count() != 2 {
		t.Fatalf("selected %d, want 2", sel.Count())
	}
}

func TestFrameAndGrid(t *testing.T) {
	frame := scene.FrameItem(30, item.Gray)
	if len(frame.Lines) != 60 || len(frame.Texts) != 48 {
		t.Fatalf("frame has %d lines %d texts, want 60 and 48", len(frame.Lines), len(frame.Texts))
	}
	if frame.Texts[0].Text != "01" || frame.Texts[23].Text != "24" {
		t.Errorf("row labels = %q..%q", frame.Texts[0].Text, frame.Texts[23].Text)
	}

	grid := scene.GridItem(scene.GridX, scene.GridY, scene.GridWidth, scene.GridHeight, 30, item.Gray)
	if len(grid.Lines) != 43 {
		t.Fatalf("grid has %d lines, want 43", len(grid.Lines))
	}

	page := scene.ExportPage(nil, frame, grid)
	if page.Grid.Lines[0].Stroke != item.Black || page.Frame.Texts[0].Foreground != item.Black {
		t.Error("export page should be black")
	}
}
