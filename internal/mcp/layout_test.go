package mcpserver

import (
	"testing"

	"sheet/internal/item"
	"sheet/internal/scene"
)

var sheetArea = scene.Rect{X: 0, Y: 0, Width: 1260, Height: 891}

func TestNextPosition_EmptySheet(t *testing.T) {
	le := NewLayoutEngine(0)
	p := le.NextPosition(nil, sheetArea, 120, 90)
	if p.X != 0 || p.Y != 0 {
		t.Errorf("expected (0, 0) on an empty sheet, got (%.0f, %.0f)", p.X, p.Y)
	}
}

func TestNextPosition_AvoidsOccupied(t *testing.T) {
	le := NewLayoutEngine(0)
	occupied := []scene.Rect{
		{X: 0, Y: 0, Width: 300, Height: 300},
		{X: 390, Y: 0, Width: 300, Height: 300},
	}
	p := le.NextPosition(occupied, sheetArea, 120, 90)
	r := scene.Rect{X: p.X, Y: p.Y, Width: 120, Height: 90}
	for _, occ := range occupied {
		if r.Intersects(le.inflate(occ)) {
			t.Errorf("position (%.0f, %.0f) overlaps %+v", p.X, p.Y, occ)
		}
	}
	if p.Y != 0 {
		t.Errorf("expected the free spot on the first row, got y=%.0f", p.Y)
	}
}

func TestNextPosition_FullAreaGoesBelow(t *testing.T) {
	le := NewLayoutEngine(30)
	area := scene.Rect{Width: 300, Height: 300}
	occupied := []scene.Rect{area}
	p := le.NextPosition(occupied, area, 60, 60)
	if p.X != 0 || p.Y != 330 {
		t.Errorf("expected (0, 330), got (%.0f, %.0f)", p.X, p.Y)
	}
}

func TestNextPosition_SnapsToGrid(t *testing.T) {
	le := NewLayoutEngine(30)
	p := le.NextPosition(nil, scene.Rect{X: 31, Y: 17, Width: 600, Height: 600}, 60, 60)
	if p.X != 60 || p.Y != 30 {
		t.Errorf("expected (60, 30), got (%.0f, %.0f)", p.X, p.Y)
	}
}

func TestArrangeGroup_WrapsRows(t *testing.T) {
	le := NewLayoutEngine(30)
	sizes := []scene.Rect{
		{Width: 90, Height: 60},
		{Width: 90, Height: 90},
		{Width: 90, Height: 60},
	}
	got := le.ArrangeGroup(sizes, scene.Vec{}, 250)

	want := []scene.Vec{{X: 0, Y: 0}, {X: 120, Y: 0}, {X: 0, Y: 120}}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("box %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestBlockBounds(t *testing.T) {
	b := scene.NewBlock(1, 0, 0, 0, 0, item.Unbound, "PUMP")
	b.Rectangles = append(b.Rectangles, &scene.Rectangle{Shape: scene.Shape{X: 30, Y: 60, Width: 60, Height: 30}})
	b.Texts = append(b.Texts, &scene.Text{X: 90, Y: 30, Width: 30, Height: 15})

	r, ok := blockBounds(b)
	if !ok {
		t.Fatal("expected bounds")
	}
	if want := (scene.Rect{X: 30, Y: 30, Width: 90, Height: 60}); r != want {
		t.Errorf("expected %+v, got %+v", want, r)
	}

	if _, ok := blockBounds(scene.NewBlock(2, 0, 0, 0, 0, item.Unbound, "EMPTY")); ok {
		t.Error("empty block should have no bounds")
	}
}
