package item_test

import (
	"testing"

	"sheet/internal/item"
)

func TestSnap(t *testing.T) {
	tests := []struct {
		v, size, want float64
	}{
		{28, 15, 30},
		{31, 15, 30},
		{92, 15, 90},
		{88, 15, 90},
		{7.5, 15, 15},
		{7.4, 15, 0},
		{-7, 15, 0},
		{-8, 15, -15},
		{45, 15, 45},
		{12, 0, 12},
	}
	for _, tt := range tests {
		if got := item.Snap(tt.v, tt.size); got != tt.want {
			t.Errorf("Snap(%v, %v) = %v, want %v", tt.v, tt.size, got, tt.want)
		}
	}
}

func TestSnapIdempotent(t *testing.T) {
	for _, size := range []float64{1, 5, 15, 30} {
		for v := -200.0; v <= 200; v += 0.75 {
			once := item.Snap(v, size)
			if twice := item.Snap(once, size); twice != once {
				t.Fatalf("Snap(Snap(%v, %v)) = %v, want %v", v, size, twice, once)
			}
		}
	}
}

func TestResetPosition(t *testing.T) {
	b := item.NewBlockItem(0, 0, 0, 0, 0, item.Unbound, "")
	b.Lines = append(b.Lines, &item.LineItem{X1: 300, Y1: 150, X2: 360, Y2: 210})
	b.Rectangles = append(b.Rectangles, &item.RectangleItem{X: 330, Y: 120, Width: 30, Height: 30})

	item.ResetPosition(b, 0, 0, 1260, 891)

	if b.Rectangles[0].X != 30 || b.Rectangles[0].Y != 0 {
		t.Errorf("rectangle at (%v,%v), want (30,0)", b.Rectangles[0].X, b.Rectangles[0].Y)
	}
	if b.Lines[0].X1 != 0 || b.Lines[0].Y1 != 30 {
		t.Errorf("line start at (%v,%v), want (0,30)", b.Lines[0].X1, b.Lines[0].Y1)
	}
}
