package mcpserver

import (
	"testing"

	"sheet/internal/scene"
)

func TestRouteOrtho_StraightWhenClear(t *testing.T) {
	src := scene.Rect{X: 0, Y: 0, Width: 60, Height: 60}
	dst := scene.Rect{X: 300, Y: 0, Width: 60, Height: 60}

	path := routeOrtho(src, dst, nil)
	if len(path) != 2 {
		t.Fatalf("expected a straight connector, got %v", path)
	}
	if path[0] != (scene.Vec{X: 60, Y: 30}) || path[1] != (scene.Vec{X: 300, Y: 30}) {
		t.Errorf("unexpected ports: %v", path)
	}
}

func TestRouteOrtho_AvoidsObstacle(t *testing.T) {
	src := scene.Rect{X: 0, Y: 0, Width: 60, Height: 60}
	dst := scene.Rect{X: 420, Y: 0, Width: 60, Height: 60}
	wall := scene.Rect{X: 180, Y: -60, Width: 60, Height: 180}

	path := routeOrtho(src, dst, []scene.Rect{wall})
	if len(path) < 4 {
		t.Fatalf("expected a detour, got %v", path)
	}
	if path[0] != (scene.Vec{X: 60, Y: 30}) || path[len(path)-1] != (scene.Vec{X: 420, Y: 30}) {
		t.Errorf("route should start and end on the facing sides: %v", path)
	}
	for i := 0; i+1 < len(path); i++ {
		a, b := path[i], path[i+1]
		if a.X != b.X && a.Y != b.Y {
			t.Errorf("segment %v-%v is diagonal", a, b)
		}
		if crosses(a, b, wall) {
			t.Errorf("segment %v-%v crosses the obstacle", a, b)
		}
	}
}

func TestSimplifyOrtho(t *testing.T) {
	in := []scene.Vec{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 0}, {X: 20, Y: 10}}
	got := simplifyOrtho(in)
	want := []scene.Vec{{X: 0, Y: 0}, {X: 20, Y: 0}, {X: 20, Y: 10}}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("point %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}
