package app

import (
	"context"
	"testing"

	"sheet/internal/item"
	"sheet/internal/scene"
	"sheet/internal/service"
)

func TestRemoteSurface_AddRemoveEmitsOnce(t *testing.T) {
	em := &service.MockEmitter{}
	s := newRemoteSurface(context.Background(), LayerContent, em)

	line := &scene.Line{X1: 0, Y1: 0, X2: 30, Y2: 0, Stroke: item.Black, Thickness: 2}
	s.Add(line)
	s.Add(line)
	s.Remove(line)
	s.Remove(line)

	names := em.Names()
	if len(names) != 2 || names[0] != "sheet:add" || names[1] != "sheet:remove" {
		t.Fatalf("unexpected events %v", names)
	}
	added := em.Events[0].Data.(ElementView)
	removed := em.Events[1].Data.(removedView)
	if added.ID != removed.ID || added.Layer != LayerContent {
		t.Errorf("ids differ: %+v %+v", added, removed)
	}
	if len(s.Views()) != 0 {
		t.Error("surface should be empty")
	}
}

func TestRemoteSurface_ViewsFollowMutation(t *testing.T) {
	s := newRemoteSurface(context.Background(), LayerContent, service.NopEmitter{})
	rect := &scene.Rectangle{Shape: scene.Shape{X: 30, Y: 30, Width: 60, Height: 30, Stroke: item.Black, Fill: item.Transparent}}
	s.Add(rect)
	rect.Move(15, 0)

	views := s.Views()
	if len(views) != 1 {
		t.Fatalf("expected 1 view, got %d", len(views))
	}
	v := views[0]
	if v.X != 45 || v.Width != 60 || v.Kind != scene.KindRectangle.String() {
		t.Errorf("unexpected view %+v", v)
	}
	if v.Fill != "transparent" || v.Stroke != "rgba(0,0,0,1.000)" {
		t.Errorf("unexpected colours %q %q", v.Stroke, v.Fill)
	}
}

func TestRemoteSurface_CaptureIsLocal(t *testing.T) {
	em := &service.MockEmitter{}
	s := newRemoteSurface(context.Background(), LayerOverlay, em)
	s.Capture()
	if !s.IsCaptured() {
		t.Fatal("expected capture")
	}
	s.ReleaseCapture()
	if s.IsCaptured() || len(em.Names()) != 0 {
		t.Error("capture should not reach the frontend")
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name  string
		e     scene.Element
		check func(ElementView) bool
	}{
		{"text", &scene.Text{X: 0, Y: 0, Width: 30, Height: 15, Size: 11, Content: "P-101", Foreground: item.Black, Background: item.Transparent},
			func(v ElementView) bool { return v.Text == "P-101" && v.Size == 11 }},
		{"image", &scene.Image{Width: 10, Height: 10, Data: []byte{1, 2, 3}},
			func(v ElementView) bool { return v.Image == "AQID" }},
		{"thumb", &scene.Thumb{Handle: scene.ThumbEnd, X: 5, Y: 5},
			func(v ElementView) bool { return v.Handle == "end" }},
		{"line", &scene.Line{X1: 1, Y1: 2, X2: 3, Y2: 4, Stroke: item.Color{A: 255, R: 255}},
			func(v ElementView) bool { return v.X2 == 3 && v.Stroke == "rgba(255,0,0,1.000)" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if v := describe(tt.e, 1, LayerContent); !tt.check(v) {
				t.Errorf("unexpected view %+v", v)
			}
		})
	}
}

func TestPointerEventInput(t *testing.T) {
	ev := PointerEvent{X: 130, Y: 70}
	in := ev.input(newTestController(t, 12, 10, 10))
	// zoom index 12 is 2x
	if in.Point != (scene.Vec{X: 60, Y: 30}) {
		t.Errorf("unexpected point %+v", in.Point)
	}
	if in.Root != (scene.Vec{X: 130, Y: 70}) {
		t.Errorf("unexpected root %+v", in.Root)
	}
}

func TestArrowDelta(t *testing.T) {
	if dx, dy := arrowDelta("ArrowUp", 15); dx != 0 || dy != -15 {
		t.Errorf("got %v %v", dx, dy)
	}
	if dx, dy := arrowDelta("ArrowRight", 15); dx != 15 || dy != 0 {
		t.Errorf("got %v %v", dx, dy)
	}
}
