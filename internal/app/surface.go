package app

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"

	"sheet/internal/item"
	"sheet/internal/scene"
	"sheet/internal/service"
)

// ─────────────────────────────────────────────────────────────
// Remote surface: the scene as seen by the frontend canvas
// ─────────────────────────────────────────────────────────────
//
// The webview draws; Go only tells it what exists. Every Add and Remove is
// forwarded as sheet:add / sheet:remove with a stable element id. Elements
// are mutated in place by the editor, so after sheet:render the frontend
// re-reads geometry with GetScene.

const (
	LayerBack    = "back"
	LayerContent = "content"
	LayerOverlay = "overlay"
)

// ElementView is the frontend-safe description of one live primitive.
type ElementView struct {
	ID        int     `json:"id"`
	Layer     string  `json:"layer"`
	Kind      string  `json:"kind"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	X1        float64 `json:"x1,omitempty"`
	Y1        float64 `json:"y1,omitempty"`
	X2        float64 `json:"x2,omitempty"`
	Y2        float64 `json:"y2,omitempty"`
	Stroke    string  `json:"stroke,omitempty"`
	Fill      string  `json:"fill,omitempty"`
	Thickness float64 `json:"thickness,omitempty"`
	Selected  bool    `json:"selected"`
	Text      string  `json:"text,omitempty"`
	Size      float64 `json:"size,omitempty"`
	HAlign    int     `json:"hAlign"`
	VAlign    int     `json:"vAlign"`
	Image     string  `json:"image,omitempty"` // base64
	Handle    string  `json:"handle,omitempty"`
}

// removedView identifies an element the frontend should drop.
type removedView struct {
	ID    int    `json:"id"`
	Layer string `json:"layer"`
}

// remoteSurface is a scene.Surface that mirrors its elements to the
// frontend. It is only touched from inside the session loop, the mutex
// guards GetScene readers on other goroutines.
type remoteSurface struct {
	ctx     context.Context
	layer   string
	emitter service.EventEmitter

	mu   sync.Mutex
	mem  *scene.MemorySurface
	ids  map[scene.Element]int
	next int
}

func newRemoteSurface(ctx context.Context, layer string, emitter service.EventEmitter) *remoteSurface {
	return &remoteSurface{
		ctx:     ctx,
		layer:   layer,
		emitter: emitter,
		mem:     scene.NewMemorySurface(),
		ids:     make(map[scene.Element]int),
	}
}

func (s *remoteSurface) Add(e scene.Element) {
	s.mu.Lock()
	if s.mem.Contains(e) {
		s.mu.Unlock()
		return
	}
	s.next++
	id := s.next
	s.ids[e] = id
	s.mem.Add(e)
	view := describe(e, id, s.layer)
	s.mu.Unlock()

	s.emitter.Emit(s.ctx, "sheet:add", view)
}

func (s *remoteSurface) Remove(e scene.Element) {
	s.mu.Lock()
	id, ok := s.ids[e]
	if !ok {
		s.mu.Unlock()
		return
	}
	delete(s.ids, e)
	s.mem.Remove(e)
	s.mu.Unlock()

	s.emitter.Emit(s.ctx, "sheet:remove", removedView{ID: id, Layer: s.layer})
}

func (s *remoteSurface) Capture()         { s.mem.Capture() }
func (s *remoteSurface) ReleaseCapture()  { s.mem.ReleaseCapture() }
func (s *remoteSurface) IsCaptured() bool { return s.mem.IsCaptured() }

// Views describes every held element with its current geometry, in
// insertion order.
func (s *remoteSurface) Views() []ElementView {
	s.mu.Lock()
	defer s.mu.Unlock()
	elements := s.mem.Elements()
	views := make([]ElementView, 0, len(elements))
	for _, e := range elements {
		views = append(views, describe(e, s.ids[e], s.layer))
	}
	return views
}

// describe maps a primitive to its view.
func describe(e scene.Element, id int, layer string) ElementView {
	b := e.Bounds()
	v := ElementView{
		ID:       id,
		Layer:    layer,
		Kind:     e.Kind().String(),
		X:        b.X,
		Y:        b.Y,
		Width:    b.Width,
		Height:   b.Height,
		Selected: e.IsSelected(),
	}
	switch p := e.(type) {
	case *scene.Line:
		v.X1, v.Y1, v.X2, v.Y2 = p.X1, p.Y1, p.X2, p.Y2
		v.Stroke = cssColor(p.Stroke)
		v.Thickness = p.Thickness
	case *scene.Rectangle:
		describeShape(&v, &p.Shape)
	case *scene.Ellipse:
		describeShape(&v, &p.Shape)
	case *scene.Text:
		v.Text = p.Content
		v.Size = p.Size
		v.HAlign, v.VAlign = p.HAlign, p.VAlign
		v.Stroke = cssColor(p.Foreground)
		v.Fill = cssColor(p.Background)
	case *scene.Image:
		v.Image = base64.StdEncoding.EncodeToString(p.Data)
	case *scene.Thumb:
		v.Handle = p.Handle.String()
	}
	return v
}

func describeShape(v *ElementView, s *scene.Shape) {
	v.Stroke = cssColor(s.Stroke)
	v.Fill = cssColor(s.Fill)
	v.Thickness = s.Thickness
}

// cssColor renders a colour for the canvas, e.g. rgba(255,0,0,1.000).
func cssColor(c item.Color) string {
	if c.IsTransparent() {
		return "transparent"
	}
	return fmt.Sprintf("rgba(%d,%d,%d,%.3f)", c.R, c.G, c.B, float64(c.A)/255)
}
