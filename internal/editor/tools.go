package editor

import (
	"log"

	"sheet/internal/item"
	"sheet/internal/scene"
)

// ── Drawing tools ──────────────────────────────────────────
// Each tool is Init on the first press, Move while captured, and Finish on
// the second press. Cancel and Finish both release the overlay.

// ─── line ──────────────────────────────────────────────────

// tryToFindPoint returns the connection point under p, if exactly one.
func (c *Controller) tryToFindPoint(p scene.Vec) *scene.Point {
	probe := scene.NewProbe()
	scene.HitTestClick(c.logic, probe, p, c.opts.HitTestSize, true, false)
	if probe.HaveOnePointSelected() {
		return probe.Points[0]
	}
	return nil
}

func (c *Controller) initLine(p scene.Vec, ctrl bool) {
	start := c.snapVec(p)
	point := c.tryToFindPoint(p)
	switch {
	case point != nil:
		start = scene.Vec{X: point.X, Y: point.Y}
	case ctrl:
		point = c.InsertPoint(start, true, false)
	}
	c.tempStart = point
	c.tempLine = &scene.Line{
		X1: start.X, Y1: start.Y, X2: start.X, Y2: start.Y,
		Stroke: item.Black, Thickness: c.lineThickness(),
	}
	c.surfaces.Overlay.Add(c.tempLine)
	c.surfaces.Overlay.Capture()
}

func (c *Controller) moveLine(p scene.Vec) {
	end := c.snapVec(p)
	c.tempLine.X2, c.tempLine.Y2 = end.X, end.Y
}

func (c *Controller) finishLine(p scene.Vec, ctrl bool) {
	l, start := c.tempLine, c.tempStart
	end := c.snapVec(p)
	point := c.tryToFindPoint(p)
	if point != nil {
		end = scene.Vec{X: point.X, Y: point.Y}
	}
	l.X2, l.Y2 = end.X, end.Y
	c.cancelLine()

	if l.IsDegenerate() {
		return
	}
	if point == nil && ctrl {
		point = c.InsertPoint(end, true, false)
	}

	c.register("Create Line")
	c.logic.Lines = append(c.logic.Lines, l)
	if start != nil {
		l.AttachStart(start)
	}
	if point != nil {
		l.AttachEnd(point)
	}
	c.surfaces.Content.Add(l)
}

func (c *Controller) cancelLine() {
	c.surfaces.Overlay.Remove(c.tempLine)
	c.surfaces.Overlay.ReleaseCapture()
	c.tempLine = nil
	c.tempStart = nil
}

// ─── rectangle / ellipse ───────────────────────────────────

func (c *Controller) newShape(p scene.Vec) scene.Shape {
	c.shapeStart = c.snapVec(p)
	return scene.Shape{
		X: c.shapeStart.X, Y: c.shapeStart.Y,
		Stroke: item.Black, Fill: item.Transparent, Thickness: c.lineThickness(),
	}
}

func (c *Controller) initRectangle(p scene.Vec) {
	c.tempRect = &scene.Rectangle{Shape: c.newShape(p)}
	c.surfaces.Overlay.Add(c.tempRect)
	c.surfaces.Overlay.Capture()
}

func (c *Controller) finishRectangle(p scene.Vec) {
	r := c.tempRect
	r.SetBounds(scene.RectFromPoints(c.shapeStart, c.snapVec(p)))
	c.cancelRectangle()
	if r.Width == 0 || r.Height == 0 {
		return
	}
	c.register("Create Rectangle")
	c.logic.Rectangles = append(c.logic.Rectangles, r)
	c.surfaces.Content.Add(r)
}

func (c *Controller) cancelRectangle() {
	c.surfaces.Overlay.Remove(c.tempRect)
	c.surfaces.Overlay.ReleaseCapture()
	c.tempRect = nil
}

func (c *Controller) initEllipse(p scene.Vec) {
	c.tempEllipse = &scene.Ellipse{Shape: c.newShape(p)}
	c.surfaces.Overlay.Add(c.tempEllipse)
	c.surfaces.Overlay.Capture()
}

func (c *Controller) finishEllipse(p scene.Vec) {
	e := c.tempEllipse
	e.SetBounds(scene.RectFromPoints(c.shapeStart, c.snapVec(p)))
	c.cancelEllipse()
	if e.Width == 0 || e.Height == 0 {
		return
	}
	c.register("Create Ellipse")
	c.logic.Ellipses = append(c.logic.Ellipses, e)
	c.surfaces.Content.Add(e)
}

func (c *Controller) cancelEllipse() {
	c.surfaces.Overlay.Remove(c.tempEllipse)
	c.surfaces.Overlay.ReleaseCapture()
	c.tempEllipse = nil
}

// ToggleFill flips the fill of the shape being drawn, or of every selected
// rectangle and ellipse.
func (c *Controller) ToggleFill() {
	switch {
	case c.tempRect != nil:
		c.tempRect.ToggleFill()
		return
	case c.tempEllipse != nil:
		c.tempEllipse.ToggleFill()
		return
	}
	if len(c.selected.Rectangles) == 0 && len(c.selected.Ellipses) == 0 {
		return
	}
	c.register("Toggle Fill")
	for _, r := range c.selected.Rectangles {
		r.ToggleFill()
	}
	for _, e := range c.selected.Ellipses {
		e.ToggleFill()
	}
}

// ─── point ─────────────────────────────────────────────────

// InsertPoint adds a connection point at the snapped p.
func (c *Controller) InsertPoint(p scene.Vec, register, selectIt bool) *scene.Point {
	s := c.snapVec(p)
	if register {
		c.deselectAll()
		c.register("Insert Point")
	}
	point := &scene.Point{X: s.X, Y: s.Y}
	c.logic.Points = append(c.logic.Points, point)
	c.surfaces.Content.Add(point)
	if selectIt {
		c.selected.Select(point)
	}
	return point
}

// ─── text ──────────────────────────────────────────────────

// CreateText adds a default text box at the snapped p.
func (c *Controller) CreateText(p scene.Vec) *scene.Text {
	s := c.snapVec(p)
	c.register("Create Text")
	t := &scene.Text{
		X: s.X, Y: s.Y, Width: 30, Height: 15,
		HAlign: item.AlignCenter, VAlign: item.AlignCenter, Size: 11,
		Foreground: item.Black, Background: item.Transparent,
		Content: "Text",
	}
	c.logic.Texts = append(c.logic.Texts, t)
	c.surfaces.Content.Add(t)
	return t
}

// TryToEditText opens the text editor for the single text under p.
func (c *Controller) TryToEditText(p scene.Vec) bool {
	if c.textEditor == nil {
		return false
	}
	probe := scene.NewProbe()
	scene.HitTestClick(c.logic, probe, p, c.opts.HitTestSize, true, false)
	if !probe.HaveOneTextSelected() {
		return false
	}
	t := probe.Texts[0]

	c.StoreTempMode()
	c.mode.current = ModeTextEditor
	c.textEditor.Show("Edit Text", "Text:", t.Content,
		func(text string) {
			c.register("Edit Text")
			t.Content = text
			c.RestoreTempMode()
		},
		c.RestoreTempMode,
	)
	return true
}

// ─── image ─────────────────────────────────────────────────

// InsertImage asks the image source for bytes and places them at p.
func (c *Controller) InsertImage(p scene.Vec) *scene.Image {
	if c.images == nil {
		return nil
	}
	data, err := c.images.Open()
	if err != nil {
		log.Printf("[SHEET] open image: %v", err)
		return nil
	}
	if len(data) == 0 {
		return nil
	}
	s := c.snapVec(p)
	c.register("Insert Image")
	img := &scene.Image{X: s.X, Y: s.Y, Width: 120, Height: 90, Data: data}
	c.logic.Images = append(c.logic.Images, img)
	c.surfaces.Content.Add(img)
	return img
}
