package editor

import "sheet/internal/scene"

// ── Edit mode ──────────────────────────────────────────────
// A single selected line, rectangle, ellipse, text or image gets drag
// handles on the overlay. Line ends follow their attached points.

type editState struct {
	line   *scene.Line
	shape  *scene.Shape
	text   *scene.Text
	image  *scene.Image
	thumbs []*scene.Thumb
	drag   *thumbDrag
}

func (e *editState) active() bool {
	return e.line != nil || e.shape != nil || e.text != nil || e.image != nil
}

// thumbDrag accumulates the pointer offset from the press so each update
// starts again from the original geometry.
type thumbDrag struct {
	handle     scene.ThumbKind
	start      scene.Vec
	origin     scene.Rect
	x1, y1     float64
	x2, y2     float64
	dx, dy     float64
	registered bool
}

// EditTarget returns the primitive being edited, or nil.
func (c *Controller) EditTarget() scene.Element {
	switch {
	case c.edit.line != nil:
		return c.edit.line
	case c.edit.text != nil:
		return c.edit.text
	case c.edit.image != nil:
		return c.edit.image
	case c.edit.shape != nil:
		for _, r := range c.selected.Rectangles {
			if &r.Shape == c.edit.shape {
				return r
			}
		}
		for _, e := range c.selected.Ellipses {
			if &e.Shape == c.edit.shape {
				return e
			}
		}
	}
	return nil
}

// Thumbs returns the drag handles currently shown.
func (c *Controller) Thumbs() []*scene.Thumb { return c.edit.thumbs }

func (c *Controller) tryToEditSelected() bool {
	s := c.selected
	switch {
	case s.HaveOneLineSelected():
		c.edit.line = s.Lines[0]
	case s.HaveOneRectangleSelected():
		c.edit.shape = &s.Rectangles[0].Shape
	case s.HaveOneEllipseSelected():
		c.edit.shape = &s.Ellipses[0].Shape
	case s.HaveOneTextSelected():
		c.edit.text = s.Texts[0]
	case s.HaveOneImageSelected():
		c.edit.image = s.Images[0]
	default:
		return false
	}
	c.StoreTempMode()
	c.mode.current = ModeEdit
	c.showThumbs()
	return true
}

// FinishEdit leaves Edit mode and removes the handles.
func (c *Controller) FinishEdit() {
	if c.mode.current != ModeEdit {
		return
	}
	if c.edit.drag != nil {
		c.EndThumbDrag()
	}
	c.RestoreTempMode()
	for _, th := range c.edit.thumbs {
		c.surfaces.Overlay.Remove(th)
	}
	c.edit = editState{}
}

func (c *Controller) showThumbs() {
	if c.edit.line != nil {
		c.edit.thumbs = []*scene.Thumb{
			{Handle: scene.ThumbStart},
			{Handle: scene.ThumbEnd},
		}
	} else {
		c.edit.thumbs = []*scene.Thumb{
			{Handle: scene.ThumbTopLeft},
			{Handle: scene.ThumbTopRight},
			{Handle: scene.ThumbBottomLeft},
			{Handle: scene.ThumbBottomRight},
		}
	}
	c.updateThumbs()
	for _, th := range c.edit.thumbs {
		c.surfaces.Overlay.Add(th)
	}
}

func (c *Controller) updateThumbs() {
	if l := c.edit.line; l != nil {
		c.edit.thumbs[0].X, c.edit.thumbs[0].Y = l.X1, l.Y1
		c.edit.thumbs[1].X, c.edit.thumbs[1].Y = l.X2, l.Y2
		return
	}
	r := c.editBounds()
	for _, th := range c.edit.thumbs {
		switch th.Handle {
		case scene.ThumbTopLeft:
			th.X, th.Y = r.X, r.Y
		case scene.ThumbTopRight:
			th.X, th.Y = r.Right(), r.Y
		case scene.ThumbBottomLeft:
			th.X, th.Y = r.X, r.Bottom()
		case scene.ThumbBottomRight:
			th.X, th.Y = r.Right(), r.Bottom()
		}
	}
}

func (c *Controller) editBounds() scene.Rect {
	switch {
	case c.edit.shape != nil:
		return c.edit.shape.Bounds()
	case c.edit.text != nil:
		return c.edit.text.Bounds()
	case c.edit.image != nil:
		return c.edit.image.Bounds()
	}
	return scene.Rect{}
}

func (c *Controller) setEditBounds(r scene.Rect) {
	switch {
	case c.edit.shape != nil:
		c.edit.shape.SetBounds(r)
	case c.edit.text != nil:
		t := c.edit.text
		t.X, t.Y, t.Width, t.Height = r.X, r.Y, r.Width, r.Height
	case c.edit.image != nil:
		i := c.edit.image
		i.X, i.Y, i.Width, i.Height = r.X, r.Y, r.Width, r.Height
	}
}

func (c *Controller) thumbAt(p scene.Vec) *scene.Thumb {
	probe := scene.ProbeRect(p, c.opts.HitTestSize)
	for _, th := range c.edit.thumbs {
		if probe.Intersects(th.Bounds()) {
			return th
		}
	}
	return nil
}

func (c *Controller) beginThumbDrag(handle scene.ThumbKind, p scene.Vec) {
	d := &thumbDrag{handle: handle, start: p, origin: c.editBounds()}
	if l := c.edit.line; l != nil {
		d.x1, d.y1, d.x2, d.y2 = l.X1, l.Y1, l.X2, l.Y2
	}
	c.edit.drag = d
	c.surfaces.Overlay.Capture()
}

// DragThumb moves a handle of the edited primitive by dx, dy. Successive
// calls accumulate until EndThumbDrag.
func (c *Controller) DragThumb(handle scene.ThumbKind, dx, dy float64) bool {
	if c.mode.current != ModeEdit {
		return false
	}
	if d := c.edit.drag; d == nil || d.handle != handle {
		if d != nil {
			c.EndThumbDrag()
		}
		c.beginThumbDrag(handle, scene.Vec{})
	}
	c.edit.drag.dx += dx
	c.edit.drag.dy += dy
	c.applyThumbDrag()
	return true
}

// EndThumbDrag completes a handle drag.
func (c *Controller) EndThumbDrag() {
	c.edit.drag = nil
	c.surfaces.Overlay.ReleaseCapture()
}

func (c *Controller) applyThumbDrag() {
	d := c.edit.drag
	if !d.registered {
		if d.dx == 0 && d.dy == 0 {
			return
		}
		c.register("Edit")
		d.registered = true
	}

	if l := c.edit.line; l != nil {
		switch d.handle {
		case scene.ThumbStart:
			x, y := c.snap(d.x1+d.dx), c.snap(d.y1+d.dy)
			if l.Start != nil {
				l.Start.MoveTo(x, y)
			} else {
				l.X1, l.Y1 = x, y
			}
		case scene.ThumbEnd:
			x, y := c.snap(d.x2+d.dx), c.snap(d.y2+d.dy)
			if l.End != nil {
				l.End.MoveTo(x, y)
			} else {
				l.X2, l.Y2 = x, y
			}
		}
		c.updateThumbs()
		return
	}

	o := d.origin
	r := o
	left := func() {
		r.X = min(c.snap(o.X+d.dx), o.Right())
		r.Width = o.Right() - r.X
	}
	top := func() {
		r.Y = min(c.snap(o.Y+d.dy), o.Bottom())
		r.Height = o.Bottom() - r.Y
	}
	right := func() { r.Width = max(0, c.snap(o.Right()+d.dx)-o.X) }
	bottom := func() { r.Height = max(0, c.snap(o.Bottom()+d.dy)-o.Y) }

	switch d.handle {
	case scene.ThumbTopLeft:
		left()
		top()
	case scene.ThumbTopRight:
		right()
		top()
	case scene.ThumbBottomLeft:
		left()
		bottom()
	case scene.ThumbBottomRight:
		right()
		bottom()
	}
	c.setEditBounds(r)
	c.updateThumbs()
}
