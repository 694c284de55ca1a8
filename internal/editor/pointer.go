package editor

import "sheet/internal/scene"

// ── Pointer events ─────────────────────────────────────────

// LeftDown handles a primary button press.
func (c *Controller) LeftDown(in Input) {
	p := in.Point
	if c.mode.current == ModeEdit {
		if th := c.thumbAt(p); th != nil {
			c.beginThumbDrag(th.Handle, p)
			return
		}
		c.deselectAll()
		c.FinishEdit()
	}

	switch c.mode.current {
	case ModeNone, ModeTextEditor:
		return
	}

	if !in.Ctrl {
		if c.selected.HaveSelected() && c.canInitMove(p) {
			c.initMove(p)
			return
		}
		c.deselectAll()
	}

	resetSelected := !(in.Ctrl && c.selected.HaveSelected())

	switch c.mode.current {
	case ModeSelection:
		hit := scene.HitTestClick(c.logic, c.selected, p, c.opts.HitTestSize, false, resetSelected)
		if (in.Ctrl || !c.selected.HaveSelected()) && !hit {
			c.initSelectionRect(p)
		} else if in.Ctrl || !c.tryToEditSelected() {
			c.initMove(p)
		}
	case ModeInsert:
		if b := c.library.Selected(); b != nil {
			c.Insert(b, p, false)
		}
	case ModePoint:
		c.InsertPoint(p, true, false)
	case ModeLine:
		if !c.IsCaptured() {
			c.initLine(p, in.Ctrl)
		} else {
			c.finishLine(p, in.Ctrl)
		}
	case ModeRectangle:
		if !c.IsCaptured() {
			c.initRectangle(p)
		} else {
			c.finishRectangle(p)
		}
	case ModeEllipse:
		if !c.IsCaptured() {
			c.initEllipse(p)
		} else {
			c.finishEllipse(p)
		}
	case ModePan:
		c.finishPan()
	case ModeText:
		c.CreateText(p)
	case ModeImage:
		c.InsertImage(p)
	}
}

// LeftUp handles a primary button release.
func (c *Controller) LeftUp(in Input) {
	if c.mode.current == ModeEdit {
		if c.edit.drag != nil {
			c.EndThumbDrag()
		}
		return
	}
	if c.selectionRect != nil {
		c.finishSelectionRect(in.Ctrl)
		return
	}
	if c.mode.current == ModeMove {
		c.finishMove()
	}
}

// Move handles pointer motion.
func (c *Controller) Move(in Input) {
	p := in.Point
	if c.mode.current == ModeEdit {
		if d := c.edit.drag; d != nil {
			d.dx = p.X - d.start.X
			d.dy = p.Y - d.start.Y
			c.applyThumbDrag()
		}
		return
	}

	if in.Shift && c.selectionRect == nil && !c.IsCaptured() {
		c.deselectAll()
		scene.HitTestClick(c.logic, c.selected, p, c.opts.HitTestSize, false, false)
	}

	if c.selectionRect != nil {
		c.moveSelectionRect(p)
		return
	}

	switch c.mode.current {
	case ModeLine:
		if c.tempLine != nil {
			c.moveLine(p)
		}
	case ModeRectangle:
		if c.tempRect != nil {
			c.tempRect.SetBounds(scene.RectFromPoints(c.shapeStart, c.snapVec(p)))
		}
	case ModeEllipse:
		if c.tempEllipse != nil {
			c.tempEllipse.SetBounds(scene.RectFromPoints(c.shapeStart, c.snapVec(p)))
		}
	case ModePan:
		c.movePan(in.Root)
	case ModeMove:
		c.moveSelected(p)
	}
}

// RightDown handles a secondary button press.
func (c *Controller) RightDown(in Input) {
	switch c.mode.current {
	case ModeNone, ModeTextEditor:
		return
	case ModeEdit:
		c.deselectAll()
		c.FinishEdit()
		return
	case ModeText:
		if c.TryToEditText(in.Point) {
			return
		}
	}

	c.deselectAll()
	if c.IsCaptured() {
		c.cancelCaptured()
		return
	}
	c.initPan(in.Root)
}

// RightUp handles a secondary button release.
func (c *Controller) RightUp(in Input) {
	if c.mode.current == ModePan {
		c.finishPan()
	}
}

// cancelCaptured abandons whatever gesture holds the overlay.
func (c *Controller) cancelCaptured() {
	switch {
	case c.selectionRect != nil:
		c.cancelSelectionRect()
	case c.tempLine != nil:
		c.cancelLine()
	case c.tempRect != nil:
		c.cancelRectangle()
	case c.tempEllipse != nil:
		c.cancelEllipse()
	case c.mode.current == ModeMove:
		c.finishMove()
	case c.mode.current == ModePan:
		c.finishPan()
	case c.edit.drag != nil:
		c.EndThumbDrag()
	default:
		c.surfaces.Overlay.ReleaseCapture()
	}
}

// ─── selection rectangle ───────────────────────────────────

func (c *Controller) initSelectionRect(p scene.Vec) {
	c.selectionStart = p
	c.selectionRect = &scene.Rectangle{Shape: scene.Shape{
		X: p.X, Y: p.Y,
		Stroke: scene.SelectionStroke, Fill: scene.SelectionFill,
		Thickness: c.opts.SelectionThickness / c.view.Zoom,
	}}
	c.surfaces.Overlay.Add(c.selectionRect)
	c.surfaces.Overlay.Capture()
}

func (c *Controller) moveSelectionRect(p scene.Vec) {
	c.selectionRect.SetBounds(scene.RectFromPoints(c.selectionStart, p))
}

func (c *Controller) finishSelectionRect(ctrl bool) {
	r := c.selectionRect.Bounds()
	c.cancelSelectionRect()
	scene.HitTestSelectionRect(c.logic, c.selected, r, !ctrl)
	if !ctrl {
		c.tryToEditSelected()
	}
}

func (c *Controller) cancelSelectionRect() {
	c.surfaces.Overlay.Remove(c.selectionRect)
	c.surfaces.Overlay.ReleaseCapture()
	c.selectionRect = nil
}

// ─── move ──────────────────────────────────────────────────

// canInitMove reports whether p is over something already selected.
func (c *Controller) canInitMove(p scene.Vec) bool {
	probe := scene.NewProbe()
	if !scene.HitTestClick(c.logic, probe, p, c.opts.HitTestSize, false, true) {
		return false
	}
	return c.selected.Overlaps(probe)
}

func (c *Controller) initMove(p scene.Vec) {
	c.mode.store()
	c.mode.current = ModeMove
	c.moveStart = c.snapVec(p)
	c.isFirstMove = true
	c.moving = nil
	c.surfaces.Overlay.Capture()
}

func (c *Controller) moveSelected(p scene.Vec) {
	s := c.snapVec(p)
	dx, dy := s.X-c.moveStart.X, s.Y-c.moveStart.Y
	if dx == 0 && dy == 0 {
		return
	}
	if c.isFirstMove {
		c.moving = c.selected.ShallowCopy()
		c.register("Move")
		c.isFirstMove = false
	}
	c.moving.Move(dx, dy)
	c.moveStart = s
}

func (c *Controller) finishMove() {
	c.RestoreTempMode()
	c.surfaces.Overlay.ReleaseCapture()
	c.moving = nil
}

// ─── pan ───────────────────────────────────────────────────

func (c *Controller) initPan(root scene.Vec) {
	c.mode.store()
	c.mode.current = ModePan
	c.panStart = root
	c.surfaces.Overlay.Capture()
}

func (c *Controller) movePan(root scene.Vec) {
	c.view.PanX += root.X - c.panStart.X
	c.view.PanY += root.Y - c.panStart.Y
	c.panStart = root
}

func (c *Controller) finishPan() {
	c.RestoreTempMode()
	c.surfaces.Overlay.ReleaseCapture()
}
