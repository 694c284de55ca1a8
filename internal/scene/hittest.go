package scene

// ── Hit-testing ────────────────────────────────────────────
// Click tests are exclusive: the first kind with any hit wins and only its
// first member is toggled. Rectangle tests toggle everything they touch.

// HitTestClick toggles the first primitive under p into sel. Kinds are
// tried in the order points, texts, images, lines, rectangles, ellipses,
// blocks. With selectInsideBlock, hits inside nested blocks select the
// inner primitive instead of the whole block.
func HitTestClick(parent Container, sel *Selection, p Vec, size float64, selectInsideBlock, resetSelected bool) bool {
	if resetSelected {
		sel.Init()
	} else {
		sel.ReInit()
	}

	r := ProbeRect(p, size)
	c := parent.contents()
	result := hitTest(c.points, sel, r, true, true) ||
		hitTest(c.texts, sel, r, true, true) ||
		hitTest(c.images, sel, r, true, true) ||
		hitTest(c.lines, sel, r, true, true) ||
		hitTest(c.rectangles, sel, r, true, true) ||
		hitTest(c.ellipses, sel, r, true, true) ||
		hitTestBlocks(c.blocks, sel, r, true, true, selectInsideBlock)

	sel.Clean()
	return result
}

// HitTestSelectionRect toggles every primitive and top-level block that
// intersects r.
func HitTestSelectionRect(parent Container, sel *Selection, r Rect, resetSelected bool) {
	if resetSelected {
		sel.Init()
	} else {
		sel.ReInit()
	}

	c := parent.contents()
	hitTest(c.points, sel, r, false, true)
	hitTest(c.lines, sel, r, false, true)
	hitTest(c.rectangles, sel, r, false, true)
	hitTest(c.ellipses, sel, r, false, true)
	hitTest(c.texts, sel, r, false, true)
	hitTest(c.images, sel, r, false, true)
	hitTestBlocks(c.blocks, sel, r, false, true, false)

	sel.Clean()
}

// HitTestForBlocks selects the first top-level block under p.
func HitTestForBlocks(parent Container, sel *Selection, p Vec, size float64) bool {
	sel.Init()
	result := hitTestBlocks(parent.contents().blocks, sel, ProbeRect(p, size), true, true, false)
	sel.Clean()
	return result
}

func hitTest[T Element](list []T, sel *Selection, r Rect, onlyFirst, toggle bool) bool {
	hit := false
	for _, e := range list {
		if !r.Intersects(e.Bounds()) {
			continue
		}
		if toggle {
			sel.Toggle(e)
		}
		if onlyFirst {
			return true
		}
		hit = true
	}
	return hit
}

// hitTestBlocks reports whether any block has content under r. With
// toggle set and selectInsideBlock unset each hit block flips as a unit.
func hitTestBlocks(blocks []*Block, sel *Selection, r Rect, onlyFirst, toggle, selectInsideBlock bool) bool {
	hit := false
	for _, b := range blocks {
		if !hitTestBlock(b, sel, r, selectInsideBlock) {
			continue
		}
		if toggle && !selectInsideBlock {
			sel.ToggleBlock(b)
		}
		if onlyFirst {
			return true
		}
		hit = true
	}
	return hit
}

// hitTestBlock probes the contents of one block. Inner primitives are
// toggled only when selectInsideBlock is set.
func hitTestBlock(b *Block, sel *Selection, r Rect, selectInsideBlock bool) bool {
	return hitTest(b.Points, sel, r, true, selectInsideBlock) ||
		hitTest(b.Texts, sel, r, true, selectInsideBlock) ||
		hitTest(b.Images, sel, r, true, selectInsideBlock) ||
		hitTest(b.Lines, sel, r, true, selectInsideBlock) ||
		hitTest(b.Rectangles, sel, r, true, selectInsideBlock) ||
		hitTest(b.Ellipses, sel, r, true, selectInsideBlock) ||
		hitTestBlocks(b.Blocks, sel, r, true, selectInsideBlock, selectInsideBlock)
}
