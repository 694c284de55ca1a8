package editor

import (
	"context"
	"fmt"
	"log"

	"sheet/internal/item"
	"sheet/internal/scene"
)

// ── Page ───────────────────────────────────────────────────

// reset empties the page and leaves no gesture in progress.
func (c *Controller) reset() {
	c.FinishEdit()
	if c.IsCaptured() {
		c.cancelCaptured()
	}
	c.deselectAll()
	scene.ResetBlock(c.surfaces.Content, c.logic)
}

func (c *Controller) load(b *item.BlockItem) {
	scene.AddContents(c.surfaces.Content, b, c.logic, nil, false, c.lineThickness())
}

// NewPage clears the page.
func (c *Controller) NewPage() {
	c.register("New")
	c.reset()
}

// OpenText replaces the page with the contents of text.
func (c *Controller) OpenText(ctx context.Context, text string) error {
	return c.open(ctx, "Open Text", text, item.Deserialize)
}

// OpenJSON replaces the page with the contents of a JSON document.
func (c *Controller) OpenJSON(ctx context.Context, text string) error {
	return c.open(ctx, "Open Json", text, item.FromJSON)
}

func (c *Controller) open(ctx context.Context, label, text string, fn parseFunc) error {
	b, err := parse(ctx, text, fn)
	if err != nil {
		log.Printf("[SHEET] %s: %v", label, err)
		return fmt.Errorf("parse page: %w", err)
	}
	c.register(label)
	c.reset()
	c.load(contentOf(b))
	return nil
}

// contentOf returns the CONTENT part of a wrapped page, or b itself when
// it is a bare block list. Blocks a user named CONTENT or PAGE stay content.
func contentOf(b *item.BlockItem) *item.BlockItem {
	if !item.IsWrappedPage(b) {
		return b
	}
	if content := item.UnwrapPage(b).Content; content != nil {
		return content
	}
	return b
}

// SerializeContent returns the page contents as text.
func (c *Controller) SerializeContent() string {
	s, _ := c.Snapshot()
	return s
}

// PageItem snapshots grid, frame and content.
func (c *Controller) PageItem() item.Page {
	return item.Page{
		Grid:    scene.SerializeBlock(c.grid),
		Frame:   scene.SerializeBlock(c.frame),
		Content: scene.SerializeBlock(c.logic),
	}
}

// SerializePage returns the page wrapped as PAGE with GRID, FRAME and
// CONTENT children.
func (c *Controller) SerializePage() string {
	return item.SerializeBlock(item.WrapPage(c.PageItem()))
}

// ExportPage is the page prepared for export writers.
func (c *Controller) ExportPage() item.Page {
	p := c.PageItem()
	return scene.ExportPage(p.Content, p.Frame, p.Grid)
}

// SetPage loads a stored page and starts a fresh history.
func (c *Controller) SetPage(text string) error {
	b, err := item.Deserialize(text)
	if err != nil {
		return fmt.Errorf("set page: %w", err)
	}
	c.reset()
	c.load(contentOf(b))
	c.history.Reset()
	return nil
}
