package editor

import (
	"context"
	"fmt"
	"log"

	"sheet/internal/item"
	"sheet/internal/scene"
)

// ── Clipboard ──────────────────────────────────────────────

// parseFunc turns text into a block tree.
type parseFunc func(text string) (*item.BlockItem, error)

// parse runs fn on a goroutine and waits for it or for ctx. The caller
// applies the result on its own goroutine.
func parse(ctx context.Context, text string, fn parseFunc) (*item.BlockItem, error) {
	type result struct {
		block *item.BlockItem
		err   error
	}
	ch := make(chan result, 1)
	go func() {
		b, err := fn(text)
		ch <- result{b, err}
	}()
	select {
	case r := <-ch:
		return r.block, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Controller) serializeSelected() *item.BlockItem {
	return scene.SerializeContents(c.selected, 0, 0, 0, 0, 0, item.Unbound, item.NameSelected)
}

// Copy puts the selection on the clipboard in text format.
func (c *Controller) Copy() {
	if !c.selected.HaveSelected() {
		return
	}
	if err := c.clipboard.Set(item.Serialize(c.serializeSelected())); err != nil {
		log.Printf("[SHEET] copy: %v", err)
	}
}

// CopyJSON puts the selection on the clipboard as JSON.
func (c *Controller) CopyJSON() {
	if !c.selected.HaveSelected() {
		return
	}
	text, err := item.ToJSON(c.serializeSelected())
	if err != nil {
		log.Printf("[SHEET] copy json: %v", err)
		return
	}
	if err := c.clipboard.Set(text); err != nil {
		log.Printf("[SHEET] copy json: %v", err)
	}
}

// Cut copies the selection and then deletes it.
func (c *Controller) Cut() {
	if !c.selected.HaveSelected() {
		return
	}
	c.FinishEdit()
	c.Copy()
	c.register("Cut")
	c.removeSelected()
}

// Paste inserts the clipboard text contents and selects them.
func (c *Controller) Paste(ctx context.Context) error {
	return c.paste(ctx, item.Deserialize)
}

// PasteJSON inserts clipboard JSON contents and selects them.
func (c *Controller) PasteJSON(ctx context.Context) error {
	return c.paste(ctx, item.FromJSON)
}

func (c *Controller) paste(ctx context.Context, fn parseFunc) error {
	text, err := c.clipboard.Get()
	if err != nil {
		return fmt.Errorf("read clipboard: %w", err)
	}
	if text == "" {
		return nil
	}
	b, err := parse(ctx, text, fn)
	if err != nil {
		log.Printf("[SHEET] paste: %v", err)
		return fmt.Errorf("parse clipboard: %w", err)
	}
	c.FinishEdit()
	c.register("Paste")
	c.InsertContent(b, true)
	return nil
}

// InsertContent adds the contents of b to the page.
func (c *Controller) InsertContent(b *item.BlockItem, selectIt bool) {
	c.deselectAll()
	scene.AddContents(c.surfaces.Content, b, c.logic, c.selected, selectIt, c.lineThickness())
}

// Add registers label and inserts the contents of b, selected. It is the
// entry point for programmatic drawing.
func (c *Controller) Add(label string, b *item.BlockItem) {
	c.FinishEdit()
	c.register(label)
	c.InsertContent(b, true)
}

// Delete removes the selection.
func (c *Controller) Delete() {
	if !c.selected.HaveSelected() {
		return
	}
	c.FinishEdit()
	c.register("Delete")
	c.removeSelected()
}

func (c *Controller) removeSelected() {
	scene.RemoveSelected(c.surfaces.Content, c.logic, c.selected.ShallowCopy())
	c.deselectAll()
}

// MoveSelected offsets the selection, typically by one snap step.
func (c *Controller) MoveSelected(dx, dy float64) {
	if !c.selected.HaveSelected() || (dx == 0 && dy == 0) {
		return
	}
	c.FinishEdit()
	c.register("Move")
	c.selected.Move(dx, dy)
}
