package editor

import (
	"context"
	"fmt"
	"log"

	"sheet/internal/item"
	"sheet/internal/scene"
)

// ── Block library ──────────────────────────────────────────

// Insert places a copy of the library block b with its origin at the
// snapped p.
func (c *Controller) Insert(b *item.BlockItem, p scene.Vec, selectIt bool) *scene.Block {
	s := c.snapVec(p)
	c.deselectAll()
	c.register("Insert Block")
	block := scene.InsertBlock(c.surfaces.Content, c.logic, b, c.selected, selectIt, c.lineThickness())
	block.Move(s.X, s.Y)
	return block
}

// CreateBlock prompts for a name and adds the selection to the library as
// a new block. The page itself is not changed.
func (c *Controller) CreateBlock() {
	if !c.selected.HaveSelected() || c.textEditor == nil {
		return
	}
	c.FinishEdit()
	c.StoreTempMode()
	c.mode.current = ModeTextEditor
	c.textEditor.Show("Create Block", "Name:", "BLOCK0",
		func(name string) {
			b := scene.SerializeContents(c.selected, 0, 0, 0, 0, 0, item.Unbound, name)
			c.AddToLibrary(b)
			c.RestoreTempMode()
		},
		c.RestoreTempMode,
	)
}

// BreakBlock replaces the selection by its contents with the selected
// blocks dissolved one level.
func (c *Controller) BreakBlock(ctx context.Context) error {
	if !c.selected.HaveSelected() {
		return nil
	}
	text := item.Serialize(c.serializeSelected())
	b, err := parse(ctx, text, item.Deserialize)
	if err != nil {
		log.Printf("[SHEET] break block: %v", err)
		return fmt.Errorf("break block: %w", err)
	}
	c.FinishEdit()
	c.register("Break Block")
	scene.RemoveSelected(c.surfaces.Content, c.logic, c.selected.ShallowCopy())
	c.deselectAll()
	scene.AddBroken(c.surfaces.Content, b, c.logic, c.selected, true, c.lineThickness())
	return nil
}

// AddToLibrary normalises b to the page origin and appends it.
func (c *Controller) AddToLibrary(b *item.BlockItem) {
	item.ResetPosition(b, c.opts.PageOriginX, c.opts.PageOriginY, c.opts.PageWidth, c.opts.PageHeight)
	c.library.SetSource(append(c.library.Source(), b))
}

// LoadLibrary replaces the library with the top-level blocks of text.
func (c *Controller) LoadLibrary(ctx context.Context, text string) error {
	b, err := parse(ctx, text, item.Deserialize)
	if err != nil {
		log.Printf("[SHEET] load library: %v", err)
		return fmt.Errorf("load library: %w", err)
	}
	c.library.SetSource(b.Blocks)
	return nil
}

// LibraryText serialises the library as a list of blocks.
func (c *Controller) LibraryText() string {
	root := item.NewBlockItem(0, 0, 0, 0, 0, item.Unbound, "")
	root.Blocks = c.library.Source()
	return item.Serialize(root)
}
