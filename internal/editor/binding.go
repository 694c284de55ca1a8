package editor

import (
	"strconv"

	"sheet/internal/item"
	"sheet/internal/scene"
)

// ── Data binding ───────────────────────────────────────────
// A data row binds to a block whose texts line up with the row's columns
// after the leading id column.

// BindData copies data into b. It fails when the text count does not match
// the columns or the id is not an integer.
func BindData(b *scene.Block, data item.DataItem) bool {
	id, ok := rowID(len(b.Texts), data)
	if !ok {
		return false
	}
	b.DataID = id
	for i, t := range b.Texts {
		t.Content = data.Data[i+1]
	}
	return true
}

// rowID returns the id of data when it fits a block with texts texts.
func rowID(texts int, data item.DataItem) (int, bool) {
	if len(data.Columns) == 0 || texts != len(data.Columns)-1 || len(data.Data) < len(data.Columns) {
		return 0, false
	}
	id, err := strconv.Atoi(data.Data[0])
	if err != nil {
		return 0, false
	}
	return id, true
}

// BindDataToBlock binds data to the top-level block under p.
func (c *Controller) BindDataToBlock(p scene.Vec, data item.DataItem) bool {
	probe := scene.NewProbe()
	if !scene.HitTestForBlocks(c.logic, probe, p, c.opts.HitTestSize) || len(probe.Blocks) != 1 {
		return false
	}
	b := probe.Blocks[0]
	if _, ok := rowID(len(b.Texts), data); !ok {
		return false
	}
	c.register("Bind Data")
	BindData(b, data)
	c.deselectAll()
	c.selected.SelectBlock(b)
	return true
}

// TryToBindData binds to the block under p, or inserts the selected
// library block at p and binds to that. Nothing is inserted when the
// library block does not fit the data.
func (c *Controller) TryToBindData(p scene.Vec, data item.DataItem) bool {
	if c.BindDataToBlock(p, data) {
		return true
	}
	lib := c.library.Selected()
	if lib == nil {
		return false
	}
	if _, ok := rowID(len(lib.Texts), data); !ok {
		return false
	}
	b := c.Insert(lib, p, false)
	BindData(b, data)
	c.selected.SelectBlock(b)
	return true
}
