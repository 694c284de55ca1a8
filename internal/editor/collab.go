package editor

import (
	"sync"

	"sheet/internal/item"
	"sheet/internal/scene"
)

// ── Collaborators ──────────────────────────────────────────

// Clipboard holds text for cut, copy and paste.
type Clipboard interface {
	Get() (string, error)
	Set(text string) error
}

// Library is the palette of reusable blocks.
type Library interface {
	Selected() *item.BlockItem
	Source() []*item.BlockItem
	SetSource(blocks []*item.BlockItem)
}

// TextEditor shows a modal prompt. Exactly one of ok or cancel is called
// when the prompt closes.
type TextEditor interface {
	Show(title, label, text string, ok func(string), cancel func())
}

// ImageSource yields the bytes of an image to insert. A nil slice with a
// nil error means the user dismissed the picker.
type ImageSource interface {
	Open() ([]byte, error)
}

// Surfaces groups the three rendering layers.
type Surfaces struct {
	Back    scene.Surface // grid and frame
	Content scene.Surface // the document
	Overlay scene.Surface // selection rect, temp shapes and thumbs
}

// ── In-memory implementations ──────────────────────────────

// MemoryClipboard is a process-local clipboard.
type MemoryClipboard struct {
	mu   sync.Mutex
	text string
}

func (c *MemoryClipboard) Get() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text, nil
}

func (c *MemoryClipboard) Set(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
	return nil
}

// MemoryLibrary keeps library blocks in memory. The selected block is the
// one at SelectedIndex, or none when it is out of range.
type MemoryLibrary struct {
	Blocks        []*item.BlockItem
	SelectedIndex int
}

func (l *MemoryLibrary) Selected() *item.BlockItem {
	if l.SelectedIndex < 0 || l.SelectedIndex >= len(l.Blocks) {
		return nil
	}
	return l.Blocks[l.SelectedIndex]
}

func (l *MemoryLibrary) Source() []*item.BlockItem { return l.Blocks }

func (l *MemoryLibrary) SetSource(blocks []*item.BlockItem) { l.Blocks = blocks }
