package history

import (
	"errors"
	"fmt"
)

// ── Undo/redo ──────────────────────────────────────────────
// Whole-document snapshots on two stacks. A new registration after an
// undo drops the redo future.

// ErrEmpty is returned by Undo/Redo when there is nothing to apply.
var ErrEmpty = errors.New("history is empty")

// Snapshotter captures and restores the live document as text.
type Snapshotter interface {
	Snapshot() (string, error)
	Restore(snapshot string) error
}

// Recorder mirrors every registration somewhere durable.
type Recorder interface {
	Record(label, snapshot string) error
}

// Entry is one saved document state.
type Entry struct {
	Label    string `json:"label"`
	Snapshot string `json:"snapshot"`
}

// History is owned by the editor loop; it is not safe for concurrent use.
type History struct {
	doc      Snapshotter
	recorder Recorder
	limit    int
	undos    []Entry
	redos    []Entry
}

// New creates a History over doc. limit <= 0 keeps every entry.
func New(doc Snapshotter, limit int) *History {
	return &History{doc: doc, limit: limit}
}

// SetRecorder installs (or with nil removes) the durable mirror.
func (h *History) SetRecorder(r Recorder) { h.recorder = r }

// Recorder returns the installed mirror, or nil.
func (h *History) Recorder() Recorder { return h.recorder }

// Register snapshots the current document under label. Call it before
// mutating.
func (h *History) Register(label string) error {
	snapshot, err := h.doc.Snapshot()
	if err != nil {
		return fmt.Errorf("snapshot %q: %w", label, err)
	}
	h.undos = append(h.undos, Entry{Label: label, Snapshot: snapshot})
	h.redos = nil
	h.prune()
	if h.recorder != nil {
		if err := h.recorder.Record(label, snapshot); err != nil {
			return fmt.Errorf("record %q: %w", label, err)
		}
	}
	return nil
}

func (h *History) prune() {
	if h.limit > 0 && len(h.undos) > h.limit {
		h.undos = append([]Entry(nil), h.undos[len(h.undos)-h.limit:]...)
	}
}

// Undo restores the most recent snapshot and keeps the current state for
// Redo.
func (h *History) Undo() (Entry, error) {
	return h.step(&h.undos, &h.redos)
}

// Redo re-applies the most recently undone state.
func (h *History) Redo() (Entry, error) {
	return h.step(&h.redos, &h.undos)
}

func (h *History) step(from, to *[]Entry) (Entry, error) {
	if len(*from) == 0 {
		return Entry{}, ErrEmpty
	}
	current, err := h.doc.Snapshot()
	if err != nil {
		return Entry{}, fmt.Errorf("snapshot current: %w", err)
	}
	entry := (*from)[len(*from)-1]
	if err := h.doc.Restore(entry.Snapshot); err != nil {
		return Entry{}, fmt.Errorf("restore %q: %w", entry.Label, err)
	}
	*from = (*from)[:len(*from)-1]
	*to = append(*to, Entry{Label: entry.Label, Snapshot: current})
	return entry, nil
}

func (h *History) CanUndo() bool { return len(h.undos) > 0 }
func (h *History) CanRedo() bool { return len(h.redos) > 0 }

// Reset drops both stacks.
func (h *History) Reset() {
	h.undos = nil
	h.redos = nil
}

// Labels returns the undo labels, oldest first.
func (h *History) Labels() []string {
	labels := make([]string, len(h.undos))
	for i, e := range h.undos {
		labels[i] = e.Label
	}
	return labels
}

// Seed replaces the undo stack with entries, oldest first, and drops the
// redo future. The recorder is not called.
func (h *History) Seed(entries []Entry) {
	h.undos = append([]Entry(nil), entries...)
	h.redos = nil
	h.prune()
}
