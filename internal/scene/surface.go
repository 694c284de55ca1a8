package scene

import "slices"

// Surface is where live primitives are shown. The scene never draws; it
// only tells the surface what to hold. Capture routes pointer input
// exclusively to the active tool until released.
type Surface interface {
	Add(e Element)
	Remove(e Element)
	Capture()
	ReleaseCapture()
	IsCaptured() bool
}

// MemorySurface keeps elements in insertion order. It backs headless
// editing and tests.
type MemorySurface struct {
	elements []Element
	captured bool
}

func NewMemorySurface() *MemorySurface { return &MemorySurface{} }

func (m *MemorySurface) Add(e Element) {
	if !slices.Contains(m.elements, e) {
		m.elements = append(m.elements, e)
	}
}

func (m *MemorySurface) Remove(e Element) {
	if i := slices.Index(m.elements, e); i >= 0 {
		m.elements = slices.Delete(m.elements, i, i+1)
	}
}

func (m *MemorySurface) Capture()         { m.captured = true }
func (m *MemorySurface) ReleaseCapture()  { m.captured = false }
func (m *MemorySurface) IsCaptured() bool { return m.captured }

// Elements returns a copy of the held elements.
func (m *MemorySurface) Elements() []Element { return slices.Clone(m.elements) }

// Len returns the number of held elements.
func (m *MemorySurface) Len() int { return len(m.elements) }

// Contains reports whether e is held.
func (m *MemorySurface) Contains(e Element) bool { return slices.Contains(m.elements, e) }
