package export

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"sheet/internal/item"
)

// ── Exporters ──────────────────────────────────────────────
// An Exporter writes a prepared page (see scene.ExportPage) in one file
// format.

// Exporter writes a page in one format.
type Exporter interface {
	// Format is the registry key, e.g. "svg".
	Format() string
	// Extension is the file suffix including the dot.
	Extension() string
	Write(w io.Writer, page item.Page) error
}

// Registry holds exporters by format.
type Registry struct {
	mu        sync.RWMutex
	exporters map[string]Exporter
}

func NewRegistry() *Registry {
	return &Registry{exporters: make(map[string]Exporter)}
}

// Register adds e. Panics on duplicate registration.
func (r *Registry) Register(e Exporter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.exporters[e.Format()]; exists {
		panic(fmt.Sprintf("export registry: duplicate registration for %q", e.Format()))
	}
	r.exporters[e.Format()] = e
}

// Get returns the exporter for format.
func (r *Registry) Get(format string) (Exporter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.exporters[format]
	if !ok {
		return nil, fmt.Errorf("unknown export format: %q", format)
	}
	return e, nil
}

// Formats lists the registered formats, sorted.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	formats := make([]string, 0, len(r.exporters))
	for f := range r.exporters {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

// Builtins returns a registry with the svg, txt and json writers.
func Builtins(style Style) *Registry {
	r := NewRegistry()
	r.Register(&SVG{Style: style})
	r.Register(Text{})
	r.Register(JSON{})
	return r
}

// ── Text and JSON ──────────────────────────────────────────

// Text writes the page in the text codec, wrapped as PAGE.
type Text struct{}

func (Text) Format() string    { return "txt" }
func (Text) Extension() string { return ".txt" }

func (Text) Write(w io.Writer, page item.Page) error {
	_, err := io.WriteString(w, item.SerializeBlock(item.WrapPage(page)))
	return err
}

// JSON writes the page as a JSON document, wrapped as PAGE.
type JSON struct{}

func (JSON) Format() string    { return "json" }
func (JSON) Extension() string { return ".json" }

func (JSON) Write(w io.Writer, page item.Page) error {
	s, err := item.ToJSON(item.WrapPage(page))
	if err != nil {
		return fmt.Errorf("encode page: %w", err)
	}
	_, err = io.WriteString(w, s)
	return err
}
