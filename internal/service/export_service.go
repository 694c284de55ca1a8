package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"sheet/internal/export"
	"sheet/internal/item"
)

// ─────────────────────────────────────────────────────────────
// Export Service: fire-and-forget page writers
// ─────────────────────────────────────────────────────────────

// ExportResult is the payload of export:done and export:error.
type ExportResult struct {
	Format string `json:"format"`
	Path   string `json:"path"`
	Error  string `json:"error,omitempty"`
}

// ExportService writes pages through the export registry on background
// goroutines. At most one export per target path runs at a time.
type ExportService struct {
	registry *export.Registry
	emitter  EventEmitter
	running  runningJobsGuard
}

func NewExportService(registry *export.Registry, emitter EventEmitter) *ExportService {
	return &ExportService{registry: registry, emitter: emitter}
}

// Formats lists the available export formats.
func (s *ExportService) Formats() []string { return s.registry.Formats() }

// Export starts writing page to path and returns immediately. It fails
// only for an unknown format or when the same path is already being
// written. The outcome arrives as export:done or export:error.
func (s *ExportService) Export(ctx context.Context, page item.Page, format, path string) error {
	e, err := s.registry.Get(format)
	if err != nil {
		return err
	}
	if filepath.Ext(path) == "" {
		path += e.Extension()
	}
	if !s.running.TryLock(path) {
		return fmt.Errorf("export already running: %s", path)
	}

	go func() {
		defer s.running.Unlock(path)
		result := ExportResult{Format: format, Path: path}
		if err := WriteExport(e, page, path); err != nil {
			log.Printf("[EXPORT] %s: %v", path, err)
			result.Error = err.Error()
			s.emitter.Emit(ctx, "export:error", result)
			return
		}
		log.Printf("[EXPORT] wrote %s", path)
		s.emitter.Emit(ctx, "export:done", result)
	}()
	return nil
}

// WriteExport writes page with e to path synchronously.
func WriteExport(e export.Exporter, page item.Page, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := e.Write(f, page); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", e.Format(), err)
	}
	return f.Close()
}

// WaitRunning blocks until all exports finish or ctx is cancelled.
func (s *ExportService) WaitRunning(ctx context.Context) {
	s.running.WaitAll(ctx)
}

// Render writes page in format to memory.
func (s *ExportService) Render(page item.Page, format string) ([]byte, error) {
	e, err := s.registry.Get(format)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := e.Write(&buf, page); err != nil {
		return nil, fmt.Errorf("write %s: %w", e.Format(), err)
	}
	return buf.Bytes(), nil
}
