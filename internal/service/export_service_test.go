package service_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sheet/internal/export"
	"sheet/internal/item"
	"sheet/internal/service"
)

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestExportService_WritesInBackground(t *testing.T) {
	em := &service.MockEmitter{}
	s := service.NewExportService(export.Builtins(export.Style{LineThickness: 2}), em)

	content := item.NewBlockItem(0, 0, 0, 0, 0, item.Unbound, item.NameContent)
	content.Rectangles = append(content.Rectangles, &item.RectangleItem{Width: 30, Height: 30, Stroke: item.Black, Fill: item.Transparent})

	path := filepath.Join(t.TempDir(), "out", "page")
	ctx := context.Background()
	if err := s.Export(ctx, item.Page{Content: content}, "svg", path); err != nil {
		t.Fatalf("export: %v", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	s.WaitRunning(waitCtx)

	data, err := os.ReadFile(path + ".svg")
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(data), "<rect ") {
		t.Error("expected a rect in the svg")
	}
	if names := em.Names(); len(names) != 1 || names[0] != "export:done" {
		t.Errorf("unexpected events %v", names)
	}
}

func TestExportService_UnknownFormat(t *testing.T) {
	s := service.NewExportService(export.Builtins(export.Style{}), &service.MockEmitter{})
	if err := s.Export(context.Background(), item.Page{}, "dxf", filepath.Join(t.TempDir(), "x")); err == nil {
		t.Fatal("expected error")
	}
}
