package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"sheet/internal/config"
)

func TestDefaultIsValid(t *testing.T) {
	opts := config.Default()
	if err := opts.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got := opts.ZoomFactor(opts.DefaultZoomIndex); got != 1 {
		t.Errorf("default zoom = %v, want 1", got)
	}
	if len(opts.ZoomFactors) != opts.MaxZoomIndex+1 {
		t.Errorf("zoom table has %d entries, want %d", len(opts.ZoomFactors), opts.MaxZoomIndex+1)
	}
}

func TestLoadMissingFile(t *testing.T) {
	opts, err := config.Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if opts.SnapSize != 15 {
		t.Fatalf("SnapSize = %v, want default 15", opts.SnapSize)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.yaml")
	if err := os.WriteFile(path, []byte("snap_size: 10\nhistory_limit: 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	opts, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if opts.SnapSize != 10 || opts.HistoryLimit != 5 {
		t.Fatalf("overrides not applied: %+v", opts)
	}
	if opts.GridSize != 30 {
		t.Errorf("GridSize = %v, want untouched default 30", opts.GridSize)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("snap_size: 0\n"), 0o644)
	if _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.yaml")
	opts := config.Default()
	opts.LibraryPath = "/tmp/library.txt"
	if err := config.Save(path, opts); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.LibraryPath != opts.LibraryPath || len(loaded.ZoomFactors) != len(opts.ZoomFactors) {
		t.Fatalf("round trip lost fields: %+v", loaded)
	}
}
