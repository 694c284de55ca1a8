package service_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"sheet/internal/item"
	"sheet/internal/service"
)

const libraryFile = "BLOCK;0;0;0;VALVE;30;30;0;255;255;255;-1\n" +
	"  RECTANGLE;0;0;0;30;30;False;255;0;0;0;0;255;255;255\n" +
	"END\n" +
	"BLOCK;0;0;0;PUMP;30;30;0;255;255;255;-1\n" +
	"  ELLIPSE;0;0;0;30;30;False;255;0;0;0;0;255;255;255\n" +
	"END\n"

func TestLibraryService_LoadSelectSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.txt")
	if err := os.WriteFile(path, []byte(libraryFile), 0644); err != nil {
		t.Fatal(err)
	}
	s := service.NewLibraryService(path, &service.MockEmitter{})
	if err := s.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}

	names := s.Names()
	if len(names) != 2 || names[0] != "VALVE" || names[1] != "PUMP" {
		t.Fatalf("unexpected names %v", names)
	}
	if s.Selected() != nil {
		t.Error("nothing should be selected after load")
	}
	if !s.SelectByName("PUMP") || s.Selected().Name != "PUMP" {
		t.Error("expected PUMP selected")
	}

	added := item.NewBlockItem(0, 0, 0, 0, 0, item.Unbound, "TANK")
	s.SetSource(append(s.Source(), added))

	reread := service.NewLibraryService(path, &service.MockEmitter{})
	if err := reread.Load(); err != nil {
		t.Fatal(err)
	}
	if got := reread.Names(); len(got) != 3 || got[2] != "TANK" {
		t.Errorf("expected TANK written back, got %v", got)
	}
}

func TestLibraryService_MissingFileIsEmpty(t *testing.T) {
	s := service.NewLibraryService(filepath.Join(t.TempDir(), "none.txt"), &service.MockEmitter{})
	if err := s.Load(); err != nil {
		t.Fatal(err)
	}
	if len(s.Source()) != 0 {
		t.Error("expected empty library")
	}
}

func TestLibraryService_WatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.txt")
	em := &service.MockEmitter{}
	s := service.NewLibraryService(path, em)
	if err := s.Load(); err != nil {
		t.Fatal(err)
	}
	if err := s.Watch(context.Background()); err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer s.Stop()

	if err := os.WriteFile(path, []byte(libraryFile), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if len(s.Names()) == 2 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("library was not reloaded after the file changed")
}
