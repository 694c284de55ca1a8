package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"sheet/internal/item"
)

// ─────────────────────────────────────────────────────────────
// Library Service: the block palette, backed by a text file
// ─────────────────────────────────────────────────────────────
//
// The file holds the library blocks as top-level BLOCK records. Edits made
// through SetSource are written back; edits made to the file by other
// programs are picked up by Watch.

// LibraryService implements editor.Library.
type LibraryService struct {
	path    string
	emitter EventEmitter

	mu          sync.RWMutex
	blocks      []*item.BlockItem
	selected    int
	lastWritten string

	watchCancel context.CancelFunc
	watcher     *fsnotify.Watcher
}

// NewLibraryService creates a LibraryService over the file at path.
func NewLibraryService(path string, emitter EventEmitter) *LibraryService {
	return &LibraryService{path: path, emitter: emitter, selected: -1}
}

// Path returns the backing file path.
func (s *LibraryService) Path() string { return s.path }

// Load reads the backing file. A missing file is an empty library.
func (s *LibraryService) Load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.set(nil, "")
		return nil
	}
	if err != nil {
		return fmt.Errorf("read library: %w", err)
	}
	root, err := item.Deserialize(string(data))
	if err != nil {
		return fmt.Errorf("parse library: %w", err)
	}
	s.set(root.Blocks, string(data))
	return nil
}

func (s *LibraryService) set(blocks []*item.BlockItem, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocks = blocks
	s.lastWritten = text
	if s.selected >= len(blocks) {
		s.selected = -1
	}
}

// Selected returns the block chosen for insertion, or nil.
func (s *LibraryService) Selected() *item.BlockItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected < 0 || s.selected >= len(s.blocks) {
		return nil
	}
	return s.blocks[s.selected]
}

// Source returns the library blocks.
func (s *LibraryService) Source() []*item.BlockItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*item.BlockItem(nil), s.blocks...)
}

// SetSource replaces the library and writes it back to disk. A write
// failure is logged and leaves the in-memory library updated.
func (s *LibraryService) SetSource(blocks []*item.BlockItem) {
	text := libraryText(blocks)
	s.mu.Lock()
	s.blocks = blocks
	if s.selected >= len(blocks) {
		s.selected = -1
	}
	s.lastWritten = text
	s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		log.Printf("[LIBRARY] create dir: %v", err)
		return
	}
	if err := os.WriteFile(s.path, []byte(text), 0644); err != nil {
		log.Printf("[LIBRARY] write %s: %v", s.path, err)
	}
}

// Select picks the block at index for insertion. An out-of-range index
// clears the choice.
func (s *LibraryService) Select(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.blocks) {
		index = -1
	}
	s.selected = index
}

// SelectByName picks the first block called name.
func (s *LibraryService) SelectByName(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, b := range s.blocks {
		if b.Name == name {
			s.selected = i
			return true
		}
	}
	return false
}

// Names lists the block names in library order.
func (s *LibraryService) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, len(s.blocks))
	for i, b := range s.blocks {
		names[i] = b.Name
	}
	return names
}

func libraryText(blocks []*item.BlockItem) string {
	root := item.NewBlockItem(0, 0, 0, 0, 0, item.Unbound, "")
	root.Blocks = blocks
	return item.Serialize(root)
}

// ── Watcher ────────────────────────────────────────────────

// Watch reloads the library when the backing file changes and emits
// library:changed. Writes made by SetSource are ignored.
func (s *LibraryService) Watch(ctx context.Context) error {
	s.Stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	absPath, err := filepath.Abs(s.path)
	if err != nil {
		watcher.Close()
		return fmt.Errorf("resolve library path: %w", err)
	}
	dir := filepath.Dir(absPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		watcher.Close()
		return fmt.Errorf("create library dir: %w", err)
	}
	// Watch the directory so editors that replace the file are seen
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.watcher = watcher
	s.watchCancel = cancel
	s.mu.Unlock()

	go func() {
		var timer *time.Timer
		for {
			select {
			case <-watchCtx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if p, _ := filepath.Abs(event.Name); p != absPath {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(300*time.Millisecond, func() { s.reload(watchCtx) })
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("[LIBRARY] watcher error: %v", err)
			}
		}
	}()

	log.Printf("[LIBRARY] watching %s", absPath)
	return nil
}

func (s *LibraryService) reload(ctx context.Context) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		log.Printf("[LIBRARY] reload: %v", err)
		return
	}
	s.mu.RLock()
	same := string(data) == s.lastWritten
	s.mu.RUnlock()
	if same {
		return
	}
	if err := s.Load(); err != nil {
		log.Printf("[LIBRARY] reload: %v", err)
		return
	}
	s.emitter.Emit(ctx, "library:changed", s.Names())
}

// Stop ends a running Watch.
func (s *LibraryService) Stop() {
	s.mu.Lock()
	cancel, watcher := s.watchCancel, s.watcher
	s.watchCancel, s.watcher = nil, nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	if watcher != nil {
		watcher.Close()
	}
}
