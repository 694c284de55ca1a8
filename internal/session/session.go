package session

import (
	"context"
	"fmt"
	"log"
	"sync"

	"sheet/internal/domain"
	"sheet/internal/editor"
	"sheet/internal/service"
)

// ─────────────────────────────────────────────────────────────
// Session: the editor loop over one open page
// ─────────────────────────────────────────────────────────────
//
// The controller is single-threaded. Every caller (Wails bindings, MCP
// tools, autosave, the page watcher) reaches it through Do, so the session
// lock is the event loop.

// Events emitted by a session.
const (
	EventRender     = "sheet:render"
	EventPageOpened = "page:opened"
	EventReloaded   = "page:reloaded"
)

type Session struct {
	ctx     context.Context
	ctrl    *editor.Controller
	docs    *service.DocumentService
	emitter service.EventEmitter

	mu        sync.Mutex
	pageID    string
	persisted string // content as last loaded from or written to the store
}

// New wraps ctrl. ctx is the lifetime of the host and is used for events
// emitted outside a request.
func New(ctx context.Context, ctrl *editor.Controller, docs *service.DocumentService, emitter service.EventEmitter) *Session {
	if emitter == nil {
		emitter = service.NopEmitter{}
	}
	return &Session{ctx: ctx, ctrl: ctrl, docs: docs, emitter: emitter}
}

// Do runs fn with exclusive access to the controller, then emits
// sheet:render with the current view.
func (s *Session) Do(fn func(c *editor.Controller) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := fn(s.ctrl)
	s.emitter.Emit(s.ctx, EventRender, s.ctrl.View())
	return err
}

// Inspect runs fn under the loop without emitting sheet:render. fn must
// not change the page.
func (s *Session) Inspect(fn func(c *editor.Controller)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.ctrl)
}

// ActivePage returns the id of the loaded page, or "".
func (s *Session) ActivePage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageID
}

// Persisted returns the page content as last loaded or saved.
func (s *Session) Persisted() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persisted
}

// OpenPage saves the current page and loads pageID with its persisted
// history.
func (s *Session) OpenPage(ctx context.Context, pageID string) error {
	page, err := s.docs.GetPage(pageID)
	if err != nil {
		return err
	}
	recorder := s.docs.History(pageID)
	entries, err := recorder.Entries()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pageID != "" && s.pageID != pageID {
		if err := s.saveLocked(ctx); err != nil {
			log.Printf("[SHEET] save %s before switching: %v", s.pageID, err)
		}
	}

	if err := s.load(page.Content); err != nil {
		return fmt.Errorf("open page %s: %w", pageID, err)
	}
	h := s.ctrl.History()
	h.Seed(entries)
	h.SetRecorder(recorder)
	s.ctrl.SetView(page.ZoomIndex, page.PanX, page.PanY)

	s.pageID = pageID
	s.persisted = page.Content
	if err := s.docs.SetLastPage(pageID); err != nil {
		log.Printf("[SHEET] remember last page: %v", err)
	}
	s.emitter.Emit(ctx, EventPageOpened, page)
	s.emitter.Emit(ctx, EventRender, s.ctrl.View())
	return nil
}

// load replaces the editor content with a stored page. When content does
// not parse the editor and its recorder are left as they were.
func (s *Session) load(content string) error {
	h := s.ctrl.History()
	prev := h.Recorder()
	h.SetRecorder(nil)
	if err := s.ctrl.SetPage(content); err != nil {
		h.SetRecorder(prev)
		return err
	}
	return nil
}

// OpenLast opens the page opened most recently. Without one it opens the
// first page of the first document, creating a document when the store is
// empty.
func (s *Session) OpenLast(ctx context.Context) (string, error) {
	if id := s.docs.LastPage(); id != "" {
		if err := s.OpenPage(ctx, id); err == nil {
			return id, nil
		}
	}
	id, err := s.firstPage()
	if err != nil {
		return "", err
	}
	return id, s.OpenPage(ctx, id)
}

func (s *Session) firstPage() (string, error) {
	docs, err := s.docs.ListDocuments()
	if err != nil {
		return "", fmt.Errorf("list documents: %w", err)
	}
	for _, d := range docs {
		pages, err := s.docs.ListPages(d.ID)
		if err != nil {
			return "", fmt.Errorf("list pages: %w", err)
		}
		if len(pages) > 0 {
			return pages[0].ID, nil
		}
	}
	_, page, err := s.docs.CreateDocument("Untitled")
	if err != nil {
		return "", err
	}
	return page.ID, nil
}

// Save writes the page content and view when a page is open.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx)
}

func (s *Session) saveLocked(ctx context.Context) error {
	if s.pageID == "" {
		return nil
	}
	content := s.ctrl.SerializeContent()
	if content != s.persisted {
		if err := s.docs.SavePageContent(ctx, s.pageID, content); err != nil {
			return err
		}
		s.persisted = content
	}
	v := s.ctrl.View()
	return s.docs.SaveView(s.pageID, v.ZoomIndex, v.PanX, v.PanY)
}

// Reload re-reads the open page when another process changed it. It
// reports whether the editor was updated. Unsaved local edits are lost.
func (s *Session) Reload(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pageID == "" {
		return false, nil
	}
	page, err := s.docs.GetPage(s.pageID)
	if err != nil {
		return false, err
	}
	if page.Content == s.persisted {
		return false, nil
	}
	recorder := s.docs.History(s.pageID)
	entries, err := recorder.Entries()
	if err != nil {
		return false, err
	}
	if err := s.load(page.Content); err != nil {
		return false, fmt.Errorf("reload page %s: %w", s.pageID, err)
	}
	h := s.ctrl.History()
	h.Seed(entries)
	h.SetRecorder(recorder)
	s.persisted = page.Content
	log.Printf("[SHEET] reloaded %s after an external change", s.pageID)
	s.emitter.Emit(ctx, EventReloaded, map[string]string{"pageId": s.pageID})
	s.emitter.Emit(ctx, EventRender, s.ctrl.View())
	return true, nil
}

// Page returns the stored record of the open page.
func (s *Session) Page() (*domain.Page, error) {
	id := s.ActivePage()
	if id == "" {
		return nil, fmt.Errorf("no page is open")
	}
	return s.docs.GetPage(id)
}
