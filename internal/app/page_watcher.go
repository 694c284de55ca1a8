package app

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"sheet/internal/domain"
	"sheet/internal/service"
	"sheet/internal/storage"
)

// reloader is the part of session.Session the watcher drives.
type reloader interface {
	ActivePage() string
	Reload(ctx context.Context) (bool, error)
}

// pageLister is the part of service.DocumentService the watcher reads.
type pageLister interface {
	GetPage(id string) (*domain.Page, error)
	ListPages(documentID string) ([]domain.Page, error)
}

// approvalLister is the part of storage.ApprovalStore the watcher reads.
type approvalLister interface {
	ListPending() ([]storage.Approval, error)
}

// pageWatcher polls the database for changes to the active page,
// detecting external modifications (e.g. from the standalone MCP process)
// and emitting events so the frontend auto-refreshes.
type pageWatcher struct {
	ctx       context.Context
	session   reloader
	docs      pageLister
	approvals approvalLister
	emitter   service.EventEmitter
	interval  time.Duration

	mu sync.Mutex
	// Active page tracking
	pageID string
	// Page list tracking (sidebar refresh)
	lastPageList string // pages fingerprint (count + max updated_at)
	stopCh       chan struct{}
	// Track emitted approval IDs to avoid infinite re-emission
	emittedApprovals map[string]bool
}

func newPageWatcher(ctx context.Context, s reloader, docs pageLister, approvals approvalLister, emitter service.EventEmitter) *pageWatcher {
	return &pageWatcher{
		ctx:              ctx,
		session:          s,
		docs:             docs,
		approvals:        approvals,
		emitter:          emitter,
		interval:         2 * time.Second,
		emittedApprovals: map[string]bool{},
	}
}

// SetPage updates the watched page ID. Called when user navigates to a page.
func (w *pageWatcher) SetPage(pageID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pageID = pageID
	w.lastPageList = ""
}

// Start begins the polling loop. Should be called once on app startup.
func (w *pageWatcher) Start() {
	w.stopCh = make(chan struct{})
	go w.pollLoop()
}

// Stop terminates the polling loop.
func (w *pageWatcher) Stop() {
	if w.stopCh != nil {
		close(w.stopCh)
		w.stopCh = nil
	}
}

func (w *pageWatcher) pollLoop() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	stopCh := w.stopCh
	for {
		select {
		case <-ticker.C:
			w.check()
		case <-stopCh:
			return
		case <-w.ctx.Done():
			return
		}
	}
}

func (w *pageWatcher) check() {
	w.mu.Lock()
	pageID := w.pageID
	w.mu.Unlock()

	if pageID != "" {
		w.checkPage(pageID)
	}
	w.checkApprovals(pageID)
}

func (w *pageWatcher) checkPage(pageID string) {
	// ── Reload the open page when another process saved it ──
	if w.session.ActivePage() == pageID {
		reloaded, err := w.session.Reload(w.ctx)
		if err != nil {
			log.Printf("[SHEET] watch %s: %v", pageID, err)
			return
		}
		if reloaded {
			w.emitter.Emit(w.ctx, "mcp:sheet-changed", map[string]string{"pageId": pageID})
		}
	}

	// ── Check page list changes (sidebar) ───────────────
	page, err := w.docs.GetPage(pageID)
	if err != nil {
		return
	}
	pages, err := w.docs.ListPages(page.DocumentID)
	if err != nil {
		return
	}
	fingerprint := pageListFingerprint(pages)

	w.mu.Lock()
	changed := w.lastPageList != "" && w.lastPageList != fingerprint
	w.lastPageList = fingerprint
	w.mu.Unlock()

	if changed {
		w.emitter.Emit(w.ctx, "mcp:pages-changed", map[string]string{"documentId": page.DocumentID})
	}
}

// pageListFingerprint is count + max updated_at + the names, so renames
// show up too.
func pageListFingerprint(pages []domain.Page) string {
	var newest time.Time
	var names string
	for _, p := range pages {
		if p.UpdatedAt.After(newest) {
			newest = p.UpdatedAt
		}
		names += p.Name + "\x00"
	}
	return fmt.Sprintf("%d:%d:%s", len(pages), newest.UnixNano(), names)
}

// ── Pending MCP approvals (cross-process IPC) ─────────────

func (w *pageWatcher) checkApprovals(pageID string) {
	pending, err := w.approvals.ListPending()
	if err != nil {
		return
	}

	live := make(map[string]bool, len(pending))
	for _, a := range pending {
		live[a.ID] = true

		w.mu.Lock()
		alreadySent := w.emittedApprovals[a.ID]
		w.emittedApprovals[a.ID] = true
		w.mu.Unlock()
		if alreadySent {
			continue
		}
		w.emitter.Emit(w.ctx, "mcp:activity", map[string]any{
			"changes": 1,
			"pageId":  pageID,
		})
		w.emitter.Emit(w.ctx, "mcp:approval-required", map[string]string{
			"id":          a.ID,
			"tool":        a.Tool,
			"description": a.Description,
			"createdAt":   a.CreatedAt.Format(time.RFC3339),
			"metadata":    a.Metadata,
		})
	}

	// Clean up tracking for resolved/deleted approvals (standalone MCP deletes after reading)
	var gone []string
	w.mu.Lock()
	for id := range w.emittedApprovals {
		if !live[id] {
			delete(w.emittedApprovals, id)
			gone = append(gone, id)
		}
	}
	w.mu.Unlock()
	for _, id := range gone {
		w.emitter.Emit(w.ctx, "mcp:approval-dismissed", map[string]string{"id": id})
	}
}
