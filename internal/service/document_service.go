package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"sheet/internal/domain"
	"sheet/internal/entry"
	"sheet/internal/history"
	"sheet/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Document Service: documents, pages and persisted history
// ─────────────────────────────────────────────────────────────

const settingLastPage = "last_page"

// DocumentService manages documents, their pages and page history.
type DocumentService struct {
	store    *storage.DocumentStore
	undo     *storage.UndoStore
	settings *storage.SettingsStore
	emitter  EventEmitter
}

// NewDocumentService creates a DocumentService.
func NewDocumentService(
	store *storage.DocumentStore,
	undo *storage.UndoStore,
	settings *storage.SettingsStore,
	emitter EventEmitter,
) *DocumentService {
	return &DocumentService{
		store:    store,
		undo:     undo,
		settings: settings,
		emitter:  emitter,
	}
}

// ── Documents ──────────────────────────────────────────────

func (s *DocumentService) ListDocuments() ([]domain.Document, error) {
	return s.store.ListDocuments()
}

// CreateDocument creates a document with one empty page.
func (s *DocumentService) CreateDocument(name string) (*domain.Document, *domain.Page, error) {
	doc := &domain.Document{
		ID:   uuid.New().String(),
		Name: name,
	}
	if err := s.store.CreateDocument(doc); err != nil {
		return nil, nil, fmt.Errorf("create document: %w", err)
	}
	page, err := s.CreatePage(doc.ID, "Page 1")
	if err != nil {
		return nil, nil, err
	}
	return doc, page, nil
}

func (s *DocumentService) RenameDocument(id, name string) error {
	doc, err := s.store.GetDocument(id)
	if err != nil {
		return err
	}
	doc.Name = name
	return s.store.UpdateDocument(doc)
}

func (s *DocumentService) DeleteDocument(id string) error {
	pages, _ := s.store.ListPages(id)
	for _, p := range pages {
		s.undo.ClearPage(p.ID)
	}
	if err := s.store.DeletePagesByDocument(id); err != nil {
		return fmt.Errorf("delete pages: %w", err)
	}
	return s.store.DeleteDocument(id)
}

// ── Pages ──────────────────────────────────────────────────

func (s *DocumentService) ListPages(documentID string) ([]domain.Page, error) {
	return s.store.ListPages(documentID)
}

func (s *DocumentService) CreatePage(documentID, name string) (*domain.Page, error) {
	pages, _ := s.store.ListPages(documentID)
	p := &domain.Page{
		ID:         uuid.New().String(),
		DocumentID: documentID,
		Name:       name,
		Order:      len(pages),
		ZoomIndex:  9,
	}
	if err := s.store.CreatePage(p); err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	return p, nil
}

func (s *DocumentService) GetPage(id string) (*domain.Page, error) {
	return s.store.GetPage(id)
}

func (s *DocumentService) RenamePage(id, name string) error {
	p, err := s.store.GetPage(id)
	if err != nil {
		return err
	}
	p.Name = name
	return s.store.UpdatePage(p)
}

func (s *DocumentService) DeletePage(id string) error {
	s.undo.ClearPage(id)
	return s.store.DeletePage(id)
}

// SavePageContent stores the page's text and emits page:saved.
func (s *DocumentService) SavePageContent(ctx context.Context, pageID, content string) error {
	p, err := s.store.GetPage(pageID)
	if err != nil {
		return err
	}
	if p.Content == content {
		return nil
	}
	p.Content = content
	if err := s.store.UpdatePage(p); err != nil {
		return fmt.Errorf("save page: %w", err)
	}
	s.emitter.Emit(ctx, "page:saved", map[string]string{"pageId": pageID})
	return nil
}

// SaveView stores the zoom step and pan offset of a page.
func (s *DocumentService) SaveView(pageID string, zoomIndex int, panX, panY float64) error {
	p, err := s.store.GetPage(pageID)
	if err != nil {
		return err
	}
	p.ZoomIndex = zoomIndex
	p.PanX = panX
	p.PanY = panY
	return s.store.UpdatePage(p)
}

// ── Solution archive ───────────────────────────────────────

// ExportSolution packs every document and its pages, in page order.
func (s *DocumentService) ExportSolution(name string) (*entry.Solution, error) {
	docs, err := s.store.ListDocuments()
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	sol := &entry.Solution{Name: name}
	for _, d := range docs {
		ed := sol.AddDocument(d.Name)
		pages, err := s.store.ListPages(d.ID)
		if err != nil {
			return nil, fmt.Errorf("list pages: %w", err)
		}
		for _, p := range pages {
			full, err := s.store.GetPage(p.ID)
			if err != nil {
				return nil, err
			}
			ed.AddPage(full.Name, full.Content)
		}
	}
	return sol, nil
}

// ImportSolution adds the archive's documents alongside the existing ones
// and returns the new documents.
func (s *DocumentService) ImportSolution(sol *entry.Solution) ([]domain.Document, error) {
	var out []domain.Document
	for _, ed := range sol.Documents {
		doc := &domain.Document{ID: uuid.New().String(), Name: ed.Name}
		if err := s.store.CreateDocument(doc); err != nil {
			return out, fmt.Errorf("create document: %w", err)
		}
		for i, ep := range ed.Pages {
			p := &domain.Page{
				ID:         uuid.New().String(),
				DocumentID: doc.ID,
				Name:       ep.Name,
				Order:      i,
				ZoomIndex:  9,
				Content:    ep.Content,
			}
			if err := s.store.CreatePage(p); err != nil {
				return out, fmt.Errorf("create page: %w", err)
			}
		}
		out = append(out, *doc)
	}
	return out, nil
}

// ── Last opened page ───────────────────────────────────────

// LastPage returns the page opened most recently, or "".
func (s *DocumentService) LastPage() string {
	v, _, err := s.settings.Get(settingLastPage)
	if err != nil {
		return ""
	}
	return v
}

func (s *DocumentService) SetLastPage(pageID string) error {
	return s.settings.Set(settingLastPage, pageID)
}

// ── History ────────────────────────────────────────────────

// History returns the recorder that mirrors a page's registrations.
func (s *DocumentService) History(pageID string) *PageHistory {
	return &PageHistory{store: s.undo, pageID: pageID}
}

// PageHistory implements history.Recorder over the undo node store.
type PageHistory struct {
	store  *storage.UndoStore
	pageID string
}

func (h *PageHistory) Record(label, snapshot string) error {
	_, err := h.store.PushNode(h.pageID, label, snapshot)
	return err
}

// Entries returns the persisted chain from the root to the current node.
func (h *PageHistory) Entries() ([]history.Entry, error) {
	tree, err := h.store.LoadTree(h.pageID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	if tree == nil {
		return nil, nil
	}
	byID := make(map[string]storage.UndoNode, len(tree.Nodes))
	for _, n := range tree.Nodes {
		byID[n.ID] = n
	}

	var chain []history.Entry
	for id := tree.CurrentID; id != ""; {
		n, ok := byID[id]
		if !ok {
			break
		}
		chain = append(chain, history.Entry{Label: n.Label, Snapshot: n.Snapshot})
		if n.ParentID == nil {
			break
		}
		id = *n.ParentID
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// Clear drops the persisted history, used when a page is replaced wholesale.
func (h *PageHistory) Clear() error {
	return h.store.ClearPage(h.pageID)
}
