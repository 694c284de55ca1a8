package storage_test

import (
	"path/filepath"
	"testing"

	"sheet/internal/domain"
	"sheet/internal/storage"
)

func newDB(t *testing.T) *storage.DB {
	t.Helper()
	dir := t.TempDir()
	db, err := storage.New(filepath.Join(dir, "sheet.db"), filepath.Join(dir, "data"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// ─────────────────────────────────────────────────────────────
// Documents and pages
// ─────────────────────────────────────────────────────────────

func TestDocumentStore_PageRoundTrip(t *testing.T) {
	s := storage.NewDocumentStore(newDB(t))

	doc := &domain.Document{ID: "d1", Name: "Plant"}
	if err := s.CreateDocument(doc); err != nil {
		t.Fatalf("create document: %v", err)
	}
	for i, name := range []string{"Second", "First"} {
		p := &domain.Page{ID: name, DocumentID: "d1", Name: name, Order: 1 - i, ZoomIndex: 9}
		if err := s.CreatePage(p); err != nil {
			t.Fatalf("create page: %v", err)
		}
	}

	pages, err := s.ListPages("d1")
	if err != nil {
		t.Fatalf("list pages: %v", err)
	}
	if len(pages) != 2 || pages[0].Name != "First" {
		t.Fatalf("expected pages ordered by sort order, got %+v", pages)
	}

	p, err := s.GetPage("First")
	if err != nil {
		t.Fatalf("get page: %v", err)
	}
	p.Content = "BLOCK;0;0;0;0;0;-1;\nEND"
	p.ZoomIndex = 12
	p.PanX = -40
	if err := s.UpdatePage(p); err != nil {
		t.Fatalf("update page: %v", err)
	}

	got, err := s.GetPage("First")
	if err != nil {
		t.Fatalf("get page: %v", err)
	}
	if got.Content != p.Content || got.ZoomIndex != 12 || got.PanX != -40 {
		t.Errorf("page not updated: %+v", got)
	}

	if err := s.DeletePagesByDocument("d1"); err != nil {
		t.Fatalf("delete pages: %v", err)
	}
	if _, err := s.GetPage("First"); err == nil {
		t.Error("expected not found after delete")
	}
}

func TestDocumentStore_GetMissing(t *testing.T) {
	s := storage.NewDocumentStore(newDB(t))
	if _, err := s.GetDocument("nope"); err == nil {
		t.Fatal("expected error for missing document")
	}
}

func TestNew_MigrationsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sheet.db")
	for i := 0; i < 2; i++ {
		db, err := storage.New(path, dir)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		db.Close()
	}
}

// ─────────────────────────────────────────────────────────────
// Undo nodes
// ─────────────────────────────────────────────────────────────

func TestUndoStore_PushChainsToCurrent(t *testing.T) {
	s := storage.NewUndoStore(newDB(t))

	first, err := s.PushNode("p1", "Create Rectangle", "A")
	if err != nil {
		t.Fatalf("push: %v", err)
	}
	second, err := s.PushNode("p1", "Move", "B")
	if err != nil {
		t.Fatalf("push: %v", err)
	}
	if first.ParentID != nil {
		t.Errorf("root node should have no parent")
	}
	if second.ParentID == nil || *second.ParentID != first.ID {
		t.Errorf("expected parent %s, got %v", first.ID, second.ParentID)
	}

	tree, err := s.LoadTree("p1")
	if err != nil {
		t.Fatalf("load tree: %v", err)
	}
	if tree.RootID != first.ID || tree.CurrentID != second.ID || len(tree.Nodes) != 2 {
		t.Errorf("unexpected tree: %+v", tree)
	}
	if tree.Nodes[1].Snapshot != "B" {
		t.Errorf("expected snapshot B, got %q", tree.Nodes[1].Snapshot)
	}
}

func TestUndoStore_PrunesOldest(t *testing.T) {
	s := storage.NewUndoStore(newDB(t))
	s.SetLimit(3)

	var last *storage.UndoNode
	for _, snap := range []string{"1", "2", "3", "4", "5"} {
		n, err := s.PushNode("p1", "Edit", snap)
		if err != nil {
			t.Fatalf("push: %v", err)
		}
		last = n
	}

	tree, err := s.LoadTree("p1")
	if err != nil {
		t.Fatalf("load tree: %v", err)
	}
	if len(tree.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(tree.Nodes))
	}
	if tree.Nodes[0].Snapshot != "3" || tree.Nodes[0].ParentID != nil {
		t.Errorf("expected re-rooted oldest node 3, got %+v", tree.Nodes[0])
	}
	if tree.CurrentID != last.ID {
		t.Errorf("current moved during prune")
	}
}

func TestUndoStore_ClearPage(t *testing.T) {
	s := storage.NewUndoStore(newDB(t))
	if _, err := s.PushNode("p1", "New", ""); err != nil {
		t.Fatalf("push: %v", err)
	}
	if err := s.ClearPage("p1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	tree, err := s.LoadTree("p1")
	if err != nil || tree != nil {
		t.Errorf("expected empty tree, got %+v %v", tree, err)
	}
}

// ─────────────────────────────────────────────────────────────
// Settings and connections
// ─────────────────────────────────────────────────────────────

func TestSettingsStore(t *testing.T) {
	s := storage.NewSettingsStore(newDB(t))

	if _, ok, err := s.Get("last_page"); ok || err != nil {
		t.Fatalf("expected unset, got ok=%v err=%v", ok, err)
	}
	if err := s.Set("last_page", "p1"); err != nil {
		t.Fatal(err)
	}
	if err := s.Set("last_page", "p2"); err != nil {
		t.Fatal(err)
	}
	if v, ok, _ := s.Get("last_page"); !ok || v != "p2" {
		t.Errorf("expected p2, got %q", v)
	}

	if got := s.GetInt("window_width", 1280); got != 1280 {
		t.Errorf("expected default, got %d", got)
	}
	s.Set("window_width", 1600)
	if got := s.GetInt("window_width", 1280); got != 1600 {
		t.Errorf("expected 1600, got %d", got)
	}
}

func TestDataConnectionStore(t *testing.T) {
	s := storage.NewDataConnectionStore(newDB(t))

	c := &domain.DataConnection{ID: "c1", Name: "parts", Driver: domain.DataDriverSQLite, Host: "/tmp/parts.db", SSLMode: "disable", ExtraJSON: "{}"}
	if err := s.CreateConnection(c); err != nil {
		t.Fatalf("create: %v", err)
	}
	c.Name = "inventory"
	if err := s.UpdateConnection(c); err != nil {
		t.Fatalf("update: %v", err)
	}
	list, err := s.ListConnections()
	if err != nil || len(list) != 1 || list[0].Name != "inventory" {
		t.Fatalf("unexpected list %+v %v", list, err)
	}
	if err := s.DeleteConnection("c1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetConnection("c1"); err == nil {
		t.Error("expected not found")
	}
}

// ─────────────────────────────────────────────────────────────
// MCP approvals
// ─────────────────────────────────────────────────────────────

func TestApprovalStore_ResolveOnce(t *testing.T) {
	s := storage.NewApprovalStore(newDB(t))

	if err := s.Create("a1", "clear_page", "Clear the page", "{}"); err != nil {
		t.Fatal(err)
	}
	pending, err := s.ListPending()
	if err != nil || len(pending) != 1 || pending[0].Tool != "clear_page" {
		t.Fatalf("expected one pending approval, got %+v %v", pending, err)
	}

	if err := s.Resolve("a1", true); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if err := s.Resolve("a1", false); err == nil {
		t.Error("second resolve should fail")
	}
	status, err := s.Status("a1")
	if err != nil || status != storage.ApprovalApproved {
		t.Errorf("expected approved, got %q %v", status, err)
	}
	if pending, _ := s.ListPending(); len(pending) != 0 {
		t.Errorf("expected none pending, got %d", len(pending))
	}

	s.Delete("a1")
	if _, err := s.Status("a1"); err == nil {
		t.Error("expected not found after delete")
	}
}
