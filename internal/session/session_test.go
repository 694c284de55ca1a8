package session_test

import (
	"context"
	"strings"
	"testing"

	"sheet/internal/editor"
	"sheet/internal/item"
	"sheet/internal/secret"
	"sheet/internal/service"
	"sheet/internal/session"
)

func openEnv(t *testing.T, dir string) *session.Env {
	t.Helper()
	env, err := session.OpenEnv(session.EnvConfig{DataDir: dir, Secrets: secret.NewMemoryStore()})
	if err != nil {
		t.Fatalf("open env: %v", err)
	}
	t.Cleanup(func() { env.Close() })
	return env
}

func addLine(c *editor.Controller) {
	b := item.NewBlockItem(0, 0, 0, 0, 0, item.Unbound, "")
	b.Lines = append(b.Lines, &item.LineItem{X1: 0, Y1: 0, X2: 30, Y2: 0, Stroke: item.Black})
	c.History().Register("Line")
	c.InsertContent(b, false)
}

func TestSession_SaveAndReopenKeepsContentAndHistory(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	env := openEnv(t, dir)
	em := &service.MockEmitter{}

	s := session.NewHeadless(ctx, env, em)
	pageID, err := s.OpenLast(ctx)
	if err != nil {
		t.Fatalf("open last: %v", err)
	}
	if err := s.Do(func(c *editor.Controller) error {
		addLine(c)
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.Contains(s.Persisted(), "LINE") {
		t.Fatalf("expected persisted line, got %q", s.Persisted())
	}

	other := session.NewHeadless(ctx, env, nil)
	got, err := other.OpenLast(ctx)
	if err != nil || got != pageID {
		t.Fatalf("expected last page %s, got %s %v", pageID, got, err)
	}
	other.Do(func(c *editor.Controller) error {
		if n := len(c.Content().Lines); n != 1 {
			t.Errorf("expected 1 line, got %d", n)
		}
		if !c.History().CanUndo() {
			t.Error("expected persisted history")
		}
		if !c.Undo() || len(c.Content().Lines) != 0 {
			t.Error("undo should restore the empty page")
		}
		return nil
	})

	names := em.Names()
	if len(names) == 0 || names[0] != session.EventPageOpened {
		t.Errorf("expected page:opened first, got %v", names)
	}
}

func TestSession_ReloadPicksUpExternalChange(t *testing.T) {
	ctx := context.Background()
	env := openEnv(t, t.TempDir())

	s := session.NewHeadless(ctx, env, nil)
	pageID, err := s.OpenLast(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if changed, _ := s.Reload(ctx); changed {
		t.Error("nothing changed yet")
	}

	if err := env.Documents.SavePageContent(ctx, pageID, "RECTANGLE;1;30;30;60;60;False;255;0;0;0;0;255;255;255\r\n"); err != nil {
		t.Fatal(err)
	}
	changed, err := s.Reload(ctx)
	if err != nil || !changed {
		t.Fatalf("expected reload, got %v %v", changed, err)
	}
	s.Do(func(c *editor.Controller) error {
		if len(c.Content().Rectangles) != 1 {
			t.Errorf("expected 1 rectangle, got %d", len(c.Content().Rectangles))
		}
		return nil
	})
}

func TestSession_FailedOpenKeepsRecordingCurrentPage(t *testing.T) {
	ctx := context.Background()
	env := openEnv(t, t.TempDir())

	s := session.NewHeadless(ctx, env, nil)
	pageID, err := s.OpenLast(ctx)
	if err != nil {
		t.Fatal(err)
	}
	page, err := env.Documents.GetPage(pageID)
	if err != nil {
		t.Fatal(err)
	}
	broken, err := env.Documents.CreatePage(page.DocumentID, "Broken")
	if err != nil {
		t.Fatal(err)
	}
	if err := env.Documents.SavePageContent(ctx, broken.ID, "BOGUS;1\r\n"); err != nil {
		t.Fatal(err)
	}

	if err := s.OpenPage(ctx, broken.ID); err == nil {
		t.Fatal("expected a parse error")
	}
	if s.ActivePage() != pageID {
		t.Fatalf("active page = %s, want %s", s.ActivePage(), pageID)
	}
	if changed, err := s.Reload(ctx); err != nil || changed {
		t.Fatalf("reload of the intact page: %v %v", changed, err)
	}

	s.Do(func(c *editor.Controller) error {
		addLine(c)
		return nil
	})
	entries, err := env.Documents.History(pageID).Entries()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Label != "Line" {
		t.Fatalf("edits after a failed open must still be recorded, got %+v", entries)
	}
}

func TestSession_ReopenKeepsReservedNamesAndMultilineText(t *testing.T) {
	ctx := context.Background()
	env := openEnv(t, t.TempDir())

	s := session.NewHeadless(ctx, env, nil)
	if _, err := s.OpenLast(ctx); err != nil {
		t.Fatal(err)
	}
	s.Do(func(c *editor.Controller) error {
		addLine(c)
		b := item.NewBlockItem(0, 0, 0, 0, 0, item.Unbound, "")
		named := item.NewBlockItem(0, 0, 0, 30, 30, item.Unbound, item.NameContent)
		named.Texts = append(named.Texts, &item.TextItem{Width: 30, Height: 15, Size: 11, Text: "P-101\nflow;high"})
		b.Blocks = append(b.Blocks, named)
		c.History().Register("Block")
		c.InsertContent(b, false)
		return nil
	})
	if err := s.Save(ctx); err != nil {
		t.Fatal(err)
	}

	other := session.NewHeadless(ctx, env, nil)
	if _, err := other.OpenLast(ctx); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	other.Do(func(c *editor.Controller) error {
		content := c.Content()
		if len(content.Lines) != 1 || len(content.Blocks) != 1 {
			t.Errorf("lines=%d blocks=%d, want 1 and 1", len(content.Lines), len(content.Blocks))
			return nil
		}
		b := content.Blocks[0]
		if b.Name != item.NameContent || len(b.Texts) != 1 || b.Texts[0].Content != "P-101\nflow;high" {
			t.Errorf("block not preserved: %+v", b)
		}
		if !c.Undo() {
			t.Error("undo over persisted snapshots failed")
		}
		return nil
	})
}
