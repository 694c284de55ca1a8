package mcpserver

import (
	"context"
	"strings"
	"testing"
	"time"

	"sheet/internal/editor"
	"sheet/internal/item"
	"sheet/internal/secret"
	"sheet/internal/service"
	"sheet/internal/session"

	"github.com/mark3labs/mcp-go/mcp"
)

type harness struct {
	srv *Server
	ws  *session.Session
	env *session.Env
	em  *service.MockEmitter
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()
	env, err := session.OpenEnv(session.EnvConfig{DataDir: t.TempDir(), Secrets: secret.NewMemoryStore()})
	if err != nil {
		t.Fatalf("open env: %v", err)
	}
	t.Cleanup(func() { env.Close() })

	em := &service.MockEmitter{}
	ws := session.NewHeadless(ctx, env, em)
	if _, err := ws.OpenLast(ctx); err != nil {
		t.Fatalf("open last: %v", err)
	}

	var plugins *editor.PluginRegistry
	ws.Do(func(c *editor.Controller) error {
		plugins = c.Plugins()
		return nil
	})
	srv := New(ctx, Deps{
		Emitter:   em,
		Workspace: ws,
		Documents: env.Documents,
		Library:   env.Library,
		Bindings:  env.Bindings,
		Exports:   env.Exports,
		Plugins:   plugins,
	})
	srv.approval.SetTimeout(50 * time.Millisecond)
	return &harness{srv: srv, ws: ws, env: env, em: em}
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("empty result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content %T", res.Content[0])
	}
	return tc.Text
}

func (h *harness) content(t *testing.T) string {
	t.Helper()
	var text string
	h.ws.Do(func(c *editor.Controller) error {
		text = c.SerializeContent()
		return nil
	})
	return text
}

// ── Approval queue ─────────────────────────────────────────

func TestApprovalQueue_ApproveInProcess(t *testing.T) {
	em := &service.MockEmitter{}
	q := NewApprovalQueue(context.Background(), em)

	go func() {
		for {
			if ids := q.Pending(); len(ids) == 1 {
				q.Approve(ids[0])
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()

	ok, err := q.Request("clear_page", "clear")
	if !ok || err != nil {
		t.Fatalf("expected approval, got %v %v", ok, err)
	}
	if names := em.Names(); len(names) != 1 || names[0] != "mcp:approval-required" {
		t.Errorf("unexpected events %v", names)
	}
	if len(q.Pending()) != 0 {
		t.Error("request should be cleaned up")
	}
}

func TestApprovalQueue_TimeoutDismisses(t *testing.T) {
	em := &service.MockEmitter{}
	q := NewApprovalQueue(context.Background(), em)
	q.SetTimeout(10 * time.Millisecond)

	ok, err := q.Request("clear_page", "clear")
	if ok || err == nil {
		t.Fatal("expected a timeout")
	}
	names := em.Names()
	if names[len(names)-1] != "mcp:approval-dismissed" {
		t.Errorf("expected dismissal event, got %v", names)
	}
}

func TestApprovalQueue_StoreRejection(t *testing.T) {
	h := newHarness(t)
	store := h.env.Approvals
	q := NewApprovalQueue(context.Background(), h.em)
	q.SetStore(store)
	q.poll = 5 * time.Millisecond

	go func() {
		for {
			pending, _ := store.ListPending()
			if len(pending) == 1 {
				store.Resolve(pending[0].ID, false)
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()

	ok, err := q.Request("delete_selection", "delete 3")
	if ok || err == nil || !strings.Contains(err.Error(), "rejected") {
		t.Fatalf("expected rejection, got %v %v", ok, err)
	}
	if pending, _ := store.ListPending(); len(pending) != 0 {
		t.Errorf("row should be deleted, got %v", pending)
	}
}

// ── Tools ──────────────────────────────────────────────────

func TestTools_AddShapesIsOneUndoStep(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.srv.handleAddShapes(ctx, call(map[string]any{
		"shapes": `[{"type":"rectangle","x":31,"y":29,"width":60,"height":30,"fill":"#ff0000"},
		            {"type":"text","x":30,"y":30,"width":60,"height":30,"text":"P-101"},
		            {"type":"line","x":0,"y":0,"x2":90,"y2":0,"color":"blue"}]`,
	}))
	if err != nil {
		t.Fatalf("add shapes: %v", err)
	}
	text := h.content(t)
	for _, want := range []string{"RECTANGLE;", "TEXT;", "LINE;", "P-101"} {
		if !strings.Contains(text, want) {
			t.Errorf("page is missing %s:\n%s", want, text)
		}
	}

	res, err := h.srv.handleListElements(ctx, call(nil))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resultText(t, res), `"fill": "#ff0000"`) {
		t.Errorf("expected red fill in listing: %s", resultText(t, res))
	}

	if _, err := h.srv.handleUndo(ctx, call(nil)); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(h.content(t), "RECTANGLE") {
		t.Error("one undo should remove every shape of the batch")
	}
}

func TestTools_AddShapeRejectsBadColour(t *testing.T) {
	h := newHarness(t)
	_, err := h.srv.handleAddShape("rectangle")(context.Background(), call(map[string]any{
		"x": 0.0, "y": 0.0, "width": 30.0, "height": 30.0, "color": "not-a-colour",
	}))
	if err == nil {
		t.Fatal("expected an error")
	}
	if strings.Contains(h.content(t), "RECTANGLE") {
		t.Error("nothing should be drawn")
	}
}

func TestTools_InsertLibraryBlockFindsFreeSpot(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	pump := item.NewBlockItem(0, 0, 0, 0, 0, item.Unbound, "PUMP")
	pump.Rectangles = append(pump.Rectangles, &item.RectangleItem{Width: 60, Height: 60, Stroke: item.Black, Fill: item.Transparent})
	pump.Texts = append(pump.Texts, &item.TextItem{Width: 60, Height: 15, Size: 11, Foreground: item.Black, Background: item.Transparent, Text: "P"})
	h.env.Library.SetSource([]*item.BlockItem{pump})

	for range 2 {
		if _, err := h.srv.handleInsertLibraryBlock(ctx, call(map[string]any{"name": "PUMP"})); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	var blocks int
	h.ws.Do(func(c *editor.Controller) error {
		rects := occupiedRects(c.Content())
		blocks = len(rects)
		if blocks == 2 && rects[0].Intersects(rects[1]) {
			t.Errorf("blocks overlap: %+v", rects)
		}
		return nil
	})
	if blocks != 2 {
		t.Fatalf("expected 2 blocks, got %d", blocks)
	}

	if _, err := h.srv.handleInsertLibraryBlock(ctx, call(map[string]any{"name": "VALVE"})); err == nil {
		t.Error("expected unknown block error")
	}
}

func TestTools_DestructiveNeedsApproval(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if _, err := h.srv.handleAddShape("point")(ctx, call(map[string]any{"x": 30.0, "y": 30.0})); err != nil {
		t.Fatal(err)
	}
	res, err := h.srv.handleClearPage(ctx, call(nil))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resultText(t, res), "rejected") {
		t.Errorf("expected rejection, got %q", resultText(t, res))
	}
	if !strings.Contains(h.content(t), "POINT") {
		t.Error("page should be untouched")
	}
}

func TestTools_ConnectBlocks(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	b := item.NewBlockItem(0, 0, 0, 0, 0, item.Unbound, "")
	for _, spec := range []struct {
		name string
		x    float64
	}{{"A", 0}, {"B", 300}} {
		blk := item.NewBlockItem(0, 0, 0, 0, 0, item.Unbound, spec.name)
		blk.Rectangles = append(blk.Rectangles, &item.RectangleItem{X: spec.x, Y: 0, Width: 60, Height: 60, Stroke: item.Black, Fill: item.Transparent})
		b.Blocks = append(b.Blocks, blk)
	}
	h.ws.Do(func(c *editor.Controller) error {
		c.Add("Setup", b)
		return nil
	})

	res, err := h.srv.handleConnectBlocks(ctx, call(map[string]any{"from": "A", "to": "B"}))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if !strings.Contains(resultText(t, res), "1 segments") {
		t.Errorf("expected a straight connector, got %q", resultText(t, res))
	}
	if !strings.Contains(h.content(t), "LINE;") {
		t.Error("connector not drawn")
	}
}

func TestTools_PluginNames(t *testing.T) {
	if got := pluginToolName("Invert Line Start"); got != "plugin_invert_line_start" {
		t.Errorf("got %q", got)
	}
	if got := pluginToolName("Snap (All)"); got != "plugin_snap_all" {
		t.Errorf("got %q", got)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want item.Color
	}{
		{"", item.Black},
		{"none", item.Transparent},
		{"#00ff00", item.Color{A: 255, G: 255}},
		{"f00", item.Color{A: 255, R: 255}},
		{"Gray", item.Gray},
	}
	for _, tt := range tests {
		got, err := parseColor(tt.in, item.Black)
		if err != nil {
			t.Errorf("%q: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%q: expected %+v, got %+v", tt.in, tt.want, got)
		}
	}
	if formatColor(item.Color{A: 255, R: 255}) != "#ff0000" {
		t.Errorf("unexpected hex %q", formatColor(item.Color{A: 255, R: 255}))
	}
}
