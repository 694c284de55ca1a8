package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"sheet/internal/editor"
	"sheet/internal/service"
	"sheet/internal/storage"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Workspace is the editor loop the tools drive. session.Session
// implements it for both the desktop app and the standalone server.
type Workspace interface {
	// Do runs fn with exclusive access to the controller.
	Do(fn func(c *editor.Controller) error) error
	ActivePage() string
	OpenPage(ctx context.Context, pageID string) error
	Save(ctx context.Context) error
}

// Server is the MCP server for the sheet editor. It exposes tools,
// resources and prompts so agents can draw on the open page.
type Server struct {
	mcp      *server.MCPServer
	emitter  EventEmitter
	approval *ApprovalQueue
	layout   *LayoutEngine

	ws        Workspace
	documents *service.DocumentService
	library   *service.LibraryService
	bindings  *service.BindingService
	exports   *service.ExportService
	plugins   *editor.PluginRegistry
}

// Deps holds all dependencies passed from the host to the MCP server.
type Deps struct {
	Emitter   EventEmitter
	Workspace Workspace
	Documents *service.DocumentService
	Library   *service.LibraryService
	Bindings  *service.BindingService
	Exports   *service.ExportService
	Plugins   *editor.PluginRegistry
	// Approvals, when set, parks destructive calls in SQLite for the
	// desktop app to resolve (standalone mode).
	Approvals *storage.ApprovalStore
}

// New creates and configures a new MCP server with all tools and resources.
func New(ctx context.Context, deps Deps) *Server {
	approval := NewApprovalQueue(ctx, deps.Emitter)
	if deps.Approvals != nil {
		approval.SetStore(deps.Approvals)
	}
	s := &Server{
		emitter:   deps.Emitter,
		approval:  approval,
		layout:    NewLayoutEngine(0),
		ws:        deps.Workspace,
		documents: deps.Documents,
		library:   deps.Library,
		bindings:  deps.Bindings,
		exports:   deps.Exports,
		plugins:   deps.Plugins,
	}

	s.mcp = server.NewMCPServer(
		"sheet-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerNavigationTools()
	s.registerDrawingTools()
	s.registerSelectionTools()
	s.registerLibraryTools()
	s.registerDataTools()
	s.registerExportTools()
	s.registerResources()
	s.registerPrompts()

	// Selection plugins (auto-discovered)
	s.registerPluginTools()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	log.Println("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}

// ServeHTTP serves the tools over streamable HTTP on addr until ctx is
// done. The desktop app uses it so agents share the open window.
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	httpSrv := server.NewStreamableHTTPServer(s.mcp)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpSrv.Shutdown(shutdownCtx)
	}()
	log.Printf("[MCP] Serving streamable HTTP on %s", addr)
	if err := httpSrv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve mcp http: %w", err)
	}
	return nil
}

// Approve forwards a user approval to the approval queue.
func (s *Server) Approve(actionID string) {
	s.approval.Approve(actionID)
}

// Pending lists in-process approval requests still waiting.
func (s *Server) Pending() []string {
	return s.approval.Pending()
}

// Reject forwards a user rejection to the approval queue.
func (s *Server) Reject(actionID string) {
	s.approval.Reject(actionID)
}

// ── Helpers ────────────────────────────────────────────────

// commit persists the open page after a tool changed it and notifies the
// frontend.
func (s *Server) commit(ctx context.Context) {
	if err := s.ws.Save(ctx); err != nil {
		log.Printf("[MCP] save after tool: %v", err)
	}
	s.emitter.Emit(ctx, "mcp:sheet-changed", map[string]string{"pageId": s.ws.ActivePage()})
}

// edit runs fn on the loop and commits the page when it succeeds.
func (s *Server) edit(ctx context.Context, fn func(c *editor.Controller) error) error {
	if s.ws.ActivePage() == "" {
		return fmt.Errorf("no page is open (use open_page first)")
	}
	if err := s.ws.Do(fn); err != nil {
		return err
	}
	s.commit(ctx)
	return nil
}

// confirm asks the user before a destructive tool runs.
func (s *Server) confirm(tool, description string) bool {
	approved, err := s.approval.Request(tool, description)
	if err != nil {
		log.Printf("[MCP] %s: %v", tool, err)
		return false
	}
	return approved
}

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

func boolPtr(v bool) *bool { return &v }

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
