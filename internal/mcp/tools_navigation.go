package mcpserver

import (
	"context"
	"fmt"

	"sheet/internal/editor"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerNavigationTools() {
	// ── list_documents ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription("List all documents in the workspace"),
	), s.handleListDocuments)

	// ── list_pages ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_pages",
		mcp.WithDescription("List the pages of a document (content omitted)"),
		mcp.WithString("documentId",
			mcp.Description("ID of the document"),
			mcp.Required(),
		),
	), s.handleListPages)

	// ── create_document ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_document",
		mcp.WithDescription("Create a document with one empty page and open that page"),
		mcp.WithString("name",
			mcp.Description("Name of the new document"),
			mcp.Required(),
		),
	), s.handleCreateDocument)

	// ── create_page ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_page",
		mcp.WithDescription("Create a new page in a document and open it"),
		mcp.WithString("documentId",
			mcp.Description("ID of the document"),
			mcp.Required(),
		),
		mcp.WithString("name",
			mcp.Description("Name of the new page"),
			mcp.Required(),
		),
	), s.handleCreatePage)

	// ── open_page ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("open_page",
		mcp.WithDescription("Open a page in the editor. Drawing, selection and export tools act on the open page."),
		mcp.WithString("pageId",
			mcp.Description("ID of the page to open"),
			mcp.Required(),
		),
	), s.handleOpenPage)

	// ── save_page ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("save_page",
		mcp.WithDescription("Write the open page to the store"),
	), s.handleSavePage)

	// ── get_page_text ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_page_text",
		mcp.WithDescription("Return the open page in the sheet text format (one record per line: LINE, RECTANGLE, ELLIPSE, TEXT, POINT, IMAGE, BLOCK/END)"),
	), s.handleGetPageText)

	// ── replace_page_text ──────────────────────────────
	s.mcp.AddTool(mcp.NewTool("replace_page_text",
		mcp.WithDescription("🛑 DESTRUCTIVE: Replace the whole open page with sheet text. Requires user approval. The change can be undone."),
		mcp.WithString("text",
			mcp.Description("Page contents in the sheet text format"),
			mcp.Required(),
		),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleReplacePageText)
}

func (s *Server) handleListDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docs, err := s.documents.ListDocuments()
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return jsonResult(docs)
}

func (s *Server) handleListPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	documentID := req.GetString("documentId", "")
	if documentID == "" {
		return nil, fmt.Errorf("documentId is required")
	}
	pages, err := s.documents.ListPages(documentID)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	for i := range pages {
		pages[i].Content = ""
	}
	return jsonResult(pages)
}

func (s *Server) handleCreateDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	doc, page, err := s.documents.CreateDocument(name)
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	if err := s.ws.OpenPage(ctx, page.ID); err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"document": doc, "page": page})
}

func (s *Server) handleCreatePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	documentID := req.GetString("documentId", "")
	name := req.GetString("name", "")
	if documentID == "" || name == "" {
		return nil, fmt.Errorf("documentId and name are required")
	}
	page, err := s.documents.CreatePage(documentID, name)
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	// Auto-open so the next drawing call lands here
	if err := s.ws.OpenPage(ctx, page.ID); err != nil {
		return nil, err
	}
	return jsonResult(page)
}

func (s *Server) handleOpenPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID := req.GetString("pageId", "")
	if pageID == "" {
		return nil, fmt.Errorf("pageId is required")
	}
	if err := s.ws.OpenPage(ctx, pageID); err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	s.emitter.Emit(ctx, "mcp:navigate-page", map[string]string{"pageId": pageID})
	return textResult(fmt.Sprintf("Opened page %s", pageID)), nil
}

func (s *Server) handleSavePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.ws.ActivePage() == "" {
		return nil, fmt.Errorf("no page is open (use open_page first)")
	}
	if err := s.ws.Save(ctx); err != nil {
		return nil, fmt.Errorf("save page: %w", err)
	}
	return textResult("Saved"), nil
}

func (s *Server) handleGetPageText(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.ws.ActivePage() == "" {
		return nil, fmt.Errorf("no page is open (use open_page first)")
	}
	var text string
	if err := s.ws.Do(func(c *editor.Controller) error {
		text = c.SerializeContent()
		return nil
	}); err != nil {
		return nil, err
	}
	return textResult(text), nil
}

func (s *Server) handleReplacePageText(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := req.GetString("text", "")
	if !s.confirm("replace_page_text", fmt.Sprintf("Replace the open page with %d bytes of sheet text", len(text))) {
		return textResult("Action was rejected by the user."), nil
	}
	if err := s.edit(ctx, func(c *editor.Controller) error {
		return c.OpenText(ctx, text)
	}); err != nil {
		return nil, err
	}
	return textResult("Page replaced"), nil
}
