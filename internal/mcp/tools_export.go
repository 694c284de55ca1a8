package mcpserver

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"sheet/internal/editor"
	"sheet/internal/entry"
	"sheet/internal/item"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerExportTools() {
	s.mcp.AddTool(mcp.NewTool("export_page",
		mcp.WithDescription("Export the open page (frame and grid included). With a path the file is written in the background; without one the result is returned inline."),
		mcp.WithString("format", mcp.Description("Export format: "+strings.Join(s.exports.Formats(), ", ")), mcp.Required()),
		mcp.WithString("path", mcp.Description("Target file (optional). The format's extension is added when missing.")),
	), s.handleExportPage)

	s.mcp.AddTool(mcp.NewTool("export_solution",
		mcp.WithDescription("Write every document and page to a solution zip archive"),
		mcp.WithString("path", mcp.Description("Target .zip file"), mcp.Required()),
		mcp.WithString("name", mcp.Description("Solution name (optional, defaults to the file name)")),
	), s.handleExportSolution)

	s.mcp.AddTool(mcp.NewTool("import_solution",
		mcp.WithDescription("Add the documents of a solution zip archive to the workspace"),
		mcp.WithString("path", mcp.Description("Source .zip file"), mcp.Required()),
	), s.handleImportSolution)
}

func (s *Server) handleExportPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format := req.GetString("format", "")
	path := req.GetString("path", "")
	if s.ws.ActivePage() == "" {
		return nil, fmt.Errorf("no page is open (use open_page first)")
	}

	var page item.Page
	if err := s.ws.Do(func(c *editor.Controller) error {
		page = c.ExportPage()
		return nil
	}); err != nil {
		return nil, err
	}

	if path == "" {
		data, err := s.exports.Render(page, format)
		if err != nil {
			return nil, err
		}
		return textResult(string(data)), nil
	}
	if err := s.exports.Export(ctx, page, format, path); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Export to %s started", path)), nil
}

func (s *Server) handleExportSolution(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}
	name := req.GetString("name", "")
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if s.ws.ActivePage() != "" {
		if err := s.ws.Save(ctx); err != nil {
			return nil, fmt.Errorf("save open page: %w", err)
		}
	}
	sol, err := s.documents.ExportSolution(name)
	if err != nil {
		return nil, err
	}
	if err := entry.Save(path, sol); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Wrote %d documents to %s", len(sol.Documents), path)), nil
}

func (s *Server) handleImportSolution(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}
	sol, err := entry.Open(path)
	if err != nil {
		return nil, err
	}
	docs, err := s.documents.ImportSolution(sol)
	if err != nil {
		return nil, err
	}
	return jsonResult(docs)
}
