package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"sheet/internal/editor"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerResources() {
	// ── sheet://documents ──────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		"sheet://documents",
		"All Documents",
		mcp.WithMIMEType("application/json"),
	), s.handleDocumentsResource)

	// ── sheet://page ───────────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		"sheet://page",
		"Open Page",
		mcp.WithResourceDescription("The page open in the editor, in the sheet text format"),
		mcp.WithMIMEType("text/plain"),
	), s.handleOpenPageResource)

	// ── sheet://library ────────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		"sheet://library",
		"Block Library",
		mcp.WithMIMEType("text/plain"),
	), s.handleLibraryResource)

	// ── sheet://page/{pageId} ──────────────────────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"sheet://page/{pageId}",
			"Stored Page",
		),
		s.handleStoredPageResource,
	)
}

func (s *Server) handleDocumentsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	docs, err := s.documents.ListDocuments()
	if err != nil {
		return nil, err
	}

	type documentSummary struct {
		ID    string   `json:"id"`
		Name  string   `json:"name"`
		Pages []string `json:"pages"`
	}

	summaries := make([]documentSummary, 0, len(docs))
	for _, d := range docs {
		pages, err := s.documents.ListPages(d.ID)
		if err != nil {
			return nil, err
		}
		sum := documentSummary{ID: d.ID, Name: d.Name}
		for _, p := range pages {
			sum.Pages = append(sum.Pages, p.ID+" "+p.Name)
		}
		summaries = append(summaries, sum)
	}

	data, _ := json.MarshalIndent(summaries, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "sheet://documents",
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleOpenPageResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	var text string
	if err := s.ws.Do(func(c *editor.Controller) error {
		text = c.SerializeContent()
		return nil
	}); err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{URI: "sheet://page", MIMEType: "text/plain", Text: text},
	}, nil
}

func (s *Server) handleLibraryResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	var text string
	if err := s.ws.Do(func(c *editor.Controller) error {
		text = c.LibraryText()
		return nil
	}); err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{URI: "sheet://library", MIMEType: "text/plain", Text: text},
	}, nil
}

func (s *Server) handleStoredPageResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	pageID := strings.TrimPrefix(uri, "sheet://page/")
	if pageID == "" || pageID == uri || strings.Contains(pageID, "/") {
		return nil, fmt.Errorf("could not extract pageId from URI: %s", uri)
	}
	page, err := s.documents.GetPage(pageID)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{URI: uri, MIMEType: "text/plain", Text: page.Content},
	}, nil
}
