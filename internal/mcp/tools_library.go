package mcpserver

import (
	"context"
	"fmt"

	"sheet/internal/editor"
	"sheet/internal/item"
	"sheet/internal/scene"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerLibraryTools() {
	s.mcp.AddTool(mcp.NewTool("list_library",
		mcp.WithDescription("List the reusable blocks in the library with their sizes"),
	), s.handleListLibrary)

	s.mcp.AddTool(mcp.NewTool("insert_library_block",
		mcp.WithDescription("Insert a copy of a library block on the open page. Without x/y the block goes to the first free spot on the sheet."),
		mcp.WithString("name", mcp.Description("Library block name"), mcp.Required()),
		mcp.WithNumber("x", mcp.Description("Left (optional)")),
		mcp.WithNumber("y", mcp.Description("Top (optional)")),
	), s.handleInsertLibraryBlock)

	s.mcp.AddTool(mcp.NewTool("add_selection_to_library",
		mcp.WithDescription("Store the current selection in the library as a new block. The page is not changed."),
		mcp.WithString("name", mcp.Description("Name of the new library block"), mcp.Required()),
	), s.handleAddSelectionToLibrary)

	s.mcp.AddTool(mcp.NewTool("break_block",
		mcp.WithDescription("Dissolve the selected blocks one level into their primitives"),
	), s.handleBreakBlock)
}

type libraryEntry struct {
	Index  int     `json:"index"`
	Name   string  `json:"name"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Items  int     `json:"items"`
}

func (s *Server) handleListLibrary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	blocks := s.library.Source()
	entries := make([]libraryEntry, len(blocks))
	for i, b := range blocks {
		size := itemSize(b)
		entries[i] = libraryEntry{Index: i, Name: b.Name, Width: size.Width, Height: size.Height, Items: b.Count()}
	}
	return jsonResult(entries)
}

func (s *Server) findLibraryBlock(name string) (*item.BlockItem, error) {
	for _, b := range s.library.Source() {
		if b.Name == name {
			return b, nil
		}
	}
	return nil, fmt.Errorf("library block %q not found", name)
}

func (s *Server) handleInsertLibraryBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	b, err := s.findLibraryBlock(name)
	if err != nil {
		return nil, err
	}
	args := req.GetArguments()
	_, hasX := args["x"]
	_, hasY := args["y"]

	var at scene.Vec
	err = s.edit(ctx, func(c *editor.Controller) error {
		if hasX && hasY {
			at = scene.Vec{X: req.GetFloat("x", 0), Y: req.GetFloat("y", 0)}
		} else {
			at = s.freeSpot(c, itemSize(b))
		}
		c.Insert(b, at, true)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Inserted %s at (%.0f, %.0f)", name, at.X, at.Y)), nil
}

// freeSpot is the first place on the sheet where size fits without
// touching anything already drawn.
func (s *Server) freeSpot(c *editor.Controller, size scene.Rect) scene.Vec {
	opts := c.Options()
	area := scene.Rect{X: opts.PageOriginX, Y: opts.PageOriginY, Width: opts.PageWidth, Height: opts.PageHeight}
	return s.layout.NextPosition(occupiedRects(c.Content()), area, size.Width, size.Height)
}

func (s *Server) handleAddSelectionToLibrary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	err := s.ws.Do(func(c *editor.Controller) error {
		sel := c.Selected()
		if !sel.HaveSelected() {
			return fmt.Errorf("nothing is selected")
		}
		c.AddToLibrary(scene.SerializeContents(sel, 0, 0, 0, 0, 0, item.Unbound, name))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Added %s to the library (%d blocks)", name, len(s.library.Names()))), nil
}

func (s *Server) handleBreakBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.edit(ctx, func(c *editor.Controller) error {
		if len(c.Selected().Blocks) == 0 {
			return fmt.Errorf("no block is selected")
		}
		return c.BreakBlock(ctx)
	}); err != nil {
		return nil, err
	}
	return textResult("Blocks broken"), nil
}
