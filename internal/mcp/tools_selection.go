package mcpserver

import (
	"context"
	"fmt"
	"slices"

	"sheet/internal/editor"
	"sheet/internal/scene"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerSelectionTools() {
	s.mcp.AddTool(mcp.NewTool("list_elements",
		mcp.WithDescription("List the top-level primitives and blocks on the open page with their kinds, bounds and selection state"),
	), s.handleListElements)

	s.mcp.AddTool(mcp.NewTool("select_rect",
		mcp.WithDescription("Select every primitive and top-level block touching a rectangle"),
		mcp.WithNumber("x", mcp.Description("Left"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("Top"), mcp.Required()),
		mcp.WithNumber("width", mcp.Description("Width"), mcp.Required()),
		mcp.WithNumber("height", mcp.Description("Height"), mcp.Required()),
		mcp.WithBoolean("add", mcp.Description("Toggle hits into the current selection instead of replacing it")),
	), s.handleSelectRect)

	s.mcp.AddTool(mcp.NewTool("select_all",
		mcp.WithDescription("Select everything on the open page"),
	), s.selectionOp("Selected all", (*editor.Controller).SelectAll))

	s.mcp.AddTool(mcp.NewTool("deselect_all",
		mcp.WithDescription("Clear the selection"),
	), s.selectionOp("Selection cleared", (*editor.Controller).DeselectAll))

	s.mcp.AddTool(mcp.NewTool("move_selection",
		mcp.WithDescription("Move the selection by an offset"),
		mcp.WithNumber("dx", mcp.Description("Horizontal offset"), mcp.Required()),
		mcp.WithNumber("dy", mcp.Description("Vertical offset"), mcp.Required()),
	), s.handleMoveSelection)

	s.mcp.AddTool(mcp.NewTool("toggle_fill",
		mcp.WithDescription("Switch selected rectangles and ellipses between filled and hollow"),
	), s.selectionOp("Fill toggled", (*editor.Controller).ToggleFill))

	s.mcp.AddTool(mcp.NewTool("delete_selection",
		mcp.WithDescription("🛑 DESTRUCTIVE: Delete the selected elements. Requires user approval."),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteSelection)

	s.mcp.AddTool(mcp.NewTool("clear_page",
		mcp.WithDescription("🛑 DESTRUCTIVE: Remove everything from the open page. Requires user approval."),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleClearPage)

	s.mcp.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Undo the last change on the open page"),
	), s.handleUndo)

	s.mcp.AddTool(mcp.NewTool("redo",
		mcp.WithDescription("Redo the last undone change on the open page"),
	), s.handleRedo)
}

// elementInfo describes one entry of list_elements.
type elementInfo struct {
	Kind     string     `json:"kind"`
	ID       int        `json:"id,omitempty"`
	Name     string     `json:"name,omitempty"`
	DataID   *int       `json:"dataId,omitempty"`
	Text     string     `json:"text,omitempty"`
	Bounds   scene.Rect `json:"bounds"`
	Stroke   string     `json:"stroke,omitempty"`
	Fill     string     `json:"fill,omitempty"`
	Selected bool       `json:"selected"`
}

func listElements(content *scene.Block, sel *scene.Selection) []elementInfo {
	var out []elementInfo
	for _, p := range content.Points {
		out = append(out, elementInfo{Kind: "point", ID: p.ID, Bounds: p.Bounds(), Selected: p.IsSelected()})
	}
	for _, l := range content.Lines {
		out = append(out, elementInfo{Kind: "line", ID: l.ID, Bounds: l.Bounds(), Stroke: formatColor(l.Stroke), Selected: l.IsSelected()})
	}
	for _, r := range content.Rectangles {
		out = append(out, elementInfo{Kind: "rectangle", ID: r.ID, Bounds: r.Bounds(), Stroke: formatColor(r.Stroke), Fill: formatColor(r.Fill), Selected: r.IsSelected()})
	}
	for _, e := range content.Ellipses {
		out = append(out, elementInfo{Kind: "ellipse", ID: e.ID, Bounds: e.Bounds(), Stroke: formatColor(e.Stroke), Fill: formatColor(e.Fill), Selected: e.IsSelected()})
	}
	for _, t := range content.Texts {
		out = append(out, elementInfo{Kind: "text", ID: t.ID, Text: truncate(t.Content, 80), Bounds: t.Bounds(), Stroke: formatColor(t.Foreground), Selected: t.IsSelected()})
	}
	for _, i := range content.Images {
		out = append(out, elementInfo{Kind: "image", ID: i.ID, Bounds: i.Bounds(), Selected: i.IsSelected()})
	}
	for _, b := range content.Blocks {
		bounds, _ := blockBounds(b)
		dataID := b.DataID
		out = append(out, elementInfo{
			Kind: "block", ID: b.ID, Name: b.Name, DataID: &dataID, Bounds: bounds,
			Selected: slices.Contains(sel.Blocks, b),
		})
	}
	return out
}

func (s *Server) handleListElements(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.ws.ActivePage() == "" {
		return nil, fmt.Errorf("no page is open (use open_page first)")
	}
	var elements []elementInfo
	if err := s.ws.Do(func(c *editor.Controller) error {
		elements = listElements(c.Content(), c.Selected())
		return nil
	}); err != nil {
		return nil, err
	}
	return jsonResult(elements)
}

// selectionOp wraps a controller method without arguments as a tool.
func (s *Server) selectionOp(done string, op func(*editor.Controller)) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var count int
		if err := s.edit(ctx, func(c *editor.Controller) error {
			op(c)
			count = c.Selected().Count()
			return nil
		}); err != nil {
			return nil, err
		}
		return textResult(fmt.Sprintf("%s (%d selected)", done, count)), nil
	}
}

func (s *Server) handleSelectRect(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	r := scene.Rect{
		X:      req.GetFloat("x", 0),
		Y:      req.GetFloat("y", 0),
		Width:  req.GetFloat("width", 0),
		Height: req.GetFloat("height", 0),
	}
	add := req.GetBool("add", false)
	return s.selectionOp("Selected", func(c *editor.Controller) {
		c.SelectInRect(r, add)
	})(ctx, req)
}

func (s *Server) handleMoveSelection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dx, dy := req.GetFloat("dx", 0), req.GetFloat("dy", 0)
	return s.selectionOp(fmt.Sprintf("Moved by (%.0f, %.0f)", dx, dy), func(c *editor.Controller) {
		c.MoveSelected(dx, dy)
	})(ctx, req)
}

func (s *Server) handleDeleteSelection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var count int
	if err := s.ws.Do(func(c *editor.Controller) error {
		count = c.Selected().Count()
		return nil
	}); err != nil {
		return nil, err
	}
	if count == 0 {
		return textResult("Nothing is selected"), nil
	}
	if !s.confirm("delete_selection", fmt.Sprintf("Delete %d selected elements", count)) {
		return textResult("Action was rejected by the user."), nil
	}
	if err := s.edit(ctx, func(c *editor.Controller) error {
		c.Delete()
		return nil
	}); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Deleted %d elements", count)), nil
}

func (s *Server) handleClearPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.confirm("clear_page", "Remove everything from page "+s.ws.ActivePage()) {
		return textResult("Action was rejected by the user."), nil
	}
	if err := s.edit(ctx, func(c *editor.Controller) error {
		c.NewPage()
		return nil
	}); err != nil {
		return nil, err
	}
	return textResult("Page cleared"), nil
}

func (s *Server) handleUndo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.historyStep(ctx, "Undo", (*editor.Controller).Undo)
}

func (s *Server) handleRedo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.historyStep(ctx, "Redo", (*editor.Controller).Redo)
}

func (s *Server) historyStep(ctx context.Context, label string, step func(*editor.Controller) bool) (*mcp.CallToolResult, error) {
	var ok bool
	if err := s.edit(ctx, func(c *editor.Controller) error {
		ok = step(c)
		return nil
	}); err != nil {
		return nil, err
	}
	if !ok {
		return textResult(label + ": nothing to do"), nil
	}
	return textResult(label + " done"), nil
}
