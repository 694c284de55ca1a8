package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"sheet/internal/editor"
	"sheet/internal/item"
	"sheet/internal/scene"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerDrawingTools() {
	s.mcp.AddTool(mcp.NewTool("add_line",
		mcp.WithDescription("Draw a straight line on the open page. Coordinates are snapped to the grid."),
		mcp.WithNumber("x1", mcp.Description("Start X"), mcp.Required()),
		mcp.WithNumber("y1", mcp.Description("Start Y"), mcp.Required()),
		mcp.WithNumber("x2", mcp.Description("End X"), mcp.Required()),
		mcp.WithNumber("y2", mcp.Description("End Y"), mcp.Required()),
		mcp.WithString("color", mcp.Description("Stroke colour, hex or name (optional, default black)")),
	), s.handleAddLine)

	s.mcp.AddTool(mcp.NewTool("add_rectangle",
		mcp.WithDescription("Draw a rectangle on the open page"),
		mcp.WithNumber("x", mcp.Description("Left"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("Top"), mcp.Required()),
		mcp.WithNumber("width", mcp.Description("Width"), mcp.Required()),
		mcp.WithNumber("height", mcp.Description("Height"), mcp.Required()),
		mcp.WithString("color", mcp.Description("Stroke colour (optional, default black)")),
		mcp.WithString("fill", mcp.Description("Fill colour (optional, default transparent)")),
	), s.handleAddShape("rectangle"))

	s.mcp.AddTool(mcp.NewTool("add_ellipse",
		mcp.WithDescription("Draw an ellipse inscribed in the given box on the open page"),
		mcp.WithNumber("x", mcp.Description("Left"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("Top"), mcp.Required()),
		mcp.WithNumber("width", mcp.Description("Width"), mcp.Required()),
		mcp.WithNumber("height", mcp.Description("Height"), mcp.Required()),
		mcp.WithString("color", mcp.Description("Stroke colour (optional, default black)")),
		mcp.WithString("fill", mcp.Description("Fill colour (optional, default transparent)")),
	), s.handleAddShape("ellipse"))

	s.mcp.AddTool(mcp.NewTool("add_text",
		mcp.WithDescription("Place a text label in a box on the open page"),
		mcp.WithString("text", mcp.Description("Label text"), mcp.Required()),
		mcp.WithNumber("x", mcp.Description("Left"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("Top"), mcp.Required()),
		mcp.WithNumber("width", mcp.Description("Box width (optional, default 30)")),
		mcp.WithNumber("height", mcp.Description("Box height (optional, default 15)")),
		mcp.WithNumber("size", mcp.Description("Font size (optional, default 11)")),
		mcp.WithString("align", mcp.Description("Horizontal alignment: left, center, right, stretch (optional, default center)")),
		mcp.WithString("color", mcp.Description("Text colour (optional, default black)")),
	), s.handleAddShape("text"))

	s.mcp.AddTool(mcp.NewTool("add_point",
		mcp.WithDescription("Add a connection point. Line ends drawn in the editor attach to points."),
		mcp.WithNumber("x", mcp.Description("X"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("Y"), mcp.Required()),
	), s.handleAddShape("point"))

	// ── Batch ─────────────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_shapes",
		mcp.WithDescription("Add several primitives as one undoable step. Pass a JSON array of objects {type: line|rectangle|ellipse|text|point, x, y, width?, height?, x2?, y2?, text?, color?, fill?, size?, align?}. Lines use x,y to x2,y2."),
		mcp.WithString("shapes", mcp.Description("JSON array of shape objects"), mcp.Required()),
	), s.handleAddShapes)

	s.mcp.AddTool(mcp.NewTool("connect_blocks",
		mcp.WithDescription("Connect two named blocks on the open page with an orthogonal connector routed around other blocks"),
		mcp.WithString("from", mcp.Description("Name of the source block"), mcp.Required()),
		mcp.WithString("to", mcp.Description("Name of the target block"), mcp.Required()),
		mcp.WithString("color", mcp.Description("Stroke colour (optional, default black)")),
	), s.handleConnectBlocks)
}

// ── Shape specs ─────────────────────────────────────────────

// shapeSpec is one primitive as tools describe it.
type shapeSpec struct {
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Text   string  `json:"text"`
	Color  string  `json:"color"`
	Fill   string  `json:"fill"`
	Size   float64 `json:"size"`
	Align  string  `json:"align"`
}

func shapeFromArgs(kind string, args map[string]any) shapeSpec {
	num := func(k string) float64 {
		v, _ := args[k].(float64)
		return v
	}
	str := func(k string) string {
		v, _ := args[k].(string)
		return v
	}
	return shapeSpec{
		Type: kind,
		X:    num("x"), Y: num("y"),
		X2: num("x2"), Y2: num("y2"),
		Width: num("width"), Height: num("height"),
		Text: str("text"), Color: str("color"), Fill: str("fill"),
		Size: num("size"), Align: str("align"),
	}
}

var alignments = map[string]int{
	"":        item.AlignCenter,
	"left":    item.AlignStart,
	"center":  item.AlignCenter,
	"right":   item.AlignEnd,
	"stretch": item.AlignStretch,
}

// appendTo adds the primitive to b with every coordinate snapped.
func (sp shapeSpec) appendTo(b *item.BlockItem, snap func(float64) float64) error {
	stroke, err := parseColor(sp.Color, item.Black)
	if err != nil {
		return err
	}
	switch strings.ToLower(sp.Type) {
	case "line":
		b.Lines = append(b.Lines, &item.LineItem{
			X1: snap(sp.X), Y1: snap(sp.Y), X2: snap(sp.X2), Y2: snap(sp.Y2), Stroke: stroke,
		})
	case "rectangle", "ellipse":
		if sp.Width <= 0 || sp.Height <= 0 {
			return fmt.Errorf("%s needs a positive width and height", sp.Type)
		}
		fill, err := parseColor(sp.Fill, item.Transparent)
		if err != nil {
			return err
		}
		x, y := snap(sp.X), snap(sp.Y)
		w, h := snap(sp.X+sp.Width)-x, snap(sp.Y+sp.Height)-y
		if strings.EqualFold(sp.Type, "rectangle") {
			b.Rectangles = append(b.Rectangles, &item.RectangleItem{
				X: x, Y: y, Width: w, Height: h, IsFilled: !fill.IsTransparent(), Stroke: stroke, Fill: fill,
			})
		} else {
			b.Ellipses = append(b.Ellipses, &item.EllipseItem{
				X: x, Y: y, Width: w, Height: h, IsFilled: !fill.IsTransparent(), Stroke: stroke, Fill: fill,
			})
		}
	case "text":
		align, ok := alignments[strings.ToLower(sp.Align)]
		if !ok {
			return fmt.Errorf("unknown alignment %q", sp.Align)
		}
		t := &item.TextItem{
			X: snap(sp.X), Y: snap(sp.Y), Width: sp.Width, Height: sp.Height,
			HAlign: align, VAlign: item.AlignCenter, Size: sp.Size,
			Foreground: stroke, Background: item.Transparent, Text: sp.Text,
		}
		if t.Width <= 0 {
			t.Width = 30
		}
		if t.Height <= 0 {
			t.Height = 15
		}
		if t.Size <= 0 {
			t.Size = 11
		}
		b.Texts = append(b.Texts, t)
	case "point":
		b.Points = append(b.Points, &item.PointItem{X: snap(sp.X), Y: snap(sp.Y)})
	default:
		return fmt.Errorf("unknown shape type %q", sp.Type)
	}
	return nil
}

// drawShapes inserts specs as one history step and selects them.
func (s *Server) drawShapes(ctx context.Context, label string, specs []shapeSpec) error {
	return s.edit(ctx, func(c *editor.Controller) error {
		snapSize := c.Options().SnapSize
		snap := func(v float64) float64 { return item.Snap(v, snapSize) }
		b := item.NewBlockItem(0, 0, 0, 0, 0, item.Unbound, "")
		for i, sp := range specs {
			if err := sp.appendTo(b, snap); err != nil {
				return fmt.Errorf("shape %d: %w", i, err)
			}
		}
		c.Add(label, b)
		return nil
	})
}

// ── Handlers ────────────────────────────────────────────────

func (s *Server) handleAddLine(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	sp := shapeFromArgs("line", args)
	sp.X, sp.Y = req.GetFloat("x1", 0), req.GetFloat("y1", 0)
	if err := s.drawShapes(ctx, "Add Line", []shapeSpec{sp}); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Line (%.0f, %.0f) → (%.0f, %.0f) added", sp.X, sp.Y, sp.X2, sp.Y2)), nil
}

func (s *Server) handleAddShape(kind string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	label := "Add " + strings.ToUpper(kind[:1]) + kind[1:]
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sp := shapeFromArgs(kind, req.GetArguments())
		if err := s.drawShapes(ctx, label, []shapeSpec{sp}); err != nil {
			return nil, err
		}
		return textResult(fmt.Sprintf("%s added at (%.0f, %.0f)", kind, sp.X, sp.Y)), nil
	}
}

func (s *Server) handleAddShapes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := req.GetString("shapes", "")
	var specs []shapeSpec
	if err := json.Unmarshal([]byte(raw), &specs); err != nil {
		return nil, fmt.Errorf("parse shapes: %w", err)
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("shapes is empty")
	}
	if err := s.drawShapes(ctx, "Add Shapes", specs); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("%d shapes added", len(specs))), nil
}

func (s *Server) handleConnectBlocks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from := req.GetString("from", "")
	to := req.GetString("to", "")
	if from == "" || to == "" {
		return nil, fmt.Errorf("from and to are required")
	}
	stroke, err := parseColor(req.GetString("color", ""), item.Black)
	if err != nil {
		return nil, err
	}

	var segments int
	err = s.edit(ctx, func(c *editor.Controller) error {
		content := c.Content()
		src, dst := content.FindBlock(from), content.FindBlock(to)
		if src == nil || dst == nil {
			return fmt.Errorf("block %q or %q not found on the page", from, to)
		}
		srcRect, ok1 := blockBounds(src)
		dstRect, ok2 := blockBounds(dst)
		if !ok1 || !ok2 {
			return fmt.Errorf("cannot connect empty blocks")
		}
		var obstacles []scene.Rect
		for _, b := range content.Blocks {
			if b == src || b == dst {
				continue
			}
			if r, ok := blockBounds(b); ok {
				obstacles = append(obstacles, r)
			}
		}

		path := routeOrtho(srcRect, dstRect, obstacles)
		connector := item.NewBlockItem(0, 0, 0, 0, 0, item.Unbound, "")
		for i := 0; i+1 < len(path); i++ {
			connector.Lines = append(connector.Lines, &item.LineItem{
				X1: path[i].X, Y1: path[i].Y, X2: path[i+1].X, Y2: path[i+1].Y, Stroke: stroke,
			})
		}
		segments = len(connector.Lines)
		c.Add("Connect Blocks", connector)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Connected %s → %s with %d segments", from, to, segments)), nil
}
