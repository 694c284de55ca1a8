package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"sheet/internal/datasource"
	"sheet/internal/editor"
	"sheet/internal/scene"
	"sheet/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerDataTools() {
	s.mcp.AddTool(mcp.NewTool("list_connections",
		mcp.WithDescription("List the saved database connections (passwords are never returned)"),
	), s.handleListConnections)

	s.mcp.AddTool(mcp.NewTool("query_connection",
		mcp.WithDescription("Run a read-only query on a saved connection. SQL for mysql/postgres/sqlite, a JSON find spec for mongodb."),
		mcp.WithString("connectionId", mcp.Description("Connection ID"), mcp.Required()),
		mcp.WithString("query", mcp.Description("Query text"), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Maximum rows (optional, default 100)")),
	), s.handleQueryConnection)

	s.mcp.AddTool(mcp.NewTool("introspect_connection",
		mcp.WithDescription("Describe the tables/collections and columns of a saved connection"),
		mcp.WithString("connectionId", mcp.Description("Connection ID"), mcp.Required()),
	), s.handleIntrospectConnection)

	s.mcp.AddTool(mcp.NewTool("list_sources",
		mcp.WithDescription("List the data source types rows can be bound from, with their config fields"),
	), s.handleListSources)

	s.mcp.AddTool(mcp.NewTool("bind_rows",
		mcp.WithDescription("Read rows from a data source and bind each row to a copy of a library block. The id column becomes the block's dataId and the other columns fill its texts in order."),
		mcp.WithString("sourceType", mcp.Description("Source type from list_sources (csv, json, http, database)"), mcp.Required()),
		mcp.WithString("config", mcp.Description("Source config as a JSON object"), mcp.Required()),
		mcp.WithString("idColumn", mcp.Description("Column holding the integer row id"), mcp.Required()),
		mcp.WithString("block", mcp.Description("Library block to stamp for each row"), mcp.Required()),
		mcp.WithString("transforms", mcp.Description("JSON array of {type: filter|select|limit, config} (optional)")),
		mcp.WithNumber("x", mcp.Description("Left of the first block (optional)")),
		mcp.WithNumber("y", mcp.Description("Top of the first block (optional)")),
	), s.handleBindRows)
}

func (s *Server) handleListConnections(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	conns, err := s.bindings.ListConnections()
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	return jsonResult(conns)
}

func (s *Server) handleQueryConnection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	connID := req.GetString("connectionId", "")
	query := req.GetString("query", "")
	if connID == "" || query == "" {
		return nil, fmt.Errorf("connectionId and query are required")
	}
	limit := req.GetInt("limit", 100)
	table, err := s.bindings.QueryConnection(ctx, connID, query, limit)
	if err != nil {
		return nil, err
	}
	return jsonResult(table)
}

func (s *Server) handleIntrospectConnection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	connID := req.GetString("connectionId", "")
	if connID == "" {
		return nil, fmt.Errorf("connectionId is required")
	}
	schema, err := s.bindings.Introspect(ctx, connID)
	if err != nil {
		return nil, fmt.Errorf("introspect: %w", err)
	}
	return jsonResult(schema)
}

func (s *Server) handleListSources(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.bindings.ListSources())
}

func (s *Server) handleBindRows(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	bind := service.BindRequest{
		SourceType: req.GetString("sourceType", ""),
		IDColumn:   req.GetString("idColumn", ""),
	}
	if err := json.Unmarshal([]byte(req.GetString("config", "{}")), &bind.Config); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if raw := req.GetString("transforms", ""); raw != "" {
		var transforms []datasource.TransformConfig
		if err := json.Unmarshal([]byte(raw), &transforms); err != nil {
			return nil, fmt.Errorf("parse transforms: %w", err)
		}
		bind.Transforms = transforms
	}

	blockName := req.GetString("block", "")
	lib, err := s.findLibraryBlock(blockName)
	if err != nil {
		return nil, err
	}
	rows, err := s.bindings.Rows(ctx, bind)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return textResult("The source returned no rows"), nil
	}

	args := req.GetArguments()
	_, hasX := args["x"]
	_, hasY := args["y"]

	var bound, skipped int
	err = s.edit(ctx, func(c *editor.Controller) error {
		if !s.library.SelectByName(blockName) {
			return fmt.Errorf("library block %q not found", blockName)
		}
		size := itemSize(lib)
		start := scene.Vec{X: req.GetFloat("x", 0), Y: req.GetFloat("y", 0)}
		if !hasX || !hasY {
			start = s.freeSpot(c, size)
		}
		opts := c.Options()
		sizes := make([]scene.Rect, len(rows))
		for i := range sizes {
			sizes[i] = size
		}
		for i, at := range s.layout.ArrangeGroup(sizes, start, opts.PageOriginX+opts.PageWidth) {
			if c.TryToBindData(at, rows[i]) {
				bound++
			} else {
				skipped++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	msg := fmt.Sprintf("Bound %d rows to %s", bound, blockName)
	if skipped > 0 {
		msg += fmt.Sprintf(" (%d rows did not fit the block's texts)", skipped)
	}
	return textResult(msg), nil
}
