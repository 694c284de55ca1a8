package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("system_diagram",
		mcp.WithPromptDescription("Draw a block diagram of a system on the open page"),
		mcp.WithArgument("systemName",
			mcp.ArgumentDescription("Name of the system to diagram"),
			mcp.RequiredArgument(),
		),
	), s.handleSystemDiagramPrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("bind_table",
		mcp.WithPromptDescription("Stamp one library block per row of a data source"),
		mcp.WithArgument("sourceType",
			mcp.ArgumentDescription("Source type (csv, json, http, database)"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("block",
			mcp.ArgumentDescription("Library block to stamp"),
			mcp.RequiredArgument(),
		),
	), s.handleBindTablePrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("build_library_block",
		mcp.WithPromptDescription("Draw a reusable symbol and store it in the library"),
		mcp.WithArgument("name",
			mcp.ArgumentDescription("Name of the new library block"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("description",
			mcp.ArgumentDescription("What the symbol should look like"),
		),
	), s.handleBuildLibraryBlockPrompt)
}

func userPrompt(description, text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Description: description,
		Messages: []mcp.PromptMessage{
			{
				Role:    mcp.RoleUser,
				Content: mcp.TextContent{Type: "text", Text: text},
			},
		},
	}
}

func (s *Server) handleSystemDiagramPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	systemName := req.Params.Arguments["systemName"]
	return userPrompt(fmt.Sprintf("Create a system diagram for: %s", systemName), fmt.Sprintf(`Create a block diagram of "%s" on the open page. Follow these steps:

1. Identify the main components of the system
2. Check list_library for existing symbols and insert them with insert_library_block (leave x/y out to get free spots)
3. For components without a symbol, draw a rectangle with add_shapes and put a text label inside it
4. Group each hand-drawn component: select it with select_rect and store it with add_selection_to_library, then insert it by name
5. Use connect_blocks between named blocks to show data flow
6. Finish with list_elements to check nothing overlaps, then save_page

Coordinates snap to the grid. The sheet is 1260 by 891 units.`, systemName)), nil
}

func (s *Server) handleBindTablePrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	sourceType := req.Params.Arguments["sourceType"]
	block := req.Params.Arguments["block"]
	return userPrompt(fmt.Sprintf("Bind %s rows to %s", sourceType, block), fmt.Sprintf(`Fill the open page with one "%s" block per row of a %s source. Follow these steps:

1. Call list_sources and read the config fields of "%s"
2. If the source is a database, pick a connection with list_connections and look at its tables with introspect_connection
3. Check list_library: the block's texts are filled in order from the columns after the id column, so choose or select columns to match
4. Call bind_rows with an integer id column. Rows that do not fit the block are skipped and reported
5. Save the page with save_page`, block, sourceType, sourceType)), nil
}

func (s *Server) handleBuildLibraryBlockPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := req.Params.Arguments["name"]
	description := req.Params.Arguments["description"]
	return userPrompt(fmt.Sprintf("Build library block %s", name), fmt.Sprintf(`Draw a reusable symbol called "%s" (%s). Follow these steps:

1. Draw it in an empty area of the open page with add_shapes, as one step
2. Add a text for every value that rows should fill later, in the order the columns will arrive
3. Add points with add_point where connectors should attach
4. Select exactly the drawing with select_rect and call add_selection_to_library with the name
5. Remove the drawing again with delete_selection if it should not stay on the page`, name, description)), nil
}
