package mcpserver

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"sheet/internal/editor"

	"github.com/mark3labs/mcp-go/mcp"
)

// registerPluginTools exposes every selection plugin as a tool named
// plugin_<name>. A plugin runs on the current selection and is one undo
// step.
func (s *Server) registerPluginTools() {
	if s.plugins == nil {
		return
	}

	s.plugins.ForEach(func(p editor.SelectionPlugin) {
		name := p.Name() // capture for closure
		s.mcp.AddTool(mcp.NewTool(pluginToolName(name),
			mcp.WithDescription(fmt.Sprintf("Run the %q plugin on the current selection. Fails when the selection is not something the plugin handles.", name)),
		), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			var ran bool
			if err := s.edit(ctx, func(c *editor.Controller) error {
				ran = c.ProcessPlugin(name)
				return nil
			}); err != nil {
				return nil, err
			}
			if !ran {
				return nil, fmt.Errorf("%s cannot process the current selection", name)
			}
			return textResult(name + " done"), nil
		})
	})
}

// pluginToolName turns "Invert Line Start" into "plugin_invert_line_start".
func pluginToolName(name string) string {
	var sb strings.Builder
	sb.WriteString("plugin_")
	underscore := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore {
			sb.WriteByte('_')
			underscore = true
		}
	}
	return strings.TrimSuffix(sb.String(), "_")
}
