package main

import (
	"github.com/spf13/cobra"

	mcpserver "sheet/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serves the workspace to agents over MCP on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return mcpserver.ServeStandalone(cmd.Context(), dataDir)
		},
	}
}
