package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	mcpserver "sheet/internal/mcp"
)

// ServeMCP runs the app as a standalone MCP server on stdin/stdout with no GUI.
// An empty dataDir uses the desktop app's workspace.
func ServeMCP(dataDir string) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Println("[MCP] Starting standalone stdio server...")
	if err := mcpserver.ServeStandalone(ctx, dataDir); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
}
