package mcpserver

import (
	"context"
	"fmt"
	"log"

	"sheet/internal/config"
	"sheet/internal/editor"
	"sheet/internal/service"
	"sheet/internal/session"
)

// ServeStandalone opens the workspace under dataDir and serves the tools
// on stdin/stdout until ctx is done or the client hangs up. It edits the
// last opened page; destructive calls are parked in SQLite for the
// desktop app to approve.
func ServeStandalone(ctx context.Context, dataDir string) error {
	if dataDir == "" {
		dataDir = session.DefaultDataDir()
	}
	opts, err := config.Load(session.OptionsPath(dataDir))
	if err != nil {
		log.Printf("[MCP] options: %v, using defaults", err)
		opts = config.Default()
	}

	emitter := service.NopEmitter{}
	env, err := session.OpenEnv(session.EnvConfig{DataDir: dataDir, Options: opts, Emitter: emitter})
	if err != nil {
		return fmt.Errorf("open workspace: %w", err)
	}
	defer env.Close()

	ws := session.NewHeadless(ctx, env, emitter)
	if _, err := ws.OpenLast(ctx); err != nil {
		return fmt.Errorf("open last page: %w", err)
	}

	var registry *editor.PluginRegistry
	ws.Inspect(func(c *editor.Controller) { registry = c.Plugins() })

	srv := New(ctx, Deps{
		Emitter:   emitter,
		Workspace: ws,
		Documents: env.Documents,
		Library:   env.Library,
		Bindings:  env.Bindings,
		Exports:   env.Exports,
		Plugins:   registry,
		Approvals: env.Approvals, // Enable SQLite-based approval IPC
	})

	serveErr := srv.ServeStdio()

	// Background work outlives the client; finish it before closing the db
	if err := ws.Save(context.Background()); err != nil {
		log.Printf("[MCP] save on exit: %v", err)
	}
	env.Exports.WaitRunning(context.Background())
	return serveErr
}
