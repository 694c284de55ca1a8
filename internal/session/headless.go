package session

import (
	"context"

	"sheet/internal/editor"
	"sheet/internal/plugins"
	"sheet/internal/scene"
	"sheet/internal/service"
)

// NewHeadless builds a session over in-memory surfaces with the built-in
// plugins registered. It backs the standalone MCP server and sheetctl.
func NewHeadless(ctx context.Context, env *Env, emitter service.EventEmitter) *Session {
	ctrl := editor.New(env.Options,
		editor.Surfaces{
			Back:    scene.NewMemorySurface(),
			Content: scene.NewMemorySurface(),
			Overlay: scene.NewMemorySurface(),
		},
		editor.Collaborators{Library: env.Library},
	)
	for _, p := range plugins.Builtins() {
		ctrl.RegisterPlugin(p)
	}
	return New(ctx, ctrl, env.Documents, emitter)
}
