package app

import (
	"context"
	"slices"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"sheet/internal/editor"
	mcpserver "sheet/internal/mcp"
	"sheet/internal/storage"
)

// ============================================================
// MCP
// ============================================================

// startMCP serves the tools over HTTP against the open window. Approvals
// for these calls wait in process and are resolved by ApproveMCPAction.
func (a *App) startMCP(addr string) {
	var registry *editor.PluginRegistry
	a.session.Inspect(func(c *editor.Controller) { registry = c.Plugins() })

	ctx, cancel := context.WithCancel(a.ctx)
	a.mcpCancel = cancel
	a.mcp = mcpserver.New(ctx, mcpserver.Deps{
		Emitter:   a.emitter,
		Workspace: a.session,
		Documents: a.env.Documents,
		Library:   a.env.Library,
		Bindings:  a.env.Bindings,
		Exports:   a.env.Exports,
		Plugins:   registry,
	})
	go func() {
		if err := a.mcp.ServeHTTP(ctx, addr); err != nil {
			wailsRuntime.LogErrorf(a.ctx, "MCP server stopped: %v", err)
		}
	}()
}

// ListPendingApprovals returns tool calls parked by a standalone MCP
// server. The desktop also hears about them via mcp:approval-required.
func (a *App) ListPendingApprovals() ([]storage.Approval, error) {
	pending, err := a.env.Approvals.ListPending()
	if err != nil {
		return nil, err
	}
	if pending == nil {
		pending = []storage.Approval{}
	}
	return pending, nil
}

// ApproveMCPAction lets a destructive tool call run.
func (a *App) ApproveMCPAction(actionID string) error {
	return a.resolveMCPAction(actionID, true)
}

// RejectMCPAction refuses a destructive tool call.
func (a *App) RejectMCPAction(actionID string) error {
	return a.resolveMCPAction(actionID, false)
}

// resolveMCPAction answers an in-process request when one waits under
// actionID, otherwise the parked row of a standalone server.
func (a *App) resolveMCPAction(actionID string, approved bool) error {
	if a.mcp != nil && slices.Contains(a.mcp.Pending(), actionID) {
		if approved {
			a.mcp.Approve(actionID)
		} else {
			a.mcp.Reject(actionID)
		}
		return nil
	}
	return a.env.Approvals.Resolve(actionID, approved)
}
