package app

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"runtime"
	"time"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"sheet/internal/config"
	"sheet/internal/domain"
	"sheet/internal/editor"
	mcpserver "sheet/internal/mcp"
	"sheet/internal/plugins"
	"sheet/internal/service"
	"sheet/internal/session"
)

// wailsEmitter delivers service events to the webview.
type wailsEmitter struct{}

func (wailsEmitter) Emit(ctx context.Context, event string, data any) {
	wailsRuntime.EventsEmit(ctx, event, data)
}

// App is the main Wails application struct.
// All exported methods are available as Wails bindings.
type App struct {
	ctx     context.Context
	emitter service.EventEmitter

	env     *session.Env
	session *session.Session

	back    *remoteSurface
	content *remoteSurface
	overlay *remoteSurface
	prompt  *remotePrompt

	autosave *service.Autosaver
	watcher  *pageWatcher

	// In-app MCP endpoint, nil unless mcp_addr is set
	mcp       *mcpserver.Server
	mcpCancel context.CancelFunc
}

// New creates a new App.
func New() *App {
	return &App{emitter: wailsEmitter{}}
}

// Startup is called when the app starts.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx

	// macOS: let held arrow keys repeat in the WebView instead of showing
	// the accent popup.
	if runtime.GOOS == "darwin" {
		exec.Command("defaults", "write", "com.wails.sheet", "ApplePressAndHoldEnabled", "-bool", "false").Run()
	}

	dataDir := session.DefaultDataDir()
	opts, err := config.Load(session.OptionsPath(dataDir))
	if err != nil {
		wailsRuntime.LogErrorf(ctx, "Failed to load options, using defaults: %v", err)
		opts = config.Default()
	}

	env, err := session.OpenEnv(session.EnvConfig{DataDir: dataDir, Options: opts, Emitter: a.emitter})
	if err != nil {
		wailsRuntime.LogFatalf(ctx, "Failed to open workspace: %v", err)
		return
	}
	a.env = env

	a.back = newRemoteSurface(ctx, LayerBack, a.emitter)
	a.content = newRemoteSurface(ctx, LayerContent, a.emitter)
	a.overlay = newRemoteSurface(ctx, LayerOverlay, a.emitter)
	a.prompt = &remotePrompt{ctx: ctx, emitter: a.emitter}

	ctrl := editor.New(env.Options,
		editor.Surfaces{Back: a.back, Content: a.content, Overlay: a.overlay},
		editor.Collaborators{
			Clipboard:  wailsClipboard{ctx: ctx},
			Library:    env.Library,
			TextEditor: a.prompt,
			Images:     imagePicker{ctx: ctx},
		},
	)
	for _, p := range plugins.Builtins() {
		ctrl.RegisterPlugin(p)
	}
	a.session = session.New(ctx, ctrl, env.Documents, a.emitter)

	pageID, err := a.session.OpenLast(ctx)
	if err != nil {
		wailsRuntime.LogErrorf(ctx, "Failed to open last page: %v", err)
	}

	if err := env.Library.Watch(ctx); err != nil {
		wailsRuntime.LogErrorf(ctx, "Failed to watch library: %v", err)
	}

	if env.Options.Autosave != "" {
		a.autosave = service.NewAutosaver(env.Options.Autosave, a.session.Save, a.emitter)
		if err := a.autosave.Start(ctx); err != nil {
			wailsRuntime.LogErrorf(ctx, "Failed to start autosave: %v", err)
		}
	}

	a.watcher = newPageWatcher(ctx, a.session, env.Documents, env.Approvals, a.emitter)
	a.watcher.SetPage(pageID)
	a.watcher.Start()

	if env.Options.MCPAddr != "" {
		a.startMCP(env.Options.MCPAddr)
	}

	a.restoreWindow()
}

// Shutdown is called when the app is closing.
func (a *App) Shutdown(ctx context.Context) {
	if a.env == nil {
		return
	}
	a.rememberWindow()

	if a.mcpCancel != nil {
		a.mcpCancel()
	}
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if a.autosave != nil {
		a.autosave.Stop()
	}
	if err := a.session.Save(ctx); err != nil {
		log.Printf("[SHEET] save on exit: %v", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	a.env.Exports.WaitRunning(waitCtx)

	a.env.Close()
}

// ============================================================
// Window
// ============================================================

const (
	settingWindowWidth  = "window_width"
	settingWindowHeight = "window_height"
)

func (a *App) restoreWindow() {
	w := a.env.Settings.GetInt(settingWindowWidth, 0)
	h := a.env.Settings.GetInt(settingWindowHeight, 0)
	if w >= 800 && h >= 600 {
		wailsRuntime.WindowSetSize(a.ctx, w, h)
	}
}

func (a *App) rememberWindow() {
	w, h := wailsRuntime.WindowGetSize(a.ctx)
	if err := a.env.Settings.Set(settingWindowWidth, w); err != nil {
		log.Printf("[SHEET] remember window size: %v", err)
		return
	}
	a.env.Settings.Set(settingWindowHeight, h)
}

// ============================================================
// Documents
// ============================================================

func (a *App) ListDocuments() ([]domain.Document, error) {
	return a.env.Documents.ListDocuments()
}

// CreateDocument creates a document with one page and opens that page.
func (a *App) CreateDocument(name string) (*domain.Document, error) {
	doc, page, err := a.env.Documents.CreateDocument(name)
	if err != nil {
		return nil, err
	}
	if _, err := a.OpenPage(page.ID); err != nil {
		return nil, err
	}
	return doc, nil
}

func (a *App) RenameDocument(id, name string) error {
	return a.env.Documents.RenameDocument(id, name)
}

func (a *App) DeleteDocument(id string) error {
	if err := a.env.Documents.DeleteDocument(id); err != nil {
		return err
	}
	return a.reopenIfGone()
}

// ============================================================
// Pages
// ============================================================

func (a *App) ListPages(documentID string) ([]domain.Page, error) {
	return a.env.Documents.ListPages(documentID)
}

func (a *App) CreatePage(documentID, name string) (*domain.Page, error) {
	return a.env.Documents.CreatePage(documentID, name)
}

func (a *App) RenamePage(id, name string) error {
	return a.env.Documents.RenamePage(id, name)
}

func (a *App) DeletePage(id string) error {
	if err := a.env.Documents.DeletePage(id); err != nil {
		return err
	}
	return a.reopenIfGone()
}

// OpenPage saves the open page, loads pageID and returns its state.
func (a *App) OpenPage(pageID string) (*domain.PageState, error) {
	wailsRuntime.LogInfof(a.ctx, "[OpenPage] loading page: %s", pageID)
	if err := a.session.OpenPage(a.ctx, pageID); err != nil {
		return nil, err
	}
	a.watcher.SetPage(pageID)
	return a.GetPageState()
}

// SavePage writes the open page now.
func (a *App) SavePage() error {
	return a.session.Save(a.ctx)
}

// GetPageState describes the open page and the editor around it.
func (a *App) GetPageState() (*domain.PageState, error) {
	page, err := a.session.Page()
	if err != nil {
		return nil, err
	}
	state := &domain.PageState{Page: *page}
	a.session.Inspect(func(c *editor.Controller) {
		v := c.View()
		state.Mode = c.Mode().String()
		state.ZoomIndex, state.Zoom = v.ZoomIndex, v.Zoom
		state.PanX, state.PanY = v.PanX, v.PanY
		state.Labels = c.History().Labels()
		state.CanUndo = c.History().CanUndo()
		state.CanRedo = c.History().CanRedo()
		state.Plugins = c.Plugins().Names()
	})
	if state.Labels == nil {
		state.Labels = []string{}
	}
	return state, nil
}

// GetScene returns every live primitive, back layer first.
func (a *App) GetScene() []ElementView {
	var views []ElementView
	a.session.Inspect(func(c *editor.Controller) {
		views = append(views, a.back.Views()...)
		views = append(views, a.content.Views()...)
		views = append(views, a.overlay.Views()...)
	})
	return views
}

// reopenIfGone opens another page when the open one was deleted.
func (a *App) reopenIfGone() error {
	id := a.session.ActivePage()
	if id == "" {
		return nil
	}
	if _, err := a.env.Documents.GetPage(id); err == nil {
		return nil
	}
	pageID, err := a.session.OpenLast(a.ctx)
	if err != nil {
		return fmt.Errorf("reopen after delete: %w", err)
	}
	a.watcher.SetPage(pageID)
	return nil
}
