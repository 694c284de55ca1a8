package session

import (
	"fmt"
	"os"
	"path/filepath"

	"sheet/internal/config"
	"sheet/internal/export"
	"sheet/internal/secret"
	"sheet/internal/service"
	"sheet/internal/storage"
)

// Env is the storage and services behind an editing session. The desktop
// app, the standalone MCP server and sheetctl all build one.
type Env struct {
	Options   config.Options
	DB        *storage.DB
	Documents *service.DocumentService
	Library   *service.LibraryService
	Bindings  *service.BindingService
	Exports   *service.ExportService
	Approvals *storage.ApprovalStore
	Settings  *storage.SettingsStore
}

// EnvConfig selects where an Env lives and what it talks to. Zero values
// fall back to the default data dir, options, keychain and a silent
// emitter.
type EnvConfig struct {
	DataDir string
	Options config.Options
	Secrets secret.SecretStore
	Emitter service.EventEmitter
}

// DefaultDataDir is ~/.local/share/sheet.
func DefaultDataDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".local", "share", "sheet")
}

// OptionsPath is the options file inside a data dir.
func OptionsPath(dataDir string) string {
	return filepath.Join(dataDir, "options.yaml")
}

// OpenEnv opens the database under cfg.DataDir and wires the services.
// The library file is loaded but not watched.
func OpenEnv(cfg EnvConfig) (*Env, error) {
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir()
	}
	if cfg.Secrets == nil {
		cfg.Secrets = secret.NewKeychainStore()
	}
	if cfg.Emitter == nil {
		cfg.Emitter = service.NopEmitter{}
	}
	opts := cfg.Options
	if len(opts.ZoomFactors) == 0 {
		opts = config.Default()
	}

	db, err := storage.New(filepath.Join(cfg.DataDir, "sheet.db"), filepath.Join(cfg.DataDir, "files"))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	undo := storage.NewUndoStore(db)
	if opts.HistoryLimit > 0 {
		undo.SetLimit(opts.HistoryLimit)
	}
	settings := storage.NewSettingsStore(db)

	libraryPath := opts.LibraryPath
	if libraryPath == "" {
		libraryPath = filepath.Join(cfg.DataDir, "library.txt")
	}
	library := service.NewLibraryService(libraryPath, cfg.Emitter)
	if err := library.Load(); err != nil {
		db.Close()
		return nil, err
	}

	bindings := service.NewBindingService(storage.NewDataConnectionStore(db), cfg.Secrets)
	bindings.Install()

	exports := service.NewExportService(export.Builtins(export.Style{
		LineThickness:  opts.LineThickness,
		FrameThickness: opts.FrameThickness,
		GridThickness:  opts.GridThickness,
	}), cfg.Emitter)

	return &Env{
		Options:   opts,
		DB:        db,
		Documents: service.NewDocumentService(storage.NewDocumentStore(db), undo, settings, cfg.Emitter),
		Library:   library,
		Bindings:  bindings,
		Exports:   exports,
		Approvals: storage.NewApprovalStore(db),
		Settings:  settings,
	}, nil
}

// Close stops the library watcher, closes data connectors and the database.
func (e *Env) Close() error {
	e.Library.Stop()
	e.Bindings.Close()
	return e.DB.Close()
}
