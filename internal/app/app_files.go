package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"sheet/internal/domain"
	"sheet/internal/editor"
	"sheet/internal/entry"
	"sheet/internal/item"
)

var (
	textFilters = []wailsRuntime.FileFilter{
		{DisplayName: "Sheet Text", Pattern: "*.txt"},
		{DisplayName: "All Files", Pattern: "*.*"},
	}
	jsonFilters = []wailsRuntime.FileFilter{
		{DisplayName: "JSON", Pattern: "*.json"},
		{DisplayName: "All Files", Pattern: "*.*"},
	}
	solutionFilters = []wailsRuntime.FileFilter{
		{DisplayName: "Solution Archive", Pattern: "*.zip"},
	}
)

// pickOpen shows an open dialog and reads the chosen file. An empty path
// means the dialog was dismissed or the read failed; failures are logged.
func (a *App) pickOpen(title string, filters []wailsRuntime.FileFilter) (string, string) {
	path, err := wailsRuntime.OpenFileDialog(a.ctx, wailsRuntime.OpenDialogOptions{Title: title, Filters: filters})
	if err != nil || path == "" {
		return "", ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[SHEET] read %s: %v", path, err)
		return "", ""
	}
	return path, string(data)
}

// pickSave shows a save dialog and writes text. It returns the written
// path, or "" when dismissed or failed.
func (a *App) pickSave(title, defaultName string, filters []wailsRuntime.FileFilter, text string) string {
	path, err := wailsRuntime.SaveFileDialog(a.ctx, wailsRuntime.SaveDialogOptions{
		Title:           title,
		DefaultFilename: defaultName,
		Filters:         filters,
	})
	if err != nil || path == "" {
		return ""
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		log.Printf("[SHEET] write %s: %v", path, err)
		return ""
	}
	return path
}

// ============================================================
// Text and JSON files
// ============================================================

// OpenTextFile replaces the open page with a text file.
func (a *App) OpenTextFile() string {
	path, text := a.pickOpen("Open Sheet", textFilters)
	if path == "" {
		return ""
	}
	if err := a.run("OpenText", func(c *editor.Controller) error { return c.OpenText(a.ctx, text) }); err != nil {
		return ""
	}
	return path
}

// OpenJSONFile replaces the open page with a JSON file.
func (a *App) OpenJSONFile() string {
	path, text := a.pickOpen("Open JSON", jsonFilters)
	if path == "" {
		return ""
	}
	if err := a.run("OpenJson", func(c *editor.Controller) error { return c.OpenJSON(a.ctx, text) }); err != nil {
		return ""
	}
	return path
}

// SaveTextFile writes the page with its grid and frame as text.
func (a *App) SaveTextFile() string {
	var text string
	a.session.Inspect(func(c *editor.Controller) { text = c.SerializePage() })
	return a.pickSave("Save Sheet", a.pageFileName(".txt"), textFilters, text)
}

// SaveJSONFile writes the page contents as JSON.
func (a *App) SaveJSONFile() string {
	var (
		text string
		err  error
	)
	a.session.Inspect(func(c *editor.Controller) {
		text, err = item.ToJSON(c.PageItem().Content)
	})
	if err != nil {
		log.Printf("[SHEET] encode json: %v", err)
		return ""
	}
	return a.pickSave("Save JSON", a.pageFileName(".json"), jsonFilters, text)
}

// LoadLibraryFile replaces the library with the blocks of a text file.
func (a *App) LoadLibraryFile() string {
	path, text := a.pickOpen("Load Library", textFilters)
	if path == "" {
		return ""
	}
	if err := a.run("LoadLibrary", func(c *editor.Controller) error { return c.LoadLibrary(a.ctx, text) }); err != nil {
		return ""
	}
	return path
}

// SaveLibraryFile writes a copy of the library.
func (a *App) SaveLibraryFile() string {
	var text string
	a.session.Inspect(func(c *editor.Controller) { text = c.LibraryText() })
	return a.pickSave("Save Library", "library.txt", textFilters, text)
}

func (a *App) pageFileName(ext string) string {
	page, err := a.session.Page()
	if err != nil || page.Name == "" {
		return "sheet" + ext
	}
	return page.Name + ext
}

// ============================================================
// Export
// ============================================================

// ListExportFormats returns the registered export formats.
func (a *App) ListExportFormats() []string {
	return a.env.Exports.Formats()
}

// ExportPage asks for a target and writes the page in format in the
// background. The outcome arrives as export:done or export:error.
func (a *App) ExportPage(format string) (string, error) {
	path, err := wailsRuntime.SaveFileDialog(a.ctx, wailsRuntime.SaveDialogOptions{
		Title:           "Export " + strings.ToUpper(format),
		DefaultFilename: a.pageFileName("." + format),
	})
	if err != nil || path == "" {
		return "", err
	}
	var page item.Page
	a.session.Inspect(func(c *editor.Controller) { page = c.ExportPage() })
	if err := a.env.Exports.Export(a.ctx, page, format, path); err != nil {
		return "", err
	}
	return path, nil
}

// ============================================================
// Solutions
// ============================================================

// SaveSolution writes every document to a zip archive.
func (a *App) SaveSolution() (string, error) {
	path, err := wailsRuntime.SaveFileDialog(a.ctx, wailsRuntime.SaveDialogOptions{
		Title:           "Save Solution",
		DefaultFilename: "solution.zip",
		Filters:         solutionFilters,
	})
	if err != nil || path == "" {
		return "", err
	}
	return path, a.saveSolution(a.ctx, path)
}

func (a *App) saveSolution(ctx context.Context, path string) error {
	if err := a.session.Save(ctx); err != nil {
		return fmt.Errorf("save open page: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	sol, err := a.env.Documents.ExportSolution(name)
	if err != nil {
		return err
	}
	return entry.Save(path, sol)
}

// OpenSolution adds the documents of a zip archive to the workspace and
// opens the first imported page.
func (a *App) OpenSolution() ([]domain.Document, error) {
	path, err := wailsRuntime.OpenFileDialog(a.ctx, wailsRuntime.OpenDialogOptions{
		Title:   "Open Solution",
		Filters: solutionFilters,
	})
	if err != nil || path == "" {
		return nil, err
	}
	sol, err := entry.Open(path)
	if err != nil {
		return nil, err
	}
	docs, err := a.env.Documents.ImportSolution(sol)
	if err != nil {
		return nil, err
	}
	if len(docs) > 0 {
		pages, err := a.env.Documents.ListPages(docs[0].ID)
		if err == nil && len(pages) > 0 {
			if _, err := a.OpenPage(pages[0].ID); err != nil {
				return docs, err
			}
		}
	}
	return docs, nil
}
