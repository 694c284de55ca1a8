package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"sheet/internal/service"
)

// ── Clipboard ──────────────────────────────────────────────

// wailsClipboard is the system clipboard.
type wailsClipboard struct {
	ctx context.Context
}

func (c wailsClipboard) Get() (string, error) {
	return wailsRuntime.ClipboardGetText(c.ctx)
}

func (c wailsClipboard) Set(text string) error {
	return wailsRuntime.ClipboardSetText(c.ctx, text)
}

// ── Text editor ────────────────────────────────────────────

// PromptView is sent with editor:prompt.
type PromptView struct {
	Title string `json:"title"`
	Label string `json:"label"`
	Text  string `json:"text"`
}

// remotePrompt shows the modal text editor in the frontend. The frontend
// answers with SubmitPrompt or CancelPrompt; only one prompt is open at a
// time and a new one cancels the old.
type remotePrompt struct {
	ctx     context.Context
	emitter service.EventEmitter

	mu     sync.Mutex
	ok     func(string)
	cancel func()
}

func (p *remotePrompt) Show(title, label, text string, ok func(string), cancel func()) {
	p.mu.Lock()
	prevCancel := p.cancel
	p.ok, p.cancel = ok, cancel
	p.mu.Unlock()

	if prevCancel != nil {
		prevCancel()
	}
	p.emitter.Emit(p.ctx, "editor:prompt", PromptView{Title: title, Label: label, Text: text})
}

// take returns and clears the open continuations.
func (p *remotePrompt) take() (func(string), func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ok, cancel := p.ok, p.cancel
	p.ok, p.cancel = nil, nil
	return ok, cancel
}

// ── Images ─────────────────────────────────────────────────

// imagePicker asks for an image file with the native dialog.
type imagePicker struct {
	ctx context.Context
}

func (p imagePicker) Open() ([]byte, error) {
	path, err := wailsRuntime.OpenFileDialog(p.ctx, wailsRuntime.OpenDialogOptions{
		Title: "Insert Image",
		Filters: []wailsRuntime.FileFilter{
			{DisplayName: "Images", Pattern: "*.png;*.jpg;*.jpeg;*.gif;*.bmp"},
			{DisplayName: "All Files", Pattern: "*.*"},
		},
	})
	if err != nil || path == "" {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[SHEET] read image %s: %v", path, err)
		return nil, fmt.Errorf("read image: %w", err)
	}
	return data, nil
}
