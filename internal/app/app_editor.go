package app

import (
	"fmt"
	"strings"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"sheet/internal/editor"
	"sheet/internal/scene"
)

// ============================================================
// Pointer
// ============================================================

// Mouse buttons as reported by the DOM.
const (
	ButtonLeft  = 0
	ButtonRight = 2
)

// PointerEvent is a mouse event in canvas pixels, before zoom and pan.
type PointerEvent struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Button int     `json:"button"`
	Ctrl   bool    `json:"ctrl"`
	Shift  bool    `json:"shift"`
}

// input maps screen pixels to page units: screen = point*zoom + pan.
func (ev PointerEvent) input(c *editor.Controller) editor.Input {
	v := c.View()
	zoom := v.Zoom
	if zoom == 0 {
		zoom = 1
	}
	return editor.Input{
		Point: scene.Vec{X: (ev.X - v.PanX) / zoom, Y: (ev.Y - v.PanY) / zoom},
		Root:  scene.Vec{X: ev.X, Y: ev.Y},
		Ctrl:  ev.Ctrl,
		Shift: ev.Shift,
	}
}

// run executes fn on the session loop and logs a failure.
func (a *App) run(op string, fn func(c *editor.Controller) error) error {
	err := a.session.Do(fn)
	if err != nil {
		wailsRuntime.LogErrorf(a.ctx, "[%s] %v", op, err)
	}
	return err
}

// apply is run for operations that cannot fail.
func (a *App) apply(fn func(c *editor.Controller)) {
	a.session.Do(func(c *editor.Controller) error {
		fn(c)
		return nil
	})
}

func (a *App) PointerDown(ev PointerEvent) {
	a.apply(func(c *editor.Controller) {
		if ev.Button == ButtonRight {
			c.RightDown(ev.input(c))
			return
		}
		c.LeftDown(ev.input(c))
	})
}

func (a *App) PointerUp(ev PointerEvent) {
	a.apply(func(c *editor.Controller) {
		if ev.Button == ButtonRight {
			c.RightUp(ev.input(c))
			return
		}
		c.LeftUp(ev.input(c))
	})
}

func (a *App) PointerMove(ev PointerEvent) {
	a.apply(func(c *editor.Controller) { c.Move(ev.input(c)) })
}

// Wheel zooms one step around the cursor. delta > 0 zooms in.
func (a *App) Wheel(ev PointerEvent, delta int) {
	a.apply(func(c *editor.Controller) { c.Wheel(ev.input(c), delta) })
}

func (a *App) ResetView() {
	a.apply(func(c *editor.Controller) { c.ResetPanAndZoom() })
}

// ============================================================
// Modes
// ============================================================

// SetMode switches the tool by name ("Selection", "Line", ...).
func (a *App) SetMode(name string) error {
	m, err := editor.ParseMode(name)
	if err != nil {
		return err
	}
	a.apply(func(c *editor.Controller) { c.SetMode(m) })
	return nil
}

// ============================================================
// Keyboard
// ============================================================

// KeyDown handles an editor shortcut and reports whether it was one.
// key is the DOM KeyboardEvent.key value.
func (a *App) KeyDown(key string, ctrl, shift bool) bool {
	if ctrl {
		switch strings.ToLower(key) {
		case "a":
			a.SelectAll()
		case "c":
			if shift {
				a.CopyJSON()
			} else {
				a.Copy()
			}
		case "x":
			a.Cut()
		case "v":
			if shift {
				a.PasteJSON()
			} else {
				a.Paste()
			}
		case "z":
			if shift {
				a.Redo()
			} else {
				a.Undo()
			}
		case "y":
			a.Redo()
		case "g":
			a.CreateBlock()
		case "0":
			a.ResetView()
		default:
			return false
		}
		return true
	}

	switch key {
	case "Delete", "Backspace":
		a.Delete()
	case "Escape":
		a.apply(func(c *editor.Controller) {
			c.DeselectAll()
			c.SetMode(editor.ModeSelection)
		})
	case "ArrowLeft", "ArrowRight", "ArrowUp", "ArrowDown":
		a.apply(func(c *editor.Controller) {
			step := c.Options().SnapSize
			if shift {
				step *= 4
			}
			dx, dy := arrowDelta(key, step)
			c.MoveSelected(dx, dy)
		})
	default:
		return false
	}
	return true
}

func arrowDelta(key string, step float64) (float64, float64) {
	switch key {
	case "ArrowLeft":
		return -step, 0
	case "ArrowRight":
		return step, 0
	case "ArrowUp":
		return 0, -step
	case "ArrowDown":
		return 0, step
	}
	return 0, 0
}

// ============================================================
// Edit menu
// ============================================================

func (a *App) Undo() bool {
	var ok bool
	a.apply(func(c *editor.Controller) { ok = c.Undo() })
	return ok
}

func (a *App) Redo() bool {
	var ok bool
	a.apply(func(c *editor.Controller) { ok = c.Redo() })
	return ok
}

func (a *App) Cut()       { a.apply(func(c *editor.Controller) { c.Cut() }) }
func (a *App) Copy()      { a.apply(func(c *editor.Controller) { c.Copy() }) }
func (a *App) CopyJSON()  { a.apply(func(c *editor.Controller) { c.CopyJSON() }) }
func (a *App) Delete()    { a.apply(func(c *editor.Controller) { c.Delete() }) }
func (a *App) SelectAll() { a.apply(func(c *editor.Controller) { c.SelectAll() }) }
func (a *App) ToggleFill() {
	a.apply(func(c *editor.Controller) { c.ToggleFill() })
}

func (a *App) DeselectAll() {
	a.apply(func(c *editor.Controller) { c.DeselectAll() })
}

func (a *App) Paste() error {
	return a.run("Paste", func(c *editor.Controller) error { return c.Paste(a.ctx) })
}

func (a *App) PasteJSON() error {
	return a.run("PasteJSON", func(c *editor.Controller) error { return c.PasteJSON(a.ctx) })
}

// NewPage clears the open page. It is one undo step.
func (a *App) NewPage() {
	a.apply(func(c *editor.Controller) { c.NewPage() })
}

// ============================================================
// Blocks and plugins
// ============================================================

// CreateBlock asks for a name and groups the selection into a block.
func (a *App) CreateBlock() {
	a.apply(func(c *editor.Controller) { c.CreateBlock() })
}

// BreakBlock dissolves the selected block into its parts.
func (a *App) BreakBlock() error {
	return a.run("BreakBlock", func(c *editor.Controller) error { return c.BreakBlock(a.ctx) })
}

// RunPlugin applies a selection plugin by name.
func (a *App) RunPlugin(name string) error {
	var ran bool
	a.apply(func(c *editor.Controller) { ran = c.ProcessPlugin(name) })
	if !ran {
		return fmt.Errorf("%s cannot process the current selection", name)
	}
	return nil
}

// ============================================================
// Text editor prompt
// ============================================================

// SubmitPrompt closes the open prompt with text.
func (a *App) SubmitPrompt(text string) {
	ok, _ := a.prompt.take()
	if ok == nil {
		return
	}
	a.apply(func(c *editor.Controller) { ok(text) })
}

// CancelPrompt closes the open prompt without applying it.
func (a *App) CancelPrompt() {
	_, cancel := a.prompt.take()
	if cancel == nil {
		return
	}
	a.apply(func(c *editor.Controller) { cancel() })
}

// ============================================================
// Library
// ============================================================

// ListLibrary returns the library block names in order.
func (a *App) ListLibrary() []string {
	return a.env.Library.Names()
}

// SelectLibraryBlock picks the block placed by Insert mode and switches
// to it.
func (a *App) SelectLibraryBlock(index int) {
	a.env.Library.Select(index)
	a.apply(func(c *editor.Controller) {
		if c.Library().Selected() != nil {
			c.SetMode(editor.ModeInsert)
		}
	})
}

// AddSelectionToLibrary stores the selected blocks in the library.
func (a *App) AddSelectionToLibrary() int {
	var added int
	a.apply(func(c *editor.Controller) {
		for _, b := range c.Selected().Blocks {
			c.AddToLibrary(scene.SerializeBlock(b))
			added++
		}
	})
	return added
}
