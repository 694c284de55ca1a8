package editor

import (
	"errors"
	"fmt"
	"log"

	"sheet/internal/config"
	"sheet/internal/history"
	"sheet/internal/item"
	"sheet/internal/scene"
)

// Back layer colours.
var (
	GridStroke  = item.Color{A: 0xFF, R: 0xDE, G: 0xDE, B: 0xDE}
	FrameStroke = item.Color{A: 0xFF, R: 0xA6, G: 0xA6, B: 0xA6}
)

// Input is one pointer event. Point is in sheet coordinates, Root in
// screen coordinates (used for panning).
type Input struct {
	Point scene.Vec
	Root  scene.Vec
	Ctrl  bool
	Shift bool
}

// View is the zoom and pan applied when rendering.
type View struct {
	ZoomIndex int     `json:"zoomIndex"`
	Zoom      float64 `json:"zoom"`
	PanX      float64 `json:"panX"`
	PanY      float64 `json:"panY"`
}

// Collaborators are the host services the controller talks to. Nil
// Clipboard and Library fall back to in-memory ones; a nil TextEditor or
// Images disables the operations that need them.
type Collaborators struct {
	Clipboard  Clipboard
	Library    Library
	TextEditor TextEditor
	Images     ImageSource
}

// Controller is the interaction state machine over one page. It is not safe
// for concurrent use; the host serialises every call.
type Controller struct {
	opts     config.Options
	surfaces Surfaces

	clipboard  Clipboard
	library    Library
	textEditor TextEditor
	images     ImageSource

	history *history.History
	plugins *PluginRegistry

	mode modeState
	view View

	logic    *scene.Block
	grid     *scene.Block
	frame    *scene.Block
	selected *scene.Selection

	// overlay
	selectionRect  *scene.Rectangle
	selectionStart scene.Vec
	tempLine       *scene.Line
	tempStart      *scene.Point
	tempRect       *scene.Rectangle
	tempEllipse    *scene.Ellipse
	shapeStart     scene.Vec

	panStart    scene.Vec
	moveStart   scene.Vec
	isFirstMove bool
	moving      *scene.Selection

	edit editState
}

// New builds a controller in Selection mode with an empty page and the
// grid and frame on the back surface.
func New(opts config.Options, surfaces Surfaces, collab Collaborators) *Controller {
	c := &Controller{
		opts:       opts,
		surfaces:   surfaces,
		clipboard:  collab.Clipboard,
		library:    collab.Library,
		textEditor: collab.TextEditor,
		images:     collab.Images,
		logic:      scene.NewBlock(0, 0, 0, 0, 0, item.Unbound, item.NameLogic),
		selected:   scene.NewSelection(),
		plugins:    NewPluginRegistry(),
	}
	if c.clipboard == nil {
		c.clipboard = &MemoryClipboard{}
	}
	if c.library == nil {
		c.library = &MemoryLibrary{SelectedIndex: -1}
	}
	c.history = history.New(c, opts.HistoryLimit)
	c.view = View{ZoomIndex: opts.DefaultZoomIndex, Zoom: opts.ZoomFactor(opts.DefaultZoomIndex)}
	c.mode.current = ModeSelection
	c.mode.suspended = ModeSelection
	c.initBack()
	return c
}

func (c *Controller) initBack() {
	c.grid = scene.NewBlock(0, 0, 0, 0, 0, item.Unbound, item.NameGrid)
	c.frame = scene.NewBlock(0, 0, 0, 0, 0, item.Unbound, item.NameFrame)
	grid := scene.GridItem(scene.GridX, scene.GridY, scene.GridWidth, scene.GridHeight, c.opts.GridSize, GridStroke)
	frame := scene.FrameItem(c.opts.GridSize, FrameStroke)
	scene.AddContents(c.surfaces.Back, grid, c.grid, nil, false, c.opts.GridThickness/c.view.Zoom)
	scene.AddContents(c.surfaces.Back, frame, c.frame, nil, false, c.opts.FrameThickness/c.view.Zoom)
}

// ─── accessors ─────────────────────────────────────────────

func (c *Controller) Mode() Mode                 { return c.mode.current }
func (c *Controller) View() View                 { return c.view }
func (c *Controller) Options() config.Options    { return c.opts }
func (c *Controller) Content() *scene.Block      { return c.logic }
func (c *Controller) Selected() *scene.Selection { return c.selected }
func (c *Controller) History() *history.History  { return c.history }
func (c *Controller) Library() Library           { return c.library }
func (c *Controller) Grid() *scene.Block         { return c.grid }
func (c *Controller) Frame() *scene.Block        { return c.frame }
func (c *Controller) IsCaptured() bool           { return c.surfaces.Overlay.IsCaptured() }

func (c *Controller) lineThickness() float64 { return c.opts.LineThickness / c.view.Zoom }

func (c *Controller) snap(v float64) float64 { return item.Snap(v, c.opts.SnapSize) }

func (c *Controller) snapVec(p scene.Vec) scene.Vec {
	return scene.Vec{X: c.snap(p.X), Y: c.snap(p.Y)}
}

// SetMode switches tools. Any edit in progress is finished first and a
// pending capture is cancelled.
func (c *Controller) SetMode(m Mode) {
	if c.mode.current == ModeTextEditor {
		return
	}
	c.FinishEdit()
	if c.IsCaptured() {
		c.cancelCaptured()
	}
	c.mode.current = m
}

// ── Modes ──────────────────────────────────────────────────

// StoreTempMode suspends the current mode. Only one level is kept.
func (c *Controller) StoreTempMode() { c.mode.store() }

// RestoreTempMode resumes the suspended mode.
func (c *Controller) RestoreTempMode() { c.mode.restore() }

// ── History ────────────────────────────────────────────────

func (c *Controller) register(label string) {
	if err := c.history.Register(label); err != nil {
		log.Printf("[SHEET] register %s: %v", label, err)
	}
}

// Snapshot serialises the content block as text.
func (c *Controller) Snapshot() (string, error) {
	return item.Serialize(scene.SerializeContents(c.logic, 0, 0, 0, 0, 0, item.Unbound, item.NameLogic)), nil
}

// Restore replaces the content with a snapshot. Nothing is selected
// afterwards.
func (c *Controller) Restore(snapshot string) error {
	b, err := item.Deserialize(snapshot)
	if err != nil {
		return fmt.Errorf("restore snapshot: %w", err)
	}
	c.reset()
	c.load(b)
	return nil
}

// Undo reverts the last registered change.
func (c *Controller) Undo() bool {
	return c.step(c.history.Undo)
}

// Redo re-applies the last undone change.
func (c *Controller) Redo() bool {
	return c.step(c.history.Redo)
}

func (c *Controller) step(fn func() (history.Entry, error)) bool {
	if c.mode.current == ModeTextEditor || c.IsCaptured() {
		return false
	}
	_, err := fn()
	if errors.Is(err, history.ErrEmpty) {
		return false
	}
	if err != nil {
		log.Printf("[SHEET] history: %v", err)
		return false
	}
	return true
}

// ── Selection ──────────────────────────────────────────────

// SelectAll selects every primitive and top-level block.
func (c *Controller) SelectAll() {
	c.FinishEdit()
	c.selected.Init()
	scene.SelectAll(c.logic, c.selected)
}

// SelectInRect selects every primitive and top-level block intersecting
// r. With add set the hits toggle into the current selection.
func (c *Controller) SelectInRect(r scene.Rect, add bool) {
	c.FinishEdit()
	scene.HitTestSelectionRect(c.logic, c.selected, r, !add)
}

// DeselectAll clears the selection.
func (c *Controller) DeselectAll() {
	c.FinishEdit()
	c.deselectAll()
}

func (c *Controller) deselectAll() { scene.DeselectAll(c.selected) }

// ── Zoom ───────────────────────────────────────────────────

// Wheel zooms one step around the cursor. delta > 0 zooms in.
func (c *Controller) Wheel(in Input, delta int) {
	idx := c.view.ZoomIndex
	switch {
	case delta > 0:
		idx++
	case delta < 0:
		idx--
	}
	idx = max(0, min(idx, c.opts.MaxZoomIndex))
	if idx == c.view.ZoomIndex {
		return
	}
	oldZoom := c.view.Zoom
	newZoom := c.opts.ZoomFactor(idx)
	p := in.Point
	c.view.PanX = (p.X*oldZoom + c.view.PanX) - p.X*newZoom
	c.view.PanY = (p.Y*oldZoom + c.view.PanY) - p.Y*newZoom
	c.view.ZoomIndex = idx
	c.view.Zoom = newZoom
	c.AdjustThickness()
}

// ResetPanAndZoom returns to the default zoom with no pan.
func (c *Controller) ResetPanAndZoom() {
	c.view = View{ZoomIndex: c.opts.DefaultZoomIndex, Zoom: c.opts.ZoomFactor(c.opts.DefaultZoomIndex)}
	c.AdjustThickness()
}

// SetView restores a stored zoom step and pan offset.
func (c *Controller) SetView(zoomIndex int, panX, panY float64) {
	idx := max(0, min(zoomIndex, c.opts.MaxZoomIndex))
	c.view = View{ZoomIndex: idx, Zoom: c.opts.ZoomFactor(idx), PanX: panX, PanY: panY}
	c.AdjustThickness()
}

// AdjustThickness keeps strokes at a constant screen width.
func (c *Controller) AdjustThickness() {
	z := c.view.Zoom
	scene.AdjustThickness(c.logic, c.opts.LineThickness/z)
	scene.AdjustThickness(c.grid, c.opts.GridThickness/z)
	scene.AdjustThickness(c.frame, c.opts.FrameThickness/z)
	if c.selectionRect != nil {
		c.selectionRect.Thickness = c.opts.SelectionThickness / z
	}
}
