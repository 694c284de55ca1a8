package item

// ── Transfer items ─────────────────────────────────────────
// Plain data mirrors of the live scene primitives. They travel through
// the text codec, JSON, the clipboard, the library and exporters.

// Color is an ARGB colour with 8-bit channels.
type Color struct {
	A uint8 `json:"alpha" yaml:"alpha"`
	R uint8 `json:"red" yaml:"red"`
	G uint8 `json:"green" yaml:"green"`
	B uint8 `json:"blue" yaml:"blue"`
}

// IsTransparent reports whether the colour is the transparent sentinel.
func (c Color) IsTransparent() bool { return c.A == 0 }

// Named colours.
var (
	Transparent = Color{A: 0, R: 255, G: 255, B: 255}
	Black       = Color{A: 255, R: 0, G: 0, B: 0}
	White       = Color{A: 255, R: 255, G: 255, B: 255}
	Red         = Color{A: 255, R: 255, G: 0, B: 0}
	Green       = Color{A: 255, R: 0, G: 128, B: 0}
	Blue        = Color{A: 255, R: 0, G: 0, B: 255}
	Gray        = Color{A: 255, R: 128, G: 128, B: 128}
)

// Text alignment values shared by HAlign and VAlign.
const (
	AlignStart   = 0 // left / top
	AlignCenter  = 1
	AlignEnd     = 2 // right / bottom
	AlignStretch = 3
)

// Unbound is the dataId of a block without a data row.
const Unbound = -1

// PointItem is a connection point lines can attach to.
type PointItem struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// LineItem is a straight stroke. StartID/EndID name points in the same
// block (0 = not attached).
type LineItem struct {
	ID      int     `json:"id"`
	X1      float64 `json:"x1"`
	Y1      float64 `json:"y1"`
	X2      float64 `json:"x2"`
	Y2      float64 `json:"y2"`
	Stroke  Color   `json:"stroke"`
	StartID int     `json:"startId,omitempty"`
	EndID   int     `json:"endId,omitempty"`
}

// RectangleItem is an axis-aligned rectangle.
type RectangleItem struct {
	ID       int     `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	IsFilled bool    `json:"isFilled"`
	Stroke   Color   `json:"stroke"`
	Fill     Color   `json:"fill"`
}

// EllipseItem is an ellipse inscribed in its bounding box.
type EllipseItem struct {
	ID       int     `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	IsFilled bool    `json:"isFilled"`
	Stroke   Color   `json:"stroke"`
	Fill     Color   `json:"fill"`
}

// TextItem is a text label laid out inside its box.
type TextItem struct {
	ID         int     `json:"id"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	HAlign     int     `json:"hAlign"`
	VAlign     int     `json:"vAlign"`
	Size       float64 `json:"size"`
	Foreground Color   `json:"foreground"`
	Background Color   `json:"background"`
	Text       string  `json:"text"`
}

// ImageItem holds undecoded image bytes.
type ImageItem struct {
	ID     int     `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Data   []byte  `json:"data"`
}

// BlockItem is the recursive container.
type BlockItem struct {
	ID         int              `json:"id"`
	X          float64          `json:"x"`
	Y          float64          `json:"y"`
	Name       string           `json:"name"`
	Width      float64          `json:"width"`
	Height     float64          `json:"height"`
	Background Color            `json:"background"`
	DataID     int              `json:"dataId"`
	Points     []*PointItem     `json:"points"`
	Lines      []*LineItem      `json:"lines"`
	Rectangles []*RectangleItem `json:"rectangles"`
	Ellipses   []*EllipseItem   `json:"ellipses"`
	Texts      []*TextItem      `json:"texts"`
	Images     []*ImageItem     `json:"images"`
	Blocks     []*BlockItem     `json:"blocks"`
}

// NewBlockItem returns an initialised block.
func NewBlockItem(id int, x, y, width, height float64, dataID int, name string) *BlockItem {
	b := &BlockItem{}
	b.Init(id, x, y, width, height, dataID, name)
	return b
}

// Init sets the header fields and allocates empty collections.
func (b *BlockItem) Init(id int, x, y, width, height float64, dataID int, name string) {
	b.ID = id
	b.X = x
	b.Y = y
	b.Width = width
	b.Height = height
	b.DataID = dataID
	b.Name = name
	b.Background = Transparent
	b.Points = []*PointItem{}
	b.Lines = []*LineItem{}
	b.Rectangles = []*RectangleItem{}
	b.Ellipses = []*EllipseItem{}
	b.Texts = []*TextItem{}
	b.Images = []*ImageItem{}
	b.Blocks = []*BlockItem{}
}

// normalize replaces nil collections with empty ones, recursively.
func (b *BlockItem) normalize() {
	if b.Points == nil {
		b.Points = []*PointItem{}
	}
	if b.Lines == nil {
		b.Lines = []*LineItem{}
	}
	if b.Rectangles == nil {
		b.Rectangles = []*RectangleItem{}
	}
	if b.Ellipses == nil {
		b.Ellipses = []*EllipseItem{}
	}
	if b.Texts == nil {
		b.Texts = []*TextItem{}
	}
	if b.Images == nil {
		b.Images = []*ImageItem{}
	}
	if b.Blocks == nil {
		b.Blocks = []*BlockItem{}
	}
	for _, child := range b.Blocks {
		child.normalize()
	}
}

// IsEmpty reports whether the block holds no primitives and no children.
func (b *BlockItem) IsEmpty() bool {
	return len(b.Points) == 0 && len(b.Lines) == 0 && len(b.Rectangles) == 0 &&
		len(b.Ellipses) == 0 && len(b.Texts) == 0 && len(b.Images) == 0 && len(b.Blocks) == 0
}

// Count returns the number of primitives reachable from b.
func (b *BlockItem) Count() int {
	n := len(b.Points) + len(b.Lines) + len(b.Rectangles) + len(b.Ellipses) + len(b.Texts) + len(b.Images)
	for _, child := range b.Blocks {
		n += child.Count()
	}
	return n
}

// FindBlock returns the first direct child named name, or nil.
func (b *BlockItem) FindBlock(name string) *BlockItem {
	if b == nil {
		return nil
	}
	for _, child := range b.Blocks {
		if child.Name == name {
			return child
		}
	}
	return nil
}

// DataItem is one tabular row used for binding. Columns[0] and Data[0]
// carry the row identifier.
type DataItem struct {
	Columns []string `json:"columns"`
	Data    []string `json:"data"`
}
