package item

// Structural block names.
const (
	NamePage     = "PAGE"
	NameGrid     = "GRID"
	NameFrame    = "FRAME"
	NameContent  = "CONTENT"
	NameSelected = "SELECTED"
	NameTemp     = "TEMP"
	NameLogic    = "LOGIC"
)

// Page is a page split into its three named parts. Any part may be nil.
type Page struct {
	Grid    *BlockItem
	Frame   *BlockItem
	Content *BlockItem
}

// WrapPage builds the PAGE root holding grid, frame and content as named
// sibling blocks. Nil parts are written as empty blocks.
func WrapPage(p Page) *BlockItem {
	root := NewBlockItem(0, 0, 0, 0, 0, Unbound, NamePage)
	root.Blocks = append(root.Blocks,
		named(p.Grid, NameGrid),
		named(p.Frame, NameFrame),
		named(p.Content, NameContent),
	)
	return root
}

func named(b *BlockItem, name string) *BlockItem {
	if b == nil {
		return NewBlockItem(0, 0, 0, 0, 0, Unbound, name)
	}
	b.Name = name
	return b
}

// UnwrapPage locates the named parts of a page. root may be the PAGE block
// itself or a parse root holding it. Missing parts stay nil.
func UnwrapPage(root *BlockItem) Page {
	if root == nil {
		return Page{}
	}
	if page := root.FindBlock(NamePage); page != nil {
		root = page
	}
	return Page{
		Grid:    root.FindBlock(NameGrid),
		Frame:   root.FindBlock(NameFrame),
		Content: root.FindBlock(NameContent),
	}
}

// IsWrappedPage reports whether root has exactly the shape WrapPage
// writes: one PAGE block holding GRID, FRAME and CONTENT and nothing else.
// root may be the PAGE block itself or a parse root holding only it.
func IsWrappedPage(root *BlockItem) bool {
	if root == nil {
		return false
	}
	if root.Name != NamePage {
		if !onlyBlocks(root) || len(root.Blocks) != 1 || root.Blocks[0].Name != NamePage {
			return false
		}
		root = root.Blocks[0]
	}
	if !onlyBlocks(root) || len(root.Blocks) != 3 {
		return false
	}
	parts := map[string]bool{NameGrid: true, NameFrame: true, NameContent: true}
	for _, b := range root.Blocks {
		if !parts[b.Name] {
			return false
		}
		delete(parts, b.Name)
	}
	return true
}

func onlyBlocks(b *BlockItem) bool {
	return len(b.Points) == 0 && len(b.Lines) == 0 && len(b.Rectangles) == 0 &&
		len(b.Ellipses) == 0 && len(b.Texts) == 0 && len(b.Images) == 0
}
