package item_test

import (
	"errors"
	"strings"
	"testing"

	"sheet/internal/item"
)

func sampleBlock() *item.BlockItem {
	root := item.NewBlockItem(0, 0, 0, 0, 0, item.Unbound, "")
	root.Points = append(root.Points, &item.PointItem{ID: 1, X: 15, Y: 30})
	root.Lines = append(root.Lines, &item.LineItem{ID: 1, X1: 15, Y1: 30, X2: 120.5, Y2: 45, Stroke: item.Black, StartID: 1})
	root.Rectangles = append(root.Rectangles, &item.RectangleItem{ID: 2, X: 30, Y: 30, Width: 60, Height: 45, IsFilled: true, Stroke: item.Black, Fill: item.Red})
	root.Ellipses = append(root.Ellipses, &item.EllipseItem{ID: 3, X: 90, Y: 90, Width: 30, Height: 30, Stroke: item.Blue, Fill: item.Transparent})
	root.Texts = append(root.Texts, &item.TextItem{
		ID: 4, X: 0, Y: 0, Width: 30, Height: 15, HAlign: item.AlignCenter, VAlign: item.AlignCenter,
		Size: 11, Foreground: item.Black, Background: item.Transparent, Text: "a;b",
	})
	root.Images = append(root.Images, &item.ImageItem{ID: 5, X: 1, Y: 2, Width: 120, Height: 90, Data: []byte{0x89, 'P', 'N', 'G'}})

	child := item.NewBlockItem(6, 0, 0, 300, 200, 42, "PART")
	child.Background = item.Gray
	child.Lines = append(child.Lines, &item.LineItem{ID: 7, X1: 0, Y1: 0, X2: 10, Y2: 10, Stroke: item.Black})
	grandchild := item.NewBlockItem(8, 0, 0, 0, 0, item.Unbound, "INNER")
	grandchild.Texts = append(grandchild.Texts, &item.TextItem{ID: 9, Width: 10, Height: 10, Size: 9, Text: "x"})
	child.Blocks = append(child.Blocks, grandchild)
	root.Blocks = append(root.Blocks, child)
	return root
}

func TestRoundTrip(t *testing.T) {
	original := sampleBlock()
	text := item.Serialize(original)

	parsed, err := item.Deserialize(text)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if again := item.Serialize(parsed); again != text {
		t.Fatalf("round trip mismatch:\n%s\n---\n%s", text, again)
	}

	if got := parsed.Texts[0].Text; got != "a;b" {
		t.Errorf("text = %q, want %q", got, "a;b")
	}
	if got := parsed.Lines[0].StartID; got != 1 {
		t.Errorf("StartID = %d, want 1", got)
	}
	if got := parsed.Lines[0].X2; got != 120.5 {
		t.Errorf("X2 = %v, want 120.5", got)
	}
	if !parsed.Rectangles[0].IsFilled || parsed.Ellipses[0].IsFilled {
		t.Error("filled flags not preserved")
	}
	if string(parsed.Images[0].Data) != string([]byte{0x89, 'P', 'N', 'G'}) {
		t.Error("image data not preserved")
	}
	part := parsed.FindBlock("PART")
	if part == nil || part.DataID != 42 || part.Height != 200 || part.Background != item.Gray {
		t.Fatalf("PART block not preserved: %+v", part)
	}
	if len(part.Blocks) != 1 || part.Blocks[0].Name != "INNER" {
		t.Fatal("nested block not preserved")
	}
}

func TestRoundTripFreeFormFields(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"separator", "a;b;c"},
		{"crlf", "line one\r\nline two"},
		{"lf", "line one\nline two"},
		{"comment marker", "// not a comment"},
		{"backslash", `C:\temp\n`},
		{"trailing backslash", `end\`},
		{"escaped separator", `a\;b`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := item.NewBlockItem(0, 0, 0, 0, 0, item.Unbound, "")
			b := item.NewBlockItem(1, 0, 0, 0, 0, item.Unbound, tt.value)
			b.Texts = append(b.Texts, &item.TextItem{ID: 2, Width: 30, Height: 15, Size: 11, Text: tt.value})
			b.Lines = append(b.Lines, &item.LineItem{ID: 3, X2: 30, Stroke: item.Black})
			root.Blocks = append(root.Blocks, b)

			text := item.Serialize(root)
			if n := strings.Count(text, item.LineSeparator); n != 4 {
				t.Fatalf("expected 4 physical lines, got %d:\n%s", n, text)
			}
			parsed, err := item.Deserialize(text)
			if err != nil {
				t.Fatalf("Deserialize: %v", err)
			}
			if len(parsed.Blocks) != 1 {
				t.Fatalf("blocks = %d, want 1", len(parsed.Blocks))
			}
			got := parsed.Blocks[0]
			if got.Name != tt.value {
				t.Errorf("name = %q, want %q", got.Name, tt.value)
			}
			if len(got.Texts) != 1 || got.Texts[0].Text != tt.value {
				t.Errorf("text = %+v, want %q", got.Texts, tt.value)
			}
			if len(got.Lines) != 1 || got.DataID != item.Unbound {
				t.Errorf("block fields shifted: %+v", got)
			}
			if again := item.Serialize(parsed); again != text {
				t.Errorf("second round trip differs:\n%s\n---\n%s", text, again)
			}
		})
	}
}

func TestDeserializeUnescapedTextKeepsSeparators(t *testing.T) {
	root, err := item.Deserialize("TEXT;1;0;0;30;15;1;1;11;255;0;0;0;0;255;255;255;a;b\\q\r\n")
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if got := root.Texts[0].Text; got != `a;b\q` {
		t.Errorf("text = %q, want %q", got, `a;b\q`)
	}
}

func TestDeserializeBlockScenario(t *testing.T) {
	root, err := item.Deserialize("BLOCK;1;0;0;X;0;0;0;0;0;0;-1\nLINE;1;0;0;10;10;255;0;0;0\nEND\n")
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if len(root.Blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(root.Blocks))
	}
	b := root.Blocks[0]
	if b.Name != "X" {
		t.Errorf("name = %q, want X", b.Name)
	}
	if len(b.Lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(b.Lines))
	}
	l := b.Lines[0]
	if l.X1 != 0 || l.Y1 != 0 || l.X2 != 10 || l.Y2 != 10 {
		t.Errorf("line = %+v, want (0,0)-(10,10)", l)
	}
	if len(root.Lines) != 0 {
		t.Error("line leaked to root")
	}
}

func TestDeserializeTolerant(t *testing.T) {
	text := "// header comment\r\n\r\n  line;1;0;0;5;5;255;0;0;0\r\n\tRectangle;2;0;0;5;5;FALSE;255;0;0;0;0;255;255;255\r\n"
	root, err := item.Deserialize(text)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if len(root.Lines) != 1 || len(root.Rectangles) != 1 {
		t.Fatalf("got %d lines %d rectangles", len(root.Lines), len(root.Rectangles))
	}
	if root.Rectangles[0].IsFilled {
		t.Error("IsFilled should be false")
	}
}

func TestDeserializeErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		line int
		want error
	}{
		{"field count", "LINE;1;0;0;10;10;255;0;0\n", 1, item.ErrFieldCount},
		{"unknown", "LINE;1;0;0;1;1;255;0;0;0\nCIRCLE;1\n", 2, item.ErrUnknownRecord},
		{"unterminated", "BLOCK;1;0;0;X;0;0;0;0;0;0;-1\nLINE;1;0;0;10;10;255;0;0;0\n", 1, item.ErrUnterminatedBlock},
		{"stray end", "LINE;1;0;0;10;10;255;0;0;0\nEND\n", 2, item.ErrUnexpectedEnd},
		{"bad channel", "LINE;1;0;0;10;10;256;0;0;0\n", 1, nil},
		{"bad bool", "ELLIPSE;2;0;0;5;5;maybe;255;0;0;0;0;255;255;255\n", 1, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := item.Deserialize(tt.text)
			if err == nil {
				t.Fatal("expected error")
			}
			var pe *item.ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error %T is not *ParseError", err)
			}
			if pe.Line != tt.line {
				t.Errorf("line = %d, want %d", pe.Line, tt.line)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("error %v is not %v", err, tt.want)
			}
		})
	}
}

func TestDeserializeMaxDepth(t *testing.T) {
	var sb strings.Builder
	for i := 0; i <= item.MaxDepth; i++ {
		sb.WriteString("BLOCK;0;0;0;B;0;0;0;0;0;0;-1\n")
	}
	_, err := item.Deserialize(sb.String())
	if !errors.Is(err, item.ErrMaxDepth) {
		t.Fatalf("err = %v, want ErrMaxDepth", err)
	}
}

func TestSerializeIndentsNestedBlocks(t *testing.T) {
	text := item.Serialize(sampleBlock())
	if !strings.Contains(text, "\r\n    LINE;7;") {
		t.Errorf("nested LINE not indented:\n%s", text)
	}
	if !strings.Contains(text, "\r\n        TEXT;9;") {
		t.Errorf("doubly nested TEXT not indented:\n%s", text)
	}
	first := strings.Index(text, "POINT;")
	last := strings.Index(text, "BLOCK;")
	if first < 0 || last < first || strings.Index(text, "IMAGE;") > last {
		t.Error("records not written in kind order")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	original := sampleBlock()
	data, err := item.ToJSON(original)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	parsed, err := item.FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if item.Serialize(parsed) != item.Serialize(original) {
		t.Fatal("JSON round trip changed the block")
	}
}

func TestFromJSONNormalizes(t *testing.T) {
	b, err := item.FromJSON(`{"id":1,"name":"X","blocks":[{"name":"Y"}]}`)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if b.Lines == nil || b.Texts == nil || b.Blocks[0].Rectangles == nil {
		t.Fatal("collections should be non-nil after FromJSON")
	}
}

func TestPageWrap(t *testing.T) {
	content := item.NewBlockItem(0, 0, 0, 0, 0, item.Unbound, "")
	content.Lines = append(content.Lines, &item.LineItem{X2: 30, Y2: 30, Stroke: item.Black})
	root := item.WrapPage(item.Page{Content: content})

	parsed, err := item.Deserialize(item.SerializeBlock(root))
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	page := item.UnwrapPage(parsed)
	if page.Grid == nil || page.Frame == nil || page.Content == nil {
		t.Fatalf("page parts missing: %+v", page)
	}
	if len(page.Content.Lines) != 1 {
		t.Fatalf("content lines = %d, want 1", len(page.Content.Lines))
	}

	partial := item.UnwrapPage(item.NewBlockItem(0, 0, 0, 0, 0, item.Unbound, ""))
	if partial.Grid != nil || partial.Content != nil {
		t.Error("missing parts should stay nil")
	}
}

func TestIsWrappedPage(t *testing.T) {
	wrapped, err := item.Deserialize(item.SerializeBlock(item.WrapPage(item.Page{})))
	if err != nil {
		t.Fatal(err)
	}

	userContent := item.NewBlockItem(0, 0, 0, 0, 0, item.Unbound, "")
	userContent.Rectangles = append(userContent.Rectangles, &item.RectangleItem{Width: 30, Height: 30})
	userContent.Blocks = append(userContent.Blocks, item.NewBlockItem(1, 0, 0, 0, 0, item.Unbound, item.NameContent))

	lonePage := item.NewBlockItem(0, 0, 0, 0, 0, item.Unbound, "")
	lonePage.Blocks = append(lonePage.Blocks, item.NewBlockItem(1, 0, 0, 0, 0, item.Unbound, item.NamePage))

	tests := []struct {
		name string
		root *item.BlockItem
		want bool
	}{
		{"parse root of a wrapped page", wrapped, true},
		{"page block itself", wrapped.Blocks[0], true},
		{"content block among user shapes", userContent, false},
		{"user block named PAGE", lonePage, false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := item.IsWrappedPage(tt.root); got != tt.want {
				t.Errorf("IsWrappedPage = %v, want %v", got, tt.want)
			}
		})
	}
}
