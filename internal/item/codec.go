package item

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ── Text codec ─────────────────────────────────────────────
// One record per line, fields separated by ';':
//
//	POINT;id;x;y
//	LINE;id;x1;y1;x2;y2;a;r;g;b[;startId;endId]
//	RECTANGLE;id;x;y;w;h;isFilled;a;r;g;b;fa;fr;fg;fb
//	ELLIPSE;id;x;y;w;h;isFilled;a;r;g;b;fa;fr;fg;fb
//	TEXT;id;x;y;w;h;hAlign;vAlign;size;a;r;g;b;ba;br;bg;bb;text
//	IMAGE;id;x;y;w;h;base64
//	BLOCK;id;x;y;name;w;h;a;r;g;b;dataId
//	END
//
// Indentation is cosmetic. Lines starting with "//" are comments.
//
// The free-form fields (TEXT text, BLOCK name) escape a backslash as `\\`
// and line breaks as `\n` and `\r`. BLOCK names also escape ';' as `\;`.
// Unknown escapes read back verbatim.

const (
	FieldSeparator = ";"
	LineSeparator  = "\r\n"
	Indent         = "    "
	CommentMarker  = "//"

	// MaxDepth bounds BLOCK nesting.
	MaxDepth = 64
)

// Record keywords.
const (
	RecordPoint     = "POINT"
	RecordLine      = "LINE"
	RecordRectangle = "RECTANGLE"
	RecordEllipse   = "ELLIPSE"
	RecordText      = "TEXT"
	RecordImage     = "IMAGE"
	RecordBlock     = "BLOCK"
	RecordEnd       = "END"
)

const (
	pointFields      = 4
	lineFields       = 10
	lineFieldsPoints = 12
	shapeFields      = 15
	textFields       = 18
	imageFields      = 7
	blockFields      = 12
	endFields        = 1
)

var (
	ErrFieldCount        = errors.New("wrong field count")
	ErrUnknownRecord     = errors.New("unknown record")
	ErrUnterminatedBlock = errors.New("unterminated block")
	ErrUnexpectedEnd     = errors.New("END without BLOCK")
	ErrMaxDepth          = errors.New("block nesting too deep")
)

// ParseError reports the physical line a text record failed on.
type ParseError struct {
	Line   int
	Record string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Record == "" {
		return fmt.Sprintf("invalid item at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("invalid %s item at line %d: %v", e.Record, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ─── Deserialize ───────────────────────────────────────────

// Deserialize parses text into a root block named "" holding every
// top-level record.
func Deserialize(text string) (*BlockItem, error) {
	root := NewBlockItem(0, 0, 0, 0, 0, Unbound, "")

	type frame struct {
		block *BlockItem
		line  int
	}
	stack := []frame{{block: root}}

	for i, raw := range strings.Split(text, "\n") {
		n := i + 1
		line := strings.TrimLeft(strings.TrimRight(raw, "\r"), " \t")
		if line == "" || strings.HasPrefix(line, CommentMarker) {
			continue
		}

		keyword, _, _ := strings.Cut(line, FieldSeparator)
		keyword = strings.ToUpper(strings.TrimSpace(keyword))
		top := stack[len(stack)-1].block

		switch keyword {
		case RecordPoint:
			p, err := parsePoint(strings.Split(line, FieldSeparator))
			if err != nil {
				return nil, &ParseError{Line: n, Record: RecordPoint, Err: err}
			}
			top.Points = append(top.Points, p)
		case RecordLine:
			l, err := parseLine(strings.Split(line, FieldSeparator))
			if err != nil {
				return nil, &ParseError{Line: n, Record: RecordLine, Err: err}
			}
			top.Lines = append(top.Lines, l)
		case RecordRectangle:
			r, err := parseShape(strings.Split(line, FieldSeparator))
			if err != nil {
				return nil, &ParseError{Line: n, Record: RecordRectangle, Err: err}
			}
			top.Rectangles = append(top.Rectangles, (*RectangleItem)(r))
		case RecordEllipse:
			e, err := parseShape(strings.Split(line, FieldSeparator))
			if err != nil {
				return nil, &ParseError{Line: n, Record: RecordEllipse, Err: err}
			}
			top.Ellipses = append(top.Ellipses, (*EllipseItem)(e))
		case RecordText:
			t, err := parseText(splitFields(line, textFields))
			if err != nil {
				return nil, &ParseError{Line: n, Record: RecordText, Err: err}
			}
			top.Texts = append(top.Texts, t)
		case RecordImage:
			img, err := parseImage(strings.Split(line, FieldSeparator))
			if err != nil {
				return nil, &ParseError{Line: n, Record: RecordImage, Err: err}
			}
			top.Images = append(top.Images, img)
		case RecordBlock:
			if len(stack) > MaxDepth {
				return nil, &ParseError{Line: n, Record: RecordBlock, Err: ErrMaxDepth}
			}
			b, err := parseBlock(splitFields(line, -1))
			if err != nil {
				return nil, &ParseError{Line: n, Record: RecordBlock, Err: err}
			}
			top.Blocks = append(top.Blocks, b)
			stack = append(stack, frame{block: b, line: n})
		case RecordEnd:
			if len(strings.Split(line, FieldSeparator)) != endFields {
				return nil, &ParseError{Line: n, Record: RecordEnd, Err: ErrFieldCount}
			}
			if len(stack) == 1 {
				return nil, &ParseError{Line: n, Record: RecordEnd, Err: ErrUnexpectedEnd}
			}
			stack = stack[:len(stack)-1]
		default:
			return nil, &ParseError{Line: n, Err: fmt.Errorf("%w %q", ErrUnknownRecord, keyword)}
		}
	}

	if len(stack) > 1 {
		open := stack[len(stack)-1]
		return nil, &ParseError{Line: open.line, Record: RecordBlock, Err: ErrUnterminatedBlock}
	}
	return root, nil
}

type shapeItem RectangleItem

func parsePoint(m []string) (*PointItem, error) {
	if len(m) != pointFields {
		return nil, ErrFieldCount
	}
	var p fields
	item := &PointItem{ID: p.integer(m[1]), X: p.number(m[2]), Y: p.number(m[3])}
	return item, p.err
}

func parseLine(m []string) (*LineItem, error) {
	if len(m) != lineFields && len(m) != lineFieldsPoints {
		return nil, ErrFieldCount
	}
	var p fields
	l := &LineItem{
		ID:     p.integer(m[1]),
		X1:     p.number(m[2]),
		Y1:     p.number(m[3]),
		X2:     p.number(m[4]),
		Y2:     p.number(m[5]),
		Stroke: p.color(m[6:10]),
	}
	if len(m) == lineFieldsPoints {
		l.StartID = p.integer(m[10])
		l.EndID = p.integer(m[11])
	}
	return l, p.err
}

func parseShape(m []string) (*shapeItem, error) {
	if len(m) != shapeFields {
		return nil, ErrFieldCount
	}
	var p fields
	s := &shapeItem{
		ID:       p.integer(m[1]),
		X:        p.number(m[2]),
		Y:        p.number(m[3]),
		Width:    p.number(m[4]),
		Height:   p.number(m[5]),
		IsFilled: p.boolean(m[6]),
		Stroke:   p.color(m[7:11]),
		Fill:     p.color(m[11:15]),
	}
	return s, p.err
}

func parseText(m []string) (*TextItem, error) {
	if len(m) != textFields {
		return nil, ErrFieldCount
	}
	var p fields
	t := &TextItem{
		ID:         p.integer(m[1]),
		X:          p.number(m[2]),
		Y:          p.number(m[3]),
		Width:      p.number(m[4]),
		Height:     p.number(m[5]),
		HAlign:     p.integer(m[6]),
		VAlign:     p.integer(m[7]),
		Size:       p.number(m[8]),
		Foreground: p.color(m[9:13]),
		Background: p.color(m[13:17]),
		Text:       unescapeField(m[17]),
	}
	return t, p.err
}

func parseImage(m []string) (*ImageItem, error) {
	if len(m) != imageFields {
		return nil, ErrFieldCount
	}
	var p fields
	img := &ImageItem{
		ID:     p.integer(m[1]),
		X:      p.number(m[2]),
		Y:      p.number(m[3]),
		Width:  p.number(m[4]),
		Height: p.number(m[5]),
	}
	if p.err != nil {
		return nil, p.err
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(m[6]))
	if err != nil {
		return nil, fmt.Errorf("decode image data: %w", err)
	}
	img.Data = data
	return img, nil
}

func parseBlock(m []string) (*BlockItem, error) {
	if len(m) != blockFields {
		return nil, ErrFieldCount
	}
	var p fields
	id := p.integer(m[1])
	x := p.number(m[2])
	y := p.number(m[3])
	name := unescapeField(m[4])
	w := p.number(m[5])
	h := p.number(m[6])
	bg := p.color(m[7:11])
	dataID := p.integer(m[11])
	if p.err != nil {
		return nil, p.err
	}
	b := NewBlockItem(id, x, y, w, h, dataID, name)
	b.Background = bg
	return b, nil
}

// splitFields splits line on ';' separators that are not escaped. With
// n > 0 the last field holds the unsplit remainder, as strings.SplitN.
func splitFields(line string, n int) []string {
	var out []string
	start := 0
	for i := 0; i < len(line); i++ {
		if n > 0 && len(out) == n-1 {
			break
		}
		switch line[i] {
		case '\\':
			i++
		case ';':
			out = append(out, line[start:i])
			start = i + 1
		}
	}
	return append(out, line[start:])
}

func unescapeField(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case '\\', ';':
			sb.WriteByte(s[i])
		default:
			sb.WriteByte('\\')
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}

// fields parses record fields and keeps the first failure.
type fields struct {
	err error
}

func (p *fields) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

func (p *fields) integer(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		p.fail(fmt.Errorf("parse int: %w", err))
	}
	return v
}

func (p *fields) number(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		p.fail(fmt.Errorf("parse number: %w", err))
	}
	return v
}

func (p *fields) boolean(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1":
		return true
	case "false", "0":
		return false
	}
	p.fail(fmt.Errorf("parse bool: invalid syntax %q", s))
	return false
}

func (p *fields) channel(s string) uint8 {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 8)
	if err != nil {
		p.fail(fmt.Errorf("parse color channel: %w", err))
	}
	return uint8(v)
}

func (p *fields) color(m []string) Color {
	return Color{A: p.channel(m[0]), R: p.channel(m[1]), G: p.channel(m[2]), B: p.channel(m[3])}
}

// ─── Serialize ─────────────────────────────────────────────

// Serialize writes the contents of b (not b's own header) as records.
func Serialize(b *BlockItem) string {
	var sb strings.Builder
	writeContents(&sb, b, "")
	return sb.String()
}

// SerializeBlock writes b itself as a BLOCK record with its children.
func SerializeBlock(b *BlockItem) string {
	var sb strings.Builder
	writeBlock(&sb, b, "")
	return sb.String()
}

func writeContents(sb *strings.Builder, b *BlockItem, indent string) {
	for _, p := range b.Points {
		writeRecord(sb, indent, RecordPoint, strconv.Itoa(p.ID), formatFloat(p.X), formatFloat(p.Y))
	}
	for _, l := range b.Lines {
		f := []string{strconv.Itoa(l.ID), formatFloat(l.X1), formatFloat(l.Y1), formatFloat(l.X2), formatFloat(l.Y2)}
		f = append(f, formatColor(l.Stroke)...)
		if l.StartID != 0 || l.EndID != 0 {
			f = append(f, strconv.Itoa(l.StartID), strconv.Itoa(l.EndID))
		}
		writeRecord(sb, indent, RecordLine, f...)
	}
	for _, r := range b.Rectangles {
		writeRecord(sb, indent, RecordRectangle, shapeFieldsOf((*shapeItem)(r))...)
	}
	for _, e := range b.Ellipses {
		writeRecord(sb, indent, RecordEllipse, shapeFieldsOf((*shapeItem)(e))...)
	}
	for _, t := range b.Texts {
		f := []string{
			strconv.Itoa(t.ID), formatFloat(t.X), formatFloat(t.Y), formatFloat(t.Width), formatFloat(t.Height),
			strconv.Itoa(t.HAlign), strconv.Itoa(t.VAlign), formatFloat(t.Size),
		}
		f = append(f, formatColor(t.Foreground)...)
		f = append(f, formatColor(t.Background)...)
		f = append(f, textEscaper.Replace(t.Text))
		writeRecord(sb, indent, RecordText, f...)
	}
	for _, img := range b.Images {
		writeRecord(sb, indent, RecordImage,
			strconv.Itoa(img.ID), formatFloat(img.X), formatFloat(img.Y), formatFloat(img.Width), formatFloat(img.Height),
			base64.StdEncoding.EncodeToString(img.Data))
	}
	for _, child := range b.Blocks {
		writeBlock(sb, child, indent)
	}
}

func writeBlock(sb *strings.Builder, b *BlockItem, indent string) {
	f := []string{strconv.Itoa(b.ID), formatFloat(b.X), formatFloat(b.Y), nameEscaper.Replace(b.Name), formatFloat(b.Width), formatFloat(b.Height)}
	f = append(f, formatColor(b.Background)...)
	f = append(f, strconv.Itoa(b.DataID))
	writeRecord(sb, indent, RecordBlock, f...)
	writeContents(sb, b, indent+Indent)
	writeRecord(sb, indent, RecordEnd)
}

func shapeFieldsOf(s *shapeItem) []string {
	f := []string{
		strconv.Itoa(s.ID), formatFloat(s.X), formatFloat(s.Y), formatFloat(s.Width), formatFloat(s.Height),
		formatBool(s.IsFilled),
	}
	f = append(f, formatColor(s.Stroke)...)
	return append(f, formatColor(s.Fill)...)
}

func writeRecord(sb *strings.Builder, indent, keyword string, f ...string) {
	sb.WriteString(indent)
	sb.WriteString(keyword)
	for _, v := range f {
		sb.WriteString(FieldSeparator)
		sb.WriteString(v)
	}
	sb.WriteString(LineSeparator)
}

var (
	textEscaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`, "\r", `\r`)
	nameEscaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`, "\r", `\r`, ";", `\;`)
)

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func formatBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}

func formatColor(c Color) []string {
	return []string{
		strconv.Itoa(int(c.A)), strconv.Itoa(int(c.R)), strconv.Itoa(int(c.G)), strconv.Itoa(int(c.B)),
	}
}
