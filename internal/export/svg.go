package export

import (
	"bufio"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"sheet/internal/item"
)

// Style carries the stroke widths the scene applies at render time.
type Style struct {
	LineThickness  float64
	FrameThickness float64
	GridThickness  float64
}

// SVG writes a page as a standalone SVG document. The view box covers
// every primitive; grid, frame and content are separate groups.
type SVG struct {
	Style Style
}

func (*SVG) Format() string    { return "svg" }
func (*SVG) Extension() string { return ".svg" }

func (s *SVG) Write(w io.Writer, page item.Page) error {
	bw := bufio.NewWriter(w)

	b := item.Bounds{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for _, part := range []*item.BlockItem{page.Grid, page.Frame, page.Content} {
		if part != nil {
			item.MinMax(part, &b)
		}
	}
	if math.IsInf(b.MinX, 1) {
		b = item.Bounds{}
	}
	width, height := b.MaxX-b.MinX, b.MaxY-b.MinY

	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="%s %s %s %s">`+"\n",
		num(width), num(height), num(b.MinX), num(b.MinY), num(width), num(height))

	s.group(bw, item.NameGrid, page.Grid, s.Style.GridThickness)
	s.group(bw, item.NameFrame, page.Frame, s.Style.FrameThickness)
	s.group(bw, item.NameContent, page.Content, s.Style.LineThickness)

	bw.WriteString("</svg>\n")
	return bw.Flush()
}

func (s *SVG) group(w *bufio.Writer, id string, b *item.BlockItem, thickness float64) {
	if b == nil {
		return
	}
	fmt.Fprintf(w, `<g id="%s" stroke-width="%s" stroke-linecap="round">`+"\n", strings.ToLower(id), num(thickness))
	writeBlock(w, b)
	w.WriteString("</g>\n")
}

func writeBlock(w *bufio.Writer, b *item.BlockItem) {
	for _, l := range b.Lines {
		fmt.Fprintf(w, `<line x1="%s" y1="%s" x2="%s" y2="%s" %s/>`+"\n",
			num(l.X1), num(l.Y1), num(l.X2), num(l.Y2), paint("stroke", l.Stroke))
	}
	for _, r := range b.Rectangles {
		fmt.Fprintf(w, `<rect x="%s" y="%s" width="%s" height="%s" %s %s/>`+"\n",
			num(r.X), num(r.Y), num(r.Width), num(r.Height), paint("stroke", r.Stroke), paint("fill", r.Fill))
	}
	for _, e := range b.Ellipses {
		rx, ry := e.Width/2, e.Height/2
		fmt.Fprintf(w, `<ellipse cx="%s" cy="%s" rx="%s" ry="%s" %s %s/>`+"\n",
			num(e.X+rx), num(e.Y+ry), num(rx), num(ry), paint("stroke", e.Stroke), paint("fill", e.Fill))
	}
	for _, t := range b.Texts {
		writeText(w, t)
	}
	for _, img := range b.Images {
		fmt.Fprintf(w, `<image x="%s" y="%s" width="%s" height="%s" href="data:%s;base64,%s"/>`+"\n",
			num(img.X), num(img.Y), num(img.Width), num(img.Height),
			http.DetectContentType(img.Data), base64.StdEncoding.EncodeToString(img.Data))
	}
	for _, child := range b.Blocks {
		fmt.Fprintf(w, `<g data-name="%s" data-id="%d">`+"\n", escape(child.Name), child.DataID)
		writeBlock(w, child)
		w.WriteString("</g>\n")
	}
}

func writeText(w *bufio.Writer, t *item.TextItem) {
	if !t.Background.IsTransparent() {
		fmt.Fprintf(w, `<rect x="%s" y="%s" width="%s" height="%s" stroke="none" %s/>`+"\n",
			num(t.X), num(t.Y), num(t.Width), num(t.Height), paint("fill", t.Background))
	}

	x, anchor := t.X, "start"
	switch t.HAlign {
	case item.AlignCenter, item.AlignStretch:
		x, anchor = t.X+t.Width/2, "middle"
	case item.AlignEnd:
		x, anchor = t.X+t.Width, "end"
	}
	y, baseline := t.Y, "hanging"
	switch t.VAlign {
	case item.AlignCenter, item.AlignStretch:
		y, baseline = t.Y+t.Height/2, "central"
	case item.AlignEnd:
		y, baseline = t.Y+t.Height, "text-after-edge"
	}

	fmt.Fprintf(w, `<text x="%s" y="%s" font-size="%s" text-anchor="%s" dominant-baseline="%s" stroke="none" %s>%s</text>`+"\n",
		num(x), num(y), num(t.Size), anchor, baseline, paint("fill", t.Foreground), escape(t.Text))
}

// paint renders an ARGB colour as an SVG paint attribute pair.
func paint(attr string, c item.Color) string {
	if c.IsTransparent() {
		return attr + `="none"`
	}
	s := fmt.Sprintf(`%s="#%02x%02x%02x"`, attr, c.R, c.G, c.B)
	if c.A != 255 {
		s += fmt.Sprintf(` %s-opacity="%s"`, attr, num(float64(c.A)/255))
	}
	return s
}

func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}

func escape(s string) string {
	var sb strings.Builder
	xml.EscapeText(&sb, []byte(s))
	return sb.String()
}
