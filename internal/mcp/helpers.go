package mcpserver

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"sheet/internal/item"
)

var namedColors = map[string]item.Color{
	"black": item.Black,
	"white": item.White,
	"red":   item.Red,
	"green": item.Green,
	"blue":  item.Blue,
	"gray":  item.Gray,
	"grey":  item.Gray,
}

// parseColor accepts a hex colour (#rgb or #rrggbb), a basic colour name,
// or "none"/"transparent". Empty returns def.
func parseColor(s string, def item.Color) (item.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return def, nil
	case "none", "transparent":
		return item.Transparent, nil
	}
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) == 4 {
		s = "#" + strings.Repeat(s[1:2], 2) + strings.Repeat(s[2:3], 2) + strings.Repeat(s[3:4], 2)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return item.Color{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return item.Color{A: 255, R: r, G: g, B: b}, nil
}

// formatColor is the inverse of parseColor for reporting.
func formatColor(c item.Color) string {
	if c.IsTransparent() {
		return "transparent"
	}
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex()
}
