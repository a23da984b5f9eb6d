package render

import (
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// paletteHex is the fixed series palette, cycled when a chart has more
// categories than colours.
var paletteHex = []string{ //nolint:gochecknoglobals // fixed palette
	"4F46E5", "10B981", "F59E0B", "EF4444", "8B5CF6",
	"06B6D4", "EC4899", "84CC16", "F97316", "6366F1",
}

var palette = func() []drawing.Color { //nolint:gochecknoglobals // parsed once
	out := make([]drawing.Color, len(paletteHex))
	for i, h := range paletteHex {
		out[i] = drawing.ColorFromHex(h)
	}
	return out
}()

func colorAt(i int) drawing.Color {
	return palette[i%len(palette)]
}

// categoryColors assigns palette colours to values in order of first
// appearance.
type categoryColors struct {
	index map[string]int
}

func newCategoryColors() *categoryColors {
	return &categoryColors{index: make(map[string]int)}
}

func (c *categoryColors) color(value string) drawing.Color {
	i, ok := c.index[value]
	if !ok {
		i = len(c.index)
		c.index[value] = i
	}
	return colorAt(i)
}
