package components

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/duview/internal/layout"
	"github.com/sadopc/duview/internal/model"
	"github.com/sadopc/duview/internal/ui/style"
	"github.com/sadopc/duview/internal/util"
)

// ChartInput is what every chart view draws: the visible children of one
// directory.
type ChartInput struct {
	Items     []*model.Node
	Allocated bool
	Units     util.Units
	Width     int
	Height    int
}

func (in ChartInput) size(n *model.Node) int64 {
	if in.Allocated {
		return n.Allocated
	}
	return n.Size
}

// slice is one drawn share of a chart. node is nil for the "other" bucket.
type slice struct {
	node *model.Node
	size int64
}

func (s slice) label(units util.Units) string {
	if s.node == nil {
		return fmt.Sprintf("other (%s)", util.FormatSizeIn(s.size, units))
	}
	name := s.node.Name
	if s.node.IsDir {
		name += "/"
	}
	return name + " " + util.FormatSizeIn(s.size, units)
}

// slices returns the positive-size items largest first, folding everything
// past limit-1 into one "other" slice.
func (in ChartInput) slices(limit int) ([]slice, int64) {
	var out []slice
	var total int64
	for _, n := range in.Items {
		if sz := in.size(n); sz > 0 {
			out = append(out, slice{node: n, size: sz})
			total += sz
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].size > out[j].size })
	if limit > 1 && len(out) > limit {
		var rest int64
		for _, s := range out[limit-1:] {
			rest += s.size
		}
		out = append(out[:limit-1], slice{size: rest})
	}
	return out, total
}

// RenderTreemap lays the children out with the squarified algorithm and
// draws each as a framed, colored box.
func RenderTreemap(theme style.Theme, in ChartInput) string {
	if in.Width <= 0 || in.Height <= 0 {
		return ""
	}
	slices, total := in.slices(max(in.Width*in.Height/8, 5))
	if total == 0 {
		return lipgloss.NewStyle().Foreground(theme.TextMuted).Render("  (nothing with a size here)")
	}

	items := make([]layout.Item[slice], len(slices))
	for i, s := range slices {
		items[i] = layout.Item[slice]{Weight: float64(s.size), Payload: s}
	}
	cells := layout.Snap(layout.Squarify(items, layout.Rect{W: float64(in.Width), H: float64(in.Height)}))

	c := newCanvas(in.Width, in.Height, theme.BgDark)
	for _, cell := range cells {
		c.fill(cell.X, cell.Y, cell.W, cell.H, treemapColor(theme, cell.Payload.node))
		c.frame(cell.X, cell.Y, cell.W, cell.H)
		c.label(cell.X+1, cell.Y+1, cell.W-2, cell.H-2, cell.Payload.label(in.Units))
	}
	return c.render(theme.TextPrimary)
}

func treemapColor(theme style.Theme, n *model.Node) lipgloss.Color {
	switch {
	case n == nil:
		return theme.Muted
	case n.HasError():
		return theme.Error
	case n.IsDir:
		return theme.Accent
	}
	return lipgloss.Color(model.CategoryColor(model.ClassifyExt(n.Ext)))
}

// canvas is a grid of runes over background colors. Blank cells show their
// background; drawn runes use the foreground color.
type canvas struct {
	w, h  int
	runes [][]rune
	bg    [][]lipgloss.Color
}

func newCanvas(w, h int, bg lipgloss.Color) *canvas {
	c := &canvas{w: w, h: h, runes: make([][]rune, h), bg: make([][]lipgloss.Color, h)}
	for y := 0; y < h; y++ {
		c.runes[y] = []rune(strings.Repeat(" ", w))
		c.bg[y] = make([]lipgloss.Color, w)
		for x := range c.bg[y] {
			c.bg[y][x] = bg
		}
	}
	return c
}

func (c *canvas) set(x, y int, r rune) {
	if x >= 0 && y >= 0 && x < c.w && y < c.h {
		c.runes[y][x] = r
	}
}

func (c *canvas) fill(x0, y0, w, h int, color lipgloss.Color) {
	for y := max(y0, 0); y < min(y0+h, c.h); y++ {
		for x := max(x0, 0); x < min(x0+w, c.w); x++ {
			c.runes[y][x] = ' '
			c.bg[y][x] = color
		}
	}
}

func (c *canvas) frame(x0, y0, w, h int) {
	if w < 2 || h < 2 {
		return
	}
	x1, y1 := x0+w-1, y0+h-1
	for x := x0 + 1; x < x1; x++ {
		c.set(x, y0, '─')
		c.set(x, y1, '─')
	}
	for y := y0 + 1; y < y1; y++ {
		c.set(x0, y, '│')
		c.set(x1, y, '│')
	}
	c.set(x0, y0, '┌')
	c.set(x1, y0, '┐')
	c.set(x0, y1, '└')
	c.set(x1, y1, '┘')
}

// label writes text on one row, cut to w cells.
func (c *canvas) label(x, y, w, h int, text string) {
	if w <= 0 || h <= 0 {
		return
	}
	for i, r := range []rune(util.TruncateString(text, w)) {
		c.set(x+i, y, r)
	}
}

func (c *canvas) render(fg lipgloss.Color) string {
	lines := make([]string, c.h)
	for y := 0; y < c.h; y++ {
		var line strings.Builder
		for x := 0; x < c.w; x++ {
			s := lipgloss.NewStyle().Background(c.bg[y][x])
			if r := c.runes[y][x]; r != ' ' {
				s = s.Foreground(fg)
			}
			line.WriteString(s.Render(string(c.runes[y][x])))
		}
		lines[y] = line.String()
	}
	return strings.Join(lines, "\n")
}
