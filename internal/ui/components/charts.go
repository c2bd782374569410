package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/duview/internal/ui/style"
	"github.com/sadopc/duview/internal/util"
)

// RenderBars draws one horizontal bar per child, largest first, scaled to
// the largest child.
func RenderBars(theme style.Theme, in ChartInput) string {
	if in.Width <= 0 || in.Height <= 0 {
		return ""
	}
	slices, total := in.slices(in.Height)
	if total == 0 {
		return lipgloss.NewStyle().Foreground(theme.TextMuted).Render("  (nothing with a size here)")
	}

	nameW := min(max(in.Width/4, 8), 30)
	sizeW := 11
	pctW := 7
	barW := max(in.Width-nameW-sizeW-pctW-4, 1)
	largest := slices[0].size
	colors := style.Palette(len(slices))

	lines := make([]string, 0, in.Height)
	for i, s := range slices {
		name := "other"
		if s.node != nil {
			name = s.node.Name
			if s.node.IsDir {
				name += "/"
			}
		}
		name = util.Icon(s.node) + " " + name
		filled := int(math.Round(float64(barW) * float64(s.size) / float64(largest)))
		bar := lipgloss.NewStyle().Foreground(colors[i]).Render(strings.Repeat("█", filled)) +
			strings.Repeat(" ", barW-filled)

		row := fmt.Sprintf(" %s %s %s %s",
			style.FullWidth(util.TruncateString(name, nameW), nameW),
			bar,
			theme.SizeText.Width(sizeW).Render(util.FormatSizeIn(s.size, in.Units)),
			theme.PercentText.Width(pctW).Render(fmt.Sprintf("%.1f%%", util.Percent(s.size, total))),
		)
		lines = append(lines, row)
	}
	return padLines(lines, in.Width, in.Height)
}

// donut geometry, in units of the chart's half-height.
const (
	donutOuter = 1.0
	donutInner = 0.55
)

// RenderDonut draws the largest children as ring segments, clockwise from
// twelve o'clock, with a legend to the right.
func RenderDonut(theme style.Theme, in ChartInput) string {
	if in.Width <= 0 || in.Height <= 0 {
		return ""
	}
	slices, total := in.slices(min(in.Height, 10))
	if total == 0 {
		return lipgloss.NewStyle().Foreground(theme.TextMuted).Render("  (nothing with a size here)")
	}
	colors := style.Palette(len(slices))

	// Terminal cells are about twice as tall as wide.
	diameter := min(in.Height, in.Width/3)
	ring := donutRing(slices, total, diameter)

	legendW := max(in.Width-2*diameter-4, 0)
	lines := make([]string, in.Height)
	for y := range lines {
		var b strings.Builder
		b.WriteString(" ")
		if y < len(ring) {
			for _, idx := range ring[y] {
				if idx < 0 {
					b.WriteString(" ")
					continue
				}
				b.WriteString(lipgloss.NewStyle().Foreground(colors[idx]).Render("█"))
			}
		}
		if y < len(slices) && legendW > 0 {
			s := slices[y]
			text := fmt.Sprintf("%5.1f%% %s", util.Percent(s.size, total), s.label(in.Units))
			b.WriteString("   ")
			b.WriteString(lipgloss.NewStyle().Foreground(colors[y]).Render("■ "))
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextSecondary).Render(util.TruncateString(text, max(legendW-2, 1))))
		}
		lines[y] = b.String()
	}
	return padLines(lines, in.Width, in.Height)
}

// donutRing maps each cell of a diameter x 2*diameter grid to the slice
// index covering it, or -1 outside the ring.
func donutRing(slices []slice, total int64, diameter int) [][]int {
	if diameter <= 0 {
		return nil
	}
	bounds := make([]float64, len(slices))
	var acc int64
	for i, s := range slices {
		acc += s.size
		bounds[i] = 2 * math.Pi * float64(acc) / float64(total)
	}

	half := float64(diameter) / 2
	grid := make([][]int, diameter)
	for y := range grid {
		grid[y] = make([]int, 2*diameter)
		for x := range grid[y] {
			dx := (float64(x)+0.5)/2 - half
			dy := float64(y) + 0.5 - half
			r := math.Hypot(dx, dy) / half
			if r > donutOuter || r < donutInner {
				grid[y][x] = -1
				continue
			}
			// Clockwise from twelve o'clock.
			angle := math.Atan2(dx, -dy)
			if angle < 0 {
				angle += 2 * math.Pi
			}
			idx := len(bounds) - 1
			for i, b := range bounds {
				if angle < b {
					idx = i
					break
				}
			}
			grid[y][x] = idx
		}
	}
	return grid
}

func padLines(lines []string, width, height int) string {
	for len(lines) < height {
		lines = append(lines, "")
	}
	lines = lines[:height]
	for i := range lines {
		lines[i] = style.FullWidth(lines[i], width)
	}
	return strings.Join(lines, "\n")
}
