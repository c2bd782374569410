package style

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme holds the colors and styles of the UI.
type Theme struct {
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Muted   lipgloss.Color
	Error   lipgloss.Color
	Warning lipgloss.Color
	Success lipgloss.Color

	BgDark   lipgloss.Color
	BgMedium lipgloss.Color
	BgLight  lipgloss.Color

	TextPrimary   lipgloss.Color
	TextSecondary lipgloss.Color
	TextMuted     lipgloss.Color

	// Bars blend from GradientStart to GradientEnd in Lab space.
	GradientStart lipgloss.Color
	GradientEnd   lipgloss.Color

	HeaderStyle      lipgloss.Style
	BreadcrumbStyle  lipgloss.Style
	TabActiveStyle   lipgloss.Style
	TabInactiveStyle lipgloss.Style
	StatusBarStyle   lipgloss.Style
	SelectedRow      lipgloss.Style
	MarkedIndicator  lipgloss.Style
	CursorIndicator  lipgloss.Style
	DirName          lipgloss.Style
	FileName         lipgloss.Style
	SizeText         lipgloss.Style
	PercentText      lipgloss.Style
	FlagText         lipgloss.Style
	ErrorText        lipgloss.Style
	ModalStyle       lipgloss.Style
	ModalTitle       lipgloss.Style
}

// DefaultTheme returns the dark theme.
func DefaultTheme() Theme {
	t := Theme{
		Primary: lipgloss.Color("#2E86AB"),
		Accent:  lipgloss.Color("#61AFEF"),
		Muted:   lipgloss.Color("#5C6370"),
		Error:   lipgloss.Color("#E06C75"),
		Warning: lipgloss.Color("#E5C07B"),
		Success: lipgloss.Color("#98C379"),

		BgDark:   lipgloss.Color("#1E1E2E"),
		BgMedium: lipgloss.Color("#282A36"),
		BgLight:  lipgloss.Color("#313244"),

		TextPrimary:   lipgloss.Color("#CDD6F4"),
		TextSecondary: lipgloss.Color("#BAC2DE"),
		TextMuted:     lipgloss.Color("#6C7086"),

		GradientStart: lipgloss.Color("#2E86AB"),
		GradientEnd:   lipgloss.Color("#F18F01"),
	}

	t.HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary).Background(t.BgMedium)
	t.BreadcrumbStyle = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.TabActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary).Background(t.Primary).Padding(0, 1)
	t.TabInactiveStyle = lipgloss.NewStyle().Foreground(t.TextMuted).Padding(0, 1)
	t.StatusBarStyle = lipgloss.NewStyle().Foreground(t.TextSecondary).Background(t.BgMedium)
	t.SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#3E4A61"))
	t.MarkedIndicator = lipgloss.NewStyle().Foreground(t.Error).Bold(true)
	t.CursorIndicator = lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	t.DirName = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	t.FileName = lipgloss.NewStyle().Foreground(t.TextSecondary)
	t.SizeText = lipgloss.NewStyle().Foreground(t.TextMuted).Align(lipgloss.Right)
	t.PercentText = lipgloss.NewStyle().Foreground(t.TextMuted).Width(6).Align(lipgloss.Right)
	t.FlagText = lipgloss.NewStyle().Foreground(t.Warning).Width(3)
	t.ErrorText = lipgloss.NewStyle().Foreground(t.Error)
	t.ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2).
		Background(t.BgMedium)
	t.ModalTitle = lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary).Padding(0, 0, 1, 0)

	return t
}

// GradientColor returns the gradient color at ratio, clamped to [0, 1].
func (t Theme) GradientColor(ratio float64) lipgloss.Color {
	if ratio <= 0 || math.IsNaN(ratio) {
		return t.GradientStart
	}
	if ratio >= 1 {
		return t.GradientEnd
	}
	c1, _ := colorful.Hex(string(t.GradientStart))
	c2, _ := colorful.Hex(string(t.GradientEnd))
	return lipgloss.Color(c1.BlendLab(c2, ratio).Hex())
}

// BarGradient renders a bar of width cells, ratio of them filled. Each
// filled cell takes its own color along the gradient.
func (t Theme) BarGradient(width int, ratio float64) string {
	if width <= 0 {
		return ""
	}
	filled := int(math.Round(ratio * float64(width)))
	filled = min(max(filled, 0), width)

	var buf strings.Builder
	for i := 0; i < filled; i++ {
		pos := float64(i) / float64(max(width-1, 1))
		buf.WriteString(lipgloss.NewStyle().Foreground(t.GradientColor(pos)).Render("━"))
	}
	if filled < width {
		buf.WriteString(lipgloss.NewStyle().Foreground(t.TextMuted).Render(strings.Repeat("─", width-filled)))
	}
	return buf.String()
}

// Palette returns n distinct colors spaced evenly around the HCL hue
// circle at a fixed chroma and lightness, so slices stay legible on a dark
// background.
func Palette(n int) []lipgloss.Color {
	if n <= 0 {
		return nil
	}
	out := make([]lipgloss.Color, n)
	for i := range out {
		h := 30 + 360*float64(i)/float64(n)
		out[i] = lipgloss.Color(colorful.Hcl(math.Mod(h, 360), 0.55, 0.7).Clamped().Hex())
	}
	return out
}
