package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/duview/internal/model"
	"github.com/sadopc/duview/internal/ui/style"
	"github.com/sadopc/duview/internal/util"
)

// Tabs are the view names in key order: 1 is Tabs[0].
var Tabs = []string{"Tree", "Treemap", "Bars", "Donut", "Types"}

// StatusInfo holds the current state for the status bar.
type StatusInfo struct {
	CurrentDir  *model.Node
	ItemCount   int
	MarkedCount int
	MarkedSize  int64
	Allocated   bool
	ShowHidden  bool
	Units       util.Units
	ReadOnly    bool
	Message     string
}

// RenderStatusBar renders the bottom status bar. A message replaces the
// usual summary until the next key press.
func RenderStatusBar(theme style.Theme, info StatusInfo, width int) string {
	if info.Message != "" {
		line := " " + lipgloss.NewStyle().Foreground(theme.Warning).Bold(true).Render(info.Message)
		return theme.StatusBarStyle.Width(width).Render(line)
	}

	var parts []string
	if info.CurrentDir != nil {
		parts = append(parts, fmt.Sprintf("%d items", info.ItemCount))

		size, label := info.CurrentDir.Size, "size"
		if info.Allocated {
			size, label = info.CurrentDir.Allocated, "allocated"
		}
		parts = append(parts, fmt.Sprintf("%s %s", util.FormatSizeIn(size, info.Units), label))
		if !info.ShowHidden {
			parts = append(parts, "hidden off")
		}
	}
	if info.MarkedCount > 0 {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(theme.Error).
			Bold(true).
			Render(fmt.Sprintf("* %d marked (%s)", info.MarkedCount, util.FormatSizeIn(info.MarkedSize, info.Units))))
	}
	left := " " + strings.Join(parts, " | ")

	hints := []struct{ key, desc string }{{"?", "help"}}
	if !info.ReadOnly {
		hints = append(hints, struct{ key, desc string }{"d", "delete"})
	}
	hints = append(hints, struct{ key, desc string }{"q", "quit"})

	var rightParts []string
	for _, h := range hints {
		k := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(h.key)
		d := lipgloss.NewStyle().Foreground(theme.TextMuted).Render(" " + h.desc)
		rightParts = append(rightParts, k+d)
	}
	right := strings.Join(rightParts, "  ") + " "

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return theme.StatusBarStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

// RenderTabBar renders the view tabs and the active sort.
func RenderTabBar(theme style.Theme, activeView int, sort model.SortConfig, width int) string {
	tabLine := make([]string, len(Tabs))
	for i, tab := range Tabs {
		label := fmt.Sprintf(" %d %s ", i+1, tab)
		if i == activeView {
			tabLine[i] = theme.TabActiveStyle.Render(label)
		} else {
			tabLine[i] = theme.TabInactiveStyle.Render(label)
		}
	}
	left := " " + strings.Join(tabLine, " ")

	arrow := "↓"
	if sort.Order == model.SortAsc {
		arrow = "↑"
	}
	sortLabel := lipgloss.NewStyle().
		Foreground(theme.TextMuted).
		Render(fmt.Sprintf("sort: %s %s ", sort.Field, arrow))

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(sortLabel), 1)
	return lipgloss.NewStyle().
		Foreground(theme.TextSecondary).
		Background(theme.BgLight).
		Width(width).
		Render(left + strings.Repeat(" ", gap) + sortLabel)
}
