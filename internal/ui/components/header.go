package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/duview/internal/model"
	"github.com/sadopc/duview/internal/ui/style"
	"github.com/sadopc/duview/internal/util"
)

// RenderHeader renders the title bar with the scan root and its totals.
func RenderHeader(theme style.Theme, root *model.Node, source string, units util.Units, width int) string {
	if root == nil || width < 10 {
		return ""
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).Render(" duview")

	stats := fmt.Sprintf("%s files  %s dirs  %s ",
		util.FormatCount(root.FileCount),
		util.FormatCount(root.DirCount),
		util.FormatSizeIn(root.Size, units),
	)
	statsStyled := lipgloss.NewStyle().Foreground(theme.TextMuted).Render(stats)

	titleW := lipgloss.Width(title)
	statsW := lipgloss.Width(statsStyled)

	label := root.Path
	if source != "" {
		label = source + ":" + label
	}
	if room := width - titleW - statsW - 3; room > 5 {
		label = util.TruncateString(label, room)
	} else {
		label = ""
	}
	labelStyled := lipgloss.NewStyle().Foreground(theme.TextPrimary).Render("  " + label)

	gap := max(width-titleW-lipgloss.Width(labelStyled)-statsW, 1)
	return theme.HeaderStyle.Width(width).Render(title + labelStyled + strings.Repeat(" ", gap) + statsStyled)
}

// RenderBreadcrumb renders the path from the scan root to current.
func RenderBreadcrumb(theme style.Theme, current *model.Node, width int) string {
	if current == nil {
		return ""
	}

	var segments []string
	for n := current; n != nil; n = n.Parent {
		if n.Parent == nil {
			segments = append(segments, "/")
		} else {
			segments = append(segments, n.Name)
		}
	}
	// Root first.
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}

	sep := lipgloss.NewStyle().Foreground(theme.TextMuted).Render(" > ")
	parts := make([]string, len(segments))
	for i, seg := range segments {
		s := lipgloss.NewStyle().Foreground(theme.TextMuted)
		if i == len(segments)-1 {
			s = lipgloss.NewStyle().Foreground(theme.TextPrimary).Bold(true)
		}
		parts[i] = s.Render(seg)
	}

	breadcrumb := " " + strings.Join(parts, sep)
	if lipgloss.Width(breadcrumb) > width && len(parts) > 2 {
		ellipsis := lipgloss.NewStyle().Foreground(theme.TextMuted).Render("...")
		breadcrumb = " " + ellipsis + sep + strings.Join(parts[len(parts)-2:], sep)
	}
	return theme.BreadcrumbStyle.Width(width).Render(breadcrumb)
}
