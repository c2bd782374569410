package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/duview/internal/model"
	"github.com/sadopc/duview/internal/ui/style"
	"github.com/sadopc/duview/internal/util"
)

// ConfirmItem is an entry pending deletion.
type ConfirmItem struct {
	Name  string
	Path  string
	Size  int64
	IsDir bool
}

// ConfirmItemFor builds a ConfirmItem from a tree node, charging the
// size the listing currently shows.
func ConfirmItemFor(n *model.Node, allocated bool) ConfirmItem {
	size := n.Size
	if allocated {
		size = n.Allocated
	}
	return ConfirmItem{Name: n.Name, Path: n.Path, Size: size, IsDir: n.IsDir}
}

// RenderConfirmDialog renders the deletion confirmation modal.
func RenderConfirmDialog(theme style.Theme, items []ConfirmItem, units util.Units, width, height int) string {
	boxWidth := max(min(60, width-4), 10)

	lines := []string{
		theme.ModalTitle.Render("  Delete Confirmation"),
		lipgloss.NewStyle().Foreground(theme.Warning).
			Render(fmt.Sprintf("  The following %d item(s) will be permanently deleted:", len(items))),
		"",
	}

	var totalSize int64
	for _, item := range items {
		totalSize += item.Size
	}

	shown := min(len(items), 10)
	for _, item := range items[:shown] {
		icon := "  F "
		if item.IsDir {
			icon = "  D "
		}
		name := util.TruncateString(item.Name, boxWidth-20)
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Error).Render(icon+name)+
			lipgloss.NewStyle().Foreground(theme.TextMuted).Render("  "+util.FormatSizeIn(item.Size, units)))
	}
	if len(items) > shown {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.TextMuted).
			Render(fmt.Sprintf("  ... and %d more", len(items)-shown)))
	}

	text := lipgloss.NewStyle().Foreground(theme.TextPrimary)
	lines = append(lines,
		"",
		text.Bold(true).Render("  Total: "+util.FormatSizeIn(totalSize, units)),
		"",
		text.Render("  Press ")+
			lipgloss.NewStyle().Bold(true).Foreground(theme.Success).Render("y")+
			text.Render(" to confirm, ")+
			lipgloss.NewStyle().Bold(true).Foreground(theme.Error).Render("n/esc")+
			text.Render(" to cancel"),
	)

	box := theme.ModalStyle.Width(boxWidth).Render(strings.Join(lines, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
