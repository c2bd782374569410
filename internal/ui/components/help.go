package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/duview/internal/ui/style"
)

type binding struct{ key, desc string }

var helpSections = []struct {
	name  string
	binds []binding
}{
	{"Navigation", []binding{
		{"j/k", "Move up/down"},
		{"h/l", "Go to parent / enter directory"},
		{"Enter", "Enter directory"},
		{"g/G", "Jump to top / bottom"},
	}},
	{"Views", []binding{
		{"1", "Tree"},
		{"2", "Treemap"},
		{"3", "Bars"},
		{"4", "Donut"},
		{"5", "File types"},
	}},
	{"Sorting", []binding{
		{"s", "Size"},
		{"n", "Name"},
		{"C", "Item count"},
		{"M", "Modification time"},
	}},
	{"Actions", []binding{
		{"Space", "Mark/unmark item"},
		{"d", "Delete marked/current"},
		{"i", "Show file type"},
		{"E", "Export to JSON"},
		{"r", "Rescan"},
	}},
	{"Toggles & General", []binding{
		{"a", "Apparent / allocated size"},
		{"u", "Cycle size units"},
		{".", "Show/hide hidden files"},
		{"esc", "Cancel scan / close dialog"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}},
}

// RenderHelp renders the help overlay.
func RenderHelp(theme style.Theme, width, height int) string {
	boxWidth := max(min(60, width-4), 10)

	lines := []string{theme.ModalTitle.Render("  duview - Keyboard Shortcuts"), ""}
	secStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.Accent)
	keyStyle := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Width(14)
	descStyle := lipgloss.NewStyle().Foreground(theme.TextSecondary)

	for _, sec := range helpSections {
		lines = append(lines, secStyle.Render("  "+sec.name))
		for _, b := range sec.binds {
			lines = append(lines, fmt.Sprintf("%s %s", keyStyle.Render("    "+b.key), descStyle.Render(b.desc)))
		}
		lines = append(lines, "")
	}
	lines = append(lines, lipgloss.NewStyle().Foreground(theme.TextMuted).Render("  Press ? or Esc to close"))

	box := theme.ModalStyle.Width(boxWidth).Render(strings.Join(lines, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
