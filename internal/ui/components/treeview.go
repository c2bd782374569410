package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/duview/internal/model"
	"github.com/sadopc/duview/internal/ui/style"
	"github.com/sadopc/duview/internal/util"
)

// TreeView renders the directory listing.
type TreeView struct {
	Theme      style.Theme
	Layout     style.Layout
	Items      []*model.Node
	Cursor     int
	Offset     int
	Marked     map[string]bool
	Allocated  bool
	Units      util.Units
	ParentSize int64
}

// Render renders the visible window of rows.
func (tv *TreeView) Render() string {
	width := tv.Layout.ContentWidth()

	if len(tv.Items) == 0 {
		empty := lipgloss.NewStyle().Foreground(tv.Theme.TextMuted).Render("  (empty directory)")
		return style.FullWidth(empty, width)
	}

	contentHeight := tv.Layout.ContentHeight()
	end := min(tv.Offset+contentHeight, len(tv.Items))

	lines := make([]string, 0, contentHeight)
	for i := tv.Offset; i < end; i++ {
		item := tv.Items[i]
		lines = append(lines, tv.renderRow(item, i == tv.Cursor, tv.Marked[item.Path], width))
	}
	for len(lines) < contentHeight {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func (tv *TreeView) renderRow(item *model.Node, selected, marked bool, width int) string {
	size := item.Size
	if tv.Allocated {
		size = item.Allocated
	}

	pct := util.Percent(size, tv.ParentSize)
	bar := tv.Theme.BarGradient(tv.Layout.BarWidth(), pct/100)

	name := item.Name
	if item.IsDir {
		name += "/"
	}
	name = style.FullWidth(util.TruncateString(name, tv.Layout.NameWidth()), tv.Layout.NameWidth())

	indicator := "  "
	switch {
	case selected && marked:
		indicator = tv.Theme.MarkedIndicator.Render("*") + tv.Theme.CursorIndicator.Render(">")
	case selected:
		indicator = tv.Theme.CursorIndicator.Render(" >")
	case marked:
		indicator = tv.Theme.MarkedIndicator.Render("* ")
	}

	nameStyled := tv.Theme.FileName.Render(name)
	if item.IsDir {
		nameStyled = tv.Theme.DirName.Render(name)
	}

	count := ""
	if item.IsDir {
		count = util.FormatCount(item.ItemCount())
	}

	row := fmt.Sprintf("%s%s [%s] %s%s %s%s",
		indicator,
		tv.Theme.PercentText.Render(fmt.Sprintf("%5.1f%%", pct)),
		bar,
		tv.Theme.FlagText.Render(FlagMarker(item)),
		nameStyled,
		tv.Theme.SizeText.Width(10).Render(util.FormatSizeIn(size, tv.Units)),
		tv.Theme.SizeText.Width(8).Render(count),
	)
	row = style.FullWidth(row, width)

	if selected {
		return tv.Theme.SelectedRow.Width(width).Render(row)
	}
	return row
}

// FlagMarker is the short marker shown before a name: "!" for read
// errors, "->" for symlinks and "=" for duplicate hardlinks.
func FlagMarker(n *model.Node) string {
	switch {
	case n.HasError():
		return "!"
	case n.IsSymlink():
		return "->"
	case n.IsDuplicateHardlink():
		return "="
	}
	return ""
}

// EnsureVisible adjusts Offset so the cursor row is on screen.
func (tv *TreeView) EnsureVisible() {
	contentHeight := tv.Layout.ContentHeight()
	if tv.Cursor < tv.Offset {
		tv.Offset = tv.Cursor
	}
	if tv.Cursor >= tv.Offset+contentHeight {
		tv.Offset = tv.Cursor - contentHeight + 1
	}
	if tv.Offset < 0 {
		tv.Offset = 0
	}
}
