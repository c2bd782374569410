package style

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Layout splits the terminal into header, content and status rows.
type Layout struct {
	Width  int
	Height int
}

// NewLayout creates a layout for the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{Width: width, Height: height}
}

// ContentHeight returns the rows left after header, breadcrumb, tab bar
// and status bar.
func (l Layout) ContentHeight() int {
	return max(l.Height-4, 1)
}

// ContentWidth returns the width available for the main content area.
func (l Layout) ContentWidth() int {
	return max(l.Width, 20)
}

// BarWidth returns the width for percentage bars in the tree list: half of
// the free space, between 5 and 30 cells.
func (l Layout) BarWidth() int {
	return min(max((l.ContentWidth()-l.rowOverhead())/2, 5), 30)
}

// NameWidth returns the width available for entry names.
func (l Layout) NameWidth() int {
	return max(l.ContentWidth()-l.rowOverhead()-l.BarWidth(), 8)
}

// rowOverhead is every fixed-width part of a tree row:
//
//	mark(2) pct(6) " ["(2) bar "] "(2) flag(3) name " "(1) size(10) count(8)
func (l Layout) rowOverhead() int {
	return 2 + 6 + 2 + 2 + 3 + 1 + 10 + 8
}

// Center centers content in the available width.
func (l Layout) Center(content string) string {
	return lipgloss.PlaceHorizontal(l.Width, lipgloss.Center, content)
}

// FullWidth pads s with spaces to width cells. Wider strings are returned
// unchanged.
func FullWidth(s string, width int) string {
	visLen := lipgloss.Width(s)
	if visLen >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visLen)
}
