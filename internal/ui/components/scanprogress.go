package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/duview/internal/scanner"
	"github.com/sadopc/duview/internal/ui/style"
	"github.com/sadopc/duview/internal/util"
)

// ScanView is what the scanning overlay shows.
type ScanView struct {
	Root     string
	Spinner  string
	Progress scanner.Progress
	Units    util.Units
}

// RenderScanProgress renders the scanning progress overlay.
func RenderScanProgress(theme style.Theme, v ScanView, width, height int) string {
	boxWidth := max(min(56, width-4), 10)
	inner := boxWidth - 4
	p := v.Progress

	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).
			Render(fmt.Sprintf("  %s Scanning %s", v.Spinner, util.TruncateString(v.Root, inner-12))),
		"",
	}

	stat := lipgloss.NewStyle().Foreground(theme.TextSecondary)
	lines = append(lines,
		stat.Render("  Files:  "+util.FormatCount(p.FilesScanned)),
		stat.Render("  Dirs:   "+util.FormatCount(p.DirsScanned)),
		stat.Render("  Size:   "+util.FormatSizeIn(p.BytesFound, v.Units)),
		stat.Render(fmt.Sprintf("  Speed:  %s items/s", util.FormatCount(int64(p.ItemsPerSecond())))),
	)
	if p.Errors > 0 {
		lines = append(lines, theme.ErrorText.Render(fmt.Sprintf("  Errors: %d", p.Errors)))
	}

	muted := lipgloss.NewStyle().Foreground(theme.TextMuted)
	lines = append(lines, "")
	if p.Path != "" {
		lines = append(lines, muted.Render("  "+util.TruncateString(p.Path, inner-2)))
	}
	lines = append(lines,
		muted.Render(fmt.Sprintf("  Elapsed: %.1fs", p.Duration.Seconds())),
		"",
		muted.Render("  Press esc to cancel"),
	)

	box := theme.ModalStyle.Width(boxWidth).Render(strings.Join(lines, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
