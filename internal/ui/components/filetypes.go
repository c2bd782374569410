package components

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/duview/internal/model"
	"github.com/sadopc/duview/internal/ui/style"
	"github.com/sadopc/duview/internal/util"
)

// TypeRow is one category with its heaviest extensions.
type TypeRow struct {
	model.CategoryTotal
	TopExts []ExtTotal
}

// ExtTotal is the size of all files with one extension.
type ExtTotal struct {
	Ext  string
	Size int64
}

// FileTypes caches the breakdown of one directory; the walk is repeated
// only when the directory changes or Invalidate is called.
type FileTypes struct {
	dir  *model.Node
	rows []TypeRow
}

// Invalidate drops the cached breakdown, e.g. after a delete.
func (f *FileTypes) Invalidate() { f.dir = nil }

// Rows returns the breakdown of dir, largest category first.
func (f *FileTypes) Rows(dir *model.Node) []TypeRow {
	if dir == nil {
		return nil
	}
	if f.dir == dir {
		return f.rows
	}
	totals := model.CategoryBreakdown(dir)
	exts := make(map[model.FileCategory]map[string]int64)
	dir.Walk(func(n *model.Node) bool {
		if n.IsDir || n.IsSymlink() || n.IsDuplicateHardlink() || n.Ext == "" {
			return true
		}
		cat := model.ClassifyExt(n.Ext)
		if exts[cat] == nil {
			exts[cat] = make(map[string]int64)
		}
		exts[cat][n.Ext] += n.Size
		return true
	})

	rows := make([]TypeRow, len(totals))
	for i, t := range totals {
		rows[i] = TypeRow{CategoryTotal: t, TopExts: topExtensions(exts[t.Category], 3)}
	}
	f.dir, f.rows = dir, rows
	return rows
}

func topExtensions(sizes map[string]int64, n int) []ExtTotal {
	out := make([]ExtTotal, 0, len(sizes))
	for ext, size := range sizes {
		out = append(out, ExtTotal{Ext: ext, Size: size})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Size != out[j].Size {
			return out[i].Size > out[j].Size
		}
		return out[i].Ext < out[j].Ext
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// RenderFileTypes renders the category breakdown table.
func RenderFileTypes(theme style.Theme, rows []TypeRow, units util.Units, width, height int) string {
	if height <= 0 {
		return ""
	}
	var totalSize int64
	for _, r := range rows {
		totalSize += r.Size
	}
	if totalSize == 0 {
		return lipgloss.NewStyle().Foreground(theme.TextMuted).Render("  (no files found)")
	}

	const catW, countW, sizeW = 14, 10, 12
	barW := min(max(width-catW-countW-sizeW-10, 10), 30)

	hdrStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.TextPrimary)
	sep := lipgloss.NewStyle().Foreground(theme.TextMuted).Render("  " + strings.Repeat("-", max(width-4, 0)))

	lines := []string{
		hdrStyle.Render(fmt.Sprintf("  %-*s %*s %*s  %s", catW, "Category", countW, "Files", sizeW, "Size", "Distribution")),
		sep,
	}
	for _, r := range rows {
		pct := util.Percent(r.Size, totalSize)
		catColor := lipgloss.Color(model.CategoryColor(r.Category))

		filled := min(int(pct/100*float64(barW)), barW)
		bar := lipgloss.NewStyle().Foreground(catColor).Render(strings.Repeat("=", filled)) +
			lipgloss.NewStyle().Foreground(theme.TextMuted).Render(strings.Repeat("-", barW-filled))

		lines = append(lines, fmt.Sprintf("  %s %s %s  %s%s",
			lipgloss.NewStyle().Foreground(catColor).Bold(true).Width(catW).Render(model.CategoryName(r.Category)),
			lipgloss.NewStyle().Foreground(theme.TextSecondary).Width(countW).Align(lipgloss.Right).Render(util.FormatCount(r.Count)),
			lipgloss.NewStyle().Foreground(theme.TextSecondary).Width(sizeW).Align(lipgloss.Right).Render(util.FormatSizeIn(r.Size, units)),
			bar,
			lipgloss.NewStyle().Foreground(theme.TextMuted).Render(fmt.Sprintf(" %5.1f%%", pct)),
		))

		if len(r.TopExts) > 0 {
			parts := make([]string, len(r.TopExts))
			for i, e := range r.TopExts {
				parts[i] = fmt.Sprintf(".%s (%s)", e.Ext, util.FormatSizeIn(e.Size, units))
			}
			lines = append(lines, lipgloss.NewStyle().Foreground(theme.TextMuted).Render("    "+strings.Join(parts, ", ")))
		}
	}
	lines = append(lines, sep, hdrStyle.Render(fmt.Sprintf("  %-*s %*s %*s", catW, "Total", countW, "", sizeW, util.FormatSizeIn(totalSize, units))))

	for len(lines) < height {
		lines = append(lines, "")
	}
	bg := lipgloss.NewStyle().Background(theme.BgDark).Width(max(width, 1))
	lines = lines[:height]
	for i := range lines {
		lines[i] = bg.Render(lines[i])
	}
	return strings.Join(lines, "\n")
}
