// Package util formats sizes, counts and strings for display.
package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
)

// Units selects how sizes are rendered.
type Units int

const (
	UnitsAuto Units = iota
	UnitsBytes
	UnitsKiB
	UnitsMiB
	UnitsGiB
)

var unitNames = [...]string{"auto", "b", "kb", "mb", "gb"}

func (u Units) String() string {
	if u < 0 || int(u) >= len(unitNames) {
		return unitNames[UnitsAuto]
	}
	return unitNames[u]
}

// Next cycles auto, B, KiB, MiB, GiB and back to auto.
func (u Units) Next() Units {
	return (u + 1) % Units(len(unitNames))
}

// ParseUnits accepts the names printed by String, case-insensitively.
func ParseUnits(s string) (Units, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return UnitsAuto, nil
	}
	for i, name := range unitNames {
		if s == name {
			return Units(i), nil
		}
	}
	return UnitsAuto, fmt.Errorf("unknown units %q (want auto, b, kb, mb or gb)", s)
}

// FormatSize returns a human-readable size string using binary units.
func FormatSize(bytes int64) string {
	return FormatSizeIn(bytes, UnitsAuto)
}

// FormatSizeIn renders bytes in a fixed unit, or picks one when u is
// UnitsAuto. Negative sizes render as zero.
func FormatSizeIn(bytes int64, u Units) string {
	if bytes < 0 {
		bytes = 0
	}
	switch u {
	case UnitsBytes:
		return humanize.Comma(bytes) + " B"
	case UnitsKiB:
		return fmt.Sprintf("%.1f KiB", float64(bytes)/(1<<10))
	case UnitsMiB:
		return fmt.Sprintf("%.1f MiB", float64(bytes)/(1<<20))
	case UnitsGiB:
		return fmt.Sprintf("%.2f GiB", float64(bytes)/(1<<30))
	default:
		return humanize.IBytes(uint64(bytes))
	}
}

// FormatCount returns n with thousands separators.
func FormatCount(n int64) string {
	return humanize.Comma(n)
}

// FormatAge describes t relative to now; the zero time renders as "-".
func FormatAge(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

// Percent returns the percentage of part relative to total.
func Percent(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// TruncateString cuts s to maxLen terminal cells, ending in "..." when
// there is room for it. Escape sequences and wide runes are respected.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if ansi.StringWidth(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return ansi.Truncate(s, maxLen, "")
	}
	return ansi.Truncate(s, maxLen, "...")
}
