package model

import (
	"sort"
	"strings"

	"github.com/maruel/natural"
)

// SortField defines what to sort by.
type SortField int

const (
	SortBySize SortField = iota
	SortByName
	SortByCount
	SortByMtime
)

var sortFieldNames = [...]string{"size", "name", "count", "mtime"}

func (f SortField) String() string {
	if f < 0 || int(f) >= len(sortFieldNames) {
		return "size"
	}
	return sortFieldNames[f]
}

// Next cycles through the sort fields.
func (f SortField) Next() SortField {
	return (f + 1) % SortField(len(sortFieldNames))
}

// SortOrder defines ascending or descending.
type SortOrder int

const (
	SortDesc SortOrder = iota
	SortAsc
)

// SortConfig holds the view's ordering. The scan itself always produces
// children by size, largest first.
type SortConfig struct {
	Field SortField
	Order SortOrder
	// DirsFirst keeps directories before files regardless of sort.
	DirsFirst bool
	// Allocated sorts by allocated size instead of logical size.
	Allocated bool
}

// DefaultSort is size descending with mixed files and directories, the
// order a fresh scan already has.
func DefaultSort() SortConfig {
	return SortConfig{Field: SortBySize, Order: SortDesc}
}

// SortNodes returns a sorted copy of nodes.
func SortNodes(nodes []*Node, cfg SortConfig) []*Node {
	out := make([]*Node, len(nodes))
	copy(out, nodes)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]

		if cfg.DirsFirst && a.IsDir != b.IsDir {
			return a.IsDir
		}

		// Swapping keeps strict weak ordering for descending sorts.
		if cfg.Order == SortDesc {
			a, b = b, a
		}

		switch cfg.Field {
		case SortByName:
			return natural.Less(strings.ToLower(a.Name), strings.ToLower(b.Name))
		case SortByCount:
			return a.ItemCount() < b.ItemCount()
		case SortByMtime:
			return a.Mtime.Before(b.Mtime)
		default:
			if cfg.Allocated {
				return a.Allocated < b.Allocated
			}
			return a.Size < b.Size
		}
	})
	return out
}
