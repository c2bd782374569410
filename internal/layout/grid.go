package layout

import "math"

// GridCell is a cell snapped to whole character cells.
type GridCell[T any] struct {
	Payload    T
	X, Y, W, H int
}

// Snap rounds cell edges to integers. Neighbouring cells share an edge
// coordinate, so they round to the same column or row and never overlap.
// Cells that round to nothing are dropped.
func Snap[T any](cells []Cell[T]) []GridCell[T] {
	out := make([]GridCell[T], 0, len(cells))
	for _, c := range cells {
		x0, y0 := round(c.X), round(c.Y)
		x1, y1 := round(c.X+c.W), round(c.Y+c.H)
		if x1 <= x0 || y1 <= y0 {
			continue
		}
		out = append(out, GridCell[T]{Payload: c.Payload, X: x0, Y: y0, W: x1 - x0, H: y1 - y0})
	}
	return out
}

func round(v float64) int {
	return int(math.Floor(v + 0.5))
}
