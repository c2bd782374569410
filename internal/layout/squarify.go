// Package layout implements the squarified treemap algorithm of Bruls,
// Huizing and van Wijk.
package layout

import "math"

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Area returns W*H, or 0 for degenerate rectangles.
func (r Rect) Area() float64 {
	if r.W <= 0 || r.H <= 0 {
		return 0
	}
	return r.W * r.H
}

// Item is one weighted input to Squarify.
type Item[T any] struct {
	Weight  float64
	Payload T
}

// Cell is the rectangle placed for one item.
type Cell[T any] struct {
	Payload T
	Rect
}

// Squarify tiles bounds with one cell per item, each with area proportional
// to its weight. Items must already be sorted by weight, largest first.
// Cells are returned in input order. Zero total weight or an empty bounds
// yields zero-size cells at the bounds origin.
func Squarify[T any](items []Item[T], bounds Rect) []Cell[T] {
	cells := make([]Cell[T], 0, len(items))
	if len(items) == 0 {
		return cells
	}

	total := 0.0
	for _, it := range items {
		total += weight(it.Weight)
	}
	area := bounds.Area()
	if total <= 0 || area <= 0 || math.IsInf(total, 0) || math.IsInf(area, 0) {
		for _, it := range items {
			cells = append(cells, Cell[T]{Payload: it.Payload, Rect: Rect{X: bounds.X, Y: bounds.Y}})
		}
		return cells
	}

	scale := area / total
	areas := make([]float64, len(items))
	for i, it := range items {
		areas[i] = weight(it.Weight) * scale
	}

	rem := bounds
	start := 0
	for i := 0; i < len(items); {
		if start == i && i == len(items)-1 {
			cells = append(cells, Cell[T]{Payload: items[i].Payload, Rect: rem})
			return cells
		}
		side := math.Min(rem.W, rem.H)
		if start == i || Worst(areas[start:i+1], side) <= Worst(areas[start:i], side) {
			i++
			continue
		}
		cells, rem = layoutRow(cells, items[start:i], areas[start:i], rem, false)
		start = i
	}
	if start < len(items) {
		cells, _ = layoutRow(cells, items[start:], areas[start:], rem, true)
	}
	return cells
}

// Worst returns the largest aspect ratio in a row of areas laid along a side
// of the given length. Empty rows and non-positive sides give +Inf.
func Worst(areas []float64, side float64) float64 {
	if len(areas) == 0 || side <= 0 {
		return math.Inf(1)
	}
	sum := 0.0
	for _, a := range areas {
		sum += a
	}
	if sum <= 0 {
		return math.Inf(1)
	}
	thick := sum / side
	worst := 0.0
	for _, a := range areas {
		if a <= 0 {
			return math.Inf(1)
		}
		s := a / thick
		worst = math.Max(worst, math.Max(thick/s, s/thick))
	}
	return worst
}

// layoutRow places a row along the shorter side of rem and returns the rest
// of rem. The final row takes all of rem.
func layoutRow[T any](cells []Cell[T], row []Item[T], areas []float64, rem Rect, final bool) ([]Cell[T], Rect) {
	sum := 0.0
	for _, a := range areas {
		sum += a
	}
	frac := func(i int) float64 {
		if sum > 0 {
			return areas[i] / sum
		}
		return 1 / float64(len(areas))
	}

	if rem.W >= rem.H {
		// Column on the left, items stacked top to bottom.
		w := rem.W
		if !final && rem.H > 0 {
			w = math.Min(sum/rem.H, rem.W)
		}
		y, end := rem.Y, rem.Y+rem.H
		for i, it := range row {
			h := rem.H * frac(i)
			if i == len(row)-1 {
				h = end - y
			}
			cells = append(cells, Cell[T]{Payload: it.Payload, Rect: Rect{X: rem.X, Y: y, W: w, H: h}})
			y += h
		}
		rem.X += w
		rem.W -= w
		return cells, rem
	}

	// Strip across the top, items left to right.
	h := rem.H
	if !final && rem.W > 0 {
		h = math.Min(sum/rem.W, rem.H)
	}
	x, end := rem.X, rem.X+rem.W
	for i, it := range row {
		w := rem.W * frac(i)
		if i == len(row)-1 {
			w = end - x
		}
		cells = append(cells, Cell[T]{Payload: it.Payload, Rect: Rect{X: x, Y: rem.Y, W: w, H: h}})
		x += w
	}
	rem.Y += h
	rem.H -= h
	return cells, rem
}

func weight(w float64) float64 {
	if w <= 0 || math.IsNaN(w) {
		return 0
	}
	return w
}
