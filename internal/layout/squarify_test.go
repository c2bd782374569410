package layout

import (
	"math"
	"math/rand"
	"sort"
	"testing"
)

const eps = 1e-6

func items(weights ...float64) []Item[int] {
	out := make([]Item[int], len(weights))
	for i, w := range weights {
		out[i] = Item[int]{Weight: w, Payload: i}
	}
	return out
}

func approx(a, b float64) bool {
	return math.Abs(a-b) <= eps*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func overlap(a, b Rect) float64 {
	w := math.Min(a.X+a.W, b.X+b.W) - math.Max(a.X, b.X)
	h := math.Min(a.Y+a.H, b.Y+b.H) - math.Max(a.Y, b.Y)
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

func checkTiling(t *testing.T, cells []Cell[int], bounds Rect) {
	t.Helper()
	sum := 0.0
	for i, c := range cells {
		for _, v := range []float64{c.X, c.Y, c.W, c.H} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("cell %d has non-finite geometry %+v", i, c.Rect)
			}
		}
		if c.W < -eps || c.H < -eps {
			t.Fatalf("cell %d has negative size %+v", i, c.Rect)
		}
		if c.X < bounds.X-eps || c.Y < bounds.Y-eps ||
			c.X+c.W > bounds.X+bounds.W+eps || c.Y+c.H > bounds.Y+bounds.H+eps {
			t.Fatalf("cell %d %+v outside %+v", i, c.Rect, bounds)
		}
		sum += c.Area()
		for j := i + 1; j < len(cells); j++ {
			if o := overlap(c.Rect, cells[j].Rect); o > eps {
				t.Fatalf("cells %d and %d overlap by %g", i, j, o)
			}
		}
	}
	if !approx(sum, bounds.Area()) {
		t.Fatalf("covered area %g, want %g", sum, bounds.Area())
	}
}

func TestSquarify_ClassicExample(t *testing.T) {
	bounds := Rect{W: 6, H: 4}
	cells := Squarify(items(6, 6, 4, 3, 2, 2, 1), bounds)
	if len(cells) != 7 {
		t.Fatalf("got %d cells, want 7", len(cells))
	}
	checkTiling(t, cells, bounds)

	want := []Rect{
		{0, 0, 3, 2},
		{0, 2, 3, 2},
		{3, 0, 12.0 / 7, 7.0 / 3},
		{3 + 12.0/7, 0, 9.0 / 7, 7.0 / 3},
	}
	for i, w := range want {
		c := cells[i].Rect
		if !approx(c.X, w.X) || !approx(c.Y, w.Y) || !approx(c.W, w.W) || !approx(c.H, w.H) {
			t.Errorf("cell %d = %+v, want %+v", i, c, w)
		}
	}
	// The last item fills what is left.
	last := cells[6].Rect
	if !approx(last.X+last.W, 6) || !approx(last.Y+last.H, 4) || !approx(last.Area(), 1) {
		t.Errorf("last cell = %+v", last)
	}
}

func TestSquarify_AreasProportional(t *testing.T) {
	weights := []float64{50, 25, 12.5, 12.5}
	bounds := Rect{X: 10, Y: 5, W: 80, H: 20}
	cells := Squarify(items(weights...), bounds)
	checkTiling(t, cells, bounds)
	for i, c := range cells {
		want := weights[i] / 100 * bounds.Area()
		if !approx(c.Area(), want) {
			t.Errorf("cell %d area = %g, want %g", i, c.Area(), want)
		}
		if c.Payload != i {
			t.Errorf("cell %d payload = %d", i, c.Payload)
		}
	}
}

func TestSquarify_RandomCoverage(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for n := 0; n < 200; n++ {
		count := 1 + rng.Intn(40)
		weights := make([]float64, count)
		for i := range weights {
			weights[i] = rng.ExpFloat64() * 1000
		}
		sort.Sort(sort.Reverse(sort.Float64Slice(weights)))
		bounds := Rect{X: rng.Float64() * 10, Y: rng.Float64() * 10, W: 1 + rng.Float64()*300, H: 1 + rng.Float64()*100}

		cells := Squarify(items(weights...), bounds)
		if len(cells) != count {
			t.Fatalf("got %d cells, want %d", len(cells), count)
		}
		checkTiling(t, cells, bounds)
	}
}

func TestSquarify_SingleItemTakesAll(t *testing.T) {
	bounds := Rect{X: 1, Y: 2, W: 100, H: 3}
	cells := Squarify(items(7), bounds)
	if len(cells) != 1 || cells[0].Rect != bounds {
		t.Fatalf("cells = %+v, want %+v", cells, bounds)
	}
}

func TestSquarify_EqualWeightsEqualAreas(t *testing.T) {
	bounds := Rect{W: 37, H: 13}
	cells := Squarify(items(1, 1, 1, 1, 1, 1, 1, 1, 1), bounds)
	checkTiling(t, cells, bounds)
	want := bounds.Area() / 9
	for i, c := range cells {
		if !approx(c.Area(), want) {
			t.Errorf("cell %d area = %g, want %g", i, c.Area(), want)
		}
	}
}

func TestSquarify_Degenerate(t *testing.T) {
	tests := []struct {
		name    string
		weights []float64
		bounds  Rect
	}{
		{"zero total", []float64{0, 0, 0}, Rect{W: 10, H: 10}},
		{"zero width", []float64{3, 2, 1}, Rect{X: 4, Y: 4, W: 0, H: 10}},
		{"zero height", []float64{3, 2, 1}, Rect{X: 4, Y: 4, W: 10, H: 0}},
		{"negative bounds", []float64{3, 2}, Rect{W: -5, H: 10}},
		{"nan weight", []float64{math.NaN()}, Rect{W: 10, H: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells := Squarify(items(tt.weights...), tt.bounds)
			if len(cells) != len(tt.weights) {
				t.Fatalf("got %d cells, want %d", len(cells), len(tt.weights))
			}
			for _, c := range cells {
				if c.W != 0 || c.H != 0 || math.IsNaN(c.X) || math.IsNaN(c.Y) {
					t.Errorf("cell = %+v, want zero-size", c.Rect)
				}
			}
		})
	}
}

func TestSquarify_TrailingZeroWeights(t *testing.T) {
	bounds := Rect{W: 20, H: 10}
	cells := Squarify(items(5, 3, 0, 0), bounds)
	if len(cells) != 4 {
		t.Fatalf("got %d cells", len(cells))
	}
	for i, c := range cells {
		for _, v := range []float64{c.X, c.Y, c.W, c.H} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("cell %d = %+v", i, c.Rect)
			}
		}
	}
	if !approx(cells[0].Area()+cells[1].Area(), bounds.Area()) {
		t.Errorf("positive cells cover %g, want %g", cells[0].Area()+cells[1].Area(), bounds.Area())
	}
}

func TestSquarify_Empty(t *testing.T) {
	if cells := Squarify[int](nil, Rect{W: 1, H: 1}); len(cells) != 0 {
		t.Errorf("cells = %+v", cells)
	}
}

func TestWorst(t *testing.T) {
	if got := Worst([]float64{6, 6}, 4); !approx(got, 1.5) {
		t.Errorf("Worst([6 6], 4) = %g, want 1.5", got)
	}
	if got := Worst([]float64{6}, 4); !approx(got, 8.0/3) {
		t.Errorf("Worst([6], 4) = %g, want 8/3", got)
	}
	for _, tc := range []struct {
		areas []float64
		side  float64
	}{
		{nil, 4},
		{[]float64{1}, 0},
		{[]float64{0, 0}, 3},
		{[]float64{2, 0}, 3},
	} {
		if got := Worst(tc.areas, tc.side); !math.IsInf(got, 1) {
			t.Errorf("Worst(%v, %g) = %g, want +Inf", tc.areas, tc.side, got)
		}
	}
}

func TestSnap(t *testing.T) {
	bounds := Rect{W: 80, H: 24}
	cells := Snap(Squarify(items(40, 20, 10, 5, 3, 1, 1), bounds))

	grid := make([][]int, 24)
	for y := range grid {
		grid[y] = make([]int, 80)
	}
	for _, c := range cells {
		if c.W <= 0 || c.H <= 0 {
			t.Fatalf("empty grid cell %+v", c)
		}
		for y := c.Y; y < c.Y+c.H; y++ {
			for x := c.X; x < c.X+c.W; x++ {
				grid[y][x]++
			}
		}
	}
	for y := range grid {
		for x, n := range grid[y] {
			if n != 1 {
				t.Fatalf("grid (%d,%d) covered %d times", x, y, n)
			}
		}
	}
}
