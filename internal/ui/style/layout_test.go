package style

import (
	"testing"
)

func TestContentHeight(t *testing.T) {
	tests := []struct {
		w, h int
		want int
	}{
		{80, 24, 20},
		{10, 5, 1},
		{10, 4, 1},
		{10, 0, 1},
		{80, 50, 46},
	}

	for _, tt := range tests {
		l := NewLayout(tt.w, tt.h)
		got := l.ContentHeight()
		if got != tt.want {
			t.Errorf("NewLayout(%d,%d).ContentHeight() = %d, want %d", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestBarWidth(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{10, 5},
		{30, 5},
		{60, 13},
		{80, 23},
		{200, 30},
	}

	for _, tt := range tests {
		l := NewLayout(tt.width, 24)
		got := l.BarWidth()
		if got != tt.want {
			t.Errorf("NewLayout(%d,24).BarWidth() = %d, want %d", tt.width, got, tt.want)
		}
	}
}

func TestNameWidth(t *testing.T) {
	for _, w := range []int{10, 30, 80, 200} {
		l := NewLayout(w, 24)
		if got := l.NameWidth(); got < 8 {
			t.Errorf("NewLayout(%d,24).NameWidth() = %d, want >= 8", w, got)
		}
	}

	for _, w := range []int{80, 120, 200} {
		l := NewLayout(w, 24)
		total := l.NameWidth() + l.BarWidth() + l.rowOverhead()
		if total != l.ContentWidth() {
			t.Errorf("width %d: name %d + bar %d + overhead %d = %d",
				w, l.NameWidth(), l.BarWidth(), l.rowOverhead(), total)
		}
	}
}

func TestFullWidth(t *testing.T) {
	if got := FullWidth("hi", 5); got != "hi   " {
		t.Errorf("FullWidth(\"hi\", 5) = %q, want %q", got, "hi   ")
	}
	if got := FullWidth("hello", 5); got != "hello" {
		t.Errorf("FullWidth(\"hello\", 5) = %q, want %q", got, "hello")
	}
	if got := FullWidth("toolong", 3); got != "toolong" {
		t.Errorf("FullWidth truncated: %q", got)
	}
}

func TestGradientColor_Endpoints(t *testing.T) {
	th := DefaultTheme()
	if got := th.GradientColor(-1); got != th.GradientStart {
		t.Errorf("GradientColor(-1) = %s", got)
	}
	if got := th.GradientColor(2); got != th.GradientEnd {
		t.Errorf("GradientColor(2) = %s", got)
	}
	mid := th.GradientColor(0.5)
	if mid == th.GradientStart || mid == th.GradientEnd {
		t.Errorf("GradientColor(0.5) = %s, want a blend", mid)
	}
}

func TestPalette(t *testing.T) {
	if Palette(0) != nil {
		t.Error("Palette(0) should be nil")
	}
	colors := Palette(6)
	seen := make(map[string]bool)
	for _, c := range colors {
		if len(c) != 7 || c[0] != '#' {
			t.Errorf("color %q is not #rrggbb", c)
		}
		seen[string(c)] = true
	}
	if len(seen) != 6 {
		t.Errorf("Palette(6) has %d distinct colors", len(seen))
	}
}
