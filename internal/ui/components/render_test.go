package components

import (
	"strings"
	"testing"
	"time"

	"github.com/sadopc/duview/internal/model"
	"github.com/sadopc/duview/internal/scanner"
	"github.com/sadopc/duview/internal/ui/style"
	"github.com/sadopc/duview/internal/util"
)

func fileNode(name string, size int64) *model.Node {
	return &model.Node{
		Name:      name,
		Path:      "/root/" + name,
		Size:      size,
		Allocated: size,
		Ext:       model.Extension(name),
	}
}

func sampleDir() *model.Node {
	root := model.NewDir("root", "/root", time.Time{})
	sub := model.NewDir("sub", "/root/sub", time.Time{})
	sub.Fold(fileNode("song.mp3", 3000))
	root.Fold(sub)
	root.Fold(fileNode("main.go", 400))
	root.Fold(fileNode("notes.txt", 200))
	root.Fold(fileNode("lib.go", 100))
	root.Fold(fileNode("README", 0))
	return root
}

func noPanic(t *testing.T, name string, w int, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("%s panicked at width=%d: %v", name, w, r)
		}
	}()
	fn()
}

func TestRender_SmallWidth(t *testing.T) {
	theme := style.DefaultTheme()
	dir := sampleDir()
	items := []ConfirmItem{{Name: "test.txt", Path: "/tmp/test.txt", Size: 100}}
	var ft FileTypes

	for _, w := range []int{0, 1, 2, 5} {
		in := ChartInput{Items: dir.Children, Width: w, Height: 10}
		noPanic(t, "RenderHelp", w, func() { RenderHelp(theme, w, 10) })
		noPanic(t, "RenderConfirmDialog", w, func() { RenderConfirmDialog(theme, items, util.UnitsAuto, w, 10) })
		noPanic(t, "RenderScanProgress", w, func() {
			RenderScanProgress(theme, ScanView{Root: "/very/long/root", Progress: scanner.Progress{Path: "/x"}}, w, 10)
		})
		noPanic(t, "RenderFileTypes", w, func() { RenderFileTypes(theme, ft.Rows(dir), util.UnitsAuto, w, 10) })
		noPanic(t, "RenderTreemap", w, func() { RenderTreemap(theme, in) })
		noPanic(t, "RenderBars", w, func() { RenderBars(theme, in) })
		noPanic(t, "RenderDonut", w, func() { RenderDonut(theme, in) })
	}
}

func TestChartInput_SlicesFoldsOther(t *testing.T) {
	dir := sampleDir()
	in := ChartInput{Items: dir.Children}

	slices, total := in.slices(3)
	if total != 3700 {
		t.Errorf("total = %d, want 3700", total)
	}
	if len(slices) != 3 {
		t.Fatalf("got %d slices, want 3", len(slices))
	}
	if slices[0].node.Name != "sub" || slices[1].node.Name != "main.go" {
		t.Errorf("order = %s, %s", slices[0].node.Name, slices[1].node.Name)
	}
	if slices[2].node != nil || slices[2].size != 300 {
		t.Errorf("other = %+v, want nil node with 300", slices[2])
	}
	if !strings.HasPrefix(slices[2].label(util.UnitsBytes), "other (") {
		t.Errorf("other label = %q", slices[2].label(util.UnitsBytes))
	}

	// Zero-size entries never get a share.
	all, _ := in.slices(100)
	if len(all) != 4 {
		t.Errorf("got %d slices, want 4", len(all))
	}
}

func TestChartInput_Allocated(t *testing.T) {
	n := fileNode("a", 10)
	n.Allocated = 4096
	in := ChartInput{Items: []*model.Node{n}, Allocated: true}
	if _, total := in.slices(5); total != 4096 {
		t.Errorf("total = %d, want 4096", total)
	}
}

func TestDonutRing(t *testing.T) {
	slices := []slice{{size: 60}, {size: 30}, {size: 10}}
	grid := donutRing(slices, 100, 10)
	if len(grid) != 10 || len(grid[0]) != 20 {
		t.Fatalf("grid is %dx%d, want 10x20", len(grid), len(grid[0]))
	}
	if grid[5][9] != -1 {
		t.Errorf("center = %d, want -1", grid[5][9])
	}
	if grid[0][0] != -1 {
		t.Errorf("corner = %d, want -1", grid[0][0])
	}
	if grid[0][10] != 0 {
		t.Errorf("twelve o'clock = %d, want 0", grid[0][10])
	}

	counts := make(map[int]int)
	for _, row := range grid {
		for _, idx := range row {
			counts[idx]++
		}
	}
	for i := range slices {
		if counts[i] == 0 {
			t.Errorf("slice %d not drawn", i)
		}
	}
	if counts[0] <= counts[1] || counts[1] <= counts[2] {
		t.Errorf("cell counts not ordered by size: %v", counts)
	}

	if donutRing(slices, 100, 0) != nil {
		t.Error("zero diameter should draw nothing")
	}
}

func TestFileTypes_Rows(t *testing.T) {
	dir := sampleDir()
	var ft FileTypes
	rows := ft.Rows(dir)
	if len(rows) == 0 {
		t.Fatal("no rows")
	}
	if rows[0].Category != model.CatMedia || rows[0].Size != 3000 {
		t.Errorf("first row = %+v, want media 3000", rows[0].CategoryTotal)
	}

	var code *TypeRow
	for i := range rows {
		if rows[i].Category == model.CatCode {
			code = &rows[i]
		}
	}
	if code == nil {
		t.Fatal("no code row")
	}
	if code.Count != 2 || len(code.TopExts) != 1 || code.TopExts[0] != (ExtTotal{Ext: "go", Size: 500}) {
		t.Errorf("code row = %+v", *code)
	}

	// Cached until invalidated.
	dir.Children[1].Size = 9999
	if again := ft.Rows(dir); again[0].Size != 3000 {
		t.Errorf("cache not used: %+v", again[0])
	}
	ft.Invalidate()
	if fresh := ft.Rows(dir); fresh[0].Category != model.CatCode {
		t.Errorf("after invalidate first = %+v", fresh[0].CategoryTotal)
	}
}

func TestRenderFileTypes_Empty(t *testing.T) {
	out := RenderFileTypes(style.DefaultTheme(), nil, util.UnitsAuto, 80, 10)
	if !strings.Contains(out, "no files") {
		t.Errorf("output = %q", out)
	}
}

func TestFlagMarker(t *testing.T) {
	tests := []struct {
		flag model.NodeFlag
		want string
	}{
		{0, ""},
		{model.FlagError, "!"},
		{model.FlagSymlink, "->"},
		{model.FlagHardlink, "="},
	}
	for _, tt := range tests {
		if got := FlagMarker(&model.Node{Flag: tt.flag}); got != tt.want {
			t.Errorf("FlagMarker(%v) = %q, want %q", tt.flag, got, tt.want)
		}
	}
}

func TestConfirmItemFor(t *testing.T) {
	n := fileNode("big.iso", 1000)
	n.Allocated = 4096
	if got := ConfirmItemFor(n, false); got.Size != 1000 || got.Path != "/root/big.iso" {
		t.Errorf("apparent item = %+v", got)
	}
	if got := ConfirmItemFor(n, true); got.Size != 4096 {
		t.Errorf("allocated item = %+v", got)
	}
}

func TestTreeView_EnsureVisible(t *testing.T) {
	items := make([]*model.Node, 50)
	for i := range items {
		items[i] = fileNode("f", int64(i))
	}
	tv := TreeView{
		Theme:  style.DefaultTheme(),
		Layout: style.Layout{Width: 80, Height: 14},
		Items:  items,
		Cursor: 30,
	}
	tv.EnsureVisible()
	h := tv.Layout.ContentHeight()
	if tv.Cursor < tv.Offset || tv.Cursor >= tv.Offset+h {
		t.Errorf("cursor %d outside window [%d,%d)", tv.Cursor, tv.Offset, tv.Offset+h)
	}
	tv.Cursor = 0
	tv.EnsureVisible()
	if tv.Offset != 0 {
		t.Errorf("Offset = %d, want 0", tv.Offset)
	}
}
