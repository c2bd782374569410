package ui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gabriel-vasile/mimetype"

	"github.com/sadopc/duview/internal/config"
	"github.com/sadopc/duview/internal/logging"
	"github.com/sadopc/duview/internal/model"
	"github.com/sadopc/duview/internal/ops"
	"github.com/sadopc/duview/internal/scanner"
	"github.com/sadopc/duview/internal/ui/components"
	"github.com/sadopc/duview/internal/ui/style"
	"github.com/sadopc/duview/internal/util"
)

// ViewMode represents the current view.
type ViewMode int

// The order matches config.Views and the tab bar.
const (
	ViewTree ViewMode = iota
	ViewTreemap
	ViewBars
	ViewDonut
	ViewTypes
)

func viewFromName(name string) ViewMode {
	for i, v := range config.Views {
		if v == name {
			return ViewMode(i)
		}
	}
	return ViewTree
}

// AppState represents the application state.
type AppState int

const (
	StateScanning AppState = iota
	StateBrowsing
	StateConfirmDelete
	StateHelp
	StateExporting
)

const defaultExportPath = "duview-export.json"

// ScanDoneMsg is sent when a scan session or an import ends.
type ScanDoneMsg struct {
	Result scanner.Result
}

// DeleteDoneMsg is sent when deletion completes.
type DeleteDoneMsg struct {
	Deleted []string
	Errors  []error
}

// ExportDoneMsg is sent when export completes.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// InfoMsg carries the detected content type of a file.
type InfoMsg struct {
	Path string
	MIME string
	Err  error
}

type tickMsg time.Time

// Options configures an App.
type Options struct {
	Config config.Config
	// Manager runs the scans. Nil means a local manager built from Config.
	Manager *scanner.Manager
	// Source is shown in the header instead of the scan path, e.g. a
	// remote target.
	Source string
	// ReadOnly disables delete and content sniffing.
	ReadOnly   bool
	ExportPath string
	Version    string
}

// App is the root Bubble Tea model.
type App struct {
	ScanPath   string
	ImportPath string
	ExportPath string
	Version    string

	manager   *scanner.Manager
	source    string
	readOnly  bool
	sessionID string

	state    AppState
	viewMode ViewMode
	width    int
	height   int

	root        *model.Node
	currentDir  *model.Node
	sortConfig  model.SortConfig
	sortedItems []*model.Node
	fileTypes   components.FileTypes

	cursor int
	offset int

	marked      map[string]bool
	markedItems []components.ConfirmItem

	allocated  bool
	showHidden bool
	units      util.Units

	scanProgress   scanner.Progress
	progressMu     sync.Mutex
	latestProgress scanner.Progress
	spinner        spinner.Model

	theme  style.Theme
	keys   KeyMap
	layout style.Layout

	statusMsg string
	fatalErr  error
}

func newApp(opts Options) *App {
	cfg := opts.Config
	return &App{
		ExportPath: opts.ExportPath,
		Version:    opts.Version,
		manager:    opts.Manager,
		source:     opts.Source,
		readOnly:   opts.ReadOnly,
		state:      StateScanning,
		viewMode:   viewFromName(cfg.View),
		sortConfig: model.DefaultSort(),
		marked:     make(map[string]bool),
		showHidden: cfg.ShowHidden,
		units:      cfg.Units,
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		theme:      style.DefaultTheme(),
		keys:       DefaultKeyMap(),
	}
}

// NewApp creates an App that scans scanPath.
func NewApp(scanPath string, opts Options) *App {
	a := newApp(opts)
	a.ScanPath = scanPath
	if a.manager == nil {
		a.manager = scanner.NewManager(scanner.LocalFS{}, opts.Config.ScanOptions())
	}
	return a
}

// NewAppFromImport creates an App that loads an exported tree. Imported
// data is never deleted from.
func NewAppFromImport(importPath string, opts Options) *App {
	a := newApp(opts)
	a.ImportPath = importPath
	a.readOnly = true
	return a
}

func (a *App) Init() tea.Cmd {
	if a.ImportPath != "" {
		a.sessionID = scanner.NewSessionID()
		return a.importCmd(a.sessionID)
	}
	return a.startScan()
}

func (a *App) startScan() tea.Cmd {
	a.sessionID = scanner.NewSessionID()
	a.state = StateScanning
	a.scanProgress = scanner.Progress{}
	a.progressMu.Lock()
	a.latestProgress = scanner.Progress{}
	a.progressMu.Unlock()
	return tea.Batch(a.scanCmd(a.sessionID), a.tickCmd(), a.spinner.Tick)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout = style.NewLayout(msg.Width, msg.Height)
		return a, nil

	case ScanDoneMsg:
		return a.finishScan(msg.Result)

	case tickMsg:
		if a.state == StateScanning {
			a.progressMu.Lock()
			a.scanProgress = a.latestProgress
			a.progressMu.Unlock()
			return a, a.tickCmd()
		}
		return a, nil

	case spinner.TickMsg:
		if a.state != StateScanning {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case DeleteDoneMsg:
		for _, p := range msg.Deleted {
			if _, err := a.root.Remove(p); err != nil {
				logging.Debug.Printf("detach %s: %v", p, err)
			}
		}
		a.fileTypes.Invalidate()
		a.state = StateBrowsing
		a.clearMarks()
		a.refreshSorted()
		a.clampCursor()
		if len(msg.Errors) > 0 {
			a.statusMsg = fmt.Sprintf("Delete: %d failed (%v)", len(msg.Errors), msg.Errors[0])
		} else if len(msg.Deleted) > 0 {
			a.statusMsg = fmt.Sprintf("Deleted %d item(s)", len(msg.Deleted))
		}
		return a, tea.ClearScreen

	case ExportDoneMsg:
		a.state = StateBrowsing
		if msg.Err != nil {
			a.statusMsg = fmt.Sprintf("Export failed: %v", msg.Err)
		} else {
			a.statusMsg = fmt.Sprintf("Exported to %s", msg.Path)
		}
		return a, nil

	case InfoMsg:
		name := msg.Path[strings.LastIndexAny(msg.Path, `/\`)+1:]
		if msg.Err != nil {
			a.statusMsg = fmt.Sprintf("%s: %v", name, msg.Err)
		} else {
			a.statusMsg = fmt.Sprintf("%s: %s", name, msg.MIME)
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

// finishScan installs a completed tree. Results from superseded sessions
// are dropped.
func (a *App) finishScan(res scanner.Result) (tea.Model, tea.Cmd) {
	if res.SessionID != a.sessionID {
		logging.Debug.Printf("dropping result of stale session %s", res.SessionID)
		return a, nil
	}
	switch {
	case res.Cancelled:
		if a.root == nil {
			return a, tea.Quit
		}
		a.state = StateBrowsing
		a.statusMsg = "Scan cancelled"
		return a, tea.ClearScreen
	case res.Err != nil:
		a.fatalErr = res.Err
		return a, tea.Quit
	}

	a.fatalErr = nil
	prev := ""
	if a.currentDir != nil {
		prev = a.currentDir.Path
	}
	a.root = res.Tree
	a.currentDir = res.Tree
	if prev != "" {
		if n := res.Tree.Find(prev); n != nil && n.IsDir {
			a.currentDir = n
		}
	}
	a.fileTypes.Invalidate()
	a.cursor = 0
	a.offset = 0
	a.clearMarks()
	a.state = StateBrowsing
	a.refreshSorted()
	return a, tea.ClearScreen
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keys.ForceQuit) {
		if a.manager != nil {
			a.manager.CancelAll()
		}
		return a, tea.Quit
	}

	switch a.state {
	case StateScanning:
		switch {
		case key.Matches(msg, a.keys.Quit):
			if a.manager != nil {
				a.manager.CancelAll()
			}
			return a, tea.Quit
		case key.Matches(msg, a.keys.Cancel):
			if a.manager != nil {
				a.manager.Cancel(a.sessionID)
			}
			a.statusMsg = "Cancelling..."
		}
		return a, nil

	case StateHelp:
		if key.Matches(msg, a.keys.Help) || key.Matches(msg, a.keys.Cancel) {
			a.state = StateBrowsing
			return a, tea.ClearScreen
		}
		return a, nil

	case StateConfirmDelete:
		if key.Matches(msg, a.keys.ConfirmYes) {
			return a, a.executeDelete()
		}
		if key.Matches(msg, a.keys.ConfirmNo) {
			a.state = StateBrowsing
			return a, tea.ClearScreen
		}
		return a, nil

	case StateBrowsing:
		return a.handleBrowsingKey(msg)
	}

	return a, nil
}

func (a *App) handleBrowsingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.statusMsg = ""
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.state = StateHelp
		return a, tea.ClearScreen

	case key.Matches(msg, a.keys.Up):
		a.moveCursor(-1)
	case key.Matches(msg, a.keys.Down):
		a.moveCursor(1)
	case key.Matches(msg, a.keys.Top):
		a.cursor = 0
	case key.Matches(msg, a.keys.Bottom):
		a.cursor = len(a.sortedItems) - 1
		a.clampCursor()
	case key.Matches(msg, a.keys.Enter), key.Matches(msg, a.keys.Right):
		a.enterDir()
	case key.Matches(msg, a.keys.Left), key.Matches(msg, a.keys.Back):
		a.goBack()

	case key.Matches(msg, a.keys.ViewTree):
		return a.setView(ViewTree)
	case key.Matches(msg, a.keys.ViewTreemap):
		return a.setView(ViewTreemap)
	case key.Matches(msg, a.keys.ViewBars):
		return a.setView(ViewBars)
	case key.Matches(msg, a.keys.ViewDonut):
		return a.setView(ViewDonut)
	case key.Matches(msg, a.keys.ViewTypes):
		return a.setView(ViewTypes)

	case key.Matches(msg, a.keys.SortSize):
		a.toggleSort(model.SortBySize)
	case key.Matches(msg, a.keys.SortName):
		a.toggleSort(model.SortByName)
	case key.Matches(msg, a.keys.SortCount):
		a.toggleSort(model.SortByCount)
	case key.Matches(msg, a.keys.SortMtime):
		a.toggleSort(model.SortByMtime)

	case key.Matches(msg, a.keys.ToggleAllocated):
		a.allocated = !a.allocated
		a.refreshSorted()
	case key.Matches(msg, a.keys.ToggleHidden):
		a.showHidden = !a.showHidden
		a.clearMarks()
		a.refreshSorted()
		a.clampCursor()
	case key.Matches(msg, a.keys.Units):
		a.units = a.units.Next()
		a.statusMsg = "Units: " + a.units.String()

	case key.Matches(msg, a.keys.Mark):
		if a.viewMode == ViewTree {
			a.toggleMark()
		}

	case key.Matches(msg, a.keys.Delete):
		if a.viewMode == ViewTree {
			a.prepareDelete()
			if a.state == StateConfirmDelete {
				return a, tea.ClearScreen
			}
		}

	case key.Matches(msg, a.keys.Info):
		return a, a.infoCmd()

	case key.Matches(msg, a.keys.Export):
		return a, a.exportCmd()

	case key.Matches(msg, a.keys.Rescan):
		if a.ImportPath != "" {
			a.statusMsg = "Rescan is unavailable for imported data"
			return a, nil
		}
		a.clearMarks()
		return a, tea.Batch(tea.ClearScreen, a.startScan())
	}

	return a, nil
}

func (a *App) setView(v ViewMode) (tea.Model, tea.Cmd) {
	a.viewMode = v
	return a, tea.ClearScreen
}

func (a *App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	switch a.state {
	case StateScanning:
		return components.RenderScanProgress(a.theme, components.ScanView{
			Root:     a.displaySource(),
			Spinner:  a.spinner.View(),
			Progress: a.scanProgress,
			Units:    a.units,
		}, a.width, a.height)

	case StateHelp:
		return components.RenderHelp(a.theme, a.width, a.height)

	case StateConfirmDelete:
		return components.RenderConfirmDialog(a.theme, a.markedItems, a.units, a.width, a.height)

	case StateBrowsing, StateExporting:
		return a.renderBrowsing()
	}

	return ""
}

func (a *App) displaySource() string {
	switch {
	case a.source != "":
		return a.source
	case a.ImportPath != "":
		return a.ImportPath
	}
	return a.ScanPath
}

func (a *App) renderBrowsing() string {
	header := components.RenderHeader(a.theme, a.root, a.displaySource(), a.units, a.width)
	breadcrumb := components.RenderBreadcrumb(a.theme, a.currentDir, a.width)
	tabBar := components.RenderTabBar(a.theme, int(a.viewMode), a.sortConfig, a.width)

	chart := components.ChartInput{
		Items:     a.sortedItems,
		Allocated: a.allocated,
		Units:     a.units,
		Width:     a.layout.ContentWidth(),
		Height:    a.layout.ContentHeight(),
	}

	var content string
	switch a.viewMode {
	case ViewTree:
		tv := &components.TreeView{
			Theme:      a.theme,
			Layout:     a.layout,
			Items:      a.sortedItems,
			Cursor:     a.cursor,
			Offset:     a.offset,
			Marked:     a.marked,
			Allocated:  a.allocated,
			Units:      a.units,
			ParentSize: a.parentSize(),
		}
		tv.EnsureVisible()
		a.offset = tv.Offset
		content = tv.Render()
	case ViewTreemap:
		content = components.RenderTreemap(a.theme, chart)
	case ViewBars:
		content = components.RenderBars(a.theme, chart)
	case ViewDonut:
		content = components.RenderDonut(a.theme, chart)
	case ViewTypes:
		content = components.RenderFileTypes(a.theme, a.fileTypes.Rows(a.currentDir), a.units, chart.Width, chart.Height)
	}

	statusBar := components.RenderStatusBar(a.theme, components.StatusInfo{
		CurrentDir:  a.currentDir,
		ItemCount:   len(a.sortedItems),
		MarkedCount: len(a.marked),
		MarkedSize:  a.markedSize(a.sortedItems),
		Allocated:   a.allocated,
		ShowHidden:  a.showHidden,
		Units:       a.units,
		ReadOnly:    a.readOnly,
		Message:     a.statusMsg,
	}, a.width)

	return header + "\n" + breadcrumb + "\n" + tabBar + "\n" + content + "\n" + statusBar
}

func (a *App) moveCursor(delta int) {
	a.cursor += delta
	a.clampCursor()
}

func (a *App) clampCursor() {
	if a.cursor >= len(a.sortedItems) {
		a.cursor = len(a.sortedItems) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a *App) enterDir() {
	if a.cursor >= len(a.sortedItems) {
		return
	}
	item := a.sortedItems[a.cursor]
	if !item.IsDir {
		return
	}
	a.currentDir = item
	a.cursor = 0
	a.offset = 0
	a.clearMarks()
	a.refreshSorted()
}

func (a *App) goBack() {
	if a.currentDir == nil || a.currentDir == a.root || a.currentDir.Parent == nil {
		return
	}
	leaving := a.currentDir
	a.currentDir = leaving.Parent
	a.clearMarks()
	a.refreshSorted()

	a.cursor = 0
	for i, item := range a.sortedItems {
		if item == leaving {
			a.cursor = i
			break
		}
	}
	a.offset = 0
}

func (a *App) toggleSort(field model.SortField) {
	if a.sortConfig.Field == field {
		if a.sortConfig.Order == model.SortDesc {
			a.sortConfig.Order = model.SortAsc
		} else {
			a.sortConfig.Order = model.SortDesc
		}
	} else {
		a.sortConfig.Field = field
		a.sortConfig.Order = model.SortDesc
	}
	a.refreshSorted()
}

func (a *App) toggleMark() {
	if a.cursor >= len(a.sortedItems) {
		return
	}
	p := a.sortedItems[a.cursor].Path
	if a.marked[p] {
		delete(a.marked, p)
	} else {
		a.marked[p] = true
	}
	a.moveCursor(1)
}

func (a *App) clearMarks() {
	a.marked = make(map[string]bool)
}

// refreshSorted rebuilds the visible listing of the current directory.
// Hidden entries stay in the tree and its totals; they are only filtered
// from view.
func (a *App) refreshSorted() {
	if a.currentDir == nil {
		a.sortedItems = nil
		return
	}
	children := a.currentDir.Children
	if !a.showHidden {
		filtered := make([]*model.Node, 0, len(children))
		for _, c := range children {
			if !strings.HasPrefix(c.Name, ".") {
				filtered = append(filtered, c)
			}
		}
		children = filtered
	}
	a.sortConfig.Allocated = a.allocated
	a.sortedItems = model.SortNodes(children, a.sortConfig)
}

func (a *App) parentSize() int64 {
	if a.currentDir == nil {
		return 0
	}
	if a.allocated {
		return a.currentDir.Allocated
	}
	return a.currentDir.Size
}

// scanCmd runs one scan session. Progress reaches the view through
// latestProgress, which the ticker samples.
func (a *App) scanCmd(id string) tea.Cmd {
	manager, root := a.manager, a.ScanPath
	return func() tea.Msg {
		progressCh := make(chan scanner.Progress, 16)
		relayed := make(chan struct{})
		go func() {
			defer close(relayed)
			for p := range progressCh {
				a.progressMu.Lock()
				a.latestProgress = p
				a.progressMu.Unlock()
			}
		}()

		res := manager.Start(context.Background(), root, id, progressCh)
		close(progressCh)
		<-relayed
		return ScanDoneMsg{Result: res}
	}
}

func (a *App) importCmd(id string) tea.Cmd {
	path := a.ImportPath
	return func() tea.Msg {
		root, err := ops.ImportJSON(path)
		return ScanDoneMsg{Result: scanner.Result{SessionID: id, Tree: root, Err: err}}
	}
}

func (a *App) tickCmd() tea.Cmd {
	return tea.Tick(60*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a *App) prepareDelete() {
	if a.readOnly {
		a.statusMsg = "Delete is disabled for imported or remote data"
		return
	}
	if a.currentDir == nil {
		return
	}

	var items []components.ConfirmItem
	if len(a.marked) > 0 {
		for _, item := range a.sortedItems {
			if a.marked[item.Path] {
				items = append(items, components.ConfirmItemFor(item, a.allocated))
			}
		}
	} else if a.cursor < len(a.sortedItems) {
		items = append(items, components.ConfirmItemFor(a.sortedItems[a.cursor], a.allocated))
	}
	if len(items) == 0 {
		return
	}

	a.markedItems = items
	a.state = StateConfirmDelete
}

func (a *App) executeDelete() tea.Cmd {
	items := a.markedItems
	rootPath := a.root.Path

	return func() tea.Msg {
		var deleted []string
		var errs []error
		for _, item := range items {
			if err := ops.Delete(item.Path, rootPath); err != nil {
				logging.Debug.Printf("delete failed: %v", err)
				errs = append(errs, err)
				continue
			}
			deleted = append(deleted, item.Path)
		}
		return DeleteDoneMsg{Deleted: deleted, Errors: errs}
	}
}

// infoCmd describes the entry under the cursor. Directories and read-only
// sources are summarized from the tree; local files are content-sniffed.
func (a *App) infoCmd() tea.Cmd {
	if a.cursor >= len(a.sortedItems) {
		return nil
	}
	item := a.sortedItems[a.cursor]
	switch {
	case item.IsDir:
		a.statusMsg = fmt.Sprintf("%s: %s files, %s dirs, modified %s",
			item.Name, util.FormatCount(item.FileCount), util.FormatCount(item.DirCount), util.FormatAge(item.Mtime))
		return nil
	case item.IsSymlink():
		a.statusMsg = item.Name + ": symbolic link"
		return nil
	case a.readOnly:
		a.statusMsg = fmt.Sprintf("%s: %s, modified %s",
			item.Name, util.FormatSizeIn(item.Size, a.units), util.FormatAge(item.Mtime))
		return nil
	}

	path := item.Path
	return func() tea.Msg {
		mt, err := mimetype.DetectFile(path)
		if err != nil {
			return InfoMsg{Path: path, Err: err}
		}
		return InfoMsg{Path: path, MIME: mt.String()}
	}
}

// FatalError returns a fatal scan or import error, if any.
func (a *App) FatalError() error { return a.fatalErr }

func (a *App) markedSize(items []*model.Node) int64 {
	var total int64
	for _, item := range items {
		if a.marked[item.Path] {
			if a.allocated {
				total += item.Allocated
			} else {
				total += item.Size
			}
		}
	}
	return total
}

func (a *App) exportCmd() tea.Cmd {
	if a.root == nil {
		return nil
	}

	exportPath := a.ExportPath
	if exportPath == "" {
		exportPath = defaultExportPath
	}

	a.state = StateExporting
	root := a.root
	version := a.Version
	return func() tea.Msg {
		err := ops.ExportJSON(root, exportPath, version)
		return ExportDoneMsg{Path: exportPath, Err: err}
	}
}
