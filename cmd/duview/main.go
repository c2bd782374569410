package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/duview/internal/config"
	"github.com/sadopc/duview/internal/logging"
	"github.com/sadopc/duview/internal/ops"
	"github.com/sadopc/duview/internal/remote"
	"github.com/sadopc/duview/internal/scanner"
	"github.com/sadopc/duview/internal/ui"
	"github.com/sadopc/duview/internal/util"
)

var (
	version = "dev"
)

const defaultExportPath = "duview-export.json"

var errScanCancelled = errors.New("scan cancelled")

type scanTarget struct {
	Remote         bool
	LocalPath      string
	SSHDestination string
	RemotePath     string
}

// headless describes a non-interactive run.
type headless struct {
	exportPath  string
	jsonOut     bool
	scanTimeout time.Duration
	label       string
	progress    bool
}

func main() {
	// Flags
	exportPath := flag.String("export", "", "Export scan results to ncdu JSON file (headless mode, use '-' for stdout)")
	importPath := flag.String("import", "", "Import and view scan results from ncdu JSON file")
	jsonOut := flag.Bool("json", false, "Print the scan result as JSON to stdout (headless mode)")
	configPath := flag.String("config", "", "Config file (default: user config dir/duview/config.yaml)")
	units := flag.String("units", "", "Size units: auto, b, kb, mb, gb")
	view := flag.String("view", "", "Initial view: "+strings.Join(config.Views, ", "))
	showHidden := flag.Bool("hidden", true, "Show hidden files")
	noHidden := flag.Bool("no-hidden", false, "Hide hidden files")
	showVersion := flag.Bool("version", false, "Show version")
	exclude := flag.String("exclude", "", "Comma-separated list of entry names to exclude")
	batch := flag.Int("batch", 0, "Entries visited between scheduler yields (0 = config or 200)")
	sshPort := flag.Int("ssh-port", 0, "SSH port for remote scans (default 22)")
	sshBatch := flag.Bool("ssh-batch", false, "Disable SSH password prompts (key/agent auth only)")
	sshTimeout := flag.Int("ssh-timeout", 0, "SSH connection timeout in seconds (default 15)")
	scanTimeout := flag.Int("scan-timeout", 0, "Headless scan timeout in seconds (0 = no limit)")
	debugLog := flag.String("debug-log", "", "Append debug logs to this file")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "duview - Interactive disk usage analyzer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: duview [options] [path|user@host [remote-path]]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  duview .                          Scan current directory\n")
		fmt.Fprintf(os.Stderr, "  duview /home                      Scan /home\n")
		fmt.Fprintf(os.Stderr, "  duview --json /var > scan.json    Print the scan result as JSON\n")
		fmt.Fprintf(os.Stderr, "  duview --export scan.json .       Export scan in ncdu format\n")
		fmt.Fprintf(os.Stderr, "  duview --import scan.json         View exported scan\n")
		fmt.Fprintf(os.Stderr, "  duview user@192.168.1.10          Scan remote home directory over SSH\n")
		fmt.Fprintf(os.Stderr, "  duview --ssh-port 2222 user@host /var/log\n")
		fmt.Fprintf(os.Stderr, "  duview --units mb --view bars .   Start in the bar chart with MiB sizes\n")
	}

	flag.Parse()

	// Detect conflicting --hidden / --no-hidden flags
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["hidden"] && set["no-hidden"] {
		fmt.Fprintf(os.Stderr, "Error: --hidden and --no-hidden cannot be used together\n")
		os.Exit(1)
	}

	if *showVersion {
		fmt.Printf("duview %s\n", version)
		os.Exit(0)
	}

	if *debugLog != "" {
		if err := logging.Open(*debugLog); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	overrides := flagOverrides{
		units:      *units,
		view:       *view,
		showHidden: *showHidden && !*noHidden,
		hiddenSet:  set["hidden"] || set["no-hidden"],
		exclude:    *exclude,
		batch:      *batch,
		sshPort:    *sshPort,
		sshTimeout: *sshTimeout,
	}
	if cfg, err = overrides.apply(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *scanTimeout < 0 {
		fmt.Fprintf(os.Stderr, "Error: scan-timeout must be >= 0\n")
		os.Exit(1)
	}
	if *jsonOut && *exportPath == "-" {
		fmt.Fprintf(os.Stderr, "Error: --json cannot be combined with --export -\n")
		os.Exit(1)
	}

	// Import mode
	if *importPath != "" {
		if flag.NArg() > 0 {
			fmt.Fprintf(os.Stderr, "Error: --import cannot be used with scan targets\n")
			os.Exit(1)
		}

		if *exportPath != "" || *jsonOut {
			if err := reexport(*importPath, *exportPath, *jsonOut); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			os.Exit(0)
		}

		app := ui.NewAppFromImport(*importPath, ui.Options{Config: cfg, Version: version})
		if err := runTUI(app); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	target, err := resolveScanTarget(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	hl := headless{
		exportPath:  *exportPath,
		jsonOut:     *jsonOut,
		scanTimeout: time.Duration(*scanTimeout) * time.Second,
	}

	if target.Remote {
		if err := runRemoteScan(target, cfg, *sshBatch, hl); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	absPath, err := filepath.Abs(target.LocalPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Verify path exists
	info, err := os.Stat(absPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !info.IsDir() {
		fmt.Fprintf(os.Stderr, "Error: %s is not a directory\n", absPath)
		os.Exit(1)
	}

	if hl.active() {
		manager := scanner.NewManager(scanner.LocalFS{}, headlessOptions(cfg))
		hl.label = absPath
		if err := hl.run(manager, absPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Interactive TUI mode. Hidden entries are always scanned so the
	// toggle can show them without a rescan.
	app := ui.NewApp(absPath, ui.Options{
		Config:     cfg,
		Manager:    scanner.NewManager(scanner.LocalFS{}, cfg.ScanOptions()),
		ExportPath: defaultExportPath,
		Version:    version,
	})
	if err := runTUI(app); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		p, err := config.Path()
		if err != nil {
			return config.DefaultConfig(), nil
		}
		path = p
	}
	return config.Load(path)
}

// flagOverrides are command line values that win over the config file.
// Zero values mean "not given".
type flagOverrides struct {
	units      string
	view       string
	showHidden bool
	hiddenSet  bool
	exclude    string
	batch      int
	sshPort    int
	sshTimeout int
}

func (o flagOverrides) apply(cfg config.Config) (config.Config, error) {
	if o.units != "" {
		u, err := util.ParseUnits(o.units)
		if err != nil {
			return cfg, err
		}
		cfg.Units = u
	}
	if o.view != "" {
		v, err := config.ParseView(o.view)
		if err != nil {
			return cfg, err
		}
		cfg.View = v
	}
	if o.hiddenSet {
		cfg.ShowHidden = o.showHidden
	}
	if o.exclude != "" {
		cfg.Exclude = splitComma(o.exclude)
	}
	switch {
	case o.batch < 0:
		return cfg, fmt.Errorf("batch must be >= 0")
	case o.batch > 0:
		cfg.BatchSize = o.batch
	}
	if o.sshPort != 0 {
		if o.sshPort < 1 || o.sshPort > 65535 {
			return cfg, fmt.Errorf("ssh-port must be between 1 and 65535")
		}
		cfg.SSHPort = o.sshPort
	}
	switch {
	case o.sshTimeout < 0:
		return cfg, fmt.Errorf("ssh-timeout must be >= 0")
	case o.sshTimeout > 0:
		cfg.SSHTimeout = time.Duration(o.sshTimeout) * time.Second
	}
	return cfg, nil
}

// headlessOptions are the walker options for runs without the UI, where
// hidden entries are dropped at scan time when they are not wanted.
func headlessOptions(cfg config.Config) scanner.Options {
	opts := cfg.ScanOptions()
	opts.SkipHidden = !cfg.ShowHidden
	return opts
}

func (h headless) active() bool {
	return h.exportPath != "" || h.jsonOut
}

// run scans root in a fresh session and writes the requested outputs.
// Interrupts and the scan timeout cancel the session.
func (h headless) run(manager *scanner.Manager, root string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if h.scanTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.scanTimeout)
		defer cancel()
	}

	quiet := h.exportPath == "-" || h.jsonOut
	if !quiet {
		fmt.Printf("Scanning %s...\n", h.label)
	}

	var progressCh chan scanner.Progress
	var progressWg sync.WaitGroup
	if h.progress {
		progressCh = make(chan scanner.Progress, 10)
		progressWg.Add(1)
		go func() {
			defer progressWg.Done()
			for p := range progressCh {
				fmt.Fprintf(os.Stderr, "\rScanning %s: %s files, %s dirs, %d errors...",
					h.label, util.FormatCount(p.FilesScanned), util.FormatCount(p.DirsScanned), p.Errors)
			}
			fmt.Fprintln(os.Stderr)
		}()
	}

	res := manager.Start(ctx, root, "", progressCh)
	if progressCh != nil {
		close(progressCh)
		progressWg.Wait()
	}

	if h.jsonOut {
		if err := writeJSONResult(os.Stdout, res); err != nil {
			return err
		}
	}
	switch {
	case res.Cancelled:
		return fmt.Errorf("scan %s: %w", h.label, errScanCancelled)
	case res.Err != nil:
		return res.Err
	}

	if h.exportPath != "" {
		if err := ops.ExportJSON(res.Tree, h.exportPath, version); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		if h.exportPath != "-" {
			fmt.Printf("Exported to %s\n", h.exportPath)
		}
	}
	return nil
}

// reexport converts an imported scan to the requested headless outputs.
func reexport(importPath, exportPath string, jsonOut bool) error {
	root, err := ops.ImportJSON(importPath)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	if exportPath != "" {
		if err := ops.ExportJSON(root, exportPath, version); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		if exportPath != "-" && !jsonOut {
			fmt.Printf("Exported to %s\n", exportPath)
		}
	}
	if jsonOut {
		return writeJSONResult(os.Stdout, scanner.Result{Tree: root})
	}
	return nil
}

func writeJSONResult(w io.Writer, res scanner.Result) error {
	if err := ops.WriteResult(w, res); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

func runRemoteScan(target scanTarget, cfg config.Config, sshBatch bool, hl headless) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.SSHTimeout)
	fsys, err := remote.Dial(ctx, remote.Config{
		Target:    target.SSHDestination,
		Port:      cfg.SSHPort,
		BatchMode: sshBatch,
		Timeout:   cfg.SSHTimeout,
	})
	cancel()
	if err != nil {
		return err
	}
	defer fsys.Close()

	root, err := fsys.Resolve(target.RemotePath)
	if err != nil {
		return err
	}
	label := target.SSHDestination + ":" + root

	if hl.active() {
		hl.label = label
		hl.progress = true
		return hl.run(scanner.NewManager(fsys, headlessOptions(cfg)), root)
	}

	app := ui.NewApp(root, ui.Options{
		Config:     cfg,
		Manager:    scanner.NewManager(fsys, cfg.ScanOptions()),
		Source:     label,
		ReadOnly:   true,
		ExportPath: defaultExportPath,
		Version:    version,
	})
	return runTUI(app)
}

func runTUI(app *ui.App) error {
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return app.FatalError()
}

func resolveScanTarget(args []string) (scanTarget, error) {
	if len(args) == 0 {
		return scanTarget{LocalPath: "."}, nil
	}

	first := args[0]
	if pathExists(first) {
		if len(args) > 1 {
			return scanTarget{}, fmt.Errorf("too many positional arguments for local scan")
		}
		return scanTarget{LocalPath: first}, nil
	}

	if isRemote, err := validateRemoteTarget(first); isRemote {
		if err != nil {
			return scanTarget{}, err
		}
		if len(args) > 2 {
			return scanTarget{}, fmt.Errorf("too many positional arguments for remote scan")
		}

		remotePath := "."
		if len(args) == 2 && strings.TrimSpace(args[1]) != "" {
			remotePath = args[1]
		}

		return scanTarget{
			Remote:         true,
			SSHDestination: first,
			RemotePath:     remotePath,
		}, nil
	}

	if len(args) > 1 {
		return scanTarget{}, fmt.Errorf("too many positional arguments")
	}

	return scanTarget{LocalPath: first}, nil
}

func validateRemoteTarget(raw string) (bool, error) {
	if strings.ContainsAny(raw, `/\\`) {
		return false, nil
	}
	if strings.Count(raw, "@") != 1 {
		return false, nil
	}

	user, host, _ := strings.Cut(raw, "@")
	if user == "" || host == "" {
		return true, fmt.Errorf("invalid remote target %q: expected user@host", raw)
	}
	if strings.HasPrefix(user, "-") || strings.HasPrefix(host, "-") {
		return true, fmt.Errorf("invalid remote target %q", raw)
	}
	if strings.ContainsAny(user, " \t\n\r") || strings.ContainsAny(host, " \t\n\r") {
		return true, fmt.Errorf("invalid remote target %q: spaces are not allowed", raw)
	}
	if strings.HasPrefix(host, "[") {
		end := strings.Index(host, "]")
		if end == -1 {
			return true, fmt.Errorf("invalid remote target %q: malformed bracketed host", raw)
		}
		if end == 1 {
			return true, fmt.Errorf("invalid remote target %q: empty host", raw)
		}
		if end != len(host)-1 {
			rest := host[end+1:]
			if strings.HasPrefix(rest, ":") && isAllDigits(rest[1:]) {
				return true, fmt.Errorf("remote target %q must not include :port; use --ssh-port", raw)
			}
			return true, fmt.Errorf("invalid remote target %q: malformed bracketed host", raw)
		}
	} else if strings.Contains(host, "]") {
		return true, fmt.Errorf("invalid remote target %q: malformed bracketed host", raw)
	}
	if looksLikeHostPort(host) {
		return true, fmt.Errorf("remote target %q must not include :port; use --ssh-port", raw)
	}

	return true, nil
}

func looksLikeHostPort(host string) bool {
	if strings.Count(host, ":") != 1 {
		return false
	}
	_, port, ok := strings.Cut(host, ":")
	if !ok {
		return false
	}
	return isAllDigits(port)
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func splitComma(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
