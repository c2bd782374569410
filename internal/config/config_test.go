package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/duview/internal/scanner"
	"github.com/sadopc/duview/internal/util"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := DefaultConfig()
	if cfg.Units != want.Units || cfg.View != want.View || cfg.BatchSize != scanner.DefaultBatchSize ||
		cfg.SSHPort != 22 || cfg.SSHTimeout != 15*time.Second || !cfg.ShowHidden {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoad_MergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `units: mb
show_hidden: false
view: treemap
batch_size: 50
exclude:
  - node_modules
  - .git
ssh_timeout: 3s
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Units != util.UnitsMiB {
		t.Errorf("Units = %s", cfg.Units)
	}
	if cfg.ShowHidden {
		t.Error("ShowHidden should be false")
	}
	if cfg.View != "treemap" || cfg.BatchSize != 50 || cfg.SSHTimeout != 3*time.Second {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(cfg.Exclude) != 2 || cfg.Exclude[1] != ".git" {
		t.Errorf("Exclude = %v", cfg.Exclude)
	}
	// Unset keys keep their defaults.
	if cfg.SSHPort != 22 {
		t.Errorf("SSHPort = %d, want 22", cfg.SSHPort)
	}

	opts := cfg.ScanOptions()
	if opts.BatchSize != 50 || len(opts.ExcludeNames) != 2 || opts.Yield == nil {
		t.Errorf("ScanOptions = %+v", opts)
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.View != "tree" {
		t.Errorf("View = %q", cfg.View)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "units: [", "failed to parse"},
		{"bad units", "units: furlongs", "unknown units"},
		{"bad view", "view: pie", "unknown view"},
		{"zero batch", "batch_size: 0", "batch_size"},
		{"bad port", "ssh_port: 70000", "ssh_port"},
		{"bad timeout", "ssh_timeout: soon", "ssh_timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseView(t *testing.T) {
	for _, v := range Views {
		if got, err := ParseView(strings.ToUpper(v)); err != nil || got != v {
			t.Errorf("ParseView(%q) = %q, %v", v, got, err)
		}
	}
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	t.Setenv("HOME", "/tmp/home")
	p, err := Path()
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if !strings.HasSuffix(p, filepath.Join("duview", "config.yaml")) {
		t.Errorf("Path = %q", p)
	}
}
