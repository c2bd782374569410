// Package config loads user settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/duview/internal/scanner"
	"github.com/sadopc/duview/internal/util"
)

const (
	configDirName  = "duview"
	configFileName = "config.yaml"
)

// Views the UI can open with.
var Views = []string{"tree", "treemap", "bars", "donut", "types"}

// Config is the effective configuration after defaults, file and flags.
type Config struct {
	Units      util.Units
	ShowHidden bool
	View       string
	BatchSize  int
	Exclude    []string
	SSHPort    int
	SSHTimeout time.Duration
}

// fileConfig mirrors the YAML document. Nil fields keep their defaults.
type fileConfig struct {
	Units      *string   `yaml:"units"`
	ShowHidden *bool     `yaml:"show_hidden"`
	View       *string   `yaml:"view"`
	BatchSize  *int      `yaml:"batch_size"`
	Exclude    *[]string `yaml:"exclude"`
	SSHPort    *int      `yaml:"ssh_port"`
	SSHTimeout *string   `yaml:"ssh_timeout"`
}

func DefaultConfig() Config {
	return Config{
		Units:      util.UnitsAuto,
		ShowHidden: true,
		View:       "tree",
		BatchSize:  scanner.DefaultBatchSize,
		SSHPort:    22,
		SSHTimeout: 15 * time.Second,
	}
}

// Path returns $XDG_CONFIG_HOME/duview/config.yaml or the platform
// equivalent.
func Path() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, configDirName, configFileName), nil
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	var stored fileConfig
	if err := yaml.Unmarshal(data, &stored); err != nil {
		return cfg, fmt.Errorf("failed to parse config YAML %s: %w", path, err)
	}
	merged, err := mergeConfig(cfg, stored)
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return merged, nil
}

func mergeConfig(base Config, stored fileConfig) (Config, error) {
	merged := base
	if stored.Units != nil {
		u, err := util.ParseUnits(*stored.Units)
		if err != nil {
			return base, err
		}
		merged.Units = u
	}
	if stored.ShowHidden != nil {
		merged.ShowHidden = *stored.ShowHidden
	}
	if stored.View != nil {
		v, err := ParseView(*stored.View)
		if err != nil {
			return base, err
		}
		merged.View = v
	}
	if stored.BatchSize != nil {
		if *stored.BatchSize < 1 {
			return base, fmt.Errorf("batch_size must be positive, got %d", *stored.BatchSize)
		}
		merged.BatchSize = *stored.BatchSize
	}
	if stored.Exclude != nil {
		merged.Exclude = append([]string(nil), (*stored.Exclude)...)
	}
	if stored.SSHPort != nil {
		if *stored.SSHPort < 1 || *stored.SSHPort > 65535 {
			return base, fmt.Errorf("ssh_port must be between 1 and 65535, got %d", *stored.SSHPort)
		}
		merged.SSHPort = *stored.SSHPort
	}
	if stored.SSHTimeout != nil {
		d, err := time.ParseDuration(*stored.SSHTimeout)
		if err != nil || d <= 0 {
			return base, fmt.Errorf("invalid ssh_timeout %q", *stored.SSHTimeout)
		}
		merged.SSHTimeout = d
	}
	return merged, nil
}

// ParseView validates a view name.
func ParseView(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, v := range Views {
		if s == v {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown view %q (want %s)", s, strings.Join(Views, ", "))
}

// ScanOptions derives walker options from the configuration.
func (c Config) ScanOptions() scanner.Options {
	opts := scanner.DefaultOptions()
	opts.BatchSize = c.BatchSize
	opts.ExcludeNames = c.Exclude
	return opts
}
