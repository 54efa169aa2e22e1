package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gobwas/glob"
)

type Config struct {
	Version     int         `toml:"version"`
	ScanPaths   []string    `toml:"scan_paths"`
	Exclude     Exclude     `toml:"exclude"`
	Docs        Docs        `toml:"docs"`
	Output      Output      `toml:"output"`
	Watch       Watch       `toml:"watch"`
	DB          Database    `toml:"db"`
	Performance Performance `toml:"performance"`
	Alerts      Alerts      `toml:"alerts"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Docs struct {
	// Minimum length for a file-level documentation block; shorter blocks
	// (typically one-line copyright stubs) are discarded.
	MinFileDocLen int `toml:"min_file_doc_len"`
}

type Output struct {
	Dir     string `toml:"dir"`
	Mermaid bool   `toml:"mermaid"`
	Index   string `toml:"index"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	// Maximum rescans per second in watch mode.
	RescanRate float64 `toml:"rescan_rate"`
}

type Database struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type Performance struct {
	ParseWorkers int `toml:"parse_workers"`
}

type Alerts struct {
	Beep     bool `toml:"beep"`
	Terminal bool `toml:"terminal"`
}

const currentVersion = 1

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(data))
}

func Parse(data string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := validateVersion(&cfg); err != nil {
		return nil, err
	}
	if err := validateExcludes(&cfg); err != nil {
		return nil, err
	}
	if err := validateOutput(&cfg); err != nil {
		return nil, err
	}
	if err := validatePerformance(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = currentVersion
	}
	if len(cfg.ScanPaths) == 0 {
		cfg.ScanPaths = []string{"."}
	}
	if cfg.Docs.MinFileDocLen <= 0 {
		cfg.Docs.MinFileDocLen = 80
	}
	if strings.TrimSpace(cfg.Output.Dir) == "" {
		cfg.Output.Dir = "_interface_maps"
	}
	if strings.TrimSpace(cfg.Output.Index) == "" {
		cfg.Output.Index = "README.md"
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.RescanRate <= 0 {
		cfg.Watch.RescanRate = 2
	}
	if strings.TrimSpace(cfg.DB.Path) == "" {
		cfg.DB.Path = "surface-history.db"
	}
	if cfg.Performance.ParseWorkers <= 0 {
		cfg.Performance.ParseWorkers = runtime.NumCPU()
	}
}

func validateVersion(cfg *Config) error {
	if cfg.Version != currentVersion {
		return fmt.Errorf("unsupported config version %d (expected %d)", cfg.Version, currentVersion)
	}
	return nil
}

func validateExcludes(cfg *Config) error {
	for _, p := range cfg.Exclude.Dirs {
		if _, err := glob.Compile(p); err != nil {
			return fmt.Errorf("invalid exclude dir pattern %q: %w", p, err)
		}
	}
	for _, p := range cfg.Exclude.Files {
		if _, err := glob.Compile(p); err != nil {
			return fmt.Errorf("invalid exclude file pattern %q: %w", p, err)
		}
	}
	return nil
}

func validateOutput(cfg *Config) error {
	if strings.ContainsAny(cfg.Output.Index, "/\\") {
		return fmt.Errorf("output index %q must be a bare file name", cfg.Output.Index)
	}
	return nil
}

func validatePerformance(cfg *Config) error {
	if cfg.Performance.ParseWorkers > 256 {
		return fmt.Errorf("parse_workers %d exceeds the supported maximum of 256", cfg.Performance.ParseWorkers)
	}
	return nil
}
