package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gobwas/glob"
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := validateScan(&cfg); err != nil {
		return nil, err
	}
	if err := validateExclude(&cfg); err != nil {
		return nil, err
	}
	if err := validateOutput(&cfg); err != nil {
		return nil, err
	}
	if err := validateDatabase(&cfg); err != nil {
		return nil, err
	}
	if err := validateObs(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration used when no config file exists,
// matching the conventional userscript template layout.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.ManifestPath) == "" {
		cfg.ManifestPath = "userscript.meta.json"
	}
	if strings.TrimSpace(cfg.SourceRoot) == "" {
		cfg.SourceRoot = "src"
	}
	if len(cfg.Suffixes) == 0 {
		cfg.Suffixes = []string{".ts", ".js"}
	}
	if cfg.Exclude.Dirs == nil {
		cfg.Exclude.Dirs = []string{"node_modules", "dist", ".git"}
	}
	if cfg.Exclude.Files == nil {
		cfg.Exclude.Files = []string{"*.test.ts", "*.test.js", "*.spec.ts", "*.spec.js"}
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.RescanPerSecond <= 0 {
		cfg.Watch.RescanPerSecond = 2
	}
	if cfg.Watch.RescanBurst <= 0 {
		cfg.Watch.RescanBurst = 1
	}

	if strings.TrimSpace(cfg.DB.Path) == "" {
		cfg.DB.Path = "grantlint.db"
	}
	if cfg.DB.BusyTimeout <= 0 {
		cfg.DB.BusyTimeout = 5 * time.Second
	}
	if strings.TrimSpace(cfg.DB.ProjectKey) == "" {
		cfg.DB.ProjectKey = "default"
	}

	if strings.TrimSpace(cfg.Obs.Address) == "" {
		cfg.Obs.Address = "127.0.0.1:9477"
	}
}

func validateScan(cfg *Config) error {
	for _, suffix := range cfg.Suffixes {
		s := strings.TrimSpace(suffix)
		if s == "" {
			return fmt.Errorf("suffixes must not contain empty entries")
		}
		if !strings.HasPrefix(s, ".") {
			return fmt.Errorf("suffix %q must start with a dot", suffix)
		}
	}
	return nil
}

func validateExclude(cfg *Config) error {
	for _, pattern := range append(append([]string{}, cfg.Exclude.Dirs...), cfg.Exclude.Files...) {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
	}
	return nil
}

func validateOutput(cfg *Config) error {
	switch strings.TrimSpace(cfg.Output.Color) {
	case "", "auto", "always", "never":
		return nil
	}
	return fmt.Errorf("output.color must be one of auto, always, never")
}

func validateDatabase(cfg *Config) error {
	if !cfg.DB.Enabled {
		return nil
	}
	if cfg.DB.BusyTimeout < time.Second || cfg.DB.BusyTimeout > time.Minute {
		return fmt.Errorf("db.busy_timeout must be between 1s and 1m")
	}
	return nil
}

func validateObs(cfg *Config) error {
	if !cfg.Obs.Enabled {
		return nil
	}
	if !strings.Contains(cfg.Obs.Address, ":") {
		return fmt.Errorf("observability.address %q must be host:port", cfg.Obs.Address)
	}
	return nil
}
