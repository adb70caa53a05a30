package config

import (
	"time"
)

type Config struct {
	ManifestPath string   `toml:"manifest_path"`
	SourceRoot   string   `toml:"source_root"`
	Suffixes     []string `toml:"suffixes"`
	Exclude      Exclude  `toml:"exclude"`
	Watch        Watch    `toml:"watch"`
	Output       Output   `toml:"output"`
	DB           Database `toml:"db"`
	Obs          Obs      `toml:"observability"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	// RescanPerSecond caps how often change batches trigger a recheck.
	RescanPerSecond float64 `toml:"rescan_per_second"`
	RescanBurst     int     `toml:"rescan_burst"`
}

type Output struct {
	SARIF    string `toml:"sarif"`
	Markdown string `toml:"markdown"`
	// Color forces styled console output on or off; empty means auto.
	Color string `toml:"color"`
}

type Database struct {
	Enabled     bool          `toml:"enabled"`
	Path        string        `toml:"path"`
	BusyTimeout time.Duration `toml:"busy_timeout"`
	ProjectKey  string        `toml:"project_key"`
}

type Obs struct {
	Enabled      bool   `toml:"enabled"`
	Address      string `toml:"address"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
}
