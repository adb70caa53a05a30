package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpfile, err := os.CreateTemp(t.TempDir(), "config*.toml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}
	return tmpfile.Name()
}

func TestLoad(t *testing.T) {
	content := `
manifest_path = "meta.json"
source_root = "./app"
suffixes = [".ts"]

[exclude]
dirs = ["node_modules", "build"]
files = ["*.d.ts"]

[watch]
debounce = "1s"

[output]
sarif = "grants.sarif"
markdown = "grants.md"

[db]
enabled = true
path = "runs.db"
busy_timeout = "3s"
project_key = "widget"
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ManifestPath != "meta.json" {
		t.Errorf("Expected ManifestPath meta.json, got %s", cfg.ManifestPath)
	}
	if cfg.SourceRoot != "./app" {
		t.Errorf("Expected SourceRoot ./app, got %s", cfg.SourceRoot)
	}
	if len(cfg.Suffixes) != 1 || cfg.Suffixes[0] != ".ts" {
		t.Errorf("Unexpected Suffixes: %v", cfg.Suffixes)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("Expected debounce 1s, got %v", cfg.Watch.Debounce)
	}
	if cfg.Output.SARIF != "grants.sarif" {
		t.Errorf("Expected SARIF grants.sarif, got %s", cfg.Output.SARIF)
	}
	if cfg.DB.BusyTimeout != 3*time.Second {
		t.Errorf("Expected busy timeout 3s, got %v", cfg.DB.BusyTimeout)
	}
	if cfg.DB.ProjectKey != "widget" {
		t.Errorf("Expected project key widget, got %s", cfg.DB.ProjectKey)
	}
	if len(cfg.Exclude.Dirs) != 2 || cfg.Exclude.Dirs[1] != "build" {
		t.Errorf("Unexpected exclude dirs: %v", cfg.Exclude.Dirs)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ManifestPath != "userscript.meta.json" {
		t.Errorf("Expected default manifest path, got %s", cfg.ManifestPath)
	}
	if cfg.SourceRoot != "src" {
		t.Errorf("Expected default source root src, got %s", cfg.SourceRoot)
	}
	if len(cfg.Suffixes) != 2 {
		t.Errorf("Expected default suffixes .ts/.js, got %v", cfg.Suffixes)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("Expected default debounce 500ms, got %v", cfg.Watch.Debounce)
	}
	if len(cfg.Exclude.Dirs) == 0 {
		t.Error("Expected default exclude dirs")
	}
}

func TestLoadError(t *testing.T) {
	_, err := Load("nonexistent.toml")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}

	_, err = Load(writeConfig(t, "bad = toml = format"))
	if err == nil {
		t.Error("Expected error for malformed TOML")
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errSub  string
	}{
		{
			name:    "suffix without dot",
			content: `suffixes = ["ts"]`,
			errSub:  "must start with a dot",
		},
		{
			name: "bad exclude pattern",
			content: `
[exclude]
dirs = ["["]
`,
			errSub: "invalid exclude pattern",
		},
		{
			name: "bad color mode",
			content: `
[output]
color = "rainbow"
`,
			errSub: "output.color",
		},
		{
			name: "busy timeout out of range",
			content: `
[db]
enabled = true
busy_timeout = "500ms"
`,
			errSub: "db.busy_timeout must be between 1s and 1m",
		},
		{
			name: "bad observability address",
			content: `
[observability]
enabled = true
address = "localhost"
`,
			errSub: "must be host:port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.errSub) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.ManifestPath == "" || cfg.SourceRoot == "" {
		t.Fatalf("expected populated defaults, got %+v", cfg)
	}
	if cfg.Watch.RescanPerSecond <= 0 || cfg.Watch.RescanBurst <= 0 {
		t.Fatalf("expected rescan limiter defaults, got %+v", cfg.Watch)
	}
}
