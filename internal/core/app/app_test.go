package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grantlint/internal/core/config"
	"grantlint/internal/core/errors"
)

func writeProject(t *testing.T, tmpDir, manifestJSON string, sources map[string]string) *config.Config {
	t.Helper()

	manifestPath := filepath.Join(tmpDir, "userscript.meta.json")
	require.NoError(t, os.WriteFile(manifestPath, []byte(manifestJSON), 0644))

	srcRoot := filepath.Join(tmpDir, "src")
	require.NoError(t, os.MkdirAll(srcRoot, 0755))
	for name, content := range sources {
		path := filepath.Join(srcRoot, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	cfg := config.Default()
	cfg.ManifestPath = manifestPath
	cfg.SourceRoot = srcRoot
	cfg.Output.Color = "never"
	return cfg
}

func TestFullPipeline(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := writeProject(t, tmpDir,
		`{"grant":["GM_setValue","GM_notification"]}`,
		map[string]string{
			"main.ts":        "GM_setValue('k', 1);\nGM_getValue('k');\n",
			"util/helper.js": "GM_getValue('k');\n",
		})
	cfg.Output.SARIF = filepath.Join(tmpDir, "out", "grants.sarif")
	cfg.Output.Markdown = filepath.Join(tmpDir, "out", "grants.md")
	cfg.DB.Enabled = true
	cfg.DB.Path = filepath.Join(tmpDir, "grantlint.db")

	var out bytes.Buffer
	appInstance, err := New(cfg, &out)
	require.NoError(t, err)
	defer appInstance.Close()

	checkReport, err := appInstance.RunCheck(context.Background())
	require.NoError(t, err)

	assert.True(t, checkReport.Failed())
	assert.Equal(t, []string{"GM_getValue"}, checkReport.Missing)
	assert.Equal(t, []string{"GM_notification"}, checkReport.Unused)
	assert.Equal(t, 2, checkReport.FilesScanned)

	appInstance.PrintReport(checkReport)
	assert.Contains(t, out.String(), "ERROR: GM_getValue")
	assert.Contains(t, out.String(), "WARN: GM_notification")
	assert.Contains(t, out.String(), "grant check failed")

	// Report files land where configured.
	sarif, err := os.ReadFile(cfg.Output.SARIF)
	require.NoError(t, err)
	assert.Contains(t, string(sarif), "GRANT001")

	md, err := os.ReadFile(cfg.Output.Markdown)
	require.NoError(t, err)
	assert.Contains(t, string(md), "## Missing Grants")

	// Running again yields the identical outcome and a usable trend.
	second, err := appInstance.RunCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, checkReport.Missing, second.Missing)
	assert.Equal(t, checkReport.Unused, second.Unused)

	trend, err := appInstance.Trend()
	require.NoError(t, err)
	assert.Contains(t, trend, "Missing: ±0")
}

func TestRunCheck_CleanProject(t *testing.T) {
	cfg := writeProject(t, t.TempDir(),
		`{"grant":["GM_setValue"]}`,
		map[string]string{"main.ts": "GM_setValue('k', 1);\n"})

	var out bytes.Buffer
	appInstance, err := New(cfg, &out)
	require.NoError(t, err)
	defer appInstance.Close()

	checkReport, err := appInstance.RunCheck(context.Background())
	require.NoError(t, err)
	require.False(t, checkReport.Failed())

	appInstance.PrintReport(checkReport)
	assert.Contains(t, out.String(), "grant check passed")
}

func TestRunCheck_MissingManifest(t *testing.T) {
	cfg := config.Default()
	cfg.ManifestPath = filepath.Join(t.TempDir(), "absent.json")
	cfg.SourceRoot = t.TempDir()

	var out bytes.Buffer
	appInstance, err := New(cfg, &out)
	require.NoError(t, err)
	defer appInstance.Close()

	_, err = appInstance.RunCheck(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
	// No partial report was printed.
	assert.Empty(t, out.String())
}

func TestRunCheck_MissingSourceRoot(t *testing.T) {
	tmpDir := t.TempDir()
	manifestPath := filepath.Join(tmpDir, "userscript.meta.json")
	require.NoError(t, os.WriteFile(manifestPath, []byte(`{"grant":[]}`), 0644))

	cfg := config.Default()
	cfg.ManifestPath = manifestPath
	cfg.SourceRoot = filepath.Join(tmpDir, "does-not-exist")

	appInstance, err := New(cfg, &bytes.Buffer{})
	require.NoError(t, err)
	defer appInstance.Close()

	_, err = appInstance.RunCheck(context.Background())
	require.Error(t, err)
}

func TestHealthStatus(t *testing.T) {
	cfg := writeProject(t, t.TempDir(), `{"grant":[]}`, map[string]string{"main.ts": ""})

	appInstance, err := New(cfg, &bytes.Buffer{})
	require.NoError(t, err)
	defer appInstance.Close()

	status := appInstance.HealthStatus(context.Background())
	assert.Equal(t, "up", status.Status)
	assert.Equal(t, "ok", status.Components["manifest"])

	cfg.ManifestPath = filepath.Join(t.TempDir(), "gone.json")
	status = appInstance.HealthStatus(context.Background())
	assert.Equal(t, "degraded", status.Status)
}

func TestTrend_DisabledHistory(t *testing.T) {
	cfg := writeProject(t, t.TempDir(), `{"grant":[]}`, nil)

	appInstance, err := New(cfg, &bytes.Buffer{})
	require.NoError(t, err)
	defer appInstance.Close()

	_, err = appInstance.Trend()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "history is disabled"))
}
