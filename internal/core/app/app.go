package app

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"grantlint/internal/core/config"
	"grantlint/internal/core/errors"
	"grantlint/internal/data/history"
	"grantlint/internal/engine/grants"
	"grantlint/internal/manifest"
	"grantlint/internal/shared/observability"
	"grantlint/internal/shared/version"
	"grantlint/internal/ui/report"
)

// App wires the checker to its inputs and outputs: manifest, source
// tree, console, optional report files, and the run-history store.
type App struct {
	Config  *config.Config
	checker *grants.Checker
	store   *history.Store
	printer *report.ConsolePrinter

	// sourceFS overrides os.DirFS(cfg.SourceRoot) in tests.
	sourceFS fs.FS
}

func New(cfg *config.Config, out io.Writer) (*App, error) {
	checker, err := grants.New(grants.Config{
		Suffixes:     cfg.Suffixes,
		ExcludeDirs:  cfg.Exclude.Dirs,
		ExcludeFiles: cfg.Exclude.Files,
	})
	if err != nil {
		return nil, err
	}

	var store *history.Store
	if cfg.DB.Enabled {
		store, err = history.Open(cfg.DB.Path, cfg.DB.BusyTimeout)
		if err != nil {
			return nil, err
		}
	}

	if out == nil {
		out = os.Stdout
	}

	return &App{
		Config:  cfg,
		checker: checker,
		store:   store,
		printer: report.NewConsolePrinter(out, cfg.Output.Color),
	}, nil
}

func (a *App) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

func (a *App) sourceTree() fs.FS {
	if a.sourceFS != nil {
		return a.sourceFS
	}
	return os.DirFS(a.Config.SourceRoot)
}

// RunCheck performs one full pass: load manifest, scan sources, diff,
// emit reports, record history. Policy violations (missing grants) are
// carried in the returned report, not the error; the error is reserved
// for environment failures.
func (a *App) RunCheck(ctx context.Context) (*grants.Report, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.RunCheck")
	defer span.End()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()

	m, err := manifest.Load(a.Config.ManifestPath)
	if err != nil {
		observability.ChecksTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	checkReport, err := a.checker.Check(a.sourceTree(), m)
	if err != nil {
		observability.ChecksTotal.WithLabelValues("error").Inc()
		return nil, errors.AddContext(err, errors.CtxPath, a.Config.SourceRoot)
	}

	observability.CheckDuration.Observe(time.Since(start).Seconds())
	observability.FilesScanned.Set(float64(checkReport.FilesScanned))
	observability.IdentifiersFound.Set(float64(checkReport.IdentifierCount()))
	observability.MissingGrants.Set(float64(len(checkReport.Missing)))
	observability.UnusedGrants.Set(float64(len(checkReport.Unused)))
	if checkReport.Failed() {
		observability.ChecksTotal.WithLabelValues("fail").Inc()
	} else {
		observability.ChecksTotal.WithLabelValues("pass").Inc()
	}

	if err := a.writeOutputs(checkReport); err != nil {
		return nil, err
	}
	if err := a.recordRun(checkReport); err != nil {
		return nil, err
	}

	return checkReport, nil
}

func (a *App) PrintReport(checkReport *grants.Report) {
	a.printer.Print(checkReport)
}

func (a *App) writeOutputs(checkReport *grants.Report) error {
	if path := a.Config.Output.SARIF; path != "" {
		data, err := report.GenerateSARIF(a.Config.SourceRoot, checkReport)
		if err != nil {
			return fmt.Errorf("generate sarif report: %w", err)
		}
		if err := writeFile(path, data); err != nil {
			return err
		}
	}

	if path := a.Config.Output.Markdown; path != "" {
		md, err := report.NewMarkdownGenerator().Generate(checkReport, report.MarkdownReportOptions{
			ProjectName: a.Config.DB.ProjectKey,
			Version:     version.Version,
		})
		if err != nil {
			return fmt.Errorf("generate markdown report: %w", err)
		}
		if err := writeFile(path, []byte(md)); err != nil {
			return err
		}
	}

	return nil
}

func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory %q: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report %q: %w", path, err)
	}
	return nil
}

func (a *App) recordRun(checkReport *grants.Report) error {
	if a.store == nil {
		return nil
	}
	_, err := a.store.SaveSnapshot(history.Snapshot{
		ProjectKey:       a.Config.DB.ProjectKey,
		FilesScanned:     checkReport.FilesScanned,
		IdentifiersFound: checkReport.IdentifierCount(),
		MissingCount:     len(checkReport.Missing),
		UnusedCount:      len(checkReport.Unused),
		Passed:           !checkReport.Failed(),
	})
	if err != nil {
		return fmt.Errorf("record run history: %w", err)
	}
	return nil
}

// Trend formats the missing/unused delta versus the previous recorded
// run.
func (a *App) Trend() (string, error) {
	if a.store == nil {
		return "", fmt.Errorf("run history is disabled; enable [db] in the config")
	}
	trend, err := a.store.ComputeTrend(a.Config.DB.ProjectKey)
	if err != nil {
		return "", err
	}
	return trend.Format(), nil
}

func (a *App) HealthStatus(ctx context.Context) observability.HealthStatus {
	status := observability.HealthStatus{
		Status:     "up",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
	}

	if _, err := os.Stat(a.Config.ManifestPath); err != nil {
		status.Status = "degraded"
		status.Components["manifest"] = "missing"
	} else {
		status.Components["manifest"] = "ok"
	}

	if _, err := os.Stat(a.Config.SourceRoot); err != nil {
		status.Status = "degraded"
		status.Components["source_root"] = "missing"
	} else {
		status.Components["source_root"] = "ok"
	}

	if a.store != nil {
		status.Components["history"] = "ok (" + a.store.Path() + ")"
	}

	return status
}
