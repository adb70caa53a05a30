package app

import (
	"context"
	"log/slog"

	"grantlint/internal/core/watcher"
	"grantlint/internal/shared/observability"
	"grantlint/internal/shared/util"
)

// StartWatcher re-runs the check whenever the manifest or the source
// tree changes. Change batches beyond the configured rescan rate are
// dropped; the next batch picks the state up anyway since every check
// is a full pass.
func (a *App) StartWatcher(ctx context.Context) (*watcher.Watcher, error) {
	limiter := util.NewLimiter(a.Config.Watch.RescanPerSecond, a.Config.Watch.RescanBurst)

	w, err := watcher.New(watcher.Options{
		Debounce:     a.Config.Watch.Debounce,
		Suffixes:     a.Config.Suffixes,
		ManifestName: a.Config.ManifestPath,
		ExcludeDirs:  a.Config.Exclude.Dirs,
		ExcludeFiles: a.Config.Exclude.Files,
	}, func(paths []string) {
		if !limiter.Allow() {
			observability.RescansSkippedTotal.Inc()
			slog.Debug("rescan skipped by rate limiter", "changed", len(paths))
			return
		}
		slog.Info("change detected, rechecking", "changed", len(paths))
		checkReport, err := a.RunCheck(ctx)
		if err != nil {
			slog.Error("recheck failed", "error", err)
			return
		}
		a.PrintReport(checkReport)
	})
	if err != nil {
		return nil, err
	}

	if err := w.Watch([]string{a.Config.SourceRoot, a.Config.ManifestPath}); err != nil {
		_ = w.Close()
		return nil, err
	}
	return w, nil
}
