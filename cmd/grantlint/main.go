package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"grantlint/internal/core/app"
	"grantlint/internal/core/config"
	"grantlint/internal/shared/observability"
	"grantlint/internal/shared/version"
)

var (
	configPath = flag.String("config", "./grantlint.toml", "Path to config file")
	watch      = flag.Bool("watch", false, "Stay resident and recheck on changes")
	trend      = flag.Bool("trend", false, "Print the delta versus the previous recorded run and exit")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	printVer   = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *printVer {
		fmt.Printf("grantlint v%s\n", version.Version)
		os.Exit(0)
	}

	// Setup logging
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Load config; the zero-argument invocation works without a config
	// file by falling back to the conventional template layout.
	cfg, err := config.Load(*configPath)
	if err != nil {
		if *configPath == "./grantlint.toml" && os.IsNotExist(err) {
			cfg = config.Default()
		} else {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}

	ctx := context.Background()

	if cfg.Obs.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracing(ctx, cfg.Obs.OTLPEndpoint)
		if err != nil {
			slog.Error("failed to initialize tracing", "error", err)
			os.Exit(1)
		}
		defer shutdown(ctx)
	}

	appInstance, err := app.New(cfg, os.Stdout)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		os.Exit(1)
	}
	defer appInstance.Close()

	if *trend {
		out, err := appInstance.Trend()
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
		fmt.Print(out)
		os.Exit(0)
	}

	checkReport, err := appInstance.RunCheck(ctx)
	if err != nil {
		slog.Error("grant check aborted", "error", err)
		os.Exit(1)
	}
	appInstance.PrintReport(checkReport)

	if !*watch {
		if checkReport.Failed() {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Watch mode
	w, err := appInstance.StartWatcher(ctx)
	if err != nil {
		slog.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}
	defer w.Close()

	if cfg.Obs.Enabled {
		server := observability.NewServer(cfg.Obs.Address, appInstance.HealthStatus)
		if err := server.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err)
			os.Exit(1)
		}
		defer server.Stop(ctx)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	slog.Info("shutting down")
}
