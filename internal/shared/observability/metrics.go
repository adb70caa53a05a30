package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	CheckDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "grantlint_check_seconds",
		Help:    "Time spent on one full manifest-versus-source check.",
		Buckets: prometheus.DefBuckets,
	})

	FilesScanned = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "grantlint_files_scanned",
		Help: "Number of source files scanned in the last check.",
	})

	IdentifiersFound = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "grantlint_identifiers_found",
		Help: "Number of unique gated identifiers found in the last check.",
	})

	MissingGrants = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "grantlint_missing_grants",
		Help: "Number of identifiers used but not declared in the last check.",
	})

	UnusedGrants = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "grantlint_unused_grants",
		Help: "Number of declared grants never referenced in the last check.",
	})

	ChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grantlint_checks_total",
		Help: "Total number of completed check runs by outcome.",
	}, []string{"outcome"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "grantlint_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	RescansSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "grantlint_rescans_skipped_total",
		Help: "Total number of change batches dropped by the rescan rate limiter.",
	})
)
