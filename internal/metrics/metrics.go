// Package metrics exposes the Prometheus instrumentation for the
// dashboard pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SourceFetches counts row loads from the data source by outcome.
	SourceFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ncdash",
		Subsystem: "source",
		Name:      "fetches_total",
		Help:      "Row fetches from the data source, by result.",
	}, []string{"result"})

	// SourceFetchDuration observes how long a full row fetch takes.
	SourceFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ncdash",
		Subsystem: "source",
		Name:      "fetch_duration_seconds",
		Help:      "Duration of row fetches from the data source.",
		Buckets:   prometheus.DefBuckets,
	})

	// ForcedRefreshes counts user-requested snapshot reloads. TTL-driven
	// reloads show up in SourceFetches.
	ForcedRefreshes = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ncdash",
		Subsystem: "cache",
		Name:      "forced_refreshes_total",
		Help:      "User-requested snapshot reloads bypassing the TTL.",
	})

	// RecordsLoaded tracks the size of the last normalized record set.
	RecordsLoaded = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "ncdash",
		Name:      "records_loaded",
		Help:      "Number of normalized records in the current snapshot.",
	})

	// Exports counts report exports by outcome.
	Exports = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ncdash",
		Subsystem: "report",
		Name:      "exports_total",
		Help:      "Report exports, by result.",
	}, []string{"result"})

	// ExportDuration observes end-to-end deck build time.
	ExportDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ncdash",
		Subsystem: "report",
		Name:      "export_duration_seconds",
		Help:      "Duration of report deck builds.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})
)

// Result label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
)
