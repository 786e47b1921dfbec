// Package metrics provides Prometheus counters for redirt operations.
// They are cheap to record unconditionally; they are only exposed when the
// CLI is asked to serve a metrics endpoint.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mdekstrand/redirt/internal/logging"
)

var (
	walkEntriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "redirt_walk_entries_total",
			Help: "Total number of walk entries produced",
		},
	)

	diffEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redirt_diff_entries_total",
			Help: "Total number of diff entries by kind",
		},
		[]string{"kind"},
	)

	filesCopiedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "redirt_files_copied_total",
			Help: "Total number of files copied",
		},
	)

	dirsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "redirt_dirs_created_total",
			Help: "Total number of directories created",
		},
	)

	bytesCopiedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "redirt_bytes_copied_total",
			Help: "Total bytes copied to destination trees",
		},
	)

	entriesPrunedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "redirt_entries_pruned_total",
			Help: "Total destination-only entries removed in prune mode",
		},
	)

	errorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "redirt_errors_total",
			Help: "Total number of fatal operation errors",
		},
	)
)

// RecordWalkEntry counts one produced walk entry.
func RecordWalkEntry() {
	walkEntriesTotal.Inc()
}

// RecordDiffEntry counts one diff entry of the given kind.
func RecordDiffEntry(kind string) {
	diffEntriesTotal.WithLabelValues(kind).Inc()
}

// RecordCopied counts copied files and their total size.
func RecordCopied(files int, bytes int64) {
	filesCopiedTotal.Add(float64(files))
	bytesCopiedTotal.Add(float64(bytes))
}

// RecordDirsCreated counts created directories.
func RecordDirsCreated(n int) {
	dirsCreatedTotal.Add(float64(n))
}

// RecordPruned counts pruned destination entries.
func RecordPruned(n int) {
	entriesPrunedTotal.Add(float64(n))
}

// RecordError counts one fatal error.
func RecordError() {
	errorsTotal.Inc()
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve exposes /metrics on addr in the background for the duration of the
// process, so long copies can be scraped while they run. The endpoint is
// best-effort; a failure to listen is logged and does not stop the run.
func Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Warn("metrics server failed", zap.String("addr", addr), zap.Error(err))
		}
	}()
}
