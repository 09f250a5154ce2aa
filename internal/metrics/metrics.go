// Package metrics provides Prometheus metrics for the drivesearch server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Folder snapshot metrics
	folderBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "drivesearch_folder_build_duration_seconds",
			Help:    "Time to rebuild the folder snapshot from the remote store",
			Buckets: prometheus.DefBuckets,
		},
	)

	folderBuildFolders = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "drivesearch_folder_build_folders",
			Help: "Number of folders visited by the most recent rebuild",
		},
	)

	folderListingFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "drivesearch_folder_listing_failures_total",
			Help: "Child folder listings that failed and were treated as leaves",
		},
	)

	folderCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drivesearch_folder_cache_lookups_total",
			Help: "Folder universe lookups by outcome",
		},
		[]string{"result"},
	)

	cachePersistFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drivesearch_cache_persist_failures_total",
			Help: "Best-effort cache writes that failed",
		},
		[]string{"store"},
	)

	// Batch search metrics
	batchChunksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drivesearch_batch_chunks_total",
			Help: "Batched search chunks by status",
		},
		[]string{"status"},
	)

	subRequestFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "drivesearch_batch_subrequest_failures_total",
			Help: "Per-folder sub-requests that failed inside a batch",
		},
	)

	searchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "drivesearch_search_duration_seconds",
			Help:    "Batch search duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	searchHits = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "drivesearch_search_hits",
			Help:    "Hits returned per search",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	// Synonym metrics
	synonymLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drivesearch_synonym_lookups_total",
			Help: "Synonym lookups by cache tier that answered",
		},
		[]string{"result"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordFolderBuild records a completed snapshot rebuild.
func RecordFolderBuild(duration time.Duration, folders int) {
	folderBuildDuration.Observe(duration.Seconds())
	folderBuildFolders.Set(float64(folders))
}

// RecordListingFailure records a child listing treated as a leaf.
func RecordListingFailure() {
	folderListingFailures.Inc()
}

// RecordFolderLookup records how a folder universe was produced ("cached" or "rebuilt").
func RecordFolderLookup(result string) {
	folderCacheLookups.WithLabelValues(result).Inc()
}

// RecordPersistFailure records a failed best-effort write ("folder" or "synonym").
func RecordPersistFailure(store string) {
	cachePersistFailures.WithLabelValues(store).Inc()
}

// RecordChunk records a batch chunk outcome ("ok" or "failed").
func RecordChunk(success bool) {
	status := "ok"
	if !success {
		status = "failed"
	}
	batchChunksTotal.WithLabelValues(status).Inc()
}

// RecordSubRequestFailure records a failed per-folder sub-request.
func RecordSubRequestFailure() {
	subRequestFailures.Inc()
}

// RecordSearch records a completed batch search.
func RecordSearch(duration time.Duration, hits int) {
	searchDuration.Observe(duration.Seconds())
	searchHits.Observe(float64(hits))
}

// RecordSynonymLookup records which tier answered a lookup ("lru", "store" or "miss").
func RecordSynonymLookup(result string) {
	synonymLookups.WithLabelValues(result).Inc()
}
