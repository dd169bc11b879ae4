package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache lookup results.
const (
	CacheHit    = "hit"
	CacheMiss   = "miss"
	CacheShared = "shared"
)

var (
	// CacheLookupsTotal counts response cache lookups by outcome.
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aqi_response_cache_lookups_total",
			Help: "Response cache lookups partitioned by hit, miss or shared in-flight fetch",
		},
		[]string{"result"},
	)

	// UpstreamRequestsTotal counts calls made to the AQI backend.
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aqi_upstream_requests_total",
			Help: "Requests sent to the AQI backend",
		},
		[]string{"method", "path", "status"},
	)

	// UpstreamRequestDuration tracks AQI backend latency.
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aqi_upstream_request_duration_seconds",
			Help:    "Latency of AQI backend requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// LoaderRunsTotal counts screen loader invocations.
	LoaderRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aqi_loader_runs_total",
			Help: "Screen loader invocations by outcome",
		},
		[]string{"screen", "outcome"},
	)
)

// RecordCacheLookup bumps the lookup counter for result.
func RecordCacheLookup(result string) {
	CacheLookupsTotal.WithLabelValues(result).Inc()
}

// RecordUpstream records one backend round trip. status is 0 when no response arrived.
func RecordUpstream(method, path string, status int, duration time.Duration) {
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	UpstreamRequestsTotal.WithLabelValues(method, path, code).Inc()
	UpstreamRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordLoaderRun records a loader outcome: "success", "error" or "discarded".
func RecordLoaderRun(screen, outcome string) {
	LoaderRunsTotal.WithLabelValues(screen, outcome).Inc()
}
