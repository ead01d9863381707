// Package metrics defines Prometheus metrics for chronicle.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chronicle_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chronicle_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chronicle_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	VersionsRecorded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chronicle_versions_recorded_total",
			Help: "History versions persisted",
		},
	)

	RecordFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chronicle_record_failures_total",
			Help: "History recording attempts that failed",
		},
	)

	VersionsPurged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chronicle_versions_purged_total",
			Help: "History versions removed by the retention purge",
		},
	)

	PurgeFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chronicle_purge_failures_total",
			Help: "Retention purge runs that failed",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		VersionsRecorded, RecordFailures,
		VersionsPurged, PurgeFailures,
	)
}
