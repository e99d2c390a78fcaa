package metrics

import "github.com/prometheus/client_golang/prometheus"

// Lookup engine Prometheus metrics.
var (
	SearchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reflookup",
			Name:      "search_total",
			Help:      "Dispatched searches by mode, trigger and outcome",
		},
		[]string{"mode", "trigger", "outcome"}, // trigger: submit / replay
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "reflookup",
			Name:      "search_duration_seconds",
			Help:      "Search dispatch duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"mode"},
	)

	SearchSkippedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reflookup",
			Name:      "search_skipped_total",
			Help:      "Submissions ignored by validation",
		},
		[]string{"reason"}, // "empty_filters" / "empty_reference"
	)

	AutocompleteRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reflookup",
			Name:      "autocomplete_requests_total",
			Help:      "Autocomplete requests by result",
		},
		[]string{"result"}, // fetched / skipped / suppressed / failed / stale / rejected
	)

	HistoryWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reflookup",
			Name:      "history_writes_total",
			Help:      "History store writes by operation and status",
		},
		[]string{"operation", "status"},
	)

	BackendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reflookup",
			Name:      "backend_requests_total",
			Help:      "Catalog backend requests by operation and status",
		},
		[]string{"operation", "status"},
	)

	BackendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "reflookup",
			Name:      "backend_request_duration_seconds",
			Help:      "Catalog backend request duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "reflookup",
			Name:      "active_sessions",
			Help:      "Open lookup sessions",
		},
	)
)

var lookupMetricsRegistered bool

// RegisterLookupMetrics registers the lookup metrics. Must be called once from main.
func RegisterLookupMetrics() {
	if lookupMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchSkippedTotal)
	prometheus.MustRegister(AutocompleteRequestsTotal)
	prometheus.MustRegister(HistoryWritesTotal)
	prometheus.MustRegister(BackendRequestsTotal)
	prometheus.MustRegister(BackendRequestDuration)
	prometheus.MustRegister(ActiveSessions)
	lookupMetricsRegistered = true
}
