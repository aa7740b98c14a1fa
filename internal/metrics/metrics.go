package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Job run outcomes.
const (
	JobSuccess = "success"
	JobFailure = "failure"
)

// Metrics provides observability for the registry API. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	// Requests by method, route template and status code
	HTTPRequests *prometheus.CounterVec

	// Request latency by method and route template
	HTTPDuration *prometheus.HistogramVec

	// Records written by the seeder by kind
	SeededRecords *prometheus.CounterVec

	// Parcel cache lookups by result
	CacheLookups *prometheus.CounterVec

	// Background job runs by job name and outcome
	JobRuns *prometheus.CounterVec
}

// New creates the collectors and registers them on reg. Tests pass a fresh
// prometheus.NewRegistry().
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "landregistry_http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),

		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "landregistry_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by method and route",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route"}),

		SeededRecords: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "landregistry_seeded_records_total",
			Help: "Total records written by the seeder by kind",
		}, []string{"kind"}), // kind: "user", "parcel", "expropriation"

		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "landregistry_cache_lookups_total",
			Help: "Parcel cache lookups by result",
		}, []string{"result"}),

		JobRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "landregistry_job_runs_total",
			Help: "Background job runs by job and outcome",
		}, []string{"job", "outcome"}),
	}
}

// ObserveRequest records one handled HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m != nil {
		m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
	}
}

// AddSeeded records n records of kind written by the seeder.
func (m *Metrics) AddSeeded(kind string, n int) {
	if m != nil && n > 0 {
		m.SeededRecords.WithLabelValues(kind).Add(float64(n))
	}
}

// IncrementCacheLookup records a cache lookup result.
func (m *Metrics) IncrementCacheLookup(result string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(result).Inc()
	}
}

// IncrementJobRun records a job run outcome.
func (m *Metrics) IncrementJobRun(job, outcome string) {
	if m != nil {
		m.JobRuns.WithLabelValues(job, outcome).Inc()
	}
}
