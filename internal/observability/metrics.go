package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	requestsTotal        *prometheus.CounterVec
	latencySeconds       *prometheus.HistogramVec
	errorsTotal          *prometheus.CounterVec
	syncRecordsTotal     *prometheus.CounterVec
	databaseRetriesTotal *prometheus.CounterVec
	securityEventsTotal  *prometheus.CounterVec
	faceEnrollmentsTotal *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the service.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rollcall_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		latencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rollcall_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		errorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rollcall_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		syncRecordsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rollcall_sync_records_total",
			Help: "Attendance records processed by the sync engine, by outcome.",
		}, []string{"outcome"})

		databaseRetriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rollcall_database_retries_total",
			Help: "Database operation retries, by fault class.",
		}, []string{"fault_class"})

		securityEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rollcall_security_events_total",
			Help: "Security events recorded, by type.",
		}, []string{"type"})

		faceEnrollmentsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rollcall_face_enrollments_total",
			Help: "Face enrollment attempts, by outcome.",
		}, []string{"outcome"})

		prometheus.MustRegister(
			requestsTotal,
			latencySeconds,
			errorsTotal,
			syncRecordsTotal,
			databaseRetriesTotal,
			securityEventsTotal,
			faceEnrollmentsTotal,
		)
	})
}

// Requests exposes the counter for API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// Latency exposes the latency histogram for API requests.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return latencySeconds
}

// Errors exposes the counter for API error responses.
func Errors() *prometheus.CounterVec {
	RegisterMetrics()
	return errorsTotal
}

// SyncRecords exposes the counter for sync-engine record outcomes.
func SyncRecords() *prometheus.CounterVec {
	RegisterMetrics()
	return syncRecordsTotal
}

// DatabaseRetries exposes the counter for database retries.
func DatabaseRetries() *prometheus.CounterVec {
	RegisterMetrics()
	return databaseRetriesTotal
}

// SecurityEvents exposes the counter for recorded security events.
func SecurityEvents() *prometheus.CounterVec {
	RegisterMetrics()
	return securityEventsTotal
}

// FaceEnrollments exposes the counter for face enrollment outcomes.
func FaceEnrollments() *prometheus.CounterVec {
	RegisterMetrics()
	return faceEnrollmentsTotal
}
