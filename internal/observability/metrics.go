package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce     sync.Once
	requestsTotal    *prometheus.CounterVec
	latencySeconds   *prometheus.HistogramVec
	reportsTotal     *prometheus.CounterVec
	enrollmentsTotal *prometheus.CounterVec
	deliveriesTotal  *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "courtline_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		latencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "courtline_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		reportsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "courtline_reports_total",
			Help: "Report lifecycle events by outcome.",
		}, []string{"outcome"})

		enrollmentsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "courtline_enrollments_total",
			Help: "Programme enrollment rows processed by outcome.",
		}, []string{"outcome"})

		deliveriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "courtline_report_deliveries_total",
			Help: "Report delivery attempts recorded by status.",
		}, []string{"status"})

		prometheus.MustRegister(requestsTotal, latencySeconds, reportsTotal, enrollmentsTotal, deliveriesTotal)
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

// Reports exposes the counter for report lifecycle events.
func Reports() *prometheus.CounterVec {
	RegisterMetrics()
	return reportsTotal
}

// Enrollments exposes the counter for enrollment rows.
func Enrollments() *prometheus.CounterVec {
	RegisterMetrics()
	return enrollmentsTotal
}

// Deliveries exposes the counter for report delivery attempts.
func Deliveries() *prometheus.CounterVec {
	RegisterMetrics()
	return deliveriesTotal
}
