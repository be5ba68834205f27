package observability

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce        sync.Once
	adminRequestsTotal  *prometheus.CounterVec
	adminLatencySeconds *prometheus.HistogramVec
	adminErrorsTotal    *prometheus.CounterVec

	suspensionsCreatedTotal *prometheus.CounterVec
	suspensionsLiftedTotal  *prometheus.CounterVec
	cascadeItemsTotal       *prometheus.CounterVec
	reportsResolvedTotal    *prometheus.CounterVec
	eventPublishFailures    *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used for admin observability.
func RegisterMetrics() {
	registerOnce.Do(func() {
		adminRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "huskyhub_admin_requests_total",
			Help: "Total number of admin API requests served.",
		}, []string{"method", "route", "status"})

		adminLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "huskyhub_admin_latency_seconds",
			Help:    "Latency distribution for admin API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		adminErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "huskyhub_admin_errors_total",
			Help: "Total number of error responses returned by admin endpoints.",
		}, []string{"method", "route", "status"})

		suspensionsCreatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "huskyhub_suspensions_created_total",
			Help: "Suspensions created, by suspension type.",
		}, []string{"type"})

		suspensionsLiftedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "huskyhub_suspensions_lifted_total",
			Help: "Suspensions lifted, by whether the account was reactivated.",
		}, []string{"outcome"})

		cascadeItemsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "huskyhub_suspension_cascade_items_total",
			Help: "Listings removed and transactions cancelled by suspension cascades.",
		}, []string{"kind"})

		reportsResolvedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "huskyhub_reports_resolved_total",
			Help: "Report resolutions, split into first resolutions and corrections.",
		}, []string{"kind"})

		eventPublishFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "huskyhub_event_publish_failures_total",
			Help: "Moderation events that could not be delivered to every publisher.",
		}, []string{"type"})

		prometheus.MustRegister(
			adminRequestsTotal,
			adminLatencySeconds,
			adminErrorsTotal,
			suspensionsCreatedTotal,
			suspensionsLiftedTotal,
			cascadeItemsTotal,
			reportsResolvedTotal,
			eventPublishFailures,
		)
	})
}

// MetricsHandler serves the moderation collectors on the Fiber app. Registration happens first so
// a scrape before any admin traffic still lists every family.
func MetricsHandler() fiber.Handler {
	RegisterMetrics()
	return adaptor.HTTPHandler(promhttp.Handler())
}

// AdminRequests exposes the counter for admin requests.
func AdminRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return adminRequestsTotal
}

// AdminLatency exposes the latency histogram for admin requests.
func AdminLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return adminLatencySeconds
}

// AdminErrors exposes the counter for admin error responses.
func AdminErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return adminErrorsTotal
}

// SuspensionsCreated counts suspensions by type.
func SuspensionsCreated() *prometheus.CounterVec {
	RegisterMetrics()
	return suspensionsCreatedTotal
}

// SuspensionsLifted counts lifts by outcome ("reactivated" or "still_suspended").
func SuspensionsLifted() *prometheus.CounterVec {
	RegisterMetrics()
	return suspensionsLiftedTotal
}

// CascadeItems counts rows touched by the suspension cascade ("listings_removed", "transactions_cancelled").
func CascadeItems() *prometheus.CounterVec {
	RegisterMetrics()
	return cascadeItemsTotal
}

// ReportsResolved counts resolutions ("first" or "correction").
func ReportsResolved() *prometheus.CounterVec {
	RegisterMetrics()
	return reportsResolvedTotal
}

// EventPublishFailures counts moderation events with at least one failed publisher.
func EventPublishFailures() *prometheus.CounterVec {
	RegisterMetrics()
	return eventPublishFailures
}
