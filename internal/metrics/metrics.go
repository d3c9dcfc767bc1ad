// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package metrics

import (
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"limiter"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Training Metrics
	TrainingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travia_training_runs_total",
			Help: "Total number of policy training calls",
		},
		[]string{"outcome"}, // "trained", "skipped", "failed", "save_failed", "interrupted"
	)

	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "travia_training_duration_seconds",
			Help:    "Duration of one policy training call",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	TrainingLoss = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "travia_training_last_loss",
			Help: "Loss of the last epoch of the most recent training call",
		},
		[]string{"head"}, // "actor", "critic", "total"
	)

	ModelVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "travia_model_version",
			Help: "Number of completed training calls applied to the live model",
		},
	)

	ScoringFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travia_scoring_fallbacks_total",
			Help: "Total number of candidate scores that degraded to the neutral value",
		},
		[]string{"reason"},
	)

	// Itinerary Metrics
	ItineraryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "travia_itinerary_duration_seconds",
			Help:    "Duration of itinerary generation in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	ItineraryScheduled = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "travia_itinerary_scheduled_businesses",
			Help:    "Distinct businesses scheduled per itinerary",
			Buckets: []float64{0, 5, 10, 25, 50, 100, 200, 400},
		},
	)

	ItineraryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travia_itinerary_errors_total",
			Help: "Total number of failed itinerary requests",
		},
		[]string{"error_type"}, // "no_preferences", "no_businesses", "other"
	)

	SelectorTier = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travia_selector_tier_total",
			Help: "Candidate selector tier that produced the candidate pool",
		},
		[]string{"tier"},
	)

	ContentFilterRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "travia_content_filter_rejected_total",
			Help: "Total number of candidates rejected by learned dislike patterns",
		},
	)

	// Artifact Store Metrics
	ArtifactOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travia_artifact_operations_total",
			Help: "Model artifact save/load operations",
		},
		[]string{"operation", "outcome"},
	)

	// Event Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travia_events_published_total",
			Help: "Total number of in-process events published",
		},
		[]string{"topic"},
	)

	EventsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travia_events_processed_total",
			Help: "Total number of in-process events handled",
		},
		[]string{"topic", "outcome"},
	)

	// Application Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordTraining records the outcome of one training call.
func RecordTraining(outcome string, duration time.Duration, actorLoss, criticLoss, totalLoss float64, version int) {
	TrainingRuns.WithLabelValues(outcome).Inc()
	switch outcome {
	case "trained", "save_failed", "interrupted":
	default:
		return
	}
	TrainingDuration.Observe(duration.Seconds())
	TrainingLoss.WithLabelValues("actor").Set(actorLoss)
	TrainingLoss.WithLabelValues("critic").Set(criticLoss)
	TrainingLoss.WithLabelValues("total").Set(totalLoss)
	ModelVersion.Set(float64(version))
}

// RecordScoringFallback counts one neutral fallback score.
func RecordScoringFallback(reason string) {
	ScoringFallbacks.WithLabelValues(reason).Inc()
}

// RecordItinerary records a completed itinerary generation.
func RecordItinerary(tier string, duration time.Duration, scheduled, rejected int) {
	ItineraryDuration.Observe(duration.Seconds())
	ItineraryScheduled.Observe(float64(scheduled))
	SelectorTier.WithLabelValues(tier).Inc()
	if rejected > 0 {
		ContentFilterRejected.Add(float64(rejected))
	}
}

// RecordItineraryError categorizes a failed itinerary request. The sentinel
// errors are passed in to keep this package free of domain imports.
func RecordItineraryError(err, noPreferences, noBusinesses error) {
	errorType := "other"
	switch {
	case errors.Is(err, noPreferences):
		errorType = "no_preferences"
	case errors.Is(err, noBusinesses):
		errorType = "no_businesses"
	}
	ItineraryErrors.WithLabelValues(errorType).Inc()
}

// RecordArtifactOperation records a model artifact save or load.
func RecordArtifactOperation(operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
		if strings.Contains(err.Error(), "not found") {
			outcome = "not_found"
		}
	}
	ArtifactOperations.WithLabelValues(operation, outcome).Inc()
}

// RecordEventPublished counts one published event.
func RecordEventPublished(topic string) {
	EventsPublished.WithLabelValues(topic).Inc()
}

// RecordEventProcessed counts one handled event.
func RecordEventProcessed(topic string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	EventsProcessed.WithLabelValues(topic, outcome).Inc()
}
