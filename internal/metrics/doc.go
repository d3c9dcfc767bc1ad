// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
are exposed by the API server at /metrics.

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: In-flight requests (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)

Database Metrics:
  - duckdb_query_duration_seconds: Query execution time (histogram)
    Labels: operation, table
  - duckdb_query_errors_total: Failed queries (counter)
    Labels: operation, table, error_type

Training Metrics:
  - travia_training_runs_total: Training calls (counter)
    Labels: outcome (trained, skipped, failed, save_failed)
  - travia_training_duration_seconds: Training call duration (histogram)
  - travia_training_last_loss: Last epoch loss (gauge)
    Labels: head (actor, critic, total)
  - travia_model_version: Training calls applied to the live model (gauge)
  - travia_scoring_fallbacks_total: Neutral fallback scores (counter)
    Labels: reason

Itinerary Metrics:
  - travia_itinerary_duration_seconds: Generation latency (histogram)
  - travia_itinerary_scheduled_businesses: Plan size (histogram)
  - travia_itinerary_errors_total: Failed requests (counter)
    Labels: error_type
  - travia_selector_tier_total: Tier that produced candidates (counter)
    Labels: tier
  - travia_content_filter_rejected_total: Candidates rejected (counter)

Circuit Breaker Metrics:
  - circuit_breaker_state: Current state (gauge)
    Labels: name
    Values: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total: Requests by result (counter)
    Labels: name, result
  - circuit_breaker_consecutive_failures: Current failure streak (gauge)
  - circuit_breaker_state_transitions_total: Transitions (counter)
    Labels: name, from_state, to_state

Artifact and Event Metrics:
  - travia_artifact_operations_total: Model artifact saves and loads (counter)
    Labels: operation, outcome
  - travia_events_published_total / travia_events_processed_total (counter)
    Labels: topic (and outcome)

# Usage

	metrics.RecordTraining("trained", res.Duration, res.ActorLoss, res.CriticLoss, res.TotalLoss, res.Version)
	metrics.RecordItinerary(string(tier), time.Since(start), it.Scheduled, rejected)

Example PromQL queries:

	# Share of itineraries served without personalization
	sum(rate(travia_selector_tier_total{tier=~"general|location_fallback"}[1h]))
	  / sum(rate(travia_selector_tier_total[1h]))

	# Training failure rate
	rate(travia_training_runs_total{outcome="failed"}[5m])

# Thread Safety

All metric recording functions are safe for concurrent use.

# Cardinality Management

Labels are bounded enumerations (tiers, outcomes, fallback reasons, route
patterns). User and business IDs are never used as label values.
*/
package metrics
