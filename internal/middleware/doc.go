// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

/*
Package middleware provides HTTP infrastructure middleware for the API router.

Key Components:

  - RequestID: attaches an X-Request-ID to the response and to the logging
    context so every log line of a request can be correlated
  - PrometheusMetrics: request counts, latency and in-flight gauges labelled
    by chi route pattern
  - AccessLog: one structured log line per request, raised to warn level for
    slow requests

Middleware Stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.AccessLog(2 * time.Second))

Route patterns (for example /api/v1/users/{id}/itinerary) are used as metric
labels instead of raw paths so user IDs never create new series.
*/
package middleware
