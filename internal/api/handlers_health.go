// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/travia/internal/metrics"
	"github.com/tomtom215/travia/internal/models"
)

// HealthStatus is the health endpoint payload.
type HealthStatus struct {
	Status            string  `json:"status"`
	DatabaseConnected bool    `json:"database_connected"`
	Uptime            float64 `json:"uptime_seconds"`
}

// Health reports liveness and database connectivity. It answers 503 when
// the database is unreachable.
//
// @Summary Get service health
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse{data=HealthStatus}
// @Failure 503 {object} models.APIResponse{data=HealthStatus}
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	connected := h.store.Ping(ctx) == nil
	uptime := time.Since(h.startTime).Seconds()
	metrics.AppUptime.Set(uptime)
	health := HealthStatus{
		Status:            "healthy",
		DatabaseConnected: connected,
		Uptime:            uptime,
	}
	status := http.StatusOK
	if !connected {
		health.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	respondData(w, status, health, start)
}

// Locations lists localities with enough businesses to plan a trip, most
// businesses first.
//
// @Summary List destinations
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse{data=[]models.Location}
// @Router /locations [get]
func (h *Handler) Locations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	locations, err := h.store.Locations(ctx)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	if locations == nil {
		locations = []models.Location{}
	}
	respondData(w, http.StatusOK, map[string]interface{}{
		"locations": locations,
		"count":     len(locations),
	}, start)
}
