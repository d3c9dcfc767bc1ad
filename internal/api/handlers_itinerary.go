// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/travia/internal/models"
	"github.com/tomtom215/travia/internal/recommend"
	"github.com/tomtom215/travia/internal/recommend/engine"
)

// GenerateItinerary plans a trip for the user. The body is optional; the
// locality defaults to the one stored with the preferences.
//
// @Summary Generate personalized itinerary
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param body body models.ItineraryRequest false "Options"
// @Success 200 {object} models.APIResponse{data=engine.ItineraryResult}
// @Failure 404 {object} models.APIResponse "NO_PREFERENCES or NO_BUSINESSES"
// @Router /users/{id}/itinerary [post]
func (h *Handler) GenerateItinerary(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req models.ItineraryRequest
	if !h.decodeAndValidate(w, r, &req, true) {
		return
	}
	if req.Locality == "" {
		req.Locality = strings.TrimSpace(r.URL.Query().Get("locality"))
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()
	res, err := h.engine.GenerateItinerary(ctx, engine.ItineraryRequest{
		UserID:       userID(r),
		Locality:     req.Locality,
		SkipTraining: req.SkipTraining,
	})
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, http.StatusOK, res, start)
}

// SubmitFeedback records a like or dislike and retrains.
//
// @Summary Like or dislike a business
// @Tags Itinerary
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param body body models.FeedbackRequest true "Feedback"
// @Success 201 {object} models.APIResponse{data=recommend.Interaction}
// @Router /users/{id}/feedback [post]
func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req models.FeedbackRequest
	if !h.decodeAndValidate(w, r, &req, false) {
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()
	in, err := h.engine.SubmitFeedback(ctx, userID(r), req.BusinessID, recommend.InteractionType(req.InteractionType))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, in, start)
}

// ListInteractions returns the user's most recent feedback.
func (h *Handler) ListInteractions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	limit := getIntParam(r, "limit", 50, 1, 50)

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()
	interactions, err := h.store.RecentInteractions(ctx, userID(r), limit)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	if interactions == nil {
		interactions = []recommend.Interaction{}
	}
	respondData(w, http.StatusOK, map[string]interface{}{
		"interactions": interactions,
		"count":        len(interactions),
	}, start)
}

// RemoveFeedback deletes the user's feedback on a business. The optional
// type query parameter restricts removal to likes or dislikes.
//
// @Summary Remove feedback
// @Tags Itinerary
// @Produce json
// @Param id path int true "User ID"
// @Param businessID path int true "Business ID"
// @Param type query string false "like or dislike"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse "No matching interaction"
// @Router /users/{id}/interactions/{businessID} [delete]
func (h *Handler) RemoveFeedback(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	businessID, err := pathID(r, "businessID")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}
	typ := recommend.InteractionType(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("type"))))

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()
	n, err := h.engine.RemoveFeedback(ctx, userID(r), businessID, typ)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, http.StatusOK, map[string]interface{}{
		"business_id": businessID,
		"removed":     n,
	}, start)
}

// MetadataPreferences reports the profile learned from liked posts and
// businesses.
func (h *Handler) MetadataPreferences(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	report, err := h.engine.MetadataPreferences(ctx, userID(r))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, http.StatusOK, report, start)
}

// ModelStatus reports the global model and the user's training readiness.
func (h *Handler) ModelStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	status, err := h.engine.ModelStatus(ctx, userID(r))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, http.StatusOK, status, start)
}
