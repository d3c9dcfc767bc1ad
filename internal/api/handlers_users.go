// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/travia/internal/logging"
	"github.com/tomtom215/travia/internal/models"
	"github.com/tomtom215/travia/internal/recommend"
)

// requireUser resolves {id} to an existing user and stores the ID in the
// request context. Unknown users get 404.
func (h *Handler) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
			return
		}
		exists, err := h.store.UserExists(r.Context(), id)
		if err != nil {
			respondErr(w, r, err)
			return
		}
		if !exists {
			respondErr(w, r, fmt.Errorf("user %d: %w", id, recommend.ErrNotFound))
			return
		}
		next.ServeHTTP(w, r.WithContext(logging.ContextWithUserID(r.Context(), id)))
	})
}

// userID returns the ID stored by requireUser.
func userID(r *http.Request) int64 {
	id, _ := logging.UserIDFromContext(r.Context())
	return id
}

// CreateUser registers a user.
//
// @Summary Create user
// @Tags Users
// @Accept json
// @Produce json
// @Param body body models.CreateUserRequest true "User"
// @Success 201 {object} models.APIResponse{data=models.User}
// @Failure 409 {object} models.APIResponse "Username taken"
// @Router /users [post]
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req models.CreateUserRequest
	if !h.decodeAndValidate(w, r, &req, false) {
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()
	u, err := h.store.CreateUser(ctx, req.Username, req.Email)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, u, start)
}

// ListUsers pages through users ordered by ID.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	limit := getIntParam(r, "limit", 100, 1, 1000)
	offset := getIntParam(r, "offset", 0, 0, 1_000_000)

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()
	users, err := h.store.ListUsers(ctx, limit, offset)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	respondData(w, http.StatusOK, map[string]interface{}{
		"users":  users,
		"count":  len(users),
		"limit":  limit,
		"offset": offset,
	}, start)
}

// GetUser returns one user.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	u, err := h.store.GetUser(ctx, userID(r))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, http.StatusOK, u, start)
}

// SubmitPreferences appends a preference row. Omitted fields take the
// documented defaults.
//
// @Summary Submit travel preferences
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param body body models.PreferencesRequest true "Preferences"
// @Success 201 {object} models.APIResponse{data=recommend.UserPreferences}
// @Router /users/{id}/preferences [post]
func (h *Handler) SubmitPreferences(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req models.PreferencesRequest
	if !h.decodeAndValidate(w, r, &req, true) {
		return
	}

	prefs := req.ToPreferences(userID(r))
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()
	if err := h.store.InsertPreferences(ctx, prefs); err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, prefs, start)
}

// GetPreferences returns the latest preferences.
func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := userID(r)
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	prefs, err := h.store.LatestPreferences(ctx, id)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	if prefs == nil {
		respondErr(w, r, fmt.Errorf("user %d: %w", id, recommend.ErrNoPreferences))
		return
	}
	respondData(w, http.StatusOK, prefs, start)
}
