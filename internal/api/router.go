// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/travia/internal/middleware"
	"github.com/tomtom215/travia/internal/models"
)

// Router wires handlers and middleware into a Chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	slowRequest   time.Duration
}

// NewRouter creates a router. A nil mw uses the default middleware config.
func NewRouter(handler *Handler, mw *ChiMiddleware, slowRequest time.Duration) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw, slowRequest: slowRequest}
}

// Setup returns the HTTP handler for all routes.
func (router *Router) Setup() http.Handler {
	h := router.handler
	mw := router.chiMiddleware

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.AccessLog(router.slowRequest))
	r.Use(mw.CORS())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, models.ErrCodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, models.ErrCodeValidation, "Method not allowed", nil)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())

		r.With(mw.RateLimitHealth()).Get("/health", h.Health)

		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimit())

			r.Get("/locations", h.Locations)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", h.ListUsers)
				r.With(mw.RateLimitWrite()).Post("/", h.CreateUser)

				r.Route("/{id}", func(r chi.Router) {
					r.Use(h.requireUser)

					r.Get("/", h.GetUser)
					r.Get("/preferences", h.GetPreferences)
					r.Get("/interactions", h.ListInteractions)
					r.Get("/metadata-preferences", h.MetadataPreferences)
					r.Get("/model-status", h.ModelStatus)

					r.With(mw.RateLimitItinerary()).Post("/itinerary", h.GenerateItinerary)

					r.Group(func(r chi.Router) {
						r.Use(mw.RateLimitWrite())
						r.Post("/preferences", h.SubmitPreferences)
						r.Post("/feedback", h.SubmitFeedback)
						r.Delete("/interactions/{businessID}", h.RemoveFeedback)
						r.Post("/posts", h.CreatePost)
					})
				})
			})

			r.Route("/posts/{postID}", func(r chi.Router) {
				r.Get("/", h.GetPost)
				r.Group(func(r chi.Router) {
					r.Use(mw.RateLimitWrite())
					r.Put("/metadata", h.SetPostMetadata)
					r.Post("/likes", h.LikePost)
					r.Delete("/likes", h.UnlikePost)
				})
			})
		})
	})

	return r
}
