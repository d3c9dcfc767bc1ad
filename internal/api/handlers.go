// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package api

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/travia/internal/models"
	"github.com/tomtom215/travia/internal/recommend"
	"github.com/tomtom215/travia/internal/recommend/engine"
)

// DefaultMaxBodyBytes bounds request bodies when no limit is configured.
const DefaultMaxBodyBytes = 1 << 20

// Store is the persistence the handlers use directly. *database.DB
// implements it.
type Store interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, username, email string) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	UserExists(ctx context.Context, id int64) (bool, error)
	ListUsers(ctx context.Context, limit, offset int) ([]models.User, error)

	InsertPreferences(ctx context.Context, p *recommend.UserPreferences) error
	LatestPreferences(ctx context.Context, userID int64) (*recommend.UserPreferences, error)
	RecentInteractions(ctx context.Context, userID int64, limit int) ([]recommend.Interaction, error)

	Locations(ctx context.Context) ([]models.Location, error)
	BusinessByID(ctx context.Context, id int64) (*recommend.Business, error)

	CreatePost(ctx context.Context, userID int64, businessID *int64, caption string) (*models.Post, error)
	GetPost(ctx context.Context, id int64) (*models.Post, error)
	SetPostMetadata(ctx context.Context, m *recommend.PostMetadata) error
	LikePost(ctx context.Context, userID, postID int64) (bool, error)
	UnlikePost(ctx context.Context, userID, postID int64) (bool, error)
}

// Engine is the recommendation surface. *engine.Engine implements it.
type Engine interface {
	GenerateItinerary(ctx context.Context, req engine.ItineraryRequest) (*engine.ItineraryResult, error)
	SubmitFeedback(ctx context.Context, userID, businessID int64, typ recommend.InteractionType) (*recommend.Interaction, error)
	RemoveFeedback(ctx context.Context, userID, businessID int64, typ recommend.InteractionType) (int64, error)
	MetadataPreferences(ctx context.Context, userID int64) (*engine.PreferenceReport, error)
	ModelStatus(ctx context.Context, userID int64) (*engine.ModelStatus, error)
}

// Handler serves the API endpoints.
//
// Handler methods are split across files:
//   - handlers_health.go: health and locations
//   - handlers_users.go: users and preferences
//   - handlers_itinerary.go: itinerary, feedback and diagnostics
//   - handlers_posts.go: posts, metadata and likes
type Handler struct {
	store        Store
	engine       Engine
	startTime    time.Time
	maxBodyBytes int64

	// requestTimeout bounds each handler's work. Itinerary requests may
	// train before planning.
	requestTimeout time.Duration
}

// HandlerConfig tunes request handling.
type HandlerConfig struct {
	MaxBodyBytes   int64
	RequestTimeout time.Duration
}

// NewHandler creates a handler. Zero config values take defaults.
func NewHandler(store Store, eng Engine, cfg HandlerConfig) (*Handler, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if eng == nil {
		return nil, errors.New("engine is required")
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}
	return &Handler{
		store:          store,
		engine:         eng,
		startTime:      time.Now(),
		maxBodyBytes:   cfg.MaxBodyBytes,
		requestTimeout: cfg.RequestTimeout,
	}, nil
}

// withTimeout bounds a handler's downstream calls.
func (h *Handler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, h.requestTimeout)
}
