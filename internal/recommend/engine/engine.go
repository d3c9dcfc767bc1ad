// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/tomtom215/travia/internal/metrics"
	"github.com/tomtom215/travia/internal/recommend"
	"github.com/tomtom215/travia/internal/recommend/itinerary"
	"github.com/tomtom215/travia/internal/recommend/policy"
	"github.com/tomtom215/travia/internal/recommend/preferences"
	"github.com/tomtom215/travia/internal/recommend/selection"
	"github.com/tomtom215/travia/internal/recommend/storage"
)

// Store is the persistence the engine reads and writes. It is implemented
// by the database package.
type Store interface {
	recommend.HistorySource
	selection.Source

	// BusinessByID returns one business or an error wrapping
	// recommend.ErrNotFound.
	BusinessByID(ctx context.Context, id int64) (*recommend.Business, error)

	// AnyBusiness returns an arbitrary business, or nil when the table is
	// empty.
	AnyBusiness(ctx context.Context) (*recommend.Business, error)

	// InsertInteraction appends an interaction and returns its ID.
	InsertInteraction(ctx context.Context, in *recommend.Interaction) (int64, error)

	// DeleteInteractions removes the user's interactions with a business,
	// restricted to typ unless it is empty, and returns the number removed.
	DeleteInteractions(ctx context.Context, userID, businessID int64, typ recommend.InteractionType) (int64, error)
}

// Scheduler defers training to a background consumer.
type Scheduler interface {
	ScheduleTraining(ctx context.Context, userID int64, reason string) error
}

// Engine wires history, the global policy model, candidate selection and
// itinerary assembly. It is safe for concurrent use.
type Engine struct {
	cfg    *recommend.Config
	store  Store
	logger zerolog.Logger

	model       *policy.Model
	trainer     *policy.Trainer
	artifacts   storage.ArtifactStore
	checkpoints policy.CheckpointStore

	analyzer *preferences.Analyzer
	selector *selection.Selector
	filter   *selection.ContentFilter
	builder  *itinerary.Builder

	schedMu   sync.RWMutex
	scheduler Scheduler

	rngMu sync.Mutex
	rng   *rand.Rand

	// savedVersion is the model version last known to be persisted.
	savedVersion atomic.Int64
}

// New creates an engine. artifacts may be nil, in which case the model is
// never persisted.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(cfg *recommend.Config, store Store, artifacts storage.ArtifactStore, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = recommend.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if store == nil {
		return nil, errors.New("store is required")
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = 42
	}

	e := &Engine{
		cfg:       cfg,
		store:     store,
		logger:    logger.With().Str("component", "recommend_engine").Logger(),
		model:     policy.NewModel(cfg),
		artifacts: artifacts,
		analyzer:  preferences.NewAnalyzer(cfg.Profile),
		selector:  selection.NewSelector(store, cfg.Selection, logger),
		filter:    selection.NewContentFilter(cfg.ContentFilter),
		builder:   itinerary.NewBuilder(cfg.Itinerary, logger),
		rng:       rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x5f3759df)), //nolint:gosec // sampling, not security
	}
	e.model.OnFallback(metrics.RecordScoringFallback)

	if artifacts != nil {
		e.checkpoints = policy.NewArtifactCheckpoints(artifacts, policy.ArtifactName)
	}
	e.trainer = policy.NewTrainer(e.model, cfg, e.checkpoints, logger)
	return e, nil
}

// SetScheduler routes post-feedback training through s. A nil scheduler
// trains inline.
func (e *Engine) SetScheduler(s Scheduler) {
	e.schedMu.Lock()
	defer e.schedMu.Unlock()
	e.scheduler = s
}

// Config returns the engine configuration.
func (e *Engine) Config() *recommend.Config {
	return e.cfg
}

// Model returns the live policy model.
func (e *Engine) Model() *policy.Model {
	return e.model
}

// LoadModel restores the latest persisted checkpoint. It reports whether
// one was found; without one the freshly initialized weights stay live.
func (e *Engine) LoadModel(ctx context.Context) (bool, error) {
	if e.checkpoints == nil {
		return false, nil
	}
	found, err := policy.LoadInto(ctx, e.checkpoints, e.model)
	metrics.RecordArtifactOperation("load", err)
	if err != nil {
		return false, fmt.Errorf("load model: %w", err)
	}
	if found {
		e.markSaved(e.model.Version())
		metrics.ModelVersion.Set(float64(e.model.Version()))
		e.logger.Info().
			Int("version", e.model.Version()).
			Time("trained_at", e.model.TrainedAt()).
			Msg("Loaded model checkpoint")
	} else {
		e.logger.Info().Msg("No model checkpoint found, using initial weights")
	}
	return found, nil
}

// SaveModel persists the current weights.
func (e *Engine) SaveModel(ctx context.Context) error {
	if e.checkpoints == nil {
		return nil
	}
	cp := e.model.Snapshot()
	err := e.checkpoints.Save(ctx, cp)
	if errors.Is(err, policy.ErrStaleCheckpoint) {
		return nil
	}
	metrics.RecordArtifactOperation("save", err)
	if err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	e.markSaved(cp.Version)
	return nil
}

// markSaved raises savedVersion to v. Concurrent saves may finish out of
// order, so the value never moves backwards.
func (e *Engine) markSaved(v int) {
	for {
		cur := e.savedVersion.Load()
		if int64(v) <= cur || e.savedVersion.CompareAndSwap(cur, int64(v)) {
			return
		}
	}
}

// Checkpoint saves the model when it changed since the last save. It is
// a no-op without an artifact store.
func (e *Engine) Checkpoint(ctx context.Context) error {
	v := int64(e.model.Version())
	if e.checkpoints == nil || v == 0 || v == e.savedVersion.Load() {
		return nil
	}
	return e.SaveModel(ctx)
}

// requestRand derives an independent generator for one request.
func (e *Engine) requestRand() *rand.Rand {
	e.rngMu.Lock()
	a, b := e.rng.Uint64(), e.rng.Uint64()
	e.rngMu.Unlock()
	return rand.New(rand.NewPCG(a, b)) //nolint:gosec // sampling, not security
}

// learnedProfile builds the profile from liked-post metadata with business
// likes filling attributes the posts do not cover.
func (e *Engine) learnedProfile(ctx context.Context, userID int64, interactions []recommend.Interaction) (recommend.Profile, error) {
	meta, err := e.store.RecentLikedMetadata(ctx, userID, e.analyzer.MaxHistory())
	if err != nil {
		return recommend.Profile{}, fmt.Errorf("read liked metadata: %w", err)
	}
	return preferences.Merge(e.analyzer.Analyze(meta), e.analyzer.AnalyzeBusinessLikes(interactions)), nil
}

func (e *Engine) recentInteractions(ctx context.Context, userID int64) ([]recommend.Interaction, error) {
	interactions, err := e.store.RecentInteractions(ctx, userID, e.cfg.Training.MaxInteractions)
	if err != nil {
		return nil, fmt.Errorf("read interactions: %w", err)
	}
	return interactions, nil
}
