// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/travia/internal/metrics"
	"github.com/tomtom215/travia/internal/recommend"
	"github.com/tomtom215/travia/internal/recommend/features"
	"github.com/tomtom215/travia/internal/recommend/itinerary"
	"github.com/tomtom215/travia/internal/recommend/preferences"
	"github.com/tomtom215/travia/internal/recommend/selection"
)

// ItineraryRequest asks for a plan for one user in one locality.
type ItineraryRequest struct {
	UserID int64

	// Locality defaults to the location stored with the preferences.
	Locality string

	// SkipTraining disables the best-effort update before planning.
	SkipTraining bool
}

// ItineraryResult is a plan plus how it was produced.
type ItineraryResult struct {
	*itinerary.Itinerary

	Tier       selection.Tier `json:"tier"`
	Candidates int            `json:"candidates"`
	Rejected   int            `json:"rejected"`
}

// GenerateItinerary builds a plan. It fails only when the user has no
// preferences, no business exists for the locality, or persistence fails;
// training and scoring problems degrade quality instead.
func (e *Engine) GenerateItinerary(ctx context.Context, req ItineraryRequest) (*ItineraryResult, error) {
	start := time.Now()
	res, err := e.generate(ctx, req)
	if err != nil {
		metrics.RecordItineraryError(err, recommend.ErrNoPreferences, recommend.ErrNoBusinesses)
		return nil, err
	}
	metrics.RecordItinerary(string(res.Tier), time.Since(start), res.Scheduled, res.Rejected)

	e.logger.Info().
		Int64("user_id", req.UserID).
		Str("locality", req.Locality).
		Str("tier", string(res.Tier)).
		Int("candidates", res.Candidates).
		Int("rejected", res.Rejected).
		Int("scheduled", res.Scheduled).
		Dur("duration", time.Since(start)).
		Msg("Itinerary generated")
	return res, nil
}

func (e *Engine) generate(ctx context.Context, req ItineraryRequest) (*ItineraryResult, error) {
	prefs, err := e.store.LatestPreferences(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("read preferences: %w", err)
	}
	if prefs == nil {
		return nil, fmt.Errorf("user %d: %w", req.UserID, recommend.ErrNoPreferences)
	}

	locality := strings.TrimSpace(req.Locality)
	if locality == "" {
		locality = strings.TrimSpace(prefs.Location)
	}
	if locality == "" {
		return nil, fmt.Errorf("%w: locality is required", recommend.ErrInvalidInput)
	}

	if !req.SkipTraining {
		e.trainBestEffort(ctx, req.UserID, "itinerary")
	}

	interactions, err := e.recentInteractions(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	profile, err := e.learnedProfile(ctx, req.UserID, interactions)
	if err != nil {
		return nil, err
	}

	candidates, tier, err := e.selector.Select(ctx, selection.Request{
		UserID:      req.UserID,
		Locality:    locality,
		Preferences: prefs,
		Profile:     &profile,
	})
	if err != nil {
		return nil, fmt.Errorf("select candidates: %w", err)
	}

	patterns := preferences.LearnPatterns(interactions, e.cfg.Training.MinInteractions)
	kept, rejected := e.filter.Apply(candidates, prefs, patterns)

	scored := e.score(prefs, &profile, kept)
	plan := e.builder.Build(prefs, scored, e.requestRand())

	return &ItineraryResult{
		Itinerary:  plan,
		Tier:       tier,
		Candidates: len(candidates),
		Rejected:   rejected,
	}, nil
}

// score rates every candidate with the live model. Scoring is total.
func (e *Engine) score(prefs *recommend.UserPreferences, profile *recommend.Profile, candidates []recommend.Business) []recommend.ScoredBusiness {
	user := features.User(prefs, profile)
	scored := make([]recommend.ScoredBusiness, len(candidates))
	for i := range candidates {
		scored[i] = recommend.ScoredBusiness{
			Business: candidates[i],
			Score:    e.model.Score(user, &candidates[i]),
		}
	}
	return scored
}
