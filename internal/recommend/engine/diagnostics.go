// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/travia/internal/recommend"
	"github.com/tomtom215/travia/internal/recommend/features"
	"github.com/tomtom215/travia/internal/recommend/policy"
)

// InteractionSummary counts a user's recent feedback.
type InteractionSummary struct {
	Total    int                     `json:"total_interactions"`
	Likes    int                     `json:"total_likes"`
	Dislikes int                     `json:"total_dislikes"`
	Recent   []recommend.Interaction `json:"recent_interactions"`
}

// PreferenceReport explains what the engine has learned about a user.
type PreferenceReport struct {
	UserID  int64              `json:"user_id"`
	Profile recommend.Profile  `json:"metadata_preferences"`
	Summary InteractionSummary `json:"interaction_summary"`
}

// ModelStatus describes the global model and one user's training data.
type ModelStatus struct {
	UserID int64 `json:"user_id"`

	ModelExists  bool      `json:"model_exists"`
	Version      int       `json:"version"`
	TrainedAt    time.Time `json:"trained_at,omitempty"`
	StateDim     int       `json:"state_dimension"`
	ActionDim    int       `json:"action_dimension"`
	HiddenDim    int       `json:"hidden_dimension"`
	Architecture string    `json:"architecture"`

	Summary          InteractionSummary `json:"training_data"`
	ReadyForTraining bool               `json:"ready_for_training"`

	PreferencesFound bool              `json:"preferences_found"`
	Profile          recommend.Profile `json:"metadata_preferences"`

	// SampleScore scores an arbitrary business for the user, or is nil when
	// the user has no preferences or no business exists.
	SampleScore *float64 `json:"sample_score"`
}

// MetadataPreferences reports the learned profile and the last 10
// interactions.
func (e *Engine) MetadataPreferences(ctx context.Context, userID int64) (*PreferenceReport, error) {
	interactions, err := e.recentInteractions(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := e.learnedProfile(ctx, userID, interactions)
	if err != nil {
		return nil, err
	}
	return &PreferenceReport{
		UserID:  userID,
		Profile: profile,
		Summary: summarize(interactions, 10),
	}, nil
}

// ModelStatus reports model state and the user's readiness for training.
func (e *Engine) ModelStatus(ctx context.Context, userID int64) (*ModelStatus, error) {
	interactions, err := e.recentInteractions(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := e.learnedProfile(ctx, userID, interactions)
	if err != nil {
		return nil, err
	}

	mc := e.cfg.Model
	st := &ModelStatus{
		UserID:           userID,
		Version:          e.model.Version(),
		TrainedAt:        e.model.TrainedAt(),
		StateDim:         mc.StateDim,
		ActionDim:        mc.ActionDim,
		HiddenDim:        mc.HiddenDim,
		Architecture:     fmt.Sprintf("actor-critic MLP %d-%d-%d-%d, PPO", mc.StateDim, mc.HiddenDim, mc.HiddenDim, mc.ActionDim),
		Summary:          summarize(interactions, 5),
		ReadyForTraining: len(interactions) >= e.cfg.Training.MinInteractions,
		PreferencesFound: !profile.Empty(),
		Profile:          profile,
	}

	if e.artifacts != nil {
		exists, err := e.artifacts.Exists(ctx, policy.ArtifactName)
		if err != nil {
			e.logger.Warn().Err(err).Msg("Failed to check model artifact")
		}
		st.ModelExists = exists
	}

	prefs, err := e.store.LatestPreferences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read preferences: %w", err)
	}
	if prefs != nil {
		b, err := e.store.AnyBusiness(ctx)
		if err != nil {
			return nil, fmt.Errorf("read sample business: %w", err)
		}
		if b != nil {
			score := e.model.Score(features.User(prefs, &profile), b)
			st.SampleScore = &score
		}
	}
	return st, nil
}

func summarize(interactions []recommend.Interaction, recent int) InteractionSummary {
	s := InteractionSummary{Total: len(interactions)}
	for i := range interactions {
		switch interactions[i].Type {
		case recommend.InteractionLike:
			s.Likes++
		case recommend.InteractionDislike:
			s.Dislikes++
		}
	}
	if recent > len(interactions) {
		recent = len(interactions)
	}
	s.Recent = make([]recommend.Interaction, recent)
	copy(s.Recent, interactions[:recent])
	return s
}
