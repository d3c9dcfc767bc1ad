// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/travia/internal/metrics"
	"github.com/tomtom215/travia/internal/recommend/policy"
)

// Training outcomes reported to metrics.
const (
	outcomeTrained    = "trained"
	outcomeSkipped    = "skipped"
	outcomeFailed     = "failed"
	outcomeSaveFailed = "save_failed"

	// outcomeInterrupted means cancellation stopped training after at
	// least one epoch changed the weights.
	outcomeInterrupted = "interrupted"
)

// Train updates the global model from one user's recent history. Users
// without preferences or with fewer than the minimum interactions are
// skipped without touching the model.
func (e *Engine) Train(ctx context.Context, userID int64) (policy.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.Training.Timeout)
	defer cancel()

	res := policy.Result{UserID: userID}

	prefs, err := e.store.LatestPreferences(ctx, userID)
	if err != nil {
		metrics.RecordTraining(outcomeFailed, 0, 0, 0, 0, 0)
		return res, fmt.Errorf("read preferences: %w", err)
	}
	if prefs == nil {
		res.Skipped = true
		metrics.RecordTraining(outcomeSkipped, 0, 0, 0, 0, 0)
		e.logger.Debug().Int64("user_id", userID).Msg("No preferences, skipping training")
		return res, nil
	}

	interactions, err := e.recentInteractions(ctx, userID)
	if err != nil {
		metrics.RecordTraining(outcomeFailed, 0, 0, 0, 0, 0)
		return res, err
	}
	if len(interactions) < e.cfg.Training.MinInteractions {
		res.Skipped = true
		res.Samples = len(interactions)
		metrics.RecordTraining(outcomeSkipped, 0, 0, 0, 0, 0)
		e.logger.Debug().
			Int64("user_id", userID).
			Int("interactions", len(interactions)).
			Msg("Not enough interactions for training")
		return res, nil
	}

	profile, err := e.learnedProfile(ctx, userID, interactions)
	if err != nil {
		metrics.RecordTraining(outcomeFailed, 0, 0, 0, 0, 0)
		return res, err
	}

	batch := policy.BuildBatch(userID, prefs, &profile, interactions, e.cfg)
	res, err = e.trainer.Train(ctx, batch)
	switch {
	case err == nil && res.Skipped:
		metrics.RecordTraining(outcomeSkipped, 0, 0, 0, 0, 0)
	case err == nil:
		metrics.RecordTraining(outcomeTrained, res.Duration, res.ActorLoss, res.CriticLoss, res.TotalLoss, res.Version)
		if res.Saved {
			e.markSaved(res.Version)
			metrics.RecordArtifactOperation("save", nil)
		}
	case res.Version > 0 && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)):
		metrics.RecordTraining(outcomeInterrupted, res.Duration, res.ActorLoss, res.CriticLoss, res.TotalLoss, res.Version)
	case res.Version > 0 && !res.Saved:
		metrics.RecordTraining(outcomeSaveFailed, res.Duration, res.ActorLoss, res.CriticLoss, res.TotalLoss, res.Version)
		metrics.RecordArtifactOperation("save", err)
	default:
		metrics.RecordTraining(outcomeFailed, res.Duration, 0, 0, 0, 0)
	}
	if err != nil {
		return res, fmt.Errorf("train user %d: %w", userID, err)
	}
	return res, nil
}

// trainBestEffort trains and logs any failure. Callers proceed regardless.
func (e *Engine) trainBestEffort(ctx context.Context, userID int64, reason string) {
	res, err := e.Train(ctx, userID)
	if err != nil {
		e.logger.Warn().
			Err(err).
			Int64("user_id", userID).
			Str("reason", reason).
			Msg("Training failed, continuing with current model")
		return
	}
	if !res.Skipped {
		e.logger.Debug().
			Int64("user_id", userID).
			Str("reason", reason).
			Int("version", res.Version).
			Msg("Model retrained")
	}
}

// retrain schedules or runs training after the user's history changed.
func (e *Engine) retrain(ctx context.Context, userID int64, reason string) {
	e.schedMu.RLock()
	s := e.scheduler
	e.schedMu.RUnlock()

	if s != nil {
		err := s.ScheduleTraining(ctx, userID, reason)
		if err == nil {
			return
		}
		e.logger.Warn().Err(err).Int64("user_id", userID).Msg("Failed to schedule training, training inline")
	}
	e.trainBestEffort(ctx, userID, reason)
}
