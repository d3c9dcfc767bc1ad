// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/travia/internal/recommend"
)

// SubmitFeedback records a like or dislike with a snapshot of the user's
// current preferences, then retrains. Training failures never fail the
// submission.
func (e *Engine) SubmitFeedback(ctx context.Context, userID, businessID int64, typ recommend.InteractionType) (*recommend.Interaction, error) {
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: interaction type %q", recommend.ErrInvalidInput, typ)
	}

	b, err := e.store.BusinessByID(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("business %d: %w", businessID, err)
	}

	prefs, err := e.store.LatestPreferences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read preferences: %w", err)
	}
	snapshot, err := preferenceSnapshot(prefs)
	if err != nil {
		return nil, err
	}

	in := &recommend.Interaction{
		UserID:             userID,
		BusinessID:         businessID,
		Type:               typ,
		ContextPreferences: snapshot,
		CreatedAt:          time.Now().UTC(),
		Business:           *b,
	}
	id, err := e.store.InsertInteraction(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("record feedback: %w", err)
	}
	in.ID = id

	e.logger.Info().
		Int64("user_id", userID).
		Int64("business_id", businessID).
		Str("type", string(typ)).
		Msg("Feedback recorded")

	e.retrain(ctx, userID, "feedback")
	return in, nil
}

// RemoveFeedback deletes the user's interactions with a business. An empty
// typ removes both likes and dislikes. It returns recommend.ErrNotFound
// when nothing matched.
func (e *Engine) RemoveFeedback(ctx context.Context, userID, businessID int64, typ recommend.InteractionType) (int64, error) {
	if typ != "" && !typ.Valid() {
		return 0, fmt.Errorf("%w: interaction type %q", recommend.ErrInvalidInput, typ)
	}
	if _, err := e.store.BusinessByID(ctx, businessID); err != nil {
		return 0, fmt.Errorf("business %d: %w", businessID, err)
	}

	n, err := e.store.DeleteInteractions(ctx, userID, businessID, typ)
	if err != nil {
		return 0, fmt.Errorf("remove feedback: %w", err)
	}
	if n == 0 {
		return 0, fmt.Errorf("no interaction with business %d: %w", businessID, recommend.ErrNotFound)
	}

	e.logger.Info().
		Int64("user_id", userID).
		Int64("business_id", businessID).
		Str("type", string(typ)).
		Int64("removed", n).
		Msg("Feedback removed")

	e.retrain(ctx, userID, "feedback_removed")
	return n, nil
}

// preferenceSnapshot converts preferences into the JSON object stored with
// an interaction. Missing preferences yield an empty object.
func preferenceSnapshot(prefs *recommend.UserPreferences) (map[string]any, error) {
	snapshot := make(map[string]any)
	if prefs == nil {
		return snapshot, nil
	}
	data, err := json.Marshal(prefs)
	if err != nil {
		return nil, fmt.Errorf("encode preference snapshot: %w", err)
	}
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("decode preference snapshot: %w", err)
	}
	delete(snapshot, "id")
	delete(snapshot, "user_id")
	return snapshot, nil
}
