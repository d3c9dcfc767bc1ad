// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/travia/internal/models"
	"github.com/tomtom215/travia/internal/recommend"
)

// InsertPreferences appends a preference row, filling defaults for zero
// fields, and sets p.ID and p.CreatedAt.
func (db *DB) InsertPreferences(ctx context.Context, p *recommend.UserPreferences) (err error) {
	if p == nil || p.UserID == 0 {
		return fmt.Errorf("%w: user id is required", recommend.ErrInvalidInput)
	}
	models.ApplyPreferenceDefaults(p)

	cuisines, err := json.Marshal(trimmed(p.PreferredCuisine))
	if err != nil {
		return fmt.Errorf("encode cuisines: %w", err)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { observe("insert", "user_preferences", start, err) }()

	err = db.conn.QueryRowContext(ctx, `
		INSERT INTO user_preferences (
			user_id, budget, travel_days, travel_style, noise_preference, family_friendly,
			accommodation_type, preferred_cuisine, ambience_preference, good_for_kids,
			include_gym, include_bar, include_nightlife, include_beauty_health, include_shop,
			location, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		p.UserID, p.Budget, p.TravelDays, p.TravelStyle, p.NoisePreference, p.FamilyFriendly,
		p.AccommodationType, string(cuisines), p.AmbiencePreference, p.GoodForKids,
		p.IncludeGym, p.IncludeBar, p.IncludeNightlife, p.IncludeBeautyHealth, p.IncludeShop,
		p.Location, p.CreatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert preferences: %w", err)
	}
	return nil
}

// LatestPreferences returns the user's most recent preference row, or nil
// when none exists.
func (db *DB) LatestPreferences(ctx context.Context, userID int64) (_ *recommend.UserPreferences, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { observe("latest", "user_preferences", start, err) }()

	var p recommend.UserPreferences
	var cuisines string
	err = db.conn.QueryRowContext(ctx, `
		SELECT id, user_id, budget, travel_days, travel_style, noise_preference, family_friendly,
			accommodation_type, preferred_cuisine, ambience_preference, good_for_kids,
			include_gym, include_bar, include_nightlife, include_beauty_health, include_shop,
			location, created_at
		FROM user_preferences
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1`, userID,
	).Scan(
		&p.ID, &p.UserID, &p.Budget, &p.TravelDays, &p.TravelStyle, &p.NoisePreference, &p.FamilyFriendly,
		&p.AccommodationType, &cuisines, &p.AmbiencePreference, &p.GoodForKids,
		&p.IncludeGym, &p.IncludeBar, &p.IncludeNightlife, &p.IncludeBeautyHealth, &p.IncludeShop,
		&p.Location, &p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	if err := decodeJSONColumn(cuisines, &p.PreferredCuisine); err != nil {
		return nil, fmt.Errorf("decode preferred cuisine: %w", err)
	}
	return &p, nil
}
