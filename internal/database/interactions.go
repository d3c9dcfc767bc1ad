// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/travia/internal/recommend"
)

// InsertInteraction appends an interaction and returns its ID.
func (db *DB) InsertInteraction(ctx context.Context, in *recommend.Interaction) (_ int64, err error) {
	if in == nil || !in.Type.Valid() {
		return 0, fmt.Errorf("%w: interaction type is required", recommend.ErrInvalidInput)
	}
	snapshot := in.ContextPreferences
	if snapshot == nil {
		snapshot = map[string]any{}
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return 0, fmt.Errorf("encode context preferences: %w", err)
	}
	created := in.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { observe("insert", "user_interactions", start, err) }()

	var id int64
	err = db.conn.QueryRowContext(ctx, `
		INSERT INTO user_interactions (user_id, business_id, interaction_type, context_preferences, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`,
		in.UserID, in.BusinessID, string(in.Type), string(data), created,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert interaction: %w", err)
	}
	return id, nil
}

// DeleteInteractions removes the user's interactions with a business,
// restricted to typ unless it is empty.
func (db *DB) DeleteInteractions(ctx context.Context, userID, businessID int64, typ recommend.InteractionType) (_ int64, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { observe("delete", "user_interactions", start, err) }()

	query := "DELETE FROM user_interactions WHERE user_id = ? AND business_id = ?"
	args := []interface{}{userID, businessID}
	if typ != "" {
		query += " AND interaction_type = ?"
		args = append(args, string(typ))
	}

	res, err := db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete interactions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// RecentInteractions returns up to limit of the user's interactions joined
// with business attributes, newest first. limit is capped at
// MaxInteractionRows.
func (db *DB) RecentInteractions(ctx context.Context, userID int64, limit int) (_ []recommend.Interaction, err error) {
	if limit <= 0 || limit > MaxInteractionRows {
		limit = MaxInteractionRows
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { observe("recent", "user_interactions", start, err) }()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT i.id, i.user_id, i.business_id, i.interaction_type, i.context_preferences, i.created_at,
			`+businessColumns+`
		FROM user_interactions i
		JOIN businesses b ON b.id = i.business_id
		WHERE i.user_id = ?
		ORDER BY i.created_at DESC, i.id DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer closeWithLog(rows, "rows")

	out := []recommend.Interaction{}
	for rows.Next() {
		var (
			in       recommend.Interaction
			typ      string
			snapshot string
		)
		b, err := scanBusiness(rows, &in.ID, &in.UserID, &in.BusinessID, &typ, &snapshot, &in.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		in.Type = recommend.InteractionType(typ)
		in.Business = *b
		if err := decodeJSONColumn(snapshot, &in.ContextPreferences); err != nil {
			return nil, fmt.Errorf("interaction %d context preferences: %w", in.ID, err)
		}
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interactions: %w", err)
	}
	return out, nil
}
