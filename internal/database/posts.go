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

	"github.com/tomtom215/travia/internal/models"
	"github.com/tomtom215/travia/internal/recommend"
)

const postColumns = `p.id, p.user_id, p.business_id, p.caption, p.created_at,
	(SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id)`

func scanPost(row scanner) (*models.Post, error) {
	var p models.Post
	var business sql.NullInt64
	if err := row.Scan(&p.ID, &p.UserID, &business, &p.Caption, &p.CreatedAt, &p.Likes); err != nil {
		return nil, err
	}
	if business.Valid {
		v := business.Int64
		p.BusinessID = &v
	}
	return &p, nil
}

// CreatePost stores a post and returns it.
func (db *DB) CreatePost(ctx context.Context, userID int64, businessID *int64, caption string) (_ *models.Post, err error) {
	if userID == 0 {
		return nil, fmt.Errorf("%w: user id is required", recommend.ErrInvalidInput)
	}
	var businessArg interface{}
	if businessID != nil {
		businessArg = *businessID
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { observe("insert", "posts", start, err) }()

	p := &models.Post{UserID: userID, BusinessID: businessID, Caption: caption, CreatedAt: time.Now().UTC()}
	err = db.conn.QueryRowContext(ctx,
		"INSERT INTO posts (user_id, business_id, caption, created_at) VALUES (?, ?, ?, ?) RETURNING id",
		userID, businessArg, caption, p.CreatedAt,
	).Scan(&p.ID)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return p, nil
}

// GetPost returns a post or an error wrapping recommend.ErrNotFound.
func (db *DB) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	p, err := scanPost(db.conn.QueryRowContext(ctx, "SELECT "+postColumns+" FROM posts p WHERE p.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("post %d: %w", id, recommend.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return p, nil
}

// SetPostMetadata creates or replaces the metadata of a post.
func (db *DB) SetPostMetadata(ctx context.Context, m *recommend.PostMetadata) (err error) {
	if m == nil || m.PostID == 0 {
		return fmt.Errorf("%w: post id is required", recommend.ErrInvalidInput)
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { observe("upsert", "metadata", start, err) }()

	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO metadata (post_id, calm, noisy, romantic, good_for_kids, classy, casual,
			family_friendly_places, cuisine_type, price_range, location)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (post_id) DO UPDATE SET
			calm = excluded.calm,
			noisy = excluded.noisy,
			romantic = excluded.romantic,
			good_for_kids = excluded.good_for_kids,
			classy = excluded.classy,
			casual = excluded.casual,
			family_friendly_places = excluded.family_friendly_places,
			cuisine_type = excluded.cuisine_type,
			price_range = excluded.price_range,
			location = excluded.location`,
		m.PostID, m.Calm, m.Noisy, m.Romantic, m.GoodForKids, m.Classy, m.Casual,
		m.FamilyFriendlyPlaces, m.CuisineType, m.PriceRange, m.Location,
	)
	if err != nil {
		return fmt.Errorf("upsert post metadata: %w", err)
	}
	return nil
}

// LikePost records a like. It reports false when the user already liked
// the post.
func (db *DB) LikePost(ctx context.Context, userID, postID int64) (_ bool, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { observe("insert", "likes", start, err) }()

	res, err := db.conn.ExecContext(ctx,
		"INSERT INTO likes (user_id, post_id, created_at) VALUES (?, ?, ?) ON CONFLICT DO NOTHING",
		userID, postID, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("like post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// UnlikePost removes a like. It reports false when there was none.
func (db *DB) UnlikePost(ctx context.Context, userID, postID int64) (_ bool, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { observe("delete", "likes", start, err) }()

	res, err := db.conn.ExecContext(ctx, "DELETE FROM likes WHERE user_id = ? AND post_id = ?", userID, postID)
	if err != nil {
		return false, fmt.Errorf("unlike post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// RecentLikedMetadata returns metadata of posts the user liked, most
// recently liked first. limit is capped at MaxMetadataRows. Liked posts
// without metadata are skipped.
func (db *DB) RecentLikedMetadata(ctx context.Context, userID int64, limit int) (_ []recommend.PostMetadata, err error) {
	if limit <= 0 || limit > MaxMetadataRows {
		limit = MaxMetadataRows
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { observe("recent", "metadata", start, err) }()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT m.post_id, m.calm, m.noisy, m.romantic, m.good_for_kids, m.classy, m.casual,
			m.family_friendly_places, m.cuisine_type, m.price_range, m.location, l.created_at
		FROM likes l
		JOIN metadata m ON m.post_id = l.post_id
		WHERE l.user_id = ?
		ORDER BY l.created_at DESC, l.post_id DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query liked metadata: %w", err)
	}
	defer closeWithLog(rows, "rows")

	out := []recommend.PostMetadata{}
	for rows.Next() {
		var m recommend.PostMetadata
		if err := rows.Scan(&m.PostID, &m.Calm, &m.Noisy, &m.Romantic, &m.GoodForKids, &m.Classy, &m.Casual,
			&m.FamilyFriendlyPlaces, &m.CuisineType, &m.PriceRange, &m.Location, &m.LikedAt); err != nil {
			return nil, fmt.Errorf("scan liked metadata: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
