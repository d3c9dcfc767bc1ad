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
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/travia/internal/models"
	"github.com/tomtom215/travia/internal/recommend"
)

const userColumns = "id, CAST(external_id AS VARCHAR), username, COALESCE(email, ''), created_at"

func scanUser(row scanner) (*models.User, error) {
	var u models.User
	var ext string
	if err := row.Scan(&u.ID, &ext, &u.Username, &u.Email, &u.CreatedAt); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(ext)
	if err != nil {
		return nil, fmt.Errorf("user %d external id: %w", u.ID, err)
	}
	u.ExternalID = parsed
	return &u, nil
}

// CreateUser registers a user with a fresh external ID. A taken username
// wraps ErrConflict.
func (db *DB) CreateUser(ctx context.Context, username, email string) (_ *models.User, err error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", recommend.ErrInvalidInput)
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { observe("insert", "users", start, err) }()

	var emailArg interface{}
	if email = strings.TrimSpace(email); email != "" {
		emailArg = email
	}

	row := db.conn.QueryRowContext(ctx,
		"INSERT INTO users (external_id, username, email, created_at) VALUES (?, ?, ?, ?) RETURNING "+userColumns,
		uuid.New().String(), username, emailArg, time.Now().UTC())
	u, err := scanUser(row)
	if err != nil {
		if isConstraintError(err) {
			return nil, fmt.Errorf("username %q: %w", username, ErrConflict)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// GetUser returns a user or an error wrapping recommend.ErrNotFound.
func (db *DB) GetUser(ctx context.Context, id int64) (*models.User, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	u, err := scanUser(db.conn.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, recommend.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// UserExists reports whether a user with id exists.
func (db *DB) UserExists(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var n int
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE id = ?", id).Scan(&n); err != nil {
		return false, fmt.Errorf("check user: %w", err)
	}
	return n > 0, nil
}

// ListUsers returns users ordered by ID.
func (db *DB) ListUsers(ctx context.Context, limit, offset int) (_ []models.User, err error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { observe("list", "users", start, err) }()

	rows, err := db.conn.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer closeWithLog(rows, "rows")

	out := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}
