// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// Sequences back every surrogate key.
var sequences = []string{
	"users_id_seq",
	"user_preferences_id_seq",
	"businesses_id_seq",
	"user_interactions_id_seq",
	"posts_id_seq",
}

// Cuisines, categories, hours and context preferences are stored as JSON
// text so the schema needs no extension.
var tableDDL = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT PRIMARY KEY DEFAULT nextval('users_id_seq'),
		external_id UUID NOT NULL UNIQUE,
		username VARCHAR NOT NULL UNIQUE,
		email VARCHAR,
		created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
	)`,
	`CREATE TABLE IF NOT EXISTS user_preferences (
		id BIGINT PRIMARY KEY DEFAULT nextval('user_preferences_id_seq'),
		user_id BIGINT NOT NULL,
		budget INTEGER NOT NULL DEFAULT 2,
		travel_days INTEGER NOT NULL DEFAULT 5,
		travel_style VARCHAR NOT NULL DEFAULT 'tourist',
		noise_preference VARCHAR NOT NULL DEFAULT 'quiet',
		family_friendly BOOLEAN NOT NULL DEFAULT false,
		accommodation_type VARCHAR NOT NULL DEFAULT 'hotel',
		preferred_cuisine VARCHAR NOT NULL DEFAULT '[]',
		ambience_preference VARCHAR NOT NULL DEFAULT 'casual',
		good_for_kids BOOLEAN NOT NULL DEFAULT false,
		include_gym BOOLEAN NOT NULL DEFAULT false,
		include_bar BOOLEAN NOT NULL DEFAULT false,
		include_nightlife BOOLEAN NOT NULL DEFAULT false,
		include_beauty_health BOOLEAN NOT NULL DEFAULT false,
		include_shop BOOLEAN NOT NULL DEFAULT false,
		location VARCHAR NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
	)`,
	`CREATE TABLE IF NOT EXISTS businesses (
		id BIGINT PRIMARY KEY DEFAULT nextval('businesses_id_seq'),
		business_id VARCHAR NOT NULL UNIQUE,
		name VARCHAR NOT NULL,
		address VARCHAR NOT NULL DEFAULT '',
		locality VARCHAR NOT NULL DEFAULT '',
		region VARCHAR NOT NULL DEFAULT '',
		country VARCHAR NOT NULL DEFAULT '',
		stars DOUBLE,
		review_count INTEGER NOT NULL DEFAULT 0,
		price_range INTEGER,
		is_restaurant BOOLEAN NOT NULL DEFAULT false,
		is_cafe BOOLEAN NOT NULL DEFAULT false,
		is_bar BOOLEAN NOT NULL DEFAULT false,
		is_gym BOOLEAN NOT NULL DEFAULT false,
		is_shop BOOLEAN NOT NULL DEFAULT false,
		is_beauty_health BOOLEAN NOT NULL DEFAULT false,
		is_nightlife BOOLEAN NOT NULL DEFAULT false,
		classy BOOLEAN NOT NULL DEFAULT false,
		casual BOOLEAN NOT NULL DEFAULT false,
		romantic BOOLEAN NOT NULL DEFAULT false,
		touristy BOOLEAN NOT NULL DEFAULT false,
		trendy BOOLEAN NOT NULL DEFAULT false,
		good_for_breakfast BOOLEAN NOT NULL DEFAULT false,
		good_for_lunch BOOLEAN NOT NULL DEFAULT true,
		good_for_dinner BOOLEAN NOT NULL DEFAULT true,
		good_for_dessert BOOLEAN NOT NULL DEFAULT false,
		good_for_kids BOOLEAN NOT NULL DEFAULT false,
		wifi BOOLEAN NOT NULL DEFAULT false,
		delivery BOOLEAN NOT NULL DEFAULT false,
		credit_cards BOOLEAN NOT NULL DEFAULT false,
		serves_beer BOOLEAN NOT NULL DEFAULT false,
		cuisines VARCHAR NOT NULL DEFAULT '[]',
		categories VARCHAR NOT NULL DEFAULT '[]',
		primary_category VARCHAR NOT NULL DEFAULT '',
		hours VARCHAR NOT NULL DEFAULT '{}'
	)`,
	`CREATE TABLE IF NOT EXISTS user_interactions (
		id BIGINT PRIMARY KEY DEFAULT nextval('user_interactions_id_seq'),
		user_id BIGINT NOT NULL,
		business_id BIGINT NOT NULL,
		interaction_type VARCHAR NOT NULL CHECK (interaction_type IN ('like', 'dislike')),
		context_preferences VARCHAR NOT NULL DEFAULT '{}',
		created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id BIGINT PRIMARY KEY DEFAULT nextval('posts_id_seq'),
		user_id BIGINT NOT NULL,
		business_id BIGINT,
		caption VARCHAR NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
	)`,
	`CREATE TABLE IF NOT EXISTS metadata (
		post_id BIGINT PRIMARY KEY,
		calm INTEGER NOT NULL DEFAULT 0,
		noisy INTEGER NOT NULL DEFAULT 0,
		romantic INTEGER NOT NULL DEFAULT 0,
		good_for_kids INTEGER NOT NULL DEFAULT 0,
		classy INTEGER NOT NULL DEFAULT 0,
		casual INTEGER NOT NULL DEFAULT 0,
		family_friendly_places INTEGER NOT NULL DEFAULT 0,
		cuisine_type VARCHAR NOT NULL DEFAULT '',
		price_range VARCHAR NOT NULL DEFAULT '',
		location VARCHAR NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS likes (
		user_id BIGINT NOT NULL,
		post_id BIGINT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
		PRIMARY KEY (user_id, post_id)
	)`,
}

var indexDDL = []string{
	"CREATE INDEX IF NOT EXISTS idx_preferences_user ON user_preferences(user_id, created_at)",
	"CREATE INDEX IF NOT EXISTS idx_businesses_locality ON businesses(locality)",
	"CREATE INDEX IF NOT EXISTS idx_interactions_user ON user_interactions(user_id, created_at)",
	"CREATE INDEX IF NOT EXISTS idx_interactions_business ON user_interactions(business_id)",
	"CREATE INDEX IF NOT EXISTS idx_posts_user ON posts(user_id)",
	"CREATE INDEX IF NOT EXISTS idx_likes_user ON likes(user_id, created_at)",
}

// createTables creates sequences and tables.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, seq := range sequences {
		if _, err := db.conn.ExecContext(ctx, fmt.Sprintf("CREATE SEQUENCE IF NOT EXISTS %s START 1", seq)); err != nil {
			return fmt.Errorf("failed to create sequence %s: %w", seq, err)
		}
	}
	for _, ddl := range tableDDL {
		if _, err := db.conn.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// createIndexes creates secondary indexes.
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, ddl := range indexDDL {
		if _, err := db.conn.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
