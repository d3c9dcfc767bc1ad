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

	"github.com/goccy/go-json"

	"github.com/tomtom215/travia/internal/logging"
	"github.com/tomtom215/travia/internal/models"
	"github.com/tomtom215/travia/internal/recommend"
	"github.com/tomtom215/travia/internal/recommend/features"
	"github.com/tomtom215/travia/internal/recommend/selection"
)

// DefaultMinLocationBusinesses is the business count a locality needs to
// be listed when the config leaves it unset.
const DefaultMinLocationBusinesses = 10

// businessColumns is the projection read by scanBusiness.
const businessColumns = `b.id, b.business_id, b.name, b.address, b.locality, b.region, b.country,
	b.stars, b.review_count, b.price_range,
	b.is_restaurant, b.is_cafe, b.is_bar, b.is_gym, b.is_shop, b.is_beauty_health, b.is_nightlife,
	b.classy, b.casual, b.romantic, b.touristy, b.trendy,
	b.good_for_breakfast, b.good_for_lunch, b.good_for_dinner, b.good_for_dessert, b.good_for_kids,
	b.wifi, b.delivery, b.credit_cards, b.serves_beer,
	b.cuisines, b.categories, b.primary_category, b.hours`

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanBusiness reads businessColumns after any leading columns in extra.
// Malformed JSON list columns are read as empty rather than failing the row.
func scanBusiness(row scanner, extra ...interface{}) (*recommend.Business, error) {
	var (
		b                        recommend.Business
		stars                    sql.NullFloat64
		price                    sql.NullInt64
		cuisines, categories, hr string
	)
	dest := make([]interface{}, 0, len(extra)+35)
	dest = append(dest, extra...)
	dest = append(dest,
		&b.ID, &b.BusinessID, &b.Name, &b.Address, &b.Locality, &b.Region, &b.Country,
		&stars, &b.ReviewCount, &price,
		&b.IsRestaurant, &b.IsCafe, &b.IsBar, &b.IsGym, &b.IsShop, &b.IsBeautyHealth, &b.IsNightlife,
		&b.Classy, &b.Casual, &b.Romantic, &b.Touristy, &b.Trendy,
		&b.GoodForBreakfast, &b.GoodForLunch, &b.GoodForDinner, &b.GoodForDessert, &b.GoodForKids,
		&b.Wifi, &b.Delivery, &b.CreditCards, &b.ServesBeer,
		&cuisines, &categories, &b.PrimaryCategory, &hr,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	if stars.Valid {
		v := stars.Float64
		b.Stars = &v
	}
	if price.Valid {
		v := int(price.Int64)
		b.PriceRange = &v
	}
	if err := decodeJSONColumn(cuisines, &b.Cuisines); err != nil {
		warnMalformedColumn(b.ID, "cuisines", err)
		b.Cuisines = nil
	}
	if err := decodeJSONColumn(categories, &b.Categories); err != nil {
		warnMalformedColumn(b.ID, "categories", err)
		b.Categories = nil
	}
	if err := decodeJSONColumn(hr, &b.Hours); err != nil {
		warnMalformedColumn(b.ID, "hours", err)
		b.Hours = nil
	}
	if len(b.Cuisines) == 0 {
		b.Cuisines = features.CuisinesFromName(b.Name)
	}
	return &b, nil
}

// warnMalformedColumn logs a JSON column that could not be decoded. The
// column is read as empty and the row is kept.
func warnMalformedColumn(id int64, column string, err error) {
	logging.Warn().
		Int64("business_id", id).
		Str("column", column).
		Err(err).
		Msg("Malformed JSON column, using empty value")
}

// decodeJSONColumn decodes a JSON text column, treating blank as empty.
func decodeJSONColumn(raw string, v interface{}) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), v)
}

// trimmed returns the non-blank values with surrounding space removed.
func trimmed(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (db *DB) queryBusinesses(ctx context.Context, operation, query string, args ...interface{}) (_ []recommend.Business, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { observe(operation, "businesses", start, err) }()

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query businesses: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var out []recommend.Business
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, fmt.Errorf("scan business: %w", err)
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate businesses: %w", err)
	}
	return out, nil
}

// Businesses returns businesses matching q.
func (db *DB) Businesses(ctx context.Context, q *selection.Query) ([]recommend.Business, error) {
	if q == nil || strings.TrimSpace(q.Locality) == "" {
		return nil, fmt.Errorf("%w: locality is required", recommend.ErrInvalidInput)
	}
	query, args := buildBusinessQuery(q)
	return db.queryBusinesses(ctx, "select", query, args...)
}

// RecentLikedBusinesses returns businesses in locality whose latest
// interaction by userID is a like, most recently liked first.
func (db *DB) RecentLikedBusinesses(ctx context.Context, userID int64, locality string, limit int) ([]recommend.Business, error) {
	if limit <= 0 {
		return nil, nil
	}
	query := `
		WITH latest AS (
			SELECT business_id, interaction_type, created_at, id,
				row_number() OVER (PARTITION BY business_id ORDER BY created_at DESC, id DESC) AS rn
			FROM user_interactions
			WHERE user_id = ?
		)
		SELECT ` + businessColumns + `
		FROM latest l
		JOIN businesses b ON b.id = l.business_id
		WHERE l.rn = 1
			AND l.interaction_type = 'like'
			AND lower(trim(b.locality)) = lower(trim(?))
			AND trim(b.name) <> ''
		ORDER BY l.created_at DESC, l.id DESC
		LIMIT ?`
	return db.queryBusinesses(ctx, "liked", query, userID, locality, limit)
}

// BusinessByID returns one business or an error wrapping
// recommend.ErrNotFound.
func (db *DB) BusinessByID(ctx context.Context, id int64) (*recommend.Business, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	row := db.conn.QueryRowContext(ctx, "SELECT "+businessColumns+" FROM businesses b WHERE b.id = ?", id)
	b, err := scanBusiness(row)
	if errors.Is(err, sql.ErrNoRows) {
		observe("get", "businesses", start, nil)
		return nil, fmt.Errorf("business %d: %w", id, recommend.ErrNotFound)
	}
	observe("get", "businesses", start, err)
	if err != nil {
		return nil, fmt.Errorf("get business: %w", err)
	}
	return b, nil
}

// AnyBusiness returns the business with the lowest ID, or nil when the
// table is empty.
func (db *DB) AnyBusiness(ctx context.Context) (*recommend.Business, error) {
	out, err := db.queryBusinesses(ctx, "any", "SELECT "+businessColumns+" FROM businesses b ORDER BY b.id LIMIT 1")
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

// InsertBusiness stores b and returns its ID. Cuisines are inferred from
// the name when none are given. A duplicate BusinessID wraps ErrConflict.
func (db *DB) InsertBusiness(ctx context.Context, b *recommend.Business) (_ int64, err error) {
	if b == nil || strings.TrimSpace(b.Name) == "" {
		return 0, fmt.Errorf("%w: business name is required", recommend.ErrInvalidInput)
	}
	if strings.TrimSpace(b.BusinessID) == "" {
		return 0, fmt.Errorf("%w: external business id is required", recommend.ErrInvalidInput)
	}

	cuisines := trimmed(b.Cuisines)
	if len(cuisines) == 0 {
		cuisines = features.CuisinesFromName(b.Name)
	}
	cuisineJSON, err := json.Marshal(cuisines)
	if err != nil {
		return 0, fmt.Errorf("encode cuisines: %w", err)
	}
	categoryJSON, err := json.Marshal(trimmed(b.Categories))
	if err != nil {
		return 0, fmt.Errorf("encode categories: %w", err)
	}
	hours := b.Hours
	if hours == nil {
		hours = map[string]string{}
	}
	hoursJSON, err := json.Marshal(hours)
	if err != nil {
		return 0, fmt.Errorf("encode hours: %w", err)
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { observe("insert", "businesses", start, err) }()

	var stars, price interface{}
	if b.Stars != nil {
		stars = *b.Stars
	}
	if b.PriceRange != nil {
		price = *b.PriceRange
	}

	var id int64
	err = db.conn.QueryRowContext(ctx, `
		INSERT INTO businesses (
			business_id, name, address, locality, region, country,
			stars, review_count, price_range,
			is_restaurant, is_cafe, is_bar, is_gym, is_shop, is_beauty_health, is_nightlife,
			classy, casual, romantic, touristy, trendy,
			good_for_breakfast, good_for_lunch, good_for_dinner, good_for_dessert, good_for_kids,
			wifi, delivery, credit_cards, serves_beer,
			cuisines, categories, primary_category, hours
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		strings.TrimSpace(b.BusinessID), strings.TrimSpace(b.Name), b.Address,
		strings.TrimSpace(b.Locality), strings.TrimSpace(b.Region), strings.TrimSpace(b.Country),
		stars, b.ReviewCount, price,
		b.IsRestaurant, b.IsCafe, b.IsBar, b.IsGym, b.IsShop, b.IsBeautyHealth, b.IsNightlife,
		b.Classy, b.Casual, b.Romantic, b.Touristy, b.Trendy,
		b.GoodForBreakfast, b.GoodForLunch, b.GoodForDinner, b.GoodForDessert, b.GoodForKids,
		b.Wifi, b.Delivery, b.CreditCards, b.ServesBeer,
		string(cuisineJSON), string(categoryJSON), b.PrimaryCategory, string(hoursJSON),
	).Scan(&id)
	if err != nil {
		if isConstraintError(err) {
			return 0, fmt.Errorf("business %q: %w", b.BusinessID, ErrConflict)
		}
		return 0, fmt.Errorf("insert business: %w", err)
	}
	return id, nil
}

// CountBusinesses returns the number of stored businesses.
func (db *DB) CountBusinesses(ctx context.Context) (int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var n int
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM businesses").Scan(&n); err != nil {
		return 0, fmt.Errorf("count businesses: %w", err)
	}
	return n, nil
}

// Locations lists localities with at least the configured number of
// businesses, largest first.
func (db *DB) Locations(ctx context.Context) (_ []models.Location, err error) {
	minCount := db.cfg.MinLocationBusinesses
	if minCount <= 0 {
		minCount = DefaultMinLocationBusinesses
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { observe("locations", "businesses", start, err) }()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT locality, region, country, COUNT(*) AS n
		FROM businesses
		WHERE trim(locality) <> ''
		GROUP BY locality, region, country
		HAVING COUNT(*) >= ?
		ORDER BY n DESC, locality`, minCount)
	if err != nil {
		return nil, fmt.Errorf("query locations: %w", err)
	}
	defer closeWithLog(rows, "rows")

	out := []models.Location{}
	for rows.Next() {
		var l models.Location
		if err := rows.Scan(&l.Locality, &l.Region, &l.Country, &l.BusinessCount); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
