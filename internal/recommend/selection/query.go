// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package selection

import (
	"context"
	"math"
	"strings"

	"github.com/tomtom215/travia/internal/recommend"
)

// Order is the result ordering of a Query.
type Order int

const (
	// OrderRating sorts by stars descending (nulls last), then review count
	// descending.
	OrderRating Order = iota

	// OrderRandom returns rows in random order.
	OrderRandom
)

// Query describes one candidate retrieval against a Source. Zero-valued
// fields impose no condition.
type Query struct {
	// Locality is required.
	Locality string

	// MinStars admits businesses at or above this rating or without one.
	// Zero disables the floor.
	MinStars float64

	// AnyCuisine requires at least one business cuisine in the set
	// (case insensitive).
	AnyCuisine []string

	// NoCuisine excludes businesses serving any of these cuisines.
	NoCuisine []string

	// AnyFlag requires at least one of these ambience attributes
	// (romantic, good_for_kids, classy, casual).
	AnyFlag []string

	// EitherCuisineOrFlag combines AnyCuisine and AnyFlag with OR instead
	// of AND.
	EitherCuisineOrFlag bool

	// PriceNear and StarsNear restrict to businesses within the given
	// tolerance, with nulls read as 2 and 3.5.
	PriceNear      *float64
	PriceTolerance float64
	StarsNear      *float64
	StarsTolerance float64

	// ExcludeInteractedBy excludes every business the user has liked or
	// disliked. Zero disables the exclusion.
	ExcludeInteractedBy int64

	// ExcludeIDs excludes specific businesses.
	ExcludeIDs []int64

	Order Order
	Limit int
}

// Source retrieves businesses for the selector.
type Source interface {
	// Businesses returns businesses matching q.
	Businesses(ctx context.Context, q *Query) ([]recommend.Business, error)

	// RecentLikedBusinesses returns up to limit businesses in locality whose
	// latest interaction by userID is a like, newest first.
	RecentLikedBusinesses(ctx context.Context, userID int64, locality string, limit int) ([]recommend.Business, error)
}

// Null defaults used by nearness conditions.
const (
	NullPrice = 2.0
	NullStars = 3.5
)

// Matches reports whether b satisfies every business-level condition of q.
// ExcludeInteractedBy is not evaluated; it needs interaction history.
func (q *Query) Matches(b *recommend.Business) bool {
	if !strings.EqualFold(strings.TrimSpace(b.Locality), strings.TrimSpace(q.Locality)) {
		return false
	}
	if strings.TrimSpace(b.Name) == "" {
		return false
	}
	if b.Stars != nil && *b.Stars < q.MinStars {
		return false
	}
	if len(q.NoCuisine) > 0 && b.ServesCuisine(recommend.NormalizeSet(q.NoCuisine)) {
		return false
	}
	for _, id := range q.ExcludeIDs {
		if b.ID == id {
			return false
		}
	}

	cuisineOK := len(q.AnyCuisine) == 0 || b.ServesCuisine(recommend.NormalizeSet(q.AnyCuisine))
	flagOK := len(q.AnyFlag) == 0 || anyFlag(b, q.AnyFlag)
	if q.EitherCuisineOrFlag && len(q.AnyCuisine) > 0 && len(q.AnyFlag) > 0 {
		if !cuisineOK && !flagOK {
			return false
		}
	} else if !cuisineOK || !flagOK {
		return false
	}

	if q.PriceNear != nil && math.Abs(float64(b.PriceOr(int(NullPrice)))-*q.PriceNear) > q.PriceTolerance {
		return false
	}
	if q.StarsNear != nil && math.Abs(b.StarsOr(NullStars)-*q.StarsNear) > q.StarsTolerance {
		return false
	}
	return true
}

func anyFlag(b *recommend.Business, flags []string) bool {
	for _, f := range flags {
		if b.AmbienceFlag(f) {
			return true
		}
	}
	return false
}
