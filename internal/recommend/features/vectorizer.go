// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

// Package features maps users and businesses to fixed-length numeric vectors
// and combines them into the model state.
//
// Both vectorizers are total: missing or invalid fields fall back to neutral
// defaults, and the vector layout never changes with data availability.
package features

import (
	"math"
	"strings"

	"github.com/tomtom215/travia/internal/recommend"
)

// Vector lengths.
const (
	UserDim     = 18
	BusinessDim = 25
	StateDim    = 18
)

// Neutral defaults for missing fields.
const (
	DefaultBudget      = 2
	DefaultTravelDays  = 5
	DefaultPriceRange  = 2
	DefaultStars       = 3.0
	DefaultReviewCount = 10
	invalidNumeric     = 0.5
)

// User returns the user feature vector:
//
//	[0]     budget / 4
//	[1]     travel_days / 10
//	[2..9]  tourist, noisy, family_friendly, hotel, hostel, airbnb, classy, good_for_kids
//	[10..17] learned romantic, good_for_kids, classy, casual, then american,
//	         chinese, italian, mexican cuisine scores (zero without a profile)
func User(prefs *recommend.UserPreferences, profile *recommend.Profile) []float64 {
	v := make([]float64, 0, UserDim)
	if prefs == nil {
		prefs = &recommend.UserPreferences{}
	}

	budget, days := prefs.Budget, prefs.TravelDays
	if budget == 0 {
		budget = DefaultBudget
	}
	if days == 0 {
		days = DefaultTravelDays
	}
	if budget < 1 || budget > 4 || days < 1 || days > 30 {
		v = append(v, invalidNumeric, invalidNumeric)
	} else {
		v = append(v, float64(budget)/4.0, unit(float64(days)/10.0))
	}

	v = append(v,
		flag(strings.EqualFold(prefs.TravelStyle, "tourist")),
		flag(strings.EqualFold(prefs.NoisePreference, "noisy")),
		flag(prefs.FamilyFriendly),
		flag(strings.EqualFold(prefs.AccommodationType, "hotel")),
		flag(strings.EqualFold(prefs.AccommodationType, "hostel")),
		flag(strings.EqualFold(prefs.AccommodationType, "airbnb")),
		flag(strings.EqualFold(prefs.AmbiencePreference, "classy")),
		flag(prefs.GoodForKids),
	)

	for _, attr := range recommend.AmbienceAttributes {
		v = append(v, learned(profile, attr))
	}
	for _, cuisine := range recommend.TrackedCuisines {
		v = append(v, learned(profile, cuisine))
	}
	return v
}

// Business returns the business feature vector:
//
//	[0..2]   price / 4, stars / 5, min(ln(reviews) / 10, 1)
//	[3..9]   restaurant, cafe, bar, gym, shop, beauty_health, nightlife
//	[10..13] breakfast, lunch, dinner, dessert
//	[14..21] classy, casual, romantic, touristy, good_for_kids, wifi, delivery, serves_beer
//	[22..24] reserved, always zero
func Business(b *recommend.Business) []float64 {
	v := make([]float64, 0, BusinessDim)
	if b == nil {
		b = &recommend.Business{}
	}

	price := b.PriceOr(DefaultPriceRange)
	if price < 1 || price > 4 {
		price = DefaultPriceRange
	}
	stars := b.StarsOr(DefaultStars)
	if math.IsNaN(stars) || stars < 0 || stars > 5 {
		stars = DefaultStars
	}
	reviews := b.ReviewCount
	if reviews <= 0 {
		reviews = DefaultReviewCount
	}

	v = append(v,
		float64(price)/4.0,
		stars/5.0,
		math.Min(math.Log(float64(reviews))/10.0, 1.0),
	)

	v = append(v,
		flag(IsRestaurant(b)),
		flag(b.IsCafe || b.HasCategory("cafe", "coffee")),
		flag(b.IsBar || b.HasCategory("bar", "nightlife")),
		flag(b.IsGym || b.HasCategory("gym", "fitness")),
		flag(b.IsShop || b.HasCategory("shop", "retail")),
		flag(b.IsBeautyHealth || b.HasCategory("beauty", "spa", "health")),
		flag(b.IsNightlife || b.HasCategory("nightlife", "club")),
	)

	v = append(v,
		flag(b.GoodForBreakfast || b.HasCategory("breakfast")),
		flag(b.GoodForLunch),
		flag(b.GoodForDinner),
		flag(b.GoodForDessert || b.HasCategory("dessert", "ice cream")),
	)

	v = append(v,
		flag(b.Classy),
		flag(b.Casual),
		flag(b.Romantic),
		flag(b.Touristy),
		flag(b.GoodForKids),
		flag(b.Wifi),
		flag(b.Delivery),
		flag(b.ServesBeer),
	)

	return append(v, 0, 0, 0)
}

// Combine builds the model state as the element-wise average of the user
// and business vectors over the first StateDim entries. Entries missing
// from either vector count as zero. The result always has StateDim entries
// in [0, 1].
func Combine(user, business []float64) []float64 {
	return CombineDim(user, business, StateDim)
}

// CombineDim is Combine with an explicit state dimension.
func CombineDim(user, business []float64, dim int) []float64 {
	state := make([]float64, dim)
	for i := range state {
		var u, b float64
		if i < len(user) {
			u = user[i]
		}
		if i < len(business) {
			b = business[i]
		}
		state[i] = unit((u + b) / 2.0)
	}
	return state
}

// IsRestaurant reports whether the business serves meals.
func IsRestaurant(b *recommend.Business) bool {
	return b.IsRestaurant ||
		b.HasCategory("restaurant", "food") ||
		strings.Contains(strings.ToLower(b.PrimaryCategory), "restaurant")
}

func learned(profile *recommend.Profile, attribute string) float64 {
	if profile == nil {
		return 0
	}
	return unit(profile.Score(attribute))
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// unit clamps x into [0, 1] and maps NaN to 0.
func unit(x float64) float64 {
	switch {
	case math.IsNaN(x), x < 0:
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}
