// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package itinerary

import (
	"math/rand/v2"

	"github.com/rs/zerolog"

	"github.com/tomtom215/travia/internal/recommend"
	"github.com/tomtom215/travia/internal/recommend/selection"
)

// Travel day bounds. Preferences outside them use DefaultTravelDays.
const (
	DefaultTravelDays = 5
	MaxTravelDays     = 30
)

// Day is one day of the plan. Slots are never nil so they encode as [].
type Day struct {
	Day        int                        `json:"day"`
	Breakfast  []recommend.ScoredBusiness `json:"breakfast"`
	Lunch      []recommend.ScoredBusiness `json:"lunch"`
	Dinner     []recommend.ScoredBusiness `json:"dinner"`
	Activities []recommend.ScoredBusiness `json:"activities"`
	Dessert    []recommend.ScoredBusiness `json:"dessert"`
}

// Businesses returns every scheduled business of the day in slot order.
func (d *Day) Businesses() []recommend.ScoredBusiness {
	out := make([]recommend.ScoredBusiness, 0,
		len(d.Breakfast)+len(d.Lunch)+len(d.Dinner)+len(d.Activities)+len(d.Dessert))
	out = append(out, d.Breakfast...)
	out = append(out, d.Lunch...)
	out = append(out, d.Dinner...)
	out = append(out, d.Activities...)
	return append(out, d.Dessert...)
}

// Itinerary is a complete multi-day plan.
type Itinerary struct {
	Days []Day `json:"itinerary"`

	// TotalBusinesses is the number of candidates the plan was built from.
	TotalBusinesses int `json:"total_businesses"`

	// Scheduled is the number of distinct businesses placed in the plan.
	Scheduled int `json:"scheduled_businesses"`

	Preferences *recommend.UserPreferences `json:"user_preferences"`
}

// Builder assembles itineraries from scored candidates.
type Builder struct {
	cfg    recommend.ItineraryConfig
	logger zerolog.Logger
}

// NewBuilder creates a builder.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBuilder(cfg recommend.ItineraryConfig, logger zerolog.Logger) *Builder {
	return &Builder{
		cfg:    cfg,
		logger: logger.With().Str("component", "itinerary_builder").Logger(),
	}
}

// Build fills TravelDays days from scored. Each slot samples from the
// unused members of its category, and no business appears twice in the
// plan. Exhausted categories leave slots short rather than repeating.
func (b *Builder) Build(prefs *recommend.UserPreferences, scored []recommend.ScoredBusiness, rng *rand.Rand) *Itinerary {
	if prefs == nil {
		prefs = &recommend.UserPreferences{}
	}
	days := travelDays(prefs.TravelDays)
	cats := categorize(scored)
	opts := selection.SampleOptions{Baseline: b.cfg.SampleBaseline, PoolMultiplier: b.cfg.PoolMultiplier}

	used := make(map[string]struct{})
	fill := func(pool []int, limit int) []recommend.ScoredBusiness {
		picked := make([]recommend.ScoredBusiness, 0, limit)
		if limit <= 0 {
			return picked
		}
		available := make([]recommend.ScoredBusiness, 0, len(pool))
		seen := make(map[string]struct{}, len(pool))
		for _, i := range pool {
			key := scored[i].Business.Key()
			if _, ok := used[key]; ok {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			available = append(available, scored[i])
		}
		for _, s := range selection.Sample(available, limit, opts, rng) {
			used[s.Business.Key()] = struct{}{}
			picked = append(picked, s)
		}
		return picked
	}

	it := &Itinerary{
		Days:            make([]Day, 0, days),
		TotalBusinesses: len(scored),
		Preferences:     prefs,
	}
	for d := 1; d <= days; d++ {
		day := Day{Day: d}
		day.Breakfast = fill(cats.breakfast, b.cfg.Breakfast)
		day.Lunch = fill(cats.lunch, b.cfg.Lunch)
		day.Dinner = fill(cats.dinner, b.cfg.Dinner)

		day.Activities = make([]recommend.ScoredBusiness, 0)
		for _, a := range []struct {
			include bool
			pool    []int
			limit   int
		}{
			{prefs.IncludeGym, cats.gyms, b.cfg.Gym},
			{prefs.IncludeShop, cats.shops, b.cfg.Shop},
			{prefs.IncludeBeautyHealth, cats.beautyHealth, b.cfg.BeautyHealth},
			{prefs.IncludeBar, cats.bars, b.cfg.Bar},
			{prefs.IncludeNightlife, cats.nightlife, b.cfg.Nightlife},
		} {
			if a.include {
				day.Activities = append(day.Activities, fill(a.pool, a.limit)...)
			}
		}

		day.Dessert = fill(cats.desserts, b.cfg.Dessert)

		b.logger.Debug().
			Int("day", d).
			Int("breakfast", len(day.Breakfast)).
			Int("lunch", len(day.Lunch)).
			Int("dinner", len(day.Dinner)).
			Int("activities", len(day.Activities)).
			Int("dessert", len(day.Dessert)).
			Msg("Day planned")
		it.Days = append(it.Days, day)
	}
	it.Scheduled = len(used)
	return it
}

func travelDays(n int) int {
	if n < 1 || n > MaxTravelDays {
		return DefaultTravelDays
	}
	return n
}
