// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package selection

import (
	"math"
	"strings"

	"github.com/tomtom215/travia/internal/recommend"
	"github.com/tomtom215/travia/internal/recommend/features"
	"github.com/tomtom215/travia/internal/recommend/preferences"
)

// Content score contributions.
//
//	penalties
//	  exact disliked name               -1.0
//	  each disliked name keyword        -0.8
//	  disliked price range              -0.3
//	bonuses
//	  price match                       0.3 * max(0, 1 - |price-budget|/3)
//	  unknown price or budget           0.15
//	  family friendly matches kids flag 0.25
//	  ambience match                    0.2 (casual without classy: 0.1)
//	  travel style match                0.15
//	  restaurant / cafe                 0.1 / 0.08
//	  stars                             0.25 * stars/5
//	  reviews                           min(reviews/100, 0.1)
//	  each liked feature present        0.3 * share of likes
const (
	penaltyDislikedName    = -1.0
	penaltyDislikedKeyword = -0.8
	penaltyDislikedPrice   = -0.3

	bonusPriceScale   = 0.3
	bonusPriceUnknown = 0.15
	bonusFamily       = 0.25
	bonusAmbience     = 0.2
	bonusCasualish    = 0.1
	bonusTravelStyle  = 0.15
	bonusRestaurant   = 0.1
	bonusCafe         = 0.08
	bonusStarsScale   = 0.25
	bonusReviewsCap   = 0.1
	bonusLikedFeature = 0.3
)

// ContentScore is the signed content score of one candidate.
type ContentScore struct {
	Penalty float64 `json:"penalty"`
	Bonus   float64 `json:"bonus"`
}

// Total returns Penalty + Bonus.
func (c ContentScore) Total() float64 {
	return c.Penalty + c.Bonus
}

// ScoreContent computes the content score of b. It has no side effects.
func ScoreContent(b *recommend.Business, prefs *recommend.UserPreferences, patterns *preferences.Patterns) ContentScore {
	var s ContentScore
	if patterns == nil {
		patterns = &preferences.Patterns{}
	}

	if _, ok := patterns.DislikedNames[strings.TrimSpace(b.Name)]; ok {
		s.Penalty += penaltyDislikedName
	}
	for _, kw := range features.NameKeywords(b.Name) {
		if _, ok := patterns.DislikedKeywords[kw]; ok {
			s.Penalty += penaltyDislikedKeyword
		}
	}
	if b.PriceRange != nil {
		if _, ok := patterns.DislikedPriceRanges[*b.PriceRange]; ok {
			s.Penalty += penaltyDislikedPrice
		}
	}

	if prefs == nil {
		prefs = &recommend.UserPreferences{}
	}

	budget := float64(prefs.Budget)
	if patterns.PreferredBudget > 0 {
		budget = patterns.PreferredBudget
	}
	if b.PriceRange != nil && budget > 0 {
		diff := math.Abs(float64(*b.PriceRange) - budget)
		s.Bonus += math.Max(0, 1-diff/3.0) * bonusPriceScale
	} else {
		s.Bonus += bonusPriceUnknown
	}

	if prefs.FamilyFriendly == b.GoodForKids {
		s.Bonus += bonusFamily
	}

	switch {
	case prefs.AmbiencePreference == "classy" && b.Classy:
		s.Bonus += bonusAmbience
	case prefs.AmbiencePreference != "classy" && b.Casual:
		s.Bonus += bonusAmbience
	case prefs.AmbiencePreference != "classy" && !b.Classy:
		s.Bonus += bonusCasualish
	}

	if prefs.TravelStyle == "local" {
		if !b.Touristy {
			s.Bonus += bonusTravelStyle
		}
	} else if b.Touristy {
		s.Bonus += bonusTravelStyle
	}

	if b.IsRestaurant {
		s.Bonus += bonusRestaurant
	}
	if b.IsCafe {
		s.Bonus += bonusCafe
	}
	if b.Stars != nil {
		s.Bonus += *b.Stars / 5.0 * bonusStarsScale
	}
	if b.ReviewCount > 0 {
		s.Bonus += math.Min(float64(b.ReviewCount)/100.0, bonusReviewsCap)
	}

	for feature, share := range patterns.LikedFeatures {
		if hasFeature(b, feature) {
			s.Bonus += share * bonusLikedFeature
		}
	}
	return s
}

func hasFeature(b *recommend.Business, feature string) bool {
	switch feature {
	case preferences.FeatureWifi:
		return b.Wifi
	case preferences.FeatureClassy:
		return b.Classy
	case preferences.FeatureCasual:
		return b.Casual
	default:
		return false
	}
}

// ContentFilter rejects candidates whose learned-pattern penalty falls
// below a single threshold.
type ContentFilter struct {
	cfg recommend.ContentFilterConfig
}

// NewContentFilter creates a filter.
func NewContentFilter(cfg recommend.ContentFilterConfig) *ContentFilter {
	return &ContentFilter{cfg: cfg}
}

// Rejects reports whether the penalty side of score falls below the
// threshold. Bonuses are never negative, so Total is at or above Penalty
// and cannot cross the threshold on its own; they only order survivors.
func (f *ContentFilter) Rejects(score ContentScore) bool {
	return score.Penalty < f.cfg.RejectBelow
}

// Apply returns the candidates that pass, in input order, and the number
// rejected. Empty patterns or a disabled filter pass everything. When every
// candidate would be rejected the input is returned unchanged so a plan can
// still be built.
func (f *ContentFilter) Apply(candidates []recommend.Business, prefs *recommend.UserPreferences, patterns *preferences.Patterns) (kept []recommend.Business, rejected int) {
	if !f.cfg.Enabled || patterns.Empty() {
		return candidates, 0
	}

	kept = make([]recommend.Business, 0, len(candidates))
	for i := range candidates {
		if f.Rejects(ScoreContent(&candidates[i], prefs, patterns)) {
			rejected++
			continue
		}
		kept = append(kept, candidates[i])
	}
	if len(kept) == 0 {
		return candidates, 0
	}
	return kept, rejected
}
