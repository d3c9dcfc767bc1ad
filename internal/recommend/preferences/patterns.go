// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package preferences

import (
	"sort"
	"strings"

	"github.com/tomtom215/travia/internal/recommend"
	"github.com/tomtom215/travia/internal/recommend/features"
)

// Liked feature names.
const (
	FeatureWifi   = "wifi"
	FeatureClassy = "classy"
	FeatureCasual = "casual"
)

// likedFeatureShare is the share of likes a feature must exceed to be learned.
const likedFeatureShare = 0.5

// Patterns are explicit like/dislike patterns learned from direct business
// feedback. They drive the content pre-filter.
type Patterns struct {
	// DislikedNames holds exact names of disliked businesses.
	DislikedNames map[string]struct{}

	// DislikedKeywords holds name keywords seen in disliked businesses.
	DislikedKeywords map[string]struct{}

	// DislikedPriceRanges holds price ranges of disliked businesses.
	DislikedPriceRanges map[int]struct{}

	// LikedCuisines holds normalized cuisines of liked businesses.
	LikedCuisines []string

	// LikedFeatures maps a feature to its share of likes, when above 50%.
	LikedFeatures map[string]float64

	// PreferredBudget is the mean liked price range, or 0 when unknown.
	PreferredBudget float64

	// Interactions is the number of interactions the patterns were built from.
	Interactions int
}

// Empty reports whether nothing was learned.
func (p *Patterns) Empty() bool {
	return p == nil || p.Interactions == 0
}

// LearnPatterns extracts patterns from interactions. Fewer than
// minInteractions interactions yield empty patterns.
func LearnPatterns(interactions []recommend.Interaction, minInteractions int) *Patterns {
	p := &Patterns{
		DislikedNames:       make(map[string]struct{}),
		DislikedKeywords:    make(map[string]struct{}),
		DislikedPriceRanges: make(map[int]struct{}),
		LikedFeatures:       make(map[string]float64),
	}
	if len(interactions) < minInteractions {
		return p
	}
	p.Interactions = len(interactions)

	var (
		likes       int
		priceSum    float64
		priceCount  int
		featureHits = make(map[string]int)
		cuisines    = make(map[string]struct{})
	)

	for i := range interactions {
		b := &interactions[i].Business
		if interactions[i].Type == recommend.InteractionDislike {
			if name := strings.TrimSpace(b.Name); name != "" {
				p.DislikedNames[name] = struct{}{}
			}
			for _, kw := range features.NameKeywords(b.Name) {
				p.DislikedKeywords[kw] = struct{}{}
			}
			if b.PriceRange != nil {
				p.DislikedPriceRanges[*b.PriceRange] = struct{}{}
			}
			continue
		}

		likes++
		if b.PriceRange != nil {
			priceSum += float64(*b.PriceRange)
			priceCount++
		}
		if b.Wifi {
			featureHits[FeatureWifi]++
		}
		if b.Classy {
			featureHits[FeatureClassy]++
		}
		if b.Casual {
			featureHits[FeatureCasual]++
		}
		for _, c := range b.Cuisines {
			if key := recommend.CuisineKey(c); key != "" {
				cuisines[key] = struct{}{}
			}
		}
	}

	if priceCount > 0 {
		p.PreferredBudget = priceSum / float64(priceCount)
	}
	for feature, hits := range featureHits {
		if share := float64(hits) / float64(likes); share > likedFeatureShare {
			p.LikedFeatures[feature] = share
		}
	}
	for c := range cuisines {
		p.LikedCuisines = append(p.LikedCuisines, c)
	}
	sort.Strings(p.LikedCuisines)

	return p
}
