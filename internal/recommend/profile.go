// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package recommend

import "strings"

// PreferenceSuffix is appended to every learned attribute key.
const PreferenceSuffix = "_preference"

// Profile is the learned preference profile derived from a user's history.
// It is recomputed on demand and never persisted.
type Profile struct {
	// Scores maps "<attribute>_preference" to a value in [0, 1].
	Scores map[string]float64 `json:"scores"`

	// PreferredCuisines counts liked cuisines by normalized name.
	PreferredCuisines map[string]int `json:"preferred_cuisines"`

	// PreferredPriceRanges counts liked price ranges.
	PreferredPriceRanges map[string]int `json:"preferred_price_ranges"`

	// SampleSize is the number of history rows the profile was built from.
	SampleSize int `json:"sample_size"`
}

// Empty reports whether the profile carries no learned signal.
func (p Profile) Empty() bool {
	return len(p.Scores) == 0
}

// Score returns the learned score for attribute (without suffix), or 0.
func (p Profile) Score(attribute string) float64 {
	if p.Scores == nil {
		return 0
	}
	return p.Scores[attribute+PreferenceSuffix]
}

// CuisineScore returns the learned score for a cuisine name.
func (p Profile) CuisineScore(cuisine string) float64 {
	return p.Score(CuisineKey(cuisine))
}

// CuisineKey normalizes a cuisine name into an attribute name:
// lower-cased with spaces replaced by underscores.
func CuisineKey(cuisine string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(cuisine)), " ", "_")
}

// Ambience attributes shared by post metadata and businesses.
const (
	AttrRomantic    = "romantic"
	AttrGoodForKids = "good_for_kids"
	AttrClassy      = "classy"
	AttrCasual      = "casual"
)

// AmbienceAttributes lists the attributes used for the ambience bonus and
// the metadata block of the user vector, in vector order.
var AmbienceAttributes = []string{AttrRomantic, AttrGoodForKids, AttrClassy, AttrCasual}

// TrackedCuisines lists the cuisine scores carried in the user vector.
var TrackedCuisines = []string{"american", "chinese", "italian", "mexican"}

// AmbienceFlag returns the business flag matching an ambience attribute.
func (b *Business) AmbienceFlag(attribute string) bool {
	switch attribute {
	case AttrRomantic:
		return b.Romantic
	case AttrGoodForKids:
		return b.GoodForKids
	case AttrClassy:
		return b.Classy
	case AttrCasual:
		return b.Casual
	default:
		return false
	}
}
