// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

// Package preferences derives learned preference profiles from a user's
// liked history.
//
// Post likes and business likes are analyzed by the same routine: each
// binary attribute scores the fraction of liked rows carrying it, and each
// cuisine scores its frequency, boosted by a constant factor (capped at 1)
// once it exceeds a threshold. Below a minimum number of likes the profile
// is empty so cold-start users get no personalization.
package preferences

import (
	"strconv"
	"strings"

	"github.com/tomtom215/travia/internal/recommend"
)

// postAttributes are the binary metadata columns of a liked post.
var postAttributes = []string{
	recommend.AttrRomantic, recommend.AttrGoodForKids, recommend.AttrClassy, recommend.AttrCasual,
	"calm", "noisy", "family_friendly_places",
}

// Analyzer builds learned profiles.
type Analyzer struct {
	config recommend.ProfileConfig
}

// NewAnalyzer creates an analyzer. Zero values fall back to defaults.
func NewAnalyzer(cfg recommend.ProfileConfig) *Analyzer {
	def := recommend.DefaultConfig().Profile
	if cfg.MinLikes <= 0 {
		cfg.MinLikes = def.MinLikes
	}
	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = def.MaxHistory
	}
	if cfg.BoostThreshold <= 0 {
		cfg.BoostThreshold = def.BoostThreshold
	}
	if cfg.BoostFactor < 1 {
		cfg.BoostFactor = def.BoostFactor
	}
	return &Analyzer{config: cfg}
}

// MaxHistory returns the number of liked posts the analyzer looks at.
func (a *Analyzer) MaxHistory() int {
	return a.config.MaxHistory
}

// sample is one liked row reduced to what the ratio analysis needs.
type sample struct {
	flags    map[string]bool
	cuisines []string
	price    string
}

// Analyze builds a profile from liked-post metadata, newest first.
// Rows beyond MaxHistory are ignored.
func (a *Analyzer) Analyze(history []recommend.PostMetadata) recommend.Profile {
	if len(history) > a.config.MaxHistory {
		history = history[:a.config.MaxHistory]
	}

	samples := make([]sample, 0, len(history))
	for i := range history {
		m := &history[i]
		s := sample{
			flags: map[string]bool{
				recommend.AttrRomantic:    m.Romantic == 1,
				recommend.AttrGoodForKids: m.GoodForKids == 1,
				recommend.AttrClassy:      m.Classy == 1,
				recommend.AttrCasual:      m.Casual == 1,
				"calm":                    m.Calm == 1,
				"noisy":                   m.Noisy == 1,
				"family_friendly_places":  m.FamilyFriendlyPlaces == 1,
			},
			price: strings.TrimSpace(m.PriceRange),
		}
		if c := strings.TrimSpace(m.CuisineType); c != "" {
			s.cuisines = []string{c}
		}
		samples = append(samples, s)
	}

	return a.ratioProfile(samples, postAttributes)
}

// AnalyzeBusinessLikes builds a profile from the liked businesses among
// interactions. Dislikes are ignored.
func (a *Analyzer) AnalyzeBusinessLikes(interactions []recommend.Interaction) recommend.Profile {
	samples := make([]sample, 0, len(interactions))
	for i := range interactions {
		in := &interactions[i]
		if in.Type != recommend.InteractionLike {
			continue
		}
		b := &in.Business
		s := sample{
			flags:    make(map[string]bool, len(recommend.AmbienceAttributes)),
			cuisines: dedupe(b.Cuisines),
		}
		for _, attr := range recommend.AmbienceAttributes {
			s.flags[attr] = b.AmbienceFlag(attr)
		}
		if b.PriceRange != nil {
			s.price = strconv.Itoa(*b.PriceRange)
		}
		samples = append(samples, s)
	}

	return a.ratioProfile(samples, recommend.AmbienceAttributes)
}

// ratioProfile scores binary attributes by frequency and cuisines by
// boosted frequency.
func (a *Analyzer) ratioProfile(samples []sample, attributes []string) recommend.Profile {
	if len(samples) < a.config.MinLikes {
		return recommend.Profile{}
	}

	total := float64(len(samples))
	profile := recommend.Profile{
		Scores:               make(map[string]float64, len(attributes)),
		PreferredCuisines:    make(map[string]int),
		PreferredPriceRanges: make(map[string]int),
		SampleSize:           len(samples),
	}

	for _, attr := range attributes {
		count := 0
		for i := range samples {
			if samples[i].flags[attr] {
				count++
			}
		}
		profile.Scores[attr+recommend.PreferenceSuffix] = float64(count) / total
	}

	for i := range samples {
		for _, c := range samples[i].cuisines {
			profile.PreferredCuisines[recommend.CuisineKey(c)]++
		}
		if samples[i].price != "" {
			profile.PreferredPriceRanges[samples[i].price]++
		}
	}

	for cuisine, count := range profile.PreferredCuisines {
		profile.Scores[cuisine+recommend.PreferenceSuffix] = a.Boost(float64(count) / total)
	}

	return profile
}

// Boost amplifies a cuisine ratio strictly above the threshold, capped at 1.
func (a *Analyzer) Boost(ratio float64) float64 {
	if ratio > a.config.BoostThreshold {
		ratio *= a.config.BoostFactor
	}
	if ratio > 1 {
		return 1
	}
	return ratio
}

// Merge overlays secondary scores onto primary where primary has none.
// Frequency maps are summed.
func Merge(primary, secondary recommend.Profile) recommend.Profile {
	if primary.Empty() {
		return secondary
	}
	if secondary.Empty() {
		return primary
	}

	out := recommend.Profile{
		Scores:               make(map[string]float64, len(primary.Scores)+len(secondary.Scores)),
		PreferredCuisines:    make(map[string]int),
		PreferredPriceRanges: make(map[string]int),
		SampleSize:           primary.SampleSize + secondary.SampleSize,
	}
	for k, v := range secondary.Scores {
		out.Scores[k] = v
	}
	for k, v := range primary.Scores {
		out.Scores[k] = v
	}
	for _, p := range []recommend.Profile{primary, secondary} {
		for k, v := range p.PreferredCuisines {
			out.PreferredCuisines[k] += v
		}
		for k, v := range p.PreferredPriceRanges {
			out.PreferredPriceRanges[k] += v
		}
	}
	return out
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		key := recommend.CuisineKey(v)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}
