// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

// Package selection retrieves and samples itinerary candidates.
//
// # Candidate Tiers
//
// Selector.Select walks a tier list and returns the first non-empty result:
//
//	explicit cuisine:  preferred_cuisine -> location_fallback
//	no cuisine:        similar_liked -> metadata -> general -> location_fallback
//
// The preferred_cuisine and similar_liked tiers split the limit 70/30
// between personalized rows and unrelated variety so a user with strong
// stated preferences still sees something new.
//
// # Sampling
//
// Sample draws from the top-scored candidates without replacement, weighted
// by score plus a small baseline, so repeated runs for the same user vary.
//
// # Content Filter
//
// ScoreContent is a pure per-candidate score built from explicit
// preferences and learned like/dislike patterns. ContentFilter applies one
// threshold to it.
package selection
