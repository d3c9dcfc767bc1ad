// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package models

import (
	"strings"

	"github.com/tomtom215/travia/internal/recommend"
)

// CreateUserRequest registers an account.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,notblank,min=3,max=64"`
	Email    string `json:"email,omitempty" validate:"omitempty,email,max=254"`
}

// PreferencesRequest is one preference submission. Omitted fields take the
// defaults applied by ToPreferences.
type PreferencesRequest struct {
	Budget              int      `json:"budget,omitempty" validate:"omitempty,min=1,max=4"`
	TravelDays          int      `json:"travel_days,omitempty" validate:"omitempty,min=1,max=30"`
	TravelStyle         string   `json:"travel_style,omitempty" validate:"omitempty,max=32"`
	NoisePreference     string   `json:"noise_preference,omitempty" validate:"omitempty,max=32"`
	FamilyFriendly      bool     `json:"family_friendly"`
	AccommodationType   string   `json:"accommodation_type,omitempty" validate:"omitempty,max=32"`
	PreferredCuisine    []string `json:"preferred_cuisine,omitempty" validate:"omitempty,max=20,dive,omitempty,max=64,cuisine"`
	AmbiencePreference  string   `json:"ambience_preference,omitempty" validate:"omitempty,max=32"`
	GoodForKids         bool     `json:"good_for_kids"`
	IncludeGym          bool     `json:"include_gym"`
	IncludeBar          bool     `json:"include_bar"`
	IncludeNightlife    bool     `json:"include_nightlife"`
	IncludeBeautyHealth bool     `json:"include_beauty_health"`
	IncludeShop         bool     `json:"include_shop"`
	Location            string   `json:"location,omitempty" validate:"omitempty,max=128"`
}

// Defaults for omitted preference fields.
const (
	DefaultBudget            = 2
	DefaultTravelDays        = 5
	DefaultTravelStyle       = "tourist"
	DefaultNoisePreference   = "quiet"
	DefaultAccommodationType = "hotel"
	DefaultAmbience          = "casual"
)

// ToPreferences converts the request into a preference row for userID.
func (r *PreferencesRequest) ToPreferences(userID int64) *recommend.UserPreferences {
	p := &recommend.UserPreferences{
		UserID:              userID,
		Budget:              r.Budget,
		TravelDays:          r.TravelDays,
		TravelStyle:         strings.TrimSpace(r.TravelStyle),
		NoisePreference:     strings.TrimSpace(r.NoisePreference),
		FamilyFriendly:      r.FamilyFriendly,
		AccommodationType:   strings.TrimSpace(r.AccommodationType),
		AmbiencePreference:  strings.TrimSpace(r.AmbiencePreference),
		GoodForKids:         r.GoodForKids,
		IncludeGym:          r.IncludeGym,
		IncludeBar:          r.IncludeBar,
		IncludeNightlife:    r.IncludeNightlife,
		IncludeBeautyHealth: r.IncludeBeautyHealth,
		IncludeShop:         r.IncludeShop,
		Location:            strings.TrimSpace(r.Location),
	}
	for _, c := range r.PreferredCuisine {
		if c = strings.TrimSpace(c); c != "" {
			p.PreferredCuisine = append(p.PreferredCuisine, c)
		}
	}
	ApplyPreferenceDefaults(p)
	return p
}

// ApplyPreferenceDefaults fills zero-valued fields with the defaults.
func ApplyPreferenceDefaults(p *recommend.UserPreferences) {
	if p.Budget == 0 {
		p.Budget = DefaultBudget
	}
	if p.TravelDays == 0 {
		p.TravelDays = DefaultTravelDays
	}
	if p.TravelStyle == "" {
		p.TravelStyle = DefaultTravelStyle
	}
	if p.NoisePreference == "" {
		p.NoisePreference = DefaultNoisePreference
	}
	if p.AccommodationType == "" {
		p.AccommodationType = DefaultAccommodationType
	}
	if p.AmbiencePreference == "" {
		p.AmbiencePreference = DefaultAmbience
	}
}

// FeedbackRequest likes or dislikes a business.
type FeedbackRequest struct {
	BusinessID      int64  `json:"business_id" validate:"required,min=1"`
	InteractionType string `json:"interaction_type" validate:"required,oneof=like dislike"`
}

// ItineraryRequest asks for a plan. Locality defaults to the stored
// preference location.
type ItineraryRequest struct {
	Locality     string `json:"locality,omitempty" validate:"omitempty,max=128"`
	SkipTraining bool   `json:"skip_training,omitempty"`
}

// CreatePostRequest creates a social post.
type CreatePostRequest struct {
	BusinessID *int64 `json:"business_id,omitempty" validate:"omitempty,min=1"`
	Caption    string `json:"caption" validate:"max=2000"`
}

// PostMetadataRequest attaches venue metadata to a post. Scores are 0 or 1.
type PostMetadataRequest struct {
	Calm                 int    `json:"calm" validate:"min=0,max=1"`
	Noisy                int    `json:"noisy" validate:"min=0,max=1"`
	Romantic             int    `json:"romantic" validate:"min=0,max=1"`
	GoodForKids          int    `json:"good_for_kids" validate:"min=0,max=1"`
	Classy               int    `json:"classy" validate:"min=0,max=1"`
	Casual               int    `json:"casual" validate:"min=0,max=1"`
	FamilyFriendlyPlaces int    `json:"family_friendly_places" validate:"min=0,max=1"`
	CuisineType          string `json:"cuisine_type,omitempty" validate:"omitempty,max=64,cuisine"`
	PriceRange           string `json:"price_range,omitempty" validate:"omitempty,max=8"`
	Location             string `json:"location,omitempty" validate:"omitempty,max=128"`
}

// ToMetadata converts the request into post metadata.
func (r *PostMetadataRequest) ToMetadata(postID int64) *recommend.PostMetadata {
	return &recommend.PostMetadata{
		PostID:               postID,
		Calm:                 r.Calm,
		Noisy:                r.Noisy,
		Romantic:             r.Romantic,
		GoodForKids:          r.GoodForKids,
		Classy:               r.Classy,
		Casual:               r.Casual,
		FamilyFriendlyPlaces: r.FamilyFriendlyPlaces,
		CuisineType:          strings.TrimSpace(r.CuisineType),
		PriceRange:           strings.TrimSpace(r.PriceRange),
		Location:             strings.TrimSpace(r.Location),
	}
}
