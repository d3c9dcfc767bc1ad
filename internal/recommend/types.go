// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package recommend

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// InteractionType classifies explicit user feedback on a business.
type InteractionType string

const (
	// InteractionLike is positive feedback.
	InteractionLike InteractionType = "like"
	// InteractionDislike is negative feedback.
	InteractionDislike InteractionType = "dislike"
)

// Valid reports whether t is a known interaction type.
func (t InteractionType) Valid() bool {
	return t == InteractionLike || t == InteractionDislike
}

// Action returns the policy action index for the interaction (1 = like).
func (t InteractionType) Action() int {
	if t == InteractionLike {
		return ActionLike
	}
	return ActionDislike
}

// Policy action indices.
const (
	ActionDislike = 0
	ActionLike    = 1
)

// UserPreferences is one explicit preference submission. Rows are
// append-only; the most recent submission for a user is authoritative.
type UserPreferences struct {
	ID                  int64     `json:"id"`
	UserID              int64     `json:"user_id"`
	Budget              int       `json:"budget"`
	TravelDays          int       `json:"travel_days"`
	TravelStyle         string    `json:"travel_style"`
	NoisePreference     string    `json:"noise_preference"`
	FamilyFriendly      bool      `json:"family_friendly"`
	AccommodationType   string    `json:"accommodation_type"`
	PreferredCuisine    []string  `json:"preferred_cuisine"`
	AmbiencePreference  string    `json:"ambience_preference"`
	GoodForKids         bool      `json:"good_for_kids"`
	IncludeGym          bool      `json:"include_gym"`
	IncludeBar          bool      `json:"include_bar"`
	IncludeNightlife    bool      `json:"include_nightlife"`
	IncludeBeautyHealth bool      `json:"include_beauty_health"`
	IncludeShop         bool      `json:"include_shop"`
	Location            string    `json:"location"`
	CreatedAt           time.Time `json:"created_at"`
}

// CuisineSet returns the preferred cuisines lower-cased and de-duplicated.
func (p *UserPreferences) CuisineSet() map[string]struct{} {
	if p == nil {
		return nil
	}
	return NormalizeSet(p.PreferredCuisine)
}

// HasPreferredCuisine reports whether the user stated at least one cuisine.
func (p *UserPreferences) HasPreferredCuisine() bool {
	return len(p.CuisineSet()) > 0
}

// Business is the canonical point-of-interest record. It is populated once
// at the persistence boundary; downstream code reads fields directly.
type Business struct {
	ID         int64  `json:"id"`
	BusinessID string `json:"business_id"`
	Name       string `json:"name"`

	Locality string `json:"locality"`
	Region   string `json:"region"`
	Country  string `json:"country"`
	Address  string `json:"address,omitempty"`

	Stars       *float64 `json:"stars"`
	ReviewCount int      `json:"review_count"`
	PriceRange  *int     `json:"price_range"`

	IsRestaurant   bool `json:"is_restaurant"`
	IsCafe         bool `json:"is_cafe"`
	IsBar          bool `json:"is_bar"`
	IsGym          bool `json:"is_gym"`
	IsShop         bool `json:"is_shop"`
	IsBeautyHealth bool `json:"is_beauty_health"`
	IsNightlife    bool `json:"is_nightlife"`

	Classy   bool `json:"classy"`
	Casual   bool `json:"casual"`
	Romantic bool `json:"romantic"`
	Touristy bool `json:"touristy"`
	Trendy   bool `json:"trendy"`

	GoodForBreakfast bool `json:"good_for_breakfast"`
	GoodForLunch     bool `json:"good_for_lunch"`
	GoodForDinner    bool `json:"good_for_dinner"`
	GoodForDessert   bool `json:"good_for_dessert"`
	GoodForKids      bool `json:"good_for_kids"`

	Wifi        bool `json:"wifi"`
	Delivery    bool `json:"delivery"`
	CreditCards bool `json:"credit_cards"`
	ServesBeer  bool `json:"serves_beer"`

	Cuisines        []string          `json:"cuisines"`
	Categories      []string          `json:"categories"`
	PrimaryCategory string            `json:"primary_category,omitempty"`
	Hours           map[string]string `json:"hours,omitempty"`
}

// Valid reports whether the record carries an identity. Records without one
// cannot be ranked meaningfully.
func (b *Business) Valid() bool {
	return b != nil && (b.ID != 0 || b.BusinessID != "")
}

// Key returns the identifier used for de-duplication: the numeric ID when
// set, otherwise the external business ID.
func (b *Business) Key() string {
	if b.ID != 0 {
		return strconv.FormatInt(b.ID, 10)
	}
	return "ext:" + b.BusinessID
}

// StarsOr returns the star rating or def when unknown.
func (b *Business) StarsOr(def float64) float64 {
	if b.Stars == nil {
		return def
	}
	return *b.Stars
}

// PriceOr returns the price range or def when unknown.
func (b *Business) PriceOr(def int) int {
	if b.PriceRange == nil {
		return def
	}
	return *b.PriceRange
}

// HasCategory reports whether any category contains one of the keywords.
func (b *Business) HasCategory(keywords ...string) bool {
	for _, c := range b.Categories {
		lc := strings.ToLower(c)
		for _, k := range keywords {
			if strings.Contains(lc, k) {
				return true
			}
		}
	}
	return false
}

// NameContains reports whether the lower-cased name contains any keyword.
func (b *Business) NameContains(keywords ...string) bool {
	name := strings.ToLower(b.Name)
	for _, k := range keywords {
		if strings.Contains(name, k) {
			return true
		}
	}
	return false
}

// ServesCuisine reports whether any of the business cuisines is in set.
// set must contain lower-cased names.
func (b *Business) ServesCuisine(set map[string]struct{}) bool {
	for _, c := range b.Cuisines {
		if _, ok := set[strings.ToLower(strings.TrimSpace(c))]; ok {
			return true
		}
	}
	return false
}

// Interaction is one like/dislike of a business, joined with the business
// attributes at read time.
type Interaction struct {
	ID                 int64           `json:"id"`
	UserID             int64           `json:"user_id"`
	BusinessID         int64           `json:"business_id"`
	Type               InteractionType `json:"interaction_type"`
	ContextPreferences map[string]any  `json:"context_preferences,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`

	// Business holds the joined business attributes.
	Business Business `json:"business"`
}

// PostMetadata is the venue metadata attached to a liked social post.
type PostMetadata struct {
	PostID               int64     `json:"post_id"`
	Calm                 int       `json:"calm"`
	Noisy                int       `json:"noisy"`
	Romantic             int       `json:"romantic"`
	GoodForKids          int       `json:"good_for_kids"`
	Classy               int       `json:"classy"`
	Casual               int       `json:"casual"`
	FamilyFriendlyPlaces int       `json:"family_friendly_places"`
	CuisineType          string    `json:"cuisine_type"`
	PriceRange           string    `json:"price_range"`
	Location             string    `json:"location"`
	LikedAt              time.Time `json:"liked_at"`
}

// ScoredBusiness pairs a candidate with its model score.
type ScoredBusiness struct {
	Business Business `json:"business"`
	Score    float64  `json:"score"`
}

// HistorySource reads per-user history for the analyzer and the trainer.
// Implementations must return rows newest first and honor limit.
type HistorySource interface {
	// LatestPreferences returns the most recent preference row, or nil when
	// the user never submitted one.
	LatestPreferences(ctx context.Context, userID int64) (*UserPreferences, error)

	// RecentInteractions returns the user's interactions joined with
	// business attributes.
	RecentInteractions(ctx context.Context, userID int64, limit int) ([]Interaction, error)

	// RecentLikedMetadata returns metadata of posts the user liked.
	RecentLikedMetadata(ctx context.Context, userID int64, limit int) ([]PostMetadata, error)
}

// NormalizeSet lower-cases and trims values into a set, skipping blanks.
func NormalizeSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		set[v] = struct{}{}
	}
	return set
}
