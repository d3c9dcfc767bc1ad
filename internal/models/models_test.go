// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package models

import (
	"reflect"
	"testing"
)

func TestPreferencesRequest_ToPreferences(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		p := (&PreferencesRequest{}).ToPreferences(7)
		if p.UserID != 7 {
			t.Errorf("UserID = %d, want 7", p.UserID)
		}
		if p.Budget != DefaultBudget || p.TravelDays != DefaultTravelDays {
			t.Errorf("Budget, TravelDays = %d, %d, want %d, %d", p.Budget, p.TravelDays, DefaultBudget, DefaultTravelDays)
		}
		if p.TravelStyle != "tourist" || p.NoisePreference != "quiet" || p.AccommodationType != "hotel" || p.AmbiencePreference != "casual" {
			t.Errorf("string defaults = %q %q %q %q", p.TravelStyle, p.NoisePreference, p.AccommodationType, p.AmbiencePreference)
		}
	})

	t.Run("explicit values kept", func(t *testing.T) {
		req := &PreferencesRequest{
			Budget:           4,
			TravelDays:       2,
			TravelStyle:      " luxury ",
			PreferredCuisine: []string{" Italian", "", "  ", "Thai"},
			IncludeBar:       true,
			Location:         "Austin ",
		}
		p := req.ToPreferences(1)
		if p.Budget != 4 || p.TravelDays != 2 {
			t.Errorf("Budget, TravelDays = %d, %d, want 4, 2", p.Budget, p.TravelDays)
		}
		if p.TravelStyle != "luxury" {
			t.Errorf("TravelStyle = %q, want luxury", p.TravelStyle)
		}
		if want := []string{"Italian", "Thai"}; !reflect.DeepEqual(p.PreferredCuisine, want) {
			t.Errorf("PreferredCuisine = %v, want %v", p.PreferredCuisine, want)
		}
		if !p.IncludeBar || p.Location != "Austin" {
			t.Errorf("IncludeBar, Location = %v, %q", p.IncludeBar, p.Location)
		}
	})
}

func TestPostMetadataRequest_ToMetadata(t *testing.T) {
	req := &PostMetadataRequest{Romantic: 1, Classy: 1, CuisineType: " Italian ", PriceRange: "$$"}
	m := req.ToMetadata(12)
	if m.PostID != 12 || m.Romantic != 1 || m.Classy != 1 || m.Calm != 0 {
		t.Errorf("ToMetadata() = %+v", m)
	}
	if m.CuisineType != "Italian" {
		t.Errorf("CuisineType = %q, want Italian", m.CuisineType)
	}
}

func TestLocation_Label(t *testing.T) {
	tests := []struct {
		loc  Location
		want string
	}{
		{Location{Locality: "Austin", Region: "TX", Country: "US"}, "Austin, TX, US"},
		{Location{Locality: "Paris", Country: "FR"}, "Paris, FR"},
		{Location{Locality: "Nowhere"}, "Nowhere"},
		{Location{}, ""},
	}
	for _, tt := range tests {
		if got := tt.loc.Label(); got != tt.want {
			t.Errorf("Label() = %q, want %q", got, tt.want)
		}
	}
}
