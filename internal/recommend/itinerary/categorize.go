// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package itinerary

import (
	"strings"

	"github.com/tomtom215/travia/internal/recommend"
	"github.com/tomtom215/travia/internal/recommend/features"
)

// categories holds indices into the scored candidate slice. A business may
// appear in several categories.
type categories struct {
	breakfast    []int
	lunch        []int
	dinner       []int
	desserts     []int
	gyms         []int
	shops        []int
	beautyHealth []int
	bars         []int
	nightlife    []int
}

// categorize partitions candidates. Breakfast is breakfast restaurants
// followed by cafes; the builder drops the overlap.
func categorize(scored []recommend.ScoredBusiness) categories {
	var c categories
	var cafes []int
	for i := range scored {
		b := &scored[i].Business
		primary := strings.ToLower(b.PrimaryCategory)

		if features.IsRestaurant(b) {
			if b.GoodForBreakfast {
				c.breakfast = append(c.breakfast, i)
			}
			if b.GoodForLunch {
				c.lunch = append(c.lunch, i)
			}
			if b.GoodForDinner {
				c.dinner = append(c.dinner, i)
			}
		}
		if IsCafe(b) {
			cafes = append(cafes, i)
		}
		if IsDessert(b) {
			c.desserts = append(c.desserts, i)
		}
		if b.IsBar || b.HasCategory("bar", "nightlife") || strings.Contains(primary, "bar") {
			c.bars = append(c.bars, i)
		}
		if b.IsGym || b.HasCategory("gym", "fitness") || strings.Contains(primary, "gym") {
			c.gyms = append(c.gyms, i)
		}
		if b.IsShop || b.HasCategory("shop", "retail") || strings.Contains(primary, "shop") {
			c.shops = append(c.shops, i)
		}
		if b.IsBeautyHealth || b.HasCategory("beauty", "spa", "health") {
			c.beautyHealth = append(c.beautyHealth, i)
		}
		if b.IsNightlife || b.HasCategory("nightlife", "club") || strings.Contains(primary, "nightlife") {
			c.nightlife = append(c.nightlife, i)
		}
	}
	c.breakfast = append(c.breakfast, cafes...)
	return c
}

// IsCafe reports whether b is a cafe or coffee shop.
func IsCafe(b *recommend.Business) bool {
	return b.IsCafe ||
		b.HasCategory("cafe", "coffee") ||
		strings.Contains(strings.ToLower(b.PrimaryCategory), "cafe") ||
		b.NameContains("coffee")
}

// IsDessert reports whether b serves dessert.
func IsDessert(b *recommend.Business) bool {
	return b.GoodForDessert ||
		b.HasCategory("dessert", "ice cream", "bakery") ||
		b.NameContains("ice cream", "gelato", "bakery", "dessert")
}
