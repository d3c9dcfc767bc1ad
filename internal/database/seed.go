// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package database

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/tomtom215/travia/internal/logging"
	"github.com/tomtom215/travia/internal/recommend"
)

// demoVenue is a template expanded once per demo city.
type demoVenue struct {
	name       string
	cuisines   []string
	categories []string
	kind       string
	breakfast  bool
	dessert    bool
}

var demoVenues = []demoVenue{
	{"Trattoria Roma", []string{"Italian"}, []string{"Restaurants", "Italian"}, "restaurant", false, true},
	{"Pasta Fresca", []string{"Italian"}, []string{"Restaurants", "Italian"}, "restaurant", false, false},
	{"Luigi's Pizzeria", []string{"Pizza", "Italian"}, []string{"Restaurants", "Pizza"}, "restaurant", false, false},
	{"Taco Libre", []string{"Mexican"}, []string{"Restaurants", "Mexican"}, "restaurant", true, false},
	{"Cantina Verde", []string{"Mexican"}, []string{"Restaurants", "Mexican", "Bars"}, "restaurant", false, false},
	{"Golden Dragon", []string{"Chinese"}, []string{"Restaurants", "Chinese"}, "restaurant", false, false},
	{"Sushi Kaze", []string{"Japanese"}, []string{"Restaurants", "Sushi Bars"}, "restaurant", false, false},
	{"Bangkok Garden", []string{"Thai"}, []string{"Restaurants", "Thai"}, "restaurant", false, false},
	{"Spice Route", []string{"Indian"}, []string{"Restaurants", "Indian"}, "restaurant", false, false},
	{"Pho Saigon", []string{"Vietnamese"}, []string{"Restaurants", "Vietnamese"}, "restaurant", true, false},
	{"Smokehouse BBQ", []string{"American"}, []string{"Restaurants", "Barbeque"}, "restaurant", false, false},
	{"Olive & Fig", []string{"Mediterranean"}, []string{"Restaurants", "Mediterranean"}, "restaurant", false, true},
	{"Sunrise Diner", []string{"American"}, []string{"Restaurants", "Breakfast & Brunch"}, "restaurant", true, false},
	{"Green Bowl", []string{"Vegetarian"}, []string{"Restaurants", "Vegan"}, "restaurant", true, false},
	{"Morning Grind Coffee", []string{"Coffee"}, []string{"Coffee & Tea", "Cafes"}, "cafe", true, true},
	{"Sweet Crumb Bakery", []string{"Bakery"}, []string{"Bakeries", "Cafes"}, "cafe", true, true},
	{"Gelato Corner", []string{"Ice Cream"}, []string{"Ice Cream & Frozen Yogurt", "Desserts"}, "cafe", false, true},
	{"The Copper Tap", nil, []string{"Bars", "Pubs"}, "bar", false, false},
	{"Velvet Lounge", nil, []string{"Cocktail Bars", "Lounges"}, "bar", false, false},
	{"Neon Club", nil, []string{"Nightlife", "Dance Clubs"}, "nightlife", false, false},
	{"Iron Works Gym", nil, []string{"Gyms", "Fitness & Instruction"}, "gym", false, false},
	{"Main Street Market", nil, []string{"Shopping", "Gift Shops"}, "shop", false, false},
	{"Serenity Spa", nil, []string{"Beauty & Spas", "Day Spas"}, "beauty_health", false, false},
	{"Riverside Books", nil, []string{"Shopping", "Bookstores"}, "shop", false, false},
}

var demoCities = []struct {
	locality, region, country string
}{
	{"Austin", "TX", "US"},
	{"Portland", "OR", "US"},
	{"New Orleans", "LA", "US"},
}

// SeedDemoData loads a fixed demo catalog when the businesses table is
// empty. It is deterministic so repeated runs yield the same catalog.
func (db *DB) SeedDemoData(ctx context.Context) error {
	n, err := db.CountBusinesses(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		logging.Debug().Int("businesses", n).Msg("Businesses present, skipping demo seed")
		return nil
	}

	logging.Info().Msg("Seeding database with demo businesses...")
	rng := rand.New(rand.NewPCG(2026, 215)) //nolint:gosec // demo data, not security

	inserted := 0
	for ci, city := range demoCities {
		for vi, v := range demoVenues {
			b := demoBusiness(rng, ci, vi, v)
			b.Locality, b.Region, b.Country = city.locality, city.region, city.country
			if _, err := db.InsertBusiness(ctx, b); err != nil {
				return fmt.Errorf("seed %s in %s: %w", v.name, city.locality, err)
			}
			inserted++
		}
	}

	logging.Info().Int("businesses", inserted).Int("cities", len(demoCities)).Msg("Demo data seeded")
	return nil
}

func demoBusiness(rng *rand.Rand, city, idx int, v demoVenue) *recommend.Business {
	stars := float64(5+rng.IntN(6)) / 2 // 2.5 to 5.0
	price := 1 + rng.IntN(4)
	b := &recommend.Business{
		BusinessID:  fmt.Sprintf("demo-%d-%02d", city, idx),
		Name:        v.name,
		Address:     fmt.Sprintf("%d Main St", 100+rng.IntN(900)),
		Stars:       &stars,
		ReviewCount: 10 + rng.IntN(990),
		PriceRange:  &price,
		Cuisines:    v.cuisines,
		Categories:  v.categories,

		Classy:   rng.IntN(3) == 0,
		Casual:   rng.IntN(2) == 0,
		Romantic: rng.IntN(4) == 0,
		Touristy: rng.IntN(4) == 0,
		Trendy:   rng.IntN(3) == 0,

		GoodForKids: rng.IntN(2) == 0,
		Wifi:        rng.IntN(2) == 0,
		CreditCards: true,
	}
	if len(v.categories) > 0 {
		b.PrimaryCategory = v.categories[0]
	}

	switch v.kind {
	case "restaurant":
		b.IsRestaurant = true
		b.GoodForBreakfast = v.breakfast
		b.GoodForLunch = true
		b.GoodForDinner = true
		b.GoodForDessert = v.dessert
		b.Delivery = rng.IntN(2) == 0
		b.ServesBeer = rng.IntN(2) == 0
	case "cafe":
		b.IsCafe = true
		b.GoodForBreakfast = v.breakfast
		b.GoodForLunch = true
		b.GoodForDessert = v.dessert
	case "bar":
		b.IsBar = true
		b.ServesBeer = true
		b.GoodForKids = false
	case "nightlife":
		b.IsNightlife = true
		b.IsBar = true
		b.ServesBeer = true
		b.GoodForKids = false
	case "gym":
		b.IsGym = true
	case "shop":
		b.IsShop = true
	case "beauty_health":
		b.IsBeautyHealth = true
	}
	return b
}
