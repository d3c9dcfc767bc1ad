// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

// Package itinerary turns scored candidates into a day-by-day plan.
//
// Each day is filled in a fixed order, shown with the default slot sizes:
//
//	breakfast   2  breakfast restaurants and cafes
//	lunch       3
//	dinner      3
//	activities     gym 1, shop 2, beauty_health 1, bar 1, nightlife 1
//	               (each only when the matching include flag is set)
//	dessert     2
//
// Every slot samples from the unused members of its category with
// selection.Sample. A single used set spans the whole plan, so a business
// is scheduled at most once; when a category runs dry later days get
// fewer entries.
package itinerary
