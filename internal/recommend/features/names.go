// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package features

import "strings"

// fastFoodChains are matched as substrings of lower-cased names.
var fastFoodChains = []string{"mcdonald", "burger king", "subway", "taco bell", "kfc", "wendy"}

// cuisineRule maps name keywords to a cuisine. Rules in the same group are
// exclusive: the first match wins.
type cuisineRule struct {
	group    string
	cuisine  string
	keywords []string
}

var cuisineRules = []cuisineRule{
	{"drink", "Tea House", []string{"tea", "teatopia"}},
	{"drink", "Coffee", []string{"coffee", "cafe", "espresso", "starbucks"}},
	{"pizza", "Pizza", []string{"pizza", "pizzeria"}},
	{"mexican", "Mexican", []string{"mexican", "taco", "burrito", "cantina", "chipotle"}},
	{"asian", "Chinese", []string{"chinese", "china"}},
	{"asian", "Thai", []string{"thai"}},
	{"asian", "Japanese", []string{"sushi", "japanese", "ramen"}},
	{"asian", "Korean", []string{"korean"}},
	{"asian", "Indian", []string{"indian"}},
	{"asian", "Vietnamese", []string{"vietnamese", "pho"}},
	{"italian", "Italian", []string{"italian", "pasta", "trattoria"}},
	{"med", "Mediterranean", []string{"mediterranean", "greek"}},
	{"med", "Middle Eastern", []string{"middle eastern", "lebanese", "falafel"}},
	{"american", "American", []string{"burger", "bbq", "steakhouse"}},
	{"sweet", "Bakery", []string{"bakery", "pastry"}},
	{"sweet", "Ice Cream", []string{"ice cream", "gelato", "frozen"}},
	{"sweet", "Donuts", []string{"donut", "doughnut"}},
	{"deli", "Deli", []string{"deli", "sandwich"}},
	{"health", "Vegetarian", []string{"vegan", "vegetarian"}},
	{"health", "Healthy", []string{"organic", "healthy"}},
	{"chain", "Fast Food", fastFoodChains},
}

// CuisinesFromName infers cuisines from a business name. It is used when a
// record carries no cuisine list.
func CuisinesFromName(name string) []string {
	if name == "" {
		return nil
	}
	lower := strings.ToLower(name)

	var cuisines []string
	matched := make(map[string]bool)
	for _, rule := range cuisineRules {
		if matched[rule.group] {
			continue
		}
		if containsAny(lower, rule.keywords) {
			cuisines = append(cuisines, rule.cuisine)
			matched[rule.group] = true
		}
	}
	return cuisines
}

// NameKeywords extracts the coarse keywords used to learn dislike patterns.
func NameKeywords(name string) []string {
	if name == "" {
		return nil
	}
	lower := strings.ToLower(name)

	var keywords []string
	add := func(ok bool, kw string) {
		if ok {
			keywords = append(keywords, kw)
		}
	}
	add(strings.Contains(lower, "pizza"), "pizza")
	add(containsAny(lower, []string{"ice cream", "gelato", "frozen yogurt"}), "ice_cream")
	add(containsAny(lower, []string{"coffee", "cafe", "espresso", "starbucks"}), "coffee")
	add(strings.Contains(lower, "deli"), "deli")
	add(strings.Contains(lower, "bakery"), "bakery")
	add(containsAny(lower, fastFoodChains), "chain")
	add(containsAny(lower, []string{"bar", "pub", "tavern"}), "bar")
	add(containsAny(lower, []string{"fast", "quick", "express"}), "fast_food")
	return keywords
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
