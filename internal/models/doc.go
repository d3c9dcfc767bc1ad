// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

/*
Package models defines the API and persistence data structures that sit
outside the recommendation domain.

Recommendation types (businesses, preferences, interactions, post metadata)
live in the recommend package. This package holds the rest:

  - APIResponse, Metadata, APIError: the standard response envelope
  - User, Post, Location: records owned by the database package
  - Request types decoded from HTTP bodies and checked with
    go-playground/validator struct tags

Usage Example:

	var req models.FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
	    // ...
	}
	if err := validation.ValidateStruct(&req); err != nil {
	    // ...
	}
*/
package models
