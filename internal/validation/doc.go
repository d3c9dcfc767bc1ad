// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

// Package validation validates API request bodies using go-playground/validator v10.
//
// A single validator instance is shared by all handlers. Field names in
// errors are the JSON names clients send, so a failed
// models.PreferencesRequest reports "travel_days" rather than "TravelDays".
//
// # Usage
//
//	var req models.FeedbackRequest
//	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
//	    // 400
//	}
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    // respond 400 with apiErr
//	}
//
// # Custom Tags
//
//   - notblank: string is non-empty after trimming whitespace
//   - cuisine: letters, spaces, '&' and '-' only, as used in cuisine names
package validation
