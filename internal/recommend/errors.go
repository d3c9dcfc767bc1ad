// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package recommend

import "errors"

var (
	// ErrNoPreferences is returned when a user has never submitted preferences.
	ErrNoPreferences = errors.New("no preferences found for user")

	// ErrNoBusinesses is returned when no business exists for a locality.
	ErrNoBusinesses = errors.New("no businesses found for location")

	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned for malformed request values.
	ErrInvalidInput = errors.New("invalid input")
)
