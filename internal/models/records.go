// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account. ID is the internal key used by every other table;
// ExternalID is the stable identifier exposed to clients that import users
// from elsewhere.
type User struct {
	ID         int64     `json:"id"`
	ExternalID uuid.UUID `json:"external_id"`
	Username   string    `json:"username"`
	Email      string    `json:"email,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Post is a social post, optionally about a business.
type Post struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	BusinessID *int64    `json:"business_id,omitempty"`
	Caption    string    `json:"caption"`
	Likes      int       `json:"likes"`
	CreatedAt  time.Time `json:"created_at"`
}

// Location is a locality with enough businesses to plan a trip.
type Location struct {
	Locality      string `json:"locality"`
	Region        string `json:"region"`
	Country       string `json:"country"`
	BusinessCount int    `json:"business_count"`
}

// Label renders the location as "Locality, Region, Country", skipping
// blank parts.
func (l Location) Label() string {
	out := ""
	for _, part := range []string{l.Locality, l.Region, l.Country} {
		if part == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += part
	}
	return out
}
