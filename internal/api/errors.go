// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/travia/internal/database"
	"github.com/tomtom215/travia/internal/models"
	"github.com/tomtom215/travia/internal/recommend"
)

// errorMapping is one row of the domain error table.
type errorMapping struct {
	target error
	status int
	code   string
}

// errorTable is checked in order. The first match wins.
var errorTable = []errorMapping{
	{recommend.ErrNoPreferences, http.StatusNotFound, models.ErrCodeNoPreferences},
	{recommend.ErrNoBusinesses, http.StatusNotFound, models.ErrCodeNoBusinesses},
	{recommend.ErrNotFound, http.StatusNotFound, models.ErrCodeNotFound},
	{recommend.ErrInvalidInput, http.StatusBadRequest, models.ErrCodeValidation},
	{database.ErrConflict, http.StatusConflict, models.ErrCodeConflict},
}

// classifyError returns the status and code for err. Unknown errors are
// internal.
func classifyError(err error) (int, string) {
	for _, m := range errorTable {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, models.ErrCodeInternal
}
