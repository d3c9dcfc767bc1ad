// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package database

import (
	"github.com/tomtom215/travia/internal/recommend/engine"
	"github.com/tomtom215/travia/internal/recommend/selection"
)

var (
	_ engine.Store     = (*DB)(nil)
	_ selection.Source = (*DB)(nil)
)
