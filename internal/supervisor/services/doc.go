// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

// Package services adapts Travia components to suture.Service.
//
//   - HTTPServerService runs an *http.Server with graceful shutdown
//   - CheckpointService periodically persists the policy model and
//     checkpoints the database, with a final pass on shutdown
package services
