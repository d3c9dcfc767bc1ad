// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

// Package logging provides the process-wide zerolog logger for Travia.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Msg("Server starting")
//	logging.Error().Err(err).Int64("user_id", id).Msg("Training failed")
//
// Components take a child logger by value:
//
//	logger := logging.WithComponent("events")
//	logger.Debug().Int64("user_id", id).Msg("Training scheduled")
//
// # Request Context
//
// The API middleware stores a request ID in the context. Ctx returns a
// logger that carries it:
//
//	logging.Ctx(ctx).Warn().Err(err).Msg("Itinerary request failed")
//
// # slog Interop
//
// Libraries that accept *slog.Logger (the suture supervisor through
// sutureslog) are wired with NewSlogLogger so all output stays in one
// stream and format.
//
// Always terminate event chains with Msg or Send; an unterminated event is
// never written.
package logging
