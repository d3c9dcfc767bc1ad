// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

/*
Package database provides the DuckDB store behind the Travia API and the
recommendation engine.

Tables:

  - users: accounts with an internal BIGINT key and an external UUID
  - user_preferences: append-only preference submissions, newest wins
  - businesses: the point-of-interest catalog
  - user_interactions: likes and dislikes with a preference snapshot
  - posts, metadata, likes: the social feed feeding metadata learning

List-valued columns (cuisines, categories, hours, context preferences) are
stored as JSON text encoded with goccy/go-json, so the schema loads
without any DuckDB extension. Cuisine conditions match the quoted,
lower-cased value inside that text.

*DB implements engine.Store and selection.Source. Businesses translates a
selection.Query into one parameterized statement with the same semantics
as selection.MemorySource, which the tests check row for row.

History reads are capped: RecentInteractions at MaxInteractionRows and
RecentLikedMetadata at MaxMetadataRows, newest first with the row ID as
tie-breaker.

Every query records its duration and outcome through
metrics.RecordDBQuery.
*/
package database
