// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

/*
Package api exposes the itinerary engine over HTTP using the Chi router.

Every JSON endpoint answers with models.APIResponse:

	{"status": "success", "data": {...}, "metadata": {"timestamp": "...", "query_time_ms": 12}}
	{"status": "error", "error": {"code": "NO_PREFERENCES", "message": "..."}, "metadata": {...}}

Routes (all under /api/v1):

	GET    /health                                   liveness and database status
	GET    /locations                                destinations with enough businesses
	POST   /users                                    create user
	GET    /users                                    list users (limit, offset)
	GET    /users/{id}                               get user
	POST   /users/{id}/preferences                   submit preferences
	GET    /users/{id}/preferences                   latest preferences
	POST   /users/{id}/itinerary                     generate itinerary
	POST   /users/{id}/feedback                      like or dislike a business
	GET    /users/{id}/interactions                  recent feedback
	DELETE /users/{id}/interactions/{businessID}     remove feedback (optional ?type=)
	GET    /users/{id}/metadata-preferences          learned profile
	GET    /users/{id}/model-status                  model and training readiness
	POST   /users/{id}/posts                         create post
	GET    /posts/{postID}                           get post
	PUT    /posts/{postID}/metadata                  attach venue metadata
	POST   /posts/{postID}/likes                     like post (?user_id=)
	DELETE /posts/{postID}/likes                     unlike post (?user_id=)

Prometheus metrics are served at /metrics outside the versioned prefix.

Domain errors map to statuses in one place (respondErr): ErrNotFound to 404,
ErrInvalidInput to 400, ErrNoPreferences and ErrNoBusinesses to 404 with
their own codes, database.ErrConflict to 409 and everything else to 500.
*/
package api
