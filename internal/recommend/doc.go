// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

// Package recommend defines the shared domain model of the personalization
// engine: users' explicit preferences, businesses, like/dislike interactions,
// liked-post metadata and the learned preference profile derived from them.
//
// # Architecture
//
// The engine is split into leaf packages that depend only on this one:
//
//   - features: user and business vectorization, state combination
//   - preferences: learned profiles from liked posts and liked businesses
//   - policy: actor-critic scorer and its PPO-style online trainer
//   - selection: tiered preferred/variety candidate retrieval and sampling
//   - itinerary: day-by-day slot filling without repetition
//   - storage: atomic persistence of the model checkpoint
//   - engine: orchestration of the above for itinerary and feedback flows
//
// # Personalization
//
// One global model is fine-tuned across all users. Personalization comes from
// the input state vector, never from per-user weights.
//
// # Thread Safety
//
// The model is guarded by a single lock. Scoring takes the shared side; a
// training call holds the exclusive side for all of its epochs, so no reader
// observes a model mid-update.
package recommend
