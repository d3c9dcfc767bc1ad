// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

// Package storage persists model artifacts.
//
// # Overview
//
// An artifact is any gob-encodable value (the policy checkpoint in
// practice) stored under a name with monotonically increasing versions.
// Every backend shares one encoding:
//   - Gob serialization for efficient Go type encoding
//   - Gzip compression to reduce storage footprint
//   - SHA-256 checksums for data integrity verification
//
// # Backends
//
//   - FileStore: one file per version, {name}_v{version}.gob.gz
//   - BadgerStore: versioned keys in an embedded BadgerDB
//   - BreakerStore: circuit breaker around any ArtifactStore
//
// # Atomic Replace
//
// Readers never observe a partially written artifact. FileStore writes to
// a temporary file in the same directory, syncs it, then renames it over
// the destination. BadgerStore writes the payload and the latest-version
// pointer in one transaction.
//
// # Usage Example
//
//	store, err := storage.NewFileStore("/data/models", 3)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = store.Save(ctx, "ppo_actor_critic", checkpoint, storage.ModelMetadata{
//	    Version:   checkpoint.Version,
//	    TrainedAt: checkpoint.TrainedAt,
//	})
//
//	var cp policy.Checkpoint
//	meta, err := store.Load(ctx, "ppo_actor_critic", &cp)
//	if errors.Is(err, storage.ErrNotFound) {
//	    // first start: keep the freshly initialized model
//	}
//
// # Thread Safety
//
// All store operations are safe for concurrent use.
package storage
