// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dgraph-io/badger/v4"
)

// Key layout:
//
//	artifact:{name}:v{version, zero padded}  encoded artifact
//	artifact:{name}:latest                   latest version number
const badgerArtifactKeyPrefix = "artifact:"

// BadgerStore keeps artifacts in an embedded BadgerDB.
type BadgerStore struct {
	db           *badger.DB
	keepVersions int
	ownsDB       bool
}

var _ ArtifactStore = (*BadgerStore)(nil)

// NewBadgerStore opens a BadgerDB at path. An empty path opens an
// in-memory database.
func NewBadgerStore(path string, keepVersions int) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil                // Suppress BadgerDB internal logs
	opts.ValueLogFileSize = 64 << 20 // 64MB, checkpoints are small
	opts.SyncWrites = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for artifacts: %w", err)
	}

	s := NewBadgerStoreFromDB(db, keepVersions)
	s.ownsDB = true
	return s, nil
}

// NewBadgerStoreFromDB creates a store from an existing BadgerDB
// connection. Close does not close a shared connection.
func NewBadgerStoreFromDB(db *badger.DB, keepVersions int) *BadgerStore {
	if keepVersions < 1 {
		keepVersions = 1
	}
	return &BadgerStore{db: db, keepVersions: keepVersions}
}

// Save implements ArtifactStore. The payload and the latest pointer are
// written in one transaction.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *BadgerStore) Save(ctx context.Context, name string, data any, meta ModelMetadata) error {
	if name == "" {
		return errors.New("artifact name cannot be empty")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		latest, err := latestVersion(txn, name)
		if err != nil {
			return err
		}
		if meta.Version <= latest {
			meta.Version = latest + 1
		}
		meta.Name = name

		payload, err := encodeArtifact(data, meta)
		if err != nil {
			return err
		}
		if err := txn.Set(versionKey(name, meta.Version), payload); err != nil {
			return fmt.Errorf("store artifact: %w", err)
		}
		if err := txn.Set(latestKey(name), []byte(strconv.Itoa(meta.Version))); err != nil {
			return fmt.Errorf("store latest version: %w", err)
		}

		if stale := meta.Version - s.keepVersions; stale > 0 {
			if err := txn.Delete(versionKey(name, stale)); err != nil {
				return fmt.Errorf("prune artifact: %w", err)
			}
		}
		return nil
	})
}

// Load implements ArtifactStore.
func (s *BadgerStore) Load(ctx context.Context, name string, target any) (*ModelMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		version, err := latestVersion(txn, name)
		if err != nil {
			return err
		}
		if version == 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}

		item, err := txn.Get(versionKey(name, version))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s v%d", ErrNotFound, name, version)
		}
		if err != nil {
			return fmt.Errorf("get artifact: %w", err)
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	return decodeArtifact(bytes.NewReader(raw), target)
}

// Exists implements ArtifactStore.
func (s *BadgerStore) Exists(_ context.Context, name string) (bool, error) {
	var version int
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		version, err = latestVersion(txn, name)
		return err
	})
	return version > 0, err
}

// Close closes the database if the store opened it.
func (s *BadgerStore) Close() error {
	if !s.ownsDB {
		return nil
	}
	return s.db.Close()
}

// latestVersion returns 0 when no version has been stored.
func latestVersion(txn *badger.Txn, name string) (int, error) {
	item, err := txn.Get(latestKey(name))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get latest version: %w", err)
	}

	var version int
	err = item.Value(func(val []byte) error {
		v, convErr := strconv.Atoi(string(val))
		version = v
		return convErr
	})
	if err != nil {
		return 0, fmt.Errorf("parse latest version: %w", err)
	}
	return version, nil
}

func versionKey(name string, version int) []byte {
	return []byte(fmt.Sprintf("%s%s:v%020d", badgerArtifactKeyPrefix, name, version))
}

func latestKey(name string) []byte {
	return []byte(badgerArtifactKeyPrefix + name + ":latest")
}
