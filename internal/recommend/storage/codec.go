// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"
)

var (
	// ErrNotFound is returned when no artifact exists under a name.
	ErrNotFound = errors.New("artifact not found")

	// ErrChecksumMismatch is returned when stored data fails verification.
	ErrChecksumMismatch = errors.New("artifact checksum mismatch")
)

// ModelMetadata contains information about a stored artifact.
type ModelMetadata struct {
	// Name is the artifact name (e.g., "ppo_actor_critic").
	Name string `json:"name"`

	// Version is the artifact version (monotonically increasing).
	Version int `json:"version"`

	// TrainedAt is when the model was trained.
	TrainedAt time.Time `json:"trained_at"`

	// SavedAt is when the artifact was saved.
	SavedAt time.Time `json:"saved_at"`

	// Checksum is the SHA-256 checksum of the uncompressed data.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed size in bytes.
	SizeBytes int64 `json:"size_bytes"`
}

// ArtifactStore saves and loads named, versioned artifacts.
type ArtifactStore interface {
	// Save stores data under name. A zero meta.Version is assigned the
	// next version after the latest stored one.
	Save(ctx context.Context, name string, data any, meta ModelMetadata) error

	// Load decodes the latest version of name into target.
	Load(ctx context.Context, name string, target any) (*ModelMetadata, error)

	// Exists reports whether any version of name is stored.
	Exists(ctx context.Context, name string) (bool, error)
}

// storedFile is the on-disk and in-database format of an artifact.
type storedFile struct {
	Metadata       ModelMetadata
	CompressedData []byte
}

// encodeArtifact serializes, checksums and compresses data.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func encodeArtifact(data any, meta ModelMetadata) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(data); err != nil {
		return nil, fmt.Errorf("encode model: %w", err)
	}
	rawData := buf.Bytes()

	hash := sha256.Sum256(rawData)
	meta.Checksum = hex.EncodeToString(hash[:])

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(rawData); err != nil {
		return nil, fmt.Errorf("compress model: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return nil, fmt.Errorf("finalize compression: %w", err)
	}

	meta.SizeBytes = int64(compressed.Len())
	meta.SavedAt = time.Now()

	var out bytes.Buffer
	sf := storedFile{Metadata: meta, CompressedData: compressed.Bytes()}
	if err := gob.NewEncoder(&out).Encode(sf); err != nil {
		return nil, fmt.Errorf("write artifact: %w", err)
	}
	return out.Bytes(), nil
}

// decodeArtifact verifies and decodes an encoded artifact into target.
func decodeArtifact(r io.Reader, target any) (*ModelMetadata, error) {
	var sf storedFile
	if err := gob.NewDecoder(r).Decode(&sf); err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, fmt.Errorf("decompress model: %w", err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	rawData, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("read decompressed data: %w", err)
	}

	hash := sha256.Sum256(rawData)
	checksum := hex.EncodeToString(hash[:])
	if checksum != sf.Metadata.Checksum {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrChecksumMismatch, sf.Metadata.Checksum, checksum)
	}

	if err := gob.NewDecoder(bytes.NewReader(rawData)).Decode(target); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	return &sf.Metadata, nil
}

// Register gob types for serialization.
//
//nolint:gochecknoinits // gob.Register must be called in init for type registration
func init() {
	gob.Register(ModelMetadata{})
	gob.Register(storedFile{})
}
