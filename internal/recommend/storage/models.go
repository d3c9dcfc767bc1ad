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
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

const artifactExt = ".gob.gz"

// FileStore keeps artifacts as files in one directory.
type FileStore struct {
	baseDir      string
	keepVersions int
	mu           sync.RWMutex

	// Keep track of latest version per artifact
	versions map[string]int
}

var _ ArtifactStore = (*FileStore)(nil)

// NewFileStore creates a store at the given directory. keepVersions bounds
// how many versions of each artifact are retained; values below 1 keep one.
func NewFileStore(baseDir string, keepVersions int) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for model storage
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	if keepVersions < 1 {
		keepVersions = 1
	}

	s := &FileStore{
		baseDir:      baseDir,
		keepVersions: keepVersions,
		versions:     make(map[string]int),
	}

	if err := s.scanModels(); err != nil {
		return nil, fmt.Errorf("scan existing models: %w", err)
	}

	return s, nil
}

// scanModels records the latest version of every artifact on disk.
// Leftover temporary files from interrupted saves are removed.
func (s *FileStore) scanModels() error {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".tmp-") {
			_ = os.Remove(filepath.Join(s.baseDir, name)) //nolint:errcheck // best-effort cleanup
			continue
		}

		artifact, version, ok := parseArtifactFilename(name)
		if !ok {
			continue
		}
		if current, found := s.versions[artifact]; !found || version > current {
			s.versions[artifact] = version
		}
	}

	return nil
}

// parseArtifactFilename extracts name and version from "ppo_v12.gob.gz".
func parseArtifactFilename(filename string) (name string, version int, ok bool) {
	if !strings.HasSuffix(filename, artifactExt) {
		return "", 0, false
	}
	base := strings.TrimSuffix(filename, artifactExt)

	idx := strings.LastIndex(base, "_v")
	if idx <= 0 {
		return "", 0, false
	}
	if _, err := fmt.Sscanf(base[idx+2:], "%d", &version); err != nil || version <= 0 {
		return "", 0, false
	}
	return base[:idx], version, true
}

// Save implements ArtifactStore. The file appears under its final name
// only once fully written.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *FileStore) Save(ctx context.Context, name string, data any, meta ModelMetadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if meta.Version <= s.versions[name] {
		meta.Version = s.versions[name] + 1
	}
	meta.Name = name

	payload, err := encodeArtifact(data, meta)
	if err != nil {
		return err
	}

	if err := s.writeAtomic(s.modelPath(name, meta.Version), payload); err != nil {
		return err
	}
	s.versions[name] = meta.Version

	s.pruneLocked(name)
	return nil
}

// writeAtomic writes payload to a temp file in the target directory and
// renames it into place.
func (s *FileStore) writeAtomic(path string, payload []byte) error {
	tmp, err := os.CreateTemp(s.baseDir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) } //nolint:errcheck // best-effort cleanup of temp file

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close() //nolint:errcheck // write error takes precedence
		cleanup()
		return fmt.Errorf("write model file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close() //nolint:errcheck // sync error takes precedence
		cleanup()
		return fmt.Errorf("sync model file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close model file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("replace model file: %w", err)
	}
	return nil
}

// Load implements ArtifactStore.
func (s *FileStore) Load(ctx context.Context, name string, target any) (*ModelMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	version, ok := s.versions[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return s.loadLocked(ctx, name, version, target)
}

// LoadVersion loads a specific version of an artifact.
func (s *FileStore) LoadVersion(ctx context.Context, name string, version int, target any) (*ModelMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadLocked(ctx, name, version, target)
}

func (s *FileStore) loadLocked(ctx context.Context, name string, version int, target any) (*ModelMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(s.modelPath(name, version))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s v%d", ErrNotFound, name, version)
	}
	if err != nil {
		return nil, fmt.Errorf("open model file: %w", err)
	}

	return decodeArtifact(bytes.NewReader(raw), target)
}

// Exists implements ArtifactStore.
func (s *FileStore) Exists(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.versions[name]
	return ok, nil
}

// GetLatestVersion returns the latest version number for an artifact.
func (s *FileStore) GetLatestVersion(name string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	version, ok := s.versions[name]
	return version, ok
}

// pruneLocked removes versions beyond keepVersions. Best effort.
func (s *FileStore) pruneLocked(name string) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return
	}

	var versions []int
	for _, entry := range entries {
		artifact, v, ok := parseArtifactFilename(entry.Name())
		if ok && artifact == name {
			versions = append(versions, v)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(versions)))

	for i := s.keepVersions; i < len(versions); i++ {
		_ = os.Remove(s.modelPath(name, versions[i])) //nolint:errcheck // best-effort cleanup of old versions
	}
}

// modelPath returns the file path for an artifact version.
func (s *FileStore) modelPath(name string, version int) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s_v%d%s", name, version, artifactExt))
}
