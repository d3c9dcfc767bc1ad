// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package main

import (
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/tomtom215/travia/internal/config"
	"github.com/tomtom215/travia/internal/recommend/storage"
)

func TestOpenArtifactStore(t *testing.T) {
	tests := []struct {
		name       string
		kind       string
		wantErr    bool
		wantCloser bool
	}{
		{"default is file", "", false, false},
		{"file", config.ArtifactStoreFile, false, false},
		{"badger", config.ArtifactStoreBadger, false, true},
		{"unknown", "s3", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.RecommendConfig{
				ArtifactStore: tt.kind,
				ArtifactPath:  filepath.Join(t.TempDir(), "models"),
				KeepVersions:  2,
			}
			store, closer, err := openArtifactStore(cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("openArtifactStore() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if closer != nil {
				t.Cleanup(func() { _ = closer.Close() })
			}
			if (closer != nil) != tt.wantCloser {
				t.Errorf("openArtifactStore() closer = %v, wantCloser %v", closer, tt.wantCloser)
			}

			ctx := t.Context()
			if err := store.Save(ctx, "roundtrip", map[string]int{"a": 1}, storage.ModelMetadata{}); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			var got map[string]int
			if _, err := store.Load(ctx, "roundtrip", &got); err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if got["a"] != 1 {
				t.Errorf("Load() = %v, want a=1", got)
			}
		})
	}
}

type closeRecorder struct {
	name  string
	order *[]string
	err   error
}

func (c closeRecorder) Close() error {
	*c.order = append(*c.order, c.name)
	return c.err
}

func TestRecommendComponents_Close(t *testing.T) {
	var order []string
	errFirst := errors.New("first")
	comps := &RecommendComponents{closers: []io.Closer{
		closeRecorder{name: "store", order: &order, err: errors.New("store")},
		closeRecorder{name: "bus", order: &order, err: errFirst},
	}}

	err := comps.Close()
	if !errors.Is(err, errFirst) {
		t.Errorf("Close() error = %v, want %v", err, errFirst)
	}
	if len(order) != 2 || order[0] != "bus" || order[1] != "store" {
		t.Errorf("Close() order = %v, want [bus store]", order)
	}
}
