// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package recommend

import (
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("defaults validate", func(t *testing.T) {
		if err := cfg.Validate(); err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
	})

	t.Run("model shape", func(t *testing.T) {
		if cfg.Model.StateDim != 18 {
			t.Errorf("Model.StateDim = %d, want 18", cfg.Model.StateDim)
		}
		if cfg.Model.ActionDim != 2 {
			t.Errorf("Model.ActionDim = %d, want 2", cfg.Model.ActionDim)
		}
	})

	t.Run("score weights sum to 1", func(t *testing.T) {
		sum := cfg.Scoring.PolicyWeight + cfg.Scoring.ValueWeight
		if sum < 0.999 || sum > 1.001 {
			t.Errorf("score weights sum = %f, want 1.0", sum)
		}
	})

	t.Run("preferred split", func(t *testing.T) {
		if cfg.Selection.PreferredRatio != 0.7 {
			t.Errorf("Selection.PreferredRatio = %f, want 0.7", cfg.Selection.PreferredRatio)
		}
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero state dim", func(c *Config) { c.Model.StateDim = 0 }, "model.state_dim"},
		{"three actions", func(c *Config) { c.Model.ActionDim = 3 }, "model.action_dim"},
		{"negative learning rate", func(c *Config) { c.Model.LearningRate = -1 }, "model.learning_rate"},
		{"beta out of range", func(c *Config) { c.Model.Beta2 = 1 }, "model.beta1"},
		{"zero epochs", func(c *Config) { c.Training.Epochs = 0 }, "training.epochs"},
		{"clip too wide", func(c *Config) { c.Training.ClipEpsilon = 1.5 }, "training.clip_epsilon"},
		{"single interaction threshold", func(c *Config) { c.Training.MinInteractions = 1 }, "training.min_interactions"},
		{"max below min", func(c *Config) { c.Training.MaxInteractions = 1 }, "training.max_interactions"},
		{"inverted value clamp", func(c *Config) { c.Scoring.ValueMax = -1 }, "scoring.value_max"},
		{"fallback out of range", func(c *Config) { c.Scoring.Fallback = 2 }, "scoring.fallback"},
		{"boost shrinks", func(c *Config) { c.Profile.BoostFactor = 0.5 }, "profile.boost_factor"},
		{"zero selection limit", func(c *Config) { c.Selection.Limit = 0 }, "selection.limit"},
		{"ratio above 1", func(c *Config) { c.Selection.PreferredRatio = 1.2 }, "selection.preferred_ratio"},
		{"zero baseline", func(c *Config) { c.Itinerary.SampleBaseline = 0 }, "itinerary.sample_baseline"},
		{"negative slot", func(c *Config) { c.Itinerary.Lunch = -1 }, "slot sizes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("Validate() error = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	cfg := DefaultConfig()
	clone := cfg.Clone()
	clone.Training.Epochs = 99

	if cfg.Training.Epochs == 99 {
		t.Error("Clone() shares state with original")
	}
}
