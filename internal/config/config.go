// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package config

import (
	"time"

	"github.com/tomtom215/travia/internal/recommend"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
	Recommend RecommendConfig `koanf:"recommend"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	// Path is the database file, or ":memory:".
	Path                   string `koanf:"path"`
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads"` // 0 = runtime.NumCPU()
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"`

	// MinLocationBusinesses is the business count a locality needs to be
	// listed as a destination.
	MinLocationBusinesses int `koanf:"min_location_businesses"`

	// SeedDemoData loads a small fixture set when the businesses table is
	// empty.
	SeedDemoData bool `koanf:"seed_demo_data"`
}

// SecurityConfig holds HTTP hardening settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	MaxBodyBytes      int64         `koanf:"max_body_bytes"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Artifact store kinds.
const (
	ArtifactStoreFile   = "file"
	ArtifactStoreBadger = "badger"
)

// Training modes.
const (
	// TrainingModeSync trains inside the request that changed the history.
	TrainingModeSync = "sync"
	// TrainingModeAsync publishes a training event consumed in the
	// background.
	TrainingModeAsync = "async"
)

// RecommendConfig holds the engine tunables exposed to operators. Values
// not listed here keep the engine defaults.
type RecommendConfig struct {
	// Network and optimizer
	StateDim     int     `koanf:"state_dim"`
	HiddenDim    int     `koanf:"hidden_dim"`
	LearningRate float64 `koanf:"learning_rate"`

	// Training
	Epochs            int           `koanf:"epochs"`
	ClipEpsilon       float64       `koanf:"clip_epsilon"`
	CriticCoefficient float64       `koanf:"critic_coefficient"`
	MinInteractions   int           `koanf:"min_interactions"`
	MaxInteractions   int           `koanf:"max_interactions"`
	TrainingTimeout   time.Duration `koanf:"training_timeout"`

	// Scoring
	PolicyWeight float64 `koanf:"policy_weight"`
	ValueWeight  float64 `koanf:"value_weight"`

	// Rewards
	LikeReward           float64 `koanf:"like_reward"`
	DislikeReward        float64 `koanf:"dislike_reward"`
	CuisineMatchBonus    float64 `koanf:"cuisine_match_bonus"`
	MetadataCuisineBonus float64 `koanf:"metadata_cuisine_bonus"`
	AmbienceBonus        float64 `koanf:"ambience_bonus"`

	// Profile and selection
	MaxHistory           int     `koanf:"max_history"`
	SelectionLimit       int     `koanf:"selection_limit"`
	PreferredRatio       float64 `koanf:"preferred_ratio"`
	MinStars             float64 `koanf:"min_stars"`
	SampleBaseline       float64 `koanf:"sample_baseline"`
	ContentFilterEnabled bool    `koanf:"content_filter_enabled"`
	Seed                 int64   `koanf:"seed"`

	// Persistence
	ArtifactStore      string        `koanf:"artifact_store"`
	ArtifactPath       string        `koanf:"artifact_path"`
	KeepVersions       int           `koanf:"keep_versions"`
	CheckpointInterval time.Duration `koanf:"checkpoint_interval"`
	BreakerFailures    uint32        `koanf:"breaker_failures"`
	BreakerTimeout     time.Duration `koanf:"breaker_timeout"`

	// Background training
	TrainingMode  string  `koanf:"training_mode"`
	TrainingRate  float64 `koanf:"training_rate"` // trainings per second
	TrainingBurst int     `koanf:"training_burst"`
}

// EngineConfig expands the operator settings into a full engine
// configuration on top of the engine defaults.
func (r *RecommendConfig) EngineConfig() *recommend.Config {
	cfg := recommend.DefaultConfig()

	cfg.Model.StateDim = r.StateDim
	cfg.Model.HiddenDim = r.HiddenDim
	cfg.Model.LearningRate = r.LearningRate

	cfg.Training.Epochs = r.Epochs
	cfg.Training.ClipEpsilon = r.ClipEpsilon
	cfg.Training.CriticCoefficient = r.CriticCoefficient
	cfg.Training.MinInteractions = r.MinInteractions
	cfg.Training.MaxInteractions = r.MaxInteractions
	cfg.Training.Timeout = r.TrainingTimeout

	cfg.Scoring.PolicyWeight = r.PolicyWeight
	cfg.Scoring.ValueWeight = r.ValueWeight

	cfg.Rewards.Like = r.LikeReward
	cfg.Rewards.Dislike = r.DislikeReward
	cfg.Rewards.CuisineMatchBonus = r.CuisineMatchBonus
	cfg.Rewards.MetadataCuisineBonus = r.MetadataCuisineBonus
	cfg.Rewards.AmbienceBonus = r.AmbienceBonus

	cfg.Profile.MaxHistory = r.MaxHistory
	cfg.Selection.Limit = r.SelectionLimit
	cfg.Selection.PreferredRatio = r.PreferredRatio
	cfg.Selection.MinStars = r.MinStars
	cfg.Itinerary.SampleBaseline = r.SampleBaseline
	cfg.ContentFilter.Enabled = r.ContentFilterEnabled
	cfg.Seed = r.Seed

	return cfg
}
