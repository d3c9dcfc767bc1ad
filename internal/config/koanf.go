// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/travia/internal/recommend"
)

// DefaultConfigPaths lists the config files searched in order. The first
// existing file is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/travia/config.yaml",
	"/etc/travia/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the base layer every other source overrides.
func defaultConfig() *Config {
	eng := recommend.DefaultConfig()
	return &Config{
		Server: ServerConfig{
			Port:            8000,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			Environment:     "development",
		},
		Database: DatabaseConfig{
			Path:                   "/data/travia.duckdb",
			MaxMemory:              "1GB",
			Threads:                0,
			PreserveInsertionOrder: true,
			MinLocationBusinesses:  10,
			SeedDemoData:           false,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			MaxBodyBytes:      1 << 20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Recommend: RecommendConfig{
			StateDim:             eng.Model.StateDim,
			HiddenDim:            eng.Model.HiddenDim,
			LearningRate:         eng.Model.LearningRate,
			Epochs:               eng.Training.Epochs,
			ClipEpsilon:          eng.Training.ClipEpsilon,
			CriticCoefficient:    eng.Training.CriticCoefficient,
			MinInteractions:      eng.Training.MinInteractions,
			MaxInteractions:      eng.Training.MaxInteractions,
			TrainingTimeout:      eng.Training.Timeout,
			PolicyWeight:         eng.Scoring.PolicyWeight,
			ValueWeight:          eng.Scoring.ValueWeight,
			LikeReward:           eng.Rewards.Like,
			DislikeReward:        eng.Rewards.Dislike,
			CuisineMatchBonus:    eng.Rewards.CuisineMatchBonus,
			MetadataCuisineBonus: eng.Rewards.MetadataCuisineBonus,
			AmbienceBonus:        eng.Rewards.AmbienceBonus,
			MaxHistory:           eng.Profile.MaxHistory,
			SelectionLimit:       eng.Selection.Limit,
			PreferredRatio:       eng.Selection.PreferredRatio,
			MinStars:             eng.Selection.MinStars,
			SampleBaseline:       eng.Itinerary.SampleBaseline,
			ContentFilterEnabled: eng.ContentFilter.Enabled,
			Seed:                 eng.Seed,
			ArtifactStore:        ArtifactStoreFile,
			ArtifactPath:         "/data/models",
			KeepVersions:         5,
			CheckpointInterval:   10 * time.Minute,
			BreakerFailures:      5,
			BreakerTimeout:       30 * time.Second,
			TrainingMode:         TrainingModeAsync,
			TrainingRate:         2,
			TrainingBurst:        4,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// environment variables, in increasing priority, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// sliceConfigPaths are keys that accept comma-separated env values.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		var parts []string
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) == 0 {
			continue
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variables (lower-cased) to koanf keys.
// Variables not listed are ignored.
var envMappings = map[string]string{
	"http_port":        "server.port",
	"http_host":        "server.host",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	"duckdb_path":             "database.path",
	"duckdb_max_memory":       "database.max_memory",
	"duckdb_threads":          "database.threads",
	"min_location_businesses": "database.min_location_businesses",
	"seed_demo_data":          "database.seed_demo_data",

	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"max_body_bytes":      "security.max_body_bytes",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"model_state_dim":             "recommend.state_dim",
	"model_hidden_dim":            "recommend.hidden_dim",
	"model_learning_rate":         "recommend.learning_rate",
	"training_epochs":             "recommend.epochs",
	"training_clip_epsilon":       "recommend.clip_epsilon",
	"training_critic_coefficient": "recommend.critic_coefficient",
	"training_min_interactions":   "recommend.min_interactions",
	"training_max_interactions":   "recommend.max_interactions",
	"training_timeout":            "recommend.training_timeout",
	"score_policy_weight":         "recommend.policy_weight",
	"score_value_weight":          "recommend.value_weight",
	"reward_like":                 "recommend.like_reward",
	"reward_dislike":              "recommend.dislike_reward",
	"reward_cuisine_match":        "recommend.cuisine_match_bonus",
	"reward_metadata_cuisine":     "recommend.metadata_cuisine_bonus",
	"reward_ambience":             "recommend.ambience_bonus",
	"profile_max_history":         "recommend.max_history",
	"selection_limit":             "recommend.selection_limit",
	"selection_preferred_ratio":   "recommend.preferred_ratio",
	"selection_min_stars":         "recommend.min_stars",
	"itinerary_sample_baseline":   "recommend.sample_baseline",
	"content_filter_enabled":      "recommend.content_filter_enabled",
	"recommend_seed":              "recommend.seed",
	"artifact_store":              "recommend.artifact_store",
	"artifact_path":               "recommend.artifact_path",
	"artifact_keep_versions":      "recommend.keep_versions",
	"checkpoint_interval":         "recommend.checkpoint_interval",
	"artifact_breaker_failures":   "recommend.breaker_failures",
	"artifact_breaker_timeout":    "recommend.breaker_timeout",
	"training_mode":               "recommend.training_mode",
	"training_rate":               "recommend.training_rate",
	"training_burst":              "recommend.training_burst",
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
