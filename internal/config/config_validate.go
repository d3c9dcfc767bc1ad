// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package config

import (
	"fmt"
	"strings"

	"github.com/tomtom215/travia/internal/logging"
)

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validateRecommend()
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %v", c.Server.ShutdownTimeout)
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be non-negative, got %d", c.Database.Threads)
	}
	if c.Database.MinLocationBusinesses < 1 {
		return fmt.Errorf("MIN_LOCATION_BUSINESSES must be positive, got %d", c.Database.MinLocationBusinesses)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.IsProduction() {
		for _, o := range c.Security.CORSOrigins {
			if o == "*" {
				return fmt.Errorf("CORS_ORIGINS must not contain * in production")
			}
		}
	}
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs <= 0 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.Security.RateLimitWindow)
		}
	}
	if c.Security.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive, got %d", c.Security.MaxBodyBytes)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := &c.Recommend
	switch r.ArtifactStore {
	case ArtifactStoreFile, ArtifactStoreBadger:
	default:
		return fmt.Errorf("ARTIFACT_STORE must be %s or %s, got %q", ArtifactStoreFile, ArtifactStoreBadger, r.ArtifactStore)
	}
	if strings.TrimSpace(r.ArtifactPath) == "" {
		return fmt.Errorf("ARTIFACT_PATH is required")
	}
	if r.KeepVersions < 1 {
		return fmt.Errorf("ARTIFACT_KEEP_VERSIONS must be positive, got %d", r.KeepVersions)
	}
	if r.CheckpointInterval <= 0 {
		return fmt.Errorf("CHECKPOINT_INTERVAL must be positive, got %v", r.CheckpointInterval)
	}
	if r.BreakerFailures == 0 || r.BreakerTimeout <= 0 {
		return fmt.Errorf("artifact breaker needs a positive failure threshold and timeout")
	}

	switch r.TrainingMode {
	case TrainingModeSync:
	case TrainingModeAsync:
		if r.TrainingRate <= 0 {
			return fmt.Errorf("TRAINING_RATE must be positive in async mode, got %f", r.TrainingRate)
		}
		if r.TrainingBurst < 1 {
			return fmt.Errorf("TRAINING_BURST must be positive in async mode, got %d", r.TrainingBurst)
		}
	default:
		return fmt.Errorf("TRAINING_MODE must be %s or %s, got %q", TrainingModeSync, TrainingModeAsync, r.TrainingMode)
	}

	if err := r.EngineConfig().Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	return nil
}
