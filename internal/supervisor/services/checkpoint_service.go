// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Checkpointer persists in-memory state. Implementations should be cheap
// when nothing changed.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// NamedCheckpointer pairs a Checkpointer with a name for logs.
type NamedCheckpointer struct {
	Name string
	Checkpointer
}

// CheckpointService runs every checkpointer on an interval and once more
// when it stops.
type CheckpointService struct {
	targets  []NamedCheckpointer
	interval time.Duration
	timeout  time.Duration
	logger   zerolog.Logger
	name     string
}

// NewCheckpointService creates the service. A non-positive interval
// defaults to ten minutes.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCheckpointService(interval time.Duration, logger zerolog.Logger, targets ...NamedCheckpointer) *CheckpointService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &CheckpointService{
		targets:  targets,
		interval: interval,
		timeout:  time.Minute,
		logger:   logger.With().Str("service", "checkpoint").Logger(),
		name:     "checkpoint-service",
	}
}

// Serve implements suture.Service.
func (s *CheckpointService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", s.interval).Int("targets", len(s.targets)).Msg("checkpoint service running")

	for {
		select {
		case <-ctx.Done():
			// Final pass on a fresh context: ctx is already canceled.
			finalCtx, cancel := context.WithTimeout(context.Background(), s.timeout)
			s.runAll(finalCtx)
			cancel()
			s.logger.Info().Msg("checkpoint service stopped")
			return ctx.Err()
		case <-ticker.C:
			runCtx, cancel := context.WithTimeout(ctx, s.timeout)
			s.runAll(runCtx)
			cancel()
		}
	}
}

// RunOnce checkpoints every target and returns the number of failures.
func (s *CheckpointService) RunOnce(ctx context.Context) int {
	return s.runAll(ctx)
}

func (s *CheckpointService) runAll(ctx context.Context) int {
	failed := 0
	for _, t := range s.targets {
		start := time.Now()
		if err := t.Checkpoint(ctx); err != nil {
			failed++
			s.logger.Warn().Err(err).Str("target", t.Name).Msg("checkpoint failed")
			continue
		}
		s.logger.Debug().Str("target", t.Name).Dur("duration", time.Since(start)).Msg("checkpoint complete")
	}
	return failed
}

// String identifies the service in supervisor logs.
func (s *CheckpointService) String() string {
	return s.name
}
