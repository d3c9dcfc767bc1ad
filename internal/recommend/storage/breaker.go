// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package storage

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/travia/internal/metrics"
)

// BreakerStore guards an ArtifactStore with a circuit breaker so a failing
// disk does not stall every training call.
//
// ErrNotFound is a normal answer and does not count as a failure.
type BreakerStore struct {
	next   ArtifactStore
	cb     *gobreaker.CircuitBreaker[*ModelMetadata]
	name   string
	logger zerolog.Logger
}

var _ ArtifactStore = (*BreakerStore)(nil)

// NewBreakerStore wraps next. The circuit opens after failureThreshold
// consecutive failures and probes again after timeout.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBreakerStore(next ArtifactStore, failureThreshold uint32, timeout time.Duration, logger zerolog.Logger) *BreakerStore {
	const cbName = "artifact-store"
	if failureThreshold == 0 {
		failureThreshold = 5
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	log := logger.With().Str("component", "artifact_breaker").Logger()

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[*ModelMetadata](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info().Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &BreakerStore{next: next, cb: cb, name: cbName, logger: log}
}

// Save implements ArtifactStore.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (b *BreakerStore) Save(ctx context.Context, name string, data any, meta ModelMetadata) error {
	_, err := b.execute(func() (*ModelMetadata, error) {
		return nil, b.next.Save(ctx, name, data, meta)
	})
	return err
}

// Load implements ArtifactStore.
func (b *BreakerStore) Load(ctx context.Context, name string, target any) (*ModelMetadata, error) {
	return b.execute(func() (*ModelMetadata, error) {
		return b.next.Load(ctx, name, target)
	})
}

// Exists implements ArtifactStore.
func (b *BreakerStore) Exists(ctx context.Context, name string) (bool, error) {
	var exists bool
	_, err := b.execute(func() (*ModelMetadata, error) {
		var err error
		exists, err = b.next.Exists(ctx, name)
		return nil, err
	})
	return exists, err
}

// State returns the current breaker state.
func (b *BreakerStore) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerStore) execute(fn func() (*ModelMetadata, error)) (*ModelMetadata, error) {
	result, err := b.cb.Execute(fn)
	switch {
	case err == nil, errors.Is(err, ErrNotFound):
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
		b.logger.Warn().Err(err).Msg("artifact store request rejected")
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		counts := b.cb.Counts()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(counts.ConsecutiveFailures))
	}
	return result, err
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
