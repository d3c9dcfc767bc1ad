// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"

	"github.com/tomtom215/travia/internal/config"
	"github.com/tomtom215/travia/internal/eventprocessor"
	"github.com/tomtom215/travia/internal/logging"
	"github.com/tomtom215/travia/internal/recommend/engine"
	"github.com/tomtom215/travia/internal/recommend/storage"
	"github.com/tomtom215/travia/internal/supervisor"
)

// RecommendComponents holds the engine and the resources it owns.
type RecommendComponents struct {
	Engine *engine.Engine

	// closers run in reverse order on shutdown.
	closers []io.Closer
}

// Close releases the artifact store and event bus.
func (c *RecommendComponents) Close() error {
	var first error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// openArtifactStore opens the configured model store. The returned closer
// is nil when the store holds no resources.
func openArtifactStore(cfg *config.RecommendConfig) (storage.ArtifactStore, io.Closer, error) {
	switch cfg.ArtifactStore {
	case config.ArtifactStoreFile, "":
		fs, err := storage.NewFileStore(cfg.ArtifactPath, cfg.KeepVersions)
		if err != nil {
			return nil, nil, fmt.Errorf("open file artifact store: %w", err)
		}
		return fs, nil, nil
	case config.ArtifactStoreBadger:
		bs, err := storage.NewBadgerStore(cfg.ArtifactPath, cfg.KeepVersions)
		if err != nil {
			return nil, nil, fmt.Errorf("open badger artifact store: %w", err)
		}
		return bs, bs, nil
	default:
		return nil, nil, fmt.Errorf("unknown artifact store %q", cfg.ArtifactStore)
	}
}

// initRecommend builds the engine, restores the latest model and, in async
// mode, registers the training processor with the tree.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(ctx context.Context, cfg *config.Config, db engine.Store, tree *supervisor.SupervisorTree, logger zerolog.Logger) (*RecommendComponents, error) {
	rc := &cfg.Recommend
	comps := &RecommendComponents{}

	store, closer, err := openArtifactStore(rc)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		comps.closers = append(comps.closers, closer)
	}
	artifacts := storage.NewBreakerStore(store, rc.BreakerFailures, rc.BreakerTimeout, logger)

	eng, err := engine.New(rc.EngineConfig(), db, artifacts, logger)
	if err != nil {
		_ = comps.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("create engine: %w", err)
	}
	comps.Engine = eng

	loaded, err := eng.LoadModel(ctx)
	switch {
	case err != nil:
		logger.Warn().Err(err).Msg("Failed to load model, starting from a fresh network")
	case loaded:
		logger.Info().Int("version", eng.Model().Version()).Msg("Model restored")
	default:
		logger.Info().Msg("No stored model, starting from a fresh network")
	}

	if rc.TrainingMode != config.TrainingModeAsync {
		logger.Info().Msg("Training runs inline with feedback")
		return comps, nil
	}

	if err := initTrainingEvents(rc, eng, tree, comps); err != nil {
		_ = comps.Close() //nolint:errcheck // already failing
		return nil, err
	}
	logger.Info().
		Float64("rate", rc.TrainingRate).
		Int("burst", rc.TrainingBurst).
		Msg("Background training enabled")
	return comps, nil
}

// initTrainingEvents connects the engine to an in-process event bus and
// adds the consumer to the training layer.
func initTrainingEvents(rc *config.RecommendConfig, eng *engine.Engine, tree *supervisor.SupervisorTree, comps *RecommendComponents) error {
	wmLogger := watermill.NewSlogLogger(logging.NewSlogLogger("events"))

	bus := eventprocessor.NewBus(256, wmLogger)
	comps.closers = append(comps.closers, bus)

	scheduler := eventprocessor.NewTrainingScheduler(bus.Publisher())

	pcfg := eventprocessor.DefaultProcessorConfig()
	pcfg.RatePerSecond = rc.TrainingRate
	pcfg.Burst = rc.TrainingBurst

	proc, err := eventprocessor.NewProcessor(pcfg, bus.Subscriber(), scheduler, eng, wmLogger, logging.WithComponent("training"))
	if err != nil {
		return fmt.Errorf("create training processor: %w", err)
	}

	eng.SetScheduler(scheduler)
	tree.AddTrainingService(proc)
	return nil
}
