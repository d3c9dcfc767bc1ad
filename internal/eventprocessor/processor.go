// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package eventprocessor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/travia/internal/metrics"
	"github.com/tomtom215/travia/internal/recommend/policy"
)

// Trainer runs one training pass for a user.
type Trainer interface {
	Train(ctx context.Context, userID int64) (policy.Result, error)
}

// ProcessorConfig controls the training consumer.
type ProcessorConfig struct {
	// RatePerSecond bounds training runs per second. Zero disables the
	// limit.
	RatePerSecond float64
	Burst         int

	// CloseTimeout is how long the router waits for an in-flight run.
	CloseTimeout time.Duration
}

// DefaultProcessorConfig returns production defaults.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		RatePerSecond: 2,
		Burst:         4,
		CloseTimeout:  30 * time.Second,
	}
}

// Processor consumes training requests. It implements suture.Service.
type Processor struct {
	cfg       ProcessorConfig
	sub       message.Subscriber
	scheduler *TrainingScheduler
	trainer   Trainer
	limiter   *rate.Limiter
	wmLogger  watermill.LoggerAdapter
	logger    zerolog.Logger
}

// NewProcessor creates a processor reading from sub. scheduler is told
// when the consumer is live and when each user's run completes.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewProcessor(cfg ProcessorConfig, sub message.Subscriber, scheduler *TrainingScheduler, trainer Trainer, wmLogger watermill.LoggerAdapter, logger zerolog.Logger) (*Processor, error) {
	if sub == nil || scheduler == nil || trainer == nil {
		return nil, errors.New("subscriber, scheduler and trainer are required")
	}
	if cfg.CloseTimeout <= 0 {
		cfg.CloseTimeout = 30 * time.Second
	}
	if wmLogger == nil {
		wmLogger = watermill.NopLogger{}
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Processor{
		cfg:       cfg,
		sub:       sub,
		scheduler: scheduler,
		trainer:   trainer,
		limiter:   rate.NewLimiter(limit, burst),
		wmLogger:  wmLogger,
		logger:    logger.With().Str("component", "training_processor").Logger(),
	}, nil
}

// Serve runs the router until ctx is canceled. A fresh router is built on
// every call so the supervisor can restart the service.
func (p *Processor) Serve(ctx context.Context) error {
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: p.cfg.CloseTimeout}, p.wmLogger)
	if err != nil {
		return fmt.Errorf("create watermill router: %w", err)
	}
	router.AddMiddleware(middleware.Recoverer)
	router.AddConsumerHandler("training-handler", TopicTrainingRequested, keepOpen{p.sub}, p.Handle)

	stopped := make(chan struct{})
	defer func() {
		close(stopped)
		p.scheduler.setRunning(false)
	}()
	go func() {
		select {
		case <-router.Running():
			p.scheduler.setRunning(true)
			p.logger.Info().Msg("Training processor running")
		case <-stopped:
		}
	}()

	if err := router.Run(ctx); err != nil {
		return fmt.Errorf("training router: %w", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}

// keepOpen stops the router from closing the shared bus on shutdown, so a
// restarted processor can subscribe again. Subscriptions still end when
// their context is canceled.
type keepOpen struct {
	message.Subscriber
}

func (keepOpen) Close() error { return nil }

// String implements fmt.Stringer for supervisor logs.
func (p *Processor) String() string {
	return "training-processor"
}

// Handle processes one training request. Training failures are logged
// and acknowledged; the engine treats training as best effort.
func (p *Processor) Handle(msg *message.Message) error {
	evt, err := UnmarshalTrainingRequested(msg)
	if err != nil {
		metrics.RecordEventProcessed(TopicTrainingRequested, err)
		p.logger.Warn().Err(err).Str("message_id", msg.UUID).Msg("Dropping invalid training event")
		return nil
	}
	defer p.scheduler.done(evt.UserID)

	ctx := msg.Context()
	if err := p.limiter.Wait(ctx); err != nil {
		metrics.RecordEventProcessed(TopicTrainingRequested, err)
		return nil
	}

	start := time.Now()
	res, err := p.trainer.Train(ctx, evt.UserID)
	metrics.RecordEventProcessed(TopicTrainingRequested, err)
	if err != nil {
		p.logger.Warn().
			Err(err).
			Int64("user_id", evt.UserID).
			Str("reason", evt.Reason).
			Msg("Background training failed")
		return nil
	}

	p.logger.Debug().
		Int64("user_id", evt.UserID).
		Str("reason", evt.Reason).
		Bool("skipped", res.Skipped).
		Int("version", res.Version).
		Dur("queued", start.Sub(evt.RequestedAt)).
		Dur("duration", time.Since(start)).
		Msg("Background training finished")
	return nil
}
