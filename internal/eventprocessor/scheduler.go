// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package eventprocessor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/tomtom215/travia/internal/metrics"
)

// Bus is the in-process pub/sub shared by the scheduler and the processor.
type Bus struct {
	pubsub *gochannel.GoChannel
}

// NewBus creates a non-persistent GoChannel. Messages published while no
// subscriber exists are dropped.
func NewBus(buffer int64, logger watermill.LoggerAdapter) *Bus {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	if buffer <= 0 {
		buffer = 256
	}
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: buffer,
		}, logger),
	}
}

// Publisher returns the publishing side.
func (b *Bus) Publisher() message.Publisher { return b.pubsub }

// Subscriber returns the subscribing side.
func (b *Bus) Subscriber() message.Subscriber { return b.pubsub }

// Close closes the underlying pub/sub.
func (b *Bus) Close() error { return b.pubsub.Close() }

// TrainingScheduler publishes training requests and coalesces duplicates
// per user until the consumer picks them up.
type TrainingScheduler struct {
	pub message.Publisher

	mu      sync.Mutex
	pending map[int64]struct{}

	running atomic.Bool

	coalesced atomic.Int64
}

// NewTrainingScheduler creates a scheduler publishing to pub.
func NewTrainingScheduler(pub message.Publisher) *TrainingScheduler {
	return &TrainingScheduler{
		pub:     pub,
		pending: make(map[int64]struct{}),
	}
}

// ScheduleTraining queues a training run for userID. It returns nil
// without publishing when a run for the user is already queued.
func (s *TrainingScheduler) ScheduleTraining(_ context.Context, userID int64, reason string) error {
	if !s.running.Load() {
		return ErrNotRunning
	}

	s.mu.Lock()
	if _, ok := s.pending[userID]; ok {
		s.mu.Unlock()
		s.coalesced.Add(1)
		return nil
	}
	s.pending[userID] = struct{}{}
	s.mu.Unlock()

	msg, err := NewTrainingRequested(userID, reason).Marshal()
	if err != nil {
		s.done(userID)
		return err
	}
	if err := s.pub.Publish(TopicTrainingRequested, msg); err != nil {
		s.done(userID)
		return fmt.Errorf("publish training request: %w", err)
	}
	metrics.RecordEventPublished(TopicTrainingRequested)
	return nil
}

// Pending reports the number of users with a queued run.
func (s *TrainingScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Coalesced reports how many requests were folded into a queued run.
func (s *TrainingScheduler) Coalesced() int64 {
	return s.coalesced.Load()
}

// done clears the pending mark so the next request publishes again.
func (s *TrainingScheduler) done(userID int64) {
	s.mu.Lock()
	delete(s.pending, userID)
	s.mu.Unlock()
}

func (s *TrainingScheduler) setRunning(v bool) {
	s.running.Store(v)
}
