// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package policy

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/travia/internal/recommend/storage"
)

type memoryCheckpoints struct {
	saved []*Checkpoint
	err   error
}

func (m *memoryCheckpoints) Save(_ context.Context, cp *Checkpoint) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, cp)
	return nil
}

func (m *memoryCheckpoints) Load(context.Context) (*Checkpoint, error) {
	if len(m.saved) == 0 {
		return nil, storage.ErrNotFound
	}
	return m.saved[len(m.saved)-1], nil
}

func likeDislikeBatch() Batch {
	return Batch{UserID: 1, Samples: []Sample{
		{State: uniformState(0.9), Action: 1, Reward: 2},
		{State: uniformState(0.1), Action: 0, Reward: -2},
	}}
}

func TestTrainer_BelowMinimumIsNoOp(t *testing.T) {
	m := NewModel(testConfig())
	store := &memoryCheckpoints{}
	trainer := NewTrainer(m, testConfig(), store, zerolog.Nop())
	before := m.Snapshot()

	res, err := trainer.Train(context.Background(), Batch{UserID: 1, Samples: []Sample{
		{State: uniformState(0.5), Action: 1, Reward: 2},
	}})
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	if !res.Skipped {
		t.Error("Train() Skipped = false, want true")
	}
	if len(store.saved) != 0 {
		t.Errorf("Train() saved %d checkpoints, want 0", len(store.saved))
	}
	if !reflect.DeepEqual(before, m.Snapshot()) {
		t.Error("Train() modified the model for an undersized batch")
	}
}

func TestTrainer_TrainUpdatesAndSaves(t *testing.T) {
	m := NewModel(testConfig())
	store := &memoryCheckpoints{}
	trainer := NewTrainer(m, testConfig(), store, zerolog.Nop())
	before := m.Snapshot()

	res, err := trainer.Train(context.Background(), likeDislikeBatch())
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	if res.Epochs != 5 {
		t.Errorf("Train() epochs = %d, want 5", res.Epochs)
	}
	if res.Version != 1 || m.Version() != 1 {
		t.Errorf("version = %d (model %d), want 1", res.Version, m.Version())
	}
	if !res.Saved || len(store.saved) != 1 {
		t.Fatalf("Train() saved = %v (%d checkpoints), want one save", res.Saved, len(store.saved))
	}
	if store.saved[0].Version != 1 {
		t.Errorf("saved checkpoint version = %d, want 1", store.saved[0].Version)
	}
	if reflect.DeepEqual(before.Actor, m.Snapshot().Actor) {
		t.Error("Train() left actor weights unchanged")
	}
	if !finite(res.ActorLoss, res.CriticLoss, res.TotalLoss) {
		t.Errorf("losses not finite: %+v", res)
	}
}

// TestTrainer_LearnsDirection checks that repeated training on two likes with
// different shaped rewards separates their like probabilities. The critic is
// zeroed and frozen so the advantage equals the standardized reward.
func TestTrainer_LearnsDirection(t *testing.T) {
	cfg := testConfig()
	cfg.Training.CriticCoefficient = 0
	cfg.Model.LearningRate = 0.01

	m := NewModel(cfg)
	head := &m.critic.layers[len(m.critic.layers)-1]
	for i := range head.W {
		head.W[i] = 0
	}
	for i := range head.B {
		head.B[i] = 0
	}
	trainer := NewTrainer(m, cfg, nil, zerolog.Nop())

	rewarded, plain := uniformState(0.9), uniformState(0.1)
	batch := Batch{UserID: 1, Samples: []Sample{
		{State: rewarded, Action: 1, Reward: 4},
		{State: plain, Action: 1, Reward: 2},
	}}
	gap := func() float64 {
		pr, _, err := m.Evaluate(rewarded)
		if err != nil {
			t.Fatalf("Evaluate() error = %v", err)
		}
		pp, _, err := m.Evaluate(plain)
		if err != nil {
			t.Fatalf("Evaluate() error = %v", err)
		}
		return pr - pp
	}

	start := gap()
	for i := 0; i < 10; i++ {
		if _, err := trainer.Train(context.Background(), batch); err != nil {
			t.Fatalf("Train() call %d error = %v", i, err)
		}
	}
	if end := gap(); end <= start {
		t.Errorf("like probability gap = %v after training, want > %v", end, start)
	}
	if _, v, _ := m.Evaluate(rewarded); v != 0 {
		t.Errorf("frozen critic value = %v, want 0", v)
	}
}

func TestTrainer_InvalidSamples(t *testing.T) {
	tests := []struct {
		name    string
		samples []Sample
		wantErr error
	}{
		{
			name: "wrong state length",
			samples: []Sample{
				{State: []float64{0.1}, Action: 1, Reward: 2},
				{State: uniformState(0.2), Action: 0, Reward: -2},
			},
			wantErr: ErrDimensionMismatch,
		},
		{
			name: "invalid action",
			samples: []Sample{
				{State: uniformState(0.1), Action: 5, Reward: 2},
				{State: uniformState(0.2), Action: 0, Reward: -2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewModel(testConfig())
			store := &memoryCheckpoints{}
			trainer := NewTrainer(m, testConfig(), store, zerolog.Nop())

			_, err := trainer.Train(context.Background(), Batch{UserID: 1, Samples: tt.samples})
			if err == nil {
				t.Fatal("Train() error = nil, want error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Train() error = %v, want %v", err, tt.wantErr)
			}
			if m.Version() != 0 || len(store.saved) != 0 {
				t.Errorf("invalid batch changed version to %d and saved %d", m.Version(), len(store.saved))
			}
		})
	}
}

func TestTrainer_NumericalFailureRollsBack(t *testing.T) {
	m := NewModel(testConfig())
	store := &memoryCheckpoints{}
	trainer := NewTrainer(m, testConfig(), store, zerolog.Nop())
	before := m.Snapshot()

	batch := likeDislikeBatch()
	batch.Samples[0].State[3] = math.Inf(1)

	_, err := trainer.Train(context.Background(), batch)
	if !errors.Is(err, ErrNumerical) {
		t.Fatalf("Train() error = %v, want ErrNumerical", err)
	}
	if !reflect.DeepEqual(before, m.Snapshot()) {
		t.Error("model not restored after numerical failure")
	}
	if len(store.saved) != 0 {
		t.Errorf("saved %d checkpoints after failure, want 0", len(store.saved))
	}
}

func TestTrainer_CancelledBeforeFirstEpoch(t *testing.T) {
	m := NewModel(testConfig())
	store := &memoryCheckpoints{}
	trainer := NewTrainer(m, testConfig(), store, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := trainer.Train(ctx, likeDislikeBatch())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Train() error = %v, want context.Canceled", err)
	}
	if m.Version() != 0 {
		t.Errorf("Version() = %d, want 0", m.Version())
	}
	if len(store.saved) != 0 {
		t.Errorf("saved %d checkpoints after cancellation, want 0", len(store.saved))
	}
}

// epochCancelCtx reports cancellation once Err has been consulted allowed
// times, which lets a test stop training between epochs.
type epochCancelCtx struct {
	context.Context
	allowed int
	calls   int
}

func (c *epochCancelCtx) Err() error {
	c.calls++
	if c.calls > c.allowed {
		return context.Canceled
	}
	return nil
}

func TestTrainer_CancelledAfterEpochReportsVersion(t *testing.T) {
	m := NewModel(testConfig())
	store := &memoryCheckpoints{}
	trainer := NewTrainer(m, testConfig(), store, zerolog.Nop())
	before := m.Snapshot()

	ctx := &epochCancelCtx{Context: context.Background(), allowed: 2}
	res, err := trainer.Train(ctx, likeDislikeBatch())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Train() error = %v, want context.Canceled", err)
	}
	if res.Epochs != 2 {
		t.Errorf("Train() epochs = %d, want 2", res.Epochs)
	}
	if res.Version != 1 || m.Version() != 1 {
		t.Errorf("version = %d (model %d), want 1", res.Version, m.Version())
	}
	if res.Saved || len(store.saved) != 0 {
		t.Errorf("interrupted training saved = %v (%d checkpoints), want none", res.Saved, len(store.saved))
	}
	if reflect.DeepEqual(before.Actor, m.Snapshot().Actor) {
		t.Error("completed epochs were discarded")
	}
}

func TestTrainer_SupersededSaveIsNotAnError(t *testing.T) {
	m := NewModel(testConfig())
	store := &memoryCheckpoints{err: fmt.Errorf("%w: v1, persisted v2", ErrStaleCheckpoint)}
	trainer := NewTrainer(m, testConfig(), store, zerolog.Nop())

	res, err := trainer.Train(context.Background(), likeDislikeBatch())
	if err != nil {
		t.Fatalf("Train() error = %v, want nil", err)
	}
	if res.Saved {
		t.Error("Train() Saved = true for a superseded checkpoint")
	}
	if res.Version != 1 {
		t.Errorf("Train() version = %d, want 1", res.Version)
	}
}

// TestTrainer_ConcurrentScoringSeesConsistentWeights scores from several
// goroutines while training runs. Run with -race.
func TestTrainer_ConcurrentScoringSeesConsistentWeights(t *testing.T) {
	m := NewModel(testConfig())
	var fallbacks atomic.Int64
	m.OnFallback(func(string) { fallbacks.Add(1) })
	trainer := NewTrainer(m, testConfig(), nil, zerolog.Nop())

	const scorers = 8
	var (
		wg     sync.WaitGroup
		scored atomic.Int64
		stop   = make(chan struct{})
		errs   = make(chan error, scorers)
	)
	for i := 0; i < scorers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			state := uniformState(float64(i+1) / (scorers + 1))
			for {
				select {
				case <-stop:
					return
				default:
				}
				if s := m.ScoreState(state); s < 0 || s > 1 {
					errs <- fmt.Errorf("ScoreState() = %v, want within [0, 1]", s)
					return
				}
				if _, _, err := m.Evaluate(state); err != nil {
					errs <- fmt.Errorf("Evaluate() error = %w", err)
					return
				}
				scored.Add(1)
			}
		}(i)
	}

	for i := 0; i < 10; i++ {
		if _, err := trainer.Train(context.Background(), likeDislikeBatch()); err != nil {
			t.Errorf("Train() call %d error = %v", i, err)
		}
	}
	close(stop)
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
	if got := fallbacks.Load(); got != 0 {
		t.Errorf("fallback scores = %d, want 0", got)
	}
	if scored.Load() == 0 {
		t.Error("no scores computed while training")
	}
	if m.Version() != 10 {
		t.Errorf("Version() = %d, want 10", m.Version())
	}
}

func TestTrainer_SaveFailureKeepsUpdate(t *testing.T) {
	m := NewModel(testConfig())
	store := &memoryCheckpoints{err: errors.New("disk full")}
	trainer := NewTrainer(m, testConfig(), store, zerolog.Nop())

	res, err := trainer.Train(context.Background(), likeDislikeBatch())
	if err == nil {
		t.Fatal("Train() error = nil, want persistence error")
	}
	if res.Saved {
		t.Error("Train() Saved = true after store failure")
	}
	if m.Version() != 1 {
		t.Errorf("Version() = %d, want 1", m.Version())
	}
}

func TestStandardize(t *testing.T) {
	tests := []struct {
		name    string
		rewards []float64
		want    []float64
	}{
		{"symmetric pair", []float64{2, -2}, []float64{1 / math.Sqrt2, -1 / math.Sqrt2}},
		{"constant rewards", []float64{2, 2, 2}, []float64{0, 0, 0}},
		{"single reward", []float64{3}, []float64{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := standardize(tt.rewards, 1e-8)
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-6 {
					t.Errorf("standardize()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
