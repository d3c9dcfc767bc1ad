// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

// Package policy implements the actor-critic scorer shared by all users and
// its PPO-style online trainer.
//
// The actor maps a state vector to a distribution over {dislike, like}; the
// critic maps the same state to a scalar value estimate. Both are small
// ReLU networks trained together with one Adam optimizer. Gradients are
// computed by explicit backpropagation.
//
// # Thread Safety
//
// Model is safe for concurrent use. Scoring takes a shared lock; a training
// call holds the exclusive lock across all of its epochs.
package policy

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/tomtom215/travia/internal/recommend"
	"github.com/tomtom215/travia/internal/recommend/features"
)

var (
	// ErrDimensionMismatch is returned when a state or checkpoint does not
	// match the model shape.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrNumerical is returned when a forward pass or loss is not finite.
	ErrNumerical = errors.New("non-finite model output")

	// ErrStaleCheckpoint is returned when a checkpoint is not newer than
	// the one already persisted.
	ErrStaleCheckpoint = errors.New("checkpoint is not newer than the persisted version")
)

// Model is the global actor-critic scorer.
type Model struct {
	mu sync.RWMutex

	modelCfg   recommend.ModelConfig
	scoringCfg recommend.ScoringConfig

	actor  mlp
	critic mlp
	opt    *adam

	version   int
	trainedAt time.Time

	onFallback func(reason string)
}

// NewModel creates a randomly initialized model. Initialization is
// deterministic for a given seed.
func NewModel(cfg *recommend.Config) *Model {
	if cfg == nil {
		cfg = recommend.DefaultConfig()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = 42
	}
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // math/rand is fine for weight initialization

	mc := cfg.Model
	m := &Model{
		modelCfg:   mc,
		scoringCfg: cfg.Scoring,
		actor:      newMLP(mc.StateDim, mc.HiddenDim, mc.ActionDim, rng),
		critic:     newMLP(mc.StateDim, mc.HiddenDim, 1, rng),
	}
	m.opt = newAdam(m.paramsLocked(), mc.LearningRate, mc.Beta1, mc.Beta2, mc.AdamEpsilon)
	return m
}

// OnFallback registers a callback invoked whenever scoring degrades to the
// neutral fallback. It must be set before the model is shared.
func (m *Model) OnFallback(fn func(reason string)) {
	m.onFallback = fn
}

// StateDim returns the expected state length.
func (m *Model) StateDim() int {
	return m.modelCfg.StateDim
}

// ActionDim returns the number of actions.
func (m *Model) ActionDim() int {
	return m.modelCfg.ActionDim
}

// Version returns the number of completed training calls.
func (m *Model) Version() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.version
}

// TrainedAt returns when the model was last updated, or zero.
func (m *Model) TrainedAt() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trainedAt
}

// Evaluate returns the like probability and value estimate for state.
func (m *Model) Evaluate(state []float64) (pLike, value float64, err error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.evaluateLocked(state)
}

func (m *Model) evaluateLocked(state []float64) (pLike, value float64, err error) {
	if len(state) != m.modelCfg.StateDim {
		return 0, 0, fmt.Errorf("%w: state has %d entries, want %d", ErrDimensionMismatch, len(state), m.modelCfg.StateDim)
	}
	if !finite(state...) {
		return 0, 0, fmt.Errorf("%w: state", ErrNumerical)
	}
	probs, _ := softmax(m.actor.output(state))
	value = m.critic.output(state)[0]
	pLike = probs[recommend.ActionLike]
	if !finite(pLike, value) {
		return 0, 0, fmt.Errorf("%w: forward pass", ErrNumerical)
	}
	return pLike, value, nil
}

// ScoreState blends the policy and value outputs into a score in [0, 1].
// Any failure yields the configured neutral fallback.
func (m *Model) ScoreState(state []float64) (score float64) {
	defer func() {
		if r := recover(); r != nil {
			score = m.fallback("panic")
		}
	}()

	pLike, value, err := m.Evaluate(state)
	if err != nil {
		if errors.Is(err, ErrDimensionMismatch) {
			return m.fallback("dimension")
		}
		return m.fallback("numerical")
	}

	sc := m.scoringCfg
	v := clamp(value, sc.ValueMin, sc.ValueMax)
	return clamp(sc.PolicyWeight*pLike+sc.ValueWeight*v, 0, 1)
}

// Score scores a business for a user feature vector. Records without an
// identity score the neutral fallback.
func (m *Model) Score(user []float64, b *recommend.Business) float64 {
	if !b.Valid() {
		return m.fallback("invalid_business")
	}
	if len(user) == 0 {
		return m.fallback("invalid_user")
	}
	return m.ScoreState(features.CombineDim(user, features.Business(b), m.modelCfg.StateDim))
}

func (m *Model) fallback(reason string) float64 {
	if m.onFallback != nil {
		m.onFallback(reason)
	}
	return m.scoringCfg.Fallback
}

// paramsLocked returns actor then critic parameter slices.
func (m *Model) paramsLocked() [][]float64 {
	return append(m.actor.params(), m.critic.params()...)
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
