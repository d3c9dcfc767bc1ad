// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package policy

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/travia/internal/recommend/storage"
)

// ArtifactName is the storage name of the model checkpoint.
const ArtifactName = "ppo_actor_critic"

// LayerState is the serializable form of one dense layer.
type LayerState struct {
	In, Out int
	W, B    []float64
}

// OptimizerState is the serializable Adam state.
type OptimizerState struct {
	Step int
	M, V [][]float64
}

// Checkpoint holds model weights and optimizer state.
type Checkpoint struct {
	StateDim  int
	ActionDim int
	HiddenDim int

	Actor     []LayerState
	Critic    []LayerState
	Optimizer OptimizerState

	Version   int
	TrainedAt time.Time
}

// Snapshot returns a deep copy of the current weights and optimizer state.
func (m *Model) Snapshot() *Checkpoint {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

func (m *Model) snapshotLocked() *Checkpoint {
	opt := m.opt.clone()
	return &Checkpoint{
		StateDim:  m.modelCfg.StateDim,
		ActionDim: m.modelCfg.ActionDim,
		HiddenDim: m.modelCfg.HiddenDim,
		Actor:     layerStates(m.actor.clone()),
		Critic:    layerStates(m.critic.clone()),
		Optimizer: OptimizerState{Step: opt.step, M: opt.m, V: opt.v},
		Version:   m.version,
		TrainedAt: m.trainedAt,
	}
}

// Restore replaces weights and optimizer state with the checkpoint. The
// checkpoint must match the model shape.
func (m *Model) Restore(cp *Checkpoint) error {
	if cp == nil {
		return fmt.Errorf("%w: nil checkpoint", ErrDimensionMismatch)
	}
	if cp.StateDim != m.modelCfg.StateDim || cp.ActionDim != m.modelCfg.ActionDim || cp.HiddenDim != m.modelCfg.HiddenDim {
		return fmt.Errorf("%w: checkpoint %dx%dx%d, model %dx%dx%d", ErrDimensionMismatch,
			cp.StateDim, cp.HiddenDim, cp.ActionDim, m.modelCfg.StateDim, m.modelCfg.HiddenDim, m.modelCfg.ActionDim)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	actor, err := restoreMLP(m.actor, cp.Actor)
	if err != nil {
		return fmt.Errorf("restore actor: %w", err)
	}
	critic, err := restoreMLP(m.critic, cp.Critic)
	if err != nil {
		return fmt.Errorf("restore critic: %w", err)
	}

	opt := newAdam(append(actor.params(), critic.params()...), m.opt.lr, m.opt.beta1, m.opt.beta2, m.opt.eps)
	if len(cp.Optimizer.M) == len(opt.m) && len(cp.Optimizer.V) == len(opt.v) {
		if err := copyShaped(opt.m, cp.Optimizer.M); err != nil {
			return fmt.Errorf("restore optimizer: %w", err)
		}
		if err := copyShaped(opt.v, cp.Optimizer.V); err != nil {
			return fmt.Errorf("restore optimizer: %w", err)
		}
		opt.step = cp.Optimizer.Step
	}

	m.actor, m.critic, m.opt = actor, critic, opt
	m.version = cp.Version
	m.trainedAt = cp.TrainedAt
	return nil
}

func layerStates(n mlp) []LayerState {
	out := make([]LayerState, len(n.layers))
	for i, l := range n.layers {
		out[i] = LayerState{In: l.In, Out: l.Out, W: l.W, B: l.B}
	}
	return out
}

func restoreMLP(shape mlp, states []LayerState) (mlp, error) {
	if len(states) != len(shape.layers) {
		return mlp{}, fmt.Errorf("%w: %d layers, want %d", ErrDimensionMismatch, len(states), len(shape.layers))
	}
	out := mlp{layers: make([]layer, len(states))}
	for i, s := range states {
		want := shape.layers[i]
		if s.In != want.In || s.Out != want.Out || len(s.W) != want.In*want.Out || len(s.B) != want.Out {
			return mlp{}, fmt.Errorf("%w: layer %d", ErrDimensionMismatch, i)
		}
		if !finite(s.W...) || !finite(s.B...) {
			return mlp{}, fmt.Errorf("%w: layer %d", ErrNumerical, i)
		}
		out.layers[i] = layer{
			In:  s.In,
			Out: s.Out,
			W:   append([]float64(nil), s.W...),
			B:   append([]float64(nil), s.B...),
		}
	}
	return out, nil
}

func copyShaped(dst, src [][]float64) error {
	for i := range dst {
		if len(dst[i]) != len(src[i]) {
			return fmt.Errorf("%w: optimizer slot %d", ErrDimensionMismatch, i)
		}
		copy(dst[i], src[i])
	}
	return nil
}

// CheckpointStore persists and reloads model checkpoints.
type CheckpointStore interface {
	// Save persists the checkpoint atomically.
	Save(ctx context.Context, cp *Checkpoint) error

	// Load returns the latest checkpoint or storage.ErrNotFound.
	Load(ctx context.Context) (*Checkpoint, error)
}

// ArtifactCheckpoints stores checkpoints in a generic artifact store.
// Saves are serialized and only ever move the persisted version forward.
type ArtifactCheckpoints struct {
	store storage.ArtifactStore
	name  string

	mu sync.Mutex
	// saved is the highest checkpoint version written or loaded.
	saved int
}

// NewArtifactCheckpoints adapts an artifact store. An empty name uses
// ArtifactName.
func NewArtifactCheckpoints(store storage.ArtifactStore, name string) *ArtifactCheckpoints {
	if name == "" {
		name = ArtifactName
	}
	return &ArtifactCheckpoints{store: store, name: name}
}

// Save implements CheckpointStore. A checkpoint whose version is not above
// the last persisted one returns ErrStaleCheckpoint and writes nothing.
func (a *ArtifactCheckpoints) Save(ctx context.Context, cp *Checkpoint) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.saved > 0 && cp.Version <= a.saved {
		return fmt.Errorf("%w: v%d, persisted v%d", ErrStaleCheckpoint, cp.Version, a.saved)
	}

	meta := storage.ModelMetadata{
		Version:   cp.Version,
		TrainedAt: cp.TrainedAt,
	}
	if err := a.store.Save(ctx, a.name, cp, meta); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	a.saved = cp.Version
	return nil
}

// Load implements CheckpointStore.
func (a *ArtifactCheckpoints) Load(ctx context.Context) (*Checkpoint, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var cp Checkpoint
	if _, err := a.store.Load(ctx, a.name, &cp); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load checkpoint: %w", err)
	}
	if cp.Version > a.saved {
		a.saved = cp.Version
	}
	return &cp, nil
}

// LoadInto restores the latest stored checkpoint into m. It reports false
// when no checkpoint exists.
func LoadInto(ctx context.Context, store CheckpointStore, m *Model) (bool, error) {
	cp, err := store.Load(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := m.Restore(cp); err != nil {
		return false, err
	}
	return true, nil
}
