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
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/travia/internal/recommend"
)

// Result summarizes one training call.
type Result struct {
	UserID     int64         `json:"user_id"`
	Samples    int           `json:"samples"`
	Epochs     int           `json:"epochs"`
	ActorLoss  float64       `json:"actor_loss"`
	CriticLoss float64       `json:"critic_loss"`
	TotalLoss  float64       `json:"total_loss"`
	Version    int           `json:"version"`
	Skipped    bool          `json:"skipped"`
	Saved      bool          `json:"saved"`
	Duration   time.Duration `json:"duration"`
}

// Trainer applies clipped-surrogate policy-gradient updates to a Model.
type Trainer struct {
	model  *Model
	cfg    recommend.TrainingConfig
	stdEps float64
	store  CheckpointStore
	logger zerolog.Logger
}

// NewTrainer creates a trainer. store may be nil to skip persistence.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTrainer(model *Model, cfg *recommend.Config, store CheckpointStore, logger zerolog.Logger) *Trainer {
	if cfg == nil {
		cfg = recommend.DefaultConfig()
	}
	stdEps := cfg.Rewards.StdEpsilon
	if stdEps <= 0 {
		stdEps = 1e-8
	}
	return &Trainer{
		model:  model,
		cfg:    cfg.Training,
		stdEps: stdEps,
		store:  store,
		logger: logger.With().Str("component", "ppo_trainer").Logger(),
	}
}

// Train runs the configured number of epochs over batch and persists the
// resulting checkpoint. Batches below the minimum size are a no-op: the
// model is not touched and nothing is saved.
//
// On a numerical failure the model is rolled back to its state before the
// call. On cancellation completed epochs are kept but not persisted, and
// the returned Result carries the bumped version alongside the error.
func (t *Trainer) Train(ctx context.Context, batch Batch) (Result, error) {
	start := time.Now()
	res := Result{UserID: batch.UserID, Samples: len(batch.Samples)}

	if len(batch.Samples) < t.cfg.MinInteractions {
		res.Skipped = true
		t.logger.Debug().
			Int64("user_id", batch.UserID).
			Int("samples", len(batch.Samples)).
			Msg("not enough interactions for training")
		return res, nil
	}

	dim := t.model.StateDim()
	rewards := make([]float64, len(batch.Samples))
	for i, s := range batch.Samples {
		if len(s.State) != dim {
			return res, fmt.Errorf("%w: sample %d has %d entries, want %d", ErrDimensionMismatch, i, len(s.State), dim)
		}
		if s.Action < 0 || s.Action >= t.model.ActionDim() {
			return res, fmt.Errorf("sample %d: invalid action %d", i, s.Action)
		}
		rewards[i] = s.Reward
	}
	rewards = standardize(rewards, t.stdEps)

	cp, err := t.update(ctx, batch.Samples, rewards, &res)
	res.Duration = time.Since(start)
	if err != nil {
		return res, err
	}

	if t.store != nil {
		saveErr := t.store.Save(ctx, cp)
		switch {
		case errors.Is(saveErr, ErrStaleCheckpoint):
			// A concurrent training already persisted a newer version.
			t.logger.Debug().Int("version", res.Version).Msg("checkpoint superseded, not saved")
		case saveErr != nil:
			return res, fmt.Errorf("persist checkpoint: %w", saveErr)
		default:
			res.Saved = true
		}
	}

	t.logger.Info().
		Int64("user_id", batch.UserID).
		Int("samples", res.Samples).
		Int("epochs", res.Epochs).
		Float64("actor_loss", res.ActorLoss).
		Float64("critic_loss", res.CriticLoss).
		Int("version", res.Version).
		Dur("duration", res.Duration).
		Msg("training completed")

	return res, nil
}

// update runs all epochs under the exclusive model lock and returns a
// snapshot for persistence.
func (t *Trainer) update(ctx context.Context, samples []Sample, rewards []float64, res *Result) (*Checkpoint, error) {
	m := t.model
	m.mu.Lock()
	defer m.mu.Unlock()

	backupActor, backupCritic, backupOpt := m.actor.clone(), m.critic.clone(), m.opt.clone()
	rollback := func() {
		m.actor, m.critic, m.opt = backupActor, backupCritic, backupOpt
	}

	oldLogProbs := make([]float64, len(samples))
	for i, s := range samples {
		z := m.actor.output(s.State)
		_, lse := softmax(z)
		oldLogProbs[i] = z[s.Action] - lse
	}

	for epoch := 0; epoch < t.cfg.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			if epoch > 0 {
				m.version++
				m.trainedAt = time.Now()
				res.Version = m.version
			}
			return nil, fmt.Errorf("training interrupted after %d epochs: %w", epoch, err)
		}

		actorLoss, criticLoss, err := t.epoch(samples, rewards, oldLogProbs)
		if err != nil {
			rollback()
			return nil, fmt.Errorf("epoch %d: %w", epoch, err)
		}
		res.Epochs = epoch + 1
		res.ActorLoss = actorLoss
		res.CriticLoss = criticLoss
		res.TotalLoss = actorLoss + t.cfg.CriticCoefficient*criticLoss
	}

	m.version++
	m.trainedAt = time.Now()
	res.Version = m.version
	return m.snapshotLocked(), nil
}

// epoch computes the PPO loss over all samples, backpropagates it and
// applies one optimizer step. The caller holds the model lock.
//
//	advantage   = r - V(s)                     (treated as a constant)
//	ratio       = exp(log pi(a|s) - log pi_old(a|s))
//	actor loss  = -mean(min(ratio*A, clip(ratio, 1-eps, 1+eps)*A))
//	critic loss = mean((V(s) - r)^2)
func (t *Trainer) epoch(samples []Sample, rewards, oldLogProbs []float64) (actorLoss, criticLoss float64, err error) {
	m := t.model
	n := float64(len(samples))
	eps := t.cfg.ClipEpsilon
	coef := t.cfg.CriticCoefficient

	gActor := m.actor.zeros()
	gCritic := m.critic.zeros()

	for i, s := range samples {
		aActs := m.actor.forward(s.State)
		z := aActs[len(aActs)-1]
		probs, lse := softmax(z)
		logp := z[s.Action] - lse

		cActs := m.critic.forward(s.State)
		value := cActs[len(cActs)-1][0]

		adv := rewards[i] - value
		ratio := math.Exp(logp - oldLogProbs[i])
		clipped := clamp(ratio, 1-eps, 1+eps)
		surr1, surr2 := ratio*adv, clipped*adv

		actorLoss -= math.Min(surr1, surr2) / n
		criticLoss += (value - rewards[i]) * (value - rewards[i]) / n

		// The clipped branch has zero gradient with respect to the ratio.
		if surr1 <= surr2 {
			dRatio := -adv / n
			gz := make([]float64, len(z))
			for k := range z {
				var delta float64
				if k == s.Action {
					delta = 1
				}
				gz[k] = dRatio * ratio * (delta - probs[k])
			}
			m.actor.backward(aActs, gz, &gActor)
		}

		dValue := coef * 2 * (value - rewards[i]) / n
		m.critic.backward(cActs, []float64{dValue}, &gCritic)
	}

	if !finite(actorLoss, criticLoss) {
		return 0, 0, ErrNumerical
	}
	grads := append(gActor.params(), gCritic.params()...)
	for _, g := range grads {
		if !finite(g...) {
			return 0, 0, fmt.Errorf("%w: gradient", ErrNumerical)
		}
	}

	m.opt.update(m.paramsLocked(), grads)
	return actorLoss, criticLoss, nil
}
