// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package policy

import (
	"math"

	"github.com/tomtom215/travia/internal/recommend"
	"github.com/tomtom215/travia/internal/recommend/features"
)

// Sample is one training example.
type Sample struct {
	State  []float64
	Action int
	Reward float64
}

// Batch is one user's training data.
type Batch struct {
	UserID  int64
	Samples []Sample
}

// Reward computes the shaped reward for one interaction. Bonuses apply to
// likes only.
func Reward(in *recommend.Interaction, prefs *recommend.UserPreferences, profile *recommend.Profile, cfg recommend.RewardConfig) float64 {
	if in.Type != recommend.InteractionLike {
		return cfg.Dislike
	}

	reward := cfg.Like
	b := &in.Business

	preferred := prefs.CuisineSet()
	switch {
	case b.ServesCuisine(preferred):
		reward += cfg.CuisineMatchBonus
	case profile != nil && learnedCuisine(b, profile, cfg.MetadataCuisineThreshold):
		reward += cfg.MetadataCuisineBonus
	}

	if profile != nil {
		for _, attr := range recommend.AmbienceAttributes {
			if b.AmbienceFlag(attr) && profile.Score(attr) > cfg.AmbienceThreshold {
				reward += cfg.AmbienceBonus
			}
		}
	}
	return reward
}

func learnedCuisine(b *recommend.Business, profile *recommend.Profile, threshold float64) bool {
	for _, c := range b.Cuisines {
		if profile.CuisineScore(c) > threshold {
			return true
		}
	}
	return false
}

// BuildBatch turns interactions into samples. The user vector is shared by
// all samples; each state combines it with the interacted business.
func BuildBatch(userID int64, prefs *recommend.UserPreferences, profile *recommend.Profile, interactions []recommend.Interaction, cfg *recommend.Config) Batch {
	user := features.User(prefs, profile)
	batch := Batch{UserID: userID, Samples: make([]Sample, 0, len(interactions))}
	for i := range interactions {
		in := &interactions[i]
		if !in.Type.Valid() {
			continue
		}
		batch.Samples = append(batch.Samples, Sample{
			State:  features.CombineDim(user, features.Business(&in.Business), cfg.Model.StateDim),
			Action: in.Type.Action(),
			Reward: Reward(in, prefs, profile, cfg.Rewards),
		})
	}
	return batch
}

// standardize returns (r - mean) / (std + eps) using the sample standard
// deviation.
func standardize(rewards []float64, eps float64) []float64 {
	n := float64(len(rewards))
	var mean float64
	for _, r := range rewards {
		mean += r
	}
	mean /= n

	var ss float64
	for _, r := range rewards {
		ss += (r - mean) * (r - mean)
	}
	std := 0.0
	if len(rewards) > 1 {
		std = math.Sqrt(ss / (n - 1))
	}

	out := make([]float64, len(rewards))
	for i, r := range rewards {
		out[i] = (r - mean) / (std + eps)
	}
	return out
}
