// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package recommend

import (
	"fmt"
	"time"
)

// Config contains all tunables of the personalization engine. The numeric
// defaults are empirically chosen and kept as configuration.
type Config struct {
	// Model describes the actor-critic network.
	Model ModelConfig `json:"model"`

	// Training contains the PPO update parameters.
	Training TrainingConfig `json:"training"`

	// Scoring controls how policy and value outputs are blended.
	Scoring ScoringConfig `json:"scoring"`

	// Rewards contains the per-sample reward shaping constants.
	Rewards RewardConfig `json:"rewards"`

	// Profile controls the learned preference analyzer.
	Profile ProfileConfig `json:"profile"`

	// Selection controls candidate retrieval and the preferred/variety split.
	Selection SelectionConfig `json:"selection"`

	// Itinerary controls slot sizes and weighted sampling.
	Itinerary ItineraryConfig `json:"itinerary"`

	// ContentFilter controls the learned-pattern pre-filter.
	ContentFilter ContentFilterConfig `json:"content_filter"`

	// Seed seeds weight initialization and sampling. Zero uses a fixed default.
	Seed int64 `json:"seed"`
}

// ModelConfig describes the network shape and optimizer.
type ModelConfig struct {
	StateDim     int     `json:"state_dim"`
	ActionDim    int     `json:"action_dim"`
	HiddenDim    int     `json:"hidden_dim"`
	LearningRate float64 `json:"learning_rate"`
	Beta1        float64 `json:"beta1"`
	Beta2        float64 `json:"beta2"`
	AdamEpsilon  float64 `json:"adam_epsilon"`
}

// TrainingConfig contains PPO parameters and history bounds.
type TrainingConfig struct {
	// Epochs is the number of gradient steps per training call.
	Epochs int `json:"epochs"`

	// ClipEpsilon bounds the probability ratio to [1-eps, 1+eps].
	ClipEpsilon float64 `json:"clip_epsilon"`

	// CriticCoefficient weights the critic loss in the total loss.
	CriticCoefficient float64 `json:"critic_coefficient"`

	// MinInteractions is the smallest history that triggers an update.
	MinInteractions int `json:"min_interactions"`

	// MaxInteractions caps the history read per training call.
	MaxInteractions int `json:"max_interactions"`

	// Timeout bounds one training call including history reads.
	Timeout time.Duration `json:"timeout"`
}

// ScoringConfig blends the policy and value heads into one score.
type ScoringConfig struct {
	PolicyWeight float64 `json:"policy_weight"`
	ValueWeight  float64 `json:"value_weight"`
	ValueMin     float64 `json:"value_min"`
	ValueMax     float64 `json:"value_max"`
	Fallback     float64 `json:"fallback"`
}

// RewardConfig contains reward shaping constants.
type RewardConfig struct {
	Like                     float64 `json:"like"`
	Dislike                  float64 `json:"dislike"`
	CuisineMatchBonus        float64 `json:"cuisine_match_bonus"`
	MetadataCuisineBonus     float64 `json:"metadata_cuisine_bonus"`
	MetadataCuisineThreshold float64 `json:"metadata_cuisine_threshold"`
	AmbienceBonus            float64 `json:"ambience_bonus"`
	AmbienceThreshold        float64 `json:"ambience_threshold"`
	StdEpsilon               float64 `json:"std_epsilon"`
}

// ProfileConfig controls the ratio analysis over liked history.
type ProfileConfig struct {
	MinLikes       int     `json:"min_likes"`
	MaxHistory     int     `json:"max_history"`
	BoostThreshold float64 `json:"boost_threshold"`
	BoostFactor    float64 `json:"boost_factor"`
}

// SelectionConfig controls the tiered candidate selector.
type SelectionConfig struct {
	Limit              int     `json:"limit"`
	PreferredRatio     float64 `json:"preferred_ratio"`
	MinStars           float64 `json:"min_stars"`
	SimilarLikesWindow int     `json:"similar_likes_window"`
	MaxLikedCuisines   int     `json:"max_liked_cuisines"`
	AmbienceRatio      float64 `json:"ambience_ratio"`
	PriceTolerance     int     `json:"price_tolerance"`
	StarsTolerance     float64 `json:"stars_tolerance"`
	MetadataThreshold  float64 `json:"metadata_threshold"`
	FallbackLimit      int     `json:"fallback_limit"`
}

// ItineraryConfig holds per-day slot sizes and the sampling policy.
type ItineraryConfig struct {
	Breakfast    int `json:"breakfast"`
	Lunch        int `json:"lunch"`
	Dinner       int `json:"dinner"`
	Dessert      int `json:"dessert"`
	Gym          int `json:"gym"`
	Shop         int `json:"shop"`
	BeautyHealth int `json:"beauty_health"`
	Bar          int `json:"bar"`
	Nightlife    int `json:"nightlife"`

	// SampleBaseline is added to every score to form a sampling weight.
	SampleBaseline float64 `json:"sample_baseline"`

	// PoolMultiplier sizes the top-k pool relative to the slot limit.
	PoolMultiplier int `json:"pool_multiplier"`
}

// ContentFilterConfig controls the learned-pattern pre-filter.
type ContentFilterConfig struct {
	Enabled     bool    `json:"enabled"`
	RejectBelow float64 `json:"reject_below"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Model: ModelConfig{
			StateDim:     18,
			ActionDim:    2,
			HiddenDim:    128,
			LearningRate: 0.001,
			Beta1:        0.9,
			Beta2:        0.999,
			AdamEpsilon:  1e-8,
		},
		Training: TrainingConfig{
			Epochs:            5,
			ClipEpsilon:       0.2,
			CriticCoefficient: 0.5,
			MinInteractions:   2,
			MaxInteractions:   50,
			Timeout:           30 * time.Second,
		},
		Scoring: ScoringConfig{
			PolicyWeight: 0.7,
			ValueWeight:  0.3,
			ValueMin:     0,
			ValueMax:     1,
			Fallback:     0.5,
		},
		Rewards: RewardConfig{
			Like:                     2.0,
			Dislike:                  -2.0,
			CuisineMatchBonus:        1.5,
			MetadataCuisineBonus:     0.8,
			MetadataCuisineThreshold: 0.3,
			AmbienceBonus:            0.5,
			AmbienceThreshold:        0.5,
			StdEpsilon:               1e-8,
		},
		Profile: ProfileConfig{
			MinLikes:       2,
			MaxHistory:     30,
			BoostThreshold: 0.3,
			BoostFactor:    1.5,
		},
		Selection: SelectionConfig{
			Limit:              250,
			PreferredRatio:     0.7,
			MinStars:           3.0,
			SimilarLikesWindow: 20,
			MaxLikedCuisines:   5,
			AmbienceRatio:      0.3,
			PriceTolerance:     1,
			StarsTolerance:     1.0,
			MetadataThreshold:  0.3,
			FallbackLimit:      1000,
		},
		Itinerary: ItineraryConfig{
			Breakfast:      2,
			Lunch:          3,
			Dinner:         3,
			Dessert:        2,
			Gym:            1,
			Shop:           2,
			BeautyHealth:   1,
			Bar:            1,
			Nightlife:      1,
			SampleBaseline: 0.1,
			PoolMultiplier: 2,
		},
		ContentFilter: ContentFilterConfig{
			Enabled:     true,
			RejectBelow: -0.5,
		},
		Seed: 42,
	}
}

// Validate checks that all parameters are within valid ranges.
func (c *Config) Validate() error {
	if err := c.validateModel(); err != nil {
		return err
	}
	if err := c.validateTraining(); err != nil {
		return err
	}
	if err := c.validateScoring(); err != nil {
		return err
	}
	if err := c.validateSelection(); err != nil {
		return err
	}
	return c.validateItinerary()
}

func (c *Config) validateModel() error {
	if c.Model.StateDim <= 0 {
		return fmt.Errorf("model.state_dim must be positive, got %d", c.Model.StateDim)
	}
	if c.Model.ActionDim != 2 {
		return fmt.Errorf("model.action_dim must be 2, got %d", c.Model.ActionDim)
	}
	if c.Model.HiddenDim <= 0 {
		return fmt.Errorf("model.hidden_dim must be positive, got %d", c.Model.HiddenDim)
	}
	if c.Model.LearningRate <= 0 {
		return fmt.Errorf("model.learning_rate must be positive, got %f", c.Model.LearningRate)
	}
	if c.Model.Beta1 < 0 || c.Model.Beta1 >= 1 || c.Model.Beta2 < 0 || c.Model.Beta2 >= 1 {
		return fmt.Errorf("model.beta1 and model.beta2 must be in [0, 1), got %f, %f", c.Model.Beta1, c.Model.Beta2)
	}
	return nil
}

func (c *Config) validateTraining() error {
	if c.Training.Epochs <= 0 {
		return fmt.Errorf("training.epochs must be positive, got %d", c.Training.Epochs)
	}
	if c.Training.ClipEpsilon <= 0 || c.Training.ClipEpsilon >= 1 {
		return fmt.Errorf("training.clip_epsilon must be in (0, 1), got %f", c.Training.ClipEpsilon)
	}
	if c.Training.CriticCoefficient < 0 {
		return fmt.Errorf("training.critic_coefficient must be non-negative, got %f", c.Training.CriticCoefficient)
	}
	if c.Training.MinInteractions < 2 {
		return fmt.Errorf("training.min_interactions must be >= 2, got %d", c.Training.MinInteractions)
	}
	if c.Training.MaxInteractions < c.Training.MinInteractions {
		return fmt.Errorf("training.max_interactions must be >= training.min_interactions, got %d < %d",
			c.Training.MaxInteractions, c.Training.MinInteractions)
	}
	if c.Training.Timeout <= 0 {
		return fmt.Errorf("training.timeout must be positive, got %v", c.Training.Timeout)
	}
	return nil
}

func (c *Config) validateScoring() error {
	if c.Scoring.PolicyWeight < 0 || c.Scoring.ValueWeight < 0 {
		return fmt.Errorf("scoring weights must be non-negative, got %f, %f", c.Scoring.PolicyWeight, c.Scoring.ValueWeight)
	}
	if c.Scoring.ValueMax <= c.Scoring.ValueMin {
		return fmt.Errorf("scoring.value_max must be > scoring.value_min, got %f <= %f", c.Scoring.ValueMax, c.Scoring.ValueMin)
	}
	if c.Scoring.Fallback < 0 || c.Scoring.Fallback > 1 {
		return fmt.Errorf("scoring.fallback must be in [0, 1], got %f", c.Scoring.Fallback)
	}
	if c.Profile.MinLikes < 1 {
		return fmt.Errorf("profile.min_likes must be positive, got %d", c.Profile.MinLikes)
	}
	if c.Profile.BoostFactor < 1 {
		return fmt.Errorf("profile.boost_factor must be >= 1, got %f", c.Profile.BoostFactor)
	}
	return nil
}

func (c *Config) validateSelection() error {
	if c.Selection.Limit <= 0 {
		return fmt.Errorf("selection.limit must be positive, got %d", c.Selection.Limit)
	}
	if c.Selection.PreferredRatio < 0 || c.Selection.PreferredRatio > 1 {
		return fmt.Errorf("selection.preferred_ratio must be in [0, 1], got %f", c.Selection.PreferredRatio)
	}
	if c.Selection.FallbackLimit <= 0 {
		return fmt.Errorf("selection.fallback_limit must be positive, got %d", c.Selection.FallbackLimit)
	}
	if c.Selection.SimilarLikesWindow <= 0 {
		return fmt.Errorf("selection.similar_likes_window must be positive, got %d", c.Selection.SimilarLikesWindow)
	}
	return nil
}

func (c *Config) validateItinerary() error {
	if c.Itinerary.SampleBaseline <= 0 {
		return fmt.Errorf("itinerary.sample_baseline must be positive, got %f", c.Itinerary.SampleBaseline)
	}
	if c.Itinerary.PoolMultiplier < 1 {
		return fmt.Errorf("itinerary.pool_multiplier must be >= 1, got %d", c.Itinerary.PoolMultiplier)
	}
	slots := []int{
		c.Itinerary.Breakfast, c.Itinerary.Lunch, c.Itinerary.Dinner, c.Itinerary.Dessert,
		c.Itinerary.Gym, c.Itinerary.Shop, c.Itinerary.BeautyHealth, c.Itinerary.Bar, c.Itinerary.Nightlife,
	}
	for _, n := range slots {
		if n < 0 {
			return fmt.Errorf("itinerary slot sizes must be non-negative, got %d", n)
		}
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
