// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package policy

import (
	"math"
	"testing"

	"github.com/tomtom215/travia/internal/recommend"
	"github.com/tomtom215/travia/internal/recommend/features"
)

func TestReward(t *testing.T) {
	cfg := recommend.DefaultConfig().Rewards
	italian := &recommend.UserPreferences{PreferredCuisine: []string{"Italian"}}
	romanticProfile := &recommend.Profile{Scores: map[string]float64{
		"romantic_preference": 0.8,
		"classy_preference":   0.4,
		"mexican_preference":  0.6,
	}}

	tests := []struct {
		name     string
		kind     recommend.InteractionType
		business recommend.Business
		prefs    *recommend.UserPreferences
		profile  *recommend.Profile
		want     float64
	}{
		{
			name:     "dislike ignores bonuses",
			kind:     recommend.InteractionDislike,
			business: recommend.Business{ID: 1, Cuisines: []string{"Italian"}, Romantic: true},
			prefs:    italian,
			profile:  romanticProfile,
			want:     -2,
		},
		{
			name:     "plain like",
			kind:     recommend.InteractionLike,
			business: recommend.Business{ID: 1, Cuisines: []string{"Thai"}},
			prefs:    italian,
			want:     2,
		},
		{
			name:     "explicit cuisine match",
			kind:     recommend.InteractionLike,
			business: recommend.Business{ID: 1, Cuisines: []string{"italian"}},
			prefs:    italian,
			want:     3.5,
		},
		{
			name:     "learned cuisine match without explicit preference",
			kind:     recommend.InteractionLike,
			business: recommend.Business{ID: 1, Cuisines: []string{"Mexican"}},
			prefs:    &recommend.UserPreferences{},
			profile:  romanticProfile,
			want:     2.8,
		},
		{
			name:     "explicit match wins over learned match",
			kind:     recommend.InteractionLike,
			business: recommend.Business{ID: 1, Cuisines: []string{"Italian", "Mexican"}},
			prefs:    italian,
			profile:  romanticProfile,
			want:     3.5,
		},
		{
			name:     "ambience bonus only above threshold",
			kind:     recommend.InteractionLike,
			business: recommend.Business{ID: 1, Romantic: true, Classy: true},
			prefs:    nil,
			profile:  romanticProfile,
			want:     2.5,
		},
		{
			name:     "everything stacks",
			kind:     recommend.InteractionLike,
			business: recommend.Business{ID: 1, Cuisines: []string{"Italian"}, Romantic: true},
			prefs:    italian,
			profile:  romanticProfile,
			want:     4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := &recommend.Interaction{Type: tt.kind, Business: tt.business}
			if got := Reward(in, tt.prefs, tt.profile, cfg); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Reward() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildBatch(t *testing.T) {
	cfg := recommend.DefaultConfig()
	prefs := &recommend.UserPreferences{Budget: 2, TravelDays: 4, PreferredCuisine: []string{"italian"}}
	interactions := []recommend.Interaction{
		{Type: recommend.InteractionLike, Business: recommend.Business{ID: 1, Cuisines: []string{"Italian"}}},
		{Type: recommend.InteractionDislike, Business: recommend.Business{ID: 2}},
		{Type: "skip", Business: recommend.Business{ID: 3}},
	}

	batch := BuildBatch(9, prefs, nil, interactions, cfg)

	if batch.UserID != 9 {
		t.Errorf("BuildBatch() user = %d, want 9", batch.UserID)
	}
	if len(batch.Samples) != 2 {
		t.Fatalf("BuildBatch() samples = %d, want 2", len(batch.Samples))
	}

	wantActions := []int{recommend.ActionLike, recommend.ActionDislike}
	wantRewards := []float64{3.5, -2}
	for i, s := range batch.Samples {
		if len(s.State) != features.StateDim {
			t.Errorf("sample %d state length = %d, want %d", i, len(s.State), features.StateDim)
		}
		for j, v := range s.State {
			if v < 0 || v > 1 {
				t.Errorf("sample %d state[%d] = %v, want in [0, 1]", i, j, v)
			}
		}
		if s.Action != wantActions[i] {
			t.Errorf("sample %d action = %d, want %d", i, s.Action, wantActions[i])
		}
		if s.Reward != wantRewards[i] {
			t.Errorf("sample %d reward = %v, want %v", i, s.Reward, wantRewards[i])
		}
	}
}
