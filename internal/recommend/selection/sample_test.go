// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package selection

import (
	"math/rand/v2"
	"testing"

	"github.com/tomtom215/travia/internal/recommend"
)

func scoredPool(scores ...float64) []recommend.ScoredBusiness {
	out := make([]recommend.ScoredBusiness, len(scores))
	for i, s := range scores {
		out[i] = recommend.ScoredBusiness{Business: recommend.Business{ID: int64(i + 1)}, Score: s}
	}
	return out
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}

func TestSample(t *testing.T) {
	tests := []struct {
		name    string
		scores  []float64
		limit   int
		wantLen int
		wantIDs []int64
	}{
		{"empty input", nil, 3, 0, nil},
		{"zero limit", []float64{0.5}, 0, 0, nil},
		{"pool fits limit in score order", []float64{0.2, 0.9, 0.5}, 3, 3, []int64{2, 3, 1}},
		{"pool of 2x limit fits", []float64{0.2, 0.9}, 1, 1, nil},
		{"weighted draw", []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0}, 3, 3, nil},
		{"zero weights still fill", []float64{-0.1, -0.1, -0.1, -0.1, -0.1}, 2, 2, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sample(scoredPool(tt.scores...), tt.limit, DefaultSampleOptions(), newRand(1))
			if len(got) != tt.wantLen {
				t.Fatalf("Sample() returned %d, want %d", len(got), tt.wantLen)
			}
			seen := make(map[int64]bool)
			for _, s := range got {
				if seen[s.Business.ID] {
					t.Fatalf("Sample() returned duplicate %d", s.Business.ID)
				}
				seen[s.Business.ID] = true
			}
			for i, id := range tt.wantIDs {
				if got[i].Business.ID != id {
					t.Errorf("Sample()[%d] = %d, want %d", i, got[i].Business.ID, id)
				}
			}
		})
	}
}

func TestSample_DrawsOnlyFromTopPool(t *testing.T) {
	scored := scoredPool(0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0)
	rng := newRand(7)

	for run := 0; run < 200; run++ {
		for _, s := range Sample(scored, 2, DefaultSampleOptions(), rng) {
			// Top 4 by score are ids 7..10.
			if s.Business.ID < 7 {
				t.Fatalf("run %d sampled id %d outside the top 4", run, s.Business.ID)
			}
		}
	}
}

func TestSample_FavorsHigherScores(t *testing.T) {
	scored := scoredPool(0.9, 0.0)
	rng := newRand(42)

	const runs = 4000
	first := 0
	for i := 0; i < runs; i++ {
		// limit 1 over a pool of 2: weights 1.0 and 0.1.
		if Sample(scored, 1, DefaultSampleOptions(), rng)[0].Business.ID == 1 {
			first++
		}
	}
	if share := float64(first) / runs; share < 0.85 || share > 0.96 {
		t.Errorf("high score share = %v, want about 0.91", share)
	}
}

func TestSample_Deterministic(t *testing.T) {
	scored := scoredPool(0.3, 0.5, 0.2, 0.8, 0.6, 0.4)

	a := Sample(scored, 3, DefaultSampleOptions(), newRand(9))
	b := Sample(scored, 3, DefaultSampleOptions(), newRand(9))
	for i := range a {
		if a[i].Business.ID != b[i].Business.ID {
			t.Fatalf("same seed produced %d vs %d at %d", a[i].Business.ID, b[i].Business.ID, i)
		}
	}
}

func TestSample_DoesNotModifyInput(t *testing.T) {
	scored := scoredPool(0.3, 0.5, 0.2, 0.8, 0.6, 0.4)
	Sample(scored, 2, DefaultSampleOptions(), newRand(3))

	for i, s := range scored {
		if s.Business.ID != int64(i+1) {
			t.Fatalf("input reordered: position %d holds %d", i, s.Business.ID)
		}
	}
}

func TestFenwickFind(t *testing.T) {
	f := newFenwick([]float64{1, 0, 2, 3})

	tests := []struct {
		target float64
		want   int
	}{
		{0, 0},
		{0.99, 0},
		{1.0, 2},
		{2.5, 2},
		{3.0, 3},
		{5.99, 3},
	}
	for _, tt := range tests {
		if got := f.find(tt.target); got != tt.want {
			t.Errorf("find(%v) = %d, want %d", tt.target, got, tt.want)
		}
	}

	f.add(2, -2)
	if got := f.find(1.5); got != 3 {
		t.Errorf("find(1.5) after removal = %d, want 3", got)
	}
	if got := f.total(); got != 4 {
		t.Errorf("total() = %v, want 4", got)
	}
}
