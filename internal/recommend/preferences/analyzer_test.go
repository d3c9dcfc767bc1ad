// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package preferences

import (
	"math"
	"testing"

	"github.com/tomtom215/travia/internal/recommend"
)

func newTestAnalyzer() *Analyzer {
	return NewAnalyzer(recommend.DefaultConfig().Profile)
}

func posts(n int, fill func(i int, m *recommend.PostMetadata)) []recommend.PostMetadata {
	out := make([]recommend.PostMetadata, n)
	for i := range out {
		out[i].PostID = int64(i + 1)
		if fill != nil {
			fill(i, &out[i])
		}
	}
	return out
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAnalyze_ColdStart(t *testing.T) {
	a := newTestAnalyzer()

	tests := []struct {
		name    string
		history []recommend.PostMetadata
	}{
		{"no likes", nil},
		{"single like", posts(1, func(_ int, m *recommend.PostMetadata) { m.Romantic = 1; m.CuisineType = "Italian" })},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := a.Analyze(tt.history)
			if !p.Empty() {
				t.Errorf("Analyze() = %v, want empty profile", p.Scores)
			}
			if got := p.Score("romantic"); got != 0 {
				t.Errorf("Score(romantic) = %f, want 0", got)
			}
		})
	}
}

func TestAnalyze_BinaryAttributes(t *testing.T) {
	a := newTestAnalyzer()

	t.Run("two identical romantic likes", func(t *testing.T) {
		p := a.Analyze(posts(2, func(_ int, m *recommend.PostMetadata) { m.Romantic = 1 }))
		if got := p.Scores["romantic_preference"]; got != 1.0 {
			t.Errorf("romantic_preference = %f, want 1.0", got)
		}
		if got := p.Scores["classy_preference"]; got != 0 {
			t.Errorf("classy_preference = %f, want 0", got)
		}
	})

	t.Run("fractional ratio", func(t *testing.T) {
		p := a.Analyze(posts(4, func(i int, m *recommend.PostMetadata) {
			if i == 0 {
				m.GoodForKids = 1
			}
		}))
		if got := p.Scores["good_for_kids_preference"]; !almostEqual(got, 0.25) {
			t.Errorf("good_for_kids_preference = %f, want 0.25", got)
		}
	})

	t.Run("history capped", func(t *testing.T) {
		p := a.Analyze(posts(40, func(i int, m *recommend.PostMetadata) {
			if i >= 30 {
				m.Casual = 1
			}
		}))
		if p.SampleSize != 30 {
			t.Errorf("SampleSize = %d, want 30", p.SampleSize)
		}
		if got := p.Scores["casual_preference"]; got != 0 {
			t.Errorf("casual_preference = %f, want 0 (rows past the cap ignored)", got)
		}
	})
}

func TestAnalyze_CuisineBoost(t *testing.T) {
	a := newTestAnalyzer()

	tests := []struct {
		name    string
		matches int
		total   int
		want    float64
	}{
		{"ratio exactly at threshold is not boosted", 3, 10, 0.3},
		{"ratio above threshold is boosted", 4, 10, 0.6},
		{"boost is capped", 8, 10, 1.0},
		{"low ratio untouched", 1, 10, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := a.Analyze(posts(tt.total, func(i int, m *recommend.PostMetadata) {
				if i < tt.matches {
					m.CuisineType = "Middle Eastern"
				}
			}))
			if got := p.Scores["middle_eastern_preference"]; !almostEqual(got, tt.want) {
				t.Errorf("middle_eastern_preference = %f, want %f", got, tt.want)
			}
			if got := p.PreferredCuisines["middle_eastern"]; got != tt.matches {
				t.Errorf("PreferredCuisines[middle_eastern] = %d, want %d", got, tt.matches)
			}
		})
	}
}

func TestBoost(t *testing.T) {
	a := newTestAnalyzer()

	tests := []struct {
		ratio float64
		want  float64
	}{
		{0.3, 0.3},
		{0.4, 0.6},
		{0.8, 1.0},
		{0, 0},
	}

	for _, tt := range tests {
		if got := a.Boost(tt.ratio); !almostEqual(got, tt.want) {
			t.Errorf("Boost(%f) = %f, want %f", tt.ratio, got, tt.want)
		}
	}
}

func TestAnalyzeBusinessLikes(t *testing.T) {
	a := newTestAnalyzer()
	price := 2

	interactions := []recommend.Interaction{
		{Type: recommend.InteractionLike, Business: recommend.Business{
			BusinessID: "a", Romantic: true, Cuisines: []string{"Italian", "italian"}, PriceRange: &price,
		}},
		{Type: recommend.InteractionLike, Business: recommend.Business{
			BusinessID: "b", Classy: true, Cuisines: []string{"Italian"},
		}},
		{Type: recommend.InteractionDislike, Business: recommend.Business{
			BusinessID: "c", Romantic: true, Cuisines: []string{"Thai"},
		}},
	}

	p := a.AnalyzeBusinessLikes(interactions)

	if p.SampleSize != 2 {
		t.Fatalf("SampleSize = %d, want 2 (dislikes ignored)", p.SampleSize)
	}
	if got := p.Score("romantic"); got != 0.5 {
		t.Errorf("Score(romantic) = %f, want 0.5", got)
	}
	if got := p.CuisineScore("Italian"); got != 1.0 {
		t.Errorf("CuisineScore(Italian) = %f, want 1.0", got)
	}
	if _, ok := p.Scores["thai_preference"]; ok {
		t.Error("thai_preference present, want absent")
	}
	if got := p.PreferredPriceRanges["2"]; got != 1 {
		t.Errorf("PreferredPriceRanges[2] = %d, want 1", got)
	}

	t.Run("single like is cold start", func(t *testing.T) {
		if p := a.AnalyzeBusinessLikes(interactions[:1]); !p.Empty() {
			t.Errorf("AnalyzeBusinessLikes() = %v, want empty", p.Scores)
		}
	})
}

func TestMerge(t *testing.T) {
	primary := recommend.Profile{Scores: map[string]float64{"romantic_preference": 0.9}, SampleSize: 3}
	secondary := recommend.Profile{Scores: map[string]float64{"romantic_preference": 0.1, "italian_preference": 0.6}, SampleSize: 2}

	got := Merge(primary, secondary)
	if got.Scores["romantic_preference"] != 0.9 {
		t.Errorf("romantic_preference = %f, want primary value 0.9", got.Scores["romantic_preference"])
	}
	if got.Scores["italian_preference"] != 0.6 {
		t.Errorf("italian_preference = %f, want 0.6", got.Scores["italian_preference"])
	}
	if got.SampleSize != 5 {
		t.Errorf("SampleSize = %d, want 5", got.SampleSize)
	}

	if m := Merge(recommend.Profile{}, secondary); m.SampleSize != 2 {
		t.Errorf("Merge(empty, secondary).SampleSize = %d, want 2", m.SampleSize)
	}
}
