// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package selection

import (
	"math/rand/v2"
	"sort"

	"github.com/tomtom215/travia/internal/recommend"
)

// SampleOptions tunes Sample.
type SampleOptions struct {
	// Baseline is added to every score to form its weight.
	Baseline float64

	// PoolMultiplier sizes the pool as PoolMultiplier*limit top candidates.
	PoolMultiplier int
}

// DefaultSampleOptions returns a 0.1 baseline over the top 2*limit.
func DefaultSampleOptions() SampleOptions {
	return SampleOptions{Baseline: 0.1, PoolMultiplier: 2}
}

// Sample picks up to limit candidates. The pool is the top
// PoolMultiplier*limit by score; when the pool fits within limit it is
// returned in score order, otherwise picks are drawn by weighted sampling
// without replacement with weight score+Baseline. The input is not modified.
func Sample(scored []recommend.ScoredBusiness, limit int, opts SampleOptions, rng *rand.Rand) []recommend.ScoredBusiness {
	if limit <= 0 || len(scored) == 0 {
		return nil
	}
	if opts.PoolMultiplier < 1 {
		opts.PoolMultiplier = 1
	}

	pool := make([]recommend.ScoredBusiness, len(scored))
	copy(pool, scored)
	sort.SliceStable(pool, func(i, j int) bool { return pool[i].Score > pool[j].Score })
	if n := opts.PoolMultiplier * limit; len(pool) > n {
		pool = pool[:n]
	}
	if len(pool) <= limit {
		return pool
	}

	weights := make([]float64, len(pool))
	for i := range pool {
		if w := pool[i].Score + opts.Baseline; w > 0 {
			weights[i] = w
		}
	}
	tree := newFenwick(weights)

	out := make([]recommend.ScoredBusiness, 0, limit)
	taken := make([]bool, len(pool))
	for len(out) < limit {
		total := tree.total()
		var idx int
		if total <= 0 {
			idx = firstUntaken(taken)
		} else {
			idx = tree.find(rng.Float64() * total)
			if taken[idx] {
				idx = firstUntaken(taken)
			}
		}
		taken[idx] = true
		tree.add(idx, -weights[idx])
		weights[idx] = 0
		out = append(out, pool[idx])
	}
	return out
}

func firstUntaken(taken []bool) int {
	for i, t := range taken {
		if !t {
			return i
		}
	}
	return len(taken) - 1
}

// fenwick keeps prefix sums of the weights so a draw is a binary descent
// instead of a linear scan.
type fenwick struct {
	tree []float64
	sum  float64
}

func newFenwick(weights []float64) *fenwick {
	f := &fenwick{tree: make([]float64, len(weights)+1)}
	for i, w := range weights {
		f.add(i, w)
	}
	return f
}

func (f *fenwick) add(i int, delta float64) {
	f.sum += delta
	for j := i + 1; j < len(f.tree); j += j & -j {
		f.tree[j] += delta
	}
}

func (f *fenwick) total() float64 {
	return f.sum
}

// find returns the smallest index whose cumulative weight exceeds target.
func (f *fenwick) find(target float64) int {
	pos := 0
	step := 1
	for step*2 < len(f.tree) {
		step *= 2
	}
	for ; step > 0; step /= 2 {
		if next := pos + step; next < len(f.tree) && f.tree[next] <= target {
			pos = next
			target -= f.tree[next]
		}
	}
	if pos >= len(f.tree)-1 {
		return len(f.tree) - 2
	}
	return pos
}
