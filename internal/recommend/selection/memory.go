// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package selection

import (
	"context"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"

	"github.com/tomtom215/travia/internal/recommend"
)

// MemorySource is an in-memory Source over a fixed business list and an
// append-only interaction log. It backs tests and fixture-driven runs.
type MemorySource struct {
	mu           sync.Mutex
	businesses   []recommend.Business
	interactions []recommend.Interaction
	rng          *rand.Rand
}

var _ Source = (*MemorySource)(nil)

// NewMemorySource creates a source. seed makes random ordering repeatable.
func NewMemorySource(businesses []recommend.Business, seed uint64) *MemorySource {
	return &MemorySource{
		businesses: businesses,
		rng:        rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), //nolint:gosec // ordering, not security
	}
}

// AddInteraction records an interaction. Interactions must be added oldest
// first.
func (m *MemorySource) AddInteraction(in recommend.Interaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interactions = append(m.interactions, in)
}

// Businesses implements Source.
func (m *MemorySource) Businesses(_ context.Context, q *Query) ([]recommend.Business, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	interacted := make(map[int64]struct{})
	if q.ExcludeInteractedBy != 0 {
		for i := range m.interactions {
			if m.interactions[i].UserID == q.ExcludeInteractedBy {
				interacted[m.interactions[i].BusinessID] = struct{}{}
			}
		}
	}

	var out []recommend.Business
	for i := range m.businesses {
		b := &m.businesses[i]
		if _, ok := interacted[b.ID]; ok {
			continue
		}
		if q.Matches(b) {
			out = append(out, *b)
		}
	}

	switch q.Order {
	case OrderRandom:
		m.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	default:
		sortByRating(out)
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// RecentLikedBusinesses implements Source.
func (m *MemorySource) RecentLikedBusinesses(_ context.Context, userID int64, locality string, limit int) ([]recommend.Business, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	latest := make(map[int64]recommend.InteractionType)
	var order []int64
	for i := len(m.interactions) - 1; i >= 0; i-- {
		in := &m.interactions[i]
		if in.UserID != userID {
			continue
		}
		if _, seen := latest[in.BusinessID]; seen {
			continue
		}
		latest[in.BusinessID] = in.Type
		order = append(order, in.BusinessID)
	}

	byID := make(map[int64]*recommend.Business, len(m.businesses))
	for i := range m.businesses {
		byID[m.businesses[i].ID] = &m.businesses[i]
	}

	var out []recommend.Business
	for _, id := range order {
		if latest[id] != recommend.InteractionLike {
			continue
		}
		b, ok := byID[id]
		if !ok || !strings.EqualFold(b.Locality, locality) {
			continue
		}
		out = append(out, *b)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// sortByRating orders by stars descending with nulls last, then review
// count descending.
func sortByRating(out []recommend.Business) {
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := out[i].Stars, out[j].Stars
		switch {
		case si == nil && sj != nil:
			return false
		case si != nil && sj == nil:
			return true
		case si != nil && sj != nil && *si != *sj:
			return *si > *sj
		}
		return out[i].ReviewCount > out[j].ReviewCount
	})
}
