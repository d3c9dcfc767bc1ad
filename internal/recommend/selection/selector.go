// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package selection

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tomtom215/travia/internal/recommend"
)

// Tier names the retrieval strategy that produced a candidate list.
type Tier string

// Tiers in fallback order.
const (
	TierNone             Tier = ""
	TierPreferredCuisine Tier = "preferred_cuisine"
	TierSimilarLiked     Tier = "similar_liked"
	TierMetadata         Tier = "metadata"
	TierGeneral          Tier = "general"
	TierLocationFallback Tier = "location_fallback"
)

// Request is one candidate selection.
type Request struct {
	UserID      int64
	Locality    string
	Preferences *recommend.UserPreferences
	Profile     *recommend.Profile

	// Limit overrides the configured limit when positive.
	Limit int
}

// Selector retrieves itinerary candidates with a preferred/variety split.
type Selector struct {
	source Source
	cfg    recommend.SelectionConfig
	logger zerolog.Logger
}

// NewSelector creates a selector over source.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewSelector(source Source, cfg recommend.SelectionConfig, logger zerolog.Logger) *Selector {
	return &Selector{
		source: source,
		cfg:    cfg,
		logger: logger.With().Str("component", "candidate_selector").Logger(),
	}
}

// Split returns the preferred and variety slot counts for limit.
func (s *Selector) Split(limit int) (preferred, variety int) {
	preferred = int(s.cfg.PreferredRatio * float64(limit))
	return preferred, limit - preferred
}

// Select returns de-duplicated candidates for the request and the tier that
// produced them. Empty tiers fall through to the next one.
// recommend.ErrNoBusinesses is returned only when the locality has no
// eligible business at all.
func (s *Selector) Select(ctx context.Context, req Request) ([]recommend.Business, Tier, error) {
	if strings.TrimSpace(req.Locality) == "" {
		return nil, TierNone, errors.New("locality is required")
	}
	limit := req.Limit
	if limit <= 0 {
		limit = s.cfg.Limit
	}

	cuisines := preferredCuisines(req.Preferences)

	var tiers []func(context.Context, Request, []string, int) ([]recommend.Business, error)
	var names []Tier
	if len(cuisines) > 0 {
		tiers = append(tiers, s.preferredCuisine)
		names = append(names, TierPreferredCuisine)
	} else {
		tiers = append(tiers, s.similarLiked, s.metadata, s.general)
		names = append(names, TierSimilarLiked, TierMetadata, TierGeneral)
	}
	tiers = append(tiers, s.locationFallback)
	names = append(names, TierLocationFallback)

	for i, tier := range tiers {
		out, err := tier(ctx, req, cuisines, limit)
		if err != nil {
			return nil, names[i], fmt.Errorf("%s candidates: %w", names[i], err)
		}
		out = dedupe(out)
		if len(out) > 0 {
			s.logger.Debug().
				Int64("user_id", req.UserID).
				Str("locality", req.Locality).
				Str("tier", string(names[i])).
				Int("candidates", len(out)).
				Msg("candidates selected")
			return out, names[i], nil
		}
	}

	return nil, TierNone, fmt.Errorf("%w: %s", recommend.ErrNoBusinesses, req.Locality)
}

func (s *Selector) base(locality string) Query {
	return Query{Locality: locality, MinStars: s.cfg.MinStars}
}

// preferredCuisine fills the preferred share with matching businesses by
// rating and the remainder with non-matching businesses at random.
func (s *Selector) preferredCuisine(ctx context.Context, req Request, cuisines []string, limit int) ([]recommend.Business, error) {
	preferredN, varietyN := s.Split(limit)

	pq := s.base(req.Locality)
	pq.AnyCuisine = cuisines
	pq.Order = OrderRating
	pq.Limit = preferredN
	preferred, err := s.source.Businesses(ctx, &pq)
	if err != nil {
		return nil, err
	}

	vq := s.base(req.Locality)
	vq.NoCuisine = cuisines
	vq.Order = OrderRandom
	vq.Limit = varietyN
	variety, err := s.source.Businesses(ctx, &vq)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Int("preferred", len(preferred)).
		Int("variety", len(variety)).
		Strs("cuisines", cuisines).
		Msg("cuisine balance")
	return append(preferred, variety...), nil
}

// LikedPattern summarizes the user's recent likes in a locality.
type LikedPattern struct {
	Cuisines []string
	Flags    []string
	AvgPrice float64
	AvgStars float64
}

// LearnLikedPattern derives the similarity pattern from liked businesses.
func LearnLikedPattern(liked []recommend.Business, cfg recommend.SelectionConfig) LikedPattern {
	var p LikedPattern
	if len(liked) == 0 {
		return p
	}
	total := float64(len(liked))

	counts := make(map[string]int)
	flagHits := make(map[string]int)
	var priceSum, starsSum float64
	for i := range liked {
		b := &liked[i]
		for c := range recommend.NormalizeSet(b.Cuisines) {
			counts[c]++
		}
		for _, attr := range recommend.AmbienceAttributes {
			if b.AmbienceFlag(attr) {
				flagHits[attr]++
			}
		}
		priceSum += float64(b.PriceOr(int(NullPrice)))
		starsSum += b.StarsOr(NullStars)
	}

	for c := range counts {
		p.Cuisines = append(p.Cuisines, c)
	}
	sort.Slice(p.Cuisines, func(i, j int) bool {
		ci, cj := counts[p.Cuisines[i]], counts[p.Cuisines[j]]
		if ci != cj {
			return ci > cj
		}
		return p.Cuisines[i] < p.Cuisines[j]
	})
	if cfg.MaxLikedCuisines > 0 && len(p.Cuisines) > cfg.MaxLikedCuisines {
		p.Cuisines = p.Cuisines[:cfg.MaxLikedCuisines]
	}

	for _, attr := range recommend.AmbienceAttributes {
		if float64(flagHits[attr])/total > cfg.AmbienceRatio {
			p.Flags = append(p.Flags, attr)
		}
	}
	p.AvgPrice = math.Round(priceSum/total*10) / 10
	p.AvgStars = math.Round(starsSum/total*10) / 10
	return p
}

// similarLiked fills the preferred share with businesses resembling recent
// likes and the remainder with random others. Businesses the user already
// interacted with are excluded from the similar share only.
func (s *Selector) similarLiked(ctx context.Context, req Request, _ []string, limit int) ([]recommend.Business, error) {
	if req.UserID == 0 {
		return nil, nil
	}
	liked, err := s.source.RecentLikedBusinesses(ctx, req.UserID, req.Locality, s.cfg.SimilarLikesWindow)
	if err != nil {
		return nil, err
	}
	if len(liked) == 0 {
		return nil, nil
	}

	pattern := LearnLikedPattern(liked, s.cfg)
	similarN, varietyN := s.Split(limit)

	sq := s.base(req.Locality)
	sq.ExcludeInteractedBy = req.UserID
	sq.Order = OrderRating
	sq.Limit = similarN
	// Ambience, price and stars only narrow a cuisine match.
	if len(pattern.Cuisines) > 0 {
		sq.AnyCuisine = pattern.Cuisines
		sq.AnyFlag = pattern.Flags
		sq.PriceNear = &pattern.AvgPrice
		sq.PriceTolerance = float64(s.cfg.PriceTolerance)
		sq.StarsNear = &pattern.AvgStars
		sq.StarsTolerance = s.cfg.StarsTolerance
	}
	similar, err := s.source.Businesses(ctx, &sq)
	if err != nil {
		return nil, err
	}
	if len(similar) == 0 {
		return nil, nil
	}

	vq := s.base(req.Locality)
	vq.ExcludeIDs = ids(similar)
	vq.Order = OrderRandom
	vq.Limit = varietyN
	variety, err := s.source.Businesses(ctx, &vq)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Int("similar", len(similar)).
		Int("variety", len(variety)).
		Strs("liked_cuisines", pattern.Cuisines).
		Msg("similar-to-liked balance")
	return append(similar, variety...), nil
}

// MetadataConditions returns the ambience flags and cuisines whose learned
// score exceeds threshold.
func MetadataConditions(profile *recommend.Profile, threshold float64) (flags, cuisines []string) {
	if profile == nil || profile.Empty() {
		return nil, nil
	}
	for _, attr := range recommend.AmbienceAttributes {
		if profile.Score(attr) > threshold {
			flags = append(flags, attr)
		}
	}
	for key := range profile.PreferredCuisines {
		if profile.Score(key) > threshold {
			cuisines = append(cuisines, strings.ReplaceAll(key, "_", " "))
		}
	}
	sort.Strings(cuisines)
	return flags, cuisines
}

func (s *Selector) metadata(ctx context.Context, req Request, _ []string, limit int) ([]recommend.Business, error) {
	flags, cuisines := MetadataConditions(req.Profile, s.cfg.MetadataThreshold)
	if len(flags) == 0 && len(cuisines) == 0 {
		return nil, nil
	}

	q := s.base(req.Locality)
	q.AnyFlag = flags
	q.AnyCuisine = cuisines
	q.EitherCuisineOrFlag = true
	q.Order = OrderRating
	q.Limit = limit
	return s.source.Businesses(ctx, &q)
}

func (s *Selector) general(ctx context.Context, req Request, _ []string, limit int) ([]recommend.Business, error) {
	q := s.base(req.Locality)
	q.Order = OrderRating
	q.Limit = limit
	return s.source.Businesses(ctx, &q)
}

// locationFallback is the unpersonalized last resort: every named business
// in the locality by rating, without the star floor, narrowed by preferred
// cuisine when that still yields rows.
func (s *Selector) locationFallback(ctx context.Context, req Request, cuisines []string, _ int) ([]recommend.Business, error) {
	q := Query{Locality: req.Locality}
	q.Order = OrderRating
	q.Limit = s.cfg.FallbackLimit
	if len(cuisines) > 0 {
		q.AnyCuisine = cuisines
		out, err := s.source.Businesses(ctx, &q)
		if err != nil || len(out) > 0 {
			return out, err
		}
		q.AnyCuisine = nil
	}
	return s.source.Businesses(ctx, &q)
}

func preferredCuisines(prefs *recommend.UserPreferences) []string {
	set := prefs.CuisineSet()
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

type businessKey struct {
	id  int64
	bid string
}

func keyOf(b *recommend.Business) businessKey {
	if b.ID != 0 {
		return businessKey{id: b.ID}
	}
	return businessKey{bid: b.BusinessID}
}

// dedupe keeps the first occurrence of every business and drops records
// without identity.
func dedupe(in []recommend.Business) []recommend.Business {
	seen := make(map[businessKey]struct{}, len(in))
	out := make([]recommend.Business, 0, len(in))
	for i := range in {
		b := &in[i]
		if !b.Valid() {
			continue
		}
		k := keyOf(b)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, *b)
	}
	return out
}

func ids(in []recommend.Business) []int64 {
	out := make([]int64, 0, len(in))
	for i := range in {
		if in[i].ID != 0 {
			out = append(out, in[i].ID)
		}
	}
	return out
}
