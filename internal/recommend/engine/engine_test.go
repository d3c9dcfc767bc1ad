// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/travia/internal/recommend"
	"github.com/tomtom215/travia/internal/recommend/features"
	"github.com/tomtom215/travia/internal/recommend/policy"
	"github.com/tomtom215/travia/internal/recommend/selection"
	"github.com/tomtom215/travia/internal/recommend/storage"
)

// fakeStore is an in-memory Store built on selection.MemorySource.
type fakeStore struct {
	*selection.MemorySource

	mu           sync.Mutex
	businesses   map[int64]recommend.Business
	prefs        map[int64]*recommend.UserPreferences
	metadata     map[int64][]recommend.PostMetadata
	interactions []recommend.Interaction
	nextID       int64

	failInteractions error
}

func newFakeStore(businesses []recommend.Business) *fakeStore {
	byID := make(map[int64]recommend.Business, len(businesses))
	for _, b := range businesses {
		byID[b.ID] = b
	}
	return &fakeStore{
		MemorySource: selection.NewMemorySource(businesses, 7),
		businesses:   byID,
		prefs:        make(map[int64]*recommend.UserPreferences),
		metadata:     make(map[int64][]recommend.PostMetadata),
	}
}

func (f *fakeStore) LatestPreferences(_ context.Context, userID int64) (*recommend.UserPreferences, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.prefs[userID], nil
}

func (f *fakeStore) RecentInteractions(_ context.Context, userID int64, limit int) ([]recommend.Interaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failInteractions != nil {
		return nil, f.failInteractions
	}
	var out []recommend.Interaction
	for i := len(f.interactions) - 1; i >= 0; i-- {
		if f.interactions[i].UserID != userID {
			continue
		}
		out = append(out, f.interactions[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeStore) RecentLikedMetadata(_ context.Context, userID int64, limit int) ([]recommend.PostMetadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	md := f.metadata[userID]
	if limit > 0 && len(md) > limit {
		md = md[:limit]
	}
	return md, nil
}

func (f *fakeStore) BusinessByID(_ context.Context, id int64) (*recommend.Business, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.businesses[id]
	if !ok {
		return nil, fmt.Errorf("business %d: %w", id, recommend.ErrNotFound)
	}
	return &b, nil
}

func (f *fakeStore) AnyBusiness(_ context.Context) (*recommend.Business, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]int64, 0, len(f.businesses))
	for id := range f.businesses {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	b := f.businesses[ids[0]]
	return &b, nil
}

func (f *fakeStore) InsertInteraction(_ context.Context, in *recommend.Interaction) (int64, error) {
	f.mu.Lock()
	f.nextID++
	stored := *in
	stored.ID = f.nextID
	f.interactions = append(f.interactions, stored)
	f.mu.Unlock()

	f.AddInteraction(stored)
	return stored.ID, nil
}

func (f *fakeStore) DeleteInteractions(_ context.Context, userID, businessID int64, typ recommend.InteractionType) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.interactions[:0]
	var removed int64
	for _, in := range f.interactions {
		if in.UserID == userID && in.BusinessID == businessID && (typ == "" || in.Type == typ) {
			removed++
			continue
		}
		kept = append(kept, in)
	}
	f.interactions = kept
	return removed, nil
}

// like seeds an interaction directly, bypassing the engine.
func (f *fakeStore) like(userID, businessID int64, typ recommend.InteractionType) {
	b := f.businesses[businessID]
	_, _ = f.InsertInteraction(context.Background(), &recommend.Interaction{
		UserID:     userID,
		BusinessID: businessID,
		Type:       typ,
		CreatedAt:  time.Now(),
		Business:   b,
	})
}

type recordingScheduler struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (s *recordingScheduler) ScheduleTraining(_ context.Context, userID int64, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, fmt.Sprintf("%d:%s", userID, reason))
	return s.err
}

func ptrFloat(v float64) *float64 { return &v }

func ptrInt(v int) *int { return &v }

func restaurant(id int64, locality string, stars float64, cuisines ...string) recommend.Business {
	return recommend.Business{
		ID:               id,
		BusinessID:       fmt.Sprintf("b%d", id),
		Name:             fmt.Sprintf("Place %d", id),
		Locality:         locality,
		Stars:            ptrFloat(stars),
		PriceRange:       ptrInt(2),
		ReviewCount:      int(id),
		IsRestaurant:     true,
		GoodForBreakfast: id%3 == 0,
		GoodForLunch:     true,
		GoodForDinner:    true,
		Casual:           id%2 == 0,
		Cuisines:         cuisines,
		Categories:       []string{"Restaurants"},
	}
}

func austinPool() []recommend.Business {
	var pool []recommend.Business
	for i := int64(1); i <= 60; i++ {
		pool = append(pool, restaurant(i, "Austin", 3.5+float64(i%4)/4, "Italian"))
	}
	for i := int64(61); i <= 120; i++ {
		pool = append(pool, restaurant(i, "Austin", 3.0+float64(i%5)/5, "Mexican"))
	}
	for i := int64(121); i <= 130; i++ {
		b := restaurant(i, "Austin", 4.0)
		b.IsRestaurant = false
		b.IsCafe = true
		b.GoodForDessert = true
		b.Categories = []string{"Coffee & Tea", "Desserts"}
		pool = append(pool, b)
	}
	for i := int64(131); i <= 140; i++ {
		b := restaurant(i, "Austin", 4.0)
		b.IsRestaurant = false
		b.IsBar = true
		b.IsNightlife = true
		b.Categories = []string{"Bars", "Nightlife"}
		pool = append(pool, b)
	}
	return pool
}

func newTestEngine(t *testing.T, store *fakeStore, withArtifacts bool) *Engine {
	t.Helper()
	var artifacts storage.ArtifactStore
	if withArtifacts {
		fs, err := storage.NewFileStore(t.TempDir(), 3)
		if err != nil {
			t.Fatalf("NewFileStore() error = %v", err)
		}
		artifacts = fs
	}
	e, err := New(recommend.DefaultConfig(), store, artifacts, zerolog.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e
}

func austinPrefs(userID int64) *recommend.UserPreferences {
	return &recommend.UserPreferences{
		ID:               1,
		UserID:           userID,
		Budget:           2,
		TravelDays:       3,
		TravelStyle:      "casual",
		PreferredCuisine: []string{"Italian"},
		IncludeBar:       true,
		Location:         "Austin",
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(nil, nil, nil, zerolog.Nop()); err == nil {
		t.Error("New() with nil store error = nil, want error")
	}

	cfg := recommend.DefaultConfig()
	cfg.Model.StateDim = 0
	if _, err := New(cfg, newFakeStore(nil), nil, zerolog.Nop()); err == nil {
		t.Error("New() with invalid config error = nil, want error")
	}
}

func TestGenerateItinerary_NoPreferences(t *testing.T) {
	e := newTestEngine(t, newFakeStore(austinPool()), false)

	_, err := e.GenerateItinerary(context.Background(), ItineraryRequest{UserID: 9, Locality: "Austin"})
	if !errors.Is(err, recommend.ErrNoPreferences) {
		t.Errorf("GenerateItinerary() error = %v, want ErrNoPreferences", err)
	}
}

func TestGenerateItinerary_NoBusinesses(t *testing.T) {
	store := newFakeStore(austinPool())
	store.prefs[1] = austinPrefs(1)
	e := newTestEngine(t, store, false)

	_, err := e.GenerateItinerary(context.Background(), ItineraryRequest{UserID: 1, Locality: "Nowhere"})
	if !errors.Is(err, recommend.ErrNoBusinesses) {
		t.Errorf("GenerateItinerary() error = %v, want ErrNoBusinesses", err)
	}
}

func TestGenerateItinerary_LocalityRequired(t *testing.T) {
	store := newFakeStore(austinPool())
	prefs := austinPrefs(1)
	prefs.Location = ""
	store.prefs[1] = prefs
	e := newTestEngine(t, store, false)

	_, err := e.GenerateItinerary(context.Background(), ItineraryRequest{UserID: 1})
	if !errors.Is(err, recommend.ErrInvalidInput) {
		t.Errorf("GenerateItinerary() error = %v, want ErrInvalidInput", err)
	}
}

func TestGenerateItinerary_AustinItalian(t *testing.T) {
	store := newFakeStore(austinPool())
	store.prefs[1] = austinPrefs(1)
	store.like(1, 3, recommend.InteractionLike)
	store.like(1, 70, recommend.InteractionDislike)
	e := newTestEngine(t, store, true)

	res, err := e.GenerateItinerary(context.Background(), ItineraryRequest{UserID: 1})
	if err != nil {
		t.Fatalf("GenerateItinerary() error = %v", err)
	}
	if res.Tier != selection.TierPreferredCuisine {
		t.Errorf("tier = %q, want %q", res.Tier, selection.TierPreferredCuisine)
	}
	if len(res.Days) != 3 {
		t.Fatalf("days = %d, want 3", len(res.Days))
	}

	seen := make(map[int64]bool)
	for _, day := range res.Days {
		for _, sb := range day.Businesses() {
			if seen[sb.Business.ID] {
				t.Errorf("business %d scheduled twice", sb.Business.ID)
			}
			seen[sb.Business.ID] = true
			if sb.Score < 0 || sb.Score > 1 {
				t.Errorf("score = %v, want within [0, 1]", sb.Score)
			}
		}
	}
	if res.Scheduled != len(seen) {
		t.Errorf("Scheduled = %d, want %d", res.Scheduled, len(seen))
	}

	// 60 Italian places fill the preferred share; 75 of the 80 others fill
	// the variety share.
	if res.Candidates != 135 {
		t.Errorf("Candidates = %d, want 135", res.Candidates)
	}

	if e.Model().Version() != 1 {
		t.Errorf("model version = %d, want 1 after best-effort training", e.Model().Version())
	}
}

func TestGenerateItinerary_ColdStart(t *testing.T) {
	store := newFakeStore(austinPool())
	prefs := austinPrefs(2)
	prefs.PreferredCuisine = nil
	store.prefs[2] = prefs
	e := newTestEngine(t, store, false)

	res, err := e.GenerateItinerary(context.Background(), ItineraryRequest{UserID: 2, Locality: "austin"})
	if err != nil {
		t.Fatalf("GenerateItinerary() error = %v", err)
	}
	if res.Tier != selection.TierGeneral {
		t.Errorf("tier = %q, want %q", res.Tier, selection.TierGeneral)
	}
	if res.Scheduled == 0 {
		t.Error("Scheduled = 0, want a populated itinerary")
	}
	if e.Model().Version() != 0 {
		t.Errorf("model version = %d, want 0 without history", e.Model().Version())
	}
}

func TestGenerateItinerary_SurvivesHistoryFailure(t *testing.T) {
	store := newFakeStore(austinPool())
	store.prefs[1] = austinPrefs(1)
	e := newTestEngine(t, store, false)

	store.failInteractions = errors.New("connection reset")
	_, err := e.GenerateItinerary(context.Background(), ItineraryRequest{UserID: 1})
	if err == nil || !strings.Contains(err.Error(), "read interactions") {
		t.Errorf("GenerateItinerary() error = %v, want read interactions failure", err)
	}
}

func TestTrain(t *testing.T) {
	tests := []struct {
		name        string
		prefs       bool
		likes       []int64
		wantSkipped bool
		wantVersion int
	}{
		{name: "no preferences", prefs: false, likes: []int64{1, 2, 3}, wantSkipped: true},
		{name: "too few interactions", prefs: true, likes: []int64{1}, wantSkipped: true},
		{name: "trains", prefs: true, likes: []int64{1, 2, 65}, wantVersion: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore(austinPool())
			if tt.prefs {
				store.prefs[1] = austinPrefs(1)
			}
			for _, id := range tt.likes {
				typ := recommend.InteractionLike
				if id > 60 {
					typ = recommend.InteractionDislike
				}
				store.like(1, id, typ)
			}
			e := newTestEngine(t, store, true)

			res, err := e.Train(context.Background(), 1)
			if err != nil {
				t.Fatalf("Train() error = %v", err)
			}
			if res.Skipped != tt.wantSkipped {
				t.Errorf("Train() skipped = %v, want %v", res.Skipped, tt.wantSkipped)
			}
			if res.Version != tt.wantVersion {
				t.Errorf("Train() version = %d, want %d", res.Version, tt.wantVersion)
			}
			if !tt.wantSkipped && !res.Saved {
				t.Error("Train() saved = false, want true")
			}
		})
	}
}

func TestLoadModel_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	fs, err := storage.NewFileStore(dir, 3)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	store := newFakeStore(austinPool())
	store.prefs[1] = austinPrefs(1)
	store.like(1, 4, recommend.InteractionLike)
	store.like(1, 80, recommend.InteractionDislike)

	first, err := New(recommend.DefaultConfig(), store, fs, zerolog.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	found, err := first.LoadModel(context.Background())
	if err != nil || found {
		t.Fatalf("LoadModel() = %v, %v, want false, nil", found, err)
	}
	if _, err := first.Train(context.Background(), 1); err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	second, err := New(recommend.DefaultConfig(), store, fs, zerolog.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	found, err = second.LoadModel(context.Background())
	if err != nil || !found {
		t.Fatalf("LoadModel() = %v, %v, want true, nil", found, err)
	}
	if second.Model().Version() != first.Model().Version() {
		t.Errorf("loaded version = %d, want %d", second.Model().Version(), first.Model().Version())
	}

	b := store.businesses[5]
	prefs := austinPrefs(1)
	profile := recommend.Profile{}
	user := features.User(prefs, &profile)
	if got, want := second.Model().Score(user, &b), first.Model().Score(user, &b); got != want {
		t.Errorf("loaded model score = %v, want %v", got, want)
	}
}

func TestSubmitFeedback(t *testing.T) {
	store := newFakeStore(austinPool())
	store.prefs[1] = austinPrefs(1)
	sched := &recordingScheduler{}
	e := newTestEngine(t, store, false)
	e.SetScheduler(sched)

	in, err := e.SubmitFeedback(context.Background(), 1, 5, recommend.InteractionLike)
	if err != nil {
		t.Fatalf("SubmitFeedback() error = %v", err)
	}
	if in.ID == 0 {
		t.Error("SubmitFeedback() returned interaction without ID")
	}
	if got := in.ContextPreferences["travel_style"]; got != "casual" {
		t.Errorf("snapshot travel_style = %v, want casual", got)
	}
	if _, ok := in.ContextPreferences["user_id"]; ok {
		t.Error("snapshot contains user_id, want it stripped")
	}
	if len(sched.calls) != 1 || sched.calls[0] != "1:feedback" {
		t.Errorf("scheduled calls = %v, want [1:feedback]", sched.calls)
	}
}

func TestSubmitFeedback_Errors(t *testing.T) {
	tests := []struct {
		name       string
		businessID int64
		typ        recommend.InteractionType
		wantErr    error
	}{
		{name: "invalid type", businessID: 5, typ: "love", wantErr: recommend.ErrInvalidInput},
		{name: "unknown business", businessID: 9999, typ: recommend.InteractionLike, wantErr: recommend.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, newFakeStore(austinPool()), false)
			_, err := e.SubmitFeedback(context.Background(), 1, tt.businessID, tt.typ)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("SubmitFeedback() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSubmitFeedback_SchedulerFailureTrainsInline(t *testing.T) {
	store := newFakeStore(austinPool())
	store.prefs[1] = austinPrefs(1)
	store.like(1, 2, recommend.InteractionLike)
	e := newTestEngine(t, store, false)
	e.SetScheduler(&recordingScheduler{err: errors.New("queue full")})

	if _, err := e.SubmitFeedback(context.Background(), 1, 90, recommend.InteractionDislike); err != nil {
		t.Fatalf("SubmitFeedback() error = %v", err)
	}
	if e.Model().Version() != 1 {
		t.Errorf("model version = %d, want 1 after inline training", e.Model().Version())
	}
}

func TestRemoveFeedback(t *testing.T) {
	store := newFakeStore(austinPool())
	store.like(1, 5, recommend.InteractionLike)
	store.like(1, 5, recommend.InteractionDislike)
	store.like(1, 6, recommend.InteractionLike)
	e := newTestEngine(t, store, false)
	e.SetScheduler(&recordingScheduler{})

	n, err := e.RemoveFeedback(context.Background(), 1, 5, recommend.InteractionLike)
	if err != nil || n != 1 {
		t.Fatalf("RemoveFeedback(like) = %d, %v, want 1, nil", n, err)
	}
	n, err = e.RemoveFeedback(context.Background(), 1, 5, "")
	if err != nil || n != 1 {
		t.Fatalf("RemoveFeedback(all) = %d, %v, want 1, nil", n, err)
	}
	_, err = e.RemoveFeedback(context.Background(), 1, 5, "")
	if !errors.Is(err, recommend.ErrNotFound) {
		t.Errorf("RemoveFeedback() on empty history error = %v, want ErrNotFound", err)
	}

	remaining, _ := store.RecentInteractions(context.Background(), 1, 0)
	if len(remaining) != 1 || remaining[0].BusinessID != 6 {
		t.Errorf("remaining interactions = %v, want only business 6", remaining)
	}
}

func TestModelStatus(t *testing.T) {
	store := newFakeStore(austinPool())
	store.prefs[1] = austinPrefs(1)
	store.like(1, 1, recommend.InteractionLike)
	e := newTestEngine(t, store, true)

	st, err := e.ModelStatus(context.Background(), 1)
	if err != nil {
		t.Fatalf("ModelStatus() error = %v", err)
	}
	if st.ModelExists {
		t.Error("ModelExists = true before any training")
	}
	if st.ReadyForTraining {
		t.Error("ReadyForTraining = true with one interaction")
	}
	if st.StateDim != 18 || st.ActionDim != 2 || st.HiddenDim != 128 {
		t.Errorf("dims = %d/%d/%d, want 18/2/128", st.StateDim, st.ActionDim, st.HiddenDim)
	}
	if st.SampleScore == nil {
		t.Fatal("SampleScore = nil, want a score")
	}
	if *st.SampleScore < 0 || *st.SampleScore > 1 {
		t.Errorf("SampleScore = %v, want within [0, 1]", *st.SampleScore)
	}

	store.like(1, 100, recommend.InteractionDislike)
	if _, err := e.Train(context.Background(), 1); err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	st, err = e.ModelStatus(context.Background(), 1)
	if err != nil {
		t.Fatalf("ModelStatus() error = %v", err)
	}
	if !st.ModelExists || st.Version != 1 || !st.ReadyForTraining {
		t.Errorf("after training: exists=%v version=%d ready=%v, want true 1 true", st.ModelExists, st.Version, st.ReadyForTraining)
	}
	if st.Summary.Likes != 1 || st.Summary.Dislikes != 1 || len(st.Summary.Recent) != 2 {
		t.Errorf("summary = %+v, want 1 like, 1 dislike, 2 recent", st.Summary)
	}
}

func TestModelStatus_NoPreferences(t *testing.T) {
	e := newTestEngine(t, newFakeStore(austinPool()), false)

	st, err := e.ModelStatus(context.Background(), 3)
	if err != nil {
		t.Fatalf("ModelStatus() error = %v", err)
	}
	if st.SampleScore != nil {
		t.Errorf("SampleScore = %v, want nil without preferences", *st.SampleScore)
	}
	if st.PreferencesFound {
		t.Error("PreferencesFound = true, want false")
	}
}

func TestMetadataPreferences(t *testing.T) {
	store := newFakeStore(austinPool())
	store.metadata[1] = []recommend.PostMetadata{
		{PostID: 1, Romantic: 1, Casual: 1, CuisineType: "Italian"},
		{PostID: 2, Romantic: 1, CuisineType: "Italian"},
		{PostID: 3, Casual: 1, CuisineType: "Thai"},
	}
	for i := int64(1); i <= 12; i++ {
		store.like(1, i, recommend.InteractionLike)
	}
	e := newTestEngine(t, store, false)

	rep, err := e.MetadataPreferences(context.Background(), 1)
	if err != nil {
		t.Fatalf("MetadataPreferences() error = %v", err)
	}
	if rep.Profile.Empty() {
		t.Fatal("profile is empty, want learned scores")
	}
	if got := rep.Profile.Score(recommend.AttrRomantic); got <= 0 {
		t.Errorf("romantic score = %v, want > 0", got)
	}
	if rep.Summary.Total != 12 || rep.Summary.Likes != 12 {
		t.Errorf("summary total/likes = %d/%d, want 12/12", rep.Summary.Total, rep.Summary.Likes)
	}
	if len(rep.Summary.Recent) != 10 {
		t.Errorf("recent = %d, want 10", len(rep.Summary.Recent))
	}
	if rep.Summary.Recent[0].BusinessID != 12 {
		t.Errorf("most recent business = %d, want 12", rep.Summary.Recent[0].BusinessID)
	}
}

func TestPreferenceSnapshot_Nil(t *testing.T) {
	got, err := preferenceSnapshot(nil)
	if err != nil {
		t.Fatalf("preferenceSnapshot(nil) error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("preferenceSnapshot(nil) = %v, want empty map", got)
	}
}

func TestRequestRand_Independent(t *testing.T) {
	e := newTestEngine(t, newFakeStore(nil), false)
	a, b := e.requestRand(), e.requestRand()
	if a.Uint64() == b.Uint64() {
		t.Error("consecutive request generators produced the same first value")
	}
}

func TestCheckpoint(t *testing.T) {
	store := newFakeStore(austinPool())
	store.prefs[1] = austinPrefs(1)
	store.like(1, 1, recommend.InteractionLike)
	store.like(1, 2, recommend.InteractionLike)
	store.like(1, 65, recommend.InteractionDislike)
	e := newTestEngine(t, store, true)
	ctx := context.Background()

	if err := e.Checkpoint(ctx); err != nil {
		t.Fatalf("Checkpoint() untrained error = %v", err)
	}
	if exists, _ := e.artifacts.Exists(ctx, policy.ArtifactName); exists {
		t.Error("untrained model was persisted")
	}

	if _, err := e.Train(ctx, 1); err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	if got, want := e.savedVersion.Load(), int64(e.Model().Version()); got != want {
		t.Errorf("savedVersion = %d, want %d", got, want)
	}
	if err := e.Checkpoint(ctx); err != nil {
		t.Errorf("Checkpoint() error = %v", err)
	}
	if exists, _ := e.artifacts.Exists(ctx, policy.ArtifactName); !exists {
		t.Error("trained model not persisted")
	}

	noStore := newTestEngine(t, store, false)
	if _, err := noStore.Train(ctx, 1); err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	if err := noStore.Checkpoint(ctx); err != nil {
		t.Errorf("Checkpoint() without artifacts error = %v", err)
	}
}

func TestSaveModel_RepeatedVersionIsNoError(t *testing.T) {
	store := newFakeStore(austinPool())
	store.prefs[1] = austinPrefs(1)
	store.like(1, 1, recommend.InteractionLike)
	store.like(1, 65, recommend.InteractionDislike)
	e := newTestEngine(t, store, true)
	ctx := context.Background()

	if _, err := e.Train(ctx, 1); err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	if err := e.SaveModel(ctx); err != nil {
		t.Errorf("SaveModel() of an already persisted version error = %v", err)
	}
	if got := e.savedVersion.Load(); got != 1 {
		t.Errorf("savedVersion = %d, want 1", got)
	}
}

func TestMarkSaved_NeverMovesBackwards(t *testing.T) {
	tests := []struct {
		name  string
		marks []int
		want  int64
	}{
		{"in order", []int{1, 2, 3}, 3},
		{"older finishes last", []int{6, 5}, 6},
		{"repeat", []int{4, 4}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, newFakeStore(nil), false)
			for _, v := range tt.marks {
				e.markSaved(v)
			}
			if got := e.savedVersion.Load(); got != tt.want {
				t.Errorf("savedVersion = %d, want %d", got, tt.want)
			}
		})
	}
}
