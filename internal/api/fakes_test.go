// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/travia/internal/database"
	"github.com/tomtom215/travia/internal/models"
	"github.com/tomtom215/travia/internal/recommend"
	"github.com/tomtom215/travia/internal/recommend/engine"
	"github.com/tomtom215/travia/internal/recommend/itinerary"
)

// fakeStore is an in-memory Store.
type fakeStore struct {
	mu sync.Mutex

	pingErr error
	failAll error

	users        map[int64]*models.User
	prefs        map[int64]*recommend.UserPreferences
	interactions map[int64][]recommend.Interaction
	businesses   map[int64]*recommend.Business
	posts        map[int64]*models.Post
	metadata     map[int64]*recommend.PostMetadata
	likes        map[[2]int64]bool
	locations    []models.Location

	nextID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:        make(map[int64]*models.User),
		prefs:        make(map[int64]*recommend.UserPreferences),
		interactions: make(map[int64][]recommend.Interaction),
		businesses:   make(map[int64]*recommend.Business),
		posts:        make(map[int64]*models.Post),
		metadata:     make(map[int64]*recommend.PostMetadata),
		likes:        make(map[[2]int64]bool),
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) addUser(name string) *models.User {
	u, _ := f.CreateUser(context.Background(), name, "")
	return u
}

func (f *fakeStore) addBusiness(name string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.id()
	f.businesses[id] = &recommend.Business{ID: id, Name: name, Locality: "Austin"}
	return id
}

func (f *fakeStore) Ping(context.Context) error { return f.pingErr }

func (f *fakeStore) CreateUser(_ context.Context, username, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return nil, f.failAll
	}
	for _, u := range f.users {
		if u.Username == username {
			return nil, fmt.Errorf("username %q: %w", username, database.ErrConflict)
		}
	}
	u := &models.User{ID: f.id(), ExternalID: uuid.New(), Username: username, Email: email, CreatedAt: time.Now().UTC()}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeStore) GetUser(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, recommend.ErrNotFound)
	}
	return u, nil
}

func (f *fakeStore) UserExists(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return false, f.failAll
	}
	_, ok := f.users[id]
	return ok, nil
}

func (f *fakeStore) ListUsers(_ context.Context, limit, offset int) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for id := int64(1); id <= f.nextID; id++ {
		if u, ok := f.users[id]; ok {
			out = append(out, *u)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) InsertPreferences(_ context.Context, p *recommend.UserPreferences) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = f.id()
	p.CreatedAt = time.Now().UTC()
	f.prefs[p.UserID] = p
	return nil
}

func (f *fakeStore) LatestPreferences(_ context.Context, userID int64) (*recommend.UserPreferences, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.prefs[userID], nil
}

func (f *fakeStore) RecentInteractions(_ context.Context, userID int64, limit int) ([]recommend.Interaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.interactions[userID]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) Locations(context.Context) ([]models.Location, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return nil, f.failAll
	}
	return f.locations, nil
}

func (f *fakeStore) BusinessByID(_ context.Context, id int64) (*recommend.Business, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.businesses[id]
	if !ok {
		return nil, fmt.Errorf("business %d: %w", id, recommend.ErrNotFound)
	}
	return b, nil
}

func (f *fakeStore) CreatePost(_ context.Context, userID int64, businessID *int64, caption string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := &models.Post{ID: f.id(), UserID: userID, BusinessID: businessID, Caption: caption, CreatedAt: time.Now().UTC()}
	f.posts[p.ID] = p
	return p, nil
}

func (f *fakeStore) GetPost(_ context.Context, id int64) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return nil, fmt.Errorf("post %d: %w", id, recommend.ErrNotFound)
	}
	cp := *p
	for k := range f.likes {
		if k[1] == id {
			cp.Likes++
		}
	}
	return &cp, nil
}

func (f *fakeStore) SetPostMetadata(_ context.Context, m *recommend.PostMetadata) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.metadata[m.PostID] = m
	return nil
}

func (f *fakeStore) LikePost(_ context.Context, userID, postID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := [2]int64{userID, postID}
	if f.likes[k] {
		return false, nil
	}
	f.likes[k] = true
	return true, nil
}

func (f *fakeStore) UnlikePost(_ context.Context, userID, postID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := [2]int64{userID, postID}
	if !f.likes[k] {
		return false, nil
	}
	delete(f.likes, k)
	return true, nil
}

// fakeEngine records calls and returns canned results.
type fakeEngine struct {
	mu sync.Mutex

	err error

	itineraryReqs []engine.ItineraryRequest
	feedback      []recommend.Interaction
	removed       []recommend.InteractionType
}

func (f *fakeEngine) GenerateItinerary(_ context.Context, req engine.ItineraryRequest) (*engine.ItineraryResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.itineraryReqs = append(f.itineraryReqs, req)
	if f.err != nil {
		return nil, f.err
	}
	return &engine.ItineraryResult{
		Itinerary:  &itinerary.Itinerary{Days: []itinerary.Day{}},
		Tier:       "preferred_cuisine",
		Candidates: 3,
	}, nil
}

func (f *fakeEngine) SubmitFeedback(_ context.Context, userID, businessID int64, typ recommend.InteractionType) (*recommend.Interaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	in := recommend.Interaction{ID: int64(len(f.feedback) + 1), UserID: userID, BusinessID: businessID, Type: typ}
	f.feedback = append(f.feedback, in)
	return &in, nil
}

func (f *fakeEngine) RemoveFeedback(_ context.Context, _, _ int64, typ recommend.InteractionType) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, typ)
	if f.err != nil {
		return 0, f.err
	}
	return 1, nil
}

func (f *fakeEngine) MetadataPreferences(_ context.Context, userID int64) (*engine.PreferenceReport, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &engine.PreferenceReport{UserID: userID}, nil
}

func (f *fakeEngine) ModelStatus(_ context.Context, userID int64) (*engine.ModelStatus, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &engine.ModelStatus{UserID: userID, Architecture: "test"}, nil
}
