// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package database

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/travia/internal/recommend"
)

func TestUsers(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	alice, err := db.CreateUser(ctx, " alice ", "alice@example.com")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if alice.ID == 0 || alice.Username != "alice" || alice.ExternalID == uuid.Nil {
		t.Errorf("CreateUser() = %+v", alice)
	}

	bob, err := db.CreateUser(ctx, "bob", "")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if bob.Email != "" || bob.ExternalID == alice.ExternalID {
		t.Errorf("CreateUser(bob) = %+v", bob)
	}

	if _, err := db.CreateUser(ctx, "alice", ""); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate CreateUser() error = %v, want ErrConflict", err)
	}
	if _, err := db.CreateUser(ctx, "  ", ""); !errors.Is(err, recommend.ErrInvalidInput) {
		t.Errorf("blank CreateUser() error = %v, want ErrInvalidInput", err)
	}

	got, err := db.GetUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if got.ExternalID != alice.ExternalID || got.Email != "alice@example.com" {
		t.Errorf("GetUser() = %+v, want %+v", got, alice)
	}
	if _, err := db.GetUser(ctx, 999); !errors.Is(err, recommend.ErrNotFound) {
		t.Errorf("GetUser(999) error = %v, want ErrNotFound", err)
	}

	exists, err := db.UserExists(ctx, bob.ID)
	if err != nil || !exists {
		t.Errorf("UserExists(bob) = %v, %v, want true", exists, err)
	}

	users, err := db.ListUsers(ctx, 10, 0)
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
	if len(users) != 2 || users[0].ID != alice.ID || users[1].ID != bob.ID {
		t.Errorf("ListUsers() = %+v", users)
	}
	users, err = db.ListUsers(ctx, 10, 1)
	if err != nil {
		t.Fatalf("ListUsers(offset) error = %v", err)
	}
	if len(users) != 1 || users[0].ID != bob.ID {
		t.Errorf("ListUsers(offset 1) = %+v", users)
	}
}

func TestPreferences(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	got, err := db.LatestPreferences(ctx, 1)
	if err != nil {
		t.Fatalf("LatestPreferences() error = %v", err)
	}
	if got != nil {
		t.Errorf("LatestPreferences() = %+v, want nil", got)
	}

	first := &recommend.UserPreferences{UserID: 1, PreferredCuisine: []string{"Thai"}, CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	if err := db.InsertPreferences(ctx, first); err != nil {
		t.Fatalf("InsertPreferences() error = %v", err)
	}
	if first.ID == 0 {
		t.Error("InsertPreferences() did not set ID")
	}
	if first.Budget != 2 || first.TravelDays != 5 || first.TravelStyle != "tourist" {
		t.Errorf("defaults not applied: %+v", first)
	}

	second := &recommend.UserPreferences{
		UserID:           1,
		Budget:           3,
		TravelDays:       2,
		TravelStyle:      "luxury",
		PreferredCuisine: []string{" Italian ", "", "Mexican"},
		IncludeBar:       true,
		Location:         "Austin",
		CreatedAt:        time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := db.InsertPreferences(ctx, second); err != nil {
		t.Fatalf("InsertPreferences() error = %v", err)
	}

	got, err = db.LatestPreferences(ctx, 1)
	if err != nil {
		t.Fatalf("LatestPreferences() error = %v", err)
	}
	if got == nil || got.ID != second.ID {
		t.Fatalf("LatestPreferences() = %+v, want row %d", got, second.ID)
	}
	if want := []string{"Italian", "Mexican"}; !reflect.DeepEqual(got.PreferredCuisine, want) {
		t.Errorf("PreferredCuisine = %v, want %v", got.PreferredCuisine, want)
	}
	if got.Budget != 3 || got.TravelDays != 2 || !got.IncludeBar || got.Location != "Austin" || got.NoisePreference != "quiet" {
		t.Errorf("LatestPreferences() = %+v", got)
	}
	if !got.CreatedAt.Equal(second.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, second.CreatedAt)
	}

	if err := db.InsertPreferences(ctx, &recommend.UserPreferences{}); !errors.Is(err, recommend.ErrInvalidInput) {
		t.Errorf("InsertPreferences(no user) error = %v, want ErrInvalidInput", err)
	}
}

func TestInteractions(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	all := seedCatalog(t, db)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first := &recommend.Interaction{
		UserID:             7,
		BusinessID:         all[0].ID,
		Type:               recommend.InteractionLike,
		ContextPreferences: map[string]any{"travel_style": "casual", "budget": float64(2)},
		CreatedAt:          base,
	}
	id, err := db.InsertInteraction(ctx, first)
	if err != nil {
		t.Fatalf("InsertInteraction() error = %v", err)
	}
	if id == 0 {
		t.Error("InsertInteraction() returned 0")
	}

	// Same timestamp: the higher ID is newer.
	for _, b := range all[1:3] {
		in := &recommend.Interaction{UserID: 7, BusinessID: b.ID, Type: recommend.InteractionDislike, CreatedAt: base.Add(time.Minute)}
		if _, err := db.InsertInteraction(ctx, in); err != nil {
			t.Fatalf("InsertInteraction() error = %v", err)
		}
	}

	got, err := db.RecentInteractions(ctx, 7, 10)
	if err != nil {
		t.Fatalf("RecentInteractions() error = %v", err)
	}
	wantOrder := []int64{all[2].ID, all[1].ID, all[0].ID}
	var gotOrder []int64
	for _, in := range got {
		gotOrder = append(gotOrder, in.BusinessID)
	}
	if !reflect.DeepEqual(gotOrder, wantOrder) {
		t.Fatalf("RecentInteractions() order = %v, want %v", gotOrder, wantOrder)
	}
	last := got[2]
	if last.Type != recommend.InteractionLike || last.Business.Name != all[0].Name {
		t.Errorf("joined interaction = %+v", last)
	}
	if last.ContextPreferences["travel_style"] != "casual" || last.ContextPreferences["budget"] != float64(2) {
		t.Errorf("ContextPreferences = %v", last.ContextPreferences)
	}
	if !last.CreatedAt.Equal(base) {
		t.Errorf("CreatedAt = %v, want %v", last.CreatedAt, base)
	}

	t.Run("invalid type", func(t *testing.T) {
		_, err := db.InsertInteraction(ctx, &recommend.Interaction{UserID: 7, BusinessID: all[0].ID, Type: "meh"})
		if !errors.Is(err, recommend.ErrInvalidInput) {
			t.Errorf("InsertInteraction() error = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("delete by type", func(t *testing.T) {
		n, err := db.DeleteInteractions(ctx, 7, all[0].ID, recommend.InteractionDislike)
		if err != nil || n != 0 {
			t.Errorf("DeleteInteractions(dislike) = %d, %v, want 0", n, err)
		}
		n, err = db.DeleteInteractions(ctx, 7, all[1].ID, "")
		if err != nil || n != 1 {
			t.Errorf("DeleteInteractions(any) = %d, %v, want 1", n, err)
		}
		got, err := db.RecentInteractions(ctx, 7, 10)
		if err != nil {
			t.Fatalf("RecentInteractions() error = %v", err)
		}
		if len(got) != 2 {
			t.Errorf("len = %d, want 2", len(got))
		}
	})
}

func TestRecentInteractions_Cap(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	all := seedCatalog(t, db)

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < MaxInteractionRows+5; i++ {
		in := &recommend.Interaction{UserID: 3, BusinessID: all[i%len(all)].ID, Type: recommend.InteractionLike, CreatedAt: base.Add(time.Duration(i) * time.Second)}
		if _, err := db.InsertInteraction(ctx, in); err != nil {
			t.Fatalf("InsertInteraction() error = %v", err)
		}
	}

	for _, limit := range []int{0, 500} {
		got, err := db.RecentInteractions(ctx, 3, limit)
		if err != nil {
			t.Fatalf("RecentInteractions(%d) error = %v", limit, err)
		}
		if len(got) != MaxInteractionRows {
			t.Errorf("RecentInteractions(%d) = %d rows, want %d", limit, len(got), MaxInteractionRows)
		}
	}
}

func TestPostsAndLikedMetadata(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	author, viewer := int64(1), int64(2)
	var posts []int64
	for i := 0; i < 3; i++ {
		p, err := db.CreatePost(ctx, author, nil, "post")
		if err != nil {
			t.Fatalf("CreatePost() error = %v", err)
		}
		posts = append(posts, p.ID)
	}

	if err := db.SetPostMetadata(ctx, &recommend.PostMetadata{PostID: posts[0], Romantic: 1, CuisineType: "Italian"}); err != nil {
		t.Fatalf("SetPostMetadata() error = %v", err)
	}
	// Replacing metadata overwrites every field.
	if err := db.SetPostMetadata(ctx, &recommend.PostMetadata{PostID: posts[0], Classy: 1, CuisineType: "French"}); err != nil {
		t.Fatalf("SetPostMetadata() replace error = %v", err)
	}
	if err := db.SetPostMetadata(ctx, &recommend.PostMetadata{PostID: posts[1], Casual: 1}); err != nil {
		t.Fatalf("SetPostMetadata() error = %v", err)
	}

	for _, id := range []int64{posts[0], posts[2], posts[1]} {
		added, err := db.LikePost(ctx, viewer, id)
		if err != nil || !added {
			t.Fatalf("LikePost(%d) = %v, %v", id, added, err)
		}
		time.Sleep(2 * time.Millisecond)
	}
	if added, err := db.LikePost(ctx, viewer, posts[0]); err != nil || added {
		t.Errorf("repeat LikePost() = %v, %v, want false", added, err)
	}

	p, err := db.GetPost(ctx, posts[0])
	if err != nil {
		t.Fatalf("GetPost() error = %v", err)
	}
	if p.Likes != 1 {
		t.Errorf("Likes = %d, want 1", p.Likes)
	}

	got, err := db.RecentLikedMetadata(ctx, viewer, 10)
	if err != nil {
		t.Fatalf("RecentLikedMetadata() error = %v", err)
	}
	// posts[2] has no metadata and is skipped.
	if len(got) != 2 || got[0].PostID != posts[1] || got[1].PostID != posts[0] {
		t.Fatalf("RecentLikedMetadata() = %+v", got)
	}
	if got[1].Romantic != 0 || got[1].Classy != 1 || got[1].CuisineType != "French" {
		t.Errorf("replaced metadata = %+v", got[1])
	}
	if got[0].LikedAt.IsZero() {
		t.Error("LikedAt not set")
	}

	removed, err := db.UnlikePost(ctx, viewer, posts[1])
	if err != nil || !removed {
		t.Errorf("UnlikePost() = %v, %v, want true", removed, err)
	}
	got, err = db.RecentLikedMetadata(ctx, viewer, 10)
	if err != nil {
		t.Fatalf("RecentLikedMetadata() error = %v", err)
	}
	if len(got) != 1 || got[0].PostID != posts[0] {
		t.Errorf("after unlike RecentLikedMetadata() = %+v", got)
	}

	if _, err := db.GetPost(ctx, 999); !errors.Is(err, recommend.ErrNotFound) {
		t.Errorf("GetPost(999) error = %v, want ErrNotFound", err)
	}
	if err := db.SetPostMetadata(ctx, &recommend.PostMetadata{}); !errors.Is(err, recommend.ErrInvalidInput) {
		t.Errorf("SetPostMetadata(no post) error = %v, want ErrInvalidInput", err)
	}
}
