// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/travia/internal/models"
	"github.com/tomtom215/travia/internal/recommend"
)

// CreatePost publishes a post for the user, optionally about a business.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req models.CreatePostRequest
	if !h.decodeAndValidate(w, r, &req, false) {
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()
	if req.BusinessID != nil {
		if _, err := h.store.BusinessByID(ctx, *req.BusinessID); err != nil {
			respondErr(w, r, err)
			return
		}
	}
	post, err := h.store.CreatePost(ctx, userID(r), req.BusinessID, req.Caption)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, post, start)
}

// GetPost returns a post with its like count.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	postID, ok := h.postID(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()
	post, err := h.store.GetPost(ctx, postID)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, http.StatusOK, post, start)
}

// SetPostMetadata attaches or replaces the venue metadata of a post.
//
// @Summary Set post venue metadata
// @Tags Posts
// @Accept json
// @Produce json
// @Param postID path int true "Post ID"
// @Param body body models.PostMetadataRequest true "Metadata"
// @Success 200 {object} models.APIResponse{data=recommend.PostMetadata}
// @Router /posts/{postID}/metadata [put]
func (h *Handler) SetPostMetadata(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	postID, ok := h.postID(w, r)
	if !ok {
		return
	}
	var req models.PostMetadataRequest
	if !h.decodeAndValidate(w, r, &req, false) {
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()
	if _, err := h.store.GetPost(ctx, postID); err != nil {
		respondErr(w, r, err)
		return
	}
	meta := req.ToMetadata(postID)
	if err := h.store.SetPostMetadata(ctx, meta); err != nil {
		respondErr(w, r, err)
		return
	}
	respondData(w, http.StatusOK, meta, start)
}

// LikePost records that ?user_id= liked the post. Liking twice is not an
// error; "liked" reports whether this call changed anything.
func (h *Handler) LikePost(w http.ResponseWriter, r *http.Request) {
	h.toggleLike(w, r, true)
}

// UnlikePost removes a like. A missing like is 404.
func (h *Handler) UnlikePost(w http.ResponseWriter, r *http.Request) {
	h.toggleLike(w, r, false)
}

func (h *Handler) toggleLike(w http.ResponseWriter, r *http.Request, like bool) {
	start := time.Now()
	postID, ok := h.postID(w, r)
	if !ok {
		return
	}
	uid, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil || uid <= 0 {
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, "user_id query parameter is required", nil)
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()
	if err := h.ensurePostAndUser(ctx, postID, uid); err != nil {
		respondErr(w, r, err)
		return
	}

	if like {
		changed, err := h.store.LikePost(ctx, uid, postID)
		if err != nil {
			respondErr(w, r, err)
			return
		}
		respondData(w, http.StatusOK, map[string]interface{}{
			"post_id": postID,
			"user_id": uid,
			"liked":   changed,
		}, start)
		return
	}

	removed, err := h.store.UnlikePost(ctx, uid, postID)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	if !removed {
		respondErr(w, r, fmt.Errorf("like of post %d by user %d: %w", postID, uid, recommend.ErrNotFound))
		return
	}
	respondData(w, http.StatusOK, map[string]interface{}{
		"post_id": postID,
		"user_id": uid,
		"removed": true,
	}, start)
}

func (h *Handler) ensurePostAndUser(ctx context.Context, postID, uid int64) error {
	if _, err := h.store.GetPost(ctx, postID); err != nil {
		return err
	}
	exists, err := h.store.UserExists(ctx, uid)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("user %d: %w", uid, recommend.ErrNotFound)
	}
	return nil
}

// postID parses {postID}, writing a 400 on failure.
func (h *Handler) postID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := pathID(r, "postID")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return 0, false
	}
	return id, true
}
