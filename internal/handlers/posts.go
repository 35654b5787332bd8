// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/apperr"
	"inkwell/internal/cache"
	"inkwell/internal/markdown"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/query"
	"inkwell/internal/store"
)

// PostListResponse is the listing envelope with pagination metadata.
type PostListResponse struct {
	Posts       []models.PostSummary `json:"posts"`
	TotalPages  int                  `json:"totalPages"`
	CurrentPage int                  `json:"currentPage"`
	TotalPosts  int                  `json:"totalPosts"`
}

// Posts groups the post and comment HTTP handlers.
type Posts struct {
	store *store.PostStore
	lists *cache.ListCache // nil disables response caching
}

// NewPosts creates a new Posts handler group. lists may be nil.
func NewPosts(postStore *store.PostStore, lists *cache.ListCache) *Posts {
	return &Posts{store: postStore, lists: lists}
}

// List handles GET /api/posts. Listing parameters are coerced, never
// rejected, so this endpoint cannot fail on bad input.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	params := query.FromValues(r.URL.Query())

	var key string
	if h.lists != nil {
		key = cache.Key(params)
		if body, ok := h.lists.Get(r.Context(), key); ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(body)
			return
		}
	}

	posts, total, err := h.store.List(params)
	if err != nil {
		respondError(w, err)
		return
	}

	params = params.Normalize()
	resp := PostListResponse{
		Posts:       posts,
		TotalPages:  query.TotalPages(total, params.Limit),
		CurrentPage: params.Page,
		TotalPosts:  total,
	}

	if h.lists != nil {
		if body, err := json.Marshal(resp); err == nil {
			h.lists.Set(r.Context(), key, body)
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/posts/{id}. Every successful read bumps the post's
// view counter. The response includes the body rendered to sanitized HTML.
func (h *Posts) Get(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	post, err := h.store.Get(id)
	if err != nil {
		respondError(w, err)
		return
	}

	post.ContentHTML = markdown.ToHTML(post.Content)
	respondJSON(w, http.StatusOK, post)
}

// Create handles POST /api/posts. The author is always the authenticated
// caller; any author field in the body is ignored.
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	var input store.PostInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, err)
		return
	}

	identity := middleware.IdentityFromCtx(r.Context())
	post, err := h.store.Create(input, identity.UserID)
	if err != nil {
		respondError(w, err)
		return
	}

	h.invalidate(r)
	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "Post created successfully",
		"post":    post,
	})
}

// Update handles PUT /api/posts/{id}.
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var input store.PostInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, err)
		return
	}

	post, err := h.store.Update(id, input)
	if err != nil {
		respondError(w, err)
		return
	}

	h.invalidate(r)
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Post updated successfully",
		"post":    post,
	})
}

// Delete handles DELETE /api/posts/{id}. The embedded comments go with the
// post in the same row delete.
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	title, err := h.store.Delete(id)
	if err != nil {
		respondError(w, err)
		return
	}

	h.invalidate(r)
	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("%s deleted successfully", title),
	})
}

// AddComment handles POST /api/posts/{id}/comments. The comment author is
// the authenticated caller and the timestamp is server-assigned.
func (h *Posts) AddComment(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, err)
		return
	}

	identity := middleware.IdentityFromCtx(r.Context())
	post, err := h.store.AddComment(id, body.Content, identity.UserID)
	if err != nil {
		respondError(w, err)
		return
	}

	h.invalidate(r)
	respondJSON(w, http.StatusCreated, post)
}

// invalidate clears the listing cache after any post write.
func (h *Posts) invalidate(r *http.Request) {
	if h.lists != nil {
		h.lists.InvalidateAll(r.Context())
	}
}

// postID parses the {id} route parameter.
func postID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, apperr.NotFound("Post")
	}
	return id, nil
}
