// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package client

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// Status is the three-state lifecycle of the cached list.
type Status int

const (
	StatusLoading Status = iota // no snapshot yet, or a refresh in flight
	StatusReady                 // snapshot reflects the last successful fetch
	StatusFailed                // last fetch failed; Err carries the cause
)

// PostList is an in-memory mirror of the post collection. Reads and
// mutations are intended to happen on a single UI goroutine, but every
// operation takes the lock so misuse cannot corrupt the slice.
//
// Create is optimistic: a placeholder entry with a locally generated id is
// inserted at the head before the server call; on success the placeholder
// is replaced with the server-confirmed post verbatim (the server-assigned
// identifier, not a fresh local one), and on failure the insert is rolled
// back. There is no cancellation of in-flight requests — a superseded
// request's late response can still overwrite newer state.
type PostList struct {
	mu     sync.Mutex
	client *Client

	posts  []models.PostSummary
	status Status
	err    error
}

// NewPostList creates a list mirror in the Loading state.
func NewPostList(c *Client) *PostList {
	return &PostList{client: c, status: StatusLoading}
}

// Posts returns a copy of the current snapshot.
func (pl *PostList) Posts() []models.PostSummary {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	out := make([]models.PostSummary, len(pl.posts))
	copy(out, pl.posts)
	return out
}

// Status returns the list state and, when failed, the causing error.
func (pl *PostList) Status() (Status, error) {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	return pl.status, pl.err
}

// Refresh replaces the snapshot with server truth for the given options.
func (pl *PostList) Refresh(ctx context.Context, opts ListOptions) error {
	pl.mu.Lock()
	pl.status = StatusLoading
	pl.mu.Unlock()

	page, err := pl.client.ListPosts(ctx, opts)

	pl.mu.Lock()
	defer pl.mu.Unlock()
	if err != nil {
		pl.status = StatusFailed
		pl.err = err
		return err
	}
	pl.posts = page.Posts
	pl.status = StatusReady
	pl.err = nil
	return nil
}

// Create inserts an optimistic placeholder at the head, then reconciles it
// with the server response: the confirmed post replaces the placeholder in
// place, or the placeholder is removed when the call fails.
func (pl *PostList) Create(ctx context.Context, draft PostDraft, author models.UserRef) (*models.Post, error) {
	placeholderID := uuid.New()
	placeholder := models.PostSummary{
		ID:      placeholderID,
		Title:   draft.Title,
		Slug:    draft.Slug,
		Excerpt: draft.Excerpt,
		Author:  author,
		Tags:    draft.Tags,
	}

	pl.mu.Lock()
	pl.posts = append([]models.PostSummary{placeholder}, pl.posts...)
	pl.mu.Unlock()

	created, err := pl.client.CreatePost(ctx, draft)

	pl.mu.Lock()
	defer pl.mu.Unlock()
	if err != nil {
		pl.removeLocked(placeholderID)
		return nil, err
	}
	pl.replaceLocked(placeholderID, summaryOf(created))
	return created, nil
}

// Update sends the draft to the server and, on confirmation, replaces the
// matching entry in place. The ordering of other entries is preserved.
func (pl *PostList) Update(ctx context.Context, id uuid.UUID, draft PostDraft) (*models.Post, error) {
	updated, err := pl.client.UpdatePost(ctx, id, draft)
	if err != nil {
		return nil, err
	}

	pl.mu.Lock()
	defer pl.mu.Unlock()
	pl.replaceLocked(id, summaryOf(updated))
	return updated, nil
}

// Delete removes the post on the server and drops the matching entry.
func (pl *PostList) Delete(ctx context.Context, id uuid.UUID) error {
	if err := pl.client.DeletePost(ctx, id); err != nil {
		return err
	}

	pl.mu.Lock()
	defer pl.mu.Unlock()
	pl.removeLocked(id)
	return nil
}

// replaceLocked swaps the entry with the given id, keeping its position.
// Caller holds the lock.
func (pl *PostList) replaceLocked(id uuid.UUID, entry models.PostSummary) {
	for i := range pl.posts {
		if pl.posts[i].ID == id {
			pl.posts[i] = entry
			return
		}
	}
}

// removeLocked drops the entry with the given id. Caller holds the lock.
func (pl *PostList) removeLocked(id uuid.UUID) {
	for i := range pl.posts {
		if pl.posts[i].ID == id {
			pl.posts = append(pl.posts[:i], pl.posts[i+1:]...)
			return
		}
	}
}

// summaryOf trims a full post down to its listing shape.
func summaryOf(p *models.Post) models.PostSummary {
	return models.PostSummary{
		ID:           p.ID,
		Title:        p.Title,
		Slug:         p.Slug,
		Excerpt:      p.Excerpt,
		Author:       p.Author,
		Category:     p.Category,
		Tags:         p.Tags,
		ViewCount:    p.ViewCount,
		CommentCount: len(p.Comments),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
