// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRef is the minimal author expansion embedded in post responses.
type UserRef struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// CategoryRef is the minimal category expansion embedded in post responses.
type CategoryRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Comment is the stored comment value. Comments live inside their post's
// comments column and have no identity of their own: they are appended,
// never edited or removed, and disappear with the post.
type Comment struct {
	AuthorID  uuid.UUID `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentView is a comment with its author expanded for responses.
type CommentView struct {
	Author    UserRef   `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Post is a fully expanded post as returned by single-post reads and writes.
type Post struct {
	ID            uuid.UUID     `json:"id"`
	Title         string        `json:"title"`
	Content       string        `json:"content"`
	ContentHTML   string        `json:"contentHtml,omitempty"`
	Slug          string        `json:"slug"`
	Author        UserRef       `json:"author"`
	Category      CategoryRef   `json:"category"`
	Excerpt       *string       `json:"excerpt,omitempty"`
	FeaturedImage *string       `json:"featuredImage,omitempty"`
	Tags          []string      `json:"tags"`
	ViewCount     int           `json:"viewCount"`
	Comments      []CommentView `json:"comments"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// PostSummary is the trimmed listing shape: author and category are expanded
// to display fields only and the body is replaced by the excerpt.
type PostSummary struct {
	ID           uuid.UUID   `json:"id"`
	Title        string      `json:"title"`
	Slug         string      `json:"slug"`
	Excerpt      *string     `json:"excerpt,omitempty"`
	Author       UserRef     `json:"author"`
	Category     CategoryRef `json:"category"`
	Tags         []string    `json:"tags"`
	ViewCount    int         `json:"viewCount"`
	CommentCount int         `json:"commentCount"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}
