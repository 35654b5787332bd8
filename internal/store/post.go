// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"inkwell/internal/apperr"
	"inkwell/internal/models"
	"inkwell/internal/query"
	"inkwell/internal/slug"
)

// Validation limits for post fields, matching the public API contract.
const (
	maxPostTitleLen   = 100
	maxPostExcerptLen = 200
)

// PostInput carries the client-writable post fields. The author is never
// part of the input — it is always taken from the authenticated caller.
type PostInput struct {
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Slug          string    `json:"slug"`
	CategoryID    uuid.UUID `json:"category"`
	Excerpt       *string   `json:"excerpt,omitempty"`
	FeaturedImage *string   `json:"featuredImage,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
}

// PostStore handles all post-related database operations, including the
// embedded comment sequence.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// List returns one page of posts matching the given parameters, with author
// and category expanded to display fields, plus the total count of the
// filtered set (independent of pagination). An empty result is an empty
// slice, never an error.
func (s *PostStore) List(params query.ListParams) ([]models.PostSummary, int, error) {
	b := query.Build(params)

	var total int
	countSQL := `SELECT COUNT(*) FROM posts p ` + b.Where
	if err := s.db.QueryRow(countSQL, b.Args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	listSQL := fmt.Sprintf(`
		SELECT p.id, p.title, p.slug, p.excerpt, p.tags, p.view_count,
		       jsonb_array_length(p.comments),
		       p.created_at, p.updated_at,
		       u.id, u.username, c.id, c.name
		FROM posts p
		JOIN users u ON u.id = p.author_id
		JOIN categories c ON c.id = p.category_id
		%s %s
		LIMIT $%d OFFSET $%d`,
		b.Where, b.OrderBy, len(b.Args)+1, len(b.Args)+2,
	)
	args := append(b.Args, b.Limit, b.Offset)

	rows, err := s.db.Query(listSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := []models.PostSummary{}
	for rows.Next() {
		var (
			p       models.PostSummary
			rawTags []byte
		)
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Slug, &p.Excerpt, &rawTags, &p.ViewCount,
			&p.CommentCount, &p.CreatedAt, &p.UpdatedAt,
			&p.Author.ID, &p.Author.Username, &p.Category.ID, &p.Category.Name,
		); err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		if err := json.Unmarshal(rawTags, &p.Tags); err != nil {
			return nil, 0, fmt.Errorf("decode tags: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, total, rows.Err()
}

// Get returns a single post with author, category, and comment authors
// expanded. Every successful read increments the view counter; concurrent
// reads may under-count (last write wins), which is acceptable for an
// approximate metric.
func (s *PostStore) Get(id uuid.UUID) (*models.Post, error) {
	res, err := s.db.Exec(`UPDATE posts SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("increment view count: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, apperr.NotFound("Post")
	}
	return s.fetchExpanded(id)
}

// Create validates the input, resolves the author and category references,
// and inserts a new post. The author is the authenticated caller, never a
// client-supplied value. A missing slug is derived from the title.
func (s *PostStore) Create(input PostInput, authorID uuid.UUID) (*models.Post, error) {
	normalized, err := s.prepare(input, uuid.Nil)
	if err != nil {
		return nil, err
	}

	var authorExists bool
	if err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, authorID).Scan(&authorExists); err != nil {
		return nil, fmt.Errorf("check author: %w", err)
	}
	if !authorExists {
		return nil, apperr.Unauthorized("Account no longer exists")
	}

	tags, err := json.Marshal(normalized.Tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}

	var newID uuid.UUID
	err = s.db.QueryRow(`
		INSERT INTO posts (title, content, slug, author_id, category_id, excerpt, featured_image, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		normalized.Title, normalized.Content, normalized.Slug, authorID,
		normalized.CategoryID, normalized.Excerpt, normalized.FeaturedImage, tags,
	).Scan(&newID)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	return s.fetchExpanded(newID)
}

// Update applies the same validation as Create and replaces the writable
// fields of an existing post. The author is never changed. Fails with a
// not-found error when the id does not resolve.
func (s *PostStore) Update(id uuid.UUID, input PostInput) (*models.Post, error) {
	normalized, err := s.prepare(input, id)
	if err != nil {
		return nil, err
	}

	tags, err := json.Marshal(normalized.Tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}

	res, err := s.db.Exec(`
		UPDATE posts SET
			title = $1, content = $2, slug = $3, category_id = $4,
			excerpt = $5, featured_image = $6, tags = $7, updated_at = NOW()
		WHERE id = $8`,
		normalized.Title, normalized.Content, normalized.Slug,
		normalized.CategoryID, normalized.Excerpt, normalized.FeaturedImage, tags, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, apperr.NotFound("Post")
	}

	return s.fetchExpanded(id)
}

// Delete removes a post and its embedded comments in one statement and
// returns the removed post's title for the confirmation message.
func (s *PostStore) Delete(id uuid.UUID) (string, error) {
	var title string
	err := s.db.QueryRow(`DELETE FROM posts WHERE id = $1 RETURNING title`, id).Scan(&title)
	if err == sql.ErrNoRows {
		return "", apperr.NotFound("Post")
	}
	if err != nil {
		return "", fmt.Errorf("delete post: %w", err)
	}
	return title, nil
}

// AddComment appends a comment with a server-assigned timestamp to the
// post's embedded sequence. The append is a single-row update, so it is
// atomic with respect to the post document.
func (s *PostStore) AddComment(id uuid.UUID, content string, authorID uuid.UUID) (*models.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Validation("Validation failed", apperr.FieldError{
			Field:   "content",
			Message: "Comment content is required",
		})
	}

	comment, err := json.Marshal(models.Comment{AuthorID: authorID, Content: content})
	if err != nil {
		return nil, fmt.Errorf("encode comment: %w", err)
	}

	res, err := s.db.Exec(`
		UPDATE posts
		SET comments   = comments || jsonb_set($2::jsonb, '{created_at}', to_jsonb(NOW())),
		    updated_at = NOW()
		WHERE id = $1`,
		id, comment,
	)
	if err != nil {
		return nil, fmt.Errorf("append comment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, apperr.NotFound("Post")
	}

	return s.fetchExpanded(id)
}

// fetchExpanded loads a post with author, category, and comment authors
// expanded. Returns a not-found error when the id does not resolve.
func (s *PostStore) fetchExpanded(id uuid.UUID) (*models.Post, error) {
	var (
		p           models.Post
		rawTags     []byte
		rawComments []byte
	)
	err := s.db.QueryRow(`
		SELECT p.id, p.title, p.content, p.slug, p.excerpt, p.featured_image,
		       p.tags, p.view_count, p.comments, p.created_at, p.updated_at,
		       u.id, u.username, c.id, c.name
		FROM posts p
		JOIN users u ON u.id = p.author_id
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1`, id,
	).Scan(
		&p.ID, &p.Title, &p.Content, &p.Slug, &p.Excerpt, &p.FeaturedImage,
		&rawTags, &p.ViewCount, &rawComments, &p.CreatedAt, &p.UpdatedAt,
		&p.Author.ID, &p.Author.Username, &p.Category.ID, &p.Category.Name,
	)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("Post")
	}
	if err != nil {
		return nil, fmt.Errorf("fetch post: %w", err)
	}

	if err := json.Unmarshal(rawTags, &p.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}

	var stored []models.Comment
	if err := json.Unmarshal(rawComments, &stored); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}

	p.Comments, err = s.expandComments(stored)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// expandComments resolves comment author ids to usernames in one query.
// Authors deleted since commenting keep their id with an empty username.
func (s *PostStore) expandComments(stored []models.Comment) ([]models.CommentView, error) {
	views := make([]models.CommentView, 0, len(stored))
	if len(stored) == 0 {
		return views, nil
	}

	seen := map[uuid.UUID]bool{}
	var (
		placeholders []string
		args         []any
	)
	for _, c := range stored {
		if !seen[c.AuthorID] {
			seen[c.AuthorID] = true
			args = append(args, c.AuthorID)
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
		}
	}

	rows, err := s.db.Query(
		`SELECT id, username FROM users WHERE id IN (`+strings.Join(placeholders, ", ")+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("expand comment authors: %w", err)
	}
	defer rows.Close()

	usernames := map[uuid.UUID]string{}
	for rows.Next() {
		var (
			id   uuid.UUID
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan comment author: %w", err)
		}
		usernames[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, c := range stored {
		views = append(views, models.CommentView{
			Author:    models.UserRef{ID: c.AuthorID, Username: usernames[c.AuthorID]},
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
		})
	}
	return views, nil
}

// prepare validates and normalizes a PostInput. selfID is the post being
// updated (uuid.Nil on create) and is excluded from the slug uniqueness
// check. A missing slug is derived from the title; a derived slug that
// collides gets a random suffix, while an explicit colliding slug is a
// conflict the caller must resolve.
func (s *PostStore) prepare(input PostInput, selfID uuid.UUID) (PostInput, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Content = strings.TrimSpace(input.Content)
	input.Slug = strings.TrimSpace(input.Slug)

	var fields []apperr.FieldError
	if input.Title == "" {
		fields = append(fields, apperr.FieldError{Field: "title", Message: "Title is required"})
	} else if utf8.RuneCountInString(input.Title) > maxPostTitleLen {
		fields = append(fields, apperr.FieldError{Field: "title", Message: "Title cannot be more than 100 characters"})
	}
	if input.Content == "" {
		fields = append(fields, apperr.FieldError{Field: "content", Message: "Content is required"})
	}
	if input.Slug != "" && !slug.IsValid(input.Slug) {
		fields = append(fields, apperr.FieldError{Field: "slug", Message: "Slug may only contain lowercase letters, digits, and hyphens"})
	}
	if input.CategoryID == uuid.Nil {
		fields = append(fields, apperr.FieldError{Field: "category", Message: "Category is required"})
	}
	if input.Excerpt != nil && utf8.RuneCountInString(*input.Excerpt) > maxPostExcerptLen {
		fields = append(fields, apperr.FieldError{Field: "excerpt", Message: "Excerpt cannot be more than 200 characters"})
	}
	if len(fields) > 0 {
		return input, apperr.Validation("Validation failed", fields...)
	}

	// The category reference must resolve at write time; the persistence
	// layer's foreign key is a backstop, not the contract.
	var categoryExists bool
	if err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`, input.CategoryID).Scan(&categoryExists); err != nil {
		return input, fmt.Errorf("check category: %w", err)
	}
	if !categoryExists {
		return input, apperr.Validation("Validation failed", apperr.FieldError{
			Field:   "category",
			Message: "Category does not exist",
		})
	}

	derived := input.Slug == ""
	if derived {
		input.Slug = slug.Generate(input.Title)
	}

	taken, err := s.slugTaken(input.Slug, selfID)
	if err != nil {
		return input, err
	}
	if taken {
		if !derived {
			return input, apperr.Conflict("Slug already in use")
		}
		input.Slug = input.Slug + "-" + uuid.NewString()[:8]
	}

	if input.Tags == nil {
		input.Tags = []string{}
	}

	return input, nil
}

// slugTaken reports whether another post already uses the given slug.
func (s *PostStore) slugTaken(value string, selfID uuid.UUID) (bool, error) {
	var taken bool
	err := s.db.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1 AND id <> $2)`,
		value, selfID,
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return taken, nil
}
