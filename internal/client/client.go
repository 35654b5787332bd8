// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package client provides a Go client for the inkwell HTTP API and an
// in-memory post list mirror with optimistic mutation support.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// PostDraft carries the writable post fields for create and update calls.
type PostDraft struct {
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Slug          string    `json:"slug,omitempty"`
	Category      uuid.UUID `json:"category"`
	Excerpt       *string   `json:"excerpt,omitempty"`
	FeaturedImage *string   `json:"featuredImage,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
}

// PostPage is one page of the listing response.
type PostPage struct {
	Posts       []models.PostSummary `json:"posts"`
	TotalPages  int                  `json:"totalPages"`
	CurrentPage int                  `json:"currentPage"`
	TotalPosts  int                  `json:"totalPosts"`
}

// ListOptions are the listing request parameters. Zero values are omitted
// and fall back to the server defaults.
type ListOptions struct {
	Page     int
	Limit    int
	Category uuid.UUID
	Search   string
	Sort     string
}

// Client is a thin JSON client for the inkwell API. After a successful
// Login it attaches the bearer token to every request.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// New creates a client for the API at baseURL (no trailing slash).
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken installs a previously obtained bearer token.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Login authenticates and stores the returned bearer token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	var out struct {
		Token string       `json:"token"`
		User  *models.User `json:"user"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return nil, err
	}
	c.token = out.Token
	return out.User, nil
}

// Register creates a new account. It does not log in.
func (c *Client) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	var out struct {
		User *models.User `json:"user"`
	}
	body := map[string]string{"username": username, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// ListPosts fetches one page of posts.
func (c *Client) ListPosts(ctx context.Context, opts ListOptions) (*PostPage, error) {
	values := url.Values{}
	if opts.Page > 0 {
		values.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Limit > 0 {
		values.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Category != uuid.Nil {
		values.Set("category", opts.Category.String())
	}
	if opts.Search != "" {
		values.Set("search", opts.Search)
	}
	if opts.Sort != "" {
		values.Set("sort", opts.Sort)
	}

	path := "/api/posts"
	if encoded := values.Encode(); encoded != "" {
		path += "?" + encoded
	}

	page := &PostPage{}
	if err := c.do(ctx, http.MethodGet, path, nil, page); err != nil {
		return nil, err
	}
	return page, nil
}

// GetPost fetches a single expanded post.
func (c *Client) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	post := &models.Post{}
	if err := c.do(ctx, http.MethodGet, "/api/posts/"+id.String(), nil, post); err != nil {
		return nil, err
	}
	return post, nil
}

// CreatePost creates a post as the authenticated user.
func (c *Client) CreatePost(ctx context.Context, draft PostDraft) (*models.Post, error) {
	var out struct {
		Post *models.Post `json:"post"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/posts", draft, &out); err != nil {
		return nil, err
	}
	return out.Post, nil
}

// UpdatePost replaces the writable fields of an existing post.
func (c *Client) UpdatePost(ctx context.Context, id uuid.UUID, draft PostDraft) (*models.Post, error) {
	var out struct {
		Post *models.Post `json:"post"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/posts/"+id.String(), draft, &out); err != nil {
		return nil, err
	}
	return out.Post, nil
}

// DeletePost removes a post.
func (c *Client) DeletePost(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/posts/"+id.String(), nil, nil)
}

// AddComment appends a comment and returns the updated post.
func (c *Client) AddComment(ctx context.Context, id uuid.UUID, content string) (*models.Post, error) {
	post := &models.Post{}
	body := map[string]string{"content": content}
	if err := c.do(ctx, http.MethodPost, "/api/posts/"+id.String()+"/comments", body, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Categories fetches all categories.
func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// do performs one JSON request. Non-2xx responses are returned as *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: "request failed"}
		var envelope struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Message != "" {
			apiErr.Message = envelope.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
