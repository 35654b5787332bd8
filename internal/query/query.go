// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package query translates post-listing parameters (page, limit, category,
// search, sort) into SQL fragments for the post store. It is a pure
// transformation: invalid input is coerced to defaults, never rejected, so
// the listing endpoint stays available no matter what the client sends.
package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Sort orders accepted by the listing endpoint. Anything else coerces to
// SortRecent.
const (
	SortRecent = "recent" // newest first (default)
	SortOldest = "oldest"
	SortTitle  = "title"
)

// ListParams are the normalized listing parameters.
type ListParams struct {
	Page     int
	Limit    int
	Category uuid.UUID // uuid.Nil means no category filter
	Search   string
	Sort     string
}

// FromValues builds ListParams from URL query values, coercing anything
// malformed to its default.
func FromValues(values url.Values) ListParams {
	p := ListParams{
		Page:   positiveInt(values.Get("page"), DefaultPage),
		Limit:  positiveInt(values.Get("limit"), DefaultLimit),
		Search: strings.TrimSpace(values.Get("search")),
		Sort:   normalizeSort(values.Get("sort")),
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if id, err := uuid.Parse(values.Get("category")); err == nil {
		p.Category = id
	}
	return p
}

// Normalize returns a copy of p with every field coerced into its valid
// range. Stores call this so hand-built params behave like parsed ones.
func (p ListParams) Normalize() ListParams {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	p.Search = strings.TrimSpace(p.Search)
	p.Sort = normalizeSort(p.Sort)
	return p
}

// Offset returns the row offset for the requested page.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Built holds the SQL fragments assembled from a ListParams. Where is empty
// or a full "WHERE ..." clause over the aliased posts table ("p"); Args are
// its positional arguments, numbered from $1.
type Built struct {
	Where   string
	Args    []any
	OrderBy string
	Limit   int
	Offset  int
}

// Build assembles the SQL fragments for the given parameters. The category
// filter is an exact match; search is a case-insensitive substring match
// against title OR content.
func Build(p ListParams) Built {
	p = p.Normalize()

	var (
		conds []string
		args  []any
	)
	if p.Category != uuid.Nil {
		args = append(args, p.Category)
		conds = append(conds, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	if p.Search != "" {
		args = append(args, "%"+escapeLike(p.Search)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(p.title ILIKE $%d OR p.content ILIKE $%d)", n, n))
	}

	b := Built{
		Args:   args,
		Limit:  p.Limit,
		Offset: p.Offset(),
	}
	if len(conds) > 0 {
		b.Where = "WHERE " + strings.Join(conds, " AND ")
	}

	switch p.Sort {
	case SortOldest:
		b.OrderBy = "ORDER BY p.created_at ASC"
	case SortTitle:
		b.OrderBy = "ORDER BY p.title ASC"
	default:
		b.OrderBy = "ORDER BY p.created_at DESC"
	}

	return b
}

// TotalPages computes ceil(total/limit) for response metadata.
func TotalPages(total, limit int) int {
	if limit < 1 {
		limit = DefaultLimit
	}
	if total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// positiveInt parses s as a positive integer, falling back otherwise.
func positiveInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// normalizeSort maps unknown sort values to the default order.
func normalizeSort(s string) string {
	switch s {
	case SortOldest, SortTitle:
		return s
	default:
		return SortRecent
	}
}

// escapeLike escapes LIKE wildcards in user input so a search for "%" or
// "_" matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
