// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// CategoryNames is the closed set of valid category names. Categories are
// created once from this set and are immutable afterwards.
var CategoryNames = []string{
	"Academic",
	"Personal",
	"Politics",
	"Entertainment",
	"Business",
	"Technical",
	"Other",
}

// ValidCategoryName reports whether name is a member of the fixed set.
func ValidCategoryName(name string) bool {
	for _, n := range CategoryNames {
		if n == name {
			return true
		}
	}
	return false
}

// Category represents a post category. The name is unique and drawn from
// CategoryNames; there is no update or delete operation.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
