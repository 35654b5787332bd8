// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"inkwell/internal/models"
)

// Seed populates the database with initial development data: the fixed
// category set, a default admin user, and a welcome post. Safe to call on
// every startup — it does nothing once users exist.
func Seed(db *sql.DB) error {
	// Categories are inserted unconditionally but idempotently, because the
	// name set is closed and the application expects it to exist.
	for _, name := range models.CategoryNames {
		if _, err := db.Exec(`
			INSERT INTO categories (name) VALUES ($1)
			ON CONFLICT (name) DO NOTHING
		`, name); err != nil {
			return fmt.Errorf("seed category %q: %w", name, err)
		}
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin1"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	var adminID string
	err = db.QueryRow(`
		INSERT INTO users (username, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, "admin", "admin@inkwell.local", string(hash), "admin").Scan(&adminID)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO posts (title, content, slug, author_id, category_id, tags)
		SELECT $1, $2, $3, $4, c.id, $5::jsonb
		FROM categories c WHERE c.name = 'Other'
	`, "Welcome to Inkwell",
		"This is your first post. Edit or delete it, then start writing.",
		"welcome-to-inkwell", adminID, `["welcome"]`)
	if err != nil {
		return fmt.Errorf("seed insert welcome post: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@inkwell.local",
		"password", "admin1",
	)

	return nil
}
