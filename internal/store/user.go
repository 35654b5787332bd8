// Package store provides database access methods for all inkwell entities.
// Each store struct wraps a *sql.DB and exposes typed query methods. Domain
// failures (bad input, missing rows, credential mismatches) are reported as
// apperr values; anything else is an infrastructure error.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"inkwell/internal/apperr"
	"inkwell/internal/models"
)

// SQLSTATE codes that surface as domain errors rather than infrastructure
// failures.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// pgErrCode extracts the SQLSTATE from a Postgres driver error, or returns
// the empty string for anything else.
func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// Username and password policy limits.
const (
	minUsernameLen = 3
	maxUsernameLen = 50
	minPasswordLen = 6
)

const userColumns = `id, username, email, password_hash, role, bio, profile_image, totp_secret, totp_enabled, created_at, updated_at`

// UserStore handles all user-related database operations.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// scanUser scans a row into a User struct.
func scanUser(scanner interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := scanner.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role,
		&u.Bio, &u.ProfileImage, &u.TOTPSecret, &u.TOTPEnabled,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Register validates the input, hashes the password, and inserts a new user
// with the default author role. Fails with a validation error on a short
// username or password or a malformed email, and with a conflict when the
// email is already registered.
func (s *UserStore) Register(username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if fields := validateRegistration(username, email, password); len(fields) > 0 {
		return nil, apperr.Validation("Validation failed", fields...)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// The unique index on email is the single duplicate check: a SELECT
	// beforehand would still race with a concurrent registration.
	row := s.db.QueryRow(`
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns,
		username, email, string(hash),
	)
	u, err := scanUser(row)
	if pgErrCode(err) == pgUniqueViolation {
		return nil, apperr.Conflict("Email already registered")
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Authenticate verifies the email/password pair. Unknown emails and wrong
// passwords both return the same unauthorized error so the endpoint does not
// leak which accounts exist.
func (s *UserStore) Authenticate(email, password string) (*models.User, error) {
	u, err := s.FindByEmail(strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.Unauthorized("Invalid email or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, apperr.Unauthorized("Invalid email or password")
	}
	return u, nil
}

// FindByEmail retrieves a user by their email address. Returns nil if not found.
func (s *UserStore) FindByEmail(email string) (*models.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// FindByID retrieves a user by their UUID. Returns nil if not found.
func (s *UserStore) FindByID(id uuid.UUID) (*models.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// List returns all users ordered by creation date.
func (s *UserStore) List() ([]models.User, error) {
	rows, err := s.db.Query(`SELECT ` + userColumns + ` FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// Delete removes a user by ID. Fails with a not-found error when the id does
// not resolve, and with a conflict when the user still owns posts: the posts
// foreign key keeps authored content from losing its author row.
func (s *UserStore) Delete(id uuid.UUID) (*models.User, error) {
	u, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("User")
	}
	if _, err := s.db.Exec(`DELETE FROM users WHERE id = $1`, id); err != nil {
		if pgErrCode(err) == pgForeignKeyViolation {
			return nil, apperr.Conflict("Cannot delete a user who has authored posts")
		}
		return nil, fmt.Errorf("delete user: %w", err)
	}
	return u, nil
}

// SetTOTPSecret saves the TOTP secret for a user (during 2FA setup).
func (s *UserStore) SetTOTPSecret(userID uuid.UUID, secret string) error {
	_, err := s.db.Exec(`
		UPDATE users SET totp_secret = $1, updated_at = NOW() WHERE id = $2
	`, secret, userID)
	if err != nil {
		return fmt.Errorf("set totp secret: %w", err)
	}
	return nil
}

// EnableTOTP marks 2FA as active for a user (after successful code verification).
func (s *UserStore) EnableTOTP(userID uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE users SET totp_enabled = TRUE, updated_at = NOW() WHERE id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("enable totp: %w", err)
	}
	return nil
}

// validateRegistration applies the registration policy and returns one
// field error per violation.
func validateRegistration(username, email, password string) []apperr.FieldError {
	var fields []apperr.FieldError

	if n := utf8.RuneCountInString(username); n < minUsernameLen || n > maxUsernameLen {
		fields = append(fields, apperr.FieldError{
			Field:   "username",
			Message: "Username must be between 3 and 50 characters",
		})
	}
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		fields = append(fields, apperr.FieldError{
			Field:   "email",
			Message: "Must be a valid email",
		})
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		fields = append(fields, apperr.FieldError{
			Field:   "password",
			Message: "Password must be at least 6 characters long",
		})
	}

	return fields
}
