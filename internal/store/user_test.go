package store

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"inkwell/internal/apperr"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	email := "register-" + uuid.NewString()[:8] + "@inkwell.test"
	t.Cleanup(func() { db.Exec("DELETE FROM users WHERE email = $1", email) })

	u, err := s.Register("newwriter", email, "secret-pass")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Role != "author" {
		t.Errorf("role: got %q, want author", u.Role)
	}
	if u.PasswordHash == "secret-pass" || u.PasswordHash == "" {
		t.Error("password must be stored as a hash")
	}
	if !strings.HasPrefix(u.PasswordHash, "$2") {
		t.Errorf("expected a bcrypt hash, got %q", u.PasswordHash[:4])
	}

	got, err := s.Authenticate(email, "secret-pass")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("authenticated wrong user: %s != %s", got.ID, u.ID)
	}
}

func TestRegisterValidation(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	tests := []struct {
		name     string
		username string
		email    string
		password string
		field    string
	}{
		{name: "short username", username: "ab", email: "ok@inkwell.test", password: "longenough", field: "username"},
		{name: "long username", username: strings.Repeat("x", 51), email: "ok@inkwell.test", password: "longenough", field: "username"},
		{name: "bad email", username: "okname", email: "not-an-email", password: "longenough", field: "email"},
		{name: "five char password", username: "okname", email: "ok@inkwell.test", password: "12345", field: "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Register(tt.username, tt.email, tt.password)
			var appErr *apperr.Error
			if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			found := false
			for _, f := range appErr.Fields {
				if f.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("expected field error on %q, got %+v", tt.field, appErr.Fields)
			}
		})
	}

	// A six-character password is the floor and must pass.
	email := "floor-" + uuid.NewString()[:8] + "@inkwell.test"
	t.Cleanup(func() { db.Exec("DELETE FROM users WHERE email = $1", email) })
	if _, err := s.Register("okname", email, "123456"); err != nil {
		t.Fatalf("six-char password rejected: %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	email := "dupe-" + uuid.NewString()[:8] + "@inkwell.test"
	t.Cleanup(func() { db.Exec("DELETE FROM users WHERE email = $1", email) })

	if _, err := s.Register("first", email, "longenough"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err := s.Register("second", email, "longenough")
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestAuthenticateDoesNotLeakExistence(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	u := testUser(t, db)

	// Unknown email and wrong password must be indistinguishable.
	_, errUnknown := s.Authenticate("nobody-"+uuid.NewString()[:8]+"@inkwell.test", "whatever")
	_, errWrongPass := s.Authenticate(u.Email, "wrong-password")

	for _, err := range []error{errUnknown, errWrongPass} {
		var appErr *apperr.Error
		if !errors.As(err, &appErr) || appErr.Kind != apperr.KindUnauthorized {
			t.Fatalf("expected unauthorized, got %v", err)
		}
	}
	if errUnknown.Error() != errWrongPass.Error() {
		t.Errorf("messages differ: %q vs %q", errUnknown, errWrongPass)
	}
}

func TestUserDeleteAuthorWithPosts(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)
	posts := NewPostStore(db)

	author := testUser(t, db)
	category := testCategory(t, db, "Business")

	slug := "authored-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPosts(t, db, slug) })

	created, err := posts.Create(PostInput{
		Title: "Keeps its author", Content: "body", Slug: slug, CategoryID: category.ID,
	}, author.ID)
	if err != nil {
		t.Fatalf("Create post: %v", err)
	}

	// The posts foreign key blocks the delete while authored posts exist.
	_, err = users.Delete(author.ID)
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindConflict {
		t.Fatalf("expected conflict while posts exist, got %v", err)
	}

	if _, err := posts.Delete(created.ID); err != nil {
		t.Fatalf("Delete post: %v", err)
	}

	if _, err := users.Delete(author.ID); err != nil {
		t.Fatalf("Delete after posts removed: %v", err)
	}
}

func TestPgErrCode(t *testing.T) {
	wrapped := fmt.Errorf("create user: %w", &pgconn.PgError{Code: "23505"})
	if got := pgErrCode(wrapped); got != pgUniqueViolation {
		t.Errorf("wrapped pg error: got %q, want %q", got, pgUniqueViolation)
	}
	if got := pgErrCode(errors.New("plain")); got != "" {
		t.Errorf("non-pg error: got %q, want empty", got)
	}
	if got := pgErrCode(nil); got != "" {
		t.Errorf("nil error: got %q, want empty", got)
	}
}

func TestUserDelete(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	u := testUser(t, db)

	deleted, err := s.Delete(u.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted.Username != u.Username {
		t.Errorf("deleted username: got %q, want %q", deleted.Username, u.Username)
	}

	_, err = s.Delete(u.ID)
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindNotFound {
		t.Fatalf("expected not-found on second delete, got %v", err)
	}
}
