// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// auth_flow_test.go contains handler integration tests for the Auth handler
// methods: Login, TwoFASetup, and TwoFAVerify. Tests exercise a real
// database connection; they are skipped when it is unavailable.
package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"

	"inkwell/internal/auth"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
)

// flowUser registers a fresh account and returns it with its plain password.
func flowUser(t *testing.T, env *testEnv) (*models.User, string) {
	t.Helper()

	email := "flow-" + uuid.NewString()[:8] + "@inkwell.test"
	password := "secret-pass"
	t.Cleanup(func() { env.DB.Exec("DELETE FROM users WHERE email = $1", email) })

	user, err := env.UserStore.Register("flowuser", email, password)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return user, password
}

// identityOf builds the request identity the token middleware would attach.
func identityOf(user *models.User) *auth.Identity {
	return &auth.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}
}

func TestLoginWithoutTwoFA(t *testing.T) {
	env := newTestEnv(t)
	user, password := flowUser(t, env)

	rec := httptest.NewRecorder()
	env.Auth.Login(rec, jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    user.Email,
		"password": password,
	}))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200\nbody: %s", rec.Code, rec.Body.String())
	}

	var out struct {
		Token string       `json:"token"`
		User  *models.User `json:"user"`
	}
	decodeBody(t, rec, &out)

	identity, err := env.Tokens.Verify(out.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if identity.UserID != user.ID {
		t.Errorf("token subject: got %s, want %s", identity.UserID, user.ID)
	}
}

func TestLoginBadPassword(t *testing.T) {
	env := newTestEnv(t)
	user, _ := flowUser(t, env)

	rec := httptest.NewRecorder()
	env.Auth.Login(rec, jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    user.Email,
		"password": "not-the-password",
	}))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want 401", rec.Code)
	}
}

// TestTwoFAFlow walks the whole enrollment: setup provisions a secret,
// a bad verify code leaves it inactive, a valid code activates it, and
// from then on login demands a current code.
func TestTwoFAFlow(t *testing.T) {
	env := newTestEnv(t)
	user, password := flowUser(t, env)
	identity := identityOf(user)

	// Setup provisions a secret with a QR code for authenticator apps.
	req := jsonRequest(t, http.MethodPost, "/api/auth/2fa/setup", nil)
	req = req.WithContext(middleware.WithIdentity(req.Context(), identity))
	rec := httptest.NewRecorder()
	env.Auth.TwoFASetup(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("setup status: got %d, want 200\nbody: %s", rec.Code, rec.Body.String())
	}
	var setup struct {
		Secret     string `json:"secret"`
		OtpauthURL string `json:"otpauthUrl"`
		QRPng      string `json:"qrPng"`
	}
	decodeBody(t, rec, &setup)
	if setup.Secret == "" || setup.OtpauthURL == "" || setup.QRPng == "" {
		t.Fatalf("incomplete setup response: %+v", setup)
	}

	// A provisioned but unverified secret does not gate login yet.
	rec = httptest.NewRecorder()
	env.Auth.Login(rec, jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    user.Email,
		"password": password,
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("login before verify: got %d, want 200", rec.Code)
	}

	// A wrong code does not activate.
	req = jsonRequest(t, http.MethodPost, "/api/auth/2fa/verify", map[string]string{"code": "000000"})
	req = req.WithContext(middleware.WithIdentity(req.Context(), identity))
	rec = httptest.NewRecorder()
	env.Auth.TwoFAVerify(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("verify with bad code: got %d, want 401", rec.Code)
	}

	// A valid code against the provisioned secret activates 2FA.
	code, err := totp.GenerateCode(setup.Secret, time.Now())
	if err != nil {
		t.Fatalf("generate code: %v", err)
	}
	req = jsonRequest(t, http.MethodPost, "/api/auth/2fa/verify", map[string]string{"code": code})
	req = req.WithContext(middleware.WithIdentity(req.Context(), identity))
	rec = httptest.NewRecorder()
	env.Auth.TwoFAVerify(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("verify with valid code: got %d, want 200\nbody: %s", rec.Code, rec.Body.String())
	}

	// Login without a code is now rejected, valid credentials or not.
	rec = httptest.NewRecorder()
	env.Auth.Login(rec, jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    user.Email,
		"password": password,
	}))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("login without code after activation: got %d, want 401", rec.Code)
	}

	// So is a wrong code.
	rec = httptest.NewRecorder()
	env.Auth.Login(rec, jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    user.Email,
		"password": password,
		"totpCode": "000000",
	}))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("login with bad code: got %d, want 401", rec.Code)
	}

	// A current code completes the login.
	code, err = totp.GenerateCode(setup.Secret, time.Now())
	if err != nil {
		t.Fatalf("generate code: %v", err)
	}
	rec = httptest.NewRecorder()
	env.Auth.Login(rec, jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    user.Email,
		"password": password,
		"totpCode": code,
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("login with valid code: got %d, want 200\nbody: %s", rec.Code, rec.Body.String())
	}

	var out struct {
		Token string `json:"token"`
	}
	decodeBody(t, rec, &out)
	if _, err := env.Tokens.Verify(out.Token); err != nil {
		t.Errorf("issued token does not verify: %v", err)
	}
}

func TestTwoFAVerifyBeforeSetup(t *testing.T) {
	env := newTestEnv(t)
	user, _ := flowUser(t, env)

	req := jsonRequest(t, http.MethodPost, "/api/auth/2fa/verify", map[string]string{"code": "123456"})
	req = req.WithContext(middleware.WithIdentity(req.Context(), identityOf(user)))
	rec := httptest.NewRecorder()
	env.Auth.TwoFAVerify(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("verify before setup: got %d, want 400", rec.Code)
	}
}
