package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"inkwell/internal/apperr"
	"inkwell/internal/auth"
	"inkwell/internal/middleware"
	"inkwell/internal/store"
)

// Auth groups registration, login, and 2FA enrollment handlers.
type Auth struct {
	users  *store.UserStore
	tokens *auth.Tokens
}

// NewAuth creates a new Auth handler group.
func NewAuth(userStore *store.UserStore, tokens *auth.Tokens) *Auth {
	return &Auth{users: userStore, tokens: tokens}
}

// Register handles POST /api/auth/register.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, err)
		return
	}

	user, err := h.users.Register(body.Username, body.Email, body.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"user":    user,
	})
}

// Login handles POST /api/auth/login. On success it issues a signed bearer
// token carrying the caller's identity and role. Accounts with 2FA enabled
// must also supply a valid TOTP code.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		TOTPCode string `json:"totpCode"`
	}
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, err)
		return
	}

	user, err := h.users.Authenticate(body.Email, body.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	if user.TOTPEnabled {
		if user.TOTPSecret == nil || !totp.Validate(body.TOTPCode, *user.TOTPSecret) {
			respondError(w, apperr.Unauthorized("Invalid two-factor code"))
			return
		}
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		slog.Error("token issue failed", "error", err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  user,
	})
}

// TwoFASetup handles POST /api/auth/2fa/setup. It provisions a fresh TOTP
// secret for the caller and returns it with a QR code for authenticator
// apps. The secret is inactive until verified.
func (h *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromCtx(r.Context())

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "Inkwell",
		AccountName: identity.Email,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.users.SetTOTPSecret(identity.UserID, key.Secret()); err != nil {
		respondError(w, err)
		return
	}

	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"secret":     key.Secret(),
		"otpauthUrl": key.URL(),
		"qrPng":      base64.StdEncoding.EncodeToString(png),
	})
}

// TwoFAVerify handles POST /api/auth/2fa/verify. A valid code against the
// provisioned secret activates 2FA for the account.
func (h *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromCtx(r.Context())

	var body struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, err)
		return
	}

	user, err := h.users.FindByID(identity.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	if user == nil || user.TOTPSecret == nil {
		respondError(w, apperr.Validation("Two-factor setup has not been started"))
		return
	}

	if !totp.Validate(body.Code, *user.TOTPSecret) {
		respondError(w, apperr.Unauthorized("Invalid two-factor code"))
		return
	}

	if err := h.users.EnableTOTP(identity.UserID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Two-factor authentication enabled"})
}
