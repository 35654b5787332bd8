// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON HTTP handlers for the inkwell API.
// Every domain error funnels through respondError, the single boundary that
// maps the apperr taxonomy onto status codes and the {message, errors?}
// envelope.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"inkwell/internal/apperr"
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Message string             `json:"message"`
	Errors  []apperr.FieldError `json:"errors,omitempty"`
}

// respondJSON serializes v with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// respondError maps an error onto the HTTP error envelope. Classified
// errors keep their message and field details; anything unrecognized is a
// 500 with a generic message so internals never leak.
func respondError(w http.ResponseWriter, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		respondJSON(w, statusFor(appErr.Kind), errorBody{
			Message: appErr.Message,
			Errors:  appErr.Fields,
		})
		return
	}

	slog.Error("internal error", "error", err)
	respondJSON(w, http.StatusInternalServerError, errorBody{Message: "Internal server error"})
}

// statusFor maps an error kind to its HTTP status code.
func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes a request body into dst, rejecting unknown syntax with
// a validation error.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("Invalid JSON body")
	}
	return nil
}
