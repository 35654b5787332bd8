// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"inkwell/internal/apperr"
)

func TestRespondErrorMapsKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: apperr.Validation("Bad input"), want: 400},
		{name: "unauthorized", err: apperr.Unauthorized("Invalid email or password"), want: 401},
		{name: "forbidden", err: apperr.Forbidden("Admin role required"), want: 403},
		{name: "not found", err: apperr.NotFound("Post"), want: 404},
		{name: "conflict", err: apperr.Conflict("Slug already in use"), want: 409},
		{name: "wrapped", err: errors.Join(errors.New("context"), apperr.NotFound("Post")), want: 404},
		{name: "unclassified", err: errors.New("pq: connection refused"), want: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondError(rec, tt.err)

			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}

			var body errorBody
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Message == "" {
				t.Error("missing message")
			}
			if tt.want == 500 && body.Message != "Internal server error" {
				t.Errorf("internal errors must not leak details, got %q", body.Message)
			}
		})
	}
}

func TestRespondErrorFieldErrors(t *testing.T) {
	err := apperr.Validation("Validation failed",
		apperr.FieldError{Field: "title", Message: "Title is required"},
		apperr.FieldError{Field: "content", Message: "Content is required"},
	)

	rec := httptest.NewRecorder()
	respondError(rec, err)

	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Errors) != 2 {
		t.Fatalf("got %d field errors, want 2", len(body.Errors))
	}
	if body.Errors[0].Field != "title" {
		t.Errorf("first field: got %q", body.Errors[0].Field)
	}
}
