// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apperr defines the application error taxonomy. Stores return these
// for domain failures; the HTTP layer maps each kind to a status code at a
// single boundary. Anything that is not an *Error is treated as internal.
package apperr

import "fmt"

// Kind classifies an application error.
type Kind int

const (
	KindValidation Kind = iota // malformed or missing input
	KindNotFound               // identifier does not resolve
	KindUnauthorized           // missing, invalid, or mismatched credential
	KindForbidden              // authenticated but not allowed
	KindConflict               // uniqueness or state conflict
)

// FieldError describes a validation failure on a single input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a classified application error with optional per-field details.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
}

func (e *Error) Error() string {
	return e.Message
}

// Validation returns a validation error with optional field details.
func Validation(message string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// NotFound returns a not-found error for the named resource.
func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

// Unauthorized returns a credential error. The message is deliberately
// generic so callers cannot distinguish unknown accounts from bad passwords.
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// Forbidden returns a permission error.
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// Conflict returns a uniqueness or state conflict error.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}
