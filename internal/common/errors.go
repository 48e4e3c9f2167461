// Package common defines sentinel errors shared by the editor and the page
// server. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Input errors (malformed documents, bad ids, bad requests).
	ErrInvalidInput = errors.New("invalid input")

	// Transport errors.
	ErrUnavailable = errors.New("server unavailable")
)
