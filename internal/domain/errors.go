package domain

import "errors"

// Sentinel errors for domain-level discrimination. Services wrap these with
// %w so the HTTP layer can pick a status code without inspecting messages.
var (
	ErrNotFound     = errors.New("not found")    // unknown token/id/user -> 404
	ErrConflict     = errors.New("conflict")     // duplicate email -> 409
	ErrUnauthorized = errors.New("unauthorized") // bad credentials/session -> 401
	ErrForbidden    = errors.New("forbidden")    // policy denies the action -> 403
	ErrBadRequest   = errors.New("bad request")  // missing/malformed input -> 400
)
