package service

import "errors"

var (
	// ErrNotFound means the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized means no authenticated caller identity was supplied.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means the caller is authenticated but lacks the
	// privilege for the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalid means the request failed validation.
	ErrInvalid = errors.New("invalid request")

	// ErrGeneratorUnavailable means the task generator could not be
	// reached or answered with an error. This is distinct from the
	// generator answering with unusable content, which falls back to the
	// fixed plan instead.
	ErrGeneratorUnavailable = errors.New("task generator unavailable")
)
