package store

import "errors"

var (
	// ErrNotFound reports that no durable record exists for the user.
	ErrNotFound = errors.New("store: user not found")

	// ErrUnavailable reports that the backing database could not serve
	// the request. Callers treat it as transient.
	ErrUnavailable = errors.New("store: backend unavailable")
)
