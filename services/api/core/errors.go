package core

import "errors"

var (
	ErrInvalidArgs   = errors.New("invalid arguments")
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// ErrUnauthorized covers every credential failure: unknown email,
	// wrong password, inactive account. Callers must not expose which.
	ErrUnauthorized = errors.New("invalid credentials")
)
