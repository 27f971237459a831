package domain

import "errors"

// Session and authentication failures.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrConnection         = errors.New("authentication endpoint unreachable")
	ErrMalformedToken     = errors.New("malformed token")
	ErrUnrecognizedRole   = errors.New("unrecognized role")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrSessionClosed      = errors.New("session manager closed")
)

var ErrForbidden = errors.New("access forbidden")
var ErrNotFound = errors.New("resource not found")

// Identity directory errors.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)
