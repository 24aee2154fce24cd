package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountPending     = errors.New("account is awaiting approval")
	ErrAccountRejected    = errors.New("account registration was rejected")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUnauthenticated    = errors.New("authentication required")
)
