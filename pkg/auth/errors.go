package auth

import "errors"

var (
	ErrUnauthenticated = errors.New("auth: no authenticated user")
	ErrInvalidToken    = errors.New("auth: invalid token")
	ErrMissingToken    = errors.New("auth: missing token")
	ErrInvalidSubject  = errors.New("auth: token subject is not a user id")
	ErrMissingSecret   = errors.New("auth: jwt secret is required")
)
