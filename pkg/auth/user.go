package auth

import (
	"context"

	"github.com/google/uuid"
)

// User is the authenticated caller.
type User struct {
	ID    uuid.UUID
	Email string
}

type userContextKey struct{}

// SetUserToContext returns a copy of ctx carrying u.
func SetUserToContext(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, u)
}

// UserFromContext returns the user stored by Middleware, if any.
func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(userContextKey{}).(*User)
	return u, ok && u != nil
}

// CurrentUser returns the authenticated user or ErrUnauthenticated.
func CurrentUser(ctx context.Context) (*User, error) {
	if u, ok := UserFromContext(ctx); ok {
		return u, nil
	}
	return nil, ErrUnauthenticated
}
