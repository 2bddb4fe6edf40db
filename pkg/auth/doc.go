// Package auth resolves the current user from Supabase-issued access tokens.
//
// Middleware verifies a bearer token with a Verifier and stores the User in
// the request context. Requests without a token pass through anonymously so
// read paths still render; requests with an invalid token are rejected.
// CurrentUser is the lookup mutating operations use to require a user.
package auth
