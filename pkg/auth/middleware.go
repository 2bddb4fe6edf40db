package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rlyehwallet/billing/core"
	"github.com/rlyehwallet/billing/pkg/logger"
)

// TokenVerifier is implemented by *Verifier.
type TokenVerifier interface {
	Verify(token string) (*User, error)
}

// Middleware stores the verified user in the request context. Requests
// without an Authorization header continue anonymously; malformed or invalid
// tokens get 401.
func Middleware(v TokenVerifier, log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := BearerToken(r)
			if errors.Is(err, ErrMissingToken) {
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				unauthorized(w, r, log)
				return
			}

			user, err := v.Verify(token)
			if err != nil {
				log.DebugContext(r.Context(), "rejected access token", logger.Error(err))
				unauthorized(w, r, log)
				return
			}

			next.ServeHTTP(w, r.WithContext(SetUserToContext(r.Context(), user)))
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request, log *slog.Logger) {
	if err := core.JSONError(w, core.ErrUnauthorized); err != nil {
		log.WarnContext(r.Context(), "failed to write error response", logger.Error(err))
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", ErrInvalidToken
	}
	return token, nil
}
