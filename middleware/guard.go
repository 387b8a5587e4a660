package middleware

import (
	"context"
	"errors"
	"net/http"

	todobackend "github.com/vimalpatra/todo-backend"
)

// Request headers carrying credentials.
const (
	HeaderAccessToken  = "x-access-token"
	HeaderRefreshToken = "x-refresh-token"
	HeaderUserID       = "_id"
)

type subjectContextKey struct{}
type sessionContextKey struct{}

// SessionCredentials is what RequireSession stores in the request context: the
// resolved user plus the refresh token that admitted them.
type SessionCredentials struct {
	User         *todobackend.User
	RefreshToken string
}

// SubjectFromContext returns the user id set by RequireAccess.
func SubjectFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(subjectContextKey{}).(string)
	return id, ok
}

// SessionFromContext returns the credentials set by RequireSession.
func SessionFromContext(ctx context.Context) (*SessionCredentials, bool) {
	creds, ok := ctx.Value(sessionContextKey{}).(*SessionCredentials)
	return creds, ok
}

// RequireAccess admits requests carrying a valid access token in the
// x-access-token header and stores the subject user id in the request
// context. Verification is purely cryptographic; no store lookup happens, so
// only a nil engine or bad token can reject here.
func RequireAccess(engine *todobackend.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			userID, err := engine.ValidateAccess(r.Context(), r.Header.Get(HeaderAccessToken))
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), subjectContextKey{}, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession admits requests whose x-refresh-token and _id headers name a
// live session on the stored user. A store outage is surfaced as 503 rather
// than 401 so clients don't discard valid credentials.
func RequireSession(engine *todobackend.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			token := r.Header.Get(HeaderRefreshToken)
			userID := r.Header.Get(HeaderUserID)

			user, err := engine.ResolveSession(r.Context(), userID, token)
			if err != nil {
				if errors.Is(err, todobackend.ErrStoreUnavailable) {
					http.Error(w, "service unavailable", http.StatusServiceUnavailable)
					return
				}
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			creds := &SessionCredentials{User: user, RefreshToken: token}
			ctx := context.WithValue(r.Context(), sessionContextKey{}, creds)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
