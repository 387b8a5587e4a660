package todobackend

import (
	"context"
	"time"

	"github.com/vimalpatra/todo-backend/internal"
)

// CreateSession appends a fresh refresh session to the user's embedded
// session list and returns the opaque token. The whole user document is
// rewritten; concurrent appends can lose a session to the last writer, which
// matches the single-document ownership model.
func (e *Engine) CreateSession(ctx context.Context, userID string) (string, error) {
	user, found, err := e.users.FindByID(ctx, userID)
	if err != nil {
		e.metricInc(MetricStoreError)
		return "", err
	}
	if !found {
		return "", ErrUserNotFound
	}

	token, err := internal.NewRefreshToken()
	if err != nil {
		return "", err
	}

	user.Sessions = append(user.Sessions, Session{
		Token:     token,
		ExpiresAt: time.Now().Add(e.config.Session.RefreshTTL).Unix(),
	})
	if err := e.users.Save(ctx, user); err != nil {
		e.metricInc(MetricStoreError)
		return "", err
	}

	e.metricInc(MetricSessionCreated)
	return token, nil
}

// ResolveSession checks that token names a live session on the given user's
// list and returns the user when it does. The check is read-only: expired
// entries are skipped, never pruned, and nothing is rotated.
func (e *Engine) ResolveSession(ctx context.Context, userID, token string) (*User, error) {
	if userID == "" || token == "" {
		e.sessionDenied(ctx, userID, ErrMissingCredentials)
		return nil, ErrMissingCredentials
	}

	user, found, err := e.users.FindByID(ctx, userID)
	if err != nil {
		e.metricInc(MetricStoreError)
		return nil, err
	}
	if !found {
		e.sessionDenied(ctx, userID, ErrUserNotFound)
		return nil, ErrUserNotFound
	}

	for _, s := range user.Sessions {
		if s.Token == token && !HasExpired(s.ExpiresAt) {
			e.metricInc(MetricSessionResolved)
			return user, nil
		}
	}

	e.sessionDenied(ctx, userID, ErrSessionInvalid)
	return nil, ErrSessionInvalid
}

func (e *Engine) sessionDenied(ctx context.Context, userID string, cause error) {
	e.metricInc(MetricSessionRejected)
	e.emitAudit(ctx, AuditEvent{
		EventType: AuditEventSessionDenied,
		UserID:    userID,
		Success:   false,
		Error:     cause.Error(),
	})
}
