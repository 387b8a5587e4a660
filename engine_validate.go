package todobackend

import (
	"context"
	"errors"
	"time"

	"github.com/vimalpatra/todo-backend/jwt"
)

// IssueAccessToken signs a short-lived access token for userID.
func (e *Engine) IssueAccessToken(ctx context.Context, userID string) (string, error) {
	token, err := e.jwtManager.CreateAccess(userID)
	if err != nil {
		return "", err
	}
	e.metricInc(MetricAccessIssued)
	e.emitAudit(ctx, AuditEvent{
		EventType: AuditEventAccessIssued,
		UserID:    userID,
		Success:   true,
	})
	return token, nil
}

// ValidateAccess verifies an access token and returns the subject user id.
// Expired tokens come back as [ErrTokenExpired]; every other verification
// failure is [ErrTokenInvalid].
func (e *Engine) ValidateAccess(ctx context.Context, token string) (string, error) {
	if token == "" {
		e.accessDenied(ctx, ErrMissingToken)
		return "", ErrMissingToken
	}

	start := time.Now()
	claims, err := e.jwtManager.ParseAccess(token)
	e.metricObserve(MetricValidateLatency, time.Since(start))

	if err != nil {
		if errors.Is(err, jwt.ErrExpired) {
			e.metricInc(MetricAccessExpired)
			e.accessDenied(ctx, ErrTokenExpired)
			return "", ErrTokenExpired
		}
		e.accessDenied(ctx, ErrTokenInvalid)
		return "", ErrTokenInvalid
	}

	return claims.Subject, nil
}

func (e *Engine) accessDenied(ctx context.Context, cause error) {
	e.metricInc(MetricAccessRejected)
	e.emitAudit(ctx, AuditEvent{
		EventType: AuditEventAccessDenied,
		Success:   false,
		Error:     cause.Error(),
	})
}
