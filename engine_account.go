package todobackend

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/vimalpatra/todo-backend/password"
)

// Signup creates a new account, opens its first session and issues a token
// pair. Returns [ErrEmailTaken] when the email is already registered,
// [ErrMissingCredentials] when either field is empty and
// [ErrPasswordTooShort] when the password fails the length policy.
func (e *Engine) Signup(ctx context.Context, email, plainPassword string) (*LoginResult, error) {
	if email == "" || plainPassword == "" {
		return nil, ErrMissingCredentials
	}

	_, exists, err := e.users.FindByEmail(ctx, email)
	if err != nil {
		e.metricInc(MetricStoreError)
		return nil, err
	}
	if exists {
		e.metricInc(MetricSignupDuplicate)
		e.emitAudit(ctx, AuditEvent{
			EventType: AuditEventSignup,
			Email:     email,
			Success:   false,
			Error:     ErrEmailTaken.Error(),
		})
		return nil, ErrEmailTaken
	}

	hash, err := e.passwordHash.Hash(plainPassword)
	if err != nil {
		if errors.Is(err, password.ErrTooShort) {
			return nil, ErrPasswordTooShort
		}
		return nil, err
	}

	user := &User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
	}
	if err := e.users.Save(ctx, user); err != nil {
		e.metricInc(MetricStoreError)
		return nil, err
	}

	refreshToken, err := e.CreateSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	accessToken, err := e.IssueAccessToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	// Reload so the returned record carries the session just appended.
	user, _, err = e.users.FindByID(ctx, user.ID)
	if err != nil {
		e.metricInc(MetricStoreError)
		return nil, err
	}

	e.metricInc(MetricSignupSuccess)
	e.emitAudit(ctx, AuditEvent{
		EventType: AuditEventSignup,
		UserID:    user.ID,
		Email:     email,
		Success:   true,
	})

	return &LoginResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Login verifies credentials, opens a fresh session and issues a token pair.
// Existing sessions are left untouched; each login adds one.
func (e *Engine) Login(ctx context.Context, email, plainPassword string) (*LoginResult, error) {
	user, err := e.VerifyCredentials(ctx, email, plainPassword)
	if err != nil {
		return nil, err
	}

	refreshToken, err := e.CreateSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	accessToken, err := e.IssueAccessToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	user, _, err = e.users.FindByID(ctx, user.ID)
	if err != nil {
		e.metricInc(MetricStoreError)
		return nil, err
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, AuditEvent{
		EventType: AuditEventLogin,
		UserID:    user.ID,
		Email:     email,
		Success:   true,
	})

	return &LoginResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// VerifyCredentials checks email and password against the stored account.
// Unknown emails and wrong passwords both come back as
// [ErrInvalidCredentials]; store failures surface as [ErrStoreUnavailable].
func (e *Engine) VerifyCredentials(ctx context.Context, email, plainPassword string) (*User, error) {
	if email == "" || plainPassword == "" {
		return nil, ErrMissingCredentials
	}

	user, found, err := e.users.FindByEmail(ctx, email)
	if err != nil {
		e.metricInc(MetricStoreError)
		return nil, err
	}
	if !found {
		e.loginFailure(ctx, email, ErrInvalidCredentials)
		return nil, ErrInvalidCredentials
	}

	ok, err := e.passwordHash.Verify(plainPassword, user.PasswordHash)
	if err != nil {
		// A malformed stored hash is a data problem, not a caller problem,
		// but it still must not admit the login.
		e.loginFailure(ctx, email, err)
		return nil, ErrInvalidCredentials
	}
	if !ok {
		e.loginFailure(ctx, email, ErrInvalidCredentials)
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (e *Engine) loginFailure(ctx context.Context, email string, cause error) {
	e.metricInc(MetricLoginFailure)
	e.emitAudit(ctx, AuditEvent{
		EventType: AuditEventLogin,
		Email:     email,
		Success:   false,
		Error:     cause.Error(),
	})
}
