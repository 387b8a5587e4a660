package todobackend

import (
	"errors"

	"github.com/vimalpatra/todo-backend/docstore"
)

var (
	// ErrMissingToken is returned when a request carries no access token.
	ErrMissingToken = errors.New("missing access token")
	// ErrTokenInvalid is returned for malformed or signature-tampered access tokens.
	ErrTokenInvalid = errors.New("invalid access token")
	// ErrTokenExpired is returned when an access token's signature is valid but its expiry has passed.
	ErrTokenExpired = errors.New("access token expired")
	// ErrMissingCredentials is returned when a session check lacks the refresh token or user id.
	ErrMissingCredentials = errors.New("missing session credentials")
	// ErrUserNotFound is returned when a user id resolves to no stored user.
	ErrUserNotFound = errors.New("user not found")
	// ErrSessionInvalid is returned when no matching non-expired session exists for a refresh token.
	ErrSessionInvalid = errors.New("session invalid or expired")
	// ErrInvalidCredentials is returned for unknown emails and failed password
	// comparisons alike; callers cannot distinguish the two.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken is returned when signup would violate email uniqueness.
	ErrEmailTaken = errors.New("email already registered")
	// ErrPasswordTooShort is returned by Signup when the password fails the
	// minimum-length policy; a caller problem, not a server fault.
	ErrPasswordTooShort = errors.New("password too short")
)

// ErrStoreUnavailable marks backing-store failures. It is the docstore
// sentinel re-exported so callers can separate transient store trouble from
// authentication failures without importing docstore.
var ErrStoreUnavailable = docstore.ErrUnavailable
