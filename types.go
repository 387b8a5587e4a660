package todobackend

import "time"

// User is the stored account record. The session list is embedded in the
// document and owned exclusively by the user; it only grows through
// [Engine.CreateSession].
type User struct {
	ID           string    `json:"_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	Sessions     []Session `json:"sessions"`
}

// Session is one logical login/device: an opaque refresh token plus its
// expiry as a Unix timestamp.
type Session struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

// LoginResult is returned by [Engine.Signup] and [Engine.Login]. It carries
// the user record alongside the freshly issued token pair.
type LoginResult struct {
	User         *User
	AccessToken  string
	RefreshToken string
}

// HasExpired reports whether the given expiry timestamp is in the past. A
// session is valid iff its expiry is strictly in the future at check time.
func HasExpired(expiresAt int64) bool {
	return expiresAt < time.Now().Unix()
}
