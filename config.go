package todobackend

import (
	"errors"
	"time"
)

// Config is the full engine configuration tree. Instances are cloned on
// Build and treated as immutable afterwards.
type Config struct {
	JWT      JWTConfig
	Session  SessionConfig
	Password PasswordConfig
	Abuse    AbuseConfig
	Store    StoreConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

// JWTConfig configures access-token issuance. The signing secret is explicit
// configuration passed into the token manager at construction; nothing reads
// it from ambient state.
type JWTConfig struct {
	AccessTTL     time.Duration
	SigningMethod string // "hs256" (default), "ed25519" optional
	Secret        []byte // hs256 signing secret
	PrivateKey    []byte // ed25519
	PublicKey     []byte // ed25519
	Issuer        string
	Leeway        time.Duration
}

// SessionConfig controls refresh-session lifetime.
type SessionConfig struct {
	RefreshTTL time.Duration
}

// PasswordConfig carries argon2id parameters.
type PasswordConfig struct {
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// AbuseConfig tunes the fixed-window per-address tracker: more than
// Threshold sightings inside Window triggers a verification challenge.
type AbuseConfig struct {
	Window    time.Duration
	Threshold int64
}

// StoreConfig sets the document-store key namespace.
type StoreConfig struct {
	KeyPrefix string
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process metrics system.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the baseline configuration: 15 minute access tokens,
// 10 day refresh sessions, a 2 day abuse window with threshold 3.
func DefaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			AccessTTL:     15 * time.Minute,
			SigningMethod: "hs256",
			Issuer:        "todo-backend",
		},
		Session: SessionConfig{
			RefreshTTL: 10 * 24 * time.Hour,
		},
		Password: PasswordConfig{
			Memory:      65536,
			Time:        3,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
		},
		Abuse: AbuseConfig{
			Window:    2 * 24 * time.Hour,
			Threshold: 3,
		},
		Store: StoreConfig{
			KeyPrefix: "tb",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

// Validate checks the configuration for internal consistency. Signing key
// material is validated again by the jwt manager at build time.
func (c *Config) Validate() error {
	if c.JWT.AccessTTL <= 0 {
		return errors.New("JWT.AccessTTL must be positive")
	}
	if c.Session.RefreshTTL <= 0 {
		return errors.New("Session.RefreshTTL must be positive")
	}
	if c.JWT.SigningMethod == "" {
		return errors.New("JWT.SigningMethod required")
	}
	if c.Abuse.Window <= 0 {
		return errors.New("Abuse.Window must be positive")
	}
	if c.Abuse.Threshold <= 0 {
		return errors.New("Abuse.Threshold must be positive")
	}
	if c.Store.KeyPrefix == "" {
		return errors.New("Store.KeyPrefix required")
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.JWT.Secret = cloneBytes(cfg.JWT.Secret)
	out.JWT.PrivateKey = cloneBytes(cfg.JWT.PrivateKey)
	out.JWT.PublicKey = cloneBytes(cfg.JWT.PublicKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
