package jwt

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SigningMethod selects the token signature scheme.
type SigningMethod string

const (
	// MethodHS256 signs with a shared symmetric secret.
	MethodHS256 SigningMethod = "hs256"
	// MethodEd25519 signs with an Ed25519 key pair.
	MethodEd25519 SigningMethod = "ed25519"
)

var (
	// ErrExpired is returned when a token's signature verifies but its
	// expiry has passed.
	ErrExpired = errors.New("token expired")
	// ErrInvalid is returned for malformed, tampered, or wrongly signed
	// tokens.
	ErrInvalid = errors.New("token invalid")
)

// Config holds the signing material and issuance parameters. Instances are
// validated once by NewManager and treated as immutable afterwards.
type Config struct {
	AccessTTL     time.Duration
	SigningMethod SigningMethod
	Secret        []byte // hs256
	PrivateKey    []byte // ed25519, raw 64-byte key
	PublicKey     []byte // ed25519, raw 32-byte key
	Issuer        string
	Leeway        time.Duration
}

// Manager mints and verifies access tokens.
type Manager struct {
	config Config
}

// AccessClaims is the access-token payload: the subject carries the owning
// user's id.
type AccessClaims struct {
	jwt.RegisteredClaims
}

// NewManager validates cfg and returns a Manager.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.AccessTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}

	switch cfg.SigningMethod {
	case MethodHS256:
		if len(cfg.Secret) < 32 {
			return nil, errors.New("hs256 requires a secret of at least 32 bytes")
		}
	case MethodEd25519:
		if len(cfg.PrivateKey) > 0 && len(cfg.PrivateKey) != ed25519.PrivateKeySize {
			return nil, errors.New("invalid ed25519 private key")
		}
		if len(cfg.PublicKey) != ed25519.PublicKeySize {
			return nil, errors.New("ed25519 requires a public key")
		}
	default:
		return nil, fmt.Errorf("unsupported signing method %q", cfg.SigningMethod)
	}

	return &Manager{config: cfg}, nil
}

// CreateAccess mints a signed token whose subject is userID, expiring
// AccessTTL from now.
func (m *Manager) CreateAccess(userID string) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.AccessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    m.config.Issuer,
		},
	}

	token := jwt.NewWithClaims(m.getMethod(), claims)
	return token.SignedString(m.getSignKey())
}

// ParseAccess verifies tokenStr and returns its claims. Failures map to
// [ErrExpired] or [ErrInvalid]; both wrap the underlying parser error.
func (m *Manager) ParseAccess(tokenStr string) (*AccessClaims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{m.getMethod().Alg()}),
		jwt.WithExpirationRequired(),
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenStr, &AccessClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != m.getMethod().Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return m.getVerifyKey(), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalid
	}

	return claims, nil
}

func (m *Manager) getMethod() jwt.SigningMethod {
	switch m.config.SigningMethod {
	case MethodEd25519:
		return jwt.SigningMethodEdDSA
	default:
		return jwt.SigningMethodHS256
	}
}

func (m *Manager) getSignKey() interface{} {
	switch m.config.SigningMethod {
	case MethodEd25519:
		return ed25519.PrivateKey(m.config.PrivateKey)
	default:
		return m.config.Secret
	}
}

func (m *Manager) getVerifyKey() interface{} {
	switch m.config.SigningMethod {
	case MethodEd25519:
		return ed25519.PublicKey(m.config.PublicKey)
	default:
		return m.config.Secret
	}
}
