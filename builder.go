package todobackend

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/vimalpatra/todo-backend/abuse"
	"github.com/vimalpatra/todo-backend/docstore"
	"github.com/vimalpatra/todo-backend/jwt"
	"github.com/vimalpatra/todo-backend/password"
)

const abuseCollection = "ip_records"

// Builder assembles an [Engine]. Chain the With* setters and call Build
// once; a Builder is not reusable.
type Builder struct {
	config    Config
	redis     *redis.Client
	auditSink AuditSink
	built     bool
}

// New returns a Builder preloaded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the entire configuration tree.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis sets the Redis client backing the document store.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithAuditSink enables audit dispatch to the given sink.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	b.config.Audit.Enabled = sink != nil
	return b
}

// WithMetricsEnabled toggles the in-process metrics system.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles token-validation latency histograms.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration, wires every component and returns the
// ready engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if b.redis == nil {
		return nil, errors.New("redis client required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	jwtManager, err := jwt.NewManager(jwt.Config{
		AccessTTL:     cfg.JWT.AccessTTL,
		SigningMethod: jwt.SigningMethod(cfg.JWT.SigningMethod),
		Secret:        cfg.JWT.Secret,
		PrivateKey:    cfg.JWT.PrivateKey,
		PublicKey:     cfg.JWT.PublicKey,
		Issuer:        cfg.JWT.Issuer,
		Leeway:        cfg.JWT.Leeway,
	})
	if err != nil {
		return nil, err
	}

	passwordHash, err := password.NewArgon2(password.Config{
		Memory:      cfg.Password.Memory,
		Time:        cfg.Password.Time,
		Parallelism: cfg.Password.Parallelism,
		SaltLength:  cfg.Password.SaltLength,
		KeyLength:   cfg.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}

	store := docstore.New(b.redis, cfg.Store.KeyPrefix)

	engine := &Engine{
		config:       cfg,
		store:        store,
		users:        newUserStore(store),
		jwtManager:   jwtManager,
		passwordHash: passwordHash,
		tracker: abuse.New(store.Collection(abuseCollection), abuse.Config{
			Window:    cfg.Abuse.Window,
			Threshold: cfg.Abuse.Threshold,
		}),
		metrics: NewMetrics(cfg.Metrics),
		audit:   newAuditDispatcher(cfg.Audit, b.auditSink),
	}

	b.built = true
	return engine, nil
}
