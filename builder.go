package tokengate

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/seojun-dev/tokengate/jwt"
	"github.com/seojun-dev/tokengate/session"
)

// Builder defines a public type used by tokengate APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	principals PrincipalProvider
	auditSink  AuditSink

	built bool
}

// New starts a builder seeded with [DefaultConfig]. Construction is
// allocation-only; no I/O happens until the Service is used.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the builder's configuration with a defensive copy.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis sets the shared session-store client. Required.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithPrincipalProvider sets the role-lookup collaborator used by Refresh.
// Required.
func (b *Builder) WithPrincipalProvider(p PrincipalProvider) *Builder {
	b.principals = p
	return b
}

// WithAuditSink sets the destination for audit events. Ignored unless
// audit is enabled in the config.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// Build validates the configuration and assembles an immutable Service.
// A builder can be consumed once.
func (b *Builder) Build() (*Service, error) {
	if b.built {
		return nil, errors.New("builder already consumed")
	}
	if b.redis == nil {
		return nil, errors.New("redis client is required")
	}
	if b.principals == nil {
		return nil, errors.New("principal provider is required")
	}
	if err := validateConfig(b.config); err != nil {
		return nil, err
	}

	codec, err := jwt.NewCodec(jwt.Config{
		Secret:     b.config.JWT.Secret,
		AccessTTL:  b.config.JWT.AccessTTL,
		RefreshTTL: b.config.JWT.RefreshTTL,
		Issuer:     b.config.JWT.Issuer,
		Leeway:     b.config.JWT.Leeway,
	})
	if err != nil {
		return nil, err
	}

	b.built = true

	return &Service{
		config:     b.config,
		codec:      codec,
		sessions:   session.NewStore(b.redis, b.config.Session.RedisPrefix, b.config.Session.OpTimeout),
		principals: b.principals,
		audit:      newAuditDispatcher(b.config.Audit, b.auditSink),
		metrics:    NewMetrics(b.config.Metrics),
	}, nil
}
