package tokengate

import (
	"errors"
	"os"
	"time"
)

// Config defines a public type used by tokengate APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	JWT     JWTConfig
	Session SessionConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig defines a public type used by tokengate APIs.
//
// JWTConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type JWTConfig struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Issuer     string
	Leeway     time.Duration
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig defines a public type used by tokengate APIs.
//
// SessionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionConfig struct {
	RedisPrefix string
	OpTimeout   time.Duration
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by tokengate APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by tokengate APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the configuration used when the caller supplies
// nothing: 30 minute access tokens, 7 day refresh tokens, a 3 second
// client-side Redis deadline, metrics on, audit off.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			AccessTTL:  30 * time.Minute,
			RefreshTTL: 7 * 24 * time.Hour,
		},
		Session: SessionConfig{
			OpTimeout: 3 * time.Second,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// FromEnv builds a Config from the process environment on top of
// [DefaultConfig]:
//
//	TOKENGATE_SECRET        signing secret (required, >= 32 bytes)
//	TOKENGATE_ACCESS_TTL    access-token lifetime (Go duration)
//	TOKENGATE_REFRESH_TTL   refresh-token lifetime (Go duration)
//	TOKENGATE_ISSUER        optional iss claim
//	TOKENGATE_REDIS_PREFIX  optional key namespace
//	TOKENGATE_OP_TIMEOUT    client-side Redis deadline (Go duration)
//
// All values are read once at process start; there is no runtime mutation.
func FromEnv() (Config, error) {
	cfg := defaultConfig()

	secret := os.Getenv("TOKENGATE_SECRET")
	if secret == "" {
		return Config{}, errors.New("TOKENGATE_SECRET is required")
	}
	cfg.JWT.Secret = []byte(secret)

	cfg.JWT.AccessTTL = getEnvDurationOrDefault("TOKENGATE_ACCESS_TTL", cfg.JWT.AccessTTL)
	cfg.JWT.RefreshTTL = getEnvDurationOrDefault("TOKENGATE_REFRESH_TTL", cfg.JWT.RefreshTTL)
	cfg.JWT.Issuer = os.Getenv("TOKENGATE_ISSUER")
	cfg.Session.RedisPrefix = os.Getenv("TOKENGATE_REDIS_PREFIX")
	cfg.Session.OpTimeout = getEnvDurationOrDefault("TOKENGATE_OP_TIMEOUT", cfg.Session.OpTimeout)

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	if len(cfg.JWT.Secret) < 32 {
		return errors.New("jwt secret must be at least 32 bytes")
	}
	if cfg.JWT.AccessTTL <= 0 || cfg.JWT.RefreshTTL <= 0 {
		return errors.New("token TTLs must be positive")
	}
	if cfg.JWT.RefreshTTL < cfg.JWT.AccessTTL {
		return errors.New("refresh TTL must not be shorter than access TTL")
	}
	if cfg.Session.OpTimeout < 0 {
		return errors.New("session op timeout must not be negative")
	}
	if cfg.Audit.Enabled && cfg.Audit.BufferSize <= 0 {
		return errors.New("audit buffer size must be positive when audit is enabled")
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	if cfg.JWT.Secret != nil {
		out.JWT.Secret = append([]byte(nil), cfg.JWT.Secret...)
	}
	return out
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
