package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRefreshNotFound is returned when no refresh record exists for the
// principal (never issued, logged out, or naturally expired).
var ErrRefreshNotFound = errors.New("refresh record not found")

// ErrRedisUnavailable wraps transport-level Redis failures, including
// client-side op timeouts. It is never returned for a missing key.
var ErrRedisUnavailable = errors.New("redis unavailable")

const (
	refreshKeyPrefix   = "refresh_token"
	blacklistKeyPrefix = "blacklist"

	minEntryTTL = time.Second
)

// Store defines a public type used by tokengate APIs.
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Store struct {
	redis     redis.UniversalClient
	prefix    string
	opTimeout time.Duration
}

// NewStore wraps a Redis client. prefix optionally namespaces every key
// (e.g. "tg" → "tg:refresh_token:42"); opTimeout, when positive, bounds each
// command with a client-side deadline.
func NewStore(client redis.UniversalClient, prefix string, opTimeout time.Duration) *Store {
	return &Store{
		redis:     client,
		prefix:    prefix,
		opTimeout: opTimeout,
	}
}

func (s *Store) refreshKey(principalID int64) string {
	return s.key(refreshKeyPrefix + ":" + strconv.FormatInt(principalID, 10))
}

func (s *Store) blacklistKey(identity string) string {
	return s.key(blacklistKeyPrefix + ":" + identity)
}

func (s *Store) key(suffix string) string {
	if s.prefix == "" {
		return suffix
	}
	return s.prefix + ":" + suffix
}

func (s *Store) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.opTimeout)
}

// PutRefresh upserts the principal's refresh slot, atomically replacing any
// prior value. A second login therefore silently supersedes the first login's
// refresh token, which is the single-live-session invariant.
func (s *Store) PutRefresh(ctx context.Context, principalID int64, token string, ttl time.Duration) error {
	if ttl < minEntryTTL {
		ttl = minEntryTTL
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	if err := s.redis.Set(ctx, s.refreshKey(principalID), token, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// GetRefresh returns the currently stored refresh token for the principal.
func (s *Store) GetRefresh(ctx context.Context, principalID int64) (string, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	val, err := s.redis.Get(ctx, s.refreshKey(principalID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrRefreshNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return val, nil
}

// DeleteRefresh removes the principal's refresh slot. Deleting an absent key
// is a no-op, so the operation is idempotent.
func (s *Store) DeleteRefresh(ctx context.Context, principalID int64) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	if err := s.redis.Del(ctx, s.refreshKey(principalID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Blacklist records a revoked access-token identity for ttl, after which the
// entry self-expires together with the token's own validity window. A
// non-positive ttl is a no-op: the token is already dead.
func (s *Store) Blacklist(ctx context.Context, identity, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	if err := s.redis.Set(ctx, s.blacklistKey(identity), token, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// IsBlacklisted reports whether the identity has a live blacklist entry.
func (s *Store) IsBlacklisted(ctx context.Context, identity string) (bool, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	n, err := s.redis.Exists(ctx, s.blacklistKey(identity)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return n > 0, nil
}
