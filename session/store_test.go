package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T, prefix string) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewStore(client, prefix, 2*time.Second), mr
}

func TestRefreshPutGetDelete(t *testing.T) {
	store, _ := newTestStore(t, "")
	ctx := context.Background()

	if err := store.PutRefresh(ctx, 42, "token-1", time.Hour); err != nil {
		t.Fatalf("PutRefresh failed: %v", err)
	}

	got, err := store.GetRefresh(ctx, 42)
	if err != nil {
		t.Fatalf("GetRefresh failed: %v", err)
	}
	if got != "token-1" {
		t.Fatalf("expected token-1, got %q", got)
	}

	if err := store.DeleteRefresh(ctx, 42); err != nil {
		t.Fatalf("DeleteRefresh failed: %v", err)
	}
	if _, err := store.GetRefresh(ctx, 42); !errors.Is(err, ErrRefreshNotFound) {
		t.Fatalf("expected ErrRefreshNotFound after delete, got %v", err)
	}
}

func TestRefreshUpsertReplacesPrior(t *testing.T) {
	store, _ := newTestStore(t, "")
	ctx := context.Background()

	if err := store.PutRefresh(ctx, 42, "token-1", time.Hour); err != nil {
		t.Fatalf("PutRefresh failed: %v", err)
	}
	if err := store.PutRefresh(ctx, 42, "token-2", time.Hour); err != nil {
		t.Fatalf("PutRefresh failed: %v", err)
	}

	got, err := store.GetRefresh(ctx, 42)
	if err != nil {
		t.Fatalf("GetRefresh failed: %v", err)
	}
	if got != "token-2" {
		t.Fatalf("expected latest token to win, got %q", got)
	}
}

func TestRefreshExpires(t *testing.T) {
	store, mr := newTestStore(t, "")
	ctx := context.Background()

	if err := store.PutRefresh(ctx, 42, "token-1", 10*time.Second); err != nil {
		t.Fatalf("PutRefresh failed: %v", err)
	}

	mr.FastForward(11 * time.Second)

	if _, err := store.GetRefresh(ctx, 42); !errors.Is(err, ErrRefreshNotFound) {
		t.Fatalf("expected ErrRefreshNotFound after expiry, got %v", err)
	}
}

func TestDeleteRefreshIdempotent(t *testing.T) {
	store, _ := newTestStore(t, "")
	ctx := context.Background()

	if err := store.DeleteRefresh(ctx, 404); err != nil {
		t.Fatalf("deleting an absent refresh slot must succeed, got %v", err)
	}
}

func TestKeyPrefixNamespacesEntries(t *testing.T) {
	store, mr := newTestStore(t, "tg")
	ctx := context.Background()

	if err := store.PutRefresh(ctx, 42, "token-1", time.Hour); err != nil {
		t.Fatalf("PutRefresh failed: %v", err)
	}
	if !mr.Exists("tg:refresh_token:42") {
		t.Fatalf("expected prefixed key, have keys %v", mr.Keys())
	}
}

func TestBlacklistLifecycle(t *testing.T) {
	store, mr := newTestStore(t, "")
	ctx := context.Background()

	revoked, err := store.IsBlacklisted(ctx, "42:jti-1")
	if err != nil {
		t.Fatalf("IsBlacklisted failed: %v", err)
	}
	if revoked {
		t.Fatal("identity must not be blacklisted before Blacklist")
	}

	if err := store.Blacklist(ctx, "42:jti-1", "the-token", time.Minute); err != nil {
		t.Fatalf("Blacklist failed: %v", err)
	}

	revoked, err = store.IsBlacklisted(ctx, "42:jti-1")
	if err != nil {
		t.Fatalf("IsBlacklisted failed: %v", err)
	}
	if !revoked {
		t.Fatal("identity must be blacklisted after Blacklist")
	}

	mr.FastForward(2 * time.Minute)

	revoked, err = store.IsBlacklisted(ctx, "42:jti-1")
	if err != nil {
		t.Fatalf("IsBlacklisted failed: %v", err)
	}
	if revoked {
		t.Fatal("blacklist entry must self-expire")
	}
}

func TestBlacklistNonPositiveTTLIsNoOp(t *testing.T) {
	store, mr := newTestStore(t, "")
	ctx := context.Background()

	if err := store.Blacklist(ctx, "42:jti-1", "the-token", 0); err != nil {
		t.Fatalf("Blacklist with zero ttl must be a no-op, got %v", err)
	}
	if len(mr.Keys()) != 0 {
		t.Fatalf("expected no keys written, have %v", mr.Keys())
	}
}

func TestStoreDownIsNeverNotFound(t *testing.T) {
	store, mr := newTestStore(t, "")
	ctx := context.Background()

	if err := store.PutRefresh(ctx, 42, "token-1", time.Hour); err != nil {
		t.Fatalf("PutRefresh failed: %v", err)
	}

	mr.Close()

	_, err := store.GetRefresh(ctx, 42)
	if !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable, got %v", err)
	}
	if errors.Is(err, ErrRefreshNotFound) {
		t.Fatal("transport failure must not be reported as not-found")
	}

	if err := store.PutRefresh(ctx, 42, "token-2", time.Hour); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable from PutRefresh, got %v", err)
	}
	if _, err := store.IsBlacklisted(ctx, "42:jti-1"); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable from IsBlacklisted, got %v", err)
	}
}
