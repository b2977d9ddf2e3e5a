package tokengate

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestRefreshConcurrentRedemptionsAllSucceed(t *testing.T) {
	svc, _ := newTestService(t, serviceTestConfig())
	ctx := context.Background()

	pair, err := svc.Issue(ctx, Principal{ID: 42, Role: "USER"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	const n = 16
	var wg sync.WaitGroup
	wg.Add(n)

	results := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.Refresh(ctx, pair.RefreshToken)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	// The stored token is not rotated, so every concurrent redemption of the
	// same current token succeeds.
	for err := range results {
		if err != nil {
			t.Fatalf("concurrent refresh failed: %v", err)
		}
	}
}

func TestIssueConcurrentLastWriterWins(t *testing.T) {
	svc, mr := newTestService(t, serviceTestConfig())
	ctx := context.Background()

	const n = 16
	var wg sync.WaitGroup
	wg.Add(n)

	pairs := make(chan *TokenPair, n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			pair, err := svc.Issue(ctx, Principal{ID: 42, Role: "USER"})
			if err != nil {
				t.Errorf("concurrent issue failed: %v", err)
				return
			}
			pairs <- pair
		}()
	}
	wg.Wait()
	close(pairs)

	stored, err := mr.Get("refresh_token:42")
	if err != nil {
		t.Fatalf("refresh slot missing after concurrent issue: %v", err)
	}

	tokens := make(map[string]struct{}, n)
	for pair := range pairs {
		tokens[pair.RefreshToken] = struct{}{}
	}
	if _, ok := tokens[stored]; !ok {
		t.Fatal("stored refresh token is not one of the issued tokens")
	}

	for token := range tokens {
		if token == stored {
			if _, err := svc.Refresh(ctx, token); err != nil {
				t.Fatalf("winning token must redeem: %v", err)
			}
			continue
		}
		// Superseded session: its refresh token must no longer redeem.
		if _, err := svc.Refresh(ctx, token); !errors.Is(err, ErrTokenMismatch) {
			t.Fatalf("superseded token: expected ErrTokenMismatch, got %v", err)
		}
	}
}
