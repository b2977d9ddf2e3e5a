package httpapi

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig defines the request budget applied to an endpoint.
type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	Burst             int
}

// Profiles for the auth endpoints. Login takes the strict budget because it
// is the credential-stuffing target; refresh is cheaper to retry legitimately
// so it gets more headroom.
var (
	// StrictLimit for authentication endpoints (brute force prevention).
	StrictLimit = RateLimitConfig{
		RequestsPerWindow: 5,
		Window:            time.Minute,
		Burst:             5,
	}

	// ModerateLimit for token redemption.
	ModerateLimit = RateLimitConfig{
		RequestsPerWindow: 20,
		Window:            time.Minute,
		Burst:             20,
	}
)

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type limiterTable struct {
	mu       sync.Mutex
	limiters map[string]*ipLimiter
	config   RateLimitConfig
}

func newLimiterTable(config RateLimitConfig) *limiterTable {
	return &limiterTable{
		limiters: make(map[string]*ipLimiter),
		config:   config,
	}
}

func (t *limiterTable) get(key string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()

	if entry, ok := t.limiters[key]; ok {
		entry.lastSeen = now
		return entry.limiter
	}

	// Opportunistic eviction keeps the table bounded without a sweeper
	// goroutine.
	if len(t.limiters) > 10000 {
		cutoff := now.Add(-10 * time.Minute)
		for k, entry := range t.limiters {
			if entry.lastSeen.Before(cutoff) {
				delete(t.limiters, k)
			}
		}
	}

	limit := rate.Every(t.config.Window / time.Duration(t.config.RequestsPerWindow))
	entry := &ipLimiter{
		limiter:  rate.NewLimiter(limit, t.config.Burst),
		lastSeen: now,
	}
	t.limiters[key] = entry
	return entry.limiter
}

// RateLimitByIP returns middleware enforcing the config per client IP.
func RateLimitByIP(config RateLimitConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	table := newLimiterTable(config)
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !table.get(ip).Allow() {
				logger.Warn("rate limit exceeded", "remote", ip, "path", r.URL.Path)
				w.Header().Set("Retry-After", "60")
				writeError(w, http.StatusTooManyRequests, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
