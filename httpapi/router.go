package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	tokengate "github.com/seojun-dev/tokengate"
	"github.com/seojun-dev/tokengate/middleware"
)

// CredentialVerifier is the login collaborator: it looks up the account for
// an email and checks the password against the stored hash (a black box from
// this package's point of view). Any error means "invalid credentials" to
// the client; the cause is never surfaced.
type CredentialVerifier interface {
	Verify(ctx context.Context, email, password string) (tokengate.Principal, error)
}

// Router wires the auth endpoints onto an http.ServeMux with request logging
// and per-IP rate limiting applied.
type Router struct {
	mux      *http.ServeMux
	service  *tokengate.Service
	verifier CredentialVerifier
	logger   *slog.Logger
}

// NewRouter assembles the auth routes. logger may be nil, in which case
// slog.Default() is used.
func NewRouter(svc *tokengate.Service, verifier CredentialVerifier, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}

	r := &Router{
		mux:      http.NewServeMux(),
		service:  svc,
		verifier: verifier,
		logger:   logger,
	}
	r.applyRoutes()
	return r
}

func (r *Router) applyRoutes() {
	identify := middleware.Identify(r.service)

	// Login gets the strict profile: it is the brute-force target.
	r.mux.Handle("POST /auth/login",
		RateLimitByIP(StrictLimit, r.logger)(http.HandlerFunc(r.handleLogin)))
	r.mux.Handle("POST /auth/refresh",
		RateLimitByIP(ModerateLimit, r.logger)(http.HandlerFunc(r.handleRefresh)))
	r.mux.Handle("POST /auth/logout",
		http.HandlerFunc(r.handleLogout))
	r.mux.Handle("GET /auth/me",
		identify(middleware.RequirePrincipal()(http.HandlerFunc(r.handleMe))))
}

// ServeHTTP implements http.Handler and applies the logging middleware
// around the whole mux.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	RequestLogger(r.logger)(r.mux).ServeHTTP(w, req)
}
