package middleware

import (
	"context"
	"net/http"
	"strings"

	tokengate "github.com/seojun-dev/tokengate"
)

type principalContextKey struct{}

// PrincipalFromContext returns the principal established by [Identify] for
// this request, if any.
func PrincipalFromContext(ctx context.Context) (*tokengate.Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(*tokengate.Principal)
	return p, ok
}

// Identify returns middleware that establishes a request-scoped principal
// from the Authorization header. It never rejects: requests without a valid
// access token continue unauthenticated and downstream handlers decide what
// that means. Nothing survives the request.
func Identify(svc *tokengate.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if svc == nil {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			principal, err := svc.ValidateAccess(r.Context(), token)
			if err != nil {
				// every failure collapses into "unauthenticated"
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), principalContextKey{}, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePrincipal returns middleware that rejects with 401 when no
// principal was established for the request.
func RequirePrincipal() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := PrincipalFromContext(r.Context()); !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Guard chains [Identify] and [RequirePrincipal] for routes that require an
// authenticated caller.
func Guard(svc *tokengate.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return Identify(svc)(RequirePrincipal()(next))
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := strings.TrimSpace(value[len(bearer):])
	if token == "" {
		return "", false
	}

	return token, true
}
