package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	tokengate "github.com/seojun-dev/tokengate"
	"github.com/seojun-dev/tokengate/middleware"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	UserID       int64  `json:"userId"`
	Role         string `json:"role"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken string `json:"accessToken"`
	UserID      int64  `json:"userId"`
	Role        string `json:"role"`
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type meResponse struct {
	UserID int64  `json:"userId"`
	Role   string `json:"role"`
}

func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if body.Email == "" || body.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	ctx := requestContext(r)

	principal, err := rt.verifier.Verify(ctx, body.Email, body.Password)
	if err != nil {
		rt.logger.Warn("login rejected", "remote", clientIP(r))
		writeError(w, http.StatusUnauthorized, msgInvalidSession)
		return
	}

	pair, err := rt.service.Issue(ctx, principal)
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		UserID:       pair.UserID,
		Role:         pair.Role,
	})
}

func (rt *Router) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var body refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "refreshToken is required")
		return
	}

	result, err := rt.service.Refresh(requestContext(r), body.RefreshToken)
	if err != nil {
		rt.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, refreshResponse{
		AccessToken: result.AccessToken,
		UserID:      result.UserID,
		Role:        result.Role,
	})
}

// handleLogout always acknowledges. The access token comes from the
// Authorization header, the refresh token from the optional body; whatever
// is present and valid gets cleaned up, everything else is ignored.
func (rt *Router) handleLogout(w http.ResponseWriter, r *http.Request) {
	var body logoutRequest
	_ = json.NewDecoder(r.Body).Decode(&body)

	accessToken := bearerFromHeader(r.Header.Get("Authorization"))
	rt.service.Logout(requestContext(r), accessToken, body.RefreshToken)

	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (rt *Router) handleMe(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		// RequirePrincipal guards this route; reaching here without a
		// principal is a wiring bug.
		writeError(w, http.StatusUnauthorized, msgInvalidSession)
		return
	}

	writeJSON(w, http.StatusOK, meResponse{
		UserID: principal.ID,
		Role:   principal.Role,
	})
}

func (rt *Router) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, tokengate.ErrStoreUnavailable) {
		rt.logger.Error("session store unavailable", "err", err)
		writeError(w, http.StatusServiceUnavailable, msgStoreUnavailable)
		return
	}

	rt.logger.Warn("token operation rejected", "remote", clientIP(r))
	writeError(w, http.StatusUnauthorized, msgInvalidSession)
}

func requestContext(r *http.Request) context.Context {
	ctx := tokengate.WithClientIP(r.Context(), clientIP(r))
	return tokengate.WithUserAgent(ctx, r.UserAgent())
}

func bearerFromHeader(value string) string {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return ""
	}
	return strings.TrimSpace(value[len(bearer):])
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
