package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tokengate "github.com/seojun-dev/tokengate"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type stubVerifier map[string]tokengate.Principal

func (v stubVerifier) Verify(_ context.Context, email, password string) (tokengate.Principal, error) {
	p, ok := v[email]
	if !ok || password != "correct-horse" {
		return tokengate.Principal{}, errors.New("invalid credentials")
	}
	return p, nil
}

func newTestRouter(t *testing.T) (*Router, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := tokengate.DefaultConfig()
	cfg.JWT.Secret = []byte("0123456789abcdef0123456789abcdef")

	svc, err := tokengate.New().
		WithConfig(cfg).
		WithRedis(client).
		WithPrincipalProvider(tokengate.PrincipalProviderFunc(
			func(_ context.Context, id int64) (tokengate.Principal, error) {
				if id == 42 {
					return tokengate.Principal{ID: 42, Role: "USER"}, nil
				}
				return tokengate.Principal{}, errors.New("unknown account")
			},
		)).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(svc.Close)

	verifier := stubVerifier{
		"alice@example.com": {ID: 42, Role: "USER"},
	}
	logger := slog.New(slog.NewTextHandler(testWriter{t}, nil))

	return NewRouter(svc, verifier, logger), mr
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

func doJSON(t *testing.T, router *Router, method, path, body, authz string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func loginPair(t *testing.T, router *Router) tokenPairResponse {
	t.Helper()

	rec := doJSON(t, router, "POST", "/auth/login",
		`{"email":"alice@example.com","password":"correct-horse"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed with status %d: %s", rec.Code, rec.Body.String())
	}

	var pair tokenPairResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &pair); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("incomplete token pair: %s", rec.Body.String())
	}
	return pair
}

func TestLoginReturnsTokenPair(t *testing.T) {
	router, _ := newTestRouter(t)

	pair := loginPair(t, router)
	if pair.UserID != 42 || pair.Role != "USER" {
		t.Fatalf("unexpected identity in response: %+v", pair)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, "POST", "/auth/login",
		`{"email":"alice@example.com","password":"wrong"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Error != msgInvalidSession {
		t.Fatalf("expected the generic credential message, got %q", body.Error)
	}
}

func TestLoginRejectsMalformedBody(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, "POST", "/auth/login", `{"email":`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", rec.Code)
	}

	rec = doJSON(t, router, "POST", "/auth/login", `{"email":"a@b.c"}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing password, got %d", rec.Code)
	}
}

func TestRefreshReturnsNewAccessToken(t *testing.T) {
	router, _ := newTestRouter(t)
	pair := loginPair(t, router)

	rec := doJSON(t, router, "POST", "/auth/refresh",
		`{"refreshToken":"`+pair.RefreshToken+`"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var res refreshResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode refresh response: %v", err)
	}
	if res.AccessToken == "" || res.AccessToken == pair.AccessToken {
		t.Fatal("expected a fresh access token")
	}
	if res.UserID != 42 || res.Role != "USER" {
		t.Fatalf("unexpected identity in refresh response: %+v", res)
	}
}

func TestRefreshRejectsInvalidToken(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, "POST", "/auth/refresh", `{"refreshToken":"garbage"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	rec = doJSON(t, router, "POST", "/auth/refresh", `{}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing token, got %d", rec.Code)
	}
}

func TestRefreshStoreDownIs503(t *testing.T) {
	router, mr := newTestRouter(t)
	pair := loginPair(t, router)

	mr.Close()

	rec := doJSON(t, router, "POST", "/auth/refresh",
		`{"refreshToken":"`+pair.RefreshToken+`"}`, "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when the store is down, got %d", rec.Code)
	}
}

func TestLogoutAlwaysAcknowledges(t *testing.T) {
	router, _ := newTestRouter(t)
	pair := loginPair(t, router)

	rec := doJSON(t, router, "POST", "/auth/logout",
		`{"refreshToken":"`+pair.RefreshToken+`"}`, "Bearer "+pair.AccessToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	// Logout with nothing to clean up still acknowledges.
	rec = doJSON(t, router, "POST", "/auth/logout", `{}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for empty logout, got %d", rec.Code)
	}

	// The session is gone afterwards.
	rec = doJSON(t, router, "POST", "/auth/refresh",
		`{"refreshToken":"`+pair.RefreshToken+`"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", rec.Code)
	}
}

func TestMeRequiresAuthentication(t *testing.T) {
	router, _ := newTestRouter(t)
	pair := loginPair(t, router)

	rec := doJSON(t, router, "GET", "/auth/me", "", "Bearer "+pair.AccessToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var me meResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &me); err != nil {
		t.Fatalf("decode me response: %v", err)
	}
	if me.UserID != 42 || me.Role != "USER" {
		t.Fatalf("unexpected identity: %+v", me)
	}

	rec = doJSON(t, router, "GET", "/auth/me", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	rec = doJSON(t, router, "GET", "/auth/me", "", "Bearer "+pair.RefreshToken)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for refresh token, got %d", rec.Code)
	}
}
