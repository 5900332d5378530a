package apitest

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/ludonova/pkg/api"
)

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw)))
	return rec
}

func TestTokenIssuer(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	issuer := NewTokenIssuer([]byte("secret"), time.Minute, time.Hour, clock)

	user := api.User{ID: 7, Username: "player", Role: api.RoleAdmin}
	tokens, refreshExpiresAt, err := issuer.Issue(user)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", tokens.TokenType)
	assert.Equal(t, int64(60), tokens.ExpiresIn)
	assert.Equal(t, now.Add(time.Hour), refreshExpiresAt)
	assert.NotContains(t, tokens.RefreshToken, "=")

	claims, err := issuer.ValidateAccessToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, "player", claims.Username)
	assert.Equal(t, api.RoleAdmin, claims.Role)

	now = now.Add(2 * time.Minute)
	_, err = issuer.ValidateAccessToken(tokens.AccessToken)
	assert.Error(t, err)

	other := NewTokenIssuer([]byte("other"), time.Minute, time.Hour, nil)
	_, err = other.ValidateAccessToken(tokens.AccessToken)
	assert.Error(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	issuer := NewTokenIssuer([]byte("secret"), time.Minute, time.Hour, nil)
	valid, err := issuer.IssueAccessToken(api.User{ID: 1, Username: "player"})
	require.NoError(t, err)

	var seen *Claims
	h := Auth(slog.New(slog.DiscardHandler), issuer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = claimsFromContext(r.Context())
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not-a-jwt", wantStatus: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer " + valid, wantStatus: http.StatusOK},
		{name: "lowercase scheme", header: "bearer " + valid, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/games", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				require.NotNil(t, seen)
				assert.Equal(t, "player", seen.Username)
			} else {
				assert.Nil(t, seen)
			}
		})
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	h := Recovery(slog.New(slog.DiscardHandler))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "internal server error", resp.Error)
}

func TestServer_LoginAndRefresh(t *testing.T) {
	s := New(nil, api.Game{ID: 1, Title: "Hades"})
	_, err := s.CreateAccount("player", "player@example.com", "secret1", api.RoleUser)
	require.NoError(t, err)

	rec := postJSON(t, s, "/auth/login", api.LoginRequest{Username: "player", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postJSON(t, s, "/auth/login", api.LoginRequest{Username: "player", Password: "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)
	var auth api.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &auth))
	assert.Equal(t, "player", auth.User.Username)

	rec = postJSON(t, s, "/auth/refresh", api.RefreshRequest{RefreshToken: auth.Tokens.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code)
	var rotated api.AuthTokens
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rotated))
	assert.NotEqual(t, auth.Tokens.RefreshToken, rotated.RefreshToken)

	// refresh token одноразовый
	rec = postJSON(t, s, "/auth/refresh", api.RefreshRequest{RefreshToken: auth.Tokens.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 2, s.RefreshCalls())

	// после истечения refresh token тоже отклоняется
	s.Advance(RefreshTokenTTL + time.Minute)
	rec = postJSON(t, s, "/auth/refresh", api.RefreshRequest{RefreshToken: rotated.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_Register(t *testing.T) {
	s := New(nil)

	rec := postJSON(t, s, "/auth/register", api.RegisterRequest{Username: "ab", Email: "a@b.c", Password: "secret1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := api.RegisterRequest{Username: "player", Email: "player@example.com", Password: "secret1"}
	rec = postJSON(t, s, "/auth/register", req)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, s, "/auth/register", req)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestServer_ProtectedRoutes(t *testing.T) {
	s := New(nil, api.Game{ID: 1, Title: "Hades"}, api.Game{ID: 2, Title: "Celeste"})
	user, err := s.CreateAccount("player", "", "secret1", api.RoleUser)
	require.NoError(t, err)
	access, err := s.Tokens().IssueAccessToken(user)
	require.NoError(t, err)

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+access)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)
		return rec
	}

	rec := get("/games")
	require.Equal(t, http.StatusOK, rec.Code)
	var games []api.Game
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &games))
	assert.Len(t, games, 2)

	rec = get("/games/2")
	require.Equal(t, http.StatusOK, rec.Code)
	var game api.Game
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &game))
	assert.Equal(t, "Celeste", game.Title)

	assert.Equal(t, http.StatusNotFound, get("/games/9").Code)
	assert.Equal(t, http.StatusBadRequest, get("/games/abc").Code)
	assert.Equal(t, http.StatusOK, get("/user/current").Code)

	s.Advance(AccessTokenTTL + time.Minute)
	assert.Equal(t, http.StatusUnauthorized, get("/games").Code)
}
