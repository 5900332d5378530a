package auth

import (
	"context"
	"errors"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/ludonova/internal/apitest"
	clientapi "github.com/iudanet/ludonova/internal/client/api"
	"github.com/iudanet/ludonova/internal/client/session"
	"github.com/iudanet/ludonova/internal/client/storage/boltdb"
	"github.com/iudanet/ludonova/pkg/api"
)

// mockAuthAPI implements AuthAPI for testing
type mockAuthAPI struct {
	resp       *api.AuthResponse
	err        error
	steamURL   string
	lastLogin  api.LoginRequest
	lastReg    api.RegisterRequest
	lastParams url.Values
	loginCalls int
	regCalls   int
	steamCalls int
}

func (m *mockAuthAPI) Login(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error) {
	m.loginCalls++
	m.lastLogin = req
	return m.resp, m.err
}

func (m *mockAuthAPI) Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error) {
	m.regCalls++
	m.lastReg = req
	return m.resp, m.err
}

func (m *mockAuthAPI) SteamLoginURL(ctx context.Context) (string, error) {
	return m.steamURL, m.err
}

func (m *mockAuthAPI) SteamReturn(ctx context.Context, params url.Values) (*api.AuthResponse, error) {
	m.steamCalls++
	m.lastParams = params
	return m.resp, m.err
}

func newTestService(t *testing.T, client *mockAuthAPI) (*AuthService, *session.Store) {
	t.Helper()

	db, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := session.NewStore(db, session.Options{}, nil)
	return NewAuthService(client, store, nil), store
}

func authResponse(access, refresh string) *api.AuthResponse {
	return &api.AuthResponse{
		User: api.User{ID: 7, Username: "player", Role: api.RoleUser},
		Tokens: api.AuthTokens{
			AccessToken:  access,
			RefreshToken: refresh,
			TokenType:    "Bearer",
			ExpiresIn:    3600,
		},
	}
}

func TestAuthService_Login(t *testing.T) {
	client := &mockAuthAPI{resp: authResponse("a1", "r1")}
	svc, store := newTestService(t, client)

	user, err := svc.Login(context.Background(), "player", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "player", user.Username)
	assert.Equal(t, api.LoginRequest{Username: "player", Password: "secret1"}, client.lastLogin)

	sess, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a1", sess.Tokens.AccessToken)
	assert.Equal(t, int64(7), sess.User.ID)
	assert.Equal(t, session.StateAuthenticated, store.State())
}

func TestAuthService_Login_Validation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		errMsg   string
	}{
		{name: "short username", username: "ab", password: "secret1", errMsg: "invalid username"},
		{name: "empty password", username: "player", password: "", errMsg: "invalid password"},
		{name: "short password", username: "player", password: "12345", errMsg: "invalid password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockAuthAPI{resp: authResponse("a1", "r1")}
			svc, _ := newTestService(t, client)

			_, err := svc.Login(context.Background(), tt.username, tt.password)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.Zero(t, client.loginCalls)
		})
	}
}

func TestAuthService_Login_APIError(t *testing.T) {
	apiErr := errors.New("invalid credentials")
	client := &mockAuthAPI{err: apiErr}
	svc, store := newTestService(t, client)

	_, err := svc.Login(context.Background(), "player", "secret1")
	require.Error(t, err)
	assert.ErrorIs(t, err, apiErr)

	ok, err := store.IsAuthenticated(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthService_Login_MalformedTokenNotSaved(t *testing.T) {
	client := &mockAuthAPI{resp: authResponse("bad token", "r1")}
	svc, store := newTestService(t, client)

	_, err := svc.Login(context.Background(), "player", "secret1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save session")

	ok, err := store.IsAuthenticated(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthService_Register(t *testing.T) {
	client := &mockAuthAPI{resp: authResponse("a1", "r1")}
	svc, store := newTestService(t, client)

	user, err := svc.Register(context.Background(), "player", "player@ludonova.dev", "secret1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "player@ludonova.dev", client.lastReg.Email)

	ok, err := store.IsAuthenticated(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAuthService_Register_InvalidEmail(t *testing.T) {
	client := &mockAuthAPI{resp: authResponse("a1", "r1")}
	svc, _ := newTestService(t, client)

	_, err := svc.Register(context.Background(), "player", "not-an-email", "secret1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid email")
	assert.Zero(t, client.regCalls)
}

func TestAuthService_Steam(t *testing.T) {
	client := &mockAuthAPI{
		resp:     authResponse("a1", "r1"),
		steamURL: "https://steamcommunity.com/openid/login?openid.mode=checkid_setup",
	}
	svc, store := newTestService(t, client)

	u, err := svc.SteamLoginURL(context.Background())
	require.NoError(t, err)
	assert.Equal(t, client.steamURL, u)

	params := url.Values{"openid.mode": {"id_res"}, "openid.claimed_id": {"https://steamcommunity.com/openid/id/765"}}
	user, err := svc.CompleteSteamLogin(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, "player", user.Username)
	assert.Equal(t, params, client.lastParams)

	ok, err := store.IsAuthenticated(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.CompleteSteamLogin(context.Background(), nil)
	assert.Error(t, err)
	assert.Equal(t, 1, client.steamCalls)
}

func TestParseCallback(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		mode    string
		wantErr bool
	}{
		{name: "full url", raw: "http://localhost:3000/auth/steam/callback?openid.mode=id_res&openid.ns=x", mode: "id_res"},
		{name: "query only", raw: "openid.mode=id_res", mode: "id_res"},
		{name: "leading question mark", raw: " ?openid.mode=cancel ", mode: "cancel"},
		{name: "empty", raw: "", wantErr: true},
		{name: "bad escape", raw: "openid.mode=%zz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := ParseCallback(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.mode, params.Get("openid.mode"))
		})
	}
}

func TestAuthService_LogoutAndCurrent(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	client := &mockAuthAPI{resp: authResponse(access, "r1")}
	svc, _ := newTestService(t, client)
	ctx := context.Background()

	cur, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.False(t, cur.Authenticated)
	assert.Nil(t, cur.User)
	assert.Equal(t, session.StateNoSession, cur.State)

	_, err = svc.Login(ctx, "player", "secret1")
	require.NoError(t, err)

	cur, err = svc.Current(ctx)
	require.NoError(t, err)
	assert.True(t, cur.Authenticated)
	assert.Equal(t, "player", cur.User.Username)
	assert.Equal(t, "r1", cur.Tokens.RefreshToken)
	assert.True(t, exp.Equal(cur.AccessExpiresAt))

	require.NoError(t, svc.Logout(ctx))
	// повторный logout не ошибка
	require.NoError(t, svc.Logout(ctx))

	cur, err = svc.Current(ctx)
	require.NoError(t, err)
	assert.False(t, cur.Authenticated)
}

func TestAuthService_AgainstAPI(t *testing.T) {
	backend := apitest.New(nil)
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	db, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	store := session.NewStore(db, session.Options{}, nil)

	client := clientapi.NewClient(clientapi.Config{BaseURL: server.URL}, store, nil, nil)
	svc := NewAuthService(client, store, nil)
	ctx := context.Background()

	user, err := svc.Register(ctx, "player", "player@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "player", user.Username)

	require.NoError(t, svc.Logout(ctx))

	_, err = svc.Login(ctx, "player", "wrong-password")
	require.Error(t, err)
	var unauth *clientapi.UnauthenticatedEndpointError
	assert.ErrorAs(t, err, &unauth)

	user, err = svc.Login(ctx, "player", "secret1")
	require.NoError(t, err)

	cur, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.True(t, cur.Authenticated)
	assert.Equal(t, user.ID, cur.User.ID)
	// access token это JWT, срок действия читается из exp
	assert.WithinDuration(t, time.Now().Add(apitest.AccessTokenTTL), cur.AccessExpiresAt, time.Minute)
}
