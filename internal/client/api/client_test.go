package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/ludonova/internal/client/session"
	"github.com/iudanet/ludonova/internal/client/storage"
	"github.com/iudanet/ludonova/internal/client/storage/boltdb"
	"github.com/iudanet/ludonova/pkg/api"
)

// redirectRecorder запоминает все переходы на страницу логина
type redirectRecorder struct {
	routes []string
	mu     sync.Mutex
}

func (r *redirectRecorder) RedirectToLogin(route string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route)
}

func (r *redirectRecorder) Routes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.routes...)
}

// fakeAuthServer выдает пару a<N>/r<N> и принимает только актуальный access token
type fakeAuthServer struct {
	// refreshGate, если задан, блокирует ответ на /auth/refresh
	refreshGate chan struct{}
	// refreshStatus != 0 заставляет /auth/refresh отвечать ошибкой
	refreshStatus int
	// alwaysReject отвечает 401 на любой защищенный запрос
	alwaysReject bool

	mu            sync.Mutex
	validAccess   string
	validRefresh  string
	refreshCalls  atomic.Int32
	rejectedCalls atomic.Int32
	generation    int
	lastAuth      []string
	lastRequestID []string
}

func newFakeAuthServer(access, refresh string) *fakeAuthServer {
	return &fakeAuthServer{validAccess: access, validRefresh: refresh, generation: 1}
}

func (f *fakeAuthServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.lastAuth = append(f.lastAuth, r.Header.Get("Authorization"))
	f.lastRequestID = append(f.lastRequestID, r.Header.Get(HeaderRequestID))
	f.mu.Unlock()

	switch r.URL.Path {
	case "/auth/refresh":
		f.handleRefresh(w, r)
	case "/auth/login":
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: "invalid credentials"})
	case "/boom":
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: "internal", Message: "database is down"})
	default:
		f.mu.Lock()
		ok := !f.alwaysReject && r.Header.Get("Authorization") == "Bearer "+f.validAccess
		f.mu.Unlock()
		if !ok {
			f.rejectedCalls.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]api.Game{{ID: 1, Title: "Hades"}})
	}
}

func (f *fakeAuthServer) handleRefresh(w http.ResponseWriter, r *http.Request) {
	f.refreshCalls.Add(1)
	if f.refreshGate != nil {
		<-f.refreshGate
	}
	if f.refreshStatus != 0 {
		w.WriteHeader(f.refreshStatus)
		return
	}

	var req api.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if req.RefreshToken != f.validRefresh {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	f.generation++
	f.validAccess = "a" + string(rune('0'+f.generation))
	f.validRefresh = "r" + string(rune('0'+f.generation))

	_ = json.NewEncoder(w).Encode(api.AuthTokens{
		AccessToken:  f.validAccess,
		RefreshToken: f.validRefresh,
		TokenType:    "Bearer",
		ExpiresIn:    3600,
	})
}

func (f *fakeAuthServer) Authorizations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.lastAuth...)
}

func (f *fakeAuthServer) RequestIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.lastRequestID...)
}

func newTestStore(t *testing.T) *session.Store {
	t.Helper()

	db, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return session.NewStore(db, session.Options{}, nil)
}

func saveSession(t *testing.T, store *session.Store, access, refresh string) {
	t.Helper()
	err := store.Save(context.Background(), api.AuthTokens{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
	}, api.User{ID: 42, Username: "player", Role: api.RoleUser})
	require.NoError(t, err)
}

func newTestClient(t *testing.T, server *httptest.Server, store TokenStore) (*Client, *redirectRecorder) {
	t.Helper()
	redirects := &redirectRecorder{}
	client := NewClient(Config{BaseURL: server.URL, Timeout: 5 * time.Second}, store, redirects, nil)
	return client, redirects
}

// TestNewClient проверяет значения по умолчанию
func TestNewClient(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://localhost:8080/api/"}, nil, nil, nil)

	assert.NotNil(t, client)
	assert.Equal(t, "http://localhost:8080/api", client.cfg.BaseURL)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
	assert.Equal(t, 30*time.Second, client.cfg.RefreshTimeout)
	assert.Equal(t, "/login", client.LoginRoute())
	assert.Equal(t, DefaultUnauthenticatedPaths, client.cfg.UnauthenticatedPaths)
}

func TestClient_IsUnauthenticatedPath(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://localhost"}, nil, nil, nil)

	tests := []struct {
		path string
		want bool
	}{
		{"/auth/login", true},
		{"/auth/register", true},
		{"/auth/refresh", true},
		{"/auth/steam/login", true},
		{"/auth/steam/return?openid.mode=id_res", true},
		{"/auth/steam", true},
		{"/auth/steamy", false},
		{"/auth/loginx", false},
		{"/games", false},
		{"/user/current", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, client.IsUnauthenticatedPath(tt.path))
		})
	}
}

// Валидный токен: запрос уходит с bearer заголовком и без refresh
func TestClient_Do_AttachesBearer(t *testing.T) {
	fake := newFakeAuthServer("a1", "r1")
	server := httptest.NewServer(fake)
	defer server.Close()

	store := newTestStore(t)
	saveSession(t, store, "a1", "r1")
	client, redirects := newTestClient(t, server, store)

	games, err := client.ListGames(context.Background())
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "Hades", games[0].Title)

	assert.Equal(t, []string{"Bearer a1"}, fake.Authorizations())
	assert.Zero(t, fake.refreshCalls.Load())
	assert.Empty(t, redirects.Routes())
}

// Access token истек: один refresh, новая пара сохранена, запрос повторен
func TestClient_Do_RefreshesExpiredToken(t *testing.T) {
	fake := newFakeAuthServer("a2", "r1")
	// сервер уже считает a1 просроченным, refresh r1 -> a2/r2
	fake.generation = 1
	server := httptest.NewServer(fake)
	defer server.Close()

	store := newTestStore(t)
	saveSession(t, store, "a1", "r1")
	client, redirects := newTestClient(t, server, store)

	games, err := client.ListGames(context.Background())
	require.NoError(t, err)
	assert.Len(t, games, 1)

	sess, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a2", sess.Tokens.AccessToken)
	assert.Equal(t, "r2", sess.Tokens.RefreshToken)
	assert.Equal(t, int64(42), sess.User.ID, "cached user must survive refresh")
	assert.Equal(t, session.StateAuthenticated, store.State())

	assert.Equal(t, int32(1), fake.refreshCalls.Load())
	assert.Equal(t, []string{"Bearer a1", "", "Bearer a2"}, fake.Authorizations())
	assert.Empty(t, redirects.Routes())

	// X-Request-ID не меняется при повторе
	ids := fake.RequestIDs()
	require.Len(t, ids, 3)
	assert.NotEmpty(t, ids[0])
	assert.Equal(t, ids[0], ids[2])
	assert.NotEqual(t, ids[0], ids[1])
}

// Refresh недоступен: хранилище очищено, переход на /login, ошибка refresh не скрыта
func TestClient_Do_RefreshFailureSignsOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh" {
			// обрываем соединение, имитируя сетевую ошибку
			hj, ok := w.(http.Hijacker)
			require.True(t, ok)
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			_ = conn.Close()
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	store := newTestStore(t)
	saveSession(t, store, "a1", "r1")
	client, redirects := newTestClient(t, server, store)

	_, err := client.ListGames(context.Background())
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrAuthenticationExpired)
	var transportErr *TransportError
	assert.ErrorAs(t, err, &transportErr, "refresh cause must stay visible")

	_, err = store.Load(context.Background())
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
	assert.Equal(t, session.StateNoSession, store.State())
	assert.Equal(t, []string{"/login"}, redirects.Routes())
}

func TestClient_Do_RefreshRejected(t *testing.T) {
	fake := newFakeAuthServer("a9", "r1")
	fake.refreshStatus = http.StatusUnauthorized
	server := httptest.NewServer(fake)
	defer server.Close()

	store := newTestStore(t)
	saveSession(t, store, "a1", "r1")
	client, redirects := newTestClient(t, server, store)

	_, err := client.ListGames(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthenticationExpired)

	var unauth *UnauthenticatedEndpointError
	require.ErrorAs(t, err, &unauth)
	assert.Equal(t, "/auth/refresh", unauth.Path)

	assert.Equal(t, int32(1), fake.refreshCalls.Load())
	assert.Equal(t, []string{"/login"}, redirects.Routes())

	ok, err := store.IsAuthenticated(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

// Запрос повторяется не более одного раза
func TestClient_Do_RetriesAtMostOnce(t *testing.T) {
	fake := newFakeAuthServer("a1", "r1")
	fake.alwaysReject = true
	server := httptest.NewServer(fake)
	defer server.Close()

	store := newTestStore(t)
	saveSession(t, store, "a1", "r1")
	client, redirects := newTestClient(t, server, store)

	_, err := client.ListGames(context.Background())
	require.Error(t, err)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.True(t, httpErr.IsUnauthorized())
	assert.NotErrorIs(t, err, ErrAuthenticationExpired)

	assert.Equal(t, int32(2), fake.rejectedCalls.Load(), "original + exactly one replay")
	assert.Equal(t, int32(1), fake.refreshCalls.Load())
	assert.Empty(t, redirects.Routes())

	// сессия остается с обновленными токенами
	sess, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a2", sess.Tokens.AccessToken)
}

// 401 на login: без Authorization и без refresh
func TestClient_Do_UnauthenticatedEndpoint(t *testing.T) {
	fake := newFakeAuthServer("a1", "r1")
	server := httptest.NewServer(fake)
	defer server.Close()

	store := newTestStore(t)
	saveSession(t, store, "a1", "r1")
	client, redirects := newTestClient(t, server, store)

	_, err := client.Login(context.Background(), api.LoginRequest{Username: "player", Password: "wrong"})
	require.Error(t, err)

	var unauth *UnauthenticatedEndpointError
	require.ErrorAs(t, err, &unauth)
	assert.Equal(t, "invalid credentials", unauth.Message)
	assert.False(t, IsTransient(err))

	assert.Equal(t, []string{""}, fake.Authorizations(), "login must not carry a bearer token")
	assert.Zero(t, fake.refreshCalls.Load())
	assert.Empty(t, redirects.Routes())

	sess, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a1", sess.Tokens.AccessToken)
}

// Прочие ошибки передаются как есть
func TestClient_Do_NonAuthErrorPropagates(t *testing.T) {
	fake := newFakeAuthServer("a1", "r1")
	server := httptest.NewServer(fake)
	defer server.Close()

	store := newTestStore(t)
	saveSession(t, store, "a1", "r1")
	client, redirects := newTestClient(t, server, store)

	err := client.Do(context.Background(), &Request{Path: "/boom"}, nil)
	require.Error(t, err)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
	assert.Equal(t, "database is down", httpErr.Message)
	assert.Contains(t, err.Error(), "server error (500)")
	assert.True(t, IsTransient(err))

	assert.Zero(t, fake.refreshCalls.Load())
	assert.Empty(t, redirects.Routes())
}

func TestClient_Do_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(Config{BaseURL: url, Timeout: time.Second}, nil, nil, nil)

	err := client.Do(context.Background(), &Request{Path: "/games"}, nil)
	require.Error(t, err)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, "/games", transportErr.Path)
	assert.True(t, IsTransient(err))
}

// Параллельные 401 приводят ровно к одному вызову /auth/refresh
func TestClient_Do_ConcurrentUnauthorizedShareOneRefresh(t *testing.T) {
	const n = 8

	fake := newFakeAuthServer("a2", "r1")
	fake.refreshGate = make(chan struct{})
	server := httptest.NewServer(fake)
	defer server.Close()

	store := newTestStore(t)
	saveSession(t, store, "a1", "r1")
	client, redirects := newTestClient(t, server, store)

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = client.ListGames(context.Background())
		}(i)
	}

	// держим refresh, пока все запросы не получили 401
	require.Eventually(t, func() bool {
		return fake.rejectedCalls.Load() == n
	}, 5*time.Second, 5*time.Millisecond)
	close(fake.refreshGate)
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "request %d", i)
	}
	assert.Equal(t, int32(1), fake.refreshCalls.Load())
	assert.Empty(t, redirects.Routes())

	sess, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a2", sess.Tokens.AccessToken)
	assert.Equal(t, "r2", sess.Tokens.RefreshToken)
}

// Ожидающий refresh запрос уважает свой собственный контекст
func TestClient_Do_WaiterHonorsContext(t *testing.T) {
	fake := newFakeAuthServer("a2", "r1")
	fake.refreshGate = make(chan struct{})
	server := httptest.NewServer(fake)
	defer server.Close()
	defer close(fake.refreshGate)

	store := newTestStore(t)
	saveSession(t, store, "a1", "r1")
	client, _ := newTestClient(t, server, store)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := client.ListGames(ctx)
		done <- err
	}()

	require.Eventually(t, func() bool {
		return fake.refreshCalls.Load() == 1
	}, 5*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("request did not return after cancellation")
	}
}

// Logout во время refresh побеждает: ротированные токены не воскрешают сессию
func TestClient_Do_LogoutDuringRefresh(t *testing.T) {
	fake := newFakeAuthServer("a2", "r1")
	fake.refreshGate = make(chan struct{})
	server := httptest.NewServer(fake)
	defer server.Close()

	store := newTestStore(t)
	saveSession(t, store, "a1", "r1")
	client, redirects := newTestClient(t, server, store)

	done := make(chan error, 1)
	go func() {
		_, err := client.ListGames(context.Background())
		done <- err
	}()

	require.Eventually(t, func() bool {
		return fake.refreshCalls.Load() == 1
	}, 5*time.Second, 5*time.Millisecond)
	require.NoError(t, store.Clear(context.Background()))
	close(fake.refreshGate)

	err := <-done
	assert.ErrorIs(t, err, ErrAuthenticationExpired)

	ok, err := store.IsAuthenticated(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, redirects.Routes(), "user already logged out")
}

// lateRejectServer держит /slow до сигнала release и затем отвечает 401,
// остальные запросы обслуживает fake
type lateRejectServer struct {
	fake    *fakeAuthServer
	arrived chan struct{}
	release chan struct{}
}

func newLateRejectServer(fake *fakeAuthServer) *lateRejectServer {
	return &lateRejectServer{
		fake:    fake,
		arrived: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (s *lateRejectServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/slow" {
		s.fake.ServeHTTP(w, r)
		return
	}
	close(s.arrived)
	<-s.release
	w.WriteHeader(http.StatusUnauthorized)
}

// startSlow отправляет запрос к /slow и ждет, пока сервер его получит
func startSlow(t *testing.T, client *Client, late *lateRejectServer) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() {
		done <- client.Do(context.Background(), &Request{Path: "/slow"}, nil)
	}()

	select {
	case <-late.arrived:
	case <-time.After(5 * time.Second):
		t.Fatal("slow request did not reach the server")
	}
	return done
}

// 401 того же поколения токенов после неудачного refresh получает тот же
// результат: без второго refresh, второй очистки и второго перехода на логин
func TestClient_Do_LateUnauthorizedAfterFailedRefresh(t *testing.T) {
	fake := newFakeAuthServer("a9", "r1")
	fake.refreshStatus = http.StatusUnauthorized
	late := newLateRejectServer(fake)
	server := httptest.NewServer(late)
	defer server.Close()

	store := newTestStore(t)
	saveSession(t, store, "a1", "r1")
	client, redirects := newTestClient(t, server, store)

	slowDone := startSlow(t, client, late)

	_, err := client.ListGames(context.Background())
	require.Error(t, err)
	var first *AuthExpiredError
	require.ErrorAs(t, err, &first)

	close(late.release)
	err = <-slowDone
	require.Error(t, err)
	var second *AuthExpiredError
	require.ErrorAs(t, err, &second)

	assert.Same(t, first, second)
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr, "late request sees the refresh failure, not a missing token")
	assert.Equal(t, "/auth/refresh", httpErr.Path)
	assert.NotErrorIs(t, err, ErrNoRefreshToken)

	assert.Equal(t, int32(1), fake.refreshCalls.Load())
	assert.Equal(t, []string{"/login"}, redirects.Routes())
}

// 401 запроса, отправленного до logout, не ведет на логин повторно
func TestClient_Do_LateUnauthorizedAfterLogout(t *testing.T) {
	fake := newFakeAuthServer("a1", "r1")
	late := newLateRejectServer(fake)
	server := httptest.NewServer(late)
	defer server.Close()

	store := newTestStore(t)
	saveSession(t, store, "a1", "r1")
	client, redirects := newTestClient(t, server, store)

	slowDone := startSlow(t, client, late)
	require.NoError(t, store.Clear(context.Background()))
	close(late.release)

	err := <-slowDone
	assert.ErrorIs(t, err, ErrAuthenticationExpired)
	assert.ErrorIs(t, err, ErrNoRefreshToken)
	assert.Zero(t, fake.refreshCalls.Load())
	assert.Empty(t, redirects.Routes())
}

// Редирект на другой хост не получает bearer токен, на тот же хост получает
func TestClient_Do_RedirectKeepsTokenOnSameHost(t *testing.T) {
	var (
		mu       sync.Mutex
		foreign  []string
		sameHost []string
	)
	foreignServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		foreign = append(foreign, r.Header.Get("Authorization"))
		mu.Unlock()
		_ = json.NewEncoder(w).Encode([]api.Game{})
	}))
	defer foreignServer.Close()
	// тот же процесс, но другой хост с точки зрения клиента
	foreignURL := strings.Replace(foreignServer.URL, "127.0.0.1", "localhost", 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/moved-away":
			http.Redirect(w, r, foreignURL+"/games", http.StatusFound)
		case "/moved-here":
			http.Redirect(w, r, "/games", http.StatusFound)
		default:
			mu.Lock()
			sameHost = append(sameHost, r.Header.Get("Authorization"))
			mu.Unlock()
			_ = json.NewEncoder(w).Encode([]api.Game{})
		}
	}))
	defer server.Close()

	store := newTestStore(t)
	saveSession(t, store, "a1", "r1")
	client, _ := newTestClient(t, server, store)

	require.NoError(t, client.Do(context.Background(), &Request{Path: "/moved-away"}, nil))
	require.NoError(t, client.Do(context.Background(), &Request{Path: "/moved-here"}, nil))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, foreign, 1)
	assert.Empty(t, foreign[0])
	assert.Equal(t, []string{"Bearer a1"}, sameHost)
}

// Без сессии защищенный запрос уходит без токена, а 401 ведет на логин
func TestClient_Do_NoSession(t *testing.T) {
	fake := newFakeAuthServer("a1", "r1")
	server := httptest.NewServer(fake)
	defer server.Close()

	store := newTestStore(t)
	client, redirects := newTestClient(t, server, store)

	_, err := client.ListGames(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthenticationExpired)
	assert.ErrorIs(t, err, ErrNoRefreshToken)

	assert.Equal(t, []string{""}, fake.Authorizations())
	assert.Zero(t, fake.refreshCalls.Load())
	assert.Equal(t, []string{"/login"}, redirects.Routes())
}

func TestClient_Do_InvalidRequest(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://localhost"}, nil, nil, nil)

	err := client.Do(context.Background(), nil, nil)
	assert.Error(t, err)

	err = client.Do(context.Background(), &Request{Path: "games"}, nil)
	assert.Error(t, err)

	err = client.Do(context.Background(), &Request{Path: "/games", Body: make(chan int)}, nil)
	assert.ErrorContains(t, err, "failed to marshal request body")
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain", err: errors.New("boom"), want: false},
		{name: "server error", err: &HTTPError{StatusCode: 503}, want: true},
		{name: "not found", err: &HTTPError{StatusCode: 404}, want: true},
		{name: "unauthorized", err: &HTTPError{StatusCode: 401}, want: false},
		{name: "transport", err: &TransportError{Err: errors.New("refused")}, want: true},
		{name: "auth expired", err: &AuthExpiredError{Cause: &TransportError{Err: errors.New("refused")}}, want: false},
		{
			name: "unauthenticated endpoint",
			err:  &UnauthenticatedEndpointError{HTTPError: &HTTPError{StatusCode: 401}},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestHTTPError_Error(t *testing.T) {
	assert.Equal(t, "server error (400): bad title", (&HTTPError{StatusCode: 400, Message: "bad title"}).Error())
	assert.Equal(t, "request failed with status 502: gateway", (&HTTPError{StatusCode: 502, Body: []byte("gateway")}).Error())
	assert.Equal(t, "request failed with status 404", (&HTTPError{StatusCode: 404}).Error())
}
