// Package apitest содержит in-memory реализацию LudoNova API для интеграционных
// тестов клиента: настоящие JWT access токены, одноразовые refresh токены и
// управляемые часы, чтобы проверять истечение сессии без ожидания.
package apitest

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/iudanet/ludonova/internal/crypto"
	"github.com/iudanet/ludonova/internal/validation"
	"github.com/iudanet/ludonova/pkg/api"
)

// Время жизни токенов, выдаваемых сервером
const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 24 * time.Hour
)

var errInvalidCredentials = errors.New("invalid credentials")

type account struct {
	salt []byte
	key  []byte
	user api.User
}

type refreshGrant struct {
	expiresAt time.Time
	username  string
}

// Server is a fake LudoNova API. It is safe for concurrent use.
type Server struct {
	logger   *slog.Logger
	tokens   *TokenIssuer
	handler  http.Handler
	accounts map[string]*account
	grants   map[string]refreshGrant
	games    []api.Game
	offset   time.Duration
	nextID   int64
	mu       sync.Mutex

	refreshCalls atomic.Int32
}

// New создает сервер с каталогом games
func New(logger *slog.Logger, games ...api.Game) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		logger:   logger,
		accounts: make(map[string]*account),
		grants:   make(map[string]refreshGrant),
		games:    games,
	}
	s.tokens = NewTokenIssuer([]byte("apitest-signing-secret"), AccessTokenTTL, RefreshTokenTTL, s.now)

	authenticated := Auth(logger, s.tokens)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("POST /auth/refresh", s.handleRefresh)
	mux.Handle("GET /user/current", authenticated(http.HandlerFunc(s.handleCurrentUser)))
	mux.Handle("GET /games", authenticated(http.HandlerFunc(s.handleListGames)))
	mux.Handle("GET /games/{id}", authenticated(http.HandlerFunc(s.handleGetGame)))

	s.handler = Recovery(logger)(Logging(logger)(mux))
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Advance сдвигает часы сервера вперед, истекая токены без ожидания
func (s *Server) Advance(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offset += d
}

// RefreshCalls returns how many times /auth/refresh was hit
func (s *Server) RefreshCalls() int {
	return int(s.refreshCalls.Load())
}

// Tokens returns the issuer used to sign access tokens
func (s *Server) Tokens() *TokenIssuer {
	return s.tokens
}

// CreateAccount заводит пользователя напрямую, минуя регистрацию
func (s *Server) CreateAccount(username, email, password string, role api.Role) (api.User, error) {
	salt, err := crypto.GenerateSalt()
	if err != nil {
		return api.User{}, err
	}
	key, err := crypto.DeriveKey(password, salt)
	if err != nil {
		return api.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[username]; ok {
		return api.User{}, errors.New("user already exists")
	}

	s.nextID++
	user := api.User{ID: s.nextID, Username: username, Role: role}
	if email != "" {
		user.Email = &email
	}
	s.accounts[username] = &account{user: user, salt: salt, key: key}

	return user, nil
}

func (s *Server) now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Now().Add(s.offset)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	for _, err := range []error{
		validation.ValidateUsername(req.Username),
		validation.ValidateEmail(req.Email),
		validation.ValidatePassword(req.Password),
	} {
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	user, err := s.CreateAccount(req.Username, req.Email, req.Password, api.RoleUser)
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	s.logger.Info("User registered", "user_id", user.ID, "username", user.Username)
	s.respondWithSession(w, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.authenticate(req.Username, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	s.respondWithSession(w, http.StatusOK, user)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.refreshCalls.Add(1)

	var req api.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	now := s.now()

	s.mu.Lock()
	grant, ok := s.grants[req.RefreshToken]
	// refresh token одноразовый
	delete(s.grants, req.RefreshToken)
	var acc *account
	if ok {
		acc = s.accounts[grant.username]
	}
	s.mu.Unlock()

	if !ok || acc == nil || now.After(grant.expiresAt) {
		s.logger.Warn("Refresh token rejected")
		writeError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	tokens, err := s.issue(acc.user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue tokens")
		return
	}

	writeJSON(w, http.StatusOK, tokens)
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFromContext(r.Context())

	s.mu.Lock()
	acc, ok := s.accounts[claims.Username]
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, acc.user)
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	games := append([]api.Game{}, s.games...)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, games)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid game id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, g := range s.games {
		if g.ID == id {
			writeJSON(w, http.StatusOK, g)
			return
		}
	}
	writeError(w, http.StatusNotFound, "game not found")
}

func (s *Server) authenticate(username, password string) (api.User, error) {
	s.mu.Lock()
	acc, ok := s.accounts[username]
	s.mu.Unlock()

	if !ok {
		return api.User{}, errInvalidCredentials
	}

	key, err := crypto.DeriveKey(password, acc.salt)
	if err != nil {
		return api.User{}, errInvalidCredentials
	}
	if subtle.ConstantTimeCompare(key, acc.key) != 1 {
		return api.User{}, errInvalidCredentials
	}

	return acc.user, nil
}

func (s *Server) respondWithSession(w http.ResponseWriter, status int, user api.User) {
	tokens, err := s.issue(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue tokens")
		return
	}
	writeJSON(w, status, api.AuthResponse{User: user, Tokens: tokens})
}

func (s *Server) issue(user api.User) (api.AuthTokens, error) {
	tokens, refreshExpiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return api.AuthTokens{}, err
	}

	s.mu.Lock()
	s.grants[tokens.RefreshToken] = refreshGrant{username: user.Username, expiresAt: refreshExpiresAt}
	s.mu.Unlock()

	return tokens, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, api.ErrorResponse{Error: message})
}
