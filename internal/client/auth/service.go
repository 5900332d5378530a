package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/iudanet/ludonova/internal/client/session"
	"github.com/iudanet/ludonova/internal/client/storage"
	"github.com/iudanet/ludonova/internal/validation"
	"github.com/iudanet/ludonova/pkg/api"
)

// Context is what the rest of the client knows about the signed in user.
// Authenticated is true only when both the user and the tokens are present.
type Context struct {
	AccessExpiresAt time.Time // zero, если access token не JWT
	User            *api.User
	Tokens          *api.AuthTokens
	State           session.State
	Authenticated   bool
}

// AuthService предоставляет функции авторизации
type AuthService struct {
	client AuthAPI
	store  SessionStore
	logger *slog.Logger
}

var _ Service = (*AuthService)(nil)

// NewAuthService создает новый сервис авторизации
func NewAuthService(client AuthAPI, store SessionStore, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		client: client,
		store:  store,
		logger: logger,
	}
}

// Register регистрирует нового пользователя
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*api.User, error) {
	// Валидация входных данных
	if err := validation.ValidateUsername(username); err != nil {
		return nil, fmt.Errorf("invalid username: %w", err)
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, fmt.Errorf("invalid email: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("invalid password: %w", err)
	}

	resp, err := s.client.Register(ctx, api.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}

	return s.openSession(ctx, resp)
}

// Login выполняет аутентификацию пользователя
func (s *AuthService) Login(ctx context.Context, username, password string) (*api.User, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return nil, fmt.Errorf("invalid username: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("invalid password: %w", err)
	}

	resp, err := s.client.Login(ctx, api.LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	return s.openSession(ctx, resp)
}

// SteamLoginURL возвращает адрес OpenID провайдера Steam
func (s *AuthService) SteamLoginURL(ctx context.Context) (string, error) {
	u, err := s.client.SteamLoginURL(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get steam login url: %w", err)
	}
	return u, nil
}

// CompleteSteamLogin отправляет OpenID параметры callback на сервер
func (s *AuthService) CompleteSteamLogin(ctx context.Context, params url.Values) (*api.User, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("steam callback has no parameters")
	}

	resp, err := s.client.SteamReturn(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("steam login failed: %w", err)
	}

	return s.openSession(ctx, resp)
}

// ParseCallback accepts either the full callback URL or only its query string.
func ParseCallback(raw string) (url.Values, error) {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[i+1:]
	}

	params, err := url.ParseQuery(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse steam callback: %w", err)
	}
	if len(params) == 0 {
		return nil, fmt.Errorf("steam callback has no parameters")
	}
	return params, nil
}

// Logout выполняет выход из системы
// На сервере сессии нет, поэтому достаточно удалить локальные данные
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to delete local session: %w", err)
	}
	s.logger.Info("logged out")
	return nil
}

// Current возвращает текущий контекст сессии
func (s *AuthService) Current(ctx context.Context) (*Context, error) {
	sess, err := s.store.Load(ctx)
	if errors.Is(err, storage.ErrSessionNotFound) {
		return &Context{State: s.store.State()}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	c := &Context{
		User:          &sess.User,
		Tokens:        &sess.Tokens,
		State:         s.store.State(),
		Authenticated: true,
	}
	if exp, ok := session.AccessTokenExpiry(sess.Tokens.AccessToken); ok {
		c.AccessExpiresAt = exp
	}
	return c, nil
}

func (s *AuthService) openSession(ctx context.Context, resp *api.AuthResponse) (*api.User, error) {
	if err := s.store.Save(ctx, resp.Tokens, resp.User); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.Info("session opened",
		"user_id", resp.User.ID,
		"username", resp.User.Username,
		"role", resp.User.Role,
	)

	user := resp.User
	return &user, nil
}
