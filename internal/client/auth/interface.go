package auth

import (
	"context"
	"net/url"

	"github.com/iudanet/ludonova/internal/client/session"
	"github.com/iudanet/ludonova/pkg/api"
)

// Service defines the authentication operations used by the CLI.
// Every successful login stores the token pair and the user together.
type Service interface {
	// Register регистрирует нового пользователя и сразу открывает сессию
	Register(ctx context.Context, username, email, password string) (*api.User, error)

	// Login выполняет аутентификацию по логину и паролю
	Login(ctx context.Context, username, password string) (*api.User, error)

	// SteamLoginURL возвращает адрес входа через Steam OpenID
	SteamLoginURL(ctx context.Context) (string, error)

	// CompleteSteamLogin завершает вход через Steam по параметрам callback
	CompleteSteamLogin(ctx context.Context, params url.Values) (*api.User, error)

	// Logout удаляет локальную сессию
	Logout(ctx context.Context) error

	// Current возвращает текущий контекст сессии
	Current(ctx context.Context) (*Context, error)
}

// AuthAPI is the subset of the API client used for the auth handshake
type AuthAPI interface {
	Login(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error)
	Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error)
	SteamLoginURL(ctx context.Context) (string, error)
	SteamReturn(ctx context.Context, params url.Values) (*api.AuthResponse, error)
}

// SessionStore is the subset of session.Store used by the service
type SessionStore interface {
	Save(ctx context.Context, tokens api.AuthTokens, user api.User) error
	Load(ctx context.Context) (*session.Session, error)
	Clear(ctx context.Context) error
	State() session.State
}
