package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/iudanet/ludonova/pkg/api"
)

// Login выполняет аутентификацию по логину и паролю
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error) {
	var resp api.AuthResponse
	err := c.Do(ctx, &Request{Method: http.MethodPost, Path: "/auth/login", Body: req}, &resp)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Register регистрирует нового пользователя
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error) {
	var resp api.AuthResponse
	err := c.Do(ctx, &Request{Method: http.MethodPost, Path: "/auth/register", Body: req}, &resp)
	if err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Refresh обменивает refresh token на новую пару токенов.
// It talks to the auth API directly and never triggers the refresh protocol itself.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*api.AuthTokens, error) {
	var tokens api.AuthTokens
	req := &Request{
		Method: http.MethodPost,
		Path:   "/auth/refresh",
		Body:   api.RefreshRequest{RefreshToken: refreshToken},
	}
	if err := c.Do(ctx, req, &tokens); err != nil {
		return nil, fmt.Errorf("refresh request failed: %w", err)
	}
	return &tokens, nil
}

// SteamLoginURL возвращает адрес, на который нужно отправить пользователя для входа через Steam
func (c *Client) SteamLoginURL(ctx context.Context) (string, error) {
	var resp api.SteamLoginResponse
	if err := c.Do(ctx, &Request{Path: "/auth/steam/login"}, &resp); err != nil {
		return "", fmt.Errorf("steam login request failed: %w", err)
	}
	if resp.URL == "" {
		return "", fmt.Errorf("steam login response has no url")
	}
	return resp.URL, nil
}

// SteamReturn завершает вход через Steam, передавая OpenID параметры из callback
func (c *Client) SteamReturn(ctx context.Context, params url.Values) (*api.AuthResponse, error) {
	var resp api.AuthResponse
	if err := c.Do(ctx, &Request{Path: "/auth/steam/return", Query: params}, &resp); err != nil {
		return nil, fmt.Errorf("steam callback request failed: %w", err)
	}
	return &resp, nil
}
