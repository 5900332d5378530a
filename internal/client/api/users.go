package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/iudanet/ludonova/pkg/api"
)

// ListUsers возвращает страницу пользователей (только для администратора)
func (c *Client) ListUsers(ctx context.Context) (*api.Page[api.User], error) {
	var resp api.Page[api.User]
	if err := c.Do(ctx, &Request{Path: "/user"}, &resp); err != nil {
		return nil, fmt.Errorf("list users request failed: %w", err)
	}
	return &resp, nil
}

// GetUser возвращает пользователя по ID
func (c *Client) GetUser(ctx context.Context, id int64) (*api.User, error) {
	var user api.User
	if err := c.Do(ctx, &Request{Path: userPath(id)}, &user); err != nil {
		return nil, fmt.Errorf("get user request failed: %w", err)
	}
	return &user, nil
}

// CurrentUser возвращает профиль текущего пользователя
func (c *Client) CurrentUser(ctx context.Context) (*api.User, error) {
	var user api.User
	if err := c.Do(ctx, &Request{Path: "/user/current"}, &user); err != nil {
		return nil, fmt.Errorf("current user request failed: %w", err)
	}
	return &user, nil
}

// CreateUser создает пользователя
func (c *Client) CreateUser(ctx context.Context, req api.CreateUserRequest) (*api.User, error) {
	var user api.User
	if err := c.Do(ctx, &Request{Method: http.MethodPost, Path: "/user/create", Body: req}, &user); err != nil {
		return nil, fmt.Errorf("create user request failed: %w", err)
	}
	return &user, nil
}

// UpdateUser обновляет пользователя по ID
func (c *Client) UpdateUser(ctx context.Context, id int64, req api.UpdateUserRequest) (*api.User, error) {
	var user api.User
	if err := c.Do(ctx, &Request{Method: http.MethodPut, Path: userPath(id), Body: req}, &user); err != nil {
		return nil, fmt.Errorf("update user request failed: %w", err)
	}
	return &user, nil
}

// UpdateCurrentUser обновляет профиль текущего пользователя
func (c *Client) UpdateCurrentUser(ctx context.Context, req api.UpdateUserRequest) (*api.User, error) {
	var user api.User
	if err := c.Do(ctx, &Request{Method: http.MethodPut, Path: "/user/current", Body: req}, &user); err != nil {
		return nil, fmt.Errorf("update current user request failed: %w", err)
	}
	return &user, nil
}

// DeleteUser удаляет пользователя по ID
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	if err := c.Do(ctx, &Request{Method: http.MethodDelete, Path: userPath(id)}, nil); err != nil {
		return fmt.Errorf("delete user request failed: %w", err)
	}
	return nil
}

func userPath(id int64) string {
	return "/user/" + strconv.FormatInt(id, 10)
}
