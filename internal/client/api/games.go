package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/iudanet/ludonova/pkg/api"
)

// ListGames возвращает весь каталог игр
func (c *Client) ListGames(ctx context.Context) ([]api.Game, error) {
	var games []api.Game
	if err := c.Do(ctx, &Request{Path: "/games"}, &games); err != nil {
		return nil, fmt.Errorf("list games request failed: %w", err)
	}
	return games, nil
}

// GetGame возвращает игру по ID
func (c *Client) GetGame(ctx context.Context, id int64) (*api.Game, error) {
	var game api.Game
	if err := c.Do(ctx, &Request{Path: gamePath(id)}, &game); err != nil {
		return nil, fmt.Errorf("get game request failed: %w", err)
	}
	return &game, nil
}

// CreateGame добавляет игру в каталог
func (c *Client) CreateGame(ctx context.Context, input api.GameInput) (*api.Game, error) {
	var game api.Game
	if err := c.Do(ctx, &Request{Method: http.MethodPost, Path: "/games", Body: input}, &game); err != nil {
		return nil, fmt.Errorf("create game request failed: %w", err)
	}
	return &game, nil
}

// UpdateGame обновляет игру в каталоге
func (c *Client) UpdateGame(ctx context.Context, id int64, input api.GameInput) (*api.Game, error) {
	var game api.Game
	if err := c.Do(ctx, &Request{Method: http.MethodPut, Path: gamePath(id), Body: input}, &game); err != nil {
		return nil, fmt.Errorf("update game request failed: %w", err)
	}
	return &game, nil
}

// DeleteGame удаляет игру из каталога
func (c *Client) DeleteGame(ctx context.Context, id int64) error {
	if err := c.Do(ctx, &Request{Method: http.MethodDelete, Path: gamePath(id)}, nil); err != nil {
		return fmt.Errorf("delete game request failed: %w", err)
	}
	return nil
}

func gamePath(id int64) string {
	return "/games/" + strconv.FormatInt(id, 10)
}
