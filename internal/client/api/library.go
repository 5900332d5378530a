package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/iudanet/ludonova/pkg/api"
)

// ListLibrary возвращает страницу личной библиотеки (page начинается с 0)
func (c *Client) ListLibrary(ctx context.Context, page, size int) (*api.Page[api.GameInstance], error) {
	query := url.Values{
		"page": {strconv.Itoa(page)},
		"size": {strconv.Itoa(size)},
	}

	var resp api.Page[api.GameInstance]
	if err := c.Do(ctx, &Request{Path: "/game-instances", Query: query}, &resp); err != nil {
		return nil, fmt.Errorf("list library request failed: %w", err)
	}
	return &resp, nil
}

// GetLibraryEntryByGame возвращает запись библиотеки для игры из каталога
func (c *Client) GetLibraryEntryByGame(ctx context.Context, gameID int64) (*api.GameInstance, error) {
	var instance api.GameInstance
	path := "/game-instances/by-game/" + strconv.FormatInt(gameID, 10)
	if err := c.Do(ctx, &Request{Path: path}, &instance); err != nil {
		return nil, fmt.Errorf("get library entry request failed: %w", err)
	}
	return &instance, nil
}

// AddToLibrary добавляет игру в библиотеку
func (c *Client) AddToLibrary(ctx context.Context, input api.GameInstanceInput) (*api.GameInstance, error) {
	var instance api.GameInstance
	req := &Request{Method: http.MethodPost, Path: "/game-instances", Body: input}
	if err := c.Do(ctx, req, &instance); err != nil {
		return nil, fmt.Errorf("add to library request failed: %w", err)
	}
	return &instance, nil
}

// UpdateLibraryEntry обновляет статус, прогресс или заметки
func (c *Client) UpdateLibraryEntry(ctx context.Context, id int64, input api.GameInstanceInput) (*api.GameInstance, error) {
	var instance api.GameInstance
	req := &Request{Method: http.MethodPut, Path: instancePath(id), Body: input}
	if err := c.Do(ctx, req, &instance); err != nil {
		return nil, fmt.Errorf("update library entry request failed: %w", err)
	}
	return &instance, nil
}

// RemoveFromLibrary удаляет запись из библиотеки
func (c *Client) RemoveFromLibrary(ctx context.Context, id int64) error {
	if err := c.Do(ctx, &Request{Method: http.MethodDelete, Path: instancePath(id)}, nil); err != nil {
		return fmt.Errorf("remove from library request failed: %w", err)
	}
	return nil
}

// LibraryStats возвращает статистику библиотеки
func (c *Client) LibraryStats(ctx context.Context) (*api.LibraryStats, error) {
	var stats api.LibraryStats
	if err := c.Do(ctx, &Request{Path: "/game-instances/stats"}, &stats); err != nil {
		return nil, fmt.Errorf("library stats request failed: %w", err)
	}
	return &stats, nil
}

// SyncSteamLibrary импортирует игры из привязанного Steam аккаунта
func (c *Client) SyncSteamLibrary(ctx context.Context) ([]api.Game, error) {
	var games []api.Game
	req := &Request{Method: http.MethodPost, Path: "/steam/sync-library"}
	if err := c.Do(ctx, req, &games); err != nil {
		return nil, fmt.Errorf("steam sync request failed: %w", err)
	}
	return games, nil
}

func instancePath(id int64) string {
	return "/game-instances/" + strconv.FormatInt(id, 10)
}
