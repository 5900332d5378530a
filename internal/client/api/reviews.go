package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/iudanet/ludonova/pkg/api"
)

// ListUserReviews возвращает отзывы текущего пользователя; gameID 0 - без фильтра
func (c *Client) ListUserReviews(ctx context.Context, page, size int, gameID int64) (*api.Page[api.Review], error) {
	query := url.Values{
		"page": {strconv.Itoa(page)},
		"size": {strconv.Itoa(size)},
	}
	if gameID != 0 {
		query.Set("gameId", strconv.FormatInt(gameID, 10))
	}

	var resp api.Page[api.Review]
	if err := c.Do(ctx, &Request{Path: "/reviews/user", Query: query}, &resp); err != nil {
		return nil, fmt.Errorf("list reviews request failed: %w", err)
	}
	return &resp, nil
}

// ListGameReviews возвращает все отзывы об игре
func (c *Client) ListGameReviews(ctx context.Context, gameID int64) ([]api.Review, error) {
	var reviews []api.Review
	path := "/reviews/game/" + strconv.FormatInt(gameID, 10)
	if err := c.Do(ctx, &Request{Path: path}, &reviews); err != nil {
		return nil, fmt.Errorf("list game reviews request failed: %w", err)
	}
	return reviews, nil
}

// CreateReview публикует отзыв
func (c *Client) CreateReview(ctx context.Context, input api.ReviewInput) (*api.Review, error) {
	var review api.Review
	if err := c.Do(ctx, &Request{Method: http.MethodPost, Path: "/reviews", Body: input}, &review); err != nil {
		return nil, fmt.Errorf("create review request failed: %w", err)
	}
	return &review, nil
}

// UpdateReview изменяет отзыв
func (c *Client) UpdateReview(ctx context.Context, id int64, input api.ReviewInput) (*api.Review, error) {
	var review api.Review
	req := &Request{Method: http.MethodPut, Path: reviewPath(id), Body: input}
	if err := c.Do(ctx, req, &review); err != nil {
		return nil, fmt.Errorf("update review request failed: %w", err)
	}
	return &review, nil
}

// DeleteReview удаляет отзыв
func (c *Client) DeleteReview(ctx context.Context, id int64) error {
	if err := c.Do(ctx, &Request{Method: http.MethodDelete, Path: reviewPath(id)}, nil); err != nil {
		return fmt.Errorf("delete review request failed: %w", err)
	}
	return nil
}

func reviewPath(id int64) string {
	return "/reviews/" + strconv.FormatInt(id, 10)
}
