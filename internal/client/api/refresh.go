package api

import (
	"context"
	"errors"

	"github.com/iudanet/ludonova/internal/client/session"
	"github.com/iudanet/ludonova/internal/client/storage"
)

// refresh returns an access token to replay a request that was rejected
// while carrying staleToken.
//
// Concurrent callers that saw the same stale token share one flight. The
// flight re-reads the store first: if another request already rotated the
// tokens, the new access token is returned without calling the auth API.
func (c *Client) refresh(ctx context.Context, staleToken string) (string, error) {
	ch := c.refreshes.DoChan(staleToken, func() (any, error) {
		// Refresh не должен прерываться из-за отмены контекста первого вызвавшего:
		// его результат нужен всем ожидающим
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.cfg.RefreshTimeout)
		defer cancel()
		return c.refreshFlight(flightCtx, staleToken)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (c *Client) refreshFlight(ctx context.Context, staleToken string) (string, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	if c.store == nil {
		return "", &AuthExpiredError{Cause: ErrNoRefreshToken}
	}

	// 401 этого поколения токенов пришел уже после неудачного refresh:
	// тот же результат, без повторной очистки и перехода на логин
	if staleToken != "" && staleToken == c.failedToken {
		return "", c.failedErr
	}

	sess, err := c.store.Load(ctx)
	switch {
	case err == nil && sess.Tokens.AccessToken != staleToken:
		c.logger.Debug("tokens already rotated, replaying with current token")
		return sess.Tokens.AccessToken, nil
	case errors.Is(err, storage.ErrSessionNotFound) && staleToken != "":
		// сессию очистил logout, пока запрос был в пути
		return "", &AuthExpiredError{Cause: ErrNoRefreshToken}
	case errors.Is(err, storage.ErrSessionNotFound):
		return "", c.expire(ctx, staleToken, ErrNoRefreshToken)
	case err != nil:
		return "", c.expire(ctx, staleToken, err)
	}

	c.store.BeginRefresh()
	c.logger.Info("access token rejected, refreshing session",
		"user_id", sess.User.ID,
		"refresh_token", session.MaskToken(sess.Tokens.RefreshToken),
	)

	tokens, err := c.Refresh(ctx, sess.Tokens.RefreshToken)
	if err != nil {
		return "", c.expire(ctx, staleToken, err)
	}

	if err := c.store.Rotate(ctx, sess.Tokens.RefreshToken, *tokens); err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			// Сессию очистили или заменили пока шел refresh: новое состояние важнее
			c.logger.Warn("session changed during refresh, dropping rotated tokens", "error", err)
			return "", &AuthExpiredError{Cause: err}
		}
		return "", c.expire(ctx, staleToken, err)
	}

	c.logger.Info("session refreshed", "user_id", sess.User.ID)
	return tokens.AccessToken, nil
}

// expire ends the session after a failed refresh: store cleared, UI sent to login.
// The outcome is remembered for staleToken. Must be called with refreshMu held.
func (c *Client) expire(ctx context.Context, staleToken string, cause error) error {
	c.logger.Warn("session refresh failed, signing out", "error", cause)

	c.store.Expire()
	if err := c.store.Clear(ctx); err != nil {
		c.logger.Error("failed to clear session", "error", err)
	}
	c.redirector.RedirectToLogin(c.cfg.LoginRoute)

	expired := &AuthExpiredError{Cause: cause}
	if staleToken != "" {
		c.failedToken = staleToken
		c.failedErr = expired
	}
	return expired
}
