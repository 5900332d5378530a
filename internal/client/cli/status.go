package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/ludonova/internal/client/session"
)

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Authentication Status ===")
	c.io.Println()

	cur, err := c.authService.Current(ctx)
	if err != nil {
		return fmt.Errorf("failed to check authentication: %w", err)
	}

	if !cur.Authenticated {
		c.io.Println("Status: Not authenticated")
		c.io.Println()
		c.io.Println("Run 'ludonova login' to authenticate.")
		return nil
	}

	c.io.Println("Status: Authenticated")
	c.io.Printf("Username: %s\n", cur.User.Username)
	c.io.Printf("Role: %s\n", cur.User.Role)
	if cur.User.Email != nil {
		c.io.Printf("Email: %s\n", *cur.User.Email)
	}
	if cur.User.SteamUser != nil {
		c.io.Printf("Steam: %s (%s)\n", cur.User.SteamUser.PersonaName, cur.User.SteamUser.SteamID)
	}
	c.io.Printf("Access token: %s\n", session.MaskToken(cur.Tokens.AccessToken))

	if cur.AccessExpiresAt.IsZero() {
		return nil
	}

	c.io.Printf("Token expires: %s\n", cur.AccessExpiresAt.Format(time.RFC3339))
	if remaining := time.Until(cur.AccessExpiresAt); remaining > 0 {
		c.io.Printf("Time remaining: %s\n", remaining.Round(time.Second))
	} else {
		c.io.Println("Access token has expired; it will be refreshed on the next request.")
	}

	return nil
}
