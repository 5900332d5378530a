package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/iudanet/ludonova/internal/client/auth"
	pkgapi "github.com/iudanet/ludonova/pkg/api"
)

func (c *Cli) runLogin(ctx context.Context, args []string) error {
	c.io.Println("=== Login ===")
	c.io.Println()

	var (
		username string
		err      error
	)
	if len(args) > 0 {
		username = args[0]
	} else {
		// Запрашиваем username
		username, err = c.io.ReadInput("Username: ")
		if err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	c.io.Println()
	c.io.Println("Authenticating...")

	user, err := c.authService.Login(ctx, username, password)
	if err != nil {
		return err
	}

	c.printWelcome(user)
	return nil
}

func (c *Cli) runSteamLogin(ctx context.Context) error {
	c.io.Println("=== Steam Login ===")
	c.io.Println()

	u, err := c.authService.SteamLoginURL(ctx)
	if err != nil {
		return err
	}

	c.io.Println("Open this address in your browser and sign in with Steam:")
	c.io.Println()
	c.io.Printf("  %s\n", u)
	c.io.Println()
	c.io.Println("Steam will redirect you back. Copy the full address of that page and run:")
	c.io.Println("  ludonova steam-callback '<address>'")

	return nil
}

func (c *Cli) runSteamCallback(ctx context.Context, args []string) error {
	if err := requireArgs(args, 1, "steam-callback <callback-url>"); err != nil {
		return err
	}

	params, err := auth.ParseCallback(strings.Join(args, "&"))
	if err != nil {
		return err
	}

	user, err := c.authService.CompleteSteamLogin(ctx, params)
	if err != nil {
		return err
	}

	c.printWelcome(user)
	return nil
}

func (c *Cli) printWelcome(user *pkgapi.User) {
	c.io.Println()
	c.io.Println("✓ Login successful!")
	c.io.Printf("Username: %s\n", user.Username)
	if user.SteamUser != nil {
		c.io.Printf("Steam: %s\n", user.SteamUser.PersonaName)
	}
	c.io.Println()
	c.io.Println("Your session has been saved.")
}
