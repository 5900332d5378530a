package cli

import (
	"context"
)

func (c *Cli) runUsers(ctx context.Context) error {
	if err := c.requireAdmin(ctx); err != nil {
		return err
	}

	page, err := c.client.ListUsers(ctx)
	if err != nil {
		return err
	}

	return c.render("users", usersListTemplate, page)
}

func (c *Cli) runUserDelete(ctx context.Context, args []string) error {
	if err := requireArgs(args, 1, "user-delete <userID>"); err != nil {
		return err
	}
	id, err := parseID("user ID", args[0])
	if err != nil {
		return err
	}
	if err := c.requireAdmin(ctx); err != nil {
		return err
	}

	if err := c.client.DeleteUser(ctx, id); err != nil {
		return err
	}

	c.io.Printf("✓ User %d deleted\n", id)
	return nil
}
