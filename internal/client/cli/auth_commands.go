package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runRegister(ctx context.Context) error {
	username, err := c.io.ReadInput("Username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}
	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	confirm, err := c.io.ReadPassword("Confirm password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	userID, err := c.auth.Register(ctx, username, password)
	if err != nil {
		return err
	}

	c.io.Printf("Registered %s (id %s). Run 'scanvocab login' to sign in.\n", username, userID)
	return nil
}

func (c *Cli) runLogin(ctx context.Context) error {
	username, err := c.io.ReadInput("Username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}
	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	session, err := c.auth.Login(ctx, username, password)
	if err != nil {
		return err
	}

	c.io.Printf("Logged in as %s\n", session.Username)
	if session.Subscription.Entitled() {
		c.io.Println("Subscription active: progress will sync across devices.")
		c.sync.Kick()
	} else {
		c.io.Println("No active subscription: progress stays on this device.")
	}
	return nil
}

func (c *Cli) runLogout(ctx context.Context) error {
	if err := c.auth.Logout(ctx); err != nil {
		return err
	}
	c.io.Println("Logged out. Local progress is kept on this device.")
	return nil
}
