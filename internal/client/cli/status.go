package cli

import (
	"context"

	"github.com/scanvocab/scanvocab/internal/client/sync"
)

func (c *Cli) runStatus(ctx context.Context) error {
	authenticated, err := c.auth.IsAuthenticated(ctx)
	if err != nil {
		return err
	}
	if authenticated {
		c.io.Println("Session: logged in")
	} else {
		c.io.Println("Session: not logged in")
	}

	if c.sync.Entitlement(ctx) == sync.Entitled {
		c.io.Println("Sync: enabled")
	} else {
		c.io.Println("Sync: local only")
	}

	state := c.sync.Status(ctx)
	switch state.Status {
	case sync.StatusPending:
		c.io.Printf("Status: %s (%d pending)\n", state.Status, state.Pending)
	default:
		c.io.Printf("Status: %s\n", state.Status)
	}
	return nil
}
