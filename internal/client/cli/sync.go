package cli

import (
	"context"

	"github.com/scanvocab/scanvocab/internal/client/sync"
)

func (c *Cli) runSync(ctx context.Context) error {
	if c.sync.Entitlement(ctx) != sync.Entitled {
		c.io.Println("Sync needs a logged-in account with an active subscription.")
		return nil
	}

	if err := c.probe.Health(ctx); err != nil {
		c.sync.SetOnline(false)
		c.io.Println("Service unreachable. Changes stay queued until the next sync.")
		return nil
	}
	c.sync.SetOnline(true)

	result, err := c.sync.RunCycle(ctx)
	if err != nil {
		return err
	}

	if result.RanFullSync {
		c.io.Println("Full sync completed.")
	}
	c.io.Printf("Pushed %d change(s), merged back %d record(s)", result.Applied, result.PulledBack)
	if result.Dropped > 0 {
		c.io.Printf(", dropped %d rejected change(s)", result.Dropped)
	}
	c.io.Println("")

	state := c.sync.Status(ctx)
	c.io.Printf("Status: %s\n", state.Status)
	return nil
}
