package cli

import (
	"context"

	"github.com/scanvocab/scanvocab/internal/client/progress"
	"github.com/scanvocab/scanvocab/internal/client/sync"
)

// runWatch keeps the client running with the scheduler active: the
// connectivity probe, the periodic drain and the startup cycle all
// fire in the background until the context is cancelled.
func (c *Cli) runWatch(ctx context.Context) error {
	c.progress.Cache().Subscribe(progress.ObserverFunc(func() {
		state := c.sync.Status(context.Background())
		if state.Status == sync.StatusPending {
			c.io.Printf("Progress recorded, %d change(s) pending\n", state.Pending)
		}
	}))

	if err := c.scheduler.Start(); err != nil {
		return err
	}
	defer c.scheduler.Stop()

	c.io.Println("Watching. Press Ctrl+C to stop.")
	<-ctx.Done()
	c.io.Println("Stopping.")
	return nil
}
