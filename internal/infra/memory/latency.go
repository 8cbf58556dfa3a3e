// Package memory holds seeded in-memory backends. Every call waits for a
// configurable latency before touching data, and gives up early when the
// context is done.
package memory

import (
	"context"
	"time"
)

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
