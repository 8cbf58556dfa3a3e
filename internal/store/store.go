// Package store holds the four in-memory stores the API serves from:
// Identity, Catalog, Provider and Booking.
//
// Every store keeps its state as an immutable snapshot behind a RWMutex.
// Mutations first complete the backend call, then swap in a new snapshot,
// so readers never see a partial write and a failed backend call leaves
// the store untouched.
package store

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/homebarber/internal/audit"
	"github.com/BruksfildServices01/homebarber/internal/metrics"
	"github.com/BruksfildServices01/homebarber/internal/timezone"
)

const defaultTimeout = 10 * time.Second

// Options are shared by all stores. Zero values get usable defaults.
type Options struct {
	Log     zerolog.Logger
	Metrics metrics.Recorder
	Audit   *audit.Dispatcher
	Clock   timezone.Clock
	// Timeout bounds every backend call.
	Timeout time.Duration
}

func (o Options) normalize() Options {
	if o.Metrics == nil {
		o.Metrics = metrics.Nop{}
	}
	if o.Clock == nil {
		o.Clock = timezone.Now
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return o
}

// backend runs fn under the request timeout and records its latency.
func (o Options) backend(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, o.Timeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	o.Metrics.ObserveBackend(op, time.Since(start))
	return err
}

func outcome(err error) string {
	if err != nil {
		return metrics.OutcomeFailed
	}
	return metrics.OutcomeOK
}
