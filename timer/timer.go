// Package timer is the simulation clock.
package timer

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

type Ticker struct {
	Interval time.Duration
}

func New(interval time.Duration) (*Ticker, error) {
	if interval <= 0 {
		return nil, errors.Errorf("tick interval must be positive, got %s", interval)
	}
	return &Ticker{Interval: interval}, nil
}

// Run calls tick once per interval until ctx is done. A slow tick delays the
// next one rather than piling up calls.
func (t *Ticker) Run(ctx context.Context, tick func()) error {
	ticker := time.NewTicker(t.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			tick()
		}
	}
}
