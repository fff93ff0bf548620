// Package pacer holds sources that have no clock of their own, like files and
// generators, to the rate a real device would deliver blocks at.
package pacer

import (
	"context"
	"time"

	"github.com/noriah/vmatrix/input"
)

// Pacer ticks once per block.
type Pacer struct {
	period time.Duration
	ticker *time.Ticker
}

// Period is the real time one block of cfg covers.
func Period(cfg input.SessionConfig) time.Duration {
	if cfg.SampleRate <= 0 || cfg.SampleSize <= 0 {
		return 0
	}

	// Calculate the theoretical tick duration to satisfy the requested sampling
	// rate without falling behind.
	return time.Duration(float64(cfg.SampleSize) / cfg.SampleRate * float64(time.Second))
}

// New returns a pacer for cfg. An unpaced config never waits.
func New(cfg input.SessionConfig) *Pacer {
	p := &Pacer{}

	if cfg.Unpaced {
		return p
	}

	if p.period = Period(cfg); p.period > 0 {
		p.ticker = time.NewTicker(p.period)
	}

	return p
}

// Wait blocks until the next block is due or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil || p.ticker == nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ticker.C:
		return nil
	}
}

// Stop releases the ticker.
func (p *Pacer) Stop() {
	if p.ticker != nil {
		p.ticker.Stop()
	}
}
