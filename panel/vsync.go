package panel

import (
	"context"
	"time"
)

// VSync emulates a panel refresh signal with a ticker. A zero rate never
// blocks.
type VSync struct {
	ticker *time.Ticker
}

// NewVSync returns a refresh signal ticking hz times per second.
func NewVSync(hz float64) *VSync {
	if hz <= 0 {
		return &VSync{}
	}

	period := time.Duration(float64(time.Second) / hz)
	if period <= 0 {
		return &VSync{}
	}

	return &VSync{ticker: time.NewTicker(period)}
}

// Wait blocks until the next tick or until ctx is done.
func (v *VSync) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil || v.ticker == nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-v.ticker.C:
		return nil
	}
}

// Stop releases the ticker.
func (v *VSync) Stop() {
	if v.ticker != nil {
		v.ticker.Stop()
	}
}
