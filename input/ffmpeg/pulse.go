package ffmpeg

import (
	"context"

	"github.com/noriah/vmatrix/input"
	"github.com/noriah/vmatrix/input/parec"
	"github.com/pkg/errors"
)

func init() {
	input.RegisterBackend("ffmpeg-pulse", Pulse{})
}

// Pulse is the pulse input for FFmpeg. It lists devices the way parec does.
type Pulse struct {
	parec.Backend
}

func (p Pulse) Start(ctx context.Context, cfg input.SessionConfig) (input.Session, error) {
	dv, ok := cfg.Device.(parec.PulseDevice)
	if !ok {
		return nil, errors.Errorf("invalid device type %T", cfg.Device)
	}

	return startSession(ctx, dv, cfg)
}
