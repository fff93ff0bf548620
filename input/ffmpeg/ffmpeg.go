// Package ffmpeg captures through an ffmpeg process reading an ALSA or
// PulseAudio input.
package ffmpeg

import (
	"context"
	"fmt"

	"github.com/noriah/vmatrix/input"
	"github.com/noriah/vmatrix/input/common/execread"
)

type FFmpegBackend interface {
	InputArgs() []string
}

// Argv is the ffmpeg command line converting b to raw s16le on stdout.
func Argv(b FFmpegBackend, cfg input.SessionConfig) []string {
	args := []string{"ffmpeg", "-hide_banner", "-loglevel", "panic"}
	args = append(args, b.InputArgs()...)
	args = append(args,
		"-ar", fmt.Sprintf("%.0f", cfg.SampleRate),
		"-ac", fmt.Sprintf("%d", cfg.FrameSize),
		"-f", "s16le",
		"-",
	)
	return args
}

func NewSession(b FFmpegBackend, cfg input.SessionConfig) (*execread.Session, error) {
	return execread.NewSession(Argv(b, cfg), cfg)
}

func startSession(ctx context.Context, b FFmpegBackend, cfg input.SessionConfig) (input.Session, error) {
	s, err := NewSession(b, cfg)
	if err != nil {
		return nil, err
	}

	if err := s.Start(ctx); err != nil {
		return nil, err
	}

	return s, nil
}
