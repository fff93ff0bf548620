// Package parec captures from PulseAudio through the parec recorder.
package parec

import (
	"context"
	"fmt"

	"github.com/lawl/pulseaudio"
	"github.com/noriah/vmatrix/input"
	"github.com/noriah/vmatrix/input/common/execread"
	"github.com/pkg/errors"
)

func init() {
	input.RegisterBackend("parec", Backend{})
}

type Backend struct{}

func (p Backend) Init() error {
	return nil
}

func (p Backend) Close() error {
	return nil
}

// Devices lists the PulseAudio sources, monitors included.
func (p Backend) Devices() ([]input.Device, error) {
	c, err := pulseaudio.NewClient()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create client")
	}
	defer c.Close()

	s, err := c.Sources()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sources")
	}

	var devices = make([]input.Device, len(s))
	for i, source := range s {
		devices[i] = PulseDevice(source.Name)
	}

	return devices, nil
}

func (p Backend) DefaultDevice() (input.Device, error) {
	return PulseDevice("default"), nil
}

func (p Backend) Start(ctx context.Context, cfg input.SessionConfig) (input.Session, error) {
	s, err := NewSession(cfg)
	if err != nil {
		return nil, err
	}

	if err := s.Start(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

// PulseDevice is a PulseAudio source name.
type PulseDevice string

func (d PulseDevice) InputArgs() []string {
	return []string{"-f", "pulse", "-i", string(d)}
}

func (d PulseDevice) String() string {
	return string(d)
}

// Argv is the parec command line recording cfg.
func Argv(dv PulseDevice, cfg input.SessionConfig) []string {
	return []string{
		"parec",
		"--format=s16le",
		"--raw",
		fmt.Sprintf("--rate=%.0f", cfg.SampleRate),
		fmt.Sprintf("--channels=%d", cfg.FrameSize),
		// one block of latency keeps the panel close to the sound
		fmt.Sprintf("--latency=%d", cfg.BlockLen()*2),
		"-d", dv.String(),
	}
}

func NewSession(cfg input.SessionConfig) (*execread.Session, error) {
	dv, ok := cfg.Device.(PulseDevice)
	if !ok {
		return nil, errors.Errorf("invalid device type %T", cfg.Device)
	}

	if cfg.FrameSize < 1 || cfg.FrameSize > 2 {
		return nil, errors.New("channel count not supported, mono/stereo only")
	}

	return execread.NewSession(Argv(dv, cfg), cfg)
}
