// Package sine is a synthetic source for running without audio hardware.
package sine

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/noriah/vmatrix/input"
	"github.com/noriah/vmatrix/input/common/pacer"
	"github.com/pkg/errors"
)

const (
	// GeneratorRate is the rate the generator waveform was tuned for.
	GeneratorRate = 10000.0
	// Amplitude is the peak of each component.
	Amplitude = 10000.0
)

func init() {
	input.RegisterBackend("sine", Backend{})
}

// Generate is sample x of the test waveform, a slow sine plus a cosine ten
// times faster.
func Generate(x int64) int16 {
	zzz := math.Sin(float64(x) / GeneratorRate)
	yyy := math.Cos(float64(x) * 10 / GeneratorRate)
	return int16((zzz + yyy) * Amplitude)
}

type Backend struct{}

func (b Backend) Init() error {
	return nil
}

func (b Backend) Close() error {
	return nil
}

func (b Backend) Devices() ([]input.Device, error) {
	return []input.Device{Generator, Tone(440), Tone(1000)}, nil
}

func (b Backend) DefaultDevice() (input.Device, error) {
	return Generator, nil
}

// ParseDevice accepts "generator" or "tone:<hz>".
func (b Backend) ParseDevice(name string) (input.Device, error) {
	if name == Generator.String() {
		return Generator, nil
	}

	hz, ok := strings.CutPrefix(name, "tone:")
	if !ok {
		return nil, errors.Errorf("unknown sine device %q (generator, tone:<hz>)", name)
	}

	f, err := strconv.ParseFloat(hz, 64)
	if err != nil || f <= 0 {
		return nil, errors.Errorf("invalid tone frequency %q", hz)
	}

	return Tone(f), nil
}

func (b Backend) Start(ctx context.Context, cfg input.SessionConfig) (input.Session, error) {
	switch cfg.Device.(type) {
	case generator, Tone:
	default:
		return nil, errors.Errorf("invalid device type %T", cfg.Device)
	}

	return NewSession(ctx, cfg), nil
}

type generator struct{}

func (generator) String() string { return "generator" }

// Generator is the two component test waveform.
var Generator input.Device = generator{}

// Tone is a pure sine at a frequency in Hz.
type Tone float64

func (t Tone) String() string {
	return "tone:" + strconv.FormatFloat(float64(t), 'f', -1, 64)
}

// Session generates blocks on demand.
type Session struct {
	ctx   context.Context
	cfg   input.SessionConfig
	pacer *pacer.Pacer
	x     int64
}

func NewSession(ctx context.Context, cfg input.SessionConfig) *Session {
	return &Session{
		ctx:   ctx,
		cfg:   cfg,
		pacer: pacer.New(cfg),
	}
}

func (s *Session) sample() int16 {
	if t, ok := s.cfg.Device.(Tone); ok {
		return int16(Amplitude * math.Sin(2*math.Pi*float64(t)*float64(s.x)/s.cfg.SampleRate))
	}
	return Generate(s.x)
}

func (s *Session) ReadBlock(dst []int16) error {
	if !input.EnsureBufferLen(s.cfg, dst) {
		return errors.New("invalid dst length given")
	}

	ch := s.cfg.FrameSize

	for f := 0; f < s.cfg.SampleSize; f++ {
		v := s.sample()
		s.x++

		for c := 0; c < ch; c++ {
			dst[f*ch+c] = v
		}
	}

	return s.pacer.Wait(s.ctx)
}

func (s *Session) Close() error {
	s.pacer.Stop()
	return nil
}
