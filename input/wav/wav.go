// Package wav plays a PCM wav file as if it were a capture device.
package wav

import (
	"context"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/noriah/vmatrix/input"
	"github.com/noriah/vmatrix/input/common/pacer"
	"github.com/pkg/errors"
)

func init() {
	input.RegisterBackend("wav", Backend{})
}

// Backend opens wav files named as the device.
type Backend struct{}

func (b Backend) Init() error {
	return nil
}

func (b Backend) Close() error {
	return nil
}

// Devices is empty, any file path is a device.
func (b Backend) Devices() ([]input.Device, error) {
	return nil, nil
}

func (b Backend) DefaultDevice() (input.Device, error) {
	return nil, errors.New("the wav backend needs a file path as the device")
}

// ParseDevice accepts any path.
func (b Backend) ParseDevice(name string) (input.Device, error) {
	return File(name), nil
}

func (b Backend) Start(ctx context.Context, cfg input.SessionConfig) (input.Session, error) {
	dv, ok := cfg.Device.(File)
	if !ok {
		return nil, errors.Errorf("invalid device type %T", cfg.Device)
	}

	f, err := os.Open(string(dv))
	if err != nil {
		return nil, errors.Wrap(err, "failed to open wav file")
	}

	s, err := NewSession(ctx, f, cfg)
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, string(dv))
	}

	s.closer = f

	return s, nil
}

// File is the path of a wav file.
type File string

func (d File) String() string {
	return string(d)
}

// Session decodes blocks from a wav stream.
type Session struct {
	ctx    context.Context
	cfg    input.SessionConfig
	dec    *wav.Decoder
	buf    *audio.IntBuffer
	pacer  *pacer.Pacer
	closer io.Closer

	channels int // channels in the file
	bitDepth int
	done     bool
}

// NewSession checks that r is a PCM wav at cfg's sample rate and positions
// it at the first sample.
func NewSession(ctx context.Context, r io.ReadSeeker, cfg input.SessionConfig) (*Session, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, errors.New("invalid wav file")
	}

	// FwdToPCM positions the reader at the start of PCM data
	if err := dec.FwdToPCM(); err != nil {
		return nil, errors.Wrap(err, "failed to find pcm data")
	}

	if float64(dec.SampleRate) != cfg.SampleRate {
		return nil, errors.Errorf("wav sample rate %d does not match %.0f",
			dec.SampleRate, cfg.SampleRate)
	}

	channels := int(dec.NumChans)
	bitDepth := int(dec.BitDepth)

	switch {
	case channels < 1:
		return nil, errors.New("wav file has no channels")
	case bitDepth != 8 && bitDepth != 16 && bitDepth != 24 && bitDepth != 32:
		return nil, errors.Errorf("unsupported wav bit depth %d", bitDepth)
	}

	return &Session{
		ctx: ctx,
		cfg: cfg,
		dec: dec,
		buf: &audio.IntBuffer{
			Format:         dec.Format(),
			Data:           make([]int, cfg.SampleSize*channels),
			SourceBitDepth: bitDepth,
		},
		pacer:    pacer.New(cfg),
		channels: channels,
		bitDepth: bitDepth,
	}, nil
}

// ReadBlock decodes the next block. The last block of a file is padded with
// silence, the call after it returns io.EOF.
func (s *Session) ReadBlock(dst []int16) error {
	if !input.EnsureBufferLen(s.cfg, dst) {
		return errors.New("invalid dst length given")
	}

	if s.done {
		return io.EOF
	}

	n, err := s.dec.PCMBuffer(s.buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return errors.Wrap(err, "failed to decode wav")
	}

	frames := n / s.channels
	if frames == 0 {
		s.done = true
		return io.EOF
	}

	if frames < s.cfg.SampleSize {
		s.done = true
	}

	s.convert(dst, frames)

	return s.pacer.Wait(s.ctx)
}

// convert writes frames of the file into dst, remapping channels by
// averaging when the counts differ, and zero fills the rest of dst.
func (s *Session) convert(dst []int16, frames int) {
	out := s.cfg.FrameSize
	data := s.buf.Data

	for f := 0; f < frames; f++ {
		src := data[f*s.channels : (f+1)*s.channels]
		frame := dst[f*out : (f+1)*out]

		if s.channels == out {
			for c, v := range src {
				frame[c] = s.to16(v)
			}
			continue
		}

		sum := 0
		for _, v := range src {
			sum += int(s.to16(v))
		}

		mean := int16(sum / s.channels)
		for c := range frame {
			frame[c] = mean
		}
	}

	clear(dst[frames*out:])
}

func (s *Session) to16(v int) int16 {
	switch s.bitDepth {
	case 8:
		// 8 bit wav is unsigned
		return int16((v - 128) << 8)
	case 16:
		return int16(v)
	}
	return int16(v >> (s.bitDepth - 16))
}

func (s *Session) Close() error {
	s.pacer.Stop()

	if s.closer != nil {
		return s.closer.Close()
	}

	return nil
}
