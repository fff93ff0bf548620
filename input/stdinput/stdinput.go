// Package stdinput reads audio piped into standard input, either as raw
// signed 16-bit little endian samples or as one decimal sample per line.
package stdinput

import (
	"bufio"
	"context"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/noriah/vmatrix/input"
	"github.com/noriah/vmatrix/input/common/pacer"
	"github.com/pkg/errors"
)

func init() {
	input.RegisterBackend("stdin", StdinBackend{})
}

type StdinBackend struct{}

func (b StdinBackend) Init() error {
	return nil
}

func (b StdinBackend) Close() error {
	return nil
}

func (b StdinBackend) Devices() ([]input.Device, error) {
	return []input.Device{Raw, Lines}, nil
}

func (b StdinBackend) DefaultDevice() (input.Device, error) {
	return Raw, nil
}

func (b StdinBackend) Start(ctx context.Context, cfg input.SessionConfig) (input.Session, error) {
	dv, ok := cfg.Device.(StdInputDevice)
	if !ok {
		return nil, errors.Errorf("invalid device type %T", cfg.Device)
	}

	return NewSession(ctx, os.Stdin, dv, cfg), nil
}

// StdInputDevice selects how standard input is decoded.
type StdInputDevice string

const (
	// Raw is little endian int16 frames.
	Raw StdInputDevice = "stdin"
	// Lines is one decimal sample per line, as cmd/generator prints.
	Lines StdInputDevice = "stdin-lines"
)

func (d StdInputDevice) String() string {
	return string(d)
}

// Session reads blocks from a stream.
type Session struct {
	ctx   context.Context
	cfg   input.SessionConfig
	dv    StdInputDevice
	r     *bufio.Reader
	raw   []byte
	pacer *pacer.Pacer
}

// NewSession reads blocks of cfg from r. Line input is paced to the sample
// rate since a generator can write far faster than real time.
func NewSession(ctx context.Context, r io.Reader, dv StdInputDevice, cfg input.SessionConfig) *Session {
	s := &Session{
		ctx: ctx,
		cfg: cfg,
		dv:  dv,
		r:   bufio.NewReader(r),
		raw: make([]byte, cfg.BlockLen()*2),
	}

	if dv == Lines {
		s.pacer = pacer.New(cfg)
	} else {
		s.pacer = pacer.New(input.SessionConfig{Unpaced: true})
	}

	return s
}

func (s *Session) ReadBlock(dst []int16) error {
	if !input.EnsureBufferLen(s.cfg, dst) {
		return errors.New("invalid dst length given")
	}

	if s.dv != Lines {
		return input.ReadS16LE(s.r, dst, s.raw)
	}

	if err := s.readLines(dst); err != nil {
		return err
	}

	return s.pacer.Wait(s.ctx)
}

func (s *Session) readLines(dst []int16) error {
	for n := range dst {
		line, err := s.r.ReadString('\n')

		if err == io.EOF && line != "" {
			// last line without a newline
			err = nil
		}

		if err != nil {
			if err == io.EOF && n > 0 {
				return io.ErrUnexpectedEOF
			}
			return err
		}

		v, err := parseSample(line)
		if err != nil {
			return err
		}

		dst[n] = v
	}

	return nil
}

// parseSample reads a decimal sample, saturating to the int16 range.
func parseSample(line string) (int16, error) {
	line = strings.TrimSpace(line)

	v, err := strconv.ParseFloat(line, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid sample %q", line)
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.Errorf("sample %q is not a finite number", line)
	}

	switch {
	case v > 32767:
		return 32767, nil
	case v < -32768:
		return -32768, nil
	}

	return int16(v), nil
}

func (s *Session) Close() error {
	s.pacer.Stop()
	return nil
}
