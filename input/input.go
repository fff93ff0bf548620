// Package input captures blocks of signed 16-bit audio.
//
// A Backend lists Devices and starts Sessions. A Session hands out one block
// of interleaved samples per ReadBlock call, blocking until the block is
// complete.
package input

import (
	"context"
	"encoding/binary"
	"io"
)

// Device is an input device.
type Device interface {
	String() string
}

// SessionConfig is the capture format of a session.
type SessionConfig struct {
	Device     Device
	FrameSize  int     // number of channels per frame
	SampleSize int     // number of frames per block (N)
	SampleRate float64 // frames per second

	// Unpaced lets file and synthetic sources deliver blocks as fast as they
	// are read instead of at the sample rate.
	Unpaced bool
}

// BlockLen is the number of interleaved samples in one block.
func (cfg SessionConfig) BlockLen() int {
	return cfg.SampleSize * cfg.FrameSize
}

// Session is a running capture.
type Session interface {
	// ReadBlock fills dst with exactly BlockLen interleaved samples. It
	// returns io.EOF when the source ends cleanly on a block boundary and
	// io.ErrUnexpectedEOF when it ends part way through a block.
	ReadBlock(dst []int16) error
	// Close stops the capture and releases the device.
	Close() error
}

// Backend is a source of sessions.
type Backend interface {
	// Init should do nothing if called more than once.
	Init() error
	Close() error

	Devices() ([]Device, error)
	DefaultDevice() (Device, error)
	Start(ctx context.Context, cfg SessionConfig) (Session, error)
}

// EnsureBufferLen reports whether dst holds exactly one block.
func EnsureBufferLen(cfg SessionConfig, dst []int16) bool {
	return len(dst) == cfg.BlockLen()
}

// MixDown averages each frame of interleaved src into one value of dst and
// returns it. dst is grown to len(src)/channels if needed.
func MixDown(dst []float64, src []int16, channels int) []float64 {
	if channels < 1 {
		channels = 1
	}

	n := len(src) / channels
	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]

	if channels == 1 {
		for i, s := range src[:n] {
			dst[i] = float64(s)
		}
		return dst
	}

	for i := range dst {
		sum := 0
		for _, s := range src[i*channels : (i+1)*channels] {
			sum += int(s)
		}
		dst[i] = float64(sum) / float64(channels)
	}

	return dst
}

// DecodeS16LE converts little endian byte pairs in raw into dst.
func DecodeS16LE(dst []int16, raw []byte) {
	for i := range dst {
		dst[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}
}

// ReadS16LE reads one block of little endian samples from r into dst, using
// raw (2 bytes per sample) as scratch space.
func ReadS16LE(r io.Reader, dst []int16, raw []byte) error {
	raw = raw[:len(dst)*2]

	if _, err := io.ReadFull(r, raw); err != nil {
		return err
	}

	DecodeS16LE(dst, raw)

	return nil
}
