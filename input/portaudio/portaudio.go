//go:build portaudio

// Package portaudio captures from a PortAudio input device. It needs cgo and
// the portaudio library, so it is only built with the portaudio tag.
package portaudio

import (
	"context"
	"strconv"
	"strings"

	"github.com/gordonklaus/portaudio"
	"github.com/noriah/vmatrix/input"
	"github.com/pkg/errors"
)

var GlobalBackend = &Backend{}

func init() {
	input.RegisterBackend("portaudio", GlobalBackend)
}

// ErrBadDevice is returned when a device name matches nothing.
var ErrBadDevice = errors.New("device not found")

// Backend represents the Portaudio backend. A zero-value instance is a
// valid instance.
type Backend struct {
	devices []*portaudio.DeviceInfo
}

func (b *Backend) Init() error {
	return errors.Wrap(portaudio.Initialize(), "failed to initialize portaudio")
}

func (b *Backend) Close() error {
	return errors.Wrap(portaudio.Terminate(), "failed to terminate portaudio")
}

func (b *Backend) inputs() ([]*portaudio.DeviceInfo, error) {
	if b.devices == nil {
		devices, err := portaudio.Devices()
		if err != nil {
			return nil, errors.Wrap(err, "failed to list devices")
		}

		for _, dv := range devices {
			if dv.MaxInputChannels > 0 {
				b.devices = append(b.devices, dv)
			}
		}
	}

	return b.devices, nil
}

func (b *Backend) Devices() ([]input.Device, error) {
	devices, err := b.inputs()
	if err != nil {
		return nil, err
	}

	gDevices := make([]input.Device, len(devices))
	for i, device := range devices {
		gDevices[i] = Device{device}
	}

	return gDevices, nil
}

func (b *Backend) DefaultDevice() (input.Device, error) {
	dv, err := portaudio.DefaultInputDevice()
	if err != nil {
		return nil, errors.Wrap(err, "no default input device found")
	}

	return Device{dv}, nil
}

// ParseDevice accepts a device index or a case-insensitive name prefix.
func (b *Backend) ParseDevice(name string) (input.Device, error) {
	devices, err := b.inputs()
	if err != nil {
		return nil, err
	}

	if idx, err := strconv.Atoi(name); err == nil {
		if idx < 0 || idx >= len(devices) {
			return nil, errors.Wrapf(ErrBadDevice, "index %d", idx)
		}
		return Device{devices[idx]}, nil
	}

	for _, dv := range devices {
		if strings.HasPrefix(strings.ToLower(dv.Name), strings.ToLower(name)) {
			return Device{dv}, nil
		}
	}

	return nil, errors.Wrapf(ErrBadDevice, "%q", name)
}

func (b *Backend) Start(ctx context.Context, cfg input.SessionConfig) (input.Session, error) {
	s, err := NewSession(cfg)
	if err != nil {
		return nil, err
	}

	if err := s.stream.Start(); err != nil {
		s.stream.Close()
		return nil, errors.Wrap(err, "failed to start stream")
	}

	return s, nil
}

// Device represents a Portaudio device.
type Device struct {
	*portaudio.DeviceInfo
}

// String returns the device name.
func (d Device) String() string {
	return d.Name
}

// Session is an input source that pulls from Portaudio.
type Session struct {
	stream *portaudio.Stream
	config input.SessionConfig
	buffer []int16 // interleaved, handed to portaudio once at open
}

// NewSession opens a blocking stream on the configured device.
func NewSession(config input.SessionConfig) (*Session, error) {
	dv, ok := config.Device.(Device)
	if !ok {
		return nil, errors.Errorf("device is on unknown type %T", config.Device)
	}

	param := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   dv.DeviceInfo,
			Latency:  dv.DefaultLowInputLatency,
			Channels: config.FrameSize,
		},
		SampleRate:      config.SampleRate,
		FramesPerBuffer: config.SampleSize,
	}

	buffer := make([]int16, config.BlockLen())

	stream, err := portaudio.OpenStream(param, buffer)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open stream")
	}

	return &Session{
		stream: stream,
		config: config,
		buffer: buffer,
	}, nil
}

// ReadBlock blocks until portaudio has a full block and copies it into dst.
// An input overflow only means samples were dropped, so it is not an error.
func (s *Session) ReadBlock(dst []int16) error {
	if !input.EnsureBufferLen(s.config, dst) {
		return errors.Errorf("block needs %d samples, got %d", s.config.BlockLen(), len(dst))
	}

	err := s.stream.Read()
	if err != nil && err != portaudio.InputOverflowed {
		return errors.Wrap(err, "failed to read stream")
	}

	copy(dst, s.buffer)

	return nil
}

// Close stops the stream and frees the device.
func (s *Session) Close() error {
	err := s.stream.Stop()
	s.stream.Close()
	return errors.Wrap(err, "failed to stop stream")
}
