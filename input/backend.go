package input

import (
	"os/exec"
	"runtime"

	"github.com/pkg/errors"
)

type NamedBackend struct {
	Name string
	Backend
}

var Backends []NamedBackend

// RegisterBackend registers a backend globally. This function is not
// thread-safe, and most packages should call it on init().
func RegisterBackend(name string, b Backend) {
	Backends = append(Backends, NamedBackend{
		Name:    name,
		Backend: b,
	})
}

// Get all installed backend names.
func GetAllBackendNames() []string {
	out := make([]string, len(Backends))
	for i, backend := range Backends {
		out[i] = backend.Name
	}
	return out
}

// DefaultBackend picks the first capture tool found on this system.
func DefaultBackend() string {
	if runtime.GOOS == "linux" {
		if path, _ := exec.LookPath("pw-cat"); path != "" && HasBackend("pipewire") {
			return "pipewire"
		}

		if path, _ := exec.LookPath("parec"); path != "" && HasBackend("parec") {
			return "parec"
		}

		if path, _ := exec.LookPath("ffmpeg"); path != "" && HasBackend("ffmpeg-alsa") {
			return "ffmpeg-alsa"
		}
	}

	if HasBackend("portaudio") {
		return "portaudio"
	}

	return "sine"
}

// FindBackend is a helper function that finds a backend. It returns nil if the
// backend is not found. The registered value is returned as is, so optional
// interfaces such as DeviceParser stay visible to callers.
func FindBackend(name string) Backend {
	for _, backend := range Backends {
		if backend.Name == name {
			return backend.Backend
		}
	}
	return nil
}

func HasBackend(name string) bool {
	return FindBackend(name) != nil
}

func InitBackend(bknd string) (Backend, error) {
	backend := FindBackend(bknd)
	if backend == nil {
		return nil, errors.Errorf("backend not found: %q; check list-backends", bknd)
	}

	if err := backend.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize input backend")
	}

	return backend, nil
}

// DeviceParser is implemented by backends whose devices are named freely,
// like a file path, rather than picked from a list.
type DeviceParser interface {
	ParseDevice(name string) (Device, error)
}

func GetDevice(backend Backend, device string) (Device, error) {
	if p, ok := backend.(DeviceParser); ok && device != "" {
		return p.ParseDevice(device)
	}

	if device == "" {
		def, err := backend.DefaultDevice()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get default device")
		}
		return def, nil
	}

	devices, err := backend.Devices()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get devices")
	}

	for idx := range devices {
		if devices[idx].String() == device {
			return devices[idx], nil
		}
	}

	return nil, errors.Errorf("device %q not found; check list-devices", device)
}
