// Package pipewire captures through the pw-cat recorder.
package pipewire

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync/atomic"

	"github.com/noriah/vmatrix/input"
	"github.com/noriah/vmatrix/input/common/execread"
	"github.com/pkg/errors"
)

func init() {
	input.RegisterBackend("pipewire", Backend{})
}

type Backend struct{}

func (p Backend) Init() error {
	return nil
}

func (p Backend) Close() error {
	return nil
}

func (p Backend) Devices() ([]input.Device, error) {
	pwObjs, err := pwDump(context.Background())
	if err != nil {
		return nil, err
	}

	sources := pwObjs.Sources()

	devices := make([]input.Device, len(sources))
	for i, device := range sources {
		devices[i] = AudioDevice{device.Info.Props.NodeName}
	}

	return devices, nil
}

func (p Backend) DefaultDevice() (input.Device, error) {
	return AudioDevice{"auto"}, nil
}

func (p Backend) Start(ctx context.Context, cfg input.SessionConfig) (input.Session, error) {
	rawArg, err := checkNeedRawArg()
	if err != nil {
		return nil, errors.Wrap(err, "failed to check need of pipewire '--raw' arg")
	}

	s, err := NewSession(cfg, rawArg)
	if err != nil {
		return nil, err
	}

	if err := s.Start(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

// AudioDevice is a PipeWire node name. "auto" lets the session manager pick.
type AudioDevice struct {
	name string
}

func (d AudioDevice) String() string {
	return d.name
}

type vmatrixProps struct {
	ApplicationName string `json:"application.name"`
	SessionID       string `json:"vmatrix.id"`
}

// NewSession builds a pw-cat recording session. rawArg adds --raw, which
// pw-cat 1.4.0 and later need to write to stdout.
func NewSession(cfg input.SessionConfig, rawArg bool) (*execread.Session, error) {
	dv, ok := cfg.Device.(AudioDevice)
	if !ok {
		return nil, errors.Errorf("invalid device type %T", cfg.Device)
	}

	propsJSON, err := json.Marshal(vmatrixProps{
		ApplicationName: "vmatrix",
		SessionID:       generateID(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal props")
	}

	args := []string{
		"pw-cat",
		"--record",
		"--format", "s16",
		"--rate", fmt.Sprint(cfg.SampleRate),
		"--latency", fmt.Sprint(cfg.SampleSize),
		"--channels", fmt.Sprint(cfg.FrameSize),
		"--target", dv.name,
		"--media-category", "Capture",
		"--media-role", "DSP",
		"--properties", string(propsJSON),
	}

	if rawArg {
		args = append(args, "--raw")
	}

	// output to STDOUT
	args = append(args, "-")

	return execread.NewSession(args, cfg)
}

var sessionCounter uint64

// generateID generates a unique ID for this session.
func generateID() string {
	return fmt.Sprintf("%d#%d", os.Getpid(), atomic.AddUint64(&sessionCounter, 1))
}

func checkNeedRawArg() (bool, error) {
	out, err := exec.Command("pw-cat", "--help").Output()
	if err != nil {
		return false, err
	}

	return helpHasRaw(string(out)), nil
}

func helpHasRaw(help string) bool {
	for _, line := range strings.Split(help, "\n") {
		if strings.Contains(line, "--raw") {
			return true
		}
	}
	return false
}
