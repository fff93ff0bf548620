package ffmpeg

import (
	"bufio"
	"context"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/noriah/vmatrix/input"
	"github.com/pkg/errors"
)

func init() {
	input.RegisterBackend("ffmpeg-alsa", ALSA{})
}

type ALSA struct{}

func (p ALSA) Init() error {
	return nil
}

func (p ALSA) Close() error {
	return nil
}

// Devices lists the capture PCMs in /proc/asound/pcm.
func (p ALSA) Devices() ([]input.Device, error) {
	f, err := os.Open("/proc/asound/pcm")
	if err != nil {
		return nil, errors.Wrap(err, "failed to open pcm")
	}
	defer f.Close()

	return parsePCMList(f)
}

func parsePCMList(r io.Reader) ([]input.Device, error) {
	var devices []input.Device

	var scanner = bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, "capture") {
			continue
		}

		prefix := strings.SplitN(line, ":", 2)[0]

		d, err := ParseALSADevice(strings.TrimSpace(prefix))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse device %q", prefix)
		}

		devices = append(devices, d)
	}

	return devices, scanner.Err()
}

func (p ALSA) DefaultDevice() (input.Device, error) {
	return ALSADevice("default"), nil
}

func (p ALSA) Start(ctx context.Context, cfg input.SessionConfig) (input.Session, error) {
	dv, ok := cfg.Device.(ALSADevice)
	if !ok {
		return nil, errors.Errorf("invalid device type %T", cfg.Device)
	}

	return startSession(ctx, dv, cfg)
}

// ALSADevice is an ALSA PCM name such as hw:1,0.
type ALSADevice string

// ParseALSADevice parses the card-device prefix of a /proc/asound/pcm line,
// for example "01-00" into hw:1,0.
func ParseALSADevice(hwString string) (ALSADevice, error) {
	nparts := strings.Split(hwString, "-")

	if len(nparts) == 0 || len(nparts) > 2 {
		return "", errors.New("mismatch alsa format")
	}

	alsadv := "hw"

	for i, part := range nparts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return "", errors.Errorf("invalid alsa number %q", part)
		}

		switch i {
		case 0:
			alsadv += ":" + strconv.Itoa(n)
		case 1:
			alsadv += "," + strconv.Itoa(n)
		}
	}

	return ALSADevice(alsadv), nil
}

func (d ALSADevice) InputArgs() []string {
	return []string{"-f", "alsa", "-i", string(d)}
}

func (d ALSADevice) String() string {
	return string(d)
}
