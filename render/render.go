// Package render draws binned amplitudes onto a pixel canvas.
//
// One Dispatcher is built at startup for the configured Mode. It owns every
// piece of per-column state in a State and, each frame, hands the binned
// amplitudes to exactly one renderer.
package render

import (
	"strings"

	"github.com/noriah/vmatrix/dsp"
	"github.com/noriah/vmatrix/palette"
	"github.com/pkg/errors"
)

// Canvas is the write side of a panel back buffer.
type Canvas interface {
	// SetPixel lights (x, y). The last write to a coordinate in a frame wins.
	SetPixel(x, y int, c palette.RGB)
}

// Mode is the type
type Mode int

// Render Modes
const (
	// ModeHistogram draws smoothed bars.
	ModeHistogram Mode = iota
	// ModeEnvelope draws smoothed bars with a falling peak marker.
	ModeEnvelope
	// ModeSpectrogram draws a scrolling time/frequency heat map.
	ModeSpectrogram
)

var modeNames = map[Mode]string{
	ModeHistogram:   "histogram",
	ModeEnvelope:    "envelope",
	ModeSpectrogram: "spectrogram",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

// ParseMode looks up a mode by name.
func ParseMode(name string) (Mode, error) {
	for m, n := range modeNames {
		if strings.EqualFold(n, name) {
			return m, nil
		}
	}
	return ModeHistogram, errors.Errorf("unknown render mode %q (%s)", name, strings.Join(ModeNames(), ", "))
}

// ModeNames lists every mode in declaration order.
func ModeNames() []string {
	names := make([]string, 0, len(modeNames))
	for m := Mode(0); int(m) < len(modeNames); m++ {
		names = append(names, modeNames[m])
	}
	return names
}

// Config is everything the renderers need, fixed at startup.
type Config struct {
	Mode           Mode
	Width          int                // panel columns
	Height         int                // panel rows
	Fill           bool               // fill bars down to the bottom row
	SuppressBottom bool               // rest one row below the panel so silence draws nothing
	FallDelay      int                // frames per envelope row of decay
	Smoothing      dsp.SmootherConfig // Columns and Rest are filled in here
	Stops          palette.Stops      // spectrogram gradient
	Accent         palette.RGB        // envelope marker color
	AmpCap         float64            // spectrogram saturation ceiling
	ColorMin       float64            // spectrogram value mapped to the first stop
	ColorMax       float64            // spectrogram value mapped to the last stop
}

// State is all per-column state carried from one frame to the next. Fields a
// mode does not use are nil.
type State struct {
	Smoother dsp.Smoother
	Envelope *dsp.Envelope
	History  *dsp.History
}

// Renderer draws one frame of binned amplitudes.
type Renderer interface {
	Render(c Canvas, values []float64)
}
