package render

import (
	"github.com/pkg/errors"
)

type modeEntry struct {
	// size is how many binned amplitudes the mode consumes per frame.
	size func(cfg Config) int
	// build allocates the renderer and records its state in st.
	build func(cfg Config, st *State) (Renderer, error)
}

// modes is the closed set of render variants. Adding a mode is one entry.
var modes = map[Mode]modeEntry{
	ModeHistogram: {
		size: columns,
		build: func(cfg Config, st *State) (Renderer, error) {
			return newHistogram(cfg, st, false)
		},
	},
	ModeEnvelope: {
		size: columns,
		build: func(cfg Config, st *State) (Renderer, error) {
			return newHistogram(cfg, st, true)
		},
	},
	ModeSpectrogram: {
		size:  rows,
		build: newSpectrogram,
	},
}

func columns(cfg Config) int { return cfg.Width }

func rows(cfg Config) int { return cfg.Height }

// Dispatcher routes each frame to the renderer of the configured mode.
type Dispatcher struct {
	mode     Mode
	size     int
	state    *State
	renderer Renderer
}

// NewDispatcher validates cfg and allocates the renderer and its state.
func NewDispatcher(cfg Config) (*Dispatcher, error) {
	entry, ok := modes[cfg.Mode]
	if !ok {
		return nil, errors.Errorf("unknown render mode %d", cfg.Mode)
	}

	switch {
	case cfg.Width < 1 || cfg.Height < 1:
		return nil, errors.Errorf("invalid panel size %dx%d", cfg.Width, cfg.Height)
	case cfg.Mode == ModeSpectrogram && !(cfg.AmpCap > 0):
		return nil, errors.Errorf("amplitude cap must be positive (%g)", cfg.AmpCap)
	case cfg.Mode == ModeSpectrogram && !(cfg.ColorMax > cfg.ColorMin):
		return nil, errors.Errorf("color range [%g, %g] is empty", cfg.ColorMin, cfg.ColorMax)
	}

	st := &State{}

	r, err := entry.build(cfg, st)
	if err != nil {
		return nil, errors.Wrapf(err, "%s renderer", cfg.Mode)
	}

	return &Dispatcher{
		mode:     cfg.Mode,
		size:     entry.size(cfg),
		state:    st,
		renderer: r,
	}, nil
}

// Size is the number of binned amplitudes Dispatch expects.
func (d *Dispatcher) Size() int {
	return d.size
}

// Mode is the mode fixed at construction.
func (d *Dispatcher) Mode() Mode {
	return d.mode
}

// State exposes the per-column state owned by the renderer.
func (d *Dispatcher) State() *State {
	return d.state
}

// Dispatch draws one frame. Its only effect is the SetPixel calls on c.
func (d *Dispatcher) Dispatch(c Canvas, values []float64) {
	d.renderer.Render(c, values)
}

// SizeFor reports how many binned amplitudes mode consumes on a panel.
func SizeFor(mode Mode, width, height int) (int, error) {
	entry, ok := modes[mode]
	if !ok {
		return 0, errors.Errorf("unknown render mode %d", mode)
	}
	return entry.size(Config{Width: width, Height: height}), nil
}
