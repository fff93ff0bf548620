package vmatrix

import (
	"github.com/noriah/vmatrix/dsp"
	"github.com/noriah/vmatrix/dsp/window"
	"github.com/noriah/vmatrix/palette"
	"github.com/noriah/vmatrix/panel"
	"github.com/noriah/vmatrix/render"
	"github.com/pkg/errors"
)

// MaxChannelCount is the largest number of interleaved channels a block may
// carry. They are averaged into one before the transform.
const MaxChannelCount = 2

type Config struct {
	// The name of the backend from the input package
	Backend string
	// The name of the device to pull data from
	Device string
	// The rate that samples are read
	SampleRate float64
	// The number of samples per block (N)
	SampleSize int
	// The number of channels to read data from
	ChannelCount int
	// Deliver file and synthetic blocks as fast as they can be drawn
	Unpaced bool

	// The name of the panel from the panel package
	Panel string
	// Display overrides Panel with an already opened display
	Display panel.Display
	// Panel columns and rows
	Width  int
	Height int
	// Panel refresh rate in Hz, 0 swaps as soon as a frame is drawn
	Refresh float64
	// Listen address for network panels
	Listen string

	// Which renderer draws each frame
	Mode render.Mode
	// Draw bars down to the bottom row
	Fill bool
	// Rest silent columns below the panel
	SuppressBottom bool
	// Frames per row of envelope decay
	FallDelay int
	// Temporal smoothing of bar rows
	Smoothing dsp.SmootherConfig

	// Spectrum bins per column and leading columns skipped (group spacing)
	GroupWidth int
	SkipOffset int
	// Multiplier for every column, 0 derives it from the sample rate
	Scale float64
	// How spectrum bins are spread over columns
	Spacing dsp.Spacing
	// Upper frequency for linear and log spacing
	MaxFreq float64
	// How a column folds its bins, nil averages
	BinMethod dsp.BinMethod
	// Spread each column onto its neighbours, <= 1 disables
	Monstercat float64
	// How complex bins become magnitudes
	Magnitude dsp.MagnitudeMethod
	// Method to run on data before running fft
	Windower window.Function

	// Spectrogram gradient, saturation ceiling and color range
	Stops    palette.Stops
	AmpCap   float64
	ColorMin float64
	ColorMax float64
	// Envelope marker color
	Accent palette.RGB

	// Stop after this many frames, 0 runs until cancelled or the input ends
	Frames int
	// Log a startup summary and frame timings
	Verbose bool
}

// NewZeroConfig returns the default config: a 64x32 panel fed stereo blocks
// of 1600 frames at 44.1kHz.
func NewZeroConfig() Config {
	return Config{
		Backend:      "sine",
		SampleRate:   44100,
		SampleSize:   1600,
		ChannelCount: 2,
		Panel:        "headless",
		Width:        64,
		Height:       32,
		Refresh:      100,
		Mode:         render.ModeEnvelope,
		Fill:         true,
		FallDelay:    1,
		Smoothing: dsp.SmootherConfig{
			Kind:      dsp.SmoothWeighted,
			OldWeight: 0.3,
			NewWeight: 0.7,
			Frequency: 6.0,
			Damping:   1.0,
		},
		GroupWidth: 4,
		SkipOffset: 1,
		Spacing:    dsp.SpacingGroup,
		MaxFreq:    dsp.DefaultMaxFreq,
		Magnitude:  dsp.Hypot,
		Stops:      palette.DefaultStops,
		AmpCap:     32,
		ColorMin:   0,
		ColorMax:   32,
		Accent:     palette.White,
	}
}

// Validate rejects every configuration error the frame loop could trip over.
// Bins that exceed the spectrum are caught when the binner is built.
func (cfg *Config) Validate() error {
	if cfg.SampleRate < float64(cfg.SampleSize) {
		return errors.New("sample rate lower than sample size")
	}

	switch {
	case cfg.SampleSize < 4:
		return errors.New("sample size too small (4+ required)")

	case cfg.SampleSize%2 != 0:
		return errors.Errorf("sample size must be even (%d)", cfg.SampleSize)

	case cfg.ChannelCount > MaxChannelCount:
		return errors.Errorf("too many channels (%d max)", MaxChannelCount)

	case cfg.ChannelCount < 1:
		return errors.New("too few channels (1 min)")

	case cfg.Width < 1 || cfg.Height < 1:
		return errors.Errorf("invalid panel size %dx%d", cfg.Width, cfg.Height)

	case cfg.Refresh < 0:
		return errors.Errorf("refresh rate must not be negative (%g)", cfg.Refresh)
	}

	if _, err := render.SizeFor(cfg.Mode, cfg.Width, cfg.Height); err != nil {
		return err
	}

	switch {
	case cfg.FallDelay < 1:
		return errors.Errorf("fall delay must be at least 1 (%d)", cfg.FallDelay)

	case cfg.Smoothing.OldWeight < 0 || cfg.Smoothing.NewWeight < 0:
		return errors.Errorf("smoothing weights must not be negative (%g, %g)",
			cfg.Smoothing.OldWeight, cfg.Smoothing.NewWeight)

	case cfg.Smoothing.Kind == dsp.SmoothSpring && !(cfg.Smoothing.Frequency > 0 && cfg.Smoothing.Damping > 0):
		return errors.Errorf("spring needs positive frequency and damping (%g, %g)",
			cfg.Smoothing.Frequency, cfg.Smoothing.Damping)

	case cfg.Spacing == dsp.SpacingGroup && cfg.GroupWidth < 1:
		return errors.Errorf("group width must be positive (%d)", cfg.GroupWidth)

	case cfg.SkipOffset < 0:
		return errors.Errorf("skip offset must not be negative (%d)", cfg.SkipOffset)

	case cfg.Monstercat < 0:
		return errors.Errorf("monstercat factor must not be negative (%g)", cfg.Monstercat)

	case cfg.Scale < 0:
		return errors.Errorf("scale must not be negative (%g)", cfg.Scale)

	case !(cfg.AmpCap > 0):
		return errors.Errorf("amplitude cap must be positive (%g)", cfg.AmpCap)

	case !(cfg.ColorMax > cfg.ColorMin):
		return errors.Errorf("color max %g must be above color min %g", cfg.ColorMax, cfg.ColorMin)

	case cfg.Frames < 0:
		return errors.Errorf("frame count must not be negative (%d)", cfg.Frames)
	}

	return nil
}

func (cfg *Config) binnerConfig(size int) dsp.BinnerConfig {
	return dsp.BinnerConfig{
		SampleRate: cfg.SampleRate,
		SampleSize: cfg.SampleSize,
		Size:       size,
		GroupWidth: cfg.GroupWidth,
		SkipOffset: cfg.SkipOffset,
		Scale:      cfg.Scale,
		Spacing:    cfg.Spacing,
		MaxFreq:    cfg.MaxFreq,
		BinMethod:  cfg.BinMethod,
	}
}

func (cfg *Config) renderConfig() render.Config {
	smoothing := cfg.Smoothing

	// the spring is stepped once per frame
	if smoothing.FPS == 0 {
		smoothing.FPS = cfg.frameRate()
	}

	return render.Config{
		Mode:           cfg.Mode,
		Width:          cfg.Width,
		Height:         cfg.Height,
		Fill:           cfg.Fill,
		SuppressBottom: cfg.SuppressBottom,
		FallDelay:      cfg.FallDelay,
		Smoothing:      smoothing,
		Stops:          cfg.Stops,
		Accent:         cfg.Accent,
		AmpCap:         cfg.AmpCap,
		ColorMin:       cfg.ColorMin,
		ColorMax:       cfg.ColorMax,
	}
}

func (cfg *Config) panelOptions() panel.Options {
	return panel.Options{
		Width:   cfg.Width,
		Height:  cfg.Height,
		Refresh: cfg.Refresh,
		Listen:  cfg.Listen,
	}
}

// frameRate is the expected number of frames per second: one per block,
// unless the panel refreshes slower than blocks arrive.
func (cfg *Config) frameRate() int {
	rate := cfg.SampleRate / float64(cfg.SampleSize)
	if cfg.Refresh > 0 && cfg.Refresh < rate {
		rate = cfg.Refresh
	}

	if rate < 1 {
		return 1
	}

	return int(rate + 0.5)
}
