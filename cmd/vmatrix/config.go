package main

import (
	"os"
	"strings"

	"github.com/noriah/vmatrix"
	"github.com/noriah/vmatrix/dsp"
	"github.com/noriah/vmatrix/dsp/window"
	"github.com/noriah/vmatrix/palette"
	"github.com/noriah/vmatrix/render"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// config is the command line and config file view of vmatrix.Config. Names
// and colors stay strings until build.
type config struct {
	// Backend is the backend name from list-backends
	Backend string `yaml:"backend"`
	// Device is the device name from list-devices
	Device string `yaml:"device"`
	// SampleRate is the rate at which samples are read
	SampleRate float64 `yaml:"sample_rate"`
	// SampleSize is the number of frames per block
	SampleSize int `yaml:"sample_size"`
	// Channels is the number of interleaved channels (1 or 2)
	Channels int `yaml:"channels"`
	// Unpaced reads file and synthetic sources as fast as frames are drawn
	Unpaced bool `yaml:"unpaced"`

	Panel   string  `yaml:"panel"`
	Width   int     `yaml:"width"`
	Height  int     `yaml:"height"`
	Refresh float64 `yaml:"refresh"`
	Listen  string  `yaml:"listen"`

	Mode           string `yaml:"mode"`
	Fill           bool   `yaml:"fill"`
	SuppressBottom bool   `yaml:"suppress_bottom"`
	FallDelay      int    `yaml:"fall_delay"`

	Smoothing       string  `yaml:"smoothing"`
	OldWeight       float64 `yaml:"old_weight"`
	NewWeight       float64 `yaml:"new_weight"`
	SpringFrequency float64 `yaml:"spring_frequency"`
	SpringDamping   float64 `yaml:"spring_damping"`

	GroupWidth int     `yaml:"group_width"`
	Skip       int     `yaml:"skip"`
	Scale      float64 `yaml:"scale"`
	Spacing    string  `yaml:"spacing"`
	MaxFreq    float64 `yaml:"max_freq"`
	BinMethod  string  `yaml:"bin_method"`
	Monstercat float64 `yaml:"monstercat"`
	Magnitude  string  `yaml:"magnitude"`
	Window     string  `yaml:"window"`

	// Stops are the spectrogram gradient anchors as #rrggbb
	Stops []string `yaml:"stops"`
	// Invert runs the gradient from the last stop to the first
	Invert   bool    `yaml:"invert"`
	Accent   string  `yaml:"accent"`
	AmpCap   float64 `yaml:"amp_cap"`
	ColorMin float64 `yaml:"color_min"`
	ColorMax float64 `yaml:"color_max"`

	Frames  int  `yaml:"frames"`
	Verbose bool `yaml:"verbose"`
}

func newZeroConfig() config {
	def := vmatrix.NewZeroConfig()

	return config{
		Backend:         "",
		SampleRate:      def.SampleRate,
		SampleSize:      def.SampleSize,
		Channels:        def.ChannelCount,
		Panel:           "termbox",
		Width:           def.Width,
		Height:          def.Height,
		Refresh:         def.Refresh,
		Mode:            def.Mode.String(),
		Fill:            def.Fill,
		SuppressBottom:  def.SuppressBottom,
		FallDelay:       def.FallDelay,
		Smoothing:       def.Smoothing.Kind.String(),
		OldWeight:       def.Smoothing.OldWeight,
		NewWeight:       def.Smoothing.NewWeight,
		SpringFrequency: def.Smoothing.Frequency,
		SpringDamping:   def.Smoothing.Damping,
		GroupWidth:      def.GroupWidth,
		Skip:            def.SkipOffset,
		Spacing:         def.Spacing.String(),
		MaxFreq:         def.MaxFreq,
		BinMethod:       "average",
		Magnitude:       def.Magnitude.String(),
		Window:          "none",
		Stops:           def.Stops.Hex(),
		Accent:          def.Accent.Hex(),
		AmpCap:          def.AmpCap,
		ColorMin:        def.ColorMin,
		ColorMax:        def.ColorMax,
	}
}

// configPath finds -c/--config in args ahead of flag parsing so the file can
// supply defaults that flags then override.
func configPath(args []string) string {
	for idx, arg := range args {
		for _, name := range []string{"-c", "--config"} {
			if arg == name && idx+1 < len(args) {
				return args[idx+1]
			}

			if v, ok := strings.CutPrefix(arg, name+"="); ok {
				return v
			}
		}
	}

	return ""
}

// loadFile overlays the yaml file at path onto cfg. Keys not present keep
// their current values. Unknown keys are an error.
func loadFile(path string, cfg *config) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "failed to open config file")
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil {
		return errors.Wrapf(err, "failed to parse %s", path)
	}

	return nil
}

// build resolves every name and color into a vmatrix.Config.
func (cfg *config) build() (vmatrix.Config, error) {
	out := vmatrix.NewZeroConfig()

	out.Backend = cfg.Backend
	out.Device = cfg.Device
	out.SampleRate = cfg.SampleRate
	out.SampleSize = cfg.SampleSize
	out.ChannelCount = cfg.Channels
	out.Unpaced = cfg.Unpaced

	out.Panel = cfg.Panel
	out.Width = cfg.Width
	out.Height = cfg.Height
	out.Refresh = cfg.Refresh
	out.Listen = cfg.Listen

	out.Fill = cfg.Fill
	out.SuppressBottom = cfg.SuppressBottom
	out.FallDelay = cfg.FallDelay

	out.Smoothing.OldWeight = cfg.OldWeight
	out.Smoothing.NewWeight = cfg.NewWeight
	out.Smoothing.Frequency = cfg.SpringFrequency
	out.Smoothing.Damping = cfg.SpringDamping

	out.GroupWidth = cfg.GroupWidth
	out.SkipOffset = cfg.Skip
	out.Scale = cfg.Scale
	out.MaxFreq = cfg.MaxFreq
	out.Monstercat = cfg.Monstercat

	out.AmpCap = cfg.AmpCap
	out.ColorMin = cfg.ColorMin
	out.ColorMax = cfg.ColorMax

	out.Frames = cfg.Frames
	out.Verbose = cfg.Verbose

	var err error

	if out.Mode, err = render.ParseMode(cfg.Mode); err != nil {
		return out, err
	}

	if out.Smoothing.Kind, err = dsp.ParseSmootherKind(cfg.Smoothing); err != nil {
		return out, err
	}

	if out.Spacing, err = dsp.ParseSpacing(cfg.Spacing); err != nil {
		return out, err
	}

	if out.BinMethod, err = dsp.ParseBinMethod(cfg.BinMethod); err != nil {
		return out, err
	}

	if out.Magnitude, err = dsp.ParseMagnitudeMethod(cfg.Magnitude); err != nil {
		return out, err
	}

	if out.Windower, err = window.Lookup(cfg.Window); err != nil {
		return out, err
	}

	if out.Stops, err = palette.ParseStops(cfg.Stops); err != nil {
		return out, errors.Wrap(err, "invalid gradient")
	}

	if cfg.Invert {
		out.Stops = out.Stops.Reverse()
	}

	if out.Accent, err = palette.ParseHex(cfg.Accent); err != nil {
		return out, errors.Wrap(err, "invalid accent")
	}

	return out, nil
}
