package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/noriah/vmatrix"
	"github.com/noriah/vmatrix/dsp/window"
	"github.com/noriah/vmatrix/input"
	"github.com/noriah/vmatrix/panel"
	"github.com/noriah/vmatrix/render"

	_ "github.com/noriah/vmatrix/input/all"
	_ "github.com/noriah/vmatrix/panel/tcell"
	_ "github.com/noriah/vmatrix/panel/termbox"
	_ "github.com/noriah/vmatrix/panel/ws"

	"github.com/integrii/flaggy"
)

// AppName is the app name
const AppName = "vmatrix"

// AppDesc is the app description
const AppDesc = "Audio spectrum visualizer for RGB LED panels"

// AppSite is the app website
const AppSite = "https://github.com/noriah/vmatrix"

var version = "unknown"

func main() {
	log.SetFlags(0)

	cfg := newZeroConfig()

	if path := configPath(os.Args[1:]); path != "" {
		chk(loadFile(path, &cfg), "failed to load config")
	}

	if doFlags(&cfg) {
		return
	}

	if cfg.Backend == "" {
		cfg.Backend = input.DefaultBackend()
	}

	vmCfg, err := cfg.build()
	chk(err, "invalid config")

	chk(vmCfg.Validate(), "invalid config")

	// Root Context
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	chk(vmatrix.Run(&vmCfg, ctx), "failed to run vmatrix")
}

func doFlags(cfg *config) bool {

	parser := flaggy.NewParser(AppName)
	parser.Description = AppDesc
	parser.AdditionalHelpPrepend = AppSite
	parser.Version = version

	listBackendsCmd := flaggy.Subcommand{
		Name:                 "list-backends",
		ShortName:            "lb",
		Description:          "list all supported backends",
		AdditionalHelpAppend: "\nuse the full name after the '-'",
	}

	parser.AttachSubcommand(&listBackendsCmd, 1)

	listDevicesCmd := flaggy.Subcommand{
		Name:                 "list-devices",
		ShortName:            "ld",
		Description:          "list all devices for a backend",
		AdditionalHelpAppend: "\nuse the full name after the '-'",
	}

	parser.AttachSubcommand(&listDevicesCmd, 1)

	listPanelsCmd := flaggy.Subcommand{
		Name:        "list-panels",
		ShortName:   "lp",
		Description: "list all supported panels",
	}

	parser.AttachSubcommand(&listPanelsCmd, 1)

	// read ahead of parsing by configPath, registered so the parser accepts it
	var path string
	parser.String(&path, "c", "config", "yaml config file, flags override its values")

	parser.String(&cfg.Backend, "b", "backend", "backend name")
	parser.String(&cfg.Device, "d", "device", "device name")
	parser.Float64(&cfg.SampleRate, "r", "rate", "sample rate")
	parser.Int(&cfg.SampleSize, "n", "samples", "sample size (even, 4+)")
	parser.Int(&cfg.Channels, "ch", "channels", "channel count (1 or 2)")
	parser.Bool(&cfg.Unpaced, "", "unpaced", "read file and synthetic input as fast as frames draw")

	parser.String(&cfg.Panel, "p", "panel", "panel name")
	parser.Int(&cfg.Width, "W", "width", "panel columns")
	parser.Int(&cfg.Height, "H", "height", "panel rows")
	parser.Float64(&cfg.Refresh, "hz", "refresh", "panel refresh rate (0 to swap on every frame)")
	parser.String(&cfg.Listen, "l", "listen", "listen address for the ws panel")

	parser.String(&cfg.Mode, "m", "mode", "render mode ("+strings.Join(render.ModeNames(), ", ")+")")
	parser.Bool(&cfg.Fill, "", "fill", "fill bars down to the bottom row")
	parser.Bool(&cfg.SuppressBottom, "", "suppress-bottom", "draw nothing for silent columns")
	parser.Int(&cfg.FallDelay, "fd", "fall-delay", "frames per row of envelope fall [1, +Inf)")

	parser.String(&cfg.Smoothing, "sm", "smoothing", "smoother (weighted, spring)")
	parser.Float64(&cfg.OldWeight, "ow", "old-weight", "weight of the previous row")
	parser.Float64(&cfg.NewWeight, "nw", "new-weight", "weight of the new row")
	parser.Float64(&cfg.SpringFrequency, "", "spring-frequency", "spring angular frequency")
	parser.Float64(&cfg.SpringDamping, "", "spring-damping", "spring damping ratio")

	parser.Int(&cfg.GroupWidth, "gw", "group-width", "spectrum bins per column [1, +Inf)")
	parser.Int(&cfg.Skip, "sk", "skip", "leading columns skipped [0, +Inf)")
	parser.Float64(&cfg.Scale, "s", "scale", "column multiplier (0 derives it from the rate)")
	parser.String(&cfg.Spacing, "sp", "spacing", "bin spacing (group, linear, log)")
	parser.Float64(&cfg.MaxFreq, "mf", "max-freq", "upper frequency for linear and log spacing")
	parser.String(&cfg.BinMethod, "bm", "bin-method", "column fold (average, sum, max)")
	parser.Float64(&cfg.Monstercat, "mc", "monstercat", "spread columns onto neighbours by this factor (0 off)")
	parser.String(&cfg.Magnitude, "mg", "magnitude", "magnitude method (hypot, real)")
	parser.String(&cfg.Window, "w", "window", "window function ("+strings.Join(window.Names(), ", ")+")")

	var stops []string
	parser.StringSlice(&stops, "", "stop", "gradient anchor #rrggbb, give all six in order")
	parser.Bool(&cfg.Invert, "i", "invert", "run the gradient from the last anchor to the first")
	parser.String(&cfg.Accent, "a", "accent", "envelope marker color #rrggbb")
	parser.Float64(&cfg.AmpCap, "ac", "amp-cap", "spectrogram saturation ceiling")
	parser.Float64(&cfg.ColorMin, "cmin", "color-min", "value of the first gradient anchor")
	parser.Float64(&cfg.ColorMax, "cmax", "color-max", "value of the last gradient anchor")

	parser.Int(&cfg.Frames, "", "frames", "stop after this many frames (0 runs until interrupted)")
	parser.Bool(&cfg.Verbose, "v", "verbose", "log setup and frame timings")

	chk(parser.Parse(), "failed to parse arguments")

	if len(stops) > 0 {
		cfg.Stops = stops
	}

	switch {
	case listBackendsCmd.Used:
		def := input.DefaultBackend()

		for _, backend := range input.Backends {
			star := ' '
			if backend.Name == def {
				star = '*'
			}

			fmt.Printf("- %s %c\n", backend.Name, star)
		}

		return true

	case listDevicesCmd.Used:
		if cfg.Backend == "" {
			cfg.Backend = input.DefaultBackend()
		}

		backend, err := input.InitBackend(cfg.Backend)
		chk(err, "failed to init backend")
		defer backend.Close()

		devices, err := backend.Devices()
		chk(err, "failed to get devices")

		// We don't really need the default device to be indicated.
		defaultDevice, _ := backend.DefaultDevice()

		fmt.Printf("all devices for %q backend. '*' marks default\n", cfg.Backend)

		for idx := range devices {
			star := ' '
			if defaultDevice != nil && devices[idx].String() == defaultDevice.String() {
				star = '*'
			}

			fmt.Printf("- %v %c\n", devices[idx], star)
		}

		return true

	case listPanelsCmd.Used:
		for _, name := range panel.Names() {
			fmt.Printf("- %s\n", name)
		}

		return true
	}

	return false
}

func chk(err error, wrap string) {
	if err != nil {
		log.Fatalln(wrap+": ", err)
	}
}
