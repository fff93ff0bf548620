// Package vmatrix renders a live audio spectrum onto an RGB LED panel.
//
// Run owns the whole pipeline. Each frame it reads one block from the input
// session, mixes it to mono, transforms and bins it, lets the render
// dispatcher draw it into the panel's back buffer and swaps on the next
// refresh tick.
package vmatrix

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/noriah/vmatrix/dsp"
	"github.com/noriah/vmatrix/input"
	"github.com/noriah/vmatrix/panel"
	"github.com/noriah/vmatrix/processor"
	"github.com/noriah/vmatrix/render"
	"github.com/noriah/vmatrix/util"
	"github.com/pkg/errors"
)

// ReportInterval is the number of frames between verbose timing reports.
const ReportInterval = 256

// Run validates cfg, acquires the panel and the input device and draws frames
// until ctx is cancelled, the display asks to quit, the input ends cleanly or
// cfg.Frames have been shown. Cancellation is checked at the top of each
// frame. Every acquired resource is released before Run returns.
func Run(cfg *Config, ctx context.Context) error {
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid config")
	}

	// PROCESSOR SETUP

	size, err := render.SizeFor(cfg.Mode, cfg.Width, cfg.Height)
	if err != nil {
		return err
	}

	binner, err := dsp.NewBinner(cfg.binnerConfig(size))
	if err != nil {
		return errors.Wrap(err, "failed to set up binning")
	}

	dispatcher, err := render.NewDispatcher(cfg.renderConfig())
	if err != nil {
		return errors.Wrap(err, "failed to set up renderer")
	}

	proc, err := processor.New(processor.Config{
		SampleSize: cfg.SampleSize,
		Windower:   cfg.Windower,
		Magnitude:  cfg.Magnitude,
		Binner:     binner,
		Monstercat: cfg.Monstercat,
		Dispatcher: dispatcher,
	})
	if err != nil {
		return err
	}
	defer proc.Close()

	// PANEL SETUP

	var buf *panel.Buffer
	if cfg.Display != nil {
		buf = panel.NewBuffer(cfg.Display, cfg.panelOptions())
	} else if buf, err = panel.Open(cfg.Panel, cfg.panelOptions()); err != nil {
		return err
	}
	defer buf.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ctx = buf.Start(ctx)

	// INPUT SETUP

	backend, err := input.InitBackend(cfg.Backend)
	if err != nil {
		return err
	}
	defer backend.Close()

	sessConfig := input.SessionConfig{
		FrameSize:  cfg.ChannelCount,
		SampleSize: cfg.SampleSize,
		SampleRate: cfg.SampleRate,
		Unpaced:    cfg.Unpaced,
	}

	if sessConfig.Device, err = input.GetDevice(backend, cfg.Device); err != nil {
		return err
	}

	audio, err := backend.Start(ctx, sessConfig)
	if err != nil {
		return errors.Wrap(err, "failed to start the input backend")
	}
	defer audio.Close()

	if cfg.Verbose {
		logSummary(cfg, binner, sessConfig.Device)
	}

	// MAIN LOOP

	samples := make([]int16, sessConfig.BlockLen())
	mono := make([]float64, cfg.SampleSize)

	timing := util.NewMovingWindow(ReportInterval)

	for frame := 0; cfg.Frames == 0 || frame < cfg.Frames; frame++ {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if err := audio.ReadBlock(samples); err != nil {
			switch {
			case err == io.EOF:
				return nil
			case ctx.Err() != nil:
				// the session was torn down under the read
				return nil
			}

			return errors.Wrap(err, "failed to read audio block")
		}

		start := time.Now()

		mono = input.MixDown(mono, samples, cfg.ChannelCount)

		buf.Clear()

		if err := proc.Process(buf, mono); err != nil {
			return err
		}

		timing.UpdateDuration(time.Since(start))

		if err := buf.Swap(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}

			return errors.Wrap(err, "failed to show frame")
		}

		if cfg.Verbose && (frame+1)%ReportInterval == 0 {
			mean, stddev := timing.Stats()
			log.Printf("frame %s: draw %s (+/- %s), peak %.3f",
				humanize.Comma(int64(frame+1)),
				time.Duration(mean*float64(time.Second)),
				time.Duration(stddev*float64(time.Second)),
				proc.Peak())
		}
	}

	return nil
}

func logSummary(cfg *Config, binner *dsp.Binner, device input.Device) {
	res := cfg.SampleRate / float64(cfg.SampleSize)

	log.Printf("%s via %s (%q), %d ch at %s",
		cfg.Mode, cfg.Backend, device, cfg.ChannelCount,
		humanize.SIWithDigits(cfg.SampleRate, 1, "Hz"))

	log.Printf("%dx%d panel, %s samples per block, %s per bin, scale %.3g",
		cfg.Width, cfg.Height,
		humanize.Comma(int64(cfg.SampleSize)),
		humanize.SIWithDigits(res, 2, "Hz"),
		binner.Scale())

	lo, _ := binner.Range(0)
	_, hi := binner.Range(binner.Size() - 1)

	log.Printf("%d %s columns cover %s to %s",
		binner.Size(), cfg.Spacing,
		humanize.SIWithDigits(float64(lo)*res, 2, "Hz"),
		humanize.SIWithDigits(float64(hi)*res, 2, "Hz"))
}
