// Package processor runs one frame of the render pipeline: window, transform,
// magnitudes, binning and dispatch.
package processor

import (
	"github.com/noriah/vmatrix/dsp"
	"github.com/noriah/vmatrix/dsp/window"
	"github.com/noriah/vmatrix/fft"
	"github.com/noriah/vmatrix/render"
	"github.com/pkg/errors"
)

type Config struct {
	SampleSize int                 // number of samples per block (N)
	Windower   window.Function     // data windower, nil leaves samples alone
	Magnitude  dsp.MagnitudeMethod // complex bin -> magnitude
	Binner     *dsp.Binner         // spectrum -> columns
	Monstercat float64             // neighbour spread factor, <= 1 disables
	Dispatcher *render.Dispatcher  // columns -> pixels
}

// Processor owns every buffer the pipeline touches. They are allocated once
// in New and reused for each frame.
type Processor struct {
	inputBuf []float64
	fftBuf   []complex128
	magBuf   []float64
	binBuf   []float64

	plan *fft.Plan

	wndwr window.Function
	mag   dsp.MagnitudeMethod
	bnr   *dsp.Binner
	mcat  float64
	disp  *render.Dispatcher
}

// New checks that the binner and dispatcher agree with each other and with
// the block size, then creates the transform plan.
func New(cfg Config) (*Processor, error) {
	switch {
	case cfg.Binner == nil:
		return nil, errors.New("processor needs a binner")
	case cfg.Dispatcher == nil:
		return nil, errors.New("processor needs a dispatcher")
	case cfg.Binner.Size() != cfg.Dispatcher.Size():
		return nil, errors.Errorf("binner makes %d columns, %s renderer wants %d",
			cfg.Binner.Size(), cfg.Dispatcher.Mode(), cfg.Dispatcher.Size())
	case cfg.Binner.SpectrumLen() != fft.SpectrumSize(cfg.SampleSize):
		return nil, errors.Errorf("binner built for spectrum of %d, block of %d makes %d",
			cfg.Binner.SpectrumLen(), cfg.SampleSize, fft.SpectrumSize(cfg.SampleSize))
	}

	vis := &Processor{
		inputBuf: make([]float64, cfg.SampleSize),
		fftBuf:   make([]complex128, fft.SpectrumSize(cfg.SampleSize)),
		magBuf:   make([]float64, fft.SpectrumSize(cfg.SampleSize)),
		binBuf:   make([]float64, cfg.Binner.Size()),
		wndwr:    cfg.Windower,
		mag:      cfg.Magnitude,
		bnr:      cfg.Binner,
		mcat:     cfg.Monstercat,
		disp:     cfg.Dispatcher,
	}

	var err error
	if vis.plan, err = fft.NewPlan(vis.inputBuf, vis.fftBuf); err != nil {
		return nil, errors.Wrap(err, "failed to create fft plan")
	}

	return vis, nil
}

// Process draws one frame of samples onto c. samples must hold one mono
// block and is not modified.
func (vis *Processor) Process(c render.Canvas, samples []float64) error {
	if len(samples) != len(vis.inputBuf) {
		return errors.Errorf("block holds %d samples, need %d", len(samples), len(vis.inputBuf))
	}

	copy(vis.inputBuf, samples)

	if vis.wndwr != nil {
		vis.wndwr(vis.inputBuf)
	}

	vis.plan.Execute()

	vis.magBuf = dsp.Magnitudes(vis.magBuf, vis.fftBuf, vis.mag)
	vis.binBuf = vis.bnr.Bin(vis.binBuf, vis.magBuf)

	dsp.Monstercat(vis.binBuf, vis.mcat)

	vis.disp.Dispatch(c, vis.binBuf)

	return nil
}

// Peak is the largest binned amplitude of the last frame.
func (vis *Processor) Peak() float64 {
	peak := 0.0
	for _, v := range vis.binBuf {
		if peak < v {
			peak = v
		}
	}
	return peak
}

// Bins returns the binned amplitudes of the last frame.
func (vis *Processor) Bins() []float64 {
	return vis.binBuf
}

// Close releases the transform plan.
func (vis *Processor) Close() error {
	return vis.plan.Close()
}
