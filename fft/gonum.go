//go:build !fftw

package fft

import (
	"gonum.org/v1/gonum/dsp/fourier"
)

// FFTW is false if built without the fftw tag. It will use gonum instead.
const FFTW = false

// Plan holds a gonum FFT plan.
type Plan struct {
	input  []float64
	output []complex128
	fft    *fourier.FFT
}

// NewPlan returns a new gonum Plan reading in and writing out.
func NewPlan(in []float64, out []complex128) (*Plan, error) {
	if err := checkBuffers(in, out); err != nil {
		return nil, err
	}

	return &Plan{
		input:  in,
		output: out[:SpectrumSize(len(in))],
		fft:    fourier.NewFFT(len(in)),
	}, nil
}

// Execute executes the gonum plan.
func (p *Plan) Execute() {
	p.fft.Coefficients(p.output, p.input)
}

// Close is a no-op for gonum plans.
func (p *Plan) Close() error {
	return nil
}
