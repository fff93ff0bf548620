// Package fft provides generic abstractions around fourier transformers.
//
// A Plan is bound to one input and one output buffer at creation. The input
// holds N real samples and the output receives N/2+1 complex bins. Build with
// the fftw tag to link against libfftw3, otherwise gonum is used.
package fft

import "github.com/pkg/errors"

// SpectrumSize is the number of complex bins produced for n real samples.
func SpectrumSize(n int) int {
	return n/2 + 1
}

func checkBuffers(in []float64, out []complex128) error {
	switch {
	case len(in) < 2:
		return errors.Errorf("fft input too small (%d)", len(in))
	case len(out) < SpectrumSize(len(in)):
		return errors.Errorf("fft output holds %d bins, need %d", len(out), SpectrumSize(len(in)))
	}
	return nil
}
