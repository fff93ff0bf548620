//go:build fftw

package fft

// The only plan we need is fftw_plan_dft_r2c_1d, so it is the only one
// bound here.

// #cgo pkg-config: fftw3
// #include <fftw3.h>
import "C"

import (
	"unsafe"
)

// FFTW is true if built with the fftw tag.
const FFTW = true

// Plan holds an FFTW C plan
type Plan struct {
	input  []float64
	output []complex128
	cPlan  C.fftw_plan
}

// NewPlan returns a new FFTW Plan for use with FFTW
func NewPlan(in []float64, out []complex128) (*Plan, error) {
	if err := checkBuffers(in, out); err != nil {
		return nil, err
	}

	return &Plan{
		input:  in,
		output: out,
		cPlan: C.fftw_plan_dft_r2c_1d(
			C.int(len(in)),
			(*C.double)(unsafe.Pointer(&in[0])),
			(*C.fftw_complex)(unsafe.Pointer(&out[0])),
			C.FFTW_MEASURE,
		),
	}, nil
}

// Execute runs the plan
func (p *Plan) Execute() {
	C.fftw_execute(p.cPlan)
}

// Close releases the C plan.
func (p *Plan) Close() error {
	if p.cPlan != nil {
		C.fftw_destroy_plan(p.cPlan)
		p.cPlan = nil
	}
	return nil
}
