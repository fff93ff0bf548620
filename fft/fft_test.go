package fft

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestPlanSingleTone(t *testing.T) {
	const n = 64

	in := make([]float64, n)
	out := make([]complex128, SpectrumSize(n))

	plan, err := NewPlan(in, out)
	if err != nil {
		t.Fatal(err)
	}
	defer plan.Close()

	// FFTW_MEASURE may scribble on the input, so fill after planning
	for i := range in {
		in[i] = math.Cos(2 * math.Pi * 5 * float64(i) / n)
	}

	plan.Execute()

	for idx, c := range out {
		mag := cmplx.Abs(c)

		want := 0.0
		if idx == 5 {
			want = n / 2
		}

		if math.Abs(mag-want) > 1e-6 {
			t.Errorf("bin %d magnitude = %g, want %g", idx, mag, want)
		}
	}
}

func TestPlanBuffers(t *testing.T) {
	if _, err := NewPlan(make([]float64, 16), make([]complex128, 8)); err == nil {
		t.Error("expected error for short output")
	}

	if _, err := NewPlan(nil, nil); err == nil {
		t.Error("expected error for empty input")
	}
}

func Benchmark(b *testing.B) {
	if FFTW {
		b.Log("Benchmarking FFTW.")
	} else {
		b.Log("Benchmarking gonum (built without fftw).")
	}

	reals := generateReals()
	cmplx := make([]complex128, SpectrumSize(len(reals)))

	plan, err := NewPlan(reals, cmplx)
	if err != nil {
		b.Fatal(err)
	}
	defer plan.Close()

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		plan.Execute()
	}
}

// Adapted from https://github.com/project-gemmi/benchmarking-fft/blob/master/1d-r.cpp

const numReals = 44100

func generateReals() []float64 {
	input := make([]float64, numReals)

	c := 3.1
	for i := range input {
		c += 0.3
		input[i] = 2*c - c*c
	}

	return input
}
