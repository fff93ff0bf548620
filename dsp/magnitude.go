// Package dsp turns transformed audio into per-column display values.
//
// The pipeline for one frame is:
//
//	complex spectrum -> Magnitudes -> Binner -> {Smoother, Envelope} or History
//
// Everything in here is allocated once at setup and reused every frame.
package dsp

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

// MagnitudeMethod selects how a complex bin becomes a real magnitude.
type MagnitudeMethod int

const (
	// Hypot is the Euclidean norm of the real and imaginary parts.
	Hypot MagnitudeMethod = iota
	// RealAbs is |real|. It is cheaper, but under-reports any bin with a
	// significant imaginary part, so the two methods do not agree in general.
	RealAbs
)

var magnitudeNames = map[MagnitudeMethod]string{
	Hypot:   "hypot",
	RealAbs: "real",
}

func (m MagnitudeMethod) String() string {
	if name, ok := magnitudeNames[m]; ok {
		return name
	}
	return "unknown"
}

// ParseMagnitudeMethod looks up a method by name.
func ParseMagnitudeMethod(name string) (MagnitudeMethod, error) {
	for m, n := range magnitudeNames {
		if strings.EqualFold(n, name) {
			return m, nil
		}
	}
	return Hypot, errors.Errorf("unknown magnitude method %q (hypot, real)", name)
}

// Magnitudes writes one non-negative magnitude per bin of src into dst,
// growing dst if it is too short, and returns it.
func Magnitudes(dst []float64, src []complex128, method MagnitudeMethod) []float64 {
	if cap(dst) < len(src) {
		dst = make([]float64, len(src))
	}
	dst = dst[:len(src)]

	switch method {
	case RealAbs:
		for idx, c := range src {
			dst[idx] = math.Abs(real(c))
		}

	default:
		for idx, c := range src {
			dst[idx] = math.Hypot(real(c), imag(c))
		}
	}

	return dst
}
