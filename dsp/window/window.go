// Package window provides Window Functions for signal analysis
//
// See https://wikipedia.org/wiki/Window_function
package window

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/dsp/window"
)

// Function is a function that will do window things for you. It scales buf
// in place.
type Function func(buf []float64)

// Rectangle is just do nothing
func Rectangle(buf []float64) {}

// Hann modifies the buffer to a Hann window
func Hann(buf []float64) { window.Hann(buf) }

// Hamming modifies the buffer to a Hamming window
func Hamming(buf []float64) { window.Hamming(buf) }

// Blackman modifies the buffer to a Blackman window
func Blackman(buf []float64) { window.Blackman(buf) }

// BlackmanNuttall modifies the buffer to a Blackman-Nuttall window
func BlackmanNuttall(buf []float64) { window.BlackmanNuttall(buf) }

// BartlettHann modifies the buffer to a Bartlett-Hann window
func BartlettHann(buf []float64) { window.BartlettHann(buf) }

// FlatTop modifies the buffer to a flat top window
func FlatTop(buf []float64) { window.FlatTop(buf) }

// Lanczos modifies the buffer to a Lanczos window
func Lanczos(buf []float64) { window.Lanczos(buf) }

var functions = map[string]Function{
	"none":             Rectangle,
	"rectangle":        Rectangle,
	"hann":             Hann,
	"hamming":          Hamming,
	"blackman":         Blackman,
	"blackman-nuttall": BlackmanNuttall,
	"bartlett-hann":    BartlettHann,
	"flattop":          FlatTop,
	"lanczos":          Lanczos,
}

// Lookup returns the window function registered under name.
func Lookup(name string) (Function, error) {
	if fn, ok := functions[strings.ToLower(name)]; ok {
		return fn, nil
	}

	return nil, errors.Errorf("unknown window function %q (%s)",
		name, strings.Join(Names(), ", "))
}

// Names lists the known window names in order.
func Names() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
