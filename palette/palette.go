// Package palette maps amplitudes and rows onto panel colors.
package palette

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// StopCount is the number of anchors in a gradient table.
const StopCount = 6

// RGB is a single 8-bit per channel pixel color.
type RGB struct {
	R uint8
	G uint8
	B uint8
}

// Black is the color of an unlit pixel.
var Black = RGB{}

// White is the default envelope accent.
var White = RGB{R: 0xff, G: 0xff, B: 0xff}

// Hex returns the color as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHex reads a #rrggbb or #rgb color.
func ParseHex(s string) (RGB, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, errors.Wrapf(err, "invalid color %q", s)
	}

	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// Stops is an ordered table of gradient anchors spanning [0, 1].
type Stops [StopCount]RGB

// DefaultStops runs from an unlit panel through blue and green to red.
var DefaultStops = Stops{
	{R: 0x00, G: 0x00, B: 0x00},
	{R: 0x00, G: 0x00, B: 0x80},
	{R: 0x00, G: 0x80, B: 0xff},
	{R: 0x00, G: 0xff, B: 0x80},
	{R: 0xff, G: 0xff, B: 0x00},
	{R: 0xff, G: 0x00, B: 0x00},
}

// ParseStops builds a table from exactly StopCount hex colors.
func ParseStops(hex []string) (Stops, error) {
	var s Stops

	if len(hex) != StopCount {
		return s, errors.Errorf("need %d color stops, got %d", StopCount, len(hex))
	}

	for idx, h := range hex {
		c, err := ParseHex(h)
		if err != nil {
			return s, errors.Wrapf(err, "stop %d", idx)
		}
		s[idx] = c
	}

	return s, nil
}

// Hex returns the anchors as hex strings.
func (s Stops) Hex() []string {
	out := make([]string, len(s))
	for idx, c := range s {
		out[idx] = c.Hex()
	}
	return out
}

// Reverse returns the table in the opposite order. Mapping through a reversed
// table is the same as mapping 1-t through the original.
func (s Stops) Reverse() Stops {
	var r Stops
	for idx := range s {
		r[idx] = s[len(s)-1-idx]
	}
	return r
}

// ColorOf clamps value to [min, max], normalizes it and interpolates between
// the two anchors bounding it. min maps to the first anchor and max to the
// last one exactly.
func (s Stops) ColorOf(value, min, max float64) RGB {
	if !(max > min) || math.IsNaN(value) {
		return s[0]
	}

	switch {
	case value < min:
		value = min
	case value > max:
		value = max
	}

	pos := ((value - min) / (max - min)) * (StopCount - 1)
	seg := int(pos)

	if seg >= StopCount-1 {
		seg = StopCount - 2
	}

	return lerp(s[seg], s[seg+1], pos-float64(seg))
}

// Shade is the row gradient used for filled bars: red at the top, brightening
// toward the bottom row.
func Shade(row, height int) RGB {
	if height < 1 || row < 0 {
		return RGB{R: 0xff}
	}

	s := row * 224 / height
	if s > 0xff {
		s = 0xff
	}

	return RGB{R: 0xff, G: uint8(s), B: uint8(s)}
}

func lerp(a, b RGB, t float64) RGB {
	return RGB{
		R: mix(a.R, b.R, t),
		G: mix(a.G, b.G, t),
		B: mix(a.B, b.B, t),
	}
}

func mix(a, b uint8, t float64) uint8 {
	v := math.Round(float64(a) + (float64(b)-float64(a))*t)

	switch {
	case v < 0:
		return 0
	case v > 0xff:
		return 0xff
	}

	return uint8(v)
}
