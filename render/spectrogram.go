package render

import (
	"math"

	"github.com/noriah/vmatrix/dsp"
	"github.com/noriah/vmatrix/palette"
)

// spectrogram scrolls one column in per frame. Time runs left to right with
// the newest column on the right edge, frequency runs bottom to top.
type spectrogram struct {
	history  *dsp.History
	stops    palette.Stops
	ampCap   float64
	colorMin float64
	colorMax float64
}

func newSpectrogram(cfg Config, st *State) (Renderer, error) {
	s := &spectrogram{
		history:  dsp.NewHistory(cfg.Width, cfg.Height),
		stops:    cfg.Stops,
		ampCap:   cfg.AmpCap,
		colorMin: cfg.ColorMin,
		colorMax: cfg.ColorMax,
	}

	st.History = s.history

	return s, nil
}

func (s *spectrogram) Render(c Canvas, values []float64) {
	s.history.Scroll(values)

	width, depth := s.history.Width(), s.history.Depth()

	for t := 0; t < width; t++ {
		col := s.history.Column(t)

		for f, v := range col {
			c.SetPixel(t, depth-1-f, s.stops.ColorOf(s.clamp(v), s.colorMin, s.colorMax))
		}
	}
}

func (s *spectrogram) clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return math.Min(v, s.ampCap)
}
