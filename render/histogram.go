package render

import (
	"github.com/noriah/vmatrix/dsp"
	"github.com/noriah/vmatrix/palette"
)

type histogram struct {
	width  int
	height int
	fill   bool
	offset int // 1 when the bottom row is suppressed
	rest   int // resting row of a silent column

	smoother dsp.Smoother
	envelope *dsp.Envelope // nil in plain histogram mode
	accent   palette.RGB
}

func newHistogram(cfg Config, st *State, withEnvelope bool) (Renderer, error) {
	h := &histogram{
		width:  cfg.Width,
		height: cfg.Height,
		fill:   cfg.Fill,
		rest:   cfg.Height - 1,
		accent: cfg.Accent,
	}

	if cfg.SuppressBottom {
		h.offset = 1
		h.rest = cfg.Height
	}

	smCfg := cfg.Smoothing
	smCfg.Columns = cfg.Width
	smCfg.Rest = h.rest

	sm, err := dsp.NewSmoother(smCfg)
	if err != nil {
		return nil, err
	}

	h.smoother = sm
	st.Smoother = sm

	if withEnvelope {
		env, err := dsp.NewEnvelope(cfg.Width, cfg.Height-1, cfg.FallDelay)
		if err != nil {
			return nil, err
		}

		h.envelope = env
		st.Envelope = env
	}

	return h, nil
}

// rowOf turns a binned amplitude into a row, where larger values sit higher
// (lower row index).
func (h *histogram) rowOf(value float64) int {
	if !(value > 0) {
		value = 0
	}

	// keep the int conversion in range
	if value > float64(h.rest+1) {
		value = float64(h.rest + 1)
	}

	y := (h.height - 1) - int(value) + h.offset

	switch {
	case y < 0:
		return 0
	case y > h.rest:
		return h.rest
	}

	return y
}

func (h *histogram) Render(c Canvas, values []float64) {
	count := min(h.width, len(values))

	for x := 0; x < count; x++ {
		y := h.smoother.SmoothRow(x, h.rowOf(values[x]))

		h.drawBar(c, x, y)

		if h.envelope == nil {
			continue
		}

		if peak := h.envelope.Update(x, y); peak != h.height-1 {
			c.SetPixel(x, peak, h.accent)
		}
	}
}

func (h *histogram) drawBar(c Canvas, x, y int) {
	if y >= h.height {
		return
	}

	if !h.fill {
		c.SetPixel(x, y, palette.Shade(y, h.height))
		return
	}

	for row := h.height - 1; row >= y; row-- {
		c.SetPixel(x, row, palette.Shade(row, h.height))
	}
}
