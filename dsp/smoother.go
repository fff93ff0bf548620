package dsp

import (
	"math"
	"strings"

	"github.com/charmbracelet/harmonica"
	"github.com/pkg/errors"
)

// SmootherKind selects the temporal smoother.
type SmootherKind int

const (
	// SmoothWeighted blends the previous row and the new row with fixed weights.
	SmoothWeighted SmootherKind = iota
	// SmoothSpring moves each row with a damped spring.
	SmoothSpring
)

var smootherNames = map[SmootherKind]string{
	SmoothWeighted: "weighted",
	SmoothSpring:   "spring",
}

func (k SmootherKind) String() string {
	if name, ok := smootherNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseSmootherKind looks up a smoother by name.
func ParseSmootherKind(name string) (SmootherKind, error) {
	for k, n := range smootherNames {
		if strings.EqualFold(n, name) {
			return k, nil
		}
	}
	return SmoothWeighted, errors.Errorf("unknown smoother %q (weighted, spring)", name)
}

type SmootherConfig struct {
	Kind      SmootherKind // smoother implementation
	Columns   int          // number of display columns
	Rest      int          // resting row, also the largest row returned
	OldWeight float64      // weight of the previous row (weighted)
	NewWeight float64      // weight of the new row (weighted)
	FPS       int          // expected frame rate (spring)
	Frequency float64      // angular frequency (spring)
	Damping   float64      // damping ratio (spring)
}

// Smoother keeps one row position per column across frames.
type Smoother interface {
	// SmoothRow feeds the raw row for column idx and returns the smoothed row.
	SmoothRow(idx, raw int) int
	// Row returns the current smoothed row for column idx.
	Row(idx int) int
}

// NewSmoother builds the smoother named by cfg.Kind. Every column starts at rest.
func NewSmoother(cfg SmootherConfig) (Smoother, error) {
	if cfg.Columns < 1 {
		return nil, errors.Errorf("smoother needs at least one column (%d)", cfg.Columns)
	}

	switch cfg.Kind {
	case SmoothWeighted:
		if cfg.OldWeight < 0 || cfg.NewWeight < 0 {
			return nil, errors.Errorf("smoothing weights must not be negative (%g, %g)",
				cfg.OldWeight, cfg.NewWeight)
		}

		sm := &smoother{
			values:    make([]int, cfg.Columns),
			rest:      cfg.Rest,
			oldWeight: cfg.OldWeight,
			newWeight: cfg.NewWeight,
		}

		for idx := range sm.values {
			sm.values[idx] = cfg.Rest
		}

		return sm, nil

	case SmoothSpring:
		if cfg.FPS < 1 {
			return nil, errors.Errorf("spring smoother needs a frame rate (%d)", cfg.FPS)
		}

		sp := &springSmoother{
			spring: harmonica.NewSpring(harmonica.FPS(cfg.FPS), cfg.Frequency, cfg.Damping),
			pos:    make([]float64, cfg.Columns),
			vel:    make([]float64, cfg.Columns),
			rest:   cfg.Rest,
		}

		for idx := range sp.pos {
			sp.pos[idx] = float64(cfg.Rest)
		}

		return sp, nil
	}

	return nil, errors.Errorf("unknown smoother kind %d", cfg.Kind)
}

// Smooth returns round(prev*oldWeight + raw*newWeight).
func Smooth(prev, raw int, oldWeight, newWeight float64) int {
	return int(math.Round(float64(prev)*oldWeight + float64(raw)*newWeight))
}

type smoother struct {
	values    []int // smoothed row per column
	rest      int
	oldWeight float64
	newWeight float64
}

func (sm *smoother) SmoothRow(idx, raw int) int {
	v := clampRow(Smooth(sm.values[idx], raw, sm.oldWeight, sm.newWeight), sm.rest)
	sm.values[idx] = v
	return v
}

func (sm *smoother) Row(idx int) int {
	return sm.values[idx]
}

type springSmoother struct {
	spring harmonica.Spring
	pos    []float64
	vel    []float64
	rest   int
}

func (sp *springSmoother) SmoothRow(idx, raw int) int {
	p, v := sp.spring.Update(sp.pos[idx], sp.vel[idx], float64(raw))

	// keep the spring from winding up past the panel edges
	if p < 0 || p > float64(sp.rest) {
		p = math.Max(0, math.Min(p, float64(sp.rest)))
		v = 0
	}

	sp.pos[idx] = p
	sp.vel[idx] = v

	return sp.Row(idx)
}

func (sp *springSmoother) Row(idx int) int {
	return clampRow(int(math.Round(sp.pos[idx])), sp.rest)
}

func clampRow(y, rest int) int {
	switch {
	case y < 0:
		return 0
	case y > rest:
		return rest
	}
	return y
}
