package dsp

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

// ErrBinRange is returned when a binner would read past the spectrum.
var ErrBinRange = errors.New("bins exceed spectrum length")

// BinMethod folds one more magnitude into a column value. count is the number
// of magnitudes that make up the column.
type BinMethod func(count int, current, new float64) float64

// Average all the samples together.
func AverageSamples() BinMethod {
	return func(count int, current, new float64) float64 {
		return current + (new / float64(count))
	}
}

// Sum all the samples together.
func SumSamples() BinMethod {
	return func(_ int, current, new float64) float64 {
		return current + new
	}
}

// Return the maximum value of all the samples.
func MaxSampleValue() BinMethod {
	return func(_ int, current, new float64) float64 {
		if current < new {
			return new
		}
		return current
	}
}

var binMethods = map[string]func() BinMethod{
	"average": AverageSamples,
	"sum":     SumSamples,
	"max":     MaxSampleValue,
}

// ParseBinMethod looks up a bin method by name.
func ParseBinMethod(name string) (BinMethod, error) {
	if fn, ok := binMethods[strings.ToLower(name)]; ok {
		return fn(), nil
	}
	return nil, errors.Errorf("unknown bin method %q (average, sum, max)", name)
}

// Spacing decides which spectrum indices feed each column.
type Spacing int

const (
	// SpacingGroup gives every column GroupWidth adjacent bins, starting
	// SkipOffset columns in.
	SpacingGroup Spacing = iota
	// SpacingLinear splits [resolution, MaxFreq] into equal-width bands.
	SpacingLinear
	// SpacingLog splits [resolution, MaxFreq] into equal-ratio bands.
	SpacingLog
)

var spacingNames = map[Spacing]string{
	SpacingGroup:  "group",
	SpacingLinear: "linear",
	SpacingLog:    "log",
}

func (s Spacing) String() string {
	if name, ok := spacingNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseSpacing looks up a spacing by name.
func ParseSpacing(name string) (Spacing, error) {
	for s, n := range spacingNames {
		if strings.EqualFold(n, name) {
			return s, nil
		}
	}
	return SpacingGroup, errors.Errorf("unknown bin spacing %q (group, linear, log)", name)
}

// DefaultScale is the empirical normalization used when no scale is set.
func DefaultScale(sampleRate float64) float64 {
	return 1 / (sampleRate / 3)
}

// DefaultMaxFreq caps linear and log spacing.
const DefaultMaxFreq = 16000.0

type BinnerConfig struct {
	SampleRate float64   // audio sample rate
	SampleSize int       // number of samples per block (N)
	Size       int       // number of output columns
	GroupWidth int       // spectrum bins per column (group spacing)
	SkipOffset int       // leading columns skipped (group spacing)
	Scale      float64   // multiplier, 0 derives DefaultScale
	Spacing    Spacing   // how bins are spread across columns
	MaxFreq    float64   // upper edge for linear/log spacing, 0 uses DefaultMaxFreq
	BinMethod  BinMethod // how a column folds its bins, nil averages
}

// Binner aggregates a magnitude spectrum into display columns.
type Binner struct {
	cfg     BinnerConfig
	bins    []bin
	fftSize int
	scale   float64
}

type bin struct {
	floorFFT int // first spectrum index
	ceilFFT  int // one past the last spectrum index
}

// NewBinner validates cfg against the spectrum length N/2+1 and precomputes
// every column's index range. Any range that would read past the spectrum is
// reported as ErrBinRange.
func NewBinner(cfg BinnerConfig) (*Binner, error) {
	switch {
	case cfg.SampleSize < 2:
		return nil, errors.Errorf("sample size too small (%d)", cfg.SampleSize)
	case cfg.SampleRate <= 0:
		return nil, errors.Errorf("sample rate must be positive (%g)", cfg.SampleRate)
	case cfg.Size < 1:
		return nil, errors.Errorf("bin count must be positive (%d)", cfg.Size)
	}

	if cfg.BinMethod == nil {
		cfg.BinMethod = AverageSamples()
	}

	bn := &Binner{
		cfg:     cfg,
		bins:    make([]bin, cfg.Size),
		fftSize: cfg.SampleSize/2 + 1,
		scale:   cfg.Scale,
	}

	if bn.scale == 0 {
		bn.scale = DefaultScale(cfg.SampleRate)
	}

	if bn.scale < 0 || math.IsNaN(bn.scale) || math.IsInf(bn.scale, 0) {
		return nil, errors.Errorf("invalid bin scale %g", bn.scale)
	}

	var err error

	switch cfg.Spacing {
	case SpacingGroup:
		err = bn.group()
	case SpacingLinear, SpacingLog:
		err = bn.distribute()
	default:
		err = errors.Errorf("unknown bin spacing %d", cfg.Spacing)
	}

	if err != nil {
		return nil, err
	}

	return bn, nil
}

// Size is the number of columns produced per frame.
func (bn *Binner) Size() int {
	return len(bn.bins)
}

// Scale is the multiplier applied to every column.
func (bn *Binner) Scale() float64 {
	return bn.scale
}

// SpectrumLen is the spectrum length the binner was validated against.
func (bn *Binner) SpectrumLen() int {
	return bn.fftSize
}

// Range returns the spectrum index range [lo, hi) of a column.
func (bn *Binner) Range(idx int) (int, int) {
	return bn.bins[idx].floorFFT, bn.bins[idx].ceilFFT
}

// Bin fills dst with one value per column and returns it. Ranges are clamped
// to len(spectrum) so a short spectrum never reads out of bounds.
func (bn *Binner) Bin(dst, spectrum []float64) []float64 {
	if cap(dst) < len(bn.bins) {
		dst = make([]float64, len(bn.bins))
	}
	dst = dst[:len(bn.bins)]

	for idx, b := range bn.bins {
		dst[idx] = bn.column(spectrum, b.floorFFT, b.ceilFFT)
	}

	return dst
}

func (bn *Binner) column(spectrum []float64, lo, hi int) float64 {
	if hi > len(spectrum) {
		hi = len(spectrum)
	}

	if lo >= hi {
		return 0
	}

	src := spectrum[lo:hi]
	count := len(src)
	mag := 0.0

	for _, v := range src {
		mag = bn.cfg.BinMethod(count, mag, v)
	}

	mag *= bn.scale

	if mag < 0 || math.IsNaN(mag) {
		return 0
	}

	return mag
}

func (bn *Binner) group() error {
	width, skip := bn.cfg.GroupWidth, bn.cfg.SkipOffset

	switch {
	case width < 1:
		return errors.Errorf("group width must be positive (%d)", width)
	case skip < 0:
		return errors.Errorf("skip offset must not be negative (%d)", skip)
	}

	if need := (len(bn.bins) + skip) * width; need > bn.fftSize {
		return errors.Wrapf(ErrBinRange,
			"%d columns of %d bins skipping %d need %d, spectrum has %d",
			len(bn.bins), width, skip, need, bn.fftSize)
	}

	for x := range bn.bins {
		start := (x + skip) * width
		bn.bins[x] = bin{floorFFT: start, ceilFFT: start + width}
	}

	return nil
}

// distribute spreads frequency edges between the lowest non-DC bin and the
// frequency cap. Every column gets at least one spectrum index.
func (bn *Binner) distribute() error {
	res := bn.cfg.SampleRate / float64(bn.cfg.SampleSize)

	hi := bn.cfg.MaxFreq
	if hi <= 0 {
		hi = DefaultMaxFreq
	}
	hi = math.Min(hi, bn.cfg.SampleRate/2)

	lo := res
	if hi <= lo {
		return errors.Errorf("max frequency %g is below the bin resolution %g", hi, lo)
	}

	size := len(bn.bins)
	edges := make([]int, size+1)

	for idx := range edges {
		var freq float64

		if bn.cfg.Spacing == SpacingLog {
			freq = logspace(lo, hi, idx, size)
		} else {
			freq = linspace(lo, hi, idx, size)
		}

		edges[idx] = int(math.Floor(freq / res))

		if idx > 0 && edges[idx] <= edges[idx-1] {
			edges[idx] = edges[idx-1] + 1
		}
	}

	if edges[size] > bn.fftSize {
		return errors.Wrapf(ErrBinRange,
			"%d %s columns need %d bins, spectrum has %d",
			size, bn.cfg.Spacing, edges[size], bn.fftSize)
	}

	for idx := range bn.bins {
		bn.bins[idx] = bin{floorFFT: edges[idx], ceilFFT: edges[idx+1]}
	}

	return nil
}

func linspace(min, max float64, i, n int) float64 {
	return min + ((max-min)/float64(n))*float64(i)
}

func logspace(min, max float64, i, n int) float64 {
	return math.Exp(linspace(math.Log(min), math.Log(max), i, n))
}

// Bin is the one-shot form of a group Binner: column x averages
// spectrum[(x+skip)*width : (x+skip+1)*width] and multiplies by scale.
func Bin(spectrum []float64, size, width, skip int, scale float64) ([]float64, error) {
	if need := (size + skip) * width; width < 1 || skip < 0 || size < 0 || need > len(spectrum) {
		return nil, errors.Wrapf(ErrBinRange,
			"size %d width %d skip %d against spectrum of %d", size, width, skip, len(spectrum))
	}

	out := make([]float64, size)
	for x := range out {
		start := (x + skip) * width

		sum := 0.0
		for _, v := range spectrum[start : start+width] {
			sum += v
		}

		out[x] = (sum / float64(width)) * scale
	}

	return out, nil
}
