package processor

import (
	"math"
	"testing"

	"github.com/noriah/vmatrix/dsp"
	"github.com/noriah/vmatrix/dsp/window"
	"github.com/noriah/vmatrix/palette"
	"github.com/noriah/vmatrix/render"
)

const (
	BinSize    = 64
	SampleRate = 44100.0
	Width      = 8
	Height     = 4
)

type testCanvas struct {
	lit map[int]int // column -> pixels set
}

func (tc *testCanvas) SetPixel(x, y int, c palette.RGB) {
	tc.lit[x]++
}

func newTestProcessor(tb testing.TB, wnd window.Function) *Processor {
	bnr, err := dsp.NewBinner(dsp.BinnerConfig{
		SampleRate: SampleRate,
		SampleSize: BinSize,
		Size:       Width,
		GroupWidth: 1,
		SkipOffset: 1,
	})
	if err != nil {
		tb.Fatal(err)
	}

	disp, err := render.NewDispatcher(render.Config{
		Mode:      render.ModeHistogram,
		Width:     Width,
		Height:    Height,
		Fill:      true,
		Smoothing: dsp.SmootherConfig{NewWeight: 1},
	})
	if err != nil {
		tb.Fatal(err)
	}

	proc, err := New(Config{
		SampleSize: BinSize,
		Windower:   wnd,
		Binner:     bnr,
		Dispatcher: disp,
	})
	if err != nil {
		tb.Fatal(err)
	}

	return proc
}

func cosine(bin int, amp float64) []float64 {
	buf := make([]float64, BinSize)
	for i := range buf {
		buf[i] = amp * math.Cos(2*math.Pi*float64(bin)*float64(i)/BinSize)
	}
	return buf
}

func TestProcessTone(t *testing.T) {
	proc := newTestProcessor(t, nil)
	defer proc.Close()

	samples := cosine(5, 10000)
	orig := append([]float64(nil), samples...)

	tc := &testCanvas{lit: make(map[int]int)}
	if err := proc.Process(tc, samples); err != nil {
		t.Fatal(err)
	}

	// skip offset 1 puts spectrum index 5 in column 4
	if tc.lit[4] != Height {
		t.Errorf("column 4 lit %d pixels, want %d", tc.lit[4], Height)
	}

	for x := 0; x < Width; x++ {
		if x != 4 && tc.lit[x] != 1 {
			t.Errorf("silent column %d lit %d pixels, want the bottom row only", x, tc.lit[x])
		}
	}

	want := 10000 * BinSize / 2 * dsp.DefaultScale(SampleRate)
	if got := proc.Peak(); math.Abs(got-want) > 1e-6 {
		t.Errorf("peak = %v, want %v", got, want)
	}

	for i := range samples {
		if samples[i] != orig[i] {
			t.Fatal("process modified its input")
		}
	}
}

func TestProcessErrors(t *testing.T) {
	proc := newTestProcessor(t, window.Hann)
	defer proc.Close()

	tc := &testCanvas{lit: make(map[int]int)}
	if err := proc.Process(tc, make([]float64, BinSize-1)); err == nil {
		t.Error("expected error for short block")
	}

	bnr, _ := dsp.NewBinner(dsp.BinnerConfig{
		SampleRate: SampleRate, SampleSize: BinSize, Size: Width + 1, GroupWidth: 1,
	})
	disp, _ := render.NewDispatcher(render.Config{
		Mode: render.ModeHistogram, Width: Width, Height: Height,
		Smoothing: dsp.SmootherConfig{NewWeight: 1},
	})

	if _, err := New(Config{SampleSize: BinSize, Binner: bnr, Dispatcher: disp}); err == nil {
		t.Error("expected error for mismatched sizes")
	}
}

func BenchmarkProcess(b *testing.B) {
	proc := newTestProcessor(b, window.Hann)
	defer proc.Close()

	samples := cosine(5, 10000)
	tc := &testCanvas{lit: make(map[int]int)}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		proc.Process(tc, samples)
	}
}
