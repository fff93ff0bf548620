package dsp

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/pkg/errors"
)

const testRate = 44100.0

func TestBinSingleTone(t *testing.T) {
	spectrum := make([]float64, 801)
	spectrum[5] = 100.0

	scale := DefaultScale(testRate)
	if want := 3 / testRate; math.Abs(scale-want) > 1e-12 {
		t.Fatalf("DefaultScale = %g, want %g", scale, want)
	}

	out, err := Bin(spectrum, 64, 1, 1, scale)
	if err != nil {
		t.Fatal(err)
	}

	for x, v := range out {
		want := 0.0
		if x == 4 {
			want = 100 * scale
		}

		if math.Abs(v-want) > 1e-9 {
			t.Errorf("bin %d = %g, want %g", x, v, want)
		}
	}

	if math.Abs(out[4]-0.0068) > 0.0001 {
		t.Errorf("bin 4 = %g, want about 0.0068", out[4])
	}
}

func TestBinRangeRejected(t *testing.T) {
	spectrum := make([]float64, 17)

	if _, err := Bin(spectrum, 16, 1, 2, 1); errors.Cause(err) != ErrBinRange {
		t.Errorf("Bin past end = %v, want ErrBinRange", err)
	}

	_, err := NewBinner(BinnerConfig{
		SampleRate: testRate,
		SampleSize: 32,
		Size:       16,
		GroupWidth: 1,
		SkipOffset: 2,
	})
	if errors.Cause(err) != ErrBinRange {
		t.Errorf("NewBinner past end = %v, want ErrBinRange", err)
	}
}

func TestBinnerMatchesBin(t *testing.T) {
	const n = 1600

	spectrum := make([]float64, n/2+1)
	for idx := range spectrum {
		spectrum[idx] = float64(idx % 7)
	}

	bn, err := NewBinner(BinnerConfig{
		SampleRate: testRate,
		SampleSize: n,
		Size:       64,
		GroupWidth: 3,
		SkipOffset: 1,
	})
	if err != nil {
		t.Fatal(err)
	}

	want, err := Bin(spectrum, 64, 3, 1, DefaultScale(testRate))
	if err != nil {
		t.Fatal(err)
	}

	got := bn.Bin(nil, spectrum)
	for x := range want {
		if math.Abs(got[x]-want[x]) > 1e-12 {
			t.Errorf("column %d = %g, want %g", x, got[x], want[x])
		}
	}

	// a short spectrum is clamped, not read past
	short := bn.Bin(got, spectrum[:10])
	if short[len(short)-1] != 0 {
		t.Errorf("clamped column = %g, want 0", short[len(short)-1])
	}
}

func TestBinnerSpacing(t *testing.T) {
	for _, sp := range []Spacing{SpacingLinear, SpacingLog} {
		bn, err := NewBinner(BinnerConfig{
			SampleRate: testRate,
			SampleSize: 1600,
			Size:       64,
			Spacing:    sp,
		})
		if err != nil {
			t.Fatalf("%s: %v", sp, err)
		}

		prevHi := 0
		for idx := 0; idx < bn.Size(); idx++ {
			lo, hi := bn.Range(idx)

			if lo >= hi {
				t.Errorf("%s: column %d is empty [%d, %d)", sp, idx, lo, hi)
			}

			if idx > 0 && lo != prevHi {
				t.Errorf("%s: column %d starts at %d, previous ended at %d", sp, idx, lo, prevHi)
			}

			if hi > bn.SpectrumLen() {
				t.Errorf("%s: column %d ends past spectrum at %d", sp, idx, hi)
			}

			prevHi = hi
		}
	}

	// more columns than spectrum bins cannot be spread
	_, err := NewBinner(BinnerConfig{
		SampleRate: testRate,
		SampleSize: 64,
		Size:       64,
		Spacing:    SpacingLog,
	})
	if errors.Cause(err) != ErrBinRange {
		t.Errorf("overfull log spacing = %v, want ErrBinRange", err)
	}
}

func TestMagnitudes(t *testing.T) {
	src := []complex128{3 + 4i, -2, 0, cmplx.Rect(5, math.Pi/2)}

	hyp := Magnitudes(nil, src, Hypot)
	abs := Magnitudes(nil, src, RealAbs)

	for idx, want := range []float64{5, 2, 0, 5} {
		if math.Abs(hyp[idx]-want) > 1e-9 {
			t.Errorf("hypot[%d] = %g, want %g", idx, hyp[idx], want)
		}
	}

	for idx, want := range []float64{3, 2, 0, 0} {
		if math.Abs(abs[idx]-want) > 1e-9 {
			t.Errorf("real[%d] = %g, want %g", idx, abs[idx], want)
		}
	}

	for idx := range src {
		if hyp[idx] < 0 || abs[idx] < 0 {
			t.Errorf("negative magnitude at %d", idx)
		}
	}
}

func TestSmooth(t *testing.T) {
	if v := Smooth(31, 0, 0.7, 0.3); v != 22 {
		t.Errorf("Smooth(31, 0) = %d, want 22", v)
	}

	sm, err := NewSmoother(SmootherConfig{
		Columns:   2,
		Rest:      31,
		OldWeight: 0.3,
		NewWeight: 0.7,
	})
	if err != nil {
		t.Fatal(err)
	}

	if r := sm.Row(0); r != 31 {
		t.Fatalf("initial row = %d, want rest", r)
	}

	// converges to a constant input and stays in range
	for i := 0; i < 64; i++ {
		v := sm.SmoothRow(0, 4)
		if v < 0 || v > 31 {
			t.Fatalf("row %d out of range", v)
		}
	}

	if r := sm.Row(0); r != 4 {
		t.Errorf("settled row = %d, want 4", r)
	}

	if r := sm.Row(1); r != 31 {
		t.Errorf("untouched column = %d, want 31", r)
	}

	// raw rows outside the panel are clamped
	if v := sm.SmoothRow(1, 500); v != 31 {
		t.Errorf("clamped row = %d, want 31", v)
	}
}

func TestSpringSmoother(t *testing.T) {
	sm, err := NewSmoother(SmootherConfig{
		Kind:      SmoothSpring,
		Columns:   1,
		Rest:      31,
		FPS:       60,
		Frequency: 6,
		Damping:   1,
	})
	if err != nil {
		t.Fatal(err)
	}

	prev := sm.Row(0)
	for i := 0; i < 240; i++ {
		v := sm.SmoothRow(0, 0)
		if v < 0 || v > 31 {
			t.Fatalf("frame %d: row %d out of range", i, v)
		}

		// critically damped, so it never overshoots upward
		if v > prev {
			t.Fatalf("frame %d: row went back down from %d to %d", i, prev, v)
		}
		prev = v
	}

	if prev != 0 {
		t.Errorf("spring settled at %d, want 0", prev)
	}

	if _, err := NewSmoother(SmootherConfig{Kind: SmoothSpring, Columns: 1}); err == nil {
		t.Error("expected error without frame rate")
	}
}

func TestEnvelopeFall(t *testing.T) {
	const height = 32

	env, err := NewEnvelope(1, height-1, 1)
	if err != nil {
		t.Fatal(err)
	}

	got := []int{env.Update(0, 0)}
	for i := 0; i < 3; i++ {
		got = append(got, env.Update(0, height-1))
	}

	for idx, want := range []int{0, 1, 2, 3} {
		if got[idx] != want {
			t.Fatalf("peak sequence = %v, want [0 1 2 3]", got)
		}
	}
}

func TestEnvelopeEqualInputFalls(t *testing.T) {
	env, err := NewEnvelope(1, 7, 2)
	if err != nil {
		t.Fatal(err)
	}

	env.Update(0, 3)

	// only a louder row restarts the delay, an equal row lets it run out
	got := []int{env.Update(0, 3), env.Update(0, 3), env.Update(0, 3)}

	want := []int{3, 4, 3}
	for idx := range want {
		if got[idx] != want[idx] {
			t.Fatalf("peak sequence = %v, want %v", got, want)
		}
	}
}

func TestEnvelopeDelay(t *testing.T) {
	env, err := NewEnvelope(1, 7, 3)
	if err != nil {
		t.Fatal(err)
	}

	env.Update(0, 2)

	var got []int
	for i := 0; i < 7; i++ {
		got = append(got, env.Update(0, 7))
	}

	want := []int{2, 2, 3, 3, 3, 4, 4}
	for idx := range want {
		if got[idx] != want[idx] {
			t.Fatalf("peak sequence = %v, want %v", got, want)
		}
	}
}

func TestEnvelopeProperties(t *testing.T) {
	const floor = 15

	env, err := NewEnvelope(1, floor, 2)
	if err != nil {
		t.Fatal(err)
	}

	if !env.Resting(0) {
		t.Fatal("new envelope should rest on the floor")
	}

	input := []int{9, 12, 3, 3, 3, 15, 15, 1, 15, 14, 13, 12, 15, 15, 15, 15}
	for i := 0; i < 40; i++ {
		input = append(input, floor)
	}

	prev := env.Peak(0)
	for i, y := range input {
		peak := env.Update(0, y)

		if peak > y && y < prev {
			t.Fatalf("frame %d: peak %d below input %d", i, peak, y)
		}

		if peak > prev+1 {
			t.Fatalf("frame %d: peak fell %d rows at once", i, peak-prev)
		}

		if peak > floor {
			t.Fatalf("frame %d: peak %d under floor %d", i, peak, floor)
		}

		prev = peak
	}

	if !env.Resting(0) {
		t.Errorf("peak %d did not decay back to floor", env.Peak(0))
	}

	// a constant input keeps the peak on it or one row below
	for i := 0; i < 10; i++ {
		if p := env.Update(0, 6); p != 6 && p != 7 {
			t.Fatalf("constant input moved peak to %d", p)
		}
	}

	if _, err := NewEnvelope(1, floor, 0); err == nil {
		t.Error("expected error for zero fall delay")
	}
}

func TestHistoryScroll(t *testing.T) {
	h := NewHistory(4, 2)

	for v := 1.0; v <= 5; v++ {
		h.Scroll([]float64{v, v})
	}

	for col := 0; col < h.Width(); col++ {
		want := float64(col + 2)
		for _, v := range h.Column(col) {
			if v != want {
				t.Errorf("column %d = %v, want [%v %v]", col, h.Column(col), want, want)
				break
			}
		}
	}

	if h.Len() != 4 {
		t.Errorf("Len = %d, want 4", h.Len())
	}
}

func TestHistoryPartial(t *testing.T) {
	h := NewHistory(3, 3)

	h.Scroll([]float64{1, 2, 3, 4})
	h.Scroll([]float64{9})

	if h.Len() != 2 {
		t.Errorf("Len = %d, want 2", h.Len())
	}

	newest := h.Column(2)
	if newest[0] != 9 || newest[1] != 0 || newest[2] != 0 {
		t.Errorf("short column = %v, want [9 0 0]", newest)
	}

	if h.At(1, 2) != 3 {
		t.Errorf("At(1, 2) = %v, want 3", h.At(1, 2))
	}

	if h.At(0, 0) != 0 {
		t.Errorf("oldest column should still be zero")
	}
}

func TestMonstercat(t *testing.T) {
	bins := []float64{0, 0, 8, 0, 0}
	Monstercat(bins, 2)

	want := []float64{2, 4, 8, 4, 2}
	for idx := range want {
		if math.Abs(bins[idx]-want[idx]) > 1e-9 {
			t.Errorf("bins = %v, want %v", bins, want)
			break
		}
	}

	flat := []float64{1, 5, 1}
	Monstercat(flat, 1)

	if flat[0] != 1 || flat[2] != 1 {
		t.Errorf("factor 1 changed bins: %v", flat)
	}
}

func TestParseBinMethod(t *testing.T) {
	tests := map[string]float64{
		"average": 2,
		"sum":     6,
		"MAX":     3,
	}

	for name, want := range tests {
		method, err := ParseBinMethod(name)
		if err != nil {
			t.Fatal(err)
		}

		got := 0.0
		for _, v := range []float64{1, 2, 3} {
			got = method(3, got, v)
		}

		if math.Abs(got-want) > 1e-9 {
			t.Errorf("%s of 1,2,3 = %v, want %v", name, got, want)
		}
	}

	if _, err := ParseBinMethod("median"); err == nil {
		t.Error("expected error for unknown method")
	}
}
