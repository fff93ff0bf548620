package window

import (
	"math"
	"testing"
)

func ones(n int) []float64 {
	buf := make([]float64, n)
	for idx := range buf {
		buf[idx] = 1
	}
	return buf
}

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		fn, err := Lookup(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}

		buf := ones(64)
		fn(buf)

		for idx, v := range buf {
			if math.IsNaN(v) || v > 1.0001 {
				t.Errorf("%s: coefficient %d = %g", name, idx, v)
			}
		}
	}

	if _, err := Lookup("triangle-ish"); err == nil {
		t.Error("expected error for unknown window")
	}
}

func TestHannShape(t *testing.T) {
	buf := ones(65)
	Hann(buf)

	if buf[0] > 1e-9 {
		t.Errorf("Hann edge = %g, want 0", buf[0])
	}

	if math.Abs(buf[32]-1) > 1e-9 {
		t.Errorf("Hann center = %g, want 1", buf[32])
	}

	buf = ones(8)
	Rectangle(buf)
	for _, v := range buf {
		if v != 1 {
			t.Fatal("Rectangle changed the buffer")
		}
	}
}
