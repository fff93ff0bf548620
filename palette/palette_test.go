package palette

import "testing"

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func TestColorOfBounds(t *testing.T) {
	s := DefaultStops

	if c := s.ColorOf(0.0, 0, 1); c != s[0] {
		t.Errorf("ColorOf(0) = %v, want first stop %v", c, s[0])
	}

	if c := s.ColorOf(1.0, 0, 1); c != s[StopCount-1] {
		t.Errorf("ColorOf(1) = %v, want last stop %v", c, s[StopCount-1])
	}

	// clamped on both sides
	if c := s.ColorOf(-4, 0, 1); c != s[0] {
		t.Errorf("ColorOf(-4) = %v, want %v", c, s[0])
	}

	if c := s.ColorOf(12, 0, 1); c != s[StopCount-1] {
		t.Errorf("ColorOf(12) = %v, want %v", c, s[StopCount-1])
	}
}

func TestColorOfMiddleSegment(t *testing.T) {
	var s Stops
	for idx := range s {
		s[idx] = RGB{R: uint8(idx * 50)}
	}

	// 0.5 sits halfway through the third of five segments
	c := s.ColorOf(0.5, 0, 1)
	if c.R <= s[2].R || c.R >= s[3].R {
		t.Fatalf("ColorOf(0.5).R = %d, want between %d and %d", c.R, s[2].R, s[3].R)
	}

	if c.R != 125 {
		t.Errorf("ColorOf(0.5).R = %d, want 125", c.R)
	}
}

func TestColorOfAnchorsExact(t *testing.T) {
	s := DefaultStops

	for idx := range s {
		v := float64(idx) / float64(StopCount-1)
		if c := s.ColorOf(v, 0, 1); c != s[idx] {
			t.Errorf("ColorOf(%v) = %v, want stop %d %v", v, c, idx, s[idx])
		}
	}
}

func TestColorOfContinuous(t *testing.T) {
	s := DefaultStops
	const steps = 100000

	prev := s.ColorOf(0, 0, 1)
	for i := 1; i <= steps; i++ {
		c := s.ColorOf(float64(i)/steps, 0, 1)

		if absDiff(c.R, prev.R) > 1 || absDiff(c.G, prev.G) > 1 || absDiff(c.B, prev.B) > 1 {
			t.Fatalf("step %d jumped from %v to %v", i, prev, c)
		}

		prev = c
	}
}

func TestColorOfShiftedRange(t *testing.T) {
	s := DefaultStops

	if a, b := s.ColorOf(15, 10, 20), s.ColorOf(0.5, 0, 1); a != b {
		t.Errorf("range [10,20] at 15 = %v, range [0,1] at 0.5 = %v", a, b)
	}

	if c := s.ColorOf(3, 5, 5); c != s[0] {
		t.Errorf("empty range = %v, want first stop", c)
	}
}

func TestReverse(t *testing.T) {
	s := DefaultStops
	r := s.Reverse()

	for _, v := range []float64{0, 0.13, 0.5, 0.77, 1} {
		if a, b := r.ColorOf(v, 0, 1), s.ColorOf(1-v, 0, 1); a != b {
			t.Errorf("reversed at %v = %v, want %v", v, a, b)
		}
	}
}

func TestParseStops(t *testing.T) {
	s, err := ParseStops(DefaultStops.Hex())
	if err != nil {
		t.Fatal(err)
	}

	if s != DefaultStops {
		t.Errorf("round trip = %v, want %v", s, DefaultStops)
	}

	if _, err := ParseStops([]string{"#fff"}); err == nil {
		t.Error("expected error for short table")
	}

	if _, err := ParseHex("orange"); err == nil {
		t.Error("expected error for named color")
	}

	c, err := ParseHex("#ff8000")
	if err != nil {
		t.Fatal(err)
	}

	if c != (RGB{R: 0xff, G: 0x80}) {
		t.Errorf("ParseHex = %v", c)
	}
}

func TestShade(t *testing.T) {
	const height = 32

	if c := Shade(0, height); c != (RGB{R: 0xff}) {
		t.Errorf("top row = %v", c)
	}

	// 7 per row on a 32 row panel
	if c := Shade(10, height); c.G != 70 || c.B != 70 {
		t.Errorf("row 10 = %v, want 70", c)
	}

	for row := 1; row < height; row++ {
		if Shade(row, height).G < Shade(row-1, height).G {
			t.Fatalf("shade not monotonic at row %d", row)
		}
	}
}
