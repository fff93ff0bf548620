package pacer

import (
	"context"
	"testing"
	"time"

	"github.com/noriah/vmatrix/input"
)

func TestPeriod(t *testing.T) {
	cfg := input.SessionConfig{SampleRate: 44100, SampleSize: 441}

	if p := Period(cfg); p != 10*time.Millisecond {
		t.Errorf("Period = %v, want 10ms", p)
	}

	if p := Period(input.SessionConfig{}); p != 0 {
		t.Errorf("empty Period = %v, want 0", p)
	}
}

func TestWait(t *testing.T) {
	p := New(input.SessionConfig{SampleRate: 1000, SampleSize: 10})
	defer p.Stop()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := p.Wait(context.Background()); err != nil {
			t.Fatal(err)
		}
	}

	if elapsed := time.Since(start); elapsed < 25*time.Millisecond {
		t.Errorf("3 blocks of 10ms took %v", elapsed)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := p.Wait(ctx); err == nil {
		t.Error("wait on a cancelled context should fail")
	}

	fast := New(input.SessionConfig{SampleRate: 1, SampleSize: 1000, Unpaced: true})
	if err := fast.Wait(context.Background()); err != nil {
		t.Error(err)
	}
}
