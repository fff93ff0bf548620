package tcell

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/noriah/vmatrix/palette"
	"github.com/noriah/vmatrix/panel"
)

func newSim(t *testing.T) (*Display, tcell.SimulationScreen) {
	t.Helper()

	sim := tcell.NewSimulationScreen("UTF-8")

	d, err := NewWithScreen(sim)
	if err != nil {
		t.Fatal(err)
	}

	sim.SetSize(8, 4)
	t.Cleanup(func() { d.Close() })

	return d, sim
}

func TestShowHalfBlocks(t *testing.T) {
	d, sim := newSim(t)

	top := palette.RGB{R: 200, G: 10, B: 30}
	bottom := palette.RGB{B: 0xff}

	frame := panel.NewFrame(2, 4)
	frame.Set(1, 2, top)
	frame.Set(1, 3, bottom)

	if err := d.Show(frame); err != nil {
		t.Fatal(err)
	}

	r, _, style, _ := sim.GetContent(1, 1)
	if r != HalfBlock {
		t.Fatalf("cell rune = %q, want half block", r)
	}

	fg, bg, _ := style.Decompose()
	if fg != Color(top) || bg != Color(bottom) {
		t.Errorf("cell colors = %v/%v, want %v/%v", fg, bg, Color(top), Color(bottom))
	}
}

func TestQuitKey(t *testing.T) {
	d, sim := newSim(t)

	ctx := d.Start(context.Background())

	sim.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("q did not stop the display")
	}
}
