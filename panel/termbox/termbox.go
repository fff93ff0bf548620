// Package termbox shows panel frames in a 256 color terminal.
//
// Every terminal cell holds two panel rows using an upper half block: the
// foreground is the upper pixel and the background the lower one.
package termbox

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/noriah/vmatrix/palette"
	"github.com/noriah/vmatrix/panel"
	tb "github.com/nsf/termbox-go"
	"github.com/pkg/errors"
)

// HalfBlock is the rune drawn in every cell.
const HalfBlock rune = '▀'

func init() {
	panel.Register("termbox", New)
}

// Display draws to the terminal through termbox.
type Display struct {
	restore func()

	cancel    context.CancelFunc
	closeOnce sync.Once
}

// New initializes termbox in 256 color mode.
func New(opts panel.Options) (panel.Display, error) {
	restore, err := normalizeTerminal()
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare terminal")
	}

	if err := tb.Init(); err != nil {
		restore()
		return nil, errors.Wrap(err, "failed to init termbox")
	}

	tb.SetOutputMode(tb.Output256)
	tb.HideCursor()

	return &Display{restore: restore}, nil
}

// Show draws frame and flushes the terminal.
func (d *Display) Show(frame *panel.Frame) error {
	for row := 0; row*2 < frame.Height; row++ {
		for x := 0; x < frame.Width; x++ {
			top := frame.At(x, row*2)
			bottom := frame.At(x, row*2+1)

			tb.SetCell(x, row, HalfBlock, Attribute(top), Attribute(bottom))
		}
	}

	return tb.Flush()
}

// Start polls terminal events. The returned context is cancelled when the
// user presses q, Esc or ctrl-c.
func (d *Display) Start(ctx context.Context) context.Context {
	dispCtx, dispCancel := context.WithCancel(ctx)
	d.cancel = dispCancel

	go eventPoller(dispCtx, dispCancel)

	return dispCtx
}

func eventPoller(ctx context.Context, fn context.CancelFunc) {
	defer fn()

	for {
		ev := tb.PollEvent()

		select {
		case <-ctx.Done():
			return
		default:
		}

		switch ev.Type {
		case tb.EventKey:
			switch {
			case ev.Ch == 'q', ev.Ch == 'Q':
				return
			case ev.Key == tb.KeyCtrlC, ev.Key == tb.KeyEsc:
				return
			}

		case tb.EventInterrupt, tb.EventError:
			return
		}
	}
}

// Close restores the terminal.
func (d *Display) Close() error {
	d.closeOnce.Do(func() {
		if d.cancel != nil {
			d.cancel()
			tb.Interrupt()
		}

		tb.Close()
		d.restore()
	})

	return nil
}

// Attribute maps c onto the 6x6x6 color cube of a 256 color terminal.
func Attribute(c palette.RGB) tb.Attribute {
	idx := 16 + 36*cubeLevel(c.R) + 6*cubeLevel(c.G) + cubeLevel(c.B)
	// termbox reserves 0 for the default color
	return tb.Attribute(idx + 1)
}

// cubeLevel picks the nearest of the xterm cube steps 0, 95, 135, 175, 215, 255.
func cubeLevel(v uint8) int {
	switch {
	case v < 48:
		return 0
	case v < 115:
		return 1
	}
	return (int(v) - 35) / 40
}

// normalizeTerminal looks for incompatibilities in the terminal configuration
// with termbox and makes some adjustments to avoid problems.
//
// Returns a function that allows you to restore the terminal configuration to
// its original state.
func normalizeTerminal() (func(), error) {
	prevTERMINFO, had := os.LookupEnv("TERMINFO")

	if strings.HasPrefix(os.Getenv("TERM"), "tmux") {
		// Some combinations of TERMINFO with TERM in some Tmux value
		// will cause Termbox to fail.
		if err := os.Unsetenv("TERMINFO"); err != nil {
			return nil, err
		}
	}

	restore := func() {
		if had {
			os.Setenv("TERMINFO", prevTERMINFO)
		}
	}

	return restore, nil
}
