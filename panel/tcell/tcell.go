// Package tcell shows panel frames in a true color terminal.
package tcell

import (
	"context"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/noriah/vmatrix/palette"
	"github.com/noriah/vmatrix/panel"
	"github.com/pkg/errors"
)

// HalfBlock is drawn in every cell. The foreground is the upper pixel and
// the background the lower one.
const HalfBlock rune = '▀'

func init() {
	panel.Register("tcell", New)
}

// Display draws to a tcell screen.
type Display struct {
	screen    tcell.Screen
	closeOnce sync.Once
}

// New opens the terminal screen.
func New(opts panel.Options) (panel.Display, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create screen")
	}

	return NewWithScreen(screen)
}

// NewWithScreen initializes screen and draws to it.
func NewWithScreen(screen tcell.Screen) (*Display, error) {
	if err := screen.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to init screen")
	}

	screen.DisableMouse()
	screen.HideCursor()
	screen.Clear()

	return &Display{screen: screen}, nil
}

// Show draws frame and shows the screen.
func (d *Display) Show(frame *panel.Frame) error {
	for row := 0; row*2 < frame.Height; row++ {
		for x := 0; x < frame.Width; x++ {
			style := tcell.StyleDefault.
				Foreground(Color(frame.At(x, row*2))).
				Background(Color(frame.At(x, row*2+1)))

			d.screen.SetContent(x, row, HalfBlock, nil, style)
		}
	}

	d.screen.Show()

	return nil
}

// Start polls screen events. The returned context is cancelled when the user
// presses q or ctrl-c, or when the screen goes away.
func (d *Display) Start(ctx context.Context) context.Context {
	dispCtx, dispCancel := context.WithCancel(ctx)
	go eventPoller(dispCtx, dispCancel, d.screen)
	return dispCtx
}

// eventPoller will take events and do things with them
func eventPoller(ctx context.Context, fn context.CancelFunc, screen tcell.Screen) {
	defer fn()

	for {
		// first check if we need to exit
		select {
		case <-ctx.Done():
			return
		default:
		}

		ev := screen.PollEvent()
		if ev == nil {
			return
		}

		switch ev := ev.(type) {
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyRune:
				switch ev.Rune() {
				case 'q', 'Q':
					return
				}

			case tcell.KeyCtrlC, tcell.KeyEscape:
				return
			}

		case *tcell.EventResize:
			screen.Sync()
		}
	}
}

// Close will clean up the terminal
func (d *Display) Close() error {
	d.closeOnce.Do(d.screen.Fini)
	return nil
}

// Color converts c to a tcell true color.
func Color(c palette.RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
