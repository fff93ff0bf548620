package panel

import (
	"context"

	"github.com/noriah/vmatrix/palette"
)

// Buffer is a pair of frames in front of a Display. Drawing goes to the back
// frame. Swap waits for the next refresh tick, shows the back frame and
// exchanges the two, handing back the previously shown frame for drawing.
type Buffer struct {
	display Display
	vsync   *VSync
	front   *Frame
	back    *Frame
}

// NewBuffer wraps disp with two frames of the size in opts.
func NewBuffer(disp Display, opts Options) *Buffer {
	return &Buffer{
		display: disp,
		vsync:   NewVSync(opts.Refresh),
		front:   NewFrame(opts.Width, opts.Height),
		back:    NewFrame(opts.Width, opts.Height),
	}
}

// Size returns the panel width and height in pixels.
func (b *Buffer) Size() (int, int) {
	return b.back.Width, b.back.Height
}

// Clear blanks the back frame.
func (b *Buffer) Clear() {
	b.back.Clear()
}

// SetPixel draws into the back frame.
func (b *Buffer) SetPixel(x, y int, c palette.RGB) {
	b.back.Set(x, y, c)
}

// Swap blocks until the next refresh tick, then presents the back frame.
// It returns early with ctx's error if ctx is done first.
func (b *Buffer) Swap(ctx context.Context) error {
	if err := b.vsync.Wait(ctx); err != nil {
		return err
	}

	b.front, b.back = b.back, b.front

	return b.display.Show(b.front)
}

// Front is the frame most recently shown.
func (b *Buffer) Front() *Frame {
	return b.front
}

// Display is the device behind the buffer.
func (b *Buffer) Display() Display {
	return b.display
}

// Start runs the display's event loop if it has one. Otherwise ctx is
// returned unchanged.
func (b *Buffer) Start(ctx context.Context) context.Context {
	if s, ok := b.display.(Starter); ok {
		return s.Start(ctx)
	}
	return ctx
}

// Close stops the refresh ticker and closes the display.
func (b *Buffer) Close() error {
	b.vsync.Stop()
	return b.display.Close()
}
