// Package panel is the pixel output side of the pipeline.
//
// A Display is a concrete output device (a terminal, a websocket stream, an
// in-memory sink). A Buffer double-buffers frames in front of a Display and
// paces swaps to the configured refresh rate.
package panel

import (
	"context"
	"sort"
	"sync"

	"github.com/noriah/vmatrix/palette"
	"github.com/pkg/errors"
)

// Frame is one full panel image, row major.
type Frame struct {
	Width  int
	Height int
	Pix    []palette.RGB
}

// NewFrame returns a blank frame.
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]palette.RGB, width*height),
	}
}

// Set writes a pixel. Coordinates outside the frame are ignored.
func (f *Frame) Set(x, y int, c palette.RGB) {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return
	}
	f.Pix[y*f.Width+x] = c
}

// At reads a pixel. Coordinates outside the frame read as black.
func (f *Frame) At(x, y int) palette.RGB {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return palette.Black
	}
	return f.Pix[y*f.Width+x]
}

// Clear blanks every pixel.
func (f *Frame) Clear() {
	clear(f.Pix)
}

// Blank reports whether no pixel is lit.
func (f *Frame) Blank() bool {
	for _, c := range f.Pix {
		if c != palette.Black {
			return false
		}
	}
	return true
}

// AppendRGB appends the pixels as packed r, g, b bytes.
func (f *Frame) AppendRGB(dst []byte) []byte {
	for _, c := range f.Pix {
		dst = append(dst, c.R, c.G, c.B)
	}
	return dst
}

// Display shows finished frames.
type Display interface {
	// Show presents frame. The frame is only valid for the duration of the call.
	Show(frame *Frame) error
	// Close releases the device.
	Close() error
}

// Starter is implemented by displays that run their own event loop, such as
// a terminal listening for a quit key. Start returns a context that is
// cancelled when the display wants the program to stop.
type Starter interface {
	Start(ctx context.Context) context.Context
}

// Options configure a display when it is opened.
type Options struct {
	Width   int     // panel columns
	Height  int     // panel rows
	Refresh float64 // swap rate in Hz, 0 swaps as fast as frames arrive
	Listen  string  // listen address for network displays
}

// Opener creates a Display for opts.
type Opener func(opts Options) (Display, error)

var (
	registryMu sync.Mutex
	registry   = map[string]Opener{}
)

// Register makes a display available by name. It panics on a duplicate name.
func Register(name string, open Opener) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, dup := registry[name]; dup {
		panic("panel: Register called twice for " + name)
	}

	registry[name] = open
}

// Names lists the registered displays.
func Names() []string {
	registryMu.Lock()
	defer registryMu.Unlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// Open opens the named display and wraps it in a Buffer.
func Open(name string, opts Options) (*Buffer, error) {
	registryMu.Lock()
	open, ok := registry[name]
	registryMu.Unlock()

	if !ok {
		return nil, errors.Errorf("unknown panel %q", name)
	}

	if opts.Width < 1 || opts.Height < 1 {
		return nil, errors.Errorf("invalid panel size %dx%d", opts.Width, opts.Height)
	}

	disp, err := open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open panel %s", name)
	}

	return NewBuffer(disp, opts), nil
}
