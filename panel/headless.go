package panel

import "sync"

func init() {
	Register("headless", func(opts Options) (Display, error) {
		return NewHeadless(opts.Width, opts.Height), nil
	})
}

// Headless keeps the last shown frame in memory. It is useful for tests and
// benchmarking the pipeline without a device.
type Headless struct {
	mu     sync.Mutex
	last   *Frame
	shown  int
	closed bool
}

// NewHeadless returns a headless display for a width x height panel.
func NewHeadless(width, height int) *Headless {
	return &Headless{last: NewFrame(width, height)}
}

// Show copies frame.
func (h *Headless) Show(frame *Frame) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.last.Width, h.last.Height = frame.Width, frame.Height
	h.last.Pix = append(h.last.Pix[:0], frame.Pix...)
	h.shown++

	return nil
}

// Last returns a copy of the most recently shown frame.
func (h *Headless) Last() *Frame {
	h.mu.Lock()
	defer h.mu.Unlock()

	f := NewFrame(h.last.Width, h.last.Height)
	copy(f.Pix, h.last.Pix)
	return f
}

// Shown is the number of frames shown so far.
func (h *Headless) Shown() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.shown
}

// Closed reports whether Close was called.
func (h *Headless) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

func (h *Headless) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return nil
}
