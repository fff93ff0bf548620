package dsp

// History is a fixed-size scrolling grid of columns, each depth values deep.
//
// The grid is one flat slice holding the newest column first. Scrolling moves
// the first width-1 columns back by one and writes the new column at the front,
// so the oldest column falls off the end.
type History struct {
	data  []float64
	width int
	depth int
	count int
}

// NewHistory allocates a zeroed width x depth grid.
func NewHistory(width, depth int) *History {
	if width < 0 {
		width = 0
	}
	if depth < 0 {
		depth = 0
	}

	return &History{
		data:  make([]float64, width*depth),
		width: width,
		depth: depth,
	}
}

// Scroll pushes col as the newest column. Short columns are zero-filled and
// long ones truncated to depth.
func (h *History) Scroll(col []float64) {
	if h.width == 0 || h.depth == 0 {
		return
	}

	copy(h.data[h.depth:], h.data[:(h.width-1)*h.depth])

	front := h.data[:h.depth]
	n := copy(front, col)
	clear(front[n:])

	if h.count < h.width {
		h.count++
	}
}

// Column returns column t where 0 is the oldest and Width()-1 the newest. The
// slice aliases the grid and is only valid until the next Scroll.
func (h *History) Column(t int) []float64 {
	start := (h.width - 1 - t) * h.depth
	return h.data[start : start+h.depth : start+h.depth]
}

// At returns the value at time t (0 oldest) and depth index f.
func (h *History) At(t, f int) float64 {
	return h.data[(h.width-1-t)*h.depth+f]
}

// Width is the number of columns kept.
func (h *History) Width() int {
	return h.width
}

// Depth is the number of values per column.
func (h *History) Depth() int {
	return h.depth
}

// Len is the number of columns pushed so far, capped at Width.
func (h *History) Len() int {
	return h.count
}
