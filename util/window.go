package util

import (
	"math"
	"time"
)

// MovingWindow keeps running statistics over the last Cap() values.
//
// Values live in a fixed ring. Sum and sum of squares are kept incrementally
// so every update is O(1).
type MovingWindow struct {
	ring []float64
	head int // next slot to write
	size int // valid values in ring

	sum   float64
	sumSq float64

	average float64
	stddev  float64
}

// NewMovingWindow returns a new moving window.
func NewMovingWindow(size int) *MovingWindow {
	if size < 1 {
		size = 1
	}

	return &MovingWindow{
		ring: make([]float64, size),
	}
}

func (mw *MovingWindow) calcFinal() (float64, float64) {
	if mw.size > 0 {
		mw.average = mw.sum / float64(mw.size)
	} else {
		mw.average = 0
	}

	if mw.size > 1 {
		n := float64(mw.size)
		variance := (mw.sumSq - n*mw.average*mw.average) / (n - 1)
		// drift can leave a tiny negative
		mw.stddev = math.Sqrt(math.Max(variance, 0))
	} else {
		mw.stddev = 0
	}

	return mw.average, mw.stddev
}

// Update adds value, evicting the oldest when full, and returns the new mean
// and standard deviation.
func (mw *MovingWindow) Update(value float64) (float64, float64) {
	if mw.size == len(mw.ring) {
		old := mw.ring[mw.head]
		mw.sum -= old
		mw.sumSq -= old * old
	} else {
		mw.size++
	}

	mw.ring[mw.head] = value
	mw.head = (mw.head + 1) % len(mw.ring)

	mw.sum += value
	mw.sumSq += value * value

	return mw.calcFinal()
}

// UpdateDuration is Update for a duration measured in seconds.
func (mw *MovingWindow) UpdateDuration(d time.Duration) (float64, float64) {
	return mw.Update(d.Seconds())
}

// Drop removes the count oldest items from the window
func (mw *MovingWindow) Drop(count int) (float64, float64) {
	for ; count > 0 && mw.size > 0; count-- {
		tail := (mw.head - mw.size + len(mw.ring)) % len(mw.ring)
		old := mw.ring[tail]

		mw.sum -= old
		mw.sumSq -= old * old
		mw.size--
	}

	// clear rounding leftovers once empty
	if mw.size == 0 {
		mw.sum = 0
		mw.sumSq = 0
	}

	return mw.calcFinal()
}

// Len returns how many items in the window
func (mw *MovingWindow) Len() int {
	return mw.size
}

// Cap returns max size of window
func (mw *MovingWindow) Cap() int {
	return len(mw.ring)
}

// Mean is the moving window average
func (mw *MovingWindow) Mean() float64 {
	return mw.average
}

// StdDev is the moving window standard deviation
func (mw *MovingWindow) StdDev() float64 {
	return mw.stddev
}

// Stats returns the statistics of this window
func (mw *MovingWindow) Stats() (float64, float64) {
	return mw.average, mw.stddev
}
