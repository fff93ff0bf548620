package dsp

import "github.com/pkg/errors"

// EnvelopeState is the peak record of one column.
type EnvelopeState struct {
	PeakY       int // row of the most recent peak, lower is louder
	FallCounter int // frames left before the peak drops one row
}

// Envelope tracks a fast-attack, slow-decay peak marker per column, like the
// peak hold on a VU meter.
type Envelope struct {
	states    []EnvelopeState
	floor     int
	fallDelay int
}

// NewEnvelope allocates one state per column, all resting on floor (the
// bottom row). The peak falls one row every fallDelay frames.
func NewEnvelope(columns, floor, fallDelay int) (*Envelope, error) {
	switch {
	case columns < 1:
		return nil, errors.Errorf("envelope needs at least one column (%d)", columns)
	case floor < 0:
		return nil, errors.Errorf("envelope floor must not be negative (%d)", floor)
	case fallDelay < 1:
		return nil, errors.Errorf("fall delay must be at least 1 (%d)", fallDelay)
	}

	env := &Envelope{
		states:    make([]EnvelopeState, columns),
		floor:     floor,
		fallDelay: fallDelay,
	}

	for idx := range env.states {
		env.states[idx] = EnvelopeState{PeakY: floor, FallCounter: fallDelay}
	}

	return env, nil
}

// Update feeds column idx its current row and returns the new peak row.
//
// A row above the peak takes the peak immediately and restarts the fall
// delay. Otherwise, even for a row equal to the peak, the delay counts down and the peak drops exactly one row
// when it runs out. The peak never goes below the floor.
func (env *Envelope) Update(idx, y int) int {
	st := &env.states[idx]

	if y < 0 {
		y = 0
	}

	if y < st.PeakY {
		st.PeakY = y
		st.FallCounter = env.fallDelay
		return st.PeakY
	}

	if st.FallCounter--; st.FallCounter <= 0 {
		st.PeakY++
		st.FallCounter = env.fallDelay
	}

	if st.PeakY > env.floor {
		st.PeakY = env.floor
	}

	return st.PeakY
}

// Peak returns the current peak row of column idx.
func (env *Envelope) Peak(idx int) int {
	return env.states[idx].PeakY
}

// Resting reports whether column idx has no peak above the floor.
func (env *Envelope) Resting(idx int) bool {
	return env.states[idx].PeakY >= env.floor
}

// State returns a copy of column idx's record.
func (env *Envelope) State(idx int) EnvelopeState {
	return env.states[idx]
}

// Len is the number of columns.
func (env *Envelope) Len() int {
	return len(env.states)
}
