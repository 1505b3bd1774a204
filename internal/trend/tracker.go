package trend

import (
	"errors"
	"math"

	"TrendSentinel/internal/channel"
	"TrendSentinel/internal/model"
)

// State is the tracker's output for one bar.
type State struct {
	Dir       model.Direction
	LongStop  float64
	ShortStop float64
	Flipped   bool
}

// Stop returns the publicly displayed trailing stop for the held side.
func (s State) Stop() float64 {
	if s.Dir == model.Short {
		return s.ShortStop
	}
	return s.LongStop
}

// Tracker maintains the persistent trend direction and its ratcheting stop
// levels derived from channel bounds and ATR.
//
// While a side is held its stop only moves favorably: the long stop never
// decreases while LONG, the short stop never increases while SHORT. The idle
// side's stop tracks the raw channel bound without ratcheting. The instant
// direction flips both stops reset to the fresh channel-derived values.
// Flip decisions always read the stop values frozen from the previous bar,
// never the ones recomputed during the current update.
type Tracker struct {
	mult     float64
	useWicks bool

	dir       model.Direction
	longStop  float64
	shortStop float64
	seeded    bool
}

// NewTracker creates a tracker. mult scales the ATR offset applied to the
// channel bounds; useWicks selects high/low rather than close for breakout
// tests.
func NewTracker(mult float64, useWicks bool) (*Tracker, error) {
	if mult <= 0 {
		return nil, errors.New("atr multiplier must be positive")
	}
	return &Tracker{mult: mult, useWicks: useWicks}, nil
}

// Update advances the tracker by one bar. The channel value and ATR must
// belong to the same bar.
func (t *Tracker) Update(b model.Bar, ch channel.Value, atr float64) State {
	rawLong := ch.Lower - atr*t.mult
	rawShort := ch.Upper + atr*t.mult

	if !t.seeded {
		// First bar: LONG by convention, stops at the unshifted raw bounds.
		t.dir = model.Long
		t.longStop = rawLong
		t.shortStop = rawShort
		t.seeded = true
		return State{Dir: t.dir, LongStop: t.longStop, ShortStop: t.shortStop}
	}

	prevDir := t.dir
	prevLong := t.longStop
	prevShort := t.shortStop

	breakUp := b.Close
	breakDown := b.Close
	if t.useWicks {
		breakUp = b.High
		breakDown = b.Low
	}

	newDir := prevDir
	if prevDir == model.Short && breakUp >= prevShort {
		newDir = model.Long
	} else if prevDir == model.Long && breakDown <= prevLong {
		newDir = model.Short
	}

	if newDir != prevDir {
		t.longStop = rawLong
		t.shortStop = rawShort
	} else if newDir == model.Long {
		t.longStop = math.Max(rawLong, prevLong)
		t.shortStop = rawShort
	} else {
		t.shortStop = math.Min(rawShort, prevShort)
		t.longStop = rawLong
	}
	t.dir = newDir

	return State{
		Dir:       t.dir,
		LongStop:  t.longStop,
		ShortStop: t.shortStop,
		Flipped:   newDir != prevDir,
	}
}
