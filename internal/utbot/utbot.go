package utbot

import (
	"errors"
	"math"

	"TrendSentinel/internal/model"
	"TrendSentinel/internal/stats"
)

// Event reports whether the smoothed source line crossed the trailing stop
// on this bar. A cross requires the line to sit on the opposite side on the
// previous bar; touching the stop exactly does not count as being above it.
type Event int

const (
	NoCross Event = iota
	CrossAbove
	CrossBelow
)

// UtBot is the ATR-based trailing stop computed directly from the source
// price, independent of the trend channel. Its stop ratchets favorably while
// the source stays on one side and re-anchors when the source crosses it.
type UtBot struct {
	key float64
	atr *stats.ATR

	stop    float64
	prevSrc float64
	seeded  bool
}

// New creates a UT-Bot state. key is the ATR sensitivity multiplier.
func New(key float64, atrPeriod int) (*UtBot, error) {
	if key <= 0 {
		return nil, errors.New("utbot key must be positive")
	}
	atr, err := stats.NewATR(atrPeriod)
	if err != nil {
		return nil, err
	}
	return &UtBot{key: key, atr: atr}, nil
}

// Update consumes one bar plus its source price (close, or the Heikin-Ashi
// close when smoothing is enabled) and returns the new trailing stop and any
// crossover event.
func (u *UtBot) Update(b model.Bar, src float64) (float64, Event) {
	nLoss := u.key * u.atr.Update(b)

	if !u.seeded {
		// First bar: anchor below the source, no crossover possible yet.
		u.stop = src - nLoss
		u.prevSrc = src
		u.seeded = true
		return u.stop, NoCross
	}

	prevStop := u.stop
	prevSrc := u.prevSrc

	switch {
	case src > prevStop && prevSrc > prevStop:
		u.stop = math.Max(prevStop, src-nLoss)
	case src < prevStop && prevSrc < prevStop:
		u.stop = math.Min(prevStop, src+nLoss)
	case src > prevStop:
		u.stop = src - nLoss
	default:
		u.stop = src + nLoss
	}

	ev := NoCross
	if src > u.stop && prevSrc <= prevStop {
		ev = CrossAbove
	} else if src < u.stop && prevSrc >= prevStop {
		ev = CrossBelow
	}

	u.prevSrc = src
	return u.stop, ev
}

// Stop returns the current trailing stop value.
func (u *UtBot) Stop() float64 { return u.stop }
