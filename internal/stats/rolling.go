package stats

import (
	"errors"
	"fmt"

	"TrendSentinel/internal/model"
)

// ErrInsufficientData is returned by diagnostic queries made before any bar
// has been consumed. The streaming Update path never returns it: values are
// computed over whatever partial window exists and the caller decides when
// they are actionable.
var ErrInsufficientData = errors.New("not enough bars")

// Snapshot holds every rolling statistic for the current bar.
type Snapshot struct {
	ATR     float64
	SMA     float64
	StdDev  float64
	BBUpper float64
	BBLower float64
	KCMid   float64
	KCUpper float64
	KCLower float64
	DCHigh  float64
	DCLow   float64
}

// Rolling maintains all windowed statistics for a single bar stream:
// Wilder ATR, Bollinger SMA/stddev bands, Keltner EMA midline with an ATR
// band, and Donchian window extremes. State is mutated in place once per bar.
type Rolling struct {
	length int
	bbMult float64

	atr    *ATR
	closes *window
	highs  *window
	lows   *window

	ema      float64
	emaAlpha float64

	count int
	snap  Snapshot
}

// NewRolling creates the rolling statistics state. length is the channel
// window, atrPeriod the ATR smoothing period, bbMult the Bollinger stddev
// multiplier.
func NewRolling(length, atrPeriod int, bbMult float64) (*Rolling, error) {
	if length <= 0 {
		return nil, fmt.Errorf("window length must be positive, got %d", length)
	}
	if bbMult <= 0 {
		return nil, fmt.Errorf("bollinger multiplier must be positive, got %g", bbMult)
	}
	atr, err := NewATR(atrPeriod)
	if err != nil {
		return nil, err
	}
	return &Rolling{
		length:   length,
		bbMult:   bbMult,
		atr:      atr,
		closes:   newWindow(length),
		highs:    newWindow(length),
		lows:     newWindow(length),
		emaAlpha: 2.0 / (float64(length) + 1.0),
	}, nil
}

// Update consumes one bar and returns the refreshed snapshot.
func (r *Rolling) Update(b model.Bar) Snapshot {
	r.closes.Push(b.Close)
	r.highs.Push(b.High)
	r.lows.Push(b.Low)

	atr := r.atr.Update(b)

	if r.count == 0 {
		r.ema = b.Close
	} else {
		r.ema += r.emaAlpha * (b.Close - r.ema)
	}
	r.count++

	sma := r.closes.Mean()
	sd := r.closes.StdDev()

	r.snap = Snapshot{
		ATR:     atr,
		SMA:     sma,
		StdDev:  sd,
		BBUpper: sma + r.bbMult*sd,
		BBLower: sma - r.bbMult*sd,
		KCMid:   r.ema,
		KCUpper: r.ema + atr,
		KCLower: r.ema - atr,
		DCHigh:  r.highs.Max(),
		DCLow:   r.lows.Min(),
	}
	return r.snap
}

// Last returns the snapshot for the most recent bar. Before the first bar it
// returns ErrInsufficientData.
func (r *Rolling) Last() (Snapshot, error) {
	if r.count == 0 {
		return Snapshot{}, ErrInsufficientData
	}
	return r.snap, nil
}

// Count returns how many bars have been consumed.
func (r *Rolling) Count() int { return r.count }

// WarmedUp reports whether the full window and ATR period have both elapsed.
func (r *Rolling) WarmedUp() bool {
	return r.count >= r.length && r.count >= r.atr.period
}
