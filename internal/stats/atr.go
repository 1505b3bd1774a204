package stats

import (
	"errors"
	"math"

	"TrendSentinel/internal/model"
)

// ATR computes the Average True Range with Wilder's recursive smoothing:
// ATR_t = (ATR_{t-1}*(P-1) + TR_t) / P. The first bar seeds TR = high-low
// and ATR = TR, so the value is defined from the very first update.
type ATR struct {
	period    int
	value     float64
	prevClose float64
	count     int
}

// NewATR creates an ATR state. The period must be positive.
func NewATR(period int) (*ATR, error) {
	if period <= 0 {
		return nil, errors.New("atr period must be positive")
	}
	return &ATR{period: period}, nil
}

// Update consumes one bar and returns the new ATR value.
func (a *ATR) Update(b model.Bar) float64 {
	tr := b.High - b.Low
	if a.count > 0 {
		tr = math.Max(tr, math.Max(
			math.Abs(b.High-a.prevClose),
			math.Abs(b.Low-a.prevClose)))
	}
	if a.count == 0 {
		a.value = tr
	} else {
		a.value = (a.value*float64(a.period-1) + tr) / float64(a.period)
	}
	a.prevClose = b.Close
	a.count++
	return a.value
}

// Value returns the current ATR.
func (a *ATR) Value() float64 { return a.value }

// Count returns how many bars have been consumed.
func (a *ATR) Count() int { return a.count }
