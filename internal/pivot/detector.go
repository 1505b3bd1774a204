package pivot

import (
	"errors"
	"math"

	"TrendSentinel/internal/model"
)

// Kind classifies a pivot as a local high or local low.
type Kind int

const (
	High Kind = iota
	Low
)

func (k Kind) String() string {
	if k == Low {
		return "LOW"
	}
	return "HIGH"
}

// Relation classifies a confirmed pivot against the prior pivot of the same
// kind. RelationNone means no prior pivot existed at comparison time.
type Relation int

const (
	RelationNone Relation = iota
	Higher
	Lower
)

// Record is a confirmed pivot. Index is the absolute bar index of the
// candidate bar, which precedes confirmation by exactly 2*lookback bars.
type Record struct {
	Index    int
	Price    float64
	Kind     Kind
	Relation Relation
}

// Lines carries the persisted pivot-line values: the last confirmed pivot
// price of each kind, plus windowed extremes of those line series used by
// the pivot-based Donchian channel.
type Lines struct {
	High          float64
	Low           float64
	HasHigh       bool
	HasLow        bool
	WindowHigh    float64
	WindowLow     float64
	HasWindowHigh bool
	HasWindowLow  bool
}

// Detector finds confirmed local extremes in a streaming bar series.
//
// A candidate bar is a pivot high when its high strictly dominates every bar
// in the symmetric lookback window on both sides; equal extremes disqualify
// it. Confirmation happens exactly 2*lookback bars after the candidate.
//
// Higher/lower classification compares the new pivot's price against the
// pivot-line value as it stood at the candidate bar, not against the prior
// pivot's raw price. When the prior pivot confirmed inside that lag the two
// differ.
type Detector struct {
	lookback   int
	lineWindow int

	highs []float64
	lows  []float64
	count int

	highLine    float64
	lowLine     float64
	hasHighLine bool
	hasLowLine  bool

	highHist []float64
	lowHist  []float64
}

// NewDetector creates a detector. lookback is the symmetric window radius;
// lineWindow is how many per-bar line values to retain for windowed extremes
// (the channel length, typically).
func NewDetector(lookback, lineWindow int) (*Detector, error) {
	if lookback <= 0 {
		return nil, errors.New("pivot lookback must be positive")
	}
	if lineWindow <= 0 {
		return nil, errors.New("pivot line window must be positive")
	}
	return &Detector{lookback: lookback, lineWindow: lineWindow}, nil
}

// Update consumes one bar and returns the pivot high and/or pivot low that
// became confirmed on this bar, nil when none did.
func (d *Detector) Update(b model.Bar) (high, low *Record) {
	bufCap := 3*d.lookback + 1
	d.highs = pushCapped(d.highs, b.High, bufCap)
	d.lows = pushCapped(d.lows, b.Low, bufCap)
	t := d.count
	d.count++

	if len(d.highs) == bufCap {
		c := t - 2*d.lookback
		if price, ok := dominates(d.highs, d.lookback, func(cand, other float64) bool { return cand > other }); ok {
			high = &Record{
				Index:    c,
				Price:    price,
				Kind:     High,
				Relation: classify(price, d.laggedLine(d.highHist)),
			}
			d.highLine = price
			d.hasHighLine = true
		}
		if price, ok := dominates(d.lows, d.lookback, func(cand, other float64) bool { return cand < other }); ok {
			low = &Record{
				Index:    c,
				Price:    price,
				Kind:     Low,
				Relation: classify(price, d.laggedLine(d.lowHist)),
			}
			d.lowLine = price
			d.hasLowLine = true
		}
	}

	histCap := d.lineWindow
	if min := 2 * d.lookback; histCap < min {
		histCap = min
	}
	d.highHist = pushCapped(d.highHist, lineOrNaN(d.highLine, d.hasHighLine), histCap)
	d.lowHist = pushCapped(d.lowHist, lineOrNaN(d.lowLine, d.hasLowLine), histCap)

	return high, low
}

// Lines returns the current pivot-line values and their windowed extremes.
func (d *Detector) Lines() Lines {
	l := Lines{
		High:    d.highLine,
		Low:     d.lowLine,
		HasHigh: d.hasHighLine,
		HasLow:  d.hasLowLine,
	}
	l.WindowHigh, l.HasWindowHigh = windowExtreme(d.highHist, d.lineWindow, math.Max)
	l.WindowLow, l.HasWindowLow = windowExtreme(d.lowHist, d.lineWindow, math.Min)
	return l
}

// laggedLine returns the line value as of the candidate bar, 2*lookback bars
// before the current one. NaN when no value existed then.
func (d *Detector) laggedLine(hist []float64) float64 {
	lag := 2 * d.lookback
	if len(hist) < lag {
		return math.NaN()
	}
	return hist[len(hist)-lag]
}

func classify(price, lagged float64) Relation {
	if math.IsNaN(lagged) {
		return RelationNone
	}
	if price > lagged {
		return Higher
	}
	return Lower
}

// dominates checks strict dominance of the candidate (at offset lookback in
// buf) over the lookback bars on each side. Bars past the right window exist
// only to realize the confirmation lag and are not checked.
func dominates(buf []float64, lookback int, more func(cand, other float64) bool) (float64, bool) {
	cand := buf[lookback]
	for j := 0; j < lookback; j++ {
		if !more(cand, buf[j]) {
			return 0, false
		}
	}
	for j := lookback + 1; j <= 2*lookback; j++ {
		if !more(cand, buf[j]) {
			return 0, false
		}
	}
	return cand, true
}

func windowExtreme(hist []float64, n int, pick func(a, b float64) float64) (float64, bool) {
	if n > len(hist) {
		n = len(hist)
	}
	found := false
	var extreme float64
	for _, v := range hist[len(hist)-n:] {
		if math.IsNaN(v) {
			continue
		}
		if !found {
			extreme = v
			found = true
		} else {
			extreme = pick(extreme, v)
		}
	}
	return extreme, found
}

func pushCapped(buf []float64, v float64, max int) []float64 {
	buf = append(buf, v)
	if len(buf) > max {
		buf = buf[len(buf)-max:]
	}
	return buf
}

func lineOrNaN(v float64, ok bool) float64 {
	if !ok {
		return math.NaN()
	}
	return v
}
