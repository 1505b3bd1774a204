package channel

import (
	"fmt"
	"strings"

	"TrendSentinel/internal/pivot"
	"TrendSentinel/internal/stats"
)

// Type selects which trend channel the direction tracker follows.
type Type string

const (
	Bollinger     Type = "BOLLINGER"
	Keltner       Type = "KELTNER"
	Donchian      Type = "DONCHIAN"
	DonchianPivot Type = "DONCHIAN_PIVOT"
)

// Value is the channel output for one bar, recomputed fresh each bar.
type Value struct {
	Middle float64
	Upper  float64
	Lower  float64
}

type computeFunc func(stats.Snapshot, pivot.Lines) Value

// registry maps each channel type to its band computation. Adding a channel
// type means adding one entry here.
var registry = map[Type]computeFunc{
	Bollinger:     bollinger,
	Keltner:       keltner,
	Donchian:      donchian,
	DonchianPivot: donchianPivot,
}

// Parse converts a config string into a channel Type.
func Parse(s string) (Type, error) {
	t := Type(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := registry[t]; !ok {
		return "", fmt.Errorf("unknown channel type %q", s)
	}
	return t, nil
}

// Compute returns the channel bands for the current bar. It is a pure
// function of the inputs.
func Compute(t Type, snap stats.Snapshot, lines pivot.Lines) (Value, error) {
	fn, ok := registry[t]
	if !ok {
		return Value{}, fmt.Errorf("unknown channel type %q", t)
	}
	return fn(snap, lines), nil
}

func bollinger(s stats.Snapshot, _ pivot.Lines) Value {
	return Value{Middle: s.SMA, Upper: s.BBUpper, Lower: s.BBLower}
}

func keltner(s stats.Snapshot, _ pivot.Lines) Value {
	return Value{Middle: s.KCMid, Upper: s.KCUpper, Lower: s.KCLower}
}

func donchian(s stats.Snapshot, _ pivot.Lines) Value {
	return Value{Middle: (s.DCHigh + s.DCLow) / 2, Upper: s.DCHigh, Lower: s.DCLow}
}

// donchianPivot runs the Donchian computation over the persisted pivot-line
// series instead of raw highs and lows. Until the first pivot of a kind is
// confirmed that bound falls back to the raw window extreme, so the value is
// defined from the first bar.
func donchianPivot(s stats.Snapshot, l pivot.Lines) Value {
	upper := s.DCHigh
	if l.HasWindowHigh {
		upper = l.WindowHigh
	}
	lower := s.DCLow
	if l.HasWindowLow {
		lower = l.WindowLow
	}
	return Value{Middle: (upper + lower) / 2, Upper: upper, Lower: lower}
}
