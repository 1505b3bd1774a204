package model

import "time"

// Bar represents a single candlestick bar. Bars are immutable once produced
// by a feed and are consumed exactly once per engine step.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}
