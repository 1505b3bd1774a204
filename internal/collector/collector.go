package collector

import (
	"fmt"
	"math"
	"time"

	"TrendSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64
	Bars  []model.Bar
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(_, _ string, limit int) ([]model.Bar, error) {
	if m.Bars != nil {
		if len(m.Bars) > limit {
			return m.Bars[len(m.Bars)-limit:], nil
		}
		return m.Bars, nil
	}
	return GenerateBars(m.Price, limit, time.Hour), nil
}

func (m *MockFetcher) FetchCurrentPrice(_ string) (float64, error) {
	return m.Price, nil
}

// GenerateBars produces a synthetic gently oscillating bar series ending at
// the current time, spaced by step.
func GenerateBars(basePrice float64, count int, step time.Duration) []model.Bar {
	bars := make([]model.Bar, count)
	start := time.Now().Add(-time.Duration(count) * step).Truncate(step)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + 0.01*math.Sin(float64(i)/7))
		bars[i] = model.Bar{
			Time:   start.Add(time.Duration(i) * step),
			Open:   p * 0.999,
			High:   p * 1.004,
			Low:    p * 0.996,
			Close:  p,
			Volume: 1000,
		}
	}
	return bars
}

// Collector fetches closed candles for one symbol and interval.
type Collector struct {
	Fetcher  Fetcher
	Symbol   string
	Interval string
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, symbol, interval string) *Collector {
	return &Collector{Fetcher: fetcher, Symbol: symbol, Interval: interval}
}

// Collect fetches the most recent closed bars in chronological order. The
// newest bar the exchange returns is still forming and is dropped.
func (c *Collector) Collect(limit int) ([]model.Bar, error) {
	bars, err := c.Fetcher.FetchBars(c.Symbol, c.Interval, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	if len(bars) > 0 {
		bars = bars[:len(bars)-1]
	}
	return bars, nil
}

// NewBarsSince filters bars to those strictly after the given time.
func NewBarsSince(bars []model.Bar, after time.Time) []model.Bar {
	out := bars[:0:0]
	for _, b := range bars {
		if b.Time.After(after) {
			out = append(out, b)
		}
	}
	return out
}
