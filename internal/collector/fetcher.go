package collector

import "TrendSentinel/internal/model"

// Fetcher defines the interface for fetching candle data.
type Fetcher interface {
	// FetchBars returns up to limit most recent bars for the symbol and
	// interval in chronological order, including the still-forming bar.
	FetchBars(symbol, interval string, limit int) ([]model.Bar, error)
	FetchCurrentPrice(symbol string) (float64, error)
	Name() string
}
