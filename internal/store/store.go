package store

import (
	"time"

	"TrendSentinel/internal/model"
)

// Store caches closed bars so a restart can warm the engine up by replay
// instead of refetching history. Only bars are persisted, never signals.
type Store interface {
	SaveBars(symbol, interval string, bars []model.Bar) error
	LoadBars(symbol, interval string, limit int) ([]model.Bar, error)
	LatestTime(symbol, interval string) (time.Time, bool, error)
	Close() error
}

// NoopStore is used when SQLite is not configured.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (n *NoopStore) SaveBars(_, _ string, _ []model.Bar) error { return nil }
func (n *NoopStore) LoadBars(_, _ string, _ int) ([]model.Bar, error) {
	return nil, nil
}
func (n *NoopStore) LatestTime(_, _ string) (time.Time, bool, error) {
	return time.Time{}, false, nil
}
func (n *NoopStore) Close() error { return nil }
