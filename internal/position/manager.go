package position

import (
	"log"
	"sync"
	"time"

	"TrendSentinel/internal/model"
)

// Manager tracks the bot's notional side across restarts with concurrency
// safety. It decides which signals deserve an alert: a BUY is alerted only
// when not already long, a SELL only when not already short, and bars at or
// before the last processed time are ignored so warm-up replay stays silent.
type Manager struct {
	mu       sync.Mutex
	state    *model.PositionState
	filePath string
}

// NewManager creates a Manager, loading or initializing state from disk.
func NewManager(filePath, symbol string) (*Manager, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, err
	}
	if state.Symbol == "" {
		state.Symbol = symbol
	}
	m := &Manager{state: state, filePath: filePath}
	if err := m.save(); err != nil {
		return nil, err
	}
	return m, nil
}

// GetState returns a copy of the current position state.
func (m *Manager) GetState() model.PositionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.state
}

// LastBarTime returns the newest bar time already processed.
func (m *Manager) LastBarTime() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.LastBarTime
}

// Apply records one bar result and reports whether it should be alerted.
// Already-seen bars never alert; duplicate same-side signals never alert.
func (m *Manager) Apply(res model.BarResult) (alert bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fresh := res.Time.After(m.state.LastBarTime)
	if fresh {
		m.state.LastBarTime = res.Time
	}

	switch res.Signal {
	case model.SignalBuy:
		if fresh && m.state.Side != "LONG" {
			alert = true
		}
		m.state.Side = "LONG"
		m.state.EntryPrice = res.Close
		m.state.EntryTime = res.Time
		m.state.LastSignal = res.Signal
		m.state.SignalsSeen++
	case model.SignalSell:
		if fresh && m.state.Side != "SHORT" {
			alert = true
		}
		m.state.Side = "SHORT"
		m.state.EntryPrice = res.Close
		m.state.EntryTime = res.Time
		m.state.LastSignal = res.Signal
		m.state.SignalsSeen++
	}

	if err := m.save(); err != nil {
		log.Printf("[ERROR] failed to save position state: %v", err)
	}
	return alert
}

func (m *Manager) save() error {
	return SaveState(m.filePath, m.state)
}
