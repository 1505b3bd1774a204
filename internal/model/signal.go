package model

import "time"

// SignalType is the discrete per-bar trading signal.
type SignalType string

const (
	SignalNone SignalType = "NONE"
	SignalBuy  SignalType = "BUY"
	SignalSell SignalType = "SELL"
)

// Direction is the trend tracker's persistent directional state.
type Direction int

const (
	Long  Direction = 1
	Short Direction = -1
)

func (d Direction) String() string {
	if d == Short {
		return "SHORT"
	}
	return "LONG"
}

// BarResult is the engine's output for a single bar. It is recomputed every
// bar and never retained by the engine.
type BarResult struct {
	Time         time.Time
	Signal       SignalType
	Direction    Direction
	TrailingStop float64 // channel trailing stop for the held side
	UtStop       float64 // UT-Bot trailing stop line
	Close        float64
}

// PositionState tracks the bot's notional side across restarts so that
// replayed bars don't re-trigger alerts.
type PositionState struct {
	Symbol      string     `json:"symbol"`
	Side        string     `json:"side"` // "LONG", "SHORT" or "" when flat
	EntryPrice  float64    `json:"entry_price"`
	EntryTime   time.Time  `json:"entry_time"`
	LastBarTime time.Time  `json:"last_bar_time"`
	LastSignal  SignalType `json:"last_signal"`
	SignalsSeen int        `json:"signals_seen"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
