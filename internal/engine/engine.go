package engine

import (
	"errors"
	"fmt"

	"TrendSentinel/internal/channel"
	"TrendSentinel/internal/model"
	"TrendSentinel/internal/pivot"
	"TrendSentinel/internal/stats"
	"TrendSentinel/internal/trend"
	"TrendSentinel/internal/utbot"
)

// ErrOutOfOrderBar is returned when a bar's timestamp does not strictly
// exceed the previous bar's. All ratcheting and pivot logic assumes
// monotonic time, so the offending update mutates nothing.
var ErrOutOfOrderBar = errors.New("bar timestamp does not advance")

// Params configures one engine instance. All values are fixed for the
// lifetime of the stream.
type Params struct {
	UtBotKey             float64
	AtrPeriodUtBot       int
	UseHeikinAshiSource  bool
	ChannelType          channel.Type
	ChannelLength        int
	BBStdDevMultiplier   float64
	PivotLookback        int
	AtrPeriodChannel     int
	AtrMultiplierChannel float64
	UseWicksForBreakout  bool
}

// Engine is the streaming signal engine for a single bar stream. Each bar is
// pushed exactly once, in timestamp order, through the rolling statistics,
// pivot detector, channel selector, trend tracker and UT-Bot trailing stop;
// their outputs are fused into the bar's signal.
type Engine struct {
	params  Params
	stats   *stats.Rolling
	pivots  *pivot.Detector
	tracker *trend.Tracker
	ut      *utbot.UtBot
	ha      heikinAshi

	last    model.BarResult
	barSeen bool
}

// New validates the parameters and builds a fresh engine. Invalid parameters
// fail here, never silently clamped.
func New(p Params) (*Engine, error) {
	if _, err := channel.Parse(string(p.ChannelType)); err != nil {
		return nil, err
	}
	roll, err := stats.NewRolling(p.ChannelLength, p.AtrPeriodChannel, p.BBStdDevMultiplier)
	if err != nil {
		return nil, fmt.Errorf("rolling stats: %w", err)
	}
	pivots, err := pivot.NewDetector(p.PivotLookback, p.ChannelLength)
	if err != nil {
		return nil, fmt.Errorf("pivot detector: %w", err)
	}
	tracker, err := trend.NewTracker(p.AtrMultiplierChannel, p.UseWicksForBreakout)
	if err != nil {
		return nil, fmt.Errorf("trend tracker: %w", err)
	}
	ut, err := utbot.New(p.UtBotKey, p.AtrPeriodUtBot)
	if err != nil {
		return nil, fmt.Errorf("utbot: %w", err)
	}
	return &Engine{
		params:  p,
		stats:   roll,
		pivots:  pivots,
		tracker: tracker,
		ut:      ut,
	}, nil
}

// Update consumes the next bar and returns its result. The update either
// fully commits or, on an out-of-order bar, leaves all state untouched.
func (e *Engine) Update(b model.Bar) (model.BarResult, error) {
	if e.barSeen && !b.Time.After(e.last.Time) {
		return model.BarResult{}, fmt.Errorf("%w: %s after %s",
			ErrOutOfOrderBar, b.Time.Format("2006-01-02 15:04:05"), e.last.Time.Format("2006-01-02 15:04:05"))
	}

	snap := e.stats.Update(b)
	e.pivots.Update(b)

	ch, err := channel.Compute(e.params.ChannelType, snap, e.pivots.Lines())
	if err != nil {
		// Channel type was validated at construction.
		return model.BarResult{}, err
	}

	st := e.tracker.Update(b, ch, snap.ATR)

	src := b.Close
	if e.params.UseHeikinAshiSource {
		src = e.ha.update(b)
	}
	utStop, ev := e.ut.Update(b, src)

	// BUY takes precedence when both fire; the conditions are evaluated
	// independently since nothing guarantees mutual exclusion.
	signal := model.SignalNone
	if src > utStop && ev == utbot.CrossAbove && st.Dir == model.Long {
		signal = model.SignalBuy
	} else if src < utStop && ev == utbot.CrossBelow && st.Dir == model.Short {
		signal = model.SignalSell
	}

	e.last = model.BarResult{
		Time:         b.Time,
		Signal:       signal,
		Direction:    st.Dir,
		TrailingStop: st.Stop(),
		UtStop:       utStop,
		Close:        b.Close,
	}
	e.barSeen = true
	return e.last, nil
}

// Last returns the most recent bar result and whether any bar has been
// consumed yet.
func (e *Engine) Last() (model.BarResult, bool) {
	return e.last, e.barSeen
}

// WarmedUp reports whether the rolling windows have fully filled; signals
// before that may be based on partially widened bands.
func (e *Engine) WarmedUp() bool { return e.stats.WarmedUp() }
