package notifier

import (
	"fmt"
	"strings"

	"TrendSentinel/internal/model"
)

// FormatSignalAlert formats a BUY/SELL alert for Telegram.
func FormatSignalAlert(symbol string, res model.BarResult) string {
	var b strings.Builder

	icon := "🟢"
	if res.Signal == model.SignalSell {
		icon = "🔴"
	}
	b.WriteString(fmt.Sprintf("%s <b>%s %s</b>\n\n", icon, res.Signal, symbol))
	b.WriteString(fmt.Sprintf("Bar close: %s\n", res.Time.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Price: %.4f\n", res.Close))
	b.WriteString(fmt.Sprintf("Direction: %s\n", res.Direction))
	b.WriteString(fmt.Sprintf("Trailing stop: %.4f\n", res.TrailingStop))
	b.WriteString(fmt.Sprintf("UT stop: %.4f\n", res.UtStop))
	return b.String()
}

// FormatStatus formats the current engine and position state for display.
func FormatStatus(symbol string, state model.PositionState, last model.BarResult, hasLast bool) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>TrendSentinel</b> | %s\n\n", symbol))

	if !hasLast {
		b.WriteString("No bars processed yet.\n")
	} else {
		b.WriteString(fmt.Sprintf("Last bar: %s\n", last.Time.Format("2006-01-02 15:04")))
		b.WriteString(fmt.Sprintf("Close: %.4f\n", last.Close))
		b.WriteString(fmt.Sprintf("Direction: %s\n", last.Direction))
		b.WriteString(fmt.Sprintf("Trailing stop: %.4f\n", last.TrailingStop))
		b.WriteString(fmt.Sprintf("UT stop: %.4f\n", last.UtStop))
	}

	b.WriteString("\n")
	if state.Side == "" {
		b.WriteString("Position: flat\n")
	} else {
		b.WriteString(fmt.Sprintf("Position: %s since %s @ %.4f\n",
			state.Side, state.EntryTime.Format("2006-01-02 15:04"), state.EntryPrice))
	}
	b.WriteString(fmt.Sprintf("Signals seen: %d\n", state.SignalsSeen))
	return b.String()
}

// FormatDailySummary formats the daily heartbeat report.
func FormatDailySummary(symbol string, state model.PositionState, last model.BarResult, hasLast bool) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📅 <b>Daily summary</b> | %s\n\n", symbol))
	if hasLast {
		b.WriteString(fmt.Sprintf("Direction: %s | close %.4f | stop %.4f\n",
			last.Direction, last.Close, last.TrailingStop))
	}
	if state.Side != "" {
		b.WriteString(fmt.Sprintf("Holding %s from %.4f\n", state.Side, state.EntryPrice))
	} else {
		b.WriteString("No position held.\n")
	}
	b.WriteString(fmt.Sprintf("Total signals to date: %d", state.SignalsSeen))
	return b.String()
}
