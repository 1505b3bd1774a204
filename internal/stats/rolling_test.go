package stats

import (
	"math"
	"testing"
	"time"

	"TrendSentinel/internal/model"
)

func makeBars(closes []float64, spread float64) []model.Bar {
	bars := make([]model.Bar, len(closes))
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = model.Bar{
			Time:  start.Add(time.Duration(i) * time.Hour),
			Open:  c,
			High:  c + spread,
			Low:   c - spread,
			Close: c,
		}
	}
	return bars
}

func TestATR_MatchesBruteForce(t *testing.T) {
	closes := []float64{100, 103, 101, 107, 104, 110, 108, 115, 111, 118, 116, 120}
	bars := makeBars(closes, 1.5)
	period := 5

	atr, err := NewATR(period)
	if err != nil {
		t.Fatal(err)
	}

	// Brute force: build the TR series and fold Wilder's recursion over it.
	trs := make([]float64, len(bars))
	for i, b := range bars {
		tr := b.High - b.Low
		if i > 0 {
			prevClose := bars[i-1].Close
			tr = math.Max(tr, math.Max(math.Abs(b.High-prevClose), math.Abs(b.Low-prevClose)))
		}
		trs[i] = tr
	}
	expected := trs[0]
	for i, b := range bars {
		got := atr.Update(b)
		if i > 0 {
			expected = (expected*float64(period-1) + trs[i]) / float64(period)
		}
		if math.Abs(got-expected) > 1e-9 {
			t.Fatalf("bar %d: ATR = %.9f, want %.9f", i, got, expected)
		}
		if got < 0 {
			t.Fatalf("bar %d: ATR negative: %.9f", i, got)
		}
	}
}

func TestATR_FirstBarSeedsTrueRange(t *testing.T) {
	atr, err := NewATR(10)
	if err != nil {
		t.Fatal(err)
	}
	b := model.Bar{High: 105, Low: 98, Close: 100}
	if got := atr.Update(b); got != 7 {
		t.Errorf("first ATR = %v, want high-low = 7", got)
	}
}

func TestNewATR_RejectsBadPeriod(t *testing.T) {
	for _, period := range []int{0, -3} {
		if _, err := NewATR(period); err == nil {
			t.Errorf("period %d: expected error", period)
		}
	}
}

func TestRolling_PopulationStdDev(t *testing.T) {
	// Window {2,4,4,4,5,5,7,9} has population stddev exactly 2.
	closes := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	roll, err := NewRolling(len(closes), 5, 2.0)
	if err != nil {
		t.Fatal(err)
	}
	var snap Snapshot
	for _, b := range makeBars(closes, 0.5) {
		snap = roll.Update(b)
	}
	if math.Abs(snap.StdDev-2.0) > 1e-9 {
		t.Errorf("stddev = %.9f, want 2.0", snap.StdDev)
	}
	if math.Abs(snap.SMA-5.0) > 1e-9 {
		t.Errorf("sma = %.9f, want 5.0", snap.SMA)
	}
	if math.Abs(snap.BBUpper-9.0) > 1e-9 || math.Abs(snap.BBLower-1.0) > 1e-9 {
		t.Errorf("bands = (%.4f, %.4f), want (9, 1)", snap.BBUpper, snap.BBLower)
	}
}

func TestRolling_DonchianWindow(t *testing.T) {
	closes := []float64{10, 30, 20, 15, 25}
	roll, err := NewRolling(3, 5, 2.0)
	if err != nil {
		t.Fatal(err)
	}
	var snap Snapshot
	for _, b := range makeBars(closes, 1) {
		snap = roll.Update(b)
	}
	// Window is the last 3 bars: closes 20, 15, 25 with spread 1.
	if snap.DCHigh != 26 {
		t.Errorf("DCHigh = %v, want 26", snap.DCHigh)
	}
	if snap.DCLow != 14 {
		t.Errorf("DCLow = %v, want 14", snap.DCLow)
	}
}

func TestRolling_PartialWindowDegrades(t *testing.T) {
	roll, err := NewRolling(20, 10, 2.0)
	if err != nil {
		t.Fatal(err)
	}
	snap := roll.Update(makeBars([]float64{100}, 1)[0])
	if math.IsNaN(snap.SMA) || math.IsNaN(snap.DCHigh) || math.IsNaN(snap.ATR) {
		t.Fatal("single-bar snapshot must not contain NaN")
	}
	if snap.SMA != 100 {
		t.Errorf("single-bar SMA = %v, want 100", snap.SMA)
	}
	if roll.WarmedUp() {
		t.Error("should not report warmed up after one bar")
	}
}

func TestRolling_LastBeforeFirstBar(t *testing.T) {
	roll, err := NewRolling(20, 10, 2.0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := roll.Last(); err != ErrInsufficientData {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
	roll.Update(makeBars([]float64{100}, 1)[0])
	if _, err := roll.Last(); err != nil {
		t.Errorf("unexpected error after first bar: %v", err)
	}
}

func TestRolling_KeltnerBand(t *testing.T) {
	closes := []float64{50, 52, 51, 53, 54}
	roll, err := NewRolling(5, 3, 2.0)
	if err != nil {
		t.Fatal(err)
	}
	var snap Snapshot
	for _, b := range makeBars(closes, 1) {
		snap = roll.Update(b)
	}
	if math.Abs(snap.KCUpper-(snap.KCMid+snap.ATR)) > 1e-9 {
		t.Errorf("KCUpper = %v, want mid+ATR = %v", snap.KCUpper, snap.KCMid+snap.ATR)
	}
	if math.Abs(snap.KCLower-(snap.KCMid-snap.ATR)) > 1e-9 {
		t.Errorf("KCLower = %v, want mid-ATR = %v", snap.KCLower, snap.KCMid-snap.ATR)
	}
}
