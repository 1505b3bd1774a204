package pivot

import (
	"testing"
	"time"

	"TrendSentinel/internal/model"
)

func barsFromHighs(highs []float64) []model.Bar {
	bars := make([]model.Bar, len(highs))
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, h := range highs {
		bars[i] = model.Bar{
			Time:  start.Add(time.Duration(i) * time.Hour),
			High:  h,
			Low:   -float64(i), // strictly decreasing, never a pivot low
			Close: h - 0.5,
		}
	}
	return bars
}

func barsFromLows(lows []float64) []model.Bar {
	bars := make([]model.Bar, len(lows))
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, l := range lows {
		bars[i] = model.Bar{
			Time:  start.Add(time.Duration(i) * time.Hour),
			High:  100 + float64(i), // strictly increasing, never a pivot high
			Low:   l,
			Close: l + 0.5,
		}
	}
	return bars
}

func TestDetector_ConfirmationLag(t *testing.T) {
	// Peak at bar 4 with lookback 2 must confirm exactly at bar 8, not before.
	highs := []float64{1, 2, 3, 4, 10, 4, 3, 2, 3}
	det, err := NewDetector(2, 4)
	if err != nil {
		t.Fatal(err)
	}
	for i, b := range barsFromHighs(highs) {
		high, low := det.Update(b)
		if low != nil {
			t.Fatalf("bar %d: unexpected pivot low %+v", i, low)
		}
		if i < 8 && high != nil {
			t.Fatalf("bar %d: pivot high confirmed early: %+v", i, high)
		}
		if i == 8 {
			if high == nil {
				t.Fatal("bar 8: pivot high not confirmed")
			}
			if high.Index != 4 || high.Price != 10 || high.Kind != High {
				t.Fatalf("bar 8: got %+v, want index 4 price 10", high)
			}
			if high.Relation != RelationNone {
				t.Errorf("first pivot relation = %v, want RelationNone", high.Relation)
			}
		}
	}
}

func TestDetector_EqualExtremesDisqualify(t *testing.T) {
	// A flat top is not a pivot: neither of the equal highs strictly
	// dominates the other.
	highs := []float64{1, 2, 3, 10, 10, 3, 2, 1, 0, 0, 0, 0}
	det, err := NewDetector(2, 4)
	if err != nil {
		t.Fatal(err)
	}
	for i, b := range barsFromHighs(highs) {
		if high, _ := det.Update(b); high != nil {
			t.Fatalf("bar %d: flat top confirmed as pivot: %+v", i, high)
		}
	}
}

func TestDetector_HigherLowerClassification(t *testing.T) {
	tests := []struct {
		name       string
		secondPeak float64
		want       Relation
	}{
		{"higher high", 12, Higher},
		{"lower high", 8, Lower},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			highs := []float64{1, 2, 3, 4, 10, 4, 3, 2, 3, 4, tt.secondPeak, 4, 3, 2, 1}
			det, err := NewDetector(2, 4)
			if err != nil {
				t.Fatal(err)
			}
			var records []*Record
			for _, b := range barsFromHighs(highs) {
				if high, _ := det.Update(b); high != nil {
					records = append(records, high)
				}
			}
			if len(records) != 2 {
				t.Fatalf("got %d pivot highs, want 2", len(records))
			}
			if records[1].Index != 10 || records[1].Price != tt.secondPeak {
				t.Fatalf("second pivot = %+v, want index 10 price %g", records[1], tt.secondPeak)
			}
			if records[1].Relation != tt.want {
				t.Errorf("relation = %v, want %v", records[1].Relation, tt.want)
			}
		})
	}
}

func TestDetector_PivotLow(t *testing.T) {
	lows := []float64{10, 9, 8, 7, 1, 7, 8, 9, 10}
	det, err := NewDetector(2, 4)
	if err != nil {
		t.Fatal(err)
	}
	var got *Record
	for _, b := range barsFromLows(lows) {
		if _, low := det.Update(b); low != nil {
			got = low
		}
	}
	if got == nil {
		t.Fatal("pivot low not confirmed")
	}
	if got.Index != 4 || got.Price != 1 || got.Kind != Low {
		t.Fatalf("pivot low = %+v, want index 4 price 1", got)
	}
}

func TestDetector_Lines(t *testing.T) {
	det, err := NewDetector(2, 4)
	if err != nil {
		t.Fatal(err)
	}
	if l := det.Lines(); l.HasHigh || l.HasWindowHigh {
		t.Fatal("lines should be absent before any pivot")
	}
	highs := []float64{1, 2, 3, 4, 10, 4, 3, 2, 3}
	for _, b := range barsFromHighs(highs) {
		det.Update(b)
	}
	l := det.Lines()
	if !l.HasHigh || l.High != 10 {
		t.Fatalf("high line = %+v, want 10", l)
	}
	if !l.HasWindowHigh || l.WindowHigh != 10 {
		t.Fatalf("window high = %+v, want 10", l)
	}
	if l.HasLow {
		t.Error("low line should be absent")
	}
}

func TestNewDetector_RejectsBadArgs(t *testing.T) {
	if _, err := NewDetector(0, 4); err == nil {
		t.Error("lookback 0: expected error")
	}
	if _, err := NewDetector(3, 0); err == nil {
		t.Error("line window 0: expected error")
	}
}
