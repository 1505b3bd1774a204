package collector

import (
	"testing"
	"time"

	"TrendSentinel/internal/model"
)

func TestCollect_DropsFormingBar(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, 5)
	for i := range bars {
		bars[i] = model.Bar{Time: start.Add(time.Duration(i) * time.Hour), Close: 100 + float64(i)}
	}
	c := NewCollector(&MockFetcher{Bars: bars}, "BTCUSDT", "1h")

	got, err := c.Collect(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 4 {
		t.Fatalf("got %d bars, want 4 (newest dropped)", len(got))
	}
	if !got[len(got)-1].Time.Equal(bars[3].Time) {
		t.Errorf("last bar time = %v, want %v", got[len(got)-1].Time, bars[3].Time)
	}
}

func TestCollect_EmptyFetch(t *testing.T) {
	c := NewCollector(&MockFetcher{Bars: []model.Bar{}}, "BTCUSDT", "1h")
	got, err := c.Collect(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d bars, want 0", len(got))
	}
}

func TestNewBarsSince(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, 5)
	for i := range bars {
		bars[i] = model.Bar{Time: start.Add(time.Duration(i) * time.Hour)}
	}

	got := NewBarsSince(bars, start.Add(2*time.Hour))
	if len(got) != 2 {
		t.Fatalf("got %d bars, want 2 strictly after cutoff", len(got))
	}
	if !got[0].Time.Equal(start.Add(3 * time.Hour)) {
		t.Errorf("first bar = %v, want %v", got[0].Time, start.Add(3*time.Hour))
	}

	if got := NewBarsSince(bars, start.Add(24*time.Hour)); len(got) != 0 {
		t.Errorf("future cutoff: got %d bars, want 0", len(got))
	}
	if got := NewBarsSince(bars, time.Time{}); len(got) != 5 {
		t.Errorf("zero cutoff: got %d bars, want all 5", len(got))
	}
}

func TestGenerateBars(t *testing.T) {
	bars := GenerateBars(50000, 30, time.Hour)
	if len(bars) != 30 {
		t.Fatalf("got %d bars, want 30", len(bars))
	}
	for i, b := range bars {
		if b.High < b.Low || b.Close > b.High || b.Close < b.Low {
			t.Fatalf("bar %d: inconsistent OHLC %+v", i, b)
		}
		if i > 0 && !b.Time.After(bars[i-1].Time) {
			t.Fatalf("bar %d: time not increasing", i)
		}
	}
}
