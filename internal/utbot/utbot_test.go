package utbot

import (
	"testing"
	"time"

	"TrendSentinel/internal/model"
)

func srcBar(i int, close float64) model.Bar {
	return model.Bar{
		Time:  time.Date(2024, 1, 1, i, 0, 0, 0, time.UTC),
		Open:  close,
		High:  close + 1,
		Low:   close - 1,
		Close: close,
	}
}

// With an ATR period of 1 the ATR equals each bar's true range, which makes
// every expected stop computable by hand.
func TestUtBot_StopAndCrossovers(t *testing.T) {
	closes := []float64{10, 11, 12, 6, 7, 10}
	wantStops := []float64{8, 9, 10, 13, 9, 6}
	wantEvents := []Event{NoCross, NoCross, NoCross, CrossBelow, NoCross, CrossAbove}

	u, err := New(1.0, 1)
	if err != nil {
		t.Fatal(err)
	}
	for i, c := range closes {
		stop, ev := u.Update(srcBar(i, c), c)
		if stop != wantStops[i] {
			t.Errorf("bar %d: stop = %v, want %v", i, stop, wantStops[i])
		}
		if ev != wantEvents[i] {
			t.Errorf("bar %d: event = %v, want %v", i, ev, wantEvents[i])
		}
	}
	if u.Stop() != 6 {
		t.Errorf("Stop() = %v, want 6", u.Stop())
	}
}

func TestUtBot_RatchetWhileAbove(t *testing.T) {
	u, err := New(1.0, 1)
	if err != nil {
		t.Fatal(err)
	}
	var prev float64
	for i, c := range []float64{100, 101, 102, 103, 104} {
		stop, ev := u.Update(srcBar(i, c), c)
		if i > 0 {
			if stop < prev {
				t.Fatalf("bar %d: stop fell from %v to %v while source rose", i, prev, stop)
			}
			if ev != NoCross {
				t.Fatalf("bar %d: unexpected event %v", i, ev)
			}
		}
		prev = stop
	}
}

func TestUtBot_KeyScalesLoss(t *testing.T) {
	u, err := New(2.0, 1)
	if err != nil {
		t.Fatal(err)
	}
	stop, _ := u.Update(srcBar(0, 10), 10)
	if stop != 6 { // src - 2*TR = 10 - 2*2
		t.Errorf("seed stop = %v, want 6", stop)
	}
}

func TestNew_RejectsBadArgs(t *testing.T) {
	if _, err := New(0, 10); err == nil {
		t.Error("key 0: expected error")
	}
	if _, err := New(1.0, 0); err == nil {
		t.Error("atr period 0: expected error")
	}
}
