package engine

import "TrendSentinel/internal/model"

// heikinAshi derives the smoothed Heikin-Ashi close from raw bars. The HA
// open recursion needs the previous HA open/close, seeded from the first
// bar's own open and close.
type heikinAshi struct {
	open   float64
	close  float64
	seeded bool
}

func (h *heikinAshi) update(b model.Bar) float64 {
	haClose := (b.Open + b.High + b.Low + b.Close) / 4
	if !h.seeded {
		h.open = (b.Open + b.Close) / 2
		h.seeded = true
	} else {
		h.open = (h.open + h.close) / 2
	}
	h.close = haClose
	return haClose
}
