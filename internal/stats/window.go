package stats

import "math"

// window keeps the trailing values of a series up to a fixed capacity.
// Pushes beyond the capacity drop the oldest value.
type window struct {
	max int
	buf []float64
}

func newWindow(max int) *window {
	return &window{max: max}
}

func (w *window) Push(v float64) {
	w.buf = append(w.buf, v)
	if len(w.buf) > w.max {
		w.buf = w.buf[len(w.buf)-w.max:]
	}
}

func (w *window) Len() int { return len(w.buf) }

// Mean returns the average of the window contents, 0 when empty.
func (w *window) Mean() float64 {
	if len(w.buf) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range w.buf {
		sum += v
	}
	return sum / float64(len(w.buf))
}

// StdDev returns the population standard deviation of the window contents.
func (w *window) StdDev() float64 {
	n := len(w.buf)
	if n == 0 {
		return 0
	}
	mean := w.Mean()
	sum := 0.0
	for _, v := range w.buf {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(n))
}

func (w *window) Max() float64 {
	if len(w.buf) == 0 {
		return math.NaN()
	}
	max := math.Inf(-1)
	for _, v := range w.buf {
		if v > max {
			max = v
		}
	}
	return max
}

func (w *window) Min() float64 {
	if len(w.buf) == 0 {
		return math.NaN()
	}
	min := math.Inf(1)
	for _, v := range w.buf {
		if v < min {
			min = v
		}
	}
	return min
}
