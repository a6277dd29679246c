package dsp

// MatchedFilter is a real-coefficient FIR filter applied to complex
// samples, used as the HFDL receive matched filter ahead of symbol timing
// recovery.
type MatchedFilter struct {
	taps []float64
	ring []complex128
	pos  int
}

// NewMatchedFilter returns a FIR filter with the given (already
// root-raised-cosine-shaped) tap coefficients.
func NewMatchedFilter(taps []float64) *MatchedFilter {
	return &MatchedFilter{
		taps: taps,
		ring: make([]complex128, len(taps)),
	}
}

// Reset clears the filter's delay line.
func (f *MatchedFilter) Reset() {
	for i := range f.ring {
		f.ring[i] = 0
	}
	f.pos = 0
}

// Push shifts s into the delay line and returns the filtered output.
func (f *MatchedFilter) Push(s complex128) complex128 {
	f.ring[f.pos] = s
	n := len(f.taps)

	var acc complex128
	idx := f.pos
	for i := 0; i < n; i++ {
		acc += f.ring[idx] * complex(f.taps[i], 0)
		idx--
		if idx < 0 {
			idx = n - 1
		}
	}

	f.pos++
	if f.pos == n {
		f.pos = 0
	}
	return acc
}

// RootRaisedCosineTaps generates a root-raised-cosine filter with the
// given roll-off factor, samples per symbol, and span in symbols.
func RootRaisedCosineTaps(rolloff float64, sps, spanSymbols int) []float64 {
	n := spanSymbols*sps + 1
	taps := make([]float64, n)
	mid := float64(n-1) / 2
	for i := 0; i < n; i++ {
		t := (float64(i) - mid) / float64(sps)
		taps[i] = rrc(t, rolloff)
	}
	return taps
}

func rrc(t, beta float64) float64 {
	const eps = 1e-8
	if absf(t) < eps {
		return 1 - beta + 4*beta/piConst()
	}
	if beta > eps && absf(absf(4*beta*t)-1) < eps {
		return (beta / sqrt2()) * ((1+2/piConst())*sinc(1/(4*beta)) + (1-2/piConst())*cosc(1/(4*beta)))
	}
	num := sinc(t*(1-beta)) + 4*beta*t*cosc(t*(1+beta))
	den := 1 - (4 * beta * t) * (4 * beta * t)
	return num / den
}
