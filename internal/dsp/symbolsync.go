package dsp

// SymbolSync implements Gardner timing-error-detector symbol timing
// recovery, consuming samples at SPS samples per symbol and emitting zero
// or one symbol per input sample; a large timing correction never yields
// more than one symbol from a single input sample.
type SymbolSync struct {
	sps       float64
	mu        float64
	gain      float64
	prevEarly complex128
	prevOnTime complex128
	history   complex128
	haveHist  bool
}

const symbolSyncGain = 0.02

// NewSymbolSync returns a symbol-timing recovery loop for the given
// samples-per-symbol rate.
func NewSymbolSync(sps float64) *SymbolSync {
	return &SymbolSync{sps: sps, gain: symbolSyncGain}
}

// Reset rewinds the timing loop's fractional phase and history.
func (s *SymbolSync) Reset() {
	s.mu = 0
	s.haveHist = false
}

// Push feeds one matched-filter output sample in and appends zero or more
// recovered symbols to out, returning the extended slice.
func (s *SymbolSync) Push(sample complex128, out []complex128) []complex128 {
	s.mu += 1.0
	if s.mu < s.sps {
		s.history = sample
		s.haveHist = true
		return out
	}
	s.mu -= s.sps

	onTime := sample
	if s.haveHist {
		early := (onTime + s.history) / 2
		timingError := real(early)*(imag(onTime)-imag(s.prevOnTime)) -
			imag(early)*(real(onTime)-real(s.prevOnTime))
		s.mu += s.gain * timingError
	}

	s.prevOnTime = onTime
	s.prevEarly = s.history
	_ = s.prevEarly
	out = append(out, onTime)
	return out
}
