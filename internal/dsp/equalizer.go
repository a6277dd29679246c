package dsp

const (
	// EqualizerTaps is the fixed LMS equalizer length.
	EqualizerTaps = 15
	// EqualizerMu is the fixed LMS adaptation step size.
	EqualizerMu = 0.1
)

// Equalizer is a fractionally-spaced-free, symbol-spaced LMS adaptive
// equalizer with a fixed 15-tap length and mu=0.1 step size.
type Equalizer struct {
	weights [EqualizerTaps]complex128
	history [EqualizerTaps]complex128
	pos     int
}

// NewEqualizer returns an equalizer with a center-spike initialization
// (identity filter), the conventional LMS equalizer starting point.
func NewEqualizer() *Equalizer {
	e := &Equalizer{}
	e.weights[EqualizerTaps/2] = 1
	return e
}

// Reset reinitializes the equalizer to its identity starting weights and
// clears its history, as required on every framer reset.
func (e *Equalizer) Reset() {
	for i := range e.weights {
		e.weights[i] = 0
	}
	e.weights[EqualizerTaps/2] = 1
	for i := range e.history {
		e.history[i] = 0
	}
	e.pos = 0
}

func (e *Equalizer) push(sample complex128) {
	e.history[e.pos] = sample
	e.pos++
	if e.pos == EqualizerTaps {
		e.pos = 0
	}
}

func (e *Equalizer) output() complex128 {
	var acc complex128
	idx := e.pos
	for i := 0; i < EqualizerTaps; i++ {
		idx--
		if idx < 0 {
			idx = EqualizerTaps - 1
		}
		acc += e.weights[i] * e.history[idx]
	}
	return acc
}

// Step pushes sample through the equalizer, returns the equalized output,
// and adapts the tap weights toward the known training symbol (decision
// feedback during data segments, known T_seq symbol during EQ_TRAIN).
func (e *Equalizer) Step(sample, reference complex128) complex128 {
	e.push(sample)
	out := e.output()

	err := reference - out
	idx := e.pos
	for i := 0; i < EqualizerTaps; i++ {
		idx--
		if idx < 0 {
			idx = EqualizerTaps - 1
		}
		e.weights[i] += complex(EqualizerMu, 0) * err * cconj(e.history[idx])
	}

	return out
}

func cconj(c complex128) complex128 {
	return complex(real(c), -imag(c))
}
