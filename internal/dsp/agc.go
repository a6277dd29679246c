// Package dsp implements the per-channel numerical building blocks of the
// HFDL demodulator: automatic gain control, matched filtering,
// symbol-timing synchronization, Costas carrier recovery, an LMS
// equalizer, and PSK modem primitives. None of these hold state shared
// across channel workers; each channel worker owns one instance of each.
package dsp

import "math/cmplx"

const (
	agcTargetLevel = 1.0
	agcAttack      = 0.1
	agcDecay       = 0.005
)

// AGC is a simple feedback automatic gain control that tracks the envelope
// of its input and rescales samples to hold a constant target magnitude.
type AGC struct {
	gain   float64
	locked bool
}

// NewAGC returns an AGC with unity starting gain and unlocked state.
func NewAGC() *AGC {
	return &AGC{gain: 1.0}
}

// Reset unlocks the AGC and returns its gain to unity, as the framer
// requires on every full reset.
func (a *AGC) Reset() {
	a.gain = 1.0
	a.locked = false
}

// Lock freezes the AGC's adaptation, called once A1 preamble correlation
// succeeds so gain stays stable through the rest of burst acquisition.
func (a *AGC) Lock() {
	a.locked = true
}

// Locked reports whether the AGC has stopped adapting.
func (a *AGC) Locked() bool {
	return a.locked
}

// Apply rescales s by the AGC's current gain and, unless locked, adapts
// the gain toward the configured target envelope level.
func (a *AGC) Apply(s complex128) complex128 {
	out := s * complex(a.gain, 0)

	if !a.locked {
		mag := cmplx.Abs(out)
		if mag > agcTargetLevel {
			a.gain *= 1 - agcAttack*(mag-agcTargetLevel)/agcTargetLevel
		} else {
			a.gain *= 1 + agcDecay*(agcTargetLevel-mag)/agcTargetLevel
		}
		if a.gain < 1e-6 {
			a.gain = 1e-6
		}
	}

	return out
}
