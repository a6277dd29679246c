package dsp

import "math"

// Arity is a PSK modulation order, named for the bits it carries per symbol.
type Arity int

const (
	// BPSK carries one bit per symbol.
	BPSK Arity = 1
	// QPSK carries two bits per symbol.
	QPSK Arity = 2
	// PSK8 carries three bits per symbol.
	PSK8 Arity = 3
)

// Bits returns how many bits a symbol of this arity carries.
func (a Arity) Bits() int {
	return int(a)
}

// Demodulate slices the constellation for the given arity into 2^bits
// equal angular sectors and returns the Gray-coded symbol value together
// with the phase error between the sample and the nearest constellation
// point, used to drive the Costas loop.
func Demodulate(sample complex128, arity Arity) (value int, phaseError float64) {
	points := 1 << arity.Bits()
	angle := math.Atan2(imag(sample), real(sample))
	if angle < 0 {
		angle += 2 * math.Pi
	}

	sectorWidth := 2 * math.Pi / float64(points)
	sector := int(math.Floor(angle/sectorWidth + 0.5))
	sector %= points

	value = grayDecode(sector, arity)

	idealAngle := float64(sector) * sectorWidth
	phaseError = wrapPhase(angle - idealAngle)
	return value, phaseError
}

// Modulate returns the ideal constellation point for the given Gray-coded
// symbol value and arity, used to drive the LMS equalizer's reference
// input during data segments (decision-directed mode).
func Modulate(value int, arity Arity) complex128 {
	points := 1 << arity.Bits()
	sector := grayEncode(value, arity)
	angle := float64(sector) * 2 * math.Pi / float64(points)
	return complex(math.Cos(angle), math.Sin(angle))
}

func grayEncode(v int, arity Arity) int {
	_ = arity
	return v ^ (v >> 1)
}

func grayDecode(g int, arity Arity) int {
	v := g
	for shift := 1; shift < arity.Bits()+1; shift <<= 1 {
		v ^= v >> shift
	}
	return v & ((1 << arity.Bits()) - 1)
}
