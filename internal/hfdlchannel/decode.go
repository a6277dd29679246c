package hfdlchannel

import (
	"github.com/dumphfdl/dumphfdl-go/internal/dsp"
	"github.com/dumphfdl/dumphfdl-go/internal/fec"
)

// decodeUserData runs the once-per-burst FEC chain (descramble,
// deinterleave, Viterbi decode) over the accumulated data symbols of a
// completed burst, returning the recovered PDU octet string.
func decodeUserData(f *Framer) []byte {
	symbols := make([]complex128, len(f.DataSymbols))
	copy(symbols, f.DataSymbols)

	descrambler := fec.NewDescrambler()
	descrambler.Descramble(symbols)

	arity := f.DataModArity
	bitsPerSymbol := arity.Bits()
	totalBits := len(symbols) * bitsPerSymbol
	columns := totalBits / 40
	if columns == 0 {
		return nil
	}

	// Data symbols are stored as raw, non-XOR'd equalizer output (unlike
	// PushBit, which XORs acquisition bits as they're emitted), so the
	// same polarity correction must be applied here before deinterleaving.
	bitInvertMask := 0
	if f.Bitmask < 0 {
		bitInvertMask = (1 << uint(bitsPerSymbol)) - 1
	}

	deint := fec.NewDeinterleaver(columns, f.PushColumnShift)
	for _, s := range symbols {
		value, _ := dsp.Demodulate(s, arity)
		value ^= bitInvertMask
		for b := bitsPerSymbol - 1; b >= 0; b-- {
			deint.Push((value >> uint(b)) & 1)
		}
	}

	size := deint.Size()
	chips := make([]uint8, size)
	for i := 0; i < size; i++ {
		chips[i] = uint8(deint.Pop())
	}

	softBits := make([]uint8, len(chips))
	for i, c := range chips {
		if c != 0 {
			softBits[i] = 255
		}
	}
	if f.CodeRateQuarter {
		softBits = fec.DecimateQuarterRate(softBits)
	}

	decoder := fec.NewDecoder()
	return decoder.Decode(softBits)
}
