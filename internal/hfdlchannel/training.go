// Package hfdlchannel implements the per-channel burst acquisition,
// demodulation and framing state machine: one instance runs per tuned
// HFDL channel, fed by the shared FFT channelizer and emitting completed
// bursts to the PDU decoder.
package hfdlchannel

import (
	"math/bits"

	"github.com/dumphfdl/dumphfdl-go/internal/dsp"
)

// PreambleLength is the length, in bits, of the A1/A2 preamble and each
// M1 link-parameter sequence.
const PreambleLength = 127

// MiniSlotLength is the length, in bits, of each M2 sequence and the T
// interstitial training sequence.
const MiniSlotLength = 15

// CorrelationThreshold is the minimum absolute normalized correlation
// required to advance the preamble/link-parameter search states.
const CorrelationThreshold = 0.3

// MaxSearchRetries is the number of consecutive A2 misses tolerated
// before a full reset to A1_SEARCH.
const MaxSearchRetries = 3

// A is the 127-bit preamble PN sequence, in bipolar (+1/-1) form. Two
// copies are transmitted back-to-back (A1, A2) at the start of every
// burst.
var A = generateMLS(PreambleLength, 0x11, 1)

// m1Base is the base 127-bit link-parameter sequence; each M1[k] variant
// is a cyclic shift of this base by a fixed per-index offset.
var m1Base = generateMLS(PreambleLength, 0x41, 1)

// m2Base is the base 15-bit link-parameter sequence; each M2[k] variant
// is a cyclic shift of this base.
var m2Base = generateMLS(MiniSlotLength, 0x13, 1)

// m1ShiftStep and m2ShiftStep space the eight cyclic-shift variants
// evenly across their respective base-sequence periods.
const (
	m1ShiftStep = 16
	m2ShiftStep = 2
)

// M1 holds the eight link-parameter preamble variants.
var M1 = buildShiftedVariants(m1Base, m1ShiftStep)

// M2 holds the eight link-parameter mini-sequence variants.
var M2 = buildShiftedVariants(m2Base, m2ShiftStep)

// T is the 15-bit interstitial training sequence (0x9AF), in bipolar
// form, used to re-train the equalizer between data segments. T[0] is
// the sequence as transmitted; T[1] is its polarity-inverted form, used
// when bitmask indicates an inverted preamble.
var T = buildTSequences(0x9AF)

// DataSegmentSymbols is the number of symbols in one data "segment"
// (30), alternating with a 15-symbol training mini-slot.
const DataSegmentSymbols = 30

// TrainingMiniSlotSymbols is the number of symbols in one equalizer
// training mini-slot.
const TrainingMiniSlotSymbols = 15

// FrameParams describes one entry of the frame-parameter table selected
// by the M1_SEARCH correlation index.
type FrameParams struct {
	Modulation          dsp.Arity
	DataSegmentCount    int
	CodeRateQuarter     bool // true => rate 1/4 (chip-doubled), false => rate 1/2
	PushColumnShift     int
	BitRate             int
	Slot                byte
}

// FrameParamTable is indexed 0..7 by the M1_SEARCH match index. It
// follows the publicly documented HFDL bit-rate/slot-width table: four
// bit rates (300/600/1200/1800 bps) each transmitted in a single-slot
// and a double-slot variant, giving exactly eight combinations. 300 bps
// uses rate-1/4 coding; the rest use rate-1/2. data_segment_count is 72
// for single-slot frames and 168 for double-slot frames, matching the
// base spec's {72,168} enumeration and its S1 scenario (300 bps,
// rate-1/4, single-slot, 72 segments).
var FrameParamTable = [8]FrameParams{
	{Modulation: dsp.BPSK, DataSegmentCount: 72, CodeRateQuarter: true, PushColumnShift: 17, BitRate: 300, Slot: 'S'},
	{Modulation: dsp.BPSK, DataSegmentCount: 168, CodeRateQuarter: true, PushColumnShift: 23, BitRate: 300, Slot: 'D'},
	{Modulation: dsp.BPSK, DataSegmentCount: 72, CodeRateQuarter: false, PushColumnShift: 17, BitRate: 600, Slot: 'S'},
	{Modulation: dsp.BPSK, DataSegmentCount: 168, CodeRateQuarter: false, PushColumnShift: 23, BitRate: 600, Slot: 'D'},
	{Modulation: dsp.QPSK, DataSegmentCount: 72, CodeRateQuarter: false, PushColumnShift: 17, BitRate: 1200, Slot: 'S'},
	{Modulation: dsp.QPSK, DataSegmentCount: 168, CodeRateQuarter: false, PushColumnShift: 23, BitRate: 1200, Slot: 'D'},
	{Modulation: dsp.PSK8, DataSegmentCount: 72, CodeRateQuarter: false, PushColumnShift: 17, BitRate: 1800, Slot: 'S'},
	{Modulation: dsp.PSK8, DataSegmentCount: 168, CodeRateQuarter: false, PushColumnShift: 23, BitRate: 1800, Slot: 'D'},
}

// generateMLS produces a maximal-length-sequence-derived PN sequence of
// the given length in bipolar (+1/-1) form, from a Fibonacci LFSR with
// the given tap mask (bit i set means stage i feeds back) and seed. The
// register is bits.Len(length) stages wide (7 for 127, 4 for 15), so
// length is one full period for a primitive tap mask.
func generateMLS(length int, taps uint32, seed uint32) []int8 {
	out := make([]int8, length)
	top := uint(bits.Len(uint(length)) - 1)
	state := seed
	for i := 0; i < length; i++ {
		outBit := state & 1
		if outBit == 1 {
			out[i] = 1
		} else {
			out[i] = -1
		}

		feedback := uint32(0)
		for t := taps; t != 0; t &= t - 1 {
			bitIndex := trailingZeros(t)
			feedback ^= (state >> uint(bitIndex)) & 1
		}
		state = (state >> 1) | (feedback << top)
		if state == 0 {
			state = seed | 1
		}
	}
	return out
}

func trailingZeros(v uint32) int {
	n := 0
	for v&1 == 0 {
		v >>= 1
		n++
	}
	return n
}

func buildShiftedVariants(base []int8, step int) [8][]int8 {
	var out [8][]int8
	n := len(base)
	for k := 0; k < 8; k++ {
		shift := (k * step) % n
		shifted := make([]int8, n)
		for i := 0; i < n; i++ {
			shifted[i] = base[(i+shift)%n]
		}
		out[k] = shifted
	}
	return out
}

func buildTSequences(pattern uint16) [2][]int8 {
	seq := make([]int8, MiniSlotLength)
	inv := make([]int8, MiniSlotLength)
	for i := 0; i < MiniSlotLength; i++ {
		bit := (pattern >> uint(MiniSlotLength-1-i)) & 1
		if bit == 1 {
			seq[i] = 1
			inv[i] = -1
		} else {
			seq[i] = -1
			inv[i] = 1
		}
	}
	return [2][]int8{seq, inv}
}

// correlate computes the normalized correlation between a reference
// bipolar sequence and an equal-length window of observed bipolar bits:
// the product sum divided by len, which equals 2*matches/len - 1 where
// matches counts the positions whose bits agree. The result lies in
// [-1, 1]; -1 means the window is the exact inverse of seq.
func correlate(seq, window []int8) float64 {
	n := len(seq)
	if n == 0 || len(window) != n {
		return 0
	}
	sum := 0
	for i := 0; i < n; i++ {
		sum += int(seq[i]) * int(window[i])
	}
	return float64(sum) / float64(n)
}
