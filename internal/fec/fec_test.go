package fec_test

import (
	"math/rand"
	"testing"

	"github.com/dumphfdl/dumphfdl-go/internal/fec"
	"github.com/stretchr/testify/require"
)

func TestDescramblerPeriodRepeats(t *testing.T) {
	t.Parallel()
	d := fec.NewDescrambler()
	syms := make([]complex128, 2*fec.DescramblerPeriod)
	for i := range syms {
		syms[i] = 1
	}
	d.Descramble(syms)
	first := syms[:fec.DescramblerPeriod]
	second := syms[fec.DescramblerPeriod:]
	require.Equal(t, first, second)
}

func TestDeinterleaverIsPermutation(t *testing.T) {
	t.Parallel()
	cases := []struct {
		columns int
		shift   int
	}{
		{columns: 9, shift: 17},
		{columns: 21, shift: 23},
		{columns: 15, shift: 17},
	}
	for _, tc := range cases {
		di := fec.NewDeinterleaver(tc.columns, tc.shift)
		n := di.Size()
		for i := 0; i < n; i++ {
			di.Push(i)
		}
		seen := make(map[int]bool, n)
		for i := 0; i < n; i++ {
			v := di.Pop()
			seen[v] = true
		}
		require.Len(t, seen, n, "columns=%d shift=%d should yield a permutation", tc.columns, tc.shift)
	}
}

func TestViterbiEncodeDecodeRoundTripHalfRate(t *testing.T) {
	t.Parallel()
	rnd := rand.New(rand.NewSource(1))
	msg := make([]uint8, 200)
	for i := range msg {
		msg[i] = uint8(rnd.Intn(2))
	}
	encoded := fec.Encode(msg)
	decoded := fec.NewDecoder().Decode(encoded)

	decodedBits := unpackBitsReversed(decoded, len(msg))
	require.Equal(t, msg, decodedBits)
}

func TestViterbiEncodeDecodeRoundTripQuarterRate(t *testing.T) {
	t.Parallel()
	rnd := rand.New(rand.NewSource(2))
	msg := make([]uint8, 120)
	for i := range msg {
		msg[i] = uint8(rnd.Intn(2))
	}
	encoded := fec.Encode(msg)
	quarter := fec.EncodeQuarterRate(encoded)
	halfRate := fec.DecimateQuarterRate(quarter)
	decoded := fec.NewDecoder().Decode(halfRate)

	decodedBits := unpackBitsReversed(decoded, len(msg))
	require.Equal(t, msg, decodedBits)
}

func unpackBitsReversed(buf []byte, n int) []uint8 {
	out := make([]uint8, n)
	for i := 0; i < n; i++ {
		b := buf[i/8]
		b = reverseByteForTest(b)
		if b&(1<<(7-uint(i%8))) != 0 {
			out[i] = 1
		}
	}
	return out
}

func reverseByteForTest(b byte) byte {
	b = (b&0xF0)>>4 | (b&0x0F)<<4
	b = (b&0xCC)>>2 | (b&0x33)<<2
	b = (b&0xAA)>>1 | (b&0x55)<<1
	return b
}
