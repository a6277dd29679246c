// Package channelizer implements the FFT overlap-save wideband-to-narrowband
// channelizer: a single shared stage that takes the wideband input stream
// and produces one decimated, frequency-translated output stream per
// configured HFDL channel.
package channelizer

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// ErrFFTTooSmall is returned by New when the FFT size would be smaller
// than the filter's tap count. New sizes the FFT from the tap count alone
// (four times the taps, rounded up to a power of two), so for a positive
// tap count this error does not occur.
var ErrFFTTooSmall = errors.New("channelizer: fft size smaller than filter taps")

// ShiftState is the phase-continuity accumulator carried between
// successive overlap-save blocks so that consecutive outputs for the same
// channel stay phase-continuous.
type ShiftState struct {
	StartBin   int
	OffsetBin  int
	V          complex128
	OutputSize int
}

// Channel is one configured narrowband output of the channelizer: an
// integer pre-decimation factor and a bin-accurate frequency shift from
// the wideband center frequency.
type Channel struct {
	PreDecimation int
	ShiftHz       float64
	state         ShiftState
}

// Channelizer performs overlap-save FFT filtering and decimation from a
// wideband input stream into any number of configured channel outputs.
type Channelizer struct {
	sampleRate    float64
	fftSize       int
	tapsLen       int
	overlap       int
	transitionBW  float64
	fft           *fourier.CmplxFFT
	lowpassFFT    []complex128
	channels      []*Channel
	inputBuf      []complex128
}

const minFFTOversample = 4

// New builds a channelizer for the given wideband sample rate and a
// prototype low-pass filter of tapsLen taps whose passband edge is
// transitionBW (Hz) wide. Pre-decimation is set per channel by AddChannel.
func New(sampleRate float64, transitionBW float64, tapsLen int) (*Channelizer, error) {
	fftSize := nextPow2(tapsLen * minFFTOversample)
	if fftSize < tapsLen {
		return nil, ErrFFTTooSmall
	}

	taps := lowpassTaps(tapsLen, transitionBW/sampleRate)
	padded := make([]complex128, fftSize)
	for i, t := range taps {
		padded[i] = complex(t, 0)
	}

	fft := fourier.NewCmplxFFT(fftSize)
	lowpassFFT := fft.Coefficients(nil, padded)

	return &Channelizer{
		sampleRate:   sampleRate,
		fftSize:      fftSize,
		tapsLen:      tapsLen,
		overlap:      tapsLen - 1,
		transitionBW: transitionBW,
		fft:          fft,
		lowpassFFT:   lowpassFFT,
		inputBuf:     make([]complex128, fftSize),
	}, nil
}

// AddChannel registers a new narrowband output, pre-decimated by D and
// translated by shiftHz from the wideband center frequency.
func (c *Channelizer) AddChannel(preDecimation int, shiftHz float64) *Channel {
	ch := &Channel{PreDecimation: preDecimation, ShiftHz: shiftHz}
	c.channels = append(c.channels, ch)
	return ch
}

// InputBlockSize returns the number of new wideband samples Process
// expects per call (fftSize minus the overlap carried from the previous
// block).
func (c *Channelizer) InputBlockSize() int {
	return c.fftSize - c.overlap
}

// Process runs one overlap-save block through the prototype low-pass
// filter and returns, per channel, the decimated complex output samples
// for this block.
func (c *Channelizer) Process(block []complex128) map[*Channel][]complex128 {
	blockSize := c.InputBlockSize()
	if len(block) != blockSize {
		block = padOrTruncate(block, blockSize)
	}

	copy(c.inputBuf, c.inputBuf[blockSize:])
	copy(c.inputBuf[c.overlap:], block)

	freq := c.fft.Coefficients(nil, c.inputBuf)
	for i := range freq {
		freq[i] *= c.lowpassFFT[i]
	}

	filtered := c.fft.Sequence(nil, freq)
	scale := complex(1/float64(c.fftSize), 0)
	for i := range filtered {
		filtered[i] *= scale
	}
	valid := filtered[c.overlap:]

	out := make(map[*Channel][]complex128, len(c.channels))
	for _, ch := range c.channels {
		out[ch] = c.shiftAndDecimate(ch, valid)
	}
	return out
}

func (c *Channelizer) shiftAndDecimate(ch *Channel, samples []complex128) []complex128 {
	decimated := make([]complex128, 0, len(samples)/ch.PreDecimation+1)
	angularStep := -2 * math.Pi * ch.ShiftHz / c.sampleRate

	if ch.state.V == 0 {
		ch.state.V = 1
	}

	step := complex(math.Cos(angularStep), math.Sin(angularStep))
	count := 0
	for _, s := range samples {
		shifted := s * ch.state.V
		ch.state.V *= step
		if count%ch.PreDecimation == 0 {
			decimated = append(decimated, shifted)
		}
		count++
	}
	ch.state.OutputSize = len(decimated)
	return decimated
}

func padOrTruncate(block []complex128, size int) []complex128 {
	out := make([]complex128, size)
	n := len(block)
	if n > size {
		n = size
	}
	copy(out, block[:n])
	return out
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func lowpassTaps(n int, normalizedCutoff float64) []float64 {
	taps := make([]float64, n)
	mid := float64(n-1) / 2
	for i := 0; i < n; i++ {
		t := float64(i) - mid
		var v float64
		if t == 0 {
			v = 2 * normalizedCutoff
		} else {
			v = math.Sin(2*math.Pi*normalizedCutoff*t) / (math.Pi * t)
		}
		window := 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(n-1))
		taps[i] = v * window
	}
	return taps
}
