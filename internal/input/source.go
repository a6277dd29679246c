// Package input adapts raw sample producers (a file of recorded I/Q, or
// an SDR device) into the normalized complex64 stream the channelizer
// consumes. It is the external-collaborator boundary named in the core
// specification: sample-format conversion and device control live here,
// not in the DSP core.
package input

import "context"

// Source produces a stream of normalized complex-baseband sample blocks
// at a fixed, known sample rate.
type Source interface {
	// SampleRate returns the rate, in Hz, at which Samples emits blocks.
	SampleRate() uint
	// Samples starts producing sample blocks, closing the channel when
	// the source is exhausted (file EOF) or ctx is canceled.
	Samples(ctx context.Context) (<-chan []complex64, error)
}
