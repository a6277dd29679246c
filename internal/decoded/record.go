// Package decoded defines the decoded-message record that flows from
// the PDU decoder to the output fan-out: the shared vocabulary between
// internal/output and internal/output/format without forcing either to
// import the other.
package decoded

import (
	"time"

	"github.com/dumphfdl/dumphfdl-go/internal/pdu"
)

// Record is one fully (or partially) decoded HFDL burst, ready for
// formatting and dispatch to configured sinks.
type Record struct {
	Station     string
	Timestamp   time.Time
	ChannelFreq uint32
	BitRate     int
	Slot        byte
	FreqErrHz   float64
	SigLevelDBm float64
	NoiseDBm    float64

	MPDU *pdu.MPDU

	// RawOctets is populated for --raw-frames / --output-mpdus passthrough
	// records, carrying the pre-parse octet buffer instead of (or
	// alongside) the parsed tree.
	RawOctets []byte

	// ShutdownSentinel marks the end-of-stream record each sink treats as
	// OUT_FLAG_ORDERED_SHUTDOWN.
	ShutdownSentinel bool
}
