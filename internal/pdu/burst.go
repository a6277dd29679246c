// Package pdu implements HFDL's layered PDU decoder: SPDU, MPDU, LPDU,
// HFNPDU, and the embedded ACARS reassembly layer. Every parse step
// attaches errors to the node it occurred on rather than panicking or
// aborting the rest of the tree, per the burst-local error handling model.
package pdu

import "time"

// BurstFlags is a bitmask carried on every burst record. The upstream
// protocol only ever assigns the shutdown sentinel bit; it is kept as a
// bitmask here for forward compatibility rather than collapsed to a bool.
type BurstFlags uint32

const (
	// FlagOrderedShutdown marks a burst record as the end-of-stream
	// sentinel rather than real decoded data.
	FlagOrderedShutdown BurstFlags = 1 << iota
)

// Slot identifies whether a burst occupied a single or double TDMA window.
type Slot byte

const (
	// SlotSingle is a single-width TDMA slot.
	SlotSingle Slot = 'S'
	// SlotDouble is a double-width TDMA slot.
	SlotDouble Slot = 'D'
)

// Metadata is the per-burst envelope a channel worker stamps onto every
// recovered octet string before handing it to the PDU decoder.
type Metadata struct {
	RxTimestamp time.Time
	ChannelFreq uint
	BitRate     int
	Slot        Slot
	FreqErrHz   float64
	RSSI        float64
	NoiseFloor  float64
}

// Burst is the record a channel worker emits on every successfully
// recovered burst and the PDU decoder consumes.
type Burst struct {
	Metadata Metadata
	Octets   []byte
	Flags    BurstFlags
}

// IsShutdownSentinel reports whether this burst is the end-of-stream
// marker rather than real data.
func (b Burst) IsShutdownSentinel() bool {
	return b.Flags&FlagOrderedShutdown != 0
}
