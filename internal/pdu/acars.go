package pdu

import (
	"time"

	"github.com/mitchellh/hashstructure/v2"
)

// ACARSDirection is the air-ground direction an ACARS message travels.
type ACARSDirection int

const (
	// DownlinkACARS is air-to-ground.
	DownlinkACARS ACARSDirection = iota
	// UplinkACARS is ground-to-air.
	UplinkACARS
)

// ReassemblyStatus is the outcome the ACARS layer reports for each
// message it processes.
type ReassemblyStatus string

const (
	ReassemblyUnknown        ReassemblyStatus = "unknown"
	ReassemblyComplete       ReassemblyStatus = "complete"
	ReassemblySkipped        ReassemblyStatus = "skipped"
	ReassemblyDuplicate      ReassemblyStatus = "duplicate"
	ReassemblyOutOfSequence  ReassemblyStatus = "out_of_sequence"
	ReassemblyInvalidArgs    ReassemblyStatus = "invalid_args"
	reassemblyInProgress     ReassemblyStatus = "in_progress"
)

const (
	acarsSOH = 0x01
	acarsSTX = 0x02
	acarsETX = 0x03
	acarsETB = 0x17
)

// ACARS is one parsed ACARS message: addressing, the label identifying
// its application, and text content, plus the reassembly status the
// embedded reassembler assigned it.
type ACARS struct {
	Err    error
	Status ReassemblyStatus

	Mode        byte
	Registration string
	AckByte     byte
	Label       string
	BlockID     byte
	Text        string

	MoreToFollow bool

	Raw []byte
}

// ParseACARS parses the enveloped ACARS block. body must contain the SOH
// sentinel at offset 0 (the HFNPDU 0xFF/0xFF envelope strips the leading
// 0xFF/type octets before calling this).
func ParseACARS(body []byte) *ACARS {
	a := &ACARS{Raw: body, Status: ReassemblyUnknown}
	if len(body) < 1 || body[0] != acarsSOH {
		a.Err = ErrTruncated
		return a
	}
	if len(body) < 16 {
		a.Err = ErrTruncated
		return a
	}

	a.Mode = body[1]
	a.Registration = trimACARSField(body[2:9])
	a.AckByte = body[9]
	a.Label = trimACARSField(body[10:12])
	a.BlockID = body[12]

	textStart := 13
	if textStart < len(body) && body[textStart] == acarsSTX {
		textStart++
	}

	end := len(body)
	for i := textStart; i < len(body); i++ {
		if body[i] == acarsETX || body[i] == acarsETB {
			end = i
			a.MoreToFollow = body[i] == acarsETB
			break
		}
	}
	if textStart <= end {
		a.Text = string(body[textStart:end])
	}

	return a
}

func trimACARSField(b []byte) string {
	n := len(b)
	for n > 0 && (b[n-1] == ' ' || b[n-1] == 0) {
		n--
	}
	return string(b[:n])
}

// reassemblyKeyInput is hashed with hashstructure to produce a stable
// reassembly key, grouping fragments of the same logical message. Time
// boundedness comes from reassemblyStaleTimeout eviction, not from the
// key itself, so fragments of one message hash identically regardless of
// how far apart they arrive.
type reassemblyKeyInput struct {
	Direction    ACARSDirection
	Registration string
	Label        string
}

// Reassembler tracks in-progress multi-part ACARS messages. It is owned
// exclusively by the single PDU-decoder worker, matching the spec's
// single-threaded reassembly context.
type Reassembler struct {
	pending map[uint64]*pendingMessage
}

type pendingMessage struct {
	text      string
	blockID   byte
	startedAt time.Time
}

// reassemblyStaleTimeout bounds how long a partial message waits for its
// next fragment before it is considered abandoned. A fragment that shows
// up referencing a pending entry older than this is reported skipped
// rather than silently stitched onto a stale partial.
const reassemblyStaleTimeout = 5 * time.Minute

// acarsBlockIDAlphabet is the block-ID sequence ACARS fragments of one
// message cycle through, one character per successive block.
const acarsBlockIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// nextACARSBlockID returns the block ID expected to follow b in sequence.
func nextACARSBlockID(b byte) byte {
	idx := -1
	for i := 0; i < len(acarsBlockIDAlphabet); i++ {
		if acarsBlockIDAlphabet[i] == b {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0
	}
	return acarsBlockIDAlphabet[(idx+1)%len(acarsBlockIDAlphabet)]
}

// NewReassembler returns an empty reassembler.
func NewReassembler() *Reassembler {
	return &Reassembler{pending: make(map[uint64]*pendingMessage)}
}

// Feed processes one parsed ACARS fragment, updating reassembly state and
// setting a.Status to the outcome for this fragment.
func (r *Reassembler) Feed(direction ACARSDirection, a *ACARS, now time.Time) {
	if a.Err != nil {
		a.Status = ReassemblyInvalidArgs
		return
	}

	key, err := r.key(direction, a)
	if err != nil {
		a.Status = ReassemblyInvalidArgs
		return
	}

	existing, ok := r.pending[key]
	if ok && now.Sub(existing.startedAt) > reassemblyStaleTimeout {
		delete(r.pending, key)
		ok = false
		a.Status = ReassemblySkipped
		if a.MoreToFollow {
			r.pending[key] = &pendingMessage{text: a.Text, blockID: a.BlockID, startedAt: now}
		}
		return
	}

	if !a.MoreToFollow {
		if ok {
			if existing.blockID == a.BlockID && existing.text == a.Text {
				a.Status = ReassemblyDuplicate
				return
			}
			if a.BlockID != nextACARSBlockID(existing.blockID) {
				a.Text = existing.text + a.Text
				delete(r.pending, key)
				a.Status = ReassemblyOutOfSequence
				return
			}
			a.Text = existing.text + a.Text
			delete(r.pending, key)
			a.Status = ReassemblyComplete
			return
		}
		a.Status = ReassemblyComplete
		return
	}

	if ok {
		if existing.blockID == a.BlockID {
			a.Status = ReassemblyDuplicate
			return
		}
		if a.BlockID != nextACARSBlockID(existing.blockID) {
			existing.text += a.Text
			existing.blockID = a.BlockID
			a.Status = ReassemblyOutOfSequence
			return
		}
		existing.text += a.Text
		existing.blockID = a.BlockID
		a.Status = reassemblyInProgress
		return
	}

	r.pending[key] = &pendingMessage{text: a.Text, blockID: a.BlockID, startedAt: now}
	a.Status = reassemblyInProgress
}

func (r *Reassembler) key(direction ACARSDirection, a *ACARS) (uint64, error) {
	input := reassemblyKeyInput{
		Direction:    direction,
		Registration: a.Registration,
		Label:        a.Label,
	}
	h, err := hashstructure.Hash(input, hashstructure.FormatV2, nil)
	if err != nil {
		return 0, err
	}
	return h, nil
}
