package pdu

import (
	"github.com/dumphfdl/dumphfdl-go/internal/fcs"
)

const (
	spduLength      = 66
	spduFCSProtected = 64
	maxGSStatus     = 3
)

// GroundStationStatus is one ground-station status record carried in an
// SPDU: the station's ID, whether it has UTC sync, and the 20-bit bitmap
// of frequencies currently in use.
type GroundStationStatus struct {
	ID          int
	UTCSync     bool
	FreqsInUse  uint32
}

// SPDU (squitter PDU) is the periodic ground-station uplink broadcast
// carrying system-table version and ground-station availability.
type SPDU struct {
	CRCOK bool
	Err   error

	Version          int
	RLSInUse         bool
	ISO8208Supported bool
	ChangeNote       int
	FrameIndex       int
	FrameOffset      int
	MinPriority      int
	SystemTableVersion int

	GroundStationBitmap uint32
	Stations            []GroundStationStatus

	Raw []byte
}

// ParseSPDU decodes a fixed 66-octet SPDU. The first 64 octets are
// FCS-protected; octets 64-65 hold the little-endian complemented FCS.
func ParseSPDU(buf []byte) *SPDU {
	s := &SPDU{Raw: buf}

	if len(buf) != spduLength {
		s.Err = ErrTruncated
		return s
	}

	s.CRCOK = fcs.Verify(buf[:spduFCSProtected+2])
	if !s.CRCOK {
		return s
	}

	flags := buf[0]
	s.Version = int(flags >> 6)
	s.RLSInUse = flags&0x20 != 0
	s.ISO8208Supported = flags&0x10 != 0
	s.ChangeNote = int(flags & 0x0F)

	s.FrameIndex = int(buf[1])
	s.FrameOffset = int(buf[2])
	s.MinPriority = int(buf[3] & 0x0F)
	s.SystemTableVersion = int(buf[4]) | int(buf[5])<<8

	s.GroundStationBitmap = uint32(buf[6]) | uint32(buf[7])<<8 |
		uint32(buf[8])<<16 | uint32(buf[9])<<24

	offset := 10
	for i := 0; i < maxGSStatus && offset+3 <= spduFCSProtected; i++ {
		id := int(buf[offset] & 0x7F)
		utcSync := buf[offset]&0x80 != 0
		freqs := uint32(buf[offset+1]) | uint32(buf[offset+2])<<8 | uint32(buf[offset+3]&0x0F)<<16
		s.Stations = append(s.Stations, GroundStationStatus{
			ID:         id,
			UTCSync:    utcSync,
			FreqsInUse: freqs,
		})
		offset += 4
	}

	return s
}
