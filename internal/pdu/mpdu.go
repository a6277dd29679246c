package pdu

import "github.com/dumphfdl/dumphfdl-go/internal/fcs"

// Direction identifies which way an MPDU travels: ground-to-air (uplink)
// or air-to-ground (downlink).
type Direction int

const (
	// Uplink is a ground-to-air MPDU.
	Uplink Direction = iota
	// Downlink is an air-to-ground MPDU.
	Downlink
)

// AircraftBlock is one uplink MPDU's per-aircraft addressing block: the
// assigned aircraft ID, its LPDU count, and the per-LPDU length table.
type AircraftBlock struct {
	ACID     int
	LPDULens []int
}

// MPDU is the media-access-layer PDU: it frames one or more LPDUs inside a
// single HFDL burst and is FCS-protected over its own header.
type MPDU struct {
	CRCOK bool
	Err   error

	Direction Direction
	SrcID     int // downlink only
	DstID     int // downlink only

	AircraftBlocks []AircraftBlock // uplink only

	LPDUs []*LPDU
	Raw   []byte
}

const mpduMinHeader = 6

// ParseMPDU parses an MPDU and dispatches its contained LPDUs. If the FCS
// check fails, the MPDU is marked invalid and its LPDUs are not parsed.
func ParseMPDU(buf []byte) *MPDU {
	m := &MPDU{Raw: buf}
	if len(buf) < 1 {
		m.Err = ErrTruncated
		return m
	}

	if buf[0]&0x80 != 0 {
		m.Direction = Downlink
		return parseDownlinkMPDU(m, buf)
	}
	m.Direction = Uplink
	return parseUplinkMPDU(m, buf)
}

func parseDownlinkMPDU(m *MPDU, buf []byte) *MPDU {
	if len(buf) < 4 {
		m.Err = ErrTruncated
		return m
	}
	lpduCnt := int(buf[3])
	headerLen := mpduMinHeader + lpduCnt
	if len(buf) < headerLen+2 {
		m.Err = ErrTruncated
		return m
	}

	protected := buf[:headerLen]
	fcsField := buf[headerLen : headerLen+2]
	m.CRCOK = fcs.Verify(append(append([]byte{}, protected...), fcsField...))
	if !m.CRCOK {
		return m
	}

	m.DstID = int(buf[1] & 0x7F)
	m.SrcID = int(buf[2])

	offset := headerLen + 2
	for i := 0; i < lpduCnt; i++ {
		if offset >= len(buf) {
			m.Err = ErrTruncated
			return m
		}
		lenOctet := int(buf[offset])
		actualLen := lenOctet + 1
		offset++
		if offset+actualLen > len(buf) {
			m.Err = ErrTruncated
			return m
		}
		lpdu := ParseLPDU(buf[offset : offset+actualLen])
		m.LPDUs = append(m.LPDUs, lpdu)
		offset += actualLen
	}

	return m
}

func parseUplinkMPDU(m *MPDU, buf []byte) *MPDU {
	if len(buf) < 2 {
		m.Err = ErrTruncated
		return m
	}
	blockCount := int((buf[0]>>4)&0x7) + 1

	offset := 1
	headerLen := 1
	blocks := make([]AircraftBlock, 0, blockCount)
	for i := 0; i < blockCount; i++ {
		if offset+2 > len(buf) {
			m.Err = ErrTruncated
			return m
		}
		acID := int(buf[offset])
		lpduCnt := int(buf[offset+1])
		offset += 2
		headerLen += 2 + lpduCnt
		lens := make([]int, lpduCnt)
		for j := 0; j < lpduCnt; j++ {
			if offset >= len(buf) {
				m.Err = ErrTruncated
				return m
			}
			lens[j] = int(buf[offset]) + 1
			offset++
		}
		blocks = append(blocks, AircraftBlock{ACID: acID, LPDULens: lens})
	}
	m.AircraftBlocks = blocks

	if len(buf) < headerLen+2 {
		m.Err = ErrTruncated
		return m
	}

	protected := buf[:headerLen]
	fcsField := buf[headerLen : headerLen+2]
	m.CRCOK = fcs.Verify(append(append([]byte{}, protected...), fcsField...))
	if !m.CRCOK {
		return m
	}

	payloadOffset := headerLen + 2
	for _, block := range blocks {
		for _, l := range block.LPDULens {
			if payloadOffset+l > len(buf) {
				m.Err = ErrTruncated
				return m
			}
			lpdu := ParseLPDU(buf[payloadOffset : payloadOffset+l])
			m.LPDUs = append(m.LPDUs, lpdu)
			payloadOffset += l
		}
	}

	return m
}
