package pdu

import "github.com/dumphfdl/dumphfdl-go/internal/fcs"

// LPDUType is the link-layer PDU type code carried in the first octet.
type LPDUType byte

const (
	LPDUUnnumberedData        LPDUType = 0x0D
	LPDUUnnumberedAckedData   LPDUType = 0x1D
	LPDULogonDenied           LPDUType = 0x2F
	LPDULogoffRequest         LPDUType = 0x3F
	LPDULogonResume           LPDUType = 0x4F
	LPDULogonResumeConfirm    LPDUType = 0x5F
	LPDULogonRequestNormal    LPDUType = 0x8F
	LPDULogonConfirm          LPDUType = 0x9F
	LPDULogonRequestDLS       LPDUType = 0xBF
)

// LPDU is the link-layer PDU: the innermost FCS-protected unit before
// HFNPDU / ACARS payload parsing.
type LPDU struct {
	CRCOK bool
	Err   error

	Type LPDUType

	ICAO       ICAOAddress
	HasICAO    bool
	ReasonCode int
	AssignedACID int
	HasACID    bool

	HFNPDU *HFNPDU

	Raw []byte
}

// ParseLPDU parses one link-layer PDU, verifying its FCS over len-2
// octets and, for recognized types, extracting the structured payload.
func ParseLPDU(buf []byte) *LPDU {
	l := &LPDU{Raw: buf}
	if len(buf) < 3 {
		l.Err = ErrTruncated
		return l
	}

	l.CRCOK = fcs.Verify(buf)
	if !l.CRCOK {
		return l
	}

	l.Type = LPDUType(buf[0])
	body := buf[1 : len(buf)-2]

	switch l.Type {
	case LPDULogonDenied, LPDULogoffRequest:
		if len(body) < 4 {
			l.Err = ErrTruncated
			return l
		}
		l.ICAO = ParseICAO(body[0], body[1], body[2])
		l.HasICAO = true
		l.ReasonCode = int(body[3])

	case LPDULogonResume, LPDULogonRequestNormal, LPDULogonRequestDLS:
		if len(body) < 3 {
			l.Err = ErrTruncated
			return l
		}
		l.ICAO = ParseICAO(body[0], body[1], body[2])
		l.HasICAO = true

	case LPDULogonResumeConfirm, LPDULogonConfirm:
		if len(body) < 4 {
			l.Err = ErrTruncated
			return l
		}
		l.ICAO = ParseICAO(body[0], body[1], body[2])
		l.HasICAO = true
		l.AssignedACID = int(body[3])
		l.HasACID = true

	case LPDUUnnumberedData, LPDUUnnumberedAckedData:
		l.HFNPDU = ParseHFNPDU(body)

	default:
		l.Err = ErrUnknownType
	}

	return l
}

// IsLogonConfirm reports whether this LPDU is a successful logon/confirm
// carrying an aircraft-to-ICAO binding that should be written to the
// aircraft cache.
func (l *LPDU) IsLogonConfirm() bool {
	return l.CRCOK && l.HasACID && (l.Type == LPDULogonResumeConfirm || l.Type == LPDULogonConfirm)
}
