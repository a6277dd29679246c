package pdu

import (
	"testing"

	"github.com/dumphfdl/dumphfdl-go/internal/fcs"
)

func TestParseSPDURejectsWrongLength(t *testing.T) {
	s := ParseSPDU(make([]byte, 10))
	if s.Err != ErrTruncated {
		t.Fatalf("Err = %v, want ErrTruncated", s.Err)
	}
}

func TestParseSPDURejectsBadFCS(t *testing.T) {
	buf := make([]byte, spduLength)
	s := ParseSPDU(buf)
	if s.CRCOK {
		t.Fatal("expected CRCOK false for an all-zero buffer with no valid FCS")
	}
}

func TestParseSPDUDecodesHeaderFields(t *testing.T) {
	protected := make([]byte, spduFCSProtected)
	protected[0] = 0x40 | 0x20 // version 1, RLSInUse
	protected[1] = 7           // FrameIndex
	protected[2] = 3           // FrameOffset
	protected[4] = 5           // SystemTableVersion low byte
	buf := fcs.Append(protected)

	s := ParseSPDU(buf)
	if !s.CRCOK {
		t.Fatal("expected CRCOK true for a correctly FCS-appended buffer")
	}
	if s.Version != 1 {
		t.Fatalf("Version = %d, want 1", s.Version)
	}
	if !s.RLSInUse {
		t.Fatal("expected RLSInUse true")
	}
	if s.FrameIndex != 7 {
		t.Fatalf("FrameIndex = %d, want 7", s.FrameIndex)
	}
	if s.SystemTableVersion != 5 {
		t.Fatalf("SystemTableVersion = %d, want 5", s.SystemTableVersion)
	}
}

func TestParseMPDURejectsEmptyBuffer(t *testing.T) {
	m := ParseMPDU(nil)
	if m.Err != ErrTruncated {
		t.Fatalf("Err = %v, want ErrTruncated", m.Err)
	}
}

func TestParseMPDUDownlinkWithNoLPDUsRoundTrips(t *testing.T) {
	protected := make([]byte, mpduMinHeader)
	protected[0] = 0x80
	protected[1] = 0x05
	protected[2] = 0x0A
	buf := fcs.Append(protected)

	m := ParseMPDU(buf)
	if !m.CRCOK {
		t.Fatal("expected CRCOK true")
	}
	if m.Direction != Downlink {
		t.Fatalf("Direction = %v, want Downlink", m.Direction)
	}
	if m.DstID != 5 {
		t.Fatalf("DstID = %d, want 5", m.DstID)
	}
	if m.SrcID != 0x0A {
		t.Fatalf("SrcID = %d, want 10", m.SrcID)
	}
	if len(m.LPDUs) != 0 {
		t.Fatalf("expected no LPDUs, got %d", len(m.LPDUs))
	}
}

func TestParseMPDUDownlinkCarriesOneLPDU(t *testing.T) {
	lpduPayload := make([]byte, 4)
	lpdu := fcs.Append(lpduPayload)

	protected := make([]byte, mpduMinHeader+1)
	protected[0] = 0x80
	protected[1] = 0x05
	protected[2] = 0x0A
	protected[3] = 0x01
	header := fcs.Append(protected)

	buf := append(header, byte(len(lpdu)-1))
	buf = append(buf, lpdu...)

	m := ParseMPDU(buf)
	if !m.CRCOK {
		t.Fatal("expected CRCOK true")
	}
	if len(m.LPDUs) != 1 {
		t.Fatalf("expected 1 LPDU, got %d", len(m.LPDUs))
	}
}

func TestLPDUIsLogonConfirmRequiresCRCOKAndACID(t *testing.T) {
	l := &LPDU{CRCOK: false, Type: LPDULogonConfirm, HasACID: true}
	if l.IsLogonConfirm() {
		t.Fatal("expected false when CRCOK is false")
	}

	l = &LPDU{CRCOK: true, Type: LPDULogonConfirm, HasACID: false}
	if l.IsLogonConfirm() {
		t.Fatal("expected false when HasACID is false")
	}

	l = &LPDU{CRCOK: true, Type: LPDULogonConfirm, HasACID: true}
	if !l.IsLogonConfirm() {
		t.Fatal("expected true for a CRC-OK logon confirm with an assigned ACID")
	}

	l = &LPDU{CRCOK: true, Type: LPDULogonResumeConfirm, HasACID: true}
	if !l.IsLogonConfirm() {
		t.Fatal("expected true for a CRC-OK logon resume confirm with an assigned ACID")
	}
}
