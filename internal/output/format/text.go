package format

import (
	"fmt"
	"strings"

	"github.com/dumphfdl/dumphfdl-go/internal/decoded"
	"github.com/dumphfdl/dumphfdl-go/internal/pdu"
)

// Text renders a Record as a human-readable multi-line summary, the way
// dumphfdl's default text formatter does.
type Text struct {
	UTC          bool
	Milliseconds bool
}

// Format implements Formatter.
func (t Text) Format(r decoded.Record) ([]byte, error) {
	var b strings.Builder

	ts := r.Timestamp
	if t.UTC {
		ts = ts.UTC()
	}
	layout := "2006-01-02 15:04:05"
	if t.Milliseconds {
		layout += ".000"
	}
	fmt.Fprintf(&b, "[%s] ", ts.Format(layout))
	if r.Station != "" {
		fmt.Fprintf(&b, "(%s) ", r.Station)
	}
	fmt.Fprintf(&b, "freq: %d kHz, bitrate: %d, slot: %c, signal: %.1f dBm, noise: %.1f dBm, freq err: %.1f Hz\n",
		r.ChannelFreq, r.BitRate, orDash(r.Slot), r.SigLevelDBm, r.NoiseDBm, r.FreqErrHz)

	if r.MPDU == nil {
		b.WriteString("  (no PDU)\n")
		return []byte(b.String()), nil
	}

	writeMPDU(&b, r.MPDU)
	return []byte(b.String()), nil
}

func orDash(slot byte) rune {
	if slot == 0 {
		return '-'
	}
	return rune(slot)
}

func writeMPDU(b *strings.Builder, m *pdu.MPDU) {
	fmt.Fprintf(b, "  MPDU crc_ok=%v direction=%d\n", m.CRCOK, m.Direction)
	if !m.CRCOK {
		return
	}
	for _, l := range m.LPDUs {
		writeLPDU(b, l)
	}
}

func writeLPDU(b *strings.Builder, l *pdu.LPDU) {
	fmt.Fprintf(b, "    LPDU type=0x%02X crc_ok=%v\n", l.Type, l.CRCOK)
	if !l.CRCOK || l.HFNPDU == nil {
		return
	}
	writeHFNPDU(b, l.HFNPDU)
}

func writeHFNPDU(b *strings.Builder, h *pdu.HFNPDU) {
	fmt.Fprintf(b, "      HFNPDU type=0x%02X err=%v\n", h.Type, h.Err != nil)
	if h.ACARS != nil {
		fmt.Fprintf(b, "        ACARS label=%s reg=%s status=%s text=%q\n",
			h.ACARS.Label, h.ACARS.Registration, h.ACARS.Status, h.ACARS.Text)
	}
}
