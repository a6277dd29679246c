package format

import (
	"fmt"

	"github.com/dumphfdl/dumphfdl-go/internal/basestation"
	"github.com/dumphfdl/dumphfdl-go/internal/decoded"
	"github.com/dumphfdl/dumphfdl-go/internal/pdu"
)

// AircraftLookup resolves an ICAO address to basestation metadata.
type AircraftLookup interface {
	Lookup(icao uint32) (basestation.Aircraft, error)
}

// Basestation renders a Record as an SBS-1-style comma-separated MSG
// sentence, enriched with registration/type from an aircraft lookup
// when the record's PDU tree carries a resolvable ICAO address.
type Basestation struct {
	Lookup AircraftLookup
}

// Format implements Formatter. Records with no resolvable ICAO address
// produce no MSG line (returns nil, nil) the way the reference tool
// skips non-addressed HFDL traffic in basestation mode.
func (b Basestation) Format(r decoded.Record) ([]byte, error) {
	icao, ok := findICAO(r.MPDU)
	if !ok {
		return nil, nil
	}

	reg, acType := fmt.Sprintf("%06X", icao), ""
	if b.Lookup != nil {
		if a, err := b.Lookup.Lookup(icao); err == nil {
			reg = a.Registration
			acType = a.Type
		}
	}

	return []byte(fmt.Sprintf("MSG,3,1,1,%06X,1,%s,,,,%s,%s,,,,,,,,,,\n",
		icao, r.Timestamp.Format("2006/01/02,15:04:05.000"), reg, acType)), nil
}

func findICAO(m *pdu.MPDU) (uint32, bool) {
	if m == nil || !m.CRCOK {
		return 0, false
	}
	for _, l := range m.LPDUs {
		if l.CRCOK && l.HasICAO {
			return uint32(l.ICAO), true
		}
	}
	return 0, false
}
