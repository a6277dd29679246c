package format

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/dumphfdl/dumphfdl-go/internal/decoded"
	"github.com/dumphfdl/dumphfdl-go/internal/pdu"
)

func sampleRecord() decoded.Record {
	return decoded.Record{
		Station:     "TEST",
		Timestamp:   time.Unix(1700000000, 0),
		ChannelFreq: 13312,
		BitRate:     1800,
		Slot:        'S',
		SigLevelDBm: -40,
		NoiseDBm:    -80,
		MPDU: &pdu.MPDU{
			CRCOK: true,
			LPDUs: []*pdu.LPDU{
				{CRCOK: true, Type: pdu.LPDULogonConfirm, HasICAO: true, ICAO: 0xD2CE48, HasACID: true, AssignedACID: 0x2B},
			},
		},
	}
}

func TestTextFormatIncludesFrequencyAndSlot(t *testing.T) {
	out, err := Text{}.Format(sampleRecord())
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("expected non-empty text output")
	}
	if !strings.Contains(string(out), "freq: 13312 kHz") {
		t.Fatalf("text output %q lacks the channel frequency", out)
	}
	if !strings.Contains(string(out), "slot: S") {
		t.Fatalf("text output %q lacks the slot", out)
	}
}

func TestJSONFormatRoundTripsSchema(t *testing.T) {
	out, err := JSON{}.Format(sampleRecord())
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	var decodedJSON map[string]interface{}
	if err := json.Unmarshal(out, &decodedJSON); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	for _, key := range []string{"app", "t", "freq", "bit_rate", "sig_level", "noise_level", "freq_skew", "slot", "hfdl"} {
		if _, ok := decodedJSON[key]; !ok {
			t.Errorf("missing top-level key %q", key)
		}
	}
}

func TestBasestationFormatProducesMSGLine(t *testing.T) {
	out, err := Basestation{}.Format(sampleRecord())
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("expected MSG line for record with resolvable ICAO")
	}
}

func TestBasestationFormatSkipsUnaddressedRecord(t *testing.T) {
	r := sampleRecord()
	r.MPDU.LPDUs[0].HasICAO = false
	out, err := Basestation{}.Format(r)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if out != nil {
		t.Fatal("expected nil output for unaddressed record")
	}
}

func TestBinaryFormatIsLengthPrefixed(t *testing.T) {
	out, err := Binary{}.Format(sampleRecord())
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if len(out) < 21 {
		t.Fatalf("binary output too short: %d bytes", len(out))
	}
}
