package format

import (
	"bytes"
	"encoding/binary"

	"github.com/dumphfdl/dumphfdl-go/internal/decoded"
)

// Binary renders a Record as a compact length-prefixed encoding: a fixed
// metadata header followed by the raw burst octets (populated for
// --raw-frames/--output-mpdus passthrough) or, when absent, the JSON
// tree re-encoded as the payload.
type Binary struct{}

// Format implements Formatter.
func (Binary) Format(r decoded.Record) ([]byte, error) {
	payload := r.RawOctets
	if payload == nil {
		encoded, err := (JSON{}).Format(r)
		if err != nil {
			return nil, err
		}
		payload = encoded
	}

	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, r.Timestamp.Unix())
	binary.Write(&buf, binary.LittleEndian, r.ChannelFreq)
	binary.Write(&buf, binary.LittleEndian, uint32(r.BitRate))
	buf.WriteByte(r.Slot)
	binary.Write(&buf, binary.LittleEndian, uint32(len(payload)))
	buf.Write(payload)
	return buf.Bytes(), nil
}
