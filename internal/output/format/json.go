package format

import (
	"encoding/json"

	"github.com/dumphfdl/dumphfdl-go/internal/decoded"
	"github.com/dumphfdl/dumphfdl-go/internal/pdu"
)

// JSON renders a Record as the documented top-level JSON schema.
type JSON struct{}

type jsonApp struct {
	Name string `json:"name"`
	Ver  string `json:"ver"`
}

type jsonTime struct {
	Sec  int64 `json:"sec"`
	USec int64 `json:"usec"`
}

type jsonEnvelope struct {
	App        jsonApp     `json:"app"`
	Station    string      `json:"station,omitempty"`
	Time       jsonTime    `json:"t"`
	Freq       uint32      `json:"freq"`
	BitRate    int         `json:"bit_rate"`
	SigLevel   float64     `json:"sig_level"`
	NoiseLevel float64     `json:"noise_level"`
	FreqSkew   float64     `json:"freq_skew"`
	Slot       string      `json:"slot"`
	HFDL       interface{} `json:"hfdl"`
}

// Format implements Formatter.
func (JSON) Format(r decoded.Record) ([]byte, error) {
	env := jsonEnvelope{
		App:        jsonApp{Name: AppName, Ver: AppVersion},
		Station:    r.Station,
		Time:       jsonTime{Sec: r.Timestamp.Unix(), USec: int64(r.Timestamp.Nanosecond() / 1000)},
		Freq:       r.ChannelFreq,
		BitRate:    r.BitRate,
		SigLevel:   r.SigLevelDBm,
		NoiseLevel: r.NoiseDBm,
		FreqSkew:   r.FreqErrHz,
		Slot:       string(r.Slot),
		HFDL:       mpduToTree(r.MPDU),
	}
	return json.Marshal(env)
}

func mpduToTree(m *pdu.MPDU) map[string]interface{} {
	if m == nil {
		return nil
	}
	node := map[string]interface{}{
		"crc_ok":    m.CRCOK,
		"direction": int(m.Direction),
	}
	if !m.CRCOK {
		return node
	}
	lpdus := make([]map[string]interface{}, 0, len(m.LPDUs))
	for _, l := range m.LPDUs {
		lpdus = append(lpdus, lpduToTree(l))
	}
	node["lpdus"] = lpdus
	return node
}

func lpduToTree(l *pdu.LPDU) map[string]interface{} {
	node := map[string]interface{}{
		"type":   l.Type,
		"crc_ok": l.CRCOK,
	}
	if !l.CRCOK {
		return node
	}
	if l.HasICAO {
		node["icao"] = l.ICAO
	}
	if l.HasACID {
		node["ac_id"] = l.AssignedACID
	}
	if l.HFNPDU != nil {
		node["hfnpdu"] = hfnpduToTree(l.HFNPDU)
	}
	return node
}

func hfnpduToTree(h *pdu.HFNPDU) map[string]interface{} {
	node := map[string]interface{}{
		"type": h.Type,
		"err":  h.Err != nil,
	}
	switch {
	case h.SystemTable != nil:
		node["systable"] = h.SystemTable
	case h.Performance != nil:
		node["perf"] = h.Performance
	case h.FrequencyData != nil:
		node["freq_data"] = h.FrequencyData
	case h.SystemRequest != nil:
		node["systable_request"] = h.SystemRequest
	case h.DelayedEcho != nil:
		node["delayed_echo"] = true
	case h.ACARS != nil:
		node["acars"] = map[string]interface{}{
			"label":  h.ACARS.Label,
			"reg":    h.ACARS.Registration,
			"status": h.ACARS.Status,
			"text":   h.ACARS.Text,
		}
	}
	return node
}
