package pdu

// HFNPDUType is the HF-network PDU type code carried in the octet
// following the 0xFF sentinel.
type HFNPDUType byte

const (
	HFNPDUSystemTable        HFNPDUType = 0xD0
	HFNPDUPerformanceData    HFNPDUType = 0xD1
	HFNPDUSystemTableRequest HFNPDUType = 0xD2
	HFNPDUFrequencyData      HFNPDUType = 0xD5
	HFNPDUDelayedEcho        HFNPDUType = 0xDE
	HFNPDUEnvelopedData      HFNPDUType = 0xFF
)

// GroundStationEntry is one station record inside a system-table HFNPDU.
type GroundStationEntry struct {
	ID            int
	LatitudeDeg   float64
	LongitudeDeg  float64
	FrequenciesKHz []float64
}

// SystemTableHFNPDU (0xD0) carries a (possibly multi-segment) snapshot of
// the ground-station directory.
type SystemTableHFNPDU struct {
	SystemTableVersion int
	SeqNum             int
	TotalCount         int
	Stations           []GroundStationEntry
}

// PerformanceDataHFNPDU (0xD1) is a fixed 47-octet diagnostic record
// about link quality. Only the leading eight octets (time, frame and slot
// index, signal and noise level, bit error rate, assigned aircraft ID) are
// decoded; the remaining octets are not parsed.
type PerformanceDataHFNPDU struct {
	UTCHour, UTCMinute, UTCSecond int
	FrameIndex                   int
	SlotIndex                    int
	SignalLevelDBm               float64
	NoiseLevelDBm                float64
	BitErrorRatePercent          float64
	AssignedACID                 int
}

// FrequencyRecord is one propagating-frequency entry inside a 0xD5 HFNPDU.
type FrequencyRecord struct {
	GroundStationID int
	FrequencyKHz    float64
}

// FrequencyDataHFNPDU (0xD5) advertises up to six ground stations'
// propagating frequencies, as heard by the reporting station.
type FrequencyDataHFNPDU struct {
	GroundStationID int
	UTCHour, UTCMinute, UTCSecond int
	Records []FrequencyRecord
}

// SystemTableRequestHFNPDU (0xD2) is an aircraft's request for a full
// system-table refresh.
type SystemTableRequestHFNPDU struct {
	RequestedVersion int
}

// DelayedEchoHFNPDU (0xDE) is a diagnostic echo-back record; the protocol
// does not otherwise specify structured fields beyond the raw payload.
type DelayedEchoHFNPDU struct {
	Payload []byte
}

// HFNPDU is the HF-network PDU: the innermost layer before ACARS, tagged
// by a type byte following the 0xFF sentinel.
type HFNPDU struct {
	Err  error
	Type HFNPDUType

	SystemTable    *SystemTableHFNPDU
	Performance    *PerformanceDataHFNPDU
	SystemRequest  *SystemTableRequestHFNPDU
	FrequencyData  *FrequencyDataHFNPDU
	DelayedEcho    *DelayedEchoHFNPDU
	ACARS          *ACARS

	Raw []byte
}

const maxFrequencyRecords = 6

// ParseHFNPDU parses the HF-network PDU payload, expecting the leading
// 0xFF sentinel followed by a type octet.
func ParseHFNPDU(buf []byte) *HFNPDU {
	h := &HFNPDU{Raw: buf}
	if len(buf) < 2 || buf[0] != 0xFF {
		h.Err = ErrTruncated
		return h
	}
	h.Type = HFNPDUType(buf[1])
	body := buf[2:]

	switch h.Type {
	case HFNPDUSystemTable:
		h.SystemTable, h.Err = parseSystemTable(body)
	case HFNPDUPerformanceData:
		h.Performance, h.Err = parsePerformanceData(body)
	case HFNPDUSystemTableRequest:
		h.SystemRequest, h.Err = parseSystemTableRequest(body)
	case HFNPDUFrequencyData:
		h.FrequencyData, h.Err = parseFrequencyData(body)
	case HFNPDUDelayedEcho:
		h.DelayedEcho = &DelayedEchoHFNPDU{Payload: body}
	case HFNPDUEnvelopedData:
		if len(buf) < 3 {
			return h
		}
		h.ACARS = ParseACARS(body)
	default:
		h.Err = ErrUnknownType
	}

	return h
}

func parseSystemTable(body []byte) (*SystemTableHFNPDU, error) {
	if len(body) < 13 {
		return nil, ErrTruncated
	}
	st := &SystemTableHFNPDU{
		SystemTableVersion: int(body[0]) | int(body[1])<<8,
		SeqNum:             int(body[2]),
		TotalCount:         int(body[3]),
	}

	offset := 4
	for offset+9 <= len(body) {
		id := int(body[offset] & 0x7F)
		lat := ParseCoordinate(uint32(body[offset+1]) | uint32(body[offset+2])<<8 | uint32(body[offset+3])<<16)
		lon := ParseCoordinate(uint32(body[offset+4]) | uint32(body[offset+5])<<8 | uint32(body[offset+6])<<16)
		freqCount := int(body[offset+7])
		offset += 8
		entry := GroundStationEntry{ID: id, LatitudeDeg: lat, LongitudeDeg: lon}
		for i := 0; i < freqCount && offset+3 <= len(body); i++ {
			entry.FrequenciesKHz = append(entry.FrequenciesKHz, ParseBCDFrequencyKHz(body[offset], body[offset+1], body[offset+2]))
			offset += 3
		}
		st.Stations = append(st.Stations, entry)
	}

	return st, nil
}

func parsePerformanceData(body []byte) (*PerformanceDataHFNPDU, error) {
	if len(body) < 47 {
		return nil, ErrTruncated
	}
	h, m, s := ParseUTCTime(uint16(body[0]) | uint16(body[1])<<8)
	return &PerformanceDataHFNPDU{
		UTCHour:             h,
		UTCMinute:           m,
		UTCSecond:           s,
		FrameIndex:          int(body[2]),
		SlotIndex:           int(body[3]),
		SignalLevelDBm:      float64(int8(body[4])),
		NoiseLevelDBm:       float64(int8(body[5])),
		BitErrorRatePercent: float64(body[6]) / 10.0,
		AssignedACID:        int(body[7]),
	}, nil
}

func parseSystemTableRequest(body []byte) (*SystemTableRequestHFNPDU, error) {
	if len(body) < 4 {
		return nil, ErrTruncated
	}
	return &SystemTableRequestHFNPDU{
		RequestedVersion: int(body[0]) | int(body[1])<<8,
	}, nil
}

func parseFrequencyData(body []byte) (*FrequencyDataHFNPDU, error) {
	if len(body) < 15 {
		return nil, ErrTruncated
	}
	h, m, s := ParseUTCTime(uint16(body[0]) | uint16(body[1])<<8)
	fd := &FrequencyDataHFNPDU{
		GroundStationID: int(body[2] & 0x7F),
		UTCHour:         h,
		UTCMinute:       m,
		UTCSecond:       s,
	}

	offset := 3
	for i := 0; i < maxFrequencyRecords && offset+6 <= len(body); i++ {
		gsID := int(body[offset] & 0x7F)
		freq := ParseBCDFrequencyKHz(body[offset+3], body[offset+4], body[offset+5])
		fd.Records = append(fd.Records, FrequencyRecord{GroundStationID: gsID, FrequencyKHz: freq})
		offset += 6
	}

	return fd, nil
}
