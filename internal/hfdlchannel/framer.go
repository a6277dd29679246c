package hfdlchannel

import "github.com/dumphfdl/dumphfdl-go/internal/dsp"

// State is one state of the outer framer state machine.
type State int

const (
	A1Search State = iota
	A2Search
	M1Search
	M2Skip
	EQTrain
	Data1
	Data2
)

// SamplerDisposition selects what the per-symbol inner loop does with
// each equalized symbol.
type SamplerDisposition int

const (
	EmitBits SamplerDisposition = iota
	EmitSymbols
	Skip
)

// Event is what Framer.Advance produced on a given transition.
type Event int

const (
	NoEvent Event = iota
	Reset
	BurstReady
	A1Acquired
	A2Acquired
	M1Acquired
	SearchRetry
)

// Framer is the per-channel burst acquisition and framing state
// machine described by the outer loop: it owns no DSP state itself,
// only the correlation/transition bookkeeping; the channel worker feeds
// it bits and equalized symbols and reacts to the Event it returns.
type Framer struct {
	State   State
	Sampler SamplerDisposition

	bits       [PreambleLength]int8
	bitsFilled int

	Bitmask int8 // +1 normal, -1 inverted preamble polarity

	SearchRetries int
	SymbolsWanted int

	MatchIndex      int
	DataSegmentCnt  int
	DataModArity    dsp.Arity
	CurrentModArity dsp.Arity
	CodeRateQuarter bool
	PushColumnShift int
	DetectedBitRate int
	DetectedSlot    byte

	EqTrainSeqCnt int

	TrainingSymbols []complex128
	DataSymbols     []complex128

	BitErrorCount int
	BitsCompared  int
}

// NewFramer returns a framer in its initial (EmitBits, A1Search) state.
func NewFramer() *Framer {
	f := &Framer{Bitmask: 1, CurrentModArity: dsp.BPSK}
	f.reset()
	return f
}

func (f *Framer) reset() {
	f.State = A1Search
	f.Sampler = EmitBits
	f.bitsFilled = 0
	f.Bitmask = 1
	f.SearchRetries = 0
	f.SymbolsWanted = 0
	f.CurrentModArity = dsp.BPSK
	f.DataModArity = dsp.BPSK
	f.DataSegmentCnt = 0
	f.EqTrainSeqCnt = 0
	f.TrainingSymbols = f.TrainingSymbols[:0]
	f.DataSymbols = f.DataSymbols[:0]
	f.BitErrorCount = 0
	f.BitsCompared = 0
}

// TSeqIndex selects T[0] or T[1] by the burst's resolved preamble
// polarity. It is fixed for the whole burst, never alternated per
// mini-slot.
func (f *Framer) TSeqIndex() int {
	if f.Bitmask < 0 {
		return 1
	}
	return 0
}

// PushBit feeds one recovered bit (already XOR'd with Bitmask by the
// caller per the sampler disposition) into the sliding correlation
// window.
func (f *Framer) PushBit(bit int8) {
	copy(f.bits[:], f.bits[1:])
	f.bits[PreambleLength-1] = bit
	if f.bitsFilled < PreambleLength {
		f.bitsFilled++
	}
}

// PushSymbol appends an equalized symbol to the currently targeted
// buffer (training during EQ_TRAIN, data during DATA_1/DATA_2).
func (f *Framer) PushSymbol(s complex128) {
	if f.State == EQTrain {
		f.TrainingSymbols = append(f.TrainingSymbols, s)
	} else {
		f.DataSymbols = append(f.DataSymbols, s)
	}
}

// Arm sets how many more symbols the inner loop must process before
// the next call to Advance actually evaluates a transition.
func (f *Framer) Arm(symbols int) {
	f.SymbolsWanted = symbols
}

// ShouldAdvance reports whether the inner loop, having just decremented
// SymbolsWanted, should now dispatch to the framer.
func (f *Framer) ShouldAdvance() bool {
	if f.SymbolsWanted > 1 {
		f.SymbolsWanted--
		return false
	}
	return true
}

// Advance evaluates the current state's transition rule using whatever
// bits/symbols have been accumulated since the last call, mutating
// framer state and returning the resulting Event.
func (f *Framer) Advance() Event {
	switch f.State {
	case A1Search:
		return f.advanceA1()
	case A2Search:
		return f.advanceA2()
	case M1Search:
		return f.advanceM1()
	case M2Skip:
		return f.advanceM2Skip()
	case EQTrain:
		return f.advanceEQTrain()
	case Data1:
		return f.advanceData1()
	case Data2:
		return f.advanceData2()
	default:
		f.reset()
		return Reset
	}
}

func (f *Framer) window() []int8 {
	if f.bitsFilled < PreambleLength {
		return nil
	}
	return f.bits[:]
}

func (f *Framer) advanceA1() Event {
	w := f.window()
	if w == nil {
		return NoEvent
	}
	corr := correlate(A, w)
	if abs(corr) > CorrelationThreshold {
		if corr < 0 {
			f.Bitmask = -1
		} else {
			f.Bitmask = 1
		}
		f.State = A2Search
		f.Arm(PreambleLength)
		return A1Acquired
	}
	return NoEvent
}

func (f *Framer) advanceA2() Event {
	w := f.window()
	if w == nil {
		return NoEvent
	}
	corr := correlate(A, w)
	if abs(corr) > CorrelationThreshold {
		f.State = M1Search
		f.Arm(PreambleLength)
		f.SearchRetries = 0
		return A2Acquired
	}
	f.SearchRetries++
	if f.SearchRetries > MaxSearchRetries {
		f.reset()
		return Reset
	}
	return SearchRetry
}

func (f *Framer) advanceM1() Event {
	w := f.window()
	if w == nil {
		return NoEvent
	}
	bestIdx, bestCorr := -1, 0.0
	for k := 0; k < 8; k++ {
		c := correlate(M1[k], w)
		if abs(c) > abs(bestCorr) {
			bestCorr, bestIdx = c, k
		}
	}
	if abs(bestCorr) <= CorrelationThreshold {
		f.reset()
		return Reset
	}

	params := FrameParamTable[bestIdx]
	f.MatchIndex = bestIdx
	f.DataSegmentCnt = params.DataSegmentCount
	f.DataModArity = params.Modulation
	f.CodeRateQuarter = params.CodeRateQuarter
	f.PushColumnShift = params.PushColumnShift
	f.DetectedBitRate = params.BitRate
	f.DetectedSlot = params.Slot

	f.Sampler = Skip
	f.State = M2Skip
	f.Arm(MiniSlotLength)
	return M1Acquired
}

func (f *Framer) advanceM2Skip() Event {
	f.TrainingSymbols = f.TrainingSymbols[:0]
	f.EqTrainSeqCnt = 9
	f.Sampler = EmitSymbols
	f.State = EQTrain
	f.Arm(TrainingMiniSlotSymbols)
	return NoEvent
}

func (f *Framer) advanceEQTrain() Event {
	expected := T[f.TSeqIndex()]
	for _, s := range f.TrainingSymbols {
		value, _ := dsp.Demodulate(s*complex(float64(f.Bitmask), 0), dsp.BPSK)
		idx := f.BitsCompared % MiniSlotLength
		if (value == 1) != (expected[idx] == 1) {
			f.BitErrorCount++
		}
		f.BitsCompared++
	}
	f.TrainingSymbols = f.TrainingSymbols[:0]

	if f.EqTrainSeqCnt > 1 {
		f.EqTrainSeqCnt--
		f.Arm(TrainingMiniSlotSymbols)
		return NoEvent
	}

	if f.DataSegmentCnt > 0 {
		f.State = Data1
		f.CurrentModArity = f.DataModArity
		f.Sampler = EmitSymbols
		f.Arm(DataSegmentSymbols / 2)
		return NoEvent
	}

	f.State = A1Search
	f.Sampler = EmitBits
	return BurstReady
}

func (f *Framer) advanceData1() Event {
	f.State = Data2
	f.Arm(DataSegmentSymbols / 2)
	return NoEvent
}

func (f *Framer) advanceData2() Event {
	f.DataSegmentCnt--
	f.CurrentModArity = dsp.BPSK
	f.Sampler = EmitSymbols
	f.State = EQTrain
	f.EqTrainSeqCnt = 1
	f.Arm(TrainingMiniSlotSymbols)
	return NoEvent
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
