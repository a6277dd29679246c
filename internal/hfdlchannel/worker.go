package hfdlchannel

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/dumphfdl/dumphfdl-go/internal/decoded"
	"github.com/dumphfdl/dumphfdl-go/internal/dsp"
	"github.com/dumphfdl/dumphfdl-go/internal/metrics"
	"github.com/dumphfdl/dumphfdl-go/internal/pdu"
	"github.com/dumphfdl/dumphfdl-go/internal/pipeline"
)

// SamplesPerSymbol is the fixed oversampling rate the matched filter and
// symbol synchronizer operate at.
const SamplesPerSymbol = 10

// SymbolRate is the HFDL symbol rate in baud, used to convert the Costas
// loop's radians-per-symbol frequency estimate into Hz.
const SymbolRate = 1800

// trainingReference returns the known symbol the equalizer should steer
// toward for the training slot currently in progress.
func trainingReference(f *Framer) complex128 {
	idx := f.BitsCompared % MiniSlotLength
	if T[f.TSeqIndex()][idx] == 1 {
		return complex(1, 0)
	}
	return complex(-1, 0)
}

// ChannelWorker demodulates and frames one tuned HFDL channel: it owns one
// instance of every per-channel DSP stage plus the burst framer, consuming
// baseband samples from the channelizer and publishing decoded records to
// the output queue.
type ChannelWorker struct {
	ChannelFreq uint32
	Station     string

	agc      *dsp.AGC
	filter   *dsp.MatchedFilter
	sync     *dsp.SymbolSync
	costas   *dsp.Costas
	eq       *dsp.Equalizer
	framer   *Framer
	symbols  []complex128

	RawFrames   bool
	OutputMPDUs bool

	out        *pipeline.Queue[decoded.Record]
	metrics    *metrics.Metrics
	channelKHz string
}

// NewChannelWorker returns a worker tuned to channelFreq (kHz), publishing
// decoded records onto out and acquisition/FEC metrics onto m.
func NewChannelWorker(channelFreq uint32, station string, out *pipeline.Queue[decoded.Record], m *metrics.Metrics) *ChannelWorker {
	return &ChannelWorker{
		ChannelFreq: channelFreq,
		Station:     station,
		agc:         dsp.NewAGC(),
		filter:      dsp.NewMatchedFilter(dsp.RootRaisedCosineTaps(0.5, SamplesPerSymbol, 4)),
		sync:        dsp.NewSymbolSync(SamplesPerSymbol),
		costas:      dsp.NewCostas(),
		eq:          dsp.NewEqualizer(),
		framer:      NewFramer(),
		out:         out,
		metrics:     m,
		channelKHz:  strconv.FormatUint(uint64(channelFreq), 10),
	}
}

// resetBurst returns every DSP stage to its power-on state, mirroring the
// framer's own full reset.
func (w *ChannelWorker) resetBurst() {
	w.agc.Reset()
	w.filter.Reset()
	w.sync.Reset()
	w.costas.Reset()
	w.eq.Reset()
}

// Push feeds one raw baseband sample through the full per-sample chain:
// AGC, matched filter, symbol timing recovery, and (for each recovered
// symbol) Costas rotation, equalization, demodulation, and framer
// dispatch. Completed bursts are decoded and published to the output
// queue.
func (w *ChannelWorker) Push(sample complex128, now time.Time) {
	agcOut := w.agc.Apply(sample)
	filtered := w.filter.Push(agcOut)

	w.symbols = w.symbols[:0]
	w.symbols = w.sync.Push(filtered, w.symbols)

	for _, sym := range w.symbols {
		w.stepSymbol(sym, now)
	}
}

func (w *ChannelWorker) stepSymbol(sym complex128, now time.Time) {
	f := w.framer

	arity := CostasArity(f.State, f.EqTrainSeqCnt, f.DataModArity)
	rotated := w.costas.Rotate(sym)

	var reference complex128
	switch f.Sampler {
	case EmitSymbols:
		if f.State == EQTrain {
			reference = trainingReference(f)
		} else {
			value, _ := dsp.Demodulate(rotated, f.CurrentModArity)
			reference = dsp.Modulate(value, f.CurrentModArity)
		}
	default:
		reference = rotated
	}

	equalized := w.eq.Step(rotated, reference)

	decisionValue, phaseError := dsp.Demodulate(equalized, arity)
	w.costas.Update(phaseError)

	if f.State == A1Search {
		w.agc.Lock()
	}

	switch f.Sampler {
	case EmitBits:
		bit := int8(1)
		if decisionValue == 0 {
			bit = -1
		}
		f.PushBit(bit * f.Bitmask)
	case EmitSymbols:
		f.PushSymbol(equalized)
	case Skip:
	}

	if !f.ShouldAdvance() {
		return
	}

	event := f.Advance()
	switch event {
	case Reset:
		if w.metrics != nil {
			w.metrics.RecordReset(w.channelKHz)
		}
		w.resetBurst()
	case A1Acquired:
		if w.metrics != nil {
			w.metrics.RecordAcquisition(w.channelKHz, "A1")
		}
	case A2Acquired:
		if w.metrics != nil {
			w.metrics.RecordAcquisition(w.channelKHz, "A2")
		}
	case M1Acquired:
		if w.metrics != nil {
			w.metrics.RecordAcquisition(w.channelKHz, "M1")
		}
	case SearchRetry:
		if w.metrics != nil {
			w.metrics.RecordSearchRetry(w.channelKHz)
		}
	case BurstReady:
		w.emitBurst(now)
		f.reset()
		w.resetBurst()
	case NoEvent:
	}
}

func (w *ChannelWorker) emitBurst(now time.Time) {
	if w.metrics != nil && w.framer.BitsCompared > 0 {
		ber := float64(w.framer.BitErrorCount) / float64(w.framer.BitsCompared)
		w.metrics.SetTrainingBitErrorRate(w.channelKHz, ber)
	}

	octets := decodeUserData(w.framer)
	if w.metrics != nil {
		w.metrics.RecordViterbiDecode(w.channelKHz)
	}

	rec := decoded.Record{
		Station:     w.Station,
		Timestamp:   now,
		ChannelFreq: w.ChannelFreq,
		BitRate:     w.framer.DetectedBitRate,
		Slot:        w.framer.DetectedSlot,
		FreqErrHz:   w.costas.FrequencyError() * SymbolRate / (2 * math.Pi),
	}

	if w.RawFrames {
		rec.RawOctets = octets
	}
	if !w.RawFrames || w.OutputMPDUs {
		rec.MPDU = pdu.ParseMPDU(octets)
		w.recordFCSOutcomes(rec.MPDU)
	}

	w.out.Push(rec)
}

// recordFCSOutcomes counts a CRC failure for the MPDU header and for each
// LPDU it carries, by layer.
func (w *ChannelWorker) recordFCSOutcomes(m *pdu.MPDU) {
	if m == nil || w.metrics == nil {
		return
	}
	if !m.CRCOK {
		w.metrics.RecordFCSFailure("mpdu")
	}
	for _, l := range m.LPDUs {
		if !l.CRCOK {
			w.metrics.RecordFCSFailure("lpdu")
		}
	}
}

// Run drains samples from in until the context is cancelled or the
// channel closes, pushing every recovered sample through the worker and
// finally publishing a shutdown sentinel record.
func (w *ChannelWorker) Run(ctx context.Context, in <-chan complex128, clock func() time.Time) {
	for {
		select {
		case <-ctx.Done():
			w.out.Push(decoded.Record{ShutdownSentinel: true})
			return
		case sample, ok := <-in:
			if !ok {
				w.out.Push(decoded.Record{ShutdownSentinel: true})
				return
			}
			w.Push(sample, clock())
		}
	}
}
