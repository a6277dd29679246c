package hfdlchannel

import "github.com/dumphfdl/dumphfdl-go/internal/dsp"

// CostasArity implements the Costas delay-compensation rule: because the
// LMS equalizer introduces one symbol of group delay, the Costas loop
// must demodulate with the arity the framer will be in one symbol from
// now, not the arity it is in right now.
func CostasArity(state State, eqTrainSeqCnt int, dataModArity dsp.Arity) dsp.Arity {
	if (state == EQTrain && eqTrainSeqCnt == 1) || state == Data1 {
		return dataModArity
	}
	return dsp.BPSK
}
