package hfdlchannel

import (
	"testing"

	"github.com/dumphfdl/dumphfdl-go/internal/dsp"
)

func feedWindow(f *Framer, seq []int8, bitmask int8) {
	for _, b := range seq {
		f.PushBit(b * bitmask)
	}
}

func TestCorrelationBelowThresholdDoesNotAdvance(t *testing.T) {
	f := NewFramer()
	// A 127-bit bipolar window cannot correlate at exactly 0.3 (that would
	// need a product sum of 38.1), so this checks the self-correlation and
	// a half-flipped window that falls below the threshold and must leave
	// the framer in A1Search.
	corr := correlate(A, A)
	if corr != 1.0 {
		t.Fatalf("self-correlation = %v, want 1.0", corr)
	}

	half := make([]int8, len(A))
	copy(half, A)
	for i := 0; i < len(half)/2; i++ {
		half[i] = -half[i]
	}
	c := correlate(A, half)
	if c > CorrelationThreshold {
		t.Fatalf("expected half-flipped correlation not to exceed threshold, got %v", c)
	}

	feedWindow(f, half, 1)
	f.Advance()
	if f.State != A1Search {
		t.Fatalf("state = %v, want A1Search for a below-threshold window", f.State)
	}
}

func TestA2MissResetsOnlyAfterRetriesExceeded(t *testing.T) {
	f := NewFramer()
	feedWindow(f, A, 1)
	if f.Advance(); f.State != A2Search {
		t.Fatalf("state = %v, want A2Search", f.State)
	}

	noise := make([]int8, len(A))
	for i := range noise {
		if i%2 == 0 {
			noise[i] = 1
		} else {
			noise[i] = -1
		}
	}

	for try := 1; try <= MaxSearchRetries; try++ {
		feedWindow(f, noise, 1)
		f.Advance()
		if f.State != A2Search {
			t.Fatalf("retry %d: state = %v, want still A2Search", try, f.State)
		}
	}

	feedWindow(f, noise, 1)
	f.Advance()
	if f.State != A1Search {
		t.Fatalf("state after exceeding retries = %v, want A1Search", f.State)
	}
}

func TestBurstAcquisitionInvertedPreambleSetsNegativeBitmask(t *testing.T) {
	f := NewFramer()
	feedWindow(f, A, -1)
	f.Advance()
	if f.State != A2Search {
		t.Fatalf("state = %v, want A2Search", f.State)
	}
	if f.Bitmask != -1 {
		t.Fatalf("Bitmask = %d, want -1 for inverted preamble", f.Bitmask)
	}
}

func TestShouldAdvanceWaitsForArmedSymbolCount(t *testing.T) {
	f := NewFramer()
	f.Arm(3)
	if f.ShouldAdvance() {
		t.Fatal("should not advance after 1st of 3")
	}
	if f.ShouldAdvance() {
		t.Fatal("should not advance after 2nd of 3")
	}
	if !f.ShouldAdvance() {
		t.Fatal("should advance on 3rd of 3")
	}
}

func TestCostasArityFollowsDelayCompensationRule(t *testing.T) {
	if got := CostasArity(Data1, 0, dsp.QPSK); got != dsp.QPSK {
		t.Fatalf("Data1 arity = %v, want QPSK", got)
	}
	if got := CostasArity(EQTrain, 1, dsp.QPSK); got != dsp.QPSK {
		t.Fatalf("EQTrain/eqTrainSeqCnt=1 arity = %v, want QPSK", got)
	}
	if got := CostasArity(EQTrain, 2, dsp.QPSK); got != dsp.BPSK {
		t.Fatalf("EQTrain/eqTrainSeqCnt=2 arity = %v, want BPSK", got)
	}
	if got := CostasArity(Data2, 0, dsp.QPSK); got != dsp.BPSK {
		t.Fatalf("Data2 arity = %v, want BPSK", got)
	}
}
