package hfdlchannel

import (
	"testing"
	"time"

	"github.com/dumphfdl/dumphfdl-go/internal/decoded"
	"github.com/dumphfdl/dumphfdl-go/internal/pipeline"
)

func TestNewChannelWorkerInitializesStages(t *testing.T) {
	q := pipeline.NewQueue[decoded.Record](4, pipeline.DropNewest)
	w := NewChannelWorker(13312, "TEST", q, nil)

	if w.framer.State != A1Search {
		t.Fatalf("initial framer state = %v, want A1Search", w.framer.State)
	}
	if w.agc.Locked() {
		t.Fatal("AGC should start unlocked")
	}
}

func TestPushOnSilenceNeverPublishesARecord(t *testing.T) {
	q := pipeline.NewQueue[decoded.Record](4, pipeline.DropNewest)
	w := NewChannelWorker(13312, "TEST", q, nil)

	now := time.Unix(1700000000, 0)
	for i := 0; i < SamplesPerSymbol*200; i++ {
		w.Push(0, now)
	}

	if q.Len() != 0 {
		t.Fatalf("queue length = %d, want 0 for pure silence input", q.Len())
	}
}

func TestTrainingReferenceMatchesUnitMagnitude(t *testing.T) {
	f := NewFramer()
	f.State = EQTrain
	for i := 0; i < MiniSlotLength; i++ {
		f.BitsCompared = i
		ref := trainingReference(f)
		mag := real(ref)*real(ref) + imag(ref)*imag(ref)
		if mag != 1 {
			t.Fatalf("bit %d: |reference|^2 = %v, want 1", i, mag)
		}
	}
}

func TestResetBurstUnlocksAGCAndReinitializesEqualizer(t *testing.T) {
	q := pipeline.NewQueue[decoded.Record](4, pipeline.DropNewest)
	w := NewChannelWorker(13312, "TEST", q, nil)

	w.agc.Lock()
	if !w.agc.Locked() {
		t.Fatal("expected AGC locked before reset")
	}

	w.resetBurst()
	if w.agc.Locked() {
		t.Fatal("expected AGC unlocked after resetBurst")
	}
}
