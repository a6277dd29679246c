package output

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dumphfdl/dumphfdl-go/internal/config"
	"github.com/dumphfdl/dumphfdl-go/internal/decoded"
	"github.com/dumphfdl/dumphfdl-go/internal/output/format"
)

func TestFileSinkWritesFormattedRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	sink, err := NewFileSink(path, format.JSON{})
	if err != nil {
		t.Fatalf("NewFileSink: %v", err)
	}

	if err := sink.Write(decoded.Record{Station: "TEST", Timestamp: time.Unix(1700000000, 0), ChannelFreq: 13312}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty output file")
	}
}

type countingSink struct {
	writes int
	closed bool
}

func (c *countingSink) Write(decoded.Record) error { c.writes++; return nil }
func (c *countingSink) Close() error                { c.closed = true; return nil }

func TestFanOutPublishesAndShutsDownCleanly(t *testing.T) {
	sink := &countingSink{}
	fo := NewFanOut(config.Output{QueueHWM: 8, QueuePolicy: config.QueuePolicyDropNewest}, []SinkSpec{
		{Kind: config.InputKindDecoded, Sink: sink},
	})

	for i := 0; i < 3; i++ {
		fo.Publish(config.InputKindDecoded, decoded.Record{ChannelFreq: 13312})
	}
	fo.Shutdown()

	if sink.writes != 3 {
		t.Fatalf("writes = %d, want 3", sink.writes)
	}
	if !sink.closed {
		t.Fatal("expected sink to be closed after shutdown")
	}
}
