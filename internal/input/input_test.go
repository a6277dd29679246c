package input

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dumphfdl/dumphfdl-go/internal/config"
)

func TestFileSourceCU8Normalization(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.cu8")
	if err := os.WriteFile(path, []byte{255, 255, 0, 0, 127, 128}, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	src := NewFileSource(path, config.SampleFormatCU8, 18000)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	ch, err := src.Samples(ctx)
	if err != nil {
		t.Fatalf("Samples: %v", err)
	}

	var all []complex64
	for block := range ch {
		all = append(all, block...)
	}
	if len(all) != 3 {
		t.Fatalf("got %d samples, want 3", len(all))
	}
	if real(all[0]) < 0.99 || imag(all[0]) < 0.99 {
		t.Fatalf("sample 0 = %v, want near (1,1)", all[0])
	}
	if real(all[1]) > -0.99 || imag(all[1]) > -0.99 {
		t.Fatalf("sample 1 = %v, want near (-1,-1)", all[1])
	}
}

func TestFileSourceClosesChannelOnEOF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.cu8")
	if err := os.WriteFile(path, []byte{1, 2, 3, 4}, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	src := NewFileSource(path, config.SampleFormatCU8, 18000)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	ch, err := src.Samples(ctx)
	if err != nil {
		t.Fatalf("Samples: %v", err)
	}

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel did not close before deadline")
		}
	}
}

func TestFileSourceRejectsUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.bin")
	if err := os.WriteFile(path, []byte{0, 0}, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	src := NewFileSource(path, config.SampleFormat("XYZ"), 18000)
	_, err := src.Samples(context.Background())
	if err == nil {
		t.Fatal("expected error for unsupported sample format")
	}
}

type fakeDevice struct {
	configured bool
}

func (f *fakeDevice) Configure(uint, uint, float64) error { f.configured = true; return nil }
func (f *fakeDevice) Stream(ctx context.Context) (<-chan []complex64, error) {
	ch := make(chan []complex64, 1)
	ch <- []complex64{1 + 0i}
	close(ch)
	return ch, nil
}
func (f *fakeDevice) Close() error { return nil }

func TestSoapySourceConfiguresDevice(t *testing.T) {
	dev := &fakeDevice{}
	src, err := NewSoapySource(dev, 18000, 13312000, 20)
	if err != nil {
		t.Fatalf("NewSoapySource: %v", err)
	}
	if !dev.configured {
		t.Fatal("expected device to be configured")
	}

	ch, err := src.Samples(context.Background())
	if err != nil {
		t.Fatalf("Samples: %v", err)
	}
	block := <-ch
	if len(block) != 1 {
		t.Fatalf("got %d samples, want 1", len(block))
	}
}
