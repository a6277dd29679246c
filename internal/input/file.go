package input

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/dumphfdl/dumphfdl-go/internal/config"
)

const fileSourceBlockSamples = 4096

// FileSource reads a raw interleaved I/Q file in CU8, CS16 or CF32 and
// normalizes every sample to complex64 in [-1, 1]. It never loops; EOF
// closes the output channel.
type FileSource struct {
	path       string
	format     config.SampleFormat
	sampleRate uint
}

// NewFileSource returns a FileSource reading path in format at sampleRate.
func NewFileSource(path string, format config.SampleFormat, sampleRate uint) *FileSource {
	return &FileSource{path: path, format: format, sampleRate: sampleRate}
}

// SampleRate implements Source.
func (f *FileSource) SampleRate() uint { return f.sampleRate }

// Samples implements Source.
func (f *FileSource) Samples(ctx context.Context) (<-chan []complex64, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("input: open %s: %w", f.path, err)
	}

	bytesPerSample, err := bytesPerSample(f.format)
	if err != nil {
		file.Close()
		return nil, err
	}

	out := make(chan []complex64, 4)
	go func() {
		defer file.Close()
		defer close(out)

		buf := make([]byte, bytesPerSample*fileSourceBlockSamples)
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			n, readErr := io.ReadFull(file, buf)
			if n > 0 {
				block, convErr := decodeBlock(f.format, buf[:n-n%bytesPerSample])
				if convErr == nil && len(block) > 0 {
					select {
					case out <- block:
					case <-ctx.Done():
						return
					}
				}
			}
			if readErr != nil {
				return
			}
		}
	}()

	return out, nil
}

func bytesPerSample(format config.SampleFormat) (int, error) {
	switch format {
	case config.SampleFormatCU8:
		return 2, nil
	case config.SampleFormatCS16:
		return 4, nil
	case config.SampleFormatCF32:
		return 8, nil
	default:
		return 0, fmt.Errorf("input: unsupported sample format %q", format)
	}
}

func decodeBlock(format config.SampleFormat, buf []byte) ([]complex64, error) {
	switch format {
	case config.SampleFormatCU8:
		out := make([]complex64, len(buf)/2)
		for i := range out {
			i8 := (float32(buf[2*i]) - 127.5) / 127.5
			q8 := (float32(buf[2*i+1]) - 127.5) / 127.5
			out[i] = complex(i8, q8)
		}
		return out, nil
	case config.SampleFormatCS16:
		out := make([]complex64, len(buf)/4)
		for i := range out {
			iRaw := int16(binary.LittleEndian.Uint16(buf[4*i:]))
			qRaw := int16(binary.LittleEndian.Uint16(buf[4*i+2:]))
			out[i] = complex(float32(iRaw)/32768.0, float32(qRaw)/32768.0)
		}
		return out, nil
	case config.SampleFormatCF32:
		out := make([]complex64, len(buf)/8)
		for i := range out {
			iBits := binary.LittleEndian.Uint32(buf[8*i:])
			qBits := binary.LittleEndian.Uint32(buf[8*i+4:])
			out[i] = complex(math.Float32frombits(iBits), math.Float32frombits(qBits))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("input: unsupported sample format %q", format)
	}
}
