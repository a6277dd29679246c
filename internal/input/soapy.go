package input

import (
	"context"
	"fmt"
)

// SDRDevice is the narrow contract a live SDR driver must satisfy. The
// spec treats the SDR device driver as an external collaborator; no
// cgo SoapySDR binding ships here, only this interface seam and a fake
// implementation usable in tests.
type SDRDevice interface {
	Configure(sampleRate uint, centerFreqHz uint, gainDB float64) error
	Stream(ctx context.Context) (<-chan []complex64, error)
	Close() error
}

// SoapySource adapts an SDRDevice (normally backed by SoapySDR) to the
// Source interface.
type SoapySource struct {
	device     SDRDevice
	sampleRate uint
}

// NewSoapySource configures device and returns a Source backed by it.
func NewSoapySource(device SDRDevice, sampleRate, centerFreqHz uint, gainDB float64) (*SoapySource, error) {
	if err := device.Configure(sampleRate, centerFreqHz, gainDB); err != nil {
		return nil, fmt.Errorf("input: configure SDR device: %w", err)
	}
	return &SoapySource{device: device, sampleRate: sampleRate}, nil
}

// SampleRate implements Source.
func (s *SoapySource) SampleRate() uint { return s.sampleRate }

// Samples implements Source.
func (s *SoapySource) Samples(ctx context.Context) (<-chan []complex64, error) {
	return s.device.Stream(ctx)
}
