// SPDX-License-Identifier: AGPL-3.0-or-later
// dumphfdl-go - an HFDL datalink receiver and decoder

package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/dumphfdl/dumphfdl-go/internal/config"
)

func makeValidConfig() config.Config {
	return config.Config{
		LogLevel: config.LogLevelInfo,
		Input: config.Input{
			IQFile:       "samples.cu8",
			SampleFormat: config.SampleFormatCU8,
			SampleRate:   12000000,
			CenterFreq:   13276000,
		},
		Channels: config.Channels{FrequenciesKHz: []uint{13276, 11309}},
		Output: config.Output{
			QueueHWM: 256,
			Specs: []config.OutputSpec{
				{Input: config.InputKindDecoded, Format: config.OutputFormatText, Sink: config.OutputSinkFile, Target: "-"},
			},
		},
		SystemTable: config.SystemTable{Path: "systable.yaml"},
		Cache: config.AircraftCache{
			TTL:           time.Hour,
			SweepInterval: time.Minute,
		},
	}
}

// --- Input Validation ---

func TestInputValidateNoSource(t *testing.T) {
	t.Parallel()
	i := config.Input{SampleRate: 1}
	if !errors.Is(i.Validate(), config.ErrNoInputSource) {
		t.Errorf("Expected ErrNoInputSource, got %v", i.Validate())
	}
}

func TestInputValidateAmbiguousSource(t *testing.T) {
	t.Parallel()
	i := config.Input{IQFile: "a.cu8", SoapySDR: "driver=rtlsdr", SampleFormat: config.SampleFormatCU8, SampleRate: 1}
	if !errors.Is(i.Validate(), config.ErrAmbiguousInputSource) {
		t.Errorf("Expected ErrAmbiguousInputSource, got %v", i.Validate())
	}
}

func TestInputValidateInvalidSampleFormat(t *testing.T) {
	t.Parallel()
	i := config.Input{IQFile: "a.cu8", SampleFormat: "bogus", SampleRate: 1}
	if !errors.Is(i.Validate(), config.ErrInvalidSampleFormat) {
		t.Errorf("Expected ErrInvalidSampleFormat, got %v", i.Validate())
	}
}

func TestInputValidateZeroSampleRate(t *testing.T) {
	t.Parallel()
	i := config.Input{IQFile: "a.cu8", SampleFormat: config.SampleFormatCU8, SampleRate: 0}
	if !errors.Is(i.Validate(), config.ErrInvalidSampleRate) {
		t.Errorf("Expected ErrInvalidSampleRate, got %v", i.Validate())
	}
}

func TestInputValidateSoapySDRSkipsSampleFormat(t *testing.T) {
	t.Parallel()
	i := config.Input{SoapySDR: "driver=rtlsdr", SampleRate: 1}
	if err := i.Validate(); err != nil {
		t.Errorf("Expected nil error for SoapySDR source, got %v", err)
	}
}

func TestInputValidateFileValid(t *testing.T) {
	t.Parallel()
	i := config.Input{IQFile: "a.cu8", SampleFormat: config.SampleFormatCS16, SampleRate: 12000000}
	if err := i.Validate(); err != nil {
		t.Errorf("Expected nil error, got %v", err)
	}
}

// --- Channels Validation ---

func TestChannelsValidateEmpty(t *testing.T) {
	t.Parallel()
	c := config.Channels{}
	if !errors.Is(c.Validate(0, 0), config.ErrNoChannels) {
		t.Errorf("Expected ErrNoChannels, got %v", c.Validate(0, 0))
	}
}

func TestChannelsValidateOutOfBand(t *testing.T) {
	t.Parallel()
	c := config.Channels{FrequenciesKHz: []uint{20000}}
	if !errors.Is(c.Validate(13276000, 12000000), config.ErrChannelOutOfBand) {
		t.Errorf("Expected ErrChannelOutOfBand, got %v", c.Validate(13276000, 12000000))
	}
}

func TestChannelsValidateInBand(t *testing.T) {
	t.Parallel()
	c := config.Channels{FrequenciesKHz: []uint{13276, 13300}}
	if err := c.Validate(13276000, 12000000); err != nil {
		t.Errorf("Expected nil error, got %v", err)
	}
}

func TestChannelsValidateSkipsBandCheckWhenSDRFrequencyUnknown(t *testing.T) {
	t.Parallel()
	c := config.Channels{FrequenciesKHz: []uint{13276}}
	if err := c.Validate(0, 0); err != nil {
		t.Errorf("Expected nil error when center frequency is unset, got %v", err)
	}
}

// --- OutputSpec Validation ---

func TestOutputSpecValidateInvalidFormat(t *testing.T) {
	t.Parallel()
	o := config.OutputSpec{Format: "bogus", Sink: config.OutputSinkFile, Target: "-"}
	if !errors.Is(o.Validate(), config.ErrInvalidOutputFormat) {
		t.Errorf("Expected ErrInvalidOutputFormat, got %v", o.Validate())
	}
}

func TestOutputSpecValidateInvalidSink(t *testing.T) {
	t.Parallel()
	o := config.OutputSpec{Format: config.OutputFormatJSON, Sink: "bogus"}
	if !errors.Is(o.Validate(), config.ErrInvalidOutputSink) {
		t.Errorf("Expected ErrInvalidOutputSink, got %v", o.Validate())
	}
}

func TestOutputSpecValidateMissingTarget(t *testing.T) {
	t.Parallel()
	o := config.OutputSpec{Format: config.OutputFormatJSON, Sink: config.OutputSinkTCP}
	if !errors.Is(o.Validate(), config.ErrOutputTargetRequired) {
		t.Errorf("Expected ErrOutputTargetRequired, got %v", o.Validate())
	}
}

func TestOutputSpecValidateDBSinkNoTargetRequired(t *testing.T) {
	t.Parallel()
	o := config.OutputSpec{Format: config.OutputFormatBasestation, Sink: config.OutputSinkDB}
	if err := o.Validate(); err != nil {
		t.Errorf("Expected nil error, got %v", err)
	}
}

// --- Output Validation ---

func TestOutputValidateInvalidHWM(t *testing.T) {
	t.Parallel()
	o := config.Output{QueueHWM: 0}
	if !errors.Is(o.Validate(), config.ErrInvalidQueueHWM) {
		t.Errorf("Expected ErrInvalidQueueHWM, got %v", o.Validate())
	}
}

func TestOutputValidatePropagatesSpecError(t *testing.T) {
	t.Parallel()
	o := config.Output{
		QueueHWM: 1,
		Specs:    []config.OutputSpec{{Format: "bogus"}},
	}
	if !errors.Is(o.Validate(), config.ErrInvalidOutputFormat) {
		t.Errorf("Expected ErrInvalidOutputFormat, got %v", o.Validate())
	}
}

// --- SystemTable Validation ---

func TestSystemTableValidateEmptyPath(t *testing.T) {
	t.Parallel()
	s := config.SystemTable{}
	if !errors.Is(s.Validate(), config.ErrSystemTableRequired) {
		t.Errorf("Expected ErrSystemTableRequired, got %v", s.Validate())
	}
}

func TestSystemTableValidateValid(t *testing.T) {
	t.Parallel()
	s := config.SystemTable{Path: "systable.yaml"}
	if err := s.Validate(); err != nil {
		t.Errorf("Expected nil error, got %v", err)
	}
}

// --- AircraftCache Validation ---

func TestAircraftCacheValidateInvalidTTL(t *testing.T) {
	t.Parallel()
	a := config.AircraftCache{TTL: 0, SweepInterval: time.Minute}
	if !errors.Is(a.Validate(), config.ErrInvalidCacheTTL) {
		t.Errorf("Expected ErrInvalidCacheTTL, got %v", a.Validate())
	}
}

func TestAircraftCacheValidateInvalidSweepInterval(t *testing.T) {
	t.Parallel()
	a := config.AircraftCache{TTL: time.Hour, SweepInterval: 0}
	if !errors.Is(a.Validate(), config.ErrInvalidCacheSweepInterval) {
		t.Errorf("Expected ErrInvalidCacheSweepInterval, got %v", a.Validate())
	}
}

// --- Metrics Validation ---

func TestMetricsValidateDisabled(t *testing.T) {
	t.Parallel()
	m := config.Metrics{Enabled: false}
	if err := m.Validate(); err != nil {
		t.Errorf("Expected nil error, got %v", err)
	}
}

func TestMetricsValidateEmptyBind(t *testing.T) {
	t.Parallel()
	m := config.Metrics{Enabled: true, Bind: "", Port: 9000}
	if !errors.Is(m.Validate(), config.ErrInvalidMetricsBindAddress) {
		t.Errorf("Expected ErrInvalidMetricsBindAddress, got %v", m.Validate())
	}
}

func TestMetricsValidateInvalidPort(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		port int
	}{
		{"zero", 0},
		{"negative", -1},
		{"too high", 70000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := config.Metrics{Enabled: true, Bind: "[::]", Port: tt.port}
			if !errors.Is(m.Validate(), config.ErrInvalidMetricsPort) {
				t.Errorf("Expected ErrInvalidMetricsPort for port %d, got %v", tt.port, m.Validate())
			}
		})
	}
}

func TestMetricsValidateValid(t *testing.T) {
	t.Parallel()
	m := config.Metrics{Enabled: true, Bind: "[::]", Port: 9000}
	if err := m.Validate(); err != nil {
		t.Errorf("Expected nil error, got %v", err)
	}
}

// --- Full Config Validation ---

func TestConfigValidateInvalidLogLevel(t *testing.T) {
	t.Parallel()
	c := makeValidConfig()
	c.LogLevel = "invalid"
	if !errors.Is(c.Validate(), config.ErrInvalidLogLevel) {
		t.Errorf("Expected ErrInvalidLogLevel, got %v", c.Validate())
	}
}

func TestConfigValidateValid(t *testing.T) {
	t.Parallel()
	c := makeValidConfig()
	if err := c.Validate(); err != nil {
		t.Errorf("Expected nil error, got %v", err)
	}
}

func TestConfigValidateAllLogLevels(t *testing.T) {
	t.Parallel()
	levels := []config.LogLevel{config.LogLevelDebug, config.LogLevelInfo, config.LogLevelWarn, config.LogLevelError}
	for _, level := range levels {
		t.Run(string(level), func(t *testing.T) {
			t.Parallel()
			c := makeValidConfig()
			c.LogLevel = level
			if err := c.Validate(); err != nil {
				t.Errorf("Expected nil error for log level %s, got %v", level, err)
			}
		})
	}
}

func TestConfigValidatePropagatesChannelError(t *testing.T) {
	t.Parallel()
	c := makeValidConfig()
	c.Channels = config.Channels{}
	if !errors.Is(c.Validate(), config.ErrNoChannels) {
		t.Errorf("Expected ErrNoChannels, got %v", c.Validate())
	}
}

func TestConfigValidatePropagatesSystemTableError(t *testing.T) {
	t.Parallel()
	c := makeValidConfig()
	c.SystemTable = config.SystemTable{}
	if !errors.Is(c.Validate(), config.ErrSystemTableRequired) {
		t.Errorf("Expected ErrSystemTableRequired, got %v", c.Validate())
	}
}
