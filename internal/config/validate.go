// SPDX-License-Identifier: AGPL-3.0-or-later
// dumphfdl-go - an HFDL datalink receiver and decoder

package config

import "errors"

var (
	// ErrInvalidLogLevel indicates that the provided log level is not valid.
	ErrInvalidLogLevel = errors.New("invalid log level provided")
	// ErrNoInputSource indicates that neither --iq-file nor --soapysdr was given.
	ErrNoInputSource = errors.New("exactly one of --iq-file or --soapysdr must be provided")
	// ErrAmbiguousInputSource indicates that both --iq-file and --soapysdr were given.
	ErrAmbiguousInputSource = errors.New("only one of --iq-file or --soapysdr may be provided")
	// ErrInvalidSampleFormat indicates an unrecognized --sample-format value.
	ErrInvalidSampleFormat = errors.New("invalid sample format provided")
	// ErrInvalidSampleRate indicates --sample-rate was zero or missing.
	ErrInvalidSampleRate = errors.New("sample rate must be greater than zero")
	// ErrNoChannels indicates no channel frequencies were given on the command line.
	ErrNoChannels = errors.New("at least one channel frequency must be provided")
	// ErrChannelOutOfBand indicates a requested channel does not fit within the tuned passband.
	ErrChannelOutOfBand = errors.New("channel frequency falls outside the tuned sample rate passband")
	// ErrInvalidGainElement indicates a --gain-elements entry could not be parsed.
	ErrInvalidGainElement = errors.New("invalid gain element value provided")
	// ErrInvalidOutputSpec indicates a malformed --output specification string.
	ErrInvalidOutputSpec = errors.New("invalid output specification")
	// ErrInvalidOutputFormat indicates an --output spec named an unsupported format.
	ErrInvalidOutputFormat = errors.New("invalid output format provided")
	// ErrInvalidOutputSink indicates an --output spec named an unsupported sink.
	ErrInvalidOutputSink = errors.New("invalid output sink provided")
	// ErrOutputTargetRequired indicates a file/tcp/kafka sink was given without a target.
	ErrOutputTargetRequired = errors.New("output sink requires a target (path, address, or brokers)")
	// ErrInvalidQueueHWM indicates --output-queue-hwm was not positive.
	ErrInvalidQueueHWM = errors.New("output queue high-water mark must be greater than zero")
	// ErrSystemTableRequired indicates no system table path was given (--system-table or HFDL_SYSTEM_TABLE).
	ErrSystemTableRequired = errors.New("a system table path is required")
	// ErrInvalidMetricsBindAddress indicates the metrics server bind address is empty while enabled.
	ErrInvalidMetricsBindAddress = errors.New("invalid metrics server bind address provided")
	// ErrInvalidMetricsPort indicates the metrics server port is out of range.
	ErrInvalidMetricsPort = errors.New("invalid metrics server port provided")
	// ErrInvalidCacheTTL indicates the aircraft cache TTL is not positive.
	ErrInvalidCacheTTL = errors.New("aircraft cache TTL must be greater than zero")
	// ErrInvalidCacheSweepInterval indicates the aircraft cache sweep interval is not positive.
	ErrInvalidCacheSweepInterval = errors.New("aircraft cache sweep interval must be greater than zero")
)

// Validate validates the Input configuration.
func (i Input) Validate() error {
	haveFile := i.IQFile != ""
	haveSDR := i.SoapySDR != ""

	if !haveFile && !haveSDR {
		return ErrNoInputSource
	}
	if haveFile && haveSDR {
		return ErrAmbiguousInputSource
	}

	if haveFile {
		switch i.SampleFormat {
		case SampleFormatCU8, SampleFormatCS16, SampleFormatCF32:
		default:
			return ErrInvalidSampleFormat
		}
	}

	if i.SampleRate == 0 {
		return ErrInvalidSampleRate
	}

	return nil
}

// Validate validates the Channels configuration against the tuned passband.
func (c Channels) Validate(centerFreq, sampleRate uint) error {
	if len(c.FrequenciesKHz) == 0 {
		return ErrNoChannels
	}

	if centerFreq == 0 || sampleRate == 0 {
		return nil
	}

	// Channels are in kHz; centerFreq and sampleRate are in Hz.
	halfBandHz := sampleRate / 2
	for _, f := range c.FrequenciesKHz {
		fHz := f * 1000
		var distHz uint
		if fHz > centerFreq {
			distHz = fHz - centerFreq
		} else {
			distHz = centerFreq - fHz
		}
		if distHz > halfBandHz {
			return ErrChannelOutOfBand
		}
	}

	return nil
}

// Validate validates a single output specification.
func (o OutputSpec) Validate() error {
	switch o.Format {
	case OutputFormatText, OutputFormatJSON, OutputFormatBasestation, OutputFormatBinary:
	default:
		return ErrInvalidOutputFormat
	}

	switch o.Sink {
	case OutputSinkFile, OutputSinkTCP, OutputSinkKafka, OutputSinkDB:
	default:
		return ErrInvalidOutputSink
	}

	if o.Sink != OutputSinkDB && o.Target == "" {
		return ErrOutputTargetRequired
	}

	return nil
}

// Validate validates the Output configuration.
func (o Output) Validate() error {
	for _, spec := range o.Specs {
		if err := spec.Validate(); err != nil {
			return err
		}
	}

	if o.QueueHWM <= 0 {
		return ErrInvalidQueueHWM
	}

	return nil
}

// Validate validates the SystemTable configuration.
func (s SystemTable) Validate() error {
	if s.Path == "" {
		return ErrSystemTableRequired
	}
	return nil
}

// Validate validates the AircraftCache configuration.
func (a AircraftCache) Validate() error {
	if a.TTL <= 0 {
		return ErrInvalidCacheTTL
	}
	if a.SweepInterval <= 0 {
		return ErrInvalidCacheSweepInterval
	}
	return nil
}

// Validate validates the Metrics configuration.
func (m Metrics) Validate() error {
	if !m.Enabled {
		return nil
	}

	if m.Bind == "" {
		return ErrInvalidMetricsBindAddress
	}
	if m.Port <= 0 || m.Port > 65535 {
		return ErrInvalidMetricsPort
	}

	return nil
}

// Validate validates the full configuration, delegating to each group.
func (c Config) Validate() error {
	if c.LogLevel != LogLevelDebug &&
		c.LogLevel != LogLevelInfo &&
		c.LogLevel != LogLevelWarn &&
		c.LogLevel != LogLevelError {
		return ErrInvalidLogLevel
	}

	if err := c.Input.Validate(); err != nil {
		return err
	}

	if err := c.Channels.Validate(c.Input.CenterFreq, c.Input.SampleRate); err != nil {
		return err
	}

	if err := c.Output.Validate(); err != nil {
		return err
	}

	if err := c.SystemTable.Validate(); err != nil {
		return err
	}

	if err := c.Cache.Validate(); err != nil {
		return err
	}

	if err := c.Metrics.Validate(); err != nil {
		return err
	}

	return nil
}
