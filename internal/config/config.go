// SPDX-License-Identifier: AGPL-3.0-or-later
// dumphfdl-go - an HFDL datalink receiver and decoder
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// Input describes where raw I/Q samples come from.
type Input struct {
	IQFile       string
	SoapySDR     string
	SampleFormat SampleFormat
	SampleRate   uint
	CenterFreq   uint
	GainDB       float64
	GainAuto     bool
	GainElements map[string]float64
}

// Channels is the list of HFDL channel center frequencies to demodulate,
// expressed in whole kHz, as given on the command line.
type Channels struct {
	FrequenciesKHz []uint
}

// OutputSpec is one parsed `--output` specification: what stream feeds it,
// how records are formatted, and where formatted records are written.
type OutputSpec struct {
	Input   InputKind
	Format  OutputFormat
	Sink    OutputSinkKind
	Target  string
	Options map[string]string
}

// Output groups every sink the decoder writes decoded records to.
type Output struct {
	Specs          []OutputSpec
	UTC            bool
	Milliseconds   bool
	RawFrames      bool
	OutputMPDUs    bool
	QueueHWM       int
	QueuePolicy    QueuePolicy
	StationID      string
}

// SystemTable configures the ground-station directory used to resolve
// frequencies and station identities.
type SystemTable struct {
	Path     string
	SavePath string
}

// AircraftCache configures the ACARS/HFNPDU ICAO-to-logon TTL cache.
type AircraftCache struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

// Metrics configures the Prometheus exporter.
type Metrics struct {
	Enabled bool
	Bind    string
	Port    int
}

// Config stores the fully resolved application configuration.
type Config struct {
	Input         Input
	Channels      Channels
	Output        Output
	SystemTable   SystemTable
	Cache         AircraftCache
	Metrics       Metrics
	LogLevel      LogLevel
}

// parseOutputSpec parses a `--output input:kind,format:kind,sink:kind,key=val,...`
// specification string, following the comma-separated key=value shape dumphfdl
// itself uses for its --output flag.
func parseOutputSpec(spec string) (OutputSpec, error) {
	out := OutputSpec{
		Input:   InputKindDecoded,
		Options: map[string]string{},
	}
	for _, field := range strings.Split(spec, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		// A field is key:val or key=val, split at whichever separator
		// comes first so values may themselves contain ':' or '='.
		sep := strings.IndexAny(field, ":=")
		if sep < 0 {
			return OutputSpec{}, fmt.Errorf("%w: malformed field %q in output spec %q", ErrInvalidOutputSpec, field, spec)
		}
		key, val := strings.TrimSpace(field[:sep]), strings.TrimSpace(field[sep+1:])
		switch key {
		case "input":
			out.Input = InputKind(val)
		case "format":
			out.Format = OutputFormat(val)
		case "sink":
			out.Sink = OutputSinkKind(val)
		case "path", "address", "brokers", "topic":
			out.Target = val
			out.Options[key] = val
		default:
			out.Options[key] = val
		}
	}
	return out, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envUintOrDefault(key string, def uint) uint {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return uint(n)
		}
	}
	return def
}

// Load builds a Config from cobra flags already parsed onto cmd, using
// each flag's registered default when it is not set. Only the sample rate
// (HFDL_SAMPLE_RATE) and the system table path (HFDL_SYSTEM_TABLE) fall
// back to an environment variable when their flag is left unset.
func Load(cmd *cobra.Command) (*Config, error) {
	flags := cmd.Flags()

	iqFile, _ := flags.GetString("iq-file")
	soapySDR, _ := flags.GetString("soapysdr")
	sampleFormat, _ := flags.GetString("sample-format")
	sampleRate, _ := flags.GetUint("sample-rate")
	centerFreq, _ := flags.GetUint("centerfreq")
	gain, _ := flags.GetFloat64("gain")
	gainElementsRaw, _ := flags.GetStringToString("gain-elements")
	freqs, _ := flags.GetUintSlice("channels")
	outputsRaw, _ := flags.GetStringArray("output")
	utc, _ := flags.GetBool("utc")
	milliseconds, _ := flags.GetBool("milliseconds")
	rawFrames, _ := flags.GetBool("raw-frames")
	outputMPDUs, _ := flags.GetBool("output-mpdus")
	queueHWM, _ := flags.GetInt("output-queue-hwm")
	stationID, _ := flags.GetString("station-id")
	systemTablePath, _ := flags.GetString("system-table")
	systemTableSave, _ := flags.GetString("system-table-save")
	metricsEnabled, _ := flags.GetBool("metrics-enabled")
	metricsBind, _ := flags.GetString("metrics-bind")
	metricsPort, _ := flags.GetInt("metrics-port")
	cacheTTL, _ := flags.GetDuration("aircraft-cache-ttl")
	cacheSweep, _ := flags.GetDuration("aircraft-cache-sweep-interval")
	logLevel, _ := flags.GetString("log-level")
	debug, _ := flags.GetBool("debug")

	if sampleRate == 0 {
		sampleRate = envUintOrDefault("HFDL_SAMPLE_RATE", 0)
	}
	if systemTablePath == "" {
		systemTablePath = envOrDefault("HFDL_SYSTEM_TABLE", "")
	}

	gainElements := make(map[string]float64, len(gainElementsRaw))
	for k, v := range gainElementsRaw {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: gain element %q has non-numeric value %q", ErrInvalidGainElement, k, v)
		}
		gainElements[k] = f
	}

	specs := make([]OutputSpec, 0, len(outputsRaw))
	for _, raw := range outputsRaw {
		spec, err := parseOutputSpec(raw)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}

	cfg := &Config{
		Input: Input{
			IQFile:       iqFile,
			SoapySDR:     soapySDR,
			SampleFormat: SampleFormat(strings.ToUpper(sampleFormat)),
			SampleRate:   sampleRate,
			CenterFreq:   centerFreq,
			GainDB:       gain,
			GainAuto:     !flags.Changed("gain"),
			GainElements: gainElements,
		},
		Channels: Channels{FrequenciesKHz: freqs},
		Output: Output{
			Specs:        specs,
			UTC:          utc,
			Milliseconds: milliseconds,
			RawFrames:    rawFrames,
			OutputMPDUs:  outputMPDUs,
			QueueHWM:     queueHWM,
			QueuePolicy:  QueuePolicyDropNewest,
			StationID:    stationID,
		},
		SystemTable: SystemTable{
			Path:     systemTablePath,
			SavePath: systemTableSave,
		},
		Cache: AircraftCache{
			TTL:           cacheTTL,
			SweepInterval: cacheSweep,
		},
		Metrics: Metrics{
			Enabled: metricsEnabled,
			Bind:    metricsBind,
			Port:    metricsPort,
		},
		LogLevel: LogLevel(logLevel),
	}
	if debug {
		cfg.LogLevel = LogLevelDebug
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
