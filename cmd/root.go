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

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"syscall"
	"time"

	"github.com/dumphfdl/dumphfdl-go/internal/aircraftcache"
	"github.com/dumphfdl/dumphfdl-go/internal/basestation"
	"github.com/dumphfdl/dumphfdl-go/internal/channelizer"
	"github.com/dumphfdl/dumphfdl-go/internal/config"
	"github.com/dumphfdl/dumphfdl-go/internal/decoded"
	"github.com/dumphfdl/dumphfdl-go/internal/hfdlchannel"
	"github.com/dumphfdl/dumphfdl-go/internal/input"
	"github.com/dumphfdl/dumphfdl-go/internal/metrics"
	"github.com/dumphfdl/dumphfdl-go/internal/output"
	"github.com/dumphfdl/dumphfdl-go/internal/pdu"
	"github.com/dumphfdl/dumphfdl-go/internal/pipeline"
	"github.com/dumphfdl/dumphfdl-go/internal/systable"
	"github.com/go-co-op/gocron/v2"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/ztrue/shutdown"
	"golang.org/x/sync/errgroup"
)

// channelizerTapsLen fixes the prototype low-pass filter length the
// wideband channelizer uses; it is sized well above the HFDL channel
// spacing so the transition band doesn't bleed between adjacent channels.
const channelizerTapsLen = 127

// channelizerTransitionBW is the channelizer's passband half-width, in Hz,
// wide enough to pass one HFDL channel (<=2.4 kHz occupied bandwidth) with
// margin for frequency error.
const channelizerTransitionBW = 3000.0

func NewCommand(version, commit string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dumphfdl-go",
		Version: fmt.Sprintf("%s - %s", version, commit),
		Annotations: map[string]string{
			"version": version,
			"commit":  commit,
		},
		RunE:              runRoot,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}
	registerFlags(cmd)
	return cmd
}

func registerFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.String("iq-file", "", "read raw I/Q samples from this file instead of an SDR")
	flags.String("soapysdr", "", "SoapySDR device arguments string selecting a live SDR")
	flags.String("sample-format", "CU8", "input sample format: CU8, CS16, or CF32")
	flags.Uint("sample-rate", 0, "input sample rate in Hz")
	flags.Uint("centerfreq", 0, "SDR tuner center frequency in Hz")
	flags.Float64("gain", 0, "SDR gain in dB (auto gain if unset)")
	flags.StringToString("gain-elements", nil, "per-element SDR gain overrides, name=dB")
	flags.UintSlice("channels", nil, "HFDL channel center frequencies to decode, in kHz")
	flags.StringArray("output", nil, "output spec: input:kind,format:kind,sink:kind,key=val,... (repeatable)")
	flags.Bool("utc", false, "render timestamps in UTC instead of local time")
	flags.Bool("milliseconds", false, "include millisecond precision in timestamps")
	flags.Bool("raw-frames", false, "emit pre-parse octet buffers instead of (or alongside) parsed PDU trees")
	flags.Bool("output-mpdus", false, "parse PDU trees even when --raw-frames is set")
	flags.Int("output-queue-hwm", 256, "high-water mark for the decoded-record output queue")
	flags.String("station-id", "", "identifies this receiver instance in output records")
	flags.String("system-table", "", "path to a system table YAML file (optionally .xz compressed)")
	flags.String("system-table-save", "", "path to persist the system table after over-the-air updates")
	flags.Bool("metrics-enabled", false, "expose a Prometheus /metrics endpoint")
	flags.String("metrics-bind", "0.0.0.0", "metrics server bind address")
	flags.Int("metrics-port", 9105, "metrics server port")
	flags.Duration("aircraft-cache-ttl", 30*time.Minute, "aircraft ICAO logon cache entry lifetime")
	flags.Duration("aircraft-cache-sweep-interval", 5*time.Minute, "interval between aircraft cache TTL sweeps")
	flags.String("log-level", "info", "log level: debug, info, warn, or error")
	flags.Bool("debug", false, "shorthand for --log-level=debug")
}

func runRoot(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	fmt.Printf("dumphfdl-go - %s (%s)\n", cmd.Annotations["version"], cmd.Annotations["commit"])

	cfg, err := config.Load(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	setupLogger(cfg)

	m := metrics.NewMetrics()
	if err := metrics.CreateMetricsServer(cfg); err != nil {
		return fmt.Errorf("failed to start metrics server: %w", err)
	}

	dir, err := loadSystemTable(cfg)
	if err != nil {
		return fmt.Errorf("failed to load system table: %w", err)
	}
	reassembler := systable.NewSegmentReassembler(dir)

	cache := aircraftcache.New(cfg.Cache.TTL, m)

	aircraftDB, err := openAircraftDB(cfg)
	if err != nil {
		return fmt.Errorf("failed to open basestation database: %w", err)
	}

	sinks, err := output.BuildSinks(cfg.Output.Specs, cfg.Output, aircraftDB)
	if err != nil {
		return fmt.Errorf("failed to build output sinks: %w", err)
	}
	fanOut := output.NewFanOut(cfg.Output, sinks)

	source, err := buildInputSource(cfg)
	if err != nil {
		return fmt.Errorf("failed to build input source: %w", err)
	}

	outQueue := pipeline.NewQueue[decoded.Record](cfg.Output.QueueHWM, pipeline.DropOldest)
	workers := buildChannelWorkers(cfg, outQueue, m)
	acarsReassembler := pdu.NewReassembler()

	scheduler, err := setupScheduler(cfg, cache, dir)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	if err := scheduleQueueMetrics(scheduler, outQueue, m); err != nil {
		return fmt.Errorf("failed to schedule queue metrics: %w", err)
	}
	scheduler.Start()

	runCtx, cancel := context.WithCancel(ctx)

	g, gCtx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		forwardRecords(gCtx, outQueue, fanOut, reassembler, acarsReassembler, cache, m)
		return nil
	})
	g.Go(func() error {
		runChannelizer(gCtx, cfg, source, workers)
		return nil
	})

	stop := func(sig os.Signal) {
		slog.Error("Shutting down due to signal", "signal", sig)
		cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			if err := g.Wait(); err != nil {
				slog.Error("Pipeline stage returned an error", "error", err)
			}
			fanOut.Shutdown()
			if err := scheduler.Shutdown(); err != nil {
				slog.Error("Failed to stop scheduler", "error", err)
			}
			if aircraftDB != nil {
				if err := aircraftDB.Close(); err != nil {
					slog.Error("Failed to close basestation database", "error", err)
				}
			}
			if err := saveSystemTable(cfg, dir); err != nil {
				slog.Error("Failed to save system table", "error", err)
			}
		}()

		const timeout = 10 * time.Second
		select {
		case <-done:
			slog.Info("Shutdown complete")
			os.Exit(0)
		case <-time.After(timeout):
			slog.Error("Shutdown timed out, forcing exit")
			os.Exit(1)
		}
	}

	shutdown.AddWithParam(stop)
	shutdown.Listen(syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)

	return nil
}

func setupLogger(cfg *config.Config) {
	var level slog.Level
	var w *os.File
	switch cfg.LogLevel {
	case config.LogLevelDebug:
		level, w = slog.LevelDebug, os.Stdout
	case config.LogLevelInfo:
		level, w = slog.LevelInfo, os.Stdout
	case config.LogLevelWarn:
		level, w = slog.LevelWarn, os.Stderr
	case config.LogLevelError:
		level, w = slog.LevelError, os.Stderr
	default:
		level, w = slog.LevelInfo, os.Stdout
	}
	slog.SetDefault(slog.New(tint.NewHandler(w, &tint.Options{Level: level})))
}

func loadSystemTable(cfg *config.Config) (*systable.Directory, error) {
	if cfg.SystemTable.Path == "" {
		return systable.NewDirectory(), nil
	}
	dir, err := systable.LoadFile(cfg.SystemTable.Path)
	if err != nil {
		return nil, err
	}
	return dir, nil
}

func saveSystemTable(cfg *config.Config, dir *systable.Directory) error {
	path := cfg.SystemTable.SavePath
	if path == "" {
		return nil
	}
	return systable.SaveFile(dir, path)
}

func openAircraftDB(cfg *config.Config) (*basestation.DB, error) {
	path := ""
	needed := false
	for _, spec := range cfg.Output.Specs {
		if spec.Format != config.OutputFormatBasestation {
			continue
		}
		needed = true
		if p, ok := spec.Options["basestation-db"]; ok {
			path = p
		}
	}
	if !needed {
		return nil, nil
	}
	return basestation.Open(path)
}

func buildInputSource(cfg *config.Config) (input.Source, error) {
	if cfg.Input.IQFile != "" {
		return input.NewFileSource(cfg.Input.IQFile, cfg.Input.SampleFormat, cfg.Input.SampleRate), nil
	}
	return nil, errors.New("live SoapySDR capture requires a driver built with cgo SoapySDR bindings, not included in this build")
}

func buildChannelWorkers(cfg *config.Config, out *pipeline.Queue[decoded.Record], m *metrics.Metrics) map[uint]*hfdlchannel.ChannelWorker {
	workers := make(map[uint]*hfdlchannel.ChannelWorker, len(cfg.Channels.FrequenciesKHz))
	for _, freq := range cfg.Channels.FrequenciesKHz {
		w := hfdlchannel.NewChannelWorker(uint32(freq), cfg.Output.StationID, out, m)
		w.RawFrames = cfg.Output.RawFrames
		w.OutputMPDUs = cfg.Output.OutputMPDUs
		workers[freq] = w
	}
	return workers
}

// runChannelizer pumps the wideband input source through the FFT
// channelizer, fanning each decimated narrowband stream into its
// channel's worker.
func runChannelizer(ctx context.Context, cfg *config.Config, source input.Source, workers map[uint]*hfdlchannel.ChannelWorker) {
	cz, err := channelizer.New(float64(cfg.Input.SampleRate), channelizerTransitionBW, channelizerTapsLen)
	if err != nil {
		slog.Error("Failed to build channelizer", "error", err)
		return
	}

	channels := make(map[uint]*channelizer.Channel, len(workers))
	for freq := range workers {
		shiftHz := float64(freq)*1000 - float64(cfg.Input.CenterFreq)
		channels[freq] = cz.AddChannel(1, shiftHz)
	}

	samples, err := source.Samples(ctx)
	if err != nil {
		slog.Error("Failed to start input source", "error", err)
		return
	}

	blockSize := cz.InputBlockSize()
	pending := make([]complex128, 0, blockSize)

	for {
		select {
		case <-ctx.Done():
			return
		case block, ok := <-samples:
			if !ok {
				return
			}
			for _, s := range block {
				pending = append(pending, complex128(s))
				if len(pending) == blockSize {
					dispatchBlock(cz, channels, workers, pending)
					pending = pending[:0]
				}
			}
		}
	}
}

func dispatchBlock(cz *channelizer.Channelizer, channels map[uint]*channelizer.Channel, workers map[uint]*hfdlchannel.ChannelWorker, block []complex128) {
	out := cz.Process(block)
	ts := time.Now()
	for freq, ch := range channels {
		w, ok := workers[freq]
		if !ok {
			continue
		}
		for _, s := range out[ch] {
			w.Push(s, ts)
		}
	}
}

// forwardRecords drains the shared decoded-record queue, feeds any
// embedded system-table segments to the reassembler, and publishes each
// record to the output fan-out, stopping once the queue closes.
func forwardRecords(ctx context.Context, q *pipeline.Queue[decoded.Record], fanOut *output.FanOut, reassembler *systable.SegmentReassembler, acarsReassembler *pdu.Reassembler, cache *aircraftcache.Cache, m *metrics.Metrics) {
	for {
		rec, ok := q.Pop()
		if !ok {
			return
		}

		feedSystemTableSegments(rec, reassembler)
		feedAircraftLogons(rec, cache)
		feedACARSMessages(rec, acarsReassembler, m)
		if rec.MPDU != nil {
			m.RecordDecodedMessage(rec.Station)
		}

		kind := config.InputKindDecoded
		if rec.RawOctets != nil && rec.MPDU == nil {
			kind = config.InputKindFrame
		}
		fanOut.Publish(kind, rec)
		select {
		case <-ctx.Done():
		default:
		}
	}
}

// feedSystemTableSegments scans a decoded record's LPDUs for 0xD0
// system-table HFNPDUs and feeds each to the directory reassembler.
func feedSystemTableSegments(rec decoded.Record, reassembler *systable.SegmentReassembler) {
	if rec.MPDU == nil {
		return
	}
	for _, l := range rec.MPDU.LPDUs {
		if l.HFNPDU == nil || l.HFNPDU.SystemTable == nil {
			continue
		}
		st := l.HFNPDU.SystemTable
		stations := make([]systable.Station, len(st.Stations))
		for i, s := range st.Stations {
			stations[i] = systable.Station{
				ID:             s.ID,
				LatitudeDeg:    s.LatitudeDeg,
				LongitudeDeg:   s.LongitudeDeg,
				FrequenciesKHz: s.FrequenciesKHz,
			}
		}
		reassembler.Feed(st.SystemTableVersion, st.SeqNum, st.TotalCount, stations)
	}
}

// feedAircraftLogons records the (channel, ACID) -> ICAO binding carried
// by any successful logon-confirm LPDU in a decoded record.
func feedAircraftLogons(rec decoded.Record, cache *aircraftcache.Cache) {
	if rec.MPDU == nil {
		return
	}
	for _, l := range rec.MPDU.LPDUs {
		if !l.IsLogonConfirm() || !l.HasICAO {
			continue
		}
		key := aircraftcache.Key{ChannelFreq: rec.ChannelFreq, ACID: l.AssignedACID}
		cache.Store(key, uint32(l.ICAO), rec.Timestamp)
	}
}

// feedACARSMessages reassembles any enveloped ACARS HFNPDUs in a decoded
// record and records the resulting outcome for each.
func feedACARSMessages(rec decoded.Record, acarsReassembler *pdu.Reassembler, m *metrics.Metrics) {
	if rec.MPDU == nil {
		return
	}
	direction := pdu.DownlinkACARS
	if rec.MPDU.Direction == pdu.Uplink {
		direction = pdu.UplinkACARS
	}
	for _, l := range rec.MPDU.LPDUs {
		if l.HFNPDU == nil || l.HFNPDU.ACARS == nil {
			continue
		}
		a := l.HFNPDU.ACARS
		acarsReassembler.Feed(direction, a, rec.Timestamp)
		m.RecordACARSReassembly(string(a.Status))
	}
}

// scheduleQueueMetrics registers a periodic job that samples the output
// queue's depth and overflow count, the only queue currently exposed
// outside its owning stage.
func scheduleQueueMetrics(scheduler gocron.Scheduler, q *pipeline.Queue[decoded.Record], m *metrics.Metrics) error {
	const queueName = "output"
	const pollInterval = 5 * time.Second

	var lastOverflow uint64
	_, err := scheduler.NewJob(
		gocron.DurationJob(pollInterval),
		gocron.NewTask(func() {
			m.SetQueueDepth(queueName, float64(q.Len()))
			overflow := q.Overflow()
			if overflow > lastOverflow {
				for i := uint64(0); i < overflow-lastOverflow; i++ {
					m.RecordQueueOverflow(queueName)
				}
				lastOverflow = overflow
			}
		}),
	)
	return err
}

func setupScheduler(cfg *config.Config, cache *aircraftcache.Cache, dir *systable.Directory) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	sweepInterval := cfg.Cache.SweepInterval
	if sweepInterval <= 0 {
		sweepInterval = 5 * time.Minute
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(sweepInterval),
		gocron.NewTask(func() {
			evicted := cache.Sweep(time.Now())
			if evicted > 0 {
				slog.Debug("Aircraft cache sweep evicted entries", "count", evicted)
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule aircraft cache sweep: %w", err)
	}

	if cfg.SystemTable.SavePath != "" {
		_, err = scheduler.NewJob(
			gocron.DurationJob(time.Hour),
			gocron.NewTask(func() {
				if err := systable.SaveFile(dir, cfg.SystemTable.SavePath); err != nil {
					slog.Error("Failed to autosave system table", "error", err)
				}
			}),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to schedule system table autosave: %w", err)
		}
	}

	return scheduler, nil
}
