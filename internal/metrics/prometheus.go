// SPDX-License-Identifier: AGPL-3.0-or-later
// dumphfdl-go - an HFDL datalink receiver and decoder

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds every Prometheus collector the decoder exposes. Field
// groups follow the pipeline stages that produce them: per-channel framer
// state, FEC outcomes, queue backpressure, and reassembled message counts.
type Metrics struct {
	// Framer acquisition metrics, labeled by channel frequency (kHz).
	FramerAcquisitionsTotal *prometheus.CounterVec
	FramerSearchRetriesTotal *prometheus.CounterVec
	FramerResetsTotal        *prometheus.CounterVec

	// FEC outcome metrics.
	TrainingBitErrorRate    *prometheus.GaugeVec
	ViterbiCorrectionsTotal *prometheus.CounterVec
	FCSFailuresTotal        *prometheus.CounterVec

	// Pipeline backpressure metrics, labeled by queue name.
	QueueOverflowsTotal *prometheus.CounterVec
	QueueDepth          *prometheus.GaugeVec

	// ACARS reassembly and message-level metrics.
	ACARSReassemblyTotal   *prometheus.CounterVec
	DecodedMessagesTotal   *prometheus.CounterVec
	AircraftCacheSize      prometheus.Gauge
	AircraftCacheEvictions prometheus.Counter
}

// NewMetrics allocates and registers every collector with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	metrics := &Metrics{
		FramerAcquisitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hfdl_framer_acquisitions_total",
			Help: "The total number of successful burst acquisitions (A1/A2/M1 sync) per channel",
		}, []string{"channel_khz", "stage"}),
		FramerSearchRetriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hfdl_framer_search_retries_total",
			Help: "The total number of preamble search restarts per channel",
		}, []string{"channel_khz"}),
		FramerResetsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hfdl_framer_resets_total",
			Help: "The total number of full framer state resets per channel",
		}, []string{"channel_khz"}),
		TrainingBitErrorRate: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "hfdl_training_bit_error_rate",
			Help: "The most recent training-sequence bit error rate observed per channel",
		}, []string{"channel_khz"}),
		ViterbiCorrectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hfdl_viterbi_corrections_total",
			Help: "The total number of bursts decoded by the Viterbi decoder per channel",
		}, []string{"channel_khz"}),
		FCSFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hfdl_fcs_failures_total",
			Help: "The total number of PDUs dropped for a CRC mismatch, by PDU layer",
		}, []string{"layer"}),
		QueueOverflowsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hfdl_queue_overflows_total",
			Help: "The total number of items dropped from a bounded inter-stage queue",
		}, []string{"queue"}),
		QueueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "hfdl_queue_depth",
			Help: "The current occupancy of a bounded inter-stage queue",
		}, []string{"queue"}),
		ACARSReassemblyTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hfdl_acars_reassembly_total",
			Help: "The total number of ACARS reassembly outcomes, by result",
		}, []string{"result"}),
		DecodedMessagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hfdl_decoded_messages_total",
			Help: "The total number of fully decoded HFNPDU messages, by ground station",
		}, []string{"station_id"}),
		AircraftCacheSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hfdl_aircraft_cache_size",
			Help: "The current number of entries held in the aircraft logon cache",
		}),
		AircraftCacheEvictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hfdl_aircraft_cache_evictions_total",
			Help: "The total number of aircraft cache entries evicted for exceeding their TTL",
		}),
	}
	metrics.register()
	return metrics
}

func (m *Metrics) register() {
	prometheus.MustRegister(m.FramerAcquisitionsTotal)
	prometheus.MustRegister(m.FramerSearchRetriesTotal)
	prometheus.MustRegister(m.FramerResetsTotal)
	prometheus.MustRegister(m.TrainingBitErrorRate)
	prometheus.MustRegister(m.ViterbiCorrectionsTotal)
	prometheus.MustRegister(m.FCSFailuresTotal)
	prometheus.MustRegister(m.QueueOverflowsTotal)
	prometheus.MustRegister(m.QueueDepth)
	prometheus.MustRegister(m.ACARSReassemblyTotal)
	prometheus.MustRegister(m.DecodedMessagesTotal)
	prometheus.MustRegister(m.AircraftCacheSize)
	prometheus.MustRegister(m.AircraftCacheEvictions)
}

// RecordAcquisition increments the acquisition counter for a channel/stage pair.
func (m *Metrics) RecordAcquisition(channelKHz, stage string) {
	m.FramerAcquisitionsTotal.WithLabelValues(channelKHz, stage).Inc()
}

// RecordSearchRetry increments the preamble-search-retry counter for a channel.
func (m *Metrics) RecordSearchRetry(channelKHz string) {
	m.FramerSearchRetriesTotal.WithLabelValues(channelKHz).Inc()
}

// RecordReset increments the full-reset counter for a channel.
func (m *Metrics) RecordReset(channelKHz string) {
	m.FramerResetsTotal.WithLabelValues(channelKHz).Inc()
}

// SetTrainingBitErrorRate records the most recent equalizer training BER for a channel.
func (m *Metrics) SetTrainingBitErrorRate(channelKHz string, ber float64) {
	m.TrainingBitErrorRate.WithLabelValues(channelKHz).Set(ber)
}

// RecordViterbiDecode increments the Viterbi-decode counter for a channel.
func (m *Metrics) RecordViterbiDecode(channelKHz string) {
	m.ViterbiCorrectionsTotal.WithLabelValues(channelKHz).Inc()
}

// RecordFCSFailure increments the CRC-failure counter for a PDU layer.
func (m *Metrics) RecordFCSFailure(layer string) {
	m.FCSFailuresTotal.WithLabelValues(layer).Inc()
}

// RecordQueueOverflow increments the overflow counter for a named queue.
func (m *Metrics) RecordQueueOverflow(queue string) {
	m.QueueOverflowsTotal.WithLabelValues(queue).Inc()
}

// SetQueueDepth records the current occupancy of a named queue.
func (m *Metrics) SetQueueDepth(queue string, depth float64) {
	m.QueueDepth.WithLabelValues(queue).Set(depth)
}

// RecordACARSReassembly increments the reassembly-outcome counter.
func (m *Metrics) RecordACARSReassembly(result string) {
	m.ACARSReassemblyTotal.WithLabelValues(result).Inc()
}

// RecordDecodedMessage increments the decoded-message counter for a ground station.
func (m *Metrics) RecordDecodedMessage(stationID string) {
	m.DecodedMessagesTotal.WithLabelValues(stationID).Inc()
}

// SetAircraftCacheSize records the current aircraft cache occupancy.
func (m *Metrics) SetAircraftCacheSize(size float64) {
	m.AircraftCacheSize.Set(size)
}

// IncrementAircraftCacheEvictions increments the TTL-eviction counter.
func (m *Metrics) IncrementAircraftCacheEvictions(count float64) {
	m.AircraftCacheEvictions.Add(count)
}
