// SPDX-License-Identifier: AGPL-3.0-or-later
// DMRHub - Run a DMR network server in a single binary
// Copyright (C) 2023-2026 Jacob McSwain
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
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// The source code is available at <https://github.com/USA-RedDragon/DMRHub>

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes the transport core's observable state — transport
// counts by state, reference counts, worker activity, and the outcome of
// acquire/release/codec-switch operations — as Prometheus collectors.
// Wiring this is optional: a pure library consumer of internal/transport
// never has to touch this package. Only QueueDepthBytes is fed, through
// ObserveDelay; nothing in this repository updates the other collectors,
// so they are registered but stay at their zero values.
type Metrics struct {
	TransportsByState   *prometheus.GaugeVec
	TransportRefCount   *prometheus.GaugeVec
	WorkerThreadsActive prometheus.Gauge
	AcquireTotal        *prometheus.CounterVec
	AcquireDuration     *prometheus.HistogramVec
	ReleaseTotal        *prometheus.CounterVec
	CodecSwitchTotal    *prometheus.CounterVec
	QueueDepthBytes     *prometheus.GaugeVec
}

// New constructs and registers the transport core's metric collectors.
func New() *Metrics {
	m := &Metrics{
		TransportsByState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "btaudiod_transports_by_state",
			Help: "Number of A2DP transports currently in each state.",
		}, []string{"state"}),
		TransportRefCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "btaudiod_transport_ref_count",
			Help: "Current reference count, keyed by mediator object path.",
		}, []string{"path"}),
		WorkerThreadsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "btaudiod_worker_threads_active",
			Help: "Number of running encoder/decoder worker goroutines across all transports.",
		}),
		AcquireTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "btaudiod_acquire_total",
			Help: "Acquire attempts by profile and result.",
		}, []string{"profile", "result"}),
		AcquireDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "btaudiod_acquire_duration_seconds",
			Help:    "Duration of acquire RPCs/syscalls against the mediator or HCI.",
			Buckets: prometheus.DefBuckets,
		}, []string{"profile"}),
		ReleaseTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "btaudiod_release_total",
			Help: "Release attempts by profile and result.",
		}, []string{"profile", "result"}),
		CodecSwitchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "btaudiod_codec_switch_total",
			Help: "SCO codec-switch handshakes by target codec and result.",
		}, []string{"codec", "result"}),
		QueueDepthBytes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "btaudiod_queue_depth_bytes",
			Help: "Kernel output-queue depth recorded as the link's delay baseline right after acquire, keyed by mediator object path.",
		}, []string{"path"}),
	}
	m.register()
	return m
}

// ObserveDelay records a transport's acquire-time queuing-delay baseline.
// It satisfies internal/transport's DelayObserver interface.
func (m *Metrics) ObserveDelay(path string, bytes int) {
	m.QueueDepthBytes.WithLabelValues(path).Set(float64(bytes))
}

func (m *Metrics) register() {
	prometheus.MustRegister(
		m.TransportsByState,
		m.TransportRefCount,
		m.WorkerThreadsActive,
		m.AcquireTotal,
		m.AcquireDuration,
		m.ReleaseTotal,
		m.CodecSwitchTotal,
		m.QueueDepthBytes,
	)
}
