// Copyright (C) 2020-2026, Ghostnet Labs. All rights reserved.
// See the file LICENSE for licensing terms.

package ghost

import (
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks protocol engine counters. Grounded on
// api/metrics/metrics.go's namespace-scoped prometheus.Counter
// registration pattern. A shadow set of atomic counters mirrors the
// prometheus series so Snapshot can read current values without
// gathering through the registry.
type Metrics struct {
	composed   prometheus.Counter
	sent       prometheus.Counter
	received   prometheus.Counter
	gateFailed *prometheus.CounterVec
	committed  prometheus.Counter
	latencyEMA prometheus.Gauge

	composedN  atomic.Uint64
	sentN      atomic.Uint64
	receivedN  atomic.Uint64
	committedN atomic.Uint64

	gateMu sync.Mutex
	gateN  map[string]uint64
}

// NewMetrics builds and registers a Metrics instance under namespace.
func NewMetrics(namespace string, registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		composed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_composed",
			Help:      "Number of ghost transactions composed.",
		}),
		sent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packets_sent",
			Help:      "Number of ghost packets broadcast.",
		}),
		received: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packets_received",
			Help:      "Number of ghost packets received off the transport.",
		}),
		gateFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gate_failed_total",
			Help:      "Number of received packets rejected by the gate, by reason.",
		}, []string{"reason"}),
		committed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_committed",
			Help:      "Number of transactions appended to the ledger.",
		}),
		latencyEMA: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "latency_ema_seconds",
			Help:      "Current one-way latency EMA used for adaptive timestamp validation.",
		}),
	}

	m.gateN = make(map[string]uint64)

	for _, c := range []prometheus.Collector{m.composed, m.sent, m.received, m.gateFailed, m.committed, m.latencyEMA} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) incComposed() { m.composed.Inc(); m.composedN.Add(1) }
func (m *Metrics) incSent()     { m.sent.Inc(); m.sentN.Add(1) }
func (m *Metrics) incReceived() { m.received.Inc(); m.receivedN.Add(1) }
func (m *Metrics) incCommitted() {
	m.committed.Inc()
	m.committedN.Add(1)
}

func (m *Metrics) incGateFailed(reason string) {
	m.gateFailed.WithLabelValues(reason).Inc()
	m.gateMu.Lock()
	defer m.gateMu.Unlock()
	m.gateN[reason]++
}

func (m *Metrics) setLatencyEMA(seconds float64) {
	m.latencyEMA.Set(seconds)
}

// Snapshot returns the current counter values.
func (m *Metrics) Snapshot() Snapshot {
	m.gateMu.Lock()
	gateFailed := make(map[string]float64, len(m.gateN))
	for k, v := range m.gateN {
		gateFailed[k] = float64(v)
	}
	m.gateMu.Unlock()

	return Snapshot{
		Composed:   float64(m.composedN.Load()),
		Sent:       float64(m.sentN.Load()),
		Received:   float64(m.receivedN.Load()),
		Committed:  float64(m.committedN.Load()),
		GateFailed: gateFailed,
	}
}

// Snapshot is a point-in-time read of the counters, used by Health.
// The latency EMA itself is reported separately on Health, sourced
// directly from the TimestampValidator rather than round-tripped
// through the prometheus gauge.
type Snapshot struct {
	Composed   float64
	Sent       float64
	Received   float64
	Committed  float64
	GateFailed map[string]float64
}
