// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sync

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks the sync engine's request traffic.
type Metrics struct {
	valueRequestsSent      prometheus.Counter
	valueRequestsReceived  prometheus.Counter
	valueResponsesSent     prometheus.Counter
	valueResponsesReceived prometheus.Counter
	valueRequestTimeouts   prometheus.Counter

	voteSetRequestsSent      prometheus.Counter
	voteSetRequestsReceived  prometheus.Counter
	voteSetResponsesSent     prometheus.Counter
	voteSetResponsesReceived prometheus.Counter
	voteSetRequestTimeouts   prometheus.Counter

	invalidCertificates prometheus.Counter

	tipHeight  prometheus.Gauge
	syncHeight prometheus.Gauge
}

// NewMetrics creates the sync metrics and registers them with registerer.
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		valueRequestsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sync_value_requests_sent",
			Help: "Number of value requests sent to peers",
		}),
		valueRequestsReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sync_value_requests_received",
			Help: "Number of value requests received from peers",
		}),
		valueResponsesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sync_value_responses_sent",
			Help: "Number of value responses sent to peers",
		}),
		valueResponsesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sync_value_responses_received",
			Help: "Number of value responses received from peers",
		}),
		valueRequestTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sync_value_request_timeouts",
			Help: "Number of value requests that timed out",
		}),
		voteSetRequestsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sync_vote_set_requests_sent",
			Help: "Number of vote set requests sent to peers",
		}),
		voteSetRequestsReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sync_vote_set_requests_received",
			Help: "Number of vote set requests received from peers",
		}),
		voteSetResponsesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sync_vote_set_responses_sent",
			Help: "Number of vote set responses sent to peers",
		}),
		voteSetResponsesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sync_vote_set_responses_received",
			Help: "Number of vote set responses received from peers",
		}),
		voteSetRequestTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sync_vote_set_request_timeouts",
			Help: "Number of vote set requests that timed out",
		}),
		invalidCertificates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sync_invalid_certificates",
			Help: "Number of synced values rejected for an invalid certificate",
		}),
		tipHeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sync_tip_height",
			Help: "Highest decided height",
		}),
		syncHeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sync_height",
			Help: "Height currently being caught up to",
		}),
	}

	collectors := []prometheus.Collector{
		m.valueRequestsSent,
		m.valueRequestsReceived,
		m.valueResponsesSent,
		m.valueResponsesReceived,
		m.valueRequestTimeouts,
		m.voteSetRequestsSent,
		m.voteSetRequestsReceived,
		m.voteSetResponsesSent,
		m.voteSetResponsesReceived,
		m.voteSetRequestTimeouts,
		m.invalidCertificates,
		m.tipHeight,
		m.syncHeight,
	}
	for _, collector := range collectors {
		if err := registerer.Register(collector); err != nil {
			return nil, err
		}
	}
	return m, nil
}
