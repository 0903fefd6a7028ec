// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package appchannel

import "github.com/prometheus/client_golang/prometheus"

// Metrics tracks the bridge's forwarding traffic.
type Metrics struct {
	messagesForwarded prometheus.Counter
	replyFailures     prometheus.Counter
}

// NewMetrics creates the bridge metrics and registers them with registerer.
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		messagesForwarded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "appchannel_messages_forwarded",
			Help: "Number of host messages forwarded to the application",
		}),
		replyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "appchannel_reply_failures",
			Help: "Number of replies that were dropped or could not be delivered",
		}),
	}

	for _, collector := range []prometheus.Collector{
		m.messagesForwarded,
		m.replyFailures,
	} {
		if err := registerer.Register(collector); err != nil {
			return nil, err
		}
	}
	return m, nil
}
