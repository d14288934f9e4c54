// Copyright 2012-2026 The NATS Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const metricsNamespace = "readsb_net"

// serverMetrics are the Prometheus collectors of one server. Every server
// has its own registry so tests can run servers side by side.
type serverMetrics struct {
	registry *prometheus.Registry

	connections     *prometheus.GaugeVec
	accepted        *prometheus.CounterVec
	closed          *prometheus.CounterVec
	bytesOut        *prometheus.CounterVec
	flushes         *prometheus.CounterVec
	heartbeats      *prometheus.CounterVec
	messagesIn      *prometheus.CounterVec
	badFrames       *prometheus.CounterVec
	connectAttempts *prometheus.CounterVec
	natsPublished   prometheus.Counter
	natsErrors      prometheus.Counter
}

func newServerMetrics() *serverMetrics {
	m := &serverMetrics{
		registry: prometheus.NewRegistry(),
		connections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "connections",
			Help:      "Clients currently attached to a service",
		}, []string{"service"}),
		accepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "connections_total",
			Help:      "Clients attached to a service since start",
		}, []string{"service"}),
		closed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "closed_connections_total",
			Help:      "Clients closed, by reason",
		}, []string{"service", "reason"}),
		bytesOut: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "writer_bytes_total",
			Help:      "Bytes flushed by a service writer",
		}, []string{"service"}),
		flushes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "writer_flushes_total",
			Help:      "Writer flushes to clients",
		}, []string{"service"}),
		heartbeats: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "heartbeats_total",
			Help:      "Keepalive frames sent by a service writer",
		}, []string{"service"}),
		messagesIn: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "messages_received_total",
			Help:      "Messages parsed from input clients",
		}, []string{"service"}),
		badFrames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "bad_frames_total",
			Help:      "Malformed frames and lines received",
		}, []string{"service"}),
		connectAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "connector_attempts_total",
			Help:      "Outbound connection attempts",
		}, []string{"service"}),
		natsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "nats_published_total",
			Help:      "Writer flushes published to NATS",
		}),
		natsErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "nats_publish_errors_total",
			Help:      "Failed NATS publishes",
		}),
	}
	m.registry.MustRegister(
		m.connections,
		m.accepted,
		m.closed,
		m.bytesOut,
		m.flushes,
		m.heartbeats,
		m.messagesIn,
		m.badFrames,
		m.connectAttempts,
		m.natsPublished,
		m.natsErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// protocolViolation counts and reports a framing error of c.
func (s *Server) protocolViolation(c *client, err error) {
	s.metrics.badFrames.WithLabelValues(c.svc.key).Inc()
	s.RateLimitWarnf("%s - %s: %v", c, c.svc, err)
}

// badLine counts an input line that could not be parsed.
func (s *Server) badLine(c *client, line []byte) {
	s.metrics.badFrames.WithLabelValues(c.svc.key).Inc()
	if len(line) > 64 {
		line = line[:64]
	}
	c.Tracef("Bad input line %q", line)
}
