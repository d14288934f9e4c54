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
	"strings"

	"github.com/nats-io/nats.go"
)

// publisher is the part of a NATS connection the bridge needs.
type publisher interface {
	Publish(subj string, data []byte) error
}

// natsBridge mirrors every writer flush to "<subject>.<service>".
type natsBridge struct {
	srv     *Server
	prefix  string
	pub     publisher
	conn    *nats.Conn
	subject map[*Service]string
}

func newNATSBridge(s *Server, pub publisher, prefix string) *natsBridge {
	return &natsBridge{
		srv:     s,
		prefix:  prefix,
		pub:     pub,
		subject: make(map[*Service]string),
	}
}

// subjectFor returns the subject for svc, "readsb.beast" for the Beast
// output service with the default prefix.
func (nb *natsBridge) subjectFor(svc *Service) string {
	return nb.prefix + "." + strings.TrimSuffix(svc.key, "_out")
}

// attach routes the flushes of every output service through the bridge.
func (nb *natsBridge) attach(services []*Service) {
	for _, svc := range services {
		if svc.writer == nil {
			continue
		}
		nb.subject[svc] = nb.subjectFor(svc)
		svc.writer.mu.Lock()
		svc.writer.sink = nb
		svc.writer.mu.Unlock()
	}
}

// publish is called with the writer lock held. nats.go buffers the
// payload, so this does not block on the network.
func (nb *natsBridge) publish(svc *Service, b []byte) {
	subj, ok := nb.subject[svc]
	if !ok {
		return
	}
	if err := nb.pub.Publish(subj, b); err != nil {
		nb.srv.metrics.natsErrors.Inc()
		nb.srv.RateLimitWarnf("NATS publish to %q failed: %v", subj, err)
		return
	}
	nb.srv.metrics.natsPublished.Inc()
}

func (nb *natsBridge) close() {
	if nb.conn != nil {
		nb.conn.Close()
	}
}

// startNATSBridge connects to the configured NATS server. The connection
// keeps retrying in the background, so an unreachable server at startup is
// not an error.
func (s *Server) startNATSBridge() error {
	opts := s.getOpts()
	if opts.NATSURL == "" {
		return nil
	}
	nc, err := nats.Connect(opts.NATSURL,
		nats.Name("readsb-"+s.info.ID),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(opts.ReconnectDelay),
		nats.RetryOnFailedConnect(true),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				s.Warnf("NATS disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			s.Noticef("NATS reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			s.Debugf("NATS connection closed")
		}),
	)
	if err != nil {
		return err
	}
	nb := newNATSBridge(s, nc, opts.NATSSubject)
	nb.conn = nc

	s.mu.Lock()
	services := append([]*Service(nil), s.services...)
	s.nats = nb
	s.mu.Unlock()

	nb.attach(services)
	s.Noticef("Publishing writer output to NATS %s under %q", opts.NATSURL, opts.NATSSubject)
	return nil
}
