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
	"time"
)

// PeriodicWork runs one cycle of the network layer: due connector attempts,
// writer flushes and heartbeats, idle client eviction and the JSON output
// schedule. Cycles never overlap.
func (s *Server) PeriodicWork() {
	s.pwMu.Lock()
	defer s.pwMu.Unlock()

	now := s.now()
	opts := s.getOpts()

	s.mu.Lock()
	services := append([]*Service(nil), s.services...)
	connectors := append([]*Connector(nil), s.connectors...)
	s.mu.Unlock()

	for _, con := range connectors {
		s.serviceConnect(con, now)
	}
	for _, svc := range services {
		if svc.writer != nil {
			svc.writer.periodic(now, opts.FlushInterval, opts.heartbeatInterval())
		}
	}
	if opts.IdleTimeout > 0 {
		s.evictIdle(services, now, opts.IdleTimeout)
	}
	s.jsonPeriodic(now)
}

// evictIdle closes clients that neither sent nor received anything for
// timeout. Serial clients are exempt.
func (s *Server) evictIdle(services []*Service, now time.Time, timeout time.Duration) {
	for _, svc := range services {
		if svc.serial {
			continue
		}
		for _, c := range svc.snapshotClients() {
			if idle := now.Sub(c.lastActivity()); idle >= timeout {
				c.Debugf("Idle for %v, disconnecting", idle)
				c.closeConnection(StaleConnection)
			}
		}
	}
}

// tickLoop drives PeriodicWork until shutdown.
func (s *Server) tickLoop(interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			s.PeriodicWork()
		case <-s.quitCh:
			return
		}
	}
}
