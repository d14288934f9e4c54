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
	"net"
	"sync"
)

// Service groups one protocol with its listeners, its clients and, for
// output protocols, a shared Writer.
type Service struct {
	srv      *Server
	descr    string
	key      string
	proto    protocol
	readMode ReadMode
	sep      []byte
	serial   bool
	writer   *Writer

	mu        sync.Mutex
	listeners []net.Listener
	clients   map[uint64]*client
	pushers   int
	closed    bool
}

func (svc *Service) String() string {
	return svc.descr
}

// serviceInit creates a service for proto and registers it with the server.
// Output protocols get a writer carrying the protocol heartbeat.
func (s *Server) serviceInit(proto protocol, serial bool) *Service {
	svc := s.newService(proto, serial)
	s.mu.Lock()
	s.services = append(s.services, svc)
	s.mu.Unlock()
	return svc
}

// newService builds a service without registering it.
func (s *Server) newService(proto protocol, serial bool) *Service {
	svc := &Service{
		srv:      s,
		descr:    proto.String(),
		key:      proto.key(),
		proto:    proto,
		readMode: proto.readMode(),
		sep:      proto.separator(),
		serial:   serial,
		clients:  make(map[uint64]*client),
	}
	if serial {
		svc.descr = "Beast serial input"
		svc.key = "beast_serial"
	}
	if proto.output() {
		svc.writer = s.newWriter(svc, proto.heartbeat())
	}
	return svc
}

// Connections returns the number of attached clients.
func (svc *Service) Connections() int {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return len(svc.clients)
}

// ListenerCount returns the number of bound listening sockets.
func (svc *Service) ListenerCount() int {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return len(svc.listeners)
}

// PusherCount returns the number of connectors feeding this service.
func (svc *Service) PusherCount() int {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.pushers
}

// ListenAddrs returns the addresses of the listening sockets.
func (svc *Service) ListenAddrs() []net.Addr {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	addrs := make([]net.Addr, 0, len(svc.listeners))
	for _, l := range svc.listeners {
		addrs = append(addrs, l.Addr())
	}
	return addrs
}

func (svc *Service) addListener(l net.Listener) bool {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.closed {
		return false
	}
	svc.listeners = append(svc.listeners, l)
	return true
}

func (svc *Service) addClient(c *client) bool {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.closed {
		return false
	}
	svc.clients[c.cid] = c
	return true
}

func (svc *Service) removeClient(c *client) {
	svc.mu.Lock()
	delete(svc.clients, c.cid)
	svc.mu.Unlock()
}

// snapshotClients returns the attached clients. Lock should be held.
func (svc *Service) snapshotClientsLocked() []*client {
	clients := make([]*client, 0, len(svc.clients))
	for _, c := range svc.clients {
		clients = append(clients, c)
	}
	return clients
}

func (svc *Service) snapshotClients() []*client {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.snapshotClientsLocked()
}

// hasClients reports whether output for this service has anywhere to go.
func (svc *Service) hasClients() bool {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return len(svc.clients) > 0
}

// close stops the listeners and disconnects every client.
func (svc *Service) close() {
	svc.mu.Lock()
	svc.closed = true
	listeners := svc.listeners
	svc.listeners = nil
	clients := svc.snapshotClientsLocked()
	svc.mu.Unlock()

	for _, l := range listeners {
		l.Close()
	}
	for _, c := range clients {
		c.closeConnection(ServerShutdown)
	}
}
