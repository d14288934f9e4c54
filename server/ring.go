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

// closedClient is what we keep of a client after it is gone.
type closedClient struct {
	ConnInfo
	Reason string `json:"reason"`
}

// Fixed sized ringbuffer for closed connections.
type closedRingBuffer struct {
	total uint64
	conns []*closedClient
}

// Create a new ring buffer with at most max items.
func newClosedRingBuffer(max int) *closedRingBuffer {
	rb := &closedRingBuffer{}
	rb.conns = make([]*closedClient, max)
	return rb
}

// append records cc, replacing the oldest record once full.
func (rb *closedRingBuffer) append(cc *closedClient) {
	rb.conns[rb.next()] = cc
	rb.total++
}

func (rb *closedRingBuffer) next() int {
	return int(rb.total % uint64(cap(rb.conns)))
}

func (rb *closedRingBuffer) len() int {
	if rb.total > uint64(cap(rb.conns)) {
		return cap(rb.conns)
	}
	return int(rb.total)
}

func (rb *closedRingBuffer) totalConns() uint64 {
	return rb.total
}

// closedClients returns the records oldest first. The slice is a copy but
// the records are shared and must not be modified.
func (rb *closedRingBuffer) closedClients() []*closedClient {
	dup := make([]*closedClient, rb.len())
	head := rb.next()
	if rb.total <= uint64(cap(rb.conns)) || head == 0 {
		copy(dup, rb.conns[:rb.len()])
	} else {
		fp := rb.conns[head:]
		sp := rb.conns[:head]
		copy(dup, fp)
		copy(dup[len(fp):], sp)
	}
	return dup
}

// saveClosedClient records a closed client for /connz.
func (s *Server) saveClosedClient(c *client, reason ClosedState) {
	now := s.now()
	cc := &closedClient{ConnInfo: c.connInfo(now), Reason: reason.String()}
	cc.Stop = &now
	s.closedMu.Lock()
	s.closed.append(cc)
	s.closedMu.Unlock()
}

func (s *Server) numClosedConns() int {
	s.closedMu.Lock()
	defer s.closedMu.Unlock()
	return s.closed.len()
}

func (s *Server) totalClosedConns() uint64 {
	s.closedMu.Lock()
	defer s.closedMu.Unlock()
	return s.closed.totalConns()
}

func (s *Server) closedClients() []*closedClient {
	s.closedMu.Lock()
	defer s.closedMu.Unlock()
	return s.closed.closedClients()
}
