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
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eapache/queue"
)

// ClosedState is the reason a client was closed. It is kept with the
// closed client record and exported in monitoring.
type ClosedState int

const (
	ClientClosed = ClosedState(iota + 1)
	ReadError
	WriteError
	ProtocolViolation
	SlowConsumerPendingBytes
	StaleConnection
	ServerShutdown
)

func (reason ClosedState) String() string {
	switch reason {
	case ClientClosed:
		return "Client Closed"
	case ReadError:
		return "Read Error"
	case WriteError:
		return "Write Error"
	case ProtocolViolation:
		return "Protocol Violation"
	case SlowConsumerPendingBytes:
		return "Slow Consumer (Pending Bytes)"
	case StaleConnection:
		return "Stale Connection"
	case ServerShutdown:
		return "Server Shutdown"
	}
	return "Unknown State"
}

// outChunk is one flushed writer buffer waiting in a client send queue.
type outChunk struct {
	b []byte
}

type client struct {
	mu    sync.Mutex
	cid   uint64
	srv   *Server
	svc   *Service
	nc    io.ReadWriteCloser
	ncs   string
	host  string
	start time.Time

	// Receive buffer, owned by the read loop.
	rbuf []byte

	modeac      bool
	serial      bool
	lastReceive time.Time
	lastFlush   time.Time
	lastSend    time.Time

	sendq    *queue.Queue
	sendqLen int
	sendqMax int
	flushCh  chan struct{}
	quit     chan struct{}

	con    *Connector
	closed ClosedState

	inBytes  atomic.Int64
	outBytes atomic.Int64
	inMsgs   atomic.Int64
}

func (c *client) String() string {
	return c.ncs
}

// hostPort returns the peer address for diagnostics.
func hostPort(nc io.ReadWriteCloser) string {
	switch conn := nc.(type) {
	case net.Conn:
		if addr := conn.RemoteAddr(); addr != nil {
			return addr.String()
		}
	case *os.File:
		return conn.Name()
	}
	return "N/A"
}

func (c *client) Noticef(format string, v ...any) {
	c.srv.Noticef(format, append(v, c)...)
}

func (c *client) Warnf(format string, v ...any) {
	c.srv.Warnf(format, append(v, c)...)
}

func (c *client) Errorf(format string, v ...any) {
	c.srv.Errorf(format, append(v, c)...)
}

func (c *client) Debugf(format string, v ...any) {
	c.srv.Debugf(format, append(v, c)...)
}

func (c *client) Tracef(format string, v ...any) {
	c.srv.Tracef(format, append(v, c)...)
}

// newClient builds a client for svc. It is not attached to the service and
// its loops are not running.
func (s *Server) newClient(svc *Service, nc io.ReadWriteCloser, con *Connector) *client {
	opts := s.getOpts()
	now := s.now()
	c := &client{
		cid:         atomic.AddUint64(&s.gcid, 1),
		srv:         s,
		svc:         svc,
		nc:          nc,
		host:        hostPort(nc),
		start:       now,
		rbuf:        make([]byte, opts.ClientBufSize),
		lastReceive: now,
		lastSend:    now,
		lastFlush:   now,
		sendq:       queue.New(),
		sendqMax:    opts.MaxSendQueue,
		flushCh:     make(chan struct{}, 1),
		quit:        make(chan struct{}),
		con:         con,
		serial:      svc.serial,
	}
	c.ncs = fmt.Sprintf("%s - cid:%d", c.host, c.cid)
	return c
}

// createSocketClient attaches a connection to svc and starts its loops. For
// outbound connections con is the owning connector.
func (s *Server) createSocketClient(svc *Service, nc io.ReadWriteCloser, con *Connector) *client {
	c := s.newClient(svc, nc, con)
	if !svc.addClient(c) {
		nc.Close()
		return nil
	}
	if con != nil {
		con.connected(c)
	}
	s.metrics.connections.WithLabelValues(svc.key).Inc()
	s.metrics.accepted.WithLabelValues(svc.key).Inc()
	c.Debugf("%s client connected", svc)

	if !s.startGoRoutine(func() { c.readLoop() }) ||
		!s.startGoRoutine(func() { c.writeLoop() }) {
		c.closeConnection(ServerShutdown)
		return nil
	}
	return c
}

func (c *client) isClosed() bool {
	return c.closed != 0
}

func (c *client) readLoop() {
	c.mu.Lock()
	nc, buf := c.nc, c.rbuf
	c.mu.Unlock()

	fill := 0
	for {
		n, err := nc.Read(buf[fill:])
		if n > 0 {
			c.mu.Lock()
			c.lastReceive = c.srv.now()
			c.mu.Unlock()
			c.inBytes.Add(int64(n))
			fill += n

			used, perr := c.svc.proto.consume(c, buf[:fill])
			if used > 0 {
				fill = copy(buf, buf[used:fill])
			}
			if perr == nil && fill == len(buf) {
				perr = ErrFrameTooLong
			}
			if perr != nil {
				c.srv.protocolViolation(c, perr)
				c.closeConnection(ProtocolViolation)
				return
			}
		}
		if err != nil {
			reason := ReadError
			if errors.Is(err, io.EOF) {
				reason = ClientClosed
			}
			c.closeConnection(reason)
			return
		}
	}
}

type writeDeadliner interface {
	SetWriteDeadline(t time.Time) error
}

func (c *client) writeLoop() {
	deadline := c.srv.getOpts().WriteDeadline
	for {
		c.mu.Lock()
		if c.isClosed() {
			c.mu.Unlock()
			return
		}
		if c.sendq.Length() == 0 {
			c.mu.Unlock()
			select {
			case <-c.flushCh:
				continue
			case <-c.quit:
				return
			}
		}
		oc := c.sendq.Peek().(*outChunk)
		nc := c.nc
		c.mu.Unlock()

		if wd, ok := nc.(writeDeadliner); ok {
			wd.SetWriteDeadline(time.Now().Add(deadline))
		}
		n, err := nc.Write(oc.b)

		c.mu.Lock()
		if n > 0 {
			oc.b = oc.b[n:]
			c.sendqLen -= n
			c.lastSend = c.srv.now()
			if len(oc.b) == 0 {
				c.sendq.Remove()
			}
		}
		c.mu.Unlock()
		c.outBytes.Add(int64(n))

		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				// Peer is not reading. Keep what is left and try again, the
				// send queue ceiling bounds how long this can go on.
				continue
			}
			c.closeConnection(WriteError)
			return
		}
	}
}

// queueOutbound appends an independent copy of b to the send queue.
func (c *client) queueOutbound(b []byte) error {
	c.mu.Lock()
	if c.isClosed() {
		c.mu.Unlock()
		return ErrConnectionClosed
	}
	if c.sendqLen+len(b) > c.sendqMax {
		c.mu.Unlock()
		return ErrSendQueueExceeded
	}
	c.sendq.Add(&outChunk{b: append([]byte(nil), b...)})
	c.sendqLen += len(b)
	c.lastFlush = c.srv.now()
	c.mu.Unlock()

	select {
	case c.flushCh <- struct{}{}:
	default:
	}
	return nil
}

// pending returns the number of bytes waiting in the send queue.
func (c *client) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sendqLen
}

// lastActivity is the later of the last receive and the last send.
func (c *client) lastActivity() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastSend.After(c.lastReceive) {
		return c.lastSend
	}
	return c.lastReceive
}

// deliver hands a parsed message to the decoder. Delivery from all input
// clients is serialized.
func (c *client) deliver(m *Message) {
	s := c.srv
	c.inMsgs.Add(1)
	if m.SysTime.IsZero() {
		m.SysTime = s.now()
	}
	s.metrics.messagesIn.WithLabelValues(c.svc.key).Inc()
	s.decMu.Lock()
	if s.decoder != nil {
		s.decoder.HandleMessage(m)
	}
	s.decMu.Unlock()
}

// closeConnection closes the socket exactly once, detaches the client from
// its service and tells the owning connector.
func (c *client) closeConnection(reason ClosedState) {
	c.mu.Lock()
	if c.isClosed() {
		c.mu.Unlock()
		return
	}
	c.closed = reason
	nc, con, modeac := c.nc, c.con, c.modeac
	close(c.quit)
	c.mu.Unlock()

	nc.Close()

	s := c.srv
	c.svc.removeClient(c)
	s.metrics.connections.WithLabelValues(c.svc.key).Dec()
	s.metrics.closed.WithLabelValues(c.svc.key, reason.String()).Inc()
	s.saveClosedClient(c, reason)

	if reason == ClientClosed || reason == ServerShutdown {
		c.Debugf("%s connection closed: %s", c.svc, reason)
	} else {
		c.Noticef("%s connection closed: %s", c.svc, reason)
	}
	if con != nil {
		con.lost(c, s.now())
	}
	if modeac {
		s.autosetModeAC()
	}
}
