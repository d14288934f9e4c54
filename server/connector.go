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
	"time"
)

// ConnectorState is the state of an outbound push connection.
type ConnectorState int

const (
	ConnDisconnected ConnectorState = iota
	ConnConnecting
	ConnConnected
)

func (cs ConnectorState) String() string {
	switch cs {
	case ConnDisconnected:
		return "disconnected"
	case ConnConnecting:
		return "connecting"
	case ConnConnected:
		return "connected"
	}
	return "unknown"
}

// Connector is a self reconnecting outbound connection feeding (or fed by)
// one service. It lives for the lifetime of the server.
type Connector struct {
	Address  string
	Port     string
	Protocol string

	svc   *Service
	delay time.Duration

	mu          sync.Mutex
	state       ConnectorState
	client      *client
	next        time.Time
	attempts    uint64
	lastAttempt time.Time
	lastErr     error
}

func (con *Connector) String() string {
	return net.JoinHostPort(con.Address, con.Port) + ":" + con.Protocol
}

func (con *Connector) hostPort() string {
	return net.JoinHostPort(con.Address, con.Port)
}

// State returns the current connection state.
func (con *Connector) State() ConnectorState {
	con.mu.Lock()
	defer con.mu.Unlock()
	return con.state
}

// Attempts returns the number of connection attempts so far.
func (con *Connector) Attempts() uint64 {
	con.mu.Lock()
	defer con.mu.Unlock()
	return con.attempts
}

// newConnector parses an address:port:protocol spec and attaches the
// connector to the service of that protocol.
func (s *Server) newConnector(spec string) (*Connector, error) {
	addr, port, proto, err := parseConnector(spec)
	if err != nil {
		return nil, err
	}
	p, err := protocolByKey(proto)
	if err != nil {
		return nil, err
	}
	svc := s.serviceFor(p)
	con := &Connector{
		Address:  addr,
		Port:     port,
		Protocol: proto,
		svc:      svc,
		delay:    s.getOpts().ReconnectDelay,
	}
	svc.mu.Lock()
	svc.pushers++
	svc.mu.Unlock()

	s.mu.Lock()
	s.connectors = append(s.connectors, con)
	s.mu.Unlock()
	return con, nil
}

// serviceConnect starts an asynchronous connection attempt if the connector
// is disconnected and its retry delay has passed. It reports whether an
// attempt was started.
func (s *Server) serviceConnect(con *Connector, now time.Time) bool {
	con.mu.Lock()
	if con.state != ConnDisconnected || now.Before(con.next) {
		con.mu.Unlock()
		return false
	}
	con.state = ConnConnecting
	con.attempts++
	con.lastAttempt = now
	con.mu.Unlock()

	s.metrics.connectAttempts.WithLabelValues(con.svc.key).Inc()
	s.Debugf("Connecting to %s", con)

	timeout := s.getOpts().ConnectTimeout
	started := s.startGoRoutine(func() {
		conn, err := s.dial("tcp", con.hostPort(), timeout)
		if err != nil {
			con.failed(s.now(), err)
			s.RateLimitWarnf("Connection to %s failed: %v, retrying in %v", con, err, con.delay)
			return
		}
		c := s.createSocketClient(con.svc, conn, con)
		if c == nil {
			con.failed(s.now(), ErrServerNotRunning)
			return
		}
		c.Noticef("Connection established to %s", con)
		if con.svc.readMode == ReadBeast {
			if err := sendBeastSettings(c, s.beastSettings()); err != nil {
				c.Debugf("Unable to send beast settings: %v", err)
			}
		}
	})
	if !started {
		con.mu.Lock()
		con.state = ConnDisconnected
		con.mu.Unlock()
	}
	return started
}

// connected is called once the client for this connector is attached.
func (con *Connector) connected(c *client) {
	con.mu.Lock()
	con.state = ConnConnected
	con.client = c
	con.lastErr = nil
	con.mu.Unlock()
}

// failed marks a failed attempt and withholds the next one for the delay.
func (con *Connector) failed(now time.Time, err error) {
	con.mu.Lock()
	con.state = ConnDisconnected
	con.client = nil
	con.lastErr = err
	con.next = now.Add(con.delay)
	con.mu.Unlock()
}

// lost is called when the connector's client closes.
func (con *Connector) lost(c *client, now time.Time) {
	con.mu.Lock()
	defer con.mu.Unlock()
	if con.client != c {
		return
	}
	con.state = ConnDisconnected
	con.client = nil
	con.next = now.Add(con.delay)
}

// beastSettings returns the settings pushed to Beast input peers.
func (s *Server) beastSettings() string {
	settings := s.getOpts().BeastSettings
	if settings == "" {
		settings = "C"
	}
	if s.modeACEnabled() {
		return settings + "J"
	}
	return settings + "j"
}

func defaultDial(network, address string, timeout time.Duration) (net.Conn, error) {
	conn, err := net.DialTimeout(network, address, timeout)
	if err != nil {
		return nil, err
	}
	if tc, ok := conn.(*net.TCPConn); ok {
		tc.SetNoDelay(true)
	}
	return conn, nil
}

// ConnectorInfo describes a connector in /varz.
type ConnectorInfo struct {
	Target      string    `json:"target"`
	Protocol    string    `json:"protocol"`
	State       string    `json:"state"`
	Attempts    uint64    `json:"attempts"`
	LastAttempt time.Time `json:"last_attempt,omitempty"`
	NextAttempt time.Time `json:"next_attempt,omitempty"`
	LastError   string    `json:"last_error,omitempty"`
	Cid         uint64    `json:"cid,omitempty"`
}

func (con *Connector) info() ConnectorInfo {
	con.mu.Lock()
	defer con.mu.Unlock()
	ci := ConnectorInfo{
		Target:      con.hostPort(),
		Protocol:    con.Protocol,
		State:       con.state.String(),
		Attempts:    con.attempts,
		LastAttempt: con.lastAttempt,
		NextAttempt: con.next,
	}
	if con.lastErr != nil {
		ci.LastError = con.lastErr.Error()
	}
	if con.client != nil {
		ci.Cid = con.client.cid
	}
	return ci
}
