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
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestClosedStateString(t *testing.T) {
	for _, test := range []struct {
		reason ClosedState
		want   string
	}{
		{ClientClosed, "Client Closed"},
		{ReadError, "Read Error"},
		{WriteError, "Write Error"},
		{ProtocolViolation, "Protocol Violation"},
		{SlowConsumerPendingBytes, "Slow Consumer (Pending Bytes)"},
		{StaleConnection, "Stale Connection"},
		{ServerShutdown, "Server Shutdown"},
		{ClosedState(0), "Unknown State"},
		{ClosedState(99), "Unknown State"},
	} {
		if got := test.reason.String(); got != test.want {
			t.Fatalf("Expected %q for %d, got %q", test.want, test.reason, got)
		}
	}
}

func TestClientQueueOutboundCopies(t *testing.T) {
	s := newTestServer(t, testOptions(), nil, nil)
	c, peer := pipeClient(t, s, s.Service("raw_out"))

	buf := []byte("*8D4840D6202CC371C32CE0576098;\n")
	want := string(buf)
	require_NoError(t, c.queueOutbound(buf))
	for i := range buf {
		buf[i] = 'x'
	}
	if got := string(readBytes(t, peer, len(want))); got != want {
		t.Fatalf("Expected %q, got %q", want, got)
	}
}

func TestClientSendQueueLimit(t *testing.T) {
	opts := testOptions()
	opts.MaxSendQueue = 10
	s := newTestServer(t, opts, nil, nil)
	// Not started, nothing drains the queue.
	c := s.newClient(s.Service("raw_out"), nopConn{}, nil)

	require_NoError(t, c.queueOutbound(make([]byte, 8)))
	require_Equal(t, c.pending(), 8)
	require_Error(t, c.queueOutbound(make([]byte, 3)), ErrSendQueueExceeded)
	require_Equal(t, c.pending(), 8)
	require_NoError(t, c.queueOutbound(make([]byte, 2)))
	require_Equal(t, c.pending(), 10)

	c.svc.addClient(c)
	c.closeConnection(ClientClosed)
	require_Error(t, c.queueOutbound([]byte("x")), ErrConnectionClosed)
}

func TestClientCloseOnce(t *testing.T) {
	s := newTestServer(t, testOptions(), nil, nil)
	svc := s.Service("sbs_out")
	c, _ := pipeClient(t, s, svc)
	checkConnections(t, svc, 1)

	c.closeConnection(WriteError)
	c.closeConnection(ReadError)
	c.closeConnection(ClientClosed)

	checkConnections(t, svc, 0)
	require_Equal(t, s.numClosedConns(), 1)
	checkClosedReason(t, s, WriteError)
	if n := testutil.ToFloat64(s.metrics.closed.WithLabelValues("sbs_out", WriteError.String())); n != 1 {
		t.Fatalf("Expected 1 closed connection in metrics, got %v", n)
	}
	if n := testutil.ToFloat64(s.metrics.closed.WithLabelValues("sbs_out", ReadError.String())); n != 0 {
		t.Fatalf("Expected no read error close in metrics, got %v", n)
	}
	if n := testutil.ToFloat64(s.metrics.connections.WithLabelValues("sbs_out")); n != 0 {
		t.Fatalf("Expected connection gauge back at 0, got %v", n)
	}
}

func TestClientPeerCloseIsClientClosed(t *testing.T) {
	s := newTestServer(t, testOptions(), nil, nil)
	svc := s.Service("raw_in")
	_, peer := pipeClient(t, s, svc)
	checkConnections(t, svc, 1)
	peer.Close()
	checkConnections(t, svc, 0)
	checkClosedReason(t, s, ClientClosed)
}

func TestClientActivity(t *testing.T) {
	s := newTestServer(t, testOptions(), &msgCollector{}, nil)
	tc := newTestClock()
	useClock(s, tc)

	c, peer := pipeClient(t, s, s.Service("raw_in"))
	start := tc.Now()
	require_True(t, c.lastActivity().Equal(start))

	tc.Advance(3 * time.Second)
	if _, err := peer.Write([]byte("*8D4840D6202CC371C32CE0576098;\n")); err != nil {
		t.Fatalf("Error writing: %v", err)
	}
	checkFor(t, time.Second, 5*time.Millisecond, func() error {
		if ci := c.connInfo(tc.Now()); ci.InMsgs != 1 || !ci.LastActivity.Equal(tc.Now()) {
			return fmt.Errorf("activity not recorded yet: %+v", ci)
		}
		return nil
	})
	ci := c.connInfo(tc.Now())
	require_Equal(t, ci.InBytes, int64(31))
	require_Equal(t, ci.Service, "raw_in")
	require_Equal(t, ci.Idle, "0s")
}

func TestClientHostPort(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()
	require_Equal(t, hostPort(a), "pipe")

	f, err := os.Create(filepath.Join(t.TempDir(), "ttyUSB0"))
	require_NoError(t, err)
	defer f.Close()
	require_Equal(t, hostPort(f), f.Name())

	require_Equal(t, hostPort(nopConn{}), "N/A")
}

// nopConn swallows writes and never returns data.
type nopConn struct{}

func (nopConn) Read(b []byte) (int, error)  { select {} }
func (nopConn) Write(b []byte) (int, error) { return len(b), nil }
func (nopConn) Close() error                { return nil }
