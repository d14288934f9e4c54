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
	"testing"
	"time"
)

func TestNewServerServices(t *testing.T) {
	s := newTestServer(t, testOptions(), nil, nil)

	for _, test := range []struct {
		key    string
		descr  string
		output bool
	}{
		{"beast_out", "Beast TCP output", true},
		{"beast_in", "Beast TCP input", false},
		{"raw_out", "Raw TCP output", true},
		{"raw_in", "Raw TCP input", false},
		{"sbs_out", "Basestation TCP output", true},
		{"vrs_out", "VRS json output", true},
	} {
		t.Run(test.key, func(t *testing.T) {
			svc := s.Service(test.key)
			require_NotNil(t, svc)
			require_Equal(t, svc.String(), test.descr)
			require_Equal(t, svc.writer != nil, test.output)
			require_Equal(t, svc.Connections(), 0)
			require_Equal(t, svc.ListenerCount(), 0)
		})
	}
	require_Len(t, len(s.services), 6)
	if s.Service("sbs_in") != nil {
		t.Fatalf("Expected no sbs_in service")
	}
}

func TestNewServerUniqueIDs(t *testing.T) {
	s1 := newTestServer(t, testOptions(), nil, nil)
	s2 := newTestServer(t, testOptions(), nil, nil)
	if s1.ID() == "" || s1.ID() == s2.ID() {
		t.Fatalf("Expected unique server ids, got %q and %q", s1.ID(), s2.ID())
	}
}

func TestClientIDsUnique(t *testing.T) {
	s := newTestServer(t, testOptions(), nil, nil)
	seen := make(map[uint64]struct{})
	for i := 0; i < 20; i++ {
		c, _ := pipeClient(t, s, s.Service("raw_out"))
		if _, dup := seen[c.cid]; dup {
			t.Fatalf("Duplicate client id %d", c.cid)
		}
		seen[c.cid] = struct{}{}
	}
}

func TestShutdownClosesClients(t *testing.T) {
	opts := testOptions()
	opts.RawOutPorts = "-1"
	s := RunServer(t, opts, nil, nil)

	svc := s.Service("raw_out")
	conn, err := net.Dial("tcp", svc.ListenAddrs()[0].String())
	require_NoError(t, err)
	defer conn.Close()
	checkConnections(t, svc, 1)
	pipeClient(t, s, s.Service("beast_in"))

	s.Shutdown()
	// Idempotent.
	s.Shutdown()

	require_Equal(t, svc.Connections(), 0)
	require_Equal(t, s.Service("beast_in").Connections(), 0)
	for _, cc := range s.closedClients() {
		require_Equal(t, cc.Reason, ServerShutdown.String())
	}
	require_Equal(t, s.numClosedConns(), 2)

	conn.SetReadDeadline(time.Now().Add(time.Second))
	if _, err := conn.Read(make([]byte, 1)); err == nil {
		t.Fatalf("Expected connection to be closed")
	}
	require_False(t, s.isRunning())
}

func TestStartGoRoutineAfterShutdown(t *testing.T) {
	s := newTestServer(t, testOptions(), nil, nil)
	done := make(chan struct{})
	require_True(t, s.startGoRoutine(func() { close(done) }))
	<-done

	s.Shutdown()
	require_False(t, s.startGoRoutine(func() { t.Errorf("Should not run") }))

	// No client can be attached anymore.
	a, b := net.Pipe()
	defer b.Close()
	if c := s.createSocketClient(s.Service("raw_out"), a, nil); c != nil {
		t.Fatalf("Expected no client after shutdown")
	}
}

func TestWaitForShutdown(t *testing.T) {
	s := newTestServer(t, testOptions(), nil, nil)
	done := make(chan struct{})
	go func() {
		s.WaitForShutdown()
		close(done)
	}()
	select {
	case <-done:
		t.Fatalf("WaitForShutdown returned early")
	case <-time.After(50 * time.Millisecond):
	}
	s.Shutdown()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("WaitForShutdown did not return")
	}
}
