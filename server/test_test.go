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
	"strings"
	"sync"
	"testing"
	"time"
)

// testOptions disables every listener, heartbeats and the tick loop so
// tests only get what they ask for.
func testOptions() *Options {
	return &Options{
		BindAddr:      "127.0.0.1",
		BeastOutPorts: "0",
		BeastInPorts:  "0",
		RawOutPorts:   "0",
		RawInPorts:    "0",
		SBSOutPorts:   "0",
		VRSOutPorts:   "0",
		Heartbeat:     -1,
		TickInterval:  time.Hour,
		HTTPHost:      "127.0.0.1",
		NoLog:         true,
		NoSigs:        true,
	}
}

// newTestServer creates a server that is not started. It is shut down when
// the test ends.
func newTestServer(t testing.TB, opts *Options, dec Decoder, gens *Generators) *Server {
	t.Helper()
	s, err := NewServer(opts, dec, gens)
	if err != nil {
		t.Fatalf("Error creating server: %v", err)
	}
	t.Cleanup(s.Shutdown)
	return s
}

// RunServer creates and starts a server, failing the test on any setup
// error.
func RunServer(t testing.TB, opts *Options, dec Decoder, gens *Generators) *Server {
	t.Helper()
	s := newTestServer(t, opts, dec, gens)
	if err := s.Start(); err != nil {
		t.Fatalf("Error starting server: %v", err)
	}
	return s
}

// testClock is a manually advanced clock for deterministic schedules.
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (tc *testClock) Now() time.Time {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return tc.t
}

func (tc *testClock) Advance(d time.Duration) time.Time {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.t = tc.t.Add(d)
	return tc.t
}

// useClock switches s to tc. Must be called before any client exists.
func useClock(s *Server, tc *testClock) {
	s.now = tc.Now
	s.start = tc.Now()
	s.mu.Lock()
	services := append([]*Service(nil), s.services...)
	s.mu.Unlock()
	for _, svc := range services {
		if w := svc.writer; w != nil {
			w.mu.Lock()
			w.lastWrite = tc.Now()
			w.mu.Unlock()
		}
	}
}

// msgCollector is a Decoder recording every delivered message.
type msgCollector struct {
	mu   sync.Mutex
	msgs []*Message
}

func (mc *msgCollector) HandleMessage(m *Message) {
	mc.mu.Lock()
	mc.msgs = append(mc.msgs, m)
	mc.mu.Unlock()
}

func (mc *msgCollector) count() int {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return len(mc.msgs)
}

func (mc *msgCollector) get(i int) *Message {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.msgs[i]
}

func (mc *msgCollector) waitFor(t testing.TB, n int) {
	t.Helper()
	checkFor(t, 2*time.Second, 10*time.Millisecond, func() error {
		if got := mc.count(); got != n {
			return fmt.Errorf("expected %d messages, got %d", n, got)
		}
		return nil
	})
}

// pipeClient attaches one end of a net.Pipe to svc and returns the client
// and the peer end.
func pipeClient(t testing.TB, s *Server, svc *Service) (*client, net.Conn) {
	t.Helper()
	local, peer := net.Pipe()
	c := s.createSocketClient(svc, local, nil)
	if c == nil {
		t.Fatalf("Unable to attach client to %s", svc)
	}
	t.Cleanup(func() { peer.Close() })
	return c, peer
}

// readBytes reads exactly n bytes from conn.
func readBytes(t testing.TB, conn net.Conn, n int) []byte {
	t.Helper()
	buf := make([]byte, n)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, err := io.ReadFull(conn, buf); err != nil {
		t.Fatalf("Error reading %d bytes: %v", n, err)
	}
	conn.SetReadDeadline(time.Time{})
	return buf
}

// expectNothing fails if conn has data to read within d.
func expectNothing(t testing.TB, conn net.Conn, d time.Duration) {
	t.Helper()
	var b [1]byte
	conn.SetReadDeadline(time.Now().Add(d))
	defer conn.SetReadDeadline(time.Time{})
	if n, err := conn.Read(b[:]); n > 0 || err == nil {
		t.Fatalf("Expected no data, got %q", b[:n])
	}
}

func checkConnections(t testing.TB, svc *Service, n int) {
	t.Helper()
	checkFor(t, 2*time.Second, 10*time.Millisecond, func() error {
		if got := svc.Connections(); got != n {
			return fmt.Errorf("expected %d connections on %s, got %d", n, svc, got)
		}
		return nil
	})
}

// checkClosedReason waits for the most recently closed client to carry reason.
func checkClosedReason(t testing.TB, s *Server, reason ClosedState) {
	t.Helper()
	checkFor(t, 2*time.Second, 10*time.Millisecond, func() error {
		ccs := s.closedClients()
		if len(ccs) == 0 {
			return errors.New("no closed clients")
		}
		if got := ccs[len(ccs)-1].Reason; got != reason.String() {
			return fmt.Errorf("expected close reason %q, got %q", reason, got)
		}
		return nil
	})
}

func checkFor(t testing.TB, totalWait, sleepDur time.Duration, f func() error) {
	t.Helper()
	timeout := time.Now().Add(totalWait)
	var err error
	for time.Now().Before(timeout) {
		err = f()
		if err == nil {
			return
		}
		time.Sleep(sleepDur)
	}
	if err != nil {
		t.Fatal(err.Error())
	}
}

func require_True(t testing.TB, b bool) {
	t.Helper()
	if !b {
		t.Fatalf("require true, but got false")
	}
}

func require_False(t testing.TB, b bool) {
	t.Helper()
	if b {
		t.Fatalf("require false, but got true")
	}
}

func require_NoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("require no error, but got: %v", err)
	}
}

func require_NotNil(t testing.TB, v any) {
	t.Helper()
	if v == nil {
		t.Fatalf("require not nil, but got: %v", v)
	}
}

func require_Contains(t testing.TB, s string, subStrs ...string) {
	t.Helper()
	for _, subStr := range subStrs {
		if !strings.Contains(s, subStr) {
			t.Fatalf("require %q to be contained in %q", subStr, s)
		}
	}
}

func require_Error(t testing.TB, err error, expected ...error) {
	t.Helper()
	if err == nil {
		t.Fatalf("require error, but got none")
	}
	if len(expected) == 0 {
		return
	}
	for _, e := range expected {
		if errors.Is(err, e) {
			return
		}
	}
	t.Fatalf("Expected one of %v, got '%v'", expected, err)
}

func require_Equal[T comparable](t testing.TB, a, b T) {
	t.Helper()
	if a != b {
		t.Fatalf("require %T equal, but got: %v != %v", a, a, b)
	}
}

func require_NotEqual[T comparable](t testing.TB, a, b T) {
	t.Helper()
	if a == b {
		t.Fatalf("require %T not equal, but got: %v != %v", a, a, b)
	}
}

func require_Len(t testing.TB, a, b int) {
	t.Helper()
	if a != b {
		t.Fatalf("require len, but got: %v != %v", a, b)
	}
}
