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
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

type publishedMsg struct {
	subj string
	data []byte
}

// fakePublisher records publishes, failing them when err is set.
type fakePublisher struct {
	mu   sync.Mutex
	msgs []publishedMsg
	err  error
}

func (p *fakePublisher) Publish(subj string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, publishedMsg{subj, append([]byte(nil), data...)})
	return nil
}

func (p *fakePublisher) bySubject() map[string][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	m := make(map[string][]byte)
	for _, pm := range p.msgs {
		m[pm.subj] = append(m[pm.subj], pm.data...)
	}
	return m
}

func attachBridge(s *Server, pub publisher) *natsBridge {
	nb := newNATSBridge(s, pub, DEFAULT_NATS_SUBJECT)
	s.mu.Lock()
	services := append([]*Service(nil), s.services...)
	s.mu.Unlock()
	nb.attach(services)
	return nb
}

func TestNATSBridgeSubjects(t *testing.T) {
	s := newTestServer(t, testOptions(), nil, nil)
	nb := newNATSBridge(s, &fakePublisher{}, "site1")
	require_Equal(t, nb.subjectFor(s.Service("beast_out")), "site1.beast")
	require_Equal(t, nb.subjectFor(s.Service("raw_out")), "site1.raw")
	require_Equal(t, nb.subjectFor(s.Service("sbs_out")), "site1.sbs")
	require_Equal(t, nb.subjectFor(s.Service("vrs_out")), "site1.vrs")
}

func TestNATSBridgePublishesFlushes(t *testing.T) {
	s := newTestServer(t, testOptions(), nil, nil)
	pub := &fakePublisher{}
	attachBridge(s, pub)

	// No TCP clients are needed for output to be produced.
	m := &Message{DF: 17, METype: 11, Addr: 0x4840D6, Data: testLongMsg, Timestamp: 3}
	s.QueueOutput(m, &Aircraft{Addr: m.Addr})

	got := pub.bySubject()
	require_Len(t, len(got), 3)
	require_True(t, bytes.Equal(got["readsb.beast"], appendBeast(nil, m, m.Data)))
	require_True(t, bytes.Equal(got["readsb.raw"], appendRaw(nil, m, m.Data, false)))
	require_True(t, bytes.HasPrefix(got["readsb.sbs"], []byte("MSG,3,1,1,4840D6,1,")))
	require_Equal(t, testutil.ToFloat64(s.metrics.natsPublished), 3)
}

func TestNATSBridgePublishErrors(t *testing.T) {
	s := newTestServer(t, testOptions(), nil, nil)
	attachBridge(s, &fakePublisher{err: errors.New("nats: connection closed")})
	_, peer := pipeClient(t, s, s.Service("raw_out"))

	m := &Message{Data: testShortMsg}
	s.QueueOutput(m, nil)

	// TCP clients are not affected by a failing bridge.
	expected := appendRaw(nil, m, m.Data, false)
	require_True(t, bytes.Equal(readBytes(t, peer, len(expected)), expected))
	require_Equal(t, testutil.ToFloat64(s.metrics.natsErrors), 2)
	require_Equal(t, testutil.ToFloat64(s.metrics.natsPublished), 0)
}

func TestNATSBridgeDisabled(t *testing.T) {
	s := RunServer(t, testOptions(), nil, nil)
	s.mu.Lock()
	nb := s.nats
	s.mu.Unlock()
	if nb != nil {
		t.Fatalf("Expected no NATS bridge without a URL")
	}
	require_False(t, s.Service("beast_out").writer.active())
}
