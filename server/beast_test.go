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
	"testing"
)

var (
	testLongMsg  = []byte{0x8D, 0x48, 0x40, 0xD6, 0x20, 0x2C, 0xC3, 0x71, 0xC3, 0x2C, 0xE0, 0x57, 0x60, 0x98}
	testShortMsg = []byte{0x5D, 0x48, 0x40, 0xD6, 0x20, 0x2C, 0xC3}
	testModeAC   = []byte{0x12, 0x34}
)

type beastFrame struct {
	typ     byte
	payload []byte
}

func scanAllBeast(t *testing.T, buf []byte, command bool) ([]beastFrame, int) {
	t.Helper()
	var frames []beastFrame
	n, err := scanBeast(buf, command, func(typ byte, payload []byte) {
		frames = append(frames, beastFrame{typ, append([]byte(nil), payload...)})
	})
	require_NoError(t, err)
	return frames, n
}

func TestBeastEncodeDecode(t *testing.T) {
	for _, test := range []struct {
		name string
		m    *Message
		typ  byte
	}{
		{"modeac", &Message{Data: testModeAC, Timestamp: 0x123456, Signal: 0x40}, '1'},
		{"short", &Message{Data: testShortMsg, Timestamp: 0xA1B2C3D4E5F6, Signal: 0x80}, '2'},
		{"long", &Message{Data: testLongMsg, Timestamp: 1, Signal: 0xFF}, '3'},
		{"escaped", &Message{Data: testLongMsg, Timestamp: 0x1A1A1A1A1A1A, Signal: 0x1A}, '3'},
	} {
		t.Run(test.name, func(t *testing.T) {
			frame := appendBeast(nil, test.m, test.m.Data)
			require_Equal(t, frame[0], byte(beastEscape))
			require_Equal(t, frame[1], test.typ)

			frames, n := scanAllBeast(t, frame, false)
			require_Equal(t, n, len(frame))
			require_Len(t, len(frames), 1)
			m := decodeBeastPayload(frames[0].typ, frames[0].payload)
			require_Equal(t, m.Timestamp, test.m.Timestamp)
			require_Equal(t, m.Signal, test.m.Signal)
			if !bytes.Equal(m.Data, test.m.Data) {
				t.Fatalf("Expected data %x, got %x", test.m.Data, m.Data)
			}
			require_True(t, m.Remote)
		})
	}
}

func TestBeastEscapeDoubling(t *testing.T) {
	data := append([]byte(nil), testShortMsg...)
	data[3] = beastEscape
	m := &Message{Data: data, Timestamp: 0x1A, Signal: 0x10}
	frame := appendBeast(nil, m, data)
	// 2 byte header, 7 byte preamble, 7 data bytes, 2 extra escapes.
	require_Len(t, len(frame), 2+7+7+2)
	if !bytes.Contains(frame, []byte{beastEscape, beastEscape}) {
		t.Fatalf("Expected doubled escape in %x", frame)
	}
	// No lone escape may appear after the frame start.
	for i := 2; i < len(frame); i++ {
		if frame[i] == beastEscape {
			if i+1 >= len(frame) || frame[i+1] != beastEscape {
				t.Fatalf("Lone escape at %d in %x", i, frame)
			}
			i++
		}
	}
}

func TestBeastBadLength(t *testing.T) {
	m := &Message{Data: []byte{1, 2, 3}}
	if b := appendBeast(nil, m, m.Data); len(b) != 0 {
		t.Fatalf("Expected nothing for a 3 byte message, got %x", b)
	}
}

func TestBeastPartialFrames(t *testing.T) {
	msgs := []*Message{
		{Data: testLongMsg, Timestamp: 0x1A0000001A1A, Signal: 0x1A},
		{Data: testShortMsg, Timestamp: 42, Signal: 7},
		{Data: testModeAC, Timestamp: 43, Signal: 8},
	}
	var stream []byte
	for _, m := range msgs {
		stream = appendBeast(stream, m, m.Data)
	}

	// Feed the stream one byte at a time, keeping what was not consumed.
	var buf []byte
	var frames []beastFrame
	for _, b := range stream {
		buf = append(buf, b)
		got, n := scanAllBeast(t, buf, false)
		frames = append(frames, got...)
		buf = buf[n:]
	}
	require_Len(t, len(buf), 0)
	require_Len(t, len(frames), len(msgs))
	for i, f := range frames {
		m := decodeBeastPayload(f.typ, f.payload)
		if !bytes.Equal(m.Data, msgs[i].Data) || m.Timestamp != msgs[i].Timestamp || m.Signal != msgs[i].Signal {
			t.Fatalf("Frame %d mismatch: %+v vs %+v", i, m, msgs[i])
		}
	}
}

func TestBeastSkipsGarbage(t *testing.T) {
	m := &Message{Data: testShortMsg, Timestamp: 5}
	buf := append([]byte("garbage"), appendBeast(nil, m, m.Data)...)
	frames, n := scanAllBeast(t, buf, false)
	require_Equal(t, n, len(buf))
	require_Len(t, len(frames), 1)
	require_Equal(t, frames[0].typ, byte('2'))
}

func TestBeastBadMarker(t *testing.T) {
	buf := []byte{beastEscape, 'x', 0, 0, 0, 0, 0, 0, 0}
	_, err := scanBeast(buf, false, func(byte, []byte) {
		t.Fatalf("Handler should not be called")
	})
	require_Error(t, err, ErrBadBeastFrame)
}

func TestBeastCommandFrames(t *testing.T) {
	frames, n := scanAllBeast(t, []byte{beastEscape, '1', 'J', beastEscape, '1', 'C'}, true)
	require_Equal(t, n, 6)
	require_Len(t, len(frames), 2)
	require_Equal(t, frames[0].payload[0], byte('J'))
	require_Equal(t, frames[1].payload[0], byte('C'))

	_, err := scanBeast([]byte{beastEscape, '3', 'J'}, true, func(byte, []byte) {})
	require_Error(t, err, ErrBadBeastFrame)
}

func TestBeastMLATTimestamp(t *testing.T) {
	m := &Message{Data: testLongMsg, Timestamp: 99, Source: SourceMLAT}
	frames, _ := scanAllBeast(t, appendBeast(nil, m, m.Data), false)
	require_Len(t, len(frames), 1)
	dm := decodeBeastPayload(frames[0].typ, frames[0].payload)
	require_Equal(t, dm.Timestamp, uint64(MAGIC_MLAT_TIMESTAMP))
	require_Equal(t, dm.Source, SourceMLAT)
}

func TestBeastHeartbeatRecognized(t *testing.T) {
	frames, _ := scanAllBeast(t, beastHeartbeat, false)
	require_Len(t, len(frames), 1)
	require_True(t, isBeastHeartbeat(frames[0].typ, frames[0].payload))

	m := &Message{Data: testModeAC, Timestamp: 1}
	frames, _ = scanAllBeast(t, appendBeast(nil, m, m.Data), false)
	require_False(t, isBeastHeartbeat(frames[0].typ, frames[0].payload))
}

func TestBeastInputClient(t *testing.T) {
	mc := &msgCollector{}
	s := newTestServer(t, testOptions(), mc, nil)
	svc := s.Service("beast_in")
	_, peer := pipeClient(t, s, svc)

	var stream []byte
	stream = append(stream, beastHeartbeat...)
	stream = appendBeast(stream, &Message{Timestamp: 7, Signal: 3}, testLongMsg)
	// Mode A/C is not forwarded unless enabled.
	stream = appendBeast(stream, &Message{Timestamp: 8}, testModeAC)
	stream = append(stream, beastEscape, '4')
	stream = append(stream, make([]byte, 21)...)
	stream = appendBeast(stream, &Message{Timestamp: 9}, testShortMsg)

	// Split the writes so frames straddle reads.
	half := len(stream) / 2
	if _, err := peer.Write(stream[:half]); err != nil {
		t.Fatalf("Error writing: %v", err)
	}
	if _, err := peer.Write(stream[half:]); err != nil {
		t.Fatalf("Error writing: %v", err)
	}
	mc.waitFor(t, 2)
	require_Equal(t, mc.get(0).Timestamp, uint64(7))
	require_True(t, bytes.Equal(mc.get(0).Data, testLongMsg))
	require_Equal(t, mc.get(1).Timestamp, uint64(9))
	require_False(t, mc.get(0).SysTime.IsZero())
	require_Len(t, svc.Connections(), 1)

	// An unknown marker is a protocol violation.
	peer.Write([]byte{beastEscape, 'z'})
	checkConnections(t, svc, 0)
	checkClosedReason(t, s, ProtocolViolation)
}

func TestBeastInputModeAC(t *testing.T) {
	mc := &msgCollector{}
	opts := testOptions()
	opts.ModeAC = true
	s := newTestServer(t, opts, mc, nil)
	_, peer := pipeClient(t, s, s.Service("beast_in"))

	peer.Write(appendBeast(nil, &Message{Timestamp: 8}, testModeAC))
	mc.waitFor(t, 1)
	require_Equal(t, mc.get(0).Source, SourceModeAC)
}

func TestBeastSettings(t *testing.T) {
	s := newTestServer(t, testOptions(), nil, nil)
	require_Equal(t, s.beastSettings(), "Cj")
	s.modeacAuto.Store(true)
	require_Equal(t, s.beastSettings(), "CJ")

	c, peer := pipeClient(t, s, s.Service("beast_in"))
	require_NoError(t, sendBeastSettings(c, "Cj"))
	got := readBytes(t, peer, 6)
	require_True(t, bytes.Equal(got, []byte{beastEscape, '1', 'C', beastEscape, '1', 'j'}))
}
