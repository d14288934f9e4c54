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
)

const (
	beastEscape = 0x1a

	beastTypeModeAC     = '1'
	beastTypeModeSShort = '2'
	beastTypeModeSLong  = '3'
	beastTypeStatus     = '4'
	beastTypePosition   = '5'

	// 6 byte timestamp and 1 byte signal level precede the message.
	beastHeaderLen = 7

	beastMaxPayload = beastHeaderLen + MODES_LONG_MSG_BYTES
	// Every payload byte may be escaped.
	beastMaxFrameLen = 2 + 2*beastMaxPayload
)

// beastPayloadLen returns the unescaped payload length for a type marker,
// or -1 for an unknown marker.
func beastPayloadLen(typ byte, command bool) int {
	if command {
		if typ == beastTypeModeAC {
			return 1
		}
		return -1
	}
	switch typ {
	case beastTypeModeAC:
		return beastHeaderLen + MODEAC_MSG_BYTES
	case beastTypeModeSShort:
		return beastHeaderLen + MODES_SHORT_MSG_BYTES
	case beastTypeModeSLong, beastTypeStatus, beastTypePosition:
		return beastHeaderLen + MODES_LONG_MSG_BYTES
	}
	return -1
}

// scanBeast hands every complete frame at the head of buf to fn and returns
// the number of bytes used. Bytes before an escape are skipped. The payload
// passed to fn is only valid for the duration of the call.
func scanBeast(buf []byte, command bool, fn func(typ byte, payload []byte)) (int, error) {
	var scratch [beastMaxPayload]byte

	i := 0
	for {
		for i < len(buf) && buf[i] != beastEscape {
			i++
		}
		start := i
		if len(buf)-start < 2 {
			return start, nil
		}
		typ := buf[start+1]
		plen := beastPayloadLen(typ, command)
		if plen < 0 {
			return start, fmt.Errorf("%w: type 0x%02x", ErrBadBeastFrame, typ)
		}
		j, k := start+2, 0
		for k < plen && j < len(buf) {
			b := buf[j]
			if b == beastEscape {
				if j+1 >= len(buf) {
					break
				}
				j++
				b = buf[j]
			}
			scratch[k] = b
			k++
			j++
		}
		if k < plen {
			return start, nil
		}
		fn(typ, scratch[:plen])
		i = j
	}
}

// beastType returns the type marker for a message of the given length.
func beastType(n int) byte {
	switch n {
	case MODEAC_MSG_BYTES:
		return beastTypeModeAC
	case MODES_SHORT_MSG_BYTES:
		return beastTypeModeSShort
	case MODES_LONG_MSG_BYTES:
		return beastTypeModeSLong
	}
	return 0
}

func appendBeastByte(dst []byte, b byte) []byte {
	if b == beastEscape {
		return append(dst, beastEscape, beastEscape)
	}
	return append(dst, b)
}

// appendBeast appends the Beast frame for data. MLAT results carry the
// magic timestamp.
func appendBeast(dst []byte, m *Message, data []byte) []byte {
	typ := beastType(len(data))
	if typ == 0 {
		return dst
	}
	ts := m.Timestamp
	if m.Source == SourceMLAT {
		ts = MAGIC_MLAT_TIMESTAMP
	}
	dst = append(dst, beastEscape, typ)
	for shift := 40; shift >= 0; shift -= 8 {
		dst = appendBeastByte(dst, byte(ts>>shift))
	}
	dst = appendBeastByte(dst, m.Signal)
	for _, b := range data {
		dst = appendBeastByte(dst, b)
	}
	return dst
}

// decodeBeastPayload builds a message from an unescaped frame payload.
func decodeBeastPayload(typ byte, payload []byte) *Message {
	var ts uint64
	for _, b := range payload[:6] {
		ts = ts<<8 | uint64(b)
	}
	m := &Message{
		Timestamp: ts,
		Signal:    payload[6],
		Data:      append([]byte(nil), payload[beastHeaderLen:]...),
		Remote:    true,
		Source:    SourceModeS,
	}
	if typ == beastTypeModeAC {
		m.Source = SourceModeAC
	}
	if ts == MAGIC_MLAT_TIMESTAMP {
		m.Source = SourceMLAT
	}
	return m
}

// isBeastHeartbeat reports a Mode A/C frame with an all zero payload.
func isBeastHeartbeat(typ byte, payload []byte) bool {
	if typ != beastTypeModeAC {
		return false
	}
	for _, b := range payload {
		if b != 0 {
			return false
		}
	}
	return true
}

// handleBeastFrame is the Beast input read handler.
func (c *client) handleBeastFrame(typ byte, payload []byte) {
	if typ == beastTypeStatus || typ == beastTypePosition || isBeastHeartbeat(typ, payload) {
		return
	}
	m := decodeBeastPayload(typ, payload)
	if m.Source == SourceModeAC && !c.srv.modeACEnabled() {
		return
	}
	c.deliver(m)
}

// handleBeastCommand is the Beast output read handler. Peers use it to ask
// for Mode A/C traffic.
func (c *client) handleBeastCommand(_ byte, payload []byte) {
	switch payload[0] {
	case 'J':
		c.mu.Lock()
		c.modeac = true
		c.mu.Unlock()
	case 'j':
		c.mu.Lock()
		c.modeac = false
		c.mu.Unlock()
	default:
		c.Tracef("Ignoring beast setting %q", payload[0])
		return
	}
	c.srv.autosetModeAC()
}

// sendBeastSettings queues one setting frame per character to the peer.
func sendBeastSettings(c *client, settings string) error {
	if settings == "" {
		return nil
	}
	b := make([]byte, 0, 3*len(settings))
	for i := 0; i < len(settings); i++ {
		b = append(b, beastEscape, beastTypeModeAC, settings[i])
	}
	return c.queueOutbound(b)
}
