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
	"encoding/hex"
)

const hexDigits = "0123456789ABCDEF"

func appendHexByte(dst []byte, b byte) []byte {
	return append(dst, hexDigits[b>>4], hexDigits[b&0x0f])
}

// appendRaw appends the AVR format line for data, prefixed with the 48 bit
// timestamp when raw timestamps are enabled and known.
func appendRaw(dst []byte, m *Message, data []byte, timestamps bool) []byte {
	if len(data) == 0 {
		return dst
	}
	if timestamps && m.Timestamp != 0 {
		dst = append(dst, '@')
		for shift := 40; shift >= 0; shift -= 8 {
			dst = appendHexByte(dst, byte(m.Timestamp>>shift))
		}
	} else {
		dst = append(dst, '*')
	}
	for _, b := range data {
		dst = appendHexByte(dst, b)
	}
	return append(dst, ';', '\n')
}

// decodeHexLine parses one raw input line. Accepted forms are
//
//	*<msg>;  :<msg>;  @<ts><msg>;  %<ts><msg>;  <<ts><sig><msg>;
//
// with a 12 digit timestamp and a 2 digit signal level. It returns nil for
// lines that do not parse.
func decodeHexLine(line []byte) *Message {
	line = bytes.TrimSpace(line)
	if len(line) < 2 || line[len(line)-1] != ';' {
		return nil
	}
	body := line[1 : len(line)-1]

	var tsDigits, sigDigits int
	switch line[0] {
	case '*', ':':
	case '@', '%':
		tsDigits = 12
	case '<':
		tsDigits, sigDigits = 12, 2
	default:
		return nil
	}
	if len(body) < tsDigits+sigDigits {
		return nil
	}

	m := &Message{Remote: true, Source: SourceModeS}
	if tsDigits > 0 {
		var ts [6]byte
		if _, err := hex.Decode(ts[:], body[:tsDigits]); err != nil {
			return nil
		}
		for _, b := range ts {
			m.Timestamp = m.Timestamp<<8 | uint64(b)
		}
		body = body[tsDigits:]
	}
	if sigDigits > 0 {
		var sig [1]byte
		if _, err := hex.Decode(sig[:], body[:sigDigits]); err != nil {
			return nil
		}
		m.Signal = sig[0]
		body = body[sigDigits:]
	}
	switch len(body) {
	case 2 * MODEAC_MSG_BYTES:
		m.Source = SourceModeAC
	case 2 * MODES_SHORT_MSG_BYTES, 2 * MODES_LONG_MSG_BYTES:
	default:
		return nil
	}
	m.Data = make([]byte, len(body)/2)
	if _, err := hex.Decode(m.Data, body); err != nil {
		return nil
	}
	if m.Timestamp == MAGIC_MLAT_TIMESTAMP {
		m.Source = SourceMLAT
	}
	return m
}

// handleHexLine is the raw input read handler.
func (c *client) handleHexLine(line []byte) {
	if len(bytes.TrimSpace(line)) == 0 {
		return
	}
	m := decodeHexLine(line)
	if m == nil {
		c.srv.badLine(c, line)
		return
	}
	if m.Source == SourceModeAC && !c.srv.modeACEnabled() {
		return
	}
	c.deliver(m)
}
