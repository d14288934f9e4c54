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
	"fmt"
)

// ReadMode is the framing discipline used to parse a client's inbound stream.
type ReadMode int

const (
	// ReadIgnore discards whatever the peer sends.
	ReadIgnore ReadMode = iota
	// ReadBeast parses Beast binary frames as messages.
	ReadBeast
	// ReadBeastCommand parses Beast binary frames as receiver settings.
	ReadBeastCommand
	// ReadASCII parses separator delimited hex lines.
	ReadASCII
)

func (m ReadMode) String() string {
	switch m {
	case ReadIgnore:
		return "ignore"
	case ReadBeast:
		return "beast"
	case ReadBeastCommand:
		return "beast-command"
	case ReadASCII:
		return "ascii"
	}
	return fmt.Sprintf("ReadMode(%d)", int(m))
}

// protocol is the closed set of wire protocols a service can speak.
type protocol interface {
	// Descriptor used in logs and monitoring.
	String() string
	// Short name used for connector specs, metric labels and subjects.
	key() string
	readMode() ReadMode
	separator() []byte
	// Keepalive frame, nil if the protocol has none.
	heartbeat() []byte
	output() bool
	// consume parses the complete frames at the head of buf and returns the
	// number of bytes used. Remaining bytes are kept for the next read.
	consume(c *client, buf []byte) (int, error)
}

var (
	beastHeartbeat = []byte{beastEscape, '1', 0, 0, 0, 0, 0, 0, 0, 0, 0}
	rawHeartbeat   = []byte("*0000;\n")
	sbsHeartbeat   = []byte("\r\n")
)

type beastOutProto struct{}

func (beastOutProto) String() string     { return "Beast TCP output" }
func (beastOutProto) key() string        { return "beast_out" }
func (beastOutProto) readMode() ReadMode { return ReadBeastCommand }
func (beastOutProto) separator() []byte  { return nil }
func (beastOutProto) heartbeat() []byte  { return beastHeartbeat }
func (beastOutProto) output() bool       { return true }
func (beastOutProto) consume(c *client, buf []byte) (int, error) {
	return scanBeast(buf, true, c.handleBeastCommand)
}

type beastInProto struct{}

func (beastInProto) String() string     { return "Beast TCP input" }
func (beastInProto) key() string        { return "beast_in" }
func (beastInProto) readMode() ReadMode { return ReadBeast }
func (beastInProto) separator() []byte  { return nil }
func (beastInProto) heartbeat() []byte  { return nil }
func (beastInProto) output() bool       { return false }
func (beastInProto) consume(c *client, buf []byte) (int, error) {
	return scanBeast(buf, false, c.handleBeastFrame)
}

type rawOutProto struct{}

func (rawOutProto) String() string     { return "Raw TCP output" }
func (rawOutProto) key() string        { return "raw_out" }
func (rawOutProto) readMode() ReadMode { return ReadIgnore }
func (rawOutProto) separator() []byte  { return nil }
func (rawOutProto) heartbeat() []byte  { return rawHeartbeat }
func (rawOutProto) output() bool       { return true }
func (rawOutProto) consume(_ *client, buf []byte) (int, error) {
	return len(buf), nil
}

type rawInProto struct{}

func (rawInProto) String() string     { return "Raw TCP input" }
func (rawInProto) key() string        { return "raw_in" }
func (rawInProto) readMode() ReadMode { return ReadASCII }
func (rawInProto) separator() []byte  { return []byte("\n") }
func (rawInProto) heartbeat() []byte  { return nil }
func (rawInProto) output() bool       { return false }
func (p rawInProto) consume(c *client, buf []byte) (int, error) {
	return scanLines(buf, p.separator(), c.handleHexLine), nil
}

type sbsOutProto struct{}

func (sbsOutProto) String() string     { return "Basestation TCP output" }
func (sbsOutProto) key() string        { return "sbs_out" }
func (sbsOutProto) readMode() ReadMode { return ReadIgnore }
func (sbsOutProto) separator() []byte  { return nil }
func (sbsOutProto) heartbeat() []byte  { return sbsHeartbeat }
func (sbsOutProto) output() bool       { return true }
func (sbsOutProto) consume(_ *client, buf []byte) (int, error) {
	return len(buf), nil
}

type vrsOutProto struct{}

func (vrsOutProto) String() string     { return "VRS json output" }
func (vrsOutProto) key() string        { return "vrs_out" }
func (vrsOutProto) readMode() ReadMode { return ReadIgnore }
func (vrsOutProto) separator() []byte  { return nil }
func (vrsOutProto) heartbeat() []byte  { return nil }
func (vrsOutProto) output() bool       { return true }
func (vrsOutProto) consume(_ *client, buf []byte) (int, error) {
	return len(buf), nil
}

// protocolByKey resolves the protocol part of a connector spec.
func protocolByKey(key string) (protocol, error) {
	switch key {
	case "beast_out":
		return beastOutProto{}, nil
	case "beast_in":
		return beastInProto{}, nil
	case "raw_out":
		return rawOutProto{}, nil
	case "raw_in":
		return rawInProto{}, nil
	case "sbs_out":
		return sbsOutProto{}, nil
	case "vrs_out":
		return vrsOutProto{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProtocol, key)
}

// scanLines hands every separator terminated line at the head of buf to fn
// and returns the number of bytes used.
func scanLines(buf, sep []byte, fn func(line []byte)) int {
	used := 0
	for {
		i := bytes.Index(buf[used:], sep)
		if i < 0 {
			return used
		}
		fn(buf[used : used+i])
		used += i + len(sep)
	}
}
