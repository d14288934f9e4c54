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

import "time"

// MessageSource identifies where a message came from.
type MessageSource int

const (
	SourceModeS MessageSource = iota
	SourceModeAC
	SourceMLAT
)

// MLAT results are tagged with this magic 48 bit timestamp on Beast links.
const MAGIC_MLAT_TIMESTAMP = 0xFF004D4C4154

// FieldMask flags the decoded fields of a Message that are valid.
type FieldMask uint32

const (
	FieldCallsign FieldMask = 1 << iota
	FieldAltitude
	FieldGroundSpeed
	FieldTrack
	FieldPosition
	FieldVertRate
	FieldSquawk
	FieldAlert
	FieldSPI
	FieldAirGround
)

// AirGround state of an aircraft.
type AirGround int

const (
	AirGroundUnknown AirGround = iota
	AirGroundGround
	AirGroundAirborne
)

// Message is one decoded (or to be decoded) Mode S or Mode A/C message.
// Only the framing fields are used on the read path, the rest is filled in
// by the decoder and consumed by the SBS encoder.
type Message struct {
	// Data is the possibly CRC corrected message, Verbatim the bytes as
	// received. Verbatim may be nil when no correction took place.
	Data     []byte
	Verbatim []byte

	// 12MHz receiver clock, 0 when unknown.
	Timestamp uint64
	// Signal level as transmitted on a Beast link.
	Signal  byte
	SysTime time.Time
	Source  MessageSource

	CorrectedBits int
	// Set when the message arrived from a network peer.
	Remote bool

	DF     int
	METype int
	Addr   uint32

	Valid       FieldMask
	Callsign    string
	Altitude    int
	GroundSpeed float64
	Track       float64
	Lat         float64
	Lon         float64
	VertRate    int
	Squawk      uint16
	Alert       bool
	SPI         bool
	AirGround   AirGround
}

// IsModeAC reports whether the message is a 2 byte Mode A/C reply.
func (m *Message) IsModeAC() bool {
	return len(m.Data) == MODEAC_MSG_BYTES
}

func (m *Message) has(f FieldMask) bool {
	return m.Valid&f != 0
}

// outputData returns the bytes to forward, honoring verbatim mode.
func (m *Message) outputData(verbatim bool) []byte {
	if verbatim && m.Verbatim != nil {
		return m.Verbatim
	}
	return m.Data
}

// Aircraft is the per aircraft context handed along with a message. A nil
// Aircraft means the message could not be attributed to a tracked aircraft.
type Aircraft struct {
	Addr     uint32
	Seen     time.Time
	Messages uint64
}

// Decoder receives every message parsed from an input client.
type Decoder interface {
	HandleMessage(m *Message)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(m *Message)

// HandleMessage calls f(m).
func (f DecoderFunc) HandleMessage(m *Message) { f(m) }

const (
	MODEAC_MSG_BYTES      = 2
	MODES_SHORT_MSG_BYTES = 7
	MODES_LONG_MSG_BYTES  = 14
)
