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
	"strconv"
	"time"
)

// sbsMessageType maps a message to its BaseStation transmission type, 0 if
// the message has no BaseStation representation.
func sbsMessageType(m *Message) int {
	switch m.DF {
	case 4, 20:
		return 5
	case 5, 21:
		return 6
	case 0, 16:
		return 7
	case 11:
		return 8
	case 17, 18:
		switch {
		case m.METype >= 1 && m.METype <= 4:
			return 1
		case m.METype >= 5 && m.METype <= 8:
			return 2
		case m.METype >= 9 && m.METype <= 18:
			return 3
		case m.METype == 19:
			return 4
		}
	}
	return 0
}

func appendSBSTime(dst []byte, t time.Time) []byte {
	t = t.UTC()
	dst = t.AppendFormat(dst, "2006/01/02,15:04:05.000")
	return append(dst, ',')
}

// sbsFlag appends -1 or 0 when valid, an empty field otherwise.
func sbsFlag(dst []byte, valid, set bool) []byte {
	if valid {
		if set {
			dst = append(dst, "-1"...)
		} else {
			dst = append(dst, '0')
		}
	}
	return dst
}

// appendSBS appends the BaseStation "MSG" line for m. Times are UTC.
func appendSBS(dst []byte, m *Message, now time.Time) []byte {
	typ := sbsMessageType(m)
	if typ == 0 {
		return dst
	}
	dst = append(dst, "MSG,"...)
	dst = strconv.AppendInt(dst, int64(typ), 10)
	dst = append(dst, ",1,1,"...)
	dst = fmt.Appendf(dst, "%06X", m.Addr&0xffffff)
	dst = append(dst, ",1,"...)

	recv := m.SysTime
	if recv.IsZero() {
		recv = now
	}
	dst = appendSBSTime(dst, recv)
	dst = appendSBSTime(dst, now)

	if m.has(FieldCallsign) {
		dst = append(dst, m.Callsign...)
	}
	dst = append(dst, ',')
	if m.has(FieldAltitude) {
		dst = strconv.AppendInt(dst, int64(m.Altitude), 10)
	}
	dst = append(dst, ',')
	if m.has(FieldGroundSpeed) {
		dst = strconv.AppendInt(dst, int64(m.GroundSpeed), 10)
	}
	dst = append(dst, ',')
	if m.has(FieldTrack) {
		dst = strconv.AppendInt(dst, int64(m.Track), 10)
	}
	dst = append(dst, ',')
	if m.has(FieldPosition) {
		dst = strconv.AppendFloat(dst, m.Lat, 'f', 5, 64)
		dst = append(dst, ',')
		dst = strconv.AppendFloat(dst, m.Lon, 'f', 5, 64)
		dst = append(dst, ',')
	} else {
		dst = append(dst, ",,"...)
	}
	if m.has(FieldVertRate) {
		dst = strconv.AppendInt(dst, int64(m.VertRate), 10)
	}
	dst = append(dst, ',')
	if m.has(FieldSquawk) {
		dst = fmt.Appendf(dst, "%04x", m.Squawk)
	}
	dst = append(dst, ',')
	dst = sbsFlag(dst, m.has(FieldAlert), m.Alert)
	dst = append(dst, ',')
	emergency := m.Squawk == 0x7500 || m.Squawk == 0x7600 || m.Squawk == 0x7700
	dst = sbsFlag(dst, m.has(FieldSquawk), emergency)
	dst = append(dst, ',')
	dst = sbsFlag(dst, m.has(FieldSPI), m.SPI)
	dst = append(dst, ',')
	dst = sbsFlag(dst, m.has(FieldAirGround) && m.AirGround != AirGroundUnknown,
		m.AirGround == AirGroundGround)
	return append(dst, '\r', '\n')
}
