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
	"time"
)

const (
	// VERSION is the current version for the network layer.
	VERSION = "3.14.1600"

	DEFAULT_BIND_ADDR = "0.0.0.0"

	// Default listen ports per protocol. "0" disables a protocol.
	DEFAULT_RAW_IN_PORTS    = "30001"
	DEFAULT_RAW_OUT_PORTS   = "30002"
	DEFAULT_SBS_OUT_PORTS   = "30003"
	DEFAULT_BEAST_IN_PORTS  = "30004,30104"
	DEFAULT_BEAST_OUT_PORTS = "30005"
	DEFAULT_VRS_OUT_PORTS   = "0"

	// RANDOM_PORT in a port list binds an ephemeral port.
	RANDOM_PORT = -1

	// Shared writer buffer per output service.
	DEFAULT_OUTPUT_BUF_SIZE = 16 * 1024

	// Per client receive buffer. An ASCII line must fit in it.
	DEFAULT_CLIENT_BUF_SIZE = 1024

	// Per client send queue is SENDQ_BASE_SIZE << buffer shift.
	SENDQ_BASE_SIZE        = 64 * 1024
	DEFAULT_BUFFER_SHIFT   = 2
	MAX_BUFFER_SHIFT       = 7
	DEFAULT_HEARTBEAT      = 60 * time.Second
	DEFAULT_RECONNECT      = 30 * time.Second
	DEFAULT_CONNECT_WAIT   = 5 * time.Second
	DEFAULT_WRITE_DEADLINE = 2 * time.Second
	DEFAULT_TICK_INTERVAL  = 100 * time.Millisecond

	// JSON output schedule.
	DEFAULT_JSON_INTERVAL    = time.Second
	DEFAULT_STATS_INTERVAL   = 60 * time.Second
	DEFAULT_HISTORY_INTERVAL = 30 * time.Second
	DEFAULT_HISTORY_SIZE     = 120
	DEFAULT_VRS_INTERVAL     = 5 * time.Second

	DEFAULT_HTTP_HOST    = "0.0.0.0"
	DEFAULT_NATS_SUBJECT = "readsb"

	DEFAULT_SERIAL_BAUD = 3000000

	// Accept backoff on temporary errors.
	ACCEPT_MIN_SLEEP = 10 * time.Millisecond
	ACCEPT_MAX_SLEEP = time.Second

	// Number of recently closed clients kept for /connz.
	DEFAULT_MAX_CLOSED_CLIENTS = 64

	// Connections returned by /connz when no limit is given.
	DEFAULT_CONNZ_LIMIT = 1024
)
