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

import "errors"

var (
	// ErrConnectionClosed represents an error condition on a closed connection.
	ErrConnectionClosed = errors.New("connection closed")

	// ErrBadPortSpec is returned for a port list that does not parse.
	ErrBadPortSpec = errors.New("invalid port specification")

	// ErrBadConnectorSpec is returned for a connector that is not address:port:protocol.
	ErrBadConnectorSpec = errors.New("invalid connector specification")

	// ErrUnknownProtocol is returned for a connector protocol we do not serve.
	ErrUnknownProtocol = errors.New("unknown protocol")

	// ErrNoListeners is returned when none of the ports of a service could be bound.
	ErrNoListeners = errors.New("no listening ports could be bound")

	// ErrBadBeastFrame represents an unrecognized Beast type marker.
	ErrBadBeastFrame = errors.New("bad beast frame")

	// ErrFrameTooLong represents a receive buffer filled without a complete frame.
	ErrFrameTooLong = errors.New("frame too long")

	// ErrSendQueueExceeded represents a client that did not drain its send queue.
	ErrSendQueueExceeded = errors.New("send queue exceeded")

	// ErrSerialUnsupported is returned by OpenSerial on platforms without termios support.
	ErrSerialUnsupported = errors.New("serial devices are not supported on this platform")

	// ErrServerNotRunning is returned when an operation needs a started server.
	ErrServerNotRunning = errors.New("server is not running")
)
