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
	"net"
	"strconv"
	"time"
)

// serviceListen binds every port of portSpec on bindAddr for svc. Ports that
// fail to bind are logged and skipped. ErrNoListeners is returned when ports
// were requested and none could be bound.
func (s *Server) serviceListen(svc *Service, bindAddr, portSpec string) error {
	ports, err := parsePorts(portSpec)
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		return nil
	}
	if bindAddr == "" {
		bindAddr = DEFAULT_BIND_ADDR
	}

	bound := 0
	for _, port := range ports {
		if port == RANDOM_PORT {
			port = 0
		}
		hp := net.JoinHostPort(bindAddr, strconv.Itoa(port))
		l, err := net.Listen("tcp", hp)
		if err != nil {
			s.Errorf("%s: error listening on %s: %v", svc, hp, err)
			continue
		}
		if !svc.addListener(l) {
			l.Close()
			return ErrServerNotRunning
		}
		s.Noticef("%s: listening on %s", svc, l.Addr())
		bound++
		if !s.startGoRoutine(func() { s.acceptLoop(svc, l) }) {
			l.Close()
			return ErrServerNotRunning
		}
	}
	if bound == 0 {
		return fmt.Errorf("%s %q: %w", svc, portSpec, ErrNoListeners)
	}
	return nil
}

func (s *Server) acceptLoop(svc *Service, l net.Listener) {
	tmpDelay := ACCEPT_MIN_SLEEP
	for {
		conn, err := l.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			if tmpDelay = s.acceptError(svc, err, tmpDelay); tmpDelay < 0 {
				return
			}
			continue
		}
		tmpDelay = ACCEPT_MIN_SLEEP
		if tc, ok := conn.(*net.TCPConn); ok {
			tc.SetNoDelay(true)
		}
		s.createSocketClient(svc, conn, nil)
	}
}

// If given error is a net.Error and is temporary, sleeps for the given
// delay and double it, but cap it to ACCEPT_MAX_SLEEP. The sleep is
// interrupted if the server is shutdown.
// An error message is displayed depending on the type of error.
// Returns the new (or unchanged) delay, or a negative value if the
// server has been or is being shutdown.
func (s *Server) acceptError(svc *Service, err error, tmpDelay time.Duration) time.Duration {
	if !s.isRunning() {
		return -1
	}
	//lint:ignore SA1019 We want to retry on a bunch of errors here.
	if ne, ok := err.(net.Error); ok && ne.Temporary() { // nolint:staticcheck
		s.Errorf("%s: temporary accept error (%v), sleeping %dms", svc, ne, tmpDelay/time.Millisecond)
		select {
		case <-time.After(tmpDelay):
		case <-s.quitCh:
			return -1
		}
		tmpDelay *= 2
		if tmpDelay > ACCEPT_MAX_SLEEP {
			tmpDelay = ACCEPT_MAX_SLEEP
		}
	} else {
		s.Errorf("%s: accept error: %v", svc, err)
		select {
		case <-time.After(ACCEPT_MAX_SLEEP):
		case <-s.quitCh:
			return -1
		}
	}
	return tmpDelay
}
