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
	"io"
)

// AddSerialClient attaches a Beast device (usually from OpenSerial) as a
// client of the serial input service. Serial clients are never evicted for
// being idle.
func (s *Server) AddSerialClient(rwc io.ReadWriteCloser) error {
	s.mu.Lock()
	svc := s.serialSvc
	if svc == nil {
		svc = s.newService(beastInProto{}, true)
		s.serialSvc = svc
		s.services = append(s.services, svc)
	}
	s.mu.Unlock()
	c := s.createSocketClient(svc, rwc, nil)
	if c == nil {
		return ErrServerNotRunning
	}
	c.Noticef("Serial Beast input attached")
	return sendBeastSettings(c, s.beastSettings())
}
