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

// QueueOutput encodes m for every output service that wants it and appends
// it to the service writer. It never blocks on client I/O.
func (s *Server) QueueOutput(m *Message, a *Aircraft) {
	if m == nil {
		return
	}
	opts := s.getOpts()
	mlat := m.Source == SourceMLAT
	good := opts.Verbatim || m.CorrectedBits < 2
	if m.IsModeAC() && !s.modeACEnabled() {
		return
	}
	data := m.outputData(opts.Verbatim)

	var scratch [256]byte

	if w := s.outputWriter(sbsOutProto{}); w != nil && a != nil && !mlat && m.CorrectedBits < 2 && w.active() {
		if b := appendSBS(scratch[:0], m, s.now()); len(b) > 0 {
			w.write(b)
		}
	}
	if w := s.outputWriter(rawOutProto{}); w != nil && !mlat && good && w.active() {
		if b := appendRaw(scratch[:0], m, data, opts.RawTimestamps); len(b) > 0 {
			w.write(b)
		}
	}
	if w := s.outputWriter(beastOutProto{}); w != nil && (!mlat || opts.ForwardMLAT) && good && w.active() {
		if b := appendBeast(scratch[:0], m, data); len(b) > 0 {
			w.write(b)
		}
	}
}

// modeACEnabled reports whether Mode A/C traffic is forwarded, either
// because it was configured or because a Beast output peer asked for it.
func (s *Server) modeACEnabled() bool {
	return s.getOpts().ModeAC || s.modeacAuto.Load()
}

// autosetModeAC turns Mode A/C on while any Beast output client wants it.
func (s *Server) autosetModeAC() {
	if s.getOpts().NoModeACAuto {
		return
	}
	svc := s.service(beastOutProto{})
	if svc == nil {
		return
	}
	want := false
	for _, c := range svc.snapshotClients() {
		c.mu.Lock()
		want = want || (c.modeac && !c.isClosed())
		c.mu.Unlock()
	}
	if s.modeacAuto.Swap(want) == want {
		return
	}
	if want {
		s.Noticef("Mode A/C output enabled by client request")
	} else {
		s.Noticef("Mode A/C output disabled, no client requests it")
	}
}
