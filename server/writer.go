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
	"sync"
	"time"
)

// flushSink receives a copy of every non empty writer flush.
type flushSink interface {
	publish(svc *Service, b []byte)
}

// Writer is the shared broadcast buffer of an output service.
type Writer struct {
	mu        sync.Mutex
	svc       *Service
	buf       []byte
	hb        []byte
	lastWrite time.Time
	flushSize int
	sink      flushSink
}

func (s *Server) newWriter(svc *Service, hb []byte) *Writer {
	opts := s.getOpts()
	return &Writer{
		svc:       svc,
		buf:       make([]byte, 0, opts.OutputBufSize),
		hb:        hb,
		lastWrite: s.now(),
		flushSize: opts.FlushSize,
	}
}

// Pending returns the number of bytes waiting for the next flush.
func (w *Writer) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.buf)
}

// write appends b, flushing first whenever the buffer would overflow.
// Payloads larger than the buffer go out in buffer sized pieces.
func (w *Writer) write(b []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writeLocked(b)
}

// Lock should be held.
func (w *Writer) writeLocked(b []byte) {
	for len(b) > 0 {
		room := cap(w.buf) - len(w.buf)
		if room == 0 || (len(b) > room && len(w.buf) > 0) {
			w.flushLocked()
			continue
		}
		n := len(b)
		if n > room {
			n = room
		}
		w.buf = append(w.buf, b[:n]...)
		b = b[n:]
	}
	if len(w.buf) >= w.flushSize {
		w.flushLocked()
	}
}

// flush sends whatever is pending to every client.
func (w *Writer) flush() {
	w.mu.Lock()
	w.flushLocked()
	w.mu.Unlock()
}

// flushLocked copies the buffer into every client's send queue and clears
// it. Clients that cannot take the copy are closed once the service lock
// is released. Lock should be held.
func (w *Writer) flushLocked() {
	if len(w.buf) == 0 {
		return
	}
	s := w.svc.srv
	var drop []*client

	w.svc.mu.Lock()
	for _, c := range w.svc.clients {
		if err := c.queueOutbound(w.buf); err == ErrSendQueueExceeded {
			drop = append(drop, c)
		}
	}
	w.svc.mu.Unlock()

	for _, c := range drop {
		s.RateLimitWarnf("%s - Slow Consumer Detected: %d bytes pending", c, c.pending())
		c.closeConnection(SlowConsumerPendingBytes)
	}
	if w.sink != nil {
		w.sink.publish(w.svc, w.buf)
	}
	s.metrics.bytesOut.WithLabelValues(w.svc.key).Add(float64(len(w.buf)))
	s.metrics.flushes.WithLabelValues(w.svc.key).Inc()

	w.buf = w.buf[:0]
	w.lastWrite = s.now()
}

// active reports whether anything would receive output of this writer.
func (w *Writer) active() bool {
	return w.sink != nil || w.svc.hasClients()
}

// periodic flushes data older than flushInterval and queues a heartbeat
// when there were no writes for hbInterval. A zero hbInterval disables
// heartbeats.
func (w *Writer) periodic(now time.Time, flushInterval, hbInterval time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()

	idle := now.Sub(w.lastWrite)
	if len(w.buf) > 0 {
		if idle >= flushInterval {
			w.flushLocked()
		}
		return
	}
	if hbInterval <= 0 || w.hb == nil || idle < hbInterval {
		return
	}
	if !w.svc.hasClients() {
		return
	}
	w.buf = append(w.buf, w.hb...)
	w.flushLocked()
	w.svc.srv.metrics.heartbeats.WithLabelValues(w.svc.key).Inc()
}
