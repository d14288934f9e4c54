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

package main

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/TanerH/readsb-adsbx/server"
)

// Aircraft not heard from for this long are forgotten.
const relayAircraftTTL = 5 * time.Minute

// relay hands every message received from an input peer straight back to
// the output services, so the process acts as a feed hub.
type relay struct {
	srv *server.Server

	history int
	refresh time.Duration
	now     func() time.Time

	mu        sync.Mutex
	messages  uint64
	seen      map[uint32]*server.Aircraft
	lastPrune time.Time
}

// newRelay creates a relay. Zero history or refresh select the server
// defaults.
func newRelay(history int, refresh time.Duration) *relay {
	if history <= 0 {
		history = server.DEFAULT_HISTORY_SIZE
	}
	if refresh <= 0 {
		refresh = server.DEFAULT_JSON_INTERVAL
	}
	return &relay{
		history: history,
		refresh: refresh,
		now:     time.Now,
		seen:    make(map[uint32]*server.Aircraft),
	}
}

func (r *relay) HandleMessage(m *server.Message) {
	var a *server.Aircraft
	if !m.IsModeAC() && len(m.Data) >= 4 {
		m.DF = int(m.Data[0] >> 3)
		if m.DF == 11 || m.DF == 17 || m.DF == 18 {
			m.Addr = uint32(m.Data[1])<<16 | uint32(m.Data[2])<<8 | uint32(m.Data[3])
			if m.DF != 11 && len(m.Data) >= 5 {
				m.METype = int(m.Data[4] >> 3)
			}
		}
	}

	r.mu.Lock()
	r.messages++
	if m.Addr != 0 {
		a = r.seen[m.Addr]
		if a == nil {
			a = &server.Aircraft{Addr: m.Addr}
			r.seen[m.Addr] = a
		}
		a.Seen = m.SysTime
		a.Messages++
	}
	// Sweep here too so the table stays bounded without JSON consumers.
	if now := r.now(); now.Sub(r.lastPrune) >= time.Minute {
		r.pruneLocked(now)
	}
	r.mu.Unlock()

	if r.srv != nil {
		r.srv.QueueOutput(m, a)
	}
}

// pruneLocked drops stale aircraft. Lock should be held.
func (r *relay) pruneLocked(now time.Time) {
	for addr, a := range r.seen {
		if now.Sub(a.Seen) > relayAircraftTTL {
			delete(r.seen, addr)
		}
	}
	r.lastPrune = now
}

func (r *relay) tracked() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}

func (r *relay) generators() *server.Generators {
	return &server.Generators{
		Aircraft: server.GeneratorFunc(r.aircraftJSON),
		Stats:    server.GeneratorFunc(r.statsJSON),
		Receiver: server.GeneratorFunc(r.receiverJSON),
		History:  server.GeneratorFunc(r.aircraftJSON),
	}
}

func (r *relay) aircraftJSON(_ string) ([]byte, error) {
	type entry struct {
		Hex      string  `json:"hex"`
		Messages uint64  `json:"messages"`
		Seen     float64 `json:"seen"`
	}
	now := r.now()
	r.mu.Lock()
	r.pruneLocked(now)
	list := make([]entry, 0, len(r.seen))
	for addr, a := range r.seen {
		list = append(list, entry{
			Hex:      fmt.Sprintf("%06x", addr),
			Messages: a.Messages,
			Seen:     now.Sub(a.Seen).Seconds(),
		})
	}
	total := r.messages
	r.mu.Unlock()

	return json.Marshal(struct {
		Now      float64 `json:"now"`
		Messages uint64  `json:"messages"`
		Aircraft []entry `json:"aircraft"`
	}{float64(now.UnixMilli()) / 1000, total, list})
}

func (r *relay) statsJSON(_ string) ([]byte, error) {
	if r.srv == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r.srv.Varz())
}

func (r *relay) receiverJSON(_ string) ([]byte, error) {
	return json.Marshal(struct {
		Version string  `json:"version"`
		Refresh float64 `json:"refresh"`
		History int     `json:"history"`
	}{server.VERSION, float64(r.refresh.Milliseconds()), r.history})
}
