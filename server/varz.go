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
	"encoding/json"
	"net/http"
	"runtime"
	"time"
)

// Varz will output server information on the monitoring port at /varz.
type Varz struct {
	ID          string          `json:"server_id"`
	Version     string          `json:"version"`
	Start       time.Time       `json:"start"`
	Now         time.Time       `json:"now"`
	Uptime      string          `json:"uptime"`
	Options     *Options        `json:"options"`
	Cores       int             `json:"cores"`
	MaxProcs    int             `json:"gomaxprocs"`
	Mem         uint64          `json:"mem"`
	Connections int             `json:"connections"`
	TotalConns  uint64          `json:"total_connections"`
	InMsgs      int64           `json:"in_msgs"`
	InBytes     int64           `json:"in_bytes"`
	OutBytes    int64           `json:"out_bytes"`
	ModeAC      bool            `json:"modeac"`
	Services    []ServiceInfo   `json:"services"`
	Connectors  []ConnectorInfo `json:"connectors,omitempty"`
}

// ServiceInfo describes one service in /varz.
type ServiceInfo struct {
	Name        string   `json:"name"`
	Protocol    string   `json:"protocol"`
	ReadMode    string   `json:"read_mode"`
	Serial      bool     `json:"serial,omitempty"`
	Listen      []string `json:"listen,omitempty"`
	Pushers     int      `json:"pushers"`
	Connections int      `json:"connections"`
	Pending     int      `json:"writer_pending"`
}

// Varz returns a snapshot of the server state.
func (s *Server) Varz() *Varz {
	now := s.now()
	s.mu.Lock()
	services := append([]*Service(nil), s.services...)
	connectors := append([]*Connector(nil), s.connectors...)
	start := s.start
	s.mu.Unlock()

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	v := &Varz{
		ID:       s.info.ID,
		Version:  VERSION,
		Start:    start,
		Now:      now,
		Uptime:   now.Sub(start).Round(time.Second).String(),
		Options:  s.getOpts(),
		Cores:    runtime.NumCPU(),
		MaxProcs: runtime.GOMAXPROCS(0),
		Mem:      ms.Sys,
		ModeAC:   s.modeACEnabled(),
	}
	for _, svc := range services {
		si := ServiceInfo{
			Name:     svc.descr,
			Protocol: svc.key,
			ReadMode: svc.readMode.String(),
			Serial:   svc.serial,
		}
		for _, addr := range svc.ListenAddrs() {
			si.Listen = append(si.Listen, addr.String())
		}
		si.Pushers = svc.PusherCount()
		if svc.writer != nil {
			si.Pending = svc.writer.Pending()
		}
		for _, c := range svc.snapshotClients() {
			si.Connections++
			v.InMsgs += c.inMsgs.Load()
			v.InBytes += c.inBytes.Load()
			v.OutBytes += c.outBytes.Load()
		}
		v.Connections += si.Connections
		v.Services = append(v.Services, si)
	}
	for _, con := range connectors {
		v.Connectors = append(v.Connectors, con.info())
	}
	v.TotalConns = s.totalClosedConns() + uint64(v.Connections)
	return v
}

// HandleVarz will process HTTP requests for server information.
func (s *Server) HandleVarz(w http.ResponseWriter, r *http.Request) {
	b, err := json.MarshalIndent(s.Varz(), "", "  ")
	if err != nil {
		s.Errorf("Error marshaling response to /varz request: %v", err)
	}
	ResponseHandler(w, r, b)
}
