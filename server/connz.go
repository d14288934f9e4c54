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
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"
)

// ConnState selects open, closed or all connections in /connz.
type ConnState int

const (
	ConnOpen = ConnState(iota)
	ConnClosed
	ConnAll
)

// Connz represents detail information on current connections.
type Connz struct {
	ID       string          `json:"server_id"`
	Now      time.Time       `json:"now"`
	NumConns int             `json:"num_connections"`
	Total    int             `json:"total"`
	Offset   int             `json:"offset"`
	Limit    int             `json:"limit"`
	Conns    []*ConnInfo     `json:"connections"`
	Closed   []*closedClient `json:"closed_connections,omitempty"`
}

// ConnInfo has detailed information on a per connection basis.
type ConnInfo struct {
	Cid          uint64     `json:"cid"`
	Service      string     `json:"service"`
	Host         string     `json:"host"`
	Outbound     bool       `json:"outbound,omitempty"`
	Start        time.Time  `json:"start"`
	Stop         *time.Time `json:"stop,omitempty"`
	LastActivity time.Time  `json:"last_activity"`
	Idle         string     `json:"idle"`
	Pending      int        `json:"pending_bytes"`
	InMsgs       int64      `json:"in_msgs"`
	InBytes      int64      `json:"in_bytes"`
	OutBytes     int64      `json:"out_bytes"`
	ModeAC       bool       `json:"modeac,omitempty"`
}

func (c *client) connInfo(now time.Time) ConnInfo {
	c.mu.Lock()
	ci := ConnInfo{
		Cid:      c.cid,
		Service:  c.svc.key,
		Host:     c.host,
		Outbound: c.con != nil,
		Start:    c.start,
		Pending:  c.sendqLen,
		ModeAC:   c.modeac,
	}
	c.mu.Unlock()
	ci.LastActivity = c.lastActivity()
	ci.Idle = now.Sub(ci.LastActivity).Round(time.Millisecond).String()
	ci.InMsgs = c.inMsgs.Load()
	ci.InBytes = c.inBytes.Load()
	ci.OutBytes = c.outBytes.Load()
	return ci
}

// ConnzOptions are the options passed to Connz().
type ConnzOptions struct {
	// Sort indicates how the results will be sorted. Check SortOpt for possible values.
	Sort SortOpt `json:"sort"`

	// State selects open, closed or all connections.
	State ConnState `json:"state"`

	// Offset is used for pagination. Connz() only returns connections starting at this
	// offset from the global results.
	Offset int `json:"offset"`

	// Limit is the maximum number of connections that should be returned by Connz().
	Limit int `json:"limit"`
}

// Connz returns open and/or closed connections. Open connections are sorted
// by cid unless opts asks otherwise; closed ones are oldest first.
func (s *Server) Connz(opts *ConnzOptions) (*Connz, error) {
	var o ConnzOptions
	if opts != nil {
		o = *opts
	}
	if !o.Sort.IsValid() {
		return nil, fmt.Errorf("invalid sorting option: %s", o.Sort)
	}
	if o.Sort == "" {
		o.Sort = ByCid
	}
	if o.Sort.closedOnly() && o.State == ConnOpen {
		return nil, fmt.Errorf("sort by %s only valid on closed connections", o.Sort)
	}
	if o.Limit <= 0 {
		o.Limit = DEFAULT_CONNZ_LIMIT
	}
	if o.Offset < 0 {
		o.Offset = 0
	}

	now := s.now()
	cz := &Connz{ID: s.info.ID, Now: now, Offset: o.Offset, Limit: o.Limit, Conns: []*ConnInfo{}}

	if o.State == ConnOpen || o.State == ConnAll {
		s.mu.Lock()
		services := append([]*Service(nil), s.services...)
		s.mu.Unlock()

		var open ConnInfos
		for _, svc := range services {
			for _, c := range svc.snapshotClients() {
				ci := c.connInfo(now)
				open = append(open, &ci)
			}
		}
		sort.SliceStable(open, func(i, j int) bool { return open[i].Cid < open[j].Cid })
		open.sort(o.Sort, now)

		cz.Total = len(open)
		offset := o.Offset
		if offset > len(open) {
			offset = len(open)
		}
		end := offset + o.Limit
		if end > len(open) {
			end = len(open)
		}
		cz.Conns = append(cz.Conns, open[offset:end]...)
		cz.NumConns = len(cz.Conns)
	}
	if o.State == ConnClosed || o.State == ConnAll {
		cz.Closed = s.closedClients()
		if o.Sort == ByReason {
			sort.SliceStable(cz.Closed, func(i, j int) bool {
				return cz.Closed[i].Reason < cz.Closed[j].Reason
			})
		}
	}
	return cz, nil
}

// HandleConnz process HTTP requests for connection information.
func (s *Server) HandleConnz(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := &ConnzOptions{Sort: SortOpt(q.Get("sort"))}
	opts.Offset, _ = strconv.Atoi(q.Get("offset"))
	opts.Limit, _ = strconv.Atoi(q.Get("limit"))
	switch q.Get("state") {
	case "closed":
		opts.State = ConnClosed
	case "all", "any":
		opts.State = ConnAll
	}

	cz, err := s.Connz(opts)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(err.Error()))
		return
	}
	b, err := json.MarshalIndent(cz, "", "  ")
	if err != nil {
		s.Errorf("Error marshaling response to /connz request: %v", err)
	}
	ResponseHandler(w, r, b)
}
