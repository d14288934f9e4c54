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
	"sort"
	"time"
)

// ConnInfos represents a connection info list. We use pointers since it will be sorted.
type ConnInfos []*ConnInfo

// SortOpt is a helper type to sort clients
type SortOpt string

// Possible sort options
const (
	ByCid      SortOpt = "cid"        // By connection ID
	ByStart    SortOpt = "start"      // By connection start time, same as CID
	ByService  SortOpt = "service"    // By service key, then CID
	ByPending  SortOpt = "pending"    // By amount of data in bytes waiting to be sent to client
	ByInMsgs   SortOpt = "msgs_from"  // By number of messages received
	ByOutBytes SortOpt = "bytes_to"   // By amount of bytes sent
	ByInBytes  SortOpt = "bytes_from" // By amount of bytes received
	ByLast     SortOpt = "last"       // By the last activity
	ByIdle     SortOpt = "idle"       // By the amount of inactivity
	ByUptime   SortOpt = "uptime"     // By the amount of time connections exist
	ByStop     SortOpt = "stop"       // By the stop time for a closed connection
	ByReason   SortOpt = "reason"     // By the reason for a closed connection
)

// connLess orders two connections. Counters sort largest first, idle time
// most idle first, uptime shortest first.
type connLess func(a, b *ConnInfo, now time.Time) bool

var connSorts = map[SortOpt]connLess{
	ByCid:   func(a, b *ConnInfo, _ time.Time) bool { return a.Cid < b.Cid },
	ByStart: func(a, b *ConnInfo, _ time.Time) bool { return a.Cid < b.Cid },
	ByService: func(a, b *ConnInfo, _ time.Time) bool {
		if a.Service != b.Service {
			return a.Service < b.Service
		}
		return a.Cid < b.Cid
	},
	ByPending:  func(a, b *ConnInfo, _ time.Time) bool { return a.Pending > b.Pending },
	ByInMsgs:   func(a, b *ConnInfo, _ time.Time) bool { return a.InMsgs > b.InMsgs },
	ByOutBytes: func(a, b *ConnInfo, _ time.Time) bool { return a.OutBytes > b.OutBytes },
	ByInBytes:  func(a, b *ConnInfo, _ time.Time) bool { return a.InBytes > b.InBytes },
	ByLast:     func(a, b *ConnInfo, _ time.Time) bool { return a.LastActivity.After(b.LastActivity) },
	ByIdle:     func(a, b *ConnInfo, _ time.Time) bool { return a.LastActivity.Before(b.LastActivity) },
	ByUptime: func(a, b *ConnInfo, now time.Time) bool {
		return a.uptime(now) < b.uptime(now)
	},
}

// sort orders the list in place, ties keep cid order.
func (cl ConnInfos) sort(by SortOpt, now time.Time) {
	less, ok := connSorts[by]
	if !ok {
		less = connSorts[ByCid]
	}
	sort.SliceStable(cl, func(i, j int) bool { return less(cl[i], cl[j], now) })
}

func (ci *ConnInfo) uptime(now time.Time) time.Duration {
	if ci.Stop == nil || ci.Stop.IsZero() {
		return now.Sub(ci.Start)
	}
	return ci.Stop.Sub(ci.Start)
}

// IsValid determines if a sort option is valid
func (s SortOpt) IsValid() bool {
	if s == "" || s.closedOnly() {
		return true
	}
	_, ok := connSorts[s]
	return ok
}

// closedOnly reports whether the option only applies to closed connections.
func (s SortOpt) closedOnly() bool {
	return s == ByStop || s == ByReason
}
