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
	"crypto/sha256"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/nats-io/nuid"
	"golang.org/x/time/rate"
)

// Info identifies a running server.
type Info struct {
	ID      string `json:"server_id"`
	Version string `json:"version"`
}

// Server is the registry of services, clients and connectors of the
// network layer. All state hangs off it, there are no globals.
type Server struct {
	gcid uint64
	mu   sync.Mutex
	info Info

	optsMu sync.RWMutex
	opts   *Options

	start    time.Time
	running  bool
	shutdown bool

	services   []*Service
	svcs       map[string]*Service
	serialSvc  *Service
	connectors []*Connector
	configErrs []error

	decMu   sync.Mutex
	decoder Decoder

	gens *Generators
	json jsonSchedule

	// Serializes periodic cycles.
	pwMu       sync.Mutex
	modeacAuto atomic.Bool

	metrics      *serverMetrics
	nats         *natsBridge
	http         *http.Server
	httpListener net.Listener
	dataCache    *expirable.LRU[string, *cachedPayload]
	etagKey      []byte

	closedMu sync.Mutex
	closed   *closedRingBuffer

	logging struct {
		sync.RWMutex
		logger Logger
		trace  int32
		debug  int32
	}
	logLimit *rate.Limiter
	dropped  atomic.Uint64

	quitCh    chan struct{}
	grMu      sync.Mutex
	grRunning bool
	grWG      sync.WaitGroup

	// Clock and dialer, replaced in tests.
	now  func() time.Time
	dial func(network, address string, timeout time.Duration) (net.Conn, error)
}

// NewServer creates the services and connectors described by opts. Nothing
// is bound or dialed until Start. dec receives the messages of input
// clients, gens produce the JSON outputs; both may be nil.
func NewServer(opts *Options, dec Decoder, gens *Generators) (*Server, error) {
	opts = opts.Clone()
	setBaselineOptions(opts)
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	s := &Server{
		info:      Info{ID: nuid.Next(), Version: VERSION},
		opts:      opts,
		svcs:      make(map[string]*Service),
		decoder:   dec,
		gens:      gens,
		metrics:   newServerMetrics(),
		closed:    newClosedRingBuffer(DEFAULT_MAX_CLOSED_CLIENTS),
		logLimit:  newLogLimiter(),
		quitCh:    make(chan struct{}),
		grRunning: true,
		now:       time.Now,
		dial:      defaultDial,
	}
	s.start = s.now()

	key := sha256.Sum256([]byte(s.info.ID))
	s.etagKey = key[:]
	s.dataCache = expirable.NewLRU[string, *cachedPayload](dataCacheSize, nil, opts.JSONInterval)

	s.initNet()
	return s, nil
}

// initNet registers one service per protocol and the configured connectors.
// Bad connector specs are kept and reported by Start.
func (s *Server) initNet() {
	for _, p := range []protocol{beastOutProto{}, beastInProto{}, rawOutProto{},
		rawInProto{}, sbsOutProto{}, vrsOutProto{}} {
		s.serviceFor(p)
	}
	for _, spec := range s.getOpts().Connectors {
		if _, err := s.newConnector(spec); err != nil {
			s.configErrs = append(s.configErrs, fmt.Errorf("connector %q: %w", spec, err))
		}
	}
}

func (s *Server) getOpts() *Options {
	s.optsMu.RLock()
	opts := s.opts
	s.optsMu.RUnlock()
	return opts
}

// ID returns the server's unique id.
func (s *Server) ID() string {
	return s.info.ID
}

// serviceFor returns the service of a protocol, creating it if needed.
func (s *Server) serviceFor(p protocol) *Service {
	if svc := s.service(p); svc != nil {
		return svc
	}
	svc := s.serviceInit(p, false)
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing := s.svcs[p.key()]; existing != nil {
		return existing
	}
	s.svcs[p.key()] = svc
	return svc
}

func (s *Server) service(p protocol) *Service {
	return s.Service(p.key())
}

// Service returns the service registered under a protocol key such as
// "beast_out", nil if there is none.
func (s *Server) Service(key string) *Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.svcs[key]
}

// outputWriter returns the writer of an output protocol's service.
func (s *Server) outputWriter(p protocol) *Writer {
	if svc := s.service(p); svc != nil {
		return svc.writer
	}
	return nil
}

// Start binds the listening ports, starts the monitor, the NATS bridge and
// the periodic work loop. Setup faults of individual services or
// connectors are returned joined; the rest of the server keeps running.
func (s *Server) Start() error {
	s.Noticef("Starting readsb network layer version %s", VERSION)
	s.Noticef("Server id is %s", s.info.ID)

	s.mu.Lock()
	if s.shutdown {
		s.mu.Unlock()
		return ErrServerNotRunning
	}
	s.running = true
	s.start = s.now()
	errs := append([]error(nil), s.configErrs...)
	s.mu.Unlock()

	opts := s.getOpts()
	for _, l := range []struct {
		p     protocol
		ports string
	}{
		{beastOutProto{}, opts.BeastOutPorts},
		{beastInProto{}, opts.BeastInPorts},
		{rawOutProto{}, opts.RawOutPorts},
		{rawInProto{}, opts.RawInPorts},
		{sbsOutProto{}, opts.SBSOutPorts},
		{vrsOutProto{}, opts.VRSOutPorts},
	} {
		if err := s.serviceListen(s.service(l.p), opts.BindAddr, l.ports); err != nil {
			s.Errorf("%v", err)
			errs = append(errs, err)
		}
	}
	for _, err := range s.configErrs {
		s.Errorf("%v", err)
	}

	if err := s.StartMonitoring(); err != nil {
		s.Errorf("%v", err)
		errs = append(errs, err)
	}
	if err := s.startNATSBridge(); err != nil {
		s.Errorf("NATS bridge: %v", err)
		errs = append(errs, err)
	}
	if s.gens != nil {
		s.jsonFileError("receiver.json", s.writeJSONToFile("receiver.json", s.gens.Receiver))
	}

	s.handleSignals()
	s.PeriodicWork()
	s.startGoRoutine(func() { s.tickLoop(opts.TickInterval) })
	return errors.Join(errs...)
}

func (s *Server) isRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// startGoRoutine runs f in a goroutine tracked for Shutdown. It returns
// false once the server is shutting down.
func (s *Server) startGoRoutine(f func()) bool {
	s.grMu.Lock()
	defer s.grMu.Unlock()
	if !s.grRunning {
		return false
	}
	s.grWG.Add(1)
	go func() {
		defer s.grWG.Done()
		f()
	}()
	return true
}

// Shutdown closes every listener and client, stops the monitor and the
// NATS bridge and waits for all goroutines to exit.
func (s *Server) Shutdown() {
	s.mu.Lock()
	if s.shutdown {
		s.mu.Unlock()
		return
	}
	s.shutdown = true
	s.running = false
	services := append([]*Service(nil), s.services...)
	nb, hs := s.nats, s.http
	s.mu.Unlock()

	s.grMu.Lock()
	s.grRunning = false
	s.grMu.Unlock()
	close(s.quitCh)

	for _, svc := range services {
		svc.close()
	}
	if hs != nil {
		hs.Close()
	}
	if nb != nil {
		nb.close()
	}
	s.grWG.Wait()
	s.Noticef("Server Exiting..")
}

// WaitForShutdown blocks until Shutdown was called.
func (s *Server) WaitForShutdown() {
	<-s.quitCh
}
