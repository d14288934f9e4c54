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
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/minio/highwayhash"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTP endpoints
const (
	RootPath    = "/"
	VarzPath    = "/varz"
	ConnzPath   = "/connz"
	MetricsPath = "/metrics"
	DataPath    = "/data/"
)

// Number of generated payloads kept per encoding.
const dataCacheSize = 16

// cachedPayload is a generated JSON document ready to be served.
type cachedPayload struct {
	data     []byte
	etag     string
	encoding string
}

// StartMonitoring starts the HTTP monitor when an HTTP port is configured.
func (s *Server) StartMonitoring() error {
	opts := s.getOpts()
	if opts.HTTPPort == 0 {
		return nil
	}
	port := opts.HTTPPort
	if port == RANDOM_PORT {
		port = 0
	}
	hp := net.JoinHostPort(opts.HTTPHost, strconv.Itoa(port))
	l, err := net.Listen("tcp", hp)
	if err != nil {
		return fmt.Errorf("can't listen to the monitor port: %v", err)
	}
	s.Noticef("Starting http monitor on %s", l.Addr())

	mux := http.NewServeMux()
	mux.HandleFunc(RootPath, s.HandleRoot)
	mux.HandleFunc(VarzPath, s.HandleVarz)
	mux.HandleFunc(ConnzPath, s.HandleConnz)
	mux.HandleFunc(DataPath, s.HandleData)
	mux.Handle(MetricsPath, promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 2 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
	s.mu.Lock()
	s.http = srv
	s.httpListener = l
	s.mu.Unlock()

	s.startGoRoutine(func() {
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Errorf("http monitor: %v", err)
		}
	})
	return nil
}

// MonitorAddr returns the address of the HTTP monitor, nil when disabled.
func (s *Server) MonitorAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.httpListener == nil {
		return nil
	}
	return s.httpListener.Addr()
}

// HandleRoot lists the available endpoints.
func (s *Server) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != RootPath {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, rootHTML)
}

// dataGenerator maps a /data path to its generator.
func (s *Server) dataGenerator(path string) Generator {
	if s.gens == nil {
		return nil
	}
	switch strings.TrimPrefix(path, DataPath) {
	case "aircraft.json":
		return s.gens.Aircraft
	case "stats.json":
		return s.gens.Stats
	case "receiver.json":
		return s.gens.Receiver
	}
	return nil
}

// etag returns a strong entity tag for data.
func (s *Server) etag(data []byte) string {
	return fmt.Sprintf("\"%016x\"", highwayhash.Sum64(data, s.etagKey))
}

// dataPayload returns the payload for path, generating it when the cached
// copy is missing or expired.
func (s *Server) dataPayload(path, encoding string, gen Generator) (*cachedPayload, error) {
	ck := path + "|" + encoding
	if p, ok := s.dataCache.Get(ck); ok {
		return p, nil
	}
	data, err := gen.Generate(path)
	if err != nil {
		return nil, err
	}
	p := &cachedPayload{etag: s.etag(data), encoding: encoding}
	if p.data, err = compressPayload(encoding, data); err != nil {
		return nil, err
	}
	s.dataCache.Add(ck, p)
	return p, nil
}

// HandleData serves the generated JSON documents under /data/.
func (s *Server) HandleData(w http.ResponseWriter, r *http.Request) {
	gen := s.dataGenerator(r.URL.Path)
	if gen == nil {
		http.NotFound(w, r)
		return
	}
	encoding := acceptedEncoding(r.Header.Get("Accept-Encoding"))
	p, err := s.dataPayload(r.URL.Path, encoding, gen)
	if err != nil {
		s.RateLimitWarnf("Error generating %s: %v", r.URL.Path, err)
		http.Error(w, "payload unavailable", http.StatusServiceUnavailable)
		return
	}

	h := w.Header()
	h.Set("ETag", p.etag)
	h.Set("Cache-Control", "no-cache")
	h.Set("Content-Type", "application/json")
	h.Add("Vary", "Accept-Encoding")
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == p.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	if p.encoding != encodingNone {
		h.Set("Content-Encoding", p.encoding)
	}
	w.Write(p.data)
}

// ResponseHandler handles responses for monitoring routes.
func ResponseHandler(w http.ResponseWriter, r *http.Request, data []byte) {
	h := w.Header()
	if callback := r.URL.Query().Get("callback"); callback != "" {
		h.Set("Content-Type", "application/javascript")
		fmt.Fprintf(w, "%s(%s)", callback, data)
		return
	}
	h.Set("Content-Type", "application/json")
	h.Set("Access-Control-Allow-Origin", "*")
	w.Write(data)
}
