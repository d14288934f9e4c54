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
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Generator produces a JSON payload for a request path such as
// "/data/aircraft.json". The content is owned by the caller.
type Generator interface {
	Generate(path string) ([]byte, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(path string) ([]byte, error)

// Generate calls f(path).
func (f GeneratorFunc) Generate(path string) ([]byte, error) { return f(path) }

// Generators are the JSON payload producers. Any of them may be nil.
type Generators struct {
	Aircraft Generator
	Stats    Generator
	Receiver Generator
	History  Generator
	VRS      Generator
}

// jsonSchedule tracks when the next periodic JSON output is due.
type jsonSchedule struct {
	nextAircraft time.Time
	nextStats    time.Time
	nextHistory  time.Time
	nextVRS      time.Time
	historyIdx   int
}

// writeJSONToFile writes the payload of gen to name inside the JSON
// directory. The file is replaced atomically, a gzipped copy is written
// alongside when enabled.
func (s *Server) writeJSONToFile(name string, gen Generator) error {
	opts := s.getOpts()
	if opts.JSONDir == "" || gen == nil {
		return nil
	}
	data, err := gen.Generate("/data/" + name)
	if err != nil {
		return fmt.Errorf("generating %s: %w", name, err)
	}
	path := filepath.Join(opts.JSONDir, name)
	if err := writeFileAtomic(path, data); err != nil {
		return err
	}
	if !opts.JSONGzip {
		return nil
	}
	gz, err := compressPayload(encodingGzip, data)
	if err != nil {
		return fmt.Errorf("compressing %s: %w", name, err)
	}
	return writeFileAtomic(path+".gz", gz)
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// writeJSONToNet sends the payload of gen through w in one flush.
func (s *Server) writeJSONToNet(w *Writer, gen Generator) error {
	if w == nil || gen == nil {
		return nil
	}
	data, err := gen.Generate("/vrs.json")
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.writeLocked(data)
	w.flushLocked()
	w.mu.Unlock()
	return nil
}

func (s *Server) jsonFileError(name string, err error) {
	if err != nil {
		s.RateLimitWarnf("Unable to write %s: %v", name, err)
	}
}

// jsonPeriodic runs the JSON output schedule.
func (s *Server) jsonPeriodic(now time.Time) {
	gens := s.gens
	if gens == nil {
		return
	}
	opts := s.getOpts()
	j := &s.json

	if opts.JSONDir != "" {
		if !now.Before(j.nextAircraft) {
			j.nextAircraft = now.Add(opts.JSONInterval)
			s.jsonFileError("aircraft.json", s.writeJSONToFile("aircraft.json", gens.Aircraft))
		}
		if !now.Before(j.nextStats) {
			j.nextStats = now.Add(opts.StatsInterval)
			s.jsonFileError("stats.json", s.writeJSONToFile("stats.json", gens.Stats))
		}
		if gens.History != nil && !now.Before(j.nextHistory) {
			j.nextHistory = now.Add(opts.HistoryInterval)
			name := fmt.Sprintf("history_%d.json", j.historyIdx)
			j.historyIdx = (j.historyIdx + 1) % opts.HistorySize
			s.jsonFileError(name, s.writeJSONToFile(name, gens.History))
		}
	}

	if vrs := s.outputWriter(vrsOutProto{}); vrs != nil && gens.VRS != nil && !now.Before(j.nextVRS) {
		j.nextVRS = now.Add(opts.VRSInterval)
		if vrs.active() {
			if err := s.writeJSONToNet(vrs, gens.VRS); err != nil {
				s.RateLimitWarnf("Unable to generate VRS output: %v", err)
			}
		}
	}
}
