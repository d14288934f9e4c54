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
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	srvlog "github.com/TanerH/readsb-adsbx/logger"
)

// Logger interface of the network layer
type Logger interface {
	// Log a notice statement
	Noticef(format string, v ...any)

	// Log a warning statement
	Warnf(format string, v ...any)

	// Log a fatal error
	Fatalf(format string, v ...any)

	// Log an error
	Errorf(format string, v ...any)

	// Log a debug statement
	Debugf(format string, v ...any)

	// Log a trace statement
	Tracef(format string, v ...any)
}

// ConfigureLogger configures and sets the logger for the server.
func (s *Server) ConfigureLogger() {
	var (
		l    Logger
		opts = s.getOpts()
	)
	if opts.NoLog {
		return
	}
	switch {
	case opts.LogFile != "":
		l = srvlog.NewFileLogger(opts.LogFile, opts.Logtime, opts.Debug, opts.Trace, true)
	case opts.RemoteSyslog != "":
		l = srvlog.NewRemoteSysLogger(opts.RemoteSyslog, opts.Debug, opts.Trace)
	case opts.Syslog:
		l = srvlog.NewSysLogger(opts.Debug, opts.Trace)
	default:
		l = srvlog.NewStdLogger(opts.Logtime, opts.Debug, opts.Trace, true, true)
	}
	s.SetLogger(l, opts.Debug, opts.Trace)
}

// SetLogger sets the logger of the server
func (s *Server) SetLogger(logger Logger, debugFlag, traceFlag bool) {
	if debugFlag {
		atomic.StoreInt32(&s.logging.debug, 1)
	} else {
		atomic.StoreInt32(&s.logging.debug, 0)
	}
	if traceFlag {
		atomic.StoreInt32(&s.logging.trace, 1)
	} else {
		atomic.StoreInt32(&s.logging.trace, 0)
	}
	s.logging.Lock()
	old := s.logging.logger
	s.logging.logger = logger
	s.logging.Unlock()

	// Check to see if the logger implements io.Closer. This could be a
	// logger from another process embedding the network layer or a dummy
	// test logger that may not implement that interface.
	if l, ok := old.(interface{ Close() error }); ok {
		if err := l.Close(); err != nil {
			s.Errorf("Error closing logger: %v", err)
		}
	}
}

// Noticef logs a notice statement
func (s *Server) Noticef(format string, v ...any) {
	s.executeLogCall(func(logger Logger, format string, v ...any) {
		logger.Noticef(format, v...)
	}, format, v...)
}

// Errorf logs an error
func (s *Server) Errorf(format string, v ...any) {
	s.executeLogCall(func(logger Logger, format string, v ...any) {
		logger.Errorf(format, v...)
	}, format, v...)
}

// Warnf logs a warning error
func (s *Server) Warnf(format string, v ...any) {
	s.executeLogCall(func(logger Logger, format string, v ...any) {
		logger.Warnf(format, v...)
	}, format, v...)
}

// Fatalf logs a fatal error
func (s *Server) Fatalf(format string, v ...any) {
	s.executeLogCall(func(logger Logger, format string, v ...any) {
		logger.Fatalf(format, v...)
	}, format, v...)
}

// Debugf logs a debug statement
func (s *Server) Debugf(format string, v ...any) {
	if atomic.LoadInt32(&s.logging.debug) == 0 {
		return
	}
	s.executeLogCall(func(logger Logger, format string, v ...any) {
		logger.Debugf(format, v...)
	}, format, v...)
}

// Tracef logs a trace statement
func (s *Server) Tracef(format string, v ...any) {
	if atomic.LoadInt32(&s.logging.trace) == 0 {
		return
	}
	s.executeLogCall(func(logger Logger, format string, v ...any) {
		logger.Tracef(format, v...)
	}, format, v...)
}

// RateLimitWarnf logs a warning unless the server wide diagnostic limiter
// has run dry. Used for events a misbehaving peer can trigger at line rate.
func (s *Server) RateLimitWarnf(format string, v ...any) {
	if !s.logLimit.Allow() {
		s.dropped.Add(1)
		return
	}
	if n := s.dropped.Swap(0); n > 0 {
		format = fmt.Sprintf("%s (%d similar messages suppressed)", format, n)
	}
	s.Warnf(format, v...)
}

func newLogLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(time.Second), 10)
}

func (s *Server) executeLogCall(f func(logger Logger, format string, v ...any), format string, args ...any) {
	s.logging.RLock()
	defer s.logging.RUnlock()
	if s.logging.logger == nil {
		return
	}

	argc := len(args)
	if argc != 0 {
		if c, ok := args[argc-1].(*client); ok {
			args = args[:argc-1]
			format = fmt.Sprintf("%s - %s", c, format)
		}
	}
	f(s.logging.logger, format, args...)
}

// ReOpenLogFile if the logger is a file based logger, close and re-open the file.
// This allows for file rotation by 'mv'ing the file then signaling
// the process to trigger this function.
func (s *Server) ReOpenLogFile() {
	// Check to make sure this is a file logger.
	s.logging.RLock()
	ll := s.logging.logger
	s.logging.RUnlock()

	if ll == nil {
		s.Noticef("File log re-open ignored, no logger")
		return
	}

	opts := s.getOpts()
	if opts.LogFile == "" {
		s.Noticef("File log re-open ignored, not a file logger")
	} else {
		fileLog := srvlog.NewFileLogger(opts.LogFile, opts.Logtime, opts.Debug, opts.Trace, true)
		s.SetLogger(fileLog, opts.Debug, opts.Trace)
		s.Noticef("File log re-opened")
	}
}
