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

//go:build !windows

package server

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/TanerH/readsb-adsbx/logger"
)

func TestSignalToReOpenLogFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "readsb.log")
	opts := testOptions()
	opts.NoSigs = false
	opts.LogFile = logFile
	s := RunServer(t, opts, nil, nil)
	defer s.SetLogger(nil, false, false)

	// Set the file log
	fileLog := logger.NewFileLogger(logFile, false, false, false, true)
	s.SetLogger(fileLog, false, false)

	expectedStr := "This is a Notice"
	s.Noticef(expectedStr)
	buf, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Error reading file: %v", err)
	}
	if !strings.Contains(string(buf), expectedStr) {
		t.Fatalf("Expected log to contain %q, got %q", expectedStr, string(buf))
	}
	// Rename the file
	if err := os.Rename(logFile, logFile+".bak"); err != nil {
		t.Fatalf("Unable to rename file: %v", err)
	}
	// This should cause file to be reopened.
	syscall.Kill(syscall.Getpid(), syscall.SIGUSR1)

	expectedStr = "File log re-opened"
	checkFor(t, 2*time.Second, 50*time.Millisecond, func() error {
		buf, err = os.ReadFile(logFile)
		if err != nil {
			return err
		}
		if !strings.Contains(string(buf), expectedStr) {
			return fmt.Errorf("expected log to contain %q, got %q", expectedStr, buf)
		}
		return nil
	})
}

func TestSignalToShutdown(t *testing.T) {
	opts := testOptions()
	opts.NoSigs = false
	opts.RawOutPorts = "-1"
	s := RunServer(t, opts, nil, nil)

	syscall.Kill(syscall.Getpid(), syscall.SIGTERM)
	select {
	case <-s.quitCh:
	case <-time.After(2 * time.Second):
		t.Fatalf("Server did not shut down on SIGTERM")
	}
	checkFor(t, 2*time.Second, 10*time.Millisecond, func() error {
		if s.isRunning() {
			return fmt.Errorf("server still running")
		}
		return nil
	})
}
