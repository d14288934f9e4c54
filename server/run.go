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

// Run starts s and blocks until it is shut down. Setup faults reported by
// Start are logged; the server keeps running with what could be set up.
func Run(s *Server) error {
	if err := s.Start(); err != nil {
		if err == ErrServerNotRunning {
			return err
		}
		s.Warnf("Started with errors: %v", err)
	}
	s.WaitForShutdown()
	return nil
}
