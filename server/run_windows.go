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
	"golang.org/x/sys/windows/svc"
)

const serviceName = "readsb-net"

// winServiceWrapper runs the network layer under the Windows service
// control manager.
type winServiceWrapper struct {
	server *Server
}

// Execute is called by the service control manager. The service exits
// once Execute returns.
func (w *winServiceWrapper) Execute(args []string, r <-chan svc.ChangeRequest,
	status chan<- svc.Status) (bool, uint32) {

	if err := w.server.Start(); err != nil {
		if err == ErrServerNotRunning {
			return false, 1
		}
		w.server.Warnf("Started with errors: %v", err)
	}

	select {
	case status <- svc.Status{
		State:   svc.Running,
		Accepts: svc.AcceptStop | svc.AcceptShutdown,
	}:
	default:
	}

loop:
	for {
		select {
		case change, ok := <-r:
			if !ok {
				break loop
			}
			switch change.Cmd {
			case svc.Interrogate:
				status <- change.CurrentStatus
			case svc.Stop, svc.Shutdown:
				w.server.Shutdown()
				break loop
			default:
				w.server.Debugf("Command not supported by service %s: %v", serviceName, change.Cmd)
			}
		case <-w.server.quitCh:
			break loop
		}
	}
	return false, 0
}

// Run starts s as a Windows service when launched by the service control
// manager and as a plain process otherwise. It blocks until shutdown.
func Run(s *Server) error {
	isService, err := svc.IsWindowsService()
	if err != nil {
		return err
	}
	if !isService {
		if err := s.Start(); err != nil {
			if err == ErrServerNotRunning {
				return err
			}
			s.Warnf("Started with errors: %v", err)
		}
		s.WaitForShutdown()
		return nil
	}
	return svc.Run(serviceName, &winServiceWrapper{s})
}
