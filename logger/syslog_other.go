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

//go:build windows || plan9

package logger

// SysLogger falls back to the standard logger where there is no syslog.
type SysLogger struct {
	*Logger
}

// NewSysLogger creates a logger writing to stderr.
func NewSysLogger(debug, trace bool) *SysLogger {
	return &SysLogger{NewStdLogger(true, debug, trace, false, true)}
}

// NewRemoteSysLogger ignores the address and logs to stderr.
func NewRemoteSysLogger(_ string, debug, trace bool) *SysLogger {
	return NewSysLogger(debug, trace)
}
