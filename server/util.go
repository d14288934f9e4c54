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
	"strings"
)

// Ascii numbers 0-9
const (
	ascii_0 = 48
	ascii_9 = 57
)

// parseSize expects decimal positive numbers. We
// return -1 to signal error
func parseSize(d []byte) (n int) {
	if len(d) == 0 {
		return -1
	}
	for _, dec := range d {
		if dec < ascii_0 || dec > ascii_9 {
			return -1
		}
		n = n*10 + (int(dec) - ascii_0)
		if n > 65535 {
			return -1
		}
	}
	return n
}

// parsePorts parses a comma separated port list. An empty list or a lone
// "0" disables the service, "-1" asks for an ephemeral port.
func parsePorts(spec string) ([]int, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" || spec == "0" {
		return nil, nil
	}
	var ports []int
	for _, p := range strings.Split(spec, ",") {
		p = strings.TrimSpace(p)
		switch p {
		case "0":
			continue
		case "-1":
			ports = append(ports, RANDOM_PORT)
			continue
		}
		port := parseSize([]byte(p))
		if port <= 0 {
			return nil, fmt.Errorf("%w: %q", ErrBadPortSpec, spec)
		}
		ports = append(ports, port)
	}
	return ports, nil
}

// parseConnector splits an address:port:protocol spec. The protocol follows
// the last colon and the port the one before it, so IPv6 addresses may be
// given with or without brackets.
func parseConnector(spec string) (addr, port, proto string, err error) {
	i := strings.LastIndexByte(spec, ':')
	if i <= 0 {
		return "", "", "", fmt.Errorf("%w: %q", ErrBadConnectorSpec, spec)
	}
	proto = spec[i+1:]
	j := strings.LastIndexByte(spec[:i], ':')
	if j <= 0 {
		return "", "", "", fmt.Errorf("%w: %q", ErrBadConnectorSpec, spec)
	}
	addr, port = spec[:j], spec[j+1:i]
	addr = strings.TrimSuffix(strings.TrimPrefix(addr, "["), "]")
	if addr == "" || proto == "" || parseSize([]byte(port)) <= 0 {
		return "", "", "", fmt.Errorf("%w: %q", ErrBadConnectorSpec, spec)
	}
	return addr, port, proto, nil
}
