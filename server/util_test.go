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
	"strconv"
	"testing"
)

func TestParseSize(t *testing.T) {
	if parseSize(nil) != -1 {
		t.Fatal("Should error on nil byte slice")
	}
	n := []byte("30005")
	if pn := parseSize(n); pn != 30005 {
		t.Fatalf("Did not parse %q correctly, res=%d\n", n, pn)
	}
	for _, bad := range []string{"65536", "3000x", "-1", " 1"} {
		if pn := parseSize([]byte(bad)); pn != -1 {
			t.Fatalf("Expected %q to be rejected, got %d", bad, pn)
		}
	}
}

func BenchmarkParseInt(b *testing.B) {
	b.SetBytes(1)
	n := "30005"
	for i := 0; i < b.N; i++ {
		strconv.ParseInt(n, 10, 0)
	}
}

func BenchmarkParseSize(b *testing.B) {
	b.SetBytes(1)
	n := []byte("30005")
	for i := 0; i < b.N; i++ {
		parseSize(n)
	}
}
