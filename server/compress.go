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
	"bytes"
	"io"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
)

// Content encodings we can answer HTTP requests with.
const (
	encodingNone   = ""
	encodingGzip   = "gzip"
	encodingSnappy = "snappy"
)

// resetWriter is a compressor that can be pooled.
type resetWriter interface {
	io.WriteCloser
	Reset(w io.Writer)
}

var compressors = map[string]*sync.Pool{
	encodingGzip: {New: func() any { return gzip.NewWriter(nil) }},
	encodingSnappy: {New: func() any {
		return s2.NewWriter(nil, s2.WriterSnappyCompat())
	}},
}

// acceptedEncoding picks the response encoding from an Accept-Encoding
// header, preferring snappy over gzip.
func acceptedEncoding(header string) string {
	var gz bool
	for _, enc := range strings.Split(header, ",") {
		enc, _, _ = strings.Cut(strings.TrimSpace(enc), ";")
		switch enc {
		case "snappy", "s2":
			return encodingSnappy
		case "gzip":
			gz = true
		}
	}
	if gz {
		return encodingGzip
	}
	return encodingNone
}

// compressPayload returns data compressed with the given encoding. Unknown
// encodings return data unchanged.
func compressPayload(encoding string, data []byte) ([]byte, error) {
	pool := compressors[encoding]
	if pool == nil {
		return data, nil
	}
	var buf bytes.Buffer
	w := pool.Get().(resetWriter)
	w.Reset(&buf)
	_, err := w.Write(data)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	// Drop the reference to buf before pooling.
	w.Reset(io.Discard)
	pool.Put(w)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
