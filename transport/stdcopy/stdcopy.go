// Copyright 2025 AUTHORS
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package stdcopy decodes Docker's multiplexed raw-stream frame format —
// an 8-byte header ([stream_id:1][0:3][len:4 big-endian]) followed by len
// opaque payload bytes — and routes each frame's payload to the sink
// selected by stream id. It is the demultiplexer at the far end of an
// attach/exec hijack, grounded on the classic docker/docker/pkg/stdcopy
// StdCopy loop but rewritten against two independent Sink values instead of
// two io.Writers, so stdout and stderr can be read concurrently by
// different goroutines.
package stdcopy

import (
	"encoding/binary"
	"errors"
	"io"
)

const headerLen = 8

// StreamID identifies which sink a frame's payload belongs to.
type StreamID byte

const (
	Stdin  StreamID = 0
	Stdout StreamID = 1
	Stderr StreamID = 2
)

// Sink receives frame payloads for one stream and is told when the stream
// ends. *bufpipe.Pipe satisfies this.
type Sink interface {
	Write(p []byte) (int, error)
	CloseWrite()
}

// Run decodes frames from src until src returns EOF or ctx-like cancellation
// causes a read error, routing Stdout frames to out and Stderr frames to
// errSink (which may be the same Sink as out, to merge streams). A nil sink
// discards that stream's frames. Frame stream id 0 (stdin echoed back, or
// anything else) is discarded silently per spec.md §9's stated safest
// policy.
//
// Run returns nil on a clean EOF between frames. Any other read error is
// returned to the caller, who is expected to log it and treat it as
// end-of-stream (spec.md §4.7); Run itself does not decide that policy, it
// just reports.
func Run(src io.Reader, out, errSink Sink) error {
	defer func() {
		if out != nil {
			out.CloseWrite()
		}
		if errSink != nil && errSink != out {
			errSink.CloseWrite()
		}
	}()

	var header [headerLen]byte
	for {
		if _, err := io.ReadFull(src, header[:1]); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if _, err := io.ReadFull(src, header[1:]); err != nil {
			return io.ErrUnexpectedEOF
		}

		id := StreamID(header[0])
		length := binary.BigEndian.Uint32(header[4:8])

		var sink Sink
		switch id {
		case Stdout:
			sink = out
		case Stderr:
			sink = errSink
		default:
			sink = nil // stream id 0 or unknown: discard, spec.md §9
		}

		if err := copyPayload(src, sink, int64(length)); err != nil {
			return err
		}
	}
}

func copyPayload(src io.Reader, sink Sink, length int64) error {
	if sink == nil {
		_, err := io.CopyN(io.Discard, src, length)
		if errors.Is(err, io.EOF) {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	if _, err := io.CopyN(sinkWriter{sink}, src, length); err != nil {
		if errors.Is(err, io.EOF) {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	return nil
}

// sinkWriter adapts Sink to io.Writer for io.CopyN.
type sinkWriter struct{ Sink }
