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

// Package bufpipe implements a single-producer/single-consumer in-process
// byte queue exposed to the consumer as an io.ReadCloser. It plays the same
// role for the raw-stream demultiplexer that websocketutil.ConnReadWriter's
// readCh plays for a hijacked websocket connection: a channel-backed handoff
// between a background reader goroutine and whichever goroutine the caller
// is reading from.
package bufpipe

import (
	"io"
	"sync"
)

// capacity bounds the number of buffered chunks in flight. It is the pipe's
// only flow-control mechanism: once full, Write blocks. This is sufficient
// because the producer (the demultiplexer) itself paces on socket reads.
const capacity = 256

// Pipe is a byte-buffer queue with exactly one producer and one consumer.
type Pipe struct {
	ch     chan []byte
	closeC chan struct{}
	once   sync.Once

	mu       sync.Mutex
	pending  []byte // leftover from a partial Read of the current buffer
	consumerClosed bool
}

// New returns a ready-to-use Pipe.
func New() *Pipe {
	return &Pipe{
		ch:     make(chan []byte, capacity),
		closeC: make(chan struct{}),
	}
}

// Write appends buf for the consumer to read. It blocks if the pipe's
// internal queue is at capacity. It returns an error if the pipe has
// already been closed from either side; buf is not retained on error.
func (p *Pipe) Write(buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	cp := append([]byte(nil), buf...)
	select {
	case <-p.closeC:
		return 0, io.ErrClosedPipe
	default:
	}
	select {
	case p.ch <- cp:
		return len(buf), nil
	case <-p.closeC:
		return 0, io.ErrClosedPipe
	}
}

// CloseWrite signals end-of-stream from the producer side. Subsequent
// consumer Reads drain any buffered data then report io.EOF. Idempotent.
func (p *Pipe) CloseWrite() {
	p.once.Do(func() { close(p.closeC) })
}

// Read implements io.Reader for the consumer, honoring partial reads: a
// buffer larger than len(dst) is drawn from across multiple Read calls.
func (p *Pipe) Read(dst []byte) (int, error) {
	p.mu.Lock()
	if p.consumerClosed {
		p.mu.Unlock()
		return 0, io.ErrClosedPipe
	}
	if len(p.pending) > 0 {
		n := copy(dst, p.pending)
		p.pending = p.pending[n:]
		p.mu.Unlock()
		return n, nil
	}
	p.mu.Unlock()

	select {
	case buf, ok := <-p.ch:
		if !ok {
			return 0, io.EOF
		}
		n := copy(dst, buf)
		if n < len(buf) {
			p.mu.Lock()
			p.pending = buf[n:]
			p.mu.Unlock()
		}
		return n, nil
	case <-p.closeC:
		// Drain anything queued before reporting EOF.
		select {
		case buf := <-p.ch:
			n := copy(dst, buf)
			if n < len(buf) {
				p.mu.Lock()
				p.pending = buf[n:]
				p.mu.Unlock()
			}
			return n, nil
		default:
			return 0, io.EOF
		}
	}
}

// Close closes the consumer side: further producer Writes are rejected.
// Idempotent.
func (p *Pipe) Close() error {
	p.mu.Lock()
	p.consumerClosed = true
	p.mu.Unlock()
	p.CloseWrite()
	return nil
}
