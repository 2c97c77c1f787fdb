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

package transport

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hectolitro/dockwire/transport/bufpipe"
	"github.com/hectolitro/dockwire/transport/stdcopy"
)

// UpgradeRequest builds the headers an attach/exec request needs to
// negotiate a raw-stream upgrade (spec.md §4.8). Callers merge query
// parameters selecting which streams they want on top of this.
func UpgradeRequest(method Method, path string, query *QueryParams) *Request {
	return &Request{
		Method: method,
		Path:   path,
		Query:  query,
		Header: map[string]string{
			"connection":   "Upgrade",
			"upgrade":      "tcp",
			"content-type": "application/vnd.docker.raw-stream",
			"accept":       "application/vnd.docker.multiplexed-stream",
		},
	}
}

const multiplexedContentType = "application/vnd.docker.multiplexed-stream"

// StreamSession is the result of a successful attach/exec upgrade: the
// live stdin writer (if requested), stdout/stderr readers backed by
// independent pipes, the hijacked connection, and the background
// demultiplexer's lifetime. Close cancels the demultiplexer, closes each
// exposed stream, and closes the connection; all of that is idempotent.
type StreamSession struct {
	Stdin  io.Writer     // nil unless requested
	Stdout io.ReadCloser // nil unless requested
	Stderr io.ReadCloser // nil, or aliases Stdout when merged

	conn   *Connection
	logger *log.Logger

	closing   context.CancelFunc
	closeOnce sync.Once
	g         *errgroup.Group
}

// SessionOptions selects which halves of the session the caller wants.
type SessionOptions struct {
	Stdin  bool
	Stdout bool
	Stderr StderrMode
	Logger *log.Logger
}

// NewStreamSession validates resp as a successful upgrade and constructs a
// StreamSession around it, spawning the demultiplexer goroutine bound to
// the connection's read side. It returns ErrUpgradeFailed-flavored
// *StatusError if resp is not a 101 with the multiplexed-stream
// content-type.
func NewStreamSession(resp *Response, opts SessionOptions) (*StreamSession, error) {
	if !resp.Upgraded || resp.StatusCode != 101 {
		return nil, upgradeError(resp, "expected 101 Switching Protocols")
	}
	ct, _ := resp.HeaderValue("content-type")
	if !strings.EqualFold(ct, multiplexedContentType) {
		return nil, upgradeError(resp, "unexpected upgrade content-type %q", ct)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	var stdoutPipe, stderrPipe *bufpipe.Pipe
	if opts.Stdout {
		stdoutPipe = bufpipe.New()
	}
	switch opts.Stderr {
	case StderrSeparate:
		stderrPipe = bufpipe.New()
	case StderrMergedWithStdout:
		stderrPipe = stdoutPipe
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &StreamSession{conn: resp.Conn, logger: logger, closing: cancel}
	if opts.Stdin {
		s.Stdin = resp.Out
	}
	if stdoutPipe != nil {
		s.Stdout = stdoutPipe
	}
	if stderrPipe != nil {
		s.Stderr = stderrPipe
	}

	var g errgroup.Group
	s.g = &g
	g.Go(func() error {
		err := stdcopy.Run(resp.In, sinkOrNil(stdoutPipe), sinkOrNil(stderrPipe))
		if err != nil && ctx.Err() == nil {
			// A real error, not shutdown-via-Close (which cancels ctx
			// before closing the connection): spec.md §7 says log and
			// treat as end-of-stream, not propagate.
			logger.Printf("dockwire: demultiplexer stopped: %v", err)
		}
		return nil
	})

	return s, nil
}

// sinkOrNil converts a possibly-nil *bufpipe.Pipe to the stdcopy.Sink
// interface, keeping a true nil interface (not a non-nil interface wrapping
// a nil pointer) when the pipe wasn't allocated.
func sinkOrNil(p *bufpipe.Pipe) stdcopy.Sink {
	if p == nil {
		return nil
	}
	return p
}

// Close closes the connection (unblocking the demultiplexer's in-flight
// socket read), waits for it to exit, then closes the exposed streams.
// Safe to call more than once; the connection close error is what a repeat
// call would see if it mattered, but Close never blocks or errors on a
// second call.
func (s *StreamSession) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.closing()
		err = s.conn.Close()
		_ = s.g.Wait()
		if s.Stdout != nil {
			_ = s.Stdout.Close()
		}
		if s.Stderr != nil && s.Stderr != s.Stdout {
			_ = s.Stderr.Close()
		}
	})
	return err
}

func upgradeError(resp *Response, format string, args ...any) error {
	return &StatusError{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf(format, args...),
		Response:   resp,
		Err:        ErrUpgradeFailed,
	}
}
