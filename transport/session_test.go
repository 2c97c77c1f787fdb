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
	"bufio"
	"bytes"
	"io"
	"log"
	"net"
	"testing"
	"time"
)

func newTestConnection(t *testing.T) (*Connection, net.Conn) {
	t.Helper()
	client, server := net.Pipe()
	conn := &Connection{
		client: &Client{host: "localhost"},
		conn:   client,
		in:     newPushbackReader(client),
		out:    bufio.NewWriter(client),
	}
	t.Cleanup(func() { server.Close() })
	return conn, server
}

func upgradedResponse(conn *Connection) *Response {
	return &Response{
		StatusCode: 101,
		Header:     map[string]string{"content-type": multiplexedContentType},
		Upgraded:   true,
		In:         conn.in,
		Out:        conn.out,
		Conn:       conn,
	}
}

func TestStreamSessionDemuxesFrames(t *testing.T) {
	conn, server := newTestConnection(t)
	resp := upgradedResponse(conn)

	go func() {
		server.Write([]byte{1, 0, 0, 0, 0, 0, 0, 5})
		server.Write([]byte("hello"))
		server.Write([]byte{2, 0, 0, 0, 0, 0, 0, 3})
		server.Write([]byte("err"))
	}()

	s, err := NewStreamSession(resp, SessionOptions{Stdout: true, Stderr: StderrSeparate})
	if err != nil {
		t.Fatalf("NewStreamSession: %v", err)
	}

	outBuf := make([]byte, 5)
	if _, err := io.ReadFull(s.Stdout, outBuf); err != nil {
		t.Fatalf("read stdout: %v", err)
	}
	if string(outBuf) != "hello" {
		t.Fatalf("stdout = %q", outBuf)
	}
	errBuf := make([]byte, 3)
	if _, err := io.ReadFull(s.Stderr, errBuf); err != nil {
		t.Fatalf("read stderr: %v", err)
	}
	if string(errBuf) != "err" {
		t.Fatalf("stderr = %q", errBuf)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestStreamSessionCloseIsIdempotent(t *testing.T) {
	conn, _ := newTestConnection(t)
	resp := upgradedResponse(conn)

	s, err := NewStreamSession(resp, SessionOptions{Stdout: true})
	if err != nil {
		t.Fatalf("NewStreamSession: %v", err)
	}

	done := make(chan struct{})
	go func() {
		s.Close()
		s.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("second Close blocked")
	}
}

// TestStreamSessionCloseLogsNothingOnNormalShutdown guards spec.md §7's
// "interruption of the demultiplexer during normal shutdown is not an
// error" contract: Close unblocks the demultiplexer's in-flight read by
// closing the connection out from under it, which must not be mistaken for
// a genuine wire error and logged.
func TestStreamSessionCloseLogsNothingOnNormalShutdown(t *testing.T) {
	conn, _ := newTestConnection(t)
	resp := upgradedResponse(conn)

	var logBuf bytes.Buffer
	logger := log.New(&logBuf, "", 0)

	s, err := NewStreamSession(resp, SessionOptions{Stdout: true, Logger: logger})
	if err != nil {
		t.Fatalf("NewStreamSession: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if logBuf.Len() != 0 {
		t.Fatalf("expected no log output on normal shutdown, got %q", logBuf.String())
	}
}

func TestNewStreamSessionRejectsNonUpgrade(t *testing.T) {
	resp := &Response{StatusCode: 200, Upgraded: false}
	if _, err := NewStreamSession(resp, SessionOptions{}); err == nil {
		t.Fatalf("expected error for non-upgraded response")
	}
}

func TestNewStreamSessionRejectsWrongContentType(t *testing.T) {
	conn, _ := newTestConnection(t)
	resp := &Response{
		StatusCode: 101,
		Header:     map[string]string{"content-type": "text/plain"},
		Upgraded:   true,
		In:         conn.in,
		Out:        conn.out,
		Conn:       conn,
	}
	if _, err := NewStreamSession(resp, SessionOptions{}); err == nil {
		t.Fatalf("expected error for wrong upgrade content-type")
	}
}
