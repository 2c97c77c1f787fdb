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
	"io"
	"net"
	"testing"
)

// TestJSONSequenceNextStreamsIncrementally is the regression this review
// comment exists for: readResponse must return as soon as the headers are
// in, and each JSONSeq.Next call must return a line as soon as that line
// has arrived — neither should require the whole body to already be
// buffered, which is what lets a caller render pull progress live.
func TestJSONSequenceNextStreamsIncrementally(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()

	conn := &Connection{
		client: &Client{host: "docker.com"},
		conn:   client,
		in:     newPushbackReader(client),
		out:    bufio.NewWriter(io.Discard),
	}

	headerDone := make(chan struct{})
	secondLineReady := make(chan struct{})
	go func() {
		io.WriteString(server, "HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\nContent-Type: application/json\r\n\r\n")
		close(headerDone)
		io.WriteString(server, "d\r\n{\"status\":1}\n\r\n")
		<-secondLineReady
		io.WriteString(server, "d\r\n{\"status\":2}\n\r\n")
		io.WriteString(server, "0\r\n\r\n")
		server.Close()
	}()

	resp, err := readResponse(conn, true)
	if err != nil {
		t.Fatalf("readResponse: %v", err)
	}
	if resp.BodyKind != ResponseBodyJSONSequence {
		t.Fatalf("body kind = %v, want ResponseBodyJSONSequence", resp.BodyKind)
	}

	<-headerDone
	v, ok, err := resp.JSONSeq.Next()
	if err != nil || !ok {
		t.Fatalf("Next() = %v, %v, %v", v, ok, err)
	}
	if m, _ := v.(map[string]any); m["status"] != float64(1) {
		t.Fatalf("first event = %#v", v)
	}

	// The second line hasn't been written yet: reaching this point proves
	// Next returned the first line without waiting on bytes the daemon
	// hadn't sent.
	close(secondLineReady)

	v, ok, err = resp.JSONSeq.Next()
	if err != nil || !ok {
		t.Fatalf("Next() = %v, %v, %v", v, ok, err)
	}
	if m, _ := v.(map[string]any); m["status"] != float64(2) {
		t.Fatalf("second event = %#v", v)
	}

	v, ok, err = resp.JSONSeq.Next()
	if err != nil || ok {
		t.Fatalf("Next() = %v, %v, %v, want ok=false at end of stream", v, ok, err)
	}
}

func TestJSONSequenceNextSkipsBlankLines(t *testing.T) {
	conn := fakeConn("HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\nContent-Type: application/json\r\n\r\n" +
		"2\r\n1\n\r\n1\r\n\n\r\n2\r\n2\n\r\n0\r\n\r\n")
	conn.conn = discardConn{}
	resp, err := readResponse(conn, true)
	if err != nil {
		t.Fatalf("readResponse: %v", err)
	}

	var got []any
	for {
		v, ok, err := resp.JSONSeq.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		got = append(got, v)
	}
	if len(got) != 2 || got[0] != float64(1) || got[1] != float64(2) {
		t.Fatalf("got %#v", got)
	}
}

// discardConn is a no-op net.Conn stand-in so JSONSequence.Close (which
// calls Connection.Close) has something harmless to close in tests built
// on fakeConn, which otherwise leaves conn.conn nil.
type discardConn struct{ net.Conn }

func (discardConn) Close() error { return nil }
