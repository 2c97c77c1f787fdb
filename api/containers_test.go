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

package api

import (
	"bytes"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/hectolitro/dockwire/transport"
)

// newPipeClient builds an api.Client whose single underlying connection is
// one end of a net.Pipe. respond plays daemon on the other end: it must
// drain the request and write a response, then send what it read on reqCh
// (closing it without sending on unrecoverable failure) so the test's main
// goroutine — not this one — can make any t.Fatalf assertions about it.
func newPipeClient(t *testing.T, respond func(server net.Conn, reqCh chan<- string)) (*Client, <-chan string) {
	t.Helper()
	client, server := net.Pipe()
	t.Cleanup(func() { client.Close(); server.Close() })
	reqCh := make(chan string, 1)
	go respond(server, reqCh)
	tc := transport.NewClientWithDialer("docker.com", func() (net.Conn, error) { return client, nil })
	return NewClientWithDialer(tc, nil), reqCh
}

// drainRequest reads server until it has seen a complete request (headers,
// plus a chunked body if transfer-encoding says so). ok is false if the
// connection closed before a full request arrived.
func drainRequest(server net.Conn) (req string, ok bool) {
	var buf []byte
	tmp := make([]byte, 4096)
	read := func() bool {
		n, err := server.Read(tmp)
		buf = append(buf, tmp[:n]...)
		return err == nil
	}
	for !bytes.Contains(buf, []byte("\r\n\r\n")) {
		if !read() {
			return string(buf), false
		}
	}
	headerEnd := bytes.Index(buf, []byte("\r\n\r\n")) + 4
	if bytes.Contains(bytes.ToLower(buf[:headerEnd]), []byte("transfer-encoding: chunked")) {
		for !bytes.HasSuffix(buf, []byte("0\r\n\r\n")) {
			if !read() {
				return string(buf), false
			}
		}
	}
	return string(buf), true
}

func TestContainerArchiveReadsRawTarBody(t *testing.T) {
	c, reqCh := newPipeClient(t, func(server net.Conn, reqCh chan<- string) {
		req, ok := drainRequest(server)
		if !ok {
			close(reqCh)
			return
		}
		server.Write([]byte("HTTP/1.1 200 OK\r\nContent-Type: application/x-tar\r\nContent-Length: 4\r\n\r\nTARD"))
		reqCh <- req
	})
	got, err := c.ContainerArchive("abc", "/etc/passwd")
	if err != nil {
		t.Fatalf("ContainerArchive: %v", err)
	}
	if string(got) != "TARD" {
		t.Fatalf("got %q", got)
	}
	req, ok := <-reqCh
	if !ok {
		t.Fatalf("fake daemon never saw a complete request")
	}
	if !strings.HasPrefix(req, "GET /v1.46/containers/abc/archive?path=") {
		t.Errorf("unexpected request line in %q", req)
	}
}

func TestContainerArchiveInfoDecodesPathStatHeader(t *testing.T) {
	// base64 of `{"name":"passwd","size":12,"mode":420,"mtime":"2024-01-01T00:00:00Z"}`
	const encoded = "eyJuYW1lIjoicGFzc3dkIiwic2l6ZSI6MTIsIm1vZGUiOjQyMCwibXRpbWUiOiIyMDI0LTAxLTAxVDAwOjAwOjAwWiJ9"
	c, reqCh := newPipeClient(t, func(server net.Conn, reqCh chan<- string) {
		req, ok := drainRequest(server)
		if !ok {
			close(reqCh)
			return
		}
		server.Write([]byte("HTTP/1.1 200 OK\r\nX-Docker-Container-Path-Stat: " + encoded + "\r\nContent-Length: 0\r\n\r\n"))
		reqCh <- req
	})
	stat, err := c.ContainerArchiveInfo("abc", "/etc/passwd")
	if err != nil {
		t.Fatalf("ContainerArchiveInfo: %v", err)
	}
	if stat.Name != "passwd" || stat.Size != 12 || stat.Mode != 420 {
		t.Fatalf("stat = %+v", stat)
	}
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !stat.Mtime.Equal(want) {
		t.Fatalf("mtime = %v, want %v", stat.Mtime, want)
	}
	req, ok := <-reqCh
	if !ok {
		t.Fatalf("fake daemon never saw a complete request")
	}
	if !strings.HasPrefix(req, "HEAD /v1.46/containers/abc/archive?path=") {
		t.Errorf("unexpected request line in %q", req)
	}
}

func TestContainerArchiveInfoMissingHeaderErrors(t *testing.T) {
	c, reqCh := newPipeClient(t, func(server net.Conn, reqCh chan<- string) {
		req, ok := drainRequest(server)
		if !ok {
			close(reqCh)
			return
		}
		server.Write([]byte("HTTP/1.1 200 OK\r\nContent-Length: 0\r\n\r\n"))
		reqCh <- req
	})
	if _, err := c.ContainerArchiveInfo("abc", "/etc/passwd"); err == nil {
		t.Fatalf("expected error for missing path-stat header")
	}
	<-reqCh
}

func TestContainerExtractToDirUploadsTarStream(t *testing.T) {
	c, reqCh := newPipeClient(t, func(server net.Conn, reqCh chan<- string) {
		req, ok := drainRequest(server)
		if !ok {
			close(reqCh)
			return
		}
		server.Write([]byte("HTTP/1.1 200 OK\r\nContent-Length: 0\r\n\r\n"))
		reqCh <- req
	})
	err := c.ContainerExtractToDir("abc", "/data", strings.NewReader("faketar"), false, false)
	if err != nil {
		t.Fatalf("ContainerExtractToDir: %v", err)
	}
	req, ok := <-reqCh
	if !ok {
		t.Fatalf("fake daemon never saw a complete request")
	}
	if !strings.HasPrefix(req, "PUT /v1.46/containers/abc/archive?path=") {
		t.Errorf("unexpected request line in %q", req)
	}
	if !strings.Contains(req, "faketar") {
		t.Fatalf("daemon never saw the uploaded content, got %q", req)
	}
}
