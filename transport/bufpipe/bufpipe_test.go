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

package bufpipe

import (
	"io"
	"testing"
)

func TestPipeDeliversInOrderThenEOF(t *testing.T) {
	p := New()
	go func() {
		p.Write([]byte("hello"))
		p.Write([]byte(" world"))
		p.CloseWrite()
	}()

	got, err := io.ReadAll(p)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "hello world" {
		t.Fatalf("got %q", got)
	}
}

func TestPipeHonorsPartialReads(t *testing.T) {
	p := New()
	p.Write([]byte("abcdef"))
	p.CloseWrite()

	buf := make([]byte, 2)
	n, err := p.Read(buf)
	if err != nil || n != 2 || string(buf[:n]) != "ab" {
		t.Fatalf("first read: n=%d err=%v buf=%q", n, err, buf[:n])
	}
	n, err = p.Read(buf)
	if err != nil || n != 2 || string(buf[:n]) != "cd" {
		t.Fatalf("second read: n=%d err=%v buf=%q", n, err, buf[:n])
	}
}

func TestPipeRejectsWriteAfterConsumerClose(t *testing.T) {
	p := New()
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := p.Write([]byte("x")); err != io.ErrClosedPipe {
		t.Fatalf("expected ErrClosedPipe, got %v", err)
	}
}

func TestPipeCloseIsIdempotent(t *testing.T) {
	p := New()
	if err := p.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
