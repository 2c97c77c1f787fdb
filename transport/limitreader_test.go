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
	"io"
	"strings"
	"testing"
)

func TestLimitReaderStopsAtN(t *testing.T) {
	lr := newLimitReader(strings.NewReader("hello, world"), 5)
	b, err := io.ReadAll(lr)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(b) != "hello" {
		t.Fatalf("got %q, want %q", b, "hello")
	}
	if n, err := lr.Read(make([]byte, 1)); n != 0 || err != io.EOF {
		t.Fatalf("Read past limit = (%d, %v), want (0, io.EOF)", n, err)
	}
}

func TestLimitReaderShortUnderlyingIsUnexpectedEOF(t *testing.T) {
	lr := newLimitReader(strings.NewReader("short"), 10)
	_, err := io.ReadAll(lr)
	if err != io.ErrUnexpectedEOF {
		t.Fatalf("err = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestPushbackReaderUnreadOrdering(t *testing.T) {
	p := newPushbackReader(strings.NewReader("CDE"))
	p.Unread([]byte("AB"))
	got := make([]byte, 5)
	if _, err := io.ReadFull(p, got); err != nil {
		t.Fatalf("ReadFull: %v", err)
	}
	if string(got) != "ABCDE" {
		t.Fatalf("got %q, want %q", got, "ABCDE")
	}
}

func TestPushbackReaderReadByte(t *testing.T) {
	p := newPushbackReader(strings.NewReader("z"))
	p.Unread([]byte{'a'})
	b, err := p.ReadByte()
	if err != nil || b != 'a' {
		t.Fatalf("ReadByte = (%q, %v), want ('a', nil)", b, err)
	}
	b, err = p.ReadByte()
	if err != nil || b != 'z' {
		t.Fatalf("ReadByte = (%q, %v), want ('z', nil)", b, err)
	}
}
