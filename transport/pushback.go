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
	"net"
	"time"
)

// pushbackMin is the minimum look-ahead capacity a pushbackReader must
// support: the chunked reader's trailing-quirk absorber needs to shove back
// up to 5 bytes ("0\r\n\r\n") when it only partially matches.
const pushbackMin = 5

// pushbackReader layers a small unread buffer on top of an io.Reader, so
// bytes consumed while probing for the daemon's trailing-empty-chunk quirk
// can be handed back verbatim to the next reader (the HTTP status-line
// parser of the following response).
type pushbackReader struct {
	r   io.Reader
	buf []byte // unread bytes, buf[0] is the next byte to hand out
}

func newPushbackReader(r io.Reader) *pushbackReader {
	return &pushbackReader{r: r, buf: make([]byte, 0, pushbackMin*2)}
}

func (p *pushbackReader) Read(dst []byte) (int, error) {
	if len(p.buf) > 0 {
		n := copy(dst, p.buf)
		p.buf = p.buf[n:]
		return n, nil
	}
	return p.r.Read(dst)
}

// Unread pushes b back so the next Read returns it before any new bytes
// from the underlying stream. Bytes are pushed back in the order given:
// Unread([]byte{'a','b'}) followed by Read yields 'a' then 'b'.
func (p *pushbackReader) Unread(b []byte) {
	if len(b) == 0 {
		return
	}
	buf := make([]byte, 0, len(b)+len(p.buf))
	buf = append(buf, b...)
	buf = append(buf, p.buf...)
	p.buf = buf
}

// ReadByte lets pushbackReader satisfy io.ByteReader for consumers (the
// chunked reader's hex-digit scan) that read one byte at a time.
func (p *pushbackReader) ReadByte() (byte, error) {
	var b [1]byte
	_, err := io.ReadFull(p, b[:])
	return b[0], err
}

// TryReadByte reads one byte without blocking past whatever the underlying
// stream already has ready, reporting ok=false rather than waiting for more.
// Over a net.Conn this pins the read deadline to "now": bytes already
// sitting in the kernel's socket buffer are returned immediately, and their
// absence returns ok=false instead of blocking on a peer, like the daemon
// after a chunked body with no trailing quirk, who isn't going to send
// anything until this process writes its next request. Readers that don't
// support deadlines (tests, in-memory fixtures) don't block on exhaustion
// to begin with, so they're read directly.
func (p *pushbackReader) TryReadByte() (byte, bool) {
	if len(p.buf) > 0 {
		b := p.buf[0]
		p.buf = p.buf[1:]
		return b, true
	}
	nc, ok := p.r.(net.Conn)
	if !ok {
		b, err := p.ReadByte()
		return b, err == nil
	}
	if err := nc.SetReadDeadline(time.Now()); err != nil {
		return 0, false
	}
	defer nc.SetReadDeadline(time.Time{})
	var b [1]byte
	if _, err := nc.Read(b[:]); err != nil {
		return 0, false
	}
	return b[0], true
}
