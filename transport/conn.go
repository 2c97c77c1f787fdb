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
	"net"
	"sync"
)

// Connection owns a socket, a push-back reader that reads straight from it
// (reads are not buffered), and a buffered writer that writeRequest flushes
// once per request, plus the host label of the client that dialed it. A Connection is exclusively
// owned by whatever currently holds it — the caller, or an in-flight
// request, or (after an upgrade) a StreamSession.
type Connection struct {
	client *Client
	conn   net.Conn
	in     *pushbackReader
	out    *bufio.Writer

	mu       sync.Mutex
	inFlight bool
	hijacked bool
}

// Dial produces a new Connection from client.
func Dial(client *Client) (*Connection, error) {
	nc, err := client.dial()
	if err != nil {
		return nil, err
	}
	return &Connection{
		client: client,
		conn:   nc,
		in:     newPushbackReader(nc),
		out:    bufio.NewWriter(nc),
	}, nil
}

// Clone re-dials a fresh sibling connection from the same client template.
// A hijacked connection can no longer serve HTTP requests; a clone is a
// separate socket, so hijacking one leaves the other usable. The api
// facade does not call Clone: each attach/exec goes through SimpleRequest
// with no connection, which dials a fresh one.
func (c *Connection) Clone() (*Connection, error) {
	return Dial(c.client)
}

// Host is the Host header value the transport merges into requests dialed
// from this connection's client.
func (c *Connection) Host() string { return c.client.host }

// acquire marks the connection as borrowed by an in-flight HTTP request.
// It fails if the connection is hijacked or already borrowed.
func (c *Connection) acquire() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hijacked || c.inFlight {
		return ErrConnectionInUse
	}
	c.inFlight = true
	return nil
}

func (c *Connection) release() {
	c.mu.Lock()
	c.inFlight = false
	c.mu.Unlock()
}

// markHijacked marks the connection as taken over by a protocol upgrade:
// no further HTTP framing may be applied to it.
func (c *Connection) markHijacked() {
	c.mu.Lock()
	c.hijacked = true
	c.mu.Unlock()
}

// Close closes the connection's write buffer flush, then the socket. Each
// step is attempted independently so a failure in one doesn't suppress the
// others; the first error encountered is returned.
func (c *Connection) Close() error {
	flushErr := c.out.Flush()
	closeErr := c.conn.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
