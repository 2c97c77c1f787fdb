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

// Package transport implements the wire-level Docker Engine API client: a
// hand-rolled HTTP/1.1 client over a Unix domain socket, chunked transfer
// coding in both directions, the protocol-upgraded raw-stream mode used by
// attach/exec, and the demultiplexer that splits it back into independent
// stdout/stderr streams.
package transport

import (
	"fmt"
	"net"
)

// DefaultSocketPath is where the Docker daemon listens by default.
const DefaultSocketPath = "/var/run/docker.sock"

// APIPrefix is prepended to every request path (spec §3, §6).
const APIPrefix = "/v1.46"

// dialFunc produces a fresh connected net.Conn on demand.
type dialFunc func() (net.Conn, error)

// Client is an immutable factory for connections to one Docker daemon. It
// carries the scheme-dispatched dial thunk and the logical host string used
// as the HTTP Host header.
type Client struct {
	dial dialFunc
	host string
}

// NewClient builds a Client for scheme ("unix" is the only one specified;
// the type is open to extension by adding cases to the switch below). addr
// is the scheme-specific address: for "unix" it is a socket path, defaulting
// to DefaultSocketPath when empty.
func NewClient(scheme, addr string) (*Client, error) {
	switch scheme {
	case "unix":
		path := addr
		if path == "" {
			path = DefaultSocketPath
		}
		return &Client{
			dial: func() (net.Conn, error) { return net.Dial("unix", path) },
			host: "localhost",
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
	}
}

// NewClientWithDialer builds a Client around a caller-supplied dial
// function and host label. This is the extension point spec.md §6 reserves
// for transports beyond "unix" (TCP, TLS, an in-memory pipe for tests).
func NewClientWithDialer(host string, dial func() (net.Conn, error)) *Client {
	return &Client{dial: dial, host: host}
}

// Host returns the client's logical host label, used as the HTTP Host
// header on requests dialed from this client.
func (c *Client) Host() string { return c.host }
