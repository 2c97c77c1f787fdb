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

// Package api is the thin facade over transport: one method per Docker
// Engine API operation, each building a transport.Request, dispatching it,
// and decoding the already key-transformed response body into a typed
// value. It does not reimplement anything transport already does.
package api

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/hectolitro/dockwire/transport"
)

// Client is a connected facade around one Docker daemon.
type Client struct {
	transport *transport.Client
	logger    *log.Logger
}

// Options configures NewClient.
type Options struct {
	// Socket is the Unix socket path. Empty uses transport.DefaultSocketPath.
	Socket string
	Logger *log.Logger
}

// NewClient dials nothing yet: it just builds the transport.Client
// connections are opened from per request.
func NewClient(opts Options) (*Client, error) {
	tc, err := transport.NewClient("unix", opts.Socket)
	if err != nil {
		return nil, fmt.Errorf("api: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Client{transport: tc, logger: logger}, nil
}

// NewClientWithDialer wraps an already-built transport.Client, for callers
// who need transport.NewClientWithDialer's extension point (TLS, TCP, tests).
func NewClientWithDialer(tc *transport.Client, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	return &Client{transport: tc, logger: logger}
}

// do runs req to completion on a short-lived connection, asserts that its
// status is one of accept's, and returns the raw response for the caller
// to decode (some endpoints return no body, others bytes or text).
func (c *Client) do(req *transport.Request, accept transport.AcceptStatus) (*transport.Response, error) {
	resp, err := transport.SimpleRequest(c.transport, nil, req)
	if err != nil {
		return nil, err
	}
	if err := transport.AssertStatus(resp, accept); err != nil {
		return nil, err
	}
	return resp, nil
}

// decodeInto re-marshals resp's already caller-keyed JSON value and
// unmarshals it into out, letting every typed response reuse the same
// struct-tag-driven decode path transport's namekey transform already
// normalized the key casing for.
func decodeInto(resp *transport.Response, out any) error {
	if resp.BodyKind == transport.ResponseBodyAbsent {
		return nil
	}
	if resp.BodyKind != transport.ResponseBodyJSON {
		return fmt.Errorf("api: expected a JSON body, got kind %d", resp.BodyKind)
	}
	b, err := json.Marshal(resp.JSON)
	if err != nil {
		return fmt.Errorf("api: re-marshaling decoded body: %w", err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("api: decoding body into %T: %w", out, err)
	}
	return nil
}

func ok200(code int) bool { return code == 200 }
func ok201(code int) bool { return code == 201 }

func okCodes(codes ...int) transport.AcceptStatus { return transport.StatusIn(codes...) }
