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

import "github.com/hectolitro/dockwire/transport"

// Ping hits /_ping and reports whether the daemon answered with 200. This
// is the supplemented health-check endpoint SPEC_FULL.md §5 adds: cheap
// enough to poll before every other call in a CLI's startup path.
func (c *Client) Ping() error {
	req := &transport.Request{Method: transport.MethodGet, Path: "/_ping"}
	_, err := c.do(req, ok200)
	return err
}

// Info returns the daemon's /info payload.
func (c *Client) Info() (*Info, error) {
	req := &transport.Request{Method: transport.MethodGet, Path: "/info"}
	resp, err := c.do(req, ok200)
	if err != nil {
		return nil, err
	}
	var out Info
	if err := decodeInto(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Version returns the daemon's /version payload.
func (c *Client) Version() (*Version, error) {
	req := &transport.Request{Method: transport.MethodGet, Path: "/version"}
	resp, err := c.do(req, ok200)
	if err != nil {
		return nil, err
	}
	var out Version
	if err := decodeInto(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
