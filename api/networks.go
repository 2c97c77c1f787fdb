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

// NetworkList returns every network the daemon knows about.
func (c *Client) NetworkList() ([]NetworkSummary, error) {
	req := &transport.Request{Method: transport.MethodGet, Path: "/networks"}
	resp, err := c.do(req, ok200)
	if err != nil {
		return nil, err
	}
	var out []NetworkSummary
	if err := decodeInto(resp, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// NetworkCreate creates a network and returns its ID.
func (c *Client) NetworkCreate(cfg NetworkCreateConfig) (*NetworkCreateResult, error) {
	req := &transport.Request{
		Method: transport.MethodPost,
		Path:   "/networks/create",
		Body:   transport.JSONBody(cfg),
	}
	resp, err := c.do(req, ok201)
	if err != nil {
		return nil, err
	}
	var out NetworkCreateResult
	if err := decodeInto(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// NetworkInspect returns one network's detail, keyed by ID or name.
func (c *Client) NetworkInspect(idOrName string) (*NetworkSummary, error) {
	req := &transport.Request{Method: transport.MethodGet, Path: "/networks/" + idOrName}
	resp, err := c.do(req, ok200)
	if err != nil {
		return nil, err
	}
	var out NetworkSummary
	if err := decodeInto(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// NetworkConnect attaches containerID to a network.
func (c *Client) NetworkConnect(networkID, containerID string) error {
	req := &transport.Request{
		Method: transport.MethodPost,
		Path:   "/networks/" + networkID + "/connect",
		Body:   transport.JSONBody(map[string]any{"container": containerID}),
	}
	_, err := c.do(req, ok200)
	return err
}

// NetworkDisconnect detaches containerID from a network.
func (c *Client) NetworkDisconnect(networkID, containerID string, force bool) error {
	req := &transport.Request{
		Method: transport.MethodPost,
		Path:   "/networks/" + networkID + "/disconnect",
		Body:   transport.JSONBody(map[string]any{"container": containerID, "force": force}),
	}
	_, err := c.do(req, ok200)
	return err
}

// NetworkRemove deletes a network.
func (c *Client) NetworkRemove(idOrName string) error {
	req := &transport.Request{Method: transport.MethodDelete, Path: "/networks/" + idOrName}
	_, err := c.do(req, ok200)
	return err
}
