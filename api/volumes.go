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

// VolumeList returns every volume the daemon knows about.
func (c *Client) VolumeList() (*VolumeListResult, error) {
	req := &transport.Request{Method: transport.MethodGet, Path: "/volumes"}
	resp, err := c.do(req, ok200)
	if err != nil {
		return nil, err
	}
	var out VolumeListResult
	if err := decodeInto(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VolumeCreate creates a volume.
func (c *Client) VolumeCreate(cfg VolumeCreateConfig) (*Volume, error) {
	req := &transport.Request{
		Method: transport.MethodPost,
		Path:   "/volumes/create",
		Body:   transport.JSONBody(cfg),
	}
	resp, err := c.do(req, ok201)
	if err != nil {
		return nil, err
	}
	var out Volume
	if err := decodeInto(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VolumeInspect returns one volume's detail.
func (c *Client) VolumeInspect(name string) (*Volume, error) {
	req := &transport.Request{Method: transport.MethodGet, Path: "/volumes/" + name}
	resp, err := c.do(req, ok200)
	if err != nil {
		return nil, err
	}
	var out Volume
	if err := decodeInto(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VolumeRemove deletes a volume.
func (c *Client) VolumeRemove(name string, force bool) error {
	q := transport.NewQueryParams()
	if force {
		q.Set("force", true)
	}
	req := &transport.Request{Method: transport.MethodDelete, Path: "/volumes/" + name, Query: q}
	_, err := c.do(req, okCodes(204))
	return err
}
