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

// ExecCreate registers a new exec instance against a running container and
// returns its ID. The instance doesn't run until ExecStart is called.
func (c *Client) ExecCreate(containerID string, cfg ExecCreateConfig) (*ExecCreateResult, error) {
	req := &transport.Request{
		Method: transport.MethodPost,
		Path:   "/containers/" + containerID + "/exec",
		Body:   transport.JSONBody(cfg),
	}
	resp, err := c.do(req, ok201)
	if err != nil {
		return nil, err
	}
	var out ExecCreateResult
	if err := decodeInto(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExecInspect reports an exec instance's running state and, once it has
// exited, its exit code.
func (c *Client) ExecInspect(execID string) (*ExecInspectResult, error) {
	req := &transport.Request{Method: transport.MethodGet, Path: "/exec/" + execID + "/json"}
	resp, err := c.do(req, ok200)
	if err != nil {
		return nil, err
	}
	var out ExecInspectResult
	if err := decodeInto(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExecStart runs a created exec instance attached (upgrading to the
// multiplexed raw stream, like ContainerAttach) and returns the live
// session.
func (c *Client) ExecStart(execID string, tty bool, sessOpts transport.SessionOptions) (*transport.StreamSession, error) {
	req := transport.UpgradeRequest(transport.MethodPost, "/exec/"+execID+"/start", nil)
	req.Body = transport.JSONBody(ExecStartConfig{Detach: false, Tty: tty})
	resp, err := transport.SimpleRequest(c.transport, nil, req)
	if err != nil {
		return nil, err
	}
	if !resp.Upgraded {
		err := transport.AssertStatus(resp, okCodes(101))
		if se, ok := err.(*transport.StatusError); ok {
			se.Err = transport.ErrUpgradeFailed
		}
		return nil, err
	}
	return transport.NewStreamSession(resp, sessOpts)
}

// ExecStartDetached runs a created exec instance without attaching to it;
// the caller polls ExecInspect for the exit code.
func (c *Client) ExecStartDetached(execID string) error {
	req := &transport.Request{
		Method: transport.MethodPost,
		Path:   "/exec/" + execID + "/start",
		Body:   transport.JSONBody(ExecStartConfig{Detach: true}),
	}
	_, err := c.do(req, okCodes(200))
	return err
}

// ExecResize resizes a running exec instance's TTY (SPEC_FULL.md §5, needed
// for an interactive `dockwire exec` backed by a pty whose size changes).
func (c *Client) ExecResize(execID string, opts ResizeOptions) error {
	q := transport.NewQueryParams().Set("h", int(opts.Height)).Set("w", int(opts.Width))
	req := &transport.Request{Method: transport.MethodPost, Path: "/exec/" + execID + "/resize", Query: q}
	_, err := c.do(req, okCodes(200))
	return err
}
