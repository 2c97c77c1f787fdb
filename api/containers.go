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

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"github.com/hectolitro/dockwire/transport"
	"github.com/hectolitro/dockwire/transport/stdcopy"
)

// ContainerList returns every container the daemon knows about.
func (c *Client) ContainerList(all bool, filters map[string][]string) ([]ContainerSummary, error) {
	q := transport.NewQueryParams()
	if all {
		q.Set("all", true)
	}
	if len(filters) > 0 {
		b, err := json.Marshal(filters)
		if err != nil {
			return nil, fmt.Errorf("api: encoding filters: %w", err)
		}
		q.Set("filters", string(b))
	}
	req := &transport.Request{Method: transport.MethodGet, Path: "/containers/json", Query: q}
	resp, err := c.do(req, ok200)
	if err != nil {
		return nil, err
	}
	var out []ContainerSummary
	if err := decodeInto(resp, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ContainerCreate creates a container from cfg, optionally under name.
func (c *Client) ContainerCreate(name string, cfg ContainerCreateConfig) (*ContainerCreateResult, error) {
	q := transport.NewQueryParams()
	if name != "" {
		q.Set("name", name)
	}
	req := &transport.Request{
		Method: transport.MethodPost,
		Path:   "/containers/create",
		Query:  q,
		Body:   transport.JSONBody(cfg),
	}
	resp, err := c.do(req, ok201)
	if err != nil {
		return nil, err
	}
	var out ContainerCreateResult
	if err := decodeInto(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ContainerInspect returns one container's detail.
func (c *Client) ContainerInspect(id string) (*ContainerJSON, error) {
	req := &transport.Request{Method: transport.MethodGet, Path: "/containers/" + id + "/json"}
	resp, err := c.do(req, ok200)
	if err != nil {
		return nil, err
	}
	var out ContainerJSON
	if err := decodeInto(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ContainerStart starts a created container.
func (c *Client) ContainerStart(id string) error {
	req := &transport.Request{Method: transport.MethodPost, Path: "/containers/" + id + "/start"}
	_, err := c.do(req, okCodes(204, 304))
	return err
}

// ContainerStop stops a running container, giving it timeoutSeconds to exit
// on its own (0 means use the daemon's default).
func (c *Client) ContainerStop(id string, timeoutSeconds int) error {
	q := transport.NewQueryParams()
	if timeoutSeconds > 0 {
		q.Set("t", timeoutSeconds)
	}
	req := &transport.Request{Method: transport.MethodPost, Path: "/containers/" + id + "/stop", Query: q}
	_, err := c.do(req, okCodes(204, 304))
	return err
}

// ContainerKill sends signal (empty defaults to SIGKILL) to a container.
func (c *Client) ContainerKill(id, signal string) error {
	q := transport.NewQueryParams()
	if signal != "" {
		q.Set("signal", signal)
	}
	req := &transport.Request{Method: transport.MethodPost, Path: "/containers/" + id + "/kill", Query: q}
	_, err := c.do(req, okCodes(204))
	return err
}

// ContainerRestart restarts a container.
func (c *Client) ContainerRestart(id string, timeoutSeconds int) error {
	q := transport.NewQueryParams()
	if timeoutSeconds > 0 {
		q.Set("t", timeoutSeconds)
	}
	req := &transport.Request{Method: transport.MethodPost, Path: "/containers/" + id + "/restart", Query: q}
	_, err := c.do(req, okCodes(204))
	return err
}

// ContainerWait blocks until a container stops and reports its exit code.
func (c *Client) ContainerWait(id, condition string) (*ContainerWaitResult, error) {
	q := transport.NewQueryParams()
	if condition != "" {
		q.Set("condition", condition)
	}
	req := &transport.Request{Method: transport.MethodPost, Path: "/containers/" + id + "/wait", Query: q}
	resp, err := c.do(req, ok200)
	if err != nil {
		return nil, err
	}
	var out ContainerWaitResult
	if err := decodeInto(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ContainerRemove deletes a container.
func (c *Client) ContainerRemove(id string, force, removeVolumes bool) error {
	q := transport.NewQueryParams()
	if force {
		q.Set("force", true)
	}
	if removeVolumes {
		q.Set("v", true)
	}
	req := &transport.Request{Method: transport.MethodDelete, Path: "/containers/" + id, Query: q}
	_, err := c.do(req, okCodes(204))
	return err
}

// ContainersPrune removes every stopped container, optionally filtered.
func (c *Client) ContainersPrune(filters map[string][]string) (*PruneResult, error) {
	q := transport.NewQueryParams()
	if len(filters) > 0 {
		b, err := json.Marshal(filters)
		if err != nil {
			return nil, fmt.Errorf("api: encoding filters: %w", err)
		}
		q.Set("filters", string(b))
	}
	req := &transport.Request{Method: transport.MethodPost, Path: "/containers/prune", Query: q}
	resp, err := c.do(req, ok200)
	if err != nil {
		return nil, err
	}
	var out PruneResult
	if err := decodeInto(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ContainerChanges reports filesystem changes made since the container's
// image was laid down.
func (c *Client) ContainerChanges(id string) ([]FilesystemChange, error) {
	req := &transport.Request{Method: transport.MethodGet, Path: "/containers/" + id + "/changes"}
	resp, err := c.do(req, ok200)
	if err != nil {
		return nil, err
	}
	var out []FilesystemChange
	if err := decodeInto(resp, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ContainerResize resizes an attached container's TTY. The daemon exposes
// this as a separate endpoint from attach itself — the hijacked attach
// connection can't carry further HTTP requests — so this dials its own
// short-lived connection, identifying the target purely by container ID.
func (c *Client) ContainerResize(id string, opts ResizeOptions) error {
	q := transport.NewQueryParams().Set("h", int(opts.Height)).Set("w", int(opts.Width))
	req := &transport.Request{Method: transport.MethodPost, Path: "/containers/" + id + "/resize", Query: q}
	_, err := c.do(req, okCodes(200))
	return err
}

// ContainerAttach upgrades to the container's raw-stream (attach.go
// spec.md §4.8), returning a live transport.StreamSession. The caller owns
// the session's lifetime: Close it when done.
func (c *Client) ContainerAttach(id string, opts transport.SessionOptions) (*transport.StreamSession, error) {
	q := transport.NewQueryParams().Set("stream", true)
	if opts.Stdin {
		q.Set("stdin", true)
	}
	if opts.Stdout {
		q.Set("stdout", true)
	}
	if opts.Stderr != transport.StderrNone {
		q.Set("stderr", true)
	}
	req := transport.UpgradeRequest(transport.MethodPost, "/containers/"+id+"/attach", q)
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
	return transport.NewStreamSession(resp, opts)
}

// ContainerLogs is the supplemented non-interactive sibling of attach
// (SPEC_FULL.md §5): the daemon returns the same multiplexed frame format
// attach uses, but as a plain chunked response body rather than behind a
// 101 upgrade, so the whole body is read up front and demultiplexed
// synchronously with stdcopy.Run rather than handed to a live
// transport.StreamSession.
func (c *Client) ContainerLogs(id string, stdout, stderr, follow bool, tail string) (stdoutLog, stderrLog []byte, err error) {
	q := transport.NewQueryParams()
	if stdout {
		q.Set("stdout", true)
	}
	if stderr {
		q.Set("stderr", true)
	}
	if follow {
		q.Set("follow", true)
	}
	if tail != "" {
		q.Set("tail", tail)
	}
	req := &transport.Request{Method: transport.MethodGet, Path: "/containers/" + id + "/logs", Query: q}
	resp, err := c.do(req, ok200)
	if err != nil {
		return nil, nil, err
	}
	if resp.BodyKind != transport.ResponseBodyBytes {
		return nil, nil, fmt.Errorf("api: expected a raw logs body, got kind %d", resp.BodyKind)
	}

	var outBuf, errBuf bufSink
	var outSink, errSink stdcopy.Sink
	if stdout {
		outSink = &outBuf
	}
	if stderr {
		errSink = &errBuf
	}
	if err := stdcopy.Run(bytes.NewReader(resp.Bytes), outSink, errSink); err != nil {
		return nil, nil, fmt.Errorf("api: demultiplexing logs: %w", err)
	}
	return outBuf.Bytes(), errBuf.Bytes(), nil
}

// bufSink adapts a bytes.Buffer to stdcopy.Sink for the buffered (already
// fully-read) logs body, where there is no consumer to unblock.
type bufSink struct{ bytes.Buffer }

func (*bufSink) CloseWrite() {}

// ContainerArchive downloads path out of container id as an uncompressed
// tar stream (GET /containers/{id}/archive, spec.md §4.9's archive
// operation). Like ContainerLogs, the body is read fully before returning
// rather than streamed, since archive.tar.gz-sized payloads are the common
// case and a raw-bytes body has no incremental-progress story to tell the
// way an image pull does.
func (c *Client) ContainerArchive(id, path string) ([]byte, error) {
	q := transport.NewQueryParams().Set("path", path)
	req := &transport.Request{Method: transport.MethodGet, Path: "/containers/" + id + "/archive", Query: q}
	resp, err := c.do(req, ok200)
	if err != nil {
		return nil, err
	}
	if resp.BodyKind != transport.ResponseBodyBytes {
		return nil, fmt.Errorf("api: expected a raw tar body, got kind %d", resp.BodyKind)
	}
	return resp.Bytes, nil
}

// ContainerArchiveInfo stats path inside container id without transferring
// its contents (HEAD /containers/{id}/archive, spec.md §4.9's archive-info
// operation), decoding the daemon's base64-JSON
// X-Docker-Container-Path-Stat response header.
func (c *Client) ContainerArchiveInfo(id, path string) (*PathStat, error) {
	q := transport.NewQueryParams().Set("path", path)
	req := &transport.Request{Method: transport.MethodHead, Path: "/containers/" + id + "/archive", Query: q}
	resp, err := c.do(req, ok200)
	if err != nil {
		return nil, err
	}
	encoded, ok := resp.HeaderValue("x-docker-container-path-stat")
	if !ok {
		return nil, fmt.Errorf("api: response missing X-Docker-Container-Path-Stat header")
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("api: decoding path-stat header: %w", err)
	}
	var stat PathStat
	if err := json.Unmarshal(raw, &stat); err != nil {
		return nil, fmt.Errorf("api: decoding path-stat body: %w", err)
	}
	return &stat, nil
}

// ContainerExtractToDir extracts the tar stream content into path inside
// container id (PUT /containers/{id}/archive, spec.md §4.9's extract
// operation). noOverwriteDirNonDir and copyUIDGID mirror the daemon's own
// query parameters for this endpoint.
func (c *Client) ContainerExtractToDir(id, path string, content io.Reader, noOverwriteDirNonDir, copyUIDGID bool) error {
	q := transport.NewQueryParams().Set("path", path)
	if noOverwriteDirNonDir {
		q.Set("noOverwriteDirNonDir", true)
	}
	if copyUIDGID {
		q.Set("copyUIDGID", true)
	}
	req := &transport.Request{
		Method: transport.MethodPut,
		Path:   "/containers/" + id + "/archive",
		Query:  q,
		Body:   transport.StreamBody(content),
	}
	_, err := c.do(req, okCodes(200))
	return err
}
