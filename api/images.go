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
	"encoding/json"
	"fmt"

	"github.com/hectolitro/dockwire/transport"
)

// ImageList returns every image the daemon has, optionally filtered.
func (c *Client) ImageList(filters map[string][]string) ([]ImageSummary, error) {
	q := transport.NewQueryParams()
	if len(filters) > 0 {
		b, err := json.Marshal(filters)
		if err != nil {
			return nil, fmt.Errorf("api: encoding filters: %w", err)
		}
		q.Set("filters", string(b))
	}
	req := &transport.Request{Method: transport.MethodGet, Path: "/images/json", Query: q}
	resp, err := c.do(req, ok200)
	if err != nil {
		return nil, err
	}
	var out []ImageSummary
	if err := decodeInto(resp, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ImageInspect returns the daemon's inspect payload for one image.
func (c *Client) ImageInspect(idOrTag string) (*ImageInspectResult, error) {
	req := &transport.Request{Method: transport.MethodGet, Path: "/images/" + idOrTag + "/json"}
	resp, err := c.do(req, ok200)
	if err != nil {
		return nil, err
	}
	var out ImageInspectResult
	if err := decodeInto(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ImageRemove deletes an image by ID or tag.
func (c *Client) ImageRemove(idOrTag string, force, noPrune bool) error {
	q := transport.NewQueryParams()
	if force {
		q.Set("force", true)
	}
	if noPrune {
		q.Set("noprune", true)
	}
	req := &transport.Request{Method: transport.MethodDelete, Path: "/images/" + idOrTag, Query: q}
	_, err := c.do(req, okCodes(200))
	return err
}

// ImagesPrune removes dangling (or, with filters, all unused) images.
func (c *Client) ImagesPrune(filters map[string][]string) (*PruneResult, error) {
	q := transport.NewQueryParams()
	if len(filters) > 0 {
		b, err := json.Marshal(filters)
		if err != nil {
			return nil, fmt.Errorf("api: encoding filters: %w", err)
		}
		q.Set("filters", string(b))
	}
	req := &transport.Request{Method: transport.MethodPost, Path: "/images/prune", Query: q}
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

// PullProgressStream is the iterator ImagePull returns: each Next call
// pulls one more progress line off the still-open connection as the
// daemon sends it, rather than requiring the whole pull to finish first.
// A caller that stops iterating early (the user interrupted the pull, a
// terminal error elsewhere) must call Close to release the connection.
type PullProgressStream struct {
	seq *transport.JSONSequence
	err error
}

// Next advances to the next progress event. ok is false once the stream
// has ended, either because the pull finished or because an error was
// encountered; call Err to distinguish the two.
func (s *PullProgressStream) Next() (PullProgress, bool) {
	if s.err != nil {
		return PullProgress{}, false
	}
	v, ok, err := s.seq.Next()
	if err != nil {
		s.err = err
		return PullProgress{}, false
	}
	if !ok {
		return PullProgress{}, false
	}
	b, err := json.Marshal(v)
	if err != nil {
		s.err = fmt.Errorf("api: re-marshaling pull progress line: %w", err)
		return PullProgress{}, false
	}
	var p PullProgress
	if err := json.Unmarshal(b, &p); err != nil {
		s.err = fmt.Errorf("api: decoding pull progress line: %w", err)
		return PullProgress{}, false
	}
	if p.Error != "" {
		s.err = fmt.Errorf("api: pull failed: %s", p.Error)
		return PullProgress{}, false
	}
	return p, true
}

// Err returns the error, if any, that ended iteration early. It returns
// nil if Next returned ok=false because the daemon closed the stream
// normally.
func (s *PullProgressStream) Err() error { return s.err }

// Close releases the stream's connection. Safe to call after Next has
// already reported the end of the stream, and safe to call more than
// once.
func (s *PullProgressStream) Close() error { return s.seq.Close() }

// ImagePull starts pulling ref and returns a stream of progress events as
// the daemon reports them (spec.md §6's streaming JSON-sequence body). The
// request sets ExpectMultipleJSONObjects so transport keeps the underlying
// connection open and decodes the body incrementally rather than as one
// pre-buffered value; callers like cmd/dockwire's pull command range over
// Next to render progress live instead of blocking for the whole pull.
func (c *Client) ImagePull(ref string, registryAuth string) (*PullProgressStream, error) {
	q := transport.NewQueryParams().Set("fromImage", ref)
	header := map[string]string{}
	if registryAuth != "" {
		header["x-registry-auth"] = registryAuth
	}
	req := &transport.Request{
		Method:                    transport.MethodPost,
		Path:                      "/images/create",
		Query:                     q,
		Header:                    header,
		ExpectMultipleJSONObjects: true,
	}
	resp, err := c.do(req, ok200)
	if err != nil {
		return nil, err
	}
	if resp.BodyKind != transport.ResponseBodyJSONSequence {
		return nil, fmt.Errorf("api: expected a JSON sequence body for image pull, got kind %d", resp.BodyKind)
	}
	return &PullProgressStream{seq: resp.JSONSeq}, nil
}
