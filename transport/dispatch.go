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

// Do writes req over conn and reads its response on the same connection.
// The connection must not already be in flight or hijacked. conn is never
// closed by Do — the caller (or SimpleRequest) owns that decision, per
// spec.md invariant 1.
func Do(conn *Connection, req *Request) (*Response, error) {
	if err := conn.acquire(); err != nil {
		return nil, err
	}
	defer conn.release()

	if err := writeRequest(conn, req); err != nil {
		return nil, err
	}
	resp, err := readResponse(conn, req.ExpectMultipleJSONObjects)
	if err != nil {
		return nil, err
	}
	if resp.Upgraded {
		conn.markHijacked()
	}
	return resp, nil
}

// SimpleRequest dials a short-lived connection from client, executes req,
// and closes the connection before returning — unless conn is supplied, in
// which case it is used and left open for the caller to manage.
//
// Two response shapes keep an owned connection open past this call instead:
// an upgrade (the caller builds a StreamSession from resp.Conn) and a live
// JSON sequence (resp.JSONSeq reads off the connection as the caller drains
// it; resp.JSONSeq.Close eventually closes the connection).
func SimpleRequest(client *Client, conn *Connection, req *Request) (*Response, error) {
	owned := conn == nil
	if owned {
		var err error
		conn, err = Dial(client)
		if err != nil {
			return nil, err
		}
	}
	resp, err := Do(conn, req)
	keepOpen := resp != nil && (resp.Upgraded || resp.BodyKind == ResponseBodyJSONSequence)
	if owned && !keepOpen {
		conn.Close()
	}
	return resp, err
}

// AcceptStatus is a predicate over HTTP status codes, used by AssertStatus.
type AcceptStatus func(code int) bool

// StatusIn returns an AcceptStatus matching any of the given codes.
func StatusIn(codes ...int) AcceptStatus {
	set := make(map[int]bool, len(codes))
	for _, c := range codes {
		set[c] = true
	}
	return func(code int) bool { return set[code] }
}

// AssertStatus returns a *StatusError if resp's status code does not
// satisfy accept, including any decoded "message" field from a JSON body
// for diagnostics.
func AssertStatus(resp *Response, accept AcceptStatus) error {
	if accept(resp.StatusCode) {
		return nil
	}
	msg := ""
	if resp.BodyKind == ResponseBodyJSON {
		if m, ok := resp.JSON.(map[string]any); ok {
			if s, ok := m["message"].(string); ok {
				msg = s
			}
		}
	}
	return &StatusError{StatusCode: resp.StatusCode, Message: msg, Response: resp}
}
