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
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/hectolitro/dockwire/transport/chunked"
	"github.com/hectolitro/dockwire/transport/namekey"
)

// writeRequest writes req's request line, headers, and body to conn's
// output buffer and flushes it. Query-value and body encoding follow
// spec.md §4.6.
func writeRequest(conn *Connection, req *Request) error {
	if req.Method == "" {
		req.Method = MethodGet
	}

	line, err := requestLine(req)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(conn.out, line); err != nil {
		return err
	}

	caller := make(map[string]string, len(req.Header))
	for k, v := range req.Header {
		caller[lower(k)] = v
	}

	// Emission order: transfer-encoding and content-type (when the
	// transport adds them for a body), then the rest of the caller's
	// headers, then host last — merged in only if the caller didn't
	// already set one (spec §9 Open Questions: an explicit contract).
	var ordered []string
	if req.Body.isSet() {
		ordered = append(ordered, "transfer-encoding: chunked")
		delete(caller, "transfer-encoding")
		if ct, hasCT := caller["content-type"]; hasCT {
			// The caller set an explicit content-type — e.g. an
			// attach/exec upgrade request (UpgradeRequest) that also
			// carries a JSON body still needs
			// application/vnd.docker.raw-stream on the wire, not the
			// default JSON content-type below. Caller-supplied
			// content-type always wins, mirroring the host-header
			// override contract.
			ordered = append(ordered, "content-type: "+ct)
			delete(caller, "content-type")
		} else if req.Body.kind == bodyJSON {
			ordered = append(ordered, "content-type: application/json; charset=utf-8")
		}
	}
	callerHost, hasHost := caller["host"]
	delete(caller, "host")

	names := make([]string, 0, len(caller))
	for k := range caller {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		ordered = append(ordered, fmt.Sprintf("%s: %s", k, caller[k]))
	}
	if hasHost {
		ordered = append(ordered, "host: "+callerHost)
	} else {
		ordered = append(ordered, "host: "+conn.Host())
	}

	for _, line := range ordered {
		if _, err := fmt.Fprintf(conn.out, "%s\r\n", line); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(conn.out, "\r\n"); err != nil {
		return err
	}

	if req.Body.isSet() {
		bodyWriter := chunked.NewWriter(conn.out)
		if err := writeBody(bodyWriter, req.Body); err != nil {
			return err
		}
		if err := bodyWriter.Close(); err != nil {
			return err
		}
	}

	return conn.out.Flush()
}

func requestLine(req *Request) (string, error) {
	var b strings.Builder
	b.WriteString(string(req.Method))
	b.WriteByte(' ')
	b.WriteString(APIPrefix)
	b.WriteString(req.Path)
	if !req.Query.Empty() {
		qs, err := encodeQuery(req.Query)
		if err != nil {
			return "", err
		}
		b.WriteByte('?')
		b.WriteString(qs)
	}
	b.WriteString(" HTTP/1.1\r\n")
	return b.String(), nil
}

// encodeQuery renders q in caller-supplied key order. String values are
// URL-encoded UTF-8; numbers become decimal strings; anything else is
// compact-JSON-encoded then URL-encoded.
func encodeQuery(q *QueryParams) (string, error) {
	var parts []string
	for _, k := range q.keys {
		v := q.values[k]
		enc, err := encodeQueryValue(v)
		if err != nil {
			return "", fmt.Errorf("encoding query parameter %q: %w", k, err)
		}
		parts = append(parts, url.QueryEscape(k)+"="+enc)
	}
	return strings.Join(parts, "&"), nil
}

func encodeQueryValue(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return url.QueryEscape(t), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		b, err := json.Marshal(namekey.ToDocker(v))
		if err != nil {
			return "", err
		}
		return url.QueryEscape(string(b)), nil
	}
}

func writeBody(w io.Writer, body Body) error {
	switch body.kind {
	case bodyJSON:
		// Go through a generic JSON value first so tagged structs get the
		// same key transform as maps; UseNumber keeps numbers exact.
		raw, err := json.Marshal(body.JSON)
		if err != nil {
			return fmt.Errorf("%w: encoding JSON body: %v", ErrUnsupportedBody, err)
		}
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var generic any
		if err := dec.Decode(&generic); err != nil {
			return fmt.Errorf("%w: encoding JSON body: %v", ErrUnsupportedBody, err)
		}
		b, err := json.Marshal(namekey.ToDocker(generic))
		if err != nil {
			return fmt.Errorf("%w: encoding JSON body: %v", ErrUnsupportedBody, err)
		}
		_, err = w.Write(b)
		return err
	case bodyText:
		_, err := io.WriteString(w, body.Text)
		return err
	case bodyBytes:
		_, err := w.Write(body.Bytes)
		return err
	case bodyStream:
		_, err := io.Copy(w, body.Stream)
		return err
	default:
		return nil
	}
}
