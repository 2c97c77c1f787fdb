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
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/hectolitro/dockwire/transport/chunked"
	"github.com/hectolitro/dockwire/transport/namekey"
)

// readResponse parses a status line, headers, and body from conn's input,
// following spec.md §4.6. On a 101 response no body is read; In/Out/Conn
// are attached instead so the caller can build a StreamSession.
func readResponse(conn *Connection, expectMultipleJSON bool) (*Response, error) {
	status, reason, err := readStatusLine(conn.in)
	if err != nil {
		return nil, err
	}

	headers, err := readHeaders(conn.in)
	if err != nil {
		return nil, err
	}

	resp := &Response{StatusCode: status, Header: headers}
	_ = reason

	if status == 101 {
		resp.Upgraded = true
		resp.In = conn.in
		resp.Out = conn.conn // unbuffered: stdin bytes reach the socket on each write
		resp.Conn = conn
		return resp, nil
	}

	bodyReader, err := selectBodyReader(conn, headers)
	if err != nil {
		return nil, err
	}
	if err := decodeBody(resp, bodyReader, headers, expectMultipleJSON, conn); err != nil {
		return nil, err
	}
	return resp, nil
}

// readStatusLine reads "HTTP/1.1 <status> <reason>\r\n". A literal "0" on
// the line is a leaked empty chunk (the daemon quirk's second symptom,
// spec.md §4.6 step 1): consume its trailing CRLF and retry.
func readStatusLine(r *pushbackReader) (int, string, error) {
	for {
		line, err := readCRLFLine(r)
		if err != nil {
			return 0, "", err
		}
		if line == "0" {
			// Leaked empty terminal chunk from a prior quirky response:
			// "0\r\n" (just consumed) followed by an empty trailer line
			// "\r\n". Consume that second CRLF, then retry.
			if _, err := readCRLFLine(r); err != nil {
				return 0, "", err
			}
			continue
		}
		const prefix = "HTTP/1.1 "
		if !strings.HasPrefix(line, prefix) {
			return 0, "", ProtocolError("malformed status line %q", line)
		}
		rest := line[len(prefix):]
		sp := strings.IndexByte(rest, ' ')
		var codeStr, reason string
		if sp < 0 {
			codeStr = rest
		} else {
			codeStr, reason = rest[:sp], rest[sp+1:]
		}
		code, err := strconv.Atoi(codeStr)
		if err != nil {
			return 0, "", ProtocolError("malformed status code %q", codeStr)
		}
		return code, reason, nil
	}
}

func readCRLFLine(r *pushbackReader) (string, error) {
	var b []byte
	for {
		c, err := r.ReadByte()
		if err != nil {
			return "", err
		}
		if c == '\r' {
			nl, err := r.ReadByte()
			if err != nil {
				return "", err
			}
			if nl != '\n' {
				return "", ProtocolError("expected LF after CR")
			}
			return string(b), nil
		}
		b = append(b, c)
	}
}

func readHeaders(r *pushbackReader) (map[string]string, error) {
	headers := make(map[string]string)
	for {
		line, err := readCRLFLine(r)
		if err != nil {
			return nil, fmt.Errorf("%w: reading headers: %v", ErrProtocol, err)
		}
		if line == "" {
			return headers, nil
		}
		i := strings.IndexByte(line, ':')
		if i < 0 {
			return nil, ProtocolError("malformed header line %q", line)
		}
		name := lower(strings.TrimSpace(line[:i]))
		value := strings.TrimSpace(line[i+1:])
		headers[name] = value
	}
}

func selectBodyReader(conn *Connection, headers map[string]string) (io.Reader, error) {
	var body io.Reader
	if te, ok := headers["transfer-encoding"]; ok && strings.Contains(te, "chunked") {
		body = chunked.NewReader(conn.in)
	} else {
		n := 0
		if cl, ok := headers["content-length"]; ok {
			var err error
			n, err = strconv.Atoi(cl)
			if err != nil {
				return nil, ProtocolError("malformed content-length %q", cl)
			}
		}
		body = newLimitReader(conn.in, n)
	}
	if enc, ok := headers["content-encoding"]; ok && strings.Contains(enc, "gzip") {
		gz, err := gzip.NewReader(body)
		if err != nil {
			return nil, fmt.Errorf("%w: opening gzip body: %v", ErrProtocol, err)
		}
		body = gz
	}
	return body, nil
}

func decodeBody(resp *Response, body io.Reader, headers map[string]string, expectMultipleJSON bool, conn *Connection) error {
	ct := headers["content-type"]
	mediaType := ct
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		mediaType = strings.TrimSpace(ct[:i])
	}

	switch {
	case mediaType == "application/json" && expectMultipleJSON:
		// Unlike every other case below, the body is not read here: the
		// caller (api.Client.ImagePull) pulls one JSON line at a time off
		// the still-open connection as the daemon sends them, so progress
		// can render live instead of waiting for the whole pull to finish.
		// conn stays open past this function's return; JSONSequence.Close
		// (called once the caller drains or abandons the stream) is what
		// eventually closes it.
		resp.BodyKind = ResponseBodyJSONSequence
		resp.JSONSeq = newJSONSequence(body, conn)
	case mediaType == "application/json":
		var v any
		dec := json.NewDecoder(body)
		if err := dec.Decode(&v); err != nil {
			if err == io.EOF {
				resp.BodyKind = ResponseBodyAbsent
				return nil
			}
			return fmt.Errorf("%w: decoding JSON body: %v", ErrProtocol, err)
		}
		// json.Decoder only pulls as many bytes as the value needs; the
		// chunked reader must still be driven to its terminal chunk (and
		// past any trailing-quirk bytes) so the connection stays aligned
		// for the next response (spec.md invariant 2).
		if _, err := io.Copy(io.Discard, body); err != nil {
			return fmt.Errorf("%w: draining JSON body framing: %v", ErrProtocol, err)
		}
		resp.BodyKind = ResponseBodyJSON
		resp.JSON = namekey.FromDocker(v)
	case mediaType == "text/plain":
		b, err := io.ReadAll(body)
		if err != nil {
			return fmt.Errorf("%w: reading text body: %v", ErrProtocol, err)
		}
		resp.BodyKind = ResponseBodyText
		resp.Text = string(b)
	default:
		b, err := io.ReadAll(body)
		if err != nil {
			return fmt.Errorf("%w: reading body: %v", ErrProtocol, err)
		}
		if len(b) == 0 {
			resp.BodyKind = ResponseBodyAbsent
			return nil
		}
		resp.BodyKind = ResponseBodyBytes
		resp.Bytes = b
	}
	return nil
}

// JSONSequence is a live iterator over a body that is a sequence of JSON
// objects, one per line (spec.md §6, the image-pull streaming variant).
// Unlike the single-value JSON body kind, the body is not read until Next
// is called, so a caller can render each line as it arrives off the wire
// instead of waiting for the daemon to finish the whole response.
type JSONSequence struct {
	sc     *bufio.Scanner
	conn   *Connection
	closed bool
}

func newJSONSequence(body io.Reader, conn *Connection) *JSONSequence {
	sc := bufio.NewScanner(body)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &JSONSequence{sc: sc, conn: conn}
}

// Next decodes and returns the next element, applying the from-Docker key
// transform. ok is false once the body is exhausted, in which case Close
// has already been called; it is also false on error, which the caller
// must then check. Blank lines are skipped rather than surfaced.
func (s *JSONSequence) Next() (any, bool, error) {
	for s.sc.Scan() {
		line := strings.TrimRight(s.sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		var v any
		if err := json.Unmarshal([]byte(line), &v); err != nil {
			err = fmt.Errorf("%w: decoding JSON sequence element: %v", ErrProtocol, err)
			s.Close()
			return nil, false, err
		}
		return namekey.FromDocker(v), true, nil
	}
	err := s.sc.Err()
	if err != nil {
		err = fmt.Errorf("%w: reading JSON sequence: %v", ErrProtocol, err)
	}
	s.Close()
	return nil, false, err
}

// Close releases the connection this sequence was reading from. Safe to
// call more than once, and safe to call before Next has reported the end
// of the stream — the caller may abandon iteration early.
func (s *JSONSequence) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close()
}
