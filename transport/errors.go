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
	"errors"
	"fmt"
)

// Sentinel errors for the taxonomy in spec §7. Wrap with fmt.Errorf("...: %w", Err...)
// so callers can errors.Is against these while still getting diagnostic context.
var (
	// ErrUnsupportedScheme is returned by NewClient for a scheme other than "unix".
	ErrUnsupportedScheme = errors.New("dockwire: unsupported client scheme")

	// ErrProtocol covers malformed status lines, headers, chunk framing, and
	// raw-stream frame headers.
	ErrProtocol = errors.New("dockwire: protocol error")

	// ErrUnsupportedBody covers request bodies of a type the writer cannot
	// serialize, and response content-types the decoder does not recognize.
	ErrUnsupportedBody = errors.New("dockwire: unsupported body")

	// ErrUpgradeFailed covers an attach/exec request whose response was not
	// a 101 with the multiplexed-stream content-type.
	ErrUpgradeFailed = errors.New("dockwire: upgrade failed")

	// ErrConnectionInUse is returned when a request is attempted with a
	// Connection already borrowed by an in-flight request or hijacked by a
	// StreamSession.
	ErrConnectionInUse = errors.New("dockwire: connection already in use")
)

// StatusError is raised by AssertStatus when a response's status code is
// not in the caller-declared acceptable set. It carries the full response
// for diagnostics, including any decoded "message" field. Err, when set,
// lets callers errors.Is against one of the sentinels above (e.g.
// ErrUpgradeFailed for a failed attach/exec handshake).
type StatusError struct {
	StatusCode int
	Message    string
	Response   *Response
	Err        error
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("dockwire: unexpected status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("dockwire: unexpected status %d", e.StatusCode)
}

func (e *StatusError) Unwrap() error { return e.Err }

// ProtocolError annotates ErrProtocol with what was expected vs seen.
func ProtocolError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrProtocol, fmt.Sprintf(format, args...))
}
