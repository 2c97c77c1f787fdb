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
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hectolitro/dockwire/transport"
)

func TestDecodeIntoAppliesStructTags(t *testing.T) {
	resp := &transport.Response{
		BodyKind: transport.ResponseBodyJSON,
		JSON: map[string]any{
			"id":          "abc123",
			"names":       []any{"/web"},
			"image":       "nginx:latest",
			"image-id":    "sha256:deadbeef",
			"state":       "running",
			"status":      "Up 2 minutes",
			"host-config": map[string]any{"network-mode": "bridge"},
		},
	}
	var out []ContainerSummary
	// decodeInto expects a JSON array at the top level for slice targets;
	// wrap the single map to exercise the same marshal/unmarshal path a
	// real ContainerList response takes.
	resp.JSON = []any{resp.JSON}
	if err := decodeInto(resp, &out); err != nil {
		t.Fatalf("decodeInto: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("len = %d", len(out))
	}
	want := ContainerSummary{
		ID:      "abc123",
		Names:   []string{"/web"},
		Image:   "nginx:latest",
		ImageID: "sha256:deadbeef",
		State:   "running",
		Status:  "Up 2 minutes",
	}
	want.HostConfig.NetworkMode = "bridge"
	if diff := cmp.Diff(want, out[0]); diff != "" {
		t.Fatalf("decoded mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeIntoAbsentBodyIsNoop(t *testing.T) {
	resp := &transport.Response{BodyKind: transport.ResponseBodyAbsent}
	var out ContainerJSON
	if err := decodeInto(resp, &out); err != nil {
		t.Fatalf("decodeInto: %v", err)
	}
}

func TestImageSummaryDigestValidatesID(t *testing.T) {
	s := ImageSummary{ID: "sha256:" + sha256HexOfZeroLen}
	if _, err := s.Digest(); err != nil {
		t.Fatalf("Digest: %v", err)
	}
	bad := ImageSummary{ID: "not-a-digest"}
	if _, err := bad.Digest(); err == nil {
		t.Fatalf("expected error for malformed digest")
	}
}

// sha256HexOfZeroLen is sha256("")'s hex digest, a convenient well-formed
// 64-character hex string for digest.Digest validation.
const sha256HexOfZeroLen = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

func TestPullProgressDecodesErrorField(t *testing.T) {
	line := []byte(`{"error":"manifest unknown","status":""}`)
	var p PullProgress
	if err := json.Unmarshal(line, &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Error != "manifest unknown" {
		t.Fatalf("error = %q", p.Error)
	}
}
