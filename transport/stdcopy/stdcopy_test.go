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

package stdcopy

import (
	"bytes"
	"io"
	"testing"

	"github.com/hectolitro/dockwire/transport/bufpipe"
)

func TestRunRoutesFramesByStreamID(t *testing.T) {
	var frames bytes.Buffer
	frames.Write([]byte{1, 0, 0, 0, 0, 0, 0, 5})
	frames.WriteString("hello")
	frames.Write([]byte{2, 0, 0, 0, 0, 0, 0, 5})
	frames.WriteString("ERROR")
	frames.Write([]byte{1, 0, 0, 0, 0, 0, 0, 2})
	frames.WriteString("!\n")

	stdout := bufpipe.New()
	stderr := bufpipe.New()

	done := make(chan error, 1)
	go func() { done <- Run(&frames, stdout, stderr) }()

	gotOut, err := io.ReadAll(stdout)
	if err != nil {
		t.Fatalf("read stdout: %v", err)
	}
	gotErr, err := io.ReadAll(stderr)
	if err != nil {
		t.Fatalf("read stderr: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
	if string(gotOut) != "hello!\n" {
		t.Fatalf("stdout = %q", gotOut)
	}
	if string(gotErr) != "ERROR" {
		t.Fatalf("stderr = %q", gotErr)
	}
}

func TestRunDiscardsStreamIDZero(t *testing.T) {
	var frames bytes.Buffer
	frames.Write([]byte{0, 0, 0, 0, 0, 0, 0, 4})
	frames.WriteString("skip")
	frames.Write([]byte{1, 0, 0, 0, 0, 0, 0, 2})
	frames.WriteString("ok")

	stdout := bufpipe.New()
	done := make(chan error, 1)
	go func() { done <- Run(&frames, stdout, nil) }()

	got, err := io.ReadAll(stdout)
	if err != nil {
		t.Fatalf("read stdout: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
	if string(got) != "ok" {
		t.Fatalf("stdout = %q", got)
	}
}

func TestRunMergesStderrIntoStdout(t *testing.T) {
	var frames bytes.Buffer
	frames.Write([]byte{1, 0, 0, 0, 0, 0, 0, 3})
	frames.WriteString("out")
	frames.Write([]byte{2, 0, 0, 0, 0, 0, 0, 3})
	frames.WriteString("err")

	merged := bufpipe.New()
	done := make(chan error, 1)
	go func() { done <- Run(&frames, merged, merged) }()

	got, err := io.ReadAll(merged)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
	if string(got) != "outerr" {
		t.Fatalf("merged = %q", got)
	}
}

func TestRunShortFrameIsUnexpectedEOF(t *testing.T) {
	frames := bytes.NewReader([]byte{1, 0, 0, 0, 0, 0, 0, 5, 'h', 'i'})
	err := Run(frames, bufpipe.New(), nil)
	if err != io.ErrUnexpectedEOF {
		t.Fatalf("got %v, want io.ErrUnexpectedEOF", err)
	}
}
