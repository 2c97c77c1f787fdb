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

// Command dockwire is a small example CLI exercising the api package:
// ps, logs, pull, exec, inspect against a Docker daemon over its Unix
// socket.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/hectolitro/dockwire/api"
)

var socketPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "dockwire",
		Short: "A hand-rolled Docker Engine API client",
	}
	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", defaultSocketPath(), "Docker daemon Unix socket")

	rootCmd.AddCommand(
		newPSCmd(),
		newLogsCmd(),
		newPullCmd(),
		newExecCmd(),
		newInspectCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// defaultSocketPath mirrors the teacher's DOCKER_HOST-style override
// convention: the DOCKER_SOCKET environment variable wins; otherwise
// ~/.dockwire/socket is used when it exists (the home directory comes from
// go-homedir); otherwise it returns "" and the transport falls back to the
// well-known daemon socket.
func defaultSocketPath() string {
	if v := os.Getenv("DOCKER_SOCKET"); v != "" {
		return v
	}
	if home, err := homedir.Dir(); err == nil {
		if _, statErr := os.Stat(filepath.Join(home, ".dockwire", "socket")); statErr == nil {
			return filepath.Join(home, ".dockwire", "socket")
		}
	}
	return ""
}

func newClient() (*api.Client, error) {
	return api.NewClient(api.Options{Socket: socketPath})
}
