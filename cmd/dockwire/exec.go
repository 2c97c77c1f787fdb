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

package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/hectolitro/dockwire/api"
	"github.com/hectolitro/dockwire/transport"
)

// newExecCmd mirrors pkg/catch/tty.go's pty-backed session: the remote side
// (here, the exec instance's tty) is driven by copying bytes to and from
// this process's own stdin/stdout, with the local terminal put into raw mode
// for the duration so the remote program sees every keystroke unprocessed.
func newExecCmd() *cobra.Command {
	var interactive, tty bool
	var user, workdir string
	cmd := &cobra.Command{
		Use:   "exec <container> -- <cmd> [args...]",
		Short: "Run a command inside a running container",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			return runExec(c, args[0], args[1:], execOptions{
				Interactive: interactive,
				TTY:         tty,
				User:        user,
				WorkingDir:  workdir,
			})
		},
	}
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "attach stdin")
	cmd.Flags().BoolVarP(&tty, "tty", "t", false, "allocate a tty")
	cmd.Flags().StringVarP(&user, "user", "u", "", "run as this user")
	cmd.Flags().StringVarP(&workdir, "workdir", "w", "", "working directory inside the container")
	return cmd
}

type execOptions struct {
	Interactive bool
	TTY         bool
	User        string
	WorkingDir  string
}

func runExec(c *api.Client, containerID string, command []string, opts execOptions) error {
	created, err := c.ExecCreate(containerID, api.ExecCreateConfig{
		Cmd:          command,
		AttachStdin:  opts.Interactive,
		AttachStdout: true,
		AttachStderr: true,
		Tty:          opts.TTY,
		User:         opts.User,
		WorkingDir:   opts.WorkingDir,
	})
	if err != nil {
		return fmt.Errorf("dockwire exec: creating exec instance: %w", err)
	}

	stderrMode := transport.StderrSeparate
	if opts.TTY {
		// A real tty has no separate stderr channel; the daemon merges it
		// into the same stream, like pkg/catch/tty.go's single e.rw.
		stderrMode = transport.StderrMergedWithStdout
	}
	sess, err := c.ExecStart(created.ID, opts.TTY, transport.SessionOptions{
		Stdin:  opts.Interactive,
		Stdout: true,
		Stderr: stderrMode,
	})
	if err != nil {
		return fmt.Errorf("dockwire exec: starting exec instance: %w", err)
	}
	defer sess.Close()

	var restore *unix.Termios
	if opts.TTY && isTerminal(os.Stdin) {
		restore, err = makeRaw(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("dockwire exec: entering raw mode: %w", err)
		}
		defer restoreTermios(int(os.Stdin.Fd()), restore)

		resizeCh := make(chan os.Signal, 1)
		signal.Notify(resizeCh, unix.SIGWINCH)
		defer signal.Stop(resizeCh)
		resize := func() {
			w, h, err := getWinsize(os.Stdout)
			if err != nil {
				return
			}
			_ = c.ExecResize(created.ID, api.ResizeOptions{Width: w, Height: h})
		}
		resize()
		go func() {
			for range resizeCh {
				resize()
			}
		}()
	}

	var copyIn chan error
	if opts.Interactive && sess.Stdin != nil {
		copyIn = make(chan error, 1)
		go func() {
			_, err := io.Copy(sess.Stdin, os.Stdin)
			copyIn <- err
		}()
	}

	_, copyErr := io.Copy(os.Stdout, sess.Stdout)

	if copyIn != nil {
		// The remote side closed its stdout; stop waiting on local input,
		// it has nowhere left to go.
		select {
		case <-copyIn:
		default:
		}
	}
	if copyErr != nil && copyErr != io.EOF {
		return fmt.Errorf("dockwire exec: reading output: %w", copyErr)
	}

	inspected, err := c.ExecInspect(created.ID)
	if err != nil {
		return fmt.Errorf("dockwire exec: inspecting exit code: %w", err)
	}
	if inspected.ExitCode != 0 {
		os.Exit(inspected.ExitCode)
	}
	return nil
}

func isTerminal(f *os.File) bool {
	_, err := unix.IoctlGetTermios(int(f.Fd()), unix.TCGETS)
	return err == nil
}
