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

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newPullCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pull <ref>",
		Short: "Pull an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			stream, err := c.ImagePull(args[0], "")
			if err != nil {
				return err
			}
			defer stream.Close()
			for {
				p, ok := stream.Next()
				if !ok {
					break
				}
				if p.ID != "" {
					fmt.Printf("%s %s\n", color.CyanString(p.ID), p.Status)
				} else {
					fmt.Println(p.Status)
				}
			}
			return stream.Err()
		},
	}
	return cmd
}
