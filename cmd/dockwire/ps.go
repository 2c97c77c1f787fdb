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
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hectolitro/dockwire/api"
)

func newPSCmd() *cobra.Command {
	var all bool
	var format string
	cmd := &cobra.Command{
		Use:   "ps",
		Short: "List containers",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			containers, err := c.ContainerList(all, nil)
			if err != nil {
				return err
			}
			return printPS(containers, format)
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "show stopped containers too")
	cmd.Flags().StringVar(&format, "format", "table", "table, json, or yaml")
	return cmd
}

func printPS(containers []api.ContainerSummary, format string) error {
	switch format {
	case "json":
		b, err := json.MarshalIndent(containers, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(b))
		return nil
	case "yaml":
		b, err := yaml.Marshal(containers)
		if err != nil {
			return err
		}
		fmt.Print(string(b))
		return nil
	default:
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "CONTAINER ID\tIMAGE\tSTATUS\tNAMES")
		for _, c := range containers {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				shortID(c.ID), c.Image, stateColor(c.State).Sprint(c.Status), strings.Join(trimSlashes(c.Names), ","))
		}
		return w.Flush()
	}
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

func trimSlashes(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = strings.TrimPrefix(n, "/")
	}
	return out
}

func stateColor(state string) *color.Color {
	switch state {
	case "running":
		return color.New(color.FgGreen)
	case "exited", "dead":
		return color.New(color.FgRed)
	default:
		return color.New(color.FgYellow)
	}
}
