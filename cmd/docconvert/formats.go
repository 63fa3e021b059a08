// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/nicholasgasior/docconvert"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type FormatsOptions struct {
	GlobalOptions
}

func NewCmdFormats() *cobra.Command {
	o := &FormatsOptions{GlobalOptions: DefaultGlobalOptions()}
	cmd := &cobra.Command{
		Use:   "formats",
		Short: "List the known document formats.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *FormatsOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)
}

func (o *FormatsOptions) Run(w io.Writer) error {
	cfg, err := o.Load()
	if err != nil {
		return fmt.Errorf("reading configuration: %w", err)
	}
	registry, err := cfg.Registry()
	if err != nil {
		return err
	}
	return printFormats(w, registry.Formats())
}

func printFormats(w io.Writer, formats []docconvert.DocumentFormat) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tMEDIA TYPE\tEXTENSION\tFAMILY\tWRITABLE FROM")
	for _, f := range formats {
		family := string(f.InputFamily)
		if family == "" {
			family = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", f.Name, f.MediaType, f.Extension, family, writableFrom(f))
	}
	return tw.Flush()
}

func writableFrom(f docconvert.DocumentFormat) string {
	families := make([]string, 0, len(f.StoreFilters))
	for family := range f.StoreFilters {
		families = append(families, string(family))
	}
	if len(families) == 0 {
		return "-"
	}
	sort.Strings(families)
	return strings.Join(families, ",")
}
