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
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nicholasgasior/docconvert"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type ConvertOptions struct {
	GlobalOptions
	Output  string
	From    string
	To      string
	Timeout time.Duration
}

func DefaultConvertOptions() *ConvertOptions {
	return &ConvertOptions{
		GlobalOptions: DefaultGlobalOptions(),
		Timeout:       5 * time.Minute,
	}
}

func NewCmdConvert() *cobra.Command {
	o := DefaultConvertOptions()
	cmd := &cobra.Command{
		Use:   "convert INPUT",
		Short: "Convert a single file.",
		Long: `Convert a single file with the same engine the service uses.

Formats are taken from --from and --to, or else from the file extensions. An input
with an unknown extension is identified by its content. Without --output the result
is written to stdout and --to is required.`,
		Example: `  docconvert convert report.docx -o report.pdf
  docconvert convert notes.txt --to application/pdf -o notes.pdf
  docconvert convert page.html --to text/markdown`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Validate(args); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), o.Timeout)
			defer cancel()
			return o.Run(ctx, args[0], cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *ConvertOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)
	fs.StringVarP(&o.Output, "output", "o", o.Output, "Output file (default: stdout).")
	fs.StringVar(&o.From, "from", o.From, "Input MIME type (default: derived from the input file).")
	fs.StringVar(&o.To, "to", o.To, "Output MIME type (default: derived from --output).")
	fs.DurationVar(&o.Timeout, "timeout", o.Timeout, "Give up after this long.")
}

func (o *ConvertOptions) Validate(args []string) error {
	if o.Output == "" && o.To == "" {
		return fmt.Errorf("either --output or --to must be given")
	}
	if o.Timeout <= 0 {
		return fmt.Errorf("--timeout must be > 0")
	}
	return nil
}

func (o *ConvertOptions) Run(ctx context.Context, input string, stdout io.Writer) error {
	cfg, err := o.Load()
	if err != nil {
		return fmt.Errorf("reading configuration: %w", err)
	}
	engine, err := newEngine(cfg)
	if err != nil {
		return fmt.Errorf("building engine: %w", err)
	}

	in, out, err := o.resolveFormats(engine, input)
	if err != nil {
		return err
	}

	if o.Output != "" {
		return engine.Convert(ctx, input, in, o.Output, out)
	}

	// The engine writes to a path, so stdout output goes through a scratch dir.
	dir, err := os.MkdirTemp(cfg.TempDir, "docconvert-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	outPath := filepath.Join(dir, "document."+out.Extension)
	if err := engine.Convert(ctx, input, in, outPath, out); err != nil {
		return err
	}
	f, err := os.Open(outPath)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(stdout, f)
	return err
}

func (o *ConvertOptions) resolveFormats(engine *docconvert.Engine, input string) (in, out docconvert.DocumentFormat, err error) {
	registry := engine.Registry()

	var ok bool
	if o.From != "" {
		in, ok = registry.FormatByMediaType(o.From)
	} else {
		in, ok = engine.DetectFormat(input)
	}
	if !ok {
		return in, out, fmt.Errorf("unsupported input format for %s", describeSource(o.From, input))
	}

	if o.To != "" {
		out, ok = registry.FormatByMediaType(o.To)
	} else {
		out, ok = registry.FormatByExtension(filepath.Ext(o.Output))
	}
	if !ok {
		return in, out, fmt.Errorf("unsupported output format for %s", describeSource(o.To, o.Output))
	}
	return in, out, nil
}

func describeSource(mediaType, path string) string {
	if mediaType != "" {
		return fmt.Sprintf("%q", mediaType)
	}
	return fmt.Sprintf("%q (extension %q)", path, strings.TrimPrefix(filepath.Ext(path), "."))
}
