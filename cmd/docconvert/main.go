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
	"os"

	"github.com/nicholasgasior/docconvert"
	"github.com/nicholasgasior/docconvert/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var version = "dev"

func main() {
	command := NewDocconvertCommand()
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}

func NewDocconvertCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docconvert",
		Short: "docconvert converts documents between office, PDF, HTML and text formats.",
		Long: `docconvert converts documents between office, PDF, HTML and text formats.

It runs either as an HTTP service (serve) or as a one-shot converter (convert).
Office formats are handled by a headless LibreOffice; Markdown and plain text
targets are produced in-process.`,
		Version:      version,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewCmdServe())
	cmd.AddCommand(NewCmdConvert())
	cmd.AddCommand(NewCmdFormats())

	return cmd
}

// GlobalOptions are the flags every subcommand shares.
type GlobalOptions struct {
	ConfigFilePath string
	LogLevel       string
}

func DefaultGlobalOptions() GlobalOptions {
	return GlobalOptions{}
}

func (o *GlobalOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.ConfigFilePath, "config", "c", o.ConfigFilePath, "Path to the YAML configuration (default: $CONFIG_PATH or ./config.yaml).")
	fs.StringVar(&o.LogLevel, "log-level", o.LogLevel, "Log level, overrides the configuration.")
}

// Load reads the configuration and applies the flag overrides.
func (o *GlobalOptions) Load() (*config.Config, error) {
	cfg, err := config.Load(o.ConfigFilePath)
	if err != nil {
		return nil, err
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	return cfg, nil
}

// newEngine builds the conversion engine described by cfg.
func newEngine(cfg *config.Config) (*docconvert.Engine, error) {
	registry, err := cfg.Registry()
	if err != nil {
		return nil, err
	}
	return docconvert.New(
		docconvert.WithRegistry(registry),
		docconvert.WithOffice(cfg.Office),
	), nil
}
