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

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nicholasgasior/docconvert"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "./config.yaml"

type Config struct {
	ListenAddr     string                      `yaml:"listen_addr" json:"listen_addr"`
	TempDir        string                      `yaml:"temp_dir" json:"temp_dir"`
	MaxUploadBytes int64                       `yaml:"max_upload_bytes" json:"max_upload_bytes"`
	InputHeader    string                      `yaml:"input_header" json:"input_header"`
	OutputHeader   string                      `yaml:"output_header" json:"output_header"`
	LogLevel       string                      `yaml:"log_level" json:"log_level"`
	RateLimit      RateLimit                   `yaml:"rate_limit" json:"rate_limit"`
	Office         docconvert.OfficeConfig     `yaml:"office" json:"office"`
	Formats        []docconvert.DocumentFormat `yaml:"formats" json:"formats"`
}

// RateLimit limits conversions per client IP. Zero requests disables the limit.
type RateLimit struct {
	Requests int           `yaml:"requests" json:"requests"`
	Window   time.Duration `yaml:"window" json:"window"`
}

func Default() *Config {
	return &Config{
		ListenAddr:     ":8080",
		TempDir:        os.TempDir(),
		MaxUploadBytes: 100 << 20,
		InputHeader:    "inputMime",
		OutputHeader:   "outputMime",
		LogLevel:       "info",
		RateLimit:      RateLimit{Window: time.Minute},
		Office:         docconvert.DefaultOfficeConfig(),
	}
}

// Load reads the YAML configuration at path on top of the defaults and applies the
// environment overrides. An empty path means CONFIG_PATH or ./config.yaml; a missing
// file leaves the defaults in place.
func Load(path string) (*Config, error) {
	if path == "" {
		path = getenv("CONFIG_PATH", defaultConfigPath)
	}

	c := Default()
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("TEMP_DIR"); v != "" {
		c.TempDir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("OFFICE_BINARY"); v != "" {
		c.Office.Binary = v
	}
	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("MAX_UPLOAD_BYTES: %w", err)
		}
		c.MaxUploadBytes = n
	}
	if v := os.Getenv("OFFICE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("OFFICE_TIMEOUT: %w", err)
		}
		c.Office.Timeout = d
	}
	if v := os.Getenv("OFFICE_MAX_PROCESSES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("OFFICE_MAX_PROCESSES: %w", err)
		}
		c.Office.MaxProcesses = n
	}
	return nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.InputHeader) == "" {
		errs = append(errs, errors.New("input_header must not be empty"))
	}
	if strings.TrimSpace(c.OutputHeader) == "" {
		errs = append(errs, errors.New("output_header must not be empty"))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("max_upload_bytes must be > 0"))
	}
	if c.RateLimit.Requests < 0 {
		errs = append(errs, errors.New("rate_limit.requests must be >= 0"))
	}
	if c.RateLimit.Requests > 0 && c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("rate_limit.window must be > 0"))
	}
	for i, f := range c.Formats {
		if f.MediaType == "" || f.Extension == "" {
			errs = append(errs, fmt.Errorf("formats[%d]: media_type and extension are required", i))
		}
	}
	return errors.Join(errs...)
}

// Registry returns the default format registry extended with the configured formats.
func (c *Config) Registry() (*docconvert.FormatRegistry, error) {
	r := docconvert.DefaultFormatRegistry()
	for _, f := range c.Formats {
		if err := r.Add(f); err != nil {
			return nil, fmt.Errorf("format %q: %w", f.MediaType, err)
		}
	}
	return r, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}

	return def
}
