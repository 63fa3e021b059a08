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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), c)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
listen_addr: ":9090"
temp_dir: /var/tmp/docconvert
max_upload_bytes: 1024
input_header: X-Input-Type
log_level: debug
rate_limit:
  requests: 10
  window: 30s
office:
  binary: /opt/libreoffice/program/soffice
  timeout: 45s
  max_processes: 4
formats:
  - name: Markdown (x)
    media_type: text/x-markdown
    extension: mdown
`)

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":9090", c.ListenAddr)
	require.Equal(t, "/var/tmp/docconvert", c.TempDir)
	require.Equal(t, int64(1024), c.MaxUploadBytes)
	require.Equal(t, "X-Input-Type", c.InputHeader)
	require.Equal(t, "outputMime", c.OutputHeader)
	require.Equal(t, "debug", c.LogLevel)
	require.Equal(t, RateLimit{Requests: 10, Window: 30 * time.Second}, c.RateLimit)
	require.Equal(t, "/opt/libreoffice/program/soffice", c.Office.Binary)
	require.Equal(t, 45*time.Second, c.Office.Timeout)
	require.Equal(t, int64(4), c.Office.MaxProcesses)

	r, err := c.Registry()
	require.NoError(t, err)
	f, ok := r.FormatByMediaType("text/x-markdown")
	require.True(t, ok)
	require.Equal(t, "mdown", f.Extension)
	_, ok = r.FormatByMediaType("application/pdf")
	require.True(t, ok)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "listen_addr: \":9090\"\n")
	t.Setenv("LISTEN_ADDR", ":7070")
	t.Setenv("TEMP_DIR", "/scratch")
	t.Setenv("MAX_UPLOAD_BYTES", "2048")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("OFFICE_BINARY", "libreoffice")
	t.Setenv("OFFICE_TIMEOUT", "10s")
	t.Setenv("OFFICE_MAX_PROCESSES", "8")

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":7070", c.ListenAddr)
	require.Equal(t, "/scratch", c.TempDir)
	require.Equal(t, int64(2048), c.MaxUploadBytes)
	require.Equal(t, "warn", c.LogLevel)
	require.Equal(t, "libreoffice", c.Office.Binary)
	require.Equal(t, 10*time.Second, c.Office.Timeout)
	require.Equal(t, int64(8), c.Office.MaxProcesses)
}

func TestLoadConfigPathEnv(t *testing.T) {
	path := writeConfig(t, "output_header: X-Output-Type\n")
	t.Setenv("CONFIG_PATH", path)

	c, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "X-Output-Type", c.OutputHeader)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
		want string
	}{
		{name: "bad yaml", body: "listen_addr: [", want: "parse config"},
		{name: "empty header", body: "input_header: \" \"\n", want: "input_header"},
		{name: "zero upload limit", body: "max_upload_bytes: 0\n", want: "max_upload_bytes"},
		{name: "rate limit without window", body: "rate_limit:\n  requests: 5\n  window: 0s\n", want: "rate_limit.window"},
		{name: "format without extension", body: "formats:\n  - media_type: text/x-foo\n", want: "formats[0]"},
		{name: "bad env int", env: map[string]string{"MAX_UPLOAD_BYTES": "lots"}, want: "MAX_UPLOAD_BYTES"},
		{name: "bad env duration", env: map[string]string{"OFFICE_TIMEOUT": "soon"}, want: "OFFICE_TIMEOUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}
