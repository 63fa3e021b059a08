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
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("TEMP_DIR", t.TempDir())

	cmd := NewDocconvertCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConvertToStdout(t *testing.T) {
	input := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(input, []byte("<h1>Title</h1><p>Body text</p>"), 0o600))

	out, err := runCommand(t, "convert", input, "--to", "text/markdown")
	require.NoError(t, err)
	require.Equal(t, "# Title\n\nBody text\n", out)
}

func TestConvertToFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "table.csv")
	output := filepath.Join(dir, "table.md")
	require.NoError(t, os.WriteFile(input, []byte("name,qty\napple,3\n"), 0o600))

	_, err := runCommand(t, "convert", input, "-o", output)
	require.NoError(t, err)

	got, err := os.ReadFile(output)
	require.NoError(t, err)
	require.Equal(t, "| name | qty |\n| --- | --- |\n| apple | 3 |\n", string(got))
}

func TestConvertRequiresTarget(t *testing.T) {
	input := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(input, []byte("x"), 0o600))

	_, err := runCommand(t, "convert", input)
	require.ErrorContains(t, err, "--output or --to")

	_, err = runCommand(t, "convert", input, "--to", "application/x-nothing")
	require.ErrorContains(t, err, "unsupported output format")
}

func TestFormats(t *testing.T) {
	out, err := runCommand(t, "formats")
	require.NoError(t, err)
	require.Contains(t, out, "MEDIA TYPE")
	require.Contains(t, out, "application/pdf")
	require.Contains(t, out, "text/markdown")
}

func TestVersion(t *testing.T) {
	out, err := runCommand(t, "--version")
	require.NoError(t, err)
	require.Contains(t, out, "dev")
}
