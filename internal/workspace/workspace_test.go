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

package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/nicholasgasior/docconvert/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestAcquireRelease(t *testing.T) {
	dir := t.TempDir()
	log, _ := test.NewNullLogger()

	ws, err := Acquire(log, dir, "txt", "pdf")
	require.NoError(t, err)
	require.Equal(t, dir, filepath.Dir(ws.InputPath))
	require.Equal(t, dir, filepath.Dir(ws.OutputPath))
	require.True(t, strings.HasPrefix(filepath.Base(ws.InputPath), "document-"))
	require.Equal(t, ".txt", filepath.Ext(ws.InputPath))
	require.Equal(t, ".pdf", filepath.Ext(ws.OutputPath))
	require.FileExists(t, ws.InputPath)
	require.FileExists(t, ws.OutputPath)

	ws.Release()
	require.Empty(t, listDir(t, dir))
}

func TestReleaseToleratesMissingFiles(t *testing.T) {
	dir := t.TempDir()
	log, hook := test.NewNullLogger()

	ws, err := Acquire(log, dir, ".md", ".html")
	require.NoError(t, err)
	require.NoError(t, os.Remove(ws.OutputPath))

	ws.Release()
	require.Empty(t, listDir(t, dir))
	require.Empty(t, hook.AllEntries())
}

func TestReleaseLogsFailures(t *testing.T) {
	dir := t.TempDir()
	log, hook := test.NewNullLogger()

	ws, err := Acquire(log, dir, "txt", "pdf")
	require.NoError(t, err)
	// A non-empty directory in place of the output file cannot be removed.
	require.NoError(t, os.Remove(ws.OutputPath))
	require.NoError(t, os.Mkdir(ws.OutputPath, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(ws.OutputPath, "x"), nil, 0o600))

	require.NotPanics(t, ws.Release)
	require.NoFileExists(t, ws.InputPath)
	require.Len(t, hook.AllEntries(), 1)
	require.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestAcquireUniqueUnderConcurrency(t *testing.T) {
	dir := t.TempDir()
	log, _ := test.NewNullLogger()

	const n = 50
	var (
		mu    sync.Mutex
		paths = map[string]bool{}
		g     errgroup.Group
	)
	for range n {
		g.Go(func() error {
			ws, err := Acquire(log, dir, "txt", "txt")
			if err != nil {
				return err
			}
			mu.Lock()
			paths[ws.InputPath] = true
			paths[ws.OutputPath] = true
			mu.Unlock()
			return nil
		})
	}
	require.NoError(t, g.Wait())
	require.Len(t, paths, 2*n)
	require.Len(t, listDir(t, dir), 2*n)
}

func TestAcquireOutputFailureRemovesInput(t *testing.T) {
	dir := t.TempDir()
	log, _ := test.NewNullLogger()

	calls := 0
	openFile = func(name string, flag int, perm os.FileMode) (*os.File, error) {
		calls++
		if calls == 2 {
			return nil, errors.New("no space left on device")
		}
		return os.OpenFile(name, flag, perm)
	}
	t.Cleanup(func() { openFile = os.OpenFile })

	ws, err := Acquire(log, dir, "txt", "pdf")
	require.Nil(t, ws)
	require.ErrorIs(t, err, models.ErrTempFile)
	require.Contains(t, err.Error(), "no space left on device")
	require.Empty(t, listDir(t, dir))
}

func TestAcquireMissingDir(t *testing.T) {
	log, _ := test.NewNullLogger()
	_, err := Acquire(log, filepath.Join(t.TempDir(), "absent"), "txt", "pdf")
	require.ErrorIs(t, err, models.ErrTempFile)
}
