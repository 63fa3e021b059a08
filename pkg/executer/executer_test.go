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

//go:build linux

package executer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExecuteWithContext(t *testing.T) {
	t.Run("successful command", func(t *testing.T) {
		e := NewCommonExecuter()
		out, _, code := e.ExecuteWithContext(t.Context(), "sh", "-c", "echo converted")
		require.Equal(t, 0, code)
		require.Equal(t, "converted\n", out)
	})

	t.Run("stderr and exit code are reported", func(t *testing.T) {
		e := NewCommonExecuter()
		_, stderr, code := e.ExecuteWithContext(t.Context(), "sh", "-c", "echo broken >&2; exit 3")
		require.Equal(t, 3, code)
		require.Equal(t, "broken\n", stderr)
	})

	t.Run("missing binary", func(t *testing.T) {
		e := NewCommonExecuter()
		_, stderr, code := e.ExecuteWithContext(t.Context(), "/nonexistent/soffice")
		require.Equal(t, -1, code)
		require.NotEmpty(t, stderr)
	})

	t.Run("timeout kills the process group", func(t *testing.T) {
		e := NewCommonExecuter()
		ctx, cancel := context.WithTimeout(t.Context(), 100*time.Millisecond)
		defer cancel()
		start := time.Now()
		_, stderr, code := e.ExecuteWithContext(ctx, "sh", "-c", "sleep 10 & sleep 10")
		require.Equal(t, TimeoutExitCode, code)
		require.Equal(t, context.DeadlineExceeded.Error(), stderr)
		require.Less(t, time.Since(start), 5*time.Second)
	})

	t.Run("home dir and env are passed", func(t *testing.T) {
		e := NewCommonExecuter(WithHomeDir("/tmp/office-home"), WithEnv("SAL_USE_VCLPLUGIN=svp"))
		out, _, code := e.ExecuteWithContext(t.Context(), "env")
		require.Equal(t, 0, code)
		require.Contains(t, out, "HOME=/tmp/office-home")
		require.Contains(t, out, "SAL_USE_VCLPLUGIN=svp")
	})
}
