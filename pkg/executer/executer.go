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

// Package executer runs external commands and reports their output and exit code.
package executer

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"syscall"
)

// TimeoutExitCode is reported when the command was killed because its context expired.
const TimeoutExitCode = 124

type Executer interface {
	CommandContext(ctx context.Context, command string, args ...string) *exec.Cmd
	ExecuteWithContext(ctx context.Context, command string, args ...string) (stdout string, stderr string, exitCode int)
	LookPath(file string) (string, error)
}

type commonExecuter struct {
	// homeDir overrides HOME for spawned commands. Office suites refuse to start when
	// HOME is not writable.
	homeDir string
	env     []string
}

type ExecuterOption func(e *commonExecuter)

func WithHomeDir(homeDir string) ExecuterOption {
	return func(e *commonExecuter) {
		e.homeDir = homeDir
	}
}

// WithEnv appends KEY=VALUE pairs to the environment of every command.
func WithEnv(env ...string) ExecuterOption {
	return func(e *commonExecuter) {
		e.env = append(e.env, env...)
	}
}

func NewCommonExecuter(options ...ExecuterOption) *commonExecuter {
	e := &commonExecuter{}
	for _, o := range options {
		o(e)
	}
	return e
}

func (e *commonExecuter) ExecuteWithContext(ctx context.Context, command string, args ...string) (stdout string, stderr string, exitCode int) {
	cmd := e.CommandContext(ctx, command, args...)
	return e.execute(ctx, cmd)
}

func (e *commonExecuter) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (e *commonExecuter) execute(ctx context.Context, cmd *exec.Cmd) (stdout string, stderr string, exitCode int) {
	var stdoutBytes, stderrBytes bytes.Buffer
	cmd.Stdout = &stdoutBytes
	cmd.Stderr = &stderrBytes

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return stdoutBytes.String(), context.DeadlineExceeded.Error(), TimeoutExitCode
		}
		return stdoutBytes.String(), getErrorStr(err, &stderrBytes), getExitCode(err)
	}

	return stdoutBytes.String(), stderrBytes.String(), 0
}

func getExitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if state, ok := exitErr.ProcessState.Sys().(syscall.WaitStatus); ok && state.Signaled() {
			return 128 + int(state.Signal())
		}
		return exitErr.ExitCode()
	}

	return -1
}

func getErrorStr(err error, stderr *bytes.Buffer) string {
	if b := stderr.Bytes(); len(b) > 0 {
		return string(b)
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
