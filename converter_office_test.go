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

package docconvert

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeOffice mimics soffice: it writes the converted file into --outdir.
type fakeOffice struct {
	lookErr  error
	exitCode int
	stderr   string
	noOutput bool
	delay    time.Duration

	mu       sync.Mutex
	calls    [][]string
	deadline time.Duration

	running    atomic.Int32
	maxRunning atomic.Int32
}

func (f *fakeOffice) CommandContext(ctx context.Context, command string, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, command, args...)
}

func (f *fakeOffice) LookPath(file string) (string, error) {
	if f.lookErr != nil {
		return "", f.lookErr
	}
	return "/usr/bin/" + file, nil
}

func (f *fakeOffice) ExecuteWithContext(ctx context.Context, command string, args ...string) (string, string, int) {
	n := f.running.Add(1)
	defer f.running.Add(-1)
	for {
		m := f.maxRunning.Load()
		if n <= m || f.maxRunning.CompareAndSwap(m, n) {
			break
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, append([]string{command}, args...))
	if dl, ok := ctx.Deadline(); ok {
		f.deadline = time.Until(dl)
	}
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.exitCode != 0 {
		return "", f.stderr, f.exitCode
	}
	if f.noOutput {
		return "", f.stderr, 0
	}

	outDir := args[slices.Index(args, "--outdir")+1]
	target := args[slices.Index(args, "--convert-to")+1]
	ext, _, _ := strings.Cut(target, ":")
	input := args[len(args)-1]
	if err := os.MkdirAll(outDir, 0o700); err != nil {
		return "", err.Error(), 1
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return "", err.Error(), 1
	}
	if err := os.WriteFile(filepath.Join(outDir, producedName(input, ext)), append([]byte("converted:"), data...), 0o600); err != nil {
		return "", err.Error(), 1
	}
	return "", "", 0
}

func officeJob(t *testing.T, from, to string) Job {
	t.Helper()
	reg := DefaultFormatRegistry()
	in, ok := reg.FormatByExtension(from)
	if !ok {
		t.Fatalf("unknown format %s", from)
	}
	out, ok := reg.FormatByExtension(to)
	if !ok {
		t.Fatalf("unknown format %s", to)
	}

	dir := t.TempDir()
	job := Job{
		InputPath:    filepath.Join(dir, "document-1."+from),
		InputFormat:  in,
		OutputPath:   filepath.Join(dir, "document-2."+to),
		OutputFormat: out,
	}
	if err := os.WriteFile(job.InputPath, []byte("Hello world!"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(job.OutputPath, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	return job
}

func TestOfficeAccepts(t *testing.T) {
	c := NewOfficeConverter(OfficeConfig{}, &fakeOffice{})

	tests := []struct {
		from, to string
		want     bool
	}{
		{"txt", "pdf", true},
		{"docx", "odt", true},
		{"csv", "xlsx", true},
		{"pptx", "pdf", true},
		{"pptx", "png", true},
		{"odg", "svg", true},
		{"txt", "md", false},
		{"csv", "docx", false},
		{"pdf", "docx", false},
		{"png", "pdf", false},
		{"json", "pdf", false},
	}
	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			if got := c.Accepts(officeJob(t, tt.from, tt.to)); got != tt.want {
				t.Errorf("Accepts(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestOfficeConvert(t *testing.T) {
	fake := &fakeOffice{}
	c := NewOfficeConverter(OfficeConfig{Binary: "soffice", Timeout: time.Minute}, fake)
	job := officeJob(t, "txt", "pdf")

	if err := c.Convert(context.Background(), job); err != nil {
		t.Fatalf("Convert error: %v", err)
	}

	got, err := os.ReadFile(job.OutputPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "converted:Hello world!" {
		t.Errorf("output = %q", got)
	}

	if len(fake.calls) != 1 {
		t.Fatalf("office ran %d times, want 1", len(fake.calls))
	}
	args := fake.calls[0]
	if args[0] != "/usr/bin/soffice" {
		t.Errorf("binary = %q", args[0])
	}
	for _, want := range []string{"--headless", "--convert-to", "pdf:writer_pdf_Export", job.InputPath} {
		if !slices.Contains(args, want) {
			t.Errorf("args %v missing %q", args, want)
		}
	}
	profile := slices.IndexFunc(args, func(a string) bool { return strings.HasPrefix(a, "-env:UserInstallation=file://") })
	if profile < 0 {
		t.Errorf("args %v missing a private user profile", args)
	}
	if fake.deadline <= 0 || fake.deadline > time.Minute {
		t.Errorf("office deadline = %v, want within 1m", fake.deadline)
	}

	entries, err := os.ReadDir(filepath.Dir(job.OutputPath))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("work dir left behind: %v", entries)
	}
}

func TestOfficeConvertUsesFamilyFilter(t *testing.T) {
	fake := &fakeOffice{}
	c := NewOfficeConverter(OfficeConfig{}, fake)

	if err := c.Convert(context.Background(), officeJob(t, "xlsx", "pdf")); err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	if !slices.Contains(fake.calls[0], "pdf:calc_pdf_Export") {
		t.Errorf("args %v should use the calc export filter", fake.calls[0])
	}
}

func TestOfficeConvertErrors(t *testing.T) {
	t.Run("non-zero exit", func(t *testing.T) {
		c := NewOfficeConverter(OfficeConfig{}, &fakeOffice{exitCode: 81, stderr: "source file could not be loaded\n"})
		err := c.Convert(context.Background(), officeJob(t, "txt", "pdf"))

		var officeErr *OfficeError
		if !errors.As(err, &officeErr) {
			t.Fatalf("expected OfficeError, got %v", err)
		}
		if officeErr.ExitCode != 81 || officeErr.Stderr != "source file could not be loaded" {
			t.Errorf("OfficeError = %+v", officeErr)
		}
	})

	t.Run("no output", func(t *testing.T) {
		c := NewOfficeConverter(OfficeConfig{}, &fakeOffice{noOutput: true})
		job := officeJob(t, "txt", "pdf")
		err := c.Convert(context.Background(), job)

		var officeErr *OfficeError
		if !errors.As(err, &officeErr) || !strings.Contains(err.Error(), "no output produced") {
			t.Fatalf("expected OfficeError about missing output, got %v", err)
		}
		entries, _ := os.ReadDir(filepath.Dir(job.OutputPath))
		if len(entries) != 2 {
			t.Errorf("work dir left behind: %v", entries)
		}
	})

	t.Run("binary missing", func(t *testing.T) {
		fake := &fakeOffice{lookErr: exec.ErrNotFound}
		c := NewOfficeConverter(OfficeConfig{Binary: "soffice-nope"}, fake)
		err := c.Convert(context.Background(), officeJob(t, "txt", "pdf"))

		if !errors.Is(err, exec.ErrNotFound) || !strings.Contains(err.Error(), "soffice-nope") {
			t.Fatalf("expected lookup error, got %v", err)
		}
		if len(fake.calls) != 0 {
			t.Errorf("office ran %d times", len(fake.calls))
		}
	})

	t.Run("canceled while waiting for a slot", func(t *testing.T) {
		c := NewOfficeConverter(OfficeConfig{MaxProcesses: 1}, &fakeOffice{})
		if err := c.sem.Acquire(context.Background(), 1); err != nil {
			t.Fatal(err)
		}
		defer c.sem.Release(1)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		err := c.Convert(ctx, officeJob(t, "txt", "pdf"))
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected deadline error, got %v", err)
		}
	})
}

func TestOfficeSlotWaitIsBounded(t *testing.T) {
	c := NewOfficeConverter(OfficeConfig{MaxProcesses: 1, Timeout: 30 * time.Millisecond}, &fakeOffice{})
	if err := c.sem.Acquire(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	defer c.sem.Release(1)

	start := time.Now()
	err := c.Convert(context.WithoutCancel(context.Background()), officeJob(t, "txt", "pdf"))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if !strings.Contains(err.Error(), "wait for office slot") {
		t.Errorf("error %q should mention the slot wait", err)
	}
	if waited := time.Since(start); waited > 5*time.Second {
		t.Errorf("waited %v for a slot", waited)
	}
}

func TestOfficeMaxProcesses(t *testing.T) {
	fake := &fakeOffice{delay: 20 * time.Millisecond}
	c := NewOfficeConverter(OfficeConfig{MaxProcesses: 2}, fake)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		job := officeJob(t, "txt", "pdf")
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- c.Convert(context.Background(), job)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Errorf("Convert error: %v", err)
		}
	}
	if got := fake.maxRunning.Load(); got > 2 {
		t.Errorf("%d office processes ran at once, limit is 2", got)
	}
}

func TestEngineOfficeAvailable(t *testing.T) {
	if err := New(WithExecuter(&fakeOffice{})).OfficeAvailable(); err != nil {
		t.Errorf("OfficeAvailable() = %v, want nil", err)
	}
	if err := New(WithExecuter(&fakeOffice{lookErr: exec.ErrNotFound})).OfficeAvailable(); !errors.Is(err, ErrOfficeUnavailable) {
		t.Errorf("OfficeAvailable() = %v, want ErrOfficeUnavailable", err)
	}
	if err := New(WithoutOffice()).OfficeAvailable(); !errors.Is(err, ErrOfficeUnavailable) {
		t.Errorf("OfficeAvailable() = %v, want ErrOfficeUnavailable", err)
	}
}

func TestEngineTextToPDFThroughOffice(t *testing.T) {
	e := New(WithExecuter(&fakeOffice{}))
	job := officeJob(t, "txt", "pdf")

	if err := e.Convert(context.Background(), job.InputPath, job.InputFormat, job.OutputPath, job.OutputFormat); err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	got, err := os.ReadFile(job.OutputPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) == 0 {
		t.Error("empty output")
	}
}

func TestEngineOfficeToMarkdown(t *testing.T) {
	fake := &fakeOffice{}
	e := New(WithExecuter(fake))
	job := officeJob(t, "docx", "md")

	if err := e.Convert(context.Background(), job.InputPath, job.InputFormat, job.OutputPath, job.OutputFormat); err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	got, err := os.ReadFile(job.OutputPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "converted:Hello world!\n" {
		t.Errorf("output = %q", got)
	}
	if !slices.Contains(fake.calls[0], "html:HTML (StarWriter)") {
		t.Errorf("args %v should export HTML", fake.calls[0])
	}
	entries, _ := os.ReadDir(filepath.Dir(job.OutputPath))
	if len(entries) != 2 {
		t.Errorf("intermediate files left behind: %v", entries)
	}
}
