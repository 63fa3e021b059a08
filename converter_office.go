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
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/nicholasgasior/docconvert/pkg/executer"
	"golang.org/x/sync/semaphore"
)

// OfficeConfig configures the office (LibreOffice) converter.
type OfficeConfig struct {
	// Binary is the soffice executable, either a path or a name looked up in PATH.
	Binary string `yaml:"binary" json:"binary"`
	// Timeout bounds a single office process.
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
	// MaxProcesses caps the number of office processes running at once.
	MaxProcesses int64 `yaml:"max_processes" json:"max_processes"`
}

// DefaultOfficeConfig returns the office settings used when none are configured.
func DefaultOfficeConfig() OfficeConfig {
	return OfficeConfig{
		Binary:       "soffice",
		Timeout:      2 * time.Minute,
		MaxProcesses: 2,
	}
}

// OfficeConverter converts documents by running a headless office process per job.
// Every job gets a private user profile so jobs never share office state.
type OfficeConverter struct {
	cfg  OfficeConfig
	exec executer.Executer
	sem  *semaphore.Weighted

	resolveOnce sync.Once
	binary      string
	resolveErr  error
}

// NewOfficeConverter creates an OfficeConverter. Zero fields of cfg take their defaults.
func NewOfficeConverter(cfg OfficeConfig, ex executer.Executer) *OfficeConverter {
	def := DefaultOfficeConfig()
	if cfg.Binary == "" {
		cfg.Binary = def.Binary
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxProcesses <= 0 {
		cfg.MaxProcesses = def.MaxProcesses
	}
	return &OfficeConverter{
		cfg:  cfg,
		exec: ex,
		sem:  semaphore.NewWeighted(cfg.MaxProcesses),
	}
}

func (c *OfficeConverter) Accepts(job Job) bool {
	_, ok := job.OutputFormat.StoreFilter(job.InputFormat.InputFamily)
	return ok
}

func (c *OfficeConverter) Convert(ctx context.Context, job Job) error {
	binary, err := c.resolveBinary()
	if err != nil {
		return err
	}
	filter, ok := job.OutputFormat.StoreFilter(job.InputFormat.InputFamily)
	if !ok {
		return &UnsupportedConversionError{From: job.InputFormat, To: job.OutputFormat}
	}

	// Queued jobs wait at most one office timeout for a free slot.
	waitCtx, cancelWait := context.WithTimeout(ctx, c.cfg.Timeout)
	err = c.sem.Acquire(waitCtx, 1)
	cancelWait()
	if err != nil {
		return fmt.Errorf("wait for office slot: %w", err)
	}
	defer c.sem.Release(1)

	// The work dir sits next to the output so the final rename never crosses devices.
	workDir, err := os.MkdirTemp(filepath.Dir(job.OutputPath), "office-*")
	if err != nil {
		return fmt.Errorf("create office work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	outDir := filepath.Join(workDir, "out")
	profile := &url.URL{Scheme: "file", Path: filepath.Join(workDir, "profile")}
	args := []string{
		"--headless",
		"--invisible",
		"--nodefault",
		"--nolockcheck",
		"--nologo",
		"--norestore",
		"-env:UserInstallation=" + profile.String(),
		"--convert-to", job.OutputFormat.Extension + ":" + filter,
		"--outdir", outDir,
		job.InputPath,
	}

	runCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	_, stderr, code := c.exec.ExecuteWithContext(runCtx, binary, args...)
	stderr = strings.TrimSpace(stderr)
	if code != 0 {
		return &OfficeError{ExitCode: code, Stderr: stderr}
	}

	// soffice exits 0 when the filter refuses the document; the missing file is the
	// only reliable signal.
	produced := filepath.Join(outDir, producedName(job.InputPath, job.OutputFormat.Extension))
	if _, err := os.Stat(produced); err != nil {
		if stderr == "" {
			stderr = "no output produced"
		}
		return &OfficeError{Stderr: stderr}
	}

	if err := os.Rename(produced, job.OutputPath); err != nil {
		return fmt.Errorf("move office output: %w", err)
	}
	return nil
}

func (c *OfficeConverter) resolveBinary() (string, error) {
	c.resolveOnce.Do(func() {
		c.binary, c.resolveErr = c.exec.LookPath(c.cfg.Binary)
		if c.resolveErr != nil {
			c.resolveErr = fmt.Errorf("office binary %q: %w", c.cfg.Binary, c.resolveErr)
		}
	})
	return c.binary, c.resolveErr
}

// producedName is the file name soffice gives its output: the input base name with
// the target extension.
func producedName(inputPath, ext string) string {
	base := filepath.Base(inputPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "." + ext
}

// officeTextConverter produces Markdown or plain text from documents no in-process
// extractor understands: the office process exports HTML, which is then extracted.
type officeTextConverter struct {
	office *OfficeConverter
	html   DocumentFormat
	text   *textConverter
}

func newOfficeTextConverter(office *OfficeConverter, html DocumentFormat, keepDataURIs bool) *officeTextConverter {
	return &officeTextConverter{
		office: office,
		html:   html,
		text:   newTextConverter(NewHTMLExtractor(keepDataURIs)),
	}
}

func (c *officeTextConverter) Accepts(job Job) bool {
	if !textTarget(job.OutputFormat) {
		return false
	}
	return c.office.Accepts(Job{InputFormat: job.InputFormat, OutputFormat: c.html})
}

func (c *officeTextConverter) Convert(ctx context.Context, job Job) error {
	htmlPath := job.OutputPath + ".html"
	defer os.Remove(htmlPath)

	if err := c.office.Convert(ctx, Job{
		InputPath:    job.InputPath,
		InputFormat:  job.InputFormat,
		OutputPath:   htmlPath,
		OutputFormat: c.html,
	}); err != nil {
		return err
	}
	return c.text.Convert(ctx, Job{
		InputPath:    htmlPath,
		InputFormat:  c.html,
		OutputPath:   job.OutputPath,
		OutputFormat: job.OutputFormat,
	})
}

// ErrOfficeUnavailable is returned by OfficeAvailable when no office binary was found.
var ErrOfficeUnavailable = errors.New("office binary not available")

// OfficeAvailable reports whether the engine can run office conversions.
func (e *Engine) OfficeAvailable() error {
	for _, rc := range e.converters {
		oc, ok := rc.converter.(*OfficeConverter)
		if !ok {
			continue
		}
		if _, err := oc.resolveBinary(); err != nil {
			return errors.Join(ErrOfficeUnavailable, err)
		}
		return nil
	}
	return ErrOfficeUnavailable
}
