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
	"fmt"
	"os"
	"path/filepath"
)

// textConverter adapts a TextExtractor to the DocumentConverter interface. It serves
// Markdown and plain text targets only; the extracted Markdown is written as is for both.
type textConverter struct {
	extractor TextExtractor
}

func newTextConverter(extractor TextExtractor) *textConverter {
	return &textConverter{extractor: extractor}
}

// textTarget reports whether f is a format text extractors can produce.
func textTarget(f DocumentFormat) bool {
	switch normalizeMediaType(f.MediaType) {
	case "text/markdown", "text/plain":
		return true
	}
	return false
}

func streamInfoFor(job Job) StreamInfo {
	info := StreamInfo{
		MIMEType:  job.InputFormat.MediaType,
		Filename:  filepath.Base(job.InputPath),
		LocalPath: job.InputPath,
	}
	if job.InputFormat.Extension != "" {
		info.Extension = "." + job.InputFormat.Extension
	}
	return info
}

func (c *textConverter) Accepts(job Job) bool {
	return textTarget(job.OutputFormat) && c.extractor.Accepts(streamInfoFor(job))
}

func (c *textConverter) Convert(ctx context.Context, job Job) error {
	f, err := os.Open(job.InputPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	result, err := c.extractor.Extract(f, streamInfoFor(job))
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	out := normalizeOutput(result.Markdown)
	if out != "" {
		out += "\n"
	}
	if err := os.WriteFile(job.OutputPath, []byte(out), 0o600); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
