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
	"fmt"
	"io"
	"strings"
)

// PlainTextExtractor handles plain text, Markdown, JSON and XML documents.
type PlainTextExtractor struct{}

// NewPlainTextExtractor creates a new PlainTextExtractor.
func NewPlainTextExtractor() *PlainTextExtractor {
	return &PlainTextExtractor{}
}

func (c *PlainTextExtractor) Accepts(info StreamInfo) bool {
	switch info.Extension {
	case ".txt", ".text", ".md", ".markdown", ".json", ".jsonl", ".xml":
		return true
	}
	mime := strings.ToLower(info.MIMEType)
	if strings.HasPrefix(mime, "text/") {
		return true
	}
	for _, prefix := range []string{"application/json", "application/markdown", "application/xml"} {
		if strings.HasPrefix(mime, prefix) {
			return true
		}
	}
	return false
}

func (c *PlainTextExtractor) Extract(reader io.ReadSeeker, info StreamInfo) (*ExtractResult, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return &ExtractResult{Markdown: decodeText(data)}, nil
}
