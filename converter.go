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
	"io"
)

// Job is a single conversion handed to a DocumentConverter: the input already sits at
// InputPath and the converter must leave the complete result at OutputPath.
type Job struct {
	InputPath    string
	InputFormat  DocumentFormat
	OutputPath   string
	OutputFormat DocumentFormat
}

// DocumentConverter is the interface all engine back-ends implement.
type DocumentConverter interface {
	// Accepts reports whether the converter can turn the job's input format into its
	// output format. It must not touch the filesystem.
	Accepts(job Job) bool

	// Convert performs the conversion. On success the output file is complete.
	Convert(ctx context.Context, job Job) error
}

// StreamInfo holds metadata about an input stream handed to a TextExtractor.
type StreamInfo struct {
	MIMEType  string
	Extension string
	Filename  string
	LocalPath string
}

// ExtractResult is what a TextExtractor produces from one input.
type ExtractResult struct {
	Markdown string
	Title    string
}

// TextExtractor renders one kind of document as Markdown.
type TextExtractor interface {
	// Accepts returns true if the extractor understands the described input.
	Accepts(info StreamInfo) bool

	// Extract reads the document. The reader is positioned at the start.
	Extract(reader io.ReadSeeker, info StreamInfo) (*ExtractResult, error)
}
