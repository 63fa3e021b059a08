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
	"path/filepath"
	"sort"

	"github.com/gabriel-vasile/mimetype"
	"github.com/nicholasgasior/docconvert/pkg/executer"
)

const (
	// PrioritySpecific is for format-specific converters (PDF, XLSX, etc.).
	PrioritySpecific = 0.0
	// PriorityGeneric is for fallback text converters (PlainText, HTML).
	PriorityGeneric = 10.0
	// PriorityOffice is for the office process, tried after every in-process converter.
	PriorityOffice = 20.0
)

type registeredConverter struct {
	converter DocumentConverter
	priority  float64
	name      string
}

// Engine is the document conversion engine. A single Engine is meant to be shared by
// every caller in the process; it is safe for concurrent use once built.
type Engine struct {
	converters     []registeredConverter
	registry       *FormatRegistry
	keepDataURIs   bool
	office         OfficeConfig
	officeDisabled bool
	executer       executer.Executer
}

// New creates a new Engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{office: DefaultOfficeConfig()}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = DefaultFormatRegistry()
	}
	if e.executer == nil {
		e.executer = executer.NewCommonExecuter()
	}
	e.enableBuiltins()
	return e
}

// Registry returns the format registry the engine resolves formats against.
func (e *Engine) Registry() *FormatRegistry {
	return e.registry
}

// RegisterConverter adds a converter with the given priority.
// Lower priority values are tried first.
func (e *Engine) RegisterConverter(name string, c DocumentConverter, priority float64) {
	e.converters = append(e.converters, registeredConverter{
		converter: c,
		priority:  priority,
		name:      name,
	})
	sort.SliceStable(e.converters, func(i, j int) bool {
		return e.converters[i].priority < e.converters[j].priority
	})
}

// Convert converts the document at inputPath into outputPath. The call blocks until the
// conversion finished; converters are tried in priority order until one succeeds.
func (e *Engine) Convert(ctx context.Context, inputPath string, in DocumentFormat, outputPath string, out DocumentFormat) error {
	job := Job{
		InputPath:    inputPath,
		InputFormat:  in,
		OutputPath:   outputPath,
		OutputFormat: out,
	}

	var failedAttempts []FailedConversionAttempt
	for _, rc := range e.converters {
		if !rc.converter.Accepts(job) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := runConverter(ctx, rc, job); err != nil {
			failedAttempts = append(failedAttempts, FailedConversionAttempt{
				Converter: rc.name,
				Err:       err,
			})
			continue
		}
		return nil
	}

	if len(failedAttempts) > 0 {
		return &ConversionError{Attempts: failedAttempts}
	}
	return &UnsupportedConversionError{From: in, To: out}
}

// runConverter runs one attempt. A panic inside a parser becomes the attempt's error so
// the remaining converters still get their turn.
func runConverter(ctx context.Context, rc registeredConverter, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s converter panicked: %v", rc.name, r)
		}
	}()
	return rc.converter.Convert(ctx, job)
}

// ConvertFile converts between two local files, deriving both formats from the file
// names. The input format falls back to content sniffing when its extension is unknown.
func (e *Engine) ConvertFile(ctx context.Context, inputPath, outputPath string) error {
	in, ok := e.DetectFormat(inputPath)
	if !ok {
		return fmt.Errorf("cannot determine format of %s", inputPath)
	}
	out, ok := e.registry.FormatByExtension(filepath.Ext(outputPath))
	if !ok {
		return fmt.Errorf("unsupported output extension %q", filepath.Ext(outputPath))
	}
	return e.Convert(ctx, inputPath, in, outputPath, out)
}

// DetectFormat resolves the format of a local file, first by extension and then by
// sniffing its content.
func (e *Engine) DetectFormat(path string) (DocumentFormat, bool) {
	if f, ok := e.registry.FormatByExtension(filepath.Ext(path)); ok {
		return f, true
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return DocumentFormat{}, false
	}
	// Walk up the hierarchy so e.g. a specific XML dialect still maps to XML.
	for m := mtype; m != nil; m = m.Parent() {
		if f, ok := e.registry.FormatByMediaType(m.String()); ok {
			return f, true
		}
	}
	return DocumentFormat{}, false
}

// enableBuiltins registers all built-in converters.
func (e *Engine) enableBuiltins() {
	// Specific format extractors (priority 0.0 - tried first)
	e.RegisterConverter("csv", newTextConverter(NewCsvExtractor()), PrioritySpecific)
	e.RegisterConverter("rss", newTextConverter(NewRSSExtractor()), PrioritySpecific)
	e.RegisterConverter("ipynb", newTextConverter(NewIpynbExtractor()), PrioritySpecific)
	e.RegisterConverter("xlsx", newTextConverter(NewXlsxExtractor()), PrioritySpecific)
	e.RegisterConverter("xls", newTextConverter(NewXlsExtractor()), PrioritySpecific)
	e.RegisterConverter("pdf", newTextConverter(NewPdfExtractor()), PrioritySpecific)

	// Generic text extractors (priority 10.0)
	e.RegisterConverter("html", newTextConverter(NewHTMLExtractor(e.keepDataURIs)), PriorityGeneric)
	e.RegisterConverter("plaintext", newTextConverter(NewPlainTextExtractor()), PriorityGeneric)

	if e.officeDisabled {
		return
	}
	office := NewOfficeConverter(e.office, e.executer)
	e.RegisterConverter("office", office, PriorityOffice)
	if html, ok := e.registry.FormatByMediaType("text/html"); ok {
		e.RegisterConverter("office-text", newOfficeTextConverter(office, html, e.keepDataURIs), PriorityOffice)
	}
}
