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
	"errors"
	"maps"
	"mime"
	"strings"
	"sync"
)

// Family groups formats by the office application able to load them. The store filter
// used to write a format depends on the family of the document being written.
type Family string

const (
	FamilyText         Family = "text"
	FamilySpreadsheet  Family = "spreadsheet"
	FamilyPresentation Family = "presentation"
	FamilyDrawing      Family = "drawing"
)

// DocumentFormat identifies a document format by MIME type and file extension.
type DocumentFormat struct {
	Name         string            `yaml:"name" json:"name"`
	MediaType    string            `yaml:"media_type" json:"media_type"`
	Extension    string            `yaml:"extension" json:"extension"`
	InputFamily  Family            `yaml:"input_family,omitempty" json:"input_family,omitempty"`
	StoreFilters map[Family]string `yaml:"store_filters,omitempty" json:"store_filters,omitempty"`
}

// StoreFilter returns the office export filter that writes this format from a document
// of the given family.
func (f DocumentFormat) StoreFilter(family Family) (string, bool) {
	if family == "" {
		return "", false
	}
	filter, ok := f.StoreFilters[family]
	return filter, ok && filter != ""
}

// FormatRegistry maps MIME types and extensions to document formats. It is safe for
// concurrent use.
type FormatRegistry struct {
	mu          sync.RWMutex
	formats     []DocumentFormat
	byMediaType map[string]int
	byExtension map[string]int
}

// NewFormatRegistry creates a registry holding the given formats. Invalid formats are
// skipped; use Add to see why a format was rejected.
func NewFormatRegistry(formats ...DocumentFormat) *FormatRegistry {
	r := &FormatRegistry{
		byMediaType: make(map[string]int),
		byExtension: make(map[string]int),
	}
	for _, f := range formats {
		_ = r.Add(f)
	}
	return r
}

// Add registers a format. A format whose MIME type is already known replaces the old
// entry; the first format registered for an extension keeps that extension.
func (r *FormatRegistry) Add(f DocumentFormat) error {
	mediaType := normalizeMediaType(f.MediaType)
	ext := normalizeExtension(f.Extension)
	switch {
	case mediaType == "":
		return errors.New("format media type is empty")
	case ext == "":
		return errors.New("format extension is empty")
	}

	f.MediaType = mediaType
	f.Extension = ext
	if f.Name == "" {
		f.Name = strings.ToUpper(ext)
	}
	f.StoreFilters = maps.Clone(f.StoreFilters)

	r.mu.Lock()
	defer r.mu.Unlock()

	if idx, ok := r.byMediaType[mediaType]; ok {
		r.formats[idx] = f
	} else {
		r.formats = append(r.formats, f)
		r.byMediaType[mediaType] = len(r.formats) - 1
	}
	if _, ok := r.byExtension[ext]; !ok {
		r.byExtension[ext] = r.byMediaType[mediaType]
	}
	return nil
}

// FormatByMediaType looks a format up by MIME type. Parameters such as charset are
// ignored and the comparison is case-insensitive.
func (r *FormatRegistry) FormatByMediaType(mediaType string) (DocumentFormat, bool) {
	key := normalizeMediaType(mediaType)
	if key == "" {
		return DocumentFormat{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.byMediaType[key]
	if !ok {
		return DocumentFormat{}, false
	}
	return r.formats[idx], true
}

// FormatByExtension looks a format up by file extension, with or without the dot.
func (r *FormatRegistry) FormatByExtension(ext string) (DocumentFormat, bool) {
	key := normalizeExtension(ext)
	if key == "" {
		return DocumentFormat{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.byExtension[key]
	if !ok {
		return DocumentFormat{}, false
	}
	return r.formats[idx], true
}

// Formats returns every registered format in registration order.
func (r *FormatRegistry) Formats() []DocumentFormat {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]DocumentFormat, len(r.formats))
	copy(out, r.formats)
	return out
}

func normalizeMediaType(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if mt, _, err := mime.ParseMediaType(s); err == nil {
		return mt
	}
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizeExtension(s string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
}

// DefaultFormatRegistry returns a registry with the formats the built-in converters
// understand. Office store filters are LibreOffice filter names.
func DefaultFormatRegistry() *FormatRegistry {
	return NewFormatRegistry(defaultFormats()...)
}

func defaultFormats() []DocumentFormat {
	return []DocumentFormat{
		{
			Name: "Portable Document Format", MediaType: "application/pdf", Extension: "pdf",
			InputFamily: FamilyDrawing,
			StoreFilters: map[Family]string{
				FamilyText:         "writer_pdf_Export",
				FamilySpreadsheet:  "calc_pdf_Export",
				FamilyPresentation: "impress_pdf_Export",
				FamilyDrawing:      "draw_pdf_Export",
			},
		},
		{
			Name: "HTML", MediaType: "text/html", Extension: "html",
			InputFamily: FamilyText,
			StoreFilters: map[Family]string{
				FamilyText:         "HTML (StarWriter)",
				FamilySpreadsheet:  "HTML (StarCalc)",
				FamilyPresentation: "impress_html_Export",
			},
		},
		{
			Name: "XHTML", MediaType: "application/xhtml+xml", Extension: "xhtml",
			InputFamily: FamilyText,
			StoreFilters: map[Family]string{
				FamilyText:         "XHTML Writer File",
				FamilySpreadsheet:  "XHTML Calc File",
				FamilyPresentation: "XHTML Impress File",
			},
		},
		{
			Name: "OpenDocument Text", MediaType: "application/vnd.oasis.opendocument.text", Extension: "odt",
			InputFamily:  FamilyText,
			StoreFilters: map[Family]string{FamilyText: "writer8"},
		},
		{
			Name: "Microsoft Word", MediaType: "application/msword", Extension: "doc",
			InputFamily:  FamilyText,
			StoreFilters: map[Family]string{FamilyText: "MS Word 97"},
		},
		{
			Name: "Microsoft Word 2007 XML", MediaType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document", Extension: "docx",
			InputFamily:  FamilyText,
			StoreFilters: map[Family]string{FamilyText: "MS Word 2007 XML"},
		},
		{
			Name: "Rich Text Format", MediaType: "text/rtf", Extension: "rtf",
			InputFamily:  FamilyText,
			StoreFilters: map[Family]string{FamilyText: "Rich Text Format"},
		},
		{
			Name: "WordPerfect", MediaType: "application/wordperfect", Extension: "wpd",
			InputFamily: FamilyText,
		},
		{
			Name: "Plain Text", MediaType: "text/plain", Extension: "txt",
			InputFamily:  FamilyText,
			StoreFilters: map[Family]string{FamilyText: "Text"},
		},
		{Name: "Markdown", MediaType: "text/markdown", Extension: "md"},
		{
			Name: "Comma Separated Values", MediaType: "text/csv", Extension: "csv",
			InputFamily:  FamilySpreadsheet,
			StoreFilters: map[Family]string{FamilySpreadsheet: "Text - txt - csv (StarCalc)"},
		},
		{
			Name: "Tab Separated Values", MediaType: "text/tab-separated-values", Extension: "tsv",
			InputFamily:  FamilySpreadsheet,
			StoreFilters: map[Family]string{FamilySpreadsheet: "Text - txt - csv (StarCalc)"},
		},
		{
			Name: "OpenDocument Spreadsheet", MediaType: "application/vnd.oasis.opendocument.spreadsheet", Extension: "ods",
			InputFamily:  FamilySpreadsheet,
			StoreFilters: map[Family]string{FamilySpreadsheet: "calc8"},
		},
		{
			Name: "Microsoft Excel", MediaType: "application/vnd.ms-excel", Extension: "xls",
			InputFamily:  FamilySpreadsheet,
			StoreFilters: map[Family]string{FamilySpreadsheet: "MS Excel 97"},
		},
		{
			Name: "Microsoft Excel 2007 XML", MediaType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", Extension: "xlsx",
			InputFamily:  FamilySpreadsheet,
			StoreFilters: map[Family]string{FamilySpreadsheet: "Calc MS Excel 2007 XML"},
		},
		{
			Name: "OpenDocument Presentation", MediaType: "application/vnd.oasis.opendocument.presentation", Extension: "odp",
			InputFamily:  FamilyPresentation,
			StoreFilters: map[Family]string{FamilyPresentation: "impress8"},
		},
		{
			Name: "Microsoft PowerPoint", MediaType: "application/vnd.ms-powerpoint", Extension: "ppt",
			InputFamily:  FamilyPresentation,
			StoreFilters: map[Family]string{FamilyPresentation: "MS PowerPoint 97"},
		},
		{
			Name: "Microsoft PowerPoint 2007 XML", MediaType: "application/vnd.openxmlformats-officedocument.presentationml.presentation", Extension: "pptx",
			InputFamily:  FamilyPresentation,
			StoreFilters: map[Family]string{FamilyPresentation: "Impress MS PowerPoint 2007 XML"},
		},
		{
			Name: "OpenDocument Drawing", MediaType: "application/vnd.oasis.opendocument.graphics", Extension: "odg",
			InputFamily:  FamilyDrawing,
			StoreFilters: map[Family]string{FamilyDrawing: "draw8"},
		},
		{
			Name: "Scalable Vector Graphics", MediaType: "image/svg+xml", Extension: "svg",
			StoreFilters: map[Family]string{FamilyDrawing: "draw_svg_Export"},
		},
		{
			Name: "Portable Network Graphics", MediaType: "image/png", Extension: "png",
			StoreFilters: map[Family]string{
				FamilyPresentation: "impress_png_Export",
				FamilyDrawing:      "draw_png_Export",
			},
		},
		{Name: "JSON", MediaType: "application/json", Extension: "json"},
		{Name: "XML", MediaType: "application/xml", Extension: "xml"},
		{Name: "RSS", MediaType: "application/rss+xml", Extension: "rss"},
		{Name: "Atom", MediaType: "application/atom+xml", Extension: "atom"},
		{Name: "Jupyter Notebook", MediaType: "application/x-ipynb+json", Extension: "ipynb"},
	}
}
