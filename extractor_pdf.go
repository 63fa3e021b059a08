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
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PdfExtractor pulls the text layer out of PDF documents.
type PdfExtractor struct{}

func NewPdfExtractor() *PdfExtractor {
	return &PdfExtractor{}
}

func (c *PdfExtractor) Accepts(info StreamInfo) bool {
	if info.Extension == ".pdf" {
		return true
	}
	return strings.HasPrefix(strings.ToLower(info.MIMEType), "application/pdf")
}

func (c *PdfExtractor) Extract(reader io.ReadSeeker, info StreamInfo) (*ExtractResult, error) {
	r, err := openPDF(reader)
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}

	var md strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		if text := strings.TrimSpace(pageText(page)); text != "" {
			md.WriteString(text)
			md.WriteString("\n\n")
		}
	}

	if strings.TrimSpace(md.String()) == "" {
		return &ExtractResult{Markdown: "[No readable text content found in PDF]"}, nil
	}
	return &ExtractResult{Markdown: md.String()}, nil
}

func openPDF(reader io.ReadSeeker) (*pdf.Reader, error) {
	if f, ok := reader.(*os.File); ok {
		st, err := f.Stat()
		if err != nil {
			return nil, err
		}
		return pdf.NewReader(f, st.Size())
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	return pdf.NewReader(bytes.NewReader(data), int64(len(data)))
}

// pageText joins the page text row by row, falling back to grouping positioned
// glyphs into lines when the row layout is empty.
func pageText(page pdf.Page) string {
	if rows, err := page.GetTextByRow(); err == nil {
		var b strings.Builder
		for _, row := range rows {
			var line strings.Builder
			gap := false
			for _, word := range row.Content {
				if word.S == "" {
					gap = true
					continue
				}
				if gap && line.Len() > 0 && !strings.HasSuffix(line.String(), " ") {
					line.WriteString(" ")
				}
				line.WriteString(word.S)
				gap = false
			}
			if text := strings.TrimSpace(line.String()); text != "" {
				b.WriteString(text)
				b.WriteString("\n")
			}
		}
		if strings.TrimSpace(b.String()) != "" {
			return b.String()
		}
	}
	return positionedText(page.Content().Text)
}

type glyphLine struct {
	y      float64
	glyphs []pdf.Text
}

func positionedText(texts []pdf.Text) string {
	var lines []glyphLine
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		tolerance := max(t.FontSize*0.3, 1)
		placed := false
		for i := range lines {
			if d := lines[i].y - t.Y; d < tolerance && d > -tolerance {
				lines[i].glyphs = append(lines[i].glyphs, t)
				placed = true
				break
			}
		}
		if !placed {
			lines = append(lines, glyphLine{y: t.Y, glyphs: []pdf.Text{t}})
		}
	}

	// PDF y grows upwards.
	sort.Slice(lines, func(i, j int) bool { return lines[i].y > lines[j].y })

	var b strings.Builder
	for _, ln := range lines {
		sort.Slice(ln.glyphs, func(i, j int) bool { return ln.glyphs[i].X < ln.glyphs[j].X })
		var line strings.Builder
		end := 0.0
		for i, g := range ln.glyphs {
			if i > 0 && g.X-end > max(g.FontSize*0.2, 1) {
				line.WriteString(" ")
			}
			line.WriteString(g.S)
			end = g.X + g.W
		}
		if text := strings.TrimSpace(line.String()); text != "" {
			b.WriteString(text)
			b.WriteString("\n")
		}
	}
	return b.String()
}
