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
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CsvExtractor renders comma and tab separated values as a Markdown table.
type CsvExtractor struct{}

// NewCsvExtractor creates a new CsvExtractor.
func NewCsvExtractor() *CsvExtractor {
	return &CsvExtractor{}
}

func (c *CsvExtractor) Accepts(info StreamInfo) bool {
	switch info.Extension {
	case ".csv", ".tsv":
		return true
	}
	mime := strings.ToLower(info.MIMEType)
	return strings.HasPrefix(mime, "text/csv") ||
		strings.HasPrefix(mime, "application/csv") ||
		strings.HasPrefix(mime, "text/tab-separated-values")
}

func (c *CsvExtractor) Extract(reader io.ReadSeeker, info StreamInfo) (*ExtractResult, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	r := csv.NewReader(strings.NewReader(decodeText(data)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	if info.Extension == ".tsv" || strings.HasPrefix(strings.ToLower(info.MIMEType), "text/tab-separated-values") {
		r.Comma = '\t'
	}
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse CSV: %w", err)
	}

	return &ExtractResult{Markdown: renderMarkdownTable(widen(records))}, nil
}

// renderMarkdownTable renders rows as a Markdown table. The first row is the header and
// fixes the column count; short rows are padded, long rows are cut.
func renderMarkdownTable(rows [][]string) string {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return ""
	}
	cols := len(rows[0])

	var b strings.Builder
	writeRow := func(row []string) {
		b.WriteString("|")
		for i := range cols {
			cell := ""
			if i < len(row) {
				cell = tableCell(row[i])
			}
			b.WriteString(" " + cell + " |")
		}
		b.WriteString("\n")
	}

	writeRow(rows[0])
	b.WriteString("|" + strings.Repeat(" --- |", cols) + "\n")
	for _, row := range rows[1:] {
		writeRow(row)
	}
	return b.String()
}

var tableCellReplacer = strings.NewReplacer("|", `\|`, "\r\n", "<br>", "\n", "<br>")

func tableCell(s string) string {
	return tableCellReplacer.Replace(strings.TrimSpace(s))
}
