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

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// XlsxExtractor renders every sheet of an XLSX workbook as a Markdown table.
type XlsxExtractor struct{}

// NewXlsxExtractor creates a new XlsxExtractor.
func NewXlsxExtractor() *XlsxExtractor {
	return &XlsxExtractor{}
}

func (c *XlsxExtractor) Accepts(info StreamInfo) bool {
	if info.Extension == ".xlsx" {
		return true
	}
	return strings.HasPrefix(strings.ToLower(info.MIMEType), "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
}

func (c *XlsxExtractor) Extract(reader io.ReadSeeker, info StreamInfo) (*ExtractResult, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("open XLSX: %w", err)
	}
	defer f.Close()

	var sheets []sheetRows
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		sheets = append(sheets, sheetRows{name: name, rows: rows})
	}
	return &ExtractResult{Markdown: renderSheets(sheets)}, nil
}

// XlsExtractor renders legacy XLS workbooks. The underlying reader needs a path, so
// the extractor works off StreamInfo.LocalPath.
type XlsExtractor struct{}

// NewXlsExtractor creates a new XlsExtractor.
func NewXlsExtractor() *XlsExtractor {
	return &XlsExtractor{}
}

func (c *XlsExtractor) Accepts(info StreamInfo) bool {
	if info.LocalPath == "" {
		return false
	}
	if info.Extension == ".xls" {
		return true
	}
	return strings.HasPrefix(strings.ToLower(info.MIMEType), "application/vnd.ms-excel")
}

func (c *XlsExtractor) Extract(_ io.ReadSeeker, info StreamInfo) (*ExtractResult, error) {
	wb, err := xls.Open(info.LocalPath, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open XLS: %w", err)
	}

	var sheets []sheetRows
	for i := 0; i < wb.NumSheets(); i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}
		name := sheet.Name
		if name == "" {
			name = fmt.Sprintf("Sheet%d", i+1)
		}

		var rows [][]string
		for r := 0; r <= int(sheet.MaxRow); r++ {
			row := sheet.Row(r)
			if row == nil {
				continue
			}
			cells := make([]string, 0, row.LastCol())
			for col := 0; col < row.LastCol(); col++ {
				cells = append(cells, row.Col(col))
			}
			rows = append(rows, cells)
		}
		sheets = append(sheets, sheetRows{name: name, rows: rows})
	}
	return &ExtractResult{Markdown: renderSheets(sheets)}, nil
}

type sheetRows struct {
	name string
	rows [][]string
}

// renderSheets writes one "## name" section with a table per non-empty sheet.
func renderSheets(sheets []sheetRows) string {
	var md strings.Builder
	for _, s := range sheets {
		if len(s.rows) == 0 {
			continue
		}
		fmt.Fprintf(&md, "## %s\n\n", s.name)
		md.WriteString(renderMarkdownTable(widen(s.rows)))
		md.WriteString("\n")
	}
	return md.String()
}

// widen pads the header row to the widest row so no cell gets cut.
func widen(rows [][]string) [][]string {
	if len(rows) == 0 {
		return rows
	}
	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}
	if len(rows[0]) == width {
		return rows
	}
	header := make([]string, width)
	copy(header, rows[0])
	return append([][]string{header}, rows[1:]...)
}
