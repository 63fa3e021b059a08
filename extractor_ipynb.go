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
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// IpynbExtractor renders Jupyter notebooks: Markdown cells verbatim, code cells and
// their text outputs as fenced blocks.
type IpynbExtractor struct{}

func NewIpynbExtractor() *IpynbExtractor {
	return &IpynbExtractor{}
}

func (c *IpynbExtractor) Accepts(info StreamInfo) bool {
	return info.Extension == ".ipynb" || strings.EqualFold(info.MIMEType, "application/x-ipynb+json")
}

type notebook struct {
	Metadata struct {
		KernelSpec *struct {
			Language string `json:"language"`
		} `json:"kernelspec"`
	} `json:"metadata"`
	Cells []notebookCell `json:"cells"`
}

type notebookCell struct {
	CellType string           `json:"cell_type"`
	Source   multilineString  `json:"source"`
	Outputs  []notebookOutput `json:"outputs"`
}

type notebookOutput struct {
	Text multilineString            `json:"text"`
	Data map[string]multilineString `json:"data"`
}

// multilineString is a notebook text field, stored either as one string or as a
// list of lines.
type multilineString string

func (m *multilineString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*m = multilineString(s)
		return nil
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		// Non-text payloads (images, widgets) are ignored.
		*m = ""
		return nil
	}
	*m = multilineString(strings.Join(lines, ""))
	return nil
}

func (c *IpynbExtractor) Extract(reader io.ReadSeeker, info StreamInfo) (*ExtractResult, error) {
	var nb notebook
	if err := json.NewDecoder(reader).Decode(&nb); err != nil {
		return nil, fmt.Errorf("parse notebook JSON: %w", err)
	}

	language := "python"
	if ks := nb.Metadata.KernelSpec; ks != nil && ks.Language != "" {
		language = ks.Language
	}

	var sections []string
	var title string
	for _, cell := range nb.Cells {
		source := string(cell.Source)
		if strings.TrimSpace(source) == "" && cell.CellType != "code" {
			continue
		}

		switch cell.CellType {
		case "markdown":
			sections = append(sections, source)
			if title == "" {
				title = firstHeading(source)
			}
		case "code":
			if strings.TrimSpace(source) != "" {
				sections = append(sections, fmt.Sprintf("```%s\n%s\n```", language, source))
			}
			for _, out := range cell.Outputs {
				if text := outputText(out); text != "" {
					sections = append(sections, fmt.Sprintf("```\n%s\n```", text))
				}
			}
		case "raw":
			sections = append(sections, fmt.Sprintf("```\n%s\n```", source))
		}
	}

	return &ExtractResult{Markdown: strings.Join(sections, "\n\n"), Title: title}, nil
}

func firstHeading(md string) string {
	for _, line := range strings.Split(md, "\n") {
		if h, ok := strings.CutPrefix(strings.TrimSpace(line), "# "); ok {
			return strings.TrimSpace(h)
		}
	}
	return ""
}

func outputText(out notebookOutput) string {
	if out.Text != "" {
		return strings.TrimRight(string(out.Text), "\n")
	}
	return strings.TrimRight(string(out.Data["text/plain"]), "\n")
}
