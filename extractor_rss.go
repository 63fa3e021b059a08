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

	"github.com/mmcdole/gofeed"
)

// RSSExtractor renders RSS and Atom feeds. Generic XML is accepted too; documents
// that are not feeds fail here and fall through to the plain text extractor.
type RSSExtractor struct{}

func NewRSSExtractor() *RSSExtractor {
	return &RSSExtractor{}
}

func (c *RSSExtractor) Accepts(info StreamInfo) bool {
	switch info.Extension {
	case ".rss", ".atom", ".xml":
		return true
	}
	mime := strings.ToLower(info.MIMEType)
	for _, prefix := range []string{"application/rss", "application/atom", "application/xml", "text/xml"} {
		if strings.HasPrefix(mime, prefix) {
			return true
		}
	}
	return false
}

func (c *RSSExtractor) Extract(reader io.ReadSeeker, info StreamInfo) (*ExtractResult, error) {
	feed, err := gofeed.NewParser().Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	var b strings.Builder
	if feed.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", feed.Title)
	}
	if feed.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", feed.Description)
	}

	for _, item := range feed.Items {
		if item.Title != "" {
			fmt.Fprintf(&b, "## %s\n\n", item.Title)
		}
		switch {
		case item.Published != "":
			fmt.Fprintf(&b, "Published: %s\n\n", item.Published)
		case item.Updated != "":
			fmt.Fprintf(&b, "Updated: %s\n\n", item.Updated)
		}
		if item.Link != "" {
			fmt.Fprintf(&b, "<%s>\n\n", item.Link)
		}

		content := item.Content
		if content == "" {
			content = item.Description
		}
		if strings.ContainsAny(content, "<>") {
			if md, err := htmlFragmentToMarkdown(content); err == nil {
				content = md
			}
		}
		if content != "" {
			b.WriteString(content)
			b.WriteString("\n\n")
		}
	}

	return &ExtractResult{Markdown: b.String(), Title: feed.Title}, nil
}
